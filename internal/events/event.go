// Package events defines the operational link events and their consumers.
package events

import "time"

const (
	TopicLinkCreated         = "link.created"
	TopicGenerationExhausted = "link.generation_exhausted"
)

// LinkCreated is emitted after a mapping has been committed to the store.
type LinkCreated struct {
	ShortID   string    `json:"shortId"`
	LongURL   string    `json:"longUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

// GenerationExhausted is emitted when every short ID candidate collided.
type GenerationExhausted struct {
	Attempts   int       `json:"attempts"`
	OccurredAt time.Time `json:"occurredAt"`
}
