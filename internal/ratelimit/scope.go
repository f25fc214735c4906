package ratelimit

import (
	"fmt"
	"time"
)

// Scope namespaces rate-limit counters so different guards never share a window.
type Scope string

const (
	// ScopeCreate guards link creation.
	ScopeCreate Scope = "create"
	// ScopeRedirect guards redirect lookups.
	ScopeRedirect Scope = "redirect"
)

// LimitConfig is a quota of Max admissions per Window.
type LimitConfig struct {
	Window time.Duration
	Max    int64
}

// Key builds the counter key for a client within a scope and window.
func (s Scope) Key(clientKey string, window time.Duration) string {
	return fmt.Sprintf("%s:%s:%d", s, clientKey, window.Milliseconds())
}
