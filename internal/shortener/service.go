package shortener

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/serroba/shortlink/internal/ratelimit"
	"go.uber.org/zap"
)

const (
	DefaultMaxAttempts = 5
	DefaultCacheTTL    = time.Hour
)

// Config holds the tunables of the resolution pipeline.
type Config struct {
	BaseURL     string
	CacheTTL    time.Duration
	MaxAttempts int
	Alphabet    string
}

// Service orchestrates link creation and redirect resolution over a Store,
// a Cache and a per-client Limiter.
type Service struct {
	store    Store
	cache    Cache
	limiter  ratelimit.Limiter
	generate CodeGenerator
	cfg      Config
	logger   *zap.Logger
}

// NewService creates a resolution service. Zero-valued config fields fall back to defaults.
func NewService(
	store Store,
	cache Cache,
	limiter ratelimit.Limiter,
	generate CodeGenerator,
	cfg Config,
	logger *zap.Logger,
) *Service {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}

	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}

	if cfg.Alphabet == "" {
		cfg.Alphabet = DefaultAlphabet
	}

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Service{
		store:    store,
		cache:    cache,
		limiter:  limiter,
		generate: generate,
		cfg:      cfg,
		logger:   logger,
	}
}

// Create validates the long URL, charges the client's rate limit, commits a
// new mapping under a freshly generated short ID and populates the cache.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	if strings.TrimSpace(req.LongURL) == "" {
		return nil, ErrMissingURL
	}

	longURL := NormalizeURL(req.LongURL)
	if !ValidateURL(longURL) {
		return nil, ErrInvalidURL
	}

	allowed, err := s.limiter.Allow(ctx, req.ClientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRateLimiterUnavailable, err)
	}

	if !allowed {
		return nil, ErrRateLimited
	}

	mapping, err := s.insert(ctx, longURL)
	if err != nil {
		return nil, err
	}

	s.populate(ctx, mapping.ID, mapping.LongURL)

	return &CreateResult{
		ShortURL:  s.cfg.BaseURL + "/" + string(mapping.ID),
		ShortID:   mapping.ID,
		LongURL:   mapping.LongURL,
		CreatedAt: mapping.CreatedAt,
	}, nil
}

// Resolve looks the short ID up in the cache, falling back to the store and
// backfilling the cache on a miss. The returned long URL is normalized.
func (s *Service) Resolve(ctx context.Context, rawID string) (*Resolution, error) {
	id := ShortID(strings.TrimSpace(rawID))
	if id == "" {
		return nil, ErrMissingShortID
	}

	// IDs outside the alphabet can never have been issued.
	if !IsValidID(s.cfg.Alphabet, string(id)) {
		return nil, ErrNotFound
	}

	longURL, err := s.cache.Get(ctx, id)

	switch {
	case err == nil && longURL != "":
		return &Resolution{ShortID: id, LongURL: NormalizeURL(longURL), Source: SourceCache}, nil
	case err != nil && !errors.Is(err, ErrCacheMiss):
		s.logger.Warn("cache lookup failed, falling back to store",
			zap.String("short_id", string(id)),
			zap.Error(err),
		)
	}

	mapping, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	s.populate(ctx, id, mapping.LongURL)

	return &Resolution{ShortID: id, LongURL: NormalizeURL(mapping.LongURL), Source: SourceStore}, nil
}

// insert commits a mapping, regenerating the ID on uniqueness violations
// until MaxAttempts is reached.
func (s *Service) insert(ctx context.Context, longURL string) (*Mapping, error) {
	var lastErr error

	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		candidate := &Mapping{
			ID:        ShortID(s.generate()),
			LongURL:   longURL,
			CreatedAt: time.Now().UTC(),
		}

		stored, err := s.store.Insert(ctx, candidate)
		if err == nil {
			return stored, nil
		}

		if !errors.Is(err, ErrDuplicateID) {
			return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
		}

		lastErr = err

		s.logger.Debug("short id collision",
			zap.String("short_id", string(candidate.ID)),
			zap.Int("attempt", attempt),
		)

		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
	}

	s.logger.Warn("short id generation exhausted",
		zap.Int("attempts", s.cfg.MaxAttempts),
		zap.Int("alphabet_size", len(s.cfg.Alphabet)),
	)

	return nil, &GenerationError{Attempts: s.cfg.MaxAttempts, Last: lastErr}
}

// populate writes the mapping to the cache. Failures are logged only: the
// store stays authoritative and a later miss backfills the entry.
func (s *Service) populate(ctx context.Context, id ShortID, longURL string) {
	if ctx.Err() != nil {
		s.logger.Debug("request cancelled, skipping cache populate", zap.String("short_id", string(id)))

		return
	}

	if err := s.cache.Set(ctx, id, longURL, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("cache populate failed",
			zap.String("short_id", string(id)),
			zap.Error(err),
		)
	}
}
