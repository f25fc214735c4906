package container_test

import (
	"testing"
	"time"

	"github.com/serroba/shortlink/internal/container"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func validOptions() *container.Options {
	return &container.Options{
		Port:                   8888,
		Environment:            "production",
		LogFormat:              "json",
		LogLevel:               "info",
		Storage:                container.StorageMemory,
		Cache:                  container.CacheMemory,
		CodeLength:             7,
		Alphabet:               "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ",
		MaxAttempts:            5,
		CacheTTLSeconds:        3600,
		RateLimitMax:           10,
		RateLimitWindowSeconds: 60,
		RedirectLimitMax:       1000,
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(o *container.Options)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*container.Options) {}},
		{
			name:    "port out of range",
			mutate:  func(o *container.Options) { o.Port = 70000 },
			wantErr: "port 70000 out of range",
		},
		{
			name:    "unknown storage",
			mutate:  func(o *container.Options) { o.Storage = "mysql" },
			wantErr: `unknown storage "mysql"`,
		},
		{
			name: "postgres without url",
			mutate: func(o *container.Options) {
				o.Storage = container.StoragePostgres
				o.DatabaseURL = ""
			},
			wantErr: "postgres storage needs a database url",
		},
		{
			name:    "unknown cache",
			mutate:  func(o *container.Options) { o.Cache = "memcached" },
			wantErr: `unknown cache "memcached"`,
		},
		{
			name:    "unknown log format",
			mutate:  func(o *container.Options) { o.LogFormat = "xml" },
			wantErr: `unknown log format "xml"`,
		},
		{
			name:    "too many attempts",
			mutate:  func(o *container.Options) { o.MaxAttempts = 11 },
			wantErr: "max attempts 11 out of range",
		},
		{
			name:    "zero attempts",
			mutate:  func(o *container.Options) { o.MaxAttempts = 0 },
			wantErr: "max attempts 0 out of range",
		},
		{
			name:    "non-positive ttl",
			mutate:  func(o *container.Options) { o.CacheTTLSeconds = 0 },
			wantErr: "cache ttl must be positive",
		},
		{
			name:    "zero quota",
			mutate:  func(o *container.Options) { o.RateLimitMax = 0 },
			wantErr: "creation rate limit quota and window must be positive",
		},
		{
			name:    "zero redirect quota",
			mutate:  func(o *container.Options) { o.RedirectLimitMax = 0 },
			wantErr: "redirect rate limit must be positive",
		},
		{
			name:    "bad trusted proxy",
			mutate:  func(o *container.Options) { o.TrustedProxies = "10.0.0.0/8,proxy.local" },
			wantErr: `trusted proxy "proxy.local"`,
		},
		{
			name:    "empty alphabet",
			mutate:  func(o *container.Options) { o.Alphabet = "" },
			wantErr: "alphabet",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := validOptions()
			tt.mutate(opts)

			err := opts.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("reports every problem at once", func(t *testing.T) {
		opts := validOptions()
		opts.Storage = "mysql"
		opts.Cache = "memcached"

		err := opts.Validate()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown storage")
		assert.Contains(t, err.Error(), "unknown cache")
	})
}

func TestOptionsDerivedValues(t *testing.T) {
	t.Run("base url defaults to localhost and port", func(t *testing.T) {
		opts := validOptions()

		assert.Equal(t, "http://localhost:8888", opts.PublicBaseURL())

		opts.BaseURL = "https://sho.rt"
		assert.Equal(t, "https://sho.rt", opts.PublicBaseURL())
	})

	t.Run("durations and quotas", func(t *testing.T) {
		opts := validOptions()

		assert.Equal(t, time.Hour, opts.CacheTTL())
		assert.Equal(t, int64(10), opts.CreateLimit().Max)
		assert.Equal(t, time.Minute, opts.CreateLimit().Window)
		assert.Equal(t, int64(1000), opts.RedirectLimit().Max)
	})

	t.Run("events need the redis cache", func(t *testing.T) {
		opts := validOptions()
		opts.Events = true

		assert.False(t, opts.EventsEnabled())

		opts.Cache = container.CacheRedis
		assert.True(t, opts.EventsEnabled())

		opts.Events = false
		assert.False(t, opts.EventsEnabled())
	})

	t.Run("development exposes details", func(t *testing.T) {
		opts := validOptions()
		assert.False(t, opts.Development())

		opts.Environment = container.EnvDevelopment
		assert.True(t, opts.Development())
	})
}

func TestNewLogger(t *testing.T) {
	t.Run("json at warn", func(t *testing.T) {
		logger, err := container.NewLogger("json", "warn")

		require.NoError(t, err)
		assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
		assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
	})

	t.Run("console at debug", func(t *testing.T) {
		logger, err := container.NewLogger("console", "debug")

		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("unknown level", func(t *testing.T) {
		_, err := container.NewLogger("json", "loud")

		require.Error(t, err)
	})
}
