package recurrence

import (
	"io"
	"log/slog"
	"time"
)

// EngineConfig controls caching and how far an Engine walks a rule
type EngineConfig struct {
	CacheEnabled bool
	// CacheConfig is used when CacheEnabled is set. A zero MaxEntries falls
	// back to DefaultCacheConfig.
	CacheConfig CacheConfig

	// MaxExpansionOccurrences bounds how many in-range occurrences
	// HasOccurrenceInRange inspects. Zero means no bound.
	MaxExpansionOccurrences int
	// A query window longer than LargeRangeThreshold is cut to its first
	// LargeRangeLimit. Zero disables the cut.
	LargeRangeThreshold time.Duration
	LargeRangeLimit     time.Duration

	// Logger receives debug records about cache use and expansion limits.
	// Nil discards them.
	Logger *slog.Logger
}

// DefaultEngineConfig caches expansions and cuts occurrence checks to a
// quarter of a year
var DefaultEngineConfig = EngineConfig{
	CacheEnabled: true,
	CacheConfig:  DefaultCacheConfig,

	MaxExpansionOccurrences: 100,
	LargeRangeThreshold:     90 * 24 * time.Hour,
	LargeRangeLimit:         90 * 24 * time.Hour,
}

// DisabledCacheConfig expands every call afresh and checks a full year
var DisabledCacheConfig = EngineConfig{
	MaxExpansionOccurrences: 1000,
	LargeRangeThreshold:     365 * 24 * time.Hour,
	LargeRangeLimit:         365 * 24 * time.Hour,
}

// NewEngineWithConfig creates an Engine from config
func NewEngineWithConfig(config EngineConfig) *Engine {
	var cache *RecurrenceCache
	if config.CacheEnabled {
		if config.CacheConfig.MaxEntries <= 0 {
			config.CacheConfig = DefaultCacheConfig
		}
		cache = NewRecurrenceCache(config.CacheConfig)
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Engine{
		cache:  cache,
		config: config,
		logger: logger,
	}
}
