// Package config provides configuration loading from environment variables.
package config

import (
	"os"
	"strconv"

	"github.com/usestring/harbind/internal/cache"
	"github.com/usestring/harbind/internal/logging"
	"github.com/usestring/harbind/internal/match"
	"github.com/usestring/harbind/internal/origin"
	"github.com/usestring/harbind/internal/plan"
	"github.com/usestring/harbind/pkg/har"
	"github.com/usestring/harbind/pkg/types"
)

// DefaultArchiveCacheItems is the number of parsed archives kept in memory.
const DefaultArchiveCacheItems = 16

// Config holds all configuration for the CLI and the MCP server.
type Config struct {
	// Inference tuning
	ResponseLookup         int     // HARBIND_RESPONSE_LOOKUP, default 5
	MaxSize                int     // HARBIND_MAX_SIZE, default 100000
	SizeThreshold          int     // HARBIND_SIZE_THRESHOLD, default 16
	MatchFractionThreshold float64 // HARBIND_MATCH_FRACTION, default 0.5
	MatchCacheSize         int     // HARBIND_MATCH_CACHE_SIZE, default 50
	MatchCachePolicy       string  // HARBIND_MATCH_CACHE_POLICY, default "lru"

	// Archive loading
	ArchiveCacheItems int // HARBIND_ARCHIVE_CACHE_ITEMS, default 16
	LoadWorkers       int // HARBIND_LOAD_WORKERS, default 4

	// Logging configuration
	LogLevel      string // LOG_LEVEL, default "info"
	LogFormat     string // LOG_FORMAT, default "text"
	LogFile       string // LOG_FILE, default "" (stderr only)
	LogMaxSizeMB  int    // LOG_MAX_SIZE_MB, default 10
	LogMaxBackups int    // LOG_MAX_BACKUPS, default 5
	LogMaxAgeDays int    // LOG_MAX_AGE_DAYS, default 28
	LogCompress   bool   // LOG_COMPRESS, default true
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		ResponseLookup:         getEnvInt("HARBIND_RESPONSE_LOOKUP", types.ResponseLookup),
		MaxSize:                getEnvInt("HARBIND_MAX_SIZE", types.MaxSize),
		SizeThreshold:          getEnvInt("HARBIND_SIZE_THRESHOLD", types.SizeThreshold),
		MatchFractionThreshold: getEnvFloat("HARBIND_MATCH_FRACTION", types.MatchFractionThreshold),
		MatchCacheSize:         getEnvInt("HARBIND_MATCH_CACHE_SIZE", types.MatchCacheSize),
		MatchCachePolicy:       getEnvString("HARBIND_MATCH_CACHE_POLICY", string(cache.PolicyLRU)),

		ArchiveCacheItems: getEnvInt("HARBIND_ARCHIVE_CACHE_ITEMS", DefaultArchiveCacheItems),
		LoadWorkers:       getEnvInt("HARBIND_LOAD_WORKERS", har.DefaultLoadWorkers),

		LogLevel:      getEnvString("LOG_LEVEL", "info"),
		LogFormat:     getEnvString("LOG_FORMAT", "text"),
		LogFile:       getEnvString("LOG_FILE", ""),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
		LogCompress:   getEnvBool("LOG_COMPRESS", true),
	}
}

// MatchOptions returns the header matcher settings.
func (c *Config) MatchOptions() match.Options {
	return match.Options{
		SizeThreshold:          c.SizeThreshold,
		MatchFractionThreshold: c.MatchFractionThreshold,
	}
}

// OriginOptions returns the lookback window settings.
func (c *Config) OriginOptions() origin.Options {
	return origin.Options{
		ResponseLookup: c.ResponseLookup,
		SizeThreshold:  c.SizeThreshold,
		MaxSize:        c.MaxSize,
	}
}

// PlanOptions returns the replay plan settings. JSON sources must cover the
// same share of a value as a header match does.
func (c *Config) PlanOptions() plan.Options {
	opts := plan.DefaultOptions()
	opts.SourceFraction = c.MatchFractionThreshold
	return opts
}

// Logging returns the logger settings.
func (c *Config) Logging() logging.Config {
	return logging.Config{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		FilePath:   c.LogFile,
		MaxSizeMB:  c.LogMaxSizeMB,
		MaxBackups: c.LogMaxBackups,
		MaxAgeDays: c.LogMaxAgeDays,
		Compress:   c.LogCompress,
	}
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		switch v {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultVal
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

// NewMatcher builds a header matcher with a memo table sized and evicted
// according to c.
func (c *Config) NewMatcher() (*match.Matcher, error) {
	policy, err := cache.ParsePolicy(c.MatchCachePolicy)
	if err != nil {
		return nil, err
	}
	mc, err := cache.NewMatchCache(c.MatchCacheSize, policy)
	if err != nil {
		return nil, err
	}
	return match.New(c.MatchOptions(), mc), nil
}
