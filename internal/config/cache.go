package config

import "time"

// CacheConfig controls the Redis-backed result collections.  When Enabled is
// false or Redis is unreachable every collection degrades to a no-op and
// responses carry "Cache-Control: no-cache".
type CacheConfig struct {
	Enabled      bool
	Prefix       string
	TTL          time.Duration
	CacheControl string // value sent with cacheable responses
}

// LoadCacheConfig reads CACHE_* variables, falling back to defaults.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		Prefix:       envStr("CACHE_PREFIX", "hotel"),
		TTL:          envDur("CACHE_TTL", 5*time.Minute),
		CacheControl: envStr("CACHE_CONTROL", "private, max-age=300"),
	}
}
