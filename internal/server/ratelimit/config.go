package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig is the limit applied to one route pattern.
type EndpointConfig struct {
	Path   string        // Route pattern; {name} matches one path segment
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window; 0 means unlimited
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	IdleTTL         time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// DefaultConfig returns the limits used when no environment overrides are set.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    600,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         time.Hour,
		Whitelist:       make(map[string]bool),
		Blacklist:       make(map[string]bool),
		EndpointConfigs: DefaultEndpointConfigs(20, time.Hour),
	}
}

// LoadConfig loads rate limiting configuration from RATE_LIMIT_* environment variables.
func LoadConfig() *Config {
	cfg := DefaultConfig()
	cfg.Enabled = getEnvBool("RATE_LIMIT_ENABLED", true)
	if !cfg.Enabled {
		return cfg
	}

	cfg.DefaultLimit = getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", cfg.DefaultLimit)
	cfg.DefaultWindow = getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", cfg.DefaultWindow)
	cfg.CleanupInterval = getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", cfg.CleanupInterval)
	cfg.Whitelist = parseIPList(os.Getenv("RATE_LIMIT_WHITELIST"))
	cfg.Blacklist = parseIPList(os.Getenv("RATE_LIMIT_BLACKLIST"))
	cfg.EndpointConfigs = DefaultEndpointConfigs(
		getEnvInt("RATE_LIMIT_AI_LIMIT", 20),
		getEnvDuration("RATE_LIMIT_AI_WINDOW", time.Hour),
	)
	return cfg
}

// DefaultEndpointConfigs returns the per-route limits. aiLimit per aiWindow
// applies to every route that calls the model.
func DefaultEndpointConfigs(aiLimit int, aiWindow time.Duration) []EndpointConfig {
	aiBurst := min(aiLimit, 3)
	return []EndpointConfig{
		// Model calls (strictest limits)
		{Path: "/sessions/{id}/tailor", Method: "POST", Limit: aiLimit, Window: aiWindow, Burst: aiBurst},
		{Path: "/sessions/{id}/tailor/stream", Method: "POST", Limit: aiLimit, Window: aiWindow, Burst: aiBurst},
		{Path: "/sessions/{id}/improve", Method: "POST", Limit: aiLimit, Window: aiWindow, Burst: aiBurst},
		{Path: "/sessions/{id}/improve/stream", Method: "POST", Limit: aiLimit, Window: aiWindow, Burst: aiBurst},

		// Outbound fetches and parsing
		{Path: "/sessions/{id}/job-description/fetch", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/sessions/{id}/upload", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},

		// Session creation
		{Path: "/sessions", Method: "POST", Limit: 30, Window: time.Minute, Burst: 10},

		// Health check
		{Path: "/health", Method: "GET", Limit: 0},
	}
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
