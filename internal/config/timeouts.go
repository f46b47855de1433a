package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds retry and timeout knobs.
// These values can be customized via environment variables.
type Timeouts struct {
	API                   time.Duration // Per-request timeout for provider API calls
	RetryMaxAttempts      int           // Maximum attempts for a single backend or resource call
	RetryInitialDelay     time.Duration // Initial delay between retries
	RetryMaxDelay         time.Duration // Upper bound for the backoff delay
	DiscoveryMaxAttempts  int           // Maximum node listings while waiting for cluster nodes
	DiscoveryInitialDelay time.Duration // Initial delay while waiting for cluster nodes
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - LKEBIND_TIMEOUT_API (default: 30s)
//   - LKEBIND_RETRY_MAX_ATTEMPTS (default: 4)
//   - LKEBIND_RETRY_INITIAL_DELAY (default: 1s)
//   - LKEBIND_RETRY_MAX_DELAY (default: 30s)
//   - LKEBIND_DISCOVERY_MAX_ATTEMPTS (default: 12)
//   - LKEBIND_DISCOVERY_INITIAL_DELAY (default: 5s)
//
// Cluster creation returns before node instances are queryable; the
// discovery defaults cover a few minutes of waiting.
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		API:                   parseDuration("LKEBIND_TIMEOUT_API", 30*time.Second),
		RetryMaxAttempts:      parseInt("LKEBIND_RETRY_MAX_ATTEMPTS", 4),
		RetryInitialDelay:     parseDuration("LKEBIND_RETRY_INITIAL_DELAY", 1*time.Second),
		RetryMaxDelay:         parseDuration("LKEBIND_RETRY_MAX_DELAY", 30*time.Second),
		DiscoveryMaxAttempts:  parseInt("LKEBIND_DISCOVERY_MAX_ATTEMPTS", 12),
		DiscoveryInitialDelay: parseDuration("LKEBIND_DISCOVERY_INITIAL_DELAY", 5*time.Second),
	}
}

// Retries is the number of retries after the first attempt of a backend or
// resource call.
func (t *Timeouts) Retries() int {
	return retriesFor(t.RetryMaxAttempts)
}

// DiscoveryRetries is the number of node listings after the first one.
func (t *Timeouts) DiscoveryRetries() int {
	return retriesFor(t.DiscoveryMaxAttempts)
}

func retriesFor(attempts int) int {
	if attempts < 1 {
		return 0
	}
	return attempts - 1
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil || d < 0 {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil || i < 0 {
		return defaultVal
	}

	return i
}
