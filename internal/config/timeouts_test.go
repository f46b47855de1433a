package config

import (
	"testing"
	"time"
)

var timeoutEnvVars = []string{
	"LKEBIND_TIMEOUT_API",
	"LKEBIND_RETRY_MAX_ATTEMPTS",
	"LKEBIND_RETRY_INITIAL_DELAY",
	"LKEBIND_RETRY_MAX_DELAY",
	"LKEBIND_DISCOVERY_MAX_ATTEMPTS",
	"LKEBIND_DISCOVERY_INITIAL_DELAY",
}

func clearTimeoutEnvVars(t *testing.T) {
	for _, v := range timeoutEnvVars {
		t.Setenv(v, "")
	}
}

func TestLoadTimeouts_Defaults(t *testing.T) {
	clearTimeoutEnvVars(t)

	timeouts := LoadTimeouts()

	if timeouts.API != 30*time.Second {
		t.Errorf("Expected API default 30s, got %v", timeouts.API)
	}
	if timeouts.RetryMaxAttempts != 4 {
		t.Errorf("Expected RetryMaxAttempts default 4, got %d", timeouts.RetryMaxAttempts)
	}
	if timeouts.RetryInitialDelay != 1*time.Second {
		t.Errorf("Expected RetryInitialDelay default 1s, got %v", timeouts.RetryInitialDelay)
	}
	if timeouts.RetryMaxDelay != 30*time.Second {
		t.Errorf("Expected RetryMaxDelay default 30s, got %v", timeouts.RetryMaxDelay)
	}
	if timeouts.DiscoveryMaxAttempts != 12 {
		t.Errorf("Expected DiscoveryMaxAttempts default 12, got %d", timeouts.DiscoveryMaxAttempts)
	}
	if timeouts.DiscoveryInitialDelay != 5*time.Second {
		t.Errorf("Expected DiscoveryInitialDelay default 5s, got %v", timeouts.DiscoveryInitialDelay)
	}
}

func TestLoadTimeouts_EnvVars(t *testing.T) {
	clearTimeoutEnvVars(t)

	t.Setenv("LKEBIND_TIMEOUT_API", "10s")
	t.Setenv("LKEBIND_RETRY_MAX_ATTEMPTS", "7")
	t.Setenv("LKEBIND_RETRY_INITIAL_DELAY", "250ms")
	t.Setenv("LKEBIND_RETRY_MAX_DELAY", "5s")
	t.Setenv("LKEBIND_DISCOVERY_MAX_ATTEMPTS", "30")
	t.Setenv("LKEBIND_DISCOVERY_INITIAL_DELAY", "2s")

	timeouts := LoadTimeouts()

	if timeouts.API != 10*time.Second {
		t.Errorf("Expected API 10s, got %v", timeouts.API)
	}
	if timeouts.RetryMaxAttempts != 7 {
		t.Errorf("Expected RetryMaxAttempts 7, got %d", timeouts.RetryMaxAttempts)
	}
	if timeouts.RetryInitialDelay != 250*time.Millisecond {
		t.Errorf("Expected RetryInitialDelay 250ms, got %v", timeouts.RetryInitialDelay)
	}
	if timeouts.RetryMaxDelay != 5*time.Second {
		t.Errorf("Expected RetryMaxDelay 5s, got %v", timeouts.RetryMaxDelay)
	}
	if timeouts.DiscoveryMaxAttempts != 30 {
		t.Errorf("Expected DiscoveryMaxAttempts 30, got %d", timeouts.DiscoveryMaxAttempts)
	}
	if timeouts.DiscoveryInitialDelay != 2*time.Second {
		t.Errorf("Expected DiscoveryInitialDelay 2s, got %v", timeouts.DiscoveryInitialDelay)
	}
}

func TestLoadTimeouts_InvalidValues(t *testing.T) {
	clearTimeoutEnvVars(t)

	t.Setenv("LKEBIND_TIMEOUT_API", "soon")
	t.Setenv("LKEBIND_RETRY_MAX_ATTEMPTS", "many")
	t.Setenv("LKEBIND_RETRY_MAX_DELAY", "-1s")
	t.Setenv("LKEBIND_DISCOVERY_MAX_ATTEMPTS", "-3")

	timeouts := LoadTimeouts()

	if timeouts.API != 30*time.Second {
		t.Errorf("Expected default API on invalid input, got %v", timeouts.API)
	}
	if timeouts.RetryMaxAttempts != 4 {
		t.Errorf("Expected default RetryMaxAttempts on invalid input, got %d", timeouts.RetryMaxAttempts)
	}
	if timeouts.RetryMaxDelay != 30*time.Second {
		t.Errorf("Expected default RetryMaxDelay on negative input, got %v", timeouts.RetryMaxDelay)
	}
	if timeouts.DiscoveryMaxAttempts != 12 {
		t.Errorf("Expected default DiscoveryMaxAttempts on negative input, got %d", timeouts.DiscoveryMaxAttempts)
	}
}

func TestTimeouts_Retries(t *testing.T) {
	tests := []struct {
		attempts int
		want     int
	}{
		{attempts: 4, want: 3},
		{attempts: 1, want: 0},
		{attempts: 0, want: 0},
		{attempts: -2, want: 0},
	}
	for _, tt := range tests {
		timeouts := &Timeouts{RetryMaxAttempts: tt.attempts, DiscoveryMaxAttempts: tt.attempts}
		if got := timeouts.Retries(); got != tt.want {
			t.Errorf("Retries() with %d attempts = %d, want %d", tt.attempts, got, tt.want)
		}
		if got := timeouts.DiscoveryRetries(); got != tt.want {
			t.Errorf("DiscoveryRetries() with %d attempts = %d, want %d", tt.attempts, got, tt.want)
		}
	}
}
