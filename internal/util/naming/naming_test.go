package naming

import "testing"

func TestBackendLabel(t *testing.T) {
	tests := []struct {
		name     string
		node     string
		port     int
		expected string
	}{
		{
			name:     "short label",
			node:     "worker-1",
			port:     30080,
			expected: "worker-1-30080",
		},
		{
			name:     "lke label fits exactly",
			node:     "lke1234-67890-abcdef012345",
			port:     30080,
			expected: "lke1234-67890-abcdef012345-30080",
		},
		{
			name:     "long label keeps tail",
			node:     "lke123456-7890123-0a1b2c3d4e5f6a7b",
			port:     30443,
			expected: "6-7890123-0a1b2c3d4e5f6a7b-30443",
		},
		{
			name:     "invalid characters replaced",
			node:     "node one/a",
			port:     80,
			expected: "node-one-a-80",
		},
		{
			name:     "empty label",
			node:     "",
			port:     443,
			expected: "node-443",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BackendLabel(tt.node, tt.port)
			if got != tt.expected {
				t.Errorf("BackendLabel(%q, %d) = %q, want %q", tt.node, tt.port, got, tt.expected)
			}
			if len(got) > MaxBackendLabel || len(got) < MinBackendLabel {
				t.Errorf("BackendLabel(%q, %d) = %q has invalid length %d", tt.node, tt.port, got, len(got))
			}
		})
	}
}

func TestControllerPattern(t *testing.T) {
	if got := ControllerPattern(); got != "ccm-*" {
		t.Errorf("ControllerPattern() = %q, want %q", got, "ccm-*")
	}
}
