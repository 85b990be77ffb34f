package config

import (
	"os"
	"testing"
)

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "clean URL unchanged",
			input:    "http://host.docker.internal:8000",
			expected: "http://host.docker.internal:8000",
		},
		{
			name:     "trailing slash stripped",
			input:    "http://localhost:8000/",
			expected: "http://localhost:8000",
		},
		{
			name:     "multiple trailing slashes stripped",
			input:    "http://localhost:8000///",
			expected: "http://localhost:8000",
		},
		{
			name:     "surrounding whitespace trimmed",
			input:    "  http://localhost:8000  ",
			expected: "http://localhost:8000",
		},
		{
			name:     "whitespace and trailing slash",
			input:    " http://coe.internal:9000/ ",
			expected: "http://coe.internal:9000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizeBaseURL(tt.input)
			if result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestFlowsURL(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		expected string
	}{
		{
			name:     "default backend",
			base:     "http://host.docker.internal:8000",
			expected: "http://host.docker.internal:8000/flows/",
		},
		{
			name:     "base with trailing slash",
			base:     "http://localhost:8000/",
			expected: "http://localhost:8000/flows/",
		},
		{
			name:     "base with path prefix",
			base:     "https://coe.example.com/api",
			expected: "https://coe.example.com/api/flows/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FlowsURL(tt.base)
			if result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestBackendBaseURL(t *testing.T) {
	original, had := os.LookupEnv(BackendURLEnv)
	defer func() {
		if had {
			os.Setenv(BackendURLEnv, original)
		} else {
			os.Unsetenv(BackendURLEnv)
		}
	}()

	// Unset: the default applies
	os.Unsetenv(BackendURLEnv)
	if got := BackendBaseURL(); got != DefaultBackendURL {
		t.Errorf("Expected default %q, got %q", DefaultBackendURL, got)
	}

	// Empty string counts as unset
	os.Setenv(BackendURLEnv, "   ")
	if got := BackendBaseURL(); got != DefaultBackendURL {
		t.Errorf("Expected default %q for blank env, got %q", DefaultBackendURL, got)
	}

	// Override wins and is normalized
	os.Setenv(BackendURLEnv, "http://backend.test:9999/")
	if got := BackendBaseURL(); got != "http://backend.test:9999" {
		t.Errorf("Expected override %q, got %q", "http://backend.test:9999", got)
	}
}
