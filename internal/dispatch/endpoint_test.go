package dispatch

import (
	"strings"
	"testing"
)

func TestGeneratePlaceholder(t *testing.T) {
	token := GeneratePlaceholder()

	if len(token) != placeholderLength {
		t.Errorf("Expected %d characters, got %d (%q)", placeholderLength, len(token), token)
	}

	for _, r := range token {
		if !strings.ContainsRune(placeholderCharset, r) {
			t.Errorf("Expected alphanumeric characters only, got %q in %q", r, token)
		}
	}
}

func TestGeneratePlaceholderIsFresh(t *testing.T) {
	// Collisions over a 62^10 space mean the generator is broken
	a := GeneratePlaceholder()
	b := GeneratePlaceholder()
	if a == b {
		t.Errorf("Expected distinct placeholders, got %q twice", a)
	}
}

func TestResolveEndpoint(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		placeholder string
		expected    string
	}{
		{
			name:        "non-empty input wins",
			input:       "svc-a",
			placeholder: "AbCdEfGhJk",
			expected:    "svc-a",
		},
		{
			name:        "input is trimmed",
			input:       "  svc-a  ",
			placeholder: "AbCdEfGhJk",
			expected:    "svc-a",
		},
		{
			name:        "empty input falls back to placeholder",
			input:       "",
			placeholder: "AbCdEfGhJk",
			expected:    "AbCdEfGhJk",
		},
		{
			name:        "whitespace input falls back to placeholder",
			input:       "   ",
			placeholder: "AbCdEfGhJk",
			expected:    "AbCdEfGhJk",
		},
		{
			name:        "empty input and empty placeholder",
			input:       "",
			placeholder: "",
			expected:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ResolveEndpoint(tt.input, tt.placeholder)
			if result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}
