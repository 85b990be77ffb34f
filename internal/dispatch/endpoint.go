package dispatch

import (
	"crypto/rand"
	"strings"
)

const (
	placeholderLength  = 10
	placeholderCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GeneratePlaceholder returns a fresh random 10-character alphanumeric
// token. The send modal regenerates it every time it opens, and it backs
// the endpoint field when the user leaves it empty.
func GeneratePlaceholder() string {
	bytes := make([]byte, placeholderLength)
	if _, err := rand.Read(bytes); err != nil {
		// rand.Read failing must still leave a usable non-empty token
		return strings.Repeat("x", placeholderLength)
	}

	out := make([]byte, placeholderLength)
	for i, b := range bytes {
		out[i] = placeholderCharset[int(b)%len(placeholderCharset)]
	}
	return string(out)
}

// ResolveEndpoint trims the user's endpoint input and falls back to the
// placeholder when the input is empty
func ResolveEndpoint(input, placeholder string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return placeholder
	}
	return trimmed
}
