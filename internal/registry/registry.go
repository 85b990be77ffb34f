package registry

import (
	"strings"
	"sync"
)

// DefaultContexts seeds the registry with the context labels the
// CoE-Backend ships with.
var DefaultContexts = []string{"aider", "openwebui", "cline", "continue", "vscode"}

// Registry holds the selectable context labels in insertion order.
// Labels are append-only: creating a label that already exists under
// normalized comparison is a no-op, and nothing is ever removed during
// a session.
type Registry struct {
	mu     sync.RWMutex
	labels []string
}

// New creates a registry seeded with the given labels.
// Duplicate seeds (under normalization) are dropped.
func New(labels ...string) *Registry {
	r := &Registry{}
	for _, label := range labels {
		r.Add(label)
	}
	return r
}

// Default creates a registry seeded with DefaultContexts
func Default() *Registry {
	return New(DefaultContexts...)
}

// Normalize returns the canonical key for a label: surrounding
// whitespace trimmed and letters lowercased. Two labels are considered
// equal when their canonical keys match.
func Normalize(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// Contains reports whether an equivalent label is already registered
func (r *Registry) Contains(label string) bool {
	key := Normalize(label)

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, existing := range r.labels {
		if Normalize(existing) == key {
			return true
		}
	}
	return false
}

// Add appends a label unless an equivalent one is already registered.
// The label is stored as given (trimmed), preserving the user's casing
// for display. Returns true if the label was appended.
func (r *Registry) Add(label string) bool {
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return false
	}
	key := Normalize(trimmed)

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.labels {
		if Normalize(existing) == key {
			return false
		}
	}
	r.labels = append(r.labels, trimmed)
	return true
}

// Labels returns a copy of the registered labels in insertion order
func (r *Registry) Labels() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.labels))
	copy(out, r.labels)
	return out
}

// Len returns the number of registered labels
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.labels)
}
