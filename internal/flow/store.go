package flow

import (
	"sync"

	"github.com/studiowebux/flowcli/internal/types"
)

// Store holds the currently active flow document and a building flag.
// The building flag marks the flow as being prepared for dispatch so
// background reloads hold off while the user edits send settings.
type Store struct {
	mu sync.RWMutex

	current  *types.FlowDocument
	building bool
}

// NewStore creates an empty flow store
func NewStore() *Store {
	return &Store{}
}

// GetCurrent returns the active flow document, or nil if none is loaded
func (s *Store) GetCurrent() *types.FlowDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// SetCurrent sets the active flow document
func (s *Store) SetCurrent(doc *types.FlowDocument) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = doc
}

// IsBuilding returns whether the active flow is still being loaded
func (s *Store) IsBuilding() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.building
}

// SetBuilding sets the building flag
func (s *Store) SetBuilding(building bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.building = building
}

// Reset clears the active flow and the building flag
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	s.building = false
}
