package tui

import (
	"sync"

	"github.com/studiowebux/flowcli/internal/types"
)

// SendState encapsulates the editable send form state
type SendState struct {
	mu sync.RWMutex

	name           string
	description    string
	endpoint       string
	placeholder    string
	includeSecrets bool
}

// NewSendState creates a new send state
func NewSendState() *SendState {
	return &SendState{}
}

// Initialize seeds the form from a flow document and endpoint placeholder
func (s *SendState) Initialize(doc *types.FlowDocument, placeholder string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = doc.Name
	s.description = doc.Description
	s.endpoint = doc.EndpointName
	s.placeholder = placeholder
	s.includeSecrets = false
}

// GetName returns the edited flow name
func (s *SendState) GetName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

// SetName sets the edited flow name
func (s *SendState) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

// GetDescription returns the edited flow description
func (s *SendState) GetDescription() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.description
}

// SetDescription sets the edited flow description
func (s *SendState) SetDescription(description string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.description = description
}

// GetEndpoint returns the endpoint field value
func (s *SendState) GetEndpoint() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.endpoint
}

// SetEndpoint sets the endpoint field value
func (s *SendState) SetEndpoint(endpoint string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.endpoint = endpoint
}

// GetPlaceholder returns the generated endpoint placeholder
func (s *SendState) GetPlaceholder() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.placeholder
}

// IncludeSecrets returns whether API keys are kept in the payload
func (s *SendState) IncludeSecrets() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.includeSecrets
}

// ToggleIncludeSecrets flips the API key toggle and returns the new value
func (s *SendState) ToggleIncludeSecrets() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.includeSecrets = !s.includeSecrets
	return s.includeSecrets
}

// Reset resets all send form state
func (s *SendState) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = ""
	s.description = ""
	s.endpoint = ""
	s.placeholder = ""
	s.includeSecrets = false
}
