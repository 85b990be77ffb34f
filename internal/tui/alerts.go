package tui

import (
	"sync"
	"time"
)

// AlertLevel classifies an alert for display
type AlertLevel int

const (
	AlertSuccess AlertLevel = iota
	AlertNotice
	AlertError
)

// Alert is a single notification raised by the dispatch engine or exporter
type Alert struct {
	Level     AlertLevel
	Title     string
	Details   []string
	Timestamp time.Time
}

// AlertState collects notifications for the TUI. It implements
// dispatch.Notifier and is called from command goroutines while the UI
// goroutine reads it, so access is guarded by a mutex.
type AlertState struct {
	mu     sync.RWMutex
	alerts []Alert
}

// NewAlertState creates an empty alert backlog
func NewAlertState() *AlertState {
	return &AlertState{}
}

// Success records a success alert
func (s *AlertState) Success(title string, details []string) {
	s.push(AlertSuccess, title, details)
}

// Notice records an informational alert
func (s *AlertState) Notice(title string, details []string) {
	s.push(AlertNotice, title, details)
}

// Error records an error alert
func (s *AlertState) Error(title string, details []string) {
	s.push(AlertError, title, details)
}

func (s *AlertState) push(level AlertLevel, title string, details []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	alert := Alert{
		Level:     level,
		Title:     title,
		Details:   append([]string(nil), details...),
		Timestamp: time.Now(),
	}

	// Newest first, bounded backlog
	s.alerts = append([]Alert{alert}, s.alerts...)
	if len(s.alerts) > AlertBacklogLimit {
		s.alerts = s.alerts[:AlertBacklogLimit]
	}
}

// Latest returns the most recent alert, if any
func (s *AlertState) Latest() (Alert, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.alerts) == 0 {
		return Alert{}, false
	}
	return s.alerts[0], true
}

// All returns a copy of the backlog, newest first
func (s *AlertState) All() []Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]Alert(nil), s.alerts...)
}

// Len returns the number of stored alerts
func (s *AlertState) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.alerts)
}

// Clear removes all alerts
func (s *AlertState) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = nil
}
