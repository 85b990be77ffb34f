package dispatch

import "github.com/studiowebux/flowcli/internal/types"

// Notifier surfaces user-facing notifications. The TUI backs it with the
// alert backlog and status bar; the headless CLI prints to stderr.
type Notifier interface {
	// Success reports a completed operation
	Success(title string, details []string)
	// Notice reports something the user should know that is not a failure
	Notice(title string, details []string)
	// Error reports a failed operation
	Error(title string, details []string)
}

// Tracker records fire-and-forget usage events. Implementations must not
// block the caller; failures are swallowed or logged, never surfaced.
type Tracker interface {
	Track(event string, metadata map[string]interface{})
}

// Recorder persists terminal send outcomes into the send log
type Recorder interface {
	Record(entry types.SendLogEntry)
}

// NopNotifier returns a Notifier that discards everything
func NopNotifier() Notifier { return noopNotifier{} }

// NopTracker returns a Tracker that discards everything
func NopTracker() Tracker { return noopTracker{} }

// NopRecorder returns a Recorder that discards everything
func NopRecorder() Recorder { return noopRecorder{} }

type noopNotifier struct{}

func (noopNotifier) Success(string, []string) {}
func (noopNotifier) Notice(string, []string)  {}
func (noopNotifier) Error(string, []string)   {}

type noopTracker struct{}

func (noopTracker) Track(string, map[string]interface{}) {}

type noopRecorder struct{}

func (noopRecorder) Record(types.SendLogEntry) {}
