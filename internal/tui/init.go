package tui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/flowcli/internal/analytics"
	"github.com/studiowebux/flowcli/internal/config"
	"github.com/studiowebux/flowcli/internal/dispatch"
	"github.com/studiowebux/flowcli/internal/export"
	"github.com/studiowebux/flowcli/internal/flow"
	"github.com/studiowebux/flowcli/internal/history"
	"github.com/studiowebux/flowcli/internal/registry"
)

// New creates a new TUI model
func New(flowsDir, version string) (Model, error) {
	// Load flow files
	files, err := flow.ListFiles(flowsDir)
	if err != nil {
		return Model{}, err
	}

	alerts := NewAlertState()

	// Event tracking and the send log degrade to no-ops when the
	// database cannot be opened; the TUI stays usable without them.
	var tracker dispatch.Tracker = dispatch.NopTracker()
	analyticsManager, err := analytics.NewManager(config.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: event tracking unavailable: %v\n", err)
		analyticsManager = nil
	} else {
		tracker = analyticsManager
	}

	var recorder dispatch.Recorder = dispatch.NopRecorder()
	historyManager, err := history.NewManager(config.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: send log unavailable: %v\n", err)
		historyManager = nil
	} else {
		recorder = historyManager
	}

	m := Model{
		flowStore:        flow.NewStore(),
		registry:         registry.Default(),
		engine:           dispatch.NewEngine(config.BackendBaseURL(), version, alerts, tracker, recorder),
		exporter:         export.NewExporter(export.NewFileDownloader(config.ExportsDir), version, alerts, tracker),
		historyManager:   historyManager,
		analyticsManager: analyticsManager,
		tracker:          tracker,
		alerts:           alerts,
		mode:             ModeNormal,
		version:          version,
		flowsDirectory:   flowsDir,
		files:            files,
		fileIndex:        0,
		fileOffset:       0,
		send:             NewSendState(),
		requestView:      viewport.New(80, 20),
		responseView:     viewport.New(80, 20),
		modalView:        viewport.New(80, 20), // For scrollable modals
		previewView:      viewport.New(80, 20),
		helpView:         viewport.New(80, 20),
	}

	// Load the first flow
	if len(files) > 0 {
		m.loadCurrentFlow()
	}

	return m, nil
}

// Run starts the TUI
func Run(flowsDir, version string) error {
	// Initialize config
	if err := config.Initialize(); err != nil {
		return err
	}

	dir, err := config.GetFlowsDirectory(flowsDir)
	if err != nil {
		return err
	}

	m, err := New(dir, version)
	if err != nil {
		return err
	}

	// Start TUI (pass pointer since Update uses pointer receiver)
	// Note: Mouse is disabled by default in bubbletea
	p := tea.NewProgram(&m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}

	return nil
}
