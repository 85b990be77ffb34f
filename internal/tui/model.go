package tui

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/flowcli/internal/analytics"
	"github.com/studiowebux/flowcli/internal/dispatch"
	"github.com/studiowebux/flowcli/internal/export"
	"github.com/studiowebux/flowcli/internal/flow"
	"github.com/studiowebux/flowcli/internal/history"
	"github.com/studiowebux/flowcli/internal/registry"
	"github.com/studiowebux/flowcli/internal/types"
)

// Mode represents the current TUI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeSend
	ModeSendField
	ModeContextSelect
	ModeSendLog
	ModeSendLogClearConfirm
	ModeEvents
	ModeEventsClearConfirm
	ModeInspect
	ModeAlerts
	ModeHelp
)

// Model represents the TUI state
type Model struct {
	// Core state
	flowStore        *flow.Store
	registry         *registry.Registry
	engine           *dispatch.Engine
	exporter         *export.Exporter
	historyManager   *history.Manager
	analyticsManager *analytics.Manager
	tracker          dispatch.Tracker
	alerts           *AlertState
	mode             Mode
	version          string
	flowsDirectory   string
	versionChecked   bool
	updateAvailable  bool
	latestVersion    string
	updateURL        string

	// Flow file list
	files      []types.FlowFileInfo
	fileIndex  int // Current selected flow file
	fileOffset int // Scroll offset for the sidebar

	// UI state
	width         int
	height        int
	statusMsg     string
	errorMsg      string // Truncated error for footer
	fullErrorMsg  string // Full error message
	fullStatusMsg string // Full status message
	loading       bool   // Send in flight (busy guard)

	// Viewports
	requestView  viewport.Model // Request trace pane in the send modal
	responseView viewport.Model // Response trace pane in the send modal
	modalView    viewport.Model // Scrollable modal content
	previewView  viewport.Model // Send log trace preview pane
	helpView     viewport.Model

	// Send modal state
	send        *SendState
	sendFocus   int    // Focused form field (0=name 1=description 2=endpoint 3=contexts 4=secrets)
	fieldInput  string // Text buffer while editing a form field
	fieldCursor int    // Cursor position in fieldInput
	picker      *MultiSelect
	lastOutcome dispatch.Outcome

	// Send log state
	sendLogEntries        []types.SendLogEntry
	sendLogIndex          int
	sendLogPreviewVisible bool

	// Events state
	events      []analytics.Event
	eventStats  []analytics.Stats
	eventsIndex int

	// Inspect state
	inspectInput  string
	inspectCursor int
	inspectResult string
	inspectError  string
}

// Init initializes the TUI
func (m *Model) Init() tea.Cmd {
	return nil
}

// Cleanup closes database connections and cleans up resources
func (m *Model) Cleanup() {
	if m.analyticsManager != nil {
		if err := m.analyticsManager.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "error closing analytics database: %v\n", err)
		}
	}
	if m.historyManager != nil {
		if err := m.historyManager.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "error closing send log database: %v\n", err)
		}
	}
}

// Update handles messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd = m.handleKeyPress(msg)

	// Mouse events - capture to prevent terminal scrolling, navigation stays keyboard-only
	case tea.MouseMsg:

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateViewports()
		switch m.mode {
		case ModeSendLog:
			m.updateSendLogView()
		case ModeEvents:
			m.updateEventsView()
		case ModeHelp:
			m.updateHelpView()
		}

	case fileListLoadedMsg:
		m.files = msg.files
		if m.fileIndex >= len(m.files) {
			m.fileIndex = len(m.files) - 1
		}
		if m.fileIndex < 0 {
			m.fileIndex = 0
		}
		m.statusMsg = fmt.Sprintf("Loaded %d flows", len(m.files))
		m.loadCurrentFlow()

	case sendFinishedMsg:
		m.loading = false
		m.lastOutcome = msg.outcome
		// Clear transient messages so the engine's notification shows
		m.statusMsg = ""
		m.errorMsg = ""
		m.fullErrorMsg = ""
		m.updateTracePanes()

	case exportFinishedMsg:
		if msg.err == nil {
			// Exporter already pushed the notification; close the modal
			if m.mode == ModeSend || m.mode == ModeSendField || m.mode == ModeContextSelect {
				m.closeSendModal()
			}
			m.statusMsg = ""
		}

	case sendLogLoadedMsg:
		m.sendLogEntries = msg.entries
		m.sendLogIndex = 0
		if len(msg.entries) > 0 {
			m.statusMsg = fmt.Sprintf("Loaded %d send log entries", len(msg.entries))
		}
		m.updateSendLogView()

	case eventsLoadedMsg:
		m.events = msg.events
		m.eventStats = msg.stats
		m.eventsIndex = 0
		if len(msg.events) > 0 {
			m.statusMsg = fmt.Sprintf("Loaded %d tracked events", len(msg.events))
		}
		m.updateEventsView()

	case copyResultMsg:
		if msg.err != nil {
			return m, m.setErrorMessage(fmt.Sprintf("Failed to copy to clipboard: %v", msg.err))
		}
		return m, m.setStatusMessage(fmt.Sprintf("%s copied to clipboard", msg.label))

	case versionCheckMsg:
		if msg.err == nil && msg.available {
			m.updateAvailable = true
			m.latestVersion = msg.latestVersion
			m.updateURL = msg.url
			m.updateHelpView() // Refresh help view to show update notice
		}

	case clearStatusMsg:
		m.statusMsg = ""

	case clearErrorMsg:
		m.errorMsg = ""
		m.fullErrorMsg = ""

	case errorMsg:
		m.loading = false // Clear busy guard on error
		fullMsg := string(msg)
		m.fullErrorMsg = fullMsg
		// Truncate for footer display
		if len(fullMsg) > StatusTruncateLen {
			m.errorMsg = fullMsg[:StatusTruncateLen-3] + "..."
		} else {
			m.errorMsg = fullMsg
		}
	}

	return m, cmd
}

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	switch m.mode {
	case ModeSend, ModeSendField, ModeContextSelect:
		return m.renderSend()
	case ModeSendLog:
		return m.renderSendLog()
	case ModeSendLogClearConfirm:
		return m.renderSendLogClearConfirmation()
	case ModeEvents:
		return m.renderEvents()
	case ModeEventsClearConfirm:
		return m.renderEventsClearConfirmation()
	case ModeInspect:
		return m.renderInspect()
	case ModeAlerts:
		return m.renderAlerts()
	case ModeHelp:
		return m.renderHelp()
	default:
		return m.renderMain()
	}
}

// Custom message types
type fileListLoadedMsg struct {
	files []types.FlowFileInfo
}

type sendFinishedMsg struct {
	outcome dispatch.Outcome
}

type exportFinishedMsg struct {
	path string
	err  error
}

type sendLogLoadedMsg struct {
	entries []types.SendLogEntry
}

type eventsLoadedMsg struct {
	events []analytics.Event
	stats  []analytics.Stats
}

type copyResultMsg struct {
	label string
	err   error
}

type versionCheckMsg struct {
	available     bool
	latestVersion string
	url           string
	err           error
}

type clearStatusMsg struct{}
type clearErrorMsg struct{}

type errorMsg string

// Helper methods for setting messages with auto-clear
func (m *Model) setStatusMessage(msg string) tea.Cmd {
	m.fullStatusMsg = msg
	// Truncate for footer display
	if len(msg) > StatusTruncateLen {
		m.statusMsg = msg[:StatusTruncateLen-3] + "..."
	} else {
		m.statusMsg = msg
	}

	return tea.Tick(statusMessageTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

func (m *Model) setErrorMessage(msg string) tea.Cmd {
	m.fullErrorMsg = msg
	// Truncate for footer display
	if len(msg) > StatusTruncateLen {
		m.errorMsg = msg[:StatusTruncateLen-3] + "..."
	} else {
		m.errorMsg = msg
	}

	return tea.Tick(statusMessageTimeout, func(time.Time) tea.Msg {
		return clearErrorMsg{}
	})
}
