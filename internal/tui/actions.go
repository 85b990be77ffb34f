package tui

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/flowcli/internal/dispatch"
	"github.com/studiowebux/flowcli/internal/flow"
	"github.com/studiowebux/flowcli/internal/types"
	"github.com/studiowebux/flowcli/internal/version"
)

// navigateFiles moves the flow selection up or down
func (m *Model) navigateFiles(delta int) {
	if len(m.files) == 0 {
		return
	}

	m.fileIndex += delta

	// Wrap around
	if m.fileIndex < 0 {
		m.fileIndex = len(m.files) - 1
	} else if m.fileIndex >= len(m.files) {
		m.fileIndex = 0
	}

	m.adjustFileOffset()
	m.loadCurrentFlow()
}

// jumpToFile selects a flow by index
func (m *Model) jumpToFile(index int) {
	if len(m.files) == 0 {
		return
	}

	if index < 0 {
		index = 0
	}
	if index >= len(m.files) {
		index = len(m.files) - 1
	}
	m.fileIndex = index

	m.adjustFileOffset()
	m.loadCurrentFlow()
}

// adjustFileOffset keeps the selection inside the visible sidebar window
func (m *Model) adjustFileOffset() {
	pageSize := m.getFileListHeight()
	if m.fileIndex < m.fileOffset {
		m.fileOffset = m.fileIndex
	} else if m.fileIndex >= m.fileOffset+pageSize {
		m.fileOffset = m.fileIndex - pageSize + 1
	}
}

// getFileListHeight calculates the height available for the flow list
func (m *Model) getFileListHeight() int {
	height := m.height - 7 // Account for title, footer, status bar
	if height < 1 {
		height = 1
	}
	return height
}

// loadCurrentFlow parses the selected flow file into the store
func (m *Model) loadCurrentFlow() {
	if len(m.files) == 0 || m.fileIndex < 0 || m.fileIndex >= len(m.files) {
		m.flowStore.SetCurrent(nil)
		return
	}

	doc, err := flow.Load(m.files[m.fileIndex].Path)
	if err != nil {
		m.flowStore.SetCurrent(nil)
		fullMsg := fmt.Sprintf("Failed to load flow: %v", err)
		m.fullErrorMsg = fullMsg
		if len(fullMsg) > StatusTruncateLen {
			m.errorMsg = fullMsg[:StatusTruncateLen-3] + "..."
		} else {
			m.errorMsg = fullMsg
		}
		return
	}

	m.flowStore.SetCurrent(doc)
	m.errorMsg = ""
	m.fullErrorMsg = ""
}

// sendFlow dispatches the snapshot to the backend in the background
func (m *Model) sendFlow(req dispatch.SendRequest) tea.Cmd {
	engine := m.engine
	return func() tea.Msg {
		outcome := engine.Send(context.Background(), req)
		return sendFinishedMsg{outcome: outcome}
	}
}

// exportFlow saves the flow through the exporter in the background
func (m *Model) exportFlow(doc *types.FlowDocument, edits types.FlowEdits, includeSecrets bool) tea.Cmd {
	exporter := m.exporter
	return func() tea.Msg {
		path, err := exporter.Export(doc, edits, includeSecrets)
		return exportFinishedMsg{path: path, err: err}
	}
}

// refreshFiles reloads the flow file list from disk
func (m *Model) refreshFiles() tea.Cmd {
	dir := m.flowsDirectory
	return func() tea.Msg {
		files, err := flow.ListFiles(dir)
		if err != nil {
			return errorMsg(fmt.Sprintf("Failed to reload flows: %v", err))
		}
		return fileListLoadedMsg{files: files}
	}
}

// copyText copies text to the system clipboard
func (m *Model) copyText(text, label string) tea.Cmd {
	return func() tea.Msg {
		return copyResultMsg{label: label, err: clipboard.WriteAll(text)}
	}
}

// copyFlowJSON copies the selected flow document as pretty-printed JSON
func (m *Model) copyFlowJSON() tea.Cmd {
	doc := m.flowStore.GetCurrent()
	if doc == nil {
		return m.setErrorMessage("No flow selected")
	}

	tracker := m.tracker
	return func() tea.Msg {
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return copyResultMsg{label: "Flow JSON", err: err}
		}
		if err := clipboard.WriteAll(string(data)); err != nil {
			return copyResultMsg{label: "Flow JSON", err: err}
		}
		tracker.Track("flow_copied", map[string]interface{}{"flow_id": doc.ID})
		return copyResultMsg{label: "Flow JSON"}
	}
}

// loadSendLog fetches send log entries from the database
func (m *Model) loadSendLog() tea.Cmd {
	mgr := m.historyManager
	return func() tea.Msg {
		if mgr == nil {
			return sendLogLoadedMsg{}
		}
		entries, err := mgr.Load()
		if err != nil {
			return errorMsg(fmt.Sprintf("Failed to load send log: %v", err))
		}
		return sendLogLoadedMsg{entries: entries}
	}
}

// loadEvents fetches tracked events from the database
func (m *Model) loadEvents() tea.Cmd {
	mgr := m.analyticsManager
	return func() tea.Msg {
		if mgr == nil {
			return eventsLoadedMsg{}
		}
		events, err := mgr.LoadAll(EventLoadLimit)
		if err != nil {
			return errorMsg(fmt.Sprintf("Failed to load events: %v", err))
		}
		stats, err := mgr.GetStats()
		if err != nil {
			return errorMsg(fmt.Sprintf("Failed to load event stats: %v", err))
		}
		return eventsLoadedMsg{events: events, stats: stats}
	}
}

// checkForUpdates queries GitHub for a newer release in the background
func (m *Model) checkForUpdates() tea.Cmd {
	current := m.version
	return func() tea.Msg {
		available, latest, url, err := version.NewChecker().CheckForUpdate(current)
		return versionCheckMsg{
			available:     available,
			latestVersion: latest,
			url:           url,
			err:           err,
		}
	}
}
