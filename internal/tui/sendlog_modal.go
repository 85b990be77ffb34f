package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/studiowebux/flowcli/internal/dispatch"
	"github.com/studiowebux/flowcli/internal/types"
)

// renderSendLog renders the send log modal with an optional response preview
func (m *Model) renderSendLog() string {
	modalWidth := m.width - ModalWidthMargin
	modalHeight := m.height - ModalHeightMargin

	footer := "↑/↓ j/k: navigate | Enter: load response | p: toggle preview | d: delete | C: clear all | ESC/L: close"
	if len(m.sendLogEntries) > 0 {
		footer += fmt.Sprintf(" [%d/%d]", m.sendLogIndex+1, len(m.sendLogEntries))
	}

	cfg := SplitPaneConfig{
		ModalWidth:   modalWidth,
		ModalHeight:  modalHeight,
		ShowRight:    m.sendLogPreviewVisible,
		LeftTitle:    "Send Log",
		LeftContent:  m.modalView.View(),
		LeftFocused:  true,
		RightTitle:   "Response Preview",
		RightContent: m.previewView.View(),
		Footer:       footer,
	}

	return renderSplitPaneModal(cfg, m.width, m.height)
}

// renderSendLogClearConfirmation renders the clear-all confirmation dialog
func (m *Model) renderSendLogClearConfirmation() string {
	message := fmt.Sprintf("Clear the entire send log?\n\n%d entries will be removed.", len(m.sendLogEntries))
	return m.renderConfirmModal(message)
}

// updateSendLogView rebuilds the send log list and preview content
func (m *Model) updateSendLogView() {
	modalWidth := m.width - ModalWidthMargin
	listWidth := modalWidth - 4
	if m.sendLogPreviewVisible {
		listWidth = (modalWidth-SplitPaneBorderWidth)/2 - 4
	}
	if listWidth < 20 {
		listWidth = 20
	}

	// Size the panes to the split layout
	m.modalView.Width = listWidth
	m.modalView.Height = modalHeight(m.height) - 7
	m.previewView.Width = listWidth
	m.previewView.Height = m.modalView.Height

	if len(m.sendLogEntries) == 0 {
		m.modalView.SetContent(styleSubtle.Render("No sends recorded yet"))
		m.previewView.SetContent("")
		return
	}

	if m.sendLogIndex >= len(m.sendLogEntries) {
		m.sendLogIndex = len(m.sendLogEntries) - 1
	}
	if m.sendLogIndex < 0 {
		m.sendLogIndex = 0
	}

	var lines []string
	for i, entry := range m.sendLogEntries {
		line := formatSendLogLine(entry, listWidth)
		if i == m.sendLogIndex {
			line = styleSelected.Render(line)
		}
		lines = append(lines, line)
	}
	m.modalView.SetContent(strings.Join(lines, "\n"))

	// Keep selection visible
	if m.modalView.Height > 0 {
		top := m.modalView.YOffset
		bottom := top + m.modalView.Height - 1
		if m.sendLogIndex < top {
			m.modalView.SetYOffset(m.sendLogIndex)
		} else if m.sendLogIndex > bottom {
			m.modalView.SetYOffset(m.sendLogIndex - m.modalView.Height + 1)
		}
	}

	m.updateSendLogPreview()
}

// updateSendLogPreview fills the preview pane for the selected entry
func (m *Model) updateSendLogPreview() {
	if !m.sendLogPreviewVisible || m.sendLogIndex >= len(m.sendLogEntries) {
		m.previewView.SetContent("")
		return
	}

	entry := m.sendLogEntries[m.sendLogIndex]

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Flow: %s\n", entry.FlowName))
	b.WriteString(fmt.Sprintf("Endpoint: %s\n", entry.Endpoint))
	b.WriteString(fmt.Sprintf("Contexts: %s\n", strings.Join(entry.Contexts, ", ")))
	if entry.IncludeSecrets {
		b.WriteString(styleWarning.Render("API keys included") + "\n")
	}

	status := entry.StatusText
	if status == "" {
		status = entry.Phase
	}
	statusStyle := styleError
	if entry.Phase == dispatch.PhaseSucceeded.String() {
		statusStyle = styleSuccess
	}
	b.WriteString(statusStyle.Render(status) + "\n")
	b.WriteString(styleSubtle.Render(fmt.Sprintf("Duration: %s | Size: %s\n",
		dispatch.FormatDuration(entry.DurationMs),
		dispatch.FormatSize(entry.ResponseSize))))

	if entry.Error != "" {
		b.WriteString("\n" + styleError.Render("Error: "+entry.Error) + "\n")
	}

	if entry.ResponseBody != "" {
		wrapWidth := m.previewView.Width
		if wrapWidth < 40 {
			wrapWidth = 40
		}
		b.WriteString("\n" + wrapText(entry.ResponseBody, wrapWidth))
	}

	m.previewView.SetContent(b.String())
	m.previewView.GotoTop()
}

// formatSendLogLine renders one entry as a single list row
func formatSendLogLine(entry types.SendLogEntry, width int) string {
	timestamp := entry.Timestamp
	if parsed, err := time.Parse(time.RFC3339, entry.Timestamp); err == nil {
		timestamp = parsed.Format("01-02 15:04")
	}

	marker := "✗"
	if entry.Phase == dispatch.PhaseSucceeded.String() {
		marker = "✓"
	}

	status := entry.StatusText
	if status == "" {
		status = entry.Phase
	}

	name := entry.FlowName
	if name == "" {
		name = entry.FlowID
	}

	line := fmt.Sprintf("%s %s %s → %s (%s)", marker, timestamp, name, entry.Endpoint, status)
	if len(line) > width {
		line = line[:max(width-3, 1)] + "..."
	}
	return line
}

// modalHeight returns the standard modal height for a terminal height
func modalHeight(totalHeight int) int {
	return totalHeight - ModalHeightMargin
}
