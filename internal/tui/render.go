package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/studiowebux/flowcli/internal/dispatch"
	"github.com/studiowebux/flowcli/internal/flow"
	"github.com/studiowebux/flowcli/internal/types"
)

// Adaptive color definitions for light/dark terminal support
var (
	colorGreen  = lipgloss.AdaptiveColor{Light: "#006400", Dark: "#00ff00"} // Dark green / Bright green
	colorRed    = lipgloss.AdaptiveColor{Light: "#8b0000", Dark: "#ff0000"} // Dark red / Bright red
	colorYellow = lipgloss.AdaptiveColor{Light: "#b8860b", Dark: "#ffff00"} // Dark goldenrod / Yellow
	colorBlue   = lipgloss.AdaptiveColor{Light: "#00008b", Dark: "#0000ff"} // Dark blue / Blue
	colorGray   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"} // Dark gray / Light gray
	colorCyan   = lipgloss.AdaptiveColor{Light: "#008b8b", Dark: "#00ffff"} // Dark cyan / Cyan
)

// Style definitions
var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	styleSelected = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#d3d3d3", Dark: "#3a3a3a"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"})

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorGreen)

	styleError = lipgloss.NewStyle().
			Foreground(colorRed)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorYellow)

	styleSubtle = lipgloss.NewStyle().
			Foreground(colorGray)
)

// renderMain renders the main TUI view (flow sidebar + summary panel)
func (m Model) renderMain() string {
	if m.width == 0 {
		return ""
	}

	// Calculate dimensions - make sidebar wider (40% of width or min 40 chars)
	sidebarWidth := max(40, m.width*40/100)
	if m.width < 100 {
		sidebarWidth = m.width / 2
	}
	summaryWidth := m.width - sidebarWidth - 4 // Account for borders

	sidebar := m.renderSidebar(sidebarWidth-2, m.height-3) // -3 = -1 (status) -2 (borders)
	summary := m.renderSummary(summaryWidth-2, m.height-3)

	sidebarBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorGreen).
		Width(sidebarWidth).
		Height(m.height - 1). // Leave 1 line for status bar
		Render(sidebar)

	summaryBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorGray).
		Width(summaryWidth).
		Height(m.height - 1). // Leave 1 line for status bar
		Render(summary)

	mainView := lipgloss.JoinHorizontal(
		lipgloss.Top,
		sidebarBox,
		summaryBox,
	)

	statusBar := m.renderStatusBar()

	return lipgloss.JoinVertical(
		lipgloss.Left,
		mainView,
		statusBar,
	)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// renderSidebar renders the flow file list
func (m Model) renderSidebar(width, height int) string {
	var lines []string

	title := styleTitle.Render("Flows")
	lines = append(lines, title)
	lines = append(lines, "")

	pageSize := height - 4 // Reserve space for title, blank lines, footer, and padding
	if pageSize < 1 {
		pageSize = 1
	}

	endIdx := m.fileOffset + pageSize
	if endIdx > len(m.files) {
		endIdx = len(m.files)
	}

	for i := m.fileOffset; i < endIdx; i++ {
		file := m.files[i]

		// Hex number
		hexNum := fmt.Sprintf("%x", i)

		// File name (truncate if too long)
		maxNameLen := width - len(hexNum) - 4
		if maxNameLen < 10 {
			maxNameLen = 10
		}
		name := file.Name
		if len(name) > maxNameLen {
			name = name[:maxNameLen-3] + "..."
		}

		line := fmt.Sprintf("%s %s", hexNum, name)
		if i == m.fileIndex {
			line = styleSelected.Render(line)
		}

		lines = append(lines, line)
	}

	// Footer - show position
	if len(m.files) > 0 {
		lines = append(lines, "")
		footer := fmt.Sprintf("[%d/%d]", m.fileIndex+1, len(m.files))
		lines = append(lines, styleSubtle.Render(footer))
	} else {
		lines = append(lines, "")
		lines = append(lines, styleSubtle.Render("No flow files found"))
	}

	content := strings.Join(lines, "\n")
	style := lipgloss.NewStyle().
		Width(width).
		Height(height - 5).
		Padding(1)

	return style.Render(content)
}

// renderSummary renders the selected flow's details panel
func (m Model) renderSummary(width, height int) string {
	doc := m.flowStore.GetCurrent()
	if doc == nil {
		noFlow := styleSubtle.Render("No flow loaded\n\nPlace .json/.yaml flow files in the flows directory\n\nPress 'r' to reload the list")
		return lipgloss.NewStyle().
			MaxWidth(width).
			Height(height).
			Padding(1).
			AlignHorizontal(lipgloss.Left).
			Render(noFlow)
	}

	wrapWidth := width - 2
	if wrapWidth < 40 {
		wrapWidth = 40
	}

	var lines []string

	name := doc.Name
	if name == "" {
		name = "(unnamed flow)"
	}
	lines = append(lines, styleTitle.Render(name))
	lines = append(lines, styleSubtle.Render("ID: "+doc.ID))
	lines = append(lines, "")

	if doc.Description != "" {
		lines = append(lines, wrapText(doc.Description, wrapWidth))
	} else {
		lines = append(lines, styleSubtle.Render("No description"))
	}
	lines = append(lines, "")

	endpoint := doc.EndpointName
	if endpoint == "" {
		endpoint = styleSubtle.Render("none (placeholder generated at send time)")
	}
	lines = append(lines, "Endpoint: "+endpoint)

	if len(doc.Tags) > 0 {
		lines = append(lines, "Tags: "+strings.Join(doc.Tags, ", "))
	} else {
		lines = append(lines, "Tags: "+styleSubtle.Render("none"))
	}

	credentials := flow.CountSensitiveFields(doc.Data)
	lines = append(lines, fmt.Sprintf("Nodes: %d | Credential fields: %d", nodeCount(doc), credentials))
	if credentials > 0 {
		lines = append(lines, styleWarning.Render("API keys are stripped unless you opt in when sending"))
	}
	lines = append(lines, "")

	// Last send result, if any
	if m.lastOutcome.Phase != dispatch.PhaseIdle {
		lines = append(lines, styleTitle.Render("Last send"))
		status := m.lastOutcome.StatusText
		if status == "" {
			status = m.lastOutcome.Phase.String()
		}
		lines = append(lines, phaseStyle(m.lastOutcome.Phase).Render(status))
		lines = append(lines, styleSubtle.Render(fmt.Sprintf("Duration: %s | Size: %s",
			dispatch.FormatDuration(m.lastOutcome.Duration),
			dispatch.FormatSize(len(m.lastOutcome.ResponseBody)))))
		lines = append(lines, "")
	}

	if m.loading {
		lines = append(lines, styleWarning.Render("Sending..."))
	} else {
		lines = append(lines, styleSubtle.Render("Press Enter to send | 'e' to export | '?' for help"))
	}

	content := strings.Join(lines, "\n")
	return lipgloss.NewStyle().
		MaxWidth(width).
		Height(height).
		Padding(1).
		AlignHorizontal(lipgloss.Left).
		Render(content)
}

// nodeCount returns the number of nodes in the flow graph
func nodeCount(doc *types.FlowDocument) int {
	if doc == nil || doc.Data == nil {
		return 0
	}
	nodes, ok := doc.Data["nodes"].([]interface{})
	if !ok {
		return 0
	}
	return len(nodes)
}

// phaseStyle picks the status color for a dispatch phase
func phaseStyle(phase dispatch.Phase) lipgloss.Style {
	switch phase {
	case dispatch.PhaseSucceeded:
		return styleSuccess
	case dispatch.PhaseNetworkFailed, dispatch.PhaseHttpError, dispatch.PhaseValidationFailed, dispatch.PhaseUnexpectedError:
		return styleError
	default:
		return styleWarning
	}
}

// alertStyle picks the status color for an alert level
func alertStyle(level AlertLevel) lipgloss.Style {
	switch level {
	case AlertSuccess:
		return styleSuccess
	case AlertError:
		return styleError
	default:
		return styleWarning
	}
}

// addCursor adds a visible cursor (█) to a text string
func addCursor(text string) string {
	return text + "█"
}

// renderStatusBar renders the status bar at the bottom
func (m Model) renderStatusBar() string {
	// Left side - backend target
	left := fmt.Sprintf("CoE-Backend: %s", m.engine.URL())
	if m.flowStore.IsBuilding() {
		left += " " + styleWarning.Render("[editing]")
	}

	// Right side - messages or hints
	right := ""
	if m.errorMsg != "" {
		right = styleError.Render(m.errorMsg)
	} else if m.statusMsg != "" {
		// Make success messages green
		if strings.Contains(m.statusMsg, "copied") || strings.Contains(m.statusMsg, "saved") ||
			strings.Contains(m.statusMsg, "Loaded") || strings.Contains(m.statusMsg, "sent") {
			right = styleSuccess.Render(m.statusMsg)
		} else {
			right = m.statusMsg
		}
	} else if alert, ok := m.alerts.Latest(); ok {
		text := alert.Title
		if len(alert.Details) > 0 {
			text += ": " + alert.Details[0]
		}
		if len(text) > StatusTruncateLen {
			text = text[:StatusTruncateLen-3] + "..."
		}
		right = alertStyle(alert.Level).Render(text)
	} else {
		right = styleSubtle.Render("Press Enter to send | ? for help | q to quit")
	}

	// Center spacing
	spacing := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if spacing < 1 {
		spacing = 1
	}

	return left + strings.Repeat(" ", spacing) + right
}

// updateViewports resizes all viewports after a window size change
func (m *Model) updateViewports() {
	// Scrollable modal content (send log, events, alerts)
	m.modalView.Width = m.width - 10
	m.modalView.Height = m.height - 7

	// Send log trace preview pane (lower half of the modal)
	m.previewView.Width = m.width - 10
	m.previewView.Height = (m.height - 7) / 2

	// Help viewport
	m.helpView.Width = m.width - 4
	m.helpView.Height = m.height - 4

	// Request/response trace panes in the send modal
	paneWidth := (m.width-ModalWidthMargin)/2 - SplitPaneBorderWidth
	if paneWidth < 20 {
		paneWidth = 20
	}
	paneHeight := m.height - ModalHeightMargin - sendFormOverhead
	if paneHeight < 3 {
		paneHeight = 3
	}
	m.requestView.Width = paneWidth
	m.requestView.Height = paneHeight
	m.responseView.Width = paneWidth
	m.responseView.Height = paneHeight

	m.updateTracePanes()
}

// updateTracePanes refreshes the request/response panes from the last outcome
func (m *Model) updateTracePanes() {
	wrapWidth := m.requestView.Width
	if wrapWidth < 40 {
		wrapWidth = 40
	}

	if m.lastOutcome.RequestTrace != "" {
		m.requestView.SetContent(wrapText(m.lastOutcome.RequestTrace, wrapWidth))
	} else {
		m.requestView.SetContent(styleSubtle.Render("No request yet"))
	}

	if m.lastOutcome.ResponseTrace != "" {
		m.responseView.SetContent(wrapText(m.lastOutcome.ResponseTrace, wrapWidth))
		m.responseView.GotoTop()
	} else if m.loading {
		m.responseView.SetContent(styleWarning.Render("Waiting for response..."))
	} else {
		m.responseView.SetContent(styleSubtle.Render("No response yet"))
	}
}

// wrapText wraps long lines at word boundaries, preserving indentation
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}

	var wrapped []string
	for _, line := range strings.Split(text, "\n") {
		if len(line) <= width {
			wrapped = append(wrapped, line)
			continue
		}

		// Keep the line's indentation on continuation lines
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if len(indent)+10 > width {
			indent = "  "
		}

		remaining := line
		first := true
		for len(remaining) > 0 {
			avail := width
			prefix := ""
			if !first {
				avail = width - len(indent)
				prefix = indent
			}
			if len(remaining) <= avail {
				wrapped = append(wrapped, prefix+remaining)
				break
			}

			// Break at the last space/comma before the limit
			breakPoint := avail
			for i := avail - 1; i > 0; i-- {
				if remaining[i] == ' ' || remaining[i] == ',' || remaining[i] == ';' {
					breakPoint = i + 1
					break
				}
			}
			wrapped = append(wrapped, prefix+remaining[:breakPoint])
			remaining = strings.TrimLeft(remaining[breakPoint:], " ")
			first = false
		}
	}

	return strings.Join(wrapped, "\n")
}
