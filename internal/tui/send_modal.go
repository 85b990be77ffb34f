package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Send form field indices, in focus order
const (
	sendFieldName = iota
	sendFieldDescription
	sendFieldEndpoint
	sendFieldContexts
	sendFieldSecrets
	sendFieldCount
)

// renderSend renders the send form with the request/response trace panes
func (m *Model) renderSend() string {
	modalWidth := m.width - ModalWidthMargin
	modalHeight := m.height - ModalHeightMargin

	var b strings.Builder

	title := "Send flow to CoE-Backend"
	if m.loading {
		title += " (sending...)"
	}
	b.WriteString(styleTitle.Render(title) + "\n\n")

	b.WriteString(m.renderSendField(sendFieldName, "Name", m.send.GetName()) + "\n")
	b.WriteString(m.renderSendField(sendFieldDescription, "Description", m.send.GetDescription()) + "\n")
	b.WriteString(m.renderSendField(sendFieldEndpoint, "Endpoint", m.endpointDisplay()) + "\n")
	b.WriteString(m.renderSendField(sendFieldContexts, "Contexts", m.picker.SummaryLabel()) + "\n")

	checkbox := "[ ]"
	if m.send.IncludeSecrets() {
		checkbox = "[x]"
	}
	b.WriteString(m.renderSendField(sendFieldSecrets, "", checkbox+" Include API keys") + "\n")

	// Inline validation errors from the last attempt
	if len(m.lastOutcome.FieldErrors) > 0 {
		var fields []string
		for field := range m.lastOutcome.FieldErrors {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		var errors []string
		for _, field := range fields {
			errors = append(errors, fmt.Sprintf("%s: %s", field, m.lastOutcome.FieldErrors[field]))
		}
		b.WriteString(styleError.Render(strings.Join(errors, " | ")) + "\n")
	} else {
		b.WriteString("\n")
	}
	b.WriteString("\n")

	// The context picker replaces the trace panes while it is open
	if m.mode == ModeContextSelect {
		b.WriteString(m.renderContextPicker())
	} else {
		b.WriteString(m.renderTracePanes())
	}

	b.WriteString("\n" + styleSubtle.Render(m.sendFooter()))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBlue).
		Width(modalWidth).
		Height(modalHeight).
		Padding(1, 2).
		Render(b.String())

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		box,
	)
}

// renderSendField renders one form line with focus and edit indicators
func (m *Model) renderSendField(index int, label, value string) string {
	prefix := "  "
	if m.sendFocus == index {
		prefix = "> "
	}

	// Show the live edit buffer with a cursor while editing this field
	if m.mode == ModeSendField && m.sendFocus == index {
		value = m.fieldInput[:m.fieldCursor] + "█" + m.fieldInput[m.fieldCursor:]
	}

	line := prefix
	if label != "" {
		rendered := fmt.Sprintf("%-11s", label)
		if m.sendFocus == index {
			rendered = styleTitleFocused.Render(rendered)
		}
		line += rendered + " "
	}

	return line + value
}

// endpointDisplay shows the endpoint or the generated placeholder fallback
func (m *Model) endpointDisplay() string {
	endpoint := m.send.GetEndpoint()
	if endpoint != "" {
		return endpoint
	}
	return styleSubtle.Render(m.send.GetPlaceholder() + " (generated)")
}

// renderTracePanes renders the request/response viewports side by side
func (m *Model) renderTracePanes() string {
	paneStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Width(m.requestView.Width + 2).
		Height(m.requestView.Height + 1).
		Padding(0, 1)

	left := paneStyle.
		BorderForeground(colorGray).
		Render(styleTitleUnfocused.Render("Request") + "\n" + m.requestView.View())

	right := paneStyle.
		BorderForeground(colorGreen).
		Render(styleTitleFocused.Render("Response") + "\n" + m.responseView.View())

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		left,
		right,
	)
}

// renderContextPicker renders the searchable context dropdown
func (m *Model) renderContextPicker() string {
	var b strings.Builder

	query := m.picker.Query()
	if query == "" {
		b.WriteString("Search: " + styleSubtle.Render("type to filter") + "\n\n")
	} else {
		b.WriteString("Search: " + addCursor(query) + "\n\n")
	}

	filtered := m.picker.Filtered()
	if len(filtered) == 0 {
		b.WriteString(styleSubtle.Render("No matching contexts") + "\n")
		if m.picker.CanCreate() {
			b.WriteString(styleSuccess.Render(fmt.Sprintf("> Enter: create '%s'", strings.TrimSpace(query))) + "\n")
		}
		return b.String()
	}

	// Keep the highlighted row inside the visible window
	maxRows := m.responseView.Height
	if maxRows < 3 {
		maxRows = 3
	}
	start := 0
	if m.picker.Cursor() >= maxRows {
		start = m.picker.Cursor() - maxRows + 1
	}
	end := min(start+maxRows, len(filtered))

	for i := start; i < end; i++ {
		label := filtered[i]

		checkbox := "[ ]"
		if m.picker.IsSelected(label) {
			checkbox = "[x]"
		}

		line := fmt.Sprintf("%s %s", checkbox, label)
		if i == m.picker.Cursor() {
			line = styleSelected.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}

	if len(filtered) > maxRows {
		b.WriteString(styleSubtle.Render(fmt.Sprintf("[%d/%d]", m.picker.Cursor()+1, len(filtered))) + "\n")
	}

	return b.String()
}

// sendFooter picks the footer hints for the active send sub-mode
func (m *Model) sendFooter() string {
	switch m.mode {
	case ModeSendField:
		return "Enter: apply | ESC: discard | Ctrl+K: clear | ←/→: move cursor"
	case ModeContextSelect:
		return "↑/↓: navigate | Space/Enter: toggle | type to search | ESC: done"
	default:
		return "Tab: next field | Enter: edit | Ctrl+S: send | Ctrl+E: export | y/Y: copy traces | ESC: close"
	}
}
