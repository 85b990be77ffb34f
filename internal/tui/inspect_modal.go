package tui

import (
	"strings"
)

// renderInspect renders the JMESPath response inspector
func (m *Model) renderInspect() string {
	var b strings.Builder

	// Query input with cursor
	query := m.inspectInput[:m.inspectCursor] + "█" + m.inspectInput[m.inspectCursor:]
	b.WriteString("Query: " + query + "\n\n")

	wrapWidth := m.width - ModalWidthMargin - ViewportPaddingHorizontal
	if wrapWidth < 40 {
		wrapWidth = 40
	}

	switch {
	case m.inspectError != "":
		b.WriteString(styleError.Render(wrapText(m.inspectError, wrapWidth)))
	case m.inspectResult != "":
		b.WriteString(wrapText(m.inspectResult, wrapWidth))
	case m.inspectInput == "":
		b.WriteString(styleSubtle.Render("Type a JMESPath expression to query the last response\n\nExamples:\n  flow_id\n  data.nodes[0]\n  keys(@)"))
	default:
		b.WriteString(styleSubtle.Render("No result"))
	}

	footer := "Enter: evaluate | Tab: copy result | Ctrl+K: clear | ESC: close"
	return m.renderModalWithFooter("Inspect Response", b.String(), footer,
		m.width-ModalWidthMargin, m.height-ModalHeightMargin)
}
