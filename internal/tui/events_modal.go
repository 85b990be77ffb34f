package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/studiowebux/flowcli/internal/analytics"
)

// renderEvents renders the tracked events modal
func (m *Model) renderEvents() string {
	footer := "↑/↓ j/k: navigate | C: clear all | ESC/T: close"
	if len(m.events) > 0 {
		footer += fmt.Sprintf(" [%d/%d]", m.eventsIndex+1, len(m.events))
	}

	var content string
	if len(m.events) == 0 {
		content = styleSubtle.Render("No events tracked yet\n\nEvents fire when flows are sent, exported, or copied")
	} else {
		var lines []string
		if summary := formatEventStats(m.eventStats); summary != "" {
			lines = append(lines, styleSubtle.Render(summary), "")
		}
		for i, event := range m.events {
			line := fmt.Sprintf("%s %s %s",
				event.Timestamp.Format("01-02 15:04:05"),
				styleTitle.Render(event.Name),
				styleSubtle.Render(event.FlowID))
			if i == m.eventsIndex {
				line = "> " + line
			} else {
				line = "  " + line
			}
			lines = append(lines, line)

			// Expand metadata under the selected event
			if i == m.eventsIndex && len(event.Metadata) > 0 {
				var keys []string
				for key := range event.Metadata {
					keys = append(keys, key)
				}
				sort.Strings(keys)
				for _, key := range keys {
					lines = append(lines, styleSubtle.Render(fmt.Sprintf("      %s: %v", key, event.Metadata[key])))
				}
			}
		}
		content = strings.Join(lines, "\n")
	}

	return m.renderModalWithFooterAndScroll("Tracked Events", content, footer,
		m.width-ModalWidthMargin, m.height-ModalHeightMargin, m.eventsIndex)
}

// renderEventsClearConfirmation renders the clear-all confirmation dialog
func (m *Model) renderEventsClearConfirmation() string {
	message := fmt.Sprintf("Clear all tracked events?\n\n%d events will be removed.", len(m.events))
	return m.renderConfirmModal(message)
}

// formatEventStats builds the per-event-name count summary shown above
// the event list, e.g. "flow_sent x12 | flow_exported x3"
func formatEventStats(stats []analytics.Stats) string {
	if len(stats) == 0 {
		return ""
	}
	parts := make([]string, 0, len(stats))
	for _, s := range stats {
		parts = append(parts, fmt.Sprintf("%s x%d", s.Name, s.TotalCount))
	}
	return strings.Join(parts, " | ")
}

// updateEventsView clamps the selection after a reload
func (m *Model) updateEventsView() {
	if m.eventsIndex >= len(m.events) {
		m.eventsIndex = len(m.events) - 1
	}
	if m.eventsIndex < 0 {
		m.eventsIndex = 0
	}
}
