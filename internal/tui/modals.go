package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Pane title styles for split-pane modals
var (
	styleTitleFocused = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorGreen)

	styleTitleUnfocused = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorGray)
)

// min returns the smaller of two ints
func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// renderModalWithFooter renders a modal dialog with scrollable content and a fixed footer
func (m *Model) renderModalWithFooter(title, content, footer string, width, height int) string {
	return m.renderModalWithFooterAndScroll(title, content, footer, width, height, -1)
}

// renderModalWithFooterAndScroll renders a modal with footer and auto-scrolls to keep selectedLine visible
// Pass selectedLine=-1 to preserve existing scroll position
func (m *Model) renderModalWithFooterAndScroll(title, content, footer string, width, height, selectedLine int) string {
	// For small terminals, use almost full screen
	maxWidth := m.width - ViewportPaddingHorizontal
	maxHeight := m.height - ModalHeightMarginSmall

	// Adjust requested dimensions to fit screen
	if width > maxWidth {
		width = maxWidth
	}
	if height > maxHeight {
		height = maxHeight
	}

	// Ensure minimum reasonable size (but allow small for tiny terminals)
	if width < 30 && m.width >= 30 {
		width = 30
	}
	if height < 8 && m.height >= 8 {
		height = 8
	}

	// Update modal viewport size and content
	// Account for title (2 lines), padding (2), and border (2) = 6 lines total overhead
	// Also account for footer if present (2 lines: blank + footer)
	footerLines := 0
	if footer != "" {
		footerLines = ModalFooterLines
	}
	contentHeight := height - ModalOverheadLines - footerLines
	if contentHeight < 1 {
		// For very small terminals, reduce overhead
		contentHeight = height - ModalOverheadMinimal - footerLines
		if contentHeight < 1 {
			contentHeight = 1
		}
	}

	m.modalView.Width = width - ViewportPaddingHorizontal
	if m.modalView.Width < 10 {
		m.modalView.Width = 10
	}
	m.modalView.Height = contentHeight

	// Save scroll before SetContent resets it
	savedOffset := m.modalView.YOffset

	// Always update content for dynamic modals
	m.modalView.SetContent(content)

	// Auto-scroll only when selected item would be out of view
	if selectedLine >= 0 && m.modalView.Height > 0 {
		topVisible := savedOffset
		bottomVisible := savedOffset + m.modalView.Height - 1

		if selectedLine < topVisible {
			// Selected is above viewport - scroll up
			m.modalView.SetYOffset(selectedLine)
		} else if selectedLine > bottomVisible {
			// Selected is below viewport - scroll down just enough
			m.modalView.SetYOffset(selectedLine - m.modalView.Height + 1)
		} else {
			m.modalView.SetYOffset(savedOffset)
		}
	} else {
		// Keep scroll position for other content
		m.modalView.SetYOffset(savedOffset)
	}

	// Create modal content with title, viewport, and optional footer
	fullContent := styleTitle.Render(title) + "\n\n" + m.modalView.View()
	if footer != "" {
		fullContent += "\n\n" + styleSubtle.Render(footer)
	}

	modalBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBlue).
		Width(width).
		Height(height).
		Padding(1, 2).
		Render(fullContent)

	// For small terminals or large modals, don't center - just render
	if width >= m.width-2 || height >= m.height-1 {
		return modalBox
	}

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modalBox,
	)
}

// SplitPaneConfig defines the layout of a two-pane modal
type SplitPaneConfig struct {
	ModalWidth  int
	ModalHeight int

	// ShowRight controls whether the right pane is visible; when false
	// the left pane expands to the full modal width
	ShowRight bool

	LeftTitle   string
	LeftContent string
	LeftFocused bool

	RightTitle   string
	RightContent string

	Footer string
}

// renderSplitPaneModal renders a two-pane modal with an equal split
func renderSplitPaneModal(cfg SplitPaneConfig, totalWidth, totalHeight int) string {
	paneHeight := cfg.ModalHeight - 4 // Account for borders and padding

	leftTitleStyle := styleTitleUnfocused
	rightTitleStyle := styleTitleUnfocused
	if cfg.LeftFocused {
		leftTitleStyle = styleTitleFocused
	} else {
		rightTitleStyle = styleTitleFocused
	}

	var mainView string
	if cfg.ShowRight {
		leftWidth := (cfg.ModalWidth - SplitPaneBorderWidth) / 2
		rightWidth := cfg.ModalWidth - leftWidth - SplitPaneBorderWidth

		leftPane := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBlue).
			Width(leftWidth).
			Height(paneHeight).
			Padding(0, 1).
			Render(leftTitleStyle.Render(cfg.LeftTitle) + "\n" + cfg.LeftContent)

		rightPane := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGreen).
			Width(rightWidth).
			Height(paneHeight).
			Padding(0, 1).
			Render(rightTitleStyle.Render(cfg.RightTitle) + "\n" + cfg.RightContent)

		mainView = lipgloss.JoinHorizontal(
			lipgloss.Top,
			leftPane,
			rightPane,
		)
	} else {
		mainView = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBlue).
			Width(cfg.ModalWidth).
			Height(paneHeight).
			Padding(0, 1).
			Render(styleTitleFocused.Render(cfg.LeftTitle) + "\n" + cfg.LeftContent)
	}

	footer := styleSubtle.Render(cfg.Footer)

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		mainView,
		"\n"+footer,
	)

	return lipgloss.Place(
		totalWidth,
		totalHeight,
		lipgloss.Center,
		lipgloss.Center,
		content,
	)
}

// renderConfirmModal renders a small yes/no confirmation dialog
func (m *Model) renderConfirmModal(message string) string {
	content := message + "\n\n" + styleError.Render("This action cannot be undone!")
	return m.renderModalWithFooter("⚠️  WARNING", content, "[y]es  [n]o/ESC", 60, 14)
}

// renderAlerts renders the notification backlog modal
func (m *Model) renderAlerts() string {
	alerts := m.alerts.All()

	var content string
	if len(alerts) == 0 {
		content = styleSubtle.Render("No notifications yet")
	} else {
		for i, alert := range alerts {
			if i > 0 {
				content += "\n\n"
			}
			timestamp := styleSubtle.Render(alert.Timestamp.Format("15:04:05"))
			content += fmt.Sprintf("%s %s", timestamp, alertStyle(alert.Level).Render(alert.Title))
			for _, detail := range alert.Details {
				content += "\n  " + detail
			}
		}
	}

	footer := "↑/↓ j/k: scroll | C: clear | ESC/N: close"
	return m.renderModalWithFooter("Notifications", content, footer, m.width-ModalWidthMargin, m.height-ModalHeightMargin)
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	title := styleTitle.Render("Keyboard Shortcuts")
	footer := "↑/↓ j/k: scroll | ESC/?: close"

	// Footer stays outside the viewport so it remains visible
	fullContent := title + "\n\n" + m.helpView.View() + "\n\n" + styleSubtle.Render(footer)

	helpBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBlue).
		Width(m.width - ViewportPaddingHorizontal).
		Height(m.height - ModalHeightMargin).
		Padding(1, 2).
		Render(fullContent)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		helpBox,
	)
}

// updateHelpView updates the help viewport content
func (m *Model) updateHelpView() {
	helpText := `Flow CLI - Keyboard Shortcuts

NAVIGATION
  ↑/↓, j/k     Navigate flows
  g / G        Jump to first/last flow
  r            Reload the flow list

SENDING
  Enter, s     Open the send form
  Ctrl+S       Send to CoE-Backend
  Ctrl+E       Export to a local file
  Tab          Next form field
  Shift+Tab    Previous form field
  Space        Toggle context / API key checkbox
  y / Y        Copy request / response trace
  Shift+↑/↓    Scroll the response pane
  ESC          Close the form (edits discarded)

BROWSING
  L            Send log
  T            Tracked events
  N            Notifications
  i            Inspect last response (JMESPath)
  c            Copy flow JSON to clipboard

OTHER
  ?            Toggle this help
  q, Ctrl+C    Quit`

	if m.updateAvailable {
		helpText += fmt.Sprintf(`

UPDATE AVAILABLE
  Version %s is out: %s`, m.latestVersion, m.updateURL)
	}

	m.helpView.SetContent(helpText)
}
