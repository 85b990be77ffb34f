package tui

import "time"

// UI Layout Constants
// These constants define spacing, margins, and dimensions for the TUI layout

const (
	// Modal Dimensions - Standard margins for modal dialogs
	ModalWidthMargin  = 6 // Standard horizontal margin (m.width - 6)
	ModalHeightMargin = 3 // Standard vertical margin (m.height - 3)

	// Small-terminal clamps
	ViewportPaddingHorizontal = 4 // Horizontal padding inside bordered modals
	ModalHeightMarginSmall    = 2 // Minimal vertical margin for clamping

	// Modal Content Calculations
	ModalOverheadLines   = 6 // Title (2) + padding (2) + border (2)
	ModalOverheadMinimal = 4 // Border + title for minimal modals
	ModalFooterLines     = 2 // Footer + blank line

	// Split Pane Layout
	SplitPaneBorderWidth = 3 // Border width between split panes

	// Send Modal
	sendFormOverhead = 18 // Form lines, pane borders, footer, and modal chrome above the trace panes

	// Status Bar
	StatusTruncateLen = 100 // Max message length shown in the footer

	// Alerts
	AlertBacklogLimit = 100 // Notification backlog kept for the alerts modal

	// Events
	EventLoadLimit = 200 // Most recent tracked events shown in the events modal
)

// statusMessageTimeout clears transient status messages after a delay
const statusMessageTimeout = 5 * time.Second
