/*
Package tui implements the terminal user interface for Flow CLI.

# Architecture

The TUI follows the Bubble Tea framework's Model-Update-View pattern:
  - Model: Maintains all application state
  - Update: Processes messages and returns commands
  - View: Renders the current state to the terminal

# Key Components

  - model.go: Core state and the update loop, defines the Model struct and mode enum
  - keys.go: Keyboard input handling routed by mode, plus the shared text input helper
  - render.go: View rendering for the main interface (sidebar, summary, status bar)
  - send_modal.go: Send form with inline field editing, context picker, and trace panes
  - actions.go: File navigation and background commands (sends, exports, clipboard)

# State Management

State that background goroutines touch is decomposed into focused objects:
  - SendState: Send form fields, snapshotted into a dispatch request
  - AlertState: Notification backlog pushed to from command goroutines
  - flow.Store: Current flow document, shared with the dispatch engine

These use sync.RWMutex for thread safety. MultiSelect and the rest of the
Model are only accessed from the Bubble Tea event loop and need no locking.

# Modal System

The application uses a mode-based system. Each mode has an associated
handler in keys.go and a render function.

Modes are organized by category:
  - Normal operation (ModeNormal)
  - Sending (ModeSend, ModeSendField, ModeContextSelect)
  - Modals (ModeSendLog, ModeEvents, ModeInspect, ModeAlerts, ModeHelp)
  - Confirmations (ModeSendLogClearConfirm, ModeEventsClearConfirm)

Modals share the Model's viewports; each mode resizes the viewport it
uses before rendering.

# Threading Model

The TUI runs in a single goroutine (Bubble Tea's event loop), but spawns
goroutines for:
  - Flow dispatch over HTTP
  - Export file generation
  - SQLite reads (send log, tracked events)
  - Clipboard writes and the version check

Communication with background goroutines uses tea.Cmd functions; each
command captures the data it needs before the goroutine starts and
reports back with a message.

# Example Usage

	if err := tui.Run(flowsDir, version); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
*/
package tui
