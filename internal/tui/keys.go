package tui

import (
	"fmt"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/flowcli/internal/dispatch"
	"github.com/studiowebux/flowcli/internal/filter"
	"github.com/studiowebux/flowcli/internal/types"
)

// handleKeyPress routes key presses based on current mode
func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	// Global keys (work in all modes)
	switch msg.String() {
	case "ctrl+c":
		m.Cleanup()
		return tea.Quit
	}

	switch m.mode {
	case ModeSend:
		return m.handleSendKeys(msg)
	case ModeSendField:
		return m.handleSendFieldKeys(msg)
	case ModeContextSelect:
		return m.handleContextSelectKeys(msg)
	case ModeSendLog:
		return m.handleSendLogKeys(msg)
	case ModeSendLogClearConfirm:
		return m.handleSendLogClearConfirmKeys(msg)
	case ModeEvents:
		return m.handleEventsKeys(msg)
	case ModeEventsClearConfirm:
		return m.handleEventsClearConfirmKeys(msg)
	case ModeInspect:
		return m.handleInspectKeys(msg)
	case ModeAlerts:
		return m.handleAlertsKeys(msg)
	case ModeHelp:
		return m.handleHelpKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

// handleNormalKeys handles keys in normal mode (flow list)
func (m *Model) handleNormalKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q":
		m.Cleanup()
		return tea.Quit

	case "up", "k":
		m.navigateFiles(-1)

	case "down", "j":
		m.navigateFiles(1)

	case "g":
		m.jumpToFile(0)

	case "G":
		m.jumpToFile(len(m.files) - 1)

	case "enter", "s":
		return m.openSendModal()

	case "e":
		// Quick export with the flow's own name/description, API keys stripped
		doc := m.flowStore.GetCurrent()
		if doc == nil {
			return m.setErrorMessage("No flow selected")
		}
		edits := types.FlowEdits{Name: doc.Name, Description: doc.Description}
		return m.exportFlow(doc, edits, false)

	case "r":
		return m.refreshFiles()

	case "c":
		return m.copyFlowJSON()

	case "L":
		m.mode = ModeSendLog
		m.sendLogPreviewVisible = true
		return m.loadSendLog()

	case "T":
		m.mode = ModeEvents
		return m.loadEvents()

	case "N":
		m.mode = ModeAlerts
		m.modalView.GotoTop()

	case "i":
		if m.lastOutcome.ResponseBody == "" {
			return m.setErrorMessage("No response to inspect (send a flow first)")
		}
		m.mode = ModeInspect
		m.inspectInput = ""
		m.inspectCursor = 0
		m.inspectResult = ""
		m.inspectError = ""

	case "?":
		m.mode = ModeHelp
		m.updateHelpView()
		m.helpView.GotoTop()
		if !m.versionChecked {
			m.versionChecked = true
			return m.checkForUpdates()
		}
	}

	return nil
}

// handleSendKeys handles keys in the send form
func (m *Model) handleSendKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		if m.loading {
			// The in-flight attempt keeps running on its snapshot; the
			// outcome still lands in the notifications and the send log.
			m.closeSendModal()
			return m.setStatusMessage("Send continues in background")
		}
		m.closeSendModal()

	case "tab", "down":
		m.sendFocus = (m.sendFocus + 1) % sendFieldCount

	case "shift+tab", "up":
		m.sendFocus = (m.sendFocus + sendFieldCount - 1) % sendFieldCount

	case "enter":
		switch m.sendFocus {
		case sendFieldName:
			m.startFieldEdit(m.send.GetName())
		case sendFieldDescription:
			m.startFieldEdit(m.send.GetDescription())
		case sendFieldEndpoint:
			m.startFieldEdit(m.send.GetEndpoint())
		case sendFieldContexts:
			m.picker.Open()
			m.mode = ModeContextSelect
		case sendFieldSecrets:
			m.send.ToggleIncludeSecrets()
		}

	case " ":
		switch m.sendFocus {
		case sendFieldContexts:
			m.picker.Open()
			m.mode = ModeContextSelect
		case sendFieldSecrets:
			m.send.ToggleIncludeSecrets()
		}

	case "ctrl+s":
		return m.startSend()

	case "ctrl+e":
		doc := m.flowStore.GetCurrent()
		if doc == nil {
			return m.setErrorMessage("No flow selected")
		}
		edits := types.FlowEdits{Name: m.send.GetName(), Description: m.send.GetDescription()}
		return m.exportFlow(doc, edits, m.send.IncludeSecrets())

	case "y":
		if m.lastOutcome.RequestTrace == "" {
			return m.setErrorMessage("No request to copy")
		}
		return m.copyText(m.lastOutcome.RequestTrace, "Request")

	case "Y":
		if m.lastOutcome.ResponseTrace == "" {
			return m.setErrorMessage("No response to copy")
		}
		return m.copyText(m.lastOutcome.ResponseTrace, "Response")

	case "shift+up":
		m.responseView.LineUp(1)

	case "shift+down":
		m.responseView.LineDown(1)
	}

	return nil
}

// startSend snapshots the form and launches the send command
func (m *Model) startSend() tea.Cmd {
	if m.loading {
		m.alerts.Notice("Send already in progress", []string{"Wait for the current attempt to finish"})
		return m.setStatusMessage("Send already in progress")
	}

	doc := m.flowStore.GetCurrent()
	if doc == nil {
		return m.setErrorMessage("No flow selected")
	}

	// Snapshot the request before handing off to the command goroutine
	req := dispatch.SendRequest{
		Flow:           doc,
		Edits:          types.FlowEdits{Name: m.send.GetName(), Description: m.send.GetDescription()},
		Endpoint:       m.send.GetEndpoint(),
		Placeholder:    m.send.GetPlaceholder(),
		Contexts:       m.picker.Selected(),
		IncludeSecrets: m.send.IncludeSecrets(),
	}

	m.loading = true
	m.updateTracePanes()
	return m.sendFlow(req)
}

// startFieldEdit enters text editing for the focused form field
func (m *Model) startFieldEdit(value string) {
	m.fieldInput = value
	m.fieldCursor = len(value)
	m.mode = ModeSendField
}

// handleSendFieldKeys handles text editing of a send form field
func (m *Model) handleSendFieldKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		// Discard the edit
		m.fieldInput = ""
		m.fieldCursor = 0
		m.mode = ModeSend
		return nil

	case "enter":
		switch m.sendFocus {
		case sendFieldName:
			m.send.SetName(m.fieldInput)
		case sendFieldDescription:
			m.send.SetDescription(m.fieldInput)
		case sendFieldEndpoint:
			m.send.SetEndpoint(m.fieldInput)
			delete(m.lastOutcome.FieldErrors, "endpoint")
		}
		m.fieldInput = ""
		m.fieldCursor = 0
		m.mode = ModeSend
		return nil
	}

	// Handle text input with cursor support
	if _, shouldContinue := handleTextInputWithCursor(&m.fieldInput, &m.fieldCursor, msg); shouldContinue {
		return nil
	}
	// Only append single printable characters
	if len(msg.String()) == 1 {
		m.fieldInput = m.fieldInput[:m.fieldCursor] + msg.String() + m.fieldInput[m.fieldCursor:]
		m.fieldCursor++
	}

	return nil
}

// handleContextSelectKeys handles keys in the context picker
func (m *Model) handleContextSelectKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.picker.Close()
		if len(m.picker.Selected()) > 0 {
			delete(m.lastOutcome.FieldErrors, "context")
		}
		m.mode = ModeSend
		return nil

	case "up", "ctrl+p":
		m.picker.MoveCursor(-1)
		return nil

	case "down", "ctrl+n":
		m.picker.MoveCursor(1)
		return nil

	case "enter", " ":
		if len(m.picker.Filtered()) == 0 {
			if label, ok := m.picker.CreateFromQuery(); ok {
				delete(m.lastOutcome.FieldErrors, "context")
				return m.setStatusMessage(fmt.Sprintf("Context '%s' created", label))
			}
			return nil
		}
		m.picker.ToggleAtCursor()
		if len(m.picker.Selected()) > 0 {
			delete(m.lastOutcome.FieldErrors, "context")
		}
		return nil

	case "ctrl+k":
		m.picker.SetQuery("")
		return nil

	case "backspace":
		if q := m.picker.Query(); q != "" {
			m.picker.SetQuery(q[:len(q)-1])
		}
		return nil
	}

	// Type into the search query
	if len(msg.String()) == 1 && msg.String() != " " {
		m.picker.SetQuery(m.picker.Query() + msg.String())
	}

	return nil
}

// handleSendLogKeys handles keys in the send log viewer
func (m *Model) handleSendLogKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "q", "L":
		m.mode = ModeNormal

	case "up", "k":
		if m.sendLogIndex > 0 {
			m.sendLogIndex--
			m.updateSendLogView()
		}

	case "down", "j":
		if m.sendLogIndex < len(m.sendLogEntries)-1 {
			m.sendLogIndex++
			m.updateSendLogView()
		}

	case "g":
		m.sendLogIndex = 0
		m.updateSendLogView()

	case "G":
		if len(m.sendLogEntries) > 0 {
			m.sendLogIndex = len(m.sendLogEntries) - 1
			m.updateSendLogView()
		}

	case "p":
		m.sendLogPreviewVisible = !m.sendLogPreviewVisible
		m.updateSendLogView()

	case "enter":
		// Load the entry's response for inspection
		if m.sendLogIndex < len(m.sendLogEntries) {
			entry := m.sendLogEntries[m.sendLogIndex]
			if entry.ResponseBody == "" {
				return m.setErrorMessage("Entry has no response body")
			}
			m.lastOutcome.ResponseBody = entry.ResponseBody
			return m.setStatusMessage("Response loaded, press 'i' to inspect")
		}

	case "d":
		if m.historyManager == nil {
			return m.setErrorMessage("Send log unavailable")
		}
		if m.sendLogIndex < len(m.sendLogEntries) {
			entry := m.sendLogEntries[m.sendLogIndex]
			if err := m.historyManager.Delete(entry.ID); err != nil {
				return m.setErrorMessage(fmt.Sprintf("Failed to delete entry: %v", err))
			}
			return m.loadSendLog()
		}

	case "C":
		if len(m.sendLogEntries) > 0 {
			m.mode = ModeSendLogClearConfirm
		}
	}

	return nil
}

// handleSendLogClearConfirmKeys handles the send log clear confirmation
func (m *Model) handleSendLogClearConfirmKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		m.mode = ModeSendLog
		if m.historyManager == nil {
			return m.setErrorMessage("Send log unavailable")
		}
		if err := m.historyManager.Clear(); err != nil {
			return m.setErrorMessage(fmt.Sprintf("Failed to clear send log: %v", err))
		}
		return tea.Batch(m.loadSendLog(), m.setStatusMessage("Send log cleared"))

	case "n", "N", "esc":
		m.mode = ModeSendLog
	}

	return nil
}

// handleEventsKeys handles keys in the tracked events viewer
func (m *Model) handleEventsKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "q", "T":
		m.mode = ModeNormal

	case "up", "k":
		if m.eventsIndex > 0 {
			m.eventsIndex--
			m.updateEventsView()
		}

	case "down", "j":
		if m.eventsIndex < len(m.events)-1 {
			m.eventsIndex++
			m.updateEventsView()
		}

	case "g":
		m.eventsIndex = 0
		m.updateEventsView()

	case "G":
		if len(m.events) > 0 {
			m.eventsIndex = len(m.events) - 1
			m.updateEventsView()
		}

	case "C":
		if len(m.events) > 0 {
			m.mode = ModeEventsClearConfirm
		}
	}

	return nil
}

// handleEventsClearConfirmKeys handles the events clear confirmation
func (m *Model) handleEventsClearConfirmKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		m.mode = ModeEvents
		if m.analyticsManager == nil {
			return m.setErrorMessage("Event tracking unavailable")
		}
		if err := m.analyticsManager.Clear(); err != nil {
			return m.setErrorMessage(fmt.Sprintf("Failed to clear events: %v", err))
		}
		return tea.Batch(m.loadEvents(), m.setStatusMessage("Tracked events cleared"))

	case "n", "N", "esc":
		m.mode = ModeEvents
	}

	return nil
}

// handleInspectKeys handles keys in the response inspector
func (m *Model) handleInspectKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.mode = ModeNormal
		return nil

	case "enter":
		m.evaluateInspect()
		return nil

	case "tab":
		if m.inspectResult == "" {
			return m.setErrorMessage("No result to copy")
		}
		return m.copyText(m.inspectResult, "Query result")
	}

	// Handle text input with cursor support
	if _, shouldContinue := handleTextInputWithCursor(&m.inspectInput, &m.inspectCursor, msg); shouldContinue {
		m.evaluateInspect()
		return nil
	}
	// Only append single printable characters
	if len(msg.String()) == 1 {
		m.inspectInput = m.inspectInput[:m.inspectCursor] + msg.String() + m.inspectInput[m.inspectCursor:]
		m.inspectCursor++
		m.evaluateInspect()
	}

	return nil
}

// evaluateInspect runs the JMESPath query against the last response body
func (m *Model) evaluateInspect() {
	m.inspectResult = ""
	m.inspectError = ""
	if m.inspectInput == "" {
		return
	}

	result, err := filter.Apply(m.lastOutcome.ResponseBody, "", m.inspectInput)
	if err != nil {
		m.inspectError = err.Error()
		return
	}
	m.inspectResult = result
}

// handleAlertsKeys handles keys in the notifications viewer
func (m *Model) handleAlertsKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "q", "N":
		m.mode = ModeNormal

	case "up", "k":
		m.modalView.LineUp(1)

	case "down", "j":
		m.modalView.LineDown(1)

	case "g":
		m.modalView.GotoTop()

	case "G":
		m.modalView.GotoBottom()

	case "C":
		m.alerts.Clear()
		return m.setStatusMessage("Notifications cleared")
	}

	return nil
}

// handleHelpKeys handles keys in help mode
func (m *Model) handleHelpKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "q", "?":
		m.mode = ModeNormal

	case "up", "k":
		m.helpView.LineUp(1)

	case "down", "j":
		m.helpView.LineDown(1)

	case "g":
		m.helpView.GotoTop()

	case "G":
		m.helpView.GotoBottom()
	}

	return nil
}

// openSendModal seeds the send form from the selected flow
func (m *Model) openSendModal() tea.Cmd {
	doc := m.flowStore.GetCurrent()
	if doc == nil {
		return m.setErrorMessage("No flow selected")
	}

	m.send.Initialize(doc, dispatch.GeneratePlaceholder())
	m.picker = NewMultiSelect(m.registry)
	m.sendFocus = 0
	m.lastOutcome = dispatch.Outcome{}
	m.flowStore.SetBuilding(true)
	m.mode = ModeSend
	m.updateTracePanes()
	return nil
}

// closeSendModal discards form edits and returns to the flow list
func (m *Model) closeSendModal() {
	m.mode = ModeNormal
	m.send.Reset()
	m.picker = nil
	m.sendFocus = 0
	m.fieldInput = ""
	m.fieldCursor = 0
	m.flowStore.SetBuilding(false)
}

// handleTextInputWithCursor handles text input with cursor position support
// Returns: modified (bool), shouldContinue (bool)
func handleTextInputWithCursor(input *string, cursorPos *int, msg tea.KeyMsg) (modified bool, shouldContinue bool) {
	// Ensure cursor position is valid
	if *cursorPos < 0 {
		*cursorPos = 0
	}
	if *cursorPos > len(*input) {
		*cursorPos = len(*input)
	}

	switch msg.String() {
	case "left":
		if *cursorPos > 0 {
			*cursorPos--
		}
		return true, true

	case "right":
		if *cursorPos < len(*input) {
			*cursorPos++
		}
		return true, true

	case "home", "ctrl+a":
		*cursorPos = 0
		return true, true

	case "end", "ctrl+e":
		*cursorPos = len(*input)
		return true, true

	case "ctrl+v", "shift+insert", "super+v":
		// Paste from clipboard at cursor position (Ctrl+V, Shift+Insert, or Cmd+V on macOS)
		if text, err := clipboard.ReadAll(); err == nil {
			*input = (*input)[:*cursorPos] + text + (*input)[*cursorPos:]
			*cursorPos += len(text)
			return true, true
		}
		return false, true

	case "ctrl+y":
		// Alternative paste
		if text, err := clipboard.ReadAll(); err == nil {
			*input = (*input)[:*cursorPos] + text + (*input)[*cursorPos:]
			*cursorPos += len(text)
			return true, true
		}
		return false, true

	case "ctrl+k":
		// Clear input
		if *input != "" {
			*input = ""
			*cursorPos = 0
			return true, true
		}
		return false, true

	case "backspace":
		// Delete character before cursor
		if *cursorPos > 0 {
			*input = (*input)[:*cursorPos-1] + (*input)[*cursorPos:]
			*cursorPos--
			return true, true
		}
		return false, true

	case "delete":
		// Delete character at cursor
		if *cursorPos < len(*input) {
			*input = (*input)[:*cursorPos] + (*input)[*cursorPos+1:]
			return true, true
		}
		return false, true
	}

	return false, false
}
