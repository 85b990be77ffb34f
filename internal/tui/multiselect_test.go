package tui

import (
	"testing"

	"github.com/studiowebux/flowcli/internal/registry"
)

func newTestPicker() *MultiSelect {
	return NewMultiSelect(registry.New("aider", "openwebui", "cline"))
}

func TestNewMultiSelect(t *testing.T) {
	ms := newTestPicker()

	if ms == nil {
		t.Fatal("NewMultiSelect returned nil")
	}
	if len(ms.Selected()) != 0 {
		t.Errorf("Expected empty selection, got %v", ms.Selected())
	}
	if ms.Query() != "" {
		t.Errorf("Expected empty query, got %s", ms.Query())
	}
	if ms.IsOpen() {
		t.Error("Expected picker closed initially")
	}
}

func TestMultiSelect_FilteredEmptyQuery(t *testing.T) {
	ms := newTestPicker()

	filtered := ms.Filtered()
	if len(filtered) != 3 {
		t.Fatalf("Expected all 3 options, got %d", len(filtered))
	}

	// Registry order is preserved
	expected := []string{"aider", "openwebui", "cline"}
	for i, label := range expected {
		if filtered[i] != label {
			t.Errorf("Expected %s at index %d, got %s", label, i, filtered[i])
		}
	}
}

func TestMultiSelect_FilteredSubstring(t *testing.T) {
	ms := newTestPicker()

	ms.SetQuery("web")
	filtered := ms.Filtered()
	if len(filtered) != 1 || filtered[0] != "openwebui" {
		t.Errorf("Expected [openwebui], got %v", filtered)
	}

	// Matching is case insensitive
	ms.SetQuery("AID")
	filtered = ms.Filtered()
	if len(filtered) != 1 || filtered[0] != "aider" {
		t.Errorf("Expected [aider], got %v", filtered)
	}

	// Whitespace in the query is ignored
	ms.SetQuery("open web")
	filtered = ms.Filtered()
	if len(filtered) != 1 || filtered[0] != "openwebui" {
		t.Errorf("Expected [openwebui] for spaced query, got %v", filtered)
	}
}

func TestMultiSelect_FilteredNoMatch(t *testing.T) {
	ms := newTestPicker()

	ms.SetQuery("zzz")
	if filtered := ms.Filtered(); len(filtered) != 0 {
		t.Errorf("Expected no matches, got %v", filtered)
	}
}

func TestMultiSelect_FilteredSeesRegistryGrowth(t *testing.T) {
	ms := newTestPicker()

	ms.SetQuery("web")
	if got := len(ms.Filtered()); got != 1 {
		t.Fatalf("Expected 1 match before add, got %d", got)
	}

	// A label added behind the picker's back shows up on the next call
	ms.registry.Add("webstorm")
	filtered := ms.Filtered()
	if len(filtered) != 2 {
		t.Errorf("Expected 2 matches after registry add, got %v", filtered)
	}
}

func TestMultiSelect_Toggle(t *testing.T) {
	ms := newTestPicker()

	ms.Toggle("aider")
	if !ms.IsSelected("aider") {
		t.Error("Expected aider selected after toggle")
	}
	if len(ms.Selected()) != 1 {
		t.Errorf("Expected 1 selection, got %d", len(ms.Selected()))
	}

	// Toggling again removes it
	ms.Toggle("aider")
	if ms.IsSelected("aider") {
		t.Error("Expected aider deselected after second toggle")
	}
	if len(ms.Selected()) != 0 {
		t.Errorf("Expected empty selection, got %v", ms.Selected())
	}
}

func TestMultiSelect_ToggleMatchesNormalized(t *testing.T) {
	ms := newTestPicker()

	ms.Toggle("aider")

	// Same label under normalization toggles it off
	ms.Toggle("  AIDER ")
	if len(ms.Selected()) != 0 {
		t.Errorf("Expected normalized toggle to deselect, got %v", ms.Selected())
	}
}

func TestMultiSelect_SelectionKeepsInteractionOrder(t *testing.T) {
	ms := newTestPicker()

	ms.Toggle("cline")
	ms.Toggle("aider")
	ms.Toggle("openwebui")

	selected := ms.Selected()
	expected := []string{"cline", "aider", "openwebui"}
	for i, label := range expected {
		if selected[i] != label {
			t.Errorf("Expected %s at position %d, got %s", label, i, selected[i])
		}
	}

	// Removing from the middle preserves the rest of the order
	ms.Toggle("aider")
	selected = ms.Selected()
	if len(selected) != 2 || selected[0] != "cline" || selected[1] != "openwebui" {
		t.Errorf("Expected [cline openwebui], got %v", selected)
	}
}

func TestMultiSelect_CursorMovement(t *testing.T) {
	ms := newTestPicker()

	if ms.Cursor() != 0 {
		t.Errorf("Expected cursor 0, got %d", ms.Cursor())
	}

	ms.MoveCursor(1)
	if ms.Cursor() != 1 {
		t.Errorf("Expected cursor 1, got %d", ms.Cursor())
	}

	// Clamped at the end of the filtered list
	ms.MoveCursor(10)
	if ms.Cursor() != 2 {
		t.Errorf("Expected cursor clamped to 2, got %d", ms.Cursor())
	}

	// Clamped at zero
	ms.MoveCursor(-10)
	if ms.Cursor() != 0 {
		t.Errorf("Expected cursor clamped to 0, got %d", ms.Cursor())
	}
}

func TestMultiSelect_CursorResetOnQueryChange(t *testing.T) {
	ms := newTestPicker()

	ms.MoveCursor(2)
	ms.SetQuery("cl")

	if ms.Cursor() != 0 {
		t.Errorf("Expected cursor reset to 0 on query change, got %d", ms.Cursor())
	}

	label, ok := ms.CursorLabel()
	if !ok || label != "cline" {
		t.Errorf("Expected cursor on cline, got %s (ok=%v)", label, ok)
	}
}

func TestMultiSelect_ToggleAtCursor(t *testing.T) {
	ms := newTestPicker()

	ms.MoveCursor(1)
	ms.ToggleAtCursor()

	if !ms.IsSelected("openwebui") {
		t.Error("Expected openwebui selected via cursor toggle")
	}

	// No-op when the filtered list is empty
	ms.SetQuery("zzz")
	ms.ToggleAtCursor()
	if len(ms.Selected()) != 1 {
		t.Errorf("Expected selection unchanged, got %v", ms.Selected())
	}
}

func TestMultiSelect_CanCreate(t *testing.T) {
	ms := newTestPicker()

	// Empty and whitespace-only queries cannot create
	if ms.CanCreate() {
		t.Error("Expected CanCreate false for empty query")
	}
	ms.SetQuery("   ")
	if ms.CanCreate() {
		t.Error("Expected CanCreate false for whitespace query")
	}

	// Existing labels cannot be recreated, regardless of case
	ms.SetQuery("AIDER")
	if ms.CanCreate() {
		t.Error("Expected CanCreate false for existing label")
	}

	ms.SetQuery("custom")
	if !ms.CanCreate() {
		t.Error("Expected CanCreate true for a new label")
	}
}

func TestMultiSelect_CreateFromQuery(t *testing.T) {
	ms := newTestPicker()

	ms.SetQuery("  custom ")
	label, created := ms.CreateFromQuery()

	if !created {
		t.Fatal("Expected CreateFromQuery to succeed")
	}
	if label != "custom" {
		t.Errorf("Expected trimmed label 'custom', got %q", label)
	}
	if !ms.registry.Contains("custom") {
		t.Error("Expected created label in the registry")
	}
	if !ms.IsSelected("custom") {
		t.Error("Expected created label selected")
	}
	if ms.Query() != "" {
		t.Errorf("Expected query cleared after create, got %s", ms.Query())
	}
}

func TestMultiSelect_CreateFromQueryTwice(t *testing.T) {
	ms := newTestPicker()

	ms.SetQuery("custom")
	if _, created := ms.CreateFromQuery(); !created {
		t.Fatal("Expected first create to succeed")
	}

	// Once the label exists, a repeat create is a no-op
	ms.SetQuery("custom")
	if _, created := ms.CreateFromQuery(); created {
		t.Error("Expected repeat create to be a no-op")
	}

	if got := ms.registry.Len(); got != 4 {
		t.Errorf("Expected registry to hold 4 labels, got %d", got)
	}
	if len(ms.Selected()) != 1 {
		t.Errorf("Expected label selected exactly once, got %v", ms.Selected())
	}
}

func TestMultiSelect_SummaryLabel(t *testing.T) {
	ms := newTestPicker()

	if got := ms.SummaryLabel(); got != "Select contexts..." {
		t.Errorf("Expected placeholder summary, got %q", got)
	}

	ms.Toggle("aider")
	if got := ms.SummaryLabel(); got != "aider" {
		t.Errorf("Expected 'aider', got %q", got)
	}

	ms.Toggle("cline")
	ms.Toggle("openwebui")
	if got := ms.SummaryLabel(); got != "aider, cline, openwebui" {
		t.Errorf("Expected three joined labels, got %q", got)
	}

	ms.registry.Add("vscode")
	ms.registry.Add("continue")
	ms.Toggle("vscode")
	ms.Toggle("continue")
	if got := ms.SummaryLabel(); got != "aider, cline, openwebui +2 more" {
		t.Errorf("Expected overflow summary, got %q", got)
	}
}

func TestMultiSelect_OpenResetsQueryAndCursor(t *testing.T) {
	ms := newTestPicker()

	ms.SetQuery("web")
	ms.MoveCursor(1)

	ms.Open()

	if !ms.IsOpen() {
		t.Error("Expected picker open")
	}
	if ms.Query() != "" {
		t.Errorf("Expected query cleared on open, got %s", ms.Query())
	}
	if ms.Cursor() != 0 {
		t.Errorf("Expected cursor reset on open, got %d", ms.Cursor())
	}

	ms.Close()
	if ms.IsOpen() {
		t.Error("Expected picker closed")
	}
}
