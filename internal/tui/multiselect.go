package tui

import (
	"fmt"
	"strings"

	"github.com/studiowebux/flowcli/internal/registry"
)

// MultiSelect is a searchable multi-select over the context registry.
// Options can be filtered, toggled in and out of the selection, and
// created on the fly from the search query. Selection order reflects
// interaction order, not option order.
type MultiSelect struct {
	registry *registry.Registry
	selected []string
	query    string
	cursor   int
	open     bool

	// Filter memoization, invalidated when the query or registry changes
	memoQuery    string
	memoLen      int
	memoFiltered []string
	memoValid    bool
}

// NewMultiSelect creates a picker over the given registry
func NewMultiSelect(reg *registry.Registry) *MultiSelect {
	return &MultiSelect{registry: reg}
}

// searchKey folds case and strips all whitespace for filter matching
func searchKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

// IsOpen returns whether the dropdown is showing
func (ms *MultiSelect) IsOpen() bool {
	return ms.open
}

// Open shows the dropdown with a fresh query
func (ms *MultiSelect) Open() {
	ms.open = true
	ms.SetQuery("")
	ms.cursor = 0
}

// Close hides the dropdown
func (ms *MultiSelect) Close() {
	ms.open = false
}

// Query returns the current search query
func (ms *MultiSelect) Query() string {
	return ms.query
}

// SetQuery replaces the search query and resets the cursor
func (ms *MultiSelect) SetQuery(query string) {
	ms.query = query
	ms.memoValid = false
	ms.cursor = 0
}

// Filtered returns the options whose folded form contains the folded
// query. An empty query returns the full option list in registry order.
func (ms *MultiSelect) Filtered() []string {
	if ms.memoValid && ms.memoQuery == ms.query && ms.memoLen == ms.registry.Len() {
		return ms.memoFiltered
	}

	labels := ms.registry.Labels()
	filtered := labels
	if key := searchKey(ms.query); key != "" {
		filtered = nil
		for _, label := range labels {
			if strings.Contains(searchKey(label), key) {
				filtered = append(filtered, label)
			}
		}
	}

	ms.memoQuery = ms.query
	ms.memoLen = ms.registry.Len()
	ms.memoFiltered = filtered
	ms.memoValid = true
	return filtered
}

// Cursor returns the highlighted row index in the filtered list
func (ms *MultiSelect) Cursor() int {
	return ms.cursor
}

// MoveCursor moves the highlight, clamped to the filtered list
func (ms *MultiSelect) MoveCursor(delta int) {
	ms.cursor += delta
	max := len(ms.Filtered()) - 1
	if ms.cursor > max {
		ms.cursor = max
	}
	if ms.cursor < 0 {
		ms.cursor = 0
	}
}

// CursorLabel returns the highlighted option, if any
func (ms *MultiSelect) CursorLabel() (string, bool) {
	filtered := ms.Filtered()
	if ms.cursor < 0 || ms.cursor >= len(filtered) {
		return "", false
	}
	return filtered[ms.cursor], true
}

// IsSelected reports whether a label is in the selection
func (ms *MultiSelect) IsSelected(label string) bool {
	for _, sel := range ms.selected {
		if registry.Normalize(sel) == registry.Normalize(label) {
			return true
		}
	}
	return false
}

// Toggle adds an unselected label to the selection or removes a
// selected one. Toggling the same label twice restores the original set.
func (ms *MultiSelect) Toggle(label string) {
	key := registry.Normalize(label)
	for i, sel := range ms.selected {
		if registry.Normalize(sel) == key {
			ms.selected = append(ms.selected[:i], ms.selected[i+1:]...)
			return
		}
	}
	ms.selected = append(ms.selected, label)
}

// ToggleAtCursor toggles the highlighted option
func (ms *MultiSelect) ToggleAtCursor() {
	if label, ok := ms.CursorLabel(); ok {
		ms.Toggle(label)
	}
}

// Selected returns a copy of the selection in interaction order
func (ms *MultiSelect) Selected() []string {
	return append([]string(nil), ms.selected...)
}

// CanCreate reports whether the trimmed query names a new option
func (ms *MultiSelect) CanCreate() bool {
	trimmed := strings.TrimSpace(ms.query)
	return trimmed != "" && !ms.registry.Contains(trimmed)
}

// CreateFromQuery adds the trimmed query to the registry and the
// selection, then clears the query. Repeat calls with the same label
// are no-ops once it exists.
func (ms *MultiSelect) CreateFromQuery() (string, bool) {
	if !ms.CanCreate() {
		return "", false
	}

	label := strings.TrimSpace(ms.query)
	ms.registry.Add(label)
	if !ms.IsSelected(label) {
		ms.selected = append(ms.selected, label)
	}
	ms.SetQuery("")
	return label, true
}

// SummaryLabel renders the selection compactly for the closed control
func (ms *MultiSelect) SummaryLabel() string {
	switch n := len(ms.selected); {
	case n == 0:
		return "Select contexts..."
	case n <= 3:
		return strings.Join(ms.selected, ", ")
	default:
		return fmt.Sprintf("%s +%d more", strings.Join(ms.selected[:3], ", "), n-3)
	}
}
