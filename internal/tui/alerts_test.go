package tui

import (
	"fmt"
	"sync"
	"testing"
)

func TestNewAlertState(t *testing.T) {
	state := NewAlertState()

	if state == nil {
		t.Fatal("NewAlertState returned nil")
	}

	if state.Len() != 0 {
		t.Errorf("Expected empty backlog, got %d alerts", state.Len())
	}

	if _, ok := state.Latest(); ok {
		t.Error("Latest should report false on an empty backlog")
	}
}

func TestAlertState_PushAndLatest(t *testing.T) {
	state := NewAlertState()

	state.Success("Flow sent", []string{"chat-flow", "200 OK"})

	latest, ok := state.Latest()
	if !ok {
		t.Fatal("Latest should report true after a push")
	}
	if latest.Level != AlertSuccess {
		t.Errorf("Expected level %v, got %v", AlertSuccess, latest.Level)
	}
	if latest.Title != "Flow sent" {
		t.Errorf("Expected title 'Flow sent', got %s", latest.Title)
	}
	if len(latest.Details) != 2 {
		t.Errorf("Expected 2 detail lines, got %d", len(latest.Details))
	}
	if latest.Timestamp.IsZero() {
		t.Error("Timestamp should be set on push")
	}
}

func TestAlertState_Levels(t *testing.T) {
	state := NewAlertState()

	state.Success("ok", nil)
	state.Notice("heads up", nil)
	state.Error("failed", nil)

	alerts := state.All()
	if len(alerts) != 3 {
		t.Fatalf("Expected 3 alerts, got %d", len(alerts))
	}

	// Newest first
	if alerts[0].Level != AlertError {
		t.Errorf("Expected newest alert to be AlertError, got %v", alerts[0].Level)
	}
	if alerts[1].Level != AlertNotice {
		t.Errorf("Expected AlertNotice second, got %v", alerts[1].Level)
	}
	if alerts[2].Level != AlertSuccess {
		t.Errorf("Expected AlertSuccess last, got %v", alerts[2].Level)
	}
}

func TestAlertState_NewestFirstOrdering(t *testing.T) {
	state := NewAlertState()

	state.Notice("first", nil)
	state.Notice("second", nil)
	state.Notice("third", nil)

	latest, ok := state.Latest()
	if !ok {
		t.Fatal("Latest should report true")
	}
	if latest.Title != "third" {
		t.Errorf("Expected latest alert 'third', got %s", latest.Title)
	}

	alerts := state.All()
	if alerts[len(alerts)-1].Title != "first" {
		t.Errorf("Expected oldest alert 'first' at the end, got %s", alerts[len(alerts)-1].Title)
	}
}

func TestAlertState_BacklogLimit(t *testing.T) {
	state := NewAlertState()

	for i := 0; i < AlertBacklogLimit+25; i++ {
		state.Notice(fmt.Sprintf("alert %d", i), nil)
	}

	if state.Len() != AlertBacklogLimit {
		t.Errorf("Expected backlog trimmed to %d, got %d", AlertBacklogLimit, state.Len())
	}

	// The newest alerts survive the trim
	latest, _ := state.Latest()
	expected := fmt.Sprintf("alert %d", AlertBacklogLimit+24)
	if latest.Title != expected {
		t.Errorf("Expected latest alert %q, got %q", expected, latest.Title)
	}
}

func TestAlertState_DetailsCopied(t *testing.T) {
	state := NewAlertState()

	details := []string{"line one"}
	state.Error("failed", details)

	// Mutating the caller's slice must not change the stored alert
	details[0] = "mutated"

	latest, _ := state.Latest()
	if latest.Details[0] != "line one" {
		t.Errorf("Expected stored detail 'line one', got %s", latest.Details[0])
	}
}

func TestAlertState_AllReturnsCopy(t *testing.T) {
	state := NewAlertState()

	state.Notice("original", nil)

	alerts := state.All()
	alerts[0].Title = "mutated"

	latest, _ := state.Latest()
	if latest.Title != "original" {
		t.Errorf("Expected stored title 'original', got %s", latest.Title)
	}
}

func TestAlertState_Clear(t *testing.T) {
	state := NewAlertState()

	state.Success("one", nil)
	state.Error("two", nil)

	state.Clear()

	if state.Len() != 0 {
		t.Errorf("Expected empty backlog after clear, got %d alerts", state.Len())
	}
	if _, ok := state.Latest(); ok {
		t.Error("Latest should report false after clear")
	}
}

func TestAlertState_ConcurrentPush(t *testing.T) {
	state := NewAlertState()

	var wg sync.WaitGroup
	iterations := 50

	for i := 0; i < iterations; i++ {
		wg.Add(2)

		go func(n int) {
			defer wg.Done()
			state.Success(fmt.Sprintf("alert %d", n), []string{"detail"})
		}(i)

		go func() {
			defer wg.Done()
			_, _ = state.Latest()
		}()
	}

	wg.Wait()

	if state.Len() != iterations {
		t.Errorf("Expected %d alerts, got %d", iterations, state.Len())
	}
}

func TestAlertState_ConcurrentMixedOperations(t *testing.T) {
	state := NewAlertState()

	var wg sync.WaitGroup
	iterations := 50

	for i := 0; i < iterations; i++ {
		wg.Add(4)

		go func() {
			defer wg.Done()
			state.Error("failed", []string{"reason"})
		}()

		go func() {
			defer wg.Done()
			state.Notice("note", nil)
		}()

		go func() {
			defer wg.Done()
			_ = state.All()
			_ = state.Len()
		}()

		go func() {
			defer wg.Done()
			state.Clear()
		}()
	}

	wg.Wait()
	// If we get here without panic or data race, success
}
