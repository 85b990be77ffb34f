package analytics

import (
	"path/filepath"
	"testing"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(filepath.Join(t.TempDir(), "flowcli.db"))
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func TestTrackAndLoad(t *testing.T) {
	m := newTestManager(t)

	m.Track("flow_sent", map[string]interface{}{
		"flow_id":  "f1",
		"contexts": []string{"aider"},
	})

	events, err := m.LoadAll(10)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(events))
	}

	e := events[0]
	if e.Name != "flow_sent" {
		t.Errorf("Expected event 'flow_sent', got %q", e.Name)
	}
	if e.FlowID != "f1" {
		t.Errorf("Expected flow id 'f1' lifted from metadata, got %q", e.FlowID)
	}
	if e.Metadata["flow_id"] != "f1" {
		t.Errorf("Expected metadata to round-trip, got %v", e.Metadata)
	}
	if e.Timestamp.IsZero() {
		t.Error("Expected a timestamp to be assigned")
	}
}

func TestTrackWithoutFlowID(t *testing.T) {
	m := newTestManager(t)

	m.Track("app_started", nil)

	events, err := m.LoadAll(10)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(events))
	}
	if events[0].FlowID != "" {
		t.Errorf("Expected empty flow id, got %q", events[0].FlowID)
	}
}

func TestLoadForFlow(t *testing.T) {
	m := newTestManager(t)

	m.Track("flow_sent", map[string]interface{}{"flow_id": "f1"})
	m.Track("flow_sent", map[string]interface{}{"flow_id": "f2"})
	m.Track("flow_exported", map[string]interface{}{"flow_id": "f1"})

	events, err := m.LoadForFlow("f1", 10)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("Expected 2 events for f1, got %d", len(events))
	}
	for _, e := range events {
		if e.FlowID != "f1" {
			t.Errorf("Expected only f1 events, got %q", e.FlowID)
		}
	}
}

func TestLoadAllLimit(t *testing.T) {
	m := newTestManager(t)

	for i := 0; i < 5; i++ {
		m.Track("flow_sent", map[string]interface{}{"flow_id": "f1"})
	}

	events, err := m.LoadAll(3)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(events) != 3 {
		t.Errorf("Expected 3 events with limit, got %d", len(events))
	}
}

func TestGetStats(t *testing.T) {
	m := newTestManager(t)

	m.Track("flow_sent", map[string]interface{}{"flow_id": "f1"})
	m.Track("flow_sent", map[string]interface{}{"flow_id": "f2"})
	m.Track("flow_exported", map[string]interface{}{"flow_id": "f1"})

	stats, err := m.GetStats()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("Expected stats for 2 event names, got %d", len(stats))
	}
	if stats[0].Name != "flow_sent" || stats[0].TotalCount != 2 {
		t.Errorf("Expected flow_sent with count 2 first, got %+v", stats[0])
	}
	if stats[1].Name != "flow_exported" || stats[1].TotalCount != 1 {
		t.Errorf("Expected flow_exported with count 1, got %+v", stats[1])
	}
}

func TestGetStats_ReflectsNewWrites(t *testing.T) {
	m := newTestManager(t)

	m.Track("flow_sent", map[string]interface{}{"flow_id": "f1"})

	stats, err := m.GetStats()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(stats) != 1 || stats[0].TotalCount != 1 {
		t.Fatalf("Expected 1 flow_sent event, got %+v", stats)
	}

	// A write through the manager invalidates the cached aggregate
	m.Track("flow_sent", map[string]interface{}{"flow_id": "f1"})

	stats, err = m.GetStats()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(stats) != 1 || stats[0].TotalCount != 2 {
		t.Errorf("Expected count 2 after second event, got %+v", stats)
	}
}

func TestGetStats_CacheServesUntilInvalidated(t *testing.T) {
	m := newTestManager(t)

	m.Track("flow_sent", map[string]interface{}{"flow_id": "f1"})

	if _, err := m.GetStats(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Insert behind the manager's back; the cache has no way to notice
	_, err := m.db.Exec(
		"INSERT INTO events (name, flow_id, metadata, timestamp) VALUES (?, ?, ?, ?)",
		"flow_sent", "f1", "{}", "2026-01-01 12:00:00",
	)
	if err != nil {
		t.Fatalf("Failed to insert directly: %v", err)
	}

	stats, err := m.GetStats()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if stats[0].TotalCount != 1 {
		t.Errorf("Expected cached count 1, got %d", stats[0].TotalCount)
	}

	// Clear invalidates, so the next read hits SQLite
	if err := m.Clear(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	stats, err = m.GetStats()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(stats) != 0 {
		t.Errorf("Expected no stats after clear, got %+v", stats)
	}
}

func TestClearAndCount(t *testing.T) {
	m := newTestManager(t)

	m.Track("flow_sent", map[string]interface{}{"flow_id": "f1"})
	m.Track("flow_copied", map[string]interface{}{"flow_id": "f1"})

	count, err := m.GetCount()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 events, got %d", count)
	}

	if err := m.Clear(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	count, err = m.GetCount()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 events after clear, got %d", count)
	}
}

func TestTrackSwallowsFailures(t *testing.T) {
	m := newTestManager(t)
	m.Close() // force Save to fail

	// Must not panic
	m.Track("flow_sent", map[string]interface{}{"flow_id": "f1"})
}
