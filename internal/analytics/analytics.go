package analytics

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/studiowebux/flowcli/internal/config"
	"github.com/studiowebux/flowcli/internal/migrations"
)

// Event is one tracked usage event
type Event struct {
	ID        int64
	Name      string
	FlowID    string
	Metadata  map[string]interface{}
	Timestamp time.Time
}

// Stats aggregates tracked events per event name
type Stats struct {
	Name       string
	TotalCount int
	LastFired  time.Time
}

// Manager stores tracked events in SQLite. It satisfies the dispatch
// Tracker contract, so it can be handed straight to the engine.
type Manager struct {
	db    *sql.DB
	cache *statsCache
}

// NewManager opens (creating if needed) the events database
func NewManager(dbPath string) (*Manager, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, config.DirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create events directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open events database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to events database: %w", err)
	}

	// Run migrations to ensure schema is up to date
	if err := migrations.Run(db); err != nil {
		return nil, fmt.Errorf("failed to migrate events database: %w", err)
	}

	return &Manager{db: db, cache: newStatsCache(statsCacheTTL)}, nil
}

// Save inserts one event
func (m *Manager) Save(event Event) error {
	metadataJSON, err := json.Marshal(event.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal event metadata: %w", err)
	}

	timestamp := event.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	query := `
		INSERT INTO events (name, flow_id, metadata, timestamp)
		VALUES (?, ?, ?, ?)
	`

	_, err = m.db.Exec(query,
		event.Name,
		event.FlowID,
		string(metadataJSON),
		timestamp.Local().Format("2006-01-02 15:04:05"),
	)

	if err != nil {
		return fmt.Errorf("failed to save event: %w", err)
	}

	m.cache.invalidate()
	return nil
}

// Track implements the dispatch Tracker contract. The flow id is lifted
// out of the metadata when present so events can be filtered per flow.
// Tracking must never block or fail the caller; errors go to stderr.
func (m *Manager) Track(name string, metadata map[string]interface{}) {
	flowID := ""
	if id, ok := metadata["flow_id"].(string); ok {
		flowID = id
	}

	event := Event{
		Name:      name,
		FlowID:    flowID,
		Metadata:  metadata,
		Timestamp: time.Now(),
	}

	if err := m.Save(event); err != nil {
		fmt.Fprintf(os.Stderr, "flowcli: failed to track event: %v\n", err)
	}
}

// LoadAll returns tracked events, newest first
func (m *Manager) LoadAll(limit int) ([]Event, error) {
	query := `
		SELECT id, name, COALESCE(flow_id, ''), COALESCE(metadata, '{}'), timestamp
		FROM events
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`

	rows, err := m.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}
	defer rows.Close()

	return m.scanEvents(rows)
}

// LoadForFlow returns tracked events for one flow, newest first
func (m *Manager) LoadForFlow(flowID string, limit int) ([]Event, error) {
	query := `
		SELECT id, name, COALESCE(flow_id, ''), COALESCE(metadata, '{}'), timestamp
		FROM events
		WHERE flow_id = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`

	rows, err := m.db.Query(query, flowID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load events for flow: %w", err)
	}
	defer rows.Close()

	return m.scanEvents(rows)
}

func (m *Manager) scanEvents(rows *sql.Rows) ([]Event, error) {
	var events []Event

	for rows.Next() {
		var e Event
		var metadataJSON string
		var timestamp string

		if err := rows.Scan(&e.ID, &e.Name, &e.FlowID, &metadataJSON, &timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}

		if err := json.Unmarshal([]byte(metadataJSON), &e.Metadata); err != nil {
			e.Metadata = map[string]interface{}{}
		}

		// Parse as local time (SQLite stores without timezone info)
		parsed, err := time.ParseInLocation("2006-01-02 15:04:05", timestamp, time.Local)
		if err != nil {
			// Try RFC3339 format as fallback
			parsed, err = time.Parse(time.RFC3339, timestamp)
			if err != nil {
				// If both fail, use current time to avoid zero value
				parsed = time.Now()
			}
		}
		e.Timestamp = parsed

		events = append(events, e)
	}

	return events, rows.Err()
}

// GetStats aggregates event counts per event name. Results are cached
// briefly because the events modal re-requests them on every open.
func (m *Manager) GetStats() ([]Stats, error) {
	if stats, ok := m.cache.get(); ok {
		return stats, nil
	}

	query := `
		SELECT name, COUNT(*), MAX(timestamp)
		FROM events
		GROUP BY name
		ORDER BY COUNT(*) DESC
	`

	rows, err := m.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to load event stats: %w", err)
	}
	defer rows.Close()

	var stats []Stats
	for rows.Next() {
		var s Stats
		var last string
		if err := rows.Scan(&s.Name, &s.TotalCount, &last); err != nil {
			return nil, fmt.Errorf("failed to scan event stats: %w", err)
		}

		parsed, err := time.ParseInLocation("2006-01-02 15:04:05", last, time.Local)
		if err != nil {
			parsed = time.Now()
		}
		s.LastFired = parsed

		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	m.cache.set(stats)
	return stats, nil
}

// Clear removes all tracked events
func (m *Manager) Clear() error {
	_, err := m.db.Exec("DELETE FROM events")
	if err != nil {
		return fmt.Errorf("failed to clear events: %w", err)
	}
	m.cache.invalidate()
	return nil
}

// GetCount returns the number of stored events
func (m *Manager) GetCount() (int, error) {
	var count int
	err := m.db.QueryRow("SELECT COUNT(*) FROM events").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get event count: %w", err)
	}
	return count, nil
}

// Close closes the database connection
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
