package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/studiowebux/flowcli/internal/migrations"
	"github.com/studiowebux/flowcli/internal/types"
)

// Manager stores every send attempt in a SQLite send log
type Manager struct {
	db *sql.DB
}

// NewManager opens (creating if needed) the send log database
func NewManager(dbPath string) (*Manager, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open send log database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to send log database: %w", err)
	}

	// Run migrations to ensure schema is up to date
	if err := migrations.Run(db); err != nil {
		return nil, fmt.Errorf("failed to migrate send log database: %w", err)
	}

	return &Manager{db: db}, nil
}

// Save inserts one send attempt
func (m *Manager) Save(entry types.SendLogEntry) error {
	contextsJSON, err := json.Marshal(entry.Contexts)
	if err != nil {
		return fmt.Errorf("failed to marshal contexts: %w", err)
	}

	query := `
		INSERT INTO send_log (
			timestamp, flow_id, flow_name, endpoint, contexts, include_secrets,
			phase, status_code, status_text, duration_ms,
			request_size, response_size, response_body, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	// Format timestamp for SQLite in local time
	timestampStr := time.Now().Local().Format("2006-01-02 15:04:05")
	if entry.Timestamp != "" {
		if parsed, err := time.Parse(time.RFC3339, entry.Timestamp); err == nil {
			timestampStr = parsed.Local().Format("2006-01-02 15:04:05")
		}
	}

	_, err = m.db.Exec(query,
		timestampStr,
		entry.FlowID,
		entry.FlowName,
		entry.Endpoint,
		string(contextsJSON),
		entry.IncludeSecrets,
		entry.Phase,
		entry.StatusCode,
		entry.StatusText,
		entry.DurationMs,
		entry.RequestSize,
		entry.ResponseSize,
		entry.ResponseBody,
		entry.Error,
	)

	if err != nil {
		return fmt.Errorf("failed to save send log entry: %w", err)
	}

	return nil
}

// Record implements the dispatch Recorder contract. A broken send log
// must never block a send, so failures only go to stderr.
func (m *Manager) Record(entry types.SendLogEntry) {
	if err := m.Save(entry); err != nil {
		fmt.Fprintf(os.Stderr, "flowcli: failed to record send attempt: %v\n", err)
	}
}

// Load returns all send attempts, newest first
func (m *Manager) Load() ([]types.SendLogEntry, error) {
	query := `
		SELECT id, timestamp, flow_id, flow_name, endpoint, contexts, include_secrets,
		       phase, status_code, status_text, duration_ms,
		       request_size, response_size, response_body, error
		FROM send_log
		ORDER BY timestamp DESC, id DESC
	`

	rows, err := m.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to load send log: %w", err)
	}
	defer rows.Close()

	return m.scanEntries(rows)
}

// LoadForFlow returns the send attempts for one flow, newest first
func (m *Manager) LoadForFlow(flowID string) ([]types.SendLogEntry, error) {
	query := `
		SELECT id, timestamp, flow_id, flow_name, endpoint, contexts, include_secrets,
		       phase, status_code, status_text, duration_ms,
		       request_size, response_size, response_body, error
		FROM send_log
		WHERE flow_id = ?
		ORDER BY timestamp DESC, id DESC
	`

	rows, err := m.db.Query(query, flowID)
	if err != nil {
		return nil, fmt.Errorf("failed to load send log for flow: %w", err)
	}
	defer rows.Close()

	return m.scanEntries(rows)
}

func (m *Manager) scanEntries(rows *sql.Rows) ([]types.SendLogEntry, error) {
	var entries []types.SendLogEntry

	for rows.Next() {
		var id int64
		var timestamp string
		var flowID string
		var flowName sql.NullString
		var endpoint string
		var contextsJSON string
		var includeSecrets bool
		var phase string
		var statusCode sql.NullInt64
		var statusText sql.NullString
		var durationMs int64
		var requestSize sql.NullInt64
		var responseSize sql.NullInt64
		var responseBody sql.NullString
		var errorMsg sql.NullString

		err := rows.Scan(
			&id,
			&timestamp,
			&flowID,
			&flowName,
			&endpoint,
			&contextsJSON,
			&includeSecrets,
			&phase,
			&statusCode,
			&statusText,
			&durationMs,
			&requestSize,
			&responseSize,
			&responseBody,
			&errorMsg,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan send log entry: %w", err)
		}

		// Deserialize contexts
		var contexts []string
		if err := json.Unmarshal([]byte(contextsJSON), &contexts); err != nil {
			contexts = []string{}
		}

		// Parse timestamp as local time
		parsedTime, err := time.ParseInLocation("2006-01-02 15:04:05", timestamp, time.Local)
		if err != nil {
			// Try RFC3339 format as fallback
			parsedTime, err = time.Parse(time.RFC3339, timestamp)
			if err != nil {
				// If both fail, use current time
				parsedTime = time.Now()
			}
		}

		entries = append(entries, types.SendLogEntry{
			ID:             id,
			Timestamp:      parsedTime.Format(time.RFC3339),
			FlowID:         flowID,
			FlowName:       flowName.String,
			Endpoint:       endpoint,
			Contexts:       contexts,
			IncludeSecrets: includeSecrets,
			Phase:          phase,
			StatusCode:     int(statusCode.Int64),
			StatusText:     statusText.String,
			DurationMs:     durationMs,
			RequestSize:    int(requestSize.Int64),
			ResponseSize:   int(responseSize.Int64),
			ResponseBody:   responseBody.String,
			Error:          errorMsg.String,
		})
	}

	return entries, rows.Err()
}

// Clear removes all send log entries
func (m *Manager) Clear() error {
	_, err := m.db.Exec("DELETE FROM send_log")
	if err != nil {
		return fmt.Errorf("failed to clear send log: %w", err)
	}
	return nil
}

// Delete removes a single entry by id
func (m *Manager) Delete(id int64) error {
	_, err := m.db.Exec("DELETE FROM send_log WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete send log entry: %w", err)
	}
	return nil
}

// GetCount returns the number of stored entries
func (m *Manager) GetCount() (int, error) {
	var count int
	err := m.db.QueryRow("SELECT COUNT(*) FROM send_log").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get send log count: %w", err)
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
