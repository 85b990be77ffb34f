package tui

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/studiowebux/flowcli/internal/config"
)

// CreateTestModel creates a Model instance for testing with minimal dependencies
func CreateTestModel(t *testing.T) *Model {
	t.Helper()

	// Create temporary directory for flow files and the test database
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	// Set test database path
	originalDBPath := config.DatabasePath
	config.DatabasePath = dbPath
	t.Cleanup(func() {
		config.DatabasePath = originalDBPath
	})

	// Create model with error handling
	m, err := New(tempDir, "test-version")
	if err != nil {
		t.Fatalf("Failed to create test model: %v", err)
	}
	t.Cleanup(m.Cleanup)

	return &m
}

// CreateTestModelWithFlows creates a Model with flow files in its flows directory
func CreateTestModelWithFlows(t *testing.T, fileContents map[string]string) *Model {
	t.Helper()

	tempDir := t.TempDir()

	// Write test flow files
	for filename, content := range fileContents {
		filePath := filepath.Join(tempDir, filename)
		if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write test file %s: %v", filename, err)
		}
	}

	// Set test database path
	dbPath := filepath.Join(tempDir, "test.db")
	originalDBPath := config.DatabasePath
	config.DatabasePath = dbPath
	t.Cleanup(func() {
		config.DatabasePath = originalDBPath
	})

	// Create model
	m, err := New(tempDir, "test-version")
	if err != nil {
		t.Fatalf("Failed to create test model with flows: %v", err)
	}
	t.Cleanup(m.Cleanup)

	return &m
}

// AssertModelField is a generic helper for checking model field values
func AssertModelField[T comparable](t *testing.T, fieldName string, got, want T) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %v, want %v", fieldName, got, want)
	}
}

// AssertNoError verifies that an error is nil
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}

// AssertError verifies that an error occurred
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Error("Expected error but got nil")
	}
}
