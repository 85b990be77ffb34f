package cli

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/studiowebux/flowcli/internal/config"
	"github.com/studiowebux/flowcli/internal/dispatch"
)

func TestWriterNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewWriterNotifier(&buf)

	n.Success("Flow sent to CoE-Backend", []string{"Flow ID: abc-123"})
	n.Notice("Flow exported with API keys", nil)
	n.Error("Missing endpoint", []string{"Provide an endpoint name before sending"})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d: %q", len(lines), buf.String())
	}

	expected := []string{
		"[ok] Flow sent to CoE-Backend: Flow ID: abc-123",
		"[note] Flow exported with API keys",
		"[error] Missing endpoint: Provide an endpoint name before sending",
	}
	for i, want := range expected {
		if lines[i] != want {
			t.Errorf("Line %d: expected %q, got %q", i, want, lines[i])
		}
	}
}

func TestWriterNotifierJoinsDetails(t *testing.T) {
	var buf bytes.Buffer
	n := NewWriterNotifier(&buf)

	n.Error("Failed to send to CoE-Backend", []string{"500 Internal Server Error", "try again"})

	got := strings.TrimRight(buf.String(), "\n")
	want := "[error] Failed to send to CoE-Backend: 500 Internal Server Error; try again"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestNormalizeContexts(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "passthrough",
			input:    []string{"aider", "cline"},
			expected: []string{"aider", "cline"},
		},
		{
			name:     "trims whitespace",
			input:    []string{"  aider  ", "cline"},
			expected: []string{"aider", "cline"},
		},
		{
			name:     "drops blanks",
			input:    []string{"aider", "", "   ", "cline"},
			expected: []string{"aider", "cline"},
		},
		{
			name:     "drops case-insensitive duplicates",
			input:    []string{"Aider", "aider", "AIDER", "cline"},
			expected: []string{"Aider", "cline"},
		},
		{
			name:     "empty input",
			input:    nil,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := normalizeContexts(tt.input)
			if len(result) != len(tt.expected) {
				t.Fatalf("Expected %v, got %v", tt.expected, result)
			}
			for i, want := range tt.expected {
				if result[i] != want {
					t.Errorf("Index %d: expected %q, got %q", i, want, result[i])
				}
			}
		})
	}
}

func TestFormatOutcomeBodyMode(t *testing.T) {
	out := dispatch.Outcome{
		Phase:        dispatch.PhaseSucceeded,
		ResponseBody: `{"id": "abc"}`,
	}

	got := formatOutcome(out, "body", false)
	if got != `{"id": "abc"}` {
		t.Errorf("Expected body only, got %q", got)
	}
}

func TestFormatOutcomeTextMode(t *testing.T) {
	out := dispatch.Outcome{
		Phase:        dispatch.PhaseSucceeded,
		StatusText:   "200 OK",
		ResponseBody: `{"id": "abc"}`,
		RequestTrace: `{"endpoint": "x"}`,
		Duration:     250,
	}

	got := formatOutcome(out, "text", false)
	if !strings.Contains(got, "200 OK") {
		t.Errorf("Expected status line in output, got %q", got)
	}
	if !strings.Contains(got, "Duration: 250ms") {
		t.Errorf("Expected duration in output, got %q", got)
	}
	if !strings.Contains(got, `{"id": "abc"}`) {
		t.Errorf("Expected response body in output, got %q", got)
	}
	if strings.Contains(got, "Request:") {
		t.Errorf("Expected no request trace without full mode, got %q", got)
	}
}

func TestFormatOutcomeFullMode(t *testing.T) {
	out := dispatch.Outcome{
		Phase:        dispatch.PhaseSucceeded,
		StatusText:   "200 OK",
		ResponseBody: `{"id": "abc"}`,
		RequestTrace: `{"endpoint": "x"}`,
	}

	got := formatOutcome(out, "text", true)
	if !strings.Contains(got, "Request:") {
		t.Errorf("Expected request section in full mode, got %q", got)
	}
	if !strings.Contains(got, `{"endpoint": "x"}`) {
		t.Errorf("Expected request trace in full mode, got %q", got)
	}
	if !strings.Contains(got, "Response:") {
		t.Errorf("Expected response section in full mode, got %q", got)
	}
}

func TestFormatOutcomeValidationFailure(t *testing.T) {
	out := dispatch.Outcome{
		Phase: dispatch.PhaseValidationFailed,
		FieldErrors: map[string]string{
			"endpoint": "Endpoint is required",
			"context":  "At least one context is required",
		},
	}

	got := formatOutcome(out, "text", false)
	contextIdx := strings.Index(got, "context: At least one context is required")
	endpointIdx := strings.Index(got, "endpoint: Endpoint is required")
	if contextIdx == -1 || endpointIdx == -1 {
		t.Fatalf("Expected both field errors in output, got %q", got)
	}
	if contextIdx > endpointIdx {
		t.Errorf("Expected field errors sorted by name, got %q", got)
	}
}

func TestFormatOutcomeNetworkFailure(t *testing.T) {
	out := dispatch.Outcome{
		Phase:         dispatch.PhaseNetworkFailed,
		ResponseTrace: "Network error: connection refused",
	}

	got := formatOutcome(out, "text", false)
	if !strings.Contains(got, "network_failed") {
		t.Errorf("Expected phase as status line, got %q", got)
	}
	if !strings.Contains(got, "Network error: connection refused") {
		t.Errorf("Expected trace as body fallback, got %q", got)
	}
}

// runSendAgainst runs RunSend against a stub backend with a fresh home
// directory, saving the output to a file to keep stdout quiet
func runSendAgainst(t *testing.T, handler http.HandlerFunc) error {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	t.Setenv(config.BackendURLEnv, server.URL)

	dir := t.TempDir()
	flowPath := filepath.Join(dir, "flow.json")
	if err := os.WriteFile(flowPath, []byte(`{"id": "f1", "name": "Test", "data": {"nodes": []}}`), 0644); err != nil {
		t.Fatalf("Failed to write flow file: %v", err)
	}

	return RunSend(SendOptions{
		FlowPath: flowPath,
		Endpoint: "svc-a",
		Contexts: []string{"aider"},
		SavePath: filepath.Join(dir, "out.txt"),
		Version:  "0.0.0",
	})
}

func TestRunSendSucceeds(t *testing.T) {
	err := runSendAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": "f1", "status": "created"}`))
	})
	if err != nil {
		t.Errorf("Expected no error for a successful send, got %v", err)
	}
}

func TestRunSendReturnsErrSendFailed(t *testing.T) {
	err := runSendAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	if err == nil {
		t.Fatal("Expected an error for a failed send, got nil")
	}
	if !errors.Is(err, ErrSendFailed) {
		t.Errorf("Expected ErrSendFailed so callers can exit non-zero, got %v", err)
	}
}

func TestResolveFlowPath(t *testing.T) {
	tmpDir := t.TempDir()

	jsonPath := filepath.Join(tmpDir, "basic-flow.json")
	if err := os.WriteFile(jsonPath, []byte("{}"), 0644); err != nil {
		t.Fatalf("Failed to write flow file: %v", err)
	}
	yamlPath := filepath.Join(tmpDir, "other-flow.yaml")
	if err := os.WriteFile(yamlPath, []byte("id: x"), 0644); err != nil {
		t.Fatalf("Failed to write flow file: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{
			name:     "exact path",
			input:    jsonPath,
			expected: jsonPath,
		},
		{
			name:     "extension-less json",
			input:    filepath.Join(tmpDir, "basic-flow"),
			expected: jsonPath,
		},
		{
			name:     "extension-less yaml",
			input:    filepath.Join(tmpDir, "other-flow"),
			expected: yamlPath,
		},
		{
			name:    "missing file",
			input:   filepath.Join(tmpDir, "no-such-flow"),
			wantErr: true,
		},
		{
			name:    "empty path",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := resolveFlowPath(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error, got %q", result)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestResolveFlowPathFlowsDir(t *testing.T) {
	tmpDir := t.TempDir()
	flowPath := filepath.Join(tmpDir, "shared-flow.json")
	if err := os.WriteFile(flowPath, []byte("{}"), 0644); err != nil {
		t.Fatalf("Failed to write flow file: %v", err)
	}

	originalFlowsDir := config.FlowsDir
	config.FlowsDir = tmpDir
	defer func() { config.FlowsDir = originalFlowsDir }()

	result, err := resolveFlowPath("shared-flow")
	if err != nil {
		t.Fatalf("Expected flows directory fallback, got error %v", err)
	}
	if result != flowPath {
		t.Errorf("Expected %q, got %q", flowPath, result)
	}
}

func TestRemoveLabel(t *testing.T) {
	labels := []string{"aider", "cline", "vscode"}

	result := removeLabel(labels, "Cline")
	if len(result) != 2 {
		t.Fatalf("Expected 2 labels, got %v", result)
	}
	if result[0] != "aider" || result[1] != "vscode" {
		t.Errorf("Expected remaining labels in order, got %v", result)
	}

	unchanged := removeLabel(labels, "missing")
	if len(unchanged) != 3 {
		t.Errorf("Expected all labels kept, got %v", unchanged)
	}
}

func TestContainsLabel(t *testing.T) {
	labels := []string{"aider", "OpenWebUI"}

	if !containsLabel(labels, "openwebui") {
		t.Error("Expected case-insensitive match")
	}
	if !containsLabel(labels, "  Aider  ") {
		t.Error("Expected trimmed match")
	}
	if containsLabel(labels, "cline") {
		t.Error("Expected no match for absent label")
	}
}
