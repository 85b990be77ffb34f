package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// FilePermissions is the default permission mode for regular files (read/write for owner, read for others)
	FilePermissions = 0644
	// DirPermissions is the default permission mode for directories (rwxr-xr-x)
	DirPermissions = 0755
)

const (
	// DefaultBackendURL is used when COE_BACKEND_URL is not set
	DefaultBackendURL = "http://host.docker.internal:8000"

	// FlowsPath is the fixed path appended to the backend base URL
	FlowsPath = "/flows/"

	// BackendURLEnv is the environment variable overriding the backend base URL
	BackendURLEnv = "COE_BACKEND_URL"
)

var (
	// ConfigDir is the global configuration directory (~/.flowcli)
	ConfigDir string

	// FlowsDir is the default directory scanned for flow files
	FlowsDir string

	// ExportsDir is the default directory exported flows are written to
	ExportsDir string

	// DatabasePath is the SQLite database file for the send log and events
	DatabasePath string
)

// Initialize sets up the configuration directories
// It creates ~/.flowcli/ if it doesn't exist
func Initialize() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	// Set global paths
	ConfigDir = filepath.Join(homeDir, ".flowcli")
	FlowsDir = filepath.Join(ConfigDir, "flows")
	ExportsDir = filepath.Join(ConfigDir, "exports")
	DatabasePath = filepath.Join(ConfigDir, "flowcli.db")

	// Create directories if they don't exist
	dirs := []string{ConfigDir, FlowsDir, ExportsDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, DirPermissions); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// BackendBaseURL resolves the CoE-Backend base URL: the COE_BACKEND_URL
// environment variable wins when set, otherwise the default is used.
// The value is normalized so the flows path can be appended safely.
func BackendBaseURL() string {
	base := os.Getenv(BackendURLEnv)
	if strings.TrimSpace(base) == "" {
		base = DefaultBackendURL
	}
	return NormalizeBaseURL(base)
}

// NormalizeBaseURL trims surrounding whitespace and strips trailing slashes
func NormalizeBaseURL(base string) string {
	return strings.TrimRight(strings.TrimSpace(base), "/")
}

// FlowsURL returns the full URL flows are POSTed to
func FlowsURL(base string) string {
	return NormalizeBaseURL(base) + FlowsPath
}

// GetFlowsDirectory returns the directory flow files are loaded from
// Falls back to the global flows directory when no explicit directory is given
func GetFlowsDirectory(explicit string) (string, error) {
	if explicit == "" {
		return FlowsDir, nil
	}

	// Expand tilde to home directory
	if strings.HasPrefix(explicit, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		explicit = filepath.Join(homeDir, explicit[2:])
	}

	// If it's an absolute path, use it directly
	if filepath.IsAbs(explicit) {
		return explicit, nil
	}

	// Otherwise, resolve relative to the current directory
	abs, err := filepath.Abs(explicit)
	if err != nil {
		return "", fmt.Errorf("failed to resolve directory %s: %w", explicit, err)
	}
	return abs, nil
}
