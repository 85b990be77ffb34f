package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/studiowebux/flowcli/internal/config"
	"github.com/studiowebux/flowcli/internal/types"
)

// FileDownloader saves flow bodies as pretty-printed JSON files in a
// fixed directory
type FileDownloader struct {
	dir string
}

// NewFileDownloader creates a downloader writing into dir
func NewFileDownloader(dir string) *FileDownloader {
	return &FileDownloader{dir: dir}
}

// SaveFlow writes the body to "<sanitized-name>.json" inside the
// downloader's directory. Existing files are never overwritten; a
// numeric suffix is appended instead. The description is already part
// of the body, so only the name shapes the filename.
func (d *FileDownloader) SaveFlow(body types.FlowBody, name, description string) (string, error) {
	if err := os.MkdirAll(d.dir, config.DirPermissions); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	base := SanitizeFilename(name)
	if base == "" {
		base = "flow"
	}

	// Find a unique name
	path := filepath.Join(d.dir, base+".json")
	counter := 2
	for {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			break
		}
		path = filepath.Join(d.dir, fmt.Sprintf("%s_%d.json", base, counter))
		counter++
	}

	data, err := json.MarshalIndent(body, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize flow: %w", err)
	}

	if err := os.WriteFile(path, data, config.FilePermissions); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return path, nil
}

// SanitizeFilename turns a flow name into a safe filename base
func SanitizeFilename(name string) string {
	filename := strings.ToLower(strings.TrimSpace(name))
	filename = strings.ReplaceAll(filename, " ", "-")

	// Remove invalid characters
	filename = regexp.MustCompile(`[^a-z0-9-_]`).ReplaceAllString(filename, "-")
	filename = strings.Trim(filename, "-")

	return filename
}
