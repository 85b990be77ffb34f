package flow

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/studiowebux/flowcli/internal/types"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Load reads a flow document from a .json, .jsonc, .yaml or .yml file
func Load(filePath string) (*types.FlowDocument, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(filePath))

	var doc types.FlowDocument
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	case ".jsonc":
		// Strip comments and trailing commas, then parse as plain JSON
		if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
			return nil, fmt.Errorf("failed to parse JSONC: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported flow file extension: %s", ext)
	}

	if strings.TrimSpace(doc.ID) == "" {
		return nil, fmt.Errorf("flow file %s has no id", filepath.Base(filePath))
	}
	if doc.Data == nil {
		return nil, fmt.Errorf("flow file %s has no data section", filepath.Base(filePath))
	}
	if strings.TrimSpace(doc.Name) == "" {
		doc.Name = strings.TrimSuffix(filepath.Base(filePath), ext)
	}

	return &doc, nil
}

// ListFiles walks a directory and returns all flow files it contains
// Hidden directories and common dependency directories are skipped
func ListFiles(dir string) ([]types.FlowFileInfo, error) {
	var files []types.FlowFileInfo

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip files that cause errors
		}

		if info.IsDir() {
			dirName := filepath.Base(path)
			relPath, _ := filepath.Rel(dir, path)
			depth := strings.Count(relPath, string(filepath.Separator))

			// Only skip these at or near root level to avoid false positives
			if depth <= 1 {
				if dirName == ".git" || dirName == "node_modules" || dirName == ".venv" ||
					dirName == ".idea" || dirName == ".vscode" || dirName == "__pycache__" {
					return filepath.SkipDir
				}
			}

			// Always skip hidden directories (except the root itself)
			if strings.HasPrefix(dirName, ".") && path != dir {
				return filepath.SkipDir
			}

			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if ext == ".json" || ext == ".jsonc" || ext == ".yaml" || ext == ".yml" {
			relPath, _ := filepath.Rel(dir, path)
			if relPath == "." {
				// The walk root is a single flow file
				relPath = filepath.Base(path)
			}

			files = append(files, types.FlowFileInfo{
				Path:         path,
				Name:         relPath,
				ModifiedTime: info.ModTime(),
			})
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	// Sort files by name
	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	return files, nil
}
