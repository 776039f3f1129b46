package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
)

// workspaceFile is the subset of a VS Code ".code-workspace" file we read.
type workspaceFile struct {
	Folders []struct {
		Path string `json:"path"`
	} `json:"folders"`
}

// ReadWorkspaceFolders returns the folder paths listed in a VS Code
// workspace file. The file is JSONC, so comments and trailing commas are
// accepted. Relative folders are resolved against the workspace file's
// directory and "~" is expanded. Folders without a path (remote URIs) are
// skipped.
func ReadWorkspaceFolders(file string) ([]string, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read workspace file %s: %w", file, err)
	}

	var ws workspaceFile
	if err := json.Unmarshal(jsonc.ToJSON(data), &ws); err != nil {
		return nil, fmt.Errorf("failed to parse workspace file %s: %w", file, err)
	}

	base, err := filepath.Abs(filepath.Dir(file))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace directory: %w", err)
	}

	folders := make([]string, 0, len(ws.Folders))
	for _, f := range ws.Folders {
		if f.Path == "" {
			continue
		}
		p, err := ExpandPath(f.Path)
		if err != nil {
			return nil, err
		}
		if !filepath.IsAbs(p) {
			p = filepath.Join(base, p)
		}
		folders = append(folders, filepath.Clean(p))
	}
	return folders, nil
}
