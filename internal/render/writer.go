package render

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileWriter writes generated files under an output root.
type FileWriter struct {
	Root string
}

// Write stores content at rel, an output-relative slash path, replacing any previous file
// through a rename. It returns the full path written.
//
// The path must stay under Root; parent directories are created as needed.
func (w FileWriter) Write(rel string, content []byte) (string, error) {
	if w.Root == "" {
		return "", errors.New("output directory is required")
	}
	if rel == "" {
		return "", errors.New("output path is required")
	}

	cleanRel := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(cleanRel) || cleanRel == ".." || strings.HasPrefix(cleanRel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("output path must be relative to the output directory: %s", rel)
	}

	fullPath := filepath.Join(w.Root, cleanRel)
	if r, err := filepath.Rel(w.Root, fullPath); err != nil || r == "." || strings.HasPrefix(r, "..") {
		return "", fmt.Errorf("output path escapes output directory: %s", rel)
	}

	// #nosec G301 -- published site directories are world-readable
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	tmp := fullPath + ".tmp"
	// #nosec G306 -- published site files are world-readable
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return "", fmt.Errorf("write output file: %w", err)
	}
	if err := os.Rename(tmp, fullPath); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("replace output file: %w", err)
	}
	return fullPath, nil
}
