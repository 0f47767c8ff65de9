package discovery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bgricker/buildharness/internal/suite"
)

var (
	// ErrSourceMissing indicates that a test's source file does not exist.
	ErrSourceMissing = errors.New("source not found")
	// ErrExecutableMissing indicates that a compiled test artifact does not exist.
	ErrExecutableMissing = errors.New("executable not found")
)

// SourceStatus reports where a test's source lives and whether it exists.
type SourceStatus struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Exists bool   `json:"exists"`
}

// Resolve joins path onto root unless it is already absolute. An empty root
// means the current working directory.
func Resolve(root, path string) string {
	if filepath.IsAbs(path) || root == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}

// Source verifies that the source file at path exists and is a regular file,
// returning the resolved location.
func Source(root, path string) (string, error) {
	full := Resolve(root, path)
	info, err := os.Stat(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return full, fmt.Errorf("%s: %w", path, ErrSourceMissing)
		}
		return full, fmt.Errorf("stat %q: %w", path, err)
	}
	if info.IsDir() {
		return full, fmt.Errorf("source %q is a directory", path)
	}
	return full, nil
}

// Executable verifies that a compiled artifact exists at path, returning an
// absolute location so that launching it never falls back to a PATH lookup.
func Executable(root, path string) (string, error) {
	full := Resolve(root, path)
	if !filepath.IsAbs(full) {
		abs, err := filepath.Abs(full)
		if err != nil {
			return full, fmt.Errorf("resolve %q: %w", path, err)
		}
		full = abs
	}
	info, err := os.Stat(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return full, fmt.Errorf("%s: %w", path, ErrExecutableMissing)
		}
		return full, fmt.Errorf("stat %q: %w", path, err)
	}
	if info.IsDir() {
		return full, fmt.Errorf("executable %q is a directory", path)
	}
	return full, nil
}

// Sources reports the source status of every test in order.
func Sources(root string, tests []suite.Test) []SourceStatus {
	out := make([]SourceStatus, 0, len(tests))
	for _, t := range tests {
		_, err := Source(root, t.Source)
		out = append(out, SourceStatus{ID: t.ID, Source: t.Source, Exists: err == nil})
	}
	return out
}
