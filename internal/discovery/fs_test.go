package discovery

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bgricker/buildharness/internal/suite"
)

func TestSourceExists(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Tests", "test1.cpp"))

	full, err := Source(root, "Tests/test1.cpp")
	if err != nil {
		t.Fatalf("Source returned error: %v", err)
	}
	if full != filepath.Join(root, "Tests", "test1.cpp") {
		t.Fatalf("unexpected path %q", full)
	}
}

func TestSourceErrors(t *testing.T) {
	root := t.TempDir()

	if _, err := Source(root, "missing.cpp"); !errors.Is(err, ErrSourceMissing) {
		t.Fatalf("expected ErrSourceMissing, got %v", err)
	}

	if err := os.Mkdir(filepath.Join(root, "dir.cpp"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	_, err := Source(root, "dir.cpp")
	if err == nil || errors.Is(err, ErrSourceMissing) {
		t.Fatalf("expected directory error, got %v", err)
	}
}

func TestExecutableIsAbsolute(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "test1"))

	full, err := Executable(root, "test1")
	if err != nil {
		t.Fatalf("Executable returned error: %v", err)
	}
	if !filepath.IsAbs(full) {
		t.Fatalf("expected absolute path, got %q", full)
	}

	if _, err := Executable(root, "test2"); !errors.Is(err, ErrExecutableMissing) {
		t.Fatalf("expected ErrExecutableMissing, got %v", err)
	}
}

func TestSources(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.cpp"))

	got := Sources(root, suite.NewTests([]string{"a", "b"}, ".cpp"))
	if len(got) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(got))
	}
	if got[0].Exists || !got[1].Exists {
		t.Fatalf("unexpected statuses: %+v", got)
	}
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte("int main() { return 0; }\n"), 0o644); err != nil {
		t.Fatalf("write file %s: %v", path, err)
	}
}
