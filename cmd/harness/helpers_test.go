package main

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
)

// fakeCompilerScript "compiles" by copying the .cpp argument to the -o path,
// so test sources are shell scripts.
const fakeCompilerScript = `#!/bin/sh
if [ "$1" = "--version" ]; then
  echo "fakecc version 1.2.3"
  exit 0
fi
out=""
src=""
while [ $# -gt 0 ]; do
  case "$1" in
    -o) out="$2"; shift 2; continue ;;
    *.cpp) src="$1" ;;
  esac
  shift
done
cp "$src" "$out" && chmod +x "$out"
`

// project is a scratch harness root with a fake compiler outside of it.
type project struct {
	root     string
	compiler string
}

func newProject(t *testing.T, sources map[string]string) project {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	p := project{root: t.TempDir(), compiler: filepath.Join(t.TempDir(), "fakecc")}
	writeFile(t, p.compiler, fakeCompilerScript, 0o755)
	for name, body := range sources {
		writeFile(t, filepath.Join(p.root, name), body, 0o644)
	}
	return p
}

// execute runs the CLI from the project root and returns stdout, stderr and the command error.
func (p project) execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	chdir(t, p.root)

	cmd := newRootCmd()
	cmd.SetArgs(args)
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func goldenPath(t *testing.T, name string) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	return filepath.Join(wd, "testdata", "golden", name)
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir %q: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore dir: %v", err)
		}
	})
}

func readGolden(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden %q: %v", path, err)
	}
	return string(data)
}

func writeFile(t *testing.T, path, body string, mode os.FileMode) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), mode); err != nil {
		t.Fatalf("write %q: %v", path, err)
	}
	if err := os.Chmod(path, mode); err != nil {
		t.Fatalf("chmod %q: %v", path, err)
	}
}

func diffStrings(want, got string) string {
	if want == got {
		return ""
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  3,
	})
	if err != nil {
		return "--- want\n" + want + "\n--- got\n" + got
	}
	return diff
}
