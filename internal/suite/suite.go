// Package suite describes the tests a harness run builds and executes, and the
// toolchain used to build them.
package suite

import (
	"fmt"
	"strings"
)

// Toolchain holds the fixed compiler invocation shared by every test.
type Toolchain struct {
	Compiler    string   `json:"compiler"`
	Standard    string   `json:"standard,omitempty"`
	IncludeDirs []string `json:"include_dirs,omitempty"`
	Library     string   `json:"library,omitempty"`
	LinkFlags   []string `json:"link_flags,omitempty"`
}

// Test is one test unit. Source and Output are relative to the harness root
// unless absolute.
type Test struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Output string `json:"output"`
}

// Suite is the complete, ordered plan for one harness run.
type Suite struct {
	Toolchain Toolchain `json:"toolchain"`
	Tests     []Test    `json:"tests"`
}

// Identifiers expands pattern with the ordinals 1..count. A pattern without a
// verb gets the ordinal appended.
func Identifiers(pattern string, count int) []string {
	if count <= 0 {
		return nil
	}
	if !strings.Contains(pattern, "%") {
		pattern += "%d"
	}
	ids := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		ids = append(ids, fmt.Sprintf(pattern, i))
	}
	return ids
}

// NewTest derives the source and output paths for id.
func NewTest(id, sourceExt string) Test {
	if sourceExt != "" && !strings.HasPrefix(sourceExt, ".") {
		sourceExt = "." + sourceExt
	}
	return Test{ID: id, Source: id + sourceExt, Output: id}
}

// NewTests builds tests for ids, dropping blanks and duplicates while keeping order.
func NewTests(ids []string, sourceExt string) []Test {
	seen := make(map[string]struct{}, len(ids))
	tests := make([]Test, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		tests = append(tests, NewTest(id, sourceExt))
	}
	return tests
}

// CompileArgs returns the compiler arguments for test:
// standard, include dirs, source, library, link flags, then -o output.
func (tc Toolchain) CompileArgs(test Test) []string {
	args := make([]string, 0, 4+len(tc.IncludeDirs)+len(tc.LinkFlags))
	if std := strings.TrimSpace(tc.Standard); std != "" {
		if !strings.HasPrefix(std, "-") {
			std = "-std=" + std
		}
		args = append(args, std)
	}
	for _, dir := range tc.IncludeDirs {
		if dir = strings.TrimSpace(dir); dir != "" {
			args = append(args, "-I"+dir)
		}
	}
	args = append(args, test.Source)
	if lib := strings.TrimSpace(tc.Library); lib != "" {
		args = append(args, lib)
	}
	for _, flag := range tc.LinkFlags {
		if flag = strings.TrimSpace(flag); flag != "" {
			args = append(args, flag)
		}
	}
	return append(args, "-o", test.Output)
}

// CompileCommand is the full compile command line, compiler first.
func (tc Toolchain) CompileCommand(test Test) []string {
	return append([]string{tc.Compiler}, tc.CompileArgs(test)...)
}

// IDs lists the identifiers of the suite in order.
func (s Suite) IDs() []string {
	ids := make([]string, 0, len(s.Tests))
	for _, t := range s.Tests {
		ids = append(ids, t.ID)
	}
	return ids
}
