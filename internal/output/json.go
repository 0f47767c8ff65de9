package output

import (
	"encoding/json"
	"io"

	"github.com/bgricker/buildharness/internal/discovery"
	"github.com/bgricker/buildharness/internal/report"
)

// JSONRenderer emits structured execution data.
type JSONRenderer struct {
	out io.Writer
}

// NewJSON creates a JSON renderer writing to out.
func NewJSON(out io.Writer) *JSONRenderer {
	return &JSONRenderer{out: out}
}

// Report captures the JSON output schema of a run.
type Report struct {
	RunID           string              `json:"run_id"`
	Compiler        string              `json:"compiler"`
	CompilerVersion string              `json:"compiler_version,omitempty"`
	DryRun          bool                `json:"dry_run,omitempty"`
	Tests           []report.TestResult `json:"tests"`
	Summary         report.Summary      `json:"summary"`
	Warnings        []string            `json:"warnings,omitempty"`
}

// ListReport is the JSON shape of the list command.
type ListReport struct {
	Compile []string                 `json:"compile"`
	Tests   []discovery.SourceStatus `json:"tests"`
}

// Render encodes the report as JSON.
func (j *JSONRenderer) Render(r Report) error {
	if r.Tests == nil {
		r.Tests = []report.TestResult{}
	}
	return j.encode(r)
}

// RenderList encodes the list of known tests as JSON.
func (j *JSONRenderer) RenderList(list ListReport) error {
	if list.Tests == nil {
		list.Tests = []discovery.SourceStatus{}
	}
	return j.encode(list)
}

func (j *JSONRenderer) encode(v any) error {
	enc := json.NewEncoder(j.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
