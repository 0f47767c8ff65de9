package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bgricker/buildharness/internal/discovery"
	"github.com/bgricker/buildharness/internal/report"
	"github.com/bgricker/buildharness/internal/suite"
)

// PrettyRenderer prints human-friendly progress lines while tests build and
// run, followed by a summary.
type PrettyRenderer struct {
	out    io.Writer
	err    error
	passed lipgloss.Style
	failed lipgloss.Style
	header lipgloss.Style
	dim    lipgloss.Style
}

// NewPretty creates a PrettyRenderer writing to the provided writer. Colors are
// only emitted when out is a terminal.
func NewPretty(out io.Writer) *PrettyRenderer {
	r := lipgloss.NewRenderer(out)
	return &PrettyRenderer{
		out:    out,
		passed: r.NewStyle().Foreground(lipgloss.Color("2")),
		failed: r.NewStyle().Foreground(lipgloss.Color("1")),
		header: r.NewStyle().Bold(true),
		dim:    r.NewStyle().Faint(true),
	}
}

// Begin prints the run banner.
func (p *PrettyRenderer) Begin(tests []suite.Test) error {
	p.printf("%s\n", p.header.Render("==== Building and Running All Tests ===="))
	return p.err
}

// StepStarted announces a compile or run step.
func (p *PrettyRenderer) StepStarted(test suite.Test, stage report.Stage) error {
	switch stage {
	case report.StageCompile:
		p.printf("\nCompiling %s...\n", test.Source)
	case report.StageRun:
		p.printf("\nRunning %s...\n", test.ID)
	}
	return p.err
}

// StepFinished reports the outcome of a step.
func (p *PrettyRenderer) StepFinished(test suite.Test, step report.StepResult) error {
	if step.DryRun {
		p.printf("  %s %s\n", p.dim.Render("command:"), strings.Join(step.Command, " "))
		return p.err
	}

	if step.OK {
		switch step.Stage {
		case report.StageCompile:
			p.printf("%s %s compiled successfully\n", p.glyph(report.StatusPassed), test.ID)
		case report.StageRun:
			p.printf("%s %s PASSED\n", p.glyph(report.StatusPassed), test.ID)
		}
		return p.err
	}

	mark := p.glyph(report.StatusFailed)
	switch {
	case step.Kind == report.KindRunFailed:
		p.printf("%s %s FAILED (%s)\n", mark, test.ID, step.Message)
	case step.Message != "":
		p.printf("%s %s\n", mark, step.Message)
	default:
		p.printf("%s %s failed\n", mark, test.ID)
	}
	if step.Stderr != "" {
		p.printf("      stderr:\n%s\n", indent(step.Stderr, "        "))
	}
	return p.err
}

// End prints the summary block.
func (p *PrettyRenderer) End(summary report.Summary) error {
	p.printf("\n%s\n", p.header.Render("==== Test Summary ===="))
	p.printf("Passed: %d\n", summary.Passed)
	p.printf("Failed: %d\n", summary.Failed)
	if summary.Skipped > 0 {
		p.printf("Skipped: %d\n", summary.Skipped)
	}
	switch {
	case summary.Failed > 0:
		p.printf("%s\n", p.failed.Render("Some tests failed."))
	case summary.Skipped > 0 && summary.Passed == 0:
		p.printf("%s\n", p.dim.Render("Dry run: no tests were executed."))
	default:
		p.printf("%s\n", p.passed.Render("All tests passed!"))
	}
	return p.err
}

// RenderList shows the compile command template and whether each test's source exists.
func (p *PrettyRenderer) RenderList(tc suite.Toolchain, sources []discovery.SourceStatus) error {
	template := tc.CompileCommand(suite.Test{Source: "<source>", Output: "<test>"})
	p.printf("Compile: %s\n", strings.Join(template, " "))
	for _, s := range sources {
		if s.Exists {
			p.printf("  %s %s (%s)\n", p.glyph(report.StatusPassed), s.ID, s.Source)
		} else {
			p.printf("  %s %s (%s not found)\n", p.glyph(report.StatusFailed), s.ID, s.Source)
		}
	}
	return p.err
}

func (p *PrettyRenderer) glyph(status string) string {
	switch status {
	case report.StatusPassed:
		return p.passed.Render(statusGlyph(status))
	case report.StatusFailed:
		return p.failed.Render(statusGlyph(status))
	default:
		return statusGlyph(status)
	}
}

// printf remembers the first write error so callers can check it once per event.
func (p *PrettyRenderer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.out, format, args...)
}

func statusGlyph(status string) string {
	switch status {
	case report.StatusPassed:
		return "✓"
	case report.StatusFailed:
		return "✗"
	case report.StatusSkipped:
		return "-"
	default:
		return "?"
	}
}

func indent(s, pad string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = pad + lines[i]
	}
	return strings.Join(lines, "\n")
}
