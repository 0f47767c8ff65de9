package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bgricker/buildharness/internal/discovery"
	"github.com/bgricker/buildharness/internal/logging"
	"github.com/bgricker/buildharness/internal/report"
	"github.com/bgricker/buildharness/internal/suite"
)

// Progress receives updates while the runner works through a suite.
type Progress interface {
	Begin(tests []suite.Test) error
	StepStarted(test suite.Test, stage report.Stage) error
	StepFinished(test suite.Test, step report.StepResult) error
	End(summary report.Summary) error
}

// Options configure how the runner builds and executes tests.
type Options struct {
	Root           string
	Stdout         io.Writer
	Stderr         io.Writer
	Verbose        bool
	DryRun         bool
	TailLines      int
	Env            []string
	CompileTimeout time.Duration
	RunTimeout     time.Duration
	Process        ProcessRunner
	Progress       Progress
	Logger         *slog.Logger
}

// Runner compiles and runs tests one at a time.
type Runner struct {
	opts Options
}

// New creates a runner with the supplied options.
func New(opts Options) *Runner {
	if opts.Stdout == nil {
		opts.Stdout = io.Discard
	}
	if opts.Stderr == nil {
		opts.Stderr = io.Discard
	}
	if opts.TailLines <= 0 {
		opts.TailLines = 20
	}
	if opts.Env == nil {
		opts.Env = os.Environ()
	}
	if opts.Process == nil {
		opts.Process = ExecRunner{}
	}
	if opts.Progress == nil {
		opts.Progress = nopProgress{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &Runner{opts: opts}
}

// Run builds and executes every test of s in order and returns per-test
// results and the tally. Test failures never abort the run; the returned
// error is reserved for progress reporting failures and cancellation of ctx.
func (r *Runner) Run(ctx context.Context, s suite.Suite) ([]report.TestResult, report.Summary, error) {
	var summary report.Summary
	results := make([]report.TestResult, 0, len(s.Tests))

	if err := r.opts.Progress.Begin(s.Tests); err != nil {
		return nil, summary, err
	}

	for _, test := range s.Tests {
		if err := ctx.Err(); err != nil {
			return results, summary, err
		}

		result, err := r.runTest(ctx, s.Toolchain, test)
		if err != nil {
			return results, summary, err
		}
		summary.Add(result)
		results = append(results, result)

		r.opts.Logger.Debug("test finished",
			"test", test.ID,
			"status", result.Status,
			"kind", string(result.Kind))
	}

	if err := r.opts.Progress.End(summary); err != nil {
		return results, summary, err
	}

	r.opts.Logger.Info("run finished",
		"total", summary.Total,
		"passed", summary.Passed,
		"failed", summary.Failed,
		"skipped", summary.Skipped)
	return results, summary, nil
}

func (r *Runner) runTest(ctx context.Context, tc suite.Toolchain, test suite.Test) (report.TestResult, error) {
	result := report.TestResult{
		ID:     test.ID,
		Source: test.Source,
		Output: test.Output,
		DryRun: r.opts.DryRun,
	}

	if err := r.opts.Progress.StepStarted(test, report.StageCompile); err != nil {
		return result, err
	}
	compile := r.compile(ctx, tc, test)
	result.Steps = append(result.Steps, compile)
	if err := r.opts.Progress.StepFinished(test, compile); err != nil {
		return result, err
	}

	switch {
	case r.opts.DryRun:
		// Show the run command too; nothing has been built.
		run := report.StepResult{Stage: report.StageRun, Command: []string{runPath(test)}, DryRun: true}
		result.Steps = append(result.Steps, run)
		if err := r.opts.Progress.StepFinished(test, run); err != nil {
			return result, err
		}
		result.Status = report.StatusSkipped
		return result, nil
	case !compile.OK:
		result.Status = report.StatusFailed
		result.Kind = compile.Kind
		return result, nil
	}

	if err := r.opts.Progress.StepStarted(test, report.StageRun); err != nil {
		return result, err
	}
	run := r.run(ctx, test)
	result.Steps = append(result.Steps, run)
	if err := r.opts.Progress.StepFinished(test, run); err != nil {
		return result, err
	}

	if run.OK {
		result.Status = report.StatusPassed
	} else {
		result.Status = report.StatusFailed
		result.Kind = run.Kind
	}
	return result, nil
}

func (r *Runner) compile(ctx context.Context, tc suite.Toolchain, test suite.Test) report.StepResult {
	step := report.StepResult{
		Stage:   report.StageCompile,
		Command: tc.CompileCommand(test),
		DryRun:  r.opts.DryRun,
	}
	if r.opts.DryRun {
		return step
	}

	if _, err := discovery.Source(r.opts.Root, test.Source); err != nil {
		step.ExitCode = -1
		if errors.Is(err, discovery.ErrSourceMissing) {
			step.Kind = report.KindSourceMissing
			step.Message = fmt.Sprintf("%s not found", test.Source)
		} else {
			// An unreadable or non-regular source can never compile.
			step.Kind = report.KindCompileFailed
			step.Message = err.Error()
		}
		return step
	}

	cmd := Command{Path: tc.Compiler, Args: tc.CompileArgs(test)}
	code, err := r.invoke(ctx, r.opts.CompileTimeout, cmd, &step)
	step.ExitCode = code
	switch {
	case errors.Is(err, ErrTimeout):
		step.Kind = report.KindTimeout
		step.Message = fmt.Sprintf("Compilation of %s timed out after %s", test.ID, r.opts.CompileTimeout)
	case err != nil:
		step.Kind = report.KindCompileFailed
		step.Message = fmt.Sprintf("Compilation failed for %s: %v", test.ID, err)
	case code != 0:
		step.Kind = report.KindCompileFailed
		step.Message = fmt.Sprintf("Compilation failed for %s: %s", test.ID, describeExit(code))
	default:
		step.OK = true
	}
	return step
}

func (r *Runner) run(ctx context.Context, test suite.Test) report.StepResult {
	step := report.StepResult{
		Stage:   report.StageRun,
		Command: []string{runPath(test)},
	}

	path, err := discovery.Executable(r.opts.Root, test.Output)
	if err != nil {
		step.ExitCode = -1
		step.Kind = report.KindExecutableMissing
		step.Message = fmt.Sprintf("%s not found!", test.Output)
		return step
	}

	code, err := r.invoke(ctx, r.opts.RunTimeout, Command{Path: path}, &step)
	step.ExitCode = code
	switch {
	case errors.Is(err, ErrTimeout):
		step.Kind = report.KindTimeout
		step.Message = fmt.Sprintf("%s timed out after %s", test.ID, r.opts.RunTimeout)
	case err != nil:
		step.Kind = report.KindExecutableMissing
		step.Message = fmt.Sprintf("%s could not be started: %v", test.ID, err)
	case code != 0:
		step.Kind = report.KindRunFailed
		step.Message = describeExit(code)
	default:
		step.OK = true
	}
	return step
}

// invoke runs cmd from the harness root with the step timeout applied. Output
// is streamed when verbose and otherwise kept as a tail on the step.
func (r *Runner) invoke(ctx context.Context, timeout time.Duration, cmd Command, step *report.StepResult) (int, error) {
	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	cmd.Dir = r.opts.Root
	cmd.Env = r.opts.Env

	var stdoutBuf, stderrBuf strings.Builder
	if r.opts.Verbose {
		cmd.Stdout = io.MultiWriter(r.opts.Stdout, &stdoutBuf)
		cmd.Stderr = io.MultiWriter(r.opts.Stderr, &stderrBuf)
	} else {
		cmd.Stdout = &stdoutBuf
		cmd.Stderr = &stderrBuf
	}

	r.opts.Logger.Debug("spawn",
		"stage", string(step.Stage),
		"command", cmd.String(),
		"timeout", timeout)

	code, err := r.opts.Process.Run(ctx, cmd)

	step.Stdout = tailLines(stdoutBuf.String(), r.opts.TailLines)
	step.Stderr = tailLines(stderrBuf.String(), r.opts.TailLines)

	r.opts.Logger.Debug("exit",
		"stage", string(step.Stage),
		"exit_code", code,
		"error", err)
	return code, err
}

// runPath is the command line shown for a run step: the artifact launched
// from the harness root.
func runPath(test suite.Test) string {
	if filepath.IsAbs(test.Output) || strings.HasPrefix(test.Output, ".") {
		return test.Output
	}
	return "./" + test.Output
}

type nopProgress struct{}

func (nopProgress) Begin([]suite.Test) error                         { return nil }
func (nopProgress) StepStarted(suite.Test, report.Stage) error       { return nil }
func (nopProgress) StepFinished(suite.Test, report.StepResult) error { return nil }
func (nopProgress) End(report.Summary) error                         { return nil }
