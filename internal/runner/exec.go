package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"
)

// ErrTimeout is returned by a ProcessRunner when a command outlived its deadline.
var ErrTimeout = errors.New("timed out")

// Command is one child process invocation.
type Command struct {
	Path   string
	Args   []string
	Dir    string
	Env    []string
	Stdout io.Writer
	Stderr io.Writer
}

// String renders the command line for messages and dry runs.
func (c Command) String() string {
	return strings.Join(append([]string{c.Path}, c.Args...), " ")
}

// ProcessRunner spawns a command and waits for it. A nil error means the
// process ran to completion and exitCode is its status. A non-nil error means
// it could not be started or was killed (see ErrTimeout); exitCode is then -1
// unless the process produced one.
type ProcessRunner interface {
	Run(ctx context.Context, cmd Command) (exitCode int, err error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	// WaitDelay bounds how long Run waits for output pipes after the process
	// is killed. Zero uses a default of two seconds.
	WaitDelay time.Duration
}

// Run implements ProcessRunner.
func (r ExecRunner) Run(ctx context.Context, c Command) (int, error) {
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = c.Env
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr
	cmd.WaitDelay = r.WaitDelay
	if cmd.WaitDelay <= 0 {
		cmd.WaitDelay = 2 * time.Second
	}

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil && err != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return exitCode(err), ErrTimeout
		}
		return exitCode(err), ctxErr
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		return -1, err
	}
	return 0, nil
}

// withTimeout bounds ctx by d; a zero d leaves ctx unbounded.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

func describeExit(code int) string {
	if code < 0 {
		return "terminated by signal"
	}
	return fmt.Sprintf("exit status %d", code)
}

func tailLines(input string, maxLines int) string {
	if input == "" {
		return ""
	}
	lines := strings.Split(strings.TrimRight(input, "\n"), "\n")
	if len(lines) <= maxLines {
		return strings.Join(lines, "\n")
	}
	return strings.Join(lines[len(lines)-maxLines:], "\n")
}
