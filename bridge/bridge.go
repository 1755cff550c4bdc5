// Package bridge runs the external device-bridge tool (adb).
//
// The bridge's command-line interface is a fixed contract: this package only
// launches it, captures its output and reports how the process ended. It
// does not interpret exit codes; callers decide what a non-zero exit means.
package bridge

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultPath is the bridge binary looked up on $PATH.
const DefaultPath = "adb"

// WaitDelay bounds how long Run waits for the output pipes after the
// process exits or is killed. A descendant that inherits stdout (adb
// starting its server) would otherwise hold Run open until it exits.
const WaitDelay = 200 * time.Millisecond

// ErrTimeout is returned when a bridge invocation exceeds its timeout.
var ErrTimeout = errors.New("bridge command timed out")

// Result is the captured output of a bridge process that ran to exit.
type Result struct {
	// Stdout is the captured standard output.
	Stdout string
	// Stderr is the captured standard error.
	Stderr string
	// ExitCode is the process exit code. Non-zero is not an error.
	ExitCode int
}

// Runner invokes the bridge with the given arguments and blocks until the
// process exits. A non-nil error means the process did not run to exit:
// it could not be launched, or ctx or the runner's timeout stopped it.
type Runner interface {
	Run(ctx context.Context, args ...string) (*Result, error)
}

// LaunchError reports that the bridge process could not be started
// (missing binary, permission denied, ...).
type LaunchError struct {
	Path string
	Args []string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to start %s %s: %v", e.Path, strings.Join(e.Args, " "), e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// IsLaunchError reports whether err (or anything it wraps) is a LaunchError.
func IsLaunchError(err error) bool {
	var launchErr *LaunchError
	return errors.As(err, &launchErr)
}

// Config configures an ExecRunner.
type Config struct {
	// Path is the bridge binary, resolved on $PATH when not absolute.
	Path string
	// Timeout bounds each invocation. Zero means no timeout.
	Timeout time.Duration
}

// ExecRunner runs the bridge as a child process.
type ExecRunner struct {
	config Config
}

// NewExecRunner creates a runner. An empty Path falls back to DefaultPath.
func NewExecRunner(config Config) *ExecRunner {
	if config.Path == "" {
		config.Path = DefaultPath
	}
	return &ExecRunner{config: config}
}

// Path returns the bridge binary this runner invokes.
func (r *ExecRunner) Path() string {
	return r.config.Path
}

// Run starts `<path> args...`, waits for it and captures its output.
func (r *ExecRunner) Run(ctx context.Context, args ...string) (*Result, error) {
	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return nil, contextError(err)
	}

	cmd := exec.CommandContext(ctx, r.config.Path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = WaitDelay

	if err := cmd.Start(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, contextError(ctxErr)
		}
		return nil, &LaunchError{Path: r.config.Path, Args: args, Err: err}
	}

	err := cmd.Wait()

	result := &Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		// A killed process also surfaces as an ExitError.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, contextError(ctxErr)
		}
		var exitErr *exec.ExitError
		switch {
		case errors.As(err, &exitErr):
			result.ExitCode = exitErr.ExitCode()
		case errors.Is(err, exec.ErrWaitDelay):
			// The bridge itself exited cleanly; only a descendant kept
			// the pipes open.
			result.ExitCode = cmd.ProcessState.ExitCode()
		default:
			return nil, fmt.Errorf("bridge wait failed: %w", err)
		}
	}

	return result, nil
}

func contextError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return fmt.Errorf("bridge command canceled: %w", err)
}

// Verify ExecRunner implements Runner.
var _ Runner = (*ExecRunner)(nil)
