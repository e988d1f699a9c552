package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultWaitDelay bounds how long Wait blocks on output pipes after the
// process has been killed.
const DefaultWaitDelay = 5 * time.Second

type implExecutor struct {
	waitDelay time.Duration
}

// New creates a new Executor instance
func New() Executor {
	return &implExecutor{waitDelay: DefaultWaitDelay}
}

// Execute runs an external command with the given arguments
func (e *implExecutor) Execute(ctx context.Context, name string, args ...string) (*Result, error) {
	return e.run(ctx, "", name, args...)
}

// ExecuteInDir runs an external command in a specific working directory
func (e *implExecutor) ExecuteInDir(ctx context.Context, dir string, name string, args ...string) (*Result, error) {
	return e.run(ctx, dir, name, args...)
}

// run never goes through a shell. The command runs in its own process
// group so that a cancelled context kills any children it spawned.
func (e *implExecutor) run(ctx context.Context, dir string, name string, args ...string) (*Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.WaitDelay = e.waitDelay
	setProcessGroup(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode(cmd, err),
	}
	if err == nil {
		return result, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, fmt.Errorf("command '%s' aborted: %w", name, ctxErr)
	}

	// Include stderr in error message for debugging
	stderrStr := strings.TrimSpace(result.Stderr)
	if stderrStr != "" {
		return result, fmt.Errorf("command '%s' failed: %w\nstderr: %s", name, err, stderrStr)
	}
	return result, fmt.Errorf("command '%s' failed: %w", name, err)
}

func exitCode(cmd *exec.Cmd, err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	if err != nil {
		return -1
	}
	return 0
}
