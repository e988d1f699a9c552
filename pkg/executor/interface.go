package executor

import "context"

// Result holds the captured output of a finished command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Executor defines the interface for executing external commands
type Executor interface {
	Execute(ctx context.Context, name string, args ...string) (*Result, error)
	ExecuteInDir(ctx context.Context, dir string, name string, args ...string) (*Result, error)
}
