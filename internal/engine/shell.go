package engine

import (
	"context"
	"errors"
	"os"
	"os/exec"
)

// Shell runs a user-supplied test command. The exit status is the verdict
// signal, so a non-zero exit is reported as ok=false, not as an error;
// errors are reserved for failures to run the command at all.
type Shell interface {
	Run(ctx context.Context, command string) (ok bool, err error)
}

// RealShell runs commands through `sh -c` attached to the terminal.
type RealShell struct{}

// NewRealShell creates a RealShell.
func NewRealShell() *RealShell {
	return &RealShell{}
}

// Run executes the command and reports whether it exited zero.
func (s *RealShell) Run(ctx context.Context, command string) (bool, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	err := cmd.Run()
	if err == nil {
		return true, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return false, nil
	}
	return false, err
}

// FakeShell implements Shell with canned outcomes for testing.
type FakeShell struct {
	// Commands records every command run, in order.
	Commands []string

	// OK is the result reported for each run.
	OK bool

	// Err, when set, is returned by Run.
	Err error
}

// Run records the command and returns the canned outcome.
func (s *FakeShell) Run(ctx context.Context, command string) (bool, error) {
	s.Commands = append(s.Commands, command)
	if s.Err != nil {
		return false, s.Err
	}
	return s.OK, nil
}
