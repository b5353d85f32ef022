// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/packwrap/packwrap/pkg/pack200"

	"github.com/charmbracelet/log"
)

type (
	// CommandContextFunc creates the *exec.Cmd for a process. It matches
	// exec.CommandContext and is replaced in tests to fake the external tools.
	CommandContextFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// Invoker runs command lines as child processes, one at a time.
	Invoker struct {
		commandContext CommandContextFunc
		stdout         io.Writer
		stderr         io.Writer
		logger         *log.Logger
		debug          bool
	}

	// InvokerOption configures an Invoker.
	InvokerOption func(*Invoker)
)

// NewInvoker creates an Invoker that forwards child output to os.Stdout and
// os.Stderr. Only exit code 0 is success.
func NewInvoker(opts ...InvokerOption) *Invoker {
	inv := &Invoker{
		commandContext: exec.CommandContext,
		stdout:         os.Stdout,
		stderr:         os.Stderr,
		logger:         log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// WithCommandContext replaces exec.CommandContext.
func WithCommandContext(fn CommandContextFunc) InvokerOption {
	return func(inv *Invoker) {
		if fn != nil {
			inv.commandContext = fn
		}
	}
}

// WithOutput sets where the child's stdout and stderr are written.
func WithOutput(stdout, stderr io.Writer) InvokerOption {
	return func(inv *Invoker) {
		inv.stdout = stdout
		inv.stderr = stderr
	}
}

// WithLogger sets the logger used for the debug command echo.
func WithLogger(logger *log.Logger) InvokerOption {
	return func(inv *Invoker) {
		if logger != nil {
			inv.logger = logger
		}
	}
}

// WithDebug logs the executable and its arguments before each run.
func WithDebug(debug bool) InvokerOption {
	return func(inv *Invoker) {
		inv.debug = debug
	}
}

// Run executes the command line and waits for it to exit.
func (inv *Invoker) Run(ctx context.Context, cl pack200.CommandLine) *Result {
	if cl.IsZero() {
		return NewFailureResult("", ExitCodeLaunchFailure, errors.New("empty command line"))
	}

	exe := cl.Executable()
	if inv.debug {
		inv.logger.Info("Executable: " + exe)
		inv.logger.Info("Arguments: " + cl.JoinedArgs())
	}

	cmd := inv.commandContext(ctx, exe, cl.Args()...)
	cmd.Stdout = inv.stdout
	cmd.Stderr = inv.stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code := ExitCode(exitErr.ExitCode())
			if ctx.Err() != nil {
				return NewFailureResult(exe, code, fmt.Errorf("interrupted: %w", ctx.Err()))
			}
			return NewFailureResult(exe, code, nil)
		}
		return NewFailureResult(exe, ExitCodeLaunchFailure, fmt.Errorf("failed to execute command: %w", err))
	}

	return NewSuccessResult()
}
