// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os/exec"

	"github.com/packwrap/packwrap/internal/goal"
	"github.com/packwrap/packwrap/internal/issue"
	"github.com/packwrap/packwrap/internal/runtime"
	"github.com/packwrap/packwrap/pkg/pack200"
)

// errInputNotFound is reported before any process starts.
var errInputNotFound = errors.New("input file not found")

// classifyError maps a failure to its issue catalog entry and exit code.
func classifyError(err error) (issue.Id, int) {
	switch {
	case errors.Is(err, pack200.ErrInvalidOptions):
		return issue.InvalidOptionsId, ExitConfigError
	case errors.Is(err, errInputNotFound):
		return issue.InputNotFoundId, ExitConfigError
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist) && errors.Is(err, runtime.ErrCommandFailed):
		return issue.ExecutableNotFoundId, ExitEnvError
	case errors.Is(err, goal.ErrVerificationFailed):
		return issue.VerificationFailedId, ExitCommandFailed
	case errors.Is(err, runtime.ErrCommandFailed):
		return issue.CommandFailedId, ExitCommandFailed
	default:
		var ae *issue.ActionableError
		if errors.As(err, &ae) && ae.Operation == "load configuration" {
			return issue.ConfigLoadFailedId, ExitConfigError
		}
		return issue.CommandFailedId, ExitCommandFailed
	}
}

// formatErrorForDisplay uses ActionableError.Format when available. In debug
// mode the full error chain is shown.
func formatErrorForDisplay(err error, debugMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(debugMode)
	}
	return err.Error()
}

// reportError prints the error and its catalog guidance to w and returns the
// *ExitError for RunE.
func reportError(w io.Writer, err error, debugMode bool) error {
	id, code := classifyError(err)
	fmt.Fprintf(w, "\n%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, debugMode))
	if rendered, rerr := issue.Get(id).Render("dark"); rerr == nil {
		fmt.Fprint(w, rendered)
	}
	return &ExitError{Code: code, Err: err}
}

// asConfigError ensures a configuration failure is classified as one.
func asConfigError(err error) error {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return err
	}
	return issue.NewErrorContext().
		WithOperation("load configuration").
		WithSuggestion("Run 'packwrap config show' to inspect the effective configuration").
		Wrap(err).
		BuildError()
}
