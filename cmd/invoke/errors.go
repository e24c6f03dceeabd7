// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"

	"github.com/invoke-go/invoke/internal/issue"
	"github.com/invoke-go/invoke/internal/runner"
	"github.com/invoke-go/invoke/pkg/namespace"
	"github.com/invoke-go/invoke/pkg/parser"
)

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// classifyError maps a dispatch failure to its issue catalog ID.
func classifyError(err error) issue.Id {
	var ae *issue.ActionableError
	if errors.As(err, &ae) && ae.Issue != 0 {
		return ae.Issue
	}
	switch {
	case errors.Is(err, namespace.ErrNameResolution):
		return issue.TaskNotFoundId
	case errors.Is(err, runner.ErrCommandFailed):
		return issue.CommandFailedId
	case errors.Is(err, runner.ErrInvalidHideMode):
		return issue.InvalidHideModeId
	case errors.Is(err, parser.ErrUnknownOption),
		errors.Is(err, parser.ErrMissingArgument),
		errors.Is(err, parser.ErrAmbiguousBundle),
		errors.Is(err, parser.ErrInvalidValue):
		return issue.ArgumentParseErrorId
	}
	return 0
}
