// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{"operation only", &ActionableError{Operation: "load task collection"}, "failed to load task collection"},
		{
			"with resource",
			&ActionableError{Operation: "load task collection", Resource: "./tasks.cue"},
			"failed to load task collection: ./tasks.cue",
		},
		{
			"with cause",
			&ActionableError{Operation: "load task collection", Resource: "./tasks.cue", Cause: errors.New("file not found")},
			"failed to load task collection: ./tasks.cue: file not found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("sentinel")
	err := NewErrorContext().WithOperation("run task").Wrap(fmt.Errorf("wrapped: %w", sentinel)).BuildError()
	if !errors.Is(err, sentinel) {
		t.Error("errors.Is should find the wrapped sentinel")
	}
	var ae *ActionableError
	if !errors.As(err, &ae) || ae.Operation != "run task" {
		t.Errorf("errors.As = %v", ae)
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	root := errors.New("permission denied")
	err := &ActionableError{
		Operation:   "load task collection",
		Resource:    "./tasks.cue",
		Suggestions: []string{"Check file permissions", "Run with --debug"},
		Cause:       fmt.Errorf("open: %w", root),
	}

	short := err.Format(false)
	for _, want := range []string{"failed to load task collection", "• Check file permissions", "• Run with --debug"} {
		if !strings.Contains(short, want) {
			t.Errorf("Format(false) missing %q:\n%s", want, short)
		}
	}
	if strings.Contains(short, "Error chain") {
		t.Error("Format(false) should not include the error chain")
	}

	verbose := err.Format(true)
	for _, want := range []string{"Error chain:", "1. open: permission denied", "2. permission denied"} {
		if !strings.Contains(verbose, want) {
			t.Errorf("Format(true) missing %q:\n%s", want, verbose)
		}
	}
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	if NewErrorContext().WithResource("x").Build() != nil {
		t.Error("Build() without an operation should return nil")
	}
	if NewErrorContext().BuildError() != nil {
		t.Error("BuildError() without an operation should return a nil interface")
	}

	ae := NewErrorContext().
		WithOperation("parse arguments").
		WithResource("--nope").
		WithSuggestion("one").
		WithSuggestions("two", "three").
		WithIssue(ArgumentParseErrorId).
		Build()
	if ae.Operation != "parse arguments" || ae.Resource != "--nope" {
		t.Errorf("Build() = %+v", ae)
	}
	if len(ae.Suggestions) != 3 {
		t.Errorf("Suggestions = %v", ae.Suggestions)
	}
	if ae.Guide() != Get(ArgumentParseErrorId) {
		t.Error("Guide() should return the linked catalog entry")
	}
	if (&ActionableError{Operation: "x"}).Guide() != nil {
		t.Error("Guide() without an issue should be nil")
	}
}

func TestWrapWithOperation(t *testing.T) {
	t.Parallel()

	if WrapWithOperation(nil, "noop") != nil {
		t.Error("wrapping nil should return nil")
	}
	err := WrapWithOperation(errors.New("boom"), "read config")
	if err.Error() != "failed to read config: boom" {
		t.Errorf("got %q", err.Error())
	}
}
