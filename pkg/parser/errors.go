// SPDX-License-Identifier: MPL-2.0

package parser

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownOption is the sentinel wrapped by UnknownOptionError.
	ErrUnknownOption = errors.New("unknown option")
	// ErrMissingArgument is the sentinel wrapped by MissingArgumentError.
	ErrMissingArgument = errors.New("missing argument")
	// ErrAmbiguousBundle is the sentinel wrapped by AmbiguousBundleError.
	ErrAmbiguousBundle = errors.New("ambiguous flag bundle")
	// ErrInvalidValue is the sentinel wrapped by InvalidValueError.
	ErrInvalidValue = errors.New("invalid flag value")
)

type (
	// UnknownOptionError is returned for a flag no argument declares.
	UnknownOptionError struct {
		// Task is the task whose block held the flag; empty for core options.
		Task   string
		Option string
	}

	// MissingArgumentError is returned when a positional argument is never
	// filled or a valued flag ends the input without its value.
	MissingArgumentError struct {
		Task     string
		Argument string
		// Flag is the spelling that was given without a value, if any.
		Flag string
	}

	// AmbiguousBundleError is returned when no split of a short flag
	// cluster maps every character to a declared argument.
	AmbiguousBundleError struct {
		Task  string
		Token string
	}

	// InvalidValueError is returned when a value cannot be converted to its
	// argument's kind.
	InvalidValueError struct {
		Task     string
		Argument string
		Value    string
		Cause    error
	}
)

func (e *UnknownOptionError) Error() string {
	if e.Task == "" {
		return fmt.Sprintf("No idea what '%s' is!", e.Option)
	}
	return fmt.Sprintf("Task '%s' has no option '%s'", e.Task, e.Option)
}

// Unwrap returns ErrUnknownOption for errors.Is() compatibility.
func (e *UnknownOptionError) Unwrap() error { return ErrUnknownOption }

func (e *MissingArgumentError) Error() string {
	if e.Flag != "" {
		return fmt.Sprintf("Flag '%s' needs a value!", e.Flag)
	}
	if e.Task == "" {
		return fmt.Sprintf("Core option '%s' is required", e.Argument)
	}
	return fmt.Sprintf("'%s' did not receive required positional arguments: '%s'", e.Task, e.Argument)
}

// Unwrap returns ErrMissingArgument for errors.Is() compatibility.
func (e *MissingArgumentError) Unwrap() error { return ErrMissingArgument }

func (e *AmbiguousBundleError) Error() string {
	if e.Task == "" {
		return fmt.Sprintf("Cannot make sense of flag bundle '%s'", e.Token)
	}
	return fmt.Sprintf("Cannot make sense of flag bundle '%s' for task '%s'", e.Token, e.Task)
}

// Unwrap returns ErrAmbiguousBundle for errors.Is() compatibility.
func (e *AmbiguousBundleError) Unwrap() error { return ErrAmbiguousBundle }

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("Value '%s' for '%s' is invalid: %v", e.Value, e.Argument, e.Cause)
}

// Unwrap returns both the sentinel and the conversion error.
func (e *InvalidValueError) Unwrap() []error { return []error{ErrInvalidValue, e.Cause} }
