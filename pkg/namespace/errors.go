// SPDX-License-Identifier: MPL-2.0

package namespace

import (
	"errors"
	"fmt"
)

var (
	// ErrNameResolution is the sentinel wrapped by NameResolutionError.
	ErrNameResolution = errors.New("name resolution failed")
	// ErrConfiguration is the sentinel wrapped by ConfigurationError.
	ErrConfiguration = errors.New("invalid namespace configuration")
)

type (
	// NameResolutionError is returned when a dotted path does not resolve to a task.
	NameResolutionError struct {
		// Path is the full dotted path that was requested.
		Path string
		// Segment is the first segment that failed to match, if any.
		Segment string
		// Reason describes why resolution stopped.
		Reason string
	}

	// ConfigurationError is returned when a collection or task is assembled
	// incorrectly: duplicate names, aliases or defaults, shared children,
	// dangling pre-requisites or pre-requisite cycles. These errors are fatal
	// at load time.
	ConfigurationError struct {
		// Collection is the dotted path of the collection being built (may be empty for root).
		Collection string
		// Reason is a human-readable description of the problem.
		Reason string
		// Cause is an optional underlying error.
		Cause error
	}
)

// Error implements the error interface.
func (e *NameResolutionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("No idea what '%s' is! (%s)", e.Path, e.Reason)
	}
	return fmt.Sprintf("No idea what '%s' is!", e.Path)
}

// Unwrap returns ErrNameResolution for errors.Is() compatibility.
func (e *NameResolutionError) Unwrap() error { return ErrNameResolution }

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	where := "root collection"
	if e.Collection != "" {
		where = fmt.Sprintf("collection '%s'", e.Collection)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", where, e.Reason, e.Cause)
	}
	return fmt.Sprintf("%s: %s", where, e.Reason)
}

// Unwrap returns both the sentinel and the cause so that errors.Is and
// errors.As can see through the configuration error.
func (e *ConfigurationError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrConfiguration, e.Cause}
	}
	return []error{ErrConfiguration}
}

func configErrorf(collection, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Collection: collection, Reason: fmt.Sprintf(format, args...)}
}
