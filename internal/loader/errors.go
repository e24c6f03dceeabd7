// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"errors"
	"fmt"
)

var (
	// ErrCollectionNotFound is returned when no collection file matches.
	ErrCollectionNotFound = errors.New("collection not found")
	// ErrInvalidCollection is returned when a collection file decodes but
	// does not describe a valid task tree.
	ErrInvalidCollection = errors.New("invalid task collection")
)

type (
	// CollectionNotFoundError reports a failed search.
	CollectionNotFoundError struct {
		Name string
		Root string
	}

	// InvalidCollectionError reports a semantic problem in a collection file.
	InvalidCollectionError struct {
		Path   string
		Reason string
		Cause  error
	}
)

// Error implements the error interface.
func (e *CollectionNotFoundError) Error() string {
	return fmt.Sprintf("Can't find any collection named '%s'!", e.Name)
}

// Unwrap returns ErrCollectionNotFound for errors.Is() compatibility.
func (e *CollectionNotFoundError) Unwrap() error { return ErrCollectionNotFound }

// Error implements the error interface.
func (e *InvalidCollectionError) Error() string {
	msg := e.Path + ": " + e.Reason
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns ErrInvalidCollection and the cause.
func (e *InvalidCollectionError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrInvalidCollection}
	}
	return []error{ErrInvalidCollection, e.Cause}
}
