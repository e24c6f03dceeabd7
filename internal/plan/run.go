// SPDX-License-Identifier: MPL-2.0

package plan

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// ErrTaskFailed is the sentinel wrapped by TaskError.
var ErrTaskFailed = errors.New("task failed")

type (
	// Executor runs a single invocation.
	Executor interface {
		Execute(ctx context.Context, inv Invocation) error
	}

	// ExecutorFunc adapts a function to the Executor interface.
	ExecutorFunc func(ctx context.Context, inv Invocation) error

	// RunOptions controls plan execution.
	RunOptions struct {
		// WarnOnly keeps running after a failed invocation; failures are
		// logged as warnings and returned together at the end.
		WarnOnly bool
		// Logger receives progress and failure messages. A discarding
		// logger is used when nil.
		Logger *log.Logger
	}

	// TaskError reports the failure of one invocation.
	TaskError struct {
		Name string
		Err  error
	}
)

// Execute calls f(ctx, inv).
func (f ExecutorFunc) Execute(ctx context.Context, inv Invocation) error { return f(ctx, inv) }

func (e *TaskError) Error() string {
	return fmt.Sprintf("task '%s' failed: %v", e.Name, e.Err)
}

// Unwrap returns both the sentinel and the underlying failure.
func (e *TaskError) Unwrap() []error { return []error{ErrTaskFailed, e.Err} }

// Run executes invocations in order. It stops at the first failure unless
// WarnOnly is set, in which case every invocation runs and the failures are
// joined into the returned error. Cancellation is checked between
// invocations.
func Run(ctx context.Context, invs []Invocation, exec Executor, opts RunOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	var failures []error
	for _, inv := range invs {
		if err := ctx.Err(); err != nil {
			return errors.Join(append(failures, err)...)
		}
		logger.Debug("running task", "task", inv.String())
		err := exec.Execute(ctx, inv)
		if err == nil {
			continue
		}
		taskErr := &TaskError{Name: inv.Name, Err: err}
		if !opts.WarnOnly {
			return taskErr
		}
		logger.Warn("task failed, continuing", "task", inv.Name, "error", err)
		failures = append(failures, taskErr)
	}
	return errors.Join(failures...)
}
