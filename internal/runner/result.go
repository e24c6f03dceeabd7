// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// HideNone mirrors both streams.
	HideNone HideMode = ""
	// HideOut captures stdout without mirroring it.
	HideOut HideMode = "out"
	// HideErr captures stderr without mirroring it.
	HideErr HideMode = "err"
	// HideBoth captures both streams without mirroring them.
	HideBoth HideMode = "both"
)

var (
	// ErrCommandFailed is the sentinel wrapped by Failure.
	ErrCommandFailed = errors.New("command failed")
	// ErrInvalidHideMode is returned by ParseHide for unknown modes.
	ErrInvalidHideMode = errors.New("invalid hide mode")
)

type (
	// HideMode selects which output streams are kept off the terminal.
	HideMode string

	// Result is the outcome of one shell command.
	Result struct {
		Command  string
		Stdout   string
		Stderr   string
		ExitCode int
		// Shell is the name of the shell that ran the command.
		Shell string
	}

	// Failure is returned when a command exits non-zero and warn is off.
	Failure struct {
		Result *Result
	}
)

// ParseHide converts a user-supplied hide mode. "stdout" and "stderr" are
// accepted as spellings of out and err.
func ParseHide(s string) (HideMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return HideNone, nil
	case "out", "stdout":
		return HideOut, nil
	case "err", "stderr":
		return HideErr, nil
	case "both":
		return HideBoth, nil
	default:
		return HideNone, fmt.Errorf("%w: %q (expected out, err or both)", ErrInvalidHideMode, s)
	}
}

// HidesOut reports whether stdout is kept off the terminal.
func (h HideMode) HidesOut() bool { return h == HideOut || h == HideBoth }

// HidesErr reports whether stderr is kept off the terminal.
func (h HideMode) HidesErr() bool { return h == HideErr || h == HideBoth }

// Ok reports whether the command exited zero.
func (r *Result) Ok() bool { return r.ExitCode == 0 }

// Failed reports whether the command exited non-zero.
func (r *Result) Failed() bool { return !r.Ok() }

func (f *Failure) Error() string {
	msg := fmt.Sprintf("command '%s' exited with status %d", f.Result.Command, f.Result.ExitCode)
	if stderr := strings.TrimSpace(f.Result.Stderr); stderr != "" {
		msg += ": " + lastLine(stderr)
	}
	return msg
}

// Unwrap returns ErrCommandFailed for errors.Is() compatibility.
func (f *Failure) Unwrap() error { return ErrCommandFailed }

// ExitCode returns the command's exit status.
func (f *Failure) ExitCode() int { return f.Result.ExitCode }

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
