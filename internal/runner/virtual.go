// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// VirtualShell runs commands with the embedded mvdan/sh interpreter. It
// behaves the same on every platform and ignores the pty setting.
type VirtualShell struct{}

// NewVirtualShell creates a virtual shell.
func NewVirtualShell() *VirtualShell { return &VirtualShell{} }

// Name returns the shell name.
func (s *VirtualShell) Name() string { return "virtual" }

// Run interprets the command line.
func (s *VirtualShell) Run(ctx context.Context, c Command) (int, error) {
	prog, err := syntax.NewParser().Parse(strings.NewReader(c.Line), "")
	if err != nil {
		return 1, fmt.Errorf("failed to parse command: %w", err)
	}

	dir := c.Dir
	if dir == "" {
		if dir, err = os.Getwd(); err != nil {
			return 1, fmt.Errorf("failed to resolve working directory: %w", err)
		}
	}

	opts := []interp.RunnerOption{
		interp.Dir(dir),
		interp.Env(expand.ListEnviron(append(os.Environ(), envSlice(c.Env)...)...)),
		interp.StdIO(nil, c.Stdout, c.Stderr),
	}
	// "--" keeps values such as "-v" from being read as shell options.
	if len(c.Params) > 0 {
		opts = append(opts, interp.Params(append([]string{"--"}, c.Params...)...))
	}

	r, err := interp.New(opts...)
	if err != nil {
		return 1, fmt.Errorf("failed to create interpreter: %w", err)
	}
	if err := r.Run(ctx, prog); err != nil {
		var status interp.ExitStatus
		if errors.As(err, &status) {
			return int(status), nil
		}
		return 1, fmt.Errorf("command execution failed: %w", err)
	}
	return 0, nil
}

// Quote renders a value as a single shell word.
func Quote(s string) string {
	q, err := syntax.Quote(s, syntax.LangBash)
	if err != nil {
		return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
	}
	return q
}
