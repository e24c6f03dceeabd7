// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"maps"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/invoke-go/invoke/pkg/namespace"
)

var echoStyle = lipgloss.NewStyle().Bold(true)

type (
	// Settings are the run defaults shared by every command of a dispatch.
	Settings struct {
		Echo bool
		Pty  bool
		Warn bool
		Hide HideMode
		Dir  string
	}

	// RunOption overrides a setting for a single command.
	RunOption func(*Command, *Settings)

	// Context is the execution context handed to task bodies.
	Context struct {
		ctx      context.Context
		shell    Shell
		settings Settings
		env      map[string]string
		params   []string
		stdout   io.Writer
		stderr   io.Writer
		logger   *log.Logger
	}
)

var _ namespace.Context = (*Context)(nil)

// NewContext creates a task context. A nil logger discards log output.
func NewContext(ctx context.Context, shell Shell, settings Settings, stdout, stderr io.Writer, logger *log.Logger) *Context {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Context{
		ctx:      ctx,
		shell:    shell,
		settings: settings,
		env:      map[string]string{},
		stdout:   stdout,
		stderr:   stderr,
		logger:   logger,
	}
}

// WithEcho forces echoing on or off.
func WithEcho(on bool) RunOption {
	return func(_ *Command, s *Settings) { s.Echo = on }
}

// WithHide sets the hide mode.
func WithHide(mode HideMode) RunOption {
	return func(_ *Command, s *Settings) { s.Hide = mode }
}

// WithWarn turns non-zero exits into results instead of failures.
func WithWarn(on bool) RunOption {
	return func(_ *Command, s *Settings) { s.Warn = on }
}

// WithPty runs the command on a pseudo-terminal.
func WithPty(on bool) RunOption {
	return func(_ *Command, s *Settings) { s.Pty = on }
}

// WithEnv adds environment variables for the command.
func WithEnv(env map[string]string) RunOption {
	return func(c *Command, _ *Settings) {
		if c.Env == nil {
			c.Env = map[string]string{}
		}
		maps.Copy(c.Env, env)
	}
}

// Derive returns a copy of the context with extra environment variables
// and positional parameters.
func (c *Context) Derive(env map[string]string, params []string) *Context {
	out := *c
	out.env = maps.Clone(c.env)
	maps.Copy(out.env, env)
	out.params = append([]string(nil), params...)
	return &out
}

// Context returns the cancellation context of the current invocation.
func (c *Context) Context() context.Context { return c.ctx }

// Stdout is where task output is written.
func (c *Context) Stdout() io.Writer { return c.stdout }

// Stderr is where task diagnostics are written.
func (c *Context) Stderr() io.Writer { return c.stderr }

// Run executes a command with the context defaults and returns its stdout.
func (c *Context) Run(command string) (string, error) {
	res, err := c.Exec(c.ctx, command)
	if res == nil {
		return "", err
	}
	return res.Stdout, err
}

// Exec executes a command. Output is captured into the Result and, unless
// hidden, mirrored to the context's streams. A non-zero exit is returned
// as *Failure unless warn is set.
func (c *Context) Exec(ctx context.Context, command string, opts ...RunOption) (*Result, error) {
	settings := c.settings
	cmd := Command{
		Line:   command,
		Params: c.params,
		Env:    maps.Clone(c.env),
		Dir:    settings.Dir,
	}
	for _, opt := range opts {
		opt(&cmd, &settings)
	}
	cmd.Pty = settings.Pty

	if settings.Echo {
		fmt.Fprintln(c.stdout, echoStyle.Render(command))
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = tee(&stdout, c.stdout, settings.Hide.HidesOut())
	cmd.Stderr = tee(&stderr, c.stderr, settings.Hide.HidesErr())

	c.logger.Debug("running command", "shell", c.shell.Name(), "command", command, "env", envKeys(cmd.Env))
	code, err := c.shell.Run(ctx, cmd)
	res := &Result{
		Command:  command,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: code,
		Shell:    c.shell.Name(),
	}
	if err != nil {
		return res, err
	}
	if res.Failed() {
		if settings.Warn {
			c.logger.Warn("command failed", "command", command, "status", code)
			return res, nil
		}
		return res, &Failure{Result: res}
	}
	return res, nil
}

func tee(buf *bytes.Buffer, mirror io.Writer, hidden bool) io.Writer {
	if hidden || mirror == nil {
		return buf
	}
	return io.MultiWriter(buf, mirror)
}

func envSlice(env map[string]string) []string {
	keys := envKeys(env)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+env[k])
	}
	return out
}

func envKeys(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
