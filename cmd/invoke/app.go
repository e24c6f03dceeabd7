// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/invoke-go/invoke/internal/config"
	"github.com/invoke-go/invoke/internal/issue"
	"github.com/invoke-go/invoke/internal/runner"
)

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer: the root command delegates every dispatch to
	// App.Run.
	App struct {
		Config ConfigProvider
		Shells ShellFactory
		// Banner is printed by --version.
		Banner string
		stdout io.Writer
		stderr io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Shells ShellFactory
		Banner string
		Stdout io.Writer
		Stderr io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// ShellFactory picks the shell that runs task commands.
	ShellFactory func(cfg config.RunConfig) (runner.Shell, error)
)

// NewApp creates the CLI composition root.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Shells == nil {
		deps.Shells = defaultShell
	}
	if deps.Banner == "" {
		deps.Banner = "Invoke " + Version
	}

	return &App{
		Config: deps.Config,
		Shells: deps.Shells,
		Banner: deps.Banner,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}, nil
}

// defaultShell returns the virtual shell or the native shell named by the
// run configuration.
func defaultShell(cfg config.RunConfig) (runner.Shell, error) {
	if cfg.Shell == config.ShellVirtual {
		return runner.NewVirtualShell(), nil
	}
	sh := runner.NewNativeShell(cfg.ShellPath)
	if !sh.Available() {
		resource := cfg.ShellPath
		if resource == "" {
			resource = "bash or sh"
		}
		return nil, issue.NewErrorContext().
			WithOperation("find shell").
			WithResource(resource).
			WithIssue(issue.ShellNotFoundId).
			WithSuggestions(
				"Install a POSIX shell or point run.shell_path at one",
				"Set run.shell to \"virtual\" to use the built-in shell",
			).
			BuildError()
	}
	return sh, nil
}
