// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the invoke command line entry point.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// newRootCommand builds the root command. Flag parsing is disabled: the
// whole command line, core options and task blocks alike, goes to App.Run.
func newRootCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "invoke [--core-opts] task1 [--task1-opts] ... taskN [--taskN-opts]",
		Short: "Run tasks declared in a task collection",
		Long: TitleStyle.Render("invoke") + SubtitleStyle.Render(" - Run tasks declared in a task collection") + `

Tasks live in a tasks.cue, tasks.yaml or tasks.toml file found in the current
directory or one of its parents. Run 'invoke --help' for the core options
and 'invoke --list' for the available tasks.`,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		SilenceErrors:      true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), args)
		},
	}
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error:"), err)
		os.Exit(1)
	}

	// fang's completion and man subcommands would shadow tasks of the same name.
	if err := fang.Execute(
		context.Background(),
		newRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithoutCompletions(),
		fang.WithoutManpage(),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
