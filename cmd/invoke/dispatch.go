// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/invoke-go/invoke/internal/config"
	"github.com/invoke-go/invoke/internal/help"
	"github.com/invoke-go/invoke/internal/issue"
	"github.com/invoke-go/invoke/internal/loader"
	"github.com/invoke-go/invoke/internal/plan"
	"github.com/invoke-go/invoke/internal/runner"
	"github.com/invoke-go/invoke/pkg/namespace"
	"github.com/invoke-go/invoke/pkg/parser"
)

// guideStyle is the glamour style used for issue guides in debug mode.
const guideStyle = "auto"

// settings are the core options merged over the loaded configuration.
type settings struct {
	collections []string
	root        string
	dedupe      bool
	debug       bool
	echo        bool
	pty         bool
	// warnOnly keeps the plan running past failed tasks.
	warnOnly bool
	// warnCommands turns failed shell commands into warnings.
	warnCommands bool
	hide         runner.HideMode
}

// Run dispatches one command line (program name removed). Usage and
// execution errors are printed to stderr and returned as *ExitError.
func (a *App) Run(ctx context.Context, args []string) error {
	core, rest, err := parser.ParseCore(args)
	if err != nil {
		return a.fail(err, false)
	}

	cfg, err := a.Config.Load(ctx, config.LoadOptions{})
	if err != nil {
		return a.fail(err, core.Debug)
	}
	s, err := mergeSettings(core, cfg)
	if err != nil {
		return a.fail(err, core.Debug || cfg.Debug)
	}
	logger := newLogger(a, s.debug)
	logger.Debug("settings", "collections", s.collections, "root", s.root, "dedupe", s.dedupe, "shell", cfg.Run.Shell)

	if core.Version {
		return a.done(help.Version(a.stdout, a.Banner))
	}
	if core.Help && core.HelpTask == "" {
		return a.done(help.Core(a.stdout, help.Program))
	}

	loaded, err := loader.Load(ctx, loader.Options{Names: s.collections, Root: s.root, Logger: logger})
	if err != nil {
		return a.fail(err, s.debug)
	}
	ns := loaded.Namespace

	if core.HelpTask != "" {
		r, err := ns.Lookup(core.HelpTask)
		if err != nil {
			return a.fail(err, s.debug)
		}
		return a.done(help.Task(a.stdout, help.Program, r.Path, r.Task))
	}
	if core.List {
		return a.done(help.List(a.stdout, ns.ListEntries()))
	}

	tasks, remainder, err := parser.ParseTasks(ns, rest)
	if err != nil {
		return a.fail(err, s.debug)
	}
	for _, t := range tasks {
		if t.Help {
			return a.done(help.Task(a.stdout, help.Program, t.Name, t.Task))
		}
	}
	if len(tasks) == 0 {
		def, ok, err := defaultTask(ns)
		if err != nil {
			return a.fail(err, s.debug)
		}
		if !ok {
			return a.done(help.Core(a.stdout, help.Program))
		}
		tasks = []parser.ParsedTask{def}
	}

	invs, err := plan.Build(ns, tasks, plan.Options{Dedupe: s.dedupe})
	if err != nil {
		return a.fail(err, s.debug)
	}
	shell, err := a.Shells(cfg.Run)
	if err != nil {
		return a.fail(err, s.debug)
	}
	base := runner.NewContext(ctx, shell, runner.Settings{
		Echo: s.echo,
		Pty:  s.pty,
		Warn: s.warnCommands,
		Hide: s.hide,
	}, a.stdout, a.stderr, logger)

	err = plan.Run(ctx, invs, runner.NewExecutor(base, remainder), plan.RunOptions{WarnOnly: s.warnOnly, Logger: logger})
	if err != nil {
		return a.fail(err, s.debug)
	}
	return nil
}

// mergeSettings applies the command line over the configuration. Boolean
// switches can only be turned on from the command line. -w turns failed
// commands into warnings and keeps the plan going past tasks that still
// fail; run.warn only does the former.
func mergeSettings(core parser.CoreOptions, cfg *config.Config) (settings, error) {
	s := settings{
		collections:  core.Collections,
		root:         core.Root,
		dedupe:       core.Dedupe() && cfg.Tasks.Dedupe,
		debug:        core.Debug || cfg.Debug,
		echo:         core.Echo || cfg.Run.Echo,
		pty:          core.Pty || cfg.Run.Pty,
		warnOnly:     core.WarnOnly,
		warnCommands: core.WarnOnly || cfg.Run.Warn,
	}
	if len(s.collections) == 0 {
		s.collections = []string{cfg.Tasks.Collection}
	}
	if s.root == "" {
		s.root = cfg.Tasks.SearchRoot
	}

	hide := core.Hide
	if hide == "" {
		hide = string(cfg.Run.Hide)
	}
	mode, err := runner.ParseHide(hide)
	if err != nil {
		return s, issue.NewErrorContext().
			WithOperation("parse hide mode").
			WithResource(hide).
			WithIssue(issue.InvalidHideModeId).
			WithSuggestion("Use one of: out, err, both").
			Wrap(err).
			BuildError()
	}
	s.hide = mode
	return s, nil
}

// defaultTask resolves the root default task with its default argument
// values. ok is false when the namespace has no default.
func defaultTask(ns *namespace.Namespace) (parser.ParsedTask, bool, error) {
	r, err := ns.Lookup("")
	if err != nil {
		if errors.Is(err, namespace.ErrNameResolution) {
			return parser.ParsedTask{}, false, nil
		}
		return parser.ParsedTask{}, false, err
	}
	vals, _, err := parser.ParseArgs(r.Task, r.Path, nil)
	if err != nil {
		return parser.ParsedTask{}, false, err
	}
	return parser.ParsedTask{Name: r.Path, Task: r.Task, Args: vals}, true, nil
}

func newLogger(a *App, debug bool) *log.Logger {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(a.stderr, log.Options{Prefix: "invoke", Level: level})
}

// done turns a failed help write into an exit error.
func (a *App) done(err error) error {
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}
	return nil
}

// fail prints err and returns the matching exit error. Command line
// mistakes are followed by the usage line. In debug mode the issue guide
// for the error's class is rendered below the message.
func (a *App) fail(err error, debug bool) error {
	fmt.Fprintf(a.stderr, "%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, debug))
	id := classifyError(err)
	if id == issue.ArgumentParseErrorId || id == issue.TaskNotFoundId {
		_ = help.Usage(a.stderr, help.Program)
	}
	if debug {
		if guide := issue.Get(id); guide != nil {
			if out, rerr := guide.Render(guideStyle); rerr == nil {
				fmt.Fprint(a.stderr, out)
			}
		}
	}
	return &ExitError{Code: 1, Err: err}
}
