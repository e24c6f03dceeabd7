// SPDX-License-Identifier: MPL-2.0

package parser

import (
	"slices"

	"github.com/invoke-go/invoke/pkg/namespace"
)

// CoreOptions are the program-wide options given before the first task name.
type CoreOptions struct {
	// Collections are the collection names given with -c, in order.
	Collections []string
	// Root is the directory the collection search starts from.
	Root     string
	NoDedupe bool
	Debug    bool
	Echo     bool
	Pty      bool
	WarnOnly bool
	// Hide is the default stream hiding mode for shell commands.
	Hide string
	// Help is set by -h/--help; HelpTask names the task when one was given.
	Help     bool
	HelpTask string
	List     bool
	Version  bool
}

var (
	coreArgs = []namespace.Argument{
		{Name: "no-dedupe", Kind: namespace.KindBool, Help: "Disable task deduplication."},
		{Name: "collection", Short: 'c', Iterable: true, Help: "Specify collection name to load. May be given >1 time."},
		{Name: "debug", Short: 'd', Kind: namespace.KindBool, Help: "Enable debug output."},
		{Name: "echo", Short: 'e', Kind: namespace.KindBool, Help: "Echo executed commands before running."},
		{Name: "help", Short: 'h', Optional: true, Help: "Show core or per-task help and exit."},
		{Name: "hide", Short: 'H', Help: "Set default value of run()'s 'hide' kwarg."},
		{Name: "list", Short: 'l', Kind: namespace.KindBool, Help: "List available tasks."},
		{Name: "pty", Short: 'p', Kind: namespace.KindBool, Help: "Use a pty when executing shell commands."},
		{Name: "root", Short: 'r', Help: "Change root directory used for finding task modules."},
		{Name: "version", Short: 'V', Kind: namespace.KindBool, Help: "Show version and exit."},
		{Name: "warn-only", Short: 'w', Kind: namespace.KindBool, Help: "Warn, instead of failing, when shell commands fail."},
	}

	coreFlags = mustCoreFlags()

	helpIndex = slices.IndexFunc(coreArgs, func(a namespace.Argument) bool { return a.Name == "help" })
)

func mustCoreFlags() []namespace.Flag {
	flags, err := namespace.DeriveFlags(coreArgs, false)
	if err != nil {
		panic(err)
	}
	return flags
}

// CoreArguments returns the core option declarations in help order, with
// their resolved flag spellings.
func CoreArguments() ([]namespace.Argument, []namespace.Flag) {
	args := make([]namespace.Argument, len(coreArgs))
	copy(args, coreArgs)
	flags := make([]namespace.Flag, len(coreFlags))
	copy(flags, coreFlags)
	return args, flags
}

// Dedupe reports whether duplicate invocations should be collapsed.
func (o CoreOptions) Dedupe() bool { return !o.NoDedupe }

// coreOptionsFrom converts parsed core values. helpGiven is set when -h or
// --help appeared at all, so an empty --help= still asks for core help.
func coreOptionsFrom(vals namespace.Values, helpGiven bool) CoreOptions {
	opts := CoreOptions{
		Collections: vals.Strings("collection"),
		Root:        vals.String("root"),
		NoDedupe:    vals.Bool("no-dedupe"),
		Debug:       vals.Bool("debug"),
		Echo:        vals.Bool("echo"),
		Pty:         vals.Bool("pty"),
		WarnOnly:    vals.Bool("warn-only"),
		Hide:        vals.String("hide"),
		List:        vals.Bool("list"),
		Version:     vals.Bool("version"),
	}
	switch h := vals["help"].(type) {
	case bool:
		opts.Help = h
	case string:
		opts.Help = helpGiven || h != ""
		opts.HelpTask = h
	}
	return opts
}
