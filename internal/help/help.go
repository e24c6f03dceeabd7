// SPDX-License-Identifier: MPL-2.0

// Package help renders core help, per-task help, task listings and the
// version banner. Every function writes plain text and is deterministic.
package help

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/invoke-go/invoke/pkg/namespace"
	"github.com/invoke-go/invoke/pkg/parser"
)

// Program is the program name shown in usage lines.
const Program = "inv[oke]"

// Usage writes the one-line core usage.
func Usage(w io.Writer, prog string) error {
	_, err := fmt.Fprintf(w, "Usage: %s [--core-opts] task1 [--task1-opts] ... taskN [--taskN-opts]\n", prog)
	return err
}

// Core writes the core usage line and the table of core options.
func Core(w io.Writer, prog string) error {
	args, flags := parser.CoreArguments()
	if err := Usage(w, prog); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "\nCore options:\n"); err != nil {
		return err
	}
	rows := make([]row, len(args))
	for i := range args {
		rows[i] = row{spec: FlagSpec(args[i], flags[i]), desc: args[i].Help}
	}
	if err := writeColumns(w, rows); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

// Task writes the help of one task: usage, docstring and options.
func Task(w io.Writer, prog, name string, task *namespace.Task) error {
	args := task.Args()
	opts := ""
	if len(args) > 0 {
		opts = "[--options] "
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Usage: %s [--core-opts] %s %s[other tasks here ...]\n\n", prog, name, opts)

	b.WriteString("Docstring:\n")
	doc := Dedent(task.Doc())
	if doc == "" {
		b.WriteString("  none\n")
	} else {
		for _, line := range strings.Split(doc, "\n") {
			if line == "" {
				b.WriteString("\n")
				continue
			}
			b.WriteString("  " + line + "\n")
		}
	}
	b.WriteString("\nOptions:\n")
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}

	if len(args) == 0 {
		_, err := io.WriteString(w, "  none\n\n")
		return err
	}
	flags := task.Flags()
	rows := make([]row, len(args))
	for i := range args {
		rows[i] = row{spec: FlagSpec(args[i], flags[i]), desc: args[i].Help}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return sortKey(rows[i].spec) < sortKey(rows[j].spec)
	})
	if err := writeColumns(w, rows); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

// List writes the task listing.
func List(w io.Writer, entries []namespace.Entry) error {
	if _, err := io.WriteString(w, "Available tasks:\n\n"); err != nil {
		return err
	}
	rows := make([]row, len(entries))
	for i, e := range entries {
		spec := e.Name
		if len(e.Aliases) > 0 {
			spec += " (" + strings.Join(e.Aliases, ", ") + ")"
		}
		rows[i] = row{spec: spec, desc: e.Summary}
	}
	if err := writeColumns(w, rows); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

// Version writes the version banner.
func Version(w io.Writer, banner string) error {
	_, err := fmt.Fprintln(w, banner)
	return err
}

// FlagSpec renders every spelling of an argument the way it is shown in
// help, short spellings first: "-w STRING, --who=STRING".
func FlagSpec(arg namespace.Argument, flag namespace.Flag) string {
	meta := ""
	if arg.TakesValue() {
		meta = strings.ToUpper(arg.Kind.String())
	}
	parts := make([]string, 0, len(flag.Short)+len(flag.Long))
	for _, s := range flag.Short {
		switch {
		case meta == "":
			parts = append(parts, "-"+string(s))
		case arg.Optional:
			parts = append(parts, "-"+string(s)+" ["+meta+"]")
		default:
			parts = append(parts, "-"+string(s)+" "+meta)
		}
	}
	for _, l := range flag.Long {
		switch {
		case meta == "":
			parts = append(parts, "--"+l)
		case arg.Optional:
			parts = append(parts, "--"+l+"[="+meta+"]")
		default:
			parts = append(parts, "--"+l+"="+meta)
		}
	}
	return strings.Join(parts, ", ")
}

func sortKey(spec string) string {
	return strings.ToLower(strings.TrimLeft(spec, "-"))
}

// Dedent normalizes a docstring: the first line is trimmed, the remaining
// lines lose their common indentation, and leading and trailing blank
// lines are dropped.
func Dedent(doc string) string {
	lines := strings.Split(strings.ReplaceAll(doc, "\t", "    "), "\n")
	if len(lines) == 0 {
		return ""
	}
	lines[0] = strings.TrimSpace(lines[0])

	common := -1
	for _, line := range lines[1:] {
		trimmed := strings.TrimLeft(line, " ")
		if trimmed == "" {
			continue
		}
		n := len(line) - len(trimmed)
		if common < 0 || n < common {
			common = n
		}
	}
	for i := 1; i < len(lines); i++ {
		line := strings.TrimRight(lines[i], " ")
		if len(line) >= common && common > 0 {
			line = line[common:]
		}
		lines[i] = line
	}

	start, end := 0, len(lines)
	for start < end && lines[start] == "" {
		start++
	}
	for end > start && lines[end-1] == "" {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}
