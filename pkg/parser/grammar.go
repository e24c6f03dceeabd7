// SPDX-License-Identifier: MPL-2.0

package parser

import (
	"strings"

	"github.com/invoke-go/invoke/pkg/namespace"
)

type (
	// ParsedTask is one task block of the command line.
	ParsedTask struct {
		// Name is the task's real dotted name.
		Name string
		// Given is the name as typed, which may be an alias or a collection.
		Given string
		Task  *namespace.Task
		Args  namespace.Values
		// Help is set when the block asked for the task's help with an
		// undeclared --help or -h.
		Help bool
	}

	// Result is a fully parsed command line.
	Result struct {
		Core  CoreOptions
		Tasks []ParsedTask
		// Remainder is everything after a standalone "--", joined by spaces.
		Remainder string
	}
)

// ParseCore consumes the core options at the front of args (program name
// already removed) and returns them with the unconsumed tokens. Parsing
// stops at the first bare token that is not a flag value.
func ParseCore(args []string) (CoreOptions, []string, error) {
	ac := newArgContext("", coreArgs, coreFlags, nil)
	st, n, err := ac.parseBlock(args)
	if err != nil {
		return CoreOptions{}, nil, err
	}
	return coreOptionsFrom(st.vals, st.given[helpIndex]), args[n:], nil
}

// ParseTasks splits tokens into task blocks. Each block starts with a task
// name resolved against ns and continues with that task's flags and
// positional values. A "--" ends parsing and the rest becomes the remainder.
func ParseTasks(ns *namespace.Namespace, tokens []string) ([]ParsedTask, string, error) {
	var (
		parsed    []ParsedTask
		remainder string
	)
	i := 0
	for i < len(tokens) {
		tok := tokens[i]
		if tok == "--" {
			remainder = strings.Join(tokens[i+1:], " ")
			break
		}
		if looksLikeFlag(tok) {
			return nil, "", &UnknownOptionError{Option: tok}
		}
		r, err := ns.Lookup(tok)
		if err != nil {
			return nil, "", err
		}
		st, n, err := parseTaskBlock(r.Task, r.Path, tokens[i+1:])
		if err != nil {
			return nil, "", err
		}
		parsed = append(parsed, ParsedTask{Name: r.Path, Given: tok, Task: r.Task, Args: st.vals, Help: st.help})
		i += 1 + n
	}
	return parsed, remainder, nil
}

// Parse runs the full grammar over argv, where argv[0] is the program name.
func Parse(ns *namespace.Namespace, argv []string) (Result, error) {
	if len(argv) > 0 {
		argv = argv[1:]
	}
	core, rest, err := ParseCore(argv)
	if err != nil {
		return Result{}, err
	}
	tasks, remainder, err := ParseTasks(ns, rest)
	if err != nil {
		return Result{}, err
	}
	return Result{Core: core, Tasks: tasks, Remainder: remainder}, nil
}
