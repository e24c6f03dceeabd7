// SPDX-License-Identifier: MPL-2.0

// Package plan turns the parsed task blocks of a command line into the
// ordered list of invocations to execute.
package plan

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/invoke-go/invoke/pkg/namespace"
	"github.com/invoke-go/invoke/pkg/parser"
)

type (
	// Invocation is one task to execute with its resolved argument values.
	Invocation struct {
		// Name is the real dotted name of the task.
		Name string
		Task *namespace.Task
		Args namespace.Values
		// Requested is false for invocations added as pre-requisites.
		Requested bool
	}

	// Options controls plan construction.
	Options struct {
		// Dedupe collapses invocations with the same task and arguments,
		// keeping the first.
		Dedupe bool
	}
)

// Build expands every requested task into its pre-requisites followed by
// the task itself, depth first, then removes duplicates when requested.
// Pre-requisite calls receive the callee's defaults overlaid with the
// arguments the call declares.
func Build(ns *namespace.Namespace, requested []parser.ParsedTask, opts Options) ([]Invocation, error) {
	var expanded []Invocation
	for _, pt := range requested {
		out, err := expand(ns, Invocation{Name: pt.Name, Task: pt.Task, Args: pt.Args, Requested: true}, 0)
		if err != nil {
			return nil, err
		}
		expanded = append(expanded, out...)
	}
	if !opts.Dedupe {
		return expanded, nil
	}

	seen := make(map[string]bool, len(expanded))
	result := make([]Invocation, 0, len(expanded))
	for _, inv := range expanded {
		key := inv.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, inv)
	}
	return result, nil
}

// maxDepth bounds pre-requisite expansion.
const maxDepth = 256

func expand(ns *namespace.Namespace, inv Invocation, depth int) ([]Invocation, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("pre-requisites of '%s' nest deeper than %d levels", inv.Name, maxDepth)
	}
	var out []Invocation
	for _, call := range ns.DependenciesOf(inv.Task) {
		name, ok := ns.PathOf(call.Task)
		if !ok {
			return nil, fmt.Errorf("pre-requisite '%s' of '%s' is not in the namespace", call.Task.Name(), inv.Name)
		}
		args := call.Task.Defaults()
		for k, v := range call.Args {
			args[k] = v
		}
		pre, err := expand(ns, Invocation{Name: name, Task: call.Task, Args: args}, depth+1)
		if err != nil {
			return nil, err
		}
		out = append(out, pre...)
	}
	return append(out, inv), nil
}

// Key identifies an invocation for deduplication: the task's dotted name
// and its argument values in name order.
func (inv Invocation) Key() string {
	names := make([]string, 0, len(inv.Args))
	for k := range inv.Args {
		names = append(names, k)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(inv.Name)
	for _, k := range names {
		fmt.Fprintf(&b, "\x00%s=%s", k, keyValue(inv.Args[k]))
	}
	return b.String()
}

// keyValue encodes an argument value so that distinct values never share
// an encoding.
func keyValue(v any) string {
	switch v := v.(type) {
	case string:
		return fmt.Sprintf("string:%q", v)
	case []string:
		parts := make([]string, len(v))
		for i, s := range v {
			parts[i] = strconv.Quote(s)
		}
		return "[]string:[" + strings.Join(parts, ",") + "]"
	default:
		return fmt.Sprintf("%T:%v", v, v)
	}
}

// String renders the invocation the way it could be typed.
func (inv Invocation) String() string {
	if len(inv.Args) == 0 {
		return inv.Name
	}
	names := make([]string, 0, len(inv.Args))
	for k := range inv.Args {
		names = append(names, k)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, k := range names {
		parts = append(parts, fmt.Sprintf("%s=%v", k, inv.Args[k]))
	}
	return inv.Name + "(" + strings.Join(parts, ", ") + ")"
}
