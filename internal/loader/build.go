// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"math"
	"math/big"
	"slices"

	"github.com/invoke-go/invoke/internal/dag"
	"github.com/invoke-go/invoke/internal/runner"
	"github.com/invoke-go/invoke/pkg/namespace"
)

// declared is a task definition together with its dotted path relative to
// the file root.
type declared struct {
	path string
	def  *fileTask
}

// build turns a decoded file into a collection named name.
func build(path, name string, f *collectionFile) (*namespace.Collection, error) {
	byPath := make(map[string]declared)
	var order []string
	if err := collect(f.Tasks, f.Collections, "", byPath, &order); err != nil {
		return nil, &InvalidCollectionError{Path: path, Reason: err.Error()}
	}

	graph := dag.New()
	for _, p := range order {
		graph.AddTask(p)
		for _, call := range byPath[p].def.Pre {
			if _, ok := byPath[call.Task]; !ok {
				return nil, &InvalidCollectionError{
					Path:   path,
					Reason: fmt.Sprintf("task '%s' depends on unknown task '%s'", p, call.Task),
				}
			}
			graph.AddPre(p, call.Task)
		}
	}
	sorted, err := graph.Order()
	if err != nil {
		return nil, &InvalidCollectionError{Path: path, Reason: "invalid pre-requisites", Cause: err}
	}

	tasks := make(map[string]*namespace.Task, len(sorted))
	for _, p := range sorted {
		t, err := newTask(byPath[p].def, tasks)
		if err != nil {
			return nil, &InvalidCollectionError{Path: path, Reason: fmt.Sprintf("task '%s'", p), Cause: err}
		}
		tasks[p] = t
	}

	root := namespace.NewCollection(name)
	if err := assemble(root, "", f.Tasks, f.Collections, f.Default, tasks); err != nil {
		return nil, &InvalidCollectionError{Path: path, Reason: "invalid collection tree", Cause: err}
	}
	return root, nil
}

// collect indexes every task by dotted path, keeping declaration order.
func collect(tasks []fileTask, groups []fileGroup, prefix string, byPath map[string]declared, order *[]string) error {
	for i := range tasks {
		p := joinPath(prefix, tasks[i].Name)
		if _, dup := byPath[p]; dup {
			return fmt.Errorf("task '%s' is declared twice", p)
		}
		byPath[p] = declared{path: p, def: &tasks[i]}
		*order = append(*order, p)
	}
	for i := range groups {
		if groups[i].Name == "" {
			return errors.New("nested collections must be named")
		}
		if err := collect(groups[i].Tasks, groups[i].Collections, joinPath(prefix, groups[i].Name), byPath, order); err != nil {
			return err
		}
	}
	return nil
}

func assemble(c *namespace.Collection, prefix string, tasks []fileTask, groups []fileGroup, def string, built map[string]*namespace.Task) error {
	for _, ft := range tasks {
		if err := c.AddTask(built[joinPath(prefix, ft.Name)]); err != nil {
			return err
		}
	}
	for _, g := range groups {
		sub := namespace.NewCollection(g.Name, namespace.CollectionAliases(g.Aliases...))
		if err := assemble(sub, joinPath(prefix, g.Name), g.Tasks, g.Collections, g.Default, built); err != nil {
			return err
		}
		if err := c.AddCollection(sub); err != nil {
			return err
		}
	}
	if def != "" {
		return c.SetDefault(def)
	}
	return nil
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// newTask constructs a task whose pre-requisites are already in built.
func newTask(def *fileTask, built map[string]*namespace.Task) (*namespace.Task, error) {
	args := make([]namespace.Argument, 0, len(def.Args))
	for _, fa := range def.Args {
		arg, err := toArgument(fa)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	opts := []namespace.TaskOption{namespace.WithArgs(args...), namespace.WithDoc(def.Help)}
	if len(def.Aliases) > 0 {
		opts = append(opts, namespace.WithAliases(def.Aliases...))
	}
	if def.Default {
		opts = append(opts, namespace.AsDefault())
	}
	if def.Positional != nil {
		opts = append(opts, namespace.WithPositional(def.Positional...))
	}

	calls := make([]namespace.Call, 0, len(def.Pre))
	for _, fc := range def.Pre {
		call, err := toCall(fc, built[fc.Task])
		if err != nil {
			return nil, err
		}
		calls = append(calls, call)
	}
	if len(calls) > 0 {
		opts = append(opts, namespace.WithPreCalls(calls...))
	}
	if def.AutoShort != nil && !*def.AutoShort {
		opts = append(opts, namespace.WithoutShortFlags())
	}

	runOpts, err := runOptions(def)
	if err != nil {
		return nil, err
	}
	return namespace.NewTask(def.Name, runBody(def.Run, runOpts...), opts...)
}

// runOptions converts the task's overrides of the run settings.
func runOptions(def *fileTask) ([]runner.RunOption, error) {
	var opts []runner.RunOption
	if def.Echo != nil {
		opts = append(opts, runner.WithEcho(*def.Echo))
	}
	if def.Warn != nil {
		opts = append(opts, runner.WithWarn(*def.Warn))
	}
	if def.Pty != nil {
		opts = append(opts, runner.WithPty(*def.Pty))
	}
	if def.Hide != "" {
		mode, err := runner.ParseHide(def.Hide)
		if err != nil {
			return nil, fmt.Errorf("task '%s': %w", def.Name, err)
		}
		opts = append(opts, runner.WithHide(mode))
	}
	if len(def.Env) > 0 {
		opts = append(opts, runner.WithEnv(maps.Clone(def.Env)))
	}
	return opts, nil
}

// runBody returns a body running each command in order, or nil for tasks
// that only aggregate pre-requisites. opts apply to every command when the
// body runs under a *runner.Context.
func runBody(commands []string, opts ...runner.RunOption) namespace.Body {
	if len(commands) == 0 {
		return nil
	}
	commands = slices.Clone(commands)
	return func(c namespace.Context, _ namespace.Values) error {
		for _, command := range commands {
			ctx := contextOf(c)
			if err := ctx.Err(); err != nil {
				return err
			}
			if rc, ok := c.(*runner.Context); ok {
				if _, err := rc.Exec(ctx, command, opts...); err != nil {
					return err
				}
				continue
			}
			if _, err := c.Run(command); err != nil {
				return err
			}
		}
		return nil
	}
}

// contextOf returns the cancellation context carried by c, if any.
func contextOf(c namespace.Context) context.Context {
	if cc, ok := c.(interface{ Context() context.Context }); ok && cc.Context() != nil {
		return cc.Context()
	}
	return context.Background()
}

func toArgument(fa fileArg) (namespace.Argument, error) {
	arg := namespace.Argument{
		Name:       fa.Name,
		Help:       fa.Help,
		Positional: fa.Positional,
		Optional:   fa.Optional,
		Aliases:    fa.Aliases,
	}
	switch fa.Type {
	case "", "string":
		arg.Kind = namespace.KindString
	case "bool":
		arg.Kind = namespace.KindBool
	case "int":
		arg.Kind = namespace.KindInt
	case "list":
		arg.Kind = namespace.KindString
		arg.Iterable = true
	default:
		return arg, fmt.Errorf("argument '%s': unknown type '%s' (valid: string, bool, int, list)", fa.Name, fa.Type)
	}
	if fa.Short != "" {
		r := []rune(fa.Short)
		if len(r) != 1 {
			return arg, fmt.Errorf("argument '%s': short flag '%s' must be a single character", fa.Name, fa.Short)
		}
		arg.Short = r[0]
	}
	if fa.Default != nil {
		v, err := coerce(&arg, fa.Default)
		if err != nil {
			return arg, fmt.Errorf("argument '%s': default: %w", fa.Name, err)
		}
		arg.Default = v
	}
	return arg, nil
}

func toCall(fc fileCall, target *namespace.Task) (namespace.Call, error) {
	call := namespace.Call{Task: target}
	if len(fc.Args) == 0 {
		return call, nil
	}
	declared := target.Args()
	call.Args = make(namespace.Values, len(fc.Args))
	for name, raw := range fc.Args {
		idx := slices.IndexFunc(declared, func(a namespace.Argument) bool {
			return namespace.NormalizeFlagName(a.Name) == namespace.NormalizeFlagName(name)
		})
		if idx < 0 {
			return call, fmt.Errorf("pre-requisite '%s' has no argument '%s'", fc.Task, name)
		}
		v, err := coerce(&declared[idx], raw)
		if err != nil {
			return call, fmt.Errorf("pre-requisite '%s' argument '%s': %w", fc.Task, name, err)
		}
		call.Args[declared[idx].Name] = v
	}
	return call, nil
}

// coerce converts a decoded scalar or list to the Go type arg expects. The
// decoders disagree on number types, so every integer form is accepted.
func coerce(arg *namespace.Argument, v any) (any, error) {
	if arg.Iterable {
		switch x := v.(type) {
		case []string:
			return slices.Clone(x), nil
		case []any:
			out := make([]string, len(x))
			for i, e := range x {
				out[i] = fmt.Sprint(e)
			}
			return out, nil
		case string:
			return []string{x}, nil
		}
		return nil, fmt.Errorf("expected a list, got %T", v)
	}

	switch arg.Kind {
	case namespace.KindBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
		return nil, fmt.Errorf("expected a boolean, got %T", v)
	case namespace.KindInt:
		if n, ok := toInt(v); ok {
			return n, nil
		}
		return nil, fmt.Errorf("expected an integer, got %v", v)
	default:
		switch x := v.(type) {
		case string:
			return x, nil
		case bool, int, int64, uint64, float64, json.Number:
			return fmt.Sprint(x), nil
		case *big.Int:
			return x.String(), nil
		}
		return nil, fmt.Errorf("expected a string, got %T", v)
	}
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		if n == math.Trunc(n) {
			return int(n), true
		}
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	case *big.Int:
		if n.IsInt64() {
			return int(n.Int64()), true
		}
	}
	return 0, false
}
