// SPDX-License-Identifier: MPL-2.0

package namespace

import (
	"io"
	"slices"
	"strings"
)

type (
	// Context is the execution context handed to every task body. It is
	// created once per dispatch and threaded explicitly; task bodies never
	// reach for process-wide state.
	Context interface {
		// Run executes a shell command and returns its captured stdout.
		Run(command string) (string, error)
		// Stdout is where task output is written.
		Stdout() io.Writer
		// Stderr is where task diagnostics are written.
		Stderr() io.Writer
	}

	// Body is the opaque callable behind a task. All declared arguments have
	// concrete values by the time it is called.
	Body func(c Context, args Values) error

	// Call is a reference to a task with optional argument overrides, used
	// to declare pre-requisites.
	Call struct {
		Task *Task
		Args Values
	}

	// Task is a named, parameterized unit of work. Tasks are immutable once
	// constructed and belong to exactly one collection.
	Task struct {
		name           string
		body           Body
		args           []Argument
		flags          []Flag
		pre            []Call
		doc            string
		aliases        []string
		isDefault      bool
		explicitPos    bool
		positionalArgs []string
		autoShort      bool
		attached       bool
	}

	// TaskOption configures a Task at construction time.
	TaskOption func(*Task)
)

// WithArgs declares the task's arguments in order.
func WithArgs(args ...Argument) TaskOption {
	return func(t *Task) { t.args = append(t.args, args...) }
}

// WithPre declares pre-requisite tasks that run before this one with their defaults.
func WithPre(tasks ...*Task) TaskOption {
	return func(t *Task) {
		for _, p := range tasks {
			t.pre = append(t.pre, Call{Task: p})
		}
	}
}

// WithPreCalls declares parameterized pre-requisites.
func WithPreCalls(calls ...Call) TaskOption {
	return func(t *Task) { t.pre = append(t.pre, calls...) }
}

// WithDoc sets the task docstring.
func WithDoc(doc string) TaskOption {
	return func(t *Task) { t.doc = doc }
}

// WithAliases adds alternative names for the task within its collection.
func WithAliases(aliases ...string) TaskOption {
	return func(t *Task) { t.aliases = append(t.aliases, aliases...) }
}

// AsDefault marks the task as the default of its enclosing collection.
func AsDefault() TaskOption {
	return func(t *Task) { t.isDefault = true }
}

// WithPositional declares the positional arguments explicitly, in input
// order. Calling it with no names disables positional arguments.
func WithPositional(names ...string) TaskOption {
	return func(t *Task) {
		t.explicitPos = true
		t.positionalArgs = append([]string(nil), names...)
	}
}

// WithoutShortFlags disables automatic short flag derivation.
func WithoutShortFlags() TaskOption {
	return func(t *Task) { t.autoShort = false }
}

// NewTask creates a Task and validates its argument declarations.
func NewTask(name string, body Body, opts ...TaskOption) (*Task, error) {
	if name == "" {
		return nil, configErrorf("", "task name must not be empty")
	}
	if strings.Contains(name, ".") {
		return nil, configErrorf("", "task name '%s' must not contain dots", name)
	}
	t := &Task{name: name, body: body, autoShort: true}
	for _, opt := range opts {
		opt(t)
	}

	if t.explicitPos {
		for _, p := range t.positionalArgs {
			idx := t.argIndex(p)
			if idx < 0 {
				return nil, configErrorf("", "task '%s': positional argument '%s' is not declared", name, p)
			}
			t.args[idx].Positional = true
		}
	} else {
		for i := range t.args {
			a := &t.args[i]
			if a.Positional {
				t.explicitPos = true
			}
		}
		if !t.explicitPos {
			for i := range t.args {
				a := &t.args[i]
				if a.TakesValue() && a.Default == nil && !a.Optional && !a.Iterable {
					a.Positional = true
					t.positionalArgs = append(t.positionalArgs, a.Name)
				}
			}
		} else {
			for _, a := range t.args {
				if a.Positional {
					t.positionalArgs = append(t.positionalArgs, a.Name)
				}
			}
		}
	}

	for i := range t.args {
		a := &t.args[i]
		if a.Kind == KindBool && a.Default != nil {
			if _, ok := a.Default.(bool); !ok {
				return nil, configErrorf("", "task '%s': boolean argument '%s' needs a boolean default", name, a.Name)
			}
		}
	}

	flags, err := DeriveFlags(t.args, t.autoShort)
	if err != nil {
		if ce, ok := err.(*ConfigurationError); ok {
			ce.Reason = "task '" + name + "': " + ce.Reason
		}
		return nil, err
	}
	t.flags = flags

	for _, alias := range t.aliases {
		if alias == "" || strings.Contains(alias, ".") {
			return nil, configErrorf("", "task '%s': invalid alias '%s'", name, alias)
		}
	}
	return t, nil
}

func (t *Task) argIndex(name string) int {
	norm := NormalizeFlagName(name)
	for i := range t.args {
		if NormalizeFlagName(t.args[i].Name) == norm {
			return i
		}
	}
	return -1
}

// Name returns the task's local name.
func (t *Task) Name() string { return t.name }

// Body returns the task body (may be nil for tasks that only aggregate pre-requisites).
func (t *Task) Body() Body { return t.body }

// Doc returns the raw docstring.
func (t *Task) Doc() string { return t.doc }

// Aliases returns a copy of the declared aliases.
func (t *Task) Aliases() []string { return slices.Clone(t.aliases) }

// IsDefault reports whether the task is the default of its collection.
func (t *Task) IsDefault() bool { return t.isDefault }

// Args returns a copy of the argument declarations.
func (t *Task) Args() []Argument { return slices.Clone(t.args) }

// Flags returns the resolved flag spellings, parallel to Args.
func (t *Task) Flags() []Flag { return slices.Clone(t.flags) }

// Positional returns the names of positional arguments in input order.
func (t *Task) Positional() []string { return slices.Clone(t.positionalArgs) }

// Pre returns the declared pre-requisites verbatim.
func (t *Task) Pre() []Call { return slices.Clone(t.pre) }

// Defaults returns the value of every argument when nothing is given.
func (t *Task) Defaults() Values {
	vals := make(Values, len(t.args))
	for i := range t.args {
		vals[t.args[i].Name] = t.args[i].DefaultValue()
	}
	return vals
}

// Summary returns the first non-blank docstring line.
func (t *Task) Summary() string {
	for _, line := range strings.Split(t.doc, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			return s
		}
	}
	return ""
}
