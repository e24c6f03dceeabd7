// SPDX-License-Identifier: MPL-2.0

package parser

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/invoke-go/invoke/pkg/namespace"
)

func testTask(t *testing.T, name string, opts ...namespace.TaskOption) *namespace.Task {
	t.Helper()
	task, err := namespace.NewTask(name, nil, opts...)
	if err != nil {
		t.Fatalf("NewTask(%q): %v", name, err)
	}
	return task
}

// testNamespace builds the collection most parsing tests run against.
func testNamespace(t *testing.T) *namespace.Namespace {
	t.Helper()
	root := namespace.NewCollection("")
	tasks := []*namespace.Task{
		testTask(t, "mytask",
			namespace.WithPositional(),
			namespace.WithArgs(
				namespace.Argument{Name: "mystring"},
				namespace.Argument{Name: "s"},
				namespace.Argument{Name: "boolean", Kind: namespace.KindBool},
				namespace.Argument{Name: "b", Kind: namespace.KindBool},
				namespace.Argument{Name: "v", Kind: namespace.KindBool},
				namespace.Argument{Name: "long_name", Kind: namespace.KindBool},
				namespace.Argument{Name: "true_bool", Kind: namespace.KindBool, Default: true},
				namespace.Argument{Name: "count", Kind: namespace.KindInt, Default: 1},
			),
		),
		testTask(t, "mytask2", namespace.WithAliases("mytask27")),
		testTask(t, "mytask3", namespace.WithArgs(namespace.Argument{Name: "mystring"})),
		testTask(t, "mytask4", namespace.WithArgs(
			namespace.Argument{Name: "clean", Kind: namespace.KindBool},
			namespace.Argument{Name: "browse", Kind: namespace.KindBool},
		)),
		testTask(t, "punch", namespace.WithArgs(namespace.Argument{Name: "who"}, namespace.Argument{Name: "why"})),
	}
	for _, task := range tasks {
		if err := root.AddTask(task); err != nil {
			t.Fatal(err)
		}
	}
	sub := namespace.NewCollection("sub")
	if err := sub.AddTask(testTask(t, "subtask", namespace.WithAliases("other"), namespace.AsDefault())); err != nil {
		t.Fatal(err)
	}
	if err := root.AddCollection(sub); err != nil {
		t.Fatal(err)
	}
	ns, err := namespace.Build(root)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return ns
}

func parseLine(t *testing.T, ns *namespace.Namespace, line string) (Result, error) {
	t.Helper()
	return Parse(ns, append([]string{"invoke"}, strings.Fields(line)...))
}

func mustParse(t *testing.T, ns *namespace.Namespace, line string) Result {
	t.Helper()
	res, err := parseLine(t, ns, line)
	if err != nil {
		t.Fatalf("Parse(%q): %v", line, err)
	}
	return res
}

func TestParse_FlagSpellings(t *testing.T) {
	t.Parallel()
	ns := testNamespace(t)

	tests := []struct {
		line string
		arg  string
		want any
	}{
		{"mytask --boolean", "boolean", true},
		{"mytask -b", "b", true},
		{"mytask --mystring foo", "mystring", "foo"},
		{"mytask --mystring=foo", "mystring", "foo"},
		{"mytask -m foo", "mystring", "foo"},
		{"mytask -m=foo", "mystring", "foo"},
		{"mytask -mfoo", "mystring", "foo"},
		{"mytask -s value", "s", "value"},
		{"mytask -s=value", "s", "value"},
		{"mytask -svalue", "s", "value"},
		{"mytask --long-name", "long_name", true},
		{"mytask --long_name", "long_name", true},
		{"mytask --true-bool", "true_bool", true},
		{"mytask --no-true-bool", "true_bool", false},
		{"mytask --count=3", "count", 3},
		{"mytask -c 7", "count", 7},
		{"mytask -bmfoo", "mystring", "foo"},
		{"mytask3 foo", "mystring", "foo"},
		{"mytask3 --mystring foo", "mystring", "foo"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			t.Parallel()
			res := mustParse(t, ns, tt.line)
			if len(res.Tasks) != 1 {
				t.Fatalf("got %d tasks, want 1", len(res.Tasks))
			}
			if got := res.Tasks[0].Args[tt.arg]; got != tt.want {
				t.Errorf("%s = %#v, want %#v", tt.arg, got, tt.want)
			}
		})
	}
}

func TestParse_DefaultsApplied(t *testing.T) {
	t.Parallel()
	res := mustParse(t, testNamespace(t), "mytask")
	args := res.Tasks[0].Args
	if args.String("mystring") != "" || args.Bool("boolean") || !args.Bool("true_bool") || args.Int("count") != 1 {
		t.Errorf("unexpected defaults: %v", args)
	}
}

func TestParse_BundledBooleans(t *testing.T) {
	t.Parallel()
	ns := testNamespace(t)
	for _, line := range []string{"mytask -bv", "mytask -vb", "mytask4 -cb", "mytask4 -bc"} {
		res := mustParse(t, ns, line)
		args := res.Tasks[0].Args
		switch res.Tasks[0].Name {
		case "mytask":
			if !args.Bool("b") || !args.Bool("v") {
				t.Errorf("%q: b=%v v=%v, want both true", line, args["b"], args["v"])
			}
		case "mytask4":
			if !args.Bool("clean") || !args.Bool("browse") {
				t.Errorf("%q: clean=%v browse=%v, want both true", line, args["clean"], args["browse"])
			}
		}
	}
}

func TestParse_ValueSlotConsumesTaskName(t *testing.T) {
	t.Parallel()
	res := mustParse(t, testNamespace(t), "mytask -s mytask2 mytask2")
	if got := taskNames(res); !slices.Equal(got, []string{"mytask", "mytask2"}) {
		t.Fatalf("tasks = %v", got)
	}
	if res.Tasks[0].Args.String("s") != "mytask2" {
		t.Errorf("s = %q, want mytask2", res.Tasks[0].Args.String("s"))
	}
}

func TestParse_TaskSequence(t *testing.T) {
	t.Parallel()
	ns := testNamespace(t)

	tests := []struct {
		line  string
		names []string
	}{
		{"mytask mytask2", []string{"mytask", "mytask2"}},
		{"mytask27 sub", []string{"mytask2", "sub.subtask"}},
		{"sub.other mytask2 mytask2", []string{"sub.subtask", "mytask2", "mytask2"}},
		{"mytask3 foo mytask3 bar", []string{"mytask3", "mytask3"}},
		{"mytask mytask2 mytask4", []string{"mytask", "mytask2", "mytask4"}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			t.Parallel()
			if got := taskNames(mustParse(t, ns, tt.line)); !slices.Equal(got, tt.names) {
				t.Errorf("tasks = %v, want %v", got, tt.names)
			}
		})
	}
}

func TestParse_ValuesDoNotLeak(t *testing.T) {
	t.Parallel()
	res := mustParse(t, testNamespace(t), "mytask -b --mystring one mytask")
	if !res.Tasks[0].Args.Bool("b") || res.Tasks[0].Args.String("mystring") != "one" {
		t.Errorf("first block = %v", res.Tasks[0].Args)
	}
	if res.Tasks[1].Args.Bool("b") || res.Tasks[1].Args.String("mystring") != "" {
		t.Errorf("second block picked up values: %v", res.Tasks[1].Args)
	}
}

func TestParse_SameFlagInSeveralBlocks(t *testing.T) {
	t.Parallel()
	res := mustParse(t, testNamespace(t), "mytask3 --mystring foo mytask3 --mystring bar")
	if len(res.Tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(res.Tasks))
	}
	if got := res.Tasks[0].Args.String("mystring"); got != "foo" {
		t.Errorf("first mystring = %q", got)
	}
	if got := res.Tasks[1].Args.String("mystring"); got != "bar" {
		t.Errorf("second mystring = %q", got)
	}
}

func TestParse_ImplicitPositionals(t *testing.T) {
	t.Parallel()
	res := mustParse(t, testNamespace(t), "punch bob because")
	args := res.Tasks[0].Args
	if args.String("who") != "bob" || args.String("why") != "because" {
		t.Errorf("punch args = %v", args)
	}
}

func TestParse_Remainder(t *testing.T) {
	t.Parallel()
	res := mustParse(t, testNamespace(t), "mytask -b -- ls -la /tmp")
	if res.Remainder != "ls -la /tmp" {
		t.Errorf("remainder = %q", res.Remainder)
	}
	if got := taskNames(res); !slices.Equal(got, []string{"mytask"}) {
		t.Errorf("tasks = %v", got)
	}
}

func TestParse_CoreOptions(t *testing.T) {
	t.Parallel()
	ns := testNamespace(t)

	res := mustParse(t, ns, "--no-dedupe -c one -c two -r /tmp -d -e -p -w -H both mytask")
	core := res.Core
	if !slices.Equal(core.Collections, []string{"one", "two"}) {
		t.Errorf("collections = %v", core.Collections)
	}
	if core.Root != "/tmp" || core.Hide != "both" {
		t.Errorf("root=%q hide=%q", core.Root, core.Hide)
	}
	if core.Dedupe() || !core.Debug || !core.Echo || !core.Pty || !core.WarnOnly {
		t.Errorf("unexpected booleans: %+v", core)
	}
	if got := taskNames(res); !slices.Equal(got, []string{"mytask"}) {
		t.Errorf("tasks = %v", got)
	}
}

func TestParse_Help(t *testing.T) {
	t.Parallel()
	ns := testNamespace(t)

	tests := []struct {
		line     string
		help     bool
		helpTask string
		list     bool
	}{
		{"--help", true, "", false},
		{"-h", true, "", false},
		{"-h mytask", true, "mytask", false},
		{"--help=mytask", true, "mytask", false},
		{"--help=", true, "", false},
		{"mytask", false, "", false},
		{"-h -l", true, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			t.Parallel()
			core := mustParse(t, ns, tt.line).Core
			if core.Help != tt.help || core.HelpTask != tt.helpTask || core.List != tt.list {
				t.Errorf("got help=%v task=%q list=%v", core.Help, core.HelpTask, core.List)
			}
		})
	}

	t.Run("task block help", func(t *testing.T) {
		t.Parallel()
		res := mustParse(t, ns, "mytask3 --help")
		if len(res.Tasks) != 1 || !res.Tasks[0].Help {
			t.Errorf("expected help on the mytask3 block, got %+v", res.Tasks)
		}
	})
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()
	ns := testNamespace(t)

	tests := []struct {
		line string
		want error
	}{
		{"--nope", ErrUnknownOption},
		{"mytask --nope", ErrUnknownOption},
		{"mytask --no-boolean", ErrUnknownOption},
		{"mytask -zb", ErrUnknownOption},
		{"mytask -bz", ErrAmbiguousBundle},
		{"nope", namespace.ErrNameResolution},
		{"mytask nope", namespace.ErrNameResolution},
		{"mytask3", ErrMissingArgument},
		{"punch bob", ErrMissingArgument},
		{"mytask -m", ErrMissingArgument},
		{"-c", ErrMissingArgument},
		{"mytask --count=x", ErrInvalidValue},
		{"mytask --boolean=maybe", ErrInvalidValue},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			t.Parallel()
			_, err := parseLine(t, ns, tt.line)
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse(%q) error = %v, want %v", tt.line, err, tt.want)
			}
		})
	}
}

func TestParseArgs_ReportsConsumed(t *testing.T) {
	t.Parallel()
	task := testTask(t, "deploy", namespace.WithArgs(
		namespace.Argument{Name: "env"},
		namespace.Argument{Name: "force", Kind: namespace.KindBool},
	))
	vals, n, err := ParseArgs(task, "deploy", []string{"prod", "--force", "next"})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if n != 2 {
		t.Errorf("consumed %d tokens, want 2", n)
	}
	if vals.String("env") != "prod" || !vals.Bool("force") {
		t.Errorf("values = %v", vals)
	}
}

func TestParseArgs_MissingArgumentNamesTask(t *testing.T) {
	t.Parallel()
	task := testTask(t, "deploy", namespace.WithArgs(namespace.Argument{Name: "env"}))
	_, _, err := ParseArgs(task, "ops.deploy", nil)
	var missing *MissingArgumentError
	if !errors.As(err, &missing) {
		t.Fatalf("expected *MissingArgumentError, got %v", err)
	}
	if missing.Task != "ops.deploy" || missing.Argument != "env" {
		t.Errorf("got %+v", missing)
	}
}

func taskNames(res Result) []string {
	out := make([]string, len(res.Tasks))
	for i, pt := range res.Tasks {
		out[i] = pt.Name
	}
	return out
}
