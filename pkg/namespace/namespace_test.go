// SPDX-License-Identifier: MPL-2.0

package namespace

import (
	"errors"
	"slices"
	"testing"
)

func mustTask(t *testing.T, name string, opts ...TaskOption) *Task {
	t.Helper()
	task, err := NewTask(name, nil, opts...)
	if err != nil {
		t.Fatalf("NewTask(%q): %v", name, err)
	}
	return task
}

func mustAdd(t *testing.T, c *Collection, children ...any) {
	t.Helper()
	for _, child := range children {
		var err error
		switch v := child.(type) {
		case *Task:
			err = c.AddTask(v)
		case *Collection:
			err = c.AddCollection(v)
		default:
			t.Fatalf("unexpected child type %T", child)
		}
		if err != nil {
			t.Fatalf("add to %q: %v", c.Name(), err)
		}
	}
}

func mustBuild(t *testing.T, root *Collection) *Namespace {
	t.Helper()
	ns, err := Build(root)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return ns
}

// parsingNamespace mirrors the collection used by the CLI parsing tests.
func parsingNamespace(t *testing.T) *Namespace {
	t.Helper()
	root := NewCollection("")
	mustAdd(t, root,
		mustTask(t, "mytask2", WithAliases("mytask27")),
		mustTask(t, "mytask3", WithArgs(Argument{Name: "mystring"})),
	)
	sub := NewCollection("sub")
	mustAdd(t, sub, mustTask(t, "subtask", WithAliases("other"), AsDefault()))
	mustAdd(t, root, sub)
	return mustBuild(t, root)
}

func TestLookup(t *testing.T) {
	t.Parallel()
	ns := parsingNamespace(t)

	tests := []struct {
		given string
		want  string
	}{
		{"mytask2", "mytask2"},
		{"mytask27", "mytask2"},
		{"sub.subtask", "sub.subtask"},
		{"sub.other", "sub.subtask"},
		{"sub", "sub.subtask"},
	}
	for _, tt := range tests {
		t.Run(tt.given, func(t *testing.T) {
			t.Parallel()
			r, err := ns.Lookup(tt.given)
			if err != nil {
				t.Fatalf("Lookup(%q): %v", tt.given, err)
			}
			if r.Path != tt.want {
				t.Errorf("Lookup(%q) = %q, want %q", tt.given, r.Path, tt.want)
			}
		})
	}
}

func TestResolve_AliasMatchesRealName(t *testing.T) {
	t.Parallel()
	ns := parsingNamespace(t)

	for _, pair := range [][2]string{{"mytask27", "mytask2"}, {"sub.other", "sub.subtask"}} {
		byAlias, err := ns.Resolve(pair[0])
		if err != nil {
			t.Fatalf("Resolve(%q): %v", pair[0], err)
		}
		byName, err := ns.Resolve(pair[1])
		if err != nil {
			t.Fatalf("Resolve(%q): %v", pair[1], err)
		}
		if byAlias != byName {
			t.Errorf("alias %q and name %q resolved to different tasks", pair[0], pair[1])
		}
	}
}

func TestResolve_AddedAlias(t *testing.T) {
	t.Parallel()
	root := NewCollection("")
	build := mustTask(t, "build")
	mustAdd(t, root, build)
	if err := root.AddAlias("b", "build"); err != nil {
		t.Fatalf("AddAlias: %v", err)
	}
	if err := root.AddAlias("b", "build"); !errors.Is(err, ErrConfiguration) {
		t.Errorf("second AddAlias = %v, want ErrConfiguration", err)
	}
	ns, err := Build(root)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	got, err := ns.Resolve("b")
	if err != nil || got != build {
		t.Errorf("Resolve(b) = %v, %v; want the build task", got, err)
	}
}

func TestResolve_NestedDefaults(t *testing.T) {
	t.Parallel()
	root := NewCollection("")
	outer := NewCollection("outer")
	inner := NewCollection("inner", DefaultCollection())
	mustAdd(t, inner, mustTask(t, "leaf", AsDefault()))
	mustAdd(t, outer, inner)
	mustAdd(t, root, outer)
	ns := mustBuild(t, root)

	for _, path := range []string{"outer", "outer.inner", "outer.inner.leaf"} {
		r, err := ns.Lookup(path)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", path, err)
		}
		if r.Path != "outer.inner.leaf" {
			t.Errorf("Lookup(%q) = %q, want outer.inner.leaf", path, r.Path)
		}
	}
}

func TestResolve_Failures(t *testing.T) {
	t.Parallel()
	root := NewCollection("")
	mustAdd(t, root, mustTask(t, "build"))
	nodefault := NewCollection("docs")
	mustAdd(t, nodefault, mustTask(t, "html"))
	mustAdd(t, root, nodefault)
	ns := mustBuild(t, root)

	for _, path := range []string{"nope", "docs", "build.more", "docs.pdf", ""} {
		_, err := ns.Resolve(path)
		if !errors.Is(err, ErrNameResolution) {
			t.Errorf("Resolve(%q) error = %v, want ErrNameResolution", path, err)
		}
		var nre *NameResolutionError
		if !errors.As(err, &nre) || nre.Path != path {
			t.Errorf("Resolve(%q) error = %#v, want NameResolutionError for the path", path, err)
		}
	}
}

func TestListEntries_Ordering(t *testing.T) {
	t.Parallel()

	t.Run("depth order", func(t *testing.T) {
		t.Parallel()
		root := NewCollection("")
		a := NewCollection("a")
		nother := NewCollection("nother")
		mustAdd(t, nother, mustTask(t, "subtask"))
		mustAdd(t, a, mustTask(t, "subtask"), nother)
		mustAdd(t, root, mustTask(t, "toplevel"), a)

		got := names(mustBuild(t, root).ListEntries())
		want := []string{"toplevel", "a.subtask", "a.nother.subtask"}
		if !slices.Equal(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("top level first", func(t *testing.T) {
		t.Parallel()
		root := NewCollection("")
		a := NewCollection("a")
		mustAdd(t, a, mustTask(t, "subtask"))
		mustAdd(t, root, a, mustTask(t, "z_toplevel"))

		got := names(mustBuild(t, root).ListEntries())
		want := []string{"z_toplevel", "a.subtask"}
		if !slices.Equal(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})
}

func TestListEntries_Aliases(t *testing.T) {
	t.Parallel()
	root := NewCollection("")
	mustAdd(t, root, mustTask(t, "top_level", WithAliases("othertop")))
	sub := NewCollection("sub")
	mustAdd(t, sub, mustTask(t, "sub_task", WithAliases("othersub"), AsDefault()))
	mustAdd(t, root, sub)
	mustAdd(t, root, mustTask(t, "toplevel", WithAliases("z", "a")))

	entries := mustBuild(t, root).ListEntries()
	want := map[string][]string{
		"top_level":    {"othertop"},
		"toplevel":     {"a", "z"},
		"sub.sub_task": {"sub", "sub.othersub"},
	}
	for _, e := range entries {
		if !slices.Equal(e.Aliases, want[e.Name]) {
			t.Errorf("%s aliases = %v, want %v", e.Name, e.Aliases, want[e.Name])
		}
	}
}

func TestListEntries_Summary(t *testing.T) {
	t.Parallel()
	root := NewCollection("")
	mustAdd(t, root,
		mustTask(t, "leading_whitespace", WithDoc("\n    foo\n    ")),
		mustTask(t, "two_lines", WithDoc("foo\nbar\n")),
		mustTask(t, "no_docstring"),
	)
	got := map[string]string{}
	for _, e := range mustBuild(t, root).ListEntries() {
		got[e.Name] = e.Summary
	}
	if got["leading_whitespace"] != "foo" || got["two_lines"] != "foo" || got["no_docstring"] != "" {
		t.Errorf("unexpected summaries: %v", got)
	}
}

func TestDependenciesOf_Verbatim(t *testing.T) {
	t.Parallel()
	clean := mustTask(t, "clean")
	foo := mustTask(t, "foo", WithPre(clean))
	bar := mustTask(t, "bar", WithPre(foo))
	root := NewCollection("")
	mustAdd(t, root, clean, foo, bar)
	ns := mustBuild(t, root)

	deps := ns.DependenciesOf(bar)
	if len(deps) != 1 || deps[0].Task != foo {
		t.Errorf("DependenciesOf(bar) = %v, want only foo", deps)
	}
}

func names(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}
