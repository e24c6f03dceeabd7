// SPDX-License-Identifier: MPL-2.0

package namespace

import (
	"errors"
	"slices"
	"sort"
	"strings"

	"github.com/invoke-go/invoke/internal/dag"
)

type (
	// Namespace is a frozen collection tree with every task indexed by its
	// real dotted path.
	Namespace struct {
		root  *Collection
		paths map[*Task]string
		// owners maps a task to the chain of collections from root to its parent.
		owners map[*Task][]*Collection
		tasks  []*Task
	}

	// Resolved is the outcome of a successful name lookup.
	Resolved struct {
		// Path is the real dotted name of the task.
		Path string
		Task *Task
	}

	// Entry is one line of a task listing.
	Entry struct {
		// Name is the real dotted name.
		Name string
		// Aliases are every other name that resolves to the task, sorted.
		Aliases []string
		// Summary is the first docstring line.
		Summary string
		// Depth is the number of collections between root and the task.
		Depth int
	}
)

// Build freezes root into a Namespace. It verifies that every pre-requisite
// lives in the tree and that pre-requisites never form a cycle.
func Build(root *Collection) (*Namespace, error) {
	if root == nil {
		return nil, configErrorf("", "no collection given")
	}
	ns := &Namespace{
		root:   root,
		paths:  make(map[*Task]string),
		owners: make(map[*Task][]*Collection),
	}
	ns.index(root, "", []*Collection{root})

	graph := dag.New()
	for _, t := range ns.tasks {
		path := ns.paths[t]
		graph.AddTask(path)
		for _, call := range t.pre {
			if call.Task == nil {
				return nil, configErrorf("", "task '%s' declares a nil pre-requisite", path)
			}
			prePath, ok := ns.paths[call.Task]
			if !ok {
				return nil, configErrorf("", "task '%s' depends on '%s', which is not in this namespace", path, call.Task.name)
			}
			for name := range call.Args {
				if call.Task.argIndex(name) < 0 {
					return nil, configErrorf("", "task '%s' passes unknown argument '%s' to '%s'", path, name, prePath)
				}
			}
			graph.AddPre(path, prePath)
		}
	}
	if _, err := graph.Order(); err != nil {
		var cycle *dag.CycleError
		if errors.As(err, &cycle) {
			return nil, &ConfigurationError{Reason: "invalid pre-requisites", Cause: err}
		}
		return nil, err
	}
	return ns, nil
}

func (n *Namespace) index(c *Collection, prefix string, chain []*Collection) {
	names := make([]string, 0, len(c.tasks))
	for name := range c.tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t := c.tasks[name]
		n.paths[t] = join(prefix, name)
		n.owners[t] = slices.Clone(chain)
		n.tasks = append(n.tasks, t)
	}

	subs := make([]string, 0, len(c.collections))
	for name := range c.collections {
		subs = append(subs, name)
	}
	sort.Strings(subs)
	for _, name := range subs {
		sub := c.collections[name]
		n.index(sub, join(prefix, name), append(slices.Clone(chain), sub))
	}
}

func join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// Root returns the root collection.
func (n *Namespace) Root() *Collection { return n.root }

// Tasks returns every task in path order.
func (n *Namespace) Tasks() []*Task { return slices.Clone(n.tasks) }

// PathOf returns the real dotted name of a task in this namespace.
func (n *Namespace) PathOf(t *Task) (string, bool) {
	p, ok := n.paths[t]
	return p, ok
}

// Resolve returns the task a dotted path names.
func (n *Namespace) Resolve(path string) (*Task, error) {
	r, err := n.Lookup(path)
	if err != nil {
		return nil, err
	}
	return r.Task, nil
}

// Lookup resolves a dotted path and reports the task's real name. Each
// segment matches a literal child first, then an alias. A path ending on a
// collection follows its default until a task is reached.
func (n *Namespace) Lookup(path string) (Resolved, error) {
	cur := n.root
	var real []string

	if path != "" {
		segments := strings.Split(path, ".")
		for i, seg := range segments {
			local, ok := cur.localName(seg)
			if !ok {
				return Resolved{}, &NameResolutionError{Path: path, Segment: seg}
			}
			if t, isTask := cur.tasks[local]; isTask {
				if i != len(segments)-1 {
					return Resolved{}, &NameResolutionError{Path: path, Segment: segments[i+1], Reason: "'" + join(strings.Join(real, "."), local) + "' is a task, not a collection"}
				}
				return Resolved{Path: join(strings.Join(real, "."), local), Task: t}, nil
			}
			cur = cur.collections[local]
			real = append(real, local)
		}
	}

	for {
		if cur.defaultName == "" {
			reason := "collection has no default task"
			if len(real) == 0 {
				reason = "no task name given and no default task"
			}
			return Resolved{}, &NameResolutionError{Path: path, Reason: reason}
		}
		if t, ok := cur.tasks[cur.defaultName]; ok {
			return Resolved{Path: join(strings.Join(real, "."), cur.defaultName), Task: t}, nil
		}
		real = append(real, cur.defaultName)
		cur = cur.collections[cur.defaultName]
	}
}

// DependenciesOf returns the declared pre-requisites of t verbatim.
func (n *Namespace) DependenciesOf(t *Task) []Call {
	return t.Pre()
}

// ListEntries returns every task, shallow entries first, alphabetical within
// one depth. Alias lists include the dotted names of collections that
// default to the task.
func (n *Namespace) ListEntries() []Entry {
	entries := make([]Entry, 0, len(n.tasks))
	for _, t := range n.tasks {
		entries = append(entries, Entry{
			Name:    n.paths[t],
			Aliases: n.aliasPaths(t),
			Summary: t.Summary(),
			Depth:   len(n.owners[t]) - 1,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Depth != entries[j].Depth {
			return entries[i].Depth < entries[j].Depth
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// aliasPaths collects every dotted spelling that resolves to t other than
// its real name.
func (n *Namespace) aliasPaths(t *Task) []string {
	chain := n.owners[t]
	parent := chain[len(chain)-1]
	prefix := n.collectionPath(chain)

	var out []string
	for _, a := range parent.aliasesOf(t.name) {
		out = append(out, join(prefix, a))
	}

	// Walk upward while each level defaults to the one below it.
	local := t.name
	for level := len(chain) - 1; level >= 1; level-- {
		c := chain[level]
		if c.defaultName != local {
			break
		}
		out = append(out, n.collectionPath(chain[:level+1]))
		local = c.name
	}
	sort.Strings(out)
	return out
}

func (n *Namespace) collectionPath(chain []*Collection) string {
	names := make([]string, 0, len(chain))
	for _, c := range chain[1:] {
		names = append(names, c.name)
	}
	return strings.Join(names, ".")
}
