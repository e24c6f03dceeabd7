// SPDX-License-Identifier: MPL-2.0

package namespace

import (
	"strings"
)

type (
	// Collection is a named node grouping tasks and nested collections.
	// The root collection has an empty name.
	Collection struct {
		name        string
		tasks       map[string]*Task
		collections map[string]*Collection
		// order keeps local names in insertion order.
		order []string
		// aliases maps an alias to the local name it stands for.
		aliases     map[string]string
		defaultName string
		isDefault   bool
		ownAliases  []string
		attached    bool
	}

	// CollectionOption configures a Collection at construction time.
	CollectionOption func(*Collection)
)

// CollectionAliases gives the collection extra names inside its parent.
func CollectionAliases(aliases ...string) CollectionOption {
	return func(c *Collection) { c.ownAliases = append(c.ownAliases, aliases...) }
}

// DefaultCollection marks the collection as the default child of its parent.
func DefaultCollection() CollectionOption {
	return func(c *Collection) { c.isDefault = true }
}

// NewCollection creates an empty collection.
func NewCollection(name string, opts ...CollectionOption) *Collection {
	c := &Collection{
		name:        name,
		tasks:       make(map[string]*Task),
		collections: make(map[string]*Collection),
		aliases:     make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the collection's local name.
func (c *Collection) Name() string { return c.name }

// Default returns the local name of the default child, or "".
func (c *Collection) Default() string { return c.defaultName }

// AddTask adds a task under its own name and aliases.
func (c *Collection) AddTask(t *Task) error {
	if t == nil {
		return configErrorf(c.name, "cannot add a nil task")
	}
	if t.attached {
		return configErrorf(c.name, "task '%s' already belongs to a collection", t.name)
	}
	if err := c.reserve(t.name, t.aliases, t.isDefault); err != nil {
		return err
	}
	c.tasks[t.name] = t
	t.attached = true
	return nil
}

// AddCollection nests sub under c. The tree must stay strict: a collection
// can have only one parent and can never contain itself.
func (c *Collection) AddCollection(sub *Collection) error {
	if sub == nil {
		return configErrorf(c.name, "cannot add a nil collection")
	}
	if sub.name == "" {
		return configErrorf(c.name, "subcollections must be named")
	}
	if strings.Contains(sub.name, ".") {
		return configErrorf(c.name, "collection name '%s' must not contain dots", sub.name)
	}
	if sub.attached {
		return configErrorf(c.name, "collection '%s' already has a parent", sub.name)
	}
	if sub == c || sub.contains(c) {
		return configErrorf(c.name, "adding collection '%s' would create a cycle", sub.name)
	}
	if err := c.reserve(sub.name, sub.ownAliases, sub.isDefault); err != nil {
		return err
	}
	c.collections[sub.name] = sub
	sub.attached = true
	return nil
}

// AddAlias maps alias to an existing direct child.
func (c *Collection) AddAlias(alias, target string) error {
	if _, ok := c.child(target); !ok {
		return configErrorf(c.name, "alias '%s' points at unknown child '%s'", alias, target)
	}
	if c.taken(alias) || c.isOwnName(alias) {
		return configErrorf(c.name, "name '%s' is already in use", alias)
	}
	c.aliases[alias] = target
	return nil
}

// SetDefault makes an existing direct child the collection's default.
func (c *Collection) SetDefault(local string) error {
	if _, ok := c.child(local); !ok {
		return configErrorf(c.name, "default '%s' is not a child", local)
	}
	if c.defaultName != "" && c.defaultName != local {
		return configErrorf(c.name, "'%s' cannot be the default; '%s' already is", local, c.defaultName)
	}
	c.defaultName = local
	return nil
}

func (c *Collection) reserve(name string, aliases []string, isDefault bool) error {
	if c.isOwnName(name) {
		return configErrorf(c.name, "child '%s' has the same name as its collection", name)
	}
	if c.taken(name) {
		return configErrorf(c.name, "name '%s' is already in use", name)
	}
	seen := map[string]bool{name: true}
	for _, a := range aliases {
		if a == "" || strings.Contains(a, ".") {
			return configErrorf(c.name, "invalid alias '%s' for '%s'", a, name)
		}
		if seen[a] || c.taken(a) || c.isOwnName(a) {
			return configErrorf(c.name, "alias '%s' for '%s' is already in use", a, name)
		}
		seen[a] = true
	}
	if isDefault && c.defaultName != "" {
		return configErrorf(c.name, "'%s' cannot be the default; '%s' already is", name, c.defaultName)
	}

	c.order = append(c.order, name)
	for _, a := range aliases {
		c.aliases[a] = name
	}
	if isDefault {
		c.defaultName = name
	}
	return nil
}

// isOwnName reports whether name is the collection's own name. An unnamed
// root has no own name.
func (c *Collection) isOwnName(name string) bool {
	return c.name != "" && name == c.name
}

func (c *Collection) taken(name string) bool {
	if _, ok := c.tasks[name]; ok {
		return true
	}
	if _, ok := c.collections[name]; ok {
		return true
	}
	_, ok := c.aliases[name]
	return ok
}

// child returns the task or collection stored under a literal local name.
func (c *Collection) child(local string) (any, bool) {
	if t, ok := c.tasks[local]; ok {
		return t, true
	}
	if sub, ok := c.collections[local]; ok {
		return sub, true
	}
	return nil, false
}

// localName maps a segment to a literal child name, trying aliases second.
func (c *Collection) localName(segment string) (string, bool) {
	if _, ok := c.child(segment); ok {
		return segment, true
	}
	if target, ok := c.aliases[segment]; ok {
		return target, true
	}
	return "", false
}

func (c *Collection) contains(other *Collection) bool {
	for _, sub := range c.collections {
		if sub == other || sub.contains(other) {
			return true
		}
	}
	return false
}

// aliasesOf returns every alias pointing at a local name.
func (c *Collection) aliasesOf(local string) []string {
	var out []string
	for alias, target := range c.aliases {
		if target == local {
			out = append(out, alias)
		}
	}
	return out
}
