// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/invoke-go/invoke/internal/dag"
	"github.com/invoke-go/invoke/internal/issue"
	"github.com/invoke-go/invoke/pkg/namespace"

	"github.com/charmbracelet/log"
)

// DefaultName is the collection name searched for when none is given.
const DefaultName = "tasks"

type (
	// Options controls collection discovery.
	Options struct {
		// Names are the collections to load. With more than one name each
		// collection becomes a subcollection named after it.
		Names []string
		// Root is the directory the search starts from; empty means cwd.
		Root string
		// Logger receives debug output; nil discards it.
		Logger *log.Logger
	}

	// Loaded is the result of a successful load.
	Loaded struct {
		Namespace *namespace.Namespace
		// Files lists the collection files read, in load order.
		Files []string
	}
)

// Find returns the first collection file for name, searching root and then
// each of its parents. A name with a known extension matches only that file.
func Find(root, name string) (string, error) {
	dir, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve search root: %w", err)
	}

	candidates := make([]string, 0, len(Extensions))
	if slices.Contains(Extensions, strings.ToLower(filepath.Ext(name))) {
		candidates = append(candidates, name)
	} else {
		for _, ext := range Extensions {
			candidates = append(candidates, name+ext)
		}
	}

	for {
		for _, c := range candidates {
			path := filepath.Join(dir, c)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", &CollectionNotFoundError{Name: name, Root: root}
		}
		dir = parent
	}
}

// LoadFile reads one collection file into a collection called name. The
// root collection of a namespace has an empty name.
func LoadFile(path, name string) (*namespace.Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read collection: %w", err)
	}
	f, err := decode(path, data)
	if err != nil {
		return nil, err
	}
	return build(path, name, f)
}

// Load finds, parses and freezes the requested collections.
func Load(ctx context.Context, opts Options) (*Loaded, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	names := opts.Names
	if len(names) == 0 {
		names = []string{DefaultName}
	}
	root := opts.Root
	if root == "" {
		root = "."
	}

	loaded := &Loaded{}
	var tree *namespace.Collection
	if len(names) > 1 {
		tree = namespace.NewCollection("")
	}

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path, err := Find(root, name)
		if err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load task collection").
				WithResource(name).
				WithSuggestion(fmt.Sprintf("Create %s.cue, %s.yaml or %s.toml in %s or a parent directory", name, name, name, root)).
				WithSuggestion("Use -c to pick another collection name or -r to change the search root").
				WithIssue(issue.CollectionNotFoundId).
				Wrap(err).
				BuildError()
		}
		logger.Debug("loading collection", "name", name, "path", path)

		subName := ""
		if tree != nil {
			subName = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
		}
		coll, err := LoadFile(path, subName)
		if err != nil {
			return nil, parseError(path, err)
		}
		loaded.Files = append(loaded.Files, path)

		if tree == nil {
			tree = coll
			continue
		}
		if err := tree.AddCollection(coll); err != nil {
			return nil, parseError(path, err)
		}
	}

	ns, err := namespace.Build(tree)
	if err != nil {
		return nil, parseError(strings.Join(loaded.Files, ", "), err)
	}
	logger.Debug("collection loaded", "tasks", len(ns.Tasks()), "files", loaded.Files)
	loaded.Namespace = ns
	return loaded, nil
}

func parseError(resource string, err error) error {
	id := issue.CollectionParseErrorId
	var cycle *dag.CycleError
	if errors.As(err, &cycle) {
		id = issue.PreRequisiteLoopId
	}
	return issue.NewErrorContext().
		WithOperation("load task collection").
		WithResource(resource).
		WithSuggestion("Run with --debug for more detail").
		WithIssue(id).
		Wrap(err).
		BuildError()
}
