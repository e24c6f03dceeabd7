// SPDX-License-Identifier: MPL-2.0

// Package dag checks task pre-requisite graphs for cycles and orders them.
// Nodes are dotted task paths; an edge pre -> task means the pre-requisite
// must complete before the task starts.
package dag

import (
	"fmt"
	"slices"
	"strings"
)

type (
	// CycleError reports a pre-requisite cycle. Cycle lists the path around
	// the loop, starting and ending with the same task.
	CycleError struct {
		Cycle []string
	}

	// Graph is a directed pre-requisite graph with deterministic ordering.
	Graph struct {
		// edges maps a task to the tasks that declare it as a pre-requisite.
		edges map[string][]string
		// pres maps a task to its own pre-requisites, in declaration order.
		pres map[string][]string
		// nodes keeps insertion order for stable output.
		nodes []string
		seen  map[string]bool
	}
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("pre-requisite cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		edges: make(map[string][]string),
		pres:  make(map[string][]string),
		seen:  make(map[string]bool),
	}
}

// AddTask registers a task with no pre-requisites. Registering twice is a no-op.
func (g *Graph) AddTask(name string) {
	if g.seen[name] {
		return
	}
	g.seen[name] = true
	g.nodes = append(g.nodes, name)
}

// AddPre records that task depends on pre.
func (g *Graph) AddPre(task, pre string) {
	g.AddTask(task)
	g.AddTask(pre)
	if slices.Contains(g.pres[task], pre) {
		return
	}
	g.pres[task] = append(g.pres[task], pre)
	g.edges[pre] = append(g.edges[pre], task)
}

// Order returns the tasks so that every pre-requisite precedes its
// dependents (Kahn's algorithm, ties broken by insertion order). A cycle
// yields a *CycleError naming one concrete loop.
func (g *Graph) Order() ([]string, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	pending := make(map[string]int, len(g.nodes))
	for _, n := range g.nodes {
		pending[n] = len(g.pres[n])
	}

	var ready, order []string
	for _, n := range g.nodes {
		if pending[n] == 0 {
			ready = append(ready, n)
		}
	}
	for len(ready) > 0 {
		n := ready[0]
		ready = ready[1:]
		order = append(order, n)
		for _, dependent := range g.edges[n] {
			pending[dependent]--
			if pending[dependent] == 0 {
				ready = append(ready, dependent)
			}
		}
	}

	if len(order) != len(g.nodes) {
		return nil, &CycleError{Cycle: g.findCycle(pending)}
	}
	return order, nil
}

// findCycle walks pre-requisite edges from the first node still blocked
// until a node repeats.
func (g *Graph) findCycle(pending map[string]int) []string {
	var start string
	for _, n := range g.nodes {
		if pending[n] > 0 {
			start = n
			break
		}
	}
	index := map[string]int{}
	var path []string
	cur := start
	for {
		if i, ok := index[cur]; ok {
			return append(path[i:], cur)
		}
		index[cur] = len(path)
		path = append(path, cur)
		next := ""
		for _, p := range g.pres[cur] {
			if pending[p] > 0 {
				next = p
				break
			}
		}
		if next == "" {
			return path
		}
		cur = next
	}
}
