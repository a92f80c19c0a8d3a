// Package dependency builds and flattens dependency graphs.
package dependency

import (
	"sort"
	"sync"
)

// insertUnique inserts x into set, preserving order. If x is already in
// set, it is not added. The augmented set is returned.
func insertUnique(set []string, x string) []string {
	i := sort.SearchStrings(set, x)
	if i >= len(set) || set[i] != x {
		set = append(set, "")
		copy(set[i+1:], set[i:])
		set[i] = x
	}
	return set
}

// A Graph is a collection of targets and their dependencies.
type Graph struct {
	once    sync.Once
	targets []string
	nodes   map[string][]string
}

// Len returns the number of targets in the graph.
func (g *Graph) Len() int {
	return len(g.targets)
}

func (g *Graph) init() {
	g.once.Do(func() { g.nodes = make(map[string][]string) })
}

// Add adds a dependency to a Graph.
func (g *Graph) Add(target, dependency string) {
	g.init()
	g.targets = insertUnique(g.targets, target)
	g.nodes[target] = insertUnique(g.nodes[target], dependency)
}

// Flatten calls the walk function on each node in the Graph in
// topological order, starting with the leaves and traversing up to the
// roots. The same Graph will always be traversed in the same order.
//
// Every vertex in the Graph is visited once; any cycles in the graph
// are skipped. Use Cycle to check for them first.
func (g *Graph) Flatten(walk func(string)) {
	g.init()
	visited := make(map[string]bool, len(g.nodes))
	for _, tgt := range g.targets {
		if !visited[tgt] {
			visited[tgt] = true
			g.flatten(walk, g.nodes[tgt], visited)
			walk(tgt)
		}
	}
}

func (g *Graph) flatten(fn func(string), targets []string, visited map[string]bool) {
	for _, tgt := range targets {
		if !visited[tgt] {
			visited[tgt] = true
			g.flatten(fn, g.nodes[tgt], visited)
			fn(tgt)
		}
	}
}

// Cycle returns the vertices of one dependency cycle in the graph, in
// dependency order with the starting vertex repeated at the end. It
// returns nil if the graph is acyclic.
func (g *Graph) Cycle() []string {
	g.init()
	done := make(map[string]bool, len(g.nodes))
	onstack := make(map[string]bool)
	var stack []string
	for _, tgt := range g.targets {
		if c := g.cycle(tgt, done, onstack, stack); c != nil {
			return c
		}
	}
	return nil
}

func (g *Graph) cycle(v string, done, onstack map[string]bool, stack []string) []string {
	if done[v] {
		return nil
	}
	if onstack[v] {
		// unwind the stack back to the first occurrence of v
		for i, w := range stack {
			if w == v {
				return append(stack[i:len(stack):len(stack)], v)
			}
		}
		return append(stack, v)
	}
	onstack[v] = true
	stack = append(stack, v)
	for _, dep := range g.nodes[v] {
		if c := g.cycle(dep, done, onstack, stack); c != nil {
			return c
		}
	}
	onstack[v] = false
	done[v] = true
	return nil
}
