// Package graph implements the dependency graph: nodes are packages,
// edges are "depends on" references by name. The graph is built
// transiently by the resolver for a single resolve_dependencies call
// and discarded once installation_order has been read.
package graph

import (
	"github.com/selfiecli/selfie/domain"
)

// Graph is a directed graph of packages. Edges point from a package to
// its dependencies (source depends on target). Edge targets are
// name references, never pointers, so the graph is trivially
// serializable and sidesteps cyclic ownership.
type Graph struct {
	nodes    map[string]domain.Package
	order    []string            // node insertion order, for stable output
	edges    map[string][]string // from -> [to], in insertion order
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{
		nodes: map[string]domain.Package{},
		edges: map[string][]string{},
	}
}

// AddNode inserts or overwrites the node for pkg.Name. Idempotent by
// name: the latest value wins, but the node's position in insertion
// order is only set the first time a given name is added.
func (g *Graph) AddNode(pkg domain.Package) {
	if _, exists := g.nodes[pkg.Name]; !exists {
		g.order = append(g.order, pkg.Name)
	}
	g.nodes[pkg.Name] = pkg
}

// HasNode reports whether name has been added.
func (g *Graph) HasNode(name string) bool {
	_, ok := g.nodes[name]
	return ok
}

// Node returns the package stored for name.
func (g *Graph) Node(name string) (domain.Package, bool) {
	pkg, ok := g.nodes[name]
	return pkg, ok
}

// AddDependency records that `from` depends on `to`. Both must already
// exist as nodes or domain.PackageNotFoundError is returned. The graph
// is re-checked for cycles after insertion; if adding the edge would
// introduce one, the edge is rolled back and a
// domain.CircularDependencyError is returned carrying the cycle path.
func (g *Graph) AddDependency(from, to string) error {
	if !g.HasNode(from) {
		return &domain.PackageNotFoundError{Name: from}
	}
	if !g.HasNode(to) {
		return &domain.PackageNotFoundError{Name: to}
	}

	g.edges[from] = append(g.edges[from], to)

	if path, cyclic := g.cycleThrough(from); cyclic {
		g.edges[from] = g.edges[from][:len(g.edges[from])-1]
		return &domain.CircularDependencyError{Path: path}
	}

	return nil
}

// HasCycle reports whether the graph currently contains any cycle.
func (g *Graph) HasCycle() bool {
	visited := map[string]bool{}
	stack := map[string]bool{}
	for _, name := range g.order {
		if visited[name] {
			continue
		}
		if _, cyclic := g.dfsCycle(name, visited, stack, nil); cyclic {
			return true
		}
	}
	return false
}

// cycleThrough looks for a cycle reachable from start, returning the
// walk (insertion order, ending at the offending node) if one exists.
func (g *Graph) cycleThrough(start string) ([]string, bool) {
	visited := map[string]bool{}
	stack := map[string]bool{}
	return g.dfsCycle(start, visited, stack, nil)
}

func (g *Graph) dfsCycle(name string, visited, stack map[string]bool, path []string) ([]string, bool) {
	visited[name] = true
	stack[name] = true
	path = append(path, name)

	for _, dep := range g.edges[name] {
		if stack[dep] {
			return append(append([]string{}, path...), dep), true
		}
		if visited[dep] {
			continue
		}
		if cyclePath, cyclic := g.dfsCycle(dep, visited, stack, path); cyclic {
			return cyclePath, true
		}
	}

	stack[name] = false
	return nil, false
}

// FindCycles returns the cycles found by one DFS pass over the graph,
// each expressed as a walk that begins and ends at the same node: one
// walk per back edge. A node is expanded only once, so a cycle whose
// nodes were all reached earlier through another path is not listed.
// Diagnostic only; the graph is expected to be acyclic in normal
// operation (I1).
func (g *Graph) FindCycles() [][]string {
	var cycles [][]string
	visited := map[string]bool{}
	for _, name := range g.order {
		if visited[name] {
			continue
		}
		g.collectCycles(name, visited, map[string]bool{}, nil, &cycles)
	}
	return cycles
}

func (g *Graph) collectCycles(name string, visited, stack map[string]bool, path []string, cycles *[][]string) {
	visited[name] = true
	stack[name] = true
	path = append(path, name)

	for _, dep := range g.edges[name] {
		if stack[dep] {
			cycle := append([]string{}, path...)
			cycle = append(cycle, dep)
			*cycles = append(*cycles, cycle)
			continue
		}
		if visited[dep] {
			continue
		}
		g.collectCycles(dep, visited, stack, path, cycles)
	}

	stack[name] = false
}

// InstallationOrder returns nodes in dependency-before-dependent order:
// for every edge u -> v, v appears strictly before u. Implemented as a
// DFS postorder walk over nodes in insertion order, visiting each
// node's dependencies in the order they were declared — this is also
// the tie-break the resolver documents (deepest dependencies first,
// ties broken by declaration order).
func (g *Graph) InstallationOrder() []domain.Package {
	visited := map[string]bool{}
	var out []domain.Package

	var visit func(name string)
	visit = func(name string) {
		if visited[name] {
			return
		}
		visited[name] = true
		for _, dep := range g.edges[name] {
			visit(dep)
		}
		out = append(out, g.nodes[name])
	}

	for _, name := range g.order {
		visit(name)
	}

	return out
}
