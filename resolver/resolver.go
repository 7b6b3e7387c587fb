// Package resolver computes the ordered install list for a requested
// package: a DFS over the repository that builds a dependency graph
// and hands it to graph.InstallationOrder.
package resolver

import (
	"github.com/selfiecli/selfie/domain"
	"github.com/selfiecli/selfie/graph"
)

// PackageLookup is the subset of repository.Repository the resolver
// needs, named here so the resolver can be tested against a minimal
// fake without depending on the repository package's concrete type.
type PackageLookup interface {
	GetPackage(name string) (domain.Package, error)
}

// Resolver walks a PackageLookup from a root package name and produces
// an install-ordered list of packages.
type Resolver struct {
	Packages    PackageLookup
	Environment string
}

// New returns a Resolver that resolves against the active environment.
func New(packages PackageLookup, environment string) *Resolver {
	return &Resolver{Packages: packages, Environment: environment}
}

// ResolveDependencies returns the transitive dependency set for root in
// install order: dependencies first, root last.
func (r *Resolver) ResolveDependencies(root string) ([]domain.Package, error) {
	g := graph.New()
	state := &walkState{stack: nil, onStack: map[string]bool{}}

	if err := r.visit(root, g, state); err != nil {
		return nil, err
	}

	return g.InstallationOrder(), nil
}

type walkState struct {
	stack   []string
	onStack map[string]bool
}

func (r *Resolver) visit(name string, g *graph.Graph, state *walkState) error {
	if state.onStack[name] {
		return &domain.CircularDependencyError{Path: append(append([]string{}, state.stack...), name)}
	}

	pkg, err := r.Packages.GetPackage(name)
	if err != nil {
		return domain.WithContext(err, domain.ErrorContext{Package: name})
	}

	env, ok := pkg.Environment(r.Environment)
	if !ok {
		return &domain.EnvironmentNotSupportedError{Environment: r.Environment, Package: name}
	}

	state.stack = append(state.stack, name)
	state.onStack[name] = true
	g.AddNode(pkg)

	for _, dep := range env.DependencyNames() {
		if err := r.visit(dep, g, state); err != nil {
			return err
		}
		if err := g.AddDependency(name, dep); err != nil {
			return domain.WithContext(err, domain.ErrorContext{Package: name})
		}
	}

	state.onStack[name] = false
	state.stack = state.stack[:len(state.stack)-1]

	return nil
}
