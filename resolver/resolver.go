// Package resolver implements the Dependency Resolver (C3): the transitive
// closure of packages per role×environment, building a Bundle's PBR set.
package resolver

import (
	"fmt"

	"github.com/SUSE/fullstack-bundler/model"
	"github.com/SUSE/fullstack-bundler/validation"
)

// Root is one entry point the resolver walks from: a package that is
// directly required in a given role and environment. Roots are supplied as
// an ordered slice (not a map) so resolution order stays deterministic.
// The Load Orderer does not use this order: it breaks ties by (role,
// package ID).
type Root struct {
	Package model.Package
	Role    model.Role
	Env     model.Environment
}

// Resolver walks a Bundle's roots and builds its PBR set.
type Resolver struct {
	Loader          model.PackageLoader
	ReleaseManifest string
}

// New creates a Resolver backed by the given package loader.
func New(loader model.PackageLoader, releaseManifest string) *Resolver {
	return &Resolver{Loader: loader, ReleaseManifest: releaseManifest}
}

// Resolve visits every root and its transitive `uses` closure, populating
// bundle with one PBR per (role, package) pair reached. Resolution stops at
// the first unresolved package name, returning a fatal resolution error
// (spec.md §7, error class 2).
func (r *Resolver) Resolve(bundle *model.Bundle, roots []Root) error {
	for _, root := range roots {
		if err := r.visit(bundle, root.Package, root.Role, root.Env); err != nil {
			return err
		}
	}
	return nil
}

// visit is the recursive reachability walk described in spec.md §4.1.
// Unordered edges are NOT pruned here; they only affect load ordering
// (the Load Orderer), never reachability.
func (r *Resolver) visit(bundle *model.Bundle, pkg model.Package, role model.Role, env model.Environment) error {
	pbr := bundle.GetOrCreatePBR(pkg, role)

	if pbr.Presence[env] {
		return nil
	}
	pbr.Presence[env] = true

	for _, name := range pkg.Uses(role, env) {
		used, err := r.Loader.Get(name, r.ReleaseManifest, bundle.AppDir)
		if err != nil {
			return validation.ErrorList{validation.ResolutionError(name)}
		}

		// A test-role PBR's dependencies are always use-role: tests may
		// import another package's production code, never its tests.
		// This asymmetry is also what keeps the uses-graph acyclic even
		// when a test imports the package it tests (test:X and use:X are
		// distinct vertices).
		if err := r.visit(bundle, used, model.RoleUse, env); err != nil {
			return err
		}
	}

	return nil
}

// String is used only for error-message formatting in tests and logs.
func (root Root) String() string {
	return fmt.Sprintf("%s:%s(%s)", root.Role, root.Package.Name(), root.Env)
}
