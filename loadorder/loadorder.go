// Package loadorder implements the Load Orderer (C4): a topological sort of
// PBRs respecting `uses` edges minus `unordered` edges, with cycle
// detection.
package loadorder

import (
	"github.com/SUSE/fullstack-bundler/model"
	"github.com/SUSE/fullstack-bundler/validation"
)

// state tags a PBR's position in the iterated DFS.
type state int

const (
	unvisited state = iota
	onStack
	done
)

// Order computes a sequence over every PBR in bundle satisfying: for every
// edge X -> Y where X's package names Y in uses[X.Role][*] and Y is not in
// X.Package.Unordered, Y precedes X. Ties are broken by sorting the PBRs
// by (role, package ID), not by the order in which resolution discovered
// them, so the result is deterministic for a given PBR set.
//
// The result is recorded onto bundle.PBRsByOrder; only an error is
// returned.
func Order(bundle *model.Bundle) error {
	all := bundle.AllPBRs()

	// Index PBRs by key for O(1) edge lookups. Visiting them in a stable,
	// content-derived order (rather than map-iteration order) keeps the
	// emitted sequence deterministic across runs.
	byKey := make(map[model.PBRKey]*model.PBR, len(all))
	ordered := rankOrder(all)
	for _, pbr := range ordered {
		byKey[pbr.Key()] = pbr
	}

	states := make(map[model.PBRKey]state, len(ordered))
	var out []*model.PBR
	var stack []model.PBRKey

	var visit func(pbr *model.PBR) error
	visit = func(pbr *model.PBR) error {
		key := pbr.Key()
		switch states[key] {
		case done:
			return nil
		case onStack:
			// Back-edge to a PBR currently being visited: a cycle.
			return validation.ErrorList{validation.CycleError(stackTop(stack).PackageID, key.PackageID)}
		}

		states[key] = onStack
		stack = append(stack, key)

		for _, env := range model.Environments {
			for _, name := range pbr.Package.Uses(pbr.Role, env) {
				if pbr.Package.Unordered(name) {
					continue
				}
				dep, ok := lookupByName(byKey, pbr.Role, name)
				if !ok {
					// The dependency didn't make it into the PBR set;
					// the resolver would already have failed in that
					// case, so this can't happen in a well-formed call.
					continue
				}
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		states[key] = done
		stack = stack[:len(stack)-1]
		out = append(out, pbr)
		return nil
	}

	for _, pbr := range ordered {
		if err := visit(pbr); err != nil {
			return err
		}
	}

	bundle.PBRsByOrder = out
	return nil
}

func stackTop(stack []model.PBRKey) model.PBRKey {
	return stack[len(stack)-1]
}

// lookupByName resolves a `uses` edge (a package name) back to the PBR it
// denotes. Dependency edges always target role=use, per spec.md §4.1/§4.2's
// asymmetry: a PBR of any role only ever depends on use-role PBRs.
func lookupByName(byKey map[model.PBRKey]*model.PBR, _ model.Role, name string) (*model.PBR, bool) {
	for key, pbr := range byKey {
		if key.Role == model.RoleUse && pbr.Package.Name() == name {
			return pbr, true
		}
	}
	return nil, false
}

// rankOrder returns pbrs sorted into a stable, deterministic order derived
// from each PBR's package ID and role, so that (for a given resolved PBR
// set) the DFS visits roots in the same order every run.
func rankOrder(pbrs []*model.PBR) []*model.PBR {
	out := make([]*model.PBR, len(pbrs))
	copy(out, pbrs)
	// Simple stable insertion sort by (role, package ID): the PBR set is
	// small (one entry per package per role actually used), and this
	// keeps the ordering rule in one readable place rather than pulling
	// in sort.Slice's interface overhead for a handful of elements.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && less(out[j], out[j-1]); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func less(a, b *model.PBR) bool {
	if a.Role != b.Role {
		return a.Role < b.Role
	}
	return a.Package.ID() < b.Package.ID()
}
