// Package linker implements the Linker Driver (C6): for each PBR×environment
// it computes the upstream import set, hands the PBR's JS resources to a
// pluggable Linker collaborator, persists the computed exports back onto
// the Package, and appends the linked output to the PBR.
package linker

import (
	"fmt"
	"sort"

	"github.com/SUSE/fullstack-bundler/model"
	"github.com/SUSE/fullstack-bundler/validation"
)

// File is one JS input or output file in the linker's pure-function
// contract: Source is its content, ServePath its serve-relative path.
type File struct {
	Source    []byte
	ServePath string
}

// Input is everything a Linker needs to produce one PBR×environment's
// linked output, per spec.md §4.4 step 3.
type Input struct {
	InputFiles          []File
	UseGlobalNamespace  bool
	// CombinedServePath is "" for the application (no combining:
	// outputs keep their own serve paths).
	CombinedServePath   string
	ImportStubServePath string
	// Imports maps an imported symbol to the name of the package that
	// supplies it.
	Imports map[string]string
	// Name is "" for the unnamed application.
	Name string
	// ForceExport is the package's declared export set for this role and
	// environment; the Linker must guarantee these symbols survive.
	ForceExport map[string]bool
}

// Output is a Linker's pure-function result.
type Output struct {
	Files   []File
	Exports []string
}

// Linker is the external collaborator contract from spec.md §4.4: a pure
// function from Input to Output. Determinism is required.
type Linker interface {
	Link(in Input) (Output, error)
}

// Driver runs the Linker Driver stage across a Bundle's load-ordered PBRs.
type Driver struct {
	Loader  model.PackageLoader
	Linker  Linker
	Release string
}

// New builds a Driver using linker for every PBR.
func New(loader model.PackageLoader, release string, l Linker) *Driver {
	return &Driver{Loader: loader, Linker: l, Release: release}
}

// Run executes C6 over bundle.PBRsByOrder (C4 must have already run).
func (d *Driver) Run(bundle *model.Bundle) error {
	for _, pbr := range bundle.PBRsByOrder {
		for _, env := range model.Environments {
			if !pbr.Presence[env] {
				continue
			}
			if err := d.linkOne(bundle, pbr, env); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *Driver) linkOne(bundle *model.Bundle, pbr *model.PBR, env model.Environment) error {
	pkg := pbr.Package

	imports, err := d.computeImports(bundle, pkg, pbr.Role, env)
	if err != nil {
		return err
	}

	resources := pbr.Resources[env]
	var inputs []File
	var others []model.Resource
	for _, r := range resources {
		if r.Type == model.ResourceJS {
			inputs = append(inputs, File{Source: r.Data, ServePath: r.ServePath})
		} else {
			others = append(others, r)
		}
	}
	pbr.Resources[env] = others

	in := Input{
		InputFiles:          inputs,
		UseGlobalNamespace:  pkg.IsApplication(),
		CombinedServePath:   combinedServePath(pkg, pbr.Role),
		ImportStubServePath: "/packages/global-imports.js",
		Imports:             imports,
		Name:                pkg.Name(),
		ForceExport:         pkg.Exports(pbr.Role, env),
	}

	out, err := d.Linker.Link(in)
	if err != nil {
		return validation.ErrorList{validation.HandlerError(pkg.ID(), "js", err)}
	}

	exports := make(map[string]bool, len(out.Exports))
	for _, sym := range out.Exports {
		exports[sym] = true
	}
	pkg.SetExports(pbr.Role, env, exports)

	for _, f := range out.Files {
		pbr.AddResource(env, model.Resource{
			Type:      model.ResourceJS,
			Data:      f.Source,
			ServePath: f.ServePath,
		})
	}
	return nil
}

// combinedServePath computes the servePath the linker should combine its
// output into, or "" for the application (spec.md §4.4 step 3).
func combinedServePath(pkg model.Package, role model.Role) string {
	if pkg.IsApplication() {
		return ""
	}
	if role == model.RoleTest {
		return fmt.Sprintf("/package-tests/%s.js", pkg.Name())
	}
	return fmt.Sprintf("/packages/%s.js", pkg.Name())
}

// computeImports unions named, non-unordered upstream packages' use-role
// exports for env, later packages overwriting earlier on collision
// (spec.md §4.4 step 1, property P8).
func (d *Driver) computeImports(bundle *model.Bundle, pkg model.Package, role model.Role, env model.Environment) (map[string]string, error) {
	imports := map[string]string{}
	for _, name := range pkg.Uses(role, env) {
		if pkg.Unordered(name) {
			continue
		}
		upstream, err := d.Loader.Get(name, d.Release, bundle.AppDir)
		if err != nil {
			return nil, validation.ErrorList{validation.ResolutionError(name)}
		}
		if upstream.Name() == "" {
			continue
		}
		exports := upstream.Exports(model.RoleUse, env)
		symbols := make([]string, 0, len(exports))
		for sym := range exports {
			symbols = append(symbols, sym)
		}
		sort.Strings(symbols)
		for _, sym := range symbols {
			imports[sym] = upstream.Name()
		}
	}
	return imports, nil
}
