// Package nativemodules implements the orchestrator's native-module prep
// step (spec.md §6): after resolution, each resolved package's declared
// native-module dependencies are installed into a scratch directory, and
// the result is recorded on the Bundle for the Writer to copy or symlink
// into place (spec.md §4 step 9).
package nativemodules

import (
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/SUSE/fullstack-bundler/model"
)

// Prepare walks every resolved PBR's package once (by ID, since a package
// can appear at multiple roles/environments) and, for any package
// declaring native-module dependencies, runs its Installer into
// scratchDir/<package-id>/node_modules, then records the result in
// bundle.NodeModulesDirs keyed by its eventual app/-relative target path.
func Prepare(fs afero.Fs, bundle *model.Bundle, scratchDir string) error {
	seen := make(map[string]bool)
	var ids []string
	pkgByID := make(map[string]model.Package)

	for _, pbr := range bundle.AllPBRs() {
		pkg := pbr.Package
		if seen[pkg.ID()] {
			continue
		}
		seen[pkg.ID()] = true
		ids = append(ids, pkg.ID())
		pkgByID[pkg.ID()] = pkg
	}
	sort.Strings(ids)

	for _, id := range ids {
		pkg := pkgByID[id]
		deps := pkg.NativeModuleDeps()
		if len(deps) == 0 {
			continue
		}
		installer := pkg.Installer()
		if installer == nil {
			continue
		}

		target := filepath.Join(scratchDir, sanitize(id), "node_modules")
		if err := fs.MkdirAll(target, 0755); err != nil {
			return errors.Wrapf(err, "preparing native-module scratch dir for %s", id)
		}
		if err := installer.Install(target, deps); err != nil {
			return errors.Wrapf(err, "installing native modules for %s", id)
		}

		rel := relativeTarget(pkg)
		bundle.NodeModulesDirs[rel] = target
	}
	return nil
}

// relativeTarget computes the bundle-relative install path a package's
// node_modules tree lands at once written under build/app/.
func relativeTarget(pkg model.Package) string {
	if pkg.IsApplication() {
		return "app/node_modules"
	}
	return filepath.ToSlash(filepath.Join("app", "packages", pkg.Name(), "node_modules"))
}

func sanitize(id string) string {
	return filepath.FromSlash(id)
}
