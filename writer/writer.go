// Package writer implements the Writer (C9): it materializes the bundle
// tree into a build area, constructs the app.json/dependencies.json
// manifests and app.html shell, then atomically swaps the build area into
// place.
package writer

import (
	"encoding/json"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"

	"github.com/SUSE/fullstack-bundler/fsutil"
	"github.com/SUSE/fullstack-bundler/model"
	"github.com/SUSE/fullstack-bundler/util"
	"github.com/SUSE/fullstack-bundler/validation"
)

// NodeModulesMode selects how native-module trees are installed into the
// output tree, per spec.md §4.7 step 3/9.
type NodeModulesMode string

const (
	NodeModulesSkip    NodeModulesMode = "skip"
	NodeModulesCopy    NodeModulesMode = "copy"
	NodeModulesSymlink NodeModulesMode = "symlink"
)

// Config configures a Writer run. ServerRuntimeDir, PlatformNodeModules,
// and PlatformBundleVersionFile are platform paths supplied by the caller
// (the orchestrator); AppHTMLTemplate is the app.html shell source; Expand
// is the external template-expander collaborator (templates.Expand).
type Config struct {
	FS     afero.Fs
	Expand func(tpl string, values map[string]interface{}) (string, error)

	Ignore util.IgnoreList

	ServerRuntimeDir          string
	PlatformNodeModules       string
	PlatformBundleVersionFile string
	NodeModulesMode           NodeModulesMode

	// PublicDir is the application's public/ directory, copied (minus
	// entries matching Ignore) into build/static when non-empty and present.
	PublicDir string

	AppHTMLTemplate string
}

// Writer drives C9 against a Config.
type Writer struct {
	cfg Config
}

// New builds a Writer.
func New(cfg Config) *Writer {
	return &Writer{cfg: cfg}
}

// DependenciesDoc is the on-disk shape of dependencies.json.
type DependenciesDoc struct {
	Core       []string            `json:"core"`
	App        []string            `json:"app"`
	Packages   map[string][]string `json:"packages"`
	Extensions []string            `json:"extensions"`
	Exclude    []string            `json:"exclude"`
}

// AppDoc is the on-disk shape of app.json.
type AppDoc struct {
	Load     []string              `json:"load"`
	Manifest []model.ManifestEntry `json:"manifest"`
	Release  string                `json:"release,omitempty"`
}

// Write materializes bundle into outputPath, per spec.md §4.7's numbered
// steps.
func (w *Writer) Write(bundle *model.Bundle, outputPath string) error {
	fs := w.cfg.FS
	buildPath := filepath.Join(filepath.Dir(outputPath), ".build."+filepath.Base(outputPath))

	// 1. Build area.
	if err := fsutil.RemoveTree(fs, buildPath); err != nil {
		return validation.ErrorList{validation.IOError(buildPath, err)}
	}
	if err := fsutil.MkdirP(fs, buildPath); err != nil {
		return validation.ErrorList{validation.IOError(buildPath, err)}
	}

	core := []string{}

	// 2. Server runtime.
	if w.cfg.ServerRuntimeDir != "" {
		serverDir := filepath.Join(buildPath, "server")
		if err := fsutil.CopyTree(fs, w.cfg.ServerRuntimeDir, serverDir, w.cfg.Ignore); err != nil {
			return validation.ErrorList{validation.IOError(serverDir, err)}
		}
		core = append(core, "server")
	}

	// 3. Native modules (platform-wide prebuilt module root).
	if err := w.installPlatformNodeModules(buildPath); err != nil {
		return err
	}

	// 4. Public assets.
	if w.cfg.PublicDir != "" {
		if ok, _ := afero.DirExists(fs, w.cfg.PublicDir); ok {
			staticDir := filepath.Join(buildPath, "static")
			if err := fsutil.CopyTree(fs, w.cfg.PublicDir, staticDir, w.cfg.Ignore); err != nil {
				return validation.ErrorList{validation.IOError(staticDir, err)}
			}
			entries, err := w.publicManifestEntries(w.cfg.PublicDir)
			if err != nil {
				return err
			}
			bundle.Manifest = append(bundle.Manifest, entries...)
		}
	}

	// 5. Client JS/CSS cache-bust path (only touches names the minifier
	// didn't already consume).
	w.cacheBustRemaining(bundle)

	// 6. Remaining client files (plain static, non-cacheable).
	remainingEntries, err := w.writeFileTable(buildPath, "static", bundle.Files[model.EnvClient],
		func(rel string, data []byte) model.ManifestEntry {
			return model.NewManifestEntry("static/"+rel, model.WhereClient, "static", model.Cacheable(false), "/"+rel, data)
		})
	if err != nil {
		return err
	}
	bundle.Manifest = append(bundle.Manifest, remainingEntries...)

	// 7. Cache-forever files.
	if err := w.writeCacheTable(buildPath, bundle); err != nil {
		return err
	}

	// 8. Server files.
	load, err := w.writeServerFiles(buildPath, bundle)
	if err != nil {
		return err
	}

	// 9. Package native-module directories.
	if err := w.installPackageNodeModules(buildPath, bundle); err != nil {
		return err
	}

	// 10. app.html.
	if err := w.writeAppHTML(buildPath, bundle); err != nil {
		return err
	}

	// 11. main.js + README.
	if err := w.writeEntrypoint(buildPath); err != nil {
		return err
	}

	// 12. Manifests.
	if err := w.writeManifests(buildPath, bundle, core, load); err != nil {
		return err
	}

	// 13. Atomic swap.
	if err := fsutil.RemoveTree(fs, outputPath); err != nil {
		return validation.ErrorList{validation.IOError(outputPath, err)}
	}
	if err := fs.Rename(buildPath, outputPath); err != nil {
		return validation.ErrorList{validation.IOError(outputPath, err)}
	}

	return nil
}

// cacheBustRemaining implements step 5: any js.client/css name still
// present in files.client (because the minifier stage was skipped) moves
// to ClientCacheable under its own name, cache-busted by a query-string
// hash rather than the minifier's content-addressed filename.
func (w *Writer) cacheBustRemaining(bundle *model.Bundle) {
	names := append(append([]string{}, bundle.JS[model.EnvClient]...), bundle.CSS...)
	for _, name := range names {
		data, ok := bundle.Files[model.EnvClient][name]
		if !ok {
			continue
		}
		bundle.ClientCacheable[name] = data
		delete(bundle.Files[model.EnvClient], name)

		hash := util.SHA1Hex(data)
		ext := strings.TrimPrefix(filepath.Ext(name), ".")
		bundle.Manifest = append(bundle.Manifest, model.NewManifestEntry(
			"static_cacheable"+name, model.WhereClient, ext, model.Cacheable(true),
			name+"?"+hash, data,
		))
	}
	bundle.JS[model.EnvClient] = nil
	bundle.CSS = nil
}

func (w *Writer) installPlatformNodeModules(buildPath string) error {
	if w.cfg.PlatformNodeModules != "" &&
		(w.cfg.NodeModulesMode == NodeModulesCopy || w.cfg.NodeModulesMode == NodeModulesSymlink) {
		target := filepath.Join(buildPath, "server", "node_modules")
		var err error
		if w.cfg.NodeModulesMode == NodeModulesSymlink {
			err = fsutil.Symlink(w.cfg.FS, w.cfg.PlatformNodeModules, target)
		} else {
			err = fsutil.CopyTree(w.cfg.FS, w.cfg.PlatformNodeModules, target, w.cfg.Ignore)
		}
		if err != nil {
			return validation.ErrorList{validation.IOError(target, err)}
		}
	}
	return w.copyBundleVersionMarker(buildPath)
}

func (w *Writer) copyBundleVersionMarker(buildPath string) error {
	if w.cfg.PlatformBundleVersionFile == "" {
		return nil
	}
	data, err := afero.ReadFile(w.cfg.FS, w.cfg.PlatformBundleVersionFile)
	if err != nil {
		return validation.ErrorList{validation.IOError(w.cfg.PlatformBundleVersionFile, err)}
	}
	dst := filepath.Join(buildPath, "server", ".bundle_version.txt")
	if err := afero.WriteFile(w.cfg.FS, dst, data, 0644); err != nil {
		return validation.ErrorList{validation.IOError(dst, err)}
	}
	return nil
}

func (w *Writer) publicManifestEntries(publicDir string) ([]model.ManifestEntry, error) {
	var entries []model.ManifestEntry
	err := afero.Walk(w.cfg.FS, publicDir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || w.cfg.Ignore.Matches(info.Name()) {
			return nil
		}
		rel, err := filepath.Rel(publicDir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		data, err := afero.ReadFile(w.cfg.FS, p)
		if err != nil {
			return err
		}
		entries = append(entries, model.NewManifestEntry("static/"+rel, model.WhereClient, "static",
			model.Cacheable(false), "/"+rel, data))
		return nil
	})
	if err != nil {
		return nil, validation.ErrorList{validation.IOError(publicDir, err)}
	}
	return entries, nil
}

// writeFileTable writes every entry of table under buildPath/subdir/<rel>,
// building a manifest entry for each via build. Serve-paths are stripped of
// their leading slash to form a relative disk path. Entries are visited in
// sorted key order for deterministic output (P6).
func (w *Writer) writeFileTable(buildPath, subdir string, table map[string][]byte, build manifestBuilder) ([]model.ManifestEntry, error) {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)

	var entries []model.ManifestEntry
	for _, name := range names {
		rel := strings.TrimPrefix(name, "/")
		dst := filepath.Join(buildPath, subdir, filepath.FromSlash(rel))
		if err := afero.WriteFile(w.cfg.FS, dst, table[name], 0644); err != nil {
			return nil, validation.ErrorList{validation.IOError(dst, err)}
		}
		entries = append(entries, build(rel, table[name]))
	}
	return entries, nil
}

type manifestBuilder func(rel string, data []byte) model.ManifestEntry

// writeCacheTable implements step 7: every ClientCacheable entry is written
// under build/static_cacheable, using its own key as the relative path.
func (w *Writer) writeCacheTable(buildPath string, bundle *model.Bundle) error {
	_, err := w.writeFileTable(buildPath, "static_cacheable", bundle.ClientCacheable,
		func(rel string, data []byte) model.ManifestEntry {
			// Manifest entries for cacheable files were already appended
			// by the minifier (content-hashed names) or cacheBustRemaining
			// (query-string cache-bust); this stage only writes bytes.
			return model.ManifestEntry{}
		})
	return err
}

// writeServerFiles implements step 8: every files.server entry is written
// under build/app, and its bundle-relative path recorded for app.json.load.
// Load order follows aggregation order: JS server entries first, then
// static server entries (css is never present server-side, I5; head/body
// are client-only) — a documented simplification, see DESIGN.md.
func (w *Writer) writeServerFiles(buildPath string, bundle *model.Bundle) ([]string, error) {
	order := append(append([]string{}, bundle.JS[model.EnvServer]...), bundle.Static[model.EnvServer]...)

	var load []string
	written := map[string]bool{}
	for _, name := range order {
		data, ok := bundle.Files[model.EnvServer][name]
		if !ok || written[name] {
			continue
		}
		written[name] = true
		rel := strings.TrimPrefix(name, "/")
		dst := filepath.Join(buildPath, "app", filepath.FromSlash(rel))
		if err := afero.WriteFile(w.cfg.FS, dst, data, 0644); err != nil {
			return nil, validation.ErrorList{validation.IOError(dst, err)}
		}
		load = append(load, "app/"+rel)
	}
	return load, nil
}

// installPackageNodeModules implements step 9: for each declared
// nodeModulesDirs entry, install the source directory at its bundle-
// relative target: symlinked in symlink mode, copied in copy and skip modes
// (skip only affects the platform-wide module root of step 3). The
// original spec treats a missing parent as a silent skip; this bundler
// instead creates the parent and installs (see DESIGN.md's resolution of
// Open Question #1), since silently dropping a declared native dependency
// produces a bundle that looks complete but isn't.
func (w *Writer) installPackageNodeModules(buildPath string, bundle *model.Bundle) error {
	if w.cfg.NodeModulesMode == "" {
		return nil
	}
	names := make([]string, 0, len(bundle.NodeModulesDirs))
	for rel := range bundle.NodeModulesDirs {
		names = append(names, rel)
	}
	sort.Strings(names)

	// Each nodeModulesDirs entry installs independently of the others, so
	// a failure on one target shouldn't hide failures on the rest:
	// accumulate via multierror and report them all together.
	var installErrs *multierror.Error
	for _, rel := range names {
		source := bundle.NodeModulesDirs[rel]
		target := filepath.Join(buildPath, filepath.FromSlash(rel))
		if err := fsutil.MkdirP(w.cfg.FS, filepath.Dir(target)); err != nil {
			installErrs = multierror.Append(installErrs, validation.IOError(target, err))
			continue
		}

		var err error
		if w.cfg.NodeModulesMode == NodeModulesSymlink {
			err = fsutil.Symlink(w.cfg.FS, source, target)
		} else {
			err = fsutil.CopyTree(w.cfg.FS, source, target, w.cfg.Ignore)
		}
		if err != nil {
			installErrs = multierror.Append(installErrs, validation.IOError(target, err))
		}
	}
	if installErrs != nil {
		list := make(validation.ErrorList, 0, len(installErrs.Errors))
		for _, e := range installErrs.Errors {
			list = append(list, e.(*validation.Error))
		}
		return list
	}
	return nil
}

// writeAppHTML implements step 10: expand the app.html template and append
// its manifest entry.
func (w *Writer) writeAppHTML(buildPath string, bundle *model.Bundle) error {
	values := map[string]interface{}{
		"Scripts":     bundle.JSClientURLs(),
		"Stylesheets": bundle.CSSURLs(),
		"HeadExtra":   template.HTML(strings.Join(bundle.Head, "\n")),
		"BodyExtra":   template.HTML(strings.Join(bundle.Body, "\n")),
	}
	out, err := w.cfg.Expand(w.cfg.AppHTMLTemplate, values)
	if err != nil {
		return validation.ErrorList{validation.HandlerError("app.html", "html", err)}
	}

	dst := filepath.Join(buildPath, "app.html")
	if err := afero.WriteFile(w.cfg.FS, dst, []byte(out), 0644); err != nil {
		return validation.ErrorList{validation.IOError(dst, err)}
	}

	bundle.Manifest = append(bundle.Manifest, model.NewManifestEntry("app.html", model.WhereInternal, "", nil, "", []byte(out)))
	return nil
}

const entrypointTemplate = "require('./server/server.js');\n"

const readmeTemplate = `This directory was produced by a bundler run.

  main.js  - entry point; requires server/server.js
  app.html - pre-rendered HTML shell
  app.json / dependencies.json - machine-readable manifests
`

// writeEntrypoint implements step 11.
func (w *Writer) writeEntrypoint(buildPath string) error {
	if err := afero.WriteFile(w.cfg.FS, filepath.Join(buildPath, "main.js"), []byte(entrypointTemplate), 0644); err != nil {
		return validation.ErrorList{validation.IOError("main.js", err)}
	}
	if err := afero.WriteFile(w.cfg.FS, filepath.Join(buildPath, "README"), []byte(readmeTemplate), 0644); err != nil {
		return validation.ErrorList{validation.IOError("README", err)}
	}
	return nil
}

// writeManifests implements step 12.
func (w *Writer) writeManifests(buildPath string, bundle *model.Bundle, core, load []string) error {
	appDoc := AppDoc{Load: load, Manifest: bundle.Manifest, Release: bundle.Release}
	if err := writeJSON(w.cfg.FS, filepath.Join(buildPath, "app.json"), appDoc); err != nil {
		return err
	}

	depsDoc := DependenciesDoc{
		Core:       core,
		App:        appDeps(bundle),
		Packages:   packageDeps(bundle),
		Extensions: appExtensions(bundle),
		Exclude:    w.cfg.Ignore.Sources(),
	}
	return writeJSON(w.cfg.FS, filepath.Join(buildPath, "dependencies.json"), depsDoc)
}

func writeJSON(fs afero.Fs, dst string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return validation.ErrorList{validation.IOError(dst, err)}
	}
	if err := afero.WriteFile(fs, dst, data, 0644); err != nil {
		return validation.ErrorList{validation.IOError(dst, err)}
	}
	return nil
}

// appDeps returns the union of source-relative deps across all roles for
// the unnamed application PBR.
func appDeps(bundle *model.Bundle) []string {
	var out []string
	for _, pbr := range bundle.PBRsByOrder {
		if pbr.Package.IsApplication() {
			out = append(out, sortedDeps(pbr)...)
		}
	}
	return out
}

// packageDeps returns, per named package, the union of deps across all
// roles that package appeared in.
func packageDeps(bundle *model.Bundle) map[string][]string {
	out := map[string][]string{}
	for _, pbr := range bundle.PBRsByOrder {
		if pbr.Package.IsApplication() {
			continue
		}
		name := pbr.Package.Name()
		existing := map[string]bool{}
		for _, d := range out[name] {
			existing[d] = true
		}
		for _, d := range sortedDeps(pbr) {
			if !existing[d] {
				out[name] = append(out[name], d)
				existing[d] = true
			}
		}
	}
	return out
}

func sortedDeps(pbr *model.PBR) []string {
	out := make([]string, 0, len(pbr.Deps))
	for d := range pbr.Deps {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// appExtensions returns the registered extensions of the application PBR
// across every role/environment it was compiled in.
func appExtensions(bundle *model.Bundle) []string {
	seen := map[string]bool{}
	var out []string
	for _, pbr := range bundle.PBRsByOrder {
		if !pbr.Package.IsApplication() {
			continue
		}
		for _, ext := range pbr.Package.Extensions() {
			if !seen[ext] {
				seen[ext] = true
				out = append(out, ext)
			}
		}
	}
	return out
}
