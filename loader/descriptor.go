// Package loader provides the Package loader external collaborator
// (spec.md §6): resolving a package name (or the unnamed application) to a
// model.Package, either from a package descriptor file on local disk or
// from a pinned release warehouse archive.
package loader

import (
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"

	"github.com/SUSE/fullstack-bundler/model"
	"github.com/SUSE/fullstack-bundler/util"
	"github.com/SUSE/fullstack-bundler/validation"
)

// Descriptor is the on-disk shape of a package's descriptor file (named
// "package.yaml" at its source root), parsed with gopkg.in/yaml.v2 per the
// teacher's own release/package-spec parsing idiom.
type Descriptor struct {
	Name       string                       `yaml:"name"`
	SourceRoot string                       `yaml:"source_root"`
	ServeRoot  string                       `yaml:"serve_root"`
	Uses       map[string]map[string][]string `yaml:"uses"`
	Sources    map[string]map[string][]string `yaml:"sources"`
	Unordered  []string                     `yaml:"unordered"`
	NativeDeps []model.CVOptions            `yaml:"native_deps"`

	// SourceGlobs, when set, restricts the application's directory scan
	// (scanAppSources) to files matching at least one doublestar pattern
	// (e.g. "**/*.js"), instead of every non-ignored file. Named
	// packages always declare Sources explicitly and never consult this.
	SourceGlobs []string `yaml:"source_globs"`
}

const descriptorFileName = "package.yaml"

// DiskLoader resolves packages from a directory tree on local disk: each
// package lives at <releaseRoot>/packages/<name>/package.yaml, with the
// unnamed application descriptor at <appDir>/package.yaml (optional — an
// application directory with no descriptor gets sane defaults).
type DiskLoader struct {
	FS afero.Fs

	// cache memoizes resolved packages by name for the lifetime of one
	// bundler run, flushed via Flush() at orchestrator entry (spec.md
	// §5's "process-wide mutable map flushed at orchestrator entry").
	cache map[string]model.Package
}

// NewDiskLoader builds a DiskLoader reading descriptors from fs.
func NewDiskLoader(fs afero.Fs) *DiskLoader {
	return &DiskLoader{FS: fs, cache: map[string]model.Package{}}
}

// Get implements model.PackageLoader.
func (l *DiskLoader) Get(name, releaseManifest, appDir string) (model.Package, error) {
	if pkg, ok := l.cache[name]; ok {
		return pkg, nil
	}

	dir := filepath.Join(filepath.Dir(releaseManifest), "packages", name)
	pkg, err := l.load(dir, name)
	if err != nil {
		return nil, err
	}
	l.cache[name] = pkg
	return pkg, nil
}

// GetForApp implements model.PackageLoader: loads the unnamed application
// package rooted at dir, honoring ignore for its own source-tree scan.
func (l *DiskLoader) GetForApp(dir string, ignore util.IgnoreList) (model.Package, error) {
	pkg, err := l.loadApp(dir, ignore)
	if err != nil {
		return nil, err
	}
	l.cache[""] = pkg
	return pkg, nil
}

// Flush implements model.PackageLoader.
func (l *DiskLoader) Flush() {
	l.cache = map[string]model.Package{}
}

func (l *DiskLoader) load(dir, name string) (model.Package, error) {
	descPath := filepath.Join(dir, descriptorFileName)
	raw, err := afero.ReadFile(l.FS, descPath)
	if err != nil {
		return nil, validation.ErrorList{validation.ResolutionError(name)}
	}

	var desc Descriptor
	if err := yaml.Unmarshal(raw, &desc); err != nil {
		return nil, validation.ErrorList{validation.IOError(descPath, err)}
	}
	if desc.Name == "" {
		desc.Name = name
	}
	if desc.SourceRoot == "" {
		desc.SourceRoot = dir
	}
	if desc.ServeRoot == "" {
		desc.ServeRoot = "/packages/" + desc.Name
	}

	return newDescriptorPackage(desc, false), nil
}

// loadApp builds the unnamed application package. Unlike named packages,
// the application has no descriptor requirement: a project with a bare
// source tree and no package.yaml still bundles, using ignore to filter
// GetForApp's directory scan (spec.md §6's get_for_app contract).
func (l *DiskLoader) loadApp(dir string, ignore util.IgnoreList) (model.Package, error) {
	descPath := filepath.Join(dir, descriptorFileName)
	raw, err := afero.ReadFile(l.FS, descPath)

	var desc Descriptor
	if err == nil {
		if yerr := yaml.Unmarshal(raw, &desc); yerr != nil {
			return nil, validation.ErrorList{validation.IOError(descPath, yerr)}
		}
	}
	desc.Name = ""
	if desc.SourceRoot == "" {
		desc.SourceRoot = dir
	}
	if desc.ServeRoot == "" {
		desc.ServeRoot = ""
	}
	if desc.Sources == nil {
		desc.Sources, err = scanAppSources(l.FS, dir, ignore, desc.SourceGlobs)
		if err != nil {
			return nil, err
		}
	}

	return newDescriptorPackage(desc, true), nil
}

// scanAppSources walks dir and records every non-ignored file matching at
// least one of globs (or every non-ignored file, when globs is empty) as a
// use/client+server source — the application-directory default when no
// descriptor declares an explicit sources list.
func scanAppSources(fs afero.Fs, dir string, ignore util.IgnoreList, globs []string) (map[string]map[string][]string, error) {
	var files []string
	err := afero.Walk(fs, dir, func(p string, info os.FileInfo, werr error) error {
		if werr != nil {
			return werr
		}
		if info.IsDir() {
			if ignore.Matches(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if ignore.Matches(info.Name()) {
			return nil
		}
		rel, relErr := filepath.Rel(dir, p)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if len(globs) > 0 && !matchesAny(globs, rel) {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, validation.ErrorList{validation.IOError(dir, err)}
	}
	return map[string]map[string][]string{
		"use": {"client": files, "server": files},
	}, nil
}

// matchesAny reports whether rel matches at least one doublestar glob.
func matchesAny(globs []string, rel string) bool {
	for _, g := range globs {
		if ok, _ := doublestar.Match(g, rel); ok {
			return true
		}
	}
	return false
}
