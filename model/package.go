package model

import "github.com/SUSE/fullstack-bundler/util"

// Handler transforms one source file into zero or more emitted resources.
// It is supplied by a Package for a given (role, environment, extension)
// triple; unrecognized extensions fall back to a single static Resource.
//
// emit is the callback the handler uses to append resources; sourcePath is
// the absolute path of the file being compiled; servePath is its derived
// serve path (Package.ServeRoot() + the file's relative path); env is the
// environment currently being compiled (client or server).
type Handler func(emit Emitter, sourcePath, servePath string, env Environment) error

// EmitConfig is the configuration record a Handler passes to Emitter.Emit.
// Exactly one of SourceFile / Data ends up determining the resource bytes;
// if neither is set, SourceFile defaults to Path and is read from disk.
// Where is one or more environments to append the resulting Resource(s)
// into.
type EmitConfig struct {
	Type ResourceType
	// Where lists the environments this resource should be appended to.
	Where []Environment
	// Path is the serve path. Mandatory except for head/body emits.
	Path string
	// SourceFile, if set, is an absolute path read to produce Data. If
	// neither SourceFile nor Data is set, SourceFile defaults to Path.
	SourceFile string
	// Data is the raw resource content. A string is recorded as UTF-8.
	Data interface{}
}

// Emitter is the interface a Handler uses to append Resources to its PBR.
type Emitter interface {
	Emit(cfg EmitConfig) error
}

// CVOptions describes a single package-managed native-module dependency: a
// name plus installer-specific options.
type CVOptions struct {
	Name    string
	Options map[string]interface{}
}

// NativeModuleInstaller installs a package's declared native-module
// dependencies into a target directory (e.g. running a package manager).
type NativeModuleInstaller interface {
	Install(targetDir string, deps []CVOptions) error
}

// Package is the external, opaque handle the bundler consumes. Packages are
// immutable apart from one sanctioned mutation: the Linker Driver (C6)
// writes computed exports back via SetExports so downstream PBRs observe
// the correct import set; everything else is read-only.
type Package interface {
	// ID is a stable identity, unique across the bundle.
	ID() string
	// Name is the package's name, or "" for the unnamed application.
	Name() string
	IsApplication() bool

	// Uses returns the package names this package depends on for the
	// given role and environment, in declared order.
	Uses(role Role, env Environment) []string
	// Sources returns the source-relative paths this package contributes
	// for the given role and environment, in declared order.
	Sources(role Role, env Environment) []string
	// Unordered reports whether the named dependency's uses edge should
	// be excluded from the topological sort (reachability is unaffected).
	Unordered(name string) bool

	// Exports returns the (possibly linker-computed) export set for the
	// given role and environment.
	Exports(role Role, env Environment) map[string]bool
	// SetExports overwrites the computed export set.
	SetExports(role Role, env Environment, exports map[string]bool)

	// Handler looks up the extension handler for (role, env, ext); the
	// bool is false when no handler is registered.
	Handler(role Role, env Environment, ext string) (Handler, bool)
	// Extensions lists every extension this package has registered a
	// handler for, across all role/environment combinations.
	Extensions() []string

	SourceRoot() string
	ServeRoot() string

	// NativeModuleDeps are the package-managed native-module dependencies
	// this package declares.
	NativeModuleDeps() []CVOptions
	Installer() NativeModuleInstaller
}

// PackageLoader resolves package names to Package handles, per spec.md §6's
// external-collaborator contract. Implementations may load from local disk
// or from a pinned release warehouse.
type PackageLoader interface {
	// Get resolves name to a Package, given the active release manifest
	// and the application directory (used to find locally-linked
	// packages).
	Get(name, releaseManifest, appDir string) (Package, error)
	// GetForApp loads the unnamed application package rooted at dir.
	GetForApp(dir string, ignore util.IgnoreList) (Package, error)
	// Flush clears any process-wide memoized state.
	Flush()
}
