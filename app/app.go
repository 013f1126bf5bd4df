// Package app implements the Bundle Orchestrator (C10): the top-level
// driver that wires C3 through C9 together and turns any failure into
// spec.md §6's entry-point contract — a non-empty ordered list of
// human-readable error strings, or nil on success.
package app

import (
	"fmt"
	"path/filepath"

	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/SUSE/fullstack-bundler/aggregator"
	"github.com/SUSE/fullstack-bundler/compiler"
	"github.com/SUSE/fullstack-bundler/linker"
	"github.com/SUSE/fullstack-bundler/loadorder"
	"github.com/SUSE/fullstack-bundler/minifier"
	"github.com/SUSE/fullstack-bundler/model"
	"github.com/SUSE/fullstack-bundler/nativemodules"
	"github.com/SUSE/fullstack-bundler/resolver"
	"github.com/SUSE/fullstack-bundler/util"
	"github.com/SUSE/fullstack-bundler/validation"
	"github.com/SUSE/fullstack-bundler/writer"
)

// Options is the bundling entry-point's options record, per spec.md §6.
// Release and NodeModulesMode are required; a missing required option is a
// configuration error — a programming-precondition violation raised
// directly, not folded into the returned error-string list.
type Options struct {
	Release         string
	NodeModulesMode writer.NodeModulesMode
	TestPackages    []string
	NoMinify        bool
}

// Validate checks Options' required fields, per spec.md §7's configuration
// error category.
func (o Options) Validate() error {
	if o.Release == "" {
		return errors.New("configuration error: release is required")
	}
	switch o.NodeModulesMode {
	case writer.NodeModulesSkip, writer.NodeModulesCopy, writer.NodeModulesSymlink:
	default:
		return errors.Errorf("configuration error: nodeModulesMode must be one of skip|copy|symlink, got %q", o.NodeModulesMode)
	}
	return nil
}

// Bundler wires together the concrete collaborators for one bundler
// installation: the package loader, linker, minifiers, template expander,
// and platform paths. Construct one per process (or per test) and call
// Bundle for each application directory to build.
type Bundler struct {
	FS     afero.Fs
	Loader model.PackageLoader
	Linker linker.Linker

	JSMinifier  minifier.JSMinifier
	CSSMinifier minifier.CSSMinifier
	Expand      func(tpl string, values map[string]interface{}) (string, error)

	Ignore util.IgnoreList

	ReleaseManifest string

	ServerRuntimeDir          string
	PlatformNodeModules       string
	PlatformBundleVersionFile string
	AppHTMLTemplate           string

	StrictServerCSS bool

	// Logger defaults to logrus.StandardLogger() when nil.
	Logger *logrus.Logger
}

func (b *Bundler) logger() *logrus.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return logrus.StandardLogger()
}

// Bundle executes C3 through C9 against appDir, writing the result to
// outputPath. Returns nil on success; otherwise a non-empty ordered list of
// human-readable error strings (spec.md §6). Any panic inside a stage is
// recovered and reported the same way, as a single string that carries the
// stack trace captured via github.com/pkg/errors.
func (b *Bundler) Bundle(appDir, outputPath string, opts Options) (errStrings []string) {
	log := b.logger()

	if err := opts.Validate(); err != nil {
		// Configuration errors are a programming precondition violation,
		// not a bundling failure: panic rather than returning the
		// ordinary error-list shape, matching spec.md §7's category 1.
		panic(err)
	}

	defer func() {
		if r := recover(); r != nil {
			err := errors.Errorf("panic during bundling: %v", r)
			log.WithError(err).Error("bundle failed")
			errStrings = []string{fmt.Sprintf("%+v", err)}
		}
	}()

	b.Loader.Flush()
	log.Debug("flushed package loader cache")

	bundle, errStrings := b.resolveAndOrder(appDir, opts)
	if errStrings != nil {
		return errStrings
	}

	// A random suffix, not the fixed build-area name spec.md §4.7 step 1
	// mandates for the output path itself, keeps concurrent bundler runs
	// against the same output from racing over one scratch directory.
	scratchSuffix, err := uuid.NewV4()
	if err != nil {
		return wrap(err, "generating scratch directory suffix")
	}
	scratchDir := filepath.Join(filepath.Dir(outputPath), ".native-modules."+scratchSuffix.String())
	if err := nativemodules.Prepare(b.FS, bundle, scratchDir); err != nil {
		return wrap(err, "preparing native modules")
	}

	comp := compiler.New(b.FS)
	if err := comp.Compile(bundle); err != nil {
		return wrap(err, "compiling sources")
	}

	link := linker.New(b.Loader, opts.Release, b.Linker)
	if err := link.Run(bundle); err != nil {
		return wrap(err, "linking")
	}

	if err := aggregator.Aggregate(bundle, aggregator.Options{StrictServerCSS: b.StrictServerCSS}); err != nil {
		return wrap(err, "aggregating resources")
	}

	if !opts.NoMinify {
		if err := minifier.Run(bundle, minifier.Options{JS: b.JSMinifier, CSS: b.CSSMinifier}); err != nil {
			return wrap(err, "minifying")
		}
	}

	w := writer.New(writer.Config{
		FS:                        b.FS,
		Expand:                    b.Expand,
		Ignore:                    b.Ignore,
		ServerRuntimeDir:          b.ServerRuntimeDir,
		PlatformNodeModules:       b.PlatformNodeModules,
		PlatformBundleVersionFile: b.PlatformBundleVersionFile,
		NodeModulesMode:           writer.NodeModulesMode(opts.NodeModulesMode),
		PublicDir:                 publicDir(appDir, b.FS),
		AppHTMLTemplate:           b.AppHTMLTemplate,
	})
	if err := w.Write(bundle, outputPath); err != nil {
		return wrap(err, "writing bundle")
	}

	for _, bundleErr := range bundle.Errors {
		errStrings = append(errStrings, bundleErr.Error())
	}

	log.Debug("bundle written successfully")
	return errStrings
}

// Validate runs dependency resolution and load-order computation only —
// the fast feedback path exposed as `bundle validate`, skipping
// compilation, linking, aggregation, minification, and writing.
func (b *Bundler) Validate(appDir string, opts Options) (errStrings []string) {
	log := b.logger()

	if err := opts.Validate(); err != nil {
		panic(err)
	}

	defer func() {
		if r := recover(); r != nil {
			err := errors.Errorf("panic during validation: %v", r)
			log.WithError(err).Error("validation failed")
			errStrings = []string{err.Error()}
		}
	}()

	b.Loader.Flush()
	_, errStrings = b.resolveAndOrder(appDir, opts)
	return errStrings
}

// resolveAndOrder loads the application package, runs the resolver (C3)
// and the load orderer (C4), and returns the populated Bundle. A non-nil
// errStrings return means resolution failed and bundle should be ignored.
func (b *Bundler) resolveAndOrder(appDir string, opts Options) (*model.Bundle, []string) {
	log := b.logger()
	bundle := model.NewBundle(appDir, b.ReleaseManifest, opts.Release)

	appPkg, err := b.Loader.GetForApp(appDir, b.Ignore)
	if err != nil {
		return nil, wrap(err, "loading application package")
	}

	roots, err := b.roots(appPkg, opts)
	if err != nil {
		return nil, wrap(err, "computing bundle roots")
	}

	res := resolver.New(b.Loader, b.ReleaseManifest)
	if err := res.Resolve(bundle, roots); err != nil {
		return nil, wrap(err, "resolving dependencies")
	}
	log.Debugf("resolved %d PBRs", len(bundle.AllPBRs()))

	if err := loadorder.Order(bundle); err != nil {
		return nil, wrap(err, "computing load order")
	}
	log.Debugf("load order has %d PBRs", len(bundle.PBRsByOrder))

	return bundle, nil
}

// roots computes the resolver's root set: the application itself, always
// role=use, in both environments, plus one root per
// name in opts.TestPackages at role=test, server+client.
func (b *Bundler) roots(appPkg model.Package, opts Options) ([]resolver.Root, error) {
	roots := []resolver.Root{
		{Package: appPkg, Role: model.RoleUse, Env: model.EnvClient},
		{Package: appPkg, Role: model.RoleUse, Env: model.EnvServer},
	}

	for _, name := range opts.TestPackages {
		pkg, err := b.Loader.Get(name, b.ReleaseManifest, "")
		if err != nil {
			return nil, validation.ErrorList{validation.ResolutionError(name)}
		}
		roots = append(roots,
			resolver.Root{Package: pkg, Role: model.RoleTest, Env: model.EnvClient},
			resolver.Root{Package: pkg, Role: model.RoleTest, Env: model.EnvServer},
		)
	}
	return roots, nil
}

func publicDir(appDir string, fs afero.Fs) string {
	dir := filepath.Join(appDir, "public")
	if ok, _ := afero.DirExists(fs, dir); ok {
		return dir
	}
	return ""
}

// wrap flattens a validation.ErrorList into one context-prefixed string per
// contained error. Any other error is wrapped with context and a stack
// trace via github.com/pkg/errors and returned as a single string that
// includes that stack trace.
func wrap(err error, context string) []string {
	wrapped := errors.Wrap(err, context)
	if list, ok := err.(validation.ErrorList); ok {
		out := make([]string, 0, len(list))
		for _, e := range list {
			out = append(out, fmt.Sprintf("%s: %s", context, e.Error()))
		}
		return out
	}
	return []string{fmt.Sprintf("%+v", wrapped)}
}
