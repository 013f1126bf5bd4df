// Package bundletest provides small, in-memory model.Package and
// model.PackageLoader fakes shared by every pipeline stage's tests, so each
// package's test file doesn't have to reinvent a fixture Package.
package bundletest

import (
	"fmt"
	"strings"

	"github.com/SUSE/fullstack-bundler/model"
	"github.com/SUSE/fullstack-bundler/util"
)

// Package is a fully in-memory model.Package for tests.
type Package struct {
	IDField   string
	NameField string
	App       bool

	UsesMap    map[model.Role]map[model.Environment][]string
	SourcesMap map[model.Role]map[model.Environment][]string
	Unorder    map[string]bool
	ExportsMap map[model.Role]map[model.Environment]map[string]bool
	Handlers   map[string]model.Handler

	SourceRootField string
	ServeRootField  string

	NativeDeps []model.CVOptions
	InstallFn  model.NativeModuleInstaller
}

// New builds an empty Package fixture identified by name (pass "" for the
// application package).
func New(id, name string) *Package {
	return &Package{
		IDField:    id,
		NameField:  name,
		App:        name == "",
		UsesMap:    map[model.Role]map[model.Environment][]string{},
		SourcesMap: map[model.Role]map[model.Environment][]string{},
		Unorder:    map[string]bool{},
		ExportsMap: map[model.Role]map[model.Environment]map[string]bool{},
		Handlers:   map[string]model.Handler{},
	}
}

// WithUses records a `uses` edge for (role, env).
func (p *Package) WithUses(role model.Role, env model.Environment, names ...string) *Package {
	if p.UsesMap[role] == nil {
		p.UsesMap[role] = map[model.Environment][]string{}
	}
	p.UsesMap[role][env] = append(p.UsesMap[role][env], names...)
	return p
}

// WithSources records source-relative paths for (role, env).
func (p *Package) WithSources(role model.Role, env model.Environment, paths ...string) *Package {
	if p.SourcesMap[role] == nil {
		p.SourcesMap[role] = map[model.Environment][]string{}
	}
	p.SourcesMap[role][env] = append(p.SourcesMap[role][env], paths...)
	return p
}

// WithUnordered marks name's `uses` edge as unordered.
func (p *Package) WithUnordered(name string) *Package {
	p.Unorder[name] = true
	return p
}

// WithExports declares (role, env)'s export set.
func (p *Package) WithExports(role model.Role, env model.Environment, symbols ...string) *Package {
	if p.ExportsMap[role] == nil {
		p.ExportsMap[role] = map[model.Environment]map[string]bool{}
	}
	set := map[string]bool{}
	for _, s := range symbols {
		set[s] = true
	}
	p.ExportsMap[role][env] = set
	return p
}

// WithHandler registers ext's handler for (role, env).
func (p *Package) WithHandler(role model.Role, env model.Environment, ext string, h model.Handler) *Package {
	p.Handlers[handlerKey(role, env, ext)] = h
	return p
}

func handlerKey(role model.Role, env model.Environment, ext string) string {
	return fmt.Sprintf("%s:%s:%s", role, env, ext)
}

func (p *Package) ID() string         { return p.IDField }
func (p *Package) Name() string       { return p.NameField }
func (p *Package) IsApplication() bool { return p.App }

func (p *Package) Uses(role model.Role, env model.Environment) []string {
	return p.UsesMap[role][env]
}

func (p *Package) Sources(role model.Role, env model.Environment) []string {
	return p.SourcesMap[role][env]
}

func (p *Package) Unordered(name string) bool { return p.Unorder[name] }

func (p *Package) Exports(role model.Role, env model.Environment) map[string]bool {
	if p.ExportsMap[role] == nil {
		return nil
	}
	return p.ExportsMap[role][env]
}

func (p *Package) SetExports(role model.Role, env model.Environment, exports map[string]bool) {
	if p.ExportsMap[role] == nil {
		p.ExportsMap[role] = map[model.Environment]map[string]bool{}
	}
	p.ExportsMap[role][env] = exports
}

func (p *Package) Handler(role model.Role, env model.Environment, ext string) (model.Handler, bool) {
	h, ok := p.Handlers[handlerKey(role, env, ext)]
	return h, ok
}

func (p *Package) Extensions() []string {
	seen := map[string]bool{}
	var out []string
	for key := range p.Handlers {
		parts := strings.SplitN(key, ":", 3)
		ext := parts[len(parts)-1]
		if !seen[ext] {
			seen[ext] = true
			out = append(out, ext)
		}
	}
	return out
}

func (p *Package) SourceRoot() string { return p.SourceRootField }
func (p *Package) ServeRoot() string  { return p.ServeRootField }

func (p *Package) NativeModuleDeps() []model.CVOptions     { return p.NativeDeps }
func (p *Package) Installer() model.NativeModuleInstaller { return p.InstallFn }

// Loader is an in-memory model.PackageLoader for tests.
type Loader struct {
	Packages map[string]model.Package
	AppPkg   model.Package
}

// NewLoader builds a Loader with no registered packages.
func NewLoader() *Loader {
	return &Loader{Packages: map[string]model.Package{}}
}

// Register adds pkg under its own name for future Get lookups.
func (l *Loader) Register(pkg *Package) *Loader {
	l.Packages[pkg.Name()] = pkg
	return l
}

func (l *Loader) Get(name, _, _ string) (model.Package, error) {
	pkg, ok := l.Packages[name]
	if !ok {
		return nil, fmt.Errorf("package %q not found", name)
	}
	return pkg, nil
}

func (l *Loader) GetForApp(_ string, _ util.IgnoreList) (model.Package, error) {
	return l.AppPkg, nil
}

func (l *Loader) Flush() {}
