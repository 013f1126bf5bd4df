package loader

import (
	"sort"

	"github.com/SUSE/fullstack-bundler/model"
)

// descriptorPackage adapts a parsed Descriptor into a model.Package. It is
// immutable except for the one sanctioned mutation (SetExports), matching
// spec.md §3's Package contract.
type descriptorPackage struct {
	desc Descriptor
	app  bool

	exports  map[model.Role]map[model.Environment]map[string]bool
	unordered map[string]bool
}

func newDescriptorPackage(desc Descriptor, app bool) *descriptorPackage {
	unordered := make(map[string]bool, len(desc.Unordered))
	for _, name := range desc.Unordered {
		unordered[name] = true
	}
	return &descriptorPackage{
		desc:      desc,
		app:       app,
		exports:   map[model.Role]map[model.Environment]map[string]bool{},
		unordered: unordered,
	}
}

func (p *descriptorPackage) ID() string {
	if p.app {
		return "app"
	}
	return "pkg:" + p.desc.Name
}

func (p *descriptorPackage) Name() string       { return p.desc.Name }
func (p *descriptorPackage) IsApplication() bool { return p.app }

func (p *descriptorPackage) Uses(role model.Role, env model.Environment) []string {
	return stringList(p.desc.Uses, role, env)
}

func (p *descriptorPackage) Sources(role model.Role, env model.Environment) []string {
	return stringList(p.desc.Sources, role, env)
}

func stringList(table map[string]map[string][]string, role model.Role, env model.Environment) []string {
	if table == nil {
		return nil
	}
	byEnv, ok := table[string(role)]
	if !ok {
		return nil
	}
	return byEnv[string(env)]
}

func (p *descriptorPackage) Unordered(name string) bool { return p.unordered[name] }

func (p *descriptorPackage) Exports(role model.Role, env model.Environment) map[string]bool {
	if p.exports[role] == nil {
		return nil
	}
	return p.exports[role][env]
}

func (p *descriptorPackage) SetExports(role model.Role, env model.Environment, exports map[string]bool) {
	if p.exports[role] == nil {
		p.exports[role] = map[model.Environment]map[string]bool{}
	}
	p.exports[role][env] = exports
}

// Handler looks up a built-in handler by extension. Descriptor packages
// carry no executable code of their own, so extension dispatch is a fixed,
// conventional mapping rather than something a descriptor declares.
func (p *descriptorPackage) Handler(_ model.Role, _ model.Environment, ext string) (model.Handler, bool) {
	h, ok := defaultHandlers[ext]
	return h, ok
}

func (p *descriptorPackage) Extensions() []string {
	exts := make([]string, 0, len(defaultHandlers))
	for ext := range defaultHandlers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func (p *descriptorPackage) SourceRoot() string { return p.desc.SourceRoot }
func (p *descriptorPackage) ServeRoot() string  { return p.desc.ServeRoot }

func (p *descriptorPackage) NativeModuleDeps() []model.CVOptions { return p.desc.NativeDeps }
func (p *descriptorPackage) Installer() model.NativeModuleInstaller { return nil }
