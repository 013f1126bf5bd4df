package loader

import "github.com/SUSE/fullstack-bundler/model"

// defaultHandlers is the conventional extension-dispatch table every
// descriptor-backed package shares: .js files compile to js resources,
// .css to css resources, source bytes read straight from disk. Anything
// else falls through to the compiler's static-resource default.
var defaultHandlers = map[string]model.Handler{
	"js":  typedSourceHandler(model.ResourceJS),
	"css": typedSourceHandler(model.ResourceCSS),
}

// typedSourceHandler builds a Handler that emits the source file's raw
// bytes as a single Resource of the given type into its own environment.
func typedSourceHandler(t model.ResourceType) model.Handler {
	return func(emit model.Emitter, sourcePath, servePath string, env model.Environment) error {
		return emit.Emit(model.EmitConfig{
			Type:       t,
			Where:      []model.Environment{env},
			Path:       servePath,
			SourceFile: sourcePath,
		})
	}
}
