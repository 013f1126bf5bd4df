// Package compiler implements the Source Compiler (C5): it routes each
// PBR's declared source files through their registered extension handler,
// falling back to a static resource for unrecognized extensions.
package compiler

import (
	"path"
	"strings"

	"github.com/spf13/afero"

	"github.com/SUSE/fullstack-bundler/model"
	"github.com/SUSE/fullstack-bundler/validation"
)

// Compiler drives C5 against an injectable filesystem, so tests run
// entirely against afero.NewMemMapFs() with no real I/O.
type Compiler struct {
	FS afero.Fs
}

// New builds a Compiler reading source files from fs.
func New(fs afero.Fs) *Compiler {
	return &Compiler{FS: fs}
}

// Compile walks every PBR in bundle.PBRsByOrder (C4 must have already run)
// and, for each environment where the PBR is present, compiles its declared
// sources in order.
func (c *Compiler) Compile(bundle *model.Bundle) error {
	for _, pbr := range bundle.PBRsByOrder {
		for _, env := range model.Environments {
			if !pbr.Presence[env] {
				continue
			}
			if err := c.compilePBR(pbr, env); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Compiler) compilePBR(pbr *model.PBR, env model.Environment) error {
	pkg := pbr.Package
	for _, relPath := range pkg.Sources(pbr.Role, env) {
		ext := extensionOf(relPath)
		sourcePath := path.Join(pkg.SourceRoot(), relPath)
		servePath := path.Join(pkg.ServeRoot(), relPath)

		handler, ok := pkg.Handler(pbr.Role, env, ext)
		if !ok {
			data, err := afero.ReadFile(c.FS, sourcePath)
			if err != nil {
				return validation.ErrorList{validation.IOError(sourcePath, err)}
			}
			pbr.AddResource(env, model.NewStaticResource(servePath, data))
			pbr.AddDep(relPath)
			continue
		}

		emitter := &pbrEmitter{fs: c.FS, pbr: pbr, defaultPath: servePath}
		if err := handler(emitter, sourcePath, servePath, env); err != nil {
			return validation.ErrorList{validation.HandlerError(pkg.ID(), ext, err)}
		}
		pbr.AddDep(relPath)
	}
	return nil
}

func extensionOf(relPath string) string {
	ext := path.Ext(relPath)
	return strings.TrimPrefix(ext, ".")
}

// pbrEmitter is the model.Emitter a Handler uses to append Resources to its
// invoking PBR, per spec.md §4.3's emit-interface contract.
type pbrEmitter struct {
	fs          afero.Fs
	pbr         *model.PBR
	defaultPath string
}

func (e *pbrEmitter) Emit(cfg model.EmitConfig) error {
	isFragment := cfg.Type == model.ResourceHead || cfg.Type == model.ResourceBody

	if cfg.Path == "" && !isFragment {
		cfg.Path = e.defaultPath
	}
	if !isFragment && cfg.Path == "" {
		return validation.ErrorList{validation.HandlerError("", string(cfg.Type),
			errMissingPath)}
	}

	data, err := resolveData(e.fs, cfg)
	if err != nil {
		return err
	}

	where := cfg.Where
	if len(where) == 0 {
		where = model.Environments
	}
	for _, env := range where {
		if isFragment && env != model.EnvClient {
			return validation.ErrorList{validation.ResourceTypeError(e.pbr.Key().PackageID, string(cfg.Type))}
		}
		e.pbr.AddResource(env, model.Resource{
			Type:      cfg.Type,
			Data:      data,
			ServePath: cfg.Path,
		})
	}
	return nil
}

// resolveData determines a Resource's byte payload per spec.md §4.3: data
// wins if set (string encoded as UTF-8); otherwise source_file is read from
// disk, defaulting source_file to path.
func resolveData(fs afero.Fs, cfg model.EmitConfig) ([]byte, error) {
	switch v := cfg.Data.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	case nil:
		sourceFile := cfg.SourceFile
		if sourceFile == "" {
			sourceFile = cfg.Path
		}
		data, err := afero.ReadFile(fs, sourceFile)
		if err != nil {
			return nil, validation.ErrorList{validation.IOError(sourceFile, err)}
		}
		return data, nil
	default:
		return nil, validation.ErrorList{validation.HandlerError("", "", errBadDataType)}
	}
}

type emitError string

func (e emitError) Error() string { return string(e) }

const (
	errMissingPath = emitError("emit: path is mandatory except for head/body resources")
	errBadDataType = emitError("emit: data must be []byte, string, or unset")
)
