package compiler_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SUSE/fullstack-bundler/compiler"
	"github.com/SUSE/fullstack-bundler/internal/bundletest"
	"github.com/SUSE/fullstack-bundler/model"
)

func newFS(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for p, content := range files {
		require.NoError(t, afero.WriteFile(fs, p, []byte(content), 0644))
	}
	return fs
}

func TestCompileStaticFallback(t *testing.T) {
	fs := newFS(t, map[string]string{"/src/logo.png": "binarydata"})

	pkg := bundletest.New("pkg:A", "A").WithSources(model.RoleUse, model.EnvClient, "logo.png")
	pkg.SourceRootField = "/src"
	pkg.ServeRootField = "/packages/A"

	bundle := model.NewBundle("/app", "none", "none")
	pbr := bundle.GetOrCreatePBR(pkg, model.RoleUse)
	pbr.Presence[model.EnvClient] = true
	bundle.PBRsByOrder = []*model.PBR{pbr}

	c := compiler.New(fs)
	require.NoError(t, c.Compile(bundle))

	resources := pbr.Resources[model.EnvClient]
	require.Len(t, resources, 1)
	assert.Equal(t, model.ResourceStatic, resources[0].Type)
	assert.Equal(t, "/packages/A/logo.png", resources[0].ServePath)
	assert.Equal(t, "binarydata", string(resources[0].Data))
	assert.Contains(t, pbr.Deps, "logo.png")
}

func TestCompileInvokesHandler(t *testing.T) {
	fs := newFS(t, map[string]string{"/src/app.js": "console.log(1)"})

	var sawEnv model.Environment
	handler := func(emit model.Emitter, sourcePath, servePath string, env model.Environment) error {
		sawEnv = env
		return emit.Emit(model.EmitConfig{
			Type:       model.ResourceJS,
			Path:       servePath,
			SourceFile: sourcePath,
		})
	}

	pkg := bundletest.New("pkg:A", "A").
		WithSources(model.RoleUse, model.EnvClient, "app.js").
		WithHandler(model.RoleUse, model.EnvClient, "js", handler)
	pkg.SourceRootField = "/src"
	pkg.ServeRootField = "/packages/A"

	bundle := model.NewBundle("/app", "none", "none")
	pbr := bundle.GetOrCreatePBR(pkg, model.RoleUse)
	pbr.Presence[model.EnvClient] = true
	bundle.PBRsByOrder = []*model.PBR{pbr}

	c := compiler.New(fs)
	require.NoError(t, c.Compile(bundle))

	assert.Equal(t, model.EnvClient, sawEnv)
	resources := pbr.Resources[model.EnvClient]
	require.Len(t, resources, 1)
	assert.Equal(t, model.ResourceJS, resources[0].Type)
	assert.Equal(t, "console.log(1)", string(resources[0].Data))
}

func TestEmitHeadFragmentRejectsServerEnv(t *testing.T) {
	fs := afero.NewMemMapFs()
	handler := func(emit model.Emitter, sourcePath, servePath string, env model.Environment) error {
		return emit.Emit(model.EmitConfig{
			Type:  model.ResourceHead,
			Where: []model.Environment{model.EnvServer},
			Data:  "<meta>",
		})
	}

	pkg := bundletest.New("pkg:A", "A").
		WithSources(model.RoleUse, model.EnvServer, "meta.tmpl").
		WithHandler(model.RoleUse, model.EnvServer, "tmpl", handler)
	pkg.SourceRootField = "/src"
	pkg.ServeRootField = "/packages/A"

	bundle := model.NewBundle("/app", "none", "none")
	pbr := bundle.GetOrCreatePBR(pkg, model.RoleUse)
	pbr.Presence[model.EnvServer] = true
	bundle.PBRsByOrder = []*model.PBR{pbr}

	c := compiler.New(fs)
	err := c.Compile(bundle)
	require.Error(t, err)
}

func TestEmitDataAsRawBytes(t *testing.T) {
	fs := afero.NewMemMapFs()
	handler := func(emit model.Emitter, sourcePath, servePath string, env model.Environment) error {
		return emit.Emit(model.EmitConfig{
			Type: model.ResourceCSS,
			Path: servePath,
			Data: []byte("body{}"),
		})
	}

	pkg := bundletest.New("pkg:A", "A").
		WithSources(model.RoleUse, model.EnvClient, "style.scss").
		WithHandler(model.RoleUse, model.EnvClient, "scss", handler)
	pkg.SourceRootField = "/src"
	pkg.ServeRootField = "/packages/A"

	bundle := model.NewBundle("/app", "none", "none")
	pbr := bundle.GetOrCreatePBR(pkg, model.RoleUse)
	pbr.Presence[model.EnvClient] = true
	bundle.PBRsByOrder = []*model.PBR{pbr}

	c := compiler.New(fs)
	require.NoError(t, c.Compile(bundle))

	resources := pbr.Resources[model.EnvClient]
	require.Len(t, resources, 1)
	assert.Equal(t, "body{}", string(resources[0].Data))
}
