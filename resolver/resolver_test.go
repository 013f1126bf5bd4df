package resolver_test

import (
	"testing"

	"github.com/SUSE/fullstack-bundler/internal/bundletest"
	"github.com/SUSE/fullstack-bundler/model"
	"github.com/SUSE/fullstack-bundler/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLinearChain(t *testing.T) {
	// S2: app uses B (client only), B uses A.
	pkgA := bundletest.New("pkg:A", "A")
	pkgB := bundletest.New("pkg:B", "B").WithUses(model.RoleUse, model.EnvClient, "A")
	app := bundletest.New("pkg:app", "").WithUses(model.RoleUse, model.EnvClient, "B")

	loader := bundletest.NewLoader().Register(pkgA).Register(pkgB)
	loader.AppPkg = app

	bundle := model.NewBundle("/app", "none", "none")
	r := resolver.New(loader, "none")

	err := r.Resolve(bundle, []resolver.Root{
		{Package: app, Role: model.RoleUse, Env: model.EnvClient},
	})
	require.NoError(t, err)

	for _, pkg := range []model.Package{pkgA, pkgB, app} {
		pbr, ok := bundle.Lookup(model.RoleUse, pkg.ID())
		require.True(t, ok, "expected a PBR for %s", pkg.Name())
		assert.True(t, pbr.Presence[model.EnvClient])
		assert.False(t, pbr.Presence[model.EnvServer])
	}
}

func TestResolveMissingPackageIsFatal(t *testing.T) {
	app := bundletest.New("pkg:app", "").WithUses(model.RoleUse, model.EnvClient, "missing")
	loader := bundletest.NewLoader()
	loader.AppPkg = app

	bundle := model.NewBundle("/app", "none", "none")
	r := resolver.New(loader, "none")

	err := r.Resolve(bundle, []resolver.Root{
		{Package: app, Role: model.RoleUse, Env: model.EnvClient},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestTestRoleDependenciesAreAlwaysUseRole(t *testing.T) {
	// S5: testPackages=[A] where A uses production package B.
	pkgB := bundletest.New("pkg:B", "B")
	pkgA := bundletest.New("pkg:A", "A").WithUses(model.RoleUse, model.EnvServer, "B")

	loader := bundletest.NewLoader().Register(pkgB).Register(pkgA)

	bundle := model.NewBundle("/app", "none", "none")
	r := resolver.New(loader, "none")

	err := r.Resolve(bundle, []resolver.Root{
		{Package: pkgA, Role: model.RoleTest, Env: model.EnvServer},
	})
	require.NoError(t, err)

	_, ok := bundle.Lookup(model.RoleTest, pkgA.ID())
	assert.True(t, ok)
	_, ok = bundle.Lookup(model.RoleUse, pkgB.ID())
	assert.True(t, ok, "B must be reached with role=use even though A was a test root")
	_, ok = bundle.Lookup(model.RoleTest, pkgB.ID())
	assert.False(t, ok, "B must never be reached with role=test")
}

func TestUnorderedEdgesAreStillReachable(t *testing.T) {
	// P4: unordered does not prune reachability, only ordering.
	pkgB := bundletest.New("pkg:B", "B")
	pkgA := bundletest.New("pkg:A", "A").
		WithUses(model.RoleUse, model.EnvClient, "B").
		WithUnordered("B")

	loader := bundletest.NewLoader().Register(pkgA).Register(pkgB)
	bundle := model.NewBundle("/app", "none", "none")
	r := resolver.New(loader, "none")

	err := r.Resolve(bundle, []resolver.Root{
		{Package: pkgA, Role: model.RoleUse, Env: model.EnvClient},
	})
	require.NoError(t, err)

	_, ok := bundle.Lookup(model.RoleUse, pkgB.ID())
	assert.True(t, ok)
}
