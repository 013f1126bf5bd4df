package loadorder_test

import (
	"testing"

	"github.com/SUSE/fullstack-bundler/internal/bundletest"
	"github.com/SUSE/fullstack-bundler/loadorder"
	"github.com/SUSE/fullstack-bundler/model"
	"github.com/SUSE/fullstack-bundler/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func indexOf(pbrs []*model.PBR, id string) int {
	for i, pbr := range pbrs {
		if pbr.Package.ID() == id {
			return i
		}
	}
	return -1
}

func TestOrderIsTopological(t *testing.T) {
	// P1 / S2: app -> B -> A must emit A before B before app.
	pkgA := bundletest.New("pkg:A", "A")
	pkgB := bundletest.New("pkg:B", "B").WithUses(model.RoleUse, model.EnvClient, "A")
	app := bundletest.New("pkg:app", "").WithUses(model.RoleUse, model.EnvClient, "B")

	loader := bundletest.NewLoader().Register(pkgA).Register(pkgB)
	bundle := model.NewBundle("/app", "none", "none")
	r := resolver.New(loader, "none")
	require.NoError(t, r.Resolve(bundle, []resolver.Root{
		{Package: app, Role: model.RoleUse, Env: model.EnvClient},
	}))

	require.NoError(t, loadorder.Order(bundle))

	order := bundle.PBRsByOrder
	require.Len(t, order, 3)
	assert.Less(t, indexOf(order, "pkg:A"), indexOf(order, "pkg:B"))
	assert.Less(t, indexOf(order, "pkg:B"), indexOf(order, "pkg:app"))
}

func TestOrderDetectsCycle(t *testing.T) {
	// S3: A uses B, B uses A — a genuine ordered cycle.
	pkgA := bundletest.New("pkg:A", "A").WithUses(model.RoleUse, model.EnvClient, "B")
	pkgB := bundletest.New("pkg:B", "B").WithUses(model.RoleUse, model.EnvClient, "A")

	loader := bundletest.NewLoader().Register(pkgA).Register(pkgB)
	bundle := model.NewBundle("/app", "none", "none")
	r := resolver.New(loader, "none")
	require.NoError(t, r.Resolve(bundle, []resolver.Root{
		{Package: pkgA, Role: model.RoleUse, Env: model.EnvClient},
	}))

	err := loadorder.Order(bundle)
	require.Error(t, err)
}

func TestUnorderedEdgeBreaksCycle(t *testing.T) {
	// S4/P4: A uses B (unordered), B uses A (ordered) — no cycle because
	// A->B is excluded from ordering, leaving only B->A.
	pkgA := bundletest.New("pkg:A", "A").
		WithUses(model.RoleUse, model.EnvClient, "B").
		WithUnordered("B")
	pkgB := bundletest.New("pkg:B", "B").WithUses(model.RoleUse, model.EnvClient, "A")

	loader := bundletest.NewLoader().Register(pkgA).Register(pkgB)
	bundle := model.NewBundle("/app", "none", "none")
	r := resolver.New(loader, "none")
	require.NoError(t, r.Resolve(bundle, []resolver.Root{
		{Package: pkgA, Role: model.RoleUse, Env: model.EnvClient},
	}))

	require.NoError(t, loadorder.Order(bundle))
	order := bundle.PBRsByOrder
	require.Len(t, order, 2)
	assert.Less(t, indexOf(order, "pkg:A"), indexOf(order, "pkg:B"))
}
