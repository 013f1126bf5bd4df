package aggregator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SUSE/fullstack-bundler/aggregator"
	"github.com/SUSE/fullstack-bundler/internal/bundletest"
	"github.com/SUSE/fullstack-bundler/model"
)

func newBundleWithPBR(t *testing.T, env model.Environment, resources ...model.Resource) (*model.Bundle, *model.PBR) {
	t.Helper()
	pkg := bundletest.New("pkg:A", "A")
	bundle := model.NewBundle("/app", "none", "none")
	pbr := bundle.GetOrCreatePBR(pkg, model.RoleUse)
	pbr.Presence[env] = true
	for _, r := range resources {
		pbr.AddResource(env, r)
	}
	bundle.PBRsByOrder = []*model.PBR{pbr}
	return bundle, pbr
}

func TestAggregateJSAndCSS(t *testing.T) {
	bundle, _ := newBundleWithPBR(t, model.EnvClient,
		model.Resource{Type: model.ResourceJS, Data: []byte("js"), ServePath: "/a.js"},
		model.Resource{Type: model.ResourceCSS, Data: []byte("css"), ServePath: "/a.css"},
	)
	require.NoError(t, aggregator.Aggregate(bundle, aggregator.Options{}))

	assert.Equal(t, []string{"/a.js"}, bundle.JS[model.EnvClient])
	assert.Equal(t, []string{"/a.css"}, bundle.CSS)
	assert.Equal(t, []byte("js"), bundle.Files[model.EnvClient]["/a.js"])
	assert.Equal(t, []byte("css"), bundle.Files[model.EnvClient]["/a.css"])
}

func TestServerCSSSilentlyDropped(t *testing.T) {
	// P7/I5.
	bundle, _ := newBundleWithPBR(t, model.EnvServer,
		model.Resource{Type: model.ResourceCSS, Data: []byte("css"), ServePath: "/a.css"},
	)
	require.NoError(t, aggregator.Aggregate(bundle, aggregator.Options{}))
	assert.Empty(t, bundle.CSS)
	assert.Empty(t, bundle.Files[model.EnvServer])
}

func TestServerCSSStrictModeErrors(t *testing.T) {
	bundle, _ := newBundleWithPBR(t, model.EnvServer,
		model.Resource{Type: model.ResourceCSS, Data: []byte("css"), ServePath: "/a.css"},
	)
	err := aggregator.Aggregate(bundle, aggregator.Options{StrictServerCSS: true})
	require.Error(t, err)
}

func TestHeadBodyFragmentsMustBeClient(t *testing.T) {
	bundle, _ := newBundleWithPBR(t, model.EnvServer,
		model.Resource{Type: model.ResourceHead, Data: []byte("<meta>")},
	)
	err := aggregator.Aggregate(bundle, aggregator.Options{})
	require.Error(t, err)
}

func TestHeadBodyOrderPreserved(t *testing.T) {
	bundle, _ := newBundleWithPBR(t, model.EnvClient,
		model.Resource{Type: model.ResourceHead, Data: []byte("<meta one>")},
		model.Resource{Type: model.ResourceBody, Data: []byte("<div one>")},
	)
	require.NoError(t, aggregator.Aggregate(bundle, aggregator.Options{}))
	assert.Equal(t, []string{"<meta one>"}, bundle.Head)
	assert.Equal(t, []string{"<div one>"}, bundle.Body)
}

func TestConflictingServePathIsFatal(t *testing.T) {
	bundle, _ := newBundleWithPBR(t, model.EnvClient,
		model.Resource{Type: model.ResourceStatic, Data: []byte("one"), ServePath: "/dup.txt"},
		model.Resource{Type: model.ResourceStatic, Data: []byte("two"), ServePath: "/dup.txt"},
	)
	err := aggregator.Aggregate(bundle, aggregator.Options{})
	require.Error(t, err)
}
