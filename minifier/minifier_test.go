package minifier_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SUSE/fullstack-bundler/minifier"
	"github.com/SUSE/fullstack-bundler/model"
)

func newBundleWithClientJSAndCSS() *model.Bundle {
	bundle := model.NewBundle("/app", "none", "none")
	bundle.Files[model.EnvClient]["/a.js"] = []byte("one();")
	bundle.Files[model.EnvClient]["/b.js"] = []byte("two();")
	bundle.JS[model.EnvClient] = []string{"/a.js", "/b.js"}
	bundle.Files[model.EnvClient]["/a.css"] = []byte("body{}")
	bundle.CSS = []string{"/a.css"}
	return bundle
}

func TestMinifyProducesCacheableFingerprintedOutput(t *testing.T) {
	bundle := newBundleWithClientJSAndCSS()

	err := minifier.Run(bundle, minifier.Options{
		JS:  minifier.WhitespaceJSMinifier{},
		CSS: minifier.WhitespaceCSSMinifier{},
	})
	require.NoError(t, err)

	assert.Empty(t, bundle.JS[model.EnvClient])
	assert.Empty(t, bundle.CSS)
	assert.NotContains(t, bundle.Files[model.EnvClient], "/a.js")
	assert.NotContains(t, bundle.Files[model.EnvClient], "/a.css")

	require.Len(t, bundle.ClientCacheable, 2)
	require.Len(t, bundle.Manifest, 2)
	for _, entry := range bundle.Manifest {
		assert.True(t, *entry.Cacheable)
		assert.Equal(t, model.WhereClient, entry.Where)
		assert.Len(t, entry.Hash, 40)
	}
}

func TestMinifySkipsEmptyCSS(t *testing.T) {
	bundle := model.NewBundle("/app", "none", "none")
	bundle.Files[model.EnvClient]["/a.js"] = []byte("one();")
	bundle.JS[model.EnvClient] = []string{"/a.js"}

	err := minifier.Run(bundle, minifier.Options{
		JS:  minifier.WhitespaceJSMinifier{},
		CSS: minifier.WhitespaceCSSMinifier{},
	})
	require.NoError(t, err)
	assert.Empty(t, bundle.CSS)
	require.Len(t, bundle.Manifest, 1)
}
