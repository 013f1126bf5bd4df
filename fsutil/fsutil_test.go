package fsutil

import (
	"testing"

	"github.com/SUSE/fullstack-bundler/util"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyTreeAferoHonoursIgnoreList(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/src/main.js", []byte("console.log(1)"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/src/.DS_Store", []byte("junk"), 0644))
	require.NoError(t, fs.MkdirAll("/src/.git", 0755))
	require.NoError(t, afero.WriteFile(fs, "/src/.git/config", []byte("x"), 0644))

	require.NoError(t, CopyTree(fs, "/src", "/dst", util.DefaultIgnoreList()))

	ok, err := afero.Exists(fs, "/dst/main.js")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = afero.Exists(fs, "/dst/.DS_Store")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = afero.Exists(fs, "/dst/.git")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRemoveTreeToleratesMissing(t *testing.T) {
	fs := afero.NewMemMapFs()
	assert.NoError(t, RemoveTree(fs, "/does/not/exist"))
}

func TestMkdirP(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, MkdirP(fs, "/a/b/c"))
	info, err := fs.Stat("/a/b/c")
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
