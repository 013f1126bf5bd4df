package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultIgnoreListMatches(t *testing.T) {
	list := DefaultIgnoreList()

	matching := []string{"foo~", ".#foo", "#foo#", ".DS_Store", "ehthumbs.db", "Thumbs.db", ".meteor", ".git"}
	for _, name := range matching {
		assert.True(t, list.Matches(name), "expected %q to be ignored", name)
	}

	assert.False(t, list.Matches("main.js"))
	assert.False(t, list.Matches("package.json"))
}

func TestIgnoreListSources(t *testing.T) {
	list := DefaultIgnoreList()
	sources := list.Sources()
	assert.Len(t, sources, len(list))
	assert.Equal(t, list[0].Source, sources[0])
}
