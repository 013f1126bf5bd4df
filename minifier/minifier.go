// Package minifier implements the optional Minifier Driver (C8): it
// concatenates client JS and CSS, runs them through pluggable minifiers,
// and replaces the per-file cache-busted output with one fingerprinted,
// cache-forever bundle per asset kind.
package minifier

import (
	"fmt"
	"strings"

	"github.com/SUSE/fullstack-bundler/model"
	"github.com/SUSE/fullstack-bundler/util"
)

// JSMinifier minifies a JS bundle's concatenated source. FromString and
// DropDebugger mirror the options record named in spec.md §4.6.
type JSMinifier interface {
	MinifyJS(src []byte, fromString bool, dropDebugger bool) ([]byte, error)
}

// CSSMinifier minifies a CSS bundle's concatenated source.
type CSSMinifier interface {
	MinifyCSS(src []byte) ([]byte, error)
}

// Options configures a Minifier Driver run.
type Options struct {
	JS  JSMinifier
	CSS CSSMinifier
}

// Run executes C8 against bundle's aggregated js.client/css lists (C7 must
// have already run). Caller skips this stage entirely when noMinify is set
// (spec.md §6's entry-point contract).
func Run(bundle *model.Bundle, opts Options) error {
	if err := minifyJS(bundle, opts.JS); err != nil {
		return err
	}
	return minifyCSS(bundle, opts.CSS)
}

func minifyJS(bundle *model.Bundle, m JSMinifier) error {
	names := bundle.JS[model.EnvClient]
	if len(names) == 0 {
		return nil
	}
	var bodies []string
	for _, name := range names {
		bodies = append(bodies, string(bundle.Files[model.EnvClient][name]))
	}
	concatenated := []byte(strings.Join(bodies, "\n;\n"))

	out, err := m.MinifyJS(concatenated, true, false)
	if err != nil {
		return err
	}
	return storeCacheable(bundle, names, out, "js")
}

func minifyCSS(bundle *model.Bundle, m CSSMinifier) error {
	if len(bundle.CSS) == 0 {
		return nil
	}
	var bodies []string
	for _, name := range bundle.CSS {
		bodies = append(bodies, string(bundle.Files[model.EnvClient][name]))
	}
	concatenated := []byte(strings.Join(bodies, "\n"))

	out, err := m.MinifyCSS(concatenated)
	if err != nil {
		return err
	}
	return storeCacheable(bundle, bundle.CSS, out, "css")
}

// storeCacheable fingerprints out, records it as a cache-forever client
// asset, appends its manifest entry, clears the contributing per-file
// entries from files.client, and empties the source name list (js.client
// or css) so the Writer (C9) does not also emit the pre-minified files.
func storeCacheable(bundle *model.Bundle, contributing []string, out []byte, ext string) error {
	hash := util.SHA1Hex(out)
	servePath := fmt.Sprintf("/%s.%s", hash, ext)
	bundle.ClientCacheable[servePath] = out

	bundle.Manifest = append(bundle.Manifest, model.NewManifestEntry(
		fmt.Sprintf("static_cacheable/%s.%s", hash, ext),
		model.WhereClient,
		ext,
		model.Cacheable(true),
		servePath,
		out,
	))

	for _, name := range contributing {
		delete(bundle.Files[model.EnvClient], name)
	}
	switch ext {
	case "js":
		bundle.JS[model.EnvClient] = nil
	case "css":
		bundle.CSS = nil
	}
	return nil
}
