package linker

import (
	"bytes"
	"fmt"
	"sort"
)

// ConcatLinker is the bundler's default Linker: deterministic,
// IIFE-wrapped concatenation. It does not attempt real module resolution
// (no AST parsing, no live-binding exports) — it exists to produce a
// runnable bundle end-to-end, not to be a production module bundler. Named
// packages are wrapped into one combined file; the application keeps each
// input's own serve path unchanged. Declared exports (ForceExport) are
// trusted verbatim, since ConcatLinker cannot statically discover real
// top-level bindings.
type ConcatLinker struct{}

// Link implements Linker.
func (ConcatLinker) Link(in Input) (Output, error) {
	exports := sortedKeys(in.ForceExport)

	if in.CombinedServePath == "" {
		return linkApplication(in), nil
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "(function(global) {\n")
	writeImportStubs(&buf, in.Imports)
	for _, f := range in.InputFiles {
		fmt.Fprintf(&buf, "// source: %s\n", f.ServePath)
		buf.Write(f.Source)
		buf.WriteString("\n")
	}
	if in.Name != "" {
		fmt.Fprintf(&buf, "})(typeof window !== 'undefined' ? window : global);\n")
	} else {
		fmt.Fprintf(&buf, "})(this);\n")
	}

	return Output{
		Files: []File{{
			Source:    buf.Bytes(),
			ServePath: in.CombinedServePath,
		}},
		Exports: exports,
	}, nil
}

// linkApplication passes each application input through unchanged (no
// combining, since the application has no name to combine under), plus one
// import-stub file when the application itself declares imports.
func linkApplication(in Input) Output {
	out := Output{Exports: sortedKeys(in.ForceExport)}
	out.Files = append(out.Files, in.InputFiles...)
	if len(in.Imports) > 0 {
		var buf bytes.Buffer
		writeImportStubs(&buf, in.Imports)
		out.Files = append(out.Files, File{
			Source:    buf.Bytes(),
			ServePath: in.ImportStubServePath,
		})
	}
	return out
}

func writeImportStubs(buf *bytes.Buffer, imports map[string]string) {
	if len(imports) == 0 {
		return
	}
	symbols := sortedStringKeys(imports)
	for _, sym := range symbols {
		fmt.Fprintf(buf, "var %s = Package[%q].%s;\n", sym, imports[sym], sym)
	}
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedStringKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
