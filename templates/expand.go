// Package templates adapts the teacher's YAML-driven transform pipeline
// into a single, Writer-facing expansion helper: filling the fixed
// app.html shell from values computed by the Writer (C9).
package templates

import (
	"bytes"
	"html/template"

	"github.com/Masterminds/sprig/v3"
)

// Expand renders tpl against values using Go's html/template with sprig's
// helper funcs registered, matching the external template-expander
// contract from spec.md §6: (template-string, values) -> string.
func Expand(tpl string, values map[string]interface{}) (string, error) {
	t, err := template.New("expand").Funcs(sprig.FuncMap()).Parse(tpl)
	if err != nil {
		return "", err
	}

	var out bytes.Buffer
	if err := t.Execute(&out, values); err != nil {
		return "", err
	}
	return out.String(), nil
}
