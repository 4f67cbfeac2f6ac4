// Package template implements the literal {{key}} substitution applied to
// an application template once per parameter set. Placeholders referencing
// unknown keys are left verbatim; substitution never fails.
package template

import (
	"strings"

	"github.com/arthur-debert/appsetgen/pkg/params"
)

// Substitute returns a copy of the template with every {{key}} token in
// string values replaced by the string form of the parameter value. Maps
// and sequences are traversed; non-string scalars pass through unchanged.
// The input template is never mutated.
func Substitute(tmpl any, ps params.Set) any {
	switch node := tmpl.(type) {
	case string:
		return substituteString(node, ps)
	case map[string]any:
		out := make(map[string]any, len(node))
		for k, v := range node {
			out[k] = Substitute(v, ps)
		}
		return out
	case []any:
		out := make([]any, len(node))
		for i, v := range node {
			out[i] = Substitute(v, ps)
		}
		return out
	default:
		return node
	}
}

// substituteString replaces tokens longest-key-first so a short key like
// `path` cannot consume part of a longer token like {{path.basename}}.
func substituteString(s string, ps params.Set) string {
	if !strings.Contains(s, "{{") {
		return s
	}
	for _, key := range ps.KeysLongestFirst() {
		token := "{{" + key + "}}"
		if strings.Contains(s, token) {
			s = strings.ReplaceAll(s, token, ps.String(key))
		}
	}
	return s
}
