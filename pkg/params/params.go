// Package params defines the flat parameter-set model shared by every
// generator and the template substitutor. Keys use dot notation to encode
// the nesting of the data they were flattened from (`a.b.c`) or filesystem
// structure (`path.basename`, `path.segments.0`); values are scalars.
// Flatness is the contract templates depend on: a parameter set is never
// nested.
package params

import (
	"fmt"
	"sort"
)

// Set is a flat mapping of dot-addressed keys to scalar values. Later
// writes overwrite earlier ones; iteration order is undefined, so callers
// needing determinism iterate via Keys or KeysLongestFirst.
type Set map[string]any

// Clone returns an independent shallow copy of the set.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Merge copies every entry of other into s, overwriting on collision.
func (s Set) Merge(other Set) {
	for k, v := range other {
		s[k] = v
	}
}

// Has reports whether the key is present, regardless of its value.
func (s Set) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// String returns the string form of the value under key, or the empty
// string if the key is absent. Selector matching and merge-key building
// both rely on this missing-as-empty behavior.
func (s Set) String(key string) string {
	v, ok := s[key]
	if !ok {
		return ""
	}
	return Stringify(v)
}

// Keys returns every key in lexicographic order.
func (s Set) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// KeysLongestFirst returns every key ordered by descending length, ties
// broken lexicographically. The substitutor needs this so that `path`
// cannot swallow the `{{path.basename}}` token before the longer key
// has had its turn.
func (s Set) KeysLongestFirst() []string {
	keys := s.Keys()
	sort.SliceStable(keys, func(i, j int) bool {
		return len(keys[i]) > len(keys[j])
	})
	return keys
}

// Stringify renders a scalar parameter value the way it is spliced into
// templates. Booleans and numbers take their usual literal forms.
func Stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", val)
	}
}
