package generators

import "github.com/arthur-debert/appsetgen/pkg/params"

// expandList emits one flattened parameter set per record element,
// preserving input order. Non-record elements are silently skipped.
func (e *Expander) expandList(cfg *ListConfig) []params.Set {
	var sets []params.Set
	for _, element := range cfg.Elements {
		record, ok := element.(map[string]any)
		if !ok {
			continue
		}
		sets = append(sets, params.Flatten(record))
	}
	return sets
}
