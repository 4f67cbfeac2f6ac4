package generators

import (
	"strings"

	"github.com/arthur-debert/appsetgen/pkg/params"
)

// mergeKeySeparator joins the merge-key field values into the composite
// key a parameter set is matched on.
const mergeKeySeparator = "|"

// expandMerge overlays child generator results onto the first child's,
// matched by composite merge key. The first child seeds the result; later
// children only overlay sets whose key already exists and never introduce
// new entries, so the output is bounded by the first child's size. Output
// order follows the first child.
func (e *Expander) expandMerge(cfg *MergeConfig, depth int) ([]params.Set, error) {
	if len(cfg.Generators) == 0 {
		return nil, nil
	}

	children := make([][]params.Set, 0, len(cfg.Generators))
	for i := range cfg.Generators {
		expanded, err := e.expand(&cfg.Generators[i], depth+1)
		if err != nil {
			return nil, err
		}
		children = append(children, expanded)
	}

	var order []string
	merged := make(map[string]params.Set)
	for _, ps := range children[0] {
		key := mergeKey(ps, cfg.MergeKeys)
		if _, seen := merged[key]; !seen {
			order = append(order, key)
		}
		merged[key] = ps.Clone()
	}

	for _, child := range children[1:] {
		for _, ps := range child {
			key := mergeKey(ps, cfg.MergeKeys)
			existing, ok := merged[key]
			if !ok {
				// Unmatched keys from later children are discarded.
				continue
			}
			existing.Merge(ps)
		}
	}

	result := make([]params.Set, 0, len(order))
	for _, key := range order {
		result = append(result, merged[key])
	}
	return result, nil
}

// mergeKey concatenates the string form of each merge-key field, with
// absent fields contributing the empty string.
func mergeKey(ps params.Set, keys []string) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = ps.String(k)
	}
	return strings.Join(parts, mergeKeySeparator)
}
