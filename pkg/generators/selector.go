package generators

import "github.com/arthur-debert/appsetgen/pkg/params"

// Filter keeps the parameter sets matching the selector. A nil selector
// keeps everything.
func Filter(sets []params.Set, selector *Selector) []params.Set {
	if selector == nil {
		return sets
	}
	filtered := make([]params.Set, 0, len(sets))
	for _, ps := range sets {
		if Matches(ps, selector) {
			filtered = append(filtered, ps)
		}
	}
	return filtered
}

// Matches reports whether a parameter set satisfies every matchLabels
// entry and every matchExpressions requirement. Label comparison is on
// string forms, with an absent key comparing as the empty string.
func Matches(ps params.Set, selector *Selector) bool {
	for key, want := range selector.MatchLabels {
		if ps.String(key) != params.Stringify(want) {
			return false
		}
	}
	for _, req := range selector.MatchExpressions {
		if !matchesRequirement(ps, req) {
			return false
		}
	}
	return true
}

func matchesRequirement(ps params.Set, req Requirement) bool {
	switch req.Operator {
	case OperatorIn:
		return valueIn(ps.String(req.Key), req.Values)
	case OperatorNotIn:
		return !valueIn(ps.String(req.Key), req.Values)
	case OperatorExists:
		// Presence is checked directly: missing-as-empty-string does not
		// satisfy Exists.
		return ps.Has(req.Key)
	case OperatorDoesNotExist:
		return !ps.Has(req.Key)
	}
	return true
}

func valueIn(value string, candidates []any) bool {
	for _, c := range candidates {
		if value == params.Stringify(c) {
			return true
		}
	}
	return false
}
