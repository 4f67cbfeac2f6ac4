package generators

import "github.com/arthur-debert/appsetgen/pkg/params"

// expandMatrix produces the cartesian product of its child generators'
// results. Each output set merges one set from every child left to right,
// so a later child's keys win on collision. Fewer than two children is a
// soft failure: empty result, diagnostic, expansion continues.
func (e *Expander) expandMatrix(cfg *MatrixConfig, depth int) ([]params.Set, error) {
	if len(cfg.Generators) < 2 {
		e.logger.Warn().
			Int("children", len(cfg.Generators)).
			Msg("Matrix generator requires at least 2 child generators")
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

	// Iterative product, leftmost child varying slowest, so each child's
	// own ordering is preserved in the output.
	result := []params.Set{{}}
	for _, child := range children {
		next := make([]params.Set, 0, len(result)*len(child))
		for _, combo := range result {
			for _, ps := range child {
				merged := combo.Clone()
				merged.Merge(ps)
				next = append(next, merged)
			}
		}
		result = next
	}
	return result, nil
}
