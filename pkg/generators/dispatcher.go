package generators

import (
	"github.com/rs/zerolog"

	"github.com/arthur-debert/appsetgen/pkg/errors"
	"github.com/arthur-debert/appsetgen/pkg/logging"
	"github.com/arthur-debert/appsetgen/pkg/params"
)

// Resolver resolves a repository URL and revision to a local directory.
// Resolution failure is the hard-fail path of expansion: a git generator
// cannot degrade gracefully without the tree it scans.
type Resolver interface {
	Resolve(repoURL, revision string) (string, error)
}

// DefaultMaxDepth bounds matrix/merge nesting. Combinators recurse back
// into the dispatcher, so a pathological spec could otherwise nest
// without limit.
const DefaultMaxDepth = 16

// Expander expands generator configurations into parameter sets. It is
// the single dispatch point: combinator generators call back into it for
// their children.
type Expander struct {
	resolver Resolver
	maxDepth int
	logger   zerolog.Logger
}

// NewExpander creates an Expander using the given repository resolver.
func NewExpander(resolver Resolver) *Expander {
	return &Expander{
		resolver: resolver,
		maxDepth: DefaultMaxDepth,
		logger:   logging.GetLogger("generators"),
	}
}

// WithMaxDepth overrides the combinator nesting limit.
func (e *Expander) WithMaxDepth(depth int) *Expander {
	e.maxDepth = depth
	return e
}

// Expand returns the parameter sets produced by one generator entry.
// Variant precedence when several are present: list, git, clusters,
// matrix, merge. Unknown variants yield an empty result with a logged
// diagnostic; only repository resolution failures and the nesting guard
// return errors.
func (e *Expander) Expand(cfg *Config) ([]params.Set, error) {
	return e.expand(cfg, 0)
}

func (e *Expander) expand(cfg *Config, depth int) ([]params.Set, error) {
	if depth > e.maxDepth {
		return nil, errors.Newf(errors.ErrExpansionDepth,
			"generator nesting exceeds %d levels", e.maxDepth)
	}

	var sets []params.Set
	var err error

	switch {
	case cfg.List != nil:
		sets = e.expandList(cfg.List)
	case cfg.Git != nil:
		sets, err = e.expandGit(cfg.Git)
	case cfg.Clusters != nil:
		sets = e.expandClusters()
	case cfg.Matrix != nil:
		sets, err = e.expandMatrix(cfg.Matrix, depth)
	case cfg.Merge != nil:
		sets, err = e.expandMerge(cfg.Merge, depth)
	default:
		e.logger.Warn().
			Strs("keys", cfg.unknownKeys).
			Msg("Unsupported generator type")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	// Literal extra values land in every set under the values namespace,
	// overwriting earlier keys of the same name.
	if len(cfg.Values) > 0 {
		for _, ps := range sets {
			for k, v := range cfg.Values {
				ps["values."+k] = v
			}
		}
	}

	if cfg.Selector != nil {
		sets = Filter(sets, cfg.Selector)
	}

	return sets, nil
}
