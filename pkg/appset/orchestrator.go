package appset

import (
	"github.com/rs/zerolog"

	"github.com/arthur-debert/appsetgen/pkg/generators"
	"github.com/arthur-debert/appsetgen/pkg/logging"
	"github.com/arthur-debert/appsetgen/pkg/params"
	"github.com/arthur-debert/appsetgen/pkg/template"
)

// Orchestrator expands ApplicationSet specifications into Application
// documents, one per parameter set produced by the spec's generators.
type Orchestrator struct {
	expander *generators.Expander
	logger   zerolog.Logger
}

// NewOrchestrator creates an Orchestrator expanding git generators
// through the given resolver.
func NewOrchestrator(resolver generators.Resolver) *Orchestrator {
	return &Orchestrator{
		expander: generators.NewExpander(resolver),
		logger:   logging.GetLogger("appset"),
	}
}

// WithMaxDepth overrides the generator nesting limit.
func (o *Orchestrator) WithMaxDepth(depth int) *Orchestrator {
	o.expander.WithMaxDepth(depth)
	return o
}

// Expand runs every top-level generator, concatenates the resulting
// parameter sets in order (no deduplication), substitutes each into the
// template, and wraps the result in the Application envelope. A hard
// failure from any generator aborts the whole expansion.
func (o *Orchestrator) Expand(spec *ApplicationSet) ([]map[string]any, error) {
	var all []params.Set
	for i := range spec.Generators {
		sets, err := o.expander.Expand(&spec.Generators[i])
		if err != nil {
			return nil, err
		}
		all = append(all, sets...)
	}

	o.logger.Debug().
		Str("appset", spec.Name).
		Int("generators", len(spec.Generators)).
		Int("parameterSets", len(all)).
		Msg("Generator expansion complete")

	apps := make([]map[string]any, 0, len(all))
	for _, ps := range all {
		substituted, _ := template.Substitute(spec.Template, ps).(map[string]any)
		apps = append(apps, wrapApplication(substituted))
	}
	return apps, nil
}

// wrapApplication assembles the output document. Templates authored with
// explicit metadata and spec fields keep those fields as-is under the
// envelope; templates authored as a bare payload are spread under the
// envelope directly.
func wrapApplication(substituted map[string]any) map[string]any {
	doc := map[string]any{
		"apiVersion": APIVersion,
		"kind":       Kind,
	}

	metadata, hasMetadata := substituted["metadata"]
	spec, hasSpec := substituted["spec"]
	if hasMetadata && hasSpec {
		doc["metadata"] = metadata
		doc["spec"] = spec
		return doc
	}

	for k, v := range substituted {
		doc[k] = v
	}
	return doc
}
