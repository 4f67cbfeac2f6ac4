package generators

import "github.com/arthur-debert/appsetgen/pkg/params"

// expandClusters returns the fixed in-cluster stub. There is no live
// cluster API in this mode, so the generator cannot enumerate real
// clusters; it degrades to the single default entry with a diagnostic.
func (e *Expander) expandClusters() []params.Set {
	e.logger.Warn().Msg("Clusters generator is not fully supported in local mode, generating in-cluster entry only")
	return []params.Set{
		{
			"name":   "in-cluster",
			"server": "https://kubernetes.default.svc",
		},
	}
}
