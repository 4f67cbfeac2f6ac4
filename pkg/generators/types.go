// Package generators implements the expansion of declarative generator
// configurations into flat parameter sets: the leaf generators (list, git
// directories, git files, clusters), the matrix and merge combinators, the
// selector post-filter, and the dispatcher tying them together.
package generators

import (
	"gopkg.in/yaml.v3"
)

// Config is one generator entry of an application set. Exactly one of the
// variant fields is expected to be set; when several are present the
// dispatcher picks the first in its documented precedence order, and when
// none is the entry expands to nothing with a diagnostic.
//
// Values and Selector are cross-cutting: they apply to whichever variant
// the entry carries.
type Config struct {
	List     *ListConfig     `yaml:"list,omitempty"`
	Git      *GitConfig      `yaml:"git,omitempty"`
	Clusters *ClustersConfig `yaml:"clusters,omitempty"`
	Matrix   *MatrixConfig   `yaml:"matrix,omitempty"`
	Merge    *MergeConfig    `yaml:"merge,omitempty"`

	Values   map[string]any `yaml:"values,omitempty"`
	Selector *Selector      `yaml:"selector,omitempty"`

	// unknownKeys holds top-level keys outside the wire contract, kept
	// only so the dispatcher can name them in diagnostics.
	unknownKeys []string
}

var knownConfigKeys = map[string]bool{
	"list":     true,
	"git":      true,
	"clusters": true,
	"matrix":   true,
	"merge":    true,
	"values":   true,
	"selector": true,
}

// UnmarshalYAML decodes the generator entry and records any keys that are
// not part of the wire contract.
func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	type plain Config
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*c = Config(p)

	if node.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i].Value
			if !knownConfigKeys[key] {
				c.unknownKeys = append(c.unknownKeys, key)
			}
		}
	}
	return nil
}

// ListConfig holds a fixed sequence of elements, one parameter set per
// record element.
type ListConfig struct {
	Elements []any `yaml:"elements"`
}

// GitConfig drives the two repository-backed generators. Directories and
// Files are mutually exclusive in practice; Directories wins when both
// are present.
type GitConfig struct {
	RepoURL         string      `yaml:"repoURL"`
	Revision        string      `yaml:"revision,omitempty"`
	TargetRevision  string      `yaml:"targetRevision,omitempty"`
	PathParamPrefix string      `yaml:"pathParamPrefix,omitempty"`
	Directories     []PathEntry `yaml:"directories,omitempty"`
	Files           []PathEntry `yaml:"files,omitempty"`
}

// EffectiveRevision returns revision, falling back to targetRevision.
func (g *GitConfig) EffectiveRevision() string {
	if g.Revision != "" {
		return g.Revision
	}
	return g.TargetRevision
}

// PathEntry is one directory- or file-match entry of a git generator.
type PathEntry struct {
	Path    string `yaml:"path"`
	Exclude bool   `yaml:"exclude,omitempty"`
}

// ClustersConfig marks the cluster generator variant. Live cluster
// discovery is not supported; expansion yields a fixed in-cluster stub.
type ClustersConfig struct{}

// MatrixConfig combines at least two child generators into their
// cartesian product.
type MatrixConfig struct {
	Generators []Config `yaml:"generators"`
}

// MergeConfig overlays child generator results onto the first child's,
// matched by the composite value of MergeKeys.
type MergeConfig struct {
	MergeKeys  []string `yaml:"mergeKeys"`
	Generators []Config `yaml:"generators"`
}

// Selector post-filters parameter sets by label equality and expression
// operators.
type Selector struct {
	MatchLabels      map[string]any `yaml:"matchLabels,omitempty"`
	MatchExpressions []Requirement  `yaml:"matchExpressions,omitempty"`
}

// Requirement is one matchExpressions entry.
type Requirement struct {
	Key      string `yaml:"key"`
	Operator string `yaml:"operator"`
	Values   []any  `yaml:"values,omitempty"`
}

// Selector expression operators.
const (
	OperatorIn           = "In"
	OperatorNotIn        = "NotIn"
	OperatorExists       = "Exists"
	OperatorDoesNotExist = "DoesNotExist"
)
