// Package appset models ApplicationSet specifications and expands them
// into concrete Application documents.
package appset

import (
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/appsetgen/pkg/errors"
	"github.com/arthur-debert/appsetgen/pkg/generators"
)

// Envelope fields of every produced Application document.
const (
	APIVersion = "argoproj.io/v1alpha1"
	Kind       = "Application"
)

// ApplicationSet is one parsed ApplicationSet specification: an ordered
// sequence of generator configurations and exactly one template. It is
// read-only during expansion.
type ApplicationSet struct {
	Name       string
	Namespace  string
	Generators []generators.Config
	Template   map[string]any

	// Passthrough spec fields, retained so callers can inspect them.
	GoTemplate        bool
	GoTemplateOptions []string

	// SourceFile is the manifest path the spec was parsed from, when known.
	SourceFile string
}

// manifest mirrors the wire shape of an ApplicationSet document.
type manifest struct {
	APIVersion string `yaml:"apiVersion"`
	Kind       string `yaml:"kind"`
	Metadata   struct {
		Name      string `yaml:"name"`
		Namespace string `yaml:"namespace"`
	} `yaml:"metadata"`
	Spec struct {
		Generators        []generators.Config `yaml:"generators"`
		Template          map[string]any      `yaml:"template"`
		GoTemplate        bool                `yaml:"goTemplate"`
		GoTemplateOptions []string            `yaml:"goTemplateOptions"`
	} `yaml:"spec"`
}

// Parse decodes an ApplicationSet from one YAML document node.
func Parse(node *yaml.Node) (*ApplicationSet, error) {
	var m manifest
	if err := node.Decode(&m); err != nil {
		return nil, errors.Wrap(err, errors.ErrManifestParse, "failed to decode ApplicationSet")
	}

	return &ApplicationSet{
		Name:              m.Metadata.Name,
		Namespace:         m.Metadata.Namespace,
		Generators:        m.Spec.Generators,
		Template:          m.Spec.Template,
		GoTemplate:        m.Spec.GoTemplate,
		GoTemplateOptions: m.Spec.GoTemplateOptions,
	}, nil
}
