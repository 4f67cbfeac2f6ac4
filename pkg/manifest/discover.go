// Package manifest discovers ApplicationSet and Application documents in
// a directory of YAML manifests.
package manifest

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/appsetgen/pkg/appset"
	"github.com/arthur-debert/appsetgen/pkg/logging"
)

// Discovered holds the documents found in an apps directory.
type Discovered struct {
	// ApplicationSets to expand, in file order.
	ApplicationSets []*appset.ApplicationSet
	// Applications are plain Application documents, passed through to the
	// output untouched.
	Applications []map[string]any
}

// Discover walks appsDir for .yaml/.yml manifests, decoding every
// document in every file. Files named in skipFiles are ignored. Kinds
// other than Application and ApplicationSet are logged and skipped;
// malformed files degrade to a diagnostic, never an error. A missing
// apps directory yields an empty result.
func Discover(appsDir string, skipFiles []string) *Discovered {
	logger := logging.GetLogger("manifest")
	result := &Discovered{}

	skip := make(map[string]bool, len(skipFiles))
	for _, name := range skipFiles {
		skip[name] = true
	}

	if info, err := os.Stat(appsDir); err != nil || !info.IsDir() {
		logger.Warn().Str("dir", appsDir).Msg("Apps directory does not exist")
		return result
	}

	var files []string
	_ = filepath.WalkDir(appsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		if skip[d.Name()] {
			logger.Info().Str("file", d.Name()).Msg("Skipping file")
			return nil
		}
		files = append(files, path)
		return nil
	})
	sort.Strings(files)

	for _, file := range files {
		for _, node := range loadDocuments(file) {
			switch documentKind(node) {
			case "ApplicationSet":
				spec, err := appset.Parse(node)
				if err != nil {
					logger.Warn().Err(err).Str("file", file).Msg("Failed to parse ApplicationSet")
					continue
				}
				spec.SourceFile = file
				result.ApplicationSets = append(result.ApplicationSets, spec)
				logger.Info().Str("name", spec.Name).Msg("Found ApplicationSet")
			case "Application":
				var doc map[string]any
				if err := node.Decode(&doc); err != nil {
					logger.Warn().Err(err).Str("file", file).Msg("Failed to parse Application")
					continue
				}
				result.Applications = append(result.Applications, doc)
				logger.Info().Str("file", file).Msg("Found Application")
			case "":
				// Not a kubernetes-style document, ignore.
			default:
				logger.Debug().
					Str("kind", documentKind(node)).
					Str("file", file).
					Msg("Skipping unknown kind")
			}
		}
	}

	return result
}

// loadDocuments decodes every YAML document in a file. Decode failures
// degrade to an empty result with a diagnostic.
func loadDocuments(path string) []*yaml.Node {
	logger := logging.GetLogger("manifest")

	f, err := os.Open(path)
	if err != nil {
		logger.Warn().Err(err).Str("file", path).Msg("Failed to read file")
		return nil
	}
	defer func() { _ = f.Close() }()

	var docs []*yaml.Node
	decoder := yaml.NewDecoder(f)
	for {
		var node yaml.Node
		err := decoder.Decode(&node)
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Warn().Err(err).Str("file", path).Msg("Failed to parse YAML file")
			break
		}
		if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
			docs = append(docs, node.Content[0])
		}
	}
	return docs
}

// documentKind extracts the kind field of a mapping document node.
func documentKind(node *yaml.Node) string {
	if node.Kind != yaml.MappingNode {
		return ""
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == "kind" {
			return strings.TrimSpace(node.Content[i+1].Value)
		}
	}
	return ""
}
