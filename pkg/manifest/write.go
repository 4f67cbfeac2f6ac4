package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/appsetgen/pkg/errors"
	"github.com/arthur-debert/appsetgen/pkg/params"
)

// WriteApplications writes each document into outputDir as one YAML file
// named from its normalized metadata.name, returning the written paths.
// Name collisions get a numeric suffix; documents without a name fall
// back to a positional one.
func WriteApplications(outputDir string, apps []map[string]any) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrOutputWrite, "failed to create output directory %s", outputDir)
	}

	used := make(map[string]bool)
	paths := make([]string, 0, len(apps))
	for i, app := range apps {
		name := applicationName(app)
		if name == "" {
			name = fmt.Sprintf("application-%d", i+1)
		}

		filename := name + ".yaml"
		for n := 2; used[filename]; n++ {
			filename = fmt.Sprintf("%s-%d.yaml", name, n)
		}
		used[filename] = true

		content, err := yaml.Marshal(app)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrOutputWrite, "failed to marshal %s", name)
		}

		path := filepath.Join(outputDir, filename)
		if err := os.WriteFile(path, content, 0644); err != nil {
			return nil, errors.Wrapf(err, errors.ErrOutputWrite, "failed to write %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func applicationName(app map[string]any) string {
	metadata, _ := app["metadata"].(map[string]any)
	name, _ := metadata["name"].(string)
	return params.NormalizeName(name)
}
