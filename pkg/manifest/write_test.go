// Test Type: Unit Test
// Description: Tests for writing generated Application documents

package manifest_test

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/appsetgen/pkg/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func app(name string) map[string]any {
	return map[string]any{
		"apiVersion": "argoproj.io/v1alpha1",
		"kind":       "Application",
		"metadata":   map[string]any{"name": name},
		"spec":       map[string]any{"project": "default"},
	}
}

func TestWriteApplications(t *testing.T) {
	t.Run("one_file_per_app", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "manifests")
		paths, err := manifest.WriteApplications(out, []map[string]any{
			app("app-one"), app("app-two"),
		})
		require.NoError(t, err)
		require.Len(t, paths, 2)
		assert.Equal(t, filepath.Join(out, "app-one.yaml"), paths[0])

		content, err := os.ReadFile(paths[0])
		require.NoError(t, err)
		var doc map[string]any
		require.NoError(t, yaml.Unmarshal(content, &doc))
		assert.Equal(t, "Application", doc["kind"])
	})

	t.Run("names_normalized", func(t *testing.T) {
		out := t.TempDir()
		paths, err := manifest.WriteApplications(out, []map[string]any{app("My App")})
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(out, "my-app.yaml"), paths[0])
	})

	t.Run("collisions_suffixed", func(t *testing.T) {
		out := t.TempDir()
		paths, err := manifest.WriteApplications(out, []map[string]any{
			app("dup"), app("dup"),
		})
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(out, "dup.yaml"), paths[0])
		assert.Equal(t, filepath.Join(out, "dup-2.yaml"), paths[1])
	})

	t.Run("unnamed_gets_positional_name", func(t *testing.T) {
		out := t.TempDir()
		paths, err := manifest.WriteApplications(out, []map[string]any{
			{"kind": "Application"},
		})
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(out, "application-1.yaml"), paths[0])
	})
}
