// Test Type: Unit Test
// Description: Tests for the git directory and file generators

package generators_test

import (
	"fmt"
	"testing"

	"github.com/arthur-debert/appsetgen/pkg/errors"
	"github.com/arthur-debert/appsetgen/pkg/generators"
	"github.com/arthur-debert/appsetgen/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dirGenerator(base string, entries ...generators.PathEntry) (*generators.Expander, *generators.Config) {
	e := generators.NewExpander(&testutil.StubResolver{Dir: base})
	cfg := &generators.Config{
		Git: &generators.GitConfig{
			RepoURL:     "https://example.com/repo.git",
			Directories: entries,
		},
	}
	return e, cfg
}

func TestGitDirectoryGenerator(t *testing.T) {
	t.Run("bare_star_matches_immediate_subdirectories", func(t *testing.T) {
		base := testutil.SetupRepo(t, testutil.RepoConfig{
			Dirs:  []string{"app1", "app2"},
			Files: map[string]string{"README.md": "docs"},
		})
		e, cfg := dirGenerator(base, generators.PathEntry{Path: "*"})

		sets, err := e.Expand(cfg)
		require.NoError(t, err)
		require.Len(t, sets, 2)
		assert.Equal(t, "app1", sets[0].String("path.basename"))
		assert.Equal(t, "app1", sets[0].String("path.segments.0"))
		assert.Equal(t, "app2", sets[1].String("path.basename"))
	})

	t.Run("path_parameters", func(t *testing.T) {
		base := testutil.SetupRepo(t, testutil.RepoConfig{
			Dirs: []string{"apps/My_App"},
		})
		e, cfg := dirGenerator(base, generators.PathEntry{Path: "apps/*"})

		sets, err := e.Expand(cfg)
		require.NoError(t, err)
		require.Len(t, sets, 1)
		ps := sets[0]
		assert.Equal(t, "apps/My_App", ps.String("path"))
		assert.Equal(t, "apps/My_App", ps.String("path.path"))
		assert.Equal(t, "My_App", ps.String("path.basename"))
		assert.Equal(t, "my-app", ps.String("path.basenameNormalized"))
		assert.Equal(t, "apps", ps.String("path.segments.0"))
		assert.Equal(t, "My_App", ps.String("path.segments.1"))
	})

	t.Run("prefix_duplicates_keys", func(t *testing.T) {
		base := testutil.SetupRepo(t, testutil.RepoConfig{Dirs: []string{"apps/demo"}})
		e := generators.NewExpander(&testutil.StubResolver{Dir: base})
		cfg := &generators.Config{
			Git: &generators.GitConfig{
				RepoURL:         "https://example.com/repo.git",
				PathParamPrefix: "myRepo",
				Directories:     []generators.PathEntry{{Path: "apps/*"}},
			},
		}

		sets, err := e.Expand(cfg)
		require.NoError(t, err)
		require.Len(t, sets, 1)
		ps := sets[0]
		// Both forms are always present.
		assert.Equal(t, "demo", ps.String("myRepo.path.basename"))
		assert.Equal(t, "demo", ps.String("path.basename"))
		assert.Equal(t, "apps", ps.String("myRepo.path.segments.0"))
		assert.Equal(t, "apps", ps.String("path.segments.0"))
	})

	t.Run("exclude_is_set_difference", func(t *testing.T) {
		base := testutil.SetupRepo(t, testutil.RepoConfig{
			Dirs: []string{"apps/app1", "apps/app2", "apps/legacy"},
		})
		e, cfg := dirGenerator(base,
			generators.PathEntry{Path: "apps/*"},
			generators.PathEntry{Path: "apps/legacy", Exclude: true},
		)

		sets, err := e.Expand(cfg)
		require.NoError(t, err)
		require.Len(t, sets, 2)
		assert.Equal(t, "app1", sets[0].String("path.basename"))
		assert.Equal(t, "app2", sets[1].String("path.basename"))
	})

	t.Run("exclude_never_invents_matches", func(t *testing.T) {
		base := testutil.SetupRepo(t, testutil.RepoConfig{
			Dirs: []string{"apps/app1", "other/app9"},
		})
		e, cfg := dirGenerator(base,
			generators.PathEntry{Path: "apps/*"},
			generators.PathEntry{Path: "other/*", Exclude: true},
		)

		sets, err := e.Expand(cfg)
		require.NoError(t, err)
		require.Len(t, sets, 1)
		assert.Equal(t, "app1", sets[0].String("path.basename"))
	})

	t.Run("literal_path_must_exist", func(t *testing.T) {
		base := testutil.SetupRepo(t, testutil.RepoConfig{Dirs: []string{"apps/app1"}})
		e, cfg := dirGenerator(base,
			generators.PathEntry{Path: "apps/app1"},
			generators.PathEntry{Path: "apps/missing"},
		)

		sets, err := e.Expand(cfg)
		require.NoError(t, err)
		require.Len(t, sets, 1)
		assert.Equal(t, "apps/app1", sets[0].String("path"))
	})

	t.Run("recursive_glob", func(t *testing.T) {
		base := testutil.SetupRepo(t, testutil.RepoConfig{
			Dirs: []string{"apps/a/overlays/prod", "apps/b/overlays/prod", "apps/b/overlays/dev"},
		})
		e, cfg := dirGenerator(base, generators.PathEntry{Path: "apps/**/prod"})

		sets, err := e.Expand(cfg)
		require.NoError(t, err)
		require.Len(t, sets, 2)
		assert.Equal(t, "apps/a/overlays/prod", sets[0].String("path"))
		assert.Equal(t, "apps/b/overlays/prod", sets[1].String("path"))
	})

	t.Run("no_matches_yields_empty", func(t *testing.T) {
		base := testutil.SetupRepo(t, testutil.RepoConfig{})
		e, cfg := dirGenerator(base, generators.PathEntry{Path: "apps/*"})

		sets, err := e.Expand(cfg)
		require.NoError(t, err)
		assert.Empty(t, sets)
	})

	t.Run("resolver_failure_is_fatal", func(t *testing.T) {
		e := generators.NewExpander(&testutil.StubResolver{Err: fmt.Errorf("clone failed")})
		cfg := &generators.Config{
			Git: &generators.GitConfig{
				RepoURL:     "https://example.com/repo.git",
				Directories: []generators.PathEntry{{Path: "*"}},
			},
		}

		_, err := e.Expand(cfg)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrRepoResolve))
	})

	t.Run("revision_passed_to_resolver", func(t *testing.T) {
		base := testutil.SetupRepo(t, testutil.RepoConfig{})
		resolver := &testutil.StubResolver{Dir: base}
		e := generators.NewExpander(resolver)
		cfg := &generators.Config{
			Git: &generators.GitConfig{
				RepoURL:        "https://example.com/repo.git",
				TargetRevision: "release-1.2",
				Directories:    []generators.PathEntry{{Path: "*"}},
			},
		}

		_, err := e.Expand(cfg)
		require.NoError(t, err)
		require.Len(t, resolver.Calls, 1)
		assert.Equal(t, "release-1.2", resolver.Calls[0].Revision)
	})
}

func TestGitFileGenerator(t *testing.T) {
	t.Run("yaml_files_flattened_with_path_metadata", func(t *testing.T) {
		base := testutil.SetupRepo(t, testutil.RepoConfig{
			Files: map[string]string{
				"apps/app1/config.yaml": "name: app1\ncluster:\n  region: eu-west-1\n",
				"apps/app2/config.yaml": "name: app2\ncluster:\n  region: us-east-1\n",
			},
		})
		e := generators.NewExpander(&testutil.StubResolver{Dir: base})
		cfg := &generators.Config{
			Git: &generators.GitConfig{
				RepoURL: "https://example.com/repo.git",
				Files:   []generators.PathEntry{{Path: "apps/**/config.yaml"}},
			},
		}

		sets, err := e.Expand(cfg)
		require.NoError(t, err)
		require.Len(t, sets, 2)

		ps := sets[0]
		assert.Equal(t, "app1", ps.String("name"))
		assert.Equal(t, "eu-west-1", ps.String("cluster.region"))
		assert.Equal(t, "apps/app1/config.yaml", ps.String("path"))
		assert.Equal(t, "apps/app1", ps.String("path.path"))
		assert.Equal(t, "app1", ps.String("path.basename"))
		assert.Equal(t, "config.yaml", ps.String("path.filename"))
		assert.Equal(t, "config-yaml", ps.String("path.filenameNormalized"))
	})

	t.Run("json_fallback", func(t *testing.T) {
		base := testutil.SetupRepo(t, testutil.RepoConfig{
			Files: map[string]string{
				"envs/prod.json": `{"env": "prod", "replicas": 3}`,
			},
		})
		e := generators.NewExpander(&testutil.StubResolver{Dir: base})
		cfg := &generators.Config{
			Git: &generators.GitConfig{
				RepoURL: "https://example.com/repo.git",
				Files:   []generators.PathEntry{{Path: "envs/*.json"}},
			},
		}

		sets, err := e.Expand(cfg)
		require.NoError(t, err)
		require.Len(t, sets, 1)
		assert.Equal(t, "prod", sets[0].String("env"))
	})

	t.Run("unparseable_file_skipped", func(t *testing.T) {
		base := testutil.SetupRepo(t, testutil.RepoConfig{
			Files: map[string]string{
				"cfg/bad.yaml":  "{{{{not yaml or json",
				"cfg/good.yaml": "name: survivor\n",
			},
		})
		e := generators.NewExpander(&testutil.StubResolver{Dir: base})
		cfg := &generators.Config{
			Git: &generators.GitConfig{
				RepoURL: "https://example.com/repo.git",
				Files:   []generators.PathEntry{{Path: "cfg/*.yaml"}},
			},
		}

		sets, err := e.Expand(cfg)
		require.NoError(t, err)
		require.Len(t, sets, 1)
		assert.Equal(t, "survivor", sets[0].String("name"))
	})

	t.Run("non_record_document_skipped", func(t *testing.T) {
		base := testutil.SetupRepo(t, testutil.RepoConfig{
			Files: map[string]string{
				"cfg/list.yaml": "- a\n- b\n",
			},
		})
		e := generators.NewExpander(&testutil.StubResolver{Dir: base})
		cfg := &generators.Config{
			Git: &generators.GitConfig{
				RepoURL: "https://example.com/repo.git",
				Files:   []generators.PathEntry{{Path: "cfg/*.yaml"}},
			},
		}

		sets, err := e.Expand(cfg)
		require.NoError(t, err)
		assert.Empty(t, sets)
	})

	t.Run("exclude_entries_dropped_entirely", func(t *testing.T) {
		base := testutil.SetupRepo(t, testutil.RepoConfig{
			Files: map[string]string{
				"cfg/a.yaml": "name: a\n",
			},
		})
		e := generators.NewExpander(&testutil.StubResolver{Dir: base})
		cfg := &generators.Config{
			Git: &generators.GitConfig{
				RepoURL: "https://example.com/repo.git",
				Files:   []generators.PathEntry{{Path: "cfg/*.yaml", Exclude: true}},
			},
		}

		sets, err := e.Expand(cfg)
		require.NoError(t, err)
		assert.Empty(t, sets)
	})

	t.Run("top_level_file_has_empty_basename", func(t *testing.T) {
		base := testutil.SetupRepo(t, testutil.RepoConfig{
			Files: map[string]string{"config.yaml": "name: root\n"},
		})
		e := generators.NewExpander(&testutil.StubResolver{Dir: base})
		cfg := &generators.Config{
			Git: &generators.GitConfig{
				RepoURL: "https://example.com/repo.git",
				Files:   []generators.PathEntry{{Path: "*.yaml"}},
			},
		}

		sets, err := e.Expand(cfg)
		require.NoError(t, err)
		require.Len(t, sets, 1)
		assert.Equal(t, ".", sets[0].String("path.path"))
		assert.Equal(t, "", sets[0].String("path.basename"))
		assert.Equal(t, "config.yaml", sets[0].String("path.filename"))
	})
}
