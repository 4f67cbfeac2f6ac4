// Package testutil provides shared fixtures for generator and appset
// tests: temp directory trees standing in for resolved repositories, and
// a stub repository resolver.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// RepoConfig describes the tree of a fake resolved repository.
type RepoConfig struct {
	// Dirs are slash-separated directories to create, empty ones included.
	Dirs []string
	// Files maps slash-separated paths to file contents.
	Files map[string]string
}

// SetupRepo materializes the config under a fresh temp directory and
// returns its root.
func SetupRepo(t *testing.T, cfg RepoConfig) string {
	t.Helper()
	root := t.TempDir()
	for _, dir := range cfg.Dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(root, filepath.FromSlash(dir)), 0755))
	}
	for name, content := range cfg.Files {
		full := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
	return root
}

// StubResolver resolves every repository URL to a fixed local directory,
// or fails with Err when set. Calls records each Resolve invocation.
type StubResolver struct {
	Dir   string
	Err   error
	Calls []ResolveCall
}

// ResolveCall is one recorded Resolve invocation.
type ResolveCall struct {
	RepoURL  string
	Revision string
}

// Resolve implements the generators.Resolver interface.
func (r *StubResolver) Resolve(repoURL, revision string) (string, error) {
	r.Calls = append(r.Calls, ResolveCall{RepoURL: repoURL, Revision: revision})
	if r.Err != nil {
		return "", r.Err
	}
	return r.Dir, nil
}
