// Package config loads layered tool configuration: embedded defaults,
// then an optional .appsetgen.toml at the workspace root, then
// APPSETGEN_* environment variables. Later layers override earlier ones.
package config

import (
	_ "embed"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/appsetgen/pkg/errors"
)

//go:embed defaults.toml
var defaultConfig []byte

const envPrefix = "APPSETGEN_"

// Config holds the tool settings consumed by the expand command.
type Config struct {
	// AppsDir is the directory scanned for ApplicationSet manifests.
	AppsDir string `koanf:"apps_dir"`
	// OutputDir receives the generated Application documents.
	OutputDir string `koanf:"output_dir"`
	// SkipFiles are manifest file names excluded from discovery.
	SkipFiles []string `koanf:"skip_files"`
	// MaxDepth bounds matrix/merge generator nesting.
	MaxDepth int `koanf:"max_depth"`
	// GithubToken is injected into HTTPS clone URLs when set.
	GithubToken string `koanf:"github_token"`
}

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// Load builds the configuration for a workspace.
func Load(workspace string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	for _, filename := range []string{".appsetgen.toml", "appsetgen.toml"} {
		path := filepath.Join(workspace, filename)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path)
		}
		break
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(key string) string {
		return strings.ToLower(strings.TrimPrefix(key, envPrefix))
	}), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal config")
	}
	return &cfg, nil
}
