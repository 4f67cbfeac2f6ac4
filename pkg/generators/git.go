package generators

import (
	"encoding/json"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/appsetgen/pkg/errors"
	"github.com/arthur-debert/appsetgen/pkg/params"
)

// expandGit resolves the repository to a local tree and routes to the
// directory or file scan. Resolution failure propagates: it is the one
// condition expansion cannot soft-fail past.
func (e *Expander) expandGit(cfg *GitConfig) ([]params.Set, error) {
	base, err := e.resolver.Resolve(cfg.RepoURL, cfg.EffectiveRevision())
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrRepoResolve,
			"failed to resolve repository %s", cfg.RepoURL)
	}

	switch {
	case len(cfg.Directories) > 0:
		return e.expandGitDirectories(cfg, base), nil
	case len(cfg.Files) > 0:
		return e.expandGitFiles(cfg, base), nil
	}
	return nil, nil
}

// expandGitDirectories matches directory entries under the resolved base,
// subtracts excludes, and emits path parameters for every survivor in
// lexicographic order.
func (e *Expander) expandGitDirectories(cfg *GitConfig, base string) []params.Set {
	var includes, excludes []string
	for _, entry := range cfg.Directories {
		if entry.Exclude {
			excludes = append(excludes, entry.Path)
		} else {
			includes = append(includes, entry.Path)
		}
	}

	matched := make(map[string]bool)
	for _, pattern := range includes {
		for dir := range matchDirectories(base, pattern) {
			matched[dir] = true
		}
	}

	// Plain set difference: an exclude removes a path only when both
	// pattern resolutions produce it; it never invents matches.
	for _, pattern := range excludes {
		for dir := range matchDirectories(base, pattern) {
			delete(matched, dir)
		}
	}

	dirs := make([]string, 0, len(matched))
	for dir := range matched {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	e.logger.Debug().
		Int("matched", len(dirs)).
		Int("includes", len(includes)).
		Int("excludes", len(excludes)).
		Msg("Directory generator scan complete")

	sets := make([]params.Set, 0, len(dirs))
	for _, dir := range dirs {
		ps := make(params.Set)
		basename := path.Base(dir)
		addPathParams(ps, cfg.PathParamPrefix, map[string]any{
			"path":                    dir,
			"path.path":               dir,
			"path.basename":           basename,
			"path.basenameNormalized": params.NormalizeName(basename),
		})
		for i, segment := range strings.Split(dir, "/") {
			addPathParams(ps, cfg.PathParamPrefix, map[string]any{
				"path.segments." + strconv.Itoa(i): segment,
			})
		}
		sets = append(sets, ps)
	}
	return sets
}

// matchDirectories resolves one directory pattern to a set of paths.
// Rules, in order: a trailing `*` is globbed directly (a bare `*` yields
// all immediate subdirectories); an absolute pattern is kept verbatim if
// that directory exists; a pattern with glob metacharacters is globbed;
// anything else is a literal relative path kept only if it exists.
func matchDirectories(base, pattern string) map[string]bool {
	matched := make(map[string]bool)

	if strings.HasSuffix(pattern, "*") {
		for rel, isDir := range globTree(base, pattern) {
			if isDir {
				matched[rel] = true
			}
		}
		return matched
	}

	if path.IsAbs(pattern) {
		if info, err := os.Stat(pattern); err == nil && info.IsDir() {
			matched[pattern] = true
		}
		return matched
	}

	if hasGlobMeta(pattern) {
		for rel, isDir := range globTree(base, pattern) {
			if isDir {
				matched[rel] = true
			}
		}
		return matched
	}

	full := filepath.Join(base, filepath.FromSlash(pattern))
	if info, err := os.Stat(full); err == nil && info.IsDir() {
		matched[pattern] = true
	}
	return matched
}

// expandGitFiles matches file entries under the resolved base, parses
// each file as a record, and emits the flattened contents plus path
// parameters. A file that cannot be parsed, or does not hold a record,
// is skipped with a diagnostic; the generator never aborts over one bad
// file. Entries flagged exclude are dropped entirely — there is no
// set-difference exclusion for files.
func (e *Expander) expandGitFiles(cfg *GitConfig, base string) []params.Set {
	var sets []params.Set
	for _, entry := range cfg.Files {
		if entry.Exclude {
			continue
		}

		var files []string
		for rel, isDir := range globTree(base, entry.Path) {
			if !isDir {
				files = append(files, rel)
			}
		}
		sort.Strings(files)

		for _, rel := range files {
			record, err := readRecordFile(filepath.Join(base, filepath.FromSlash(rel)))
			if err != nil {
				e.logger.Warn().
					Err(err).
					Str("file", rel).
					Msg("Failed to parse file, skipping")
				continue
			}
			if record == nil {
				continue
			}

			ps := params.Flatten(record)

			parent := path.Dir(rel)
			parentName := path.Base(parent)
			if parent == "." {
				parentName = ""
			}
			filename := path.Base(rel)
			addPathParams(ps, cfg.PathParamPrefix, map[string]any{
				"path":                    rel,
				"path.path":               parent,
				"path.basename":           parentName,
				"path.basenameNormalized": params.NormalizeName(parentName),
				"path.filename":           filename,
				"path.filenameNormalized": params.NormalizeName(filename),
			})

			sets = append(sets, ps)
		}
	}
	return sets
}

// readRecordFile reads and parses a file as YAML, falling back to JSON.
// Returns nil with no error when the document parses but is not a record.
func readRecordFile(fullPath string) (map[string]any, error) {
	content, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, err
	}

	var record map[string]any
	if yamlErr := yaml.Unmarshal(content, &record); yamlErr != nil {
		record = nil
		if jsonErr := json.Unmarshal(content, &record); jsonErr != nil {
			return nil, yamlErr
		}
	}
	return record, nil
}

// addPathParams writes each key both under the configured prefix and
// bare. The unprefixed keys are kept for backward-compatible template
// access regardless of whether a prefix is set.
func addPathParams(ps params.Set, prefix string, values map[string]any) {
	for k, v := range values {
		if prefix != "" {
			ps[prefix+"."+k] = v
		}
		ps[k] = v
	}
}
