package generators

import (
	"os"
	"path"
	"path/filepath"
	"strings"
)

// globTree matches a slash-separated pattern against the tree rooted at
// base and returns relative matches mapped to whether they are
// directories. Pattern segments are matched per path component with
// filepath.Match, so `*` and `?` never cross a separator; a `**` segment
// matches any number of intermediate directories, including none.
// A base that does not exist, or a malformed segment, simply yields no
// matches.
func globTree(base, pattern string) map[string]bool {
	matches := make(map[string]bool)
	segments := strings.Split(strings.Trim(pattern, "/"), "/")
	matchSegments(base, "", segments, matches)
	return matches
}

func matchSegments(base, rel string, segments []string, matches map[string]bool) {
	if len(segments) == 0 {
		// Reached only by descending through directories.
		if rel != "" {
			matches[rel] = true
		}
		return
	}

	dir := base
	if rel != "" {
		dir = filepath.Join(base, filepath.FromSlash(rel))
	}

	if segments[0] == "**" {
		matchSegments(base, rel, segments[1:], matches)
		entries, err := os.ReadDir(dir)
		if err != nil {
			return
		}
		for _, entry := range entries {
			if entry.IsDir() {
				matchSegments(base, path.Join(rel, entry.Name()), segments, matches)
			}
		}
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		ok, err := filepath.Match(segments[0], entry.Name())
		if err != nil || !ok {
			continue
		}
		child := path.Join(rel, entry.Name())
		if len(segments) == 1 {
			matches[child] = entry.IsDir()
		} else if entry.IsDir() {
			matchSegments(base, child, segments[1:], matches)
		}
	}
}

// hasGlobMeta reports whether the pattern contains any glob metacharacter.
func hasGlobMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[]")
}
