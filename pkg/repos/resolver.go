// Package repos resolves repository URLs to local directories. The
// workspace's own repository is returned directly; external repositories
// are shallow-cloned into a temp root and cached for the resolver's
// lifetime.
package repos

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/appsetgen/pkg/errors"
	"github.com/arthur-debert/appsetgen/pkg/logging"
)

var (
	sshURLPattern   = regexp.MustCompile(`^[\w.-]+@([\w.-]+):(.*?)(?:\.git)?$`)
	schemePattern   = regexp.MustCompile(`^(https?|git)://`)
	httpsURLPattern = regexp.MustCompile(`^https://([^/]+)/(.+)$`)
	unsafeChars     = regexp.MustCompile(`[^\w.-]`)
)

// NormalizeURL reduces a repository URL to a canonical form used for
// cache keying, so HTTPS, SSH, and git:// spellings of the same
// repository resolve to the same clone.
func NormalizeURL(url string) string {
	url = strings.TrimSpace(url)

	if m := sshURLPattern.FindStringSubmatch(url); m != nil {
		return m[1] + "/" + m[2]
	}

	url = schemePattern.ReplaceAllString(url, "")
	url = strings.TrimSuffix(url, ".git")
	return strings.TrimRight(url, "/")
}

// Resolver resolves repository URLs to local filesystem paths, cloning
// and caching external repositories. It satisfies the generators.Resolver
// interface.
type Resolver struct {
	workspace string
	localKey  string
	token     string
	cache     map[string]string
	tmpRoot   string
	logger    zerolog.Logger
}

// NewResolver creates a Resolver rooted at workspace. localRepoURL
// identifies the repository the workspace is a checkout of; when empty
// it is detected from the CI environment or the workspace's git remote.
// token, when set, is injected into HTTPS clone URLs for private-repo
// access.
func NewResolver(workspace, localRepoURL, token string) *Resolver {
	r := &Resolver{
		workspace: workspace,
		token:     token,
		cache:     make(map[string]string),
		logger:    logging.GetLogger("repos"),
	}
	if localRepoURL != "" {
		r.localKey = NormalizeURL(localRepoURL)
	} else {
		r.localKey = detectLocalRepoURL(workspace)
	}
	return r
}

// Resolve returns a local path for repoURL at revision. An empty repoURL
// or one matching the workspace repository returns the workspace root;
// anything else is cloned (or served from the clone cache).
func (r *Resolver) Resolve(repoURL, revision string) (string, error) {
	if repoURL == "" {
		return r.workspace, nil
	}

	key := NormalizeURL(repoURL)
	if key == r.localKey {
		return r.workspace, nil
	}

	cacheKey := key + "@" + revisionOr(revision, "HEAD")
	if dir, ok := r.cache[cacheKey]; ok {
		return dir, nil
	}

	dir, err := r.clone(repoURL, revision)
	if err != nil {
		return "", err
	}
	r.cache[cacheKey] = dir
	return dir, nil
}

// Cleanup removes all temporary clones. Safe to call more than once.
func (r *Resolver) Cleanup() {
	if r.tmpRoot != "" {
		if err := os.RemoveAll(r.tmpRoot); err != nil {
			r.logger.Warn().Err(err).Str("dir", r.tmpRoot).Msg("Failed to remove clone root")
		}
		r.tmpRoot = ""
	}
	r.cache = make(map[string]string)
}

func (r *Resolver) clone(repoURL, revision string) (string, error) {
	if r.tmpRoot == "" {
		root, err := os.MkdirTemp("", "appsetgen-repos-")
		if err != nil {
			return "", errors.Wrap(err, errors.ErrRepoClone, "failed to create clone root")
		}
		r.tmpRoot = root
	}

	name := unsafeChars.ReplaceAllString(NormalizeURL(repoURL), "_")
	if revision != "" {
		name += "__" + unsafeChars.ReplaceAllString(revision, "_")
	}
	dir := filepath.Join(r.tmpRoot, name)
	if _, err := os.Stat(dir); err == nil {
		return dir, nil
	}

	cloneURL := r.injectToken(repoURL)
	r.logger.Info().
		Str("repo", repoURL).
		Str("revision", revisionOr(revision, "HEAD")).
		Msg("Cloning repository")

	opts := &git.CloneOptions{URL: cloneURL, Depth: 1}
	if revision != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(revision)
		opts.SingleBranch = true
	}

	_, err := git.PlainClone(dir, false, opts)
	if err != nil && revision != "" {
		// Not a branch; try as a tag, then fall back to a full clone and
		// checkout for commit SHA revisions.
		_ = os.RemoveAll(dir)
		opts.ReferenceName = plumbing.NewTagReferenceName(revision)
		_, err = git.PlainClone(dir, false, opts)
		if err != nil {
			_ = os.RemoveAll(dir)
			return r.cloneFull(cloneURL, repoURL, revision, dir)
		}
	}
	if err != nil {
		_ = os.RemoveAll(dir)
		return "", errors.Wrapf(err, errors.ErrRepoClone, "failed to clone %s", repoURL)
	}

	return dir, nil
}

// cloneFull clones without depth limits and checks out revision as a
// commit hash.
func (r *Resolver) cloneFull(cloneURL, repoURL, revision, dir string) (string, error) {
	repo, err := git.PlainClone(dir, false, &git.CloneOptions{URL: cloneURL})
	if err != nil {
		_ = os.RemoveAll(dir)
		return "", errors.Wrapf(err, errors.ErrRepoClone, "failed to clone %s", repoURL)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		_ = os.RemoveAll(dir)
		return "", errors.Wrapf(err, errors.ErrRepoCheckout, "failed to open worktree for %s", repoURL)
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: plumbing.NewHash(revision)}); err != nil {
		_ = os.RemoveAll(dir)
		return "", errors.Wrapf(err, errors.ErrRepoCheckout, "failed to checkout %s of %s", revision, repoURL)
	}
	return dir, nil
}

// injectToken adds the access token to HTTPS URLs. Other URL forms are
// returned unchanged.
func (r *Resolver) injectToken(repoURL string) string {
	if r.token == "" {
		return repoURL
	}
	if m := httpsURLPattern.FindStringSubmatch(repoURL); m != nil {
		return "https://x-access-token:" + r.token + "@" + m[1] + "/" + m[2]
	}
	return repoURL
}

// detectLocalRepoURL determines the workspace's repository URL from the
// CI environment, falling back to the git remote named origin.
func detectLocalRepoURL(workspace string) string {
	if ghRepo := os.Getenv("GITHUB_REPOSITORY"); ghRepo != "" {
		server := os.Getenv("GITHUB_SERVER_URL")
		if server == "" {
			server = "https://github.com"
		}
		return NormalizeURL(server + "/" + ghRepo)
	}

	repo, err := git.PlainOpenWithOptions(workspace, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return ""
	}
	remote, err := repo.Remote("origin")
	if err != nil || len(remote.Config().URLs) == 0 {
		return ""
	}
	return NormalizeURL(remote.Config().URLs[0])
}

func revisionOr(revision, fallback string) string {
	if revision == "" {
		return fallback
	}
	return revision
}
