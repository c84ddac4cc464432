// Package fetch clones repositories into ephemeral workspaces and
// enumerates the source files worth documenting.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	git "github.com/go-git/go-git/v5"
)

// Sentinel errors for the clone stage. Use errors.Is() to check for
// these in calling code.
var (
	// ErrInvalidRepository indicates the URL is not a well-formed
	// repository reference. No clone is attempted.
	ErrInvalidRepository = errors.New("invalid repository URL")

	// ErrCloneFailed indicates the underlying fetch errored
	// (not found, auth, network).
	ErrCloneFailed = errors.New("failed to clone repository")

	// ErrEmptyRepository indicates no candidate files survived filtering.
	ErrEmptyRepository = errors.New("no documentable files found in repository")
)

// Candidate is one file selected for summarization. It lives only for
// the duration of the pipeline run.
type Candidate struct {
	Path    string // relative to the repository root
	Content string
	Size    int64
}

// Workspace is the temporary directory a repository was cloned into.
// Cleanup must run on every pipeline exit path; later stages read from
// the workspace, so the fetcher cannot remove it itself.
type Workspace struct {
	Dir string
}

// Cleanup removes the workspace directory. Safe to call more than once.
func (w *Workspace) Cleanup() {
	if w == nil || w.Dir == "" {
		return
	}
	if err := os.RemoveAll(w.Dir); err != nil {
		slog.Warn("failed to remove workspace", "dir", w.Dir, "error", err)
	}
	w.Dir = ""
}

// Fetcher clones repositories. It is an interface so tests can
// substitute a deterministic fake.
type Fetcher interface {
	// Clone fetches the repository into a fresh temporary workspace.
	Clone(ctx context.Context, repoURL string) (*Workspace, error)

	// Index walks the workspace and returns candidates in a
	// deterministic order.
	Index(ctx context.Context, ws *Workspace) ([]Candidate, error)
}

// GitFetcher clones over HTTPS using go-git.
type GitFetcher struct {
	// MaxFileBytes is the per-file size ceiling; larger files are
	// skipped, not truncated.
	MaxFileBytes int64
}

// NewGitFetcher creates a fetcher with the given file size ceiling.
func NewGitFetcher(maxFileBytes int64) *GitFetcher {
	if maxFileBytes <= 0 {
		maxFileBytes = 256 * 1024
	}
	return &GitFetcher{MaxFileBytes: maxFileBytes}
}

// ValidateRepoURL checks that raw denotes a well-formed repository
// reference. It accepts http(s) URLs with an owner/repo path.
func ValidateRepoURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("%w: empty URL", ErrInvalidRepository)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRepository, raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: unsupported scheme %q", ErrInvalidRepository, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidRepository)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("%w: expected owner/repo path", ErrInvalidRepository)
	}
	return nil
}

// RepoName extracts a display name from a repository URL.
func RepoName(repoURL string) string {
	name := strings.TrimSuffix(strings.TrimRight(repoURL, "/"), ".git")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		name = "repository"
	}
	return name
}

// Clone fetches the repository into a fresh temporary directory.
// The caller owns the returned workspace and must arrange Cleanup.
func (f *GitFetcher) Clone(ctx context.Context, repoURL string) (*Workspace, error) {
	if err := ValidateRepoURL(repoURL); err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp("", "autoreadme-*")
	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	ws := &Workspace{Dir: dir}

	slog.Info("cloning repository", "url", repoURL, "dir", dir)

	_, err = git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:          repoURL,
		Depth:        1,
		SingleBranch: true,
	})
	if err != nil {
		ws.Cleanup()
		return nil, fmt.Errorf("%w: %v", ErrCloneFailed, err)
	}

	return ws, nil
}

// Index enumerates candidate files under the workspace. The result is
// ordered deterministically: lexicographic walk, then regrouped by
// documentation priority (stable within each group), so repeated runs
// over an unchanged repository produce identical candidate lists.
func (f *GitFetcher) Index(ctx context.Context, ws *Workspace) ([]Candidate, error) {
	paths, err := collectPaths(ws.Dir, f.MaxFileBytes)
	if err != nil {
		return nil, fmt.Errorf("index workspace: %w", err)
	}
	paths = Prioritize(paths)

	candidates := make([]Candidate, 0, len(paths))
	for _, p := range paths {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c, ok, err := readCandidate(ws.Dir, p)
		if err != nil {
			slog.Warn("skipping unreadable file", "file", p, "error", err)
			continue
		}
		if ok {
			candidates = append(candidates, c)
		}
	}

	if len(candidates) == 0 {
		return nil, ErrEmptyRepository
	}

	slog.Info("indexed repository", "candidates", len(candidates))
	return candidates, nil
}
