// Package git shells out to the git binary to read repository state and
// assemble snapshots of uncommitted changes.
package git

import (
	"context"
	"errors"
)

// Sentinel errors for common git failure modes.
var (
	ErrNotGitRepo    = errors.New("not a git repository")
	ErrGitNotFound   = errors.New("git executable not found in PATH")
	ErrNoHead        = errors.New("repository has no HEAD commit")
	ErrPathNotExists = errors.New("path does not exist")
)

// EmptyTreeHash is git's well-known empty tree object, used as the diff
// base for repositories that have no commits yet.
const EmptyTreeHash = "4b825dc642cb6eb9a060e54bf8d69288fbee4904"

// Executor abstracts git operations for testability.
type Executor interface {
	// IsGitRepo reports whether dir is inside a git working tree.
	IsGitRepo(ctx context.Context, dir string) bool

	// RepoRoot resolves the top-level working tree directory for dir.
	RepoRoot(ctx context.Context, dir string) (string, error)

	// HasHead reports whether the repository has at least one commit.
	HasHead(ctx context.Context, root string) bool

	// Diff returns raw unified diff output from base (a commit-ish or
	// tree hash) to the working directory, with the given number of
	// context lines.
	Diff(ctx context.Context, root, base string, contextLines int) (string, error)

	// UntrackedFiles lists files unknown to the index, honoring
	// .gitignore, as repo-relative paths.
	UntrackedFiles(ctx context.Context, root string) ([]string, error)

	// FileContent reads a working tree file, repo-relative.
	FileContent(root, path string) ([]byte, error)
}
