// Package testutil provides git repository fixtures for tests.
package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// RepoBuilder accumulates working tree edits and commits against a
// throwaway git repository.
type RepoBuilder struct {
	t   *testing.T
	dir string
}

// NewRepo initializes an empty git repository in a temp directory.
// Skips the test when git is not installed.
func NewRepo(t *testing.T) *RepoBuilder {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	b := &RepoBuilder{t: t, dir: dir}
	b.Git("init", "--quiet")
	b.Git("config", "user.email", "test@example.com")
	b.Git("config", "user.name", "test")
	b.Git("config", "commit.gpgsign", "false")
	return b
}

// Dir returns the repository root.
func (b *RepoBuilder) Dir() string { return b.dir }

// WithFile writes a file relative to the repo root, creating parent
// directories as needed. The file is left unstaged.
func (b *RepoBuilder) WithFile(path, content string) *RepoBuilder {
	b.t.Helper()
	full := filepath.Join(b.dir, path)
	require.NoError(b.t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(b.t, os.WriteFile(full, []byte(content), 0o644))
	return b
}

// Remove deletes a file from the working tree.
func (b *RepoBuilder) Remove(path string) *RepoBuilder {
	b.t.Helper()
	require.NoError(b.t, os.Remove(filepath.Join(b.dir, path)))
	return b
}

// Commit stages everything and commits it.
func (b *RepoBuilder) Commit(msg string) *RepoBuilder {
	b.t.Helper()
	b.Git("add", "-A")
	b.Git("commit", "--quiet", "-m", msg)
	return b
}

// Git runs a git command inside the repository and fails the test on error.
func (b *RepoBuilder) Git(args ...string) *RepoBuilder {
	b.t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = b.dir
	out, err := cmd.CombinedOutput()
	require.NoError(b.t, err, "git %v: %s", args, out)
	return b
}

// WithCommittedFile writes a file and commits it in one step.
func (b *RepoBuilder) WithCommittedFile(path, content string) *RepoBuilder {
	b.t.Helper()
	return b.WithFile(path, content).Commit("add " + path)
}

// StandardRepo builds the baseline fixture most integration tests start
// from: one committed source file, clean working tree.
func StandardRepo(t *testing.T) *RepoBuilder {
	t.Helper()
	return NewRepo(t).WithCommittedFile("main.go", "line one\nline two\n")
}
