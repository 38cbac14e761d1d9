package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/zjrosen/hunky/internal/log"
)

// RealExecutor runs the actual git binary.
type RealExecutor struct{}

// NewRealExecutor creates an executor backed by the system git binary.
func NewRealExecutor() *RealExecutor {
	return &RealExecutor{}
}

var _ Executor = (*RealExecutor)(nil)

func (e *RealExecutor) IsGitRepo(ctx context.Context, dir string) bool {
	out, err := runGitOutput(ctx, dir, "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(out) == "true"
}

func (e *RealExecutor) RepoRoot(ctx context.Context, dir string) (string, error) {
	out, err := runGitOutput(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (e *RealExecutor) HasHead(ctx context.Context, root string) bool {
	_, err := runGitOutput(ctx, root, "rev-parse", "--verify", "HEAD")
	return err == nil
}

func (e *RealExecutor) Diff(ctx context.Context, root, base string, contextLines int) (string, error) {
	out, err := runGitOutput(ctx, root,
		"diff", base,
		"--no-color",
		"--no-ext-diff",
		"--find-renames",
		fmt.Sprintf("--unified=%d", contextLines),
	)
	if err != nil {
		return "", fmt.Errorf("diff against %s: %w", base, err)
	}
	return out, nil
}

func (e *RealExecutor) UntrackedFiles(ctx context.Context, root string) ([]string, error) {
	out, err := runGitOutput(ctx, root, "ls-files", "--others", "--exclude-standard")
	if err != nil {
		return nil, fmt.Errorf("list untracked: %w", err)
	}
	var files []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}

func (e *RealExecutor) FileContent(root, path string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(root, path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrPathNotExists
		}
		return nil, err
	}
	return data, nil
}

// runGitOutput executes git in dir and returns stdout, translating common
// failures to sentinel errors.
func runGitOutput(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		gitErr := parseGitError(stderr.String(), err)
		log.Debug(log.CatGit, "git command failed", "args", strings.Join(args, " "), "error", gitErr.Error())
		return "", gitErr
	}
	return stdout.String(), nil
}

func parseGitError(stderr string, err error) error {
	var execErr *exec.Error
	if errors.As(err, &execErr) && errors.Is(execErr.Err, exec.ErrNotFound) {
		return ErrGitNotFound
	}

	msg := strings.ToLower(stderr)
	switch {
	case strings.Contains(msg, "not a git repository"):
		return ErrNotGitRepo
	case strings.Contains(msg, "bad revision") || strings.Contains(msg, "unknown revision"):
		return ErrNoHead
	case strings.Contains(msg, "no such file or directory"):
		return ErrPathNotExists
	}

	trimmed := strings.TrimSpace(stderr)
	if trimmed == "" {
		return err
	}
	return fmt.Errorf("%s: %w", trimmed, err)
}
