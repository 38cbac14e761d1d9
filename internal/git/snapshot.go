package git

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/zjrosen/hunky/internal/diff"
	"github.com/zjrosen/hunky/internal/log"
)

// SnapshotBuilder assembles point-in-time snapshots of all uncommitted
// changes: the tracked diff from HEAD to the working directory, plus
// untracked files synthesized as pure additions.
type SnapshotBuilder struct {
	exec         Executor
	root         string
	contextLines int
}

// NewSnapshotBuilder creates a builder for the repository rooted at root.
func NewSnapshotBuilder(exec Executor, root string, contextLines int) *SnapshotBuilder {
	return &SnapshotBuilder{exec: exec, root: root, contextLines: contextLines}
}

// Build captures the current snapshot. On error the caller keeps whatever
// snapshot it already has; a failed refresh never tears down displayed
// state.
func (b *SnapshotBuilder) Build(ctx context.Context) (diff.Snapshot, error) {
	base := "HEAD"
	if !b.exec.HasHead(ctx, b.root) {
		base = EmptyTreeHash
	}

	raw, err := b.exec.Diff(ctx, b.root, base, b.contextLines)
	if err != nil {
		return diff.Snapshot{}, err
	}
	files := diff.Parse(raw)

	untracked, err := b.exec.UntrackedFiles(ctx, b.root)
	if err != nil {
		return diff.Snapshot{}, err
	}
	for _, path := range untracked {
		fc, err := b.synthesizeUntracked(path)
		if err != nil {
			// File may have vanished between listing and reading.
			log.Debug(log.CatGit, "skipping untracked file", "path", path, "error", err.Error())
			continue
		}
		files = append(files, fc)
	}

	snap := diff.Snapshot{Timestamp: time.Now(), Files: files}
	snap.Normalize()
	return snap, nil
}

// synthesizeUntracked turns an untracked file into a single all-additions
// hunk, the same shape a freshly added tracked file produces.
func (b *SnapshotBuilder) synthesizeUntracked(path string) (diff.FileChange, error) {
	data, err := b.exec.FileContent(b.root, path)
	if err != nil {
		return diff.FileChange{}, err
	}

	fc := diff.FileChange{
		Path:        path,
		OldPath:     path,
		Status:      diff.StatusAdded,
		IsUntracked: true,
	}

	if bytes.IndexByte(data, 0) >= 0 {
		fc.IsBinary = true
		return fc, nil
	}

	content := strings.TrimSuffix(string(data), "\n")
	if content == "" && len(data) == 0 {
		return fc, nil
	}

	raw := strings.Split(content, "\n")
	lines := make([]diff.Line, len(raw))
	for i, text := range raw {
		lines[i] = diff.Line{
			Kind:       diff.LineAddition,
			NewLineNum: i + 1,
			Content:    text,
		}
	}
	fc.Additions = len(lines)
	fc.Hunks = []diff.Hunk{
		diff.NewHunk(path, 0, 0, 1, len(lines), "", lines),
	}
	return fc, nil
}
