// Package diff defines the snapshot data model for uncommitted changes:
// files, hunks, classified lines, and stable per-hunk identity.
package diff

import (
	"sort"
	"time"

	"github.com/zeebo/xxh3"
)

// LineKind classifies a single diff line.
type LineKind int

const (
	LineContext  LineKind = iota // ' ' prefix - unchanged line
	LineAddition                 // '+' prefix - added line
	LineDeletion                 // '-' prefix - deleted line
)

// Line is a single classified line within a hunk.
type Line struct {
	Kind       LineKind
	OldLineNum int    // Line number in old file (0 if addition)
	NewLineNum int    // Line number in new file (0 if deletion)
	Content    string // Line content without the +/-/space prefix
}

// IsChange reports whether the line is an addition or deletion.
func (l Line) IsChange() bool {
	return l.Kind == LineAddition || l.Kind == LineDeletion
}

// FileStatus describes how a file changed relative to the baseline.
type FileStatus int

const (
	StatusAdded FileStatus = iota
	StatusModified
	StatusDeleted
	StatusRenamed
)

// String returns the human-readable status name.
func (s FileStatus) String() string {
	switch s {
	case StatusAdded:
		return "Added"
	case StatusModified:
		return "Modified"
	case StatusDeleted:
		return "Deleted"
	case StatusRenamed:
		return "Renamed"
	default:
		return "Unknown"
	}
}

// HunkID uniquely identifies a hunk within a session by location and
// content. Any edit to the hunk's lines produces a different ID, which is
// how modified hunks resurface as unseen.
type HunkID struct {
	Path        string
	OldStart    int
	NewStart    int
	ContentHash uint64
}

// Hunk is a contiguous block of classified lines forming one change region.
type Hunk struct {
	OldStart int    // Starting line number in old file
	OldCount int    // Number of lines from old file
	NewStart int    // Starting line number in new file
	NewCount int    // Number of lines from new file
	Header   string // Trailing text of the @@ line (function context, if any)
	Lines    []Line
	ID       HunkID
}

// NewHunk builds a hunk and derives its identity from path, position, and
// line content. The hash covers each line's classification as well as its
// text, so flipping a line between added and deleted changes the ID.
func NewHunk(path string, oldStart, oldCount, newStart, newCount int, header string, lines []Line) Hunk {
	return Hunk{
		OldStart: oldStart,
		OldCount: oldCount,
		NewStart: newStart,
		NewCount: newCount,
		Header:   header,
		Lines:    lines,
		ID:       NewHunkID(path, oldStart, newStart, lines),
	}
}

// NewHunkID computes the stable identity for a hunk. The content hash is a
// fast 64-bit structural hash; session-local collision resistance is all
// that is needed here.
func NewHunkID(path string, oldStart, newStart int, lines []Line) HunkID {
	h := xxh3.New()
	for _, line := range lines {
		_, _ = h.Write([]byte{byte(line.Kind)})
		_, _ = h.WriteString(line.Content)
		_, _ = h.Write([]byte{'\n'})
	}
	return HunkID{
		Path:        path,
		OldStart:    oldStart,
		NewStart:    newStart,
		ContentHash: h.Sum64(),
	}
}

// ChangeCount returns the number of logical changes in the hunk.
// An adjacent add/remove pair counts as one change; unpaired additions or
// deletions count individually. Context lines never count.
func (h Hunk) ChangeCount() int {
	var adds, dels int
	for _, line := range h.Lines {
		switch line.Kind {
		case LineAddition:
			adds++
		case LineDeletion:
			dels++
		}
	}
	pairs := min(adds, dels)
	return pairs + (adds + dels - 2*pairs)
}

// FileChange holds one changed file and its ordered hunks.
type FileChange struct {
	Path        string // Current path (old path for deleted files)
	OldPath     string // Pre-rename path; equals Path unless renamed
	Status      FileStatus
	IsBinary    bool
	IsUntracked bool // Not yet known to the index
	Additions   int
	Deletions   int
	Hunks       []Hunk // Sorted by OldStart ascending
}

// Snapshot is an immutable, point-in-time capture of all current changes.
// It is replaced wholesale on refresh and never mutated in place.
type Snapshot struct {
	Timestamp time.Time
	Files     []FileChange // Sorted by Path ascending
}

// Normalize sorts files by path and each file's hunks by old start line,
// establishing the deterministic ordering every consumer relies on.
func (s *Snapshot) Normalize() {
	sort.Slice(s.Files, func(i, j int) bool {
		return s.Files[i].Path < s.Files[j].Path
	})
	for i := range s.Files {
		hunks := s.Files[i].Hunks
		sort.Slice(hunks, func(a, b int) bool {
			return hunks[a].OldStart < hunks[b].OldStart
		})
	}
}

// IsEmpty reports whether the snapshot contains no file changes.
func (s Snapshot) IsEmpty() bool {
	return len(s.Files) == 0
}

// TotalHunks returns the number of hunks across all files.
func (s Snapshot) TotalHunks() int {
	n := 0
	for _, f := range s.Files {
		n += len(f.Hunks)
	}
	return n
}

// HunkAt returns the hunk at (fileIdx, hunkIdx), or nil when out of range.
func (s Snapshot) HunkAt(fileIdx, hunkIdx int) *Hunk {
	if fileIdx < 0 || fileIdx >= len(s.Files) {
		return nil
	}
	hunks := s.Files[fileIdx].Hunks
	if hunkIdx < 0 || hunkIdx >= len(hunks) {
		return nil
	}
	return &hunks[hunkIdx]
}
