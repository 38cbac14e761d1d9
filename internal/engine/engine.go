// Package engine holds the navigation state machine: which hunk is
// current, what has been seen, and how playback paces itself. It is a pure
// state container with no UI or git dependencies, driven entirely by the
// update loop.
package engine

import (
	"time"

	"github.com/zjrosen/hunky/internal/diff"
	"github.com/zjrosen/hunky/internal/log"
)

// ViewMode controls which hunks navigation visits.
type ViewMode int

const (
	// NewChangesOnly visits only hunks not yet marked seen.
	NewChangesOnly ViewMode = iota
	// AllChanges visits every hunk in order regardless of seen state.
	AllChanges
)

func (m ViewMode) String() string {
	if m == AllChanges {
		return "all"
	}
	return "new"
}

// StreamMode controls whether playback advances on its own.
type StreamMode int

const (
	// AutoStream advances to the next hunk after a pacing delay.
	AutoStream StreamMode = iota
	// Buffered advances only on explicit user input.
	Buffered
)

func (m StreamMode) String() string {
	if m == Buffered {
		return "buffered"
	}
	return "auto"
}

// Speed is a pacing tier for auto-stream playback.
type Speed int

const (
	SpeedFast Speed = iota
	SpeedMedium
	SpeedSlow
)

func (s Speed) String() string {
	switch s {
	case SpeedFast:
		return "fast"
	case SpeedSlow:
		return "slow"
	default:
		return "medium"
	}
}

// durations returns the base dwell time and the per-change increment.
func (s Speed) durations() (base, perChange time.Duration) {
	switch s {
	case SpeedFast:
		return 300 * time.Millisecond, 200 * time.Millisecond
	case SpeedSlow:
		return 500 * time.Millisecond, 1000 * time.Millisecond
	default:
		return 500 * time.Millisecond, 500 * time.Millisecond
	}
}

// Focus identifies which pane receives navigation keys.
type Focus int

const (
	FocusDiffView Focus = iota
	FocusFileList
)

// Options seeds the engine's initial modes, typically from config.
type Options struct {
	ViewMode   ViewMode
	StreamMode StreamMode
	Speed      Speed
	WrapLines  bool
}

// Engine owns the current snapshot, seen tracking, and cursor position.
// Not safe for concurrent use; all calls happen on the update loop.
type Engine struct {
	snap    diff.Snapshot
	tracker *diff.SeenTracker

	fileIdx int
	hunkIdx int

	viewMode   ViewMode
	streamMode StreamMode
	speed      Speed
	focus      Focus

	scrollOffset  int
	helpVisible   bool
	fileNamesOnly bool
	wrapLines     bool

	// reachedEnd means a full pass found nothing unseen; the session is
	// caught up until the next refresh introduces new hunks. Only
	// meaningful under NewChangesOnly, always false under AllChanges.
	reachedEnd bool
}

// New creates an engine over the initial snapshot. Everything already
// present at startup counts as seen: the session streams changes made
// from now on, not history.
func New(snap diff.Snapshot, opts Options) *Engine {
	tracker := diff.NewSeenTracker()
	tracker.MarkAll(snap)
	return &Engine{
		snap:       snap,
		tracker:    tracker,
		viewMode:   opts.ViewMode,
		streamMode: opts.StreamMode,
		speed:      opts.Speed,
		wrapLines:  opts.WrapLines,
		reachedEnd: opts.ViewMode == NewChangesOnly,
	}
}

// Snapshot returns the current snapshot.
func (e *Engine) Snapshot() diff.Snapshot { return e.snap }

// Position returns the cursor as (file index, hunk index).
func (e *Engine) Position() (int, int) { return e.fileIdx, e.hunkIdx }

// CurrentFile returns the file under the cursor, or nil when empty.
func (e *Engine) CurrentFile() *diff.FileChange {
	if e.fileIdx < 0 || e.fileIdx >= len(e.snap.Files) {
		return nil
	}
	return &e.snap.Files[e.fileIdx]
}

// CurrentHunk returns the hunk under the cursor, or nil when empty.
func (e *Engine) CurrentHunk() *diff.Hunk {
	return e.snap.HunkAt(e.fileIdx, e.hunkIdx)
}

func (e *Engine) ViewMode() ViewMode     { return e.viewMode }
func (e *Engine) StreamMode() StreamMode { return e.streamMode }
func (e *Engine) Speed() Speed           { return e.speed }
func (e *Engine) Focus() Focus           { return e.focus }
func (e *Engine) ReachedEnd() bool       { return e.reachedEnd }
func (e *Engine) ScrollOffset() int      { return e.scrollOffset }
func (e *Engine) HelpVisible() bool      { return e.helpVisible }
func (e *Engine) WrapLines() bool        { return e.wrapLines }
func (e *Engine) FileNamesOnly() bool    { return e.fileNamesOnly }

// UnseenCount reports how many hunks remain unseen.
func (e *Engine) UnseenCount() int { return e.tracker.UnseenCount(e.snap) }

// IsSeen reports whether a hunk was already viewed.
func (e *Engine) IsSeen(id diff.HunkID) bool { return e.tracker.IsSeen(id) }

// DwellTime returns how long auto-stream lingers on the current hunk:
// a base plus a per-change increment scaled by the hunk's logical change
// count.
func (e *Engine) DwellTime() time.Duration {
	base, per := e.speed.durations()
	h := e.CurrentHunk()
	if h == nil {
		return base
	}
	return base + time.Duration(h.ChangeCount())*per
}

// AdvanceHunk marks the current hunk seen and moves to the next one
// according to the view mode. A caught-up session under NewChangesOnly is
// a no-op: there is nothing to stream until new work arrives.
func (e *Engine) AdvanceHunk() bool {
	if e.viewMode == NewChangesOnly && e.reachedEnd {
		return false
	}
	if h := e.CurrentHunk(); h != nil {
		e.tracker.MarkSeen(h.ID)
	}
	if e.viewMode == NewChangesOnly {
		return e.SkipToNextUnseen()
	}
	return e.nextSequential()
}

// nextSequential steps to the next hunk in file order, wrapping
// cyclically. AllChanges never stops and never sets reachedEnd.
func (e *Engine) nextSequential() bool {
	if e.snap.TotalHunks() == 0 {
		return false
	}
	e.fileIdx, e.hunkIdx = e.stepForward(e.fileIdx, e.hunkIdx)
	e.scrollOffset = 0
	return true
}

// nextFileWithHunks returns the index of the next file after f that has at
// least one hunk, wrapping around. Returns -1 when no file has hunks.
func (e *Engine) nextFileWithHunks(f int) int {
	n := len(e.snap.Files)
	for step := 1; step <= n; step++ {
		idx := (f + step) % n
		if len(e.snap.Files[idx].Hunks) > 0 {
			return idx
		}
	}
	return -1
}

// SkipToNextUnseen scans forward from the position after the cursor,
// file-then-hunk ascending with wraparound, and jumps to the first unseen
// hunk. The scan terminates when it returns to the exact starting
// position; arriving back there means a complete cycle found nothing
// unseen, so the session is caught up.
func (e *Engine) SkipToNextUnseen() bool {
	if e.snap.TotalHunks() == 0 {
		e.reachedEnd = true
		return false
	}

	startFile, startHunk := e.fileIdx, e.hunkIdx
	f, h := startFile, startHunk
	for {
		f, h = e.stepForward(f, h)
		if f == startFile && h == startHunk {
			e.reachedEnd = true
			log.Debug(log.CatEngine, "caught up: no unseen hunks")
			return false
		}
		if hunk := e.snap.HunkAt(f, h); hunk != nil && !e.tracker.IsSeen(hunk.ID) {
			e.fileIdx, e.hunkIdx = f, h
			e.scrollOffset = 0
			e.reachedEnd = false
			return true
		}
	}
}

// stepForward returns the position after (f, h) in file-then-hunk order,
// wrapping from the last hunk of the last file to the first hunk of the
// first file with hunks.
func (e *Engine) stepForward(f, h int) (int, int) {
	if f >= 0 && f < len(e.snap.Files) && h+1 < len(e.snap.Files[f].Hunks) {
		return f, h + 1
	}
	next := e.nextFileWithHunks(f)
	if next < 0 {
		return f, h
	}
	return next, 0
}

// GoBack moves to the previous hunk in file order, crossing file
// boundaries to the previous file's last hunk. Only available in Buffered
// mode; auto-stream owns the cursor while it is playing. Seen state is
// untouched; going back is for re-reading, not unmarking.
func (e *Engine) GoBack() bool {
	if e.streamMode != Buffered || e.snap.TotalHunks() == 0 {
		return false
	}
	f, h := e.fileIdx, e.hunkIdx-1
	if h < 0 {
		f = e.prevFileWithHunks(f)
		if f < 0 {
			return false
		}
		h = len(e.snap.Files[f].Hunks) - 1
	}
	e.fileIdx, e.hunkIdx = f, h
	e.scrollOffset = 0
	return true
}

func (e *Engine) prevFileWithHunks(f int) int {
	n := len(e.snap.Files)
	for step := 1; step <= n; step++ {
		idx := ((f-step)%n + n) % n
		if len(e.snap.Files[idx].Hunks) > 0 {
			return idx
		}
	}
	return -1
}

// NextFile jumps to the next file, wrapping.
func (e *Engine) NextFile() bool {
	if len(e.snap.Files) == 0 {
		return false
	}
	e.enterFile((e.fileIdx + 1) % len(e.snap.Files))
	return true
}

// PrevFile jumps to the previous file, wrapping.
func (e *Engine) PrevFile() bool {
	if len(e.snap.Files) == 0 {
		return false
	}
	n := len(e.snap.Files)
	e.enterFile((e.fileIdx - 1 + n) % n)
	return true
}

// SelectFile moves the cursor to a specific file.
func (e *Engine) SelectFile(idx int) bool {
	if idx < 0 || idx >= len(e.snap.Files) {
		return false
	}
	e.enterFile(idx)
	return true
}

// enterFile positions the cursor inside a file: the first unseen hunk
// under NewChangesOnly, the first hunk otherwise.
func (e *Engine) enterFile(idx int) {
	e.fileIdx = idx
	e.hunkIdx = 0
	e.scrollOffset = 0
	if e.viewMode == NewChangesOnly {
		for hi := range e.snap.Files[idx].Hunks {
			if !e.tracker.IsSeen(e.snap.Files[idx].Hunks[hi].ID) {
				e.hunkIdx = hi
				break
			}
		}
	}
}

// MarkCurrentSeen records the current hunk as viewed without moving.
func (e *Engine) MarkCurrentSeen() {
	if h := e.CurrentHunk(); h != nil {
		e.tracker.MarkSeen(h.ID)
	}
}

// ToggleViewMode flips between visiting all hunks and only unseen ones.
// Clears reachedEnd: the caught-up verdict was computed for the old mode.
func (e *Engine) ToggleViewMode() ViewMode {
	if e.viewMode == AllChanges {
		e.viewMode = NewChangesOnly
	} else {
		e.viewMode = AllChanges
	}
	e.reachedEnd = false
	return e.viewMode
}

// ToggleStreamMode flips between auto-stream and buffered playback.
func (e *Engine) ToggleStreamMode() StreamMode {
	if e.streamMode == AutoStream {
		e.streamMode = Buffered
	} else {
		e.streamMode = AutoStream
	}
	return e.streamMode
}

// CycleSpeed rotates fast -> medium -> slow -> fast.
func (e *Engine) CycleSpeed() Speed {
	switch e.speed {
	case SpeedFast:
		e.speed = SpeedMedium
	case SpeedMedium:
		e.speed = SpeedSlow
	default:
		e.speed = SpeedFast
	}
	return e.speed
}

// ClearSeen forgets all seen state so every hunk streams again.
func (e *Engine) ClearSeen() {
	e.tracker.Clear()
	e.reachedEnd = false
}

// ToggleFocus switches which pane owns navigation keys.
func (e *Engine) ToggleFocus() Focus {
	if e.focus == FocusDiffView {
		e.focus = FocusFileList
	} else {
		e.focus = FocusDiffView
	}
	return e.focus
}

// SetFocus routes subsequent navigation keys to the given pane.
func (e *Engine) SetFocus(f Focus) { e.focus = f }

// Scroll adjusts the diff scroll offset, floored at zero. The upper bound
// is the renderer's problem; it knows the content height.
func (e *Engine) Scroll(delta int) {
	e.scrollOffset = max(0, e.scrollOffset+delta)
}

// ToggleHelp shows or hides the help overlay.
func (e *Engine) ToggleHelp() bool {
	e.helpVisible = !e.helpVisible
	return e.helpVisible
}

// ToggleWrap switches long-line wrapping in the diff pane.
func (e *Engine) ToggleWrap() bool {
	e.wrapLines = !e.wrapLines
	return e.wrapLines
}

// ToggleFileNames switches the file list between full paths and basenames.
func (e *Engine) ToggleFileNames() bool {
	e.fileNamesOnly = !e.fileNamesOnly
	return e.fileNamesOnly
}

// Refresh swaps in a new snapshot. Seen state for surviving hunks is kept
// and stale IDs are pruned. The cursor stays on the same hunk when it
// still exists, otherwise clamps to valid bounds. When the session was
// caught up and new unseen work arrived, the cursor jumps straight to the
// first unseen hunk so streaming resumes where the action is.
func (e *Engine) Refresh(snap diff.Snapshot) {
	var keepID *diff.HunkID
	if h := e.CurrentHunk(); h != nil {
		id := h.ID
		keepID = &id
	}
	prevPath := ""
	if f := e.CurrentFile(); f != nil {
		prevPath = f.Path
	}

	wasCaughtUp := e.viewMode == NewChangesOnly && e.reachedEnd
	e.tracker.Reconcile(snap)
	e.snap = snap

	e.relocate(keepID, prevPath)
	e.scrollOffset = 0

	unseen := e.tracker.UnseenCount(snap)
	if unseen > 0 {
		e.reachedEnd = false
		if wasCaughtUp {
			e.jumpToFirstUnseen()
		}
	} else {
		e.reachedEnd = e.viewMode == NewChangesOnly
	}
	log.Debug(log.CatEngine, "snapshot refreshed",
		"files", len(snap.Files), "hunks", snap.TotalHunks(), "unseen", unseen)
}

// relocate re-anchors the cursor after a snapshot swap: same hunk if it
// survived, same file path otherwise. When both are gone the cursor
// resets to the top — first unseen hunk under NewChangesOnly, first
// file's first hunk otherwise.
func (e *Engine) relocate(keepID *diff.HunkID, prevPath string) {
	if keepID != nil {
		for fi := range e.snap.Files {
			for hi := range e.snap.Files[fi].Hunks {
				if e.snap.Files[fi].Hunks[hi].ID == *keepID {
					e.fileIdx, e.hunkIdx = fi, hi
					return
				}
			}
		}
	}
	if prevPath != "" {
		for fi := range e.snap.Files {
			if e.snap.Files[fi].Path == prevPath {
				e.fileIdx = fi
				e.hunkIdx = 0
				return
			}
		}
	}
	e.fileIdx, e.hunkIdx = 0, 0
	if e.viewMode == NewChangesOnly {
		e.jumpToFirstUnseen()
	}
}

// jumpToFirstUnseen moves the cursor to the first unseen hunk in file
// order, scanning from the top.
func (e *Engine) jumpToFirstUnseen() bool {
	for fi := range e.snap.Files {
		for hi := range e.snap.Files[fi].Hunks {
			if !e.tracker.IsSeen(e.snap.Files[fi].Hunks[hi].ID) {
				e.fileIdx, e.hunkIdx = fi, hi
				return true
			}
		}
	}
	return false
}
