package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/hunky/internal/diff"
)

// mkSnap builds a snapshot where files[i] has counts[i] hunks, each with
// unique content so every hunk gets a distinct ID.
func mkSnap(counts ...int) diff.Snapshot {
	var files []diff.FileChange
	for fi, n := range counts {
		path := fmt.Sprintf("file%02d.go", fi)
		fc := diff.FileChange{Path: path, OldPath: path, Status: diff.StatusModified}
		for hi := 0; hi < n; hi++ {
			start := hi*10 + 1
			fc.Hunks = append(fc.Hunks, diff.NewHunk(path, start, 1, start, 1, "", []diff.Line{
				{Kind: diff.LineAddition, Content: fmt.Sprintf("%s-h%d", path, hi)},
			}))
		}
		files = append(files, fc)
	}
	snap := diff.Snapshot{Timestamp: time.Now(), Files: files}
	snap.Normalize()
	return snap
}

// newStreaming creates an engine where nothing is seen yet, positioned at
// the first hunk - the state right after fresh changes arrive.
func newStreaming(snap diff.Snapshot, opts Options) *Engine {
	e := New(diff.Snapshot{}, opts)
	e.Refresh(snap)
	return e
}

func TestNew_InitialStateIsCaughtUp(t *testing.T) {
	e := New(mkSnap(2, 1), Options{ViewMode: NewChangesOnly})

	assert.True(t, e.ReachedEnd())
	assert.Equal(t, 0, e.UnseenCount())
	assert.False(t, e.AdvanceHunk(), "caught-up advance is a no-op")
}

func TestNew_AllChangesNeverReachesEnd(t *testing.T) {
	e := New(mkSnap(1), Options{ViewMode: AllChanges})
	assert.False(t, e.ReachedEnd())
}

func TestAdvance_AllChangesCyclesForever(t *testing.T) {
	e := New(mkSnap(2, 1, 3), Options{ViewMode: AllChanges})

	want := [][2]int{
		{0, 1}, {1, 0}, {2, 0}, {2, 1}, {2, 2},
		{0, 0}, {0, 1}, {1, 0}, // wraps and keeps going
	}
	for i, pos := range want {
		require.True(t, e.AdvanceHunk(), "advance %d", i)
		f, h := e.Position()
		assert.Equal(t, pos, [2]int{f, h}, "advance %d", i)
		assert.False(t, e.ReachedEnd(), "advance %d", i)
	}
}

// Scenario: files [A:{h1,h2,h3}, B:{h4}] all unseen, NewChangesOnly.
// Advancing visits every hunk in order; the advance past the last one
// completes the cycle and sets reachedEnd with position held.
func TestAdvance_NewChangesOnlyStreamsThenCatchesUp(t *testing.T) {
	e := newStreaming(mkSnap(3, 1), Options{ViewMode: NewChangesOnly})
	f, h := e.Position()
	require.Equal(t, [2]int{0, 0}, [2]int{f, h})

	for i, pos := range [][2]int{{0, 1}, {0, 2}, {1, 0}} {
		require.True(t, e.AdvanceHunk(), "advance %d", i)
		f, h = e.Position()
		assert.Equal(t, pos, [2]int{f, h})
		assert.False(t, e.ReachedEnd())
	}

	// Current hunk is the last unseen one; advancing marks it and finds
	// nothing more.
	assert.False(t, e.AdvanceHunk())
	assert.True(t, e.ReachedEnd())
	f, h = e.Position()
	assert.Equal(t, [2]int{1, 0}, [2]int{f, h}, "position held at last hunk")
	assert.Equal(t, 0, e.UnseenCount())
}

func TestAdvance_IdempotentOnceCaughtUp(t *testing.T) {
	e := newStreaming(mkSnap(2), Options{ViewMode: NewChangesOnly})
	for e.AdvanceHunk() {
	}
	require.True(t, e.ReachedEnd())

	f, h := e.Position()
	for i := 0; i < 5; i++ {
		assert.False(t, e.AdvanceHunk())
	}
	f2, h2 := e.Position()
	assert.Equal(t, [2]int{f, h}, [2]int{f2, h2})
	assert.True(t, e.ReachedEnd())
}

// Scenario: clear_seen after catching up streams everything again.
func TestClearSeen_RestartsStreaming(t *testing.T) {
	e := newStreaming(mkSnap(3, 1), Options{ViewMode: NewChangesOnly})
	for e.AdvanceHunk() {
	}
	require.True(t, e.ReachedEnd())

	e.ClearSeen()
	assert.False(t, e.ReachedEnd())
	assert.Equal(t, 4, e.UnseenCount())

	require.True(t, e.AdvanceHunk())
	f, h := e.Position()
	assert.Equal(t, [2]int{0, 0}, [2]int{f, h}, "streaming wraps back to the first hunk")
}

func TestSkipToNextUnseen_FindsEarlierHunkInSameFile(t *testing.T) {
	// Cursor on the last hunk of the only file, with an unseen hunk
	// earlier in the same file. The wrap must reach it.
	snap := mkSnap(3)
	e := newStreaming(snap, Options{ViewMode: NewChangesOnly})
	e.MarkCurrentSeen() // h0
	e.fileIdx, e.hunkIdx = 0, 2
	e.MarkCurrentSeen() // h2

	require.True(t, e.SkipToNextUnseen())
	f, h := e.Position()
	assert.Equal(t, [2]int{0, 1}, [2]int{f, h})
}

func TestGoBack_BufferedOnly(t *testing.T) {
	e := New(mkSnap(2, 2), Options{ViewMode: AllChanges, StreamMode: AutoStream})
	assert.False(t, e.GoBack(), "go back is disabled while auto-streaming")

	e.ToggleStreamMode()
	require.Equal(t, Buffered, e.StreamMode())

	// From (0,0) back wraps to the last file's last hunk.
	require.True(t, e.GoBack())
	f, h := e.Position()
	assert.Equal(t, [2]int{1, 1}, [2]int{f, h})

	require.True(t, e.GoBack())
	f, h = e.Position()
	assert.Equal(t, [2]int{1, 0}, [2]int{f, h})
}

func TestNextPrevFile_Wraps(t *testing.T) {
	e := New(mkSnap(1, 1, 1), Options{ViewMode: AllChanges})

	require.True(t, e.NextFile())
	f, _ := e.Position()
	assert.Equal(t, 1, f)

	require.True(t, e.PrevFile())
	require.True(t, e.PrevFile())
	f, _ = e.Position()
	assert.Equal(t, 2, f, "prev from first file wraps to last")
}

func TestNextFile_LandsOnFirstUnseenUnderNewChangesOnly(t *testing.T) {
	snap := mkSnap(1, 3)
	e := newStreaming(snap, Options{ViewMode: NewChangesOnly})

	// Mark the second file's first hunk seen out of band.
	e.tracker.MarkSeen(snap.Files[1].Hunks[0].ID)

	require.True(t, e.NextFile())
	f, h := e.Position()
	assert.Equal(t, [2]int{1, 1}, [2]int{f, h})
}

// Scenario: scrolling then changing files resets the scroll offset.
func TestScroll_ResetsOnFileChange(t *testing.T) {
	e := New(mkSnap(2, 1), Options{ViewMode: AllChanges})

	e.Scroll(3)
	assert.Equal(t, 3, e.ScrollOffset())

	e.Scroll(-10)
	assert.Equal(t, 0, e.ScrollOffset(), "floored at zero")

	e.Scroll(5)
	require.True(t, e.NextFile())
	assert.Equal(t, 0, e.ScrollOffset())
}

func TestScroll_ResetsOnHunkChange(t *testing.T) {
	e := New(mkSnap(3), Options{ViewMode: AllChanges})
	e.Scroll(7)
	require.True(t, e.AdvanceHunk())
	assert.Equal(t, 0, e.ScrollOffset())
}

// Scenario: speed cycles Fast -> Medium -> Slow -> Fast.
func TestCycleSpeed(t *testing.T) {
	e := New(diff.Snapshot{}, Options{Speed: SpeedFast})
	assert.Equal(t, SpeedMedium, e.CycleSpeed())
	assert.Equal(t, SpeedSlow, e.CycleSpeed())
	assert.Equal(t, SpeedFast, e.CycleSpeed())
}

func TestDwellTime_ScalesWithChangeCount(t *testing.T) {
	snap := diff.Snapshot{Files: []diff.FileChange{{
		Path: "a.go",
		Hunks: []diff.Hunk{diff.NewHunk("a.go", 1, 3, 1, 3, "", []diff.Line{
			{Kind: diff.LineAddition, Content: "one"},
			{Kind: diff.LineAddition, Content: "two"},
			{Kind: diff.LineAddition, Content: "three"},
		})},
	}}}
	e := New(snap, Options{Speed: SpeedFast})
	// fast: 300ms base + 3 changes x 200ms
	assert.Equal(t, 900*time.Millisecond, e.DwellTime())

	e.CycleSpeed() // medium: 500 + 3x500
	assert.Equal(t, 2000*time.Millisecond, e.DwellTime())

	e.CycleSpeed() // slow: 500 + 3x1000
	assert.Equal(t, 3500*time.Millisecond, e.DwellTime())
}

func TestToggles(t *testing.T) {
	e := New(diff.Snapshot{}, Options{})

	assert.Equal(t, AllChanges, e.ToggleViewMode())
	assert.False(t, e.ReachedEnd())
	assert.Equal(t, NewChangesOnly, e.ToggleViewMode())

	assert.Equal(t, Buffered, e.ToggleStreamMode())
	assert.Equal(t, AutoStream, e.ToggleStreamMode())

	assert.Equal(t, FocusFileList, e.ToggleFocus())
	e.SetFocus(FocusDiffView)
	assert.Equal(t, FocusDiffView, e.Focus())

	assert.True(t, e.ToggleHelp())
	assert.False(t, e.ToggleHelp())

	assert.True(t, e.ToggleWrap())
	assert.False(t, e.ToggleWrap())

	assert.True(t, e.ToggleFileNames())
	assert.False(t, e.ToggleFileNames())
}

func TestRefresh_EditedHunkResurfaces(t *testing.T) {
	path := "file00.go"
	mk := func(content string) diff.Snapshot {
		snap := diff.Snapshot{Files: []diff.FileChange{{
			Path: path, OldPath: path, Status: diff.StatusModified,
			Hunks: []diff.Hunk{diff.NewHunk(path, 10, 1, 10, 1, "", []diff.Line{
				{Kind: diff.LineAddition, Content: content},
			})},
		}}}
		snap.Normalize()
		return snap
	}

	e := New(mk("v1"), Options{ViewMode: NewChangesOnly})
	require.True(t, e.ReachedEnd(), "initial content counts as seen")

	// Same location, same content: still seen.
	e.Refresh(mk("v1"))
	assert.True(t, e.ReachedEnd())
	assert.Equal(t, 0, e.UnseenCount())

	// Same location, new content: resurfaces as unseen.
	e.Refresh(mk("v2"))
	assert.False(t, e.ReachedEnd())
	assert.Equal(t, 1, e.UnseenCount())
}

func TestRefresh_PrunesDanglingIDs(t *testing.T) {
	snap := mkSnap(2, 1)
	e := New(snap, Options{ViewMode: NewChangesOnly})
	require.Equal(t, 3, e.tracker.Len())

	e.Refresh(mkSnap(2))
	assert.Equal(t, 2, e.tracker.Len())
}

func TestRefresh_CaughtUpJumpsToFirstUnseen(t *testing.T) {
	e := New(mkSnap(2), Options{ViewMode: NewChangesOnly})
	require.True(t, e.ReachedEnd())

	// A new file appears with fresh hunks.
	e.Refresh(mkSnap(2, 2))
	assert.False(t, e.ReachedEnd())
	f, h := e.Position()
	assert.Equal(t, [2]int{1, 0}, [2]int{f, h}, "cursor jumps to the new work")
}

func TestRefresh_PreservesPositionWhileStreaming(t *testing.T) {
	snap := mkSnap(3, 2)
	e := newStreaming(snap, Options{ViewMode: NewChangesOnly})
	require.True(t, e.AdvanceHunk()) // now at (0,1), not caught up

	// The same hunks plus a new file; cursor must not move.
	e.Refresh(mkSnap(3, 2, 1))
	f, h := e.Position()
	assert.Equal(t, [2]int{0, 1}, [2]int{f, h})
}

func TestRefresh_ClampsWhenCurrentFileDisappears(t *testing.T) {
	e := newStreaming(mkSnap(1, 2), Options{ViewMode: NewChangesOnly})
	require.True(t, e.NextFile())

	e.Refresh(mkSnap(1))
	f, h := e.Position()
	assert.Equal(t, 0, f)
	assert.Equal(t, 0, h)
	assert.NotNil(t, e.CurrentHunk())
}

func TestRefresh_ResetsToFirstFileWhenAnchorVanishes(t *testing.T) {
	mk := func(paths ...string) diff.Snapshot {
		var files []diff.FileChange
		for _, p := range paths {
			files = append(files, diff.FileChange{
				Path: p, OldPath: p, Status: diff.StatusModified,
				Hunks: []diff.Hunk{diff.NewHunk(p, 1, 1, 1, 1, "", []diff.Line{
					{Kind: diff.LineAddition, Content: p},
				})},
			})
		}
		snap := diff.Snapshot{Timestamp: time.Now(), Files: files}
		snap.Normalize()
		return snap
	}

	for _, mode := range []ViewMode{NewChangesOnly, AllChanges} {
		e := newStreaming(mk("a.go", "b.go", "c.go"), Options{ViewMode: mode})
		require.True(t, e.SelectFile(1)) // cursor on b.go, everything unseen

		e.Refresh(mk("a.go", "c.go"))

		f, h := e.Position()
		assert.Equal(t, 0, f, "cursor resets to the first file, not a surviving neighbor")
		assert.Equal(t, 0, h)
		assert.Equal(t, "a.go", e.CurrentFile().Path)
	}
}

func TestRefresh_EmptySnapshot(t *testing.T) {
	e := newStreaming(mkSnap(2), Options{ViewMode: NewChangesOnly})
	e.Refresh(diff.Snapshot{})

	assert.Nil(t, e.CurrentHunk())
	assert.Nil(t, e.CurrentFile())
	assert.True(t, e.ReachedEnd())
	assert.False(t, e.AdvanceHunk())
	assert.False(t, e.GoBack())
	assert.False(t, e.NextFile())
}

func TestAdvance_AllChangesVisitsEveryHunk_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		counts := rapid.SliceOfN(rapid.IntRange(0, 4), 1, 6).Draw(t, "counts")
		snap := mkSnap(counts...)
		total := snap.TotalHunks()
		if total == 0 {
			return
		}

		e := New(snap, Options{ViewMode: AllChanges})
		if e.CurrentHunk() == nil {
			// First file may have no hunks; step onto one.
			require.True(t, e.AdvanceHunk())
		}
		visited := make(map[diff.HunkID]int)
		visited[e.CurrentHunk().ID]++
		for i := 0; i < total-1; i++ {
			require.True(t, e.AdvanceHunk())
			visited[e.CurrentHunk().ID]++
		}

		// One full pass touches every hunk exactly once.
		require.Len(t, visited, total)
		for _, n := range visited {
			require.Equal(t, 1, n)
		}
		require.False(t, e.ReachedEnd())
	})
}

func TestSkipToNextUnseen_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		counts := rapid.SliceOfN(rapid.IntRange(1, 3), 1, 5).Draw(t, "counts")
		snap := mkSnap(counts...)
		e := newStreaming(snap, Options{ViewMode: NewChangesOnly})

		// Mark a random subset seen.
		var ids []diff.HunkID
		for _, f := range snap.Files {
			for _, h := range f.Hunks {
				ids = append(ids, h.ID)
			}
		}
		for i, id := range ids {
			if rapid.Bool().Draw(t, fmt.Sprintf("seen%d", i)) {
				e.tracker.MarkSeen(id)
			}
		}

		startF, startH := e.Position()
		found := e.SkipToNextUnseen()
		f, h := e.Position()

		if found {
			hunk := snap.HunkAt(f, h)
			require.NotNil(t, hunk)
			require.False(t, e.IsSeen(hunk.ID), "skip must land on an unseen hunk")
			require.False(t, e.ReachedEnd())
		} else {
			require.True(t, e.ReachedEnd())
			require.Equal(t, [2]int{startF, startH}, [2]int{f, h}, "position holds when caught up")
			// Everything except possibly the start hunk is seen.
			for _, fc := range snap.Files {
				for _, hk := range fc.Hunks {
					if hk.ID == snap.HunkAt(startF, startH).ID {
						continue
					}
					require.True(t, e.IsSeen(hk.ID))
				}
			}
		}
	})
}
