package ui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/hunky/internal/diff"
	"github.com/zjrosen/hunky/internal/engine"
	"github.com/zjrosen/hunky/internal/git"
	"github.com/zjrosen/hunky/internal/pubsub"
)

// stubExecutor serves canned diff output so refreshes are deterministic.
type stubExecutor struct {
	diffOut string
	diffErr error
}

func (s *stubExecutor) IsGitRepo(ctx context.Context, dir string) bool { return true }
func (s *stubExecutor) RepoRoot(ctx context.Context, dir string) (string, error) {
	return "/repo", nil
}
func (s *stubExecutor) HasHead(ctx context.Context, root string) bool { return true }
func (s *stubExecutor) Diff(ctx context.Context, root, base string, contextLines int) (string, error) {
	return s.diffOut, s.diffErr
}
func (s *stubExecutor) UntrackedFiles(ctx context.Context, root string) ([]string, error) {
	return nil, nil
}
func (s *stubExecutor) FileContent(root, path string) ([]byte, error) {
	return nil, git.ErrPathNotExists
}

const stubDiff = `diff --git a/a.go b/a.go
index 1111111..2222222 100644
--- a/a.go
+++ b/a.go
@@ -1,2 +1,2 @@
-before
+after
 same
`

func newTestModel(t *testing.T, exec *stubExecutor, opts engine.Options) (Model, *engine.Engine) {
	t.Helper()
	eng := engine.New(diff.Snapshot{}, opts)
	builder := git.NewSnapshotBuilder(exec, "/repo", 3)
	broker := pubsub.NewBroker[ChangeSignal]()
	t.Cleanup(broker.Close)

	m := New(context.Background(), eng, builder, broker, Options{ShowStatusBar: true})
	m.width, m.height = 100, 30
	return m, eng
}

func keyMsg(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	if s == "tab" {
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_WatcherEventRefreshes(t *testing.T) {
	m, eng := newTestModel(t, &stubExecutor{diffOut: stubDiff}, engine.Options{})
	require.True(t, eng.Snapshot().IsEmpty())

	next, cmd := m.Update(pubsub.Event[ChangeSignal]{Type: pubsub.ChangedEvent})
	m = next.(Model)

	assert.NotNil(t, cmd, "must keep listening")
	assert.Equal(t, 1, eng.Snapshot().TotalHunks())
	assert.False(t, eng.ReachedEnd(), "new content resumes streaming")
}

func TestModel_RefreshFailureKeepsState(t *testing.T) {
	exec := &stubExecutor{diffOut: stubDiff}
	m, eng := newTestModel(t, exec, engine.Options{})

	next, _ := m.Update(pubsub.Event[ChangeSignal]{Type: pubsub.ChangedEvent})
	m = next.(Model)
	require.Equal(t, 1, eng.Snapshot().TotalHunks())

	exec.diffErr = git.ErrNotGitRepo
	next, _ = m.Update(pubsub.Event[ChangeSignal]{Type: pubsub.ChangedEvent})
	m = next.(Model)

	assert.Equal(t, 1, eng.Snapshot().TotalHunks(), "failed refresh keeps previous snapshot")
	assert.Contains(t, m.statusMsg, "refresh failed")
}

func TestModel_StaleTickIgnored(t *testing.T) {
	m, eng := newTestModel(t, &stubExecutor{diffOut: stubDiff}, engine.Options{})
	next, _ := m.Update(pubsub.Event[ChangeSignal]{Type: pubsub.ChangedEvent})
	m = next.(Model)
	f, h := eng.Position()

	// A wake-up from a previous generation must not advance.
	next, _ = m.Update(advanceTickMsg{gen: m.tickGen - 1})
	m = next.(Model)
	f2, h2 := eng.Position()
	assert.Equal(t, [2]int{f, h}, [2]int{f2, h2})
}

func TestModel_CurrentTickAdvances(t *testing.T) {
	exec := &stubExecutor{diffOut: stubDiff + `diff --git a/b.go b/b.go
index 1111111..2222222 100644
--- a/b.go
+++ b/b.go
@@ -1 +1 @@
-x
+y
`}
	m, eng := newTestModel(t, exec, engine.Options{})
	next, _ := m.Update(pubsub.Event[ChangeSignal]{Type: pubsub.ChangedEvent})
	m = next.(Model)
	require.Equal(t, 2, eng.Snapshot().TotalHunks())

	next, cmd := m.Update(advanceTickMsg{gen: m.tickGen})
	m = next.(Model)
	_, _ = next, cmd

	f, _ := eng.Position()
	assert.Equal(t, 1, f, "advanced into the second file")
	assert.Equal(t, 1, eng.UnseenCount())
}

func TestModel_KeyDispatch(t *testing.T) {
	m, eng := newTestModel(t, &stubExecutor{diffOut: stubDiff}, engine.Options{})
	next, _ := m.Update(pubsub.Event[ChangeSignal]{Type: pubsub.ChangedEvent})
	m = next.(Model)

	// m: buffered mode
	next, _ = m.Update(keyMsg("m"))
	m = next.(Model)
	assert.Equal(t, engine.Buffered, eng.StreamMode())

	// s: speed cycles from fast to medium
	next, _ = m.Update(keyMsg("s"))
	m = next.(Model)
	assert.Equal(t, engine.SpeedMedium, eng.Speed())

	// v: view mode flips
	next, _ = m.Update(keyMsg("v"))
	m = next.(Model)
	assert.Equal(t, engine.AllChanges, eng.ViewMode())

	// w: wrap toggles
	next, _ = m.Update(keyMsg("w"))
	m = next.(Model)
	assert.True(t, eng.WrapLines())

	// f: filenames-only toggles
	next, _ = m.Update(keyMsg("f"))
	m = next.(Model)
	assert.True(t, eng.FileNamesOnly())

	// tab: focus flips
	next, _ = m.Update(keyMsg("tab"))
	m = next.(Model)
	assert.Equal(t, engine.FocusFileList, eng.Focus())

	// ?: help overlay
	next, _ = m.Update(keyMsg("?"))
	m = next.(Model)
	assert.True(t, eng.HelpVisible())
}

func TestModel_SpaceAdvancesAndMarksSeen(t *testing.T) {
	m, eng := newTestModel(t, &stubExecutor{diffOut: stubDiff}, engine.Options{})
	next, _ := m.Update(pubsub.Event[ChangeSignal]{Type: pubsub.ChangedEvent})
	m = next.(Model)
	require.Equal(t, 1, eng.UnseenCount())

	next, _ = m.Update(keyMsg(" "))
	m = next.(Model)
	assert.Equal(t, 0, eng.UnseenCount())
	assert.True(t, eng.ReachedEnd())
}

func TestModel_ScrollKeysRouteByFocus(t *testing.T) {
	m, eng := newTestModel(t, &stubExecutor{diffOut: stubDiff}, engine.Options{})
	next, _ := m.Update(pubsub.Event[ChangeSignal]{Type: pubsub.ChangedEvent})
	m = next.(Model)

	next, _ = m.Update(keyMsg("j"))
	m = next.(Model)
	assert.Equal(t, 1, eng.ScrollOffset(), "diff focus scrolls")

	next, _ = m.Update(keyMsg("tab"))
	m = next.(Model)
	next, _ = m.Update(keyMsg("j"))
	m = next.(Model)
	assert.Equal(t, 0, eng.ScrollOffset(), "file change reset scroll")
}

func TestModel_QuitRunsTeardown(t *testing.T) {
	closed := false
	eng := engine.New(diff.Snapshot{}, engine.Options{})
	builder := git.NewSnapshotBuilder(&stubExecutor{}, "/repo", 3)
	broker := pubsub.NewBroker[ChangeSignal]()
	defer broker.Close()

	m := New(context.Background(), eng, builder, broker, Options{OnClose: func() { closed = true }})
	_, cmd := m.Update(keyMsg("q"))

	assert.True(t, closed)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_ViewRendersLayout(t *testing.T) {
	m, _ := newTestModel(t, &stubExecutor{diffOut: stubDiff}, engine.Options{})
	next, _ := m.Update(pubsub.Event[ChangeSignal]{Type: pubsub.ChangedEvent})
	m = next.(Model)

	out := stripANSI(m.View())
	assert.Contains(t, out, "a.go")
	assert.Contains(t, out, "before")
	assert.Contains(t, out, "after")
	assert.Contains(t, out, "1 unseen")
}

func TestModel_HelpOverlayInView(t *testing.T) {
	m, _ := newTestModel(t, &stubExecutor{diffOut: stubDiff}, engine.Options{})
	next, _ := m.Update(keyMsg("?"))
	m = next.(Model)

	out := stripANSI(m.View())
	assert.Contains(t, out, "Keybindings")
	assert.Contains(t, out, "toggle auto-stream")
}

func TestModel_ScheduleAdvanceRespectsModes(t *testing.T) {
	m, eng := newTestModel(t, &stubExecutor{diffOut: stubDiff}, engine.Options{})

	// Empty snapshot: nothing to pace.
	assert.Nil(t, m.scheduleAdvance())

	next, _ := m.Update(pubsub.Event[ChangeSignal]{Type: pubsub.ChangedEvent})
	m = next.(Model)
	assert.NotNil(t, m.scheduleAdvance())

	eng.ToggleStreamMode() // buffered
	assert.Nil(t, m.scheduleAdvance())
}

func TestModel_DwellScalesTickDelay(t *testing.T) {
	// Sanity-check the wiring: the command exists and fires an
	// advanceTickMsg with the current generation.
	m, _ := newTestModel(t, &stubExecutor{diffOut: stubDiff}, engine.Options{Speed: engine.SpeedFast})
	next, _ := m.Update(pubsub.Event[ChangeSignal]{Type: pubsub.ChangedEvent})
	m = next.(Model)

	cmd := m.scheduleAdvance()
	require.NotNil(t, cmd)

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		tick, ok := msg.(advanceTickMsg)
		require.True(t, ok)
		assert.Equal(t, m.tickGen, tick.gen)
	case <-time.After(5 * time.Second):
		t.Fatal("tick never fired")
	}
}
