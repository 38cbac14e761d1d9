// Package ui implements the terminal interface: a Bubble Tea model that
// merges operator input, watcher signals, and auto-advance wake-ups into
// single-threaded engine transitions.
package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/hunky/internal/cachemanager"
	"github.com/zjrosen/hunky/internal/diff"
	"github.com/zjrosen/hunky/internal/engine"
	"github.com/zjrosen/hunky/internal/git"
	"github.com/zjrosen/hunky/internal/keys"
	"github.com/zjrosen/hunky/internal/log"
	"github.com/zjrosen/hunky/internal/pubsub"
)

const statusMessageTTL = 3 * time.Second

// ChangeSignal is the payload of a coalesced filesystem change event.
type ChangeSignal struct{}

// advanceTickMsg is the auto-advance wake-up. The generation counter
// discards wake-ups scheduled before a mode change or manual navigation.
type advanceTickMsg struct {
	gen int
}

// clearStatusMsg expires a transient status message.
type clearStatusMsg struct {
	id int
}

// Model is the root TUI model. All engine mutations happen in Update, one
// message at a time.
type Model struct {
	ctx      context.Context
	eng      *engine.Engine
	builder  *git.SnapshotBuilder
	listener *pubsub.ContinuousListener[ChangeSignal]

	keymap keys.KeyMap
	help   help.Model

	wordCache *cachemanager.InMemoryCacheManager[hunkWordDiff]

	width  int
	height int

	statusMsg string
	statusID  int

	tickGen int

	showStatusBar bool
	onClose       func()
}

// Options configures the model.
type Options struct {
	ShowStatusBar bool
	// OnClose runs during quit teardown (watcher shutdown etc).
	OnClose func()
}

// New wires the model to an engine, a snapshot builder, and the broker
// carrying watcher signals.
func New(ctx context.Context, eng *engine.Engine, builder *git.SnapshotBuilder, broker *pubsub.Broker[ChangeSignal], opts Options) Model {
	return Model{
		ctx:           ctx,
		eng:           eng,
		builder:       builder,
		listener:      pubsub.NewContinuousListener(ctx, broker),
		keymap:        keys.DefaultKeyMap(),
		help:          help.New(),
		wordCache:     cachemanager.NewInMemoryCacheManager[hunkWordDiff]("word-diff", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval),
		showStatusBar: opts.ShowStatusBar,
		onClose:       opts.OnClose,
	}
}

// Init starts the watcher listener and arms the first auto-advance tick.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.listener.Listen(), m.scheduleAdvance())
}

// scheduleAdvance arms the next auto-advance wake-up for the current hunk.
// Returns nil when playback is not running.
func (m *Model) scheduleAdvance() tea.Cmd {
	if m.eng.StreamMode() != engine.AutoStream {
		return nil
	}
	if m.eng.ViewMode() == engine.NewChangesOnly && m.eng.ReachedEnd() {
		return nil
	}
	if m.eng.Snapshot().IsEmpty() {
		return nil
	}
	m.tickGen++
	gen := m.tickGen
	return tea.Tick(m.eng.DwellTime(), func(time.Time) tea.Msg {
		return advanceTickMsg{gen: gen}
	})
}

// cancelAdvance invalidates any in-flight wake-up.
func (m *Model) cancelAdvance() {
	m.tickGen++
}

// setStatus shows a transient message in the status bar.
func (m *Model) setStatus(msg string) tea.Cmd {
	m.statusMsg = msg
	m.statusID++
	id := m.statusID
	return tea.Tick(statusMessageTTL, func(time.Time) tea.Msg {
		return clearStatusMsg{id: id}
	})
}

// refresh builds a new snapshot synchronously and feeds it to the engine.
// On failure the previous snapshot and all state stay untouched.
func (m *Model) refresh() tea.Cmd {
	snap, err := m.builder.Build(m.ctx)
	if err != nil {
		log.ErrorErr(log.CatUI, "refresh failed", err)
		return m.setStatus(fmt.Sprintf("refresh failed: %v", err))
	}
	m.eng.Refresh(snap)
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case pubsub.Event[ChangeSignal]:
		// Coalesced watcher signal: refresh, then resume listening and
		// restart pacing against whatever the refresh produced.
		cmd := m.refresh()
		m.cancelAdvance()
		return m, tea.Batch(m.listener.Listen(), cmd, m.scheduleAdvance())

	case advanceTickMsg:
		if msg.gen != m.tickGen {
			return m, nil // stale wake-up from before a mode/nav change
		}
		m.eng.AdvanceHunk()
		return m, m.scheduleAdvance()

	case clearStatusMsg:
		if msg.id == m.statusID {
			m.statusMsg = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		if m.onClose != nil {
			m.onClose()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.eng.ToggleHelp()
		return m, nil

	case key.Matches(msg, m.keymap.Advance):
		m.eng.AdvanceHunk()
		m.cancelAdvance()
		return m, m.scheduleAdvance()

	case key.Matches(msg, m.keymap.GoBack):
		if !m.eng.GoBack() && m.eng.StreamMode() != engine.Buffered {
			return m, m.setStatus("press m for buffered mode to navigate back")
		}
		return m, nil

	case key.Matches(msg, m.keymap.NextFile):
		m.eng.NextFile()
		m.cancelAdvance()
		return m, m.scheduleAdvance()

	case key.Matches(msg, m.keymap.PrevFile):
		m.eng.PrevFile()
		m.cancelAdvance()
		return m, m.scheduleAdvance()

	case key.Matches(msg, m.keymap.ScrollUp):
		if m.eng.Focus() == engine.FocusFileList {
			m.eng.PrevFile()
		} else {
			m.eng.Scroll(-1)
		}
		return m, nil

	case key.Matches(msg, m.keymap.ScrollDown):
		if m.eng.Focus() == engine.FocusFileList {
			m.eng.NextFile()
		} else {
			m.eng.Scroll(1)
		}
		return m, nil

	case key.Matches(msg, m.keymap.ViewMode):
		mode := m.eng.ToggleViewMode()
		m.cancelAdvance()
		return m, tea.Batch(m.setStatus("view: "+mode.String()), m.scheduleAdvance())

	case key.Matches(msg, m.keymap.StreamMode):
		mode := m.eng.ToggleStreamMode()
		m.cancelAdvance()
		return m, tea.Batch(m.setStatus("stream: "+mode.String()), m.scheduleAdvance())

	case key.Matches(msg, m.keymap.Speed):
		speed := m.eng.CycleSpeed()
		m.cancelAdvance()
		return m, tea.Batch(m.setStatus("speed: "+speed.String()), m.scheduleAdvance())

	case key.Matches(msg, m.keymap.Wrap):
		m.eng.ToggleWrap()
		return m, nil

	case key.Matches(msg, m.keymap.FileNames):
		m.eng.ToggleFileNames()
		return m, nil

	case key.Matches(msg, m.keymap.ClearSeen):
		m.eng.ClearSeen()
		m.cancelAdvance()
		return m, tea.Batch(m.setStatus("seen state cleared"), m.scheduleAdvance())

	case key.Matches(msg, m.keymap.Refresh):
		cmd := m.refresh()
		m.cancelAdvance()
		return m, tea.Batch(cmd, m.scheduleAdvance())

	case key.Matches(msg, m.keymap.Focus):
		m.eng.ToggleFocus()
		return m, nil
	}

	return m, nil
}

// wordDiffFor returns the cached word-level diff for a hunk, computing and
// caching it on first use. Hunk IDs are content-derived, so a stale entry
// can never be returned for edited content.
func (m *Model) wordDiffFor(hunk *diff.Hunk) hunkWordDiff {
	if hunk == nil {
		return hunkWordDiff{}
	}
	cacheKey := fmt.Sprintf("%s:%d:%d:%x", hunk.ID.Path, hunk.ID.OldStart, hunk.ID.NewStart, hunk.ID.ContentHash)
	if cached, ok := m.wordCache.Get(m.ctx, cacheKey); ok {
		return cached
	}
	wd := computeHunkWordDiff(*hunk)
	m.wordCache.Set(m.ctx, cacheKey, wd, cachemanager.DefaultExpiration)
	return wd
}
