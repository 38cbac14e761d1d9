package diff

// SeenTracker records which hunk IDs the user has already viewed this
// session. IDs are content-derived, so an edited hunk gets a fresh ID and
// automatically reads as unseen again. Not safe for concurrent use; all
// access happens on the UI update loop.
type SeenTracker struct {
	seen map[HunkID]struct{}
}

// NewSeenTracker returns an empty tracker.
func NewSeenTracker() *SeenTracker {
	return &SeenTracker{seen: make(map[HunkID]struct{})}
}

// MarkSeen records the hunk as viewed.
func (t *SeenTracker) MarkSeen(id HunkID) {
	t.seen[id] = struct{}{}
}

// IsSeen reports whether the hunk was already viewed.
func (t *SeenTracker) IsSeen(id HunkID) bool {
	_, ok := t.seen[id]
	return ok
}

// Clear forgets all seen state.
func (t *SeenTracker) Clear() {
	t.seen = make(map[HunkID]struct{})
}

// Len returns the number of tracked IDs.
func (t *SeenTracker) Len() int {
	return len(t.seen)
}

// MarkAll records every hunk in the snapshot as viewed.
func (t *SeenTracker) MarkAll(snap Snapshot) {
	for _, f := range snap.Files {
		for _, h := range f.Hunks {
			t.seen[h.ID] = struct{}{}
		}
	}
}

// Reconcile drops tracked IDs that no longer appear in the snapshot,
// keeping the set bounded across long-running sessions.
func (t *SeenTracker) Reconcile(snap Snapshot) {
	live := make(map[HunkID]struct{}, len(t.seen))
	for _, f := range snap.Files {
		for _, h := range f.Hunks {
			if _, ok := t.seen[h.ID]; ok {
				live[h.ID] = struct{}{}
			}
		}
	}
	t.seen = live
}

// UnseenCount returns how many hunks in the snapshot are not yet seen.
func (t *SeenTracker) UnseenCount(snap Snapshot) int {
	n := 0
	for _, f := range snap.Files {
		for _, h := range f.Hunks {
			if !t.IsSeen(h.ID) {
				n++
			}
		}
	}
	return n
}
