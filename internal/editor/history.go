package editor

// History is a linear undo/redo log of snapshots.
//
// Entries before the position are undoable, entries after it are redoable. Push is the only
// operation that discards entries; Undo and Redo only move the position.
type History[T any] struct {
	entries  []T
	position int
	limit    int
}

// NewHistory creates a history whose only entry is initial.
func NewHistory[T any](initial T) *History[T] {
	return &History[T]{entries: []T{initial}}
}

// SetLimit bounds the number of retained snapshots. Zero or negative means unbounded.
// When the bound is exceeded the oldest snapshots are dropped first, then the newest
// redoable ones. The current snapshot is always kept.
func (h *History[T]) SetLimit(limit int) {
	h.limit = limit
	h.trim()
}

// Push discards any redoable snapshots, appends snapshot and makes it current.
func (h *History[T]) Push(snapshot T) {
	h.entries = append(h.entries[:h.position+1], snapshot)
	h.position = len(h.entries) - 1
	h.trim()
}

func (h *History[T]) trim() {
	if h.limit <= 0 || len(h.entries) <= h.limit {
		return
	}
	drop := min(len(h.entries)-h.limit, h.position)
	h.entries = append(h.entries[:0:0], h.entries[drop:]...)
	h.position -= drop
	if len(h.entries) > h.limit {
		h.entries = h.entries[:h.limit]
	}
}

// Undo steps back one snapshot and returns it. At the oldest snapshot it returns the
// current snapshot and false.
func (h *History[T]) Undo() (T, bool) {
	if !h.CanUndo() {
		return h.Current(), false
	}
	h.position--
	return h.entries[h.position], true
}

// Redo steps forward one snapshot and returns it. At the newest snapshot it returns the
// current snapshot and false.
func (h *History[T]) Redo() (T, bool) {
	if !h.CanRedo() {
		return h.Current(), false
	}
	h.position++
	return h.entries[h.position], true
}

// Current returns the snapshot at the current position.
func (h *History[T]) Current() T {
	return h.entries[h.position]
}

// CanUndo reports whether an older snapshot exists.
func (h *History[T]) CanUndo() bool {
	return h.position > 0
}

// CanRedo reports whether a newer snapshot exists.
func (h *History[T]) CanRedo() bool {
	return h.position < len(h.entries)-1
}

// Len returns the number of retained snapshots.
func (h *History[T]) Len() int {
	return len(h.entries)
}

// Position returns the index of the current snapshot.
func (h *History[T]) Position() int {
	return h.position
}

// Entries returns the retained snapshots, oldest first. The slice must not be modified.
func (h *History[T]) Entries() []T {
	return h.entries
}

// RestoreHistory rebuilds a history from previously saved entries and position.
// It returns false if entries is empty or position is out of range.
func RestoreHistory[T any](entries []T, position int) (*History[T], bool) {
	if len(entries) == 0 || position < 0 || position >= len(entries) {
		return nil, false
	}
	return &History[T]{entries: entries, position: position}, true
}
