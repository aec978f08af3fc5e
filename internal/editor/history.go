package editor

import "memeforge/pkg/meme"

// History is a linear undo log of deep-copied scenes with a cursor. Pushing
// while the cursor is behind the end discards the redo tail.
type History struct {
	entries []meme.Scene
	cursor  int
	limit   int
}

// NewHistory returns an empty history. A positive limit caps the number of
// retained entries by dropping the oldest ones.
func NewHistory(limit int) *History {
	if limit < 0 {
		limit = 0
	}
	return &History{entries: make([]meme.Scene, 0, 64), cursor: -1, limit: limit}
}

func (h *History) Snapshot(s meme.Scene) {
	if h.cursor < len(h.entries)-1 {
		for i := h.cursor + 1; i < len(h.entries); i++ {
			h.entries[i] = meme.Scene{}
		}
		h.entries = h.entries[:h.cursor+1]
	}
	h.entries = append(h.entries, meme.CloneScene(s))
	h.cursor = len(h.entries) - 1
	if h.limit > 0 && len(h.entries) > h.limit {
		drop := len(h.entries) - h.limit
		h.entries = append(h.entries[:0], h.entries[drop:]...)
		h.cursor -= drop
	}
}

// Undo moves the cursor back one entry. It reports false when already at the
// earliest entry.
func (h *History) Undo() (meme.Scene, bool) {
	if !h.CanUndo() {
		return meme.Scene{}, false
	}
	h.cursor--
	return meme.CloneScene(h.entries[h.cursor]), true
}

func (h *History) Redo() (meme.Scene, bool) {
	if !h.CanRedo() {
		return meme.Scene{}, false
	}
	h.cursor++
	return meme.CloneScene(h.entries[h.cursor]), true
}

func (h *History) Current() (meme.Scene, bool) {
	if h.cursor < 0 {
		return meme.Scene{}, false
	}
	return meme.CloneScene(h.entries[h.cursor]), true
}

func (h *History) CanUndo() bool { return h.cursor > 0 }
func (h *History) CanRedo() bool { return h.cursor >= 0 && h.cursor < len(h.entries)-1 }
func (h *History) Len() int      { return len(h.entries) }
func (h *History) Cursor() int   { return h.cursor }
