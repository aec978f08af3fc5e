package editor

import (
	"reflect"
	"testing"

	"memeforge/pkg/meme"
)

func sceneWithFilter(f meme.Filter) meme.Scene {
	s := meme.NewScene(100, 100)
	s.Filter = f
	return s
}

func TestHistoryUndoRedoWalk(t *testing.T) {
	h := NewHistory(0)
	states := []meme.Scene{
		sceneWithFilter(meme.FilterNone),
		sceneWithFilter(meme.FilterGrayscale),
		sceneWithFilter(meme.FilterSepia),
		sceneWithFilter(meme.FilterBlur),
	}
	for _, s := range states {
		h.Snapshot(s)
	}
	if h.CanRedo() {
		t.Fatal("redo available at the head")
	}
	for i := len(states) - 2; i >= 0; i-- {
		got, ok := h.Undo()
		if !ok {
			t.Fatalf("undo to %d failed", i)
		}
		if !reflect.DeepEqual(got, states[i]) {
			t.Fatalf("undo to %d: got filter %q", i, got.Filter)
		}
	}
	if _, ok := h.Undo(); ok {
		t.Fatal("undo past the earliest entry succeeded")
	}
	for i := 1; i < len(states); i++ {
		got, ok := h.Redo()
		if !ok || !reflect.DeepEqual(got, states[i]) {
			t.Fatalf("redo to %d: ok=%v filter=%q", i, ok, got.Filter)
		}
	}
	if _, ok := h.Redo(); ok {
		t.Fatal("redo past the latest entry succeeded")
	}
}

func TestHistoryBranchTruncatesRedoTail(t *testing.T) {
	h := NewHistory(0)
	h.Snapshot(sceneWithFilter(meme.FilterNone))
	h.Snapshot(sceneWithFilter(meme.FilterGrayscale))
	h.Snapshot(sceneWithFilter(meme.FilterSepia))
	if _, ok := h.Undo(); !ok {
		t.Fatal("undo failed")
	}
	h.Snapshot(sceneWithFilter(meme.FilterInvert))

	if h.Len() != 3 || h.Cursor() != 2 {
		t.Fatalf("unexpected shape len=%d cursor=%d", h.Len(), h.Cursor())
	}
	if h.CanRedo() {
		t.Fatal("redo tail survived a new snapshot")
	}
	cur, _ := h.Current()
	if cur.Filter != meme.FilterInvert {
		t.Fatalf("unexpected head %q", cur.Filter)
	}
	prev, _ := h.Undo()
	if prev.Filter != meme.FilterGrayscale {
		t.Fatalf("unexpected previous %q", prev.Filter)
	}
}

func TestHistorySnapshotsAreIsolated(t *testing.T) {
	h := NewHistory(0)
	s := meme.NewScene(10, 10)
	s.Texts = append(s.Texts, meme.TextOverlay{Content: "a", FontSize: 10})
	h.Snapshot(s)
	s.Texts[0].Content = "b"

	got, _ := h.Current()
	if got.Texts[0].Content != "a" {
		t.Fatalf("snapshot aliased live scene: %q", got.Texts[0].Content)
	}
	got.Texts[0].Content = "c"
	again, _ := h.Current()
	if again.Texts[0].Content != "a" {
		t.Fatalf("returned snapshot aliased history: %q", again.Texts[0].Content)
	}
}

func TestHistoryLimitDropsOldest(t *testing.T) {
	h := NewHistory(2)
	h.Snapshot(sceneWithFilter(meme.FilterNone))
	h.Snapshot(sceneWithFilter(meme.FilterGrayscale))
	h.Snapshot(sceneWithFilter(meme.FilterSepia))
	if h.Len() != 2 || h.Cursor() != 1 {
		t.Fatalf("unexpected shape len=%d cursor=%d", h.Len(), h.Cursor())
	}
	prev, ok := h.Undo()
	if !ok || prev.Filter != meme.FilterGrayscale {
		t.Fatalf("unexpected undo ok=%v filter=%q", ok, prev.Filter)
	}
	if h.CanUndo() {
		t.Fatal("oldest entry should have been dropped")
	}
}

func TestEmptyHistory(t *testing.T) {
	h := NewHistory(0)
	if _, ok := h.Current(); ok {
		t.Fatal("empty history has a current entry")
	}
	if h.CanUndo() || h.CanRedo() {
		t.Fatal("empty history can move")
	}
}
