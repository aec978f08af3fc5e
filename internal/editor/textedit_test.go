package editor

import "testing"

func TestEditCommitSnapshotsOnce(t *testing.T) {
	s := newTestSession()
	i := s.AddText()
	before := s.History().Len()
	if !s.BeginEdit(200, 150) {
		t.Fatal("begin edit missed the overlay")
	}
	if idx, ok := s.Editing(); !ok || idx != i {
		t.Fatalf("unexpected editing state %d %v", idx, ok)
	}
	s.SetEditBuffer("")
	s.InsertEditRunes([]rune("top téxt\n"))
	s.EditBackspace()
	if got := s.EditBuffer(); got != "top téx" {
		t.Fatalf("unexpected buffer %q", got)
	}
	if !s.CommitEdit() {
		t.Fatal("commit reported no change")
	}
	if s.Scene().Texts[i].Content != "top téx" {
		t.Fatalf("content not applied: %q", s.Scene().Texts[i].Content)
	}
	if s.History().Len() != before+1 {
		t.Fatalf("expected one snapshot, len %d", s.History().Len())
	}
	if _, ok := s.Editing(); ok {
		t.Fatal("still editing after commit")
	}
}

func TestEditCancelLeavesSceneUntouched(t *testing.T) {
	s := newTestSession()
	i := s.AddText()
	before := s.History().Len()
	s.BeginEdit(200, 150)
	s.SetEditBuffer("never applied")
	s.CancelEdit()
	if s.Scene().Texts[i].Content == "never applied" {
		t.Fatal("cancel applied the buffer")
	}
	if s.History().Len() != before {
		t.Fatal("cancel pushed a snapshot")
	}
	if s.CommitEdit() {
		t.Fatal("commit after cancel reported a change")
	}
}

func TestEditUnchangedBufferIsNoop(t *testing.T) {
	s := newTestSession()
	s.AddText()
	before := s.History().Len()
	s.BeginEdit(200, 150)
	if s.CommitEdit() || s.History().Len() != before {
		t.Fatal("unchanged commit pushed a snapshot")
	}
}

func TestBeginEditMiss(t *testing.T) {
	s := newTestSession()
	s.AddText()
	if s.BeginEdit(1, 1) {
		t.Fatal("edit began on empty canvas")
	}
	s.InsertEditRunes([]rune("x"))
	if s.EditBuffer() != "" {
		t.Fatal("buffer changed while idle")
	}
}

func TestPointerIgnoredWhileEditing(t *testing.T) {
	s := newTestSession()
	s.AddText()
	s.Tool = ToolDraw
	s.BeginEdit(200, 150)
	if s.PointerDown(10, 10) != GestureNone {
		t.Fatal("gesture started while editing")
	}
}
