package editor

import "unicode/utf8"

type editState struct {
	active bool
	index  int
	buffer []byte
}

// BeginEdit enters edit mode for the overlay under (x, y), seeding the buffer
// with its current content. Any gesture in progress is ended first.
func (s *Session) BeginEdit(x, y float64) bool {
	s.PointerUp()
	i := s.LocateTextAt(x, y)
	if i < 0 {
		return false
	}
	s.edit = editState{active: true, index: i, buffer: []byte(s.scene.Texts[i].Content)}
	return true
}

// Editing returns the index of the overlay being edited.
func (s *Session) Editing() (int, bool) {
	if !s.edit.active {
		return -1, false
	}
	return s.edit.index, true
}

func (s *Session) EditBuffer() string { return string(s.edit.buffer) }

func (s *Session) SetEditBuffer(text string) {
	if !s.edit.active || !utf8.ValidString(text) {
		return
	}
	s.edit.buffer = append(s.edit.buffer[:0], text...)
}

func (s *Session) InsertEditRunes(rs []rune) {
	if !s.edit.active {
		return
	}
	for _, r := range rs {
		if r < 0x20 || r == 0x7f || !utf8.ValidRune(r) {
			continue
		}
		s.edit.buffer = utf8.AppendRune(s.edit.buffer, r)
	}
}

func (s *Session) EditBackspace() {
	if !s.edit.active || len(s.edit.buffer) == 0 {
		return
	}
	_, size := utf8.DecodeLastRune(s.edit.buffer)
	s.edit.buffer = s.edit.buffer[:len(s.edit.buffer)-size]
}

// CommitEdit applies the buffer to the overlay. An unchanged buffer leaves
// the scene and history alone.
func (s *Session) CommitEdit() bool {
	if !s.edit.active {
		return false
	}
	e := s.edit
	s.edit = editState{}
	if !s.validIndex(e.index) || s.scene.Texts[e.index].Content == string(e.buffer) {
		return false
	}
	return s.EditText(e.index, string(e.buffer))
}

// CancelEdit leaves edit mode without touching the scene.
func (s *Session) CancelEdit() {
	s.edit = editState{}
}
