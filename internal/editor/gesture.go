package editor

type dragGesture struct {
	index   int
	offsetX float64
	offsetY float64
	startX  float64
	startY  float64
}

type GestureKind int

const (
	GestureNone GestureKind = iota
	GestureDrag
	GestureStroke
)

// UpdateKind tells the caller how much of the surface a pointer move
// invalidated.
type UpdateKind int

const (
	UpdateNone UpdateKind = iota
	UpdateRedraw
	UpdateSegment
)

type Update struct {
	Kind    UpdateKind
	Segment Segment
}

// PointerDown starts a gesture at canvas coordinates. An overlay under the
// pointer is dragged regardless of the tool; otherwise a stroke starts when a
// drawing tool is active.
func (s *Session) PointerDown(x, y float64) GestureKind {
	if s.edit.active {
		return GestureNone
	}
	s.drag = nil
	s.stroke = nil
	if i := s.LocateTextAt(x, y); i >= 0 {
		t := s.scene.Texts[i]
		s.drag = &dragGesture{index: i, offsetX: x - t.X, offsetY: y - t.Y, startX: t.X, startY: t.Y}
		return GestureDrag
	}
	if s.Tool == ToolDraw || s.Tool == ToolErase {
		s.AppendStrokePoint(x, y)
		return GestureStroke
	}
	return GestureNone
}

// PointerMove continues the active gesture. Dragging moves the held overlay
// without snapshotting; stroking reports the newest segment.
func (s *Session) PointerMove(x, y float64) Update {
	switch {
	case s.drag != nil:
		t := &s.scene.Texts[s.drag.index]
		nx, ny := x-s.drag.offsetX, y-s.drag.offsetY
		if nx == t.X && ny == t.Y {
			return Update{}
		}
		t.X, t.Y = nx, ny
		return Update{Kind: UpdateRedraw}
	case len(s.stroke) > 0:
		seg, ok := s.AppendStrokePoint(x, y)
		if !ok {
			return Update{}
		}
		return Update{Kind: UpdateSegment, Segment: seg}
	default:
		return Update{}
	}
}

// PointerUp ends the active gesture, also used when the pointer leaves the
// canvas. It reports whether the scene changed and a snapshot was taken.
func (s *Session) PointerUp() bool {
	if d := s.drag; d != nil {
		s.drag = nil
		t := s.scene.Texts[d.index]
		if t.X == d.startX && t.Y == d.startY {
			return false
		}
		s.commit()
		return true
	}
	if len(s.stroke) > 0 {
		return s.FinalizeStroke()
	}
	return false
}

func (s *Session) Gesture() GestureKind {
	switch {
	case s.drag != nil:
		return GestureDrag
	case len(s.stroke) > 0:
		return GestureStroke
	default:
		return GestureNone
	}
}
