package editor

import (
	"unicode/utf8"

	"memeforge/pkg/meme"
)

type Tool int

const (
	ToolNone Tool = iota
	ToolDraw
	ToolErase
)

func (t Tool) String() string {
	switch t {
	case ToolDraw:
		return "draw"
	case ToolErase:
		return "erase"
	default:
		return "none"
	}
}

// TextStyle is applied to newly added overlays.
type TextStyle struct {
	Fill         meme.Color
	Outline      meme.Color
	OutlineWidth float64
	FontSize     float64
	FontFamily   string
}

type Brush struct {
	Size  float64
	Color meme.Color
}

// TextMeasurer reports the rendered width of a string at a font.
type TextMeasurer interface {
	MeasureText(content, family string, size float64) float64
}

type Options struct {
	Width        int
	Height       int
	HistoryLimit int
	Style        TextStyle
	Brush        Brush
	EraseColor   meme.Color
	Measurer     TextMeasurer
}

func DefaultTextStyle() TextStyle {
	return TextStyle{
		Fill:         meme.White,
		Outline:      meme.Black,
		OutlineWidth: 2,
		FontSize:     40,
		FontFamily:   meme.DefaultFontFamily,
	}
}

func DefaultBrush() Brush {
	return Brush{Size: 5, Color: meme.MustParseColor("#ff0000")}
}

// Session owns one editable scene together with its undo history and the
// state of any pointer gesture or text edit in progress. All methods must be
// called from a single goroutine.
type Session struct {
	Style      TextStyle
	Brush      Brush
	Tool       Tool
	EraseColor meme.Color

	scene   meme.Scene
	history *History
	measure TextMeasurer

	stroke []meme.Point
	drag   *dragGesture
	edit   editState
}

func NewSession(opts Options) *Session {
	if opts.Style.FontSize <= 0 {
		opts.Style = DefaultTextStyle()
	}
	if opts.Brush.Size <= 0 {
		opts.Brush = DefaultBrush()
	}
	if opts.EraseColor == (meme.Color{}) {
		opts.EraseColor = meme.White
	}
	s := &Session{
		Style:      opts.Style,
		Brush:      opts.Brush,
		EraseColor: opts.EraseColor,
		scene:      meme.NewScene(opts.Width, opts.Height),
		history:    NewHistory(opts.HistoryLimit),
		measure:    opts.Measurer,
	}
	s.history.Snapshot(s.scene)
	return s
}

// Scene returns a deep copy of the live scene.
func (s *Session) Scene() meme.Scene { return meme.CloneScene(s.scene) }

func (s *Session) History() *History { return s.history }

func (s *Session) commit() { s.history.Snapshot(s.scene) }

func (s *Session) validIndex(i int) bool { return i >= 0 && i < len(s.scene.Texts) }

func (s *Session) SetImage(src string, width, height int) {
	s.scene.Image = src
	if width > 0 && height > 0 {
		s.scene.Width = width
		s.scene.Height = height
	}
	s.commit()
}

// AddText appends an overlay at the canvas centre in the current style and
// returns its index.
func (s *Session) AddText() int {
	s.scene.Texts = append(s.scene.Texts, meme.TextOverlay{
		Content:      meme.DefaultText,
		X:            float64(s.scene.Width) / 2,
		Y:            float64(s.scene.Height) / 2,
		Fill:         s.Style.Fill,
		Outline:      s.Style.Outline,
		OutlineWidth: s.Style.OutlineWidth,
		FontSize:     s.Style.FontSize,
		FontFamily:   s.Style.FontFamily,
	})
	s.commit()
	return len(s.scene.Texts) - 1
}

func (s *Session) MoveText(index int, dx, dy float64) bool {
	if !s.validIndex(index) {
		return false
	}
	s.scene.Texts[index].X += dx
	s.scene.Texts[index].Y += dy
	s.commit()
	return true
}

func (s *Session) EditText(index int, content string) bool {
	if !s.validIndex(index) || !utf8.ValidString(content) {
		return false
	}
	s.scene.Texts[index].Content = content
	s.commit()
	return true
}

// SetLastFontSize resizes the most recently added overlay, mirroring the
// font-size control.
func (s *Session) SetLastFontSize(size float64) bool {
	if size > 0 {
		s.Style.FontSize = size
	}
	n := len(s.scene.Texts)
	if n == 0 || size <= 0 || s.scene.Texts[n-1].FontSize == size {
		return false
	}
	s.scene.Texts[n-1].FontSize = size
	s.commit()
	return true
}

// SetLastOutlineWidth sets the outline width for new overlays and applies it
// to the most recently added one. Negative widths are ignored.
func (s *Session) SetLastOutlineWidth(width float64) bool {
	if width < 0 {
		return false
	}
	s.Style.OutlineWidth = width
	n := len(s.scene.Texts)
	if n == 0 || s.scene.Texts[n-1].OutlineWidth == width {
		return false
	}
	s.scene.Texts[n-1].OutlineWidth = width
	s.commit()
	return true
}

func (s *Session) ClearStrokes() {
	s.stroke = nil
	s.scene.Strokes = []meme.Stroke{}
	s.commit()
}

func (s *Session) SetFilter(name string) meme.Filter {
	s.scene.Filter = meme.ParseFilter(name)
	s.commit()
	return s.scene.Filter
}

// ApplyTemplate replaces the background and the overlays with those of a
// saved template. Strokes and the filter are kept.
func (s *Session) ApplyTemplate(t meme.Template, width, height int) {
	s.scene.Image = t.Image
	s.scene.Texts = meme.CloneTexts(t.Texts)
	if width > 0 && height > 0 {
		s.scene.Width = width
		s.scene.Height = height
	}
	s.commit()
}

// Segment is the newest piece of an in-progress stroke.
type Segment struct {
	From meme.Point
	To   meme.Point
}

// AppendStrokePoint starts or extends the in-progress stroke with the current
// brush. When the stroke has at least two points the newest segment is
// returned for incremental drawing.
func (s *Session) AppendStrokePoint(x, y float64) (Segment, bool) {
	p := meme.Point{X: x, Y: y, Size: s.Brush.Size, Color: s.Brush.Color}
	if s.Tool == ToolErase {
		p.Color = s.EraseColor
		p.Erase = true
	}
	s.stroke = append(s.stroke, p)
	if len(s.stroke) < 2 {
		return Segment{}, false
	}
	return Segment{From: s.stroke[len(s.stroke)-2], To: p}, true
}

// FinalizeStroke ends the in-progress stroke. Strokes of a single point are
// discarded and produce no snapshot.
func (s *Session) FinalizeStroke() bool {
	pts := s.stroke
	s.stroke = nil
	if len(pts) < 2 {
		return false
	}
	s.scene.Strokes = append(s.scene.Strokes, meme.Stroke{Points: append([]meme.Point(nil), pts...)})
	s.commit()
	return true
}

// InProgressStroke returns a copy of the stroke being drawn, if any.
func (s *Session) InProgressStroke() []meme.Point {
	return append([]meme.Point(nil), s.stroke...)
}

// LocateTextAt returns the index of the topmost overlay whose box contains
// (x, y), or -1. Boxes are centred on the overlay position, as wide as the
// measured text and as tall as the font size.
func (s *Session) LocateTextAt(x, y float64) int {
	for i := len(s.scene.Texts) - 1; i >= 0; i-- {
		t := s.scene.Texts[i]
		w := s.textWidth(t)
		h := t.FontSize
		if x >= t.X-w/2 && x <= t.X+w/2 && y >= t.Y-h/2 && y <= t.Y+h/2 {
			return i
		}
	}
	return -1
}

func (s *Session) textWidth(t meme.TextOverlay) float64 {
	if s.measure != nil {
		return s.measure.MeasureText(t.Content, t.FontFamily, t.FontSize)
	}
	return float64(utf8.RuneCountInString(t.Content)) * t.FontSize * 0.6
}

func (s *Session) CanUndo() bool { return s.history.CanUndo() }
func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// Undo replaces the live scene with the previous snapshot. Gestures and edits
// in progress are abandoned.
func (s *Session) Undo() bool {
	prev, ok := s.history.Undo()
	if !ok {
		return false
	}
	s.restore(prev)
	return true
}

func (s *Session) Redo() bool {
	next, ok := s.history.Redo()
	if !ok {
		return false
	}
	s.restore(next)
	return true
}

func (s *Session) restore(scene meme.Scene) {
	s.stroke = nil
	s.drag = nil
	s.edit = editState{}
	s.scene = scene
}
