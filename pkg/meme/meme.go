package meme

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultText       = "Double-click to edit"
	DefaultWidth      = 600
	DefaultHeight     = 400
	TemplatesKey      = "memeTemplates"
	DefaultFontFamily = "Impact"
)

type Filter string

const (
	FilterNone      Filter = "none"
	FilterGrayscale Filter = "grayscale"
	FilterSepia     Filter = "sepia"
	FilterBlur      Filter = "blur"
	FilterInvert    Filter = "invert"
)

var Filters = []Filter{FilterNone, FilterGrayscale, FilterSepia, FilterBlur, FilterInvert}

// ParseFilter maps a filter name to its enumeration value. Unknown names
// resolve to FilterNone.
func ParseFilter(name string) Filter {
	switch f := Filter(strings.ToLower(strings.TrimSpace(name))); f {
	case FilterGrayscale, FilterSepia, FilterBlur, FilterInvert:
		return f
	default:
		return FilterNone
	}
}

type TextOverlay struct {
	Content      string  `json:"content"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Fill         Color   `json:"color"`
	Outline      Color   `json:"outlineColor"`
	OutlineWidth float64 `json:"outlineWidth"`
	FontSize     float64 `json:"fontSize"`
	FontFamily   string  `json:"fontFamily"`
}

type Point struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"size"`
	Color Color   `json:"color"`
	Erase bool    `json:"isErasing"`
}

type Stroke struct {
	Points []Point `json:"points"`
}

type Scene struct {
	Image   string        `json:"image,omitempty"`
	Width   int           `json:"width"`
	Height  int           `json:"height"`
	Texts   []TextOverlay `json:"texts"`
	Strokes []Stroke      `json:"drawings"`
	Filter  Filter        `json:"filter"`
}

type Template struct {
	ID        string        `json:"id"`
	Image     string        `json:"image"`
	Texts     []TextOverlay `json:"texts"`
	Timestamp time.Time     `json:"timestamp"`
}

var (
	ErrEmptyComposition = errors.New("meme: create a meme first")
	ErrNothingToSave    = errors.New("meme: add an image or text first")
	ErrInvalidColor     = errors.New("meme: invalid color")
	ErrInvalidScene     = errors.New("meme: invalid scene")
)

func NewScene(width, height int) Scene {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return Scene{
		Width:   width,
		Height:  height,
		Texts:   []TextOverlay{},
		Strokes: []Stroke{},
		Filter:  FilterNone,
	}
}

// IsEmpty reports whether there is nothing to export: no background image,
// no text and no strokes.
func (s Scene) IsEmpty() bool {
	return s.Image == "" && len(s.Texts) == 0 && len(s.Strokes) == 0
}

func CloneScene(s Scene) Scene {
	out := s
	out.Texts = CloneTexts(s.Texts)
	out.Strokes = make([]Stroke, len(s.Strokes))
	for i, st := range s.Strokes {
		out.Strokes[i] = CloneStroke(st)
	}
	return out
}

func CloneTexts(texts []TextOverlay) []TextOverlay {
	out := make([]TextOverlay, len(texts))
	copy(out, texts)
	return out
}

func CloneStroke(st Stroke) Stroke {
	return Stroke{Points: append([]Point(nil), st.Points...)}
}

func ValidateScene(s Scene) error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: canvas size %dx%d", ErrInvalidScene, s.Width, s.Height)
	}
	for i, t := range s.Texts {
		if err := validateText(t); err != nil {
			return fmt.Errorf("%w: text %d: %v", ErrInvalidScene, i, err)
		}
	}
	for i, st := range s.Strokes {
		if len(st.Points) < 2 {
			return fmt.Errorf("%w: stroke %d has %d points", ErrInvalidScene, i, len(st.Points))
		}
		for _, p := range st.Points {
			if p.Size <= 0 {
				return fmt.Errorf("%w: stroke %d has brush size %.1f", ErrInvalidScene, i, p.Size)
			}
		}
	}
	return nil
}

func validateText(t TextOverlay) error {
	if t.FontSize <= 0 {
		return fmt.Errorf("font size %.1f", t.FontSize)
	}
	if t.OutlineWidth < 0 {
		return fmt.Errorf("outline width %.1f", t.OutlineWidth)
	}
	return nil
}

// NewTemplate captures the reusable part of a scene: its background and a
// deep copy of its text overlays.
func NewTemplate(s Scene, now time.Time) (Template, error) {
	if s.Image == "" && len(s.Texts) == 0 {
		return Template{}, ErrNothingToSave
	}
	return Template{
		ID:        uuid.NewString(),
		Image:     s.Image,
		Texts:     CloneTexts(s.Texts),
		Timestamp: now.UTC(),
	}, nil
}
