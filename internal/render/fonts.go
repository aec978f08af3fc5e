package render

import (
	"math"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Families lists the font names offered by the font picker.
var Families = []string{"Impact", "Arial", "Comic Sans MS", "Courier New", "Times New Roman"}

// familyFaces maps picker names onto the bundled Go fonts.
var familyFaces = map[string]string{
	"impact":          "gobold",
	"arial":           "goregular",
	"comic sans ms":   "goitalic",
	"courier new":     "gomono",
	"times new roman": "gomedium",
}

// ResolveFamily returns the bundled face name used for a picker family.
func ResolveFamily(family string) string {
	if name, ok := familyFaces[strings.ToLower(strings.TrimSpace(family))]; ok {
		return name
	}
	return "goregular"
}

type fontKey struct {
	face string
	size int
}

// Fonts parses the bundled faces once and caches sized faces. It satisfies
// editor.TextMeasurer.
type Fonts struct {
	mu    sync.Mutex
	fonts map[string]*opentype.Font
	cache map[fontKey]font.Face
}

func NewFonts() (*Fonts, error) {
	f := &Fonts{fonts: map[string]*opentype.Font{}, cache: map[fontKey]font.Face{}}
	for name, ttf := range map[string][]byte{
		"gobold":    gobold.TTF,
		"goregular": goregular.TTF,
		"goitalic":  goitalic.TTF,
		"gomono":    gomono.TTF,
		"gomedium":  gomedium.TTF,
	} {
		parsed, err := opentype.Parse(ttf)
		if err != nil {
			return nil, err
		}
		f.fonts[name] = parsed
	}
	return f, nil
}

// Face returns a cached face for family at size pixels. Sizes are rounded to
// quarter pixels for caching.
func (f *Fonts) Face(family string, size float64) font.Face {
	if size <= 0 {
		size = 1
	}
	key := fontKey{face: ResolveFamily(family), size: int(math.Round(size * 4))}
	f.mu.Lock()
	defer f.mu.Unlock()
	if face, ok := f.cache[key]; ok {
		return face
	}
	base := f.fonts[key.face]
	if base == nil {
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(base, &opentype.FaceOptions{Size: float64(key.size) / 4, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		return basicfont.Face7x13
	}
	f.cache[key] = face
	return face
}

// MeasureText returns the advance width of content in pixels.
func (f *Fonts) MeasureText(content, family string, size float64) float64 {
	if content == "" {
		return 0
	}
	face := f.Face(family, size)
	f.mu.Lock()
	defer f.mu.Unlock()
	adv := font.MeasureString(face, content)
	return float64(adv) / 64
}

// Reset drops cached faces.
func (f *Fonts) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, face := range f.cache {
		_ = face.Close()
		delete(f.cache, k)
	}
}
