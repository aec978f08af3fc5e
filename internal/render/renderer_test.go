package render

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"memeforge/pkg/meme"
)

func newTestRenderer(t *testing.T) (*Renderer, *Fonts) {
	t.Helper()
	fonts, err := NewFonts()
	if err != nil {
		t.Fatal(err)
	}
	return NewRenderer(fonts), fonts
}

func lineScene(c meme.Color, f meme.Filter) meme.Scene {
	s := meme.NewScene(100, 100)
	s.Strokes = append(s.Strokes, meme.Stroke{Points: []meme.Point{
		{X: 10, Y: 50, Size: 8, Color: c},
		{X: 90, Y: 50, Size: 8, Color: c},
	}})
	s.Filter = f
	return s
}

func TestRenderStroke(t *testing.T) {
	r, _ := newTestRenderer(t)
	dst := NewSurface(lineScene(meme.Black, meme.FilterNone))
	r.Render(dst, lineScene(meme.Black, meme.FilterNone), nil)
	if got := dst.RGBAAt(50, 50); got != (color.RGBA{A: 0xFF}) {
		t.Fatalf("expected opaque black on the stroke, got %#v", got)
	}
	if got := dst.RGBAAt(50, 5); got.A != 0 {
		t.Fatalf("expected transparent background, got %#v", got)
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	r, _ := newTestRenderer(t)
	s := lineScene(meme.MustParseColor("#3366cc"), meme.FilterSepia)
	s.Texts = append(s.Texts, meme.TextOverlay{
		Content: "hi", X: 50, Y: 30, Fill: meme.White, Outline: meme.Black,
		OutlineWidth: 2, FontSize: 20, FontFamily: "Impact",
	})
	a := NewSurface(s)
	b := NewSurface(s)
	r.Render(a, s, nil)
	r.Render(b, s, nil)
	r.Render(b, s, nil)
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Fatal("rendering the same scene twice produced different pixels")
	}
}

func TestRenderGrayscaleFilter(t *testing.T) {
	r, _ := newTestRenderer(t)
	s := lineScene(meme.MustParseColor("#ff0000"), meme.FilterGrayscale)
	dst := NewSurface(s)
	r.Render(dst, s, nil)
	got := dst.RGBAAt(50, 50)
	if got.R != got.G || got.G != got.B {
		t.Fatalf("expected a grey pixel, got %#v", got)
	}
	if got.R < 70 || got.R > 82 {
		t.Fatalf("unexpected luminance %d", got.R)
	}
}

func TestRenderInvertFilter(t *testing.T) {
	r, _ := newTestRenderer(t)
	s := lineScene(meme.Black, meme.FilterInvert)
	dst := NewSurface(s)
	r.Render(dst, s, nil)
	if got := dst.RGBAAt(50, 50); got != (color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}) {
		t.Fatalf("expected inverted stroke, got %#v", got)
	}
	if got := dst.RGBAAt(2, 2); got.A != 0 {
		t.Fatalf("transparent area gained alpha: %#v", got)
	}
}

func TestRenderScalesBackground(t *testing.T) {
	r, _ := newTestRenderer(t)
	bg := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for i := 0; i < len(bg.Pix); i += 4 {
		bg.Pix[i], bg.Pix[i+1], bg.Pix[i+2], bg.Pix[i+3] = 0, 0xFF, 0, 0xFF
	}
	s := meme.NewScene(64, 48)
	dst := NewSurface(s)
	r.Render(dst, s, bg)
	for _, p := range []image.Point{{1, 1}, {32, 24}, {62, 46}} {
		if got := dst.RGBAAt(p.X, p.Y); got != (color.RGBA{0, 0xFF, 0, 0xFF}) {
			t.Fatalf("background not scaled to %v: %#v", p, got)
		}
	}
}

func TestRenderPendingStroke(t *testing.T) {
	r, _ := newTestRenderer(t)
	s := meme.NewScene(100, 100)
	dst := NewSurface(s)
	r.Render(dst, s, nil,
		meme.Point{X: 50, Y: 10, Size: 6, Color: meme.Black},
		meme.Point{X: 50, Y: 90, Size: 6, Color: meme.Black},
	)
	if dst.RGBAAt(50, 50).A != 0xFF {
		t.Fatal("pending stroke not drawn")
	}
	r.Render(dst, s, nil, meme.Point{X: 50, Y: 50, Size: 6, Color: meme.Black})
	if dst.RGBAAt(50, 50).A != 0 {
		t.Fatal("single pending point should draw nothing")
	}
}

func TestRenderSegmentAppliesColourTransform(t *testing.T) {
	r, _ := newTestRenderer(t)
	dst := image.NewRGBA(image.Rect(0, 0, 100, 100))
	red := meme.MustParseColor("#ff0000")
	if !r.RenderSegment(dst,
		meme.Point{X: 10, Y: 50, Size: 8, Color: red},
		meme.Point{X: 90, Y: 50, Size: 8, Color: red},
		meme.FilterGrayscale) {
		t.Fatal("grayscale segment should draw incrementally")
	}
	got := dst.RGBAAt(50, 50)
	if got.R != got.G || got.G != got.B || got.A != 0xFF {
		t.Fatalf("segment colour not transformed: %#v", got)
	}
}

func TestBlurredSegmentNeedsFullRender(t *testing.T) {
	r, _ := newTestRenderer(t)
	s := meme.NewScene(100, 100)
	s.Filter = meme.FilterBlur
	stroke := []meme.Point{
		{X: 10, Y: 50, Size: 8, Color: meme.Black},
		{X: 90, Y: 50, Size: 8, Color: meme.Black},
	}
	dst := NewSurface(s)
	r.Render(dst, s, nil)
	if r.RenderSegment(dst, stroke[0], stroke[1], s.Filter) {
		t.Fatal("blurred segment should ask for a full render")
	}
	if countOpaque(dst) != 0 {
		t.Fatal("blurred segment drew a sharp line")
	}

	full := NewSurface(s)
	r.Render(full, s, nil, stroke...)
	edge := full.RGBAAt(50, 56)
	if edge.A == 0 || edge.A == 0xFF {
		t.Fatalf("full render should soften the stroke edge, got %#v", edge)
	}
	if IncrementalSafe(meme.FilterBlur) || !IncrementalSafe(meme.FilterSepia) || !IncrementalSafe(meme.FilterNone) {
		t.Fatal("unexpected incremental safety")
	}
}

func TestTextOutlineDrawsBeneathFill(t *testing.T) {
	r, _ := newTestRenderer(t)
	s := meme.NewScene(200, 100)
	s.Texts = append(s.Texts, meme.TextOverlay{
		Content: "MEME", X: 100, Y: 50, Fill: meme.White, Outline: meme.Black,
		FontSize: 40, FontFamily: "Impact",
	})
	plain := NewSurface(s)
	r.Render(plain, s, nil)

	s.Texts[0].OutlineWidth = 4
	outlined := NewSurface(s)
	r.Render(outlined, s, nil)

	if countOpaque(outlined) <= countOpaque(plain) {
		t.Fatal("outline did not widen the text footprint")
	}
	if countOpaque(plain) == 0 {
		t.Fatal("text drew nothing")
	}
}

func countOpaque(img *image.RGBA) int {
	n := 0
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] > 0x80 {
			n++
		}
	}
	return n
}

func TestColorTransform(t *testing.T) {
	if ColorTransform(meme.FilterNone) != nil || ColorTransform(meme.FilterBlur) != nil {
		t.Fatal("identity filters should have no colour transform")
	}
	inv := ColorTransform(meme.FilterInvert)(color.NRGBA{R: 10, G: 20, B: 30, A: 40})
	if inv != (color.NRGBA{R: 245, G: 235, B: 225, A: 40}) {
		t.Fatalf("unexpected inversion %#v", inv)
	}
	sep := ColorTransform(meme.FilterSepia)(color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	if sep.R != 255 || sep.G != 255 || sep.B != 239 {
		t.Fatalf("unexpected sepia white %#v", sep)
	}
}
