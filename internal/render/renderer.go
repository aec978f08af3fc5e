package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"

	"memeforge/pkg/meme"
)

const blurSigma = 5

// Renderer rasterises scenes. A full render is a pure function of the scene,
// the decoded background and the pending stroke.
type Renderer struct {
	fonts *Fonts
}

func NewRenderer(fonts *Fonts) *Renderer {
	return &Renderer{fonts: fonts}
}

// NewSurface allocates a transparent surface sized to the scene canvas.
func NewSurface(scene meme.Scene) *image.RGBA {
	w, h := scene.Width, scene.Height
	if w <= 0 {
		w = meme.DefaultWidth
	}
	if h <= 0 {
		h = meme.DefaultHeight
	}
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

// Render redraws dst from scratch: background, text overlays in order,
// finalised strokes, the pending stroke, then the scene filter over the
// whole surface. bg may be nil.
func (r *Renderer) Render(dst *image.RGBA, scene meme.Scene, bg image.Image, pending ...meme.Point) {
	b := dst.Bounds()
	draw.Draw(dst, b, image.Transparent, image.Point{}, draw.Src)
	if bg != nil {
		xdraw.CatmullRom.Scale(dst, b, bg, bg.Bounds(), xdraw.Over, nil)
	}

	dc := gg.NewContextForRGBA(dst)
	dc.SetLineCapRound()
	dc.SetLineJoinRound()
	for _, t := range scene.Texts {
		r.drawText(dc, t)
	}
	for _, st := range scene.Strokes {
		drawPolyline(dc, st.Points, nil)
	}
	drawPolyline(dc, pending, nil)

	if scene.Filter != meme.FilterNone && scene.Filter != "" {
		out := ApplyFilter(dst, scene.Filter)
		draw.Draw(dst, b, out, out.Bounds().Min, draw.Src)
	}
}

// RenderSegment draws one piece of the pending stroke onto an already rendered
// surface. The filter's colour transform is applied to the brush colour so the
// segment matches what a full redraw would show. It reports false, leaving dst
// untouched, when the filter cannot be reproduced per segment and the caller
// must fall back to Render.
func (r *Renderer) RenderSegment(dst *image.RGBA, from, to meme.Point, filter meme.Filter) bool {
	if !IncrementalSafe(filter) {
		return false
	}
	dc := gg.NewContextForRGBA(dst)
	dc.SetLineCapRound()
	dc.SetLineJoinRound()
	drawPolyline(dc, []meme.Point{from, to}, ColorTransform(filter))
	return true
}

// IncrementalSafe reports whether a stroke segment drawn under f matches a
// full redraw. Blur spreads each pixel into its neighbours, so it does not.
func IncrementalSafe(f meme.Filter) bool {
	return f != meme.FilterBlur
}

func (r *Renderer) drawText(dc *gg.Context, t meme.TextOverlay) {
	if t.Content == "" {
		return
	}
	dc.SetFontFace(r.fonts.Face(t.FontFamily, t.FontSize))
	if t.OutlineWidth > 0 {
		dc.SetColor(t.Outline)
		steps := int(math.Ceil(t.OutlineWidth / 2))
		for dy := -steps; dy <= steps; dy++ {
			for dx := -steps; dx <= steps; dx++ {
				if (dx == 0 && dy == 0) || dx*dx+dy*dy > steps*steps {
					continue
				}
				dc.DrawStringAnchored(t.Content, t.X+float64(dx), t.Y+float64(dy), 0.5, 0.5)
			}
		}
	}
	dc.SetColor(t.Fill)
	dc.DrawStringAnchored(t.Content, t.X, t.Y, 0.5, 0.5)
}

// drawPolyline strokes points with the first point's colour and size. A
// single point draws nothing.
func drawPolyline(dc *gg.Context, pts []meme.Point, transform func(color.NRGBA) color.NRGBA) {
	if len(pts) < 2 {
		return
	}
	c := pts[0].Color.NRGBA()
	if transform != nil {
		c = transform(c)
	}
	dc.SetColor(c)
	dc.SetLineWidth(pts[0].Size)
	dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		dc.LineTo(p.X, p.Y)
	}
	dc.Stroke()
}

// ApplyFilter returns a filtered copy of img.
func ApplyFilter(img image.Image, f meme.Filter) *image.NRGBA {
	switch f {
	case meme.FilterGrayscale:
		return imaging.Grayscale(img)
	case meme.FilterSepia:
		return imaging.AdjustFunc(img, sepia)
	case meme.FilterBlur:
		return imaging.Blur(img, blurSigma)
	case meme.FilterInvert:
		return imaging.Invert(img)
	default:
		return imaging.Clone(img)
	}
}

// ColorTransform returns the per-colour part of a filter, or nil when the
// filter does not change colours. Blur has no per-colour part; see
// IncrementalSafe.
func ColorTransform(f meme.Filter) func(color.NRGBA) color.NRGBA {
	switch f {
	case meme.FilterGrayscale:
		return grayscale
	case meme.FilterSepia:
		return sepia
	case meme.FilterInvert:
		return invert
	default:
		return nil
	}
}

func grayscale(c color.NRGBA) color.NRGBA {
	y := clamp(0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B))
	return color.NRGBA{R: y, G: y, B: y, A: c.A}
}

func sepia(c color.NRGBA) color.NRGBA {
	r, g, b := float64(c.R), float64(c.G), float64(c.B)
	return color.NRGBA{
		R: clamp(0.393*r + 0.769*g + 0.189*b),
		G: clamp(0.349*r + 0.686*g + 0.168*b),
		B: clamp(0.272*r + 0.534*g + 0.131*b),
		A: c.A,
	}
}

func invert(c color.NRGBA) color.NRGBA {
	return color.NRGBA{R: 255 - c.R, G: 255 - c.G, B: 255 - c.B, A: c.A}
}

func clamp(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
