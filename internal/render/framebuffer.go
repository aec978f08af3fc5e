package render

import (
	"image"
	"image/color"
	"image/draw"
)

// FrameBuffer is the window-sized surface the application chrome is painted
// into before it is uploaded to the screen.
type FrameBuffer struct {
	W      int
	H      int
	Pixels []uint8 // RGBA
	img    *image.RGBA
}

func NewFrameBuffer(w, h int) *FrameBuffer {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	return &FrameBuffer{W: w, H: h, Pixels: img.Pix, img: img}
}

// Image exposes the buffer as an image sharing the same pixels.
func (fb *FrameBuffer) Image() *image.RGBA { return fb.img }

// Resize reallocates the buffer when the size changed and reports whether it
// did.
func (fb *FrameBuffer) Resize(w, h int) bool {
	if w <= 0 || h <= 0 || (w == fb.W && h == fb.H) {
		return false
	}
	*fb = *NewFrameBuffer(w, h)
	return true
}

func (fb *FrameBuffer) Clear(c color.RGBA) {
	draw.Draw(fb.img, fb.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// FillRect paints an opaque rectangle clipped to the buffer.
func (fb *FrameBuffer) FillRect(x, y, w, h int, c color.RGBA) {
	r := image.Rect(x, y, x+w, y+h).Intersect(fb.img.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(fb.img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

func (fb *FrameBuffer) StrokeRect(x, y, w, h, line int, c color.RGBA) {
	if line <= 0 {
		line = 1
	}
	fb.FillRect(x, y, w, line, c)
	fb.FillRect(x, y+h-line, w, line, c)
	fb.FillRect(x, y, line, h, c)
	fb.FillRect(x+w-line, y, line, h, c)
}
