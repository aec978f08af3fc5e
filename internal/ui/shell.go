package ui

import (
	"image"
	"math"

	"memeforge/internal/editor"
	"memeforge/internal/render"
)

type Layout struct {
	MenuH     int
	ToolbarH  int
	StatusH   int
	CanvasY   int
	CanvasH   int
	PageX     int
	PageY     int
	PageW     int
	PageH     int
	Scale     float64
	StatusBar int
}

// Page is the on-screen rectangle the meme canvas is presented in.
func (l Layout) Page() image.Rectangle {
	return image.Rect(l.PageX, l.PageY, l.PageX+l.PageW, l.PageY+l.PageH)
}

// ToCanvas converts window coordinates into canvas pixels.
func (l Layout) ToCanvas(x, y int) (float64, float64) {
	if l.Scale <= 0 {
		return 0, 0
	}
	return float64(x-l.PageX) / l.Scale, float64(y-l.PageY) / l.Scale
}

// InPage reports whether a window point lies on the presented canvas.
func (l Layout) InPage(x, y int) bool {
	return image.Pt(x, y).In(l.Page())
}

// Fit scales a srcW x srcH canvas to fit inside area, never enlarging it, and
// centres it.
func Fit(srcW, srcH int, area image.Rectangle) (image.Rectangle, float64) {
	if srcW <= 0 || srcH <= 0 || area.Dx() <= 0 || area.Dy() <= 0 {
		return image.Rectangle{Min: area.Min}, 0
	}
	scale := math.Min(float64(area.Dx())/float64(srcW), float64(area.Dy())/float64(srcH))
	if scale > 1 {
		scale = 1
	}
	w := int(math.Round(float64(srcW) * scale))
	h := int(math.Round(float64(srcH) * scale))
	x := area.Min.X + (area.Dx()-w)/2
	y := area.Min.Y + (area.Dy()-h)/2
	return image.Rect(x, y, x+w, y+h), scale
}

func ComputeLayout(w, h, canvasW, canvasH int, theme Theme, scale float32) Layout {
	if scale <= 0 {
		scale = 1
	}

	dp := func(v int) int { return int(float32(v) * scale) }

	menuH := dp(theme.MenuHeightDp)
	toolbarH := dp(theme.ToolbarHeightDp)
	statusH := dp(theme.StatusHeightDp)
	margin := dp(theme.PageMarginDp)

	canvasY := menuH + toolbarH
	areaH := h - canvasY - statusH
	if areaH < 0 {
		areaH = 0
	}

	area := image.Rect(margin, canvasY+margin, w-margin, canvasY+areaH-margin)
	page, fit := Fit(canvasW, canvasH, area)

	return Layout{
		MenuH:     menuH,
		ToolbarH:  toolbarH,
		StatusH:   statusH,
		CanvasY:   canvasY,
		CanvasH:   areaH,
		PageX:     page.Min.X,
		PageY:     page.Min.Y,
		PageW:     page.Dx(),
		PageH:     page.Dy(),
		Scale:     fit,
		StatusBar: h - statusH,
	}
}

// DrawShell paints the window chrome around the meme canvas and returns the
// layout used.
func DrawShell(fb *render.FrameBuffer, session *editor.Session, theme Theme, scale float32) Layout {
	scene := session.Scene()
	layout := ComputeLayout(fb.W, fb.H, scene.Width, scene.Height, theme, scale)

	fb.Clear(theme.AppBackground)

	// Title bar + toolbar
	fb.FillRect(0, 0, fb.W, layout.MenuH, theme.TopBar)
	fb.FillRect(0, layout.MenuH, fb.W, layout.ToolbarH, theme.Toolbar)
	fb.StrokeRect(0, 0, fb.W, layout.MenuH+layout.ToolbarH, 1, theme.Border)

	fb.FillRect(0, layout.CanvasY, fb.W, layout.CanvasH, theme.Canvas)

	// The canvas is transparent where nothing is drawn; a checkerboard shows
	// through underneath it.
	pageX, pageY, pageW, pageH := layout.PageX, layout.PageY, layout.PageW, layout.PageH
	fb.FillRect(pageX+3, pageY+3, pageW, pageH, theme.Shadow)
	fb.FillRect(pageX, pageY, pageW, pageH, theme.Toolbar)
	cell := int(8 * scale)
	if cell < 4 {
		cell = 4
	}
	for y := 0; y < pageH; y += cell {
		for x := (y / cell % 2) * cell; x < pageW; x += cell * 2 {
			fb.FillRect(pageX+x, pageY+y, min(cell, pageW-x), min(cell, pageH-y), theme.Checker)
		}
	}
	fb.StrokeRect(pageX-1, pageY-1, pageW+2, pageH+2, 1, theme.Border)

	// Accent line under the toolbar while a drawing tool is armed.
	if session.Tool != editor.ToolNone {
		accentH := int(3 * scale)
		if accentH < 1 {
			accentH = 1
		}
		fb.FillRect(0, layout.CanvasY, fb.W, accentH, theme.Accent)
	}

	fb.FillRect(0, layout.StatusBar, fb.W, layout.StatusH, theme.StatusBar)
	fb.StrokeRect(0, layout.StatusBar, fb.W, layout.StatusH, 1, theme.Border)

	return layout
}
