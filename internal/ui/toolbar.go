package ui

import (
	"image"

	"memeforge/internal/render"
)

type Action string

type ToolItem struct {
	Action Action
	Label  string
	// Row is 0 for the upper toolbar row and 1 for the lower one.
	Row int
	// Gap inserts a separator before the item.
	Gap bool
}

type Button struct {
	ToolItem
	Rect image.Rectangle
}

// LayoutToolbar places items left to right on two rows inside the toolbar
// band. measure returns a label's width in pixels.
func LayoutToolbar(layout Layout, items []ToolItem, measure func(string) int, scale float32) []Button {
	if scale <= 0 {
		scale = 1
	}
	dp := func(v int) int { return int(float32(v) * scale) }
	pad := dp(8)
	gap := dp(4)
	sep := dp(12)
	rowH := (layout.ToolbarH - 3*gap) / 2
	x := [2]int{pad, pad}
	out := make([]Button, 0, len(items))
	for _, it := range items {
		row := it.Row
		if row < 0 || row > 1 {
			row = 0
		}
		if it.Gap {
			x[row] += sep
		}
		w := measure(it.Label) + 2*pad
		y := layout.MenuH + gap + row*(rowH+gap)
		out = append(out, Button{ToolItem: it, Rect: image.Rect(x[row], y, x[row]+w, y+rowH)})
		x[row] += w + gap
	}
	return out
}

// HitButton returns the button under (x, y).
func HitButton(buttons []Button, x, y int) (Button, bool) {
	p := image.Pt(x, y)
	for _, b := range buttons {
		if p.In(b.Rect) {
			return b, true
		}
	}
	return Button{}, false
}

func DrawButton(fb *render.FrameBuffer, b Button, active, hover bool, theme Theme) {
	bg := theme.Button
	switch {
	case active:
		bg = theme.ButtonActive
	case hover:
		bg = theme.ButtonHover
	}
	r := b.Rect
	fb.FillRect(r.Min.X, r.Min.Y, r.Dx(), r.Dy(), bg)
	border := theme.Border
	if active {
		border = theme.Accent
	}
	fb.StrokeRect(r.Min.X, r.Min.Y, r.Dx(), r.Dy(), 1, border)
}
