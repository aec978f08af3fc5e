package app

import (
	"image"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"memeforge/internal/editor"
	"memeforge/internal/render"
	"memeforge/internal/ui"
)

// handlePointer routes the left mouse button to the toolbar or the canvas.
func (a *App) handlePointer() {
	x, y := ebiten.CursorPosition()

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if b, ok := ui.HitButton(a.buttons, x, y); ok {
			a.invokeAction(b.Action)
			return
		}
		if !a.layout.InPage(x, y) {
			return
		}
		cx, cy := a.layout.ToCanvas(x, y)
		if a.clicks.Press(time.Now(), x, y) {
			if a.session.BeginEdit(cx, cy) {
				a.pointerDown = false
				a.surfaceDirty = true
				a.status = "Editing text: Enter to apply, Esc to cancel"
				return
			}
		}
		if a.session.PointerDown(cx, cy) != editor.GestureNone {
			a.pointerDown = true
		}
		return
	}

	if !a.pointerDown {
		return
	}
	released := inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) || !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	if released || !a.layout.InPage(x, y) {
		a.endGesture()
		return
	}
	cx, cy := a.layout.ToCanvas(x, y)
	switch u := a.session.PointerMove(cx, cy); u.Kind {
	case editor.UpdateRedraw:
		a.surfaceDirty = true
	case editor.UpdateSegment:
		if a.surface != nil && !a.surfaceDirty {
			if a.renderer.RenderSegment(a.surface, u.Segment.From, u.Segment.To, a.session.Scene().Filter) {
				a.surfaceUpload = true
			} else {
				a.surfaceDirty = true
			}
		}
	}
}

func (a *App) endGesture() {
	a.pointerDown = false
	kind := a.session.Gesture()
	changed := a.session.PointerUp()
	if kind == editor.GestureStroke || changed {
		a.surfaceDirty = true
	}
	if changed {
		a.status = "Saved to history"
	}
}

// refreshSurface re-renders the meme when the scene changed and uploads it.
func (a *App) refreshSurface() {
	scene := a.session.Scene()
	if a.surface == nil || a.surface.Bounds().Dx() != scene.Width || a.surface.Bounds().Dy() != scene.Height {
		a.surface = render.NewSurface(scene)
		a.surfaceImage = ebiten.NewImage(scene.Width, scene.Height)
		a.surfaceDirty = true
	}
	if a.surfaceDirty {
		a.renderer.Render(a.surface, scene, a.background, a.session.InProgressStroke()...)
		a.surfaceDirty = false
		a.surfaceUpload = true
	}
	if a.surfaceUpload {
		a.surfaceImage.WritePixels(a.surface.Pix)
		a.surfaceUpload = false
	}
}

// editBox is the on-screen rectangle of the text edit overlay.
func (a *App) editBox() image.Rectangle {
	idx, ok := a.session.Editing()
	if !ok {
		return image.Rectangle{}
	}
	scene := a.session.Scene()
	if idx >= len(scene.Texts) {
		return image.Rectangle{}
	}
	t := scene.Texts[idx]
	s := a.uiScale()
	w := int(360 * s)
	h := int(34 * s)
	cx := a.layout.PageX + int(t.X*a.layout.Scale)
	cy := a.layout.PageY + int(t.Y*a.layout.Scale)
	r := image.Rect(cx-w/2, cy-h/2, cx+w/2, cy+h/2)

	// Keep the box inside the canvas area.
	area := image.Rect(0, a.layout.CanvasY, a.screenW, a.layout.StatusBar)
	if r.Min.X < area.Min.X {
		r = r.Add(image.Pt(area.Min.X-r.Min.X, 0))
	}
	if r.Max.X > area.Max.X {
		r = r.Add(image.Pt(area.Max.X-r.Max.X, 0))
	}
	if r.Min.Y < area.Min.Y {
		r = r.Add(image.Pt(0, area.Min.Y-r.Min.Y))
	}
	if r.Max.Y > area.Max.Y {
		r = r.Add(image.Pt(0, area.Max.Y-r.Max.Y))
	}
	return r
}
