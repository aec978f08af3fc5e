package app

import (
	"fmt"
	"image/color"
	"time"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font"

	"memeforge/internal/render"
	"memeforge/internal/ui"
)

const uiFamily = "Arial"

func (a *App) uiFace(sizePx float64) font.Face {
	return a.fonts.Face(uiFamily, sizePx*float64(a.uiScale()))
}

func (a *App) Draw(screen *ebiten.Image) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	if a.frameBuffer == nil {
		a.frameBuffer = render.NewFrameBuffer(w, h)
		a.chrome = ebiten.NewImage(w, h)
	} else if a.frameBuffer.Resize(w, h) {
		a.chrome = ebiten.NewImage(w, h)
	}

	layout := ui.DrawShell(a.frameBuffer, a.session, a.theme, a.uiScale())
	a.layout = layout
	buttonFace := a.uiFace(12)
	statusFace := a.uiFace(11)

	a.buttons = ui.LayoutToolbar(layout, toolbarItems(), func(s string) int {
		return font.MeasureString(buttonFace, s).Ceil()
	}, a.uiScale())
	mx, my := ebiten.CursorPosition()
	for _, b := range a.buttons {
		hover := b.Rect.Min.X <= mx && mx < b.Rect.Max.X && b.Rect.Min.Y <= my && my < b.Rect.Max.Y
		ui.DrawButton(a.frameBuffer, b, a.buttonActive(b.Action), hover, a.theme)
	}

	a.chrome.WritePixels(a.frameBuffer.Pixels)
	screen.DrawImage(a.chrome, nil)

	a.refreshSurface()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(layout.Scale, layout.Scale)
	op.GeoM.Translate(float64(layout.PageX), float64(layout.PageY))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(a.surfaceImage, op)

	text.Draw(screen, "memeforge", a.uiFace(13), int(10*a.uiScale()), layout.MenuH-int(9*a.uiScale()), a.theme.TopBarText)
	a.drawButtonLabels(screen, buttonFace)

	scene := a.session.Scene()
	hist := a.session.History()
	statusLeft := fmt.Sprintf("[ %dx%d ] [ Texts %d ] [ Strokes %d ] [ Filter %s ] [ History %d/%d ]",
		scene.Width, scene.Height, len(scene.Texts), len(scene.Strokes), scene.Filter, hist.Cursor()+1, hist.Len())
	statusRight := fmt.Sprintf("[ %s ] [ %s %.0fpx ] [ Brush %.0fpx ] [ %s ]",
		a.session.Tool, a.session.Style.FontFamily, a.session.Style.FontSize, a.session.Brush.Size, a.status)
	baseline := h - int(9*a.uiScale())
	text.Draw(screen, statusLeft, statusFace, 12, baseline, statusColor)
	text.Draw(screen, statusRight, statusFace, 12+font.MeasureString(statusFace, statusLeft).Ceil()+24, baseline, statusColor)

	a.drawEditOverlay(screen)
	a.drawToast(screen, w)
	if a.showHelp {
		a.drawHelpOverlay(screen)
	}
}

func (a *App) drawButtonLabels(screen *ebiten.Image, face font.Face) {
	ascent := face.Metrics().Ascent.Ceil()
	for _, b := range a.buttons {
		c := a.theme.ButtonText
		if !a.buttonEnabled(b.Action) {
			c = a.theme.ButtonDisabled
		}
		lw := font.MeasureString(face, b.Label).Ceil()
		x := b.Rect.Min.X + (b.Rect.Dx()-lw)/2
		y := b.Rect.Min.Y + (b.Rect.Dy()+ascent)/2 - 1
		text.Draw(screen, b.Label, face, x, y, c)
	}
}

func (a *App) drawEditOverlay(screen *ebiten.Image) {
	if _, ok := a.session.Editing(); !ok {
		return
	}
	r := a.editBox()
	a.drawFilledRectOnScreen(screen, r.Min.X, r.Min.Y, r.Dx(), r.Dy(), color.RGBA{R: 255, G: 255, B: 255, A: 245})
	a.drawRectOutline(screen, r.Min.X, r.Min.Y, r.Dx(), r.Dy(), a.theme.Accent)

	face := a.uiFace(14)
	content := a.session.EditBuffer()
	// Keep the tail of long input visible.
	for len(content) > 0 && font.MeasureString(face, content).Ceil() > r.Dx()-20 {
		_, size := utf8.DecodeRuneInString(content)
		content = content[size:]
	}
	baseline := r.Min.Y + (r.Dy()+face.Metrics().Ascent.Ceil())/2 - 2
	text.Draw(screen, content, face, r.Min.X+8, baseline, a.theme.ButtonText)
	if (a.frameTick/30)%2 == 0 {
		cx := float64(r.Min.X + 9 + font.MeasureString(face, content).Ceil())
		ebitenutil.DrawLine(screen, cx, float64(r.Min.Y+6), cx, float64(r.Max.Y-6), a.theme.ButtonText)
	}
}

func (a *App) drawToast(screen *ebiten.Image, w int) {
	t, ok := a.notes.Active(time.Now())
	if !ok {
		return
	}
	style := a.theme.ToastStyle(t.Severity)
	face := a.uiFace(13)
	s := a.uiScale()
	tw := font.MeasureString(face, t.Message).Ceil() + int(32*s)
	th := int(40 * s)
	x := w - tw - int(20*s)
	y := a.layout.CanvasY + int(16*s)
	a.drawFilledRectOnScreen(screen, x, y, tw, th, style.Background)
	text.Draw(screen, t.Message, face, x+int(16*s), y+(th+face.Metrics().Ascent.Ceil())/2-2, style.Foreground)
}

func (a *App) drawHelpOverlay(screen *ebiten.Image) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	panelW := int(float64(w) * 0.6)
	panelH := int(float64(h) * 0.6)
	px := (w - panelW) / 2
	py := (h - panelH) / 2
	a.drawFilledRectOnScreen(screen, 0, 0, w, h, color.RGBA{R: 0, G: 0, B: 0, A: 90})
	a.drawFilledRectOnScreen(screen, px, py, panelW, panelH, color.RGBA{R: 250, G: 251, B: 253, A: 255})
	a.drawRectOutline(screen, px, py, panelW, panelH, color.RGBA{R: 170, G: 184, B: 202, A: 255})

	text.Draw(screen, "Help", a.uiFace(15), px+22, py+32, color.RGBA{R: 30, G: 45, B: 67, A: 255})
	lines := []string{
		"Ctrl+O: Open image | Ctrl+S: Download PNG | Ctrl+Shift+C: Copy image",
		"Ctrl+Z: Undo | Ctrl+Y: Redo | Ctrl+T: Add text",
		"Drag text to move it; double-click text to edit it",
		"Enter applies an edit, Esc cancels it",
		"+ / -: Font size of the last text | [ / ]: Brush size",
		"Outline- / Outline+: Outline width of the last text",
		"Draw / Erase: paint on the canvas with the current brush",
		"Ctrl+= / Ctrl+-: Interface scale",
		"F1, Esc or a click closes this dialog",
	}
	face := a.uiFace(12)
	y := py + 66
	for _, l := range lines {
		text.Draw(screen, l, face, px+22, y, color.RGBA{R: 48, G: 60, B: 78, A: 255})
		y += int(26 * a.uiScale())
	}
}

func (a *App) drawRectOutline(screen *ebiten.Image, x, y, w, h int, c color.RGBA) {
	ebitenutil.DrawLine(screen, float64(x), float64(y), float64(x+w), float64(y), c)
	ebitenutil.DrawLine(screen, float64(x), float64(y+h), float64(x+w), float64(y+h), c)
	ebitenutil.DrawLine(screen, float64(x), float64(y), float64(x), float64(y+h), c)
	ebitenutil.DrawLine(screen, float64(x+w), float64(y), float64(x+w), float64(y+h), c)
}

// drawFilledRectOnScreen draws a filled rectangle on the screen by drawing horizontal lines.
func (a *App) drawFilledRectOnScreen(screen *ebiten.Image, x, y, w, h int, c color.RGBA) {
	for yy := y; yy < y+h; yy++ {
		ebitenutil.DrawLine(screen, float64(x), float64(yy), float64(x+w), float64(yy), c)
	}
}
