package ui

import (
	"image"
	"testing"

	"memeforge/internal/editor"
	"memeforge/internal/notify"
	"memeforge/internal/render"
)

func TestFitNeverEnlarges(t *testing.T) {
	r, s := Fit(200, 100, image.Rect(0, 0, 1000, 1000))
	if s != 1 || r.Dx() != 200 || r.Dy() != 100 {
		t.Fatalf("unexpected fit %v scale %v", r, s)
	}
	if r.Min.X != 400 || r.Min.Y != 450 {
		t.Fatalf("fit not centred: %v", r.Min)
	}
}

func TestFitShrinksToArea(t *testing.T) {
	r, s := Fit(1000, 500, image.Rect(10, 10, 510, 510))
	if s != 0.5 || r.Dx() != 500 || r.Dy() != 250 {
		t.Fatalf("unexpected fit %v scale %v", r, s)
	}
}

func TestLayoutToCanvasRoundTrip(t *testing.T) {
	l := ComputeLayout(1280, 860, 600, 400, DefaultTheme(), 1)
	if !l.InPage(l.PageX+10, l.PageY+10) || l.InPage(l.PageX-1, l.PageY) {
		t.Fatal("page hit test wrong")
	}
	x, y := l.ToCanvas(l.PageX+300, l.PageY+200)
	if x != 300 || y != 200 {
		t.Fatalf("unexpected canvas coords (%v, %v)", x, y)
	}
}

func TestDrawShellUsesSceneSize(t *testing.T) {
	fb := render.NewFrameBuffer(1280, 860)
	s := editor.NewSession(editor.Options{Width: 300, Height: 200})
	l := DrawShell(fb, s, DefaultTheme(), 1)
	if l.PageW != 300 || l.PageH != 200 {
		t.Fatalf("unexpected page size %dx%d", l.PageW, l.PageH)
	}
	if got := fb.Image().RGBAAt(1, 1); got != DefaultTheme().TopBar {
		t.Fatalf("title bar not painted: %#v", got)
	}
}

func TestLayoutToolbarRows(t *testing.T) {
	l := ComputeLayout(1280, 860, 600, 400, DefaultTheme(), 1)
	items := []ToolItem{
		{Action: "open", Label: "Open"},
		{Action: "undo", Label: "Undo", Row: 1},
		{Action: "text", Label: "Add Text", Gap: true},
	}
	buttons := LayoutToolbar(l, items, func(s string) int { return len(s) * 7 }, 1)
	if len(buttons) != 3 {
		t.Fatalf("expected 3 buttons, got %d", len(buttons))
	}
	if buttons[0].Rect.Min.Y >= buttons[1].Rect.Min.Y {
		t.Fatal("second row not below the first")
	}
	if buttons[2].Rect.Min.X <= buttons[0].Rect.Max.X {
		t.Fatal("buttons overlap on the first row")
	}
	b, ok := HitButton(buttons, buttons[1].Rect.Min.X+1, buttons[1].Rect.Min.Y+1)
	if !ok || b.Action != "undo" {
		t.Fatalf("hit test returned %v %v", b.Action, ok)
	}
	if buttons[0].Rect.Max.Y > l.MenuH+l.ToolbarH {
		t.Fatal("button spills out of the toolbar")
	}
}

func TestToastStyles(t *testing.T) {
	th := DefaultTheme()
	if th.ToastStyle(notify.Error).Background != th.Danger {
		t.Fatal("error toast should use the danger colour")
	}
	if th.ToastStyle(notify.Success).Background != th.Success {
		t.Fatal("success toast should use the success colour")
	}
	if th.ToastStyle(notify.Warning).Background != th.Warning {
		t.Fatal("warning toast should use the warning colour")
	}
	if th.ToastStyle(notify.Info).Background != th.Primary {
		t.Fatal("info toast should use the primary colour")
	}
}
