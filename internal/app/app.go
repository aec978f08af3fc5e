package app

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"memeforge/internal/camera"
	"memeforge/internal/config"
	"memeforge/internal/editor"
	"memeforge/internal/export"
	"memeforge/internal/imageload"
	"memeforge/internal/notify"
	"memeforge/internal/render"
	"memeforge/internal/share"
	"memeforge/internal/templates"
	"memeforge/internal/ui"
	"memeforge/pkg/meme"
)

// Deps are the collaborators the window needs. Watcher may be nil.
type Deps struct {
	Config    config.Config
	Log       *zap.Logger
	Fonts     *render.Fonts
	Loader    *imageload.Loader
	Camera    *camera.Session
	Library   *templates.Library
	Watcher   *templates.Watcher
	Sharer    *share.Sharer
	Clipboard export.ImageClipboard
}

type App struct {
	cfg      config.Config
	log      *zap.Logger
	theme    ui.Theme
	fonts    *render.Fonts
	renderer *render.Renderer
	session  *editor.Session
	loader   *imageload.Loader
	camera   *camera.Session
	library  *templates.Library
	watcher  *templates.Watcher
	sharer   *share.Sharer
	clip     export.ImageClipboard
	notes    *notify.Center

	ctx    context.Context
	cancel context.CancelFunc

	frameBuffer *render.FrameBuffer
	chrome      *ebiten.Image

	// surface holds the rendered meme at canvas resolution.
	surface       *image.RGBA
	surfaceImage  *ebiten.Image
	surfaceDirty  bool
	surfaceUpload bool
	background    image.Image
	backgroundSrc string

	layout   ui.Layout
	buttons  []ui.Button
	uiScales []float32
	uiIdx    int

	presets     []string
	presetIdx   int
	savedIdx    int
	savedCount  int
	familyIdx   int

	clicks      ui.ClickTracker
	pointerDown bool
	showHelp    bool
	status      string
	frameTick   uint64

	screenW int
	screenH int
}

func New(d Deps) *App {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	cfg := d.Config
	ctx, cancel := context.WithCancel(context.Background())

	session := editor.NewSession(editor.Options{
		Width:        cfg.Canvas.Width,
		Height:       cfg.Canvas.Height,
		HistoryLimit: cfg.History.Limit,
		Style: editor.TextStyle{
			Fill:         parseColorOr(d.Log, cfg.Text.Fill, meme.White),
			Outline:      parseColorOr(d.Log, cfg.Text.Outline, meme.Black),
			OutlineWidth: cfg.Text.OutlineWidth,
			FontSize:     cfg.Text.FontSize,
			FontFamily:   cfg.Text.FontFamily,
		},
		Brush: editor.Brush{
			Size:  cfg.Brush.Size,
			Color: parseColorOr(d.Log, cfg.Brush.Color, meme.Black),
		},
		Measurer: d.Fonts,
	})

	presets := make([]string, 0, len(cfg.Templates))
	for name := range cfg.Templates {
		presets = append(presets, name)
	}
	sort.Strings(presets)

	a := &App{
		cfg:          cfg,
		log:          d.Log,
		theme:        ui.DefaultTheme(),
		fonts:        d.Fonts,
		renderer:     render.NewRenderer(d.Fonts),
		session:      session,
		loader:       d.Loader,
		camera:       d.Camera,
		library:      d.Library,
		watcher:      d.Watcher,
		sharer:       d.Sharer,
		clip:         d.Clipboard,
		notes:        notify.NewCenter(cfg.UI.ToastDuration, d.Log.Named("toast")),
		ctx:          ctx,
		cancel:       cancel,
		surfaceDirty: true,
		uiScales:     []float32{1.0, 1.25, 1.5, 2.0},
		presets:      presets,
		presetIdx:    -1,
		savedIdx:     -1,
		status:       "Ready",
	}
	for i, f := range render.Families {
		if f == cfg.Text.FontFamily {
			a.familyIdx = i
		}
	}
	a.refreshSavedCount()
	return a
}

func parseColorOr(log *zap.Logger, s string, fallback meme.Color) meme.Color {
	c, err := meme.ParseColor(s)
	if err != nil {
		log.Warn("invalid colour in config, using default",
			zap.String("value", s), zap.String("default", fallback.Hex()), zap.Error(err))
		return fallback
	}
	return c
}

func (a *App) Run() error {
	ebiten.SetWindowTitle("memeforge")
	ebiten.SetWindowSize(a.cfg.UI.WindowWidth, a.cfg.UI.WindowHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSizeLimits(900, 560, -1, -1)
	if a.watcher != nil {
		a.watcher.Start()
	}
	defer a.shutdown()
	if err := ebiten.RunGame(a); err != nil {
		return fmt.Errorf("run game loop: %w", err)
	}
	return nil
}

func (a *App) shutdown() {
	a.cancel()
	if a.watcher != nil {
		a.watcher.Stop()
	}
	if err := a.camera.Close(); err != nil {
		a.log.Warn("camera release failed", zap.Error(err))
	}
}

func (a *App) Update() error {
	a.frameTick++
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
	shift := ebiten.IsKeyPressed(ebiten.KeyShift)

	a.applyLoads()
	a.pollTemplateChanges()

	if _, editing := a.session.Editing(); editing {
		a.handleEditInput(ctrl)
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		if a.showHelp {
			a.showHelp = false
			return nil
		}
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		a.showHelp = !a.showHelp
	}
	if a.showHelp {
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			a.showHelp = false
		}
		return nil
	}

	a.handleShortcuts(ctrl, shift)
	a.handlePointer()
	return nil
}

func (a *App) handleShortcuts(ctrl, shift bool) {
	if ctrl {
		switch {
		case inpututil.IsKeyJustPressed(ebiten.KeyZ):
			a.invokeAction(actUndo)
		case inpututil.IsKeyJustPressed(ebiten.KeyY):
			a.invokeAction(actRedo)
		case inpututil.IsKeyJustPressed(ebiten.KeyO):
			a.invokeAction(actOpen)
		case inpututil.IsKeyJustPressed(ebiten.KeyS):
			a.invokeAction(actDownload)
		case inpututil.IsKeyJustPressed(ebiten.KeyT):
			a.invokeAction(actAddText)
		case shift && inpututil.IsKeyJustPressed(ebiten.KeyC):
			a.invokeAction(actCopy)
		case inpututil.IsKeyJustPressed(ebiten.KeyEqual):
			a.invokeAction(actZoomIn)
		case inpututil.IsKeyJustPressed(ebiten.KeyMinus):
			a.invokeAction(actZoomOut)
		}
		return
	}
	for _, r := range ebiten.AppendInputChars(nil) {
		switch r {
		case '+', '=':
			a.invokeAction(actFontUp)
		case '-':
			a.invokeAction(actFontDown)
		case ']':
			a.invokeAction(actBrushUp)
		case '[':
			a.invokeAction(actBrushDown)
		}
	}
}

// handleEditInput routes keyboard input to the text edit buffer. Enter
// commits, Escape cancels.
func (a *App) handleEditInput(ctrl bool) {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		a.session.CancelEdit()
		a.status = "Edit cancelled"
		return
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter), inpututil.IsKeyJustPressed(ebiten.KeyKPEnter):
		if a.session.CommitEdit() {
			a.status = "Text updated"
			a.surfaceDirty = true
		}
		return
	case inpututil.IsKeyJustPressed(ebiten.KeyBackspace):
		a.session.EditBackspace()
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyV):
		a.pasteIntoEdit()
	}
	if !ctrl {
		a.session.InsertEditRunes(ebiten.AppendInputChars(nil))
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		if !image.Pt(x, y).In(a.editBox()) && a.session.CommitEdit() {
			a.surfaceDirty = true
		}
	}
}

// applyLoads hands finished image loads to the session. Only the most recent
// request ever arrives here.
func (a *App) applyLoads() {
	for _, r := range a.loader.Poll() {
		if r.Err != nil {
			a.log.Warn("image load failed", zap.Error(r.Err))
			a.notes.Push(notify.Error, "Error loading image")
			continue
		}
		switch r.Purpose {
		case imageload.PurposeTemplate:
			a.applyTemplate(*r.Template, r.Image)
		case imageload.PurposeLoad:
			b := r.Image.Bounds()
			a.session.SetImage(r.Source, b.Dx(), b.Dy())
			a.background, a.backgroundSrc = r.Image, r.Source
			a.status = fmt.Sprintf("Image loaded (%dx%d)", b.Dx(), b.Dy())
		case imageload.PurposeRestore:
			if r.Source != a.session.Scene().Image {
				continue
			}
			a.background, a.backgroundSrc = r.Image, r.Source
		}
		a.surfaceDirty = true
	}
}

// syncBackground makes the decoded background follow the scene after history
// navigation. Restoring never creates history entries.
func (a *App) syncBackground() {
	src := a.session.Scene().Image
	if src == a.backgroundSrc {
		return
	}
	a.backgroundSrc = src
	a.background = nil
	if src == "" {
		return
	}
	if img, ok := a.loader.Cached(src); ok {
		a.background = img
		return
	}
	a.loader.Request(a.ctx, src, imageload.PurposeRestore)
}

func (a *App) pollTemplateChanges() {
	if a.watcher == nil {
		return
	}
	select {
	case <-a.watcher.Changes():
		before := a.savedCount
		a.refreshSavedCount()
		if a.savedCount != before {
			a.status = fmt.Sprintf("%d saved templates", a.savedCount)
		}
	default:
	}
}

func (a *App) refreshSavedCount() {
	if a.library == nil {
		return
	}
	list, err := a.library.List()
	if err != nil {
		a.log.Warn("template list failed", zap.Error(err))
		return
	}
	a.savedCount = len(list)
}

func (a *App) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	if outsideWidth < 900 {
		outsideWidth = 900
	}
	if outsideHeight < 560 {
		outsideHeight = 560
	}
	a.screenW = outsideWidth
	a.screenH = outsideHeight
	return outsideWidth, outsideHeight
}

func (a *App) uiScale() float32 { return a.uiScales[a.uiIdx] }

func (a *App) bumpUIScale(delta int) {
	next := a.uiIdx + delta
	if next < 0 || next >= len(a.uiScales) {
		return
	}
	a.uiIdx = next
	a.fonts.Reset()
}

func (a *App) toast(sev notify.Severity, msg string) {
	a.notes.Push(sev, msg)
	a.status = msg
}

var statusColor = color.RGBA{R: 42, G: 56, B: 80, A: 255}
