package app

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"memeforge/internal/editor"
	"memeforge/internal/export"
	"memeforge/internal/imageload"
	"memeforge/internal/notify"
	"memeforge/internal/render"
	"memeforge/internal/share"
	"memeforge/internal/ui"
	"memeforge/pkg/meme"
)

const (
	actOpen         ui.Action = "open"
	actCamera       ui.Action = "camera"
	actCapture      ui.Action = "capture"
	actPreset       ui.Action = "preset"
	actAddText      ui.Action = "add_text"
	actFont         ui.Action = "font"
	actFontDown     ui.Action = "font_down"
	actFontUp       ui.Action = "font_up"
	actTextColor    ui.Action = "text_color"
	actOutlineColor ui.Action = "outline_color"
	actOutlineDown  ui.Action = "outline_down"
	actOutlineUp    ui.Action = "outline_up"
	actDraw         ui.Action = "draw"
	actErase        ui.Action = "erase"
	actBrushDown    ui.Action = "brush_down"
	actBrushUp      ui.Action = "brush_up"
	actInk          ui.Action = "ink"
	actClear        ui.Action = "clear"
	actUndo         ui.Action = "undo"
	actRedo         ui.Action = "redo"
	actSaveTemplate ui.Action = "save_template"
	actLoadTemplate ui.Action = "load_template"
	actDownload     ui.Action = "download"
	actPDF          ui.Action = "pdf"
	actCopy         ui.Action = "copy"
	actHelp         ui.Action = "help"
	actZoomIn       ui.Action = "ui_bigger"
	actZoomOut      ui.Action = "ui_smaller"

	filterPrefix = "filter:"
	sharePrefix  = "share:"
)

const (
	minFontSize  = 10
	maxFontSize  = 120
	fontStep     = 2
	minBrushSize = 1
	maxBrushSize = 50
	maxOutline   = 10
)

var palette = []meme.Color{
	meme.White,
	meme.Black,
	{R: 0xFF, A: 0xFF},
	{R: 0xFF, G: 0xD7, A: 0xFF},
	{G: 0x80, A: 0xFF},
	{R: 0x1E, G: 0x90, B: 0xFF, A: 0xFF},
	{R: 0xFF, G: 0x69, B: 0xB4, A: 0xFF},
}

func toolbarItems() []ui.ToolItem {
	items := []ui.ToolItem{
		{Action: actOpen, Label: "Open"},
		{Action: actCamera, Label: "Camera"},
		{Action: actCapture, Label: "Capture"},
		{Action: actPreset, Label: "Template"},
		{Action: actAddText, Label: "Add Text", Gap: true},
		{Action: actFont, Label: "Font"},
		{Action: actFontDown, Label: "A-"},
		{Action: actFontUp, Label: "A+"},
		{Action: actTextColor, Label: "Color"},
		{Action: actOutlineColor, Label: "Outline"},
		{Action: actOutlineDown, Label: "Outline-"},
		{Action: actOutlineUp, Label: "Outline+"},
		{Action: actDraw, Label: "Draw", Gap: true},
		{Action: actErase, Label: "Erase"},
		{Action: actBrushDown, Label: "Brush-"},
		{Action: actBrushUp, Label: "Brush+"},
		{Action: actInk, Label: "Ink"},
		{Action: actClear, Label: "Clear"},
	}
	for _, f := range meme.Filters {
		items = append(items, ui.ToolItem{Action: ui.Action(filterPrefix + string(f)), Label: filterLabel(f), Row: 1})
	}
	items = append(items,
		ui.ToolItem{Action: actUndo, Label: "Undo", Row: 1, Gap: true},
		ui.ToolItem{Action: actRedo, Label: "Redo", Row: 1},
		ui.ToolItem{Action: actSaveTemplate, Label: "Save Template", Row: 1, Gap: true},
		ui.ToolItem{Action: actLoadTemplate, Label: "Load Template", Row: 1},
		ui.ToolItem{Action: actDownload, Label: "Download", Row: 1, Gap: true},
		ui.ToolItem{Action: actPDF, Label: "PDF", Row: 1},
		ui.ToolItem{Action: actCopy, Label: "Copy", Row: 1},
	)
	for i, p := range share.Platforms {
		items = append(items, ui.ToolItem{Action: ui.Action(sharePrefix + string(p)), Label: platformLabel(p), Row: 1, Gap: i == 0})
	}
	items = append(items, ui.ToolItem{Action: actHelp, Label: "Help", Row: 1, Gap: true})
	return items
}

func filterLabel(f meme.Filter) string {
	if f == meme.FilterNone {
		return "No Filter"
	}
	s := string(f)
	return strings.ToUpper(s[:1]) + s[1:]
}

func platformLabel(p share.Platform) string {
	s := string(p)
	return strings.ToUpper(s[:1]) + s[1:]
}

// buttonActive reports whether a toggle-style button should render pressed.
func (a *App) buttonActive(act ui.Action) bool {
	switch act {
	case actDraw:
		return a.session.Tool == editor.ToolDraw
	case actErase:
		return a.session.Tool == editor.ToolErase
	case actCamera:
		return a.camera.On()
	case actHelp:
		return a.showHelp
	}
	if f, ok := strings.CutPrefix(string(act), filterPrefix); ok {
		return a.session.Scene().Filter == meme.Filter(f)
	}
	return false
}

func (a *App) buttonEnabled(act ui.Action) bool {
	switch act {
	case actUndo:
		return a.session.CanUndo()
	case actRedo:
		return a.session.CanRedo()
	case actCapture:
		return a.camera.On()
	case actLoadTemplate:
		return a.savedCount > 0
	case actPreset:
		return len(a.presets) > 0
	}
	return true
}

func (a *App) invokeAction(act ui.Action) {
	if !a.buttonEnabled(act) {
		return
	}
	if f, ok := strings.CutPrefix(string(act), filterPrefix); ok {
		applied := a.session.SetFilter(f)
		a.status = "Filter: " + filterLabel(applied)
		a.surfaceDirty = true
		return
	}
	if p, ok := strings.CutPrefix(string(act), sharePrefix); ok {
		a.shareTo(share.Platform(p))
		return
	}

	switch act {
	case actOpen:
		if err := a.openImageDialog(); err != nil {
			a.status = "Open failed: " + err.Error()
		}
	case actCamera:
		a.toggleCamera()
	case actCapture:
		a.captureFrame()
	case actPreset:
		a.presetIdx = (a.presetIdx + 1) % len(a.presets)
		name := a.presets[a.presetIdx]
		a.loader.Request(a.ctx, a.cfg.Templates[name], imageload.PurposeLoad)
		a.status = "Loading template " + name
	case actAddText:
		a.session.AddText()
		a.status = "Text added"
		a.surfaceDirty = true
	case actFont:
		a.familyIdx = (a.familyIdx + 1) % len(render.Families)
		a.session.Style.FontFamily = render.Families[a.familyIdx]
		a.status = "Font " + a.session.Style.FontFamily
	case actFontDown, actFontUp:
		delta := fontStep
		if act == actFontDown {
			delta = -fontStep
		}
		size := clampFloat(a.session.Style.FontSize+float64(delta), minFontSize, maxFontSize)
		if a.session.SetLastFontSize(size) {
			a.surfaceDirty = true
		}
		a.status = fmt.Sprintf("Font size %.0fpx", a.session.Style.FontSize)
	case actTextColor:
		a.session.Style.Fill = nextColor(a.session.Style.Fill)
		a.status = "Text colour " + a.session.Style.Fill.Hex()
	case actOutlineColor:
		a.session.Style.Outline = nextColor(a.session.Style.Outline)
		a.status = "Outline colour " + a.session.Style.Outline.Hex()
	case actOutlineDown, actOutlineUp:
		delta := 1.0
		if act == actOutlineDown {
			delta = -1
		}
		width := clampFloat(a.session.Style.OutlineWidth+delta, 0, maxOutline)
		if a.session.SetLastOutlineWidth(width) {
			a.surfaceDirty = true
		}
		a.status = fmt.Sprintf("Outline %.0fpx", a.session.Style.OutlineWidth)
	case actDraw, actErase:
		tool := editor.ToolDraw
		if act == actErase {
			tool = editor.ToolErase
		}
		if a.session.Tool == tool {
			tool = editor.ToolNone
		}
		a.session.Tool = tool
		a.status = "Tool: " + tool.String()
	case actBrushDown, actBrushUp:
		delta := 1.0
		if act == actBrushDown {
			delta = -1
		}
		a.session.Brush.Size = clampFloat(a.session.Brush.Size+delta, minBrushSize, maxBrushSize)
		a.status = fmt.Sprintf("Brush %.0fpx", a.session.Brush.Size)
	case actInk:
		a.session.Brush.Color = nextColor(a.session.Brush.Color)
		a.status = "Ink " + a.session.Brush.Color.Hex()
	case actClear:
		a.session.ClearStrokes()
		a.status = "Drawings cleared"
		a.surfaceDirty = true
	case actUndo:
		if a.session.Undo() {
			a.afterHistoryMove("Undo")
		}
	case actRedo:
		if a.session.Redo() {
			a.afterHistoryMove("Redo")
		}
	case actSaveTemplate:
		a.saveTemplate()
	case actLoadTemplate:
		a.loadNextTemplate()
	case actDownload:
		a.exportFile(export.ToFile, "Meme downloaded!")
	case actPDF:
		a.exportFile(export.PDFToFile, "PDF exported!")
	case actCopy:
		a.copyImage()
	case actHelp:
		a.showHelp = !a.showHelp
	case actZoomIn:
		a.bumpUIScale(1)
	case actZoomOut:
		a.bumpUIScale(-1)
	}
}

func (a *App) afterHistoryMove(verb string) {
	a.pointerDown = false
	a.syncBackground()
	a.surfaceDirty = true
	h := a.session.History()
	a.status = fmt.Sprintf("%s (%d/%d)", verb, h.Cursor()+1, h.Len())
}

func (a *App) openImageDialog() error {
	path, err := dialog.File().Filter("Images", "png", "jpg", "jpeg", "gif", "bmp", "webp").Load()
	if err != nil {
		if errors.Is(err, dialog.ErrCancelled) {
			return nil
		}
		return err
	}
	if path == "" {
		return errors.New("no file selected")
	}
	path = filepath.Clean(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	a.loader.Request(a.ctx, imageload.EncodeDataURI(data), imageload.PurposeLoad)
	a.status = "Loading " + filepath.Base(path)
	return nil
}

func (a *App) toggleCamera() {
	on, err := a.camera.Toggle(a.ctx)
	if err != nil {
		a.toast(notify.Error, capitalize(err.Error()))
		return
	}
	if on {
		a.status = "Camera on"
	} else {
		a.status = "Camera off"
	}
}

func (a *App) captureFrame() {
	frame, err := a.camera.Capture()
	if err != nil {
		a.toast(notify.Error, capitalize(err.Error()))
		return
	}
	uri, err := imageload.EncodePNG(frame)
	if err != nil {
		a.log.Error("snapshot encode failed", zap.Error(err))
		a.toast(notify.Error, "Error capturing snapshot")
		return
	}
	a.loader.Request(a.ctx, uri, imageload.PurposeLoad)
	a.toast(notify.Success, "Webcam snapshot captured!")
}

func (a *App) saveTemplate() {
	t, err := a.library.Save(a.session.Scene())
	switch {
	case errors.Is(err, meme.ErrNothingToSave):
		a.toast(notify.Error, "Add an image or text first!")
	case err != nil:
		a.log.Error("template save failed", zap.Error(err))
		a.toast(notify.Error, "Error saving template")
	default:
		a.refreshSavedCount()
		a.log.Debug("template saved", zap.String("id", t.ID))
		a.toast(notify.Success, "Template saved!")
	}
}

// loadNextTemplate requests the saved templates in turn, oldest first. The
// template is applied by applyLoads once its image has decoded.
func (a *App) loadNextTemplate() {
	list, err := a.library.List()
	if err != nil {
		a.log.Error("template list failed", zap.Error(err))
		a.toast(notify.Error, "Error loading templates")
		return
	}
	if len(list) == 0 {
		a.savedCount = 0
		return
	}
	a.savedIdx = (a.savedIdx + 1) % len(list)
	a.loader.RequestTemplate(a.ctx, list[a.savedIdx])
	a.status = fmt.Sprintf("Loading template %d/%d", a.savedIdx+1, len(list))
}

func (a *App) applyTemplate(t meme.Template, bg image.Image) {
	w, h := 0, 0
	if bg != nil {
		w, h = bg.Bounds().Dx(), bg.Bounds().Dy()
	}
	a.session.ApplyTemplate(t, w, h)
	a.background, a.backgroundSrc = bg, t.Image
	a.status = "Template applied"
}

type fileExporter func(dir string, scene meme.Scene, img image.Image) (string, error)

func (a *App) exportFile(write fileExporter, done string) {
	scene := a.session.Scene()
	path, err := write(a.cfg.Export.Dir, scene, a.renderFinal(scene))
	switch {
	case errors.Is(err, meme.ErrEmptyComposition):
		a.toast(notify.Error, "Create a meme first!")
	case err != nil:
		a.log.Error("export failed", zap.Error(err))
		a.toast(notify.Error, "Export failed")
	default:
		a.log.Info("exported", zap.String("path", path))
		a.toast(notify.Success, done)
	}
}

func (a *App) copyImage() {
	scene := a.session.Scene()
	err := export.CopyImage(a.clip, scene, a.renderFinal(scene))
	switch {
	case errors.Is(err, meme.ErrEmptyComposition):
		a.toast(notify.Error, "Create a meme first!")
	case err != nil:
		a.log.Error("clipboard copy failed", zap.Error(err))
		a.toast(notify.Error, "Could not copy image")
	default:
		a.toast(notify.Success, "Meme copied to clipboard!")
	}
}

func (a *App) shareTo(p share.Platform) {
	_, err := a.sharer.Share(p, a.session.Scene())
	switch {
	case errors.Is(err, meme.ErrEmptyComposition):
		a.toast(notify.Error, "Create a meme first!")
	case err != nil:
		a.log.Error("share failed", zap.String("platform", string(p)), zap.Error(err))
		a.toast(notify.Error, "Could not open "+platformLabel(p))
	default:
		a.toast(notify.Info, "Share link opened for "+platformLabel(p))
	}
}

// renderFinal renders the committed scene without any stroke in progress.
func (a *App) renderFinal(scene meme.Scene) *image.RGBA {
	img := render.NewSurface(scene)
	a.renderer.Render(img, scene, a.background)
	return img
}

func (a *App) pasteIntoEdit() {
	paste, err := clipboard.ReadAll()
	if err != nil {
		a.status = "Paste failed: " + err.Error()
		return
	}
	paste = strings.NewReplacer("\r\n", " ", "\n", " ", "\t", " ").Replace(paste)
	a.session.InsertEditRunes([]rune(paste))
}

// nextColor steps through the palette. Colours outside it restart at the
// first entry.
func nextColor(c meme.Color) meme.Color {
	for i, p := range palette {
		if p == c {
			return palette[(i+1)%len(palette)]
		}
	}
	return palette[0]
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
