// Package export writes the composed canvas out of the editor: PNG and PDF
// files and the system clipboard.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/jung-kurt/gofpdf"
	"golang.design/x/clipboard"

	"memeforge/pkg/meme"
)

const (
	PNGName = "meme.png"
	PDFName = "meme.pdf"
)

func PNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// PDF writes img as a single page sized to the image, one point per pixel.
func PDF(w io.Writer, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	b := img.Bounds()
	wd, ht := float64(b.Dx()), float64(b.Dy())
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: wd, Ht: ht},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle("meme", true)
	pdf.AddPage()
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("canvas", opts, &buf)
	pdf.ImageOptions("canvas", 0, 0, wd, ht, false, opts, 0, "")
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("export: pdf: %w", err)
	}
	return pdf.Output(w)
}

// ToFile writes the composed canvas into dir as meme.png. An empty scene is
// rejected before any file is created.
func ToFile(dir string, scene meme.Scene, img image.Image) (string, error) {
	return writeFile(dir, PNGName, scene, img, PNG)
}

func PDFToFile(dir string, scene meme.Scene, img image.Image) (string, error) {
	return writeFile(dir, PDFName, scene, img, PDF)
}

func writeFile(dir, name string, scene meme.Scene, img image.Image, enc func(io.Writer, image.Image) error) (string, error) {
	if scene.IsEmpty() {
		return "", meme.ErrEmptyComposition
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := enc(&buf, img); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return "", err
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", err
	}
	return path, nil
}

// ImageClipboard receives PNG encoded images.
type ImageClipboard interface {
	WriteImage(png []byte) error
}

// CopyImage places the composed canvas on the clipboard as PNG.
func CopyImage(cb ImageClipboard, scene meme.Scene, img image.Image) error {
	if scene.IsEmpty() {
		return meme.ErrEmptyComposition
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	return cb.WriteImage(buf.Bytes())
}

// SystemClipboard is the platform clipboard.
type SystemClipboard struct {
	once sync.Once
	err  error
}

func (c *SystemClipboard) WriteImage(b []byte) error {
	c.once.Do(func() { c.err = clipboard.Init() })
	if c.err != nil {
		return fmt.Errorf("export: clipboard unavailable: %w", c.err)
	}
	clipboard.Write(clipboard.FmtImage, b)
	return nil
}
