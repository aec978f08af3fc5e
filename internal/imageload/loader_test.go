package imageload

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"memeforge/pkg/meme"
)

func solidPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestLoadDataURI(t *testing.T) {
	l := New(zap.NewNop(), nil)
	src := EncodeDataURI(solidPNG(t, 3, 2, color.White))
	assert.True(t, strings.HasPrefix(src, "data:image/png;base64,"))

	img, err := l.Load(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 3, 2), img.Bounds())

	cached, ok := l.Cached(src)
	require.True(t, ok)
	assert.Same(t, img, cached)
}

func TestLoadFilePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pic.png")
	require.NoError(t, os.WriteFile(path, solidPNG(t, 5, 5, color.Black), 0o600))

	l := New(nil, nil)
	img, err := l.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 5, img.Bounds().Dx())

	_, err = l.Load(context.Background(), "file://"+path)
	require.NoError(t, err)
}

func TestLoadErrors(t *testing.T) {
	l := New(nil, nil)
	_, err := l.Load(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrEmptySource)

	_, err = l.Load(context.Background(), EncodeDataURI([]byte("definitely not an image")))
	assert.ErrorIs(t, err, ErrDecode)

	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	_, err = l.Load(context.Background(), srv.URL+"/missing.jpg")
	assert.ErrorIs(t, err, ErrFetch)
}

func TestEncodePNG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	src, err := EncodePNG(img)
	require.NoError(t, err)
	decoded, err := New(nil, nil).Load(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())
}

func TestOnlyLatestRequestIsDelivered(t *testing.T) {
	release := make(chan struct{})
	slow := solidPNG(t, 8, 8, color.Black)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(slow)
	}))
	defer srv.Close()

	l := New(zap.NewNop(), srv.Client())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	first := l.Request(ctx, srv.URL+"/doge.jpg", PurposeLoad)
	second := l.Request(ctx, EncodeDataURI(solidPNG(t, 2, 2, color.White)), PurposeLoad)
	require.Greater(t, second, first)
	assert.Equal(t, second, l.Latest())

	res, err := l.Wait(ctx)
	require.NoError(t, err)
	require.NoError(t, res.Err)
	assert.Equal(t, second, res.Token)
	assert.Equal(t, 2, res.Image.Bounds().Dx())

	close(release)
	l.Drain()
	assert.Empty(t, l.Poll(), "stale completion must be dropped")
}

func TestRestorePurposeIsCarried(t *testing.T) {
	l := New(nil, nil)
	src := EncodeDataURI(solidPNG(t, 1, 1, color.White))
	tok := l.Request(context.Background(), src, PurposeRestore)
	l.Drain()
	rs := l.Poll()
	require.Len(t, rs, 1)
	assert.Equal(t, tok, rs[0].Token)
	assert.Equal(t, PurposeRestore, rs[0].Purpose)
	assert.Equal(t, src, rs[0].Source)
}

func TestFailedRequestIsDelivered(t *testing.T) {
	l := New(nil, nil)
	l.Request(context.Background(), "data:,oops", PurposeLoad)
	l.Drain()
	rs := l.Poll()
	require.Len(t, rs, 1)
	assert.Error(t, rs[0].Err)
	assert.Nil(t, rs[0].Image)
}

func TestSavedTemplateSupersedesSlowPreset(t *testing.T) {
	release := make(chan struct{})
	preset := solidPNG(t, 8, 8, color.Black)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(preset)
	}))
	defer srv.Close()

	l := New(zap.NewNop(), srv.Client())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	l.Request(ctx, srv.URL+"/drake.jpg", PurposeLoad)
	saved := meme.Template{
		ID:    "t1",
		Image: EncodeDataURI(solidPNG(t, 3, 2, color.White)),
		Texts: []meme.TextOverlay{{Content: "top text", FontSize: 40}},
	}
	tok := l.RequestTemplate(ctx, saved)

	res, err := l.Wait(ctx)
	require.NoError(t, err)
	require.NoError(t, res.Err)
	assert.Equal(t, tok, res.Token)
	assert.Equal(t, PurposeTemplate, res.Purpose)
	require.NotNil(t, res.Template)
	assert.Equal(t, "t1", res.Template.ID)
	assert.Equal(t, "top text", res.Template.Texts[0].Content)
	assert.Equal(t, 3, res.Image.Bounds().Dx())

	close(release)
	l.Drain()
	assert.Empty(t, l.Poll(), "the older preset must not reach the canvas")
}

func TestTemplateWithoutImageCompletes(t *testing.T) {
	release := make(chan struct{})
	dot := solidPNG(t, 1, 1, color.Black)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		_, _ = w.Write(dot)
	}))
	defer srv.Close()

	l := New(nil, srv.Client())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	l.Request(ctx, srv.URL+"/doge.jpg", PurposeLoad)
	l.RequestTemplate(ctx, meme.Template{ID: "text-only", Texts: []meme.TextOverlay{{Content: "hi"}}})

	res, err := l.Wait(ctx)
	require.NoError(t, err)
	assert.NoError(t, res.Err)
	assert.Nil(t, res.Image)
	require.NotNil(t, res.Template)
	assert.Equal(t, "text-only", res.Template.ID)

	close(release)
	l.Drain()
	assert.Empty(t, l.Poll())
}
