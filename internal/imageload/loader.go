// Package imageload resolves image sources (data URIs, URLs and file paths)
// into decoded bitmaps off the UI goroutine. Every request carries a token
// and only the completion for the latest token is handed back.
package imageload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/vincent-petithory/dataurl"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"memeforge/pkg/meme"
)

var (
	ErrEmptySource = errors.New("imageload: empty source")
	ErrDecode      = errors.New("imageload: cannot decode image")
	ErrFetch       = errors.New("imageload: fetch failed")
)

const maxCached = 32

type Purpose int

const (
	// PurposeLoad is a user initiated load that becomes a new history entry.
	PurposeLoad Purpose = iota
	// PurposeRestore re-decodes a background after undo or redo.
	PurposeRestore
	// PurposeTemplate applies a saved template once its image is decoded.
	PurposeTemplate
)

type Token uint64

type Result struct {
	Token   Token
	Source  string
	Purpose Purpose
	Image   image.Image
	Err     error
	// Template is set for PurposeTemplate requests.
	Template *meme.Template
}

type Loader struct {
	log    *zap.Logger
	client *http.Client

	mu      sync.Mutex
	latest  Token
	done    []Result
	cache   map[[32]byte]image.Image
	order   [][32]byte
	ready   chan struct{}
	pending sync.WaitGroup
}

func New(log *zap.Logger, client *http.Client) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Loader{
		log:    log,
		client: client,
		cache:  map[[32]byte]image.Image{},
		ready:  make(chan struct{}, 1),
	}
}

// Request starts decoding src in the background and returns its token. Any
// earlier request still in flight becomes stale.
func (l *Loader) Request(ctx context.Context, src string, purpose Purpose) Token {
	return l.request(ctx, src, purpose, nil)
}

// RequestTemplate takes a token for a saved template so it supersedes any
// load still in flight. A template without an image completes with a nil
// Image.
func (l *Loader) RequestTemplate(ctx context.Context, t meme.Template) Token {
	t.Texts = meme.CloneTexts(t.Texts)
	return l.request(ctx, t.Image, PurposeTemplate, &t)
}

func (l *Loader) request(ctx context.Context, src string, purpose Purpose, tmpl *meme.Template) Token {
	l.mu.Lock()
	l.latest++
	tok := l.latest
	l.mu.Unlock()

	l.pending.Add(1)
	go func() {
		defer l.pending.Done()
		var (
			img image.Image
			err error
		)
		if tmpl == nil || src != "" {
			img, err = l.Load(ctx, src)
		}
		l.complete(Result{Token: tok, Source: src, Purpose: purpose, Image: img, Err: err, Template: tmpl})
	}()
	return tok
}

func (l *Loader) Latest() Token {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.latest
}

func (l *Loader) complete(r Result) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if r.Token != l.latest {
		l.log.Debug("dropping stale image completion",
			zap.Uint64("token", uint64(r.Token)),
			zap.Uint64("latest", uint64(l.latest)),
			zap.String("source", abbreviate(r.Source)))
		return
	}
	l.done = append(l.done, r)
	select {
	case l.ready <- struct{}{}:
	default:
	}
}

// Poll returns completions for the latest token without blocking. It is meant
// to be called from the UI loop.
func (l *Loader) Poll() []Result {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Result, 0, len(l.done))
	for _, r := range l.done {
		if r.Token == l.latest {
			out = append(out, r)
		}
	}
	l.done = l.done[:0]
	return out
}

// Wait blocks until a completion for the latest token is available.
func (l *Loader) Wait(ctx context.Context) (Result, error) {
	for {
		if rs := l.Poll(); len(rs) > 0 {
			return rs[len(rs)-1], nil
		}
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-l.ready:
		}
	}
}

// Drain waits for every in-flight request to finish.
func (l *Loader) Drain() { l.pending.Wait() }

// Cached returns a previously decoded image for src.
func (l *Loader) Cached(src string) (image.Image, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	img, ok := l.cache[blake2b.Sum256([]byte(src))]
	return img, ok
}

// Load resolves and decodes src synchronously, consulting the cache first.
func (l *Loader) Load(ctx context.Context, src string) (image.Image, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, ErrEmptySource
	}
	if img, ok := l.Cached(src); ok {
		return img, nil
	}
	raw, err := l.fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	l.store(src, img)
	return img, nil
}

func (l *Loader) store(src string, img image.Image) {
	key := blake2b.Sum256([]byte(src))
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.cache[key]; ok {
		return
	}
	l.cache[key] = img
	l.order = append(l.order, key)
	if len(l.order) > maxCached {
		delete(l.cache, l.order[0])
		l.order = l.order[1:]
	}
}

func (l *Loader) fetch(ctx context.Context, src string) ([]byte, error) {
	switch {
	case strings.HasPrefix(src, "data:"):
		du, err := dataurl.DecodeString(src)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		return du.Data, nil
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFetch, err)
		}
		resp, err := l.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFetch, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%w: %s returned %s", ErrFetch, src, resp.Status)
		}
		return io.ReadAll(resp.Body)
	default:
		return os.ReadFile(strings.TrimPrefix(src, "file://"))
	}
}

// EncodeDataURI wraps raw file bytes in a data URI using their sniffed type.
func EncodeDataURI(data []byte) string {
	mediatype, _, _ := strings.Cut(http.DetectContentType(data), ";")
	return dataurl.New(data, mediatype).String()
}

// EncodePNG renders img as a PNG data URI.
func EncodePNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return dataurl.New(buf.Bytes(), "image/png").String(), nil
}

func abbreviate(src string) string {
	if len(src) > 64 {
		return src[:64] + "..."
	}
	return src
}
