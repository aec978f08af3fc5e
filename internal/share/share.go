// Package share builds social share links for a finished meme and hands
// them to the browser.
package share

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/pkg/browser"
	"go.uber.org/zap"

	"memeforge/pkg/meme"
)

const DefaultCaption = "Check out this meme I made!"

var ErrUnknownPlatform = errors.New("share: unknown platform")

type Platform string

const (
	Twitter  Platform = "twitter"
	Facebook Platform = "facebook"
	Reddit   Platform = "reddit"
)

var Platforms = []Platform{Twitter, Facebook, Reddit}

// URL returns the share link for platform.
func URL(p Platform, caption, pageURL string) (string, error) {
	text := url.QueryEscape(caption)
	page := url.QueryEscape(pageURL)
	switch Platform(strings.ToLower(string(p))) {
	case Twitter:
		return "https://twitter.com/intent/tweet?text=" + text + "&url=" + page, nil
	case Facebook:
		return "https://www.facebook.com/sharer/sharer.php?u=" + page, nil
	case Reddit:
		return "https://www.reddit.com/submit?url=" + page + "&title=" + text, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPlatform, p)
	}
}

// Opener and Copier are seams over the browser and the text clipboard.
type Opener func(url string) error
type Copier func(text string) error

type Sharer struct {
	Caption string
	PageURL string
	Open    Opener
	Copy    Copier
	log     *zap.Logger
}

func NewSharer(caption, pageURL string, log *zap.Logger) *Sharer {
	if caption == "" {
		caption = DefaultCaption
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Sharer{
		Caption: caption,
		PageURL: pageURL,
		Open:    browser.OpenURL,
		Copy:    clipboard.WriteAll,
		log:     log,
	}
}

// Share opens the share link for platform and copies it to the clipboard.
// Clipboard failures are logged but do not fail the share.
func (s *Sharer) Share(p Platform, scene meme.Scene) (string, error) {
	if scene.IsEmpty() {
		return "", meme.ErrEmptyComposition
	}
	link, err := URL(p, s.Caption, s.PageURL)
	if err != nil {
		return "", err
	}
	if err := s.Open(link); err != nil {
		return "", fmt.Errorf("share: open browser: %w", err)
	}
	if s.Copy != nil {
		if err := s.Copy(link); err != nil {
			s.log.Warn("share link not copied", zap.Error(err))
		}
	}
	s.log.Info("shared meme", zap.String("platform", string(p)))
	return link, nil
}
