// Package templates keeps the user's saved meme templates in a key/value
// store under a single key.
package templates

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"memeforge/internal/storage"
	"memeforge/pkg/meme"
)

var ErrNotFound = errors.New("templates: template not found")

type Library struct {
	store storage.Store
	log   *zap.Logger
	now   func() time.Time
	mu    sync.Mutex
}

func NewLibrary(store storage.Store, log *zap.Logger) *Library {
	if log == nil {
		log = zap.NewNop()
	}
	return &Library{store: store, log: log, now: time.Now}
}

// Save appends a template built from scene. Scenes without an image and
// without text are rejected with meme.ErrNothingToSave.
func (l *Library) Save(scene meme.Scene) (meme.Template, error) {
	tpl, err := meme.NewTemplate(scene, l.now())
	if err != nil {
		return meme.Template{}, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	list, err := l.load()
	if err != nil {
		return meme.Template{}, err
	}
	list = append(list, tpl)
	blob, err := meme.EncodeTemplates(list)
	if err != nil {
		return meme.Template{}, err
	}
	if err := l.store.Set(meme.TemplatesKey, blob); err != nil {
		return meme.Template{}, fmt.Errorf("templates: save: %w", err)
	}
	l.log.Info("template saved", zap.String("id", tpl.ID), zap.Int("texts", len(tpl.Texts)), zap.Int("total", len(list)))
	return tpl, nil
}

// List returns saved templates oldest first.
func (l *Library) List() ([]meme.Template, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load()
}

func (l *Library) Get(id string) (meme.Template, error) {
	list, err := l.List()
	if err != nil {
		return meme.Template{}, err
	}
	for _, t := range list {
		if t.ID == id {
			return t, nil
		}
	}
	return meme.Template{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (l *Library) load() ([]meme.Template, error) {
	raw, ok, err := l.store.Get(meme.TemplatesKey)
	if err != nil {
		return nil, fmt.Errorf("templates: load: %w", err)
	}
	if !ok {
		return []meme.Template{}, nil
	}
	return meme.DecodeTemplates(raw)
}
