package templates

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const debounceDuration = 100 * time.Millisecond

// Watcher reports changes to the template store file, including edits made
// by another running instance.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	logger  *zap.Logger
	changes chan struct{}
	stopCh  chan struct{}
	once    sync.Once
}

func NewWatcher(path string, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	// The directory catches atomic saves that replace the file by rename.
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch store directory: %w", err)
	}
	if err := fw.Add(path); err != nil && !os.IsNotExist(err) {
		logger.Warn("failed to watch store file", zap.String("path", path), zap.Error(err))
	}
	return &Watcher{
		path:    path,
		watcher: fw,
		logger:  logger,
		changes: make(chan struct{}, 1),
		stopCh:  make(chan struct{}),
	}, nil
}

func (w *Watcher) Start() {
	go w.watchLoop()
	w.logger.Info("template watcher started", zap.String("path", w.path))
}

func (w *Watcher) Stop() {
	w.once.Do(func() {
		close(w.stopCh)
		w.watcher.Close()
		w.logger.Info("template watcher stopped")
	})
}

// Changes delivers one signal per burst of writes. Signals coalesce while
// unread.
func (w *Watcher) Changes() <-chan struct{} { return w.changes }

func (w *Watcher) watchLoop() {
	var debounceTimer *time.Timer
	for {
		select {
		case <-w.stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDuration, w.notify)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("template watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) notify() {
	w.logger.Debug("template store changed", zap.String("path", w.path))
	select {
	case w.changes <- struct{}{}:
	default:
	}
}
