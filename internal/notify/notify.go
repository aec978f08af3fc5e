// Package notify holds transient user-facing messages (toasts).
package notify

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

type Severity int

const (
	Info Severity = iota
	Success
	Error
	Warning
)

func (s Severity) String() string {
	switch s {
	case Success:
		return "success"
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "info"
	}
}

type Toast struct {
	Severity Severity
	Message  string
	Expires  time.Time
}

type Center struct {
	ttl time.Duration
	log *zap.Logger
	now func() time.Time

	mu     sync.Mutex
	toasts []Toast
}

func NewCenter(ttl time.Duration, log *zap.Logger) *Center {
	if ttl <= 0 {
		ttl = 3 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Center{ttl: ttl, log: log, now: time.Now}
}

// Push records msg and logs it at the level matching sev.
func (c *Center) Push(sev Severity, msg string) {
	switch sev {
	case Error:
		c.log.Error(msg)
	case Warning:
		c.log.Warn(msg)
	default:
		c.log.Info(msg, zap.Stringer("severity", sev))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.toasts = append(c.toasts, Toast{Severity: sev, Message: msg, Expires: c.now().Add(c.ttl)})
}

// Active returns the newest toast that has not expired at now and drops the
// expired ones.
func (c *Center) Active(now time.Time) (Toast, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.toasts[:0]
	for _, t := range c.toasts {
		if now.Before(t.Expires) {
			kept = append(kept, t)
		}
	}
	c.toasts = kept
	if len(kept) == 0 {
		return Toast{}, false
	}
	return kept[len(kept)-1], true
}
