package ui

import "time"

const (
	DoubleClickWindow = 400 * time.Millisecond
	DoubleClickSlop   = 4
)

// ClickTracker recognises double clicks from a stream of presses.
type ClickTracker struct {
	last  time.Time
	x, y  int
	armed bool
}

// Press records a press and reports whether it completes a double click. A
// completed double click disarms the tracker so a third press starts over.
func (c *ClickTracker) Press(now time.Time, x, y int) bool {
	if c.armed && now.Sub(c.last) <= DoubleClickWindow && abs(x-c.x) <= DoubleClickSlop && abs(y-c.y) <= DoubleClickSlop {
		c.armed = false
		return true
	}
	c.last, c.x, c.y, c.armed = now, x, y, true
	return false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
