package player

import (
	"context"
	"sync"
	"time"
)

// Clock is a virtual playhead for when no real player is attached:
// it advances with wall time while playing and can be paused and
// nudged.
type Clock struct {
	path     string
	duration float64
	now      func() time.Time

	mu      sync.Mutex
	playing bool
	base    float64
	anchor  time.Time
}

// NewClock starts a playing clock at 0. A duration of 0 means the
// length of the media is unknown and the clock never stops.
func NewClock(path string, duration float64) *Clock {
	return newClock(path, duration, time.Now)
}

func newClock(path string, duration float64, now func() time.Time) *Clock {
	return &Clock{
		path:     path,
		duration: duration,
		now:      now,
		playing:  true,
		anchor:   now(),
	}
}

func (c *Clock) clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if c.duration > 0 && v > c.duration {
		return c.duration
	}
	return v
}

func (c *Clock) current() float64 {
	if !c.playing {
		return c.base
	}
	return c.clamp(c.base + c.now().Sub(c.anchor).Seconds())
}

func (c *Clock) Position(context.Context) (float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current(), nil
}

func (c *Clock) Path(context.Context) (string, error) {
	return c.path, nil
}

func (c *Clock) Playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

func (c *Clock) Duration() float64 {
	return c.duration
}

func (c *Clock) TogglePause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.base = c.current()
	c.anchor = c.now()
	c.playing = !c.playing
}

// Seek moves the playhead by delta seconds, staying within the media.
func (c *Clock) Seek(delta float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.base = c.clamp(c.current() + delta)
	c.anchor = c.now()
}
