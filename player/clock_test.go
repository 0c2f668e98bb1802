package player

import (
	"testing"
	"time"
)

type fakeTime struct {
	t time.Time
}

func (f *fakeTime) now() time.Time {
	return f.t
}

func (f *fakeTime) advance(d time.Duration) {
	f.t = f.t.Add(d)
}

func position(t *testing.T, c *Clock) float64 {
	t.Helper()
	p, err := c.Position(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestClockAdvances(t *testing.T) {
	ft := &fakeTime{t: time.Unix(1000, 0)}
	c := newClock("movie.mkv", 0, ft.now)
	ft.advance(1500 * time.Millisecond)
	if got := position(t, c); got != 1.5 {
		t.Errorf("got %v, want 1.5", got)
	}
	if got, _ := c.Path(t.Context()); got != "movie.mkv" {
		t.Errorf("got path %q", got)
	}
}

func TestClockPause(t *testing.T) {
	ft := &fakeTime{t: time.Unix(1000, 0)}
	c := newClock("movie.mkv", 0, ft.now)
	ft.advance(2 * time.Second)
	c.TogglePause()
	ft.advance(10 * time.Second)
	if got := position(t, c); got != 2 {
		t.Errorf("paused clock moved: got %v, want 2", got)
	}
	c.TogglePause()
	ft.advance(time.Second)
	if got := position(t, c); got != 3 {
		t.Errorf("got %v after resume, want 3", got)
	}
}

func TestClockSeekClamps(t *testing.T) {
	ft := &fakeTime{t: time.Unix(1000, 0)}
	c := newClock("movie.mkv", 60, ft.now)
	c.Seek(-5)
	if got := position(t, c); got != 0 {
		t.Errorf("got %v, want 0", got)
	}
	c.Seek(90)
	if got := position(t, c); got != 60 {
		t.Errorf("got %v, want 60", got)
	}
	ft.advance(time.Minute)
	if got := position(t, c); got != 60 {
		t.Errorf("clock ran past the end: got %v", got)
	}
}
