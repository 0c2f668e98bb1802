// Package session holds the interactive clip-marking state. A State
// is owned by a single interaction loop: nothing in here is safe for
// concurrent use, and nothing needs to be.
package session

import (
	"fmt"
	"strings"

	"github.com/achernya/autoclip/profile"
)

// Signal tells the presentation layer what to do with the status
// display after a mutation.
type Signal int

const (
	// SignalNone means nothing changed.
	SignalNone Signal = iota
	// SignalRefresh means the display string should be redrawn.
	SignalRefresh
	// SignalClear means the display should be removed.
	SignalClear
)

type Direction int

const (
	Previous Direction = -1
	Next     Direction = 1
)

// Request is an immutable snapshot of the state at the moment an
// export was asked for.
type Request struct {
	Source  string
	Start   *float64
	End     *float64
	Profile profile.Profile
}

type State struct {
	catalog  profile.Catalog
	active   bool
	start    *float64
	end      *float64
	selected int
	source   string
}

// New returns an inactive session over the given catalog. The catalog
// must be non-empty.
func New(catalog profile.Catalog) (*State, error) {
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	return &State{catalog: catalog}, nil
}

func (s *State) Active() bool {
	return s.active
}

func (s *State) Start() (float64, bool) {
	if s.start == nil {
		return 0, false
	}
	return *s.start, true
}

func (s *State) End() (float64, bool) {
	if s.end == nil {
		return 0, false
	}
	return *s.end, true
}

func (s *State) Source() string {
	return s.source
}

func (s *State) Profile() profile.Profile {
	return s.catalog.At(s.selected)
}

func (s *State) ProfileIndex() int {
	return s.selected
}

func (s *State) Catalog() profile.Catalog {
	return s.catalog
}

// Toggle flips the mode. Entering the mode resets both marks and the
// profile selection and records source as the media being marked.
// Leaving it leaves the stored marks alone; they are reset on the
// next entry anyway.
func (s *State) Toggle(source string) Signal {
	s.active = !s.active
	if !s.active {
		return SignalClear
	}
	s.start = nil
	s.end = nil
	s.selected = 0
	s.source = source
	return SignalRefresh
}

func (s *State) SetStart(now float64) Signal {
	if !s.active {
		return SignalNone
	}
	s.start = &now
	return SignalRefresh
}

func (s *State) SetEnd(now float64) Signal {
	if !s.active {
		return SignalNone
	}
	s.end = &now
	return SignalRefresh
}

func (s *State) CycleProfile(d Direction) Signal {
	if !s.active {
		return SignalNone
	}
	s.selected = s.catalog.Wrap(s.selected + int(d))
	return SignalRefresh
}

// Snapshot returns the export request for the current state, or false
// when the mode is not engaged. Marks are copied so later mutation of
// the session cannot reach the request.
func (s *State) Snapshot() (Request, bool) {
	if !s.active {
		return Request{}, false
	}
	r := Request{
		Source:  s.source,
		Profile: s.Profile(),
	}
	if s.start != nil {
		v := *s.start
		r.Start = &v
	}
	if s.end != nil {
		v := *s.end
		r.End = &v
	}
	r.Profile.Options = append([]string(nil), r.Profile.Options...)
	return r, true
}

// Display renders the status line. It is empty while inactive.
func (s *State) Display() string {
	if !s.active {
		return ""
	}
	var b strings.Builder
	b.WriteString("Clip  start: ")
	b.WriteString(formatMark(s.start))
	b.WriteString("  end: ")
	b.WriteString(formatMark(s.end))
	if s.start != nil && s.end != nil && *s.end > *s.start {
		fmt.Fprintf(&b, "  (%s)", FormatTimestamp(*s.end-*s.start))
	}
	fmt.Fprintf(&b, "  profile: %s [%d/%d]", s.Profile(), s.selected+1, len(s.catalog))
	return b.String()
}

func formatMark(v *float64) string {
	if v == nil {
		return "--:--:--.---"
	}
	return FormatTimestamp(*v)
}

// FormatTimestamp renders seconds as hh:mm:ss.mmm. Negative values
// are shown with a leading minus sign.
func FormatTimestamp(seconds float64) string {
	sign := ""
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	ms := int64(seconds*1000 + 0.5)
	h := ms / 3_600_000
	ms -= h * 3_600_000
	m := ms / 60_000
	ms -= m * 60_000
	sec := ms / 1000
	ms -= sec * 1000
	return fmt.Sprintf("%s%02d:%02d:%02d.%03d", sign, h, m, sec, ms)
}
