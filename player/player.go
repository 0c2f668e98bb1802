// Package player provides the playback position the clip marks are
// taken from. The session never asks a player anything itself; the
// interactive front end reads the position here and passes it along.
package player

import (
	"context"
	"time"
)

type Player interface {
	// Position is the current playback position in seconds.
	Position(ctx context.Context) (float64, error)
	// Path is the media currently loaded.
	Path(ctx context.Context) (string, error)
}

// OSD is implemented by players that can show a message on top of
// the video.
type OSD interface {
	ShowText(ctx context.Context, text string, d time.Duration) error
}
