package ffmpeg

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/achernya/autoclip/profile"
	"github.com/achernya/autoclip/session"
)

const (
	// AudioEncoder and AudioBitrate are used for every profile
	// that re-encodes video. Copy profiles copy audio too.
	AudioEncoder = "aac"
	AudioBitrate = "192k"
)

var (
	ErrInvalidRange       = errors.New("end mark must be after start mark")
	ErrUnsupportedEncoder = errors.New("unsupported encoder")

	// hevcTag writes stream-copied HEVC with the hvc1 sample
	// entry instead of ffmpeg's default hev1.
	hevcTag = []string{"-tag:v", "hvc1"}

	hevcIdentifiers = []string{"hevc", "h265", "h.265"}
)

// IsHEVC reports whether a probed codec name refers to HEVC/H.265.
func IsHEVC(codec string) bool {
	codec = strings.ToLower(codec)
	for _, id := range hevcIdentifiers {
		if strings.Contains(codec, id) {
			return true
		}
	}
	return false
}

func seconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// Validate runs the checks Build would fail on, without needing an
// output path or a probed codec. It lets callers reject a request
// before doing any expensive work.
func Validate(req session.Request) error {
	if _, err := duration(req); err != nil {
		return err
	}
	if req.Profile.Mode() == profile.ModeUnsupported {
		return fmt.Errorf("%w: %q", ErrUnsupportedEncoder, req.Profile.ID)
	}
	return nil
}

func duration(req session.Request) (*float64, error) {
	if req.Start == nil || req.End == nil {
		return nil, nil
	}
	if !(*req.End > *req.Start) {
		return nil, fmt.Errorf("%w: start %s, end %s", ErrInvalidRange, seconds(*req.Start), seconds(*req.End))
	}
	d := *req.End - *req.Start
	return &d, nil
}

// Build returns the encoder arguments (excluding the executable
// itself) that cut req into output. probedCodec is the source's video
// codec, or "" when probing was skipped or failed.
//
// The result only depends on its inputs: the same request, output,
// and codec always produce the same arguments.
func Build(req session.Request, output string, probedCodec string) ([]string, error) {
	dur, err := duration(req)
	if err != nil {
		return nil, err
	}
	start := 0.0
	if req.Start != nil {
		start = *req.Start
	}

	args := make([]string, 0, 24)

	// --- Preamble ---
	args = append(args, "-hide_banner", "-nostdin", "-y", "-loglevel", "error")

	// --- Seek, then input ---
	// -ss ahead of -i seeks the demuxer, not the decoder.
	args = append(args, "-ss", seconds(start), "-i", req.Source)

	if dur != nil {
		args = append(args, "-t", seconds(*dur))
	}

	// --- Video, then the audio that goes with it ---
	switch req.Profile.Mode() {
	case profile.ModeCopy:
		args = append(args, "-c:v", "copy")
		if IsHEVC(probedCodec) {
			args = append(args, hevcTag...)
		}
		args = append(args, "-c:a", "copy")
	case profile.ModeEncode:
		args = append(args, "-c:v", req.Profile.ID)
		args = append(args, req.Profile.Options...)
		args = append(args, "-c:a", AudioEncoder, "-b:a", AudioBitrate)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEncoder, req.Profile.ID)
	}

	// --- Output ---
	args = append(args, output)
	return args, nil
}
