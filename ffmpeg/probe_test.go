package ffmpeg

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestProber(t *testing.T, bin string) *Prober {
	t.Helper()
	return NewProber(NewResolver("ffprobe", bin, nil, testLogger()), time.Second, testLogger())
}

func TestVideoCodec(t *testing.T) {
	t.Setenv("FAKE_PROBE_CODEC", "hevc")
	got, ok := newTestProber(t, fake(t, "fakeffprobe.sh")).VideoCodec(t.Context(), "movie.mkv")
	if !ok {
		t.Fatal("probe failed")
	}
	if got != "hevc" {
		t.Errorf("got %q, want %q", got, "hevc")
	}
}

func TestVideoCodecFailures(t *testing.T) {
	tests := []struct {
		name  string
		bin   string
		codec string
	}{
		{"non-zero exit", fake(t, "fakeffprobe.sh"), ""},
		{"blank output", fake(t, "fakeffprobe.sh"), "   "},
		{"missing tool", filepath.Join(t.TempDir(), "ffprobe"), "hevc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("FAKE_PROBE_CODEC", tt.codec)
			if got, ok := newTestProber(t, tt.bin).VideoCodec(t.Context(), "movie.mkv"); ok {
				t.Errorf("got %q, want failure", got)
			}
		})
	}
}

func TestProbeArgsEndWithPath(t *testing.T) {
	args := probeArgs("-weird.mkv")
	if args[len(args)-1] != "-weird.mkv" {
		t.Errorf("got %q, want path last", args)
	}
}
