package ffmpeg

import (
	"errors"
	"reflect"
	"slices"
	"testing"

	"github.com/achernya/autoclip/profile"
	"github.com/achernya/autoclip/session"
)

func ptr(v float64) *float64 {
	return &v
}

func findProfile(t *testing.T, id string) profile.Profile {
	t.Helper()
	for _, p := range profile.Default() {
		if p.ID == id {
			return p
		}
	}
	t.Fatalf("no default profile %q", id)
	return profile.Profile{}
}

// containsSeq reports whether want appears in args as a contiguous run.
func containsSeq(args, want []string) bool {
	for i := 0; i+len(want) <= len(args); i++ {
		if slices.Equal(args[i:i+len(want)], want) {
			return true
		}
	}
	return false
}

func TestBuildCopyHevc(t *testing.T) {
	req := session.Request{
		Source:  "/media/movie.mkv",
		Start:   ptr(65.0),
		End:     ptr(125.4),
		Profile: findProfile(t, "copy"),
	}
	got, err := Build(req, "/media/movie_clip_65-125_copy.mp4", "hevc")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"-hide_banner", "-nostdin", "-y", "-loglevel", "error",
		"-ss", "65.000000", "-i", "/media/movie.mkv",
		"-t", "60.400000",
		"-c:v", "copy", "-tag:v", "hvc1",
		"-c:a", "copy",
		"/media/movie_clip_65-125_copy.mp4",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuildSeeksBeforeInput(t *testing.T) {
	req := session.Request{
		Source:  "in.mkv",
		Start:   ptr(1.5),
		End:     ptr(2),
		Profile: findProfile(t, "libx264"),
	}
	got, err := Build(req, "out.mp4", "")
	if err != nil {
		t.Fatal(err)
	}
	ss := slices.Index(got, "-ss")
	in := slices.Index(got, "-i")
	if ss < 0 || in < 0 || ss > in {
		t.Errorf("-ss at %d, -i at %d in %q; want seek before input", ss, in, got)
	}
	if got[len(got)-1] != "out.mp4" {
		t.Errorf("got last argument %q, want output path", got[len(got)-1])
	}
}

func TestBuildHevcTag(t *testing.T) {
	copyProfile := findProfile(t, "copy")
	tests := []struct {
		codec string
		want  bool
	}{
		{"hevc", true},
		{"HEVC", true},
		{"h265", true},
		{"H.265 / HEVC (High Efficiency Video Coding)", true},
		{"h264", false},
		{"", false},
	}
	for _, tt := range tests {
		req := session.Request{Source: "in.mkv", Start: ptr(0), End: ptr(1), Profile: copyProfile}
		got, err := Build(req, "out.mp4", tt.codec)
		if err != nil {
			t.Fatal(err)
		}
		if has := containsSeq(got, []string{"-tag:v", "hvc1"}); has != tt.want {
			t.Errorf("codec %q: got tag %v, want %v (%q)", tt.codec, has, tt.want, got)
		}
	}
}

func TestBuildEncodeProfilesNeverTag(t *testing.T) {
	req := session.Request{Source: "in.mkv", Start: ptr(0), End: ptr(1), Profile: findProfile(t, "libx265")}
	got, err := Build(req, "out.mp4", "hevc")
	if err != nil {
		t.Fatal(err)
	}
	if slices.Contains(got, "-tag:v") {
		t.Errorf("encode profile carries copy-only tag: %q", got)
	}
}

func TestBuildAudioFollowsVideo(t *testing.T) {
	for _, p := range profile.Default() {
		req := session.Request{Source: "in.mkv", Start: ptr(0), End: ptr(1), Profile: p}
		got, err := Build(req, "out.mp4", "")
		if err != nil {
			t.Fatalf("%s: %v", p.ID, err)
		}
		fixed := containsSeq(got, []string{"-c:a", AudioEncoder, "-b:a", AudioBitrate})
		copied := containsSeq(got, []string{"-c:a", "copy"})
		if p.Mode() == profile.ModeCopy {
			if !copied || fixed || slices.Contains(got, AudioEncoder) {
				t.Errorf("%s: got %q, want audio stream copy only", p.ID, got)
			}
			continue
		}
		if !fixed || copied {
			t.Errorf("%s: got %q, want fixed audio encoder", p.ID, got)
		}
	}
}

func TestBuildEncoderOptionsInOrder(t *testing.T) {
	p := profile.Profile{ID: "hevc_nvenc", Options: []string{"-preset", "p7", "-rc", "vbr", "-cq", "19"}}
	req := session.Request{Source: "in.mkv", Start: ptr(0), End: ptr(1), Profile: p}
	got, err := Build(req, "out.mp4", "")
	if err != nil {
		t.Fatal(err)
	}
	want := append([]string{"-c:v", "hevc_nvenc"}, p.Options...)
	if !containsSeq(got, want) {
		t.Errorf("got %q, want %q in order", got, want)
	}
}

func TestBuildInvalidRange(t *testing.T) {
	tests := []struct {
		start, end float64
	}{
		{10, 10},
		{10, 5},
		{0, 0},
		{-1, -2},
		{100.5, 100.4999},
	}
	for _, tt := range tests {
		req := session.Request{Source: "in.mkv", Start: ptr(tt.start), End: ptr(tt.end), Profile: findProfile(t, "copy")}
		if _, err := Build(req, "out.mp4", ""); !errors.Is(err, ErrInvalidRange) {
			t.Errorf("start %v end %v: got %v, want ErrInvalidRange", tt.start, tt.end, err)
		}
		if err := Validate(req); !errors.Is(err, ErrInvalidRange) {
			t.Errorf("Validate start %v end %v: got %v, want ErrInvalidRange", tt.start, tt.end, err)
		}
	}
}

func TestBuildUnsupportedEncoder(t *testing.T) {
	req := session.Request{Source: "in.mkv", Start: ptr(0), End: ptr(1), Profile: profile.Profile{ID: "libx999"}}
	if _, err := Build(req, "out.mp4", ""); !errors.Is(err, ErrUnsupportedEncoder) {
		t.Errorf("got %v, want ErrUnsupportedEncoder", err)
	}
	if err := Validate(req); !errors.Is(err, ErrUnsupportedEncoder) {
		t.Errorf("Validate: got %v, want ErrUnsupportedEncoder", err)
	}
}

func TestBuildRangeCheckedFirst(t *testing.T) {
	req := session.Request{Source: "in.mkv", Start: ptr(5), End: ptr(1), Profile: profile.Profile{ID: "libx999"}}
	if _, err := Build(req, "out.mp4", ""); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("got %v, want ErrInvalidRange", err)
	}
}

func TestBuildWithoutMarks(t *testing.T) {
	req := session.Request{Source: "in.mkv", Profile: findProfile(t, "copy")}
	got, err := Build(req, "out.mp4", "")
	if err != nil {
		t.Fatal(err)
	}
	if !containsSeq(got, []string{"-ss", "0.000000", "-i", "in.mkv"}) {
		t.Errorf("got %q, want seek to 0 before input", got)
	}
	if slices.Contains(got, "-t") {
		t.Errorf("got %q, want no duration bound", got)
	}
}

func TestBuildDeterministic(t *testing.T) {
	req := session.Request{Source: "in.mkv", Start: ptr(3.25), End: ptr(9), Profile: findProfile(t, "h264_nvenc")}
	first, err := Build(req, "out.mp4", "h264")
	if err != nil {
		t.Fatal(err)
	}
	for range 10 {
		again, err := Build(req, "out.mp4", "h264")
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("got %q, then %q", first, again)
		}
	}
}
