package ffmpeg

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
)

func testLogger() hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:  "test",
		Level: hclog.Off,
	})
}

func fake(t *testing.T, name string) string {
	t.Helper()
	p, err := filepath.Abs(filepath.Join("testdata", name))
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestResolveConfigured(t *testing.T) {
	r := NewResolver("ffmpeg", "/opt/custom/ffmpeg", []string{fake(t, "fakeffmpeg.sh")}, testLogger())
	got, err := r.Resolve(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	if got != "/opt/custom/ffmpeg" {
		t.Errorf("got %q, want configured path", got)
	}
}

func TestResolveFirstWorkingCandidate(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "ffmpeg")
	want := fake(t, "fakeffmpeg.sh")
	r := NewResolver("ffmpeg", "", []string{missing, want, fake(t, "failffmpeg.sh")}, testLogger())
	got, err := r.Resolve(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestResolveCaches(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "ffmpeg")
	script, err := os.ReadFile(fake(t, "fakeffmpeg.sh"))
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bin, script, 0o755); err != nil {
		t.Fatal(err)
	}
	r := NewResolver("ffmpeg", "", []string{bin}, testLogger())
	first, err := r.Resolve(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	// With the binary gone, only the cache can answer.
	if err := os.Remove(bin); err != nil {
		t.Fatal(err)
	}
	second, err := r.Resolve(t.Context())
	if err != nil {
		t.Fatalf("second Resolve: %v", err)
	}
	if first != second {
		t.Errorf("got %q then %q", first, second)
	}
}

func TestResolveNotFound(t *testing.T) {
	r := NewResolver("ffmpeg", "", []string{filepath.Join(t.TempDir(), "nope")}, testLogger())
	if _, err := r.Resolve(t.Context()); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestDefaultCandidatesStartWithBareName(t *testing.T) {
	c := DefaultCandidates("ffprobe")
	if len(c) == 0 {
		t.Fatal("no candidates")
	}
	if base := filepath.Base(c[0]); base != "ffprobe" && base != "ffprobe.exe" {
		t.Errorf("got first candidate %q, want the bare name", c[0])
	}
}
