package ffmpeg

import (
	"os/exec"
	"testing"
)

func TestLaunch(t *testing.T) {
	path, err := exec.LookPath("echo")
	if err != nil {
		t.Fatal(err)
	}
	p, err := NewProcess(t.Context(), path, []string{"hello"})
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Start(); err != nil {
		t.Fatal(err)
	}
	result := p.Wait()
	if !result.Success() {
		t.Fatalf("got %+v, want success", result)
	}
	if result.Stdout != "hello\n" {
		t.Errorf("got stdout %q", result.Stdout)
	}
}

func TestLaunchExitCode(t *testing.T) {
	p, err := NewProcess(t.Context(), fake(t, "failffmpeg.sh"), []string{"-i", "in.mkv", "out.mp4"})
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Start(); err != nil {
		t.Fatal(err)
	}
	result := p.Wait()
	if result.Success() {
		t.Fatal("failing process reported success")
	}
	if result.ExitCode != 1 {
		t.Errorf("got exit code %d, want 1", result.ExitCode)
	}
	if result.Stderr == "" {
		t.Error("stderr was not captured")
	}
}

func TestLaunchMissingExecutable(t *testing.T) {
	p, err := NewProcess(t.Context(), "/nonexistent/ffmpeg", nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Start(); err == nil {
		p.Wait()
		t.Error("started a nonexistent executable")
	}
}

func TestLaunchKill(t *testing.T) {
	path, err := exec.LookPath("sleep")
	if err != nil {
		t.Skip("no sleep binary")
	}
	p, err := NewProcess(t.Context(), path, []string{"30"})
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Start(); err != nil {
		t.Fatal(err)
	}
	p.Kill()
	if result := p.Wait(); result.Success() {
		t.Error("killed process reported success")
	}
}
