package player

import (
	"bufio"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMPV answers get_property from a fixed table and records every
// other command. Before each reply it emits an unsolicited event, the
// way a real mpv does while playing.
type fakeMPV struct {
	props map[string]any

	mu       sync.Mutex
	commands [][]any
}

func (f *fakeMPV) serve(t *testing.T, ln net.Listener) {
	conn, err := ln.Accept()
	if err != nil {
		return
	}
	defer conn.Close() //nolint:errcheck
	s := bufio.NewScanner(conn)
	enc := json.NewEncoder(conn)
	for s.Scan() {
		var req struct {
			Command   []any `json:"command"`
			RequestID int   `json:"request_id"`
		}
		if err := json.Unmarshal(s.Bytes(), &req); err != nil {
			t.Errorf("bad request %q: %v", s.Text(), err)
			return
		}
		enc.Encode(map[string]any{"event": "playback-restart"}) //nolint:errcheck
		reply := map[string]any{"request_id": req.RequestID, "error": "success"}
		if req.Command[0] == "get_property" {
			v, ok := f.props[req.Command[1].(string)]
			if ok {
				reply["data"] = v
			} else {
				reply["error"] = "property unavailable"
			}
		} else {
			f.mu.Lock()
			f.commands = append(f.commands, req.Command)
			f.mu.Unlock()
		}
		enc.Encode(reply) //nolint:errcheck
	}
}

func startMPV(t *testing.T, props map[string]any) (*MPV, *fakeMPV) {
	t.Helper()
	// Unix socket paths are short; t.TempDir can be too long.
	dir, err := os.MkdirTemp("", "mpv")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) }) //nolint:errcheck
	sock := filepath.Join(dir, "sock")
	ln, err := net.Listen("unix", sock)
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() }) //nolint:errcheck

	f := &fakeMPV{props: props}
	go f.serve(t, ln)

	m, err := DialMPV(t.Context(), sock)
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() }) //nolint:errcheck
	return m, f
}

func TestMPVPosition(t *testing.T) {
	m, _ := startMPV(t, map[string]any{"time-pos": 65.25})
	pos, err := m.Position(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 65.25, pos)
}

func TestMPVPathRelative(t *testing.T) {
	m, _ := startMPV(t, map[string]any{
		"path":              "films/movie.mkv",
		"working-directory": "/media",
	})
	path, err := m.Path(t.Context())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/media", "films", "movie.mkv"), path)
}

func TestMPVPathURL(t *testing.T) {
	m, _ := startMPV(t, map[string]any{"path": "https://example.com/a.m3u8"})
	path, err := m.Path(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a.m3u8", path)
}

func TestMPVPropertyUnavailable(t *testing.T) {
	m, _ := startMPV(t, map[string]any{})
	_, err := m.Position(t.Context())
	assert.Error(t, err)
	// The connection is still usable after an error reply.
	_, err = m.Path(t.Context())
	assert.Error(t, err)
}

func TestMPVShowText(t *testing.T) {
	m, f := startMPV(t, map[string]any{})
	require.NoError(t, m.ShowText(t.Context(), "Clip saved", 4*time.Second))
	f.mu.Lock()
	defer f.mu.Unlock()
	require.Len(t, f.commands, 1)
	assert.Equal(t, []any{"show-text", "Clip saved", float64(4000)}, f.commands[0])
}

func TestDialMPVMissingSocket(t *testing.T) {
	_, err := DialMPV(t.Context(), filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
