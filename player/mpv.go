package player

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const defaultIPCTimeout = 2 * time.Second

// MPV talks to a running mpv through its JSON IPC socket
// (--input-ipc-server). Requests are serialized; mpv answers them in
// order, interleaved with unsolicited event lines that are skipped.
type MPV struct {
	conn net.Conn

	mu     sync.Mutex
	r      *bufio.Reader
	nextID int
}

type mpvRequest struct {
	Command   []any `json:"command"`
	RequestID int   `json:"request_id"`
}

type mpvResponse struct {
	Data      json.RawMessage `json:"data"`
	Error     string          `json:"error"`
	RequestID *int            `json:"request_id"`
	Event     string          `json:"event"`
}

func DialMPV(ctx context.Context, socket string) (*MPV, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", socket)
	if err != nil {
		return nil, fmt.Errorf("connecting to mpv at %s: %w", socket, err)
	}
	return &MPV{
		conn: conn,
		r:    bufio.NewReader(conn),
	}, nil
}

func (m *MPV) Close() error {
	return m.conn.Close()
}

func (m *MPV) command(ctx context.Context, args ...any) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(defaultIPCTimeout)
	}
	if err := m.conn.SetDeadline(deadline); err != nil {
		return nil, err
	}

	m.nextID++
	id := m.nextID
	b, err := json.Marshal(mpvRequest{Command: args, RequestID: id})
	if err != nil {
		return nil, err
	}
	if _, err := m.conn.Write(append(b, '\n')); err != nil {
		return nil, err
	}
	for {
		line, err := m.r.ReadBytes('\n')
		if err != nil {
			return nil, err
		}
		var resp mpvResponse
		if err := json.Unmarshal(line, &resp); err != nil {
			return nil, fmt.Errorf("decoding mpv reply: %w", err)
		}
		if resp.Event != "" || resp.RequestID == nil || *resp.RequestID != id {
			continue
		}
		if resp.Error != "success" {
			return nil, fmt.Errorf("mpv %v: %s", args[0], resp.Error)
		}
		return resp.Data, nil
	}
}

func (m *MPV) property(ctx context.Context, name string, v any) error {
	data, err := m.command(ctx, "get_property", name)
	if err != nil {
		return err
	}
	if len(data) == 0 || string(data) == "null" {
		return fmt.Errorf("mpv property %s is unavailable", name)
	}
	return json.Unmarshal(data, v)
}

func (m *MPV) Position(ctx context.Context) (float64, error) {
	var pos float64
	err := m.property(ctx, "time-pos", &pos)
	return pos, err
}

// Path returns the loaded file. mpv reports it the way it was given
// on its command line, so relative paths are resolved against mpv's
// own working directory.
func (m *MPV) Path(ctx context.Context) (string, error) {
	var path string
	if err := m.property(ctx, "path", &path); err != nil {
		return "", err
	}
	if path == "" {
		return "", errors.New("mpv has no file loaded")
	}
	if filepath.IsAbs(path) || strings.Contains(path, "://") {
		return path, nil
	}
	var wd string
	if err := m.property(ctx, "working-directory", &wd); err != nil || wd == "" {
		return path, nil
	}
	return filepath.Join(wd, path), nil
}

func (m *MPV) ShowText(ctx context.Context, text string, d time.Duration) error {
	_, err := m.command(ctx, "show-text", text, d.Milliseconds())
	return err
}
