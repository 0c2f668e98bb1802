package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
)

var ErrNotFound = errors.New("executable not found")

const versionCheckTimeout = 5 * time.Second

// DefaultCandidates lists where name is commonly installed, in the
// order they are tried. The bare name comes first so that whatever is
// on PATH wins.
func DefaultCandidates(name string) []string {
	if runtime.GOOS == "windows" {
		exe := name + ".exe"
		return []string{
			exe,
			filepath.Join(`C:\ffmpeg\bin`, exe),
			filepath.Join(`C:\Program Files\ffmpeg\bin`, exe),
			filepath.Join(`C:\ProgramData\chocolatey\bin`, exe),
		}
	}
	return []string{
		name,
		"/usr/bin/" + name,
		"/usr/local/bin/" + name,
		"/opt/homebrew/bin/" + name,
		"/opt/local/bin/" + name,
		"/snap/bin/" + name,
	}
}

// Resolver finds an executable once and remembers it. A configured
// path is used as-is; otherwise each candidate is run with -version
// and the first one that exits cleanly wins. Only a successful lookup
// is cached, so installing the tool mid-session and retrying works.
type Resolver struct {
	name       string
	configured string
	candidates []string
	logger     hclog.Logger

	mu   sync.Mutex
	path string
}

func NewResolver(name, configured string, candidates []string, logger hclog.Logger) *Resolver {
	if candidates == nil {
		candidates = DefaultCandidates(name)
	}
	return &Resolver{
		name:       name,
		configured: configured,
		candidates: candidates,
		logger:     logger.Named(name),
	}
}

func (r *Resolver) Name() string {
	return r.name
}

func (r *Resolver) Resolve(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.path != "" {
		return r.path, nil
	}
	if r.configured != "" {
		r.path = r.configured
		r.logger.Debug("using configured executable", "path", r.path)
		return r.path, nil
	}
	for _, c := range r.candidates {
		if err := versionCheck(ctx, c); err != nil {
			r.logger.Trace("candidate rejected", "path", c, "error", err)
			continue
		}
		r.path = c
		r.logger.Debug("resolved executable", "path", c)
		return c, nil
	}
	return "", fmt.Errorf("%w: %s (tried %v)", ErrNotFound, r.name, r.candidates)
}

func versionCheck(ctx context.Context, path string) error {
	ctx, cancel := context.WithTimeout(ctx, versionCheckTimeout)
	defer cancel()
	return exec.CommandContext(ctx, path, "-version").Run()
}
