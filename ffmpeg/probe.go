package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

const DefaultProbeTimeout = 5 * time.Second

// Prober asks the probe tool about a source file. Every failure is
// reported as "unknown" rather than an error: callers are expected to
// carry on without the information.
type Prober struct {
	resolver *Resolver
	timeout  time.Duration
	logger   hclog.Logger
}

func NewProber(resolver *Resolver, timeout time.Duration, logger hclog.Logger) *Prober {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &Prober{
		resolver: resolver,
		timeout:  timeout,
		logger:   logger.Named("probe"),
	}
}

func probeArgs(path string) []string {
	return []string{
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=codec_name",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}
}

// VideoCodec returns the codec name of the first video stream in
// path. The call is bounded by the prober's timeout.
func (p *Prober) VideoCodec(ctx context.Context, path string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	bin, err := p.resolver.Resolve(ctx)
	if err != nil {
		p.logger.Debug("probe tool unavailable", "error", err)
		return "", false
	}
	out, err := exec.CommandContext(ctx, bin, probeArgs(path)...).Output()
	if err != nil {
		p.logger.Debug("probe failed", "path", path, "error", err)
		return "", false
	}
	codec := firstLine(out)
	if codec == "" {
		p.logger.Debug("probe returned nothing", "path", path)
		return "", false
	}
	p.logger.Debug("probed video codec", "path", path, "codec", codec)
	return codec, true
}

func firstLine(out []byte) string {
	s := bufio.NewScanner(bytes.NewReader(out))
	for s.Scan() {
		if line := strings.TrimSpace(s.Text()); line != "" {
			return line
		}
	}
	return ""
}
