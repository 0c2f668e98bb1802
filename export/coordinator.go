// Package export turns a marked session into a clip on disk. The
// Coordinator does the quick checks on the caller's goroutine and
// hands everything that can block (finding the encoder, probing the
// source, running the encode) to a background goroutine.
package export

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/achernya/autoclip/clipid"
	"github.com/achernya/autoclip/db"
	"github.com/achernya/autoclip/ffmpeg"
	"github.com/achernya/autoclip/profile"
	"github.com/achernya/autoclip/session"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
)

// CodecProber reports a source's video codec, or false when it cannot
// tell. *ffmpeg.Prober implements it.
type CodecProber interface {
	VideoCodec(ctx context.Context, path string) (string, bool)
}

type Options struct {
	// History, when set, records every export that gets as far
	// as being launched.
	History *db.History
	// Diagnostics receives the details of failed encodes. When
	// nil, a DiagnosticLog at the default path is used.
	Diagnostics *DiagnosticLog
	// SingleFlight rejects an export while another one is still
	// running. Without it, exports run side by side.
	SingleFlight bool
}

type Coordinator struct {
	encoder      *ffmpeg.Resolver
	prober       CodecProber
	history      *db.History
	diagnostics  *DiagnosticLog
	singleFlight bool
	logger       hclog.Logger
	now          func() time.Time

	running atomic.Int32
}

func NewCoordinator(encoder *ffmpeg.Resolver, prober CodecProber, logger hclog.Logger, opts Options) *Coordinator {
	diag := opts.Diagnostics
	if diag == nil {
		diag = NewDiagnosticLog("")
	}
	return &Coordinator{
		encoder:      encoder,
		prober:       prober,
		history:      opts.History,
		diagnostics:  diag,
		singleFlight: opts.SingleFlight,
		logger:       logger.Named("export"),
		now:          time.Now,
	}
}

// Running is the number of encodes currently in progress.
func (c *Coordinator) Running() int {
	return int(c.running.Load())
}

// Export snapshots st and starts exporting it. It returns nil when
// the clip mode is not engaged; otherwise the returned channel
// delivers exactly one Outcome and is then closed.
//
// source overrides the path recorded in the session, for players
// whose current file may have changed since the mode was entered.
// Validation failures are already in the channel when Export returns.
func (c *Coordinator) Export(ctx context.Context, st *session.State, source string) <-chan Outcome {
	req, ok := st.Snapshot()
	if !ok {
		return nil
	}
	if source != "" {
		req.Source = source
	}
	ch := make(chan Outcome, 1)

	if reason := checkRequest(req); reason != "" {
		c.logger.Info("export rejected", "reason", reason)
		ch <- Outcome{Kind: ValidationFailed, Reason: reason}
		close(ch)
		return ch
	}
	if err := ffmpeg.Validate(req); err != nil {
		c.logger.Info("export rejected", "error", err)
		ch <- Outcome{Kind: ValidationFailed, Reason: validationReason(err), Err: err}
		close(ch)
		return ch
	}
	if !c.acquire() {
		c.logger.Info("export rejected", "reason", "export already running")
		ch <- Outcome{Kind: ValidationFailed, Reason: "export already running"}
		close(ch)
		return ch
	}

	o := Outcome{
		ID:     uuid.NewString(),
		Output: OutputPath(req.Source, *req.Start, *req.End, req.Profile.ID),
	}
	go func() {
		defer close(ch)
		defer c.running.Add(-1)
		ch <- c.run(ctx, req, o)
	}()
	return ch
}

func (c *Coordinator) acquire() bool {
	if c.singleFlight {
		return c.running.CompareAndSwap(0, 1)
	}
	c.running.Add(1)
	return true
}

// checkRequest covers what the encoder could never be asked to do.
func checkRequest(req session.Request) string {
	if strings.TrimSpace(req.Source) == "" {
		return "no media loaded"
	}
	switch {
	case req.Start == nil && req.End == nil:
		return "start and end marks not set"
	case req.Start == nil:
		return "start mark not set"
	case req.End == nil:
		return "end mark not set"
	}
	return ""
}

func validationReason(err error) string {
	switch {
	case errors.Is(err, ffmpeg.ErrInvalidRange):
		return "end mark must be after start mark"
	case errors.Is(err, ffmpeg.ErrUnsupportedEncoder):
		return "unsupported encoder profile"
	}
	return err.Error()
}

func (c *Coordinator) run(ctx context.Context, req session.Request, o Outcome) Outcome {
	logger := c.logger.With("export", o.ID)

	bin, err := c.encoder.Resolve(ctx)
	if err != nil {
		logger.Error("encoder not found", "error", err)
		o.Kind = LaunchFailed
		o.Reason = c.encoder.Name() + " not found"
		o.Err = err
		return o
	}
	o.Executable = bin

	codec := ""
	if req.Profile.Mode() == profile.ModeCopy && c.prober != nil {
		codec, _ = c.prober.VideoCodec(ctx, req.Source)
	}

	args, err := ffmpeg.Build(req, o.Output, codec)
	if err != nil {
		logger.Info("export rejected", "error", err)
		o.Kind = ValidationFailed
		o.Reason = validationReason(err)
		o.Err = err
		return o
	}
	o.Args = args

	process, err := ffmpeg.NewProcess(ctx, bin, args)
	if err == nil {
		err = process.Start()
	}
	if err != nil {
		logger.Error("encoder could not be started", "path", bin, "error", err)
		o.Kind = LaunchFailed
		o.Reason = "could not run " + bin
		o.Err = err
		return o
	}
	logger.Info("export started", "source", req.Source, "output", o.Output, "profile", req.Profile.ID, "codec", codec)

	record := c.begin(logger, req, o)
	o.Result = process.Wait()

	if o.Result.Success() {
		o.Kind = Success
		if fi, err := os.Stat(o.Output); err == nil && fi.Size() > 0 {
			o.Size = uint64(fi.Size())
		}
		logger.Info("export finished", "output", o.Output, "bytes", o.Size)
	} else {
		o.Kind = ProcessFailed
		o.Err = o.Result.Err
		if err := c.diagnostics.Write(o, c.now()); err != nil {
			logger.Debug("could not write diagnostic log", "path", c.diagnostics.Path(), "error", err)
		} else {
			o.DiagnosticLog = c.diagnostics.Path()
		}
		logger.Warn("export failed", "exit_code", o.Result.ExitCode, "error", o.Result.Err)
	}
	c.finish(logger, record, o)
	return o
}

func (c *Coordinator) begin(logger hclog.Logger, req session.Request, o Outcome) *db.Export {
	if c.history == nil {
		return nil
	}
	record := &db.Export{
		UUID:         o.ID,
		Source:       req.Source,
		Output:       o.Output,
		Profile:      req.Profile.ID,
		StartSeconds: *req.Start,
		EndSeconds:   *req.End,
		Executable:   o.Executable,
		Args:         o.Args,
	}
	if clip, err := clipid.FromRequest(req); err == nil {
		record.Fingerprint, _ = clipid.Fingerprint(clip)
	}
	if record.Fingerprint != "" {
		if n, err := c.history.Succeeded(record.Fingerprint); err == nil && n > 0 {
			logger.Info("same clip exported before", "times", n)
		}
	}
	if err := c.history.Begin(record); err != nil {
		logger.Warn("could not record export", "error", err)
		return nil
	}
	return record
}

func (c *Coordinator) finish(logger hclog.Logger, record *db.Export, o Outcome) {
	if record == nil {
		return
	}
	output := o.Result.Stderr
	if o.Result.Stdout != "" {
		output = o.Result.Stdout + "\n" + output
	}
	if err := c.history.Finish(record, o.Kind.String(), o.Result.ExitCode, output); err != nil {
		logger.Warn("could not record export result", "error", err)
	}
}
