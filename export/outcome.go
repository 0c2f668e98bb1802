package export

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/achernya/autoclip/ffmpeg"
	"github.com/dustin/go-humanize"
)

type Kind int

const (
	Success Kind = iota
	ProcessFailed
	LaunchFailed
	ValidationFailed
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case ProcessFailed:
		return "process_failed"
	case LaunchFailed:
		return "launch_failed"
	case ValidationFailed:
		return "validation_failed"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Outcome is the single result of one Export call. It never feeds
// back into the session.
type Outcome struct {
	Kind Kind
	// ID correlates the outcome with log lines, history, and the
	// diagnostic log. It is set once a request passed validation.
	ID     string
	Output string
	// Size of the written clip, when it could be determined.
	Size uint64
	// Executable and Args are the encoder invocation, when one
	// was built.
	Executable string
	Args       []string
	Result     ffmpeg.Result
	// Reason is a short human readable explanation for
	// ValidationFailed and LaunchFailed.
	Reason string
	// DiagnosticLog is where the failure details were written,
	// for ProcessFailed.
	DiagnosticLog string
	Err           error
}

// Message is what the user sees. It never includes the encoder's own
// output; that goes to the diagnostic log.
func (o Outcome) Message() string {
	switch o.Kind {
	case Success:
		if o.Size > 0 {
			return fmt.Sprintf("Clip saved: %s (%s)", filepath.Base(o.Output), humanize.Bytes(o.Size))
		}
		return "Clip saved: " + filepath.Base(o.Output)
	case ValidationFailed:
		return "Clip: " + o.Reason
	case LaunchFailed:
		return "Clip export could not start: " + o.Reason + ". Set the encoder path (ffmpeg) in the config."
	case ProcessFailed:
		if o.DiagnosticLog != "" {
			return "Clip export failed. Details in " + o.DiagnosticLog
		}
		return "Clip export failed. See the log for details."
	}
	return ""
}

// DisplayFor is how long the message should stay on screen.
func (o Outcome) DisplayFor() time.Duration {
	switch o.Kind {
	case Success:
		return 4 * time.Second
	case ValidationFailed:
		return 3 * time.Second
	case LaunchFailed:
		return 10 * time.Second
	case ProcessFailed:
		return 6 * time.Second
	}
	return 3 * time.Second
}
