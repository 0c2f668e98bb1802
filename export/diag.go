package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

const diagnosticFile = "autoclip-export-error.log"

// DefaultDiagnosticPath is the fixed location failures are written to
// when none is configured.
func DefaultDiagnosticPath() string {
	return filepath.Join(os.TempDir(), diagnosticFile)
}

// DiagnosticLog keeps the single most recent failed export for
// post-mortem inspection. Each write replaces the previous record.
type DiagnosticLog struct {
	path string
	// mu orders writers in this process; lock orders them across
	// processes. A Flock that is already held reports success to
	// every caller, so it cannot do both.
	mu   sync.Mutex
	lock *flock.Flock
}

func NewDiagnosticLog(path string) *DiagnosticLog {
	if path == "" {
		path = DefaultDiagnosticPath()
	}
	return &DiagnosticLog{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

func (d *DiagnosticLog) Path() string {
	return d.path
}

// Write replaces the log with o's invocation and result.
func (d *DiagnosticLog) Write(o Outcome, at time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.lock.Lock(); err != nil {
		return fmt.Errorf("locking %s: %w", d.lock.Path(), err)
	}
	defer d.lock.Unlock() //nolint:errcheck
	return os.WriteFile(d.path, []byte(formatDiagnostic(o, at)), 0o644)
}

func formatDiagnostic(o Outcome, at time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "autoclip export failure\n")
	fmt.Fprintf(&b, "time: %s\n", at.Format(time.RFC3339))
	fmt.Fprintf(&b, "export: %s\n", o.ID)
	fmt.Fprintf(&b, "outcome: %s\n", o.Kind)
	fmt.Fprintf(&b, "executable: %s\n", o.Executable)
	b.WriteString("arguments:\n")
	for _, a := range o.Args {
		fmt.Fprintf(&b, "  %s\n", a)
	}
	fmt.Fprintf(&b, "command: %s\n", commandLine(o.Executable, o.Args))
	fmt.Fprintf(&b, "exit code: %d\n", o.Result.ExitCode)
	if o.Result.Err != nil {
		fmt.Fprintf(&b, "error: %v\n", o.Result.Err)
	}
	b.WriteString("--- stdout ---\n")
	b.WriteString(withNewline(o.Result.Stdout))
	b.WriteString("--- stderr ---\n")
	b.WriteString(withNewline(o.Result.Stderr))
	return b.String()
}

// commandLine renders an invocation for humans to read. It is never
// executed, so Go quoting is good enough to show where arguments
// start and end.
func commandLine(bin string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	for _, a := range append([]string{bin}, args...) {
		if a == "" || strings.ContainsAny(a, " \t\n\"'\\") {
			a = strconv.Quote(a)
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}

func withNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
