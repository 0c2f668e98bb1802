package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"slices"
)

// Result describes how a finished encoder process ended.
type Result struct {
	// ExitCode is the process exit status, or -1 if it did not
	// exit normally (killed by a signal, or Wait itself failed).
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

func (r Result) Success() bool {
	return r.Err == nil && r.ExitCode == 0
}

type Process struct {
	cmd    *exec.Cmd
	stdout bytes.Buffer
	stderr bytes.Buffer
	// Args holds the arguments the process was launched with,
	// not including the executable.
	Args []string
	// Path is the executable being run.
	Path string
}

func NewProcess(ctx context.Context, bin string, args []string) (*Process, error) {
	if bin == "" {
		return nil, errors.New("no executable given")
	}
	result := &Process{
		Args: slices.Clone(args),
		Path: bin,
	}
	result.cmd = exec.CommandContext(ctx, bin, result.Args...)
	result.cmd.Stdout = &result.stdout
	result.cmd.Stderr = &result.stderr
	return result, nil
}

// Start launches the process without waiting for it. An error here
// means the executable could not be started at all.
func (p *Process) Start() error {
	return p.cmd.Start()
}

// Wait blocks until the process exits and collects its output.
func (p *Process) Wait() Result {
	err := p.cmd.Wait()
	result := Result{
		Stdout: p.stdout.String(),
		Stderr: p.stderr.String(),
		Err:    err,
	}
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		result.ExitCode = 0
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		result.ExitCode = -1
	}
	return result
}

func (p *Process) Kill() {
	if p.cmd.Process != nil {
		p.cmd.Process.Kill() //nolint:errcheck
	}
}
