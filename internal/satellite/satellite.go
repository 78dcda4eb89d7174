// Package satellite runs an external helper process: it writes a payload to
// the child's stdin, waits for it under a timeout and returns its stdout.
package satellite

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

var (
	// ErrLaunchTimeout is returned when the child outlives its timeout.
	ErrLaunchTimeout = errors.New("launch timed out")
	// ErrLaunchFailed is returned when the child exits unsuccessfully.
	ErrLaunchFailed = errors.New("launch failed")
)

// IOError wraps a failure to start the child or to move data through its pipes.
type IOError struct {
	Err error
}

func (e *IOError) Error() string { return "IO error: " + e.Err.Error() }

func (e *IOError) Unwrap() error { return e.Err }

// waitDelay bounds how long Wait keeps draining pipes after the child is killed.
const waitDelay = time.Second

// Launch starts command with args, feeds payload to its stdin and closes it,
// then waits. stderr is discarded. The child is killed when timeout elapses
// or ctx is cancelled. A timeout of zero means no limit beyond ctx.
func Launch(ctx context.Context, command string, args []string, payload []byte, timeout time.Duration) ([]byte, error) {
	runCtx, cancel := ctx, context.CancelFunc(func() {})
	if timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, timeout)
	}
	defer cancel()

	cmd := exec.CommandContext(runCtx, command, args...)
	cmd.Stdin = bytes.NewReader(payload)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.WaitDelay = waitDelay

	if err := cmd.Start(); err != nil {
		return nil, &IOError{Err: err}
	}
	err := cmd.Wait()

	if runCtx.Err() != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, ErrLaunchTimeout
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, ErrLaunchFailed
		}
		return nil, &IOError{Err: err}
	}
	return stdout.Bytes(), nil
}
