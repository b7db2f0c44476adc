// Package headset invokes headsetcontrol to query the headset battery.
package headset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/shelepuginivan/headset-tray/internal/battery"
)

// DefaultPath is the default name of the headsetcontrol executable.
const DefaultPath = "headsetcontrol"

var (
	// ErrTool indicates that headsetcontrol could not be started or exited
	// abnormally.
	ErrTool = errors.New("headsetcontrol failed")

	// ErrTimeout indicates that headsetcontrol did not finish in time.
	ErrTimeout = errors.New("headsetcontrol timed out")
)

// Client runs headsetcontrol.
type Client struct {
	path    string
	timeout time.Duration
}

// NewClient returns a new [Client].
func NewClient(opts *Options) *Client {
	if opts == nil {
		opts = NewOptions()
	}

	return &Client{
		path:    opts.Path,
		timeout: opts.Timeout,
	}
}

// Output runs `headsetcontrol -o JSON` and returns its standard output.
//
// Errors wrap [ErrTool] or [ErrTimeout]. If ctx is cancelled, its error is
// returned.
func (c *Client) Output(ctx context.Context) ([]byte, error) {
	runCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var stderr bytes.Buffer

	cmd := exec.CommandContext(runCtx, c.path, "-o", "JSON")
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	stdout, err := cmd.Output()
	if err == nil {
		return stdout, nil
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return nil, fmt.Errorf("%w: %s did not finish in %v", ErrTimeout, c.path, c.timeout)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("%w: %s exited with code %d", ErrTool, c.path, exitErr.ExitCode())
		}

		return nil, fmt.Errorf("%w: %s exited with code %d: %s", ErrTool, c.path, exitErr.ExitCode(), msg)
	}

	return nil, fmt.Errorf("%w: %w", ErrTool, err)
}

// Battery returns battery reading of the first headset.
//
// Besides errors of [Client.Output], parse errors of [battery.Parse] are
// returned.
func (c *Client) Battery(ctx context.Context) (battery.Reading, error) {
	stdout, err := c.Output(ctx)
	if err != nil {
		return battery.Reading{}, err
	}

	return battery.Parse(stdout)
}
