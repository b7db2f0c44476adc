package headset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shelepuginivan/headset-tray/internal/battery"
)

// fakeTool writes a shell script that stands in for headsetcontrol.
func fakeTool(t *testing.T, script string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "headsetcontrol")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0755); err != nil {
		t.Fatalf("write fake headsetcontrol: %v", err)
	}

	return path
}

func newTestClient(path string, timeout time.Duration) *Client {
	return NewClient(&Options{Path: path, Timeout: timeout})
}

func TestClientBattery(t *testing.T) {
	path := fakeTool(t, `
if [ "$1" != "-o" ] || [ "$2" != "JSON" ]; then
	echo "unexpected arguments: $*" >&2
	exit 2
fi
echo '{"devices":[{"battery":{"status":"BATTERY_CHARGING","level":55}}]}'`)

	reading, err := newTestClient(path, 5*time.Second).Battery(context.Background())
	if err != nil {
		t.Fatalf("Battery() error = %v", err)
	}

	expected := battery.Reading{Status: battery.Charging, Level: 55}
	if reading != expected {
		t.Errorf("Battery() = %v, want %v", reading, expected)
	}
}

func TestClientExitCode(t *testing.T) {
	path := fakeTool(t, `echo "No supported device found" >&2; exit 1`)

	_, err := newTestClient(path, 5*time.Second).Output(context.Background())
	if !errors.Is(err, ErrTool) {
		t.Fatalf("Output() error = %v, want ErrTool", err)
	}
}

func TestClientMissingExecutable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing")

	_, err := newTestClient(path, 5*time.Second).Output(context.Background())
	if !errors.Is(err, ErrTool) {
		t.Fatalf("Output() error = %v, want ErrTool", err)
	}
}

func TestClientTimeout(t *testing.T) {
	path := fakeTool(t, `exec sleep 5`)

	start := time.Now()
	_, err := newTestClient(path, 100*time.Millisecond).Output(context.Background())
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("Output() error = %v, want ErrTimeout", err)
	}

	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("Output() returned after %v, want it to stop at the timeout", elapsed)
	}
}

func TestClientCancelled(t *testing.T) {
	path := fakeTool(t, `exec sleep 5`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(path, 5*time.Second).Output(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Output() error = %v, want context.Canceled", err)
	}
}

func TestClientParseError(t *testing.T) {
	path := fakeTool(t, `echo '{"devices":[]}'`)

	_, err := newTestClient(path, 5*time.Second).Battery(context.Background())
	if !errors.Is(err, battery.ErrSchema) {
		t.Fatalf("Battery() error = %v, want ErrSchema", err)
	}
}

func TestOptionsValidate(t *testing.T) {
	if errs := NewOptions().Validate(); len(errs) != 0 {
		t.Errorf("Validate() of default options = %v, want no errors", errs)
	}

	opts := &Options{Path: "", Timeout: 0, Retries: -1}
	if errs := opts.Validate(); len(errs) != 3 {
		t.Errorf("Validate() returned %d errors, want 3", len(errs))
	}
}
