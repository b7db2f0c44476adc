package options

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func newFlagSet(t *testing.T, opts *Options, args ...string) *pflag.FlagSet {
	t.Helper()

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	opts.Flags(fs)

	if err := fs.Parse(args); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	return fs
}

func TestLoadDefaults(t *testing.T) {
	opts := NewOptions()
	fs := newFlagSet(t, opts)

	if err := opts.Load(fs, ""); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	defaults := NewOptions()

	if *opts.Tool != *defaults.Tool {
		t.Errorf("Tool = %+v, want %+v", opts.Tool, defaults.Tool)
	}

	if opts.Log.Level != defaults.Log.Level || opts.Log.Format != defaults.Log.Format {
		t.Errorf("Log = %+v, want %+v", opts.Log, defaults.Log)
	}

	if err := opts.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoadPrecedence(t *testing.T) {
	config := filepath.Join(t.TempDir(), "config.yaml")
	content := `tool:
  path: /opt/headsetcontrol
  timeout: 2s
  retries: 7
log:
  level: warn
`
	if err := os.WriteFile(config, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("HEADSET_TRAY_TOOL_RETRIES", "4")
	t.Setenv("HEADSET_TRAY_LOG_LEVEL", "error")

	opts := NewOptions()
	fs := newFlagSet(t, opts, "--log.level=debug")

	if err := opts.Load(fs, config); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		name     string
		got      any
		expected any
	}{
		{name: "File", got: opts.Tool.Path, expected: "/opt/headsetcontrol"},
		{name: "File duration", got: opts.Tool.Timeout, expected: 2 * time.Second},
		{name: "Environment over file", got: opts.Tool.Retries, expected: 4},
		{name: "Flag over environment", got: opts.Log.Level, expected: "debug"},
		{name: "Default", got: opts.Log.Format, expected: "console"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %v, want %v", tt.got, tt.expected)
			}
		})
	}
}

func TestLoadMissingConfig(t *testing.T) {
	opts := NewOptions()
	fs := newFlagSet(t, opts)

	if err := opts.Load(fs, filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() error = nil, want an error")
	}
}

func TestValidate(t *testing.T) {
	opts := NewOptions()
	opts.Tool.Path = ""
	opts.Log.Format = "xml"

	err := opts.Validate()
	if err == nil {
		t.Fatal("Validate() error = nil, want an error")
	}

	for _, field := range []string{"tool.path", "log.format"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("Validate() error = %q, want it to mention %s", err, field)
		}
	}
}

func TestYAML(t *testing.T) {
	out, err := NewOptions().YAML()
	if err != nil {
		t.Fatalf("YAML() error = %v", err)
	}

	for _, line := range []string{"tool:", "path: headsetcontrol", "timeout: 5s", "log:", "level: info"} {
		if !strings.Contains(string(out), line) {
			t.Errorf("YAML() = %q, want it to contain %q", out, line)
		}
	}
}
