package headset

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// Options configures invocation of headsetcontrol.
type Options struct {
	// Path is the name or path of the headsetcontrol executable.
	Path string `json:"path,omitempty" yaml:"path" mapstructure:"path"`

	// Timeout limits a single invocation.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout" mapstructure:"timeout"`

	// Retries is the number of additional attempts after a failed poll.
	Retries int `json:"retries,omitempty" yaml:"retries" mapstructure:"retries"`
}

// NewOptions creates a new Options object with default values.
func NewOptions() *Options {
	return &Options{
		Path:    DefaultPath,
		Timeout: 5 * time.Second,
		Retries: 2,
	}
}

// Validate validates all the required options.
func (o *Options) Validate() []error {
	var errs []error

	if o.Path == "" {
		errs = append(errs, fmt.Errorf("tool.path: must not be empty"))
	}

	if o.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("tool.timeout: must be positive, got %v", o.Timeout))
	}

	if o.Retries < 0 {
		errs = append(errs, fmt.Errorf("tool.retries: must not be negative, got %d", o.Retries))
	}

	return errs
}

// AddFlags binds command-line flags to the Options fields.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Path, "tool.path", o.Path, "Name or path of the headsetcontrol executable.")
	fs.DurationVar(&o.Timeout, "tool.timeout", o.Timeout, "Timeout of a single headsetcontrol invocation.")
	fs.IntVar(&o.Retries, "tool.retries", o.Retries, "Number of retries of a failed poll before keeping the last known state.")
}
