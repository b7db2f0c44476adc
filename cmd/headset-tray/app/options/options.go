// Package options contains flags and configuration of headset-tray.
package options

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/shelepuginivan/headset-tray/internal/headset"
	"github.com/shelepuginivan/headset-tray/internal/log"
)

// EnvPrefix is the prefix of environment variables read by [Options.Load].
const EnvPrefix = "HEADSET_TRAY"

type Options struct {
	Tool *headset.Options `json:"tool" yaml:"tool" mapstructure:"tool"`
	Log  *log.Options     `json:"log" yaml:"log" mapstructure:"log"`
}

func NewOptions() *Options {
	return &Options{
		Tool: headset.NewOptions(),
		Log:  log.NewOptions(),
	}
}

// Flags binds flags of all option groups to fs.
func (o *Options) Flags(fs *pflag.FlagSet) {
	o.Tool.AddFlags(fs)
	o.Log.AddFlags(fs)
}

func (o *Options) Validate() error {
	errs := []error{}
	errs = append(errs, o.Tool.Validate()...)
	errs = append(errs, o.Log.Validate()...)
	return errors.Join(errs...)
}

// Load fills the options from flags of fs, environment variables and the
// configuration file, if configFile is not empty. Explicitly set flags take
// precedence over environment variables, which take precedence over the
// file. Defaults are the values of flags that are not set.
//
// Environment variables are named after flags, e.g. HEADSET_TRAY_TOOL_PATH
// for --tool.path.
func (o *Options) Load(fs *pflag.FlagSet, configFile string) error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)

		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	if err := v.Unmarshal(o); err != nil {
		return fmt.Errorf("failed to decode configuration: %w", err)
	}

	return nil
}

// YAML returns the options as a YAML document.
func (o *Options) YAML() ([]byte, error) {
	out, err := yaml.Marshal(o)
	if err != nil {
		return nil, fmt.Errorf("failed to encode configuration: %w", err)
	}

	return out, nil
}
