// Package config loads, validates, and materializes backup job
// configuration using Viper.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/mjansson/snaplink/internal/paths"
)

// Config is the on-disk configuration structure. Locations and
// notifications are tagged unions discriminated by their type field;
// the accepted tags are fixed at compile time (see build.go).
type Config struct {
	Version       int            `mapstructure:"version" yaml:"version"`
	Name          string         `mapstructure:"name" yaml:"name,omitempty"`
	Verbose       bool           `mapstructure:"verbose" yaml:"verbose"`
	Source        Location       `mapstructure:"source" yaml:"source"`
	Targets       []Location     `mapstructure:"targets" yaml:"targets"`
	Notifications []Notification `mapstructure:"notifications" yaml:"notifications,omitempty"`
	Transfer      Transfer       `mapstructure:"transfer" yaml:"transfer,omitempty"`

	// Path records where the configuration was read from. It is set by
	// Load, not by the file itself.
	Path string `mapstructure:"-" yaml:"-"`
}

// Location configures one backup endpoint. Type selects the variant:
// "path" uses Path; "ssh" uses User/Host/Port/Path plus the optional
// key material fields.
type Location struct {
	Type           string `mapstructure:"type" yaml:"type"`
	Path           string `mapstructure:"path" yaml:"path"`
	User           string `mapstructure:"user" yaml:"user,omitempty"`
	Host           string `mapstructure:"host" yaml:"host,omitempty"`
	Port           int    `mapstructure:"port" yaml:"port,omitempty"`
	IdentityFile   string `mapstructure:"identity_file" yaml:"identity_file,omitempty"`
	KnownHostsFile string `mapstructure:"known_hosts_file" yaml:"known_hosts_file,omitempty"`
}

// Notification configures one notifier. The per-channel argument
// vectors only apply to the "command" variant.
type Notification struct {
	Type     string   `mapstructure:"type" yaml:"type"`
	State    []string `mapstructure:"state" yaml:"state,omitempty"`
	Inform   []string `mapstructure:"inform" yaml:"inform,omitempty"`
	Confirm  []string `mapstructure:"confirm" yaml:"confirm,omitempty"`
	Alert    []string `mapstructure:"alert" yaml:"alert,omitempty"`
	Fallback []string `mapstructure:"fallback" yaml:"fallback,omitempty"`
}

// Transfer configures pattern filtering for the transfer tool.
type Transfer struct {
	Include []string `mapstructure:"include" yaml:"include,omitempty"`
	Exclude []string `mapstructure:"exclude" yaml:"exclude,omitempty"`
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
func Init() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".")
	viper.AddConfigPath(paths.ConfigDir())

	viper.SetEnvPrefix("SNAPLINK")
	viper.AutomaticEnv()

	viper.SetDefault("version", 1)
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file; JSON files
// are accepted alongside YAML, keyed off the extension. If path is
// empty, it searches in the default locations and falls back to
// defaults when nothing is found.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if path != "" {
				return nil, fmt.Errorf("config file not found at %s: %w", path, err)
			}
		} else {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.Path = viper.ConfigFileUsed()

	return &cfg, nil
}
