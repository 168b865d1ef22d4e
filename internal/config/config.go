// Package config loads critpath settings from defaults, an optional config
// file, CRITPATH_* environment variables and bound command line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/viper"

	"github.com/joshharrison/critpath/internal/cpm"
	"github.com/joshharrison/critpath/internal/graph"
	"github.com/joshharrison/critpath/internal/ingest"
	"github.com/joshharrison/critpath/internal/resource"
)

const envPrefix = "CRITPATH"

type (
	// Config is the full application configuration.
	Config struct {
		Logger   Logger   `mapstructure:"logger"`
		Input    Input    `mapstructure:"input"`
		Schedule Schedule `mapstructure:"schedule"`
		Report   Report   `mapstructure:"report"`
	}

	// Logger contains the logger settings
	Logger struct {
		Level       string `mapstructure:"level"`
		Encoding    string `mapstructure:"encoding"`
		Development bool   `mapstructure:"development"`
	}

	// Input contains the record parsing settings
	Input struct {
		Format       string `mapstructure:"format"`
		Comma        string `mapstructure:"comma"`
		Separator    string `mapstructure:"separator"`
		AltSeparator string `mapstructure:"alt_separator"`
		HasHeader    bool   `mapstructure:"has_header"`
	}

	// Schedule contains the scheduler settings
	Schedule struct {
		PerComponent bool `mapstructure:"per_component"`
		MaxDays      int  `mapstructure:"max_days"`
	}

	// Report contains the output settings
	Report struct {
		BarWidth int  `mapstructure:"bar_width"`
		JSON     bool `mapstructure:"json"`
	}
)

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "warn")
	v.SetDefault("logger.encoding", "console")
	v.SetDefault("logger.development", false)
	v.SetDefault("input.format", string(ingest.FormatAuto))
	v.SetDefault("input.comma", ",")
	v.SetDefault("input.separator", ",")
	v.SetDefault("input.alt_separator", ";")
	v.SetDefault("input.has_header", false)
	v.SetDefault("schedule.per_component", true)
	v.SetDefault("schedule.max_days", resource.DefaultMaxDays)
	v.SetDefault("report.bar_width", 40)
	v.SetDefault("report.json", false)
}

// Load reads configuration into a Config. path names an explicit config
// file; when empty, critpath.{yaml,json,toml} in the working directory is
// used if present.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("critpath")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that decoding cannot.
func (c *Config) Validate() error {
	switch ingest.Format(c.Input.Format) {
	case ingest.FormatAuto, ingest.FormatCSV, ingest.FormatJSON:
	default:
		return fmt.Errorf("input.format: unsupported value %q (use auto, csv or json)", c.Input.Format)
	}
	if utf8.RuneCountInString(c.Input.Comma) != 1 {
		return fmt.Errorf("input.comma: expected a single character, got %q", c.Input.Comma)
	}
	if c.Input.Separator == "" {
		return fmt.Errorf("input.separator: must not be empty")
	}
	if c.Schedule.MaxDays < 1 {
		return fmt.Errorf("schedule.max_days: must be positive, got %d", c.Schedule.MaxDays)
	}
	if c.Report.BarWidth < 1 {
		return fmt.Errorf("report.bar_width: must be positive, got %d", c.Report.BarWidth)
	}
	return nil
}

// IngestOptions maps the input settings onto the record reader.
func (c *Config) IngestOptions() ingest.Options {
	comma, _ := utf8.DecodeRuneInString(c.Input.Comma)
	return ingest.Options{
		Format:       ingest.Format(c.Input.Format),
		Comma:        comma,
		Separator:    c.Input.Separator,
		AltSeparator: c.Input.AltSeparator,
		HasHeader:    c.Input.HasHeader,
	}
}

// GraphOptions maps the input settings onto the graph builder.
func (c *Config) GraphOptions() graph.Options {
	return graph.Options{Separator: c.Input.Separator}
}

// ScheduleOptions maps the schedule settings onto the scheduler.
func (c *Config) ScheduleOptions() cpm.Options {
	return cpm.Options{PerComponent: c.Schedule.PerComponent}
}

// LoadOptions maps the schedule settings onto the load aggregator.
func (c *Config) LoadOptions() resource.Options {
	return resource.Options{MaxDays: c.Schedule.MaxDays}
}
