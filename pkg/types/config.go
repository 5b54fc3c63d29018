// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// OutputFormat selects how findings are rendered.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
)

// FailOnNone disables the findings-based exit status.
const FailOnNone Severity = "none"

// CheckConfig holds settings for the check stage.
type CheckConfig struct {
	// FailOn is the lowest severity that makes the run exit non-zero
	// (warning, info, or none).
	FailOn Severity `json:"fail_on" yaml:"fail_on" mapstructure:"fail_on"`

	// ReportUnverifiable emits info findings for claims paired with
	// snippets the classifier could not tag.
	ReportUnverifiable bool `json:"report_unverifiable" yaml:"report_unverifiable" mapstructure:"report_unverifiable"`

	// Extensions lists the file extensions picked up when a directory is
	// given as input (default .md, .markdown).
	Extensions []string `json:"extensions" yaml:"extensions" mapstructure:"extensions"`
}

// ReportConfig holds output settings.
type ReportConfig struct {
	Format OutputFormat `json:"format" yaml:"format" mapstructure:"format"`
}

// ArchiveConfig holds settings for the optional findings history.
type ArchiveConfig struct {
	// Dir is the directory that holds the history database.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// MaxResults is the default maximum number of query results (default 50).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// WatchConfig holds settings for watch mode.
type WatchConfig struct {
	// Debounce is how long to wait for further writes before re-checking.
	Debounce time.Duration `json:"debounce" yaml:"debounce" mapstructure:"debounce"`
}

// Config groups all settings loaded from snipcheck.yaml and the environment.
type Config struct {
	Verbose bool          `json:"verbose" yaml:"verbose" mapstructure:"verbose"`
	Check   CheckConfig   `json:"check" yaml:"check" mapstructure:"check"`
	Report  ReportConfig  `json:"report" yaml:"report" mapstructure:"report"`
	Archive ArchiveConfig `json:"archive" yaml:"archive" mapstructure:"archive"`
	Watch   WatchConfig   `json:"watch" yaml:"watch" mapstructure:"watch"`
}

// DefaultConfig returns the settings used when no config file is present.
func DefaultConfig() Config {
	return Config{
		Check: CheckConfig{
			FailOn:     SeverityWarning,
			Extensions: []string{".md", ".markdown"},
		},
		Report:  ReportConfig{Format: FormatText},
		Archive: ArchiveConfig{Dir: ".snipcheck", MaxResults: 50},
		Watch:   WatchConfig{Debounce: 300 * time.Millisecond},
	}
}

// Validate checks that enumerated settings hold known values.
func (c Config) Validate() error {
	if err := validation.ValidateStruct(&c.Check,
		validation.Field(&c.Check.FailOn, validation.Required,
			validation.In(SeverityWarning, SeverityInfo, FailOnNone)),
		validation.Field(&c.Check.Extensions, validation.Each(validation.Required)),
	); err != nil {
		return err
	}
	if err := validation.ValidateStruct(&c.Report,
		validation.Field(&c.Report.Format, validation.Required,
			validation.In(FormatText, FormatJSON, FormatYAML)),
	); err != nil {
		return err
	}
	if err := validation.ValidateStruct(&c.Archive,
		validation.Field(&c.Archive.MaxResults, validation.Min(0)),
	); err != nil {
		return err
	}
	return validation.ValidateStruct(&c.Watch,
		validation.Field(&c.Watch.Debounce, validation.Min(time.Duration(0))),
	)
}
