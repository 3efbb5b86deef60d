package config

import (
	"fmt"
	"strings"
	"time"
)

// Config drives one stressor CLI invocation.
type Config struct {
	// Command is the shell command executed on every iteration.
	Command string `mapstructure:"command"`

	FullStress      bool          `mapstructure:"full_stress"`
	TestCount       int           `mapstructure:"test_count"`
	DiscoverDir     string        `mapstructure:"discover"`
	Percentage      float64       `mapstructure:"percentage"`
	BuildTimeLimit  time.Duration `mapstructure:"build_time_limit"`
	OutputTimeLimit time.Duration `mapstructure:"output_time_limit"`
	Confidence      int           `mapstructure:"confidence"`
	Batch           int           `mapstructure:"batch"`
	Rate            int           `mapstructure:"rate"`
	Async           bool          `mapstructure:"async"`

	Name       string        `mapstructure:"name"`
	JSONOutput bool          `mapstructure:"json_output"`
	Heartbeat  time.Duration `mapstructure:"heartbeat"`
	ConfigFile string        `mapstructure:"-"`

	Tracing TracingConfig `mapstructure:"tracing"`
}

// TracingConfig controls the optional OpenTelemetry exporter.
type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Endpoint    string  `mapstructure:"endpoint"`
	Protocol    string  `mapstructure:"protocol"`
	Insecure    bool    `mapstructure:"insecure"`
	SampleRate  float64 `mapstructure:"sample_rate"`
	ServiceName string  `mapstructure:"service_name"`
}

// ValidationError aggregates configuration issues.
type ValidationError struct {
	issues []string
}

func (e *ValidationError) Error() string {
	if len(e.issues) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.issues, "; "))
}

func (e *ValidationError) Issues() []string {
	return append([]string(nil), e.issues...)
}

func (c Config) Validate() error {
	var issues []string

	if strings.TrimSpace(c.Command) == "" {
		issues = append(issues, "command is required (use --help for usage information)")
	}
	if c.TestCount < 0 {
		issues = append(issues, "test_count must be >= 0")
	}
	if c.TestCount > 0 && strings.TrimSpace(c.DiscoverDir) != "" {
		issues = append(issues, "test_count and discover are mutually exclusive")
	}
	if c.TestCount == 0 && strings.TrimSpace(c.DiscoverDir) == "" {
		issues = append(issues, "either test_count or discover is required")
	}
	if c.Percentage <= 0 || c.Percentage > 1 {
		issues = append(issues, "percentage must be in (0, 1]")
	}
	if c.BuildTimeLimit < 0 {
		issues = append(issues, "build_time_limit must be >= 0")
	}
	if c.OutputTimeLimit < 0 {
		issues = append(issues, "output_time_limit must be >= 0")
	}
	if c.Confidence < 0 {
		issues = append(issues, "confidence must be >= 0")
	}
	if c.Batch < 0 {
		issues = append(issues, "batch must be >= 0")
	}
	if c.Batch > 1 && !c.Async {
		issues = append(issues, "batch > 1 requires --async")
	}
	if c.Rate < 0 {
		issues = append(issues, "rate must be >= 0")
	}
	if c.Heartbeat < 0 {
		issues = append(issues, "heartbeat must be >= 0")
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		issues = append(issues, "tracing.sample_rate must be between 0.0 and 1.0")
	}

	if len(issues) > 0 {
		return &ValidationError{issues: issues}
	}
	return nil
}
