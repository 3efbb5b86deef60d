package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/dndgen/stressor/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Command:         "go test ./...",
		TestCount:       5,
		Percentage:      1,
		BuildTimeLimit:  10 * time.Minute,
		OutputTimeLimit: 10 * time.Second,
		Confidence:      1000,
		Batch:           1,
	}
}

func TestValidateAcceptsGoodConfig(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestValidateIssues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		wantIn string
	}{
		{
			name:   "missing command",
			mutate: func(c *config.Config) { c.Command = "  " },
			wantIn: "command is required",
		},
		{
			name: "count and discover both set",
			mutate: func(c *config.Config) {
				c.TestCount = 3
				c.DiscoverDir = "./pkg"
			},
			wantIn: "mutually exclusive",
		},
		{
			name: "neither count nor discover",
			mutate: func(c *config.Config) {
				c.TestCount = 0
				c.DiscoverDir = ""
			},
			wantIn: "either test_count or discover is required",
		},
		{
			name:   "percentage out of range",
			mutate: func(c *config.Config) { c.Percentage = 1.2 },
			wantIn: "percentage must be in (0, 1]",
		},
		{
			name: "batch without async",
			mutate: func(c *config.Config) {
				c.Batch = 8
				c.Async = false
			},
			wantIn: "requires --async",
		},
		{
			name:   "negative rate",
			mutate: func(c *config.Config) { c.Rate = -1 },
			wantIn: "rate must be >= 0",
		},
		{
			name:   "bad tracing sample rate",
			mutate: func(c *config.Config) { c.Tracing.SampleRate = 2 },
			wantIn: "sample_rate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			verr, ok := err.(*config.ValidationError)
			if !ok {
				t.Fatalf("error type = %T, want *ValidationError", err)
			}
			found := false
			for _, issue := range verr.Issues() {
				if strings.Contains(issue, tt.wantIn) {
					found = true
				}
			}
			if !found {
				t.Errorf("issues %v missing %q", verr.Issues(), tt.wantIn)
			}
		})
	}
}

func TestValidateAggregatesMultipleIssues(t *testing.T) {
	cfg := config.Config{Percentage: -1}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want error")
	}
	verr, ok := err.(*config.ValidationError)
	if !ok {
		t.Fatalf("error type = %T, want *ValidationError", err)
	}
	if len(verr.Issues()) < 3 {
		t.Errorf("issues = %v, want at least command, count and percentage problems", verr.Issues())
	}
}
