package stress_test

import (
	"testing"
	"time"

	"github.com/dndgen/stressor/stress"
)

func TestSummaryPercentages(t *testing.T) {
	sum := stress.Summary{
		TimeLimit:            10 * time.Second,
		Elapsed:              2500 * time.Millisecond,
		Iterations:           250,
		ConfidenceIterations: 1000,
	}
	if got := sum.TimePercentage(); got != 25 {
		t.Errorf("TimePercentage() = %g, want 25", got)
	}
	if got := sum.IterationPercentage(); got != 25 {
		t.Errorf("IterationPercentage() = %g, want 25", got)
	}

	var zero stress.Summary
	if zero.TimePercentage() != 0 || zero.IterationPercentage() != 0 {
		t.Error("zero summary should report 0 percentages, not divide by zero")
	}
}

func TestSummaryStatus(t *testing.T) {
	if (stress.Summary{LikelyPassed: true}).Status() != "PASSED" {
		t.Error("Status() should be PASSED when LikelyPassed")
	}
	if (stress.Summary{}).Status() != "FAILED" {
		t.Error("Status() should be FAILED otherwise")
	}
}
