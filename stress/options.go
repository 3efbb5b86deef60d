package stress

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// smokeTimeLimit is the fixed budget used when FullStress is off.
	smokeTimeLimit = time.Second

	defaultConfidenceIterations = 1_000_000
	defaultBuildTimeLimit       = 10 * time.Minute
	defaultOutputTimeLimit      = 10 * time.Second
)

// ErrNoTestsDetected is returned by New when the resolved test count is
// zero. A zero-size budget denominator indicates a caller or configuration
// error, not a valid empty state.
var ErrNoTestsDetected = errors.New("no tests detected")

// TestCounter reports how many tests exist in some external registry of
// declared tests. The Stressor only needs the resulting integer; it never
// inspects the test metadata itself.
type TestCounter interface {
	CountTests() (int, error)
}

// Options configure a Stressor. Construct once, hand to New, and treat as
// read-only afterwards.
type Options struct {
	// FullStress selects the computed real time budget. When false the
	// time limit is forced to one second regardless of other settings,
	// for fast local and CI-smoke runs.
	FullStress bool

	// TestCount is the explicit total number of tests sharing the build
	// time budget. Mutually exclusive with TestCounter.
	TestCount int

	// TestCounter discovers the test count when TestCount is not set.
	// An explicit TestCount wins and discovery is skipped entirely.
	TestCounter TestCounter

	// TimeLimitPercentage scales both time ceilings. Must be in (0, 1];
	// a zero value defaults to 1.
	TimeLimitPercentage float64

	// BuildTimeLimit is the total CI job budget shared across all tests.
	BuildTimeLimit time.Duration

	// OutputTimeLimit is the per-test silence ceiling that keeps a CI
	// watchdog from killing the job. It does not shrink with test count.
	OutputTimeLimit time.Duration

	// ConfidenceIterations is the iteration count considered sufficient
	// to trust a passing result without exhausting the full time budget.
	ConfidenceIterations int

	// MaxConcurrentBatch bounds concurrently in-flight iterations for
	// StressAsync. Minimum 1.
	MaxConcurrentBatch int

	// RatePerSecond caps how fast iterations are launched, so a stress
	// run does not monopolize a shared CI machine. 0 means unlimited.
	RatePerSecond int

	// LimiterFactory is an optional injection point for tests.
	LimiterFactory func(rps int) *rate.Limiter

	// Logger receives the run summary. Defaults to stdout.
	Logger Logger
}

func (o *Options) normalize() {
	if o.TimeLimitPercentage == 0 {
		o.TimeLimitPercentage = 1
	}
	if o.ConfidenceIterations <= 0 {
		o.ConfidenceIterations = defaultConfidenceIterations
	}
	if o.MaxConcurrentBatch <= 0 {
		o.MaxConcurrentBatch = 1
	}
	if o.BuildTimeLimit <= 0 {
		o.BuildTimeLimit = defaultBuildTimeLimit
	}
	if o.OutputTimeLimit <= 0 {
		o.OutputTimeLimit = defaultOutputTimeLimit
	}
	if o.RatePerSecond < 0 {
		o.RatePerSecond = 0
	}
	if o.Logger == nil {
		o.Logger = defaultLogger()
	}
	if o.LimiterFactory == nil {
		o.LimiterFactory = func(rps int) *rate.Limiter {
			if rps <= 0 {
				return rate.NewLimiter(rate.Inf, 0)
			}
			// Burst equal to rps to smooth pacing under concurrency.
			return rate.NewLimiter(rate.Limit(rps), rps)
		}
	}
}

// ValidationError aggregates everything wrong with a set of Options.
type ValidationError struct {
	issues []string
}

func (e *ValidationError) Error() string {
	if len(e.issues) == 0 {
		return "stress options are not valid"
	}
	return fmt.Sprintf("stress options are not valid: %s", strings.Join(e.issues, "; "))
}

// Issues returns the individual validation failures.
func (e *ValidationError) Issues() []string {
	return append([]string(nil), e.issues...)
}

// Validate reports whether the options describe a runnable configuration.
// Exactly one of TestCount and TestCounter must be set, and the time limit
// percentage must fall in (0, 1].
func (o Options) Validate() error {
	var issues []string

	if o.TestCount < 0 {
		issues = append(issues, "test count must be >= 0")
	}
	if o.TestCount > 0 && o.TestCounter != nil {
		issues = append(issues, "test count and test counter are mutually exclusive")
	}
	if o.TestCount == 0 && o.TestCounter == nil {
		issues = append(issues, "either a test count or a test counter is required")
	}
	if o.TimeLimitPercentage <= 0 || o.TimeLimitPercentage > 1 {
		issues = append(issues, fmt.Sprintf("time limit percentage must be in (0, 1], got %g", o.TimeLimitPercentage))
	}

	if len(issues) > 0 {
		return &ValidationError{issues: issues}
	}
	return nil
}

// computeTimeLimit derives the effective per-test budget. The build ceiling
// is divided fairly across all tests; the output ceiling is per test. The
// minimum guarantees both constraints hold simultaneously.
func computeTimeLimit(o Options, testCount int) time.Duration {
	if !o.FullStress {
		return smokeTimeLimit
	}
	perTestBuildBudget := time.Duration(float64(o.BuildTimeLimit) * o.TimeLimitPercentage / float64(testCount))
	outputBudget := time.Duration(float64(o.OutputTimeLimit) * o.TimeLimitPercentage)
	if outputBudget < perTestBuildBudget {
		return outputBudget
	}
	return perTestBuildBudget
}
