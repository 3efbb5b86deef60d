package stress

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sourcegraph/conc"
	"golang.org/x/time/rate"
)

// Invocation identifies the test on whose behalf a top-level call runs.
// It is passed explicitly instead of being pulled from an ambient
// test-framework context.
type Invocation struct {
	// Name is the display name used in the beginning banner.
	Name string
	// FullName is the fully-qualified name printed in the summary.
	FullName string
}

// Action is a single unit of asynchronous work.
type Action func(ctx context.Context) error

// Run describes one synchronous stress invocation. Setup and Teardown are
// optional and pair 1:1 with Test on every iteration.
type Run struct {
	Invocation

	Setup    func() error
	Test     func() error
	Teardown func() error

	// OnIteration, if set, is called after each completed iteration with
	// the number of iterations completed so far.
	OnIteration func(completed int64)
}

// AsyncRun describes one concurrent-batched stress invocation. Iterations
// within a batch run truly in parallel; any state shared across them is the
// caller's responsibility and must be concurrency-safe. OnIteration is
// invoked from worker goroutines.
type AsyncRun struct {
	Invocation

	Setup    Action
	Test     Action
	Teardown Action

	OnIteration func(completed int64)
}

// runState tracks one top-level invocation. Each call owns its own state;
// nothing here is shared across concurrent invocations.
type runState struct {
	id               string
	start            time.Time
	iterations       int64
	generatedOnce    bool
	generationFailed bool
}

func (st *runState) elapsed() time.Duration {
	return time.Since(st.start)
}

// Stressor drives the iterate-until-stop loop for one fixed configuration.
// A single Stressor may be shared by many invocations; the options are
// read-only after construction.
type Stressor struct {
	opt       Options
	testCount int
	timeLimit time.Duration
	logger    Logger
	limiter   *rate.Limiter
}

// New validates the options, resolves the test count and computes the
// effective time limit. It fails with a *ValidationError for invalid
// options and with ErrNoTestsDetected when the resolved count is zero.
func New(opt Options) (*Stressor, error) {
	opt.normalize()
	if err := opt.Validate(); err != nil {
		return nil, err
	}

	count := opt.TestCount
	if count == 0 {
		discovered, err := opt.TestCounter.CountTests()
		if err != nil {
			return nil, fmt.Errorf("counting tests: %w", err)
		}
		if discovered < 0 {
			return nil, fmt.Errorf("test counter returned a negative count: %d", discovered)
		}
		count = discovered
	}
	if count == 0 {
		return nil, ErrNoTestsDetected
	}

	s := &Stressor{
		opt:       opt,
		testCount: count,
		timeLimit: computeTimeLimit(opt, count),
		logger:    opt.Logger,
	}
	if opt.RatePerSecond > 0 {
		s.limiter = opt.LimiterFactory(opt.RatePerSecond)
	}
	return s, nil
}

// TimeLimit returns the effective per-invocation time budget.
func (s *Stressor) TimeLimit() time.Duration {
	return s.timeLimit
}

// TestCount returns the resolved number of tests sharing the build budget.
func (s *Stressor) TestCount() int {
	return s.testCount
}

// Stress runs the test action sequentially until the time or iteration
// budget is exhausted. One iteration fully completes (setup, test,
// teardown) before the next begins. An error from any of the three stops
// the loop immediately and is returned unwrapped; the summary is still
// logged first. Running out of budget is not an error.
func (s *Stressor) Stress(run Run) (Summary, error) {
	if run.Test == nil {
		return Summary{}, errors.New("stress: run.Test is required")
	}

	st := s.beginRun(run.Invocation)
	defer s.endRun(run.Invocation, st)

	for {
		if err := s.pace(context.Background()); err != nil {
			return s.summarize(run.Invocation, st), err
		}
		if err := runIteration(run.Setup, run.Test, run.Teardown); err != nil {
			return s.summarize(run.Invocation, st), err
		}
		st.iterations++
		if run.OnIteration != nil {
			run.OnIteration(st.iterations)
		}
		if !s.shouldContinue(st) {
			return s.summarize(run.Invocation, st), nil
		}
	}
}

// StressAsync runs the test action in concurrent batches of
// Options.MaxConcurrentBatch. A batch always completes in full before the
// stop condition is checked, so the final iteration count may overshoot
// the confidence threshold by up to MaxConcurrentBatch-1. The first error
// observed in a batch is returned unwrapped once the whole batch has
// joined; a worker panic is re-raised with its original stack attached.
func (s *Stressor) StressAsync(ctx context.Context, run AsyncRun) (Summary, error) {
	if run.Test == nil {
		return Summary{}, errors.New("stress: run.Test is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	st := s.beginRun(run.Invocation)
	defer s.endRun(run.Invocation, st)

	batch := s.opt.MaxConcurrentBatch
	var hookCount atomic.Int64
	for {
		errs := make([]error, batch)
		var wg conc.WaitGroup
		for i := 0; i < batch; i++ {
			if err := s.pace(ctx); err != nil {
				wg.Wait()
				return s.summarize(run.Invocation, st), err
			}
			i := i
			wg.Go(func() {
				errs[i] = runAsyncIteration(ctx, run.Setup, run.Test, run.Teardown)
				if errs[i] == nil && run.OnIteration != nil {
					run.OnIteration(hookCount.Add(1))
				}
			})
		}
		// Joins the whole batch; re-panics with the worker's original
		// stack if any iteration panicked.
		wg.Wait()

		st.iterations += int64(batch)
		for _, err := range errs {
			if err != nil {
				return s.summarize(run.Invocation, st), err
			}
		}
		if !s.shouldContinue(st) {
			return s.summarize(run.Invocation, st), nil
		}
	}
}

// shouldContinue is the stop condition shared by all bounded flavors.
func (s *Stressor) shouldContinue(st *runState) bool {
	return st.elapsed() < s.timeLimit && st.iterations < int64(s.opt.ConfidenceIterations)
}

func (s *Stressor) pace(ctx context.Context) error {
	if s.limiter == nil {
		return nil
	}
	return s.limiter.Wait(ctx)
}

func (s *Stressor) beginRun(inv Invocation) *runState {
	st := &runState{
		id:    ulid.Make().String(),
		start: time.Now(),
	}
	s.logger.Log(fmt.Sprintf("Beginning stress run %s [%s]", inv.Name, st.id))
	s.logger.Log(fmt.Sprintf("Time limit: %s", s.timeLimit))
	return st
}

// endRun logs the summary. It runs via defer so the summary is written
// even when a user action fails or panics.
func (s *Stressor) endRun(inv Invocation, st *runState) {
	s.logSummary(s.summarize(inv, st))
}

// runIteration executes one setup/test/teardown triple. Teardown runs
// whenever setup succeeded, keeping the 1:1 pairing even when the test
// fails; the test's error takes priority over a teardown error.
func runIteration(setup, test, teardown func() error) error {
	if setup != nil {
		if err := setup(); err != nil {
			return err
		}
	}
	err := test()
	if teardown != nil {
		if tdErr := teardown(); err == nil {
			err = tdErr
		}
	}
	return err
}

func runAsyncIteration(ctx context.Context, setup, test, teardown Action) error {
	if setup != nil {
		if err := setup(ctx); err != nil {
			return err
		}
	}
	err := test(ctx)
	if teardown != nil {
		if tdErr := teardown(ctx); err == nil {
			err = tdErr
		}
	}
	return err
}
