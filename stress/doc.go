// Package stress provides an iteration-budgeted test-execution harness.
//
// The stress package runs a repeatable unit of work over and over until
// a stopping condition is met: a confidence iteration threshold, a
// wall-clock budget derived from a shared CI time allotment divided
// across all known tests, or (for generation) a validity predicate.
// It then reports timing, throughput and pass/fail-likelihood figures
// through a pluggable logging collaborator.
//
// # Basic Usage
//
// Create a Stressor with options and run a test action under budget:
//
//	s, err := stress.New(stress.Options{
//		FullStress:           true,
//		TestCount:            42,
//		TimeLimitPercentage:  0.9,
//		BuildTimeLimit:       30 * time.Minute,
//		OutputTimeLimit:      10 * time.Second,
//		ConfidenceIterations: 1_000_000,
//	})
//	if err != nil {
//		return err
//	}
//	summary, err := s.Stress(stress.Run{
//		Invocation: stress.Invocation{Name: "MyTest", FullName: "pkg.MyTest"},
//		Test:       func() error { return doOneThing() },
//	})
//
// # Execution Families
//
// Four families share the same time/iteration budget:
//   - [Generate]: loop until a predicate accepts a produced value; unbounded.
//   - [GenerateOrFail]: the same loop, bounded; fails with
//     [ErrGenerationTimeout] when the budget runs out first.
//   - [Stressor.Stress]: sequential setup/test/teardown iterations.
//   - [Stressor.StressAsync]: iterations launched in concurrent batches of
//     Options.MaxConcurrentBatch; the stop condition is checked only at
//     batch boundaries, so the final iteration count can overshoot the
//     confidence threshold by at most MaxConcurrentBatch-1.
//
// # Budget Arithmetic
//
// The effective time limit for a full-stress run is
//
//	min(BuildTimeLimit*pct/testCount, OutputTimeLimit*pct)
//
// The build-time ceiling shares one CI job budget fairly across all tests;
// the output-time ceiling keeps a single test from going silent long enough
// for a CI watchdog to kill the job, and does not shrink as the test count
// grows. When FullStress is false the limit is a fixed one second so smoke
// runs stay fast.
//
// # Failure Transparency
//
// Errors returned by caller-supplied setup/test/teardown/produce functions
// propagate unwrapped, and panics are never swallowed; the run summary is
// still logged on the way out. Concurrent batches re-raise a worker panic
// with the original stack attached.
package stress
