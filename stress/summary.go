package stress

import (
	"fmt"
	"time"
)

// Summary reports what one top-level invocation accomplished. The likely
// status is a heuristic, not a correctness proof: only exception-free
// completions reach it, since a failing user action short-circuits the run
// and surfaces to the caller directly.
type Summary struct {
	RunID                string        `json:"run_id"`
	Name                 string        `json:"name"`
	FullName             string        `json:"full_name"`
	TimeLimit            time.Duration `json:"-"`
	Elapsed              time.Duration `json:"-"`
	Iterations           int64         `json:"iterations"`
	ConfidenceIterations int           `json:"confidence_iterations"`
	IterationsPerSecond  float64       `json:"iterations_per_sec"`
	LikelyPassed         bool          `json:"likely_passed"`

	// JSON-friendly second fields.
	TimeLimitSeconds float64 `json:"time_limit_seconds"`
	ElapsedSeconds   float64 `json:"elapsed_seconds"`
}

// TimePercentage returns elapsed time as a percentage of the time limit.
func (sum Summary) TimePercentage() float64 {
	if sum.TimeLimit <= 0 {
		return 0
	}
	return float64(sum.Elapsed) / float64(sum.TimeLimit) * 100
}

// IterationPercentage returns completed iterations as a percentage of the
// confidence threshold.
func (sum Summary) IterationPercentage() float64 {
	if sum.ConfidenceIterations <= 0 {
		return 0
	}
	return float64(sum.Iterations) / float64(sum.ConfidenceIterations) * 100
}

// Status renders the likely verdict.
func (sum Summary) Status() string {
	if sum.LikelyPassed {
		return "PASSED"
	}
	return "FAILED"
}

func (s *Stressor) summarize(inv Invocation, st *runState) Summary {
	elapsed := st.elapsed()
	sum := Summary{
		RunID:                st.id,
		Name:                 inv.Name,
		FullName:             inv.FullName,
		TimeLimit:            s.timeLimit,
		Elapsed:              elapsed,
		Iterations:           st.iterations,
		ConfidenceIterations: s.opt.ConfidenceIterations,
		TimeLimitSeconds:     s.timeLimit.Seconds(),
		ElapsedSeconds:       elapsed.Seconds(),
	}
	if elapsed > 0 {
		sum.IterationsPerSecond = float64(st.iterations) / elapsed.Seconds()
	}

	timeExhausted := elapsed >= s.timeLimit
	iterationsExhausted := st.iterations >= int64(s.opt.ConfidenceIterations)
	sum.LikelyPassed = (timeExhausted || iterationsExhausted || st.generatedOnce) && !st.generationFailed
	return sum
}

func (s *Stressor) logSummary(sum Summary) {
	s.logger.Log("Stress run complete")
	s.logger.Log(sum.FullName)
	s.logger.Log(fmt.Sprintf("\tTime: %s (%.1f%% of time limit)", sum.Elapsed, sum.TimePercentage()))
	s.logger.Log(fmt.Sprintf("\tCompleted iterations: %d (%.1f%% of confidence)", sum.Iterations, sum.IterationPercentage()))
	s.logger.Log(fmt.Sprintf("\tIterations per second: %.1f", sum.IterationsPerSecond))
	s.logger.Log(fmt.Sprintf("\tLikely status: %s", sum.Status()))
}
