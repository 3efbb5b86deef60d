package stress

import (
	"context"
	"errors"
)

// ErrGenerationTimeout is returned by GenerateOrFail when the time or
// iteration budget runs out before the predicate accepts a value.
var ErrGenerationTimeout = errors.New("Generation timed out")

// Generate repeats produce until isValid accepts the result and returns
// that result. There is no time or iteration bound: the caller asserts the
// loop terminates. It touches no run state, logs nothing and applies no
// setup or teardown, which makes it safe to nest inside the bounded
// flavors to generate one valid value per outer iteration. A produce error
// is returned unwrapped immediately.
func Generate[T any](produce func() (T, error), isValid func(T) bool) (T, error) {
	for {
		v, err := produce()
		if err != nil {
			var zero T
			return zero, err
		}
		if isValid(v) {
			return v, nil
		}
	}
}

// GenerateOrFail runs the same generation loop bounded by the stressor's
// time limit and confidence iteration count. It returns the first valid
// result, or ErrGenerationTimeout when the budget is exhausted with the
// last attempt still invalid. A produce error propagates unwrapped. The
// run summary is logged on every exit path.
func GenerateOrFail[T any](s *Stressor, inv Invocation, produce func() (T, error), isValid func(T) bool) (T, error) {
	var zero T
	if produce == nil || isValid == nil {
		return zero, errors.New("stress: produce and isValid are required")
	}

	st := s.beginRun(inv)
	defer s.endRun(inv, st)

	for {
		if err := s.pace(context.Background()); err != nil {
			return zero, err
		}
		v, err := produce()
		st.iterations++
		if err != nil {
			return zero, err
		}
		if isValid(v) {
			st.generatedOnce = true
			return v, nil
		}
		if !s.shouldContinue(st) {
			st.generationFailed = true
			return zero, ErrGenerationTimeout
		}
	}
}
