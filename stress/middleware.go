package stress

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// WithFailureLog wraps an Action to log each failure through the logger.
// The original error is returned unchanged.
func WithFailureLog(action Action, logger Logger) Action {
	if logger == nil {
		return action
	}
	return func(ctx context.Context) error {
		err := action(ctx)
		if err != nil {
			logger.Log(fmt.Sprintf("Iteration failed: %v", err))
		}
		return err
	}
}

// WithSpan wraps an Action so every iteration runs inside its own span.
// The span records the iteration's error, but the error still propagates
// unchanged to the stress loop.
func WithSpan(action Action, tracer trace.Tracer, name string) Action {
	if tracer == nil {
		return action
	}
	return func(ctx context.Context) error {
		ctx, span := tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindInternal))
		err := action(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
		return err
	}
}
