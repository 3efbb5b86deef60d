// Command stressor runs an arbitrary shell command repeatedly under a CI
// time and iteration budget and reports throughput and a likely verdict.
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/dndgen/stressor/discovery"
	"github.com/dndgen/stressor/internal/config"
	"github.com/dndgen/stressor/internal/output"
	"github.com/dndgen/stressor/internal/tracing"
	"github.com/dndgen/stressor/stress"
)

const maxLoggedOutputBytes = 512

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	loader := config.NewLoader()
	cfg, err := loader.Load(args)
	if err != nil {
		if errors.Is(err, config.ErrHelpRequested) {
			return nil
		}
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		_ = provider.Shutdown(context.Background())
	}()

	opt := stress.Options{
		FullStress:           cfg.FullStress,
		TestCount:            cfg.TestCount,
		TimeLimitPercentage:  cfg.Percentage,
		BuildTimeLimit:       cfg.BuildTimeLimit,
		OutputTimeLimit:      cfg.OutputTimeLimit,
		ConfidenceIterations: cfg.Confidence,
		MaxConcurrentBatch:   cfg.Batch,
		RatePerSecond:        cfg.Rate,
	}
	if cfg.DiscoverDir != "" {
		opt.TestCounter = discovery.New(cfg.DiscoverDir)
	}
	if cfg.JSONOutput {
		// Keep stdout machine-readable; the summary log would interleave.
		opt.Logger = stress.NewWriterLogger(io.Discard)
	}

	stressor, err := stress.New(opt)
	if err != nil {
		return err
	}

	name := cfg.Name
	if name == "" {
		name = cfg.Command
	}
	inv := stress.Invocation{Name: name, FullName: name}

	var heartbeat *output.Heartbeat
	onIteration := func(int64) {}
	if cfg.Heartbeat > 0 && !cfg.JSONOutput {
		heartbeat = output.NewHeartbeat(cfg.Heartbeat, os.Stderr)
		heartbeat.Start()
		onIteration = heartbeat.Observe
	}

	action := stress.WithSpan(commandAction(cfg.Command), provider.Tracer(), "iteration")

	var sum stress.Summary
	var runErr error
	if cfg.Async {
		sum, runErr = stressor.StressAsync(ctx, stress.AsyncRun{
			Invocation:  inv,
			Test:        action,
			OnIteration: onIteration,
		})
	} else {
		sum, runErr = stressor.Stress(stress.Run{
			Invocation:  inv,
			Test:        func() error { return action(ctx) },
			OnIteration: onIteration,
		})
	}
	if heartbeat != nil {
		heartbeat.Stop()
	}
	if runErr != nil {
		return runErr
	}

	if cfg.JSONOutput {
		if err := output.PrintJSONReport(os.Stdout, sum); err != nil {
			return err
		}
	} else {
		output.PrintReport(os.Stdout, sum)
	}

	if !sum.LikelyPassed {
		return errors.New("stress run likely failed")
	}
	return nil
}

// commandAction runs the configured shell command once per iteration.
func commandAction(command string) stress.Action {
	return func(ctx context.Context) error {
		cmd := exec.CommandContext(ctx, "sh", "-c", command)
		out, err := cmd.CombinedOutput()
		if err != nil {
			return fmt.Errorf("command failed: %w: %s", err, truncateOutput(out))
		}
		return nil
	}
}

func truncateOutput(out []byte) string {
	out = bytes.TrimSpace(out)
	if len(out) > maxLoggedOutputBytes {
		out = out[:maxLoggedOutputBytes]
	}
	return string(out)
}
