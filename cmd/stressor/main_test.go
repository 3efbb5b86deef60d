package main

import (
	"context"
	"strings"
	"testing"
)

func TestCommandActionSuccess(t *testing.T) {
	action := commandAction("true")
	if err := action(context.Background()); err != nil {
		t.Fatalf("action error = %v", err)
	}
}

func TestCommandActionFailureIncludesOutput(t *testing.T) {
	action := commandAction("echo went wrong >&2; exit 3")
	err := action(context.Background())
	if err == nil {
		t.Fatal("expected failing command to error")
	}
	if !strings.Contains(err.Error(), "went wrong") {
		t.Errorf("error missing command output: %v", err)
	}
}

func TestCommandActionHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := commandAction("sleep 10")(ctx); err == nil {
		t.Fatal("expected cancelled context to fail the command")
	}
}

func TestTruncateOutput(t *testing.T) {
	long := strings.Repeat("x", maxLoggedOutputBytes*2)
	got := truncateOutput([]byte("  " + long + "  "))
	if len(got) != maxLoggedOutputBytes {
		t.Errorf("len = %d, want %d", len(got), maxLoggedOutputBytes)
	}
	if got := truncateOutput([]byte("  short  \n")); got != "short" {
		t.Errorf("truncateOutput = %q, want %q", got, "short")
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	err := run([]string{"--command", "true"})
	if err == nil {
		t.Fatal("expected validation failure without test_count or discover")
	}
	if !strings.Contains(err.Error(), "test_count") {
		t.Errorf("error = %v, want test_count issue", err)
	}
}
