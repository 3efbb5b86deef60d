package discovery_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dndgen/stressor/discovery"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

const sampleTests = `package sample

import "testing"

func TestAlpha(t *testing.T) {}

func TestBeta(t *testing.T) {
	t.Log("beta")
}

// Testify is not a test: lower-case rune after the prefix.
func Testify(t *testing.T) {}

func TestMain(m *testing.M) {}

func BenchmarkAlpha(b *testing.B) {}

func helper(t *testing.T) {}

func Test(t *testing.T) {}
`

const skippedTests = `package sample

import "testing"

func TestIgnored(t *testing.T) {
	t.Skip("permanently disabled")
}

func TestIgnoredNow(t *testing.T) {
	t.SkipNow()
}

func TestConditionalSkip(t *testing.T) {
	if testing.Short() {
		t.Skip("short mode")
	}
}
`

func TestCountTests(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sample_test.go", sampleTests)
	// Non-test files are never parsed.
	writeFile(t, dir, "sample.go", "package sample\n\nfunc TestLookalike() {}\n")

	count, err := discovery.New(dir).CountTests()
	if err != nil {
		t.Fatalf("CountTests() error = %v", err)
	}
	// TestAlpha, TestBeta, Test.
	if count != 3 {
		t.Errorf("CountTests() = %d, want 3", count)
	}
}

func TestCountTestsExcludesSkipped(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "skipped_test.go", skippedTests)

	count, err := discovery.New(dir).CountTests()
	if err != nil {
		t.Fatalf("CountTests() error = %v", err)
	}
	// Only TestConditionalSkip: its skip is not unconditional.
	if count != 1 {
		t.Errorf("CountTests() = %d, want 1", count)
	}

	c := discovery.New(dir)
	c.IncludeSkipped = true
	count, err = c.CountTests()
	if err != nil {
		t.Fatalf("CountTests() error = %v", err)
	}
	if count != 3 {
		t.Errorf("CountTests() with IncludeSkipped = %d, want 3", count)
	}
}

func TestCountTestsAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a_test.go", "package sample\n\nimport \"testing\"\n\nfunc TestA(t *testing.T) {}\n")
	writeFile(t, dir, "b_test.go", "package sample\n\nimport \"testing\"\n\nfunc TestB(t *testing.T) {}\nfunc TestC(t *testing.T) {}\n")

	count, err := discovery.New(dir).CountTests()
	if err != nil {
		t.Fatalf("CountTests() error = %v", err)
	}
	if count != 3 {
		t.Errorf("CountTests() = %d, want 3", count)
	}
}

func TestCountTestsEmptyDirectory(t *testing.T) {
	count, err := discovery.New(t.TempDir()).CountTests()
	if err != nil {
		t.Fatalf("CountTests() error = %v", err)
	}
	if count != 0 {
		t.Errorf("CountTests() = %d, want 0", count)
	}
}

func TestCountTestsMissingDirectory(t *testing.T) {
	if _, err := discovery.New(filepath.Join(t.TempDir(), "nope")).CountTests(); err == nil {
		t.Error("CountTests() on a missing directory should fail")
	}
}

func TestCountTestsBadSyntax(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken_test.go", "package sample\n\nfunc Test {")

	if _, err := discovery.New(dir).CountTests(); err == nil {
		t.Error("CountTests() on unparseable source should fail")
	}
}
