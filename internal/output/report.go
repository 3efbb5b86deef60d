package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dndgen/stressor/stress"
)

// PrintReport outputs a human-readable summary report.
func PrintReport(w io.Writer, sum stress.Summary) {
	fmt.Fprintln(w, "\n--- Stress Run Results ---")
	fmt.Fprintf(w, "Run:               %s [%s]\n", sum.FullName, sum.RunID)
	fmt.Fprintf(w, "Time Limit:        %s\n", sum.TimeLimit)
	fmt.Fprintf(w, "Elapsed:           %s (%.1f%%)\n", sum.Elapsed, sum.TimePercentage())
	fmt.Fprintf(w, "Iterations:        %d (%.1f%% of confidence)\n", sum.Iterations, sum.IterationPercentage())
	fmt.Fprintf(w, "Iterations/sec:    %.2f\n", sum.IterationsPerSecond)
	fmt.Fprintf(w, "Likely Status:     %s\n", sum.Status())
}

// PrintJSONReport outputs a JSON-formatted report.
func PrintJSONReport(w io.Writer, sum stress.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sum)
}
