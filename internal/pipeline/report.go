package pipeline

import (
	"fmt"
	"io"
	"strings"

	"github.com/rhwb/cadence/internal/classify"
)

// banner prints a stage heading with an underline rule.
func banner(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n%s\n", title, strings.Repeat("=", 50))
}

// writeDistribution prints one line per category, count descending.
func writeDistribution(w io.Writer, dist *classify.Distribution) {
	for _, e := range dist.Entries() {
		fmt.Fprintf(w, "  %s: %d (%.2f%%)\n", e.Category, e.Count, e.Percent)
	}
}

// writeSamples prints up to n example comments per category so a human can
// sanity-check the cascade before the irreversible write.
func writeSamples(w io.Writer, results []classify.Result, n int, dist *classify.Distribution) {
	samples := classify.Samples(results, n)

	banner(w, "SAMPLE COMMENTS BY CATEGORY")
	for _, category := range classify.Categories() {
		texts := samples[category]
		if len(texts) == 0 {
			continue
		}

		total := dist.Count(category)
		fmt.Fprintf(w, "\n%s (%d total):\n", category, total)
		for i, text := range texts {
			fmt.Fprintf(w, "  %d. %q\n", i+1, text)
		}
		if total > len(texts) {
			fmt.Fprintf(w, "  ... and %d more\n", total-len(texts))
		}
	}
}
