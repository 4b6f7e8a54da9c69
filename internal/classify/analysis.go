package classify

import (
	"sort"

	"github.com/rhwb/cadence/internal/store"
)

// Result pairs a comment with its computed category.
type Result struct {
	Comment  store.Comment
	Category Category
}

// ClassifyAll runs the cascade over every comment.
func ClassifyAll(comments []store.Comment) []Result {
	results := make([]Result, 0, len(comments))
	for _, c := range comments {
		results = append(results, Result{
			Comment:  c,
			Category: Classify(c.Text),
		})
	}
	return results
}

// Distribution accumulates per-category counts.
type Distribution struct {
	counts map[Category]int
	total  int
}

// NewDistribution returns an empty distribution.
func NewDistribution() *Distribution {
	return &Distribution{counts: make(map[Category]int)}
}

// DistributionOf builds a distribution from classification results.
func DistributionOf(results []Result) *Distribution {
	d := NewDistribution()
	for _, r := range results {
		d.Add(r.Category)
	}
	return d
}

// DistributionOfLabels builds a distribution from raw labels read back from
// the store. Labels outside the known enumeration are counted as-is so the
// verification report surfaces them rather than hiding them.
func DistributionOfLabels(labels []string) *Distribution {
	d := NewDistribution()
	for _, l := range labels {
		d.Add(Category(l))
	}
	return d
}

// Add records one occurrence of a category.
func (d *Distribution) Add(c Category) {
	d.counts[c]++
	d.total++
}

// Total returns the number of recorded occurrences.
func (d *Distribution) Total() int {
	return d.total
}

// Count returns the occurrences of a single category.
func (d *Distribution) Count(c Category) int {
	return d.counts[c]
}

// Entry is one row of a distribution report.
type Entry struct {
	Category Category
	Count    int
	Percent  float64
}

// Entries returns the distribution sorted by count descending. Ties break on
// cascade order so report output is stable across runs.
func (d *Distribution) Entries() []Entry {
	rank := make(map[Category]int, 5)
	for i, c := range Categories() {
		rank[c] = i
	}

	entries := make([]Entry, 0, len(d.counts))
	for c, n := range d.counts {
		e := Entry{Category: c, Count: n}
		if d.total > 0 {
			e.Percent = float64(n) / float64(d.total) * 100
		}
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		ri, iKnown := rank[entries[i].Category]
		rj, jKnown := rank[entries[j].Category]
		switch {
		case iKnown && jKnown:
			return ri < rj
		case iKnown:
			return true
		case jKnown:
			return false
		default:
			return entries[i].Category < entries[j].Category
		}
	})

	return entries
}

// Samples collects up to n comment texts per category for the pre-write
// preview, truncated for display.
func Samples(results []Result, n int) map[Category][]string {
	samples := make(map[Category][]string)
	for _, r := range results {
		if len(samples[r.Category]) >= n {
			continue
		}
		samples[r.Category] = append(samples[r.Category], Truncate(r.Comment.Text, 100))
	}
	return samples
}

// Truncate shortens text to at most max runes, appending an ellipsis when
// anything was cut.
func Truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
