// Package classify implements the rule-based categorization of coach comments.
// It provides the category enumeration, the deterministic classification
// cascade, and aggregation helpers for reporting category distributions.
package classify

import (
	"regexp"
	"strings"
)

// Category is the label assigned to a coach comment. Exactly one category is
// assigned per comment.
type Category string

const (
	Acknowledgement   Category = "Acknowledgement"
	TechnicalFeedback Category = "Technical Feedback"
	Motivation        Category = "Motivation & Encouragement"
	PositiveFeedback  Category = "Positive Feedback"
	General           Category = "General"
)

// Categories returns all categories in cascade evaluation order.
func Categories() []Category {
	return []Category{
		Acknowledgement,
		TechnicalFeedback,
		Motivation,
		PositiveFeedback,
		General,
	}
}

// cleanPattern strips HTML-entity-like substrings and collapses non-word runs
// before word counting. Comments arrive from the coaching UI with escaped
// markup, non-breaking spaces and decimal character references embedded in the
// raw text.
var cleanPattern = regexp.MustCompile(`&lt;.*?&gt;|&nbsp;|&amp;#\d+;|\W+`)

var technicalTerms = []string{
	"hr", "heart rate", "cadence", "pace", "stride", "form",
	"technique", "split", "tempo", "speed", "distance", "km",
	"miles", "elevation", "intervals", "recovery", "metrics",
}

var encouragementTerms = []string{
	"great job", "well done", "keep it up", "good work",
	"awesome", "amazing", "proud", "impressed", "keep going",
	"encouraging", "motivating", "fantastic", "excellent",
	"wonderful", "superb", "terrific", "bravo", "kudos",
}

var positiveTerms = []string{
	"good", "nice", "great", "love", "enjoy", "happy", "impressive",
	"perfect", "well", "congrats", "congratulations", "thumbs up",
}

// Classify maps a comment to exactly one Category. The cascade is strictly
// ordered and greedy: the first matching rule wins. Keyword matching is
// substring containment on the lowercased original text, not word-boundary
// matching, so "km" matches inside "6km".
//
// Classify is pure and total: it never fails and always returns one of the
// five defined categories.
func Classify(text string) Category {
	if strings.TrimSpace(text) == "" {
		return General
	}

	// One or two word comments are acknowledgements regardless of content.
	// A two-word technical comment ("great pace") lands here, not below.
	if wordCount(text) <= 2 {
		return Acknowledgement
	}

	lower := strings.ToLower(text)

	for _, term := range technicalTerms {
		if strings.Contains(lower, term) {
			return TechnicalFeedback
		}
	}

	for _, term := range encouragementTerms {
		if strings.Contains(lower, term) {
			return Motivation
		}
	}

	for _, term := range positiveTerms {
		if strings.Contains(lower, term) {
			return PositiveFeedback
		}
	}

	return General
}

// wordCount counts tokens after entity stripping. Empty tokens produced by
// the collapse are dropped.
func wordCount(text string) int {
	clean := cleanPattern.ReplaceAllString(text, " ")

	n := 0
	for _, word := range strings.Split(clean, " ") {
		if strings.TrimSpace(word) != "" {
			n++
		}
	}
	return n
}
