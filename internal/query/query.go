// Package query builds Anki search strings for the due-card and example
// lookups. The syntax is Anki's own search language; deck names are quoted
// because they routinely contain spaces.
package query

import (
	"fmt"
	"strings"
)

// Sample names a technique for picking example notes.
type Sample string

const (
	SampleRandom          Sample = "random"
	SampleRecent          Sample = "recent"
	SampleMostReviewed    Sample = "most_reviewed"
	SampleBestPerformance Sample = "best_performance"
	SampleMature          Sample = "mature"
	SampleYoung           Sample = "young"
)

// Samples returns all valid sampling techniques.
func Samples() []Sample {
	return []Sample{
		SampleRandom,
		SampleRecent,
		SampleMostReviewed,
		SampleBestPerformance,
		SampleMature,
		SampleYoung,
	}
}

// Valid reports whether s is a known sampling technique.
func (s Sample) Valid() bool {
	for _, known := range Samples() {
		if s == known {
			return true
		}
	}
	return false
}

// Due returns the search for cards due within day days from now. Day 0 means
// due exactly today; day N widens the window with prop:due<=N. Suspended
// cards are always excluded.
func Due(deck string, day int) (string, error) {
	if day < 0 {
		return "", fmt.Errorf("day must be non-negative, got %d", day)
	}

	prop := "prop:due=0"
	if day > 0 {
		prop = fmt.Sprintf("prop:due<=%d", day)
	}

	q := fmt.Sprintf("is:due -is:suspended %s", prop)
	if deck != "" {
		q += fmt.Sprintf(" %q", "deck:"+deck)
	}
	return q, nil
}

// Examples returns the search for example notes under the given sampling
// technique, plus the sort clause Anki applies. Notes matching any exclude
// substring are filtered out in the query itself.
func Examples(deck string, sample Sample, exclude []string) (string, error) {
	if !sample.Valid() {
		return "", fmt.Errorf("unknown sampling technique %q", sample)
	}

	parts := []string{"-is:suspended"}
	for _, ex := range exclude {
		parts = append(parts, fmt.Sprintf("-note:*%s*", ex))
	}
	if deck != "" {
		parts = append(parts, fmt.Sprintf("%q", "deck:"+deck))
	}

	var sortOrder string
	switch sample {
	case SampleRecent:
		parts = append(parts, "added:7")
		sortOrder = "sort:added rev"
	case SampleMostReviewed:
		parts = append(parts, "prop:reps>10")
		sortOrder = "sort:reps rev"
	case SampleBestPerformance:
		parts = append(parts, "prop:lapses<3 is:review")
		sortOrder = "sort:lapses"
	case SampleMature:
		parts = append(parts, "prop:ivl>=21 -is:learn")
		sortOrder = "sort:ivl rev"
	case SampleYoung:
		parts = append(parts, "is:review prop:ivl<=7 -is:learn")
		sortOrder = "sort:ivl"
	case SampleRandom:
		// Random sampling happens client-side over the matched IDs; keep the
		// query broad but bounded to review cards.
		parts = append(parts, "is:review")
	}

	q := strings.Join(parts, " ")
	if sortOrder != "" {
		q += " " + sortOrder
	}
	return q, nil
}
