package query

import (
	"strings"
	"testing"
)

func TestDue(t *testing.T) {
	tests := []struct {
		name string
		deck string
		day  int
		want string
	}{
		{name: "today all decks", deck: "", day: 0, want: "is:due -is:suspended prop:due=0"},
		{name: "future window", deck: "", day: 5, want: "is:due -is:suspended prop:due<=5"},
		{name: "deck with spaces", deck: "Spanish Verbs", day: 0, want: `is:due -is:suspended prop:due=0 "deck:Spanish Verbs"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Due(tt.deck, tt.day)
			if err != nil {
				t.Fatalf("Due failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Due(%q, %d) = %q, want %q", tt.deck, tt.day, got, tt.want)
			}
		})
	}
}

func TestDueRejectsNegativeDay(t *testing.T) {
	if _, err := Due("", -1); err == nil {
		t.Error("expected an error for a negative day")
	}
}

func TestExamples(t *testing.T) {
	got, err := Examples("Chemistry", SampleMature, []string{"AnKing"})
	if err != nil {
		t.Fatalf("Examples failed: %v", err)
	}
	for _, fragment := range []string{
		"-is:suspended",
		"-note:*AnKing*",
		`"deck:Chemistry"`,
		"prop:ivl>=21 -is:learn",
	} {
		if !strings.Contains(got, fragment) {
			t.Errorf("query %q missing %q", got, fragment)
		}
	}
	if !strings.HasSuffix(got, "sort:ivl rev") {
		t.Errorf("sort clause must come last: %q", got)
	}
}

func TestExamplesRandomHasNoSort(t *testing.T) {
	got, err := Examples("", SampleRandom, nil)
	if err != nil {
		t.Fatalf("Examples failed: %v", err)
	}
	if strings.Contains(got, "sort:") {
		t.Errorf("random sampling must not sort: %q", got)
	}
	if !strings.Contains(got, "is:review") {
		t.Errorf("random sampling should stay bounded to review cards: %q", got)
	}
}

func TestExamplesRejectsUnknownSample(t *testing.T) {
	if _, err := Examples("", Sample("newest"), nil); err == nil {
		t.Error("expected an error for an unknown sampling technique")
	}
}

func TestSampleValid(t *testing.T) {
	for _, s := range Samples() {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if Sample("bogus").Valid() {
		t.Error("bogus should not be valid")
	}
}
