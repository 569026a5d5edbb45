package report

import (
	"bytes"
	"strings"
	"testing"

	"flavor_sentiment/internal/domain"
)

func TestBar(t *testing.T) {
	cases := map[float64]int{-1: 0, 0: 10, 1: 20, 0.5: 15, 3: 20, -3: 0}
	for score, filled := range cases {
		b := Bar(score)
		if got := strings.Count(b, "█"); got != filled {
			t.Errorf("Bar(%v) filled = %d, want %d", score, got, filled)
		}
		if n := len([]rune(b)); n != barWidth {
			t.Errorf("Bar(%v) width = %d", score, n)
		}
	}
}

func TestRank(t *testing.T) {
	res := domain.Results{Sentiments: map[string]domain.SentimentSummary{
		"Lime":   {Score: 0.2},
		"Mango":  {Score: 0.8},
		"Cherry": {Score: 0.2},
	}}
	got := Rank(res)
	want := []string{"Mango", "Cherry", "Lime"}
	for i, r := range got {
		if r.Flavor != want[i] {
			t.Fatalf("rank[%d] = %s, want %s", i, r.Flavor, want[i])
		}
	}
}

func TestRankings_ListsEveryFlavor(t *testing.T) {
	res := domain.Results{Sentiments: map[string]domain.SentimentSummary{
		"Lime":  {Score: -0.4, Label: domain.LabelNegative, AvgRating: 2.5, ReviewCount: 2},
		"Mango": {Score: 0.9, Label: domain.LabelPositive, AvgRating: 4.75, ReviewCount: 4},
	}}
	var buf bytes.Buffer
	if err := Rankings(&buf, res); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, s := range []string{"Lime", "Mango", "+0.90", "-0.40", "4.75", "Positive"} {
		if !strings.Contains(out, s) {
			t.Errorf("rankings missing %q:\n%s", s, out)
		}
	}
	if strings.Index(out, "Mango") > strings.Index(out, "Lime") {
		t.Errorf("Mango should rank above Lime:\n%s", out)
	}
}

func TestTally(t *testing.T) {
	var buf bytes.Buffer
	err := Tally(&buf, map[string]int{"Lime": 3, "Unknown": 1}, map[float64]int{5: 2, 2.5: 2})
	if err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, s := range []string{"Extracted 4 reviews", "Lime", "Unknown", "2.5"} {
		if !strings.Contains(out, s) {
			t.Errorf("tally missing %q:\n%s", s, out)
		}
	}
}
