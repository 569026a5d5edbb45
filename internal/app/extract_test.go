package app

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"flavor_sentiment/internal/artifact"
	"flavor_sentiment/internal/domain"
)

const twoFlavors = "5 out of 5 stars Great taste\n" +
	"Reviewed in the United States on January 1, 2024\n" +
	"Flavor Name: Lime Verified Purchase\n" +
	"Tastes amazing!\n" +
	"Helpful\n" +
	"Report\n" +
	"Jane D.\n" +
	"1 out of 5 stars Not for me\n" +
	"Reviewed in the United States on February 3, 2024\n" +
	"Flavor Name: Mango Verified Purchase\n" +
	"Like a candle smells.\n" +
	"3 people found this helpful\n"

func TestParseReviews_TwoFlavors(t *testing.T) {
	got := ParseReviews(twoFlavors)
	want := []domain.ReviewRecord{
		{Rating: 5, Date: "January 1, 2024", Title: "Great taste", Flavor: "Lime", Body: "Tastes amazing!"},
		{Rating: 1, Date: "February 3, 2024", Title: "Not for me", Flavor: "Mango", Body: "Like a candle smells."},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got  %+v\nwant %+v", got, want)
	}
}

func TestParseReviews_MultilineBody(t *testing.T) {
	in := "4.5 out of 5 stars  Crisp  \n" +
		"Reviewed in the United States on May 5, 2023\n" +
		"Flavor Name: Black Cherry\n" +
		"First line.\n" +
		"\n" +
		"Second line.\n" +
		"One person found this helpful\n"
	got := ParseReviews(in)
	if len(got) != 1 {
		t.Fatalf("want 1 record, got %d", len(got))
	}
	r := got[0]
	if r.Rating != 4.5 || r.Title != "Crisp" || r.Flavor != "Black Cherry" {
		t.Fatalf("unexpected record %+v", r)
	}
	if r.Body != "First line.\n\nSecond line." {
		t.Fatalf("body = %q", r.Body)
	}
}

func TestParseReviews_MissingDateAndFlavor(t *testing.T) {
	cases := []struct {
		name       string
		in         string
		wantDate   string
		wantFlavor string
		wantBody   string
	}{
		{
			name:       "no date",
			in:         "4 out of 5 stars Ok\nFlavor Name: Lime\nFine.\nHelpful\n",
			wantFlavor: "Lime",
			wantBody:   "Fine.",
		},
		{
			name:     "no flavor",
			in:       "4 out of 5 stars Ok\nReviewed in the United States on June 1, 2024\nFine.\nHelpful\n",
			wantDate: "June 1, 2024",
			wantBody: "Fine.",
		},
		{
			name:     "neither",
			in:       "4 out of 5 stars Ok\nFine.\nReport\n",
			wantBody: "Fine.",
		},
		{
			name:     "other marketplace",
			in:       "4 out of 5 stars Ok\nReviewed in Canada on June 1, 2024\nVerified Purchase\nFine.\nHelpful\n",
			wantBody: "Fine.",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseReviews(tc.in)
			if len(got) != 1 {
				t.Fatalf("record dropped: %+v", got)
			}
			r := got[0]
			if r.Date != tc.wantDate || r.Flavor != tc.wantFlavor || r.Body != tc.wantBody {
				t.Fatalf("got %+v", r)
			}
			if tc.wantFlavor == "" && r.FlavorKey() != domain.UnknownFlavor {
				t.Fatalf("empty flavor should group as %s", domain.UnknownFlavor)
			}
		})
	}
}

func TestParseReviews_EmptyBodyDropped(t *testing.T) {
	in := "5 out of 5 stars Empty\n" +
		"Reviewed in the United States on January 1, 2024\n" +
		"Flavor Name: Lime\n" +
		"   \n" +
		"Helpful\n" +
		"3 out of 5 stars Kept\n" +
		"Reviewed in the United States on January 2, 2024\n" +
		"Flavor Name: Lime\n" +
		"Meh.\n"
	got := ParseReviews(in)
	if len(got) != 1 || got[0].Title != "Kept" {
		t.Fatalf("got %+v", got)
	}
}

func TestParseReviews_HeaderEndsBody(t *testing.T) {
	in := "5 out of 5 stars A\nBody A\n2 out of 5 stars B\nBody B"
	got := ParseReviews(in)
	if len(got) != 2 || got[0].Body != "Body A" || got[1].Body != "Body B" {
		t.Fatalf("got %+v", got)
	}
}

func TestParseReviews_TrailingHeaderWithoutBody(t *testing.T) {
	in := "5 out of 5 stars A\nBody A\nHelpful\n4 out of 5 stars Cut off\n"
	got := ParseReviews(in)
	if len(got) != 1 || got[0].Title != "A" {
		t.Fatalf("got %+v", got)
	}
}

func TestParseReviews_CRLF(t *testing.T) {
	in := strings.ReplaceAll(twoFlavors, "\n", "\r\n")
	got := ParseReviews(in)
	if len(got) != 2 || got[0].Body != "Tastes amazing!" || got[1].Flavor != "Mango" {
		t.Fatalf("got %+v", got)
	}
}

func TestParseReviews_ChromeBeforeFirstHeaderIgnored(t *testing.T) {
	in := "Top reviews from the United States\nSort by\n" + twoFlavors
	if got := ParseReviews(in); len(got) != 2 {
		t.Fatalf("got %d records", len(got))
	}
}

func TestParseRating(t *testing.T) {
	cases := map[string]float64{
		"5":   5,
		"1":   1,
		"4.5": 4.5,
		"3.0": 3,
		"0":   0.5,
		"9":   5,
		"12":  5,
		"2.7": 2.5,
		"2.8": 3,
	}
	for in, want := range cases {
		if got := parseRating(in); got != want {
			t.Errorf("parseRating(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseReviews_RatingAlwaysInDomain(t *testing.T) {
	in := "9 out of 5 stars Too many\nBody\nHelpful\n0 out of 5 stars None\nBody\n"
	for _, r := range ParseReviews(in) {
		if r.Rating < 0.5 || r.Rating > 5 {
			t.Fatalf("rating %v out of domain", r.Rating)
		}
	}
}

func TestExtract_Idempotent(t *testing.T) {
	in := twoFlavors + "3 out of 5 stars Empty\nHelpful\n"
	a, err := artifact.Encode(ParseReviews(in))
	if err != nil {
		t.Fatal(err)
	}
	b, err := artifact.Encode(ParseReviews(in))
	if err != nil {
		t.Fatal(err)
	}
	if string(a) != string(b) {
		t.Fatalf("two runs differ:\n%s\n%s", a, b)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestExtractReviews_ReadError(t *testing.T) {
	if _, err := ExtractReviews(failingReader{}); err == nil {
		t.Fatal("expected read error")
	}
	got, err := ExtractReviews(strings.NewReader(twoFlavors))
	if err != nil || len(got) != 2 {
		t.Fatalf("got %d, %v", len(got), err)
	}
}

func TestTally(t *testing.T) {
	recs := ParseReviews(twoFlavors + "4 out of 5 stars X\nNo flavor here\n")
	tally := Tally(recs)
	if tally.ByFlavor["Lime"] != 1 || tally.ByFlavor["Mango"] != 1 || tally.ByFlavor[domain.UnknownFlavor] != 1 {
		t.Fatalf("by flavor: %v", tally.ByFlavor)
	}
	if tally.ByRating[5] != 1 || tally.ByRating[1] != 1 || tally.ByRating[4] != 1 {
		t.Fatalf("by rating: %v", tally.ByRating)
	}
}
