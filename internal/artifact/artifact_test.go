package artifact_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"flavor_sentiment/internal/artifact"
	"flavor_sentiment/internal/domain"
)

func TestReviewsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "amazon-reviews.json")
	in := []domain.ReviewRecord{
		{Rating: 5, Date: "January 1, 2024", Title: "Great taste", Flavor: "Lime", Body: "Tastes <amazing> & fresh!"},
		{Rating: 4.5, Date: "", Title: "", Flavor: "", Body: "line one\nline two"},
		{Rating: 0.5, Date: "March 3, 2023", Title: "Nope", Flavor: "Mango", Body: "ugh"},
	}
	if err := artifact.WriteReviews(path, in); err != nil {
		t.Fatalf("WriteReviews: %v", err)
	}
	first, _ := os.ReadFile(path)
	if !bytes.Contains(first, []byte(`"rating": 4.5`)) || !bytes.Contains(first, []byte("<amazing> & fresh")) {
		t.Fatalf("artifact not human readable:\n%s", first)
	}

	out, err := artifact.ReadReviews(path)
	if err != nil {
		t.Fatalf("ReadReviews: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch:\n in=%+v\nout=%+v", in, out)
	}

	// rewriting what was read yields the same bytes
	if err := artifact.WriteReviews(path, out); err != nil {
		t.Fatalf("WriteReviews again: %v", err)
	}
	second, _ := os.ReadFile(path)
	if !bytes.Equal(first, second) {
		t.Fatalf("rewrite changed bytes")
	}
}

func TestWriteReviews_EmptyIsArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r.json")
	if err := artifact.WriteReviews(path, nil); err != nil {
		t.Fatalf("WriteReviews: %v", err)
	}
	b, _ := os.ReadFile(path)
	if string(b) != "[]\n" {
		t.Fatalf("got %q", b)
	}
}

func TestResultsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sentiment-results.json")
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	in := domain.Results{
		RunID: "run-1",
		Sentiments: map[string]domain.SentimentSummary{
			"Lime": {Score: 0.8, Label: domain.LabelPositive, Summary: "zesty", AvgRating: 4.67, ReviewCount: 3, AnalyzedAt: at},
		},
		NotableReviews: []domain.NotableReview{{Rating: 5, Title: "t", Flavor: "Lime", Body: "b"}},
		AnalyzedAt:     at,
	}
	if err := artifact.WriteResults(path, in); err != nil {
		t.Fatalf("WriteResults: %v", err)
	}
	out, err := artifact.ReadResults(path)
	if err != nil {
		t.Fatalf("ReadResults: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("mismatch:\n in=%+v\nout=%+v", in, out)
	}

	b, _ := os.ReadFile(path)
	for _, key := range []string{`"sentiments"`, `"notable_reviews"`, `"analyzed_at": "2024-05-01T12:00:00Z"`} {
		if !bytes.Contains(b, []byte(key)) {
			t.Errorf("missing %s in artifact", key)
		}
	}
}

func TestReadMissing(t *testing.T) {
	_, err := artifact.ReadReviews(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, artifact.ErrMissing) {
		t.Fatalf("expected ErrMissing, got %v", err)
	}
}

func TestReadResults_RejectsWrongShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`[1,2,3]`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := artifact.ReadResults(path); err == nil {
		t.Fatalf("expected decode error")
	}
	if err := os.WriteFile(path, []byte(`{"notable_reviews":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := artifact.ReadResults(path); err == nil {
		t.Fatalf("expected error for missing sentiments")
	}
}
