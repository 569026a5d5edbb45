package domain

import "time"

type SentimentLabel string

const (
	LabelPositive SentimentLabel = "Positive"
	LabelNeutral  SentimentLabel = "Neutral"
	LabelNegative SentimentLabel = "Negative"
)

// Valid reports whether l is one of the three known labels.
func (l SentimentLabel) Valid() bool {
	switch l {
	case LabelPositive, LabelNeutral, LabelNegative:
		return true
	}
	return false
}

// SentimentSummary is the aggregated judgment for one flavor group.
type SentimentSummary struct {
	Score       float64        `json:"sentiment_score"`
	Label       SentimentLabel `json:"sentiment_label"`
	Summary     string         `json:"summary"`
	AvgRating   float64        `json:"avg_rating"`
	ReviewCount int            `json:"review_count"`
	AnalyzedAt  time.Time      `json:"analyzed_at"`
}

// Results is the aggregator's output artifact and the synchronizer's input.
type Results struct {
	RunID          string                      `json:"run_id,omitempty"`
	Sentiments     map[string]SentimentSummary `json:"sentiments"`
	NotableReviews []NotableReview             `json:"notable_reviews"`
	AnalyzedAt     time.Time                   `json:"analyzed_at"`
}

// NotableFor returns the notable reviews stamped with flavor, in artifact order.
func (r Results) NotableFor(flavor string) []NotableReview {
	var out []NotableReview
	for _, n := range r.NotableReviews {
		if n.Flavor == flavor {
			out = append(out, n)
		}
	}
	return out
}

// ---- store projections ----

type SentimentRow struct {
	FlavorID     int64
	Score        float64
	Label        SentimentLabel
	Summary      string
	CommentCount int
	AvgRating    float64
	LastUpdated  time.Time
}

type CommentRow struct {
	FlavorID    int64
	CommentText string
	ReviewTitle string
	Rating      float64
	ReviewDate  string
	IsNotable   bool
}

type StoreCounts struct {
	Sentiments int
	Comments   int
}

// Read models for the API.

type SentimentView struct {
	FlavorID     int64          `json:"flavor_id"`
	Flavor       string         `json:"flavor"`
	Score        float64        `json:"sentiment_score"`
	Label        SentimentLabel `json:"sentiment_label"`
	Summary      string         `json:"summary"`
	CommentCount int            `json:"comment_count"`
	AvgRating    float64        `json:"avg_rating"`
	LastUpdated  time.Time      `json:"last_updated"`
}

type CommentView struct {
	Text       string  `json:"comment_text"`
	Title      string  `json:"review_title"`
	Rating     float64 `json:"rating"`
	ReviewDate string  `json:"review_date"`
}
