package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"flavor_sentiment/internal/domain"
)

const (
	promptBodyLimit = 500
	maxNotable      = 5
)

var ErrMalformedJudgment = errors.New("malformed judgment response")

// BuildPrompt renders the judgment request for one flavor group. Bodies are
// cut to promptBodyLimit runes so a group's cost stays bounded.
func BuildPrompt(product, flavor string, reviews []domain.ReviewRecord) string {
	var b strings.Builder
	for i, r := range reviews {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%d] (%s/5 stars) %q - %s",
			i, formatRating(r.Rating), r.Title, truncateRunes(r.Body, promptBodyLimit))
	}

	return fmt.Sprintf(`These are Amazon reviews of the %q flavor of %s.

REVIEWS:
%s

Reply with a single JSON object:
{
  "sentiment_score": <number between -1.0 (very negative) and 1.0 (very positive)>,
  "sentiment_label": <"Positive" | "Neutral" | "Negative">,
  "summary": <one or two short, casual sentences on what reviewers say it tastes like, in their own words and comparisons; plain and blunt, no marketing tone>,
  "notable_indices": <up to %d review indices between 0 and %d that are especially funny, vivid or useful>
}

Only describe taste: concrete comparisons and honest reactions. Leave out shipping, packaging and comments about the brand in general.
When opinions are split, say so (for example "some love it, others say it tastes like X").`,
		flavor, product, b.String(), maxNotable, len(reviews)-1)
}

func formatRating(r float64) string {
	if r == math.Trunc(r) {
		return fmt.Sprintf("%.0f", r)
	}
	return fmt.Sprintf("%.1f", r)
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[:n])
}

// Judgment is a validated judge response for a group of n reviews.
type Judgment struct {
	Score          float64
	Label          domain.SentimentLabel
	Summary        string
	NotableIndices []int
}

// rawJudgment mirrors the wire shape; every field is untrusted.
type rawJudgment struct {
	Score          *float64  `json:"sentiment_score"`
	Label          string    `json:"sentiment_label"`
	Summary        string    `json:"summary"`
	NotableIndices []float64 `json:"notable_indices"`
}

// ParseJudgment decodes and validates a judge completion for a group of n
// reviews. Unknown labels become Neutral, the score is clamped to [-1, 1] and
// notable indices outside [0, n) are dropped.
func ParseJudgment(completion string, n int) (Judgment, error) {
	var raw rawJudgment
	if err := json.Unmarshal(ExtractJSON([]byte(completion)), &raw); err != nil {
		return Judgment{}, fmt.Errorf("%w: %v", ErrMalformedJudgment, err)
	}
	if raw.Score == nil {
		return Judgment{}, fmt.Errorf("%w: missing sentiment_score", ErrMalformedJudgment)
	}

	return Judgment{
		Score:          math.Max(-1, math.Min(1, *raw.Score)),
		Label:          normalizeLabel(raw.Label),
		Summary:        strings.TrimSpace(raw.Summary),
		NotableIndices: filterIndices(raw.NotableIndices, n),
	}, nil
}

func normalizeLabel(s string) domain.SentimentLabel {
	for _, l := range []domain.SentimentLabel{domain.LabelPositive, domain.LabelNeutral, domain.LabelNegative} {
		if strings.EqualFold(strings.TrimSpace(s), string(l)) {
			return l
		}
	}
	return domain.LabelNeutral
}

// filterIndices keeps whole-number indices in [0, n), first occurrence only,
// at most maxNotable of them.
func filterIndices(in []float64, n int) []int {
	out := make([]int, 0, maxNotable)
	seen := make(map[int]bool, len(in))
	for _, f := range in {
		if f != math.Trunc(f) || f < 0 || f >= float64(n) {
			continue
		}
		i := int(f)
		if seen[i] {
			continue
		}
		seen[i] = true
		out = append(out, i)
		if len(out) == maxNotable {
			break
		}
	}
	return out
}

var (
	reCodeFence  = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)```")
	reJSONObject = regexp.MustCompile(`(?s)\{.*\}`)
)

// ExtractJSON pulls the JSON object out of a completion that may wrap it in
// a fenced code block or surrounding prose.
func ExtractJSON(out []byte) []byte {
	if m := reCodeFence.FindSubmatch(out); len(m) > 1 {
		return []byte(strings.TrimSpace(string(m[1])))
	}
	if m := reJSONObject.Find(out); m != nil {
		return m
	}
	return []byte(strings.TrimSpace(string(out)))
}
