package app

import (
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"flavor_sentiment/internal/domain"
)

var (
	reLineBreak = regexp.MustCompile(`\r?\n`)
	reHeader    = regexp.MustCompile(`^(\d{1,2}(?:\.\d)?) out of 5 stars (.+)$`)
	reDate      = regexp.MustCompile(`Reviewed in the United States on (.+)`)
	reFlavor    = regexp.MustCompile(`Flavor Name:\s*(.+?)(?:Verified Purchase|$)`)
	reHelpful   = regexp.MustCompile(`^(?:\d+ people|One person) found this helpful$`)
)

const (
	minRating = 0.5
	maxRating = 5.0
)

type scanState int

const (
	seekingHeader scanState = iota
	readingDate
	readingFlavor
	collectingBody
	skippingTerminators
)

// ExtractReviews reads the whole scrape from r and parses it with ParseReviews.
// Only a read failure is an error; irregular reviews degrade or are dropped.
func ExtractReviews(r io.Reader) ([]domain.ReviewRecord, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read scrape text: %w", err)
	}
	return ParseReviews(string(b)), nil
}

// ParseReviews recovers review records from copy-pasted review pages.
// Output order follows the order of headers in text.
func ParseReviews(text string) []domain.ReviewRecord {
	lines := reLineBreak.Split(text, -1)

	var (
		out   []domain.ReviewRecord
		cur   domain.ReviewRecord
		body  []string
		state = seekingHeader
		i     = 0
	)
	for {
		switch state {
		case seekingHeader:
			if i >= len(lines) {
				return out
			}
			m := reHeader.FindStringSubmatch(lines[i])
			i++
			if m == nil {
				continue // reviewer names and other page chrome
			}
			cur = domain.ReviewRecord{Rating: parseRating(m[1]), Title: strings.TrimSpace(m[2])}
			body = body[:0]
			state = readingDate

		case readingDate:
			state = readingFlavor
			if i >= len(lines) {
				continue
			}
			if m := reDate.FindStringSubmatch(lines[i]); m != nil {
				cur.Date = strings.TrimSpace(m[1])
				i++
			} else if strings.HasPrefix(strings.TrimSpace(lines[i]), "Reviewed in ") {
				i++ // other marketplace; date left empty
			}

		case readingFlavor:
			state = collectingBody
			if i >= len(lines) {
				continue
			}
			if m := reFlavor.FindStringSubmatch(lines[i]); m != nil {
				cur.Flavor = strings.TrimSpace(m[1])
				i++
			} else if strings.TrimSpace(lines[i]) == "Verified Purchase" {
				i++
			}

		case collectingBody:
			if i < len(lines) && !endsBody(lines[i]) {
				body = append(body, lines[i])
				i++
				continue
			}
			if b := strings.TrimSpace(strings.Join(body, "\n")); b != "" {
				cur.Body = b
				out = append(out, cur)
			}
			state = skippingTerminators

		case skippingTerminators:
			for i < len(lines) && (isMarker(lines[i]) || strings.TrimSpace(lines[i]) == "") {
				i++
			}
			// the next header, if that is what stopped us, is matched by seekingHeader
			state = seekingHeader
		}
	}
}

// isMarker matches the vote/report chrome Amazon prints under each review.
func isMarker(line string) bool {
	switch t := strings.TrimSpace(line); t {
	case "Helpful", "Report", "Customer image":
		return true
	default:
		return reHelpful.MatchString(t)
	}
}

func endsBody(line string) bool {
	return isMarker(line) || reHeader.MatchString(line)
}

// parseRating clamps to [0.5, 5] and snaps to half stars.
func parseRating(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return minRating
	}
	f = math.Round(f*2) / 2
	return math.Max(minRating, math.Min(maxRating, f))
}

// ExtractTally counts records per flavor bucket and per rating.
type ExtractTally struct {
	ByFlavor map[string]int
	ByRating map[float64]int
}

func Tally(records []domain.ReviewRecord) ExtractTally {
	t := ExtractTally{ByFlavor: map[string]int{}, ByRating: map[float64]int{}}
	for _, r := range records {
		t.ByFlavor[r.FlavorKey()]++
		t.ByRating[r.Rating]++
	}
	return t
}
