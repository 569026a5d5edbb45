package domain

import "strings"

// UnknownFlavor is the bucket for reviews whose flavor line was missing.
const UnknownFlavor = "Unknown"

// ReviewRecord is one review recovered from the raw scrape text.
// It is also the element type of the reviews artifact, so json keys are fixed.
type ReviewRecord struct {
	Rating float64 `json:"rating"`
	Date   string  `json:"date"`
	Title  string  `json:"title"`
	Flavor string  `json:"flavor"`
	Body   string  `json:"body"`
}

// FlavorKey is the grouping key for r (empty flavor -> UnknownFlavor).
func (r ReviewRecord) FlavorKey() string {
	if f := strings.TrimSpace(r.Flavor); f != "" {
		return f
	}
	return UnknownFlavor
}

// NotableReview is a review the judge picked out, stamped with its group's flavor.
type NotableReview = ReviewRecord
