// Package report renders terminal summaries for the batch stages.
package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"flavor_sentiment/internal/domain"
)

const barWidth = 20

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	borderStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	positiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	negativeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	neutralStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC"))
)

// Ranked is one flavor's line in the rankings.
type Ranked struct {
	Flavor string
	domain.SentimentSummary
}

// Rank orders flavors by score, best first; ties break by name.
func Rank(res domain.Results) []Ranked {
	out := make([]Ranked, 0, len(res.Sentiments))
	for name, s := range res.Sentiments {
		out = append(out, Ranked{Flavor: name, SentimentSummary: s})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Flavor < out[j].Flavor
	})
	return out
}

// Bar draws score in [-1, 1] as a fixed-width gauge.
func Bar(score float64) string {
	filled := int(math.Round((score + 1) / 2 * barWidth))
	filled = max(0, min(barWidth, filled))
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

func labelStyle(l domain.SentimentLabel) lipgloss.Style {
	switch l {
	case domain.LabelPositive:
		return positiveStyle
	case domain.LabelNegative:
		return negativeStyle
	default:
		return neutralStyle
	}
}

// Rankings writes the flavor ranking table for res.
func Rankings(w io.Writer, res domain.Results) error {
	t := newTable("#", "Flavor", "Score", "", "Label", "Avg", "Reviews")
	for i, r := range Rank(res) {
		t.Row(
			strconv.Itoa(i+1),
			r.Flavor,
			fmt.Sprintf("%+.2f", r.Score),
			Bar(r.Score),
			labelStyle(r.Label).Render(string(r.Label)),
			fmt.Sprintf("%.2f", r.AvgRating),
			strconv.Itoa(r.ReviewCount),
		)
	}
	_, err := fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(fmt.Sprintf("Flavor rankings (%d flavors, %d notable reviews)", len(res.Sentiments), len(res.NotableReviews))),
		t.String(),
	))
	return err
}

// Tally writes per-flavor and per-rating review counts for an extraction.
func Tally(w io.Writer, byFlavor map[string]int, byRating map[float64]int) error {
	flavors := make([]string, 0, len(byFlavor))
	total := 0
	for f, n := range byFlavor {
		flavors = append(flavors, f)
		total += n
	}
	sort.Slice(flavors, func(i, j int) bool {
		if byFlavor[flavors[i]] != byFlavor[flavors[j]] {
			return byFlavor[flavors[i]] > byFlavor[flavors[j]]
		}
		return flavors[i] < flavors[j]
	})
	ft := newTable("Flavor", "Reviews")
	for _, f := range flavors {
		ft.Row(f, strconv.Itoa(byFlavor[f]))
	}

	ratings := make([]float64, 0, len(byRating))
	for r := range byRating {
		ratings = append(ratings, r)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(ratings)))
	rt := newTable("Stars", "Reviews")
	for _, r := range ratings {
		rt.Row(strconv.FormatFloat(r, 'f', -1, 64), strconv.Itoa(byRating[r]))
	}

	_, err := fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(fmt.Sprintf("Extracted %d reviews", total)),
		lipgloss.JoinHorizontal(lipgloss.Top, ft.String(), "  ", rt.String()),
	))
	return err
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style { return cellStyle }).
		Headers(headers...)
}
