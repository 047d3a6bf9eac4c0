package score

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ppiankov/aiprobe/internal/model"
)

// ReportTitle heads every summary
const ReportTitle = "AI Content Analysis Report"

type band struct {
	threshold float64
	label     string
}

// confidenceBands are checked in descending order; the first match wins
var confidenceBands = []band{
	{0.8, "Very High"},
	{0.6, "High"},
	{0.4, "Moderate"},
	{0.2, "Low"},
}

// ConfidenceLabel maps an overall score to its confidence band
func ConfidenceLabel(overall float64) string {
	for _, b := range confidenceBands {
		if overall >= b.threshold {
			return b.label
		}
	}
	return "Very Low"
}

// Percent formats a score as a percentage with two decimals
func Percent(score float64) string {
	return fmt.Sprintf("%.2f%%", score*100)
}

// Summarize renders the human-readable report. Category lines follow the
// report's order.
func Summarize(report model.ScoreReport) string {
	var b strings.Builder

	b.WriteString(ReportTitle)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Overall AI Probability: %s (%s Confidence)\n", Percent(report.Overall), ConfidenceLabel(report.Overall))
	b.WriteString("\nDetailed Scores:")

	for _, cs := range report.Categories {
		fmt.Fprintf(&b, "\n- %s: %s", cs.Category.Title(), Percent(cs.Score))
	}

	return b.String()
}

func sortedKeys(fm model.FeatureMap) []string {
	keys := make([]string, 0, len(fm))
	for k := range fm {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
