package score

import (
	"fmt"

	"github.com/ppiankov/aiprobe/internal/model"
)

// Scorer aggregates category features into a ScoreReport
type Scorer struct {
	weights model.Weights
}

// NewScorer creates a scorer with the given category weights
func NewScorer(weights model.Weights) *Scorer {
	return &Scorer{weights: weights}
}

// Weights returns the configured category weights
func (s *Scorer) Weights() model.Weights {
	return s.weights
}

// Score applies the configured weights
func (s *Scorer) Score(features model.FeatureSet) (model.ScoreReport, error) {
	return Score(features, s.weights)
}

// Score computes per-category means and the weighted overall score.
//
// Each category score is the mean of its metric values (0 for an empty
// map). Overall is the plain weighted sum over the categories present in
// features; weights are applied as given and never renormalized.
// Categories are visited in canonical order so the result is reproducible
// bit for bit.
func Score(features model.FeatureSet, weights model.Weights) (model.ScoreReport, error) {
	order := features.OrderedCategories()

	report := model.ScoreReport{
		Categories: make([]model.CategoryScore, 0, len(order)),
	}

	for _, c := range order {
		w, ok := weights[c]
		if !ok {
			return model.ScoreReport{}, &model.ConfigurationError{
				Field:  "scoring.weights." + string(c),
				Reason: fmt.Sprintf("no weight configured for category %q", c),
			}
		}

		categoryScore := categoryMean(features[c])
		report.Categories = append(report.Categories, model.CategoryScore{
			Category: c,
			Score:    categoryScore,
		})
		report.Overall += categoryScore * w
	}

	return report, nil
}

// categoryMean averages metric values in sorted key order
func categoryMean(fm model.FeatureMap) float64 {
	if len(fm) == 0 {
		return 0
	}
	sum := 0.0
	for _, name := range sortedKeys(fm) {
		sum += fm[name]
	}
	return sum / float64(len(fm))
}
