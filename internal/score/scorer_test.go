package score

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/ppiankov/aiprobe/internal/model"
)

func sampleFeatures() model.FeatureSet {
	return model.FeatureSet{
		model.CategorySemantic:    {"coherence": 0.9, "complexity": 0.3, "diversity": 0.6},
		model.CategoryStatistical: {"entropy": 0.5, "word_distributions": 0.25, "sentence_patterns": 0.75},
		model.CategoryStylometric: {"formality": 0.2, "readability": 0.4, "vocabulary_richness": 0.6},
	}
}

func TestScore_WeightedSum(t *testing.T) {
	report, err := Score(sampleFeatures(), model.DefaultWeights())
	if err != nil {
		t.Fatalf("Score: %v", err)
	}

	want := map[string]float64{
		"semantic":    0.6,
		"statistical": 0.5,
		"stylometric": 0.4,
		"overall":     0.6*0.3 + 0.5*0.3 + 0.4*0.4,
	}
	for key, w := range want {
		got, ok := report.Get(key)
		if !ok {
			t.Fatalf("missing %s in report", key)
		}
		if math.Abs(got-w) > 1e-9 {
			t.Errorf("%s = %f, want %f", key, got, w)
		}
	}
}

func TestScore_CanonicalOrder(t *testing.T) {
	report, err := Score(sampleFeatures(), model.DefaultWeights())
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	for i, c := range model.Categories {
		if report.Categories[i].Category != c {
			t.Errorf("position %d: got %s, want %s", i, report.Categories[i].Category, c)
		}
	}
}

func TestScore_NoRenormalization(t *testing.T) {
	weights := model.Weights{
		model.CategorySemantic:    1,
		model.CategoryStatistical: 1,
		model.CategoryStylometric: 1,
	}
	report, err := Score(sampleFeatures(), weights)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if math.Abs(report.Overall-1.5) > 1e-9 {
		t.Errorf("expected un-normalized overall 1.5, got %f", report.Overall)
	}
}

func TestScore_LegacyWeights(t *testing.T) {
	report, err := Score(sampleFeatures(), model.LegacyWeights())
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	want := 0.6*0.4 + 0.5*0.3 + 0.4*0.3
	if math.Abs(report.Overall-want) > 1e-9 {
		t.Errorf("expected %f, got %f", want, report.Overall)
	}
}

func TestScore_MissingWeight(t *testing.T) {
	weights := model.Weights{
		model.CategorySemantic:    0.5,
		model.CategoryStatistical: 0.5,
	}

	_, err := Score(sampleFeatures(), weights)
	var cerr *model.ConfigurationError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if !strings.Contains(cerr.Field, "stylometric") {
		t.Errorf("expected error to name stylometric, got %s", cerr.Field)
	}
}

func TestScore_SubsetOfCategories(t *testing.T) {
	features := model.FeatureSet{model.CategorySemantic: {"coherence": 1}}
	report, err := Score(features, model.DefaultWeights())
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if len(report.Categories) != 1 {
		t.Fatalf("expected 1 category, got %d", len(report.Categories))
	}
	if math.Abs(report.Overall-0.3) > 1e-9 {
		t.Errorf("expected overall 0.3, got %f", report.Overall)
	}
}

func TestScore_EmptyFeatureMap(t *testing.T) {
	features := model.FeatureSet{model.CategorySemantic: {}}
	report, err := Score(features, model.DefaultWeights())
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if report.Categories[0].Score != 0 || report.Overall != 0 {
		t.Errorf("expected zero scores, got %+v", report)
	}
}

func TestScore_Reproducible(t *testing.T) {
	features := sampleFeatures()
	first, err := Score(features, model.DefaultWeights())
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	for i := 0; i < 50; i++ {
		again, _ := Score(features, model.DefaultWeights())
		if math.Float64bits(again.Overall) != math.Float64bits(first.Overall) {
			t.Fatalf("overall differs on run %d: %v vs %v", i, again.Overall, first.Overall)
		}
	}
}

func TestScorer_UsesConfiguredWeights(t *testing.T) {
	s := NewScorer(model.LegacyWeights())
	report, err := s.Score(sampleFeatures())
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	direct, _ := Score(sampleFeatures(), model.LegacyWeights())
	if report.Overall != direct.Overall {
		t.Errorf("expected %f, got %f", direct.Overall, report.Overall)
	}
}
