// Package features computes the scalar metrics of each analysis category
// from a parsed document. Every metric is total: zero denominators yield 0.
package features

import (
	"github.com/ppiankov/aiprobe/internal/model"
	"github.com/ppiankov/aiprobe/internal/nlp"
)

// Extractor runs the three category extractors
type Extractor struct {
	mode model.StatisticalMode
}

// NewExtractor creates an extractor for the given statistical mode
func NewExtractor(mode model.StatisticalMode) *Extractor {
	if mode == "" {
		mode = model.StatisticalRich
	}
	return &Extractor{mode: mode}
}

// Mode returns the statistical mode in use
func (e *Extractor) Mode() model.StatisticalMode {
	return e.mode
}

// Extract computes every category for doc. text is the cleaned input the
// document was parsed from.
func (e *Extractor) Extract(doc *nlp.Document, text string) model.FeatureSet {
	if e.mode == model.StatisticalCompat {
		return model.FeatureSet{
			model.CategorySemantic:    Semantic(doc),
			model.CategoryStatistical: StatisticalCompat(doc, text),
			model.CategoryStylometric: Stylometric(doc, MetricConsistency),
		}
	}

	return model.FeatureSet{
		model.CategorySemantic:    Semantic(doc),
		model.CategoryStatistical: Statistical(doc, text),
		model.CategoryStylometric: Stylometric(doc, MetricVocabularyRichness),
	}
}
