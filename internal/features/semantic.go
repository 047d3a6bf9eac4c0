package features

import (
	"strings"

	"github.com/ppiankov/aiprobe/internal/model"
	"github.com/ppiankov/aiprobe/internal/nlp"
)

// Semantic metric names
const (
	MetricCoherence  = "coherence"
	MetricComplexity = "complexity"
	MetricDiversity  = "diversity"
)

// Semantic computes coherence, complexity and diversity
func Semantic(doc *nlp.Document) model.FeatureMap {
	return model.FeatureMap{
		MetricCoherence:  Coherence(doc),
		MetricComplexity: Complexity(doc),
		MetricDiversity:  Diversity(doc),
	}
}

// Coherence is the mean similarity of consecutive sentences, 0 with fewer
// than two sentences.
func Coherence(doc *nlp.Document) float64 {
	n := len(doc.Sentences)
	if n < 2 {
		return 0
	}
	sims := make([]float64, 0, n-1)
	for i := 0; i+1 < n; i++ {
		sims = append(sims, doc.Similarity(i, i+1))
	}
	return mean(sims)
}

// Complexity is the mean of depth times token count over sentences.
// Unbounded.
func Complexity(doc *nlp.Document) float64 {
	if len(doc.Sentences) == 0 {
		return 0
	}
	values := make([]float64, len(doc.Sentences))
	for i, s := range doc.Sentences {
		values[i] = float64(s.Depth * s.Len())
	}
	return mean(values)
}

// Diversity is the type-token ratio of alphabetic tokens
func Diversity(doc *nlp.Document) float64 {
	distinct := make(map[string]struct{})
	total := 0
	for _, t := range doc.Tokens {
		if !t.IsAlpha {
			continue
		}
		total++
		distinct[strings.ToLower(t.Text)] = struct{}{}
	}
	return ratio(float64(len(distinct)), float64(total))
}
