package nlp

import (
	"math"
	"strings"
)

// termSimilarity compares sentences by the cosine of their content-word
// frequency vectors. Sentences made only of stop words keep them.
func termSimilarity(doc *Document) SimilarityFunc {
	vectors := make([]map[string]float64, len(doc.Sentences))
	for i := range doc.Sentences {
		vectors[i] = termVector(doc.SentenceTokens(i))
	}
	return func(i, j int) float64 {
		return sparseCosine(vectors[i], vectors[j])
	}
}

func termVector(tokens []Token) map[string]float64 {
	vec := make(map[string]float64)
	for _, t := range tokens {
		if t.IsAlpha && !t.IsStop {
			vec[strings.ToLower(t.Text)]++
		}
	}
	if len(vec) > 0 {
		return vec
	}
	for _, t := range tokens {
		if t.IsAlpha {
			vec[strings.ToLower(t.Text)]++
		}
	}
	return vec
}

func sparseCosine(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(b) < len(a) {
		a, b = b, a
	}

	var dot float64
	for k, va := range a {
		dot += va * b[k]
	}
	return dot / (norm(a) * norm(b))
}

func norm(v map[string]float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// denseCosine is used for provider-supplied sentence vectors
func denseCosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
