package features

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/aiprobe/internal/model"
	"github.com/ppiankov/aiprobe/internal/nlp"
	"github.com/ppiankov/aiprobe/internal/textproc"
)

// Statistical metric names
const (
	MetricEntropy           = "entropy"
	MetricWordDistributions = "word_distributions"
	MetricSentencePatterns  = "sentence_patterns"

	MetricAvgSentenceLength = "avg_sentence_length"
	MetricPunctuationRatio  = "punctuation_ratio"
	MetricStopwordRatio     = "stopword_ratio"
)

// Statistical computes entropy, word_distributions and sentence_patterns
func Statistical(doc *nlp.Document, text string) model.FeatureMap {
	counts := wordCounts(textproc.SplitWords(text))
	return model.FeatureMap{
		MetricEntropy:           Entropy(counts),
		MetricWordDistributions: WordDistribution(counts),
		MetricSentencePatterns:  SentencePatterns(doc),
	}
}

// StatisticalCompat computes avg_sentence_length, punctuation_ratio and
// stopword_ratio
func StatisticalCompat(doc *nlp.Document, text string) model.FeatureMap {
	lengths := make([]float64, len(doc.Sentences))
	for i, s := range doc.Sentences {
		lengths[i] = float64(len(strings.Fields(s.Text)))
	}

	stops := 0
	for _, t := range doc.Tokens {
		if t.IsStop {
			stops++
		}
	}

	return model.FeatureMap{
		MetricAvgSentenceLength: mean(lengths),
		MetricPunctuationRatio:  ratio(float64(textproc.CountPunctuation(text)), float64(utf8.RuneCountInString(text))),
		MetricStopwordRatio:     ratio(float64(stops), float64(len(doc.Tokens))),
	}
}

func wordCounts(words []string) map[string]int {
	counts := make(map[string]int, len(words))
	for _, w := range words {
		counts[w]++
	}
	return counts
}

// Entropy is the base-2 Shannon entropy of the word distribution divided by
// its maximum, log2(distinct words). 0 with fewer than two distinct words.
func Entropy(counts map[string]int) float64 {
	if len(counts) < 2 {
		return 0
	}
	total := 0
	for _, c := range counts {
		total += c
	}

	h := 0.0
	for _, c := range counts {
		p := float64(c) / float64(total)
		h -= p * math.Log2(p)
	}
	return finite(h / math.Log2(float64(len(counts))))
}

// WordDistribution is the mean word frequency over the maximum frequency.
// 1 when every word occurs equally often; small when a few words dominate.
func WordDistribution(counts map[string]int) float64 {
	if len(counts) == 0 {
		return 0
	}
	total, peak := 0, 0
	for _, c := range counts {
		total += c
		if c > peak {
			peak = c
		}
	}
	avg := float64(total) / float64(len(counts))
	return ratio(avg, float64(peak))
}

// SentencePatterns is the coefficient of variation of tokens per sentence
func SentencePatterns(doc *nlp.Document) float64 {
	lengths := make([]float64, len(doc.Sentences))
	for i, s := range doc.Sentences {
		lengths[i] = float64(s.Len())
	}
	m, sd := meanStd(lengths)
	return ratio(sd, m)
}
