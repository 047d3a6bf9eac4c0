package features

import (
	"math"
	"strings"

	"github.com/ppiankov/aiprobe/internal/model"
	"github.com/ppiankov/aiprobe/internal/nlp"
)

// Stylometric metric names
const (
	MetricFormality          = "formality"
	MetricReadability        = "readability"
	MetricVocabularyRichness = "vocabulary_richness"
	MetricConsistency        = "consistency"
)

// readabilityCeiling is the alphabetic tokens per sentence at which
// readability bottoms out
const readabilityCeiling = 20.0

var (
	formalPOS   = map[string]bool{nlp.POSNoun: true, nlp.POSAdj: true, nlp.POSAdp: true, nlp.POSDet: true}
	informalPOS = map[string]bool{nlp.POSPron: true, nlp.POSVerb: true, nlp.POSAdv: true, nlp.POSIntj: true}
)

// Stylometric computes formality, readability and vocabulary richness.
// richnessKey names the richness metric (vocabulary_richness or consistency).
func Stylometric(doc *nlp.Document, richnessKey string) model.FeatureMap {
	return model.FeatureMap{
		MetricFormality:   Formality(doc),
		MetricReadability: Readability(doc),
		richnessKey:       VocabularyRichness(doc),
	}
}

// Formality is formal / (formal + informal) token count
func Formality(doc *nlp.Document) float64 {
	formal, informal := 0, 0
	for _, t := range doc.Tokens {
		switch {
		case formalPOS[t.POS]:
			formal++
		case informalPOS[t.POS]:
			informal++
		}
	}
	return ratio(float64(formal), float64(formal+informal))
}

// Readability is 1 - min(avg alphabetic tokens per sentence / 20, 1).
// 0 for a document without sentences.
func Readability(doc *nlp.Document) float64 {
	if len(doc.Sentences) == 0 {
		return 0
	}
	perSentence := make([]float64, len(doc.Sentences))
	for i := range doc.Sentences {
		alpha := 0
		for _, t := range doc.SentenceTokens(i) {
			if t.IsAlpha {
				alpha++
			}
		}
		perSentence[i] = float64(alpha)
	}
	return 1.0 - math.Min(mean(perSentence)/readabilityCeiling, 1.0)
}

// VocabularyRichness is distinct lower-cased token texts over all tokens.
// A document without alphabetic tokens has no vocabulary and scores 0.
func VocabularyRichness(doc *nlp.Document) float64 {
	distinct := make(map[string]struct{}, len(doc.Tokens))
	hasAlpha := false
	for _, t := range doc.Tokens {
		distinct[strings.ToLower(t.Text)] = struct{}{}
		if t.IsAlpha {
			hasAlpha = true
		}
	}
	if !hasAlpha {
		return 0
	}
	return ratio(float64(len(distinct)), float64(len(doc.Tokens)))
}
