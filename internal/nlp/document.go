// Package nlp adapts third-party NLP engines to the read-only document
// structure consumed by the feature extractors.
package nlp

import "strings"

// Universal part-of-speech tags
const (
	POSNoun  = "NOUN"
	POSPropN = "PROPN"
	POSVerb  = "VERB"
	POSAux   = "AUX"
	POSAdj   = "ADJ"
	POSAdv   = "ADV"
	POSPron  = "PRON"
	POSAdp   = "ADP"
	POSDet   = "DET"
	POSIntj  = "INTJ"
	POSCConj = "CCONJ"
	POSSConj = "SCONJ"
	POSNum   = "NUM"
	POSPart  = "PART"
	POSPunct = "PUNCT"
	POSSym   = "SYM"
	POSOther = "X"
)

// Token is a single parsed token
type Token struct {
	Text    string `json:"text"`
	POS     string `json:"pos"`
	IsAlpha bool   `json:"is_alpha"`
	IsStop  bool   `json:"is_stop"`
}

// Sentence covers the token range [Start, End) of its document.
// Depth is the length of the syntactic ancestor chain reported for the
// sentence root.
type Sentence struct {
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Depth int    `json:"depth"`
}

// Len returns the number of tokens in the sentence
func (s Sentence) Len() int {
	return s.End - s.Start
}

// SimilarityFunc scores sentences i and j of a document
type SimilarityFunc func(i, j int) float64

// Document is the parse of one cleaned text. It is never mutated after
// construction and may be shared by concurrent readers.
type Document struct {
	Text      string
	Tokens    []Token
	Sentences []Sentence

	similarity SimilarityFunc
}

// NewDocument assembles a document. A nil sim falls back to term-frequency
// cosine similarity over the sentence tokens.
func NewDocument(text string, tokens []Token, sentences []Sentence, sim SimilarityFunc) *Document {
	doc := &Document{
		Text:      text,
		Tokens:    tokens,
		Sentences: sentences,
	}
	if sim == nil {
		sim = termSimilarity(doc)
	}
	doc.similarity = sim
	return doc
}

// SentenceTokens returns the tokens of sentence i
func (d *Document) SentenceTokens(i int) []Token {
	s := d.Sentences[i]
	return d.Tokens[s.Start:s.End]
}

// Similarity returns the closeness of sentences i and j in [0, 1]
func (d *Document) Similarity(i, j int) float64 {
	if i == j || strings.EqualFold(d.Sentences[i].Text, d.Sentences[j].Text) {
		return 1
	}
	return clamp01(d.similarity(i, j))
}

func clamp01(v float64) float64 {
	switch {
	case v != v, v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
