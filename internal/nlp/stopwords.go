package nlp

import (
	"strings"

	"github.com/blevesearch/bleve/analysis"
	"github.com/blevesearch/bleve/analysis/lang/en"
)

var stopWords = loadStopWords()

func loadStopWords() analysis.TokenMap {
	tm := analysis.NewTokenMap()
	if err := tm.LoadBytes(en.EnglishStopWords); err != nil {
		panic("nlp: load english stop words: " + err.Error())
	}
	return tm
}

// IsStopWord reports whether w is an English stop word
func IsStopWord(w string) bool {
	return stopWords[strings.ToLower(w)]
}
