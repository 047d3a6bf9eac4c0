// Package textproc normalizes raw input and splits it with simple
// punctuation rules. Every function here is total and side-effect free.
package textproc

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRun = regexp.MustCompile(`[\s\v\p{Z}]+`)
	sentenceSplit = regexp.MustCompile(`[.!?]+`)
	wordFinder    = regexp.MustCompile(`[\p{L}\p{N}_]+`)
	punctuation   = regexp.MustCompile(`[.,!?;:]`)
)

var quoteReplacer = strings.NewReplacer(
	"“", `"`, // left double
	"”", `"`, // right double
	"„", `"`, // low double
	"‟", `"`, // reversed double
	"″", `"`, // double prime
	"«", `"`,
	"»", `"`,
	"‘", "'", // left single
	"’", "'", // right single
	"‚", "'", // low single
	"‛", "'", // reversed single
	"′", "'", // prime
)

// Clean maps curly quote variants to straight quotes, collapses whitespace
// runs to a single space and trims the ends. Every other character is kept
// as is, so lengths only change by whitespace.
func Clean(raw string) string {
	text := quoteReplacer.Replace(raw)
	text = whitespaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// FoldCompat applies Unicode compatibility folding (NFKC) to cleaned text:
// ligatures, superscripts, circled digits and the ellipsis character become
// their plain forms. It changes lengths, so it runs after validation.
func FoldCompat(text string) string {
	text = norm.NFKC.String(text)
	text = whitespaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// SplitSentences splits on runs of '.', '!' and '?' and drops empty fragments
func SplitSentences(text string) []string {
	parts := sentenceSplit.Split(text, -1)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// SplitWords returns the lower-cased maximal runs of word characters
func SplitWords(text string) []string {
	words := wordFinder.FindAllString(text, -1)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return words
}

// CountPunctuation counts the characters in [.,!?;:]
func CountPunctuation(text string) int {
	return len(punctuation.FindAllStringIndex(text, -1))
}
