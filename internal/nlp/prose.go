package nlp

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jdkato/prose/v2"
)

// ProseParser runs segmentation, tokenization and tagging in process with
// prose. Depth is estimated as one plus the number of clause openers, since
// prose has no dependency parser.
type ProseParser struct{}

// NewProseParser creates an in-process parser
func NewProseParser() *ProseParser {
	return &ProseParser{}
}

// Name returns the provider name
func (p *ProseParser) Name() string {
	return "prose"
}

// taggedToken is one token as reported by the tagger
type taggedToken struct {
	Text string
	Tag  string
}

// Parse tags text and groups its tokens into sentences
func (p *ProseParser) Parse(ctx context.Context, text string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return NewDocument(text, nil, nil, nil), nil
	}

	pdoc, err := prose.NewDocument(text, prose.WithExtraction(false))
	if err != nil {
		return nil, fmt.Errorf("prose: %w", err)
	}

	psents := pdoc.Sentences()
	sents := make([]string, len(psents))
	for i, s := range psents {
		sents[i] = s.Text
	}

	ptokens := pdoc.Tokens()
	tagged := make([]taggedToken, len(ptokens))
	for i, t := range ptokens {
		tagged[i] = taggedToken{Text: t.Text, Tag: t.Tag}
	}

	doc := alignDocument(text, sents, tagged)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return doc, nil
}

// located is a token with its byte offset in the source text
type located struct {
	taggedToken
	offset int
}

// alignDocument places tagger tokens back onto text. Text the tagger
// skipped between two located tokens (such as the n't of a contraction or
// a trailing period) is emitted as extra untagged tokens.
func alignDocument(text string, sents []string, tagged []taggedToken) *Document {
	sentStarts := make([]int, len(sents))
	cursor := 0
	for i, s := range sents {
		sentStarts[i] = locate(text, s, &cursor)
	}

	var spans []located
	cursor = 0
	for _, t := range tagged {
		idx := -1
		if t.Text != "" && cursor < len(text) {
			idx = strings.Index(text[cursor:], t.Text)
		}
		if idx < 0 {
			spans = append(spans, located{taggedToken: t, offset: cursor})
			continue
		}
		start := cursor + idx
		spans = append(spans, gapTokens(text[cursor:start], cursor)...)
		spans = append(spans, located{taggedToken: t, offset: start})
		cursor = start + len(t.Text)
	}
	if cursor < len(text) {
		spans = append(spans, gapTokens(text[cursor:], cursor)...)
	}

	tokens := make([]Token, len(spans))
	sentences := make([]Sentence, len(sents))
	for i, s := range sents {
		sentences[i] = Sentence{Text: strings.TrimSpace(s), Depth: 1}
	}

	current := 0
	for i, sp := range spans {
		for current+1 < len(sentences) && sp.offset >= sentStarts[current+1] {
			current++
			sentences[current].Start = i
		}

		tokens[i] = Token{
			Text:    sp.Text,
			POS:     tokenPOS(sp.Text, sp.Tag),
			IsAlpha: isAlpha(sp.Text),
			IsStop:  IsStopWord(sp.Text),
		}
		if len(sentences) > 0 {
			sentences[current].End = i + 1
			if opensClause(sp.Text, sp.Tag) {
				sentences[current].Depth++
			}
		}
	}

	// Sentences that received no tokens collapse to an empty range
	for i := range sentences {
		if sentences[i].End < sentences[i].Start {
			sentences[i].End = sentences[i].Start
		}
		if i > 0 && sentences[i].Start < sentences[i-1].End {
			sentences[i].Start = sentences[i-1].End
			if sentences[i].End < sentences[i].Start {
				sentences[i].End = sentences[i].Start
			}
		}
	}

	return NewDocument(text, tokens, sentences, nil)
}

// gapTokens splits skipped text into word runs (letters, digits and inner
// apostrophes) and single punctuation or symbol characters. base is the
// byte offset of gap in the source text.
func gapTokens(gap string, base int) []located {
	var out []located
	wordStart := -1

	flush := func(end int) {
		if wordStart >= 0 {
			out = append(out, located{
				taggedToken: taggedToken{Text: gap[wordStart:end], Tag: contractionTag(gap[wordStart:end])},
				offset:      base + wordStart,
			})
			wordStart = -1
		}
	}

	for i, r := range gap {
		switch {
		case isWordRune(r) || (r == '\'' && wordStart >= 0) || (r == '\'' && followedByLetter(gap[i+1:])):
			if wordStart < 0 {
				wordStart = i
			}
		case unicode.IsSpace(r):
			flush(i)
		default:
			flush(i)
			size := utf8.RuneLen(r)
			out = append(out, located{taggedToken: taggedToken{Text: gap[i : i+size]}, offset: base + i})
		}
	}
	flush(len(gap))
	return out
}

func followedByLetter(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsLetter(r)
}

// contractionTag tags the negation and verb suffixes the tagger drops
func contractionTag(word string) string {
	switch strings.ToLower(word) {
	case "n't", "not":
		return "RB"
	case "'s", "'re", "'ve", "'m", "'ll", "'d":
		return "VBZ"
	}
	return ""
}

// locate finds needle in text at or after *cursor and advances the cursor
// past it. When needle is absent the cursor stays put and is returned.
func locate(text, needle string, cursor *int) int {
	if needle == "" || *cursor >= len(text) {
		return *cursor
	}
	idx := strings.Index(text[*cursor:], needle)
	if idx < 0 {
		return *cursor
	}
	start := *cursor + idx
	*cursor = start + len(needle)
	return start
}
