package nlp

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/aiprobe/internal/model"
)

func tok(text, pos string) Token {
	return Token{Text: text, POS: pos, IsAlpha: isAlpha(text), IsStop: IsStopWord(text)}
}

func TestDocument_SimilarityIdenticalSentences(t *testing.T) {
	tokens := []Token{
		tok("Cats", POSNoun), tok("purr", POSVerb), tok(".", POSPunct),
		tok("Cats", POSNoun), tok("purr", POSVerb), tok(".", POSPunct),
	}
	sentences := []Sentence{
		{Text: "Cats purr.", Start: 0, End: 3, Depth: 1},
		{Text: "Cats purr.", Start: 3, End: 6, Depth: 1},
	}
	doc := NewDocument("Cats purr. Cats purr.", tokens, sentences, nil)

	if got := doc.Similarity(0, 1); got != 1 {
		t.Errorf("expected similarity 1 for identical sentences, got %f", got)
	}
}

func TestDocument_SimilarityClamped(t *testing.T) {
	sentences := []Sentence{{Text: "a"}, {Text: "b"}, {Text: "c"}}
	doc := NewDocument("a b c", nil, sentences, func(i, j int) float64 {
		if j == 1 {
			return -0.4
		}
		if j == 2 {
			return math.NaN()
		}
		return 1.7
	})

	if got := doc.Similarity(0, 1); got != 0 {
		t.Errorf("expected negative similarity clamped to 0, got %f", got)
	}
	if got := doc.Similarity(0, 2); got != 0 {
		t.Errorf("expected NaN similarity clamped to 0, got %f", got)
	}
	if got := doc.Similarity(2, 0); got != 1 {
		t.Errorf("expected similarity clamped to 1, got %f", got)
	}
}

func TestTermSimilarity(t *testing.T) {
	tokens := []Token{
		tok("Dogs", POSNoun), tok("chase", POSVerb), tok("cats", POSNoun),
		tok("Dogs", POSNoun), tok("chase", POSVerb), tok("balls", POSNoun),
		tok("Stocks", POSNoun), tok("fell", POSVerb), tok("sharply", POSAdv),
	}
	sentences := []Sentence{
		{Text: "Dogs chase cats", Start: 0, End: 3},
		{Text: "Dogs chase balls", Start: 3, End: 6},
		{Text: "Stocks fell sharply", Start: 6, End: 9},
	}
	doc := NewDocument("", tokens, sentences, nil)

	related := doc.Similarity(0, 1)
	unrelated := doc.Similarity(1, 2)
	if related <= unrelated {
		t.Errorf("expected overlapping sentences to score higher: %f vs %f", related, unrelated)
	}
	if math.Abs(related-2.0/3.0) > 1e-9 {
		t.Errorf("expected cosine 2/3, got %f", related)
	}
	if unrelated != 0 {
		t.Errorf("expected 0 for disjoint sentences, got %f", unrelated)
	}
}

func TestStopWords(t *testing.T) {
	for _, w := range []string{"the", "The", "and", "of"} {
		if !IsStopWord(w) {
			t.Errorf("expected %q to be a stop word", w)
		}
	}
	if IsStopWord("elephant") {
		t.Error("expected elephant not to be a stop word")
	}
}

func TestUniversalPOS(t *testing.T) {
	tests := map[string]string{
		"NNS": POSNoun, "VBD": POSVerb, "JJ": POSAdj, "RB": POSAdv,
		"PRP": POSPron, "IN": POSAdp, "DT": POSDet, "UH": POSIntj,
		"MD": POSAux, "NNP": POSPropN, "???": POSOther,
	}
	for penn, want := range tests {
		if got := UniversalPOS(penn); got != want {
			t.Errorf("UniversalPOS(%s) = %s, want %s", penn, got, want)
		}
	}
}

func TestOpensClause(t *testing.T) {
	if !opensClause("because", "IN") {
		t.Error("expected because/IN to open a clause")
	}
	if opensClause("on", "IN") {
		t.Error("expected on/IN not to open a clause")
	}
	if !opensClause("which", "WDT") {
		t.Error("expected which/WDT to open a clause")
	}
}

func TestProseParser_Parse(t *testing.T) {
	p := NewProseParser()
	doc, err := p.Parse(context.Background(), "The cat sat on the mat. The dog ran away quickly.")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if len(doc.Sentences) != 2 {
		t.Fatalf("expected 2 sentences, got %d", len(doc.Sentences))
	}
	if len(doc.Tokens) == 0 {
		t.Fatal("expected tokens")
	}

	covered := 0
	for i, s := range doc.Sentences {
		if s.Start > s.End || s.End > len(doc.Tokens) {
			t.Fatalf("sentence %d has invalid range [%d, %d)", i, s.Start, s.End)
		}
		if s.Depth < 1 {
			t.Errorf("sentence %d has depth %d, want >= 1", i, s.Depth)
		}
		covered += s.Len()
	}
	if covered != len(doc.Tokens) {
		t.Errorf("expected sentences to cover all %d tokens, got %d", len(doc.Tokens), covered)
	}

	first := doc.Tokens[0]
	if first.Text != "The" || first.POS != POSDet || !first.IsStop || !first.IsAlpha {
		t.Errorf("unexpected first token: %+v", first)
	}
}

func tokenTexts(doc *Document, s Sentence) []string {
	var texts []string
	for _, t := range doc.Tokens[s.Start:s.End] {
		texts = append(texts, t.Text)
	}
	return texts
}

func TestAlignDocument_QuotesAndContractions(t *testing.T) {
	text := `He said "stop it." She didn't.`
	sents := []string{`He said "stop it."`, `She didn't.`}
	tagged := []taggedToken{
		{"He", "PRP"}, {"said", "VBD"}, {`"`, "JJ"}, {"stop", "VB"}, {"it", "PRP"},
		{".", "."}, {`"`, "VB"}, {"She", "PRP"}, {"did", "VBD"},
	}

	doc := alignDocument(text, sents, tagged)

	if len(doc.Sentences) != 2 {
		t.Fatalf("expected 2 sentences, got %d", len(doc.Sentences))
	}
	first := tokenTexts(doc, doc.Sentences[0])
	wantFirst := []string{"He", "said", `"`, "stop", "it", ".", `"`}
	if strings.Join(first, "|") != strings.Join(wantFirst, "|") {
		t.Errorf("sentence 0 tokens = %q, want %q", first, wantFirst)
	}
	second := tokenTexts(doc, doc.Sentences[1])
	wantSecond := []string{"She", "did", "n't", "."}
	if strings.Join(second, "|") != strings.Join(wantSecond, "|") {
		t.Errorf("sentence 1 tokens = %q, want %q", second, wantSecond)
	}

	for _, tk := range doc.Tokens {
		switch tk.Text {
		case `"`, ".":
			if tk.POS != POSPunct {
				t.Errorf("token %q tagged %s, want PUNCT", tk.Text, tk.POS)
			}
		case "n't":
			if tk.POS != POSAdv {
				t.Errorf("token n't tagged %s, want ADV", tk.POS)
			}
		}
	}
}

func TestAlignDocument_GapBetweenSentences(t *testing.T) {
	text := "She didn't. Go home."
	sents := []string{"She didn't.", "Go home."}
	tagged := []taggedToken{{"She", "PRP"}, {"did", "VBD"}, {"Go", "VB"}, {"home", "NN"}, {".", "."}}

	doc := alignDocument(text, sents, tagged)

	if got := tokenTexts(doc, doc.Sentences[0]); strings.Join(got, "|") != "She|did|n't|." {
		t.Errorf("sentence 0 tokens = %q", got)
	}
	if got := tokenTexts(doc, doc.Sentences[1]); strings.Join(got, "|") != "Go|home|." {
		t.Errorf("sentence 1 tokens = %q", got)
	}
}

func TestAlignDocument_UnlocatedToken(t *testing.T) {
	doc := alignDocument("Hi there.", []string{"Hi there."}, []taggedToken{{"Hi", "UH"}, {"``", "``"}, {"there", "RB"}, {".", "."}})
	if len(doc.Tokens) != 4 {
		t.Fatalf("expected 4 tokens, got %d", len(doc.Tokens))
	}
	if doc.Sentences[0].Len() != 4 {
		t.Errorf("sentence covers %d tokens, want 4", doc.Sentences[0].Len())
	}
}

func TestGapTokens(t *testing.T) {
	got := gapTokens(" n't. $5 'tis ", 10)
	want := []struct {
		text   string
		offset int
	}{{"n't", 11}, {".", 14}, {"$", 16}, {"5", 17}, {"'tis", 19}}

	if len(got) != len(want) {
		t.Fatalf("got %d tokens (%v), want %d", len(got), got, len(want))
	}
	for i, w := range want {
		if got[i].Text != w.text || got[i].offset != w.offset {
			t.Errorf("token %d = %q@%d, want %q@%d", i, got[i].Text, got[i].offset, w.text, w.offset)
		}
	}
}

func TestTokenPOS(t *testing.T) {
	tests := []struct {
		text, penn, want string
	}{
		{`"`, "JJ", POSPunct},
		{`"`, "VB", POSPunct},
		{"...", "JJ", POSPunct},
		{"$", "$", POSSym},
		{"+", "VB", POSSym},
		{"word", "NN", POSNoun},
		{"3", "CD", POSNum},
		{"n't", "RB", POSAdv},
	}

	for _, tt := range tests {
		if got := tokenPOS(tt.text, tt.penn); got != tt.want {
			t.Errorf("tokenPOS(%q, %q) = %s, want %s", tt.text, tt.penn, got, tt.want)
		}
	}
}

func TestProseParser_QuotedSpeechAndContraction(t *testing.T) {
	doc, err := NewProseParser().Parse(context.Background(), `He said "stop it." She didn't.`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	foundNegation := false
	for _, tk := range doc.Tokens {
		if tk.Text == `"` && tk.POS != POSPunct {
			t.Errorf("quote mark tagged %s, want PUNCT", tk.POS)
		}
		if tk.Text == "n't" {
			foundNegation = true
		}
	}
	if !foundNegation {
		t.Error("expected the n't of didn't to be kept as a token")
	}
	if last := doc.Tokens[len(doc.Tokens)-1]; last.Text != "." {
		t.Errorf("last token = %q, want the final period", last.Text)
	}
}

func TestProseParser_EmptyText(t *testing.T) {
	doc, err := NewProseParser().Parse(context.Background(), "")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(doc.Tokens) != 0 || len(doc.Sentences) != 0 {
		t.Errorf("expected empty document, got %d tokens, %d sentences", len(doc.Tokens), len(doc.Sentences))
	}
}

func TestProseParser_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewProseParser().Parse(ctx, "Some text here."); err == nil {
		t.Error("expected error for canceled context")
	}
}

func TestRemoteParser_Parse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/parse" {
			http.NotFound(w, r)
			return
		}
		var req remoteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{
			"tokens": [
				{"text":"Hello","pos":"INTJ","is_alpha":true,"is_stop":false},
				{"text":"world","pos":"NOUN","is_alpha":true,"is_stop":false},
				{"text":"Bye","pos":"INTJ","is_alpha":true,"is_stop":false}
			],
			"sentences": [
				{"text":"Hello world","start":0,"end":2,"depth":2,"vector":[1,0]},
				{"text":"Bye","start":2,"end":3,"depth":1,"vector":[1,1]}
			]
		}`))
	}))
	defer server.Close()

	p := NewRemoteParser(server.URL+"/", time.Second, nil)
	doc, err := p.Parse(context.Background(), "Hello world. Bye.")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if len(doc.Tokens) != 3 || len(doc.Sentences) != 2 {
		t.Fatalf("unexpected document shape: %d tokens, %d sentences", len(doc.Tokens), len(doc.Sentences))
	}
	if doc.Sentences[0].Depth != 2 {
		t.Errorf("expected depth 2, got %d", doc.Sentences[0].Depth)
	}
	if got := doc.Similarity(0, 1); math.Abs(got-1/math.Sqrt2) > 1e-9 {
		t.Errorf("expected vector cosine %f, got %f", 1/math.Sqrt2, got)
	}
}

func TestRemoteParser_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewRemoteParser(server.URL, time.Second, nil).Parse(context.Background(), "text")
	if err == nil || !strings.Contains(err.Error(), "503") {
		t.Errorf("expected HTTP 503 error, got %v", err)
	}
}

func TestRemoteParser_InvalidRange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tokens":[{"text":"a"}],"sentences":[{"text":"a","start":0,"end":4}]}`))
	}))
	defer server.Close()

	_, err := NewRemoteParser(server.URL, time.Second, nil).Parse(context.Background(), "a")
	if err == nil || !strings.Contains(err.Error(), "invalid token range") {
		t.Errorf("expected range error, got %v", err)
	}
}

func TestNewParser(t *testing.T) {
	p, err := NewParser(model.ParserConfig{Provider: "prose"}, nil)
	if err != nil || p.Name() != "prose" {
		t.Errorf("expected prose parser, got %v, %v", p, err)
	}

	p, err = NewParser(model.ParserConfig{Provider: "remote", URL: "http://localhost:9000"}, nil)
	if err != nil || p.Name() != "remote" {
		t.Errorf("expected remote parser, got %v, %v", p, err)
	}

	if _, err := NewParser(model.ParserConfig{Provider: "remote"}, nil); err == nil {
		t.Error("expected error for remote parser without URL")
	}
	if _, err := NewParser(model.ParserConfig{Provider: "stanza"}, nil); err == nil {
		t.Error("expected error for unknown provider")
	}
}
