package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxRemoteResponse bounds the parse response read from the sidecar
const maxRemoteResponse = 32 << 20

// RemoteParser delegates parsing to an HTTP sidecar (typically spaCy)
// exposing POST /parse. The sidecar reports dependency depth and, when its
// model has vectors, one vector per sentence.
type RemoteParser struct {
	baseURL string
	client  *http.Client
}

type remoteRequest struct {
	Text string `json:"text"`
}

type remoteSentence struct {
	Sentence
	Vector []float64 `json:"vector,omitempty"`
}

type remoteResponse struct {
	Tokens    []Token          `json:"tokens"`
	Sentences []remoteSentence `json:"sentences"`
}

// NewRemoteParser creates a client for the parse service at baseURL
func NewRemoteParser(baseURL string, timeout time.Duration, client *http.Client) *RemoteParser {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &RemoteParser{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// Name returns the provider name
func (p *RemoteParser) Name() string {
	return "remote"
}

// Parse posts text to the sidecar and validates the returned structure
func (p *RemoteParser) Parse(ctx context.Context, text string) (*Document, error) {
	body, err := json.Marshal(remoteRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/parse", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post parse: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("parse service returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var parsed remoteResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxRemoteResponse)).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode parse response: %w", err)
	}

	return buildRemoteDocument(text, parsed)
}

func buildRemoteDocument(text string, parsed remoteResponse) (*Document, error) {
	n := len(parsed.Tokens)
	sentences := make([]Sentence, len(parsed.Sentences))
	vectors := make([][]float64, len(parsed.Sentences))
	haveVectors := len(parsed.Sentences) > 0

	prevEnd := 0
	for i, s := range parsed.Sentences {
		if s.Start < prevEnd || s.End < s.Start || s.End > n {
			return nil, fmt.Errorf("sentence %d has invalid token range [%d, %d) for %d tokens", i, s.Start, s.End, n)
		}
		if s.Depth < 0 {
			return nil, fmt.Errorf("sentence %d has negative depth %d", i, s.Depth)
		}
		prevEnd = s.End
		sentences[i] = s.Sentence
		vectors[i] = s.Vector
		if len(s.Vector) == 0 {
			haveVectors = false
		}
	}

	var sim SimilarityFunc
	if haveVectors {
		sim = func(i, j int) float64 {
			return denseCosine(vectors[i], vectors[j])
		}
	}
	return NewDocument(text, parsed.Tokens, sentences, sim), nil
}
