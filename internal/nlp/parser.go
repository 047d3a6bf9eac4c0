package nlp

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/ppiankov/aiprobe/internal/model"
)

// Parser turns cleaned text into a Document.
// Implementations must be safe for concurrent use.
type Parser interface {
	// Name returns the provider name
	Name() string

	// Parse tokenizes, tags and segments text
	Parse(ctx context.Context, text string) (*Document, error)
}

// NewParser creates the parse provider selected by configuration
func NewParser(cfg model.ParserConfig, client *http.Client) (Parser, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "prose":
		return NewProseParser(), nil

	case "remote":
		if cfg.URL == "" {
			return nil, fmt.Errorf("remote parser requires a URL")
		}
		return NewRemoteParser(cfg.URL, cfg.Timeout, client), nil

	default:
		return nil, fmt.Errorf("unknown parse provider: %s (supported: prose, remote)", cfg.Provider)
	}
}
