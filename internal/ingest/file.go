// Package ingest turns files and URLs into plain text for analysis.
package ingest

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Format names the kind of content a source was read from
type Format string

const (
	FormatText Format = "text"
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
)

// Source is text read from a file or URL
type Source struct {
	Origin string // File path or final URL
	Title  string
	Format Format
	Text   string
}

// LoadFile reads a local file. Plain text and markdown are returned as is,
// HTML is reduced to its article text and PDF pages are extracted.
func LoadFile(path string) (*Source, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	src := &Source{Origin: path, Title: title}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case "", ".txt", ".text", ".md", ".markdown":
		src.Format = FormatText
		src.Text = string(raw)

	case ".html", ".htm", ".xhtml":
		src.Format = FormatHTML
		pageTitle, text, err := ArticleText(string(raw), nil)
		if err != nil {
			return nil, err
		}
		if pageTitle != "" {
			src.Title = pageTitle
		}
		src.Text = text

	case ".pdf":
		src.Format = FormatPDF
		text, err := PDFText(bytes.NewReader(raw), int64(len(raw)))
		if err != nil {
			return nil, err
		}
		src.Text = text

	default:
		return nil, fmt.Errorf("unsupported file type: %s", ext)
	}

	return src, nil
}

// PDFText extracts the plain text of every readable page
func PDFText(r io.ReaderAt, size int64) (string, error) {
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var b strings.Builder
	total := reader.NumPage()
	for i := 1; i <= total; i++ {
		p := reader.Page(i)
		if p.V.IsNull() {
			continue
		}
		content, pageErr := p.GetPlainText(nil)
		if pageErr != nil {
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("no extractable text found in pdf")
	}
	return normalizeWhitespace(b.String()), nil
}
