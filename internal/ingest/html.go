package ingest

import (
	"fmt"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// blockElements end a line of visible text
var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"section": true, "article": true, "blockquote": true, "pre": true,
}

// VisibleText extracts text nodes from HTML, skipping scripts and styles
func VisibleText(htmlContent string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "head", "template":
				return
			}
		}

		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode && blockElements[n.Data] {
			buf.WriteString("\n")
		}
	}

	walk(doc)
	return normalizeWhitespace(buf.String()), nil
}

// ArticleText returns the main content of an HTML page. Readability picks
// the article body; pages it cannot handle fall back to all visible text.
func ArticleText(htmlContent string, pageURL *url.URL) (title, text string, err error) {
	if pageURL == nil {
		pageURL = &url.URL{}
	}

	article, rerr := readability.FromReader(strings.NewReader(htmlContent), pageURL)
	if rerr == nil {
		text = normalizeWhitespace(article.TextContent)
		title = strings.TrimSpace(article.Title)
	}
	if text != "" {
		return title, text, nil
	}

	text, err = VisibleText(htmlContent)
	if err != nil {
		return "", "", err
	}
	return title, text, nil
}

func normalizeWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
