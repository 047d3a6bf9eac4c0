package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadFile_Text(t *testing.T) {
	for _, name := range []string{"essay.txt", "essay.md", "essay"} {
		path := writeTemp(t, name, "Line one.\n\nLine two.")
		src, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile(%s): %v", name, err)
		}
		if src.Format != FormatText {
			t.Errorf("%s: expected text format, got %s", name, src.Format)
		}
		if src.Text != "Line one.\n\nLine two." {
			t.Errorf("%s: text should be returned unchanged, got %q", name, src.Text)
		}
		if src.Title != "essay" {
			t.Errorf("%s: expected title essay, got %q", name, src.Title)
		}
	}
}

func TestLoadFile_HTML(t *testing.T) {
	path := writeTemp(t, "page.html", articleHTML)
	src, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if src.Format != FormatHTML {
		t.Errorf("Expected html format, got %s", src.Format)
	}
	if !strings.Contains(src.Text, "Neighbours arrived with pumps") {
		t.Errorf("Expected article text, got %q", src.Text)
	}
}

func TestLoadFile_InvalidPDF(t *testing.T) {
	path := writeTemp(t, "broken.pdf", "not really a pdf")
	if _, err := LoadFile(path); err == nil {
		t.Error("Expected error for invalid pdf")
	}
}

func TestLoadFile_Unsupported(t *testing.T) {
	path := writeTemp(t, "sheet.xlsx", "data")
	_, err := LoadFile(path)
	if err == nil || !strings.Contains(err.Error(), "unsupported file type") {
		t.Errorf("Expected unsupported file type error, got %v", err)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestVisibleText(t *testing.T) {
	text, err := VisibleText(`<html><head><style>p{}</style></head><body>
<p>First   paragraph.</p><script>alert(1)</script><div>Second <b>bold</b> part.</div></body></html>`)
	if err != nil {
		t.Fatalf("VisibleText: %v", err)
	}
	if text != "First paragraph.\nSecond bold part." {
		t.Errorf("Unexpected text: %q", text)
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	got := normalizeWhitespace("  a   b \n\n\t c  \n")
	if got != "a b\nc" {
		t.Errorf("normalizeWhitespace = %q", got)
	}
}
