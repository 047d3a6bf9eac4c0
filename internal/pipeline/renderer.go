package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/ppiankov/aiprobe/internal/model"
	"github.com/ppiankov/aiprobe/internal/score"
)

// Renderer writes analysis results as JSON or Markdown
type Renderer struct {
	markdown *template.Template
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{
		markdown: template.Must(template.New("report").Funcs(template.FuncMap{
			"percent":    score.Percent,
			"confidence": score.ConfidenceLabel,
			"metrics":    sortedMetrics,
			"categories": func(fs model.FeatureSet) []model.Category { return fs.OrderedCategories() },
			"feature":    func(fs model.FeatureSet, c model.Category) model.FeatureMap { return fs[c] },
		}).Parse(markdownTemplate)),
	}
}

const markdownTemplate = `# AI Content Analysis Report
{{- with .Meta}}{{if .Source}}

Source: {{.Source}}{{end}}{{end}}

**Overall AI Probability: {{percent .Scores.Overall}}** ({{confidence .Scores.Overall}} Confidence)

## Scores

| Category | Score |
|----------|-------|
{{- range .Scores.Categories}}
| {{.Category.Title}} | {{percent .Score}} |
{{- end}}

## Features
{{- $fs := .Features}}
{{- range categories $fs}}

### {{.Title}}

| Metric | Value |
|--------|-------|
{{- $fm := feature $fs .}}
{{- range metrics $fm}}
| {{.Name}} | {{printf "%.4f" .Value}} |
{{- end}}
{{- end}}
{{- if .Narrative}}

## Narrative

{{.Narrative}}
{{- end}}
{{- with .Meta}}

---
{{.Characters}} characters, {{.Words}} words, {{.Sentences}} sentences; parser {{.Parser}}, statistical mode {{.StatisticalMode}}.
{{- end}}
`

type metricValue struct {
	Name  string
	Value float64
}

func sortedMetrics(fm model.FeatureMap) []metricValue {
	names := make([]string, 0, len(fm))
	for name := range fm {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]metricValue, 0, len(names))
	for _, name := range names {
		out = append(out, metricValue{Name: name, Value: fm[name]})
	}
	return out
}

// WriteJSON writes the result as indented JSON
func (r *Renderer) WriteJSON(w io.Writer, result *model.AnalysisResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

// WriteMarkdown writes the result as a Markdown report
func (r *Renderer) WriteMarkdown(w io.Writer, result *model.AnalysisResult) error {
	if err := r.markdown.Execute(w, result); err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	return nil
}

// Markdown returns the Markdown report as a string
func (r *Renderer) Markdown(result *model.AnalysisResult) (string, error) {
	var b strings.Builder
	if err := r.WriteMarkdown(&b, result); err != nil {
		return "", err
	}
	return b.String(), nil
}

// RenderJSON writes the result to path as JSON
func (r *Renderer) RenderJSON(result *model.AnalysisResult, path string) error {
	return writeFile(path, func(w io.Writer) error { return r.WriteJSON(w, result) })
}

// RenderMarkdown writes the result to path as Markdown
func (r *Renderer) RenderMarkdown(result *model.AnalysisResult, path string) error {
	return writeFile(path, func(w io.Writer) error { return r.WriteMarkdown(w, result) })
}

func writeFile(path string, render func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	if err := render(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
