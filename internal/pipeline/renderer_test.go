package pipeline

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ppiankov/aiprobe/internal/model"
)

func sampleResult() *model.AnalysisResult {
	return &model.AnalysisResult{
		Scores: model.ScoreReport{
			Categories: []model.CategoryScore{
				{Category: model.CategorySemantic, Score: 0.3},
				{Category: model.CategoryStatistical, Score: 0.5},
				{Category: model.CategoryStylometric, Score: 0.55},
			},
			Overall: 0.45,
		},
		Features: model.FeatureSet{
			model.CategorySemantic:    {"diversity": 0.25, "coherence": 0.5},
			model.CategoryStylometric: {"formality": 0.625},
		},
		Summary:   "summary",
		Narrative: "Mostly human-like.",
		Meta: &model.AnalysisMeta{
			Characters:      120,
			Words:           20,
			Sentences:       2,
			Parser:          "prose",
			StatisticalMode: model.StatisticalRich,
			Source:          "essay.txt",
		},
	}
}

func TestRenderer_Markdown(t *testing.T) {
	md, err := NewRenderer().Markdown(sampleResult())
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}

	for _, want := range []string{
		"# AI Content Analysis Report",
		"Source: essay.txt",
		"**Overall AI Probability: 45.00%** (Moderate Confidence)",
		"| Semantic | 30.00% |",
		"| Stylometric | 55.00% |",
		"### Semantic",
		"| coherence | 0.5000 |",
		"| formality | 0.6250 |",
		"## Narrative\n\nMostly human-like.",
		"120 characters, 20 words, 2 sentences; parser prose, statistical mode rich.",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Expected markdown to contain %q\n%s", want, md)
		}
	}

	if strings.Index(md, "| coherence |") > strings.Index(md, "| diversity |") {
		t.Error("Expected metrics in sorted order")
	}
	if strings.Index(md, "### Semantic") > strings.Index(md, "### Stylometric") {
		t.Error("Expected categories in canonical order")
	}
}

func TestRenderer_MarkdownWithoutOptionalSections(t *testing.T) {
	result := sampleResult()
	result.Narrative = ""
	result.Meta = nil

	md, err := NewRenderer().Markdown(result)
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	for _, unwanted := range []string{"Narrative", "Source:", "characters,"} {
		if strings.Contains(md, unwanted) {
			t.Errorf("Unexpected %q in markdown\n%s", unwanted, md)
		}
	}
}

func TestRenderer_WriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRenderer().WriteJSON(&buf, sampleResult()); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, `"semantic": 0.3`) {
		t.Errorf("Unexpected scores JSON: %s", out)
	}
	if strings.Index(out, `"semantic"`) > strings.Index(out, `"overall"`) {
		t.Error("Expected overall after category scores")
	}

	var decoded model.AnalysisResult
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Scores.Overall != 0.45 || decoded.Narrative != "Mostly human-like." {
		t.Errorf("Unexpected decoded result: %+v", decoded)
	}
}

func TestRenderer_RenderFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	r := NewRenderer()

	jsonPath := filepath.Join(dir, "essay.json")
	mdPath := filepath.Join(dir, "essay.md")
	if err := r.RenderJSON(sampleResult(), jsonPath); err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	if err := r.RenderMarkdown(sampleResult(), mdPath); err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}

	for _, path := range []string{jsonPath, mdPath} {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat %s: %v", path, err)
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", path)
		}
	}
}
