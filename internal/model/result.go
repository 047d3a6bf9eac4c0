package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Category names one family of features
type Category string

const (
	CategorySemantic    Category = "semantic"    // Coherence, complexity, diversity
	CategoryStatistical Category = "statistical" // Distributional statistics of words and sentences
	CategoryStylometric Category = "stylometric" // Formality, readability, vocabulary richness
)

// OverallKey is the score report key holding the weighted overall score
const OverallKey = "overall"

// Categories is the fixed, canonically ordered category set
var Categories = []Category{CategorySemantic, CategoryStatistical, CategoryStylometric}

// Title returns the category name with an upper-case first letter
func (c Category) Title() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

// IsKnown reports whether c belongs to the fixed category set
func (c Category) IsKnown() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// FeatureMap maps metric names to values for a single category
type FeatureMap map[string]float64

// FeatureSet holds one FeatureMap per category
type FeatureSet map[Category]FeatureMap

// OrderedCategories returns the categories present in the set: known
// categories first in canonical order, then unknown ones sorted by name.
func (fs FeatureSet) OrderedCategories() []Category {
	ordered := make([]Category, 0, len(fs))
	for _, c := range Categories {
		if _, ok := fs[c]; ok {
			ordered = append(ordered, c)
		}
	}

	var extra []Category
	for c := range fs {
		if !c.IsKnown() {
			extra = append(extra, c)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })

	return append(ordered, extra...)
}

// CategoryScore is the mean feature value of one category
type CategoryScore struct {
	Category Category `json:"category"`
	Score    float64  `json:"score"`
}

// ScoreReport holds ordered category scores and the overall score.
// It serializes as a flat object: {"semantic": x, ..., "overall": y}.
type ScoreReport struct {
	Categories []CategoryScore
	Overall    float64
}

// Get returns the score of a category, or the overall score for OverallKey
func (r ScoreReport) Get(key string) (float64, bool) {
	if key == OverallKey {
		return r.Overall, true
	}
	for _, cs := range r.Categories {
		if string(cs.Category) == key {
			return cs.Score, true
		}
	}
	return 0, false
}

// MarshalJSON writes category scores in report order followed by "overall"
func (r ScoreReport) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	write := func(key string, value float64) error {
		k, err := json.Marshal(key)
		if err != nil {
			return err
		}
		v, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("score %s: %w", key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
		return nil
	}

	for _, cs := range r.Categories {
		if err := write(string(cs.Category), cs.Score); err != nil {
			return nil, err
		}
		buf.WriteByte(',')
	}
	if err := write(OverallKey, r.Overall); err != nil {
		return nil, err
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON restores a report written by MarshalJSON. Categories come
// back in canonical order since JSON objects carry no order.
func (r *ScoreReport) UnmarshalJSON(data []byte) error {
	var raw map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Overall = raw[OverallKey]
	delete(raw, OverallKey)

	fs := make(FeatureSet, len(raw))
	for k := range raw {
		fs[Category(k)] = nil
	}

	r.Categories = r.Categories[:0]
	for _, c := range fs.OrderedCategories() {
		r.Categories = append(r.Categories, CategoryScore{Category: c, Score: raw[string(c)]})
	}
	return nil
}

// AnalysisResult is the outcome of one analysis call
type AnalysisResult struct {
	Scores    ScoreReport   `json:"scores"`
	Features  FeatureSet    `json:"features"`
	Summary   string        `json:"summary"`
	Narrative string        `json:"narrative,omitempty"` // Optional LLM explanation (never affects scores)
	Meta      *AnalysisMeta `json:"meta,omitempty"`
}

// AnalysisMeta describes the analyzed input and how it was processed
type AnalysisMeta struct {
	Characters      int             `json:"characters"`
	Words           int             `json:"words"`
	Sentences       int             `json:"sentences"`
	Tokens          int             `json:"tokens"`
	Parser          string          `json:"parser"`
	StatisticalMode StatisticalMode `json:"statistical_mode"`
	Source          string          `json:"source,omitempty"` // File path or URL when not submitted inline
	Cached          bool            `json:"cached,omitempty"`
}
