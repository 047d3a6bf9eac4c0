// Package pipeline runs the analysis chain: clean, validate, parse,
// extract features, score and summarize.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ppiankov/aiprobe/internal/cache"
	"github.com/ppiankov/aiprobe/internal/features"
	"github.com/ppiankov/aiprobe/internal/ingest"
	"github.com/ppiankov/aiprobe/internal/llm"
	"github.com/ppiankov/aiprobe/internal/metrics"
	"github.com/ppiankov/aiprobe/internal/model"
	"github.com/ppiankov/aiprobe/internal/nlp"
	"github.com/ppiankov/aiprobe/internal/score"
	"github.com/ppiankov/aiprobe/internal/textproc"
	"github.com/ppiankov/aiprobe/internal/util"
	"github.com/ppiankov/aiprobe/internal/validate"
)

// Pipeline holds the collaborators shared by every analysis. It is safe
// for concurrent use; nothing is mutated after construction.
type Pipeline struct {
	parser    nlp.Parser
	extractor *features.Extractor
	validator *validate.Validator
	scorer    *score.Scorer
	cache     cache.Cache // nil when caching is disabled
	cacheTTL  time.Duration
	fold      bool // NFKC-fold text after validation
	narrator  *llm.Narrator // nil when narratives are disabled
	fetcher   *ingest.Fetcher
	metrics   *metrics.Metrics
	logger    *util.Logger
}

// Option customizes a Pipeline
type Option func(*Pipeline)

// WithParser replaces the configured parse provider
func WithParser(parser nlp.Parser) Option {
	return func(p *Pipeline) { p.parser = parser }
}

// WithCache replaces the result cache; nil disables caching
func WithCache(c cache.Cache) Option {
	return func(p *Pipeline) { p.cache = c }
}

// WithNarrator attaches an LLM narrator
func WithNarrator(n *llm.Narrator) Option {
	return func(p *Pipeline) { p.narrator = n }
}

// WithMetrics records analyses on m
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithLogger sets the logger
func WithLogger(l *util.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithFetcher replaces the URL fetcher
func WithFetcher(f *ingest.Fetcher) Option {
	return func(p *Pipeline) { p.fetcher = f }
}

// NewPipeline builds a pipeline from validated configuration
func NewPipeline(cfg *model.Config, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		extractor: features.NewExtractor(cfg.Scoring.StatisticalMode),
		validator: validate.NewValidator(cfg.Limits),
		scorer:    score.NewScorer(cfg.Scoring.EffectiveWeights()),
		cacheTTL:  cfg.Cache.TTL,
		fold:      cfg.Scoring.FoldUnicode,
		logger:    util.NewDiscardLogger(),
	}
	if cfg.Cache.Enabled {
		p.cache = cache.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.CleanupInterval)
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.parser == nil {
		parser, err := nlp.NewParser(cfg.Parser, util.NewHTTPClient(cfg.HTTP))
		if err != nil {
			return nil, err
		}
		p.parser = parser
	}
	if p.fetcher == nil {
		p.fetcher = ingest.NewFetcherFromConfig(cfg.HTTP)
	}

	return p, nil
}

// ParserName returns the name of the parse provider in use
func (p *Pipeline) ParserName() string {
	return p.parser.Name()
}

// Analyze scores raw text. A positive minLength overrides the configured
// minimum for this call.
func (p *Pipeline) Analyze(ctx context.Context, raw string, minLength int) (*model.AnalysisResult, error) {
	start := time.Now()

	text := textproc.Clean(raw)
	if err := p.validator.Check(text, minLength); err != nil {
		p.metrics.ObserveAnalysis(metrics.OutcomeInvalid, time.Since(start), -1)
		return nil, err
	}
	characters := validate.Length(text)
	if p.fold {
		text = textproc.FoldCompat(text)
	}

	key := p.cacheKey(text)
	if result, ok := p.lookup(key); ok {
		p.logger.Debug("cache hit for %d characters", result.Meta.Characters)
		p.metrics.ObserveAnalysis(metrics.OutcomeCached, time.Since(start), result.Scores.Overall)
		p.narrate(ctx, result, text)
		return result, nil
	}

	parseStart := time.Now()
	doc, err := p.parser.Parse(ctx, text)
	p.metrics.ObserveParse(p.parser.Name(), time.Since(parseStart))
	if err != nil {
		p.metrics.ObserveAnalysis(metrics.OutcomeParseError, time.Since(start), -1)
		return nil, &model.UpstreamParseError{Provider: p.parser.Name(), Err: err}
	}

	fs := p.extractor.Extract(doc, text)

	report, err := p.scorer.Score(fs)
	if err != nil {
		p.metrics.ObserveAnalysis(metrics.OutcomeError, time.Since(start), -1)
		return nil, err
	}

	result := &model.AnalysisResult{
		Scores:   report,
		Features: fs,
		Summary:  score.Summarize(report),
		Meta: &model.AnalysisMeta{
			Characters:      characters,
			Words:           len(textproc.SplitWords(text)),
			Sentences:       len(doc.Sentences),
			Tokens:          len(doc.Tokens),
			Parser:          p.parser.Name(),
			StatisticalMode: p.extractor.Mode(),
		},
	}

	p.store(key, result)
	p.metrics.ObserveAnalysis(metrics.OutcomeOK, time.Since(start), report.Overall)
	p.logger.Debug("analyzed %d characters, %d sentences in %s", result.Meta.Characters, result.Meta.Sentences, time.Since(start))

	p.narrate(ctx, result, text)
	return result, nil
}

// AnalyzeSource loads a file path or http(s) URL and analyzes its text
func (p *Pipeline) AnalyzeSource(ctx context.Context, source string) (*model.AnalysisResult, error) {
	src, err := p.Load(ctx, source)
	if err != nil {
		return nil, err
	}

	result, err := p.Analyze(ctx, src.Text, 0)
	if err != nil {
		return nil, err
	}
	result.Meta.Source = src.Origin
	return result, nil
}

// Load reads a file path or http(s) URL
func (p *Pipeline) Load(ctx context.Context, source string) (*ingest.Source, error) {
	if IsURL(source) {
		src, err := p.fetcher.LoadURL(ctx, source)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", source, err)
		}
		return src, nil
	}

	src, err := ingest.LoadFile(source)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", source, err)
	}
	return src, nil
}

// IsURL reports whether source names an http(s) URL rather than a file
func IsURL(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// narrate attaches an LLM narrative after scoring. Failures only warn.
func (p *Pipeline) narrate(ctx context.Context, result *model.AnalysisResult, text string) {
	if !p.narrator.IsEnabled() {
		return
	}

	narrative, err := p.narrator.Narrate(ctx, *result, text)
	if err != nil {
		p.logger.Error("narrative: %v", err)
		return
	}
	if narrative == nil {
		return
	}
	for _, w := range narrative.Warnings {
		p.logger.Info("Warning: %s", w)
	}
	if narrative.Enabled {
		result.Narrative = narrative.Text
	}
}

// cacheKey covers every setting that changes the result for the same text
func (p *Pipeline) cacheKey(text string) string {
	weights := p.scorer.Weights()
	parts := []string{p.parser.Name(), string(p.extractor.Mode()), "fold=" + strconv.FormatBool(p.fold)}
	for _, c := range model.Categories {
		parts = append(parts, string(c)+"="+strconv.FormatFloat(weights[c], 'g', -1, 64))
	}
	return cache.Key(text, parts...)
}

func (p *Pipeline) lookup(key string) (*model.AnalysisResult, bool) {
	if p.cache == nil {
		return nil, false
	}
	data, ok := p.cache.Get(key)
	if !ok {
		return nil, false
	}

	var result model.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		p.logger.Error("decode cached result: %v", err)
		_ = p.cache.Delete(key)
		return nil, false
	}
	if result.Meta == nil {
		result.Meta = &model.AnalysisMeta{}
	}
	result.Meta.Cached = true
	return &result, true
}

func (p *Pipeline) store(key string, result *model.AnalysisResult) {
	if p.cache == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		p.logger.Error("encode result for cache: %v", err)
		return
	}
	if err := p.cache.Set(key, data, p.cacheTTL); err != nil {
		p.logger.Error("cache result: %v", err)
	}
}
