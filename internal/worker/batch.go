package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ppiankov/aiprobe/internal/model"
)

// Analyzer analyzes one source: a file path or an http(s) URL
type Analyzer interface {
	AnalyzeSource(ctx context.Context, source string) (*model.AnalysisResult, error)
}

// AnalysisJob analyzes a single source
type AnalysisJob struct {
	Index    int
	Source   string
	Analyzer Analyzer
}

// Execute runs the analysis
func (j *AnalysisJob) Execute(ctx context.Context) Result {
	result, err := j.Analyzer.AnalyzeSource(ctx, j.Source)
	return &AnalysisJobResult{
		Index:  j.Index,
		Source: j.Source,
		Result: result,
		Error:  err,
	}
}

// AnalysisJobResult is the outcome of one AnalysisJob
type AnalysisJobResult struct {
	Index  int
	Source string
	Result *model.AnalysisResult
	Error  error
}

// GetError returns the analysis error
func (r *AnalysisJobResult) GetError() error {
	return r.Error
}

// BatchProcessor analyzes many sources concurrently
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(analyzer Analyzer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
	}
}

// ProcessSources analyzes every source and returns results in input order.
// onResult, when set, is called as each result arrives.
func (b *BatchProcessor) ProcessSources(ctx context.Context, sources []string, onResult func(*AnalysisJobResult)) []*AnalysisJobResult {
	if len(sources) == 0 {
		return []*AnalysisJobResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	go func() {
		defer pool.Close()
		for i, source := range sources {
			if !pool.Submit(&AnalysisJob{Index: i, Source: source, Analyzer: b.analyzer}) {
				return
			}
		}
	}()

	results := make([]*AnalysisJobResult, 0, len(sources))
	for r := range pool.Results() {
		jr := r.(*AnalysisJobResult)
		if onResult != nil {
			onResult(jr)
		}
		results = append(results, jr)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Index < results[j].Index })
	return results
}

// ProcessFile reads sources from a list file and analyzes them
func (b *BatchProcessor) ProcessFile(ctx context.Context, listPath string, onResult func(*AnalysisJobResult)) ([]*AnalysisJobResult, error) {
	sources, err := ReadSourcesFromFile(listPath)
	if err != nil {
		return nil, fmt.Errorf("read sources: %w", err)
	}

	return b.ProcessSources(ctx, sources, onResult), nil
}

// ReadSourcesFromFile reads one source per line, skipping blank lines,
// # comments and duplicates
func ReadSourcesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var sources []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			sources = append(sources, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return sources, nil
}
