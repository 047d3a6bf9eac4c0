package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_ObserveAnalysis(t *testing.T) {
	m := New()

	m.ObserveAnalysis(OutcomeOK, 20*time.Millisecond, 0.42)
	m.ObserveAnalysis(OutcomeOK, 30*time.Millisecond, 0.9)
	m.ObserveAnalysis(OutcomeInvalid, time.Millisecond, 0)

	if got := testutil.ToFloat64(m.analyses.WithLabelValues(OutcomeOK)); got != 2 {
		t.Errorf("expected 2 ok analyses, got %v", got)
	}
	if got := testutil.ToFloat64(m.analyses.WithLabelValues(OutcomeInvalid)); got != 1 {
		t.Errorf("expected 1 invalid analysis, got %v", got)
	}
	if n := testutil.CollectAndCount(m.overall); n != 1 {
		t.Errorf("expected overall histogram to be collected, got %d series", n)
	}
}

func TestMetrics_RateLimited(t *testing.T) {
	m := New()
	m.RateLimited()
	m.RateLimited()

	if got := testutil.ToFloat64(m.rateLimited); got != 2 {
		t.Errorf("expected 2 rate limited requests, got %v", got)
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAnalysis(OutcomeOK, time.Second, 1)
	m.ObserveParse("prose", time.Second)
	m.RateLimited()
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveAnalysis(OutcomeOK, 10*time.Millisecond, 0.5)
	m.ObserveParse("prose", 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	for _, name := range []string{
		"aiprobe_analyses_total",
		"aiprobe_analysis_duration_seconds",
		"aiprobe_overall_score",
		"aiprobe_parse_duration_seconds",
		"go_goroutines",
	} {
		if !strings.Contains(string(body), name) {
			t.Errorf("expected %s in exposition output", name)
		}
	}
}
