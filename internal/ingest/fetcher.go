package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ppiankov/aiprobe/internal/model"
	"github.com/ppiankov/aiprobe/internal/util"
	"github.com/ppiankov/aiprobe/internal/worker"
)

// fetchSleepFunc is replaced in tests
var fetchSleepFunc = time.Sleep

const (
	fetchAttempts    = 3
	fetchBaseBackoff = time.Second
)

// Fetcher downloads pages politely: robots.txt is honoured when enabled
// and requests to one host are spaced by a per-host token bucket.
type Fetcher struct {
	httpClient    *http.Client
	userAgent     string
	maxBytes      int64
	respectRobots bool
	robots        *util.RobotsChecker
	hosts         *worker.Limiter
}

// NewFetcher creates a new Fetcher with the given configuration
func NewFetcher(timeout time.Duration, userAgent string, maxBytes int64, respectRobots bool, httpProxy, httpsProxy, noProxy string) *Fetcher {
	return NewFetcherFromConfig(model.HTTPConfig{
		Timeout:       timeout,
		UserAgent:     userAgent,
		MaxBodyBytes:  maxBytes,
		RespectRobots: respectRobots,
		HTTPProxy:     httpProxy,
		HTTPSProxy:    httpsProxy,
		NoProxy:       noProxy,
	})
}

// NewFetcherFromConfig creates a Fetcher from the http config section
func NewFetcherFromConfig(cfg model.HTTPConfig) *Fetcher {
	client := util.NewHTTPClient(cfg)
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= 3 {
			return fmt.Errorf("stopped after 3 redirects")
		}
		return nil
	}

	maxBytes := cfg.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = 2_000_000
	}

	return &Fetcher{
		httpClient:    client,
		userAgent:     cfg.UserAgent,
		maxBytes:      maxBytes,
		respectRobots: cfg.RespectRobots,
		robots:        util.NewRobotsChecker(client, cfg.UserAgent),
		hosts:         worker.NewLimiter(1, 2, 10*time.Minute, 1000),
	}
}

// FetchResult contains the fetched body and response metadata
type FetchResult struct {
	Body        []byte
	StatusCode  int
	ContentType string
	FinalURL    string
}

// Fetch retrieves the given URL once
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain,application/pdf;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &FetchResult{
		Body:        body,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		FinalURL:    resp.Request.URL.String(),
	}, nil
}

// FetchWithRetry retries transient failures with exponential backoff
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) (*FetchResult, error) {
	var lastErr error
	for attempt := 0; attempt < fetchAttempts; attempt++ {
		if attempt > 0 {
			fetchSleepFunc(fetchBaseBackoff << (attempt - 1))
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		result, err := f.Fetch(ctx, rawURL)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !isRetryableFetchError(err) {
			return nil, err
		}
	}
	return nil, lastErr
}

// isRetryableFetchError reports server errors, throttling and transport
// failures as retryable
func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if strings.HasPrefix(msg, "fetch:") {
		return true
	}
	if strings.HasPrefix(msg, "unexpected status: ") {
		code := strings.TrimPrefix(msg, "unexpected status: ")
		return strings.HasPrefix(code, "5") || strings.HasPrefix(code, "429")
	}
	return false
}

// LoadURL fetches a page and returns its readable text
func (f *Fetcher) LoadURL(ctx context.Context, rawURL string) (*Source, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, fmt.Errorf("invalid URL %q: must be absolute http(s)", rawURL)
	}

	var crawlDelay time.Duration
	if f.respectRobots {
		allowed, delay, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("robots check: %w", err)
		}
		if !allowed {
			return nil, fmt.Errorf("robots.txt disallows %s", rawURL)
		}
		crawlDelay = delay
	}

	host, _ := worker.HostKey(rawURL)
	if err := f.hosts.WaitWithDelay(ctx, host, crawlDelay); err != nil {
		return nil, err
	}

	result, err := f.FetchWithRetry(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	final, err := url.Parse(result.FinalURL)
	if err != nil {
		final = parsed
	}

	src := &Source{Origin: result.FinalURL, Title: final.Host}
	contentType := strings.ToLower(result.ContentType)

	switch {
	case strings.Contains(contentType, "application/pdf"):
		src.Format = FormatPDF
		text, err := PDFText(bytes.NewReader(result.Body), int64(len(result.Body)))
		if err != nil {
			return nil, err
		}
		src.Text = text

	case strings.HasPrefix(contentType, "text/plain"):
		src.Format = FormatText
		src.Text = string(result.Body)

	default:
		src.Format = FormatHTML
		title, text, err := ArticleText(string(result.Body), final)
		if err != nil {
			return nil, err
		}
		if title != "" {
			src.Title = title
		}
		src.Text = text
	}

	return src, nil
}
