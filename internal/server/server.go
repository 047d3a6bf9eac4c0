// Package server exposes the analysis pipeline over HTTP
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ppiankov/aiprobe/internal/metrics"
	"github.com/ppiankov/aiprobe/internal/model"
	"github.com/ppiankov/aiprobe/internal/util"
	"github.com/ppiankov/aiprobe/internal/worker"
)

//go:embed static
var staticFiles embed.FS

// Analyzer scores raw text
type Analyzer interface {
	Analyze(ctx context.Context, raw string, minLength int) (*model.AnalysisResult, error)
}

// Server wires the analyzer into echo routes
type Server struct {
	echo     *echo.Echo
	analyzer Analyzer
	limiter  worker.RateLimiter // nil disables rate limiting
	metrics  *metrics.Metrics
	logger   *util.Logger
}

// Option customizes a Server
type Option func(*Server)

// WithRateLimiter limits /api requests per client IP
func WithRateLimiter(l worker.RateLimiter) Option {
	return func(s *Server) { s.limiter = l }
}

// WithMetrics serves m on /metrics and records rate limit rejections
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithLogger sets the request and error logger
func WithLogger(l *util.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New builds the echo instance and registers every route
func New(cfg model.ServerConfig, analyzer Analyzer, opts ...Option) *Server {
	s := &Server{
		analyzer: analyzer,
		logger:   util.NewDiscardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.Debug("%s %s %d %s id=%s", v.Method, v.URI, v.Status, v.Latency, v.RequestID)
			return nil
		},
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType},
	}))
	if cfg.MaxBody != "" {
		e.Use(middleware.BodyLimit(cfg.MaxBody))
	}

	e.GET("/", s.index)
	e.StaticFS("/static", echo.MustSubFS(staticFiles, "static"))
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	if s.metrics != nil {
		e.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
	}

	api := e.Group("/api")
	if s.limiter != nil {
		api.Use(s.rateLimit)
	}
	api.POST("/analyze", s.analyze)

	s.echo = e
	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening on %s", addr)
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) index(c echo.Context) error {
	page, err := staticFiles.ReadFile("static/index.html")
	if err != nil {
		return err
	}
	return c.HTMLBlob(http.StatusOK, page)
}

type analyzeRequest struct {
	Text      string `json:"text"`
	MinLength int    `json:"min_length"`
}

func (s *Server) analyze(c echo.Context) error {
	var req analyzeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.MinLength < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "min_length must not be negative")
	}

	result, err := s.analyzer.Analyze(c.Request().Context(), req.Text, req.MinLength)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// rateLimit rejects clients over their budget with 429 and Retry-After.
// Limiter backend errors let the request through.
func (s *Server) rateLimit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		decision, err := s.limiter.Allow(c.Request().Context(), c.RealIP())
		if err != nil {
			s.logger.Error("rate limiter: %v", err)
			return next(c)
		}
		if !decision.Allowed {
			s.metrics.RateLimited()
			c.Response().Header().Set("Retry-After", retryAfterSeconds(decision.RetryAfter))
			return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
		}
		return next(c)
	}
}

func retryAfterSeconds(d time.Duration) string {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}

// statusFor maps error kinds to HTTP status codes
func statusFor(err error) (int, string) {
	var (
		httpErr   *echo.HTTPError
		validErr  *model.ValidationError
		configErr *model.ConfigurationError
		parseErr  *model.UpstreamParseError
	)

	switch {
	case errors.As(err, &httpErr):
		msg := http.StatusText(httpErr.Code)
		if httpErr.Message != nil {
			msg = fmt.Sprint(httpErr.Message)
		}
		return httpErr.Code, msg
	case errors.As(err, &validErr):
		return http.StatusBadRequest, validErr.Error()
	case errors.As(err, &configErr):
		return http.StatusInternalServerError, configErr.Error()
	case errors.As(err, &parseErr):
		return http.StatusBadGateway, parseErr.Error()
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

func (s *Server) handleError(err error, c echo.Context) {
	code, msg := statusFor(err)

	req := c.Request()
	if code >= http.StatusInternalServerError {
		s.logger.Error("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
	} else {
		s.logger.Debug("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
	}

	if c.Response().Committed {
		return
	}
	if req.Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, map[string]string{"error": msg})
}
