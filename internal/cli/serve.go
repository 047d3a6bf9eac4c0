package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/ppiankov/aiprobe/internal/metrics"
	"github.com/ppiankov/aiprobe/internal/model"
	"github.com/ppiankov/aiprobe/internal/pipeline"
	"github.com/ppiankov/aiprobe/internal/server"
	"github.com/ppiankov/aiprobe/internal/worker"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web UI and JSON API",
	Long: `Serve starts the HTTP server:
- GET  /             single-page UI
- POST /api/analyze  {"text": "..."} -> scores, summary and features
- GET  /healthz      liveness probe
- GET  /metrics      Prometheus metrics

Example:
  aiprobe serve
  aiprobe serve --addr :9000 --llm
  AIPROBE_RATE_LIMIT_BACKEND=redis aiprobe serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from server.addr)")
	addAnalysisFlags(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadCommandConfig(cmd)
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	p, err := buildPipeline(cfg, logger, pipeline.WithMetrics(m))
	if err != nil {
		return err
	}

	opts := []server.Option{server.WithMetrics(m), server.WithLogger(logger)}
	if cfg.RateLimit.Enabled {
		limiter, err := newRateLimiter(ctx, cfg.RateLimit)
		if err != nil {
			return err
		}
		opts = append(opts, server.WithRateLimiter(limiter))
	}

	srv := server.New(cfg.Server, p, opts...)

	logger.Info("aiprobe %s listening on %s (parser: %s)", Version, cfg.Server.Addr, p.ParserName())
	if err := srv.Run(ctx, cfg.Server.Addr); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

// newRateLimiter builds the per-client limiter for the configured backend
func newRateLimiter(ctx context.Context, cfg model.RateLimitConfig) (worker.RateLimiter, error) {
	switch cfg.Backend {
	case "", "memory":
		return worker.NewPerMinuteLimiter(cfg.PerMinute, cfg.MaxClients), nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		return worker.NewRedisLimiter(client, cfg.PerMinute, time.Minute), nil

	default:
		return nil, fmt.Errorf("unknown rate limit backend: %s (supported: memory, redis)", cfg.Backend)
	}
}
