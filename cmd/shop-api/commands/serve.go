package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"shop-api/internal/api"
	"shop-api/internal/cache"
	"shop-api/internal/database"
	"shop-api/internal/store"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Apply the schema and start the HTTP server (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	for _, cmd := range []*cobra.Command{rootCmd, serveCmd} {
		flags := cmd.Flags()
		flags.StringVar(&cfg.HTTPPort, "port", cfg.HTTPPort, "Run on the given port")
		flags.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "Redis address for caching and rate limiting (empty disables both)")
		flags.DurationVar(&cfg.CacheTTL, "cache-ttl", cfg.CacheTTL, "TTL of cached single-entity lookups")
		flags.IntVar(&cfg.RateLimit, "rate-limit", cfg.RateLimit, "Requests per client per window on /api (0 disables)")
		flags.DurationVar(&cfg.RateWindow, "rate-window", cfg.RateWindow, "Rate limiting window")
	}
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return err
	}

	var opts api.Options
	if cfg.RedisAddr != "" {
		redisClient, err := cache.NewClient(ctx, cfg.RedisAddr)
		if err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		defer redisClient.Close()
		slog.Info("Connected to Redis", "addr", cfg.RedisAddr)

		opts = api.Options{
			Cache:      redisClient,
			CacheTTL:   cfg.CacheTTL,
			Limiter:    redisClient,
			RateLimit:  cfg.RateLimit,
			RateWindow: cfg.RateWindow,
		}
	}

	st := store.New(db)
	server := api.NewServer(cfg.Addr(), api.Stores{
		Users:      st.Users,
		Products:   st.Products,
		Categories: st.Categories,
		Orders:     st.Orders,
	}, db, opts)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	slog.Info("Server stopped")
	return nil
}
