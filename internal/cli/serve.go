package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/svgo"
	httpAdapter "github.com/aretw0/svgo/pkg/adapters/http"
	"github.com/aretw0/svgo/pkg/adapters/memory"
	"github.com/aretw0/svgo/pkg/adapters/redis"
	"github.com/aretw0/svgo/pkg/ports"
	"github.com/spf13/cobra"
)

type serveOptions struct {
	port      int
	cache     string
	cacheSize int
	redisURL  string
	cacheTTL  time.Duration
}

func newServeCommand(g *globals) *cobra.Command {
	o := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP optimization API",
		Long: `Starts an HTTP server exposing the optimizer.

Endpoints: POST /optimize, GET /plugins, GET /health, GET /info,
GET /metrics (Prometheus) and GET /openapi.yaml.
Results are cached in memory by default, or in Redis with --cache redis.`,
		Args: cobra.NoArgs,
		RunE: traced(func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, g)
		}),
	}

	cmd.Flags().IntVar(&o.port, "port", 8080, "Port to listen on")
	cmd.Flags().StringVar(&o.cache, "cache", "memory", "Result cache: memory, redis or none")
	cmd.Flags().IntVar(&o.cacheSize, "cache-size", memory.DefaultCapacity, "Entries kept by the memory cache")
	cmd.Flags().StringVar(&o.redisURL, "redis-url", "redis://localhost:6379/0", "Redis URL used by --cache redis")
	cmd.Flags().DurationVar(&o.cacheTTL, "cache-ttl", 24*time.Hour, "Expiration of Redis cache entries")
	return cmd
}

// newCache builds the configured result cache and its release function.
func (o *serveOptions) newCache(ctx context.Context) (ports.ResultCache, func() error, error) {
	noop := func() error { return nil }
	switch o.cache {
	case "none":
		return nil, noop, nil
	case "memory":
		return memory.NewCache(memory.WithCapacity(o.cacheSize)), noop, nil
	case "redis":
		c, err := redis.NewFromURL(o.redisURL, redis.WithTTL(o.cacheTTL))
		if err != nil {
			return nil, nil, err
		}
		if err := c.Ping(ctx); err != nil {
			_ = c.Close()
			return nil, nil, fmt.Errorf("redis unavailable: %w", err)
		}
		return c, c.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache %q (want memory, redis or none)", o.cache)
	}
}

func (o *serveOptions) handler(ctx context.Context, g *globals) (http.Handler, func() error, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if _, err := svgo.New(svgo.WithConfig(cfg)); err != nil {
		return nil, nil, err
	}

	cache, release, err := o.newCache(ctx)
	if err != nil {
		return nil, nil, err
	}
	h, err := httpAdapter.NewHandler(
		httpAdapter.WithOptimizerOptions(svgo.WithConfig(cfg), svgo.WithLogger(g.logger)),
		httpAdapter.WithCache(cache),
		httpAdapter.WithLogger(g.logger),
	)
	if err != nil {
		_ = release()
		return nil, nil, err
	}
	return h, release, nil
}

func (o *serveOptions) run(cmd *cobra.Command, g *globals) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler, release, err := o.handler(ctx, g)
	if err != nil {
		return err
	}
	defer release()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", o.port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	out := cmd.OutOrStdout()

	serverErrors := make(chan error, 1)
	go func() {
		fmt.Fprintf(out, "Starting svgo server on %s\n", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		fmt.Fprintln(out, "\nShutdown signal received, shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			_ = srv.Close()
			return fmt.Errorf("graceful shutdown did not complete: %w", err)
		}
		fmt.Fprintln(out, "svgo server stopped gracefully")
		return nil
	}
}
