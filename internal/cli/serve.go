package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/hausweber/heatnet/internal/server"
	"github.com/hausweber/heatnet/pkg/cache"
	"github.com/hausweber/heatnet/pkg/synth"
)

// serveCommand creates the "serve" command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		redisAddr string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP synthesis API",
		Long: `Serve starts an HTTP server exposing the synthesis pipeline:

  POST /api/v1/synthesize  run the pipeline on a JSON scene
  GET  /healthz            liveness probe
  GET  /metrics            prometheus metrics

With --redis results are cached in Redis instead of the local file cache,
so multiple instances share one cache.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			resultCache, err := serveCache(ctx, redisAddr, noCache)
			if err != nil {
				return err
			}
			runner := synth.NewRunner(resultCache, nil, logger)
			defer runner.Close()

			srv := &http.Server{
				Addr:              addr,
				Handler:           server.New(runner, logger).Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			logger.Info("server listening", "addr", addr)
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			logger.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "Redis address for a shared result cache")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")

	return cmd
}

func serveCache(ctx context.Context, redisAddr string, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if redisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, redisAddr, "", 0)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return rc, nil
	}
	return newCache(false), nil
}
