package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/salespulse/internal/logger"
)

const shutdownTimeout = 10 * time.Second

// newServer builds the HTTP server with conservative timeouts.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
func newServer(router http.Handler, port string) *http.Server {
	return &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// serve runs the HTTP server until ctx is cancelled or SIGINT/SIGTERM is
// received, then shuts it down gracefully and calls cleanup.
//
// The listener and the shutdown watcher run in one errgroup: a listener
// failure also triggers the shutdown path.
func serve(ctx context.Context, router http.Handler, port string, cleanup func()) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := newServer(router, port)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return gracefulShutdown(server, cleanup)
	})

	return g.Wait()
}

// gracefulShutdown stops accepting connections, waits up to shutdownTimeout
// for in-flight requests, and then runs cleanup.
//
// Parameters:
//   - server (*http.Server): The HTTP server instance to shut down.
//   - cleanup (func()): Cleanup callback to release resources (e.g., DB connections).
func gracefulShutdown(server *http.Server, cleanup func()) error {
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := server.Shutdown(shutdownCtx)
	if cleanup != nil {
		cleanup()
	}
	if err != nil {
		logger.L().Error().Err(err).Msg("server forced to shutdown")
		return err
	}
	logger.L().Info().Msg("server exited gracefully")
	return nil
}
