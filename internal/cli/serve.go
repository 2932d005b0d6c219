package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	httpAdapter "github.com/aretw0/walkthrough/pkg/adapters/http"
	"github.com/aretw0/walkthrough/pkg/adapters/mcp"
)

// ShutdownTimeout bounds how long in-flight requests get on shutdown.
const ShutdownTimeout = 5 * time.Second

// NewHTTPHandler builds the HTTP API for app.
func NewHTTPHandler(app *App) http.Handler {
	opts := []httpAdapter.Option{
		httpAdapter.WithLogger(app.Logger),
		httpAdapter.WithTitle(app.Catalog.Title()),
		httpAdapter.WithMetricsHandler(app.MetricsHandler()),
	}
	if app.Inbox != nil {
		opts = append(opts, httpAdapter.WithFrameSink(app.Inbox))
	}
	return httpAdapter.NewHandler(app.Guide, opts...)
}

// Serve runs the HTTP API on addr until ctx is cancelled.
func Serve(ctx context.Context, app *App, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return serveListener(ctx, app, ln)
}

func serveListener(ctx context.Context, app *App, ln net.Listener) error {
	srv := &http.Server{
		Handler:           NewHTTPHandler(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		app.Logger.Info("walkthrough server listening", "addr", ln.Addr().String())
		serverErrors <- srv.Serve(ln)
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		app.Logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.Logger.Warn("graceful shutdown did not complete", "timeout", ShutdownTimeout, "err", err)
			return srv.Close()
		}
		app.Logger.Info("server stopped gracefully")
		return nil
	}
}

// Transports accepted by ServeMCP.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

// ServeMCP exposes app as an MCP server over the given transport.
func ServeMCP(ctx context.Context, app *App, transport, addr string) error {
	srv := mcp.NewServer(app.Guide, mcp.WithLogger(app.Logger))

	switch transport {
	case TransportStdio:
		app.Logger.Info("starting MCP server", "transport", transport)
		return srv.ServeStdio()
	case TransportSSE:
		app.Logger.Info("starting MCP server", "transport", transport, "addr", addr)
		err := srv.ServeSSE(ctx, addr)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	default:
		return fmt.Errorf("unknown transport %q (stdio, sse)", transport)
	}
}
