package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alanyoungcy/arbscan/internal/export"
	"github.com/alanyoungcy/arbscan/internal/server"
	"github.com/alanyoungcy/arbscan/internal/server/handler"
	"github.com/alanyoungcy/arbscan/internal/server/ws"
)

// ScanMode runs a single scan cycle and writes the ranked opportunity list as
// JSON to stdout.
func (a *App) ScanMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting scan mode")

	opps, err := deps.Scanner.Scan(ctx)
	if err != nil {
		return fmt.Errorf("app: scan: %w", err)
	}

	data, err := export.JSON(opps)
	if err != nil {
		return fmt.Errorf("app: encode results: %w", err)
	}
	if _, err := os.Stdout.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("app: write results: %w", err)
	}

	a.logger.InfoContext(ctx, "scan complete", slog.Int("opportunities", len(opps)))
	return nil
}

// MonitorMode runs periodic scans until the context is cancelled. Alerts go
// out through whatever sinks were wired (email, Telegram, Discord, S3).
func (a *App) MonitorMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting monitor mode",
		slog.Duration("interval", a.cfg.Scan.Interval.Duration),
	)
	return ignoreCancel(deps.Scanner.RunLoop(ctx, a.cfg.Scan.Interval.Duration))
}

// ServerMode starts the HTTP API and WebSocket hub. Scans run on demand via
// POST /api/scan/trigger.
func (a *App) ServerMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting server mode")

	g, ctx := errgroup.WithContext(ctx)
	a.startServer(ctx, g, deps)
	return ignoreCancel(g.Wait())
}

// FullMode runs the periodic scan loop alongside the HTTP API and WebSocket
// hub.
func (a *App) FullMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting full mode",
		slog.Duration("interval", a.cfg.Scan.Interval.Duration),
	)

	g, ctx := errgroup.WithContext(ctx)

	a.startServer(ctx, g, deps)

	g.Go(func() error {
		return deps.Scanner.RunLoop(ctx, a.cfg.Scan.Interval.Duration)
	})

	return ignoreCancel(g.Wait())
}

// startServer registers the hub and HTTP server goroutines on g. When Redis
// is enabled the hub receives scan results from the signal bus; otherwise the
// scanner feeds the hub directly through a sink.
func (a *App) startServer(ctx context.Context, g *errgroup.Group, deps *Dependencies) {
	if !a.cfg.Server.Enabled {
		a.logger.Warn("server disabled in config, skipping HTTP API")
		return
	}

	hub := ws.NewHub(deps.SignalBus, a.cfg.Mode, a.logger)
	if deps.SignalBus == nil {
		deps.Scanner.AddSink(ws.NewSink(hub))
	}

	g.Go(func() error {
		return hub.Run(ctx)
	})

	srv := server.NewServer(
		server.Config{
			Port:        a.cfg.Server.Port,
			CORSOrigins: a.cfg.Server.CORSOrigins,
		},
		server.Handlers{
			Health:        handler.NewHealthHandler(a.logger),
			Opportunities: handler.NewOpportunityHandler(deps.Session, a.logger),
			Scan:          handler.NewScanHandler(deps.Scanner, a.logger),
			Status:        handler.NewStatusHandler(deps.Session, a.cfg.Mode),
		},
		hub,
		a.logger,
	)

	g.Go(func() error {
		return srv.Start()
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}

// ignoreCancel maps context cancellation to a clean exit.
func ignoreCancel(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
