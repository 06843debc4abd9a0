// Package main serves a live preview of a TKA sequence over HTTP and
// websockets.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/tka-animator/internal/app"
	"github.com/Faultbox/tka-animator/internal/config"
	"github.com/Faultbox/tka-animator/internal/frame"
	"github.com/Faultbox/tka-animator/internal/logger"
	"github.com/Faultbox/tka-animator/internal/preview"
)

func main() {
	// Headless: a ticker goroutine drives playback.
	var ticker *frame.Ticker
	a, err := app.Setup(app.Options{
		Name: "tkaserve",
		Args: os.Args[1:],
		SchedulerFor: func(cfg *config.Config) frame.Scheduler {
			ticker = frame.NewTicker(cfg.Playback.FPS)
			return ticker
		},
		Console: os.Stderr,
	})
	if err != nil {
		app.Exit(err)
	}
	defer ticker.Close()
	defer a.Close()

	srv := preview.New(a.Ctrl, a.Store, a.Assets, preview.OptionsFromConfig(a.Config))
	logger.Info("=== TKA Preview ===",
		zap.String("word", a.Sequence.Word()),
		zap.String("url", srv.PublicURL()))

	a.Ctrl.Play()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.ListenAndServe(ctx); err != nil {
		logger.Error("preview server crashed", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("preview server stopped")
}
