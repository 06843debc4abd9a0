// Package main is the entry point for the TKA sequence animator window.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/tka-animator/internal/app"
	"github.com/Faultbox/tka-animator/internal/frame"
	"github.com/Faultbox/tka-animator/internal/logger"
	"github.com/Faultbox/tka-animator/internal/viewer"
)

func main() {
	// Frames run on the main loop, which owns the GL context.
	queue := frame.NewQueue()

	a, err := app.Setup(app.Options{
		Name:      "tkaview",
		Args:      os.Args[1:],
		Scheduler: queue,
		Console:   os.Stderr,
	})
	if err != nil {
		app.Exit(err)
	}
	defer a.Close()

	logger.Info("=== TKA Animator ===", zap.String("word", a.Sequence.Word()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	v, err := viewer.New(ctx, viewer.ConfigFrom("TKA Animator", a.Config), a.Ctrl, a.Store, queue, a.Assets)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		os.Exit(1)
	}
	defer v.Close()
	v.OnGridToggle = a.SaveGrid

	if err := v.Run(ctx); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}
