// Package main plays a TKA sequence in the terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/Faultbox/tka-animator/internal/app"
	"github.com/Faultbox/tka-animator/internal/frame"
	"github.com/Faultbox/tka-animator/internal/logger"
	"github.com/Faultbox/tka-animator/internal/termview"
)

func main() {
	queue := frame.NewQueue()

	// The screen belongs to the player, so logs only go to --log-file.
	a, err := app.Setup(app.Options{
		Name:      "tkaterm",
		Args:      os.Args[1:],
		Scheduler: queue,
	})
	if err != nil {
		app.Exit(err)
	}
	defer a.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize terminal: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize terminal: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := termview.New(screen, a.Ctrl, a.Store, queue, termview.Options{
		FPS:          a.Config.Playback.FPS,
		GridVisible:  a.Config.Grid.Visible,
		OnGridToggle: a.SaveGrid,
	})
	logger.Info("terminal player started", zap.String("word", a.Sequence.Word()))

	if err := p.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("player error", zap.Error(err))
	}
}
