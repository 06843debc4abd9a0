package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/Faultbox/tka-animator/internal/animation"
	"github.com/Faultbox/tka-animator/internal/assets"
	"github.com/Faultbox/tka-animator/internal/config"
	"github.com/Faultbox/tka-animator/internal/logger"
	"github.com/Faultbox/tka-animator/internal/render"
	"github.com/Faultbox/tka-animator/internal/render/canvas"
	"github.com/Faultbox/tka-animator/pkg/grid"
	"github.com/Faultbox/tka-animator/pkg/motion"
	"github.com/Faultbox/tka-animator/pkg/sequence"
)

func loadArg(fs *flag.FlagSet) (*sequence.Sequence, error) {
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, errUsage
	}
	return sequence.Load(fs.Arg(0))
}

func cmdValidate(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("validate", stderr, "<sequence.yaml>")
	strict := fs.Bool("strict", false, "Fail on discontinuities between beats")
	if err := parse(fs, args); err != nil {
		return err
	}
	seq, err := loadArg(fs)
	if err != nil {
		return err
	}

	gaps := seq.Discontinuities()
	for _, d := range gaps {
		fmt.Fprintf(stdout, "warning: %s\n", d)
	}
	if *strict && len(gaps) > 0 {
		return fmt.Errorf("%d discontinuities", len(gaps))
	}
	fmt.Fprintf(stdout, "ok: %s (%d beats)\n", seq.Word(), seq.Len())
	return nil
}

func cmdInfo(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("info", stderr, "<sequence.yaml>")
	if err := parse(fs, args); err != nil {
		return err
	}
	seq, err := loadArg(fs)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Name:  %s\n", seq.Name)
	if seq.Author != "" {
		fmt.Fprintf(stdout, "Author: %s\n", seq.Author)
	}
	fmt.Fprintf(stdout, "Word:  %s\n", seq.Word())
	fmt.Fprintf(stdout, "Grid:  %s\n", seq.GridMode)
	fmt.Fprintf(stdout, "Beats: %d\n\n", seq.Len())

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "beat\tletter\tblue\tred")
	if sp := seq.StartPosition; sp != nil {
		fmt.Fprintf(tw, "start\t%s\t%s\t%s\n", sp.Letter, describe(sp.Blue), describe(sp.Red))
	}
	for i, b := range seq.Beats {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, b.Letter, describe(b.Blue), describe(b.Red))
	}
	return tw.Flush()
}

// describe renders a motion as "pro s→w in→out 1 cw".
func describe(m motion.Descriptor) string {
	return fmt.Sprintf("%s %s→%s %s→%s %s %s", m.Type, m.StartLoc, m.EndLoc, m.StartOri, m.EndOri, m.Turns, m.PropRotDir)
}

func cmdRender(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("render", stderr, "[options] <sequence.yaml>")
	flags := config.RegisterFlags(fs)
	out := fs.String("out", "frames", "Output directory")
	size := fs.Int("size", 475, "Frame size in pixels")
	only := fs.Int("only", -1, "Render only this beat (1-based); 0 is the start position")
	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errUsage
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logOpts := cfg.LoggerOptions()
	logOpts.Console = stderr
	if err := logger.InitWithOptions(logOpts); err != nil {
		return err
	}
	defer logger.Sync()

	seq, err := sequence.Load(fs.Arg(0))
	if err != nil {
		return err
	}

	am := assets.NewManager()
	defer am.Close()
	for _, dir := range cfg.Assets.Dirs {
		if err := am.AddDir(dir); err != nil {
			logger.Warn("skipping asset dir", zap.String("dir", dir), zap.Error(err))
		}
	}
	blue, err := am.Image(cfg.Assets.BlueProp)
	if err != nil {
		return err
	}
	red, err := am.Image(cfg.Assets.RedProp)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(*out, 0755); err != nil {
		return err
	}

	perBeat := framesPerBeat(cfg.Playback.FPS, cfg.Playback.BeatDuration.Seconds(), cfg.Playback.Speed)
	plan := framePlan(seq, perBeat, *only)
	if len(plan) == 0 {
		return errors.New("nothing to render")
	}

	cv := canvas.New(*size)
	circle := grid.Default()
	for i, step := range plan {
		f := animation.FrameAt(seq, step.beat, step.playing, circle)
		call := render.FromFrame(f, blue, red, cfg.Grid.Visible)
		if err := cv.Draw(call); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		path := filepath.Join(*out, fmt.Sprintf("frame_%04d.png", i))
		if err := cv.SavePNG(path); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}

	fmt.Fprintf(stdout, "wrote %d frames of %s to %s\n", len(plan), seq.Word(), *out)
	return nil
}

// framesPerBeat is how many frames one beat lasts at the given rate.
func framesPerBeat(fps int, beatSeconds, speed float64) int {
	if speed <= 0 {
		speed = 1
	}
	n := int(math.Round(float64(fps) * beatSeconds / speed))
	if n < 1 {
		n = 1
	}
	return n
}

type frameStep struct {
	beat    float64
	playing bool
}

// framePlan lists the playback positions to render. The start position is
// drawn first when the sequence has one. only selects a single beat
// (1-based, 0 for the start position); negative renders everything.
func framePlan(seq *sequence.Sequence, perBeat, only int) []frameStep {
	var plan []frameStep
	if seq.StartPosition != nil && only <= 0 {
		plan = append(plan, frameStep{beat: 0, playing: false})
	}
	if only == 0 {
		return plan
	}

	first, last := 0, seq.Len()-1
	if only > 0 {
		if only > seq.Len() {
			return nil
		}
		first, last = only-1, only-1
	}
	for b := first; b <= last; b++ {
		for k := 0; k < perBeat; k++ {
			plan = append(plan, frameStep{beat: float64(b) + float64(k)/float64(perBeat), playing: true})
		}
	}
	// The final pose of the last beat.
	if last == seq.Len()-1 {
		plan = append(plan, frameStep{beat: float64(seq.Len()), playing: true})
	}
	return plan
}
