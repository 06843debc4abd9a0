package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Faultbox/tka-animator/internal/animation"
	"github.com/Faultbox/tka-animator/pkg/grid"
	"github.com/Faultbox/tka-animator/pkg/motion"
)

var allOrientations = []motion.Orientation{motion.In, motion.Out, motion.Clock, motion.Counter}

func cmdOrient(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("orient", stderr, "[options]")
	typ := fs.String("type", "pro", "Motion type: static, dash, pro, anti, float")
	ori := fs.String("ori", "in", "Start orientation: in, out, clock, counter")
	dir := fs.String("dir", "cw", "Prop rotation direction: cw, ccw, no_rot")
	turns := fs.String("turns", "0", "Turns: 0, 0.5, 1, 1.5, 2, 2.5, 3 or fl")
	start := fs.String("start", "", "Start location; with --end also prints prop positions")
	end := fs.String("end", "", "End location")
	if err := parse(fs, args); err != nil {
		return err
	}

	m, err := descriptorFromFlags(*typ, *ori, *dir, *turns, *start, *end)
	if err != nil {
		return err
	}
	m = motion.Resolve(m)
	fmt.Fprintln(stdout, m.EndOri)

	if m.StartLoc == "" || m.EndLoc == "" {
		return nil
	}

	c := grid.Default()
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "t\tx\ty\tstaff")
	for _, t := range []float64{0, 0.25, 0.5, 0.75, 1} {
		s := animation.PropStateAt(m, t, c)
		fmt.Fprintf(tw, "%.2f\t%.1f\t%.1f\t%.1f\n", t, s.X, s.Y, s.StaffRotationAngle)
	}
	return tw.Flush()
}

func descriptorFromFlags(typ, ori, dir, turns, start, end string) (motion.Descriptor, error) {
	var m motion.Descriptor
	var err error
	if m.Type, err = motion.ParseType(typ); err != nil {
		return m, err
	}
	if m.StartOri, err = motion.ParseOrientation(ori); err != nil {
		return m, err
	}
	if m.PropRotDir, err = motion.ParseRotationDirection(dir); err != nil {
		return m, err
	}
	if m.Turns, err = motion.ParseTurns(turns); err != nil {
		return m, err
	}
	if start != "" {
		if m.StartLoc, err = grid.ParseLocation(start); err != nil {
			return m, err
		}
	}
	if end != "" {
		if m.EndLoc, err = grid.ParseLocation(end); err != nil {
			return m, err
		}
	}
	return m, nil
}

func cmdAngle(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("angle", stderr, "<loc> <ori> | --all")
	all := fs.Bool("all", false, "Print the table for every location and orientation")
	if err := parse(fs, args); err != nil {
		return err
	}

	if *all {
		tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
		fmt.Fprint(tw, "loc")
		for _, o := range allOrientations {
			fmt.Fprintf(tw, "\t%s", o)
		}
		fmt.Fprintln(tw)
		for _, loc := range grid.All() {
			fmt.Fprint(tw, loc)
			for _, o := range allOrientations {
				fmt.Fprintf(tw, "\t%g", motion.RotationAngle(loc, o))
			}
			fmt.Fprintln(tw)
		}
		return tw.Flush()
	}

	if fs.NArg() != 2 {
		fs.Usage()
		return errUsage
	}
	loc, err := grid.ParseLocation(fs.Arg(0))
	if err != nil {
		return err
	}
	ori, err := motion.ParseOrientation(fs.Arg(1))
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%g\n", motion.RotationAngle(loc, ori))
	return nil
}
