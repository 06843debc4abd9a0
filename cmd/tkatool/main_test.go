package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/tka-animator/pkg/grid"
	"github.com/Faultbox/tka-animator/pkg/motion"
	"github.com/Faultbox/tka-animator/pkg/sequence"
)

func runTool(args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	err := run(args, &stdout, &stderr)
	return stdout.String(), err
}

func TestRunOrient(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"--type", "pro", "--ori", "in", "--dir", "cw", "--turns", "1"}, "out"},
		{[]string{"--type", "pro", "--ori", "in", "--turns", "2"}, "in"},
		{[]string{"--type", "anti", "--ori", "clock", "--turns", "0"}, "counter"},
		{[]string{"--type", "dash", "--ori", "out", "--turns", "0"}, "in"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			out, err := runTool(append([]string{"orient"}, tt.args...)...)
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			if got := strings.TrimSpace(out); got != tt.want {
				t.Errorf("orient = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRunOrientWithLocations(t *testing.T) {
	out, err := runTool("orient", "--type", "pro", "--start", "s", "--end", "w")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	// end orientation, header, five samples
	if len(lines) != 7 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[1], "t") || !strings.Contains(lines[1], "staff") {
		t.Errorf("header = %q", lines[1])
	}
}

func TestRunOrientBadFlag(t *testing.T) {
	if _, err := runTool("orient", "--type", "spin"); err == nil {
		t.Error("expected error for unknown motion type")
	}
}

func TestRunAngle(t *testing.T) {
	tests := []struct {
		loc, ori string
		want     string
	}{
		{"n", "in", "90"},
		{"e", "out", "0"},
		{"ne", "clock", "45"},
		{"sw", "counter", "45"},
	}
	for _, tt := range tests {
		t.Run(tt.loc+"/"+tt.ori, func(t *testing.T) {
			out, err := runTool("angle", tt.loc, tt.ori)
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			if got := strings.TrimSpace(out); got != tt.want {
				t.Errorf("angle = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRunAngleAll(t *testing.T) {
	out, err := runTool("angle", "--all")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 1+len(grid.All()) {
		t.Errorf("got %d lines, want %d", len(lines), 1+len(grid.All()))
	}
}

func TestRunUsage(t *testing.T) {
	for _, args := range [][]string{nil, {"bogus"}, {"angle", "n"}, {"info"}} {
		if _, err := runTool(args...); !errors.Is(err, errUsage) {
			t.Errorf("run(%v) = %v, want usage error", args, err)
		}
	}
	out, err := runTool("help")
	if err != nil || !strings.Contains(out, "Commands:") {
		t.Errorf("help = %q, %v", out, err)
	}
}

func writeSequence(t *testing.T) string {
	t.Helper()
	blue := motion.Descriptor{Type: motion.Pro, StartLoc: grid.South, EndLoc: grid.West, StartOri: motion.In, PropRotDir: motion.CW}
	red := motion.Descriptor{Type: motion.Pro, StartLoc: grid.North, EndLoc: grid.East, StartOri: motion.In, PropRotDir: motion.CW}
	seq := &sequence.Sequence{Name: "ab", Beats: []sequence.Beat{
		{Letter: "A", Blue: blue, Red: red},
		{Letter: "B", Blue: blue, Red: red},
	}}
	seq.Resolve()
	path := filepath.Join(t.TempDir(), "ab.yaml")
	if err := seq.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	return path
}

func TestRunInfo(t *testing.T) {
	out, err := runTool("info", writeSequence(t))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, want := range []string{"Name:  ab", "Word:  AB", "Beats: 2", "pro s→w in→in 0 cw"} {
		if !strings.Contains(out, want) {
			t.Errorf("info output missing %q:\n%s", want, out)
		}
	}
}

func TestRunValidate(t *testing.T) {
	out, err := runTool("validate", writeSequence(t))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "AB (2 beats)") {
		t.Errorf("validate output = %q", out)
	}
}

func TestRunConfigSave(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TKA_CONFIG_DIR", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)

	out, err := runTool("config", "--speed", "1.5", "--save")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "speed: 1.5") {
		t.Errorf("config output missing speed:\n%s", out)
	}

	out, err = runTool("config")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "# loaded from ") || !strings.Contains(out, "speed: 1.5") {
		t.Errorf("saved config not picked up:\n%s", out)
	}
}

func TestFramesPerBeat(t *testing.T) {
	tests := []struct {
		fps         int
		secs, speed float64
		want        int
	}{
		{30, 1, 1, 30},
		{30, 1, 2, 15},
		{60, 0.5, 1, 30},
		{30, 1, 0, 30},
		{1, 0.1, 4, 1},
	}
	for _, tt := range tests {
		if got := framesPerBeat(tt.fps, tt.secs, tt.speed); got != tt.want {
			t.Errorf("framesPerBeat(%d, %v, %v) = %d, want %d", tt.fps, tt.secs, tt.speed, got, tt.want)
		}
	}
}

func TestFramePlan(t *testing.T) {
	b := sequence.Beat{Letter: "A"}
	plain := &sequence.Sequence{Beats: []sequence.Beat{b, b, b}}
	withStart := &sequence.Sequence{StartPosition: &b, Beats: []sequence.Beat{b, b, b}}

	tests := []struct {
		name    string
		seq     *sequence.Sequence
		only    int
		want    int
		first   frameStep
		lastPos float64
	}{
		{"all", plain, -1, 3*4 + 1, frameStep{0, true}, 3},
		{"all with start", withStart, -1, 1 + 3*4 + 1, frameStep{0, false}, 3},
		{"start only", withStart, 0, 1, frameStep{0, false}, 0},
		{"middle beat", withStart, 2, 4, frameStep{1, true}, 1.75},
		{"last beat", plain, 3, 5, frameStep{2, true}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := framePlan(tt.seq, 4, tt.only)
			if len(plan) != tt.want {
				t.Fatalf("len = %d, want %d", len(plan), tt.want)
			}
			if plan[0] != tt.first {
				t.Errorf("first = %+v, want %+v", plan[0], tt.first)
			}
			if got := plan[len(plan)-1].beat; got != tt.lastPos {
				t.Errorf("last beat = %v, want %v", got, tt.lastPos)
			}
		})
	}

	if plan := framePlan(plain, 4, 9); plan != nil {
		t.Errorf("out of range beat = %v, want nil", plan)
	}
	if plan := framePlan(plain, 4, 0); len(plan) != 0 {
		t.Errorf("start only without start position = %v", plan)
	}
}
