package termview

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/Faultbox/tka-animator/internal/frame"
	"github.com/Faultbox/tka-animator/internal/playback"
	"github.com/Faultbox/tka-animator/pkg/grid"
	"github.com/Faultbox/tka-animator/pkg/motion"
	"github.com/Faultbox/tka-animator/pkg/sequence"
)

func testSequence() *sequence.Sequence {
	blue := motion.Descriptor{Type: motion.Pro, StartLoc: grid.South, EndLoc: grid.West, StartOri: motion.In, PropRotDir: motion.CW}
	red := motion.Descriptor{Type: motion.Pro, StartLoc: grid.North, EndLoc: grid.East, StartOri: motion.Out, PropRotDir: motion.CW}
	seq := &sequence.Sequence{Beats: []sequence.Beat{
		{Letter: "A", Blue: blue, Red: red},
		{Letter: "B", Blue: blue, Red: red},
	}}
	seq.Resolve()
	return seq
}

func newTestPlayer(t *testing.T, load bool) (*Player, tcell.SimulationScreen, *playback.Controller) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	screen.SetSize(80, 24)
	t.Cleanup(screen.Fini)

	queue := frame.NewQueue()
	store := playback.NewStore()
	ctrl := playback.NewController(playback.Options{Scheduler: queue})
	t.Cleanup(ctrl.Dispose)
	if load && !ctrl.Initialize(testSequence(), store) {
		t.Fatal("Initialize returned false")
	}
	p := New(screen, ctrl, store, queue, Options{GridVisible: true})
	return p, screen, ctrl
}

func rowText(s tcell.Screen, y int) string {
	w, _ := s.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := s.GetContent(x, y)
		b.WriteRune(r)
	}
	return b.String()
}

func TestFitBoard(t *testing.T) {
	tests := []struct {
		name   string
		sw, sh int
		want   board
	}{
		{"wide terminal", 80, 24, board{x: 18, y: 1, w: 44, h: 22}},
		{"narrow terminal", 20, 24, board{x: 0, y: 7, w: 20, h: 10}},
		{"tiny", 1, 1, board{x: 0, y: 1, w: 1, h: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fitBoard(tt.sw, tt.sh); got != tt.want {
				t.Errorf("fitBoard(%d, %d) = %+v, want %+v", tt.sw, tt.sh, got, tt.want)
			}
		})
	}
}

func TestStaffGlyph(t *testing.T) {
	tests := []struct {
		deg  float64
		want rune
	}{
		{0, '-'},
		{180, '-'},
		{350, '-'},
		{45, '\\'},
		{225, '\\'},
		{90, '|'},
		{270, '|'},
		{135, '/'},
		{-45, '/'},
	}
	for _, tt := range tests {
		if got := staffGlyph(tt.deg); got != tt.want {
			t.Errorf("staffGlyph(%v) = %q, want %q", tt.deg, got, tt.want)
		}
	}
}

func TestCommandFor(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want playback.Command
		ok   bool
	}{
		{"space", tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), playback.Command{Op: playback.OpToggle}, true},
		{"right", tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone), playback.Command{Op: playback.OpNext}, true},
		{"left", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), playback.Command{Op: playback.OpPrev}, true},
		{"home", tcell.NewEventKey(tcell.KeyHome, 0, tcell.ModNone), playback.Command{Op: playback.OpJump}, true},
		{"plus", tcell.NewEventKey(tcell.KeyRune, '+', tcell.ModNone), playback.Command{Op: playback.OpSpeedStep, Value: playback.SpeedStep}, true},
		{"minus", tcell.NewEventKey(tcell.KeyRune, '-', tcell.ModNone), playback.Command{Op: playback.OpSpeedStep, Value: -playback.SpeedStep}, true},
		{"loop", tcell.NewEventKey(tcell.KeyRune, 'l', tcell.ModNone), playback.Command{Op: playback.OpLoopToggle}, true},
		{"stop", tcell.NewEventKey(tcell.KeyRune, 's', tcell.ModNone), playback.Command{Op: playback.OpStop}, true},
		{"unbound rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), playback.Command{}, false},
		{"unbound key", tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone), playback.Command{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := commandFor(tt.ev)
			if ok != tt.ok || got != tt.want {
				t.Errorf("commandFor = %+v, %v; want %+v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestDrawGridWithoutSequence(t *testing.T) {
	p, screen, _ := newTestPlayer(t, false)
	p.Draw()

	if r, _, _, _ := screen.GetContent(40, 12); r != '+' {
		t.Errorf("center cell = %q, want '+'", r)
	}
	// North hand point of the diamond grid.
	if r, _, _, _ := screen.GetContent(40, 8); r != '•' {
		t.Errorf("north hand point = %q, want '•'", r)
	}
	if got := rowText(screen, 23); !strings.Contains(got, "no sequence") {
		t.Errorf("status line = %q", got)
	}
	if got := rowText(screen, 0); !strings.HasPrefix(got, "space play/pause") {
		t.Errorf("help line = %q", got)
	}
}

func TestDrawProps(t *testing.T) {
	p, screen, _ := newTestPlayer(t, true)
	p.Draw()

	// Both staffs start vertical: in at south and out at north.
	count := 0
	for y := 1; y < 23; y++ {
		count += strings.Count(rowText(screen, y), "|")
	}
	if count == 0 {
		t.Error("no staff glyphs drawn")
	}

	status := rowText(screen, 23)
	for _, want := range []string{"AB", "stopped", "beat 1/2", "speed 1.00x", "loop off"} {
		if !strings.Contains(status, want) {
			t.Errorf("status line %q missing %q", status, want)
		}
	}
}

func TestHandleEvent(t *testing.T) {
	p, _, ctrl := newTestPlayer(t, true)

	if !p.HandleEvent(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone)) {
		t.Fatal("right arrow should not quit")
	}
	if got := ctrl.CurrentBeat(); got != 1 {
		t.Errorf("CurrentBeat after next = %v, want 1", got)
	}

	p.HandleEvent(tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone))
	if ctrl.State() != playback.Playing {
		t.Errorf("state after space = %v, want playing", ctrl.State())
	}
	if p.queue.Len() != 1 {
		t.Errorf("queued frames = %d, want 1", p.queue.Len())
	}

	p.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'g', tcell.ModNone))
	if p.gridVisible {
		t.Error("g should hide the grid")
	}

	for _, ev := range []*tcell.EventKey{
		tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone),
		tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone),
		tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModNone),
	} {
		if p.HandleEvent(ev) {
			t.Errorf("%s should quit", ev.Name())
		}
	}
}

func TestRunQuitsOnKey(t *testing.T) {
	p, screen, _ := newTestPlayer(t, true)

	done := make(chan error, 1)
	go func() { done <- p.Run(context.Background()) }()
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after q")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	p, _, _ := newTestPlayer(t, true)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
