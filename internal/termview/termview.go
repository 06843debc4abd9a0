// Package termview plays a sequence in a terminal with tcell. Props are drawn
// as short glyph lines over the hand points of the grid.
package termview

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/Faultbox/tka-animator/internal/animation"
	"github.com/Faultbox/tka-animator/internal/assets"
	"github.com/Faultbox/tka-animator/internal/frame"
	"github.com/Faultbox/tka-animator/internal/logger"
	"github.com/Faultbox/tka-animator/internal/playback"
	"github.com/Faultbox/tka-animator/pkg/grid"
)

const helpLine = "space play/pause  ←/→ beat  +/- speed  l loop  g grid  home start  q quit"

var (
	styleGrid   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleCenter = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	styleBlue   = tcell.StyleDefault.Foreground(tcell.NewHexColor(0x2E3192)).Bold(true)
	styleRed    = tcell.StyleDefault.Foreground(tcell.NewHexColor(0xED1C24)).Bold(true)
	styleLetter = tcell.StyleDefault.Bold(true)
	styleStatus = tcell.StyleDefault.Reverse(true)
	styleHelp   = tcell.StyleDefault.Dim(true)
)

// Options configures a Player.
type Options struct {
	FPS         int
	GridVisible bool
	// OnGridToggle, if set, is called when the user shows or hides the grid.
	OnGridToggle func(visible bool)
}

// Player draws the store's latest snapshot and routes keys to the
// controller. The controller must be scheduled on queue so frames run on
// the player's loop.
type Player struct {
	screen tcell.Screen
	ctrl   *playback.Controller
	store  *playback.Store
	queue  *frame.Queue
	opts   Options
	log    *zap.Logger

	gridVisible bool
}

// New creates a player on an initialized screen.
func New(screen tcell.Screen, ctrl *playback.Controller, store *playback.Store, queue *frame.Queue, opts Options) *Player {
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	return &Player{
		screen:      screen,
		ctrl:        ctrl,
		store:       store,
		queue:       queue,
		opts:        opts,
		log:         logger.Named("termview"),
		gridVisible: opts.GridVisible,
	}
}

// Run polls events and redraws until ctx is cancelled or the user quits.
func (p *Player) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(p.opts.FPS))
	defer ticker.Stop()

	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	defer close(quit)
	go p.screen.ChannelEvents(events, quit)

	p.Draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !p.HandleEvent(ev) {
				return nil
			}
		case now := <-ticker.C:
			p.queue.Run(now)
			p.Draw()
		}
	}
}

// HandleEvent applies one terminal event. It returns false when the player
// should exit.
func (p *Player) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if isQuit(ev) {
			return false
		}
		if ev.Key() == tcell.KeyRune && (ev.Rune() == 'g' || ev.Rune() == 'G') {
			p.gridVisible = !p.gridVisible
			if p.opts.OnGridToggle != nil {
				p.opts.OnGridToggle(p.gridVisible)
			}
			p.Draw()
			return true
		}
		if cmd, ok := commandFor(ev); ok {
			if err := p.ctrl.Apply(cmd); err != nil {
				p.log.Warn("command failed", zap.String("op", string(cmd.Op)), zap.Error(err))
			}
			p.Draw()
		}
	case *tcell.EventResize:
		p.screen.Sync()
		p.Draw()
	}
	return true
}

func isQuit(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' || ev.Rune() == 'Q'
	}
	return false
}

// commandFor maps a key to a playback command. The bindings match the
// window viewer's.
func commandFor(ev *tcell.EventKey) (playback.Command, bool) {
	switch ev.Key() {
	case tcell.KeyRight, tcell.KeyPgDn:
		return playback.Command{Op: playback.OpNext}, true
	case tcell.KeyLeft, tcell.KeyPgUp:
		return playback.Command{Op: playback.OpPrev}, true
	case tcell.KeyHome, tcell.KeyBackspace, tcell.KeyBackspace2:
		return playback.Command{Op: playback.OpJump, Value: 0}, true
	case tcell.KeyEnter:
		return playback.Command{Op: playback.OpToggle}, true
	case tcell.KeyRune:
	default:
		return playback.Command{}, false
	}

	switch ev.Rune() {
	case ' ':
		return playback.Command{Op: playback.OpToggle}, true
	case '+', '=':
		return playback.Command{Op: playback.OpSpeedStep, Value: playback.SpeedStep}, true
	case '-', '_':
		return playback.Command{Op: playback.OpSpeedStep, Value: -playback.SpeedStep}, true
	case '*':
		return playback.Command{Op: playback.OpSpeed, Value: playback.DefaultSpeed}, true
	case 'l', 'L':
		return playback.Command{Op: playback.OpLoopToggle}, true
	case 's', 'S':
		return playback.Command{Op: playback.OpStop}, true
	}
	return playback.Command{}, false
}

// board is the rectangle of cells the 950px grid maps onto. Terminal cells
// are about twice as tall as wide, so the board is twice as wide as high.
type board struct {
	x, y, w, h int
}

// fitBoard centers the largest board that leaves one row above for help and
// one below for status.
func fitBoard(sw, sh int) board {
	h := sh - 2
	if h < 1 {
		h = 1
	}
	w := 2 * h
	if w > sw {
		w = sw
		h = w / 2
	}
	if w < 1 {
		w = 1
	}
	return board{x: (sw - w) / 2, y: 1 + (sh-2-h)/2, w: w, h: h}
}

// cell converts grid pixel coordinates to a cell.
func (b board) cell(x, y float64) (int, int) {
	cx := b.x + int(math.Floor(x/grid.Size*float64(b.w)))
	cy := b.y + int(math.Floor(y/grid.Size*float64(b.h)))
	return cx, cy
}

// staffGlyph picks the line character closest to a staff angle in degrees,
// measured clockwise from east on screen.
func staffGlyph(deg float64) rune {
	a := math.Mod(deg, 180)
	if a < 0 {
		a += 180
	}
	switch {
	case a < 22.5 || a >= 157.5:
		return '-'
	case a < 67.5:
		return '\\'
	case a < 112.5:
		return '|'
	default:
		return '/'
	}
}

// Draw renders the latest snapshot.
func (p *Player) Draw() {
	s := p.screen
	s.Clear()
	sw, sh := s.Size()
	b := fitBoard(sw, sh)

	snap := p.store.Snapshot()
	f := snap.Frame
	mode := f.GridMode
	if mode == "" {
		mode = grid.Diamond
	}

	if p.gridVisible {
		p.drawGrid(b, mode)
	}
	if snap.TotalBeats > 0 {
		p.drawStaff(b, f.Blue, styleBlue)
		p.drawStaff(b, f.Red, styleRed)
		if f.Letter != "" {
			lx, ly := b.cell(grid.CenterX, grid.Size*0.9)
			drawText(s, lx-len(f.Letter)/2, ly, styleLetter, f.Letter)
		}
	}

	drawText(s, 0, 0, styleHelp, truncate(helpLine, sw))
	status := truncate(statusLine(snap), sw)
	drawText(s, 0, sh-1, styleStatus, fmt.Sprintf("%-*s", sw, status))
	s.Show()
}

func (p *Player) drawGrid(b board, mode grid.Mode) {
	c := grid.Default()
	for _, loc := range grid.Locations(mode) {
		pt := c.Point(loc)
		x, y := b.cell(pt.X, pt.Y)
		p.screen.SetContent(x, y, '•', nil, styleGrid)
	}
	outer := grid.Circle{Center: c.Center, Radius: grid.OuterRadius}
	for _, loc := range grid.Locations(mode) {
		pt := outer.Point(loc)
		x, y := b.cell(pt.X, pt.Y)
		p.screen.SetContent(x, y, '·', nil, styleGrid)
	}
	x, y := b.cell(grid.CenterX, grid.CenterY)
	p.screen.SetContent(x, y, '+', nil, styleCenter)
}

// drawStaff plots a staff as a run of glyphs along its rotation angle,
// centered on the prop position.
func (p *Player) drawStaff(b board, st animation.PropState, style tcell.Style) {
	glyph := staffGlyph(st.StaffRotationAngle)
	rad := st.StaffRotationAngle * math.Pi / 180
	dx, dy := math.Cos(rad), math.Sin(rad)
	half := assets.StaffWidth / 2.0

	steps := b.w / 4
	if steps < 2 {
		steps = 2
	}
	for i := 0; i <= steps; i++ {
		d := -half + float64(i)*(2*half)/float64(steps)
		x, y := b.cell(st.X+dx*d, st.Y+dy*d)
		p.screen.SetContent(x, y, glyph, nil, style)
	}
}

func statusLine(snap playback.Snapshot) string {
	if snap.TotalBeats == 0 {
		return " no sequence"
	}
	loop := "off"
	if snap.Loop {
		loop = "on"
	}
	beat := "start"
	if snap.Frame.BeatIndex >= 0 {
		beat = fmt.Sprintf("%d/%d", snap.Frame.BeatIndex+1, snap.TotalBeats)
	}
	return fmt.Sprintf(" %s  %-7s beat %s (%.2f)  speed %.2fx  loop %s",
		snap.Word, snap.State, beat, snap.CurrentBeat, snap.Speed, loop)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n < 0 {
		n = 0
	}
	if len(r) > n {
		return string(r[:n])
	}
	return s
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
