// Package input polls SDL2 events and maps key presses to playback commands.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/tka-animator/internal/playback"
)

// EventType classifies a processed event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
}

// Bindings maps keys to playback commands.
type Bindings map[sdl.Scancode]playback.Command

// DefaultBindings mirrors the terminal player: space toggles, arrows step,
// +/- change speed, L toggles looping and Home rewinds.
func DefaultBindings() Bindings {
	return Bindings{
		sdl.SCANCODE_SPACE:       {Op: playback.OpToggle},
		sdl.SCANCODE_RIGHT:       {Op: playback.OpNext},
		sdl.SCANCODE_LEFT:        {Op: playback.OpPrev},
		sdl.SCANCODE_EQUALS:      {Op: playback.OpSpeedStep, Value: playback.SpeedStep},
		sdl.SCANCODE_KP_PLUS:     {Op: playback.OpSpeedStep, Value: playback.SpeedStep},
		sdl.SCANCODE_MINUS:       {Op: playback.OpSpeedStep, Value: -playback.SpeedStep},
		sdl.SCANCODE_KP_MINUS:    {Op: playback.OpSpeedStep, Value: -playback.SpeedStep},
		sdl.SCANCODE_L:           {Op: playback.OpLoopToggle},
		sdl.SCANCODE_HOME:        {Op: playback.OpJump, Value: 0},
		sdl.SCANCODE_S:           {Op: playback.OpStop},
		sdl.SCANCODE_AUDIOPLAY:   {Op: playback.OpToggle},
		sdl.SCANCODE_AUDIONEXT:   {Op: playback.OpNext},
		sdl.SCANCODE_AUDIOPREV:   {Op: playback.OpPrev},
		sdl.SCANCODE_AUDIOSTOP:   {Op: playback.OpStop},
		sdl.SCANCODE_KP_ENTER:    {Op: playback.OpToggle},
		sdl.SCANCODE_BACKSPACE:   {Op: playback.OpJump, Value: 0},
		sdl.SCANCODE_PAGEUP:      {Op: playback.OpPrev},
		sdl.SCANCODE_PAGEDOWN:    {Op: playback.OpNext},
		sdl.SCANCODE_KP_MULTIPLY: {Op: playback.OpSpeed, Value: playback.DefaultSpeed},
	}
}

// Input handles all input processing.
type Input struct {
	events []Event
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Update polls SDL events.
// Returns true if the viewer should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0] // Clear previous events

	quit := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			quit = true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			if e.Repeat != 0 {
				continue
			}
			if e.Type == sdl.KEYDOWN {
				i.events = append(i.events, Event{Type: EventKeyDown, Key: e.Keysym.Scancode})
				if e.Keysym.Scancode == sdl.SCANCODE_ESCAPE || e.Keysym.Scancode == sdl.SCANCODE_Q {
					quit = true
				}
			} else if e.Type == sdl.KEYUP {
				i.events = append(i.events, Event{Type: EventKeyUp, Key: e.Keysym.Scancode})
			}
		}
	}

	return quit
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}

// Commands returns the bound commands for keys pressed since the last Update,
// in press order.
func (i *Input) Commands(b Bindings) []playback.Command {
	return commandsFor(i.events, b)
}

// Resized returns the latest window size reported this frame.
func (i *Input) Resized() (w, h int, ok bool) {
	for _, e := range i.events {
		if e.Type == EventWindowResize {
			w, h, ok = e.Width, e.Height, true
		}
	}
	return w, h, ok
}

func commandsFor(events []Event, b Bindings) []playback.Command {
	var cmds []playback.Command
	for _, e := range events {
		if e.Type != EventKeyDown {
			continue
		}
		if cmd, ok := b[e.Key]; ok {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}
