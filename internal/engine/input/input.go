// Package input converts SDL2 events into viewer events and tracks mouse
// drag state for camera control.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType identifies a viewer event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
	MouseX int
	MouseY int
	DeltaX int // relative motion, or wheel steps
	DeltaY int
	Button uint8
}

// Translate converts one SDL event. ok is false for events the viewer
// ignores.
func Translate(event sdl.Event) (ev Event, ok bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}, true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			return Event{Type: EventWindowResize, Width: int(e.Data1), Height: int(e.Data2)}, true
		}

	case *sdl.KeyboardEvent:
		if e.Repeat != 0 {
			return Event{}, false
		}
		switch e.Type {
		case sdl.KEYDOWN:
			return Event{Type: EventKeyDown, Key: e.Keysym.Scancode}, true
		case sdl.KEYUP:
			return Event{Type: EventKeyUp, Key: e.Keysym.Scancode}, true
		}

	case *sdl.MouseMotionEvent:
		return Event{
			Type:   EventMouseMove,
			MouseX: int(e.X),
			MouseY: int(e.Y),
			DeltaX: int(e.XRel),
			DeltaY: int(e.YRel),
		}, true

	case *sdl.MouseButtonEvent:
		t := EventMouseUp
		if e.Type == sdl.MOUSEBUTTONDOWN {
			t = EventMouseDown
		}
		return Event{Type: t, MouseX: int(e.X), MouseY: int(e.Y), Button: e.Button}, true

	case *sdl.MouseWheelEvent:
		dy := int(e.Y)
		if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
			dy = -dy
		}
		return Event{Type: EventMouseWheel, DeltaX: int(e.X), DeltaY: dy}, true
	}
	return Event{}, false
}

// Input collects the events of one frame and the keys and buttons held
// across frames.
type Input struct {
	events  []Event
	held    map[sdl.Scancode]bool
	buttons map[uint8]bool
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events:  make([]Event, 0, 16),
		held:    make(map[sdl.Scancode]bool),
		buttons: make(map[uint8]bool),
	}
}

// Update polls pending SDL events. Returns true if the viewer should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	quit := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if ev, ok := Translate(event); ok {
			quit = i.Push(ev) || quit
		}
	}
	return quit
}

// Push records a translated event and returns true for EventQuit.
func (i *Input) Push(ev Event) bool {
	i.events = append(i.events, ev)
	switch ev.Type {
	case EventKeyDown:
		i.held[ev.Key] = true
	case EventKeyUp:
		delete(i.held, ev.Key)
	case EventMouseDown:
		i.buttons[ev.Button] = true
	case EventMouseUp:
		delete(i.buttons, ev.Button)
	case EventQuit:
		return true
	}
	return false
}

// Reset drops the events of the current frame, keeping held state.
func (i *Input) Reset() {
	i.events = i.events[:0]
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a specific key went down this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}

// IsKeyHeld reports whether a key is currently down.
func (i *Input) IsKeyHeld(scancode sdl.Scancode) bool {
	return i.held[scancode]
}

// IsButtonHeld reports whether a mouse button is currently down.
func (i *Input) IsButtonHeld(button uint8) bool {
	return i.buttons[button]
}

// Drag returns the mouse motion accumulated this frame while button was
// held.
func (i *Input) Drag(button uint8) (dx, dy int) {
	if !i.buttons[button] {
		return 0, 0
	}
	for _, e := range i.events {
		if e.Type == EventMouseMove {
			dx += e.DeltaX
			dy += e.DeltaY
		}
	}
	return dx, dy
}

// Wheel returns the vertical wheel steps of this frame.
func (i *Input) Wheel() int {
	steps := 0
	for _, e := range i.events {
		if e.Type == EventMouseWheel {
			steps += e.DeltaY
		}
	}
	return steps
}
