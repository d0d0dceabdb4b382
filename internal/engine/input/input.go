// Package input turns SDL2 events into viewer events.
package input

import (
	"strings"

	"github.com/veandco/go-sdl2/sdl"
)

// EventType identifies an Event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventDropFile
	EventDropText
)

// Event is a processed input event.
type Event struct {
	Type EventType
	// Key is the lower-case SDL key name ("left", "pageup", "a").
	Key  string
	Ctrl bool
	// Text holds a dropped file path or dropped text.
	Text   string
	Width  int
	Height int
}

// Input collects the events of one frame.
type Input struct {
	events []Event
}

// New creates an input handler.
func New() *Input {
	return &Input{events: make([]Event, 0, 16)}
}

// Update polls SDL events. It returns true when the window was closed.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			return true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			if e.Type != sdl.KEYDOWN {
				continue
			}
			i.events = append(i.events, Event{
				Type: EventKeyDown,
				Key:  KeyName(sdl.GetKeyName(e.Keysym.Sym)),
				Ctrl: e.Keysym.Mod&(sdl.KMOD_CTRL|sdl.KMOD_GUI) != 0,
			})

		case *sdl.DropEvent:
			switch e.Type {
			case sdl.DROPFILE:
				i.events = append(i.events, Event{Type: EventDropFile, Text: e.File})
			case sdl.DROPTEXT:
				i.events = append(i.events, Event{Type: EventDropText, Text: e.File})
			}
		}
	}
	return false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// KeyName normalizes an SDL key name: lower case without spaces, so
// "Page Up" becomes "pageup" and "Left" becomes "left".
func KeyName(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", ""))
}
