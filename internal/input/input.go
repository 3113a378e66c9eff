package input

import "fmt"

// Key identifies a logical key the viewer reacts to.
type Key int

const (
	KeyUnknown Key = iota

	// Movement
	KeyW
	KeyA
	KeyS
	KeyD
	KeySpace
	KeyLeftControl

	KeyLeftShift
	KeyEscape

	// KeyCount is the number of tracked keys; it is not a key.
	KeyCount
)

var keyNames = [KeyCount]string{
	KeyUnknown:     "Unknown",
	KeyW:           "W",
	KeyA:           "A",
	KeyS:           "S",
	KeyD:           "D",
	KeySpace:       "Space",
	KeyLeftControl: "LeftControl",
	KeyLeftShift:   "LeftShift",
	KeyEscape:      "Escape",
}

func (k Key) String() string {
	if k < 0 || k >= KeyCount {
		return fmt.Sprintf("Key(%d)", int(k))
	}
	return keyNames[k]
}

// Action is the kind of key event reported by the window.
type Action int

const (
	Release Action = iota
	Press
	Repeat
)

func (a Action) String() string {
	switch a {
	case Release:
		return "Release"
	case Press:
		return "Press"
	case Repeat:
		return "Repeat"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Event is a single key transition.
type Event struct {
	Key    Key
	Action Action
}

// State tracks whether each key is currently held. The zero value has every key up.
type State struct {
	down [KeyCount]bool
}

// Set records the key as pressed or released. Unknown keys are ignored.
func (s *State) Set(key Key, pressed bool) {
	if key <= KeyUnknown || key >= KeyCount {
		return
	}
	s.down[key] = pressed
}

// IsDown reports whether key is held. Keys never seen read as up.
func (s *State) IsDown(key Key) bool {
	if key <= KeyUnknown || key >= KeyCount {
		return false
	}
	return s.down[key]
}

// Handle applies a key event. Only Press and Release change state; repeats
// are not new presses.
func (s *State) Handle(e Event) {
	switch e.Action {
	case Press:
		s.Set(e.Key, true)
	case Release:
		s.Set(e.Key, false)
	}
}

// Apply handles events in order.
func (s *State) Apply(events []Event) {
	for _, e := range events {
		s.Handle(e)
	}
}
