// Package input tracks logical key state between frames: which keys are
// held and which were pressed since the last frame.
package input

// Key is a logical game input.
type Key int

const (
	Up Key = iota
	Down
	Left
	Right
	Confirm
	Interact
	Inventory
	Close
	numKeys
)

var keyNames = [numKeys]string{"up", "down", "left", "right", "confirm", "interact", "inventory", "close"}

func (k Key) String() string {
	if k < 0 || k >= numKeys {
		return "unknown"
	}
	return keyNames[k]
}

// ParseKey maps a key name back to its Key.
func ParseKey(name string) (Key, bool) {
	for i, n := range keyNames {
		if n == name {
			return Key(i), true
		}
	}
	return 0, false
}

// HoldWindow is how long a key counts as held after its last press.
// Terminals report presses and auto-repeats but never releases, so holding
// is inferred from a steady stream of presses. The window is shorter than
// the movement cooldown so a single tap moves one tile.
const HoldWindow = 0.12

// State is the input layer. Press and Release feed it; the frame loop
// reads it and calls EndFrame once per frame.
type State struct {
	held    [numKeys]float64 // remaining hold time; <0 means held until Release
	pressed [numKeys]bool
}

// New returns an empty input state.
func New() *State { return &State{} }

// Press records a key press. The key is pressed this frame and held for
// HoldWindow.
func (s *State) Press(k Key) {
	if k < 0 || k >= numKeys {
		return
	}
	s.pressed[k] = true
	if s.held[k] >= 0 {
		s.held[k] = HoldWindow
	}
}

// Hold marks a key as held until Release, for drivers that do see releases.
func (s *State) Hold(k Key) {
	if k < 0 || k >= numKeys {
		return
	}
	s.pressed[k] = true
	s.held[k] = -1
}

// Release clears a held key.
func (s *State) Release(k Key) {
	if k < 0 || k >= numKeys {
		return
	}
	s.held[k] = 0
}

// Held reports whether the key is currently down.
func (s *State) Held(k Key) bool {
	if k < 0 || k >= numKeys {
		return false
	}
	return s.held[k] != 0
}

// Pressed reports whether the key went down since the last EndFrame.
func (s *State) Pressed(k Key) bool {
	if k < 0 || k >= numKeys {
		return false
	}
	return s.pressed[k]
}

// EndFrame clears the pressed-this-frame edges and decays hold windows.
func (s *State) EndFrame(dt float64) {
	for k := range s.pressed {
		s.pressed[k] = false
		if s.held[k] > 0 {
			s.held[k] = max(0, s.held[k]-dt)
		}
	}
}

// Reset releases every key.
func (s *State) Reset() {
	*s = State{}
}
