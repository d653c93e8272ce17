// Package world holds the active map and answers tile queries against it.
// It also sequences the fade that covers a map swap.
package world

import (
	"github.com/nathoo/mvpquest/types"
	"github.com/zyedidia/generic/mapset"
)

// FadeRate is the change in fade opacity per second.
const FadeRate = 3.0

// Layer selects a tile layer.
type Layer int

const (
	Ground Layer = iota
	Objects
)

// Store owns the map definitions and the active map.
type Store struct {
	maps     map[types.MapID]*types.MapDef
	blocking mapset.Set[types.TileID]
	current  *types.MapDef

	fading  bool
	alpha   float64
	pending *types.Transition
}

// New returns a store over the given maps and blocking tile set. No map is
// active until Load succeeds.
func New(maps map[types.MapID]*types.MapDef, blocking mapset.Set[types.TileID]) *Store {
	return &Store{maps: maps, blocking: blocking}
}

// Load makes the map with the given id active. Unknown ids leave the store
// unchanged and return false.
func (w *Store) Load(id types.MapID) bool {
	m, ok := w.maps[id]
	if !ok {
		return false
	}
	w.current = m
	return true
}

// Has reports whether a map with the given id exists.
func (w *Store) Has(id types.MapID) bool {
	_, ok := w.maps[id]
	return ok
}

// Current returns the active map, or nil.
func (w *Store) Current() *types.MapDef { return w.current }

// CurrentID returns the id of the active map, or "".
func (w *Store) CurrentID() types.MapID {
	if w.current == nil {
		return ""
	}
	return w.current.ID
}

// InBounds reports whether (x, y) lies on the active map.
func (w *Store) InBounds(x, y int) bool {
	m := w.current
	return m != nil && x >= 0 && y >= 0 && x < m.Width && y < m.Height
}

// TileAt returns the tile on a layer at (x, y). Out of bounds returns TileNone.
func (w *Store) TileAt(layer Layer, x, y int) types.TileID {
	if !w.InBounds(x, y) {
		return types.TileNone
	}
	i := y*w.current.Width + x
	if layer == Objects {
		return w.current.Objects[i]
	}
	return w.current.Ground[i]
}

// IsBlocked reports whether (x, y) cannot be entered. Anything off the map,
// or any query with no active map, is blocked.
func (w *Store) IsBlocked(x, y int) bool {
	if !w.InBounds(x, y) {
		return true
	}
	return w.blocking.Has(w.TileAt(Ground, x, y)) || w.blocking.Has(w.TileAt(Objects, x, y))
}

// TransitionAt returns the first transition triggered at (x, y).
func (w *Store) TransitionAt(x, y int) (types.Transition, bool) {
	if w.current == nil {
		return types.Transition{}, false
	}
	for _, t := range w.current.Transitions {
		if t.At.X == x && t.At.Y == y {
			return t, true
		}
	}
	return types.Transition{}, false
}

// BeginTransition starts a fade towards t. It is refused while another
// transition is in flight or when the target map does not exist.
func (w *Store) BeginTransition(t types.Transition) bool {
	if w.fading || !w.Has(t.Target) {
		return false
	}
	w.fading = true
	w.alpha = 0
	w.pending = &t
	return true
}

// UpdateFade advances the fade by dt seconds. It returns the pending
// transition exactly once, on the frame the fade reaches full opacity; the
// caller performs the swap then. The fade then ramps back to clear.
func (w *Store) UpdateFade(dt float64) *types.Transition {
	if !w.fading {
		return nil
	}
	if w.pending != nil {
		w.alpha = min(1, w.alpha+dt*FadeRate)
		if w.alpha >= 1 {
			t := w.pending
			w.pending = nil
			return t
		}
		return nil
	}
	w.alpha = max(0, w.alpha-dt*FadeRate)
	if w.alpha <= 0 {
		w.fading = false
	}
	return nil
}

// Fading reports whether a transition is in flight.
func (w *Store) Fading() bool { return w.fading }

// FadeAlpha returns the current fade opacity in [0, 1].
func (w *Store) FadeAlpha() float64 { return w.alpha }

// Reset cancels any fade in progress and unloads the active map.
func (w *Store) Reset() {
	w.current = nil
	w.fading = false
	w.alpha = 0
	w.pending = nil
}
