// Package entity manages the runtime actors of the active map: the player,
// NPCs, patrolling enemies and the items still lying around.
package entity

import (
	"math"

	"github.com/nathoo/mvpquest/types"
)

// MoveCooldown is the minimum time in seconds between two player steps.
const MoveCooldown = 0.15

// Direction is the way the player faces.
type Direction int

const (
	Down Direction = iota
	Up
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "down"
}

// Delta returns the unit step for the direction.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	}
	return 0, 1
}

// Player is the player-controlled actor.
type Player struct {
	Pos      types.Pos
	Facing   Direction
	Cooldown float64
}

// Ahead returns the tile the player is facing.
func (p *Player) Ahead() types.Pos {
	dx, dy := p.Facing.Delta()
	return types.Pos{X: p.Pos.X + dx, Y: p.Pos.Y + dy}
}

// NPC is a stationary, solid character.
type NPC struct {
	ID  types.NPCID
	Pos types.Pos
}

// Enemy patrols back and forth along one axis.
type Enemy struct {
	Axis     types.Axis
	Min, Max float64
	Speed    float64
	Coord    float64 // continuous position along Axis
	Dir      float64 // +1 or -1
	Fixed    int     // position on the other axis
}

// Cell returns the enemy's grid position: the patrol coordinate rounded to
// the nearest cell.
func (e *Enemy) Cell() types.Pos {
	c := int(math.Floor(e.Coord + 0.5))
	if e.Axis == types.AxisY {
		return types.Pos{X: e.Fixed, Y: c}
	}
	return types.Pos{X: c, Y: e.Fixed}
}

// Step advances the patrol by dt seconds, reversing at either bound.
func (e *Enemy) Step(dt float64) {
	e.Coord += e.Speed * dt * e.Dir
	if e.Coord >= e.Max {
		e.Coord = e.Max
		e.Dir = -1
	}
	if e.Coord <= e.Min {
		e.Coord = e.Min
		e.Dir = 1
	}
}

// Grid answers whether a tile can be entered.
type Grid interface {
	IsBlocked(x, y int) bool
}

// BlockReason says why a move did not happen.
type BlockReason int

const (
	NotBlocked BlockReason = iota
	BlockedCooldown
	BlockedNPC
	BlockedTile
	BlockedNoMove
)

// MoveResult reports the outcome of TryMove.
type MoveResult struct {
	Moved   bool
	To      types.Pos
	Blocked BlockReason
}

// System holds the entities of the active map.
type System struct {
	Player  Player
	NPCs    []NPC
	Enemies []Enemy
	Items   []types.ItemPlacement
}

// NewSystem returns an empty system with the player facing down.
func NewSystem() *System {
	return &System{Player: Player{Facing: Down}}
}

// Populate rebuilds NPCs, enemies and items from a map definition. Items
// for which collected returns true are left out.
func (s *System) Populate(m *types.MapDef, collected func(types.ItemID) bool) {
	s.NPCs = s.NPCs[:0]
	for _, n := range m.NPCs {
		s.NPCs = append(s.NPCs, NPC{ID: n.ID, Pos: n.At})
	}

	s.Enemies = s.Enemies[:0]
	for _, p := range m.Enemies {
		e := Enemy{Axis: p.Axis, Min: p.Min, Max: p.Max, Speed: p.Speed, Dir: 1}
		if p.Axis == types.AxisY {
			e.Coord, e.Fixed = float64(p.Start.Y), p.Start.X
		} else {
			e.Coord, e.Fixed = float64(p.Start.X), p.Start.Y
		}
		s.Enemies = append(s.Enemies, e)
	}

	s.Items = s.Items[:0]
	for _, it := range m.Items {
		if collected != nil && collected(it.ID) {
			continue
		}
		s.Items = append(s.Items, it)
	}
}

// Update ticks the move cooldown and enemy patrols. It reports whether an
// enemy now occupies the player's cell.
func (s *System) Update(dt float64) (caught bool) {
	if s.Player.Cooldown > 0 {
		s.Player.Cooldown -= dt
	}
	for i := range s.Enemies {
		s.Enemies[i].Step(dt)
	}
	for i := range s.Enemies {
		if s.Enemies[i].Cell() == s.Player.Pos {
			return true
		}
	}
	return false
}

// TryMove attempts one step. A diagonal request keeps only its vertical
// part. Facing changes even when the move is refused. Bumping into an NPC
// restarts the cooldown; bumping into a blocked tile does not.
func (s *System) TryMove(dx, dy int, grid Grid) MoveResult {
	p := &s.Player
	if p.Cooldown > 0 {
		return MoveResult{To: p.Pos, Blocked: BlockedCooldown}
	}
	if dx != 0 && dy != 0 {
		dx = 0
	}
	switch {
	case dx > 0:
		p.Facing = Right
	case dx < 0:
		p.Facing = Left
	case dy > 0:
		p.Facing = Down
	case dy < 0:
		p.Facing = Up
	default:
		return MoveResult{To: p.Pos, Blocked: BlockedNoMove}
	}

	to := types.Pos{X: p.Pos.X + sign(dx), Y: p.Pos.Y + sign(dy)}
	if _, ok := s.NPCAt(to); ok {
		p.Cooldown = MoveCooldown
		return MoveResult{To: p.Pos, Blocked: BlockedNPC}
	}
	if grid.IsBlocked(to.X, to.Y) {
		return MoveResult{To: p.Pos, Blocked: BlockedTile}
	}

	p.Pos = to
	p.Cooldown = MoveCooldown
	return MoveResult{Moved: true, To: to}
}

// NPCAt returns the NPC standing on pos.
func (s *System) NPCAt(pos types.Pos) (NPC, bool) {
	for _, n := range s.NPCs {
		if n.Pos == pos {
			return n, true
		}
	}
	return NPC{}, false
}

// ItemAt returns the index of the item lying on pos, or -1.
func (s *System) ItemAt(pos types.Pos) int {
	for i := len(s.Items) - 1; i >= 0; i-- {
		if s.Items[i].At == pos {
			return i
		}
	}
	return -1
}

// TakeItem removes the item at index i from the map and returns it.
func (s *System) TakeItem(i int) types.ItemPlacement {
	it := s.Items[i]
	s.Items = append(s.Items[:i], s.Items[i+1:]...)
	return it
}

// Place puts the player at pos, facing down, with no cooldown.
func (s *System) Place(pos types.Pos) {
	s.Player = Player{Pos: pos, Facing: Down}
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}
