package loader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/mvpquest/engine/quest"
	"github.com/nathoo/mvpquest/engine/state"
	"github.com/nathoo/mvpquest/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

func (e *ValidationError) errorf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

func (e *ValidationError) warnf(format string, args ...any) {
	e.Warnings = append(e.Warnings, fmt.Sprintf(format, args...))
}

// validate checks the compiled defs for referential integrity and consistency.
// Warnings of content that passes are kept on defs.Warnings.
func validate(defs *state.Defs) error {
	ve := &ValidationError{}

	if defs.Game.Title == "" {
		ve.errorf("Game.title is required")
	}
	if defs.Game.Start == "" {
		ve.errorf("Game.start is required")
	} else if _, ok := defs.Maps[defs.Game.Start]; !ok {
		ve.errorf("start map %q not found in defined maps", defs.Game.Start)
	}

	for _, id := range sortedMapIDs(defs) {
		validateMap(defs.Maps[id], defs, ve)
	}

	for id, d := range defs.Dialogs {
		if len(d.Pages) == 0 {
			ve.errorf("dialog %q has no pages", id)
		}
		if d.OnEnd != types.ActionNone && !quest.KnownAction(d.OnEnd) {
			ve.errorf("dialog %q ends with unknown action %q", id, d.OnEnd)
		}
	}

	for id, n := range defs.NPCs {
		if n.Name == "" {
			ve.warnf("npc %q has no name", id)
		}
	}

	for id, it := range defs.Items {
		if it.Name == "" {
			ve.errorf("item %q has no name", id)
		}
	}

	if len(defs.Quest) < quest.StepShipIt+1 {
		ve.warnf("quest chain has %d step(s), the tracker shows %d", len(defs.Quest), quest.StepShipIt+1)
	}
	if len(defs.Ending) == 0 {
		ve.warnf("no Ending{} text defined")
	}

	for i, h := range defs.Handlers {
		if h.EventType == "" {
			ve.errorf("handler %d has no event type", i+1)
		}
		if h.Sound == "" && h.Message == "" {
			ve.warnf("handler %d for %q does nothing", i+1, h.EventType)
		}
	}

	sort.Strings(ve.Errors)
	sort.Strings(ve.Warnings)
	if len(ve.Errors) > 0 {
		return ve
	}
	defs.Warnings = ve.Warnings
	return nil
}

func validateMap(m *types.MapDef, defs *state.Defs, ve *ValidationError) {
	size := m.Width * m.Height
	if m.Width <= 0 || m.Height <= 0 {
		ve.errorf("map %q has no size", m.ID)
		return
	}
	if len(m.Ground) != size {
		ve.errorf("map %q ground has %d tiles, want %d", m.ID, len(m.Ground), size)
		return
	}
	if len(m.Objects) != size {
		ve.errorf("map %q objects has %d tiles, want %d", m.ID, len(m.Objects), size)
		return
	}

	unknown := map[types.TileID]bool{}
	for i := range size {
		if g := m.Ground[i]; g != types.TileNone {
			if _, ok := defs.Tiles[g]; !ok {
				unknown[g] = true
			}
		}
		if o := m.Objects[i]; o != types.TileNone {
			if _, ok := defs.Tiles[o]; !ok {
				unknown[o] = true
			}
		}
	}
	for id := range unknown {
		ve.errorf("map %q uses undeclared tile %d", m.ID, id)
	}

	if !walkable(m, m.Spawn, defs) {
		ve.errorf("map %q spawn %v is out of bounds or blocked", m.ID, m.Spawn)
	}

	for _, t := range m.Transitions {
		if !walkable(m, t.At, defs) {
			ve.errorf("map %q transition at %v is out of bounds or blocked", m.ID, t.At)
		}
		target, ok := defs.Maps[t.Target]
		if !ok {
			ve.errorf("map %q transition at %v points to undefined map %q", m.ID, t.At, t.Target)
			continue
		}
		if !walkable(target, t.To, defs) {
			ve.errorf("map %q transition at %v lands on blocked %v in %q", m.ID, t.At, t.To, t.Target)
		}
	}

	for _, p := range m.NPCs {
		if _, ok := defs.NPCs[p.ID]; !ok {
			ve.errorf("map %q places undefined npc %q", m.ID, p.ID)
		}
		if !inBounds(m, p.At) {
			ve.errorf("map %q npc %q at %v is out of bounds", m.ID, p.ID, p.At)
		}
	}

	for _, p := range m.Items {
		if _, ok := defs.Items[p.ID]; !ok {
			ve.errorf("map %q places undefined item %q", m.ID, p.ID)
		}
		if p.Dialog != "" {
			if _, ok := defs.Dialogs[p.Dialog]; !ok {
				ve.errorf("map %q item %q opens undefined dialog %q", m.ID, p.ID, p.Dialog)
			}
		}
		if !walkable(m, p.At, defs) {
			ve.errorf("map %q item %q at %v is out of bounds or blocked", m.ID, p.ID, p.At)
		}
	}

	for i, e := range m.Enemies {
		if e.Min > e.Max {
			ve.errorf("map %q enemy %d patrol min %.1f exceeds max %.1f", m.ID, i+1, e.Min, e.Max)
		}
		if e.Speed <= 0 {
			ve.warnf("map %q enemy %d never moves", m.ID, i+1)
		}
		if !inBounds(m, e.Start) {
			ve.errorf("map %q enemy %d starts out of bounds at %v", m.ID, i+1, e.Start)
		}
	}

	if m.Music == "" {
		ve.warnf("map %q has no music", m.ID)
	}
}

func inBounds(m *types.MapDef, p types.Pos) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < m.Width && p.Y < m.Height
}

// walkable reports false for cells outside either layer, so maps with
// malformed layers never index past them.
func walkable(m *types.MapDef, p types.Pos, defs *state.Defs) bool {
	if !inBounds(m, p) {
		return false
	}
	i := p.Y*m.Width + p.X
	if i >= len(m.Ground) || i >= len(m.Objects) {
		return false
	}
	return !defs.Blocking.Has(m.Ground[i]) && !defs.Blocking.Has(m.Objects[i])
}

func sortedMapIDs(defs *state.Defs) []types.MapID {
	ids := make([]types.MapID, 0, len(defs.Maps))
	for id := range defs.Maps {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
