// Package state holds the immutable content definitions and the helpers
// that read and mutate a session's quest state.
package state

import (
	"github.com/nathoo/mvpquest/types"
	"github.com/zyedidia/generic/mapset"
)

// Defs holds the immutable game definitions loaded from Lua.
type Defs struct {
	Game     types.GameDef
	Tiles    map[types.TileID]types.TileDef
	Blocking mapset.Set[types.TileID]
	Maps     map[types.MapID]*types.MapDef
	NPCs     map[types.NPCID]types.NPCDef
	Items    map[types.ItemID]types.ItemDef
	Dialogs  map[types.DialogID]types.DialogDef
	Quest    []types.QuestStep
	Ending   []string
	Handlers []types.EventHandler

	// Warnings are non-fatal problems the loader found in the content.
	Warnings []string
}

// NewDefs returns empty definitions with every map allocated.
func NewDefs() *Defs {
	return &Defs{
		Tiles:    map[types.TileID]types.TileDef{},
		Blocking: mapset.New[types.TileID](),
		Maps:     map[types.MapID]*types.MapDef{},
		NPCs:     map[types.NPCID]types.NPCDef{},
		Items:    map[types.ItemID]types.ItemDef{},
		Dialogs:  map[types.DialogID]types.DialogDef{},
	}
}

// NewState creates a fresh quest state: no flags, empty inventory, nothing
// collected, quest not started, step 0.
func NewState() *types.State {
	return &types.State{
		Inventory: []types.ItemID{},
		Collected: mapset.New[types.ItemID](),
	}
}

// GetFlag returns the value of a flag.
func GetFlag(s *types.State, f types.Flag) bool {
	switch f {
	case types.FlagHasDuck:
		return s.Flags.HasDuck
	case types.FlagHasTicket:
		return s.Flags.HasTicket
	case types.FlagHasYAML:
		return s.Flags.HasYAML
	case types.FlagHasAPIKey:
		return s.Flags.HasAPIKey
	case types.FlagHasEnv:
		return s.Flags.HasEnv
	case types.FlagBossDefeated:
		return s.Flags.BossDefeated
	}
	return false
}

// SetFlag sets a flag. Returns false if the flag was already set or is
// unknown. There is no way to clear a flag.
func SetFlag(s *types.State, f types.Flag) bool {
	if GetFlag(s, f) {
		return false
	}
	switch f {
	case types.FlagHasDuck:
		s.Flags.HasDuck = true
	case types.FlagHasTicket:
		s.Flags.HasTicket = true
	case types.FlagHasYAML:
		s.Flags.HasYAML = true
	case types.FlagHasAPIKey:
		s.Flags.HasAPIKey = true
	case types.FlagHasEnv:
		s.Flags.HasEnv = true
	case types.FlagBossDefeated:
		s.Flags.BossDefeated = true
	default:
		return false
	}
	return true
}

// FlagName returns the content-facing name of a flag.
func FlagName(f types.Flag) string {
	switch f {
	case types.FlagHasDuck:
		return "has_duck"
	case types.FlagHasTicket:
		return "has_ticket"
	case types.FlagHasYAML:
		return "has_yaml"
	case types.FlagHasAPIKey:
		return "has_apikey"
	case types.FlagHasEnv:
		return "has_env"
	case types.FlagBossDefeated:
		return "boss_defeated"
	}
	return "unknown"
}

// HasItem returns true if the item is in the inventory.
func HasItem(s *types.State, id types.ItemID) bool {
	for _, have := range s.Inventory {
		if have == id {
			return true
		}
	}
	return false
}

// AddItem appends an item to the inventory. Returns false if it was
// already held.
func AddItem(s *types.State, id types.ItemID) bool {
	if HasItem(s, id) {
		return false
	}
	s.Inventory = append(s.Inventory, id)
	return true
}

// MarkCollected records that a map item has been picked up so it never
// respawns on map re-entry.
func MarkCollected(s *types.State, id types.ItemID) {
	s.Collected.Put(id)
}

// IsCollected reports whether a map item has been picked up.
func IsCollected(s *types.State, id types.ItemID) bool {
	return s.Collected.Has(id)
}
