// Package types defines the shared data structures for the mvpquest runtime.
// This package contains only type definitions, no logic.
package types

import "github.com/zyedidia/generic/mapset"

// Pos is a tile coordinate. X grows right, Y grows down.
type Pos struct {
	X, Y int
}

// TileID identifies a tile kind. Zero means "no tile" on the object layer.
type TileID int

// TileNone is the empty object-layer tile.
const TileNone TileID = 0

type (
	MapID    string
	NPCID    string
	ItemID   string
	DialogID string
)

// Known NPC identities. Dialog selection switches over exactly these.
const (
	NPCMerlin   NPCID = "merlin"
	NPCDataDave NPCID = "datadave"
	NPCKaren    NPCID = "karen"
	NPCPriya    NPCID = "priya"
	NPCOracle   NPCID = "oracle"
	NPCSteve    NPCID = "steve"
	NPCBoss     NPCID = "boss"
)

// Action is a dialog completion action. The set is closed.
type Action string

const (
	ActionNone       Action = ""
	ActionStartQuest Action = "start_quest"
	ActionGiveDuck   Action = "give_duck"
	ActionGiveTicket Action = "give_ticket"
	ActionGiveYAML   Action = "give_yaml"
	ActionGiveAPIKey Action = "give_apikey"
	ActionGiveEnv    Action = "give_env"
	ActionFinishGame Action = "finish_game"
)

// Axis is the patrol axis of an enemy.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

// Flag names one field of Flags.
type Flag int

const (
	FlagHasDuck Flag = iota
	FlagHasTicket
	FlagHasYAML
	FlagHasAPIKey
	FlagHasEnv
	FlagBossDefeated
)

// Flags is the fixed set of quest flags. Flags are only ever set, never cleared.
type Flags struct {
	HasDuck      bool
	HasTicket    bool
	HasYAML      bool
	HasAPIKey    bool
	HasEnv       bool
	BossDefeated bool
}

// Transition is a trigger tile that moves the player to another map.
type Transition struct {
	At     Pos
	Target MapID
	To     Pos
}

// NPCPlacement puts an NPC on a map.
type NPCPlacement struct {
	ID NPCID
	At Pos
}

// ItemPlacement puts a collectible on a map. A non-empty Dialog is opened on
// pickup instead of granting the item directly.
type ItemPlacement struct {
	ID     ItemID
	At     Pos
	Dialog DialogID
}

// EnemyPlacement describes a patrolling enemy. Min and Max bound the patrol
// coordinate along Axis; Start gives the initial cell.
type EnemyPlacement struct {
	Start    Pos
	Axis     Axis
	Min, Max float64
	Speed    float64
}

// MapDef is an immutable map definition. Ground and Objects are row-major,
// Width*Height long.
type MapDef struct {
	ID          MapID
	Name        string
	Width       int
	Height      int
	Ground      []TileID
	Objects     []TileID
	Spawn       Pos
	Music       string
	Transitions []Transition
	NPCs        []NPCPlacement
	Items       []ItemPlacement
	Enemies     []EnemyPlacement
}

// TileDef declares a tile kind.
type TileDef struct {
	ID       TileID
	Name     string
	Blocking bool
}

// Page is one page of a dialog.
type Page struct {
	Speaker string
	Text    string
}

// DialogDef is an ordered list of pages with an optional completion action.
type DialogDef struct {
	ID    DialogID
	Pages []Page
	OnEnd Action
}

// NPCDef is the display definition of an NPC.
type NPCDef struct {
	ID     NPCID
	Name   string
	Sprite string
}

// ItemDef is the display definition of an item.
type ItemDef struct {
	ID   ItemID
	Name string
	Desc string
	Icon string
}

// QuestStep is one entry of the quest chain shown in the HUD.
type QuestStep struct {
	ID    string
	Label string
	Desc  string
}

// GameDef holds game metadata from Lua.
type GameDef struct {
	Title   string
	Author  string
	Version string
	Start   MapID
	Intro   string
}

// EffectKind enumerates the atomic quest mutations.
type EffectKind int

const (
	EffectGiveItem EffectKind = iota
	EffectSetFlag
	EffectStartQuest
	EffectAdvanceStep
	EffectFinishGame
)

// Effect is a single atomic state mutation instruction.
type Effect struct {
	Kind EffectKind
	Item ItemID
	Flag Flag
	Step int // target step for EffectAdvanceStep
}

// Event is emitted after effects are applied or the world changes.
type Event struct {
	Type string
	Data map[string]any
}

// EventHandler is a content-declared reaction to an event.
type EventHandler struct {
	EventType string
	When      map[string]string // event data keys that must match
	Sound     string
	Message   string
}

// Reaction is what a matched handler asks the runtime to do.
type Reaction struct {
	Sound   string
	Message string
}

// State is the mutable quest state of one play session.
type State struct {
	Flags        Flags
	Inventory    []ItemID // acquisition order, no duplicates
	Collected    mapset.Set[ItemID]
	QuestStarted bool
	Step         int
}
