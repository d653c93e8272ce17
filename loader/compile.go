// Package loader loads Lua game content into Go structs at startup.
// The Lua VM is discarded after loading; no Lua runs during play.
package loader

import (
	"fmt"
	"sort"

	"github.com/nathoo/mvpquest/engine/state"
	"github.com/nathoo/mvpquest/types"
	lua "github.com/yuin/gopher-lua"
)

// rawTile holds a tile declaration before compilation.
type rawTile struct {
	name string
	id   int
	opts *lua.LTable // may be nil
}

// rawNamed holds a curried Kind "id" { ... } table before compilation.
type rawNamed struct {
	id    string
	table *lua.LTable
}

// rawHandler holds an event handler before compilation.
type rawHandler struct {
	eventType string
	table     *lua.LTable
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key))
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// tableToStringMap converts a Lua table to a map[string]string. Non-string
// scalar values are stringified.
func tableToStringMap(tbl *lua.LTable) map[string]string {
	if tbl == nil {
		return nil
	}
	m := map[string]string{}
	tbl.ForEach(func(k, v lua.LValue) {
		ks, ok := k.(lua.LString)
		if !ok {
			return
		}
		switch v.(type) {
		case lua.LString, lua.LNumber, lua.LBool:
			m[string(ks)] = v.String()
		}
	})
	return m
}

// toPos reads {x, y} or { x = .., y = .. }.
func toPos(tbl *lua.LTable) (types.Pos, error) {
	if tbl == nil {
		return types.Pos{}, fmt.Errorf("missing position")
	}
	if tbl.MaxN() >= 2 {
		x, xok := tbl.RawGetInt(1).(lua.LNumber)
		y, yok := tbl.RawGetInt(2).(lua.LNumber)
		if xok && yok {
			return types.Pos{X: int(x), Y: int(y)}, nil
		}
	}
	x, xok := tbl.RawGetString("x").(lua.LNumber)
	y, yok := tbl.RawGetString("y").(lua.LNumber)
	if !xok || !yok {
		return types.Pos{}, fmt.Errorf("position needs two numbers")
	}
	return types.Pos{X: int(x), Y: int(y)}, nil
}

// toTiles reads the array part of a grid table.
func toTiles(tbl *lua.LTable) []types.TileID {
	if tbl == nil {
		return nil
	}
	n := tbl.MaxN()
	out := make([]types.TileID, n)
	for i := 1; i <= n; i++ {
		if v, ok := tbl.RawGetInt(i).(lua.LNumber); ok {
			out[i-1] = types.TileID(v)
		}
	}
	return out
}

// eachRow calls fn for every table in the array part of tbl.
func eachRow(tbl *lua.LTable, fn func(i int, row *lua.LTable) error) error {
	if tbl == nil {
		return nil
	}
	for i := 1; i <= tbl.MaxN(); i++ {
		row, ok := tbl.RawGetInt(i).(*lua.LTable)
		if !ok {
			return fmt.Errorf("entry %d is not a table", i)
		}
		if err := fn(i, row); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
	}
	return nil
}

// compile converts all collected Lua data into a Defs struct.
func compile(coll *collector) (*state.Defs, error) {
	defs := state.NewDefs()

	if coll.game == nil {
		return nil, fmt.Errorf("no Game{} definition found")
	}
	defs.Game = compileGame(coll.game)

	for _, raw := range coll.tiles {
		id := types.TileID(raw.id)
		if id == types.TileNone {
			return nil, fmt.Errorf("tile %s: id 0 is reserved", raw.name)
		}
		if prev, dup := defs.Tiles[id]; dup {
			return nil, fmt.Errorf("tile %s: id %d already used by %s", raw.name, raw.id, prev.Name)
		}
		def := types.TileDef{ID: id, Name: raw.name}
		if raw.opts != nil {
			def.Blocking = getBool(raw.opts, "blocking", false)
		}
		defs.Tiles[id] = def
		if def.Blocking {
			defs.Blocking.Put(id)
		}
	}

	for _, raw := range coll.maps {
		m, err := compileMap(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling map %s: %w", raw.id, err)
		}
		if _, dup := defs.Maps[m.ID]; dup {
			return nil, fmt.Errorf("map %s defined twice", raw.id)
		}
		defs.Maps[m.ID] = m
	}

	for _, raw := range coll.npcs {
		defs.NPCs[types.NPCID(raw.id)] = types.NPCDef{
			ID:     types.NPCID(raw.id),
			Name:   getString(raw.table, "name"),
			Sprite: getString(raw.table, "sprite"),
		}
	}

	for _, raw := range coll.items {
		defs.Items[types.ItemID(raw.id)] = types.ItemDef{
			ID:   types.ItemID(raw.id),
			Name: getString(raw.table, "name"),
			Desc: getString(raw.table, "desc"),
			Icon: getString(raw.table, "icon"),
		}
	}

	for _, raw := range coll.dialogs {
		d, err := compileDialog(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling dialog %s: %w", raw.id, err)
		}
		defs.Dialogs[d.ID] = d
	}

	err := eachRow(coll.quest, func(_ int, row *lua.LTable) error {
		defs.Quest = append(defs.Quest, types.QuestStep{
			ID:    getString(row, "id"),
			Label: getString(row, "label"),
			Desc:  getString(row, "desc"),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("compiling quest: %w", err)
	}

	if coll.ending != nil {
		for i := 1; i <= coll.ending.MaxN(); i++ {
			defs.Ending = append(defs.Ending, lua.LVAsString(coll.ending.RawGetInt(i)))
		}
	}

	for _, raw := range coll.handlers {
		defs.Handlers = append(defs.Handlers, compileHandler(raw))
	}

	return defs, nil
}

func compileGame(tbl *lua.LTable) types.GameDef {
	return types.GameDef{
		Title:   getString(tbl, "title"),
		Author:  getString(tbl, "author"),
		Version: getString(tbl, "version"),
		Start:   types.MapID(getString(tbl, "start")),
		Intro:   getString(tbl, "intro"),
	}
}

func compileMap(raw rawNamed) (*types.MapDef, error) {
	tbl := raw.table
	m := &types.MapDef{
		ID:    types.MapID(raw.id),
		Name:  getString(tbl, "name"),
		Music: getString(tbl, "music"),
	}

	ground := getTable(tbl, "ground")
	if ground == nil {
		return nil, fmt.Errorf("missing ground grid")
	}
	m.Width = getInt(tbl, "width")
	m.Height = getInt(tbl, "height")
	if m.Width == 0 {
		m.Width = getInt(ground, "width")
	}
	if m.Height == 0 {
		m.Height = getInt(ground, "height")
	}
	m.Ground = toTiles(ground)
	if objects := getTable(tbl, "objects"); objects != nil {
		m.Objects = toTiles(objects)
	} else {
		m.Objects = make([]types.TileID, m.Width*m.Height)
	}

	spawn, err := toPos(getTable(tbl, "spawn"))
	if err != nil {
		return nil, fmt.Errorf("spawn: %w", err)
	}
	m.Spawn = spawn

	err = eachRow(getTable(tbl, "transitions"), func(_ int, row *lua.LTable) error {
		at, err := toPos(getTable(row, "at"))
		if err != nil {
			return fmt.Errorf("at: %w", err)
		}
		to, err := toPos(getTable(row, "to"))
		if err != nil {
			return fmt.Errorf("to: %w", err)
		}
		m.Transitions = append(m.Transitions, types.Transition{
			At:     at,
			Target: types.MapID(getString(row, "target")),
			To:     to,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("transitions: %w", err)
	}

	err = eachRow(getTable(tbl, "npcs"), func(_ int, row *lua.LTable) error {
		at, err := toPos(getTable(row, "at"))
		if err != nil {
			return err
		}
		m.NPCs = append(m.NPCs, types.NPCPlacement{ID: types.NPCID(getString(row, "id")), At: at})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("npcs: %w", err)
	}

	err = eachRow(getTable(tbl, "items"), func(_ int, row *lua.LTable) error {
		at, err := toPos(getTable(row, "at"))
		if err != nil {
			return err
		}
		m.Items = append(m.Items, types.ItemPlacement{
			ID:     types.ItemID(getString(row, "id")),
			At:     at,
			Dialog: types.DialogID(getString(row, "dialog")),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("items: %w", err)
	}

	err = eachRow(getTable(tbl, "enemies"), func(_ int, row *lua.LTable) error {
		at, err := toPos(getTable(row, "at"))
		if err != nil {
			return err
		}
		e := types.EnemyPlacement{
			Start: at,
			Min:   getNumber(row, "min"),
			Max:   getNumber(row, "max"),
			Speed: getNumber(row, "speed"),
		}
		switch axis := getString(row, "axis"); axis {
		case "x", "":
			e.Axis = types.AxisX
		case "y":
			e.Axis = types.AxisY
		default:
			return fmt.Errorf("unknown patrol axis %q", axis)
		}
		m.Enemies = append(m.Enemies, e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("enemies: %w", err)
	}

	return m, nil
}

func compileDialog(raw rawNamed) (types.DialogDef, error) {
	d := types.DialogDef{
		ID:    types.DialogID(raw.id),
		OnEnd: types.Action(getString(raw.table, "on_end")),
	}
	err := eachRow(raw.table, func(_ int, row *lua.LTable) error {
		d.Pages = append(d.Pages, types.Page{
			Speaker: getString(row, "speaker"),
			Text:    getString(row, "text"),
		})
		return nil
	})
	return d, err
}

func compileHandler(raw rawHandler) types.EventHandler {
	return types.EventHandler{
		EventType: raw.eventType,
		When:      tableToStringMap(getTable(raw.table, "when")),
		Sound:     getString(raw.table, "sound"),
		Message:   getString(raw.table, "message"),
	}
}

// sortedLuaFiles returns .lua files with game.lua first and the rest sorted
// alphabetically.
func sortedLuaFiles(files []string) []string {
	var gameFile string
	var others []string
	for _, f := range files {
		if f == "game.lua" {
			gameFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if gameFile != "" {
		return append([]string{gameFile}, others...)
	}
	return others
}
