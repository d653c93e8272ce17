package loader

import (
	"strings"
	"testing"

	"github.com/nathoo/mvpquest/types"
	lua "github.com/yuin/gopher-lua"
)

// runLua executes src with the content API registered and returns what it
// collected.
func runLua(t *testing.T, src string) (*collector, error) {
	t.Helper()
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	t.Cleanup(L.Close)
	openSafeLibs(L)
	sandbox(L)
	coll := &collector{}
	registerAPI(L, coll)
	return coll, L.DoString(src)
}

func mustRunLua(t *testing.T, src string) *collector {
	t.Helper()
	coll, err := runLua(t, src)
	if err != nil {
		t.Fatalf("lua: %v", err)
	}
	return coll
}

func TestCompileGame(t *testing.T) {
	coll := mustRunLua(t, `Game { title = "T", author = "A", version = "2", start = "s", intro = "hi" }`)
	g := compileGame(coll.game)
	want := types.GameDef{Title: "T", Author: "A", Version: "2", Start: "s", Intro: "hi"}
	if g != want {
		t.Errorf("compileGame = %+v, want %+v", g, want)
	}
}

func TestTile_ExposesIDs(t *testing.T) {
	coll := mustRunLua(t, `
local id = Tile("ROCK", 13, { blocking = true })
assert(id == 13)
assert(T.ROCK == 13)
Game { title = "x" }
`)
	defs, err := compile(coll)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !defs.Tiles[13].Blocking || !defs.Blocking.Has(13) {
		t.Error("ROCK should be blocking")
	}
}

func TestCompile_DuplicateTileID(t *testing.T) {
	coll := mustRunLua(t, `Game { title = "x" } Tile("A", 1) Tile("B", 1)`)
	if _, err := compile(coll); err == nil || !strings.Contains(err.Error(), "already used by A") {
		t.Fatalf("expected duplicate tile error, got %v", err)
	}
}

func TestCompile_ReservedTileID(t *testing.T) {
	coll := mustRunLua(t, `Game { title = "x" } Tile("NONE", 0)`)
	if _, err := compile(coll); err == nil {
		t.Fatal("expected error for tile id 0")
	}
}

func TestGridHelpers(t *testing.T) {
	coll := mustRunLua(t, `
local g = grid(4, 3, 0)
set_tile(g, 3, 2, 7)
fill_rect(g, 0, 0, 2, 2, 5)
Map "m" { ground = g, spawn = {0, 0} }
`)
	m, err := compileMap(coll.maps[0])
	if err != nil {
		t.Fatalf("compileMap: %v", err)
	}
	want := []types.TileID{
		5, 5, 0, 0,
		5, 5, 0, 0,
		0, 0, 0, 7,
	}
	if len(m.Ground) != len(want) {
		t.Fatalf("ground len = %d", len(m.Ground))
	}
	for i := range want {
		if m.Ground[i] != want[i] {
			t.Errorf("ground[%d] = %d, want %d", i, m.Ground[i], want[i])
		}
	}
	if len(m.Objects) != 12 {
		t.Errorf("missing objects layer should be all empty, got %d tiles", len(m.Objects))
	}
}

func TestWallBox_Fallbacks(t *testing.T) {
	coll := mustRunLua(t, `
local g = grid(3, 3, 0)
wall_box(g, 0, 0, 3, 3, { t = 1, f = 2, tr = 3 })
Map "m" { ground = g, spawn = {1, 1} }
`)
	m, err := compileMap(coll.maps[0])
	if err != nil {
		t.Fatalf("compileMap: %v", err)
	}
	// tl falls back to t, tr is explicit, bottom and sides fall back to f.
	want := []types.TileID{
		1, 1, 3,
		2, 0, 2,
		2, 2, 2,
	}
	for i := range want {
		if m.Ground[i] != want[i] {
			t.Errorf("cell %d = %d, want %d", i, m.Ground[i], want[i])
		}
	}
}

func TestSetTile_OutOfBounds(t *testing.T) {
	_, err := runLua(t, `local g = grid(2, 2, 0) set_tile(g, 2, 0, 1)`)
	if err == nil || !strings.Contains(err.Error(), "outside 2x2") {
		t.Fatalf("expected bounds error, got %v", err)
	}
}

func TestCompileMap_Placements(t *testing.T) {
	coll := mustRunLua(t, `
Map "m" {
    name = "M",
    music = "town",
    ground = grid(10, 10, 1),
    spawn = { x = 1, y = 2 },
    transitions = { { at = {0, 5}, target = "n", to = {3, 3} } },
    npcs = { { id = "merlin", at = {4, 4} } },
    items = {
        { id = "duck", at = {5, 5} },
        { id = "scroll", at = {6, 6}, dialog = "read" },
    },
    enemies = {
        { at = {2, 8}, axis = "x", min = 1, max = 4, speed = 1.5 },
        { at = {7, 1}, axis = "y", min = 1, max = 6, speed = 2 },
    },
}
`)
	m, err := compileMap(coll.maps[0])
	if err != nil {
		t.Fatalf("compileMap: %v", err)
	}
	if m.Name != "M" || m.Music != "town" {
		t.Errorf("name/music = %q/%q", m.Name, m.Music)
	}
	if m.Spawn != (types.Pos{X: 1, Y: 2}) {
		t.Errorf("Spawn = %v", m.Spawn)
	}
	if m.Transitions[0] != (types.Transition{At: types.Pos{Y: 5}, Target: "n", To: types.Pos{X: 3, Y: 3}}) {
		t.Errorf("Transition = %+v", m.Transitions[0])
	}
	if m.NPCs[0] != (types.NPCPlacement{ID: "merlin", At: types.Pos{X: 4, Y: 4}}) {
		t.Errorf("NPC = %+v", m.NPCs[0])
	}
	if m.Items[0].Dialog != "" || m.Items[1].Dialog != "read" {
		t.Errorf("Items = %+v", m.Items)
	}
	if m.Enemies[0].Axis != types.AxisX || m.Enemies[1].Axis != types.AxisY {
		t.Errorf("axes = %v, %v", m.Enemies[0].Axis, m.Enemies[1].Axis)
	}
	if m.Enemies[0].Speed != 1.5 || m.Enemies[0].Max != 4 {
		t.Errorf("enemy = %+v", m.Enemies[0])
	}
}

func TestCompileMap_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"no ground", `Map "m" { spawn = {0, 0} }`, "ground"},
		{"no spawn", `Map "m" { ground = grid(2, 2, 1) }`, "spawn"},
		{"bad axis", `Map "m" { ground = grid(2, 2, 1), spawn = {0, 0}, enemies = { { at = {0, 0}, axis = "z" } } }`, "axis"},
		{"bad row", `Map "m" { ground = grid(2, 2, 1), spawn = {0, 0}, npcs = { "merlin" } }`, "not a table"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coll := mustRunLua(t, tt.src)
			_, err := compileMap(coll.maps[0])
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestCompileDialog(t *testing.T) {
	coll := mustRunLua(t, `
Dialog "d" {
    Page("Karen", "Ship it."),
    Page("", "Narration."),
    on_end = "finish_game",
}
`)
	d, err := compileDialog(coll.dialogs[0])
	if err != nil {
		t.Fatalf("compileDialog: %v", err)
	}
	if d.ID != "d" || d.OnEnd != types.ActionFinishGame {
		t.Errorf("dialog = %+v", d)
	}
	if len(d.Pages) != 2 || d.Pages[0].Speaker != "Karen" || d.Pages[1].Text != "Narration." {
		t.Errorf("pages = %+v", d.Pages)
	}
}

func TestCompileHandler(t *testing.T) {
	coll := mustRunLua(t, `On("quest_advanced", { when = { step = 4 }, sound = "quest", message = "Go!" })`)
	h := compileHandler(coll.handlers[0])
	if h.EventType != "quest_advanced" || h.Sound != "quest" || h.Message != "Go!" {
		t.Errorf("handler = %+v", h)
	}
	if h.When["step"] != "4" {
		t.Errorf("When = %v, want step=4", h.When)
	}
}

func TestCompile_QuestAndEnding(t *testing.T) {
	coll := mustRunLua(t, `
Game { title = "x" }
Quest { { id = "a", label = "A", desc = "first" }, { id = "b", label = "B" } }
Ending { "", "THE END" }
`)
	defs, err := compile(coll)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if len(defs.Quest) != 2 || defs.Quest[0].Desc != "first" || defs.Quest[1].Label != "B" {
		t.Errorf("Quest = %+v", defs.Quest)
	}
	if len(defs.Ending) != 2 || defs.Ending[0] != "" || defs.Ending[1] != "THE END" {
		t.Errorf("Ending = %q", defs.Ending)
	}
}

func TestSortedLuaFiles(t *testing.T) {
	got := sortedLuaFiles([]string{"b.lua", "game.lua", "a.lua"})
	want := []string{"game.lua", "a.lua", "b.lua"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sortedLuaFiles = %v, want %v", got, want)
			break
		}
	}
}
