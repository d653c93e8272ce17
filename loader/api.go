package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and map helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerMapHelpers(L)
}

// curried returns a constructor used as Kind "id" { ... }.
func curried(L *lua.LState, add func(id string, tbl *lua.LTable)) *lua.LFunction {
	return L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			add(id, L.CheckTable(1))
			return 0
		}))
		return 1
	})
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Tile ids are also exposed as T.NAME for map building.
	tileIDs := L.NewTable()
	L.SetGlobal("T", tileIDs)

	// Game { title = "...", start = "...", ... }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		coll.game = L.CheckTable(1)
		return 0
	}))

	// Tile("NAME", id, { blocking = true })
	L.SetGlobal("Tile", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		id := L.CheckInt(2)
		opts := L.OptTable(3, nil)
		coll.tiles = append(coll.tiles, rawTile{name: name, id: id, opts: opts})
		tileIDs.RawSetString(name, lua.LNumber(id))
		L.Push(lua.LNumber(id))
		return 1
	}))

	L.SetGlobal("Map", curried(L, func(id string, tbl *lua.LTable) {
		coll.maps = append(coll.maps, rawNamed{id: id, table: tbl})
	}))
	L.SetGlobal("NPC", curried(L, func(id string, tbl *lua.LTable) {
		coll.npcs = append(coll.npcs, rawNamed{id: id, table: tbl})
	}))
	L.SetGlobal("Item", curried(L, func(id string, tbl *lua.LTable) {
		coll.items = append(coll.items, rawNamed{id: id, table: tbl})
	}))
	L.SetGlobal("Dialog", curried(L, func(id string, tbl *lua.LTable) {
		coll.dialogs = append(coll.dialogs, rawNamed{id: id, table: tbl})
	}))

	// Page("speaker", "text") builds one dialog page.
	L.SetGlobal("Page", L.NewFunction(func(L *lua.LState) int {
		speaker := L.CheckString(1)
		text := L.CheckString(2)
		tbl := L.NewTable()
		tbl.RawSetString("speaker", lua.LString(speaker))
		tbl.RawSetString("text", lua.LString(text))
		L.Push(tbl)
		return 1
	}))

	// Quest { { id = "...", label = "...", desc = "..." }, ... }
	L.SetGlobal("Quest", L.NewFunction(func(L *lua.LState) int {
		coll.quest = L.CheckTable(1)
		return 0
	}))

	// Ending { "line", "line", ... }
	L.SetGlobal("Ending", L.NewFunction(func(L *lua.LState) int {
		coll.ending = L.CheckTable(1)
		return 0
	}))

	// On("event_type", { when = {...}, sound = "...", message = "..." })
	L.SetGlobal("On", L.NewFunction(func(L *lua.LState) int {
		eventType := L.CheckString(1)
		tbl := L.CheckTable(2)
		coll.handlers = append(coll.handlers, rawHandler{eventType: eventType, table: tbl})
		return 0
	}))
}

// Grids are Lua tables with width/height fields and a row-major array part.
func registerMapHelpers(L *lua.LState) {
	// grid(w, h, fill)
	L.SetGlobal("grid", L.NewFunction(func(L *lua.LState) int {
		w := L.CheckInt(1)
		h := L.CheckInt(2)
		fill := L.OptInt(3, 0)
		if w <= 0 || h <= 0 {
			L.ArgError(1, "grid size must be positive")
		}
		g := L.CreateTable(w*h, 2)
		g.RawSetString("width", lua.LNumber(w))
		g.RawSetString("height", lua.LNumber(h))
		for i := 1; i <= w*h; i++ {
			g.RawSetInt(i, lua.LNumber(fill))
		}
		L.Push(g)
		return 1
	}))

	// set_tile(g, x, y, tile)
	L.SetGlobal("set_tile", L.NewFunction(func(L *lua.LState) int {
		g := L.CheckTable(1)
		setCell(L, g, L.CheckInt(2), L.CheckInt(3), L.CheckInt(4))
		return 0
	}))

	// fill_rect(g, x, y, w, h, tile)
	L.SetGlobal("fill_rect", L.NewFunction(func(L *lua.LState) int {
		g := L.CheckTable(1)
		x, y := L.CheckInt(2), L.CheckInt(3)
		rw, rh := L.CheckInt(4), L.CheckInt(5)
		tile := L.CheckInt(6)
		for dy := 0; dy < rh; dy++ {
			for dx := 0; dx < rw; dx++ {
				setCell(L, g, x+dx, y+dy, tile)
			}
		}
		return 0
	}))

	// wall_box(g, x, y, w, h, { t, f, tl, tr, bl, br, l, r, b })
	// Only t and f are required; corners and edges fall back to them.
	L.SetGlobal("wall_box", L.NewFunction(func(L *lua.LState) int {
		g := L.CheckTable(1)
		x, y := L.CheckInt(2), L.CheckInt(3)
		bw, bh := L.CheckInt(4), L.CheckInt(5)
		tiles := L.CheckTable(6)

		top := getInt(tiles, "t")
		face := getInt(tiles, "f")
		pick := func(key string, def int) int {
			if v := getInt(tiles, key); v != 0 {
				return v
			}
			return def
		}
		tl, tr := pick("tl", top), pick("tr", top)
		bl, br := pick("bl", face), pick("br", face)
		left, right, bottom := pick("l", face), pick("r", face), pick("b", face)

		setCell(L, g, x, y, tl)
		setCell(L, g, x+bw-1, y, tr)
		setCell(L, g, x, y+bh-1, bl)
		setCell(L, g, x+bw-1, y+bh-1, br)
		for dx := 1; dx < bw-1; dx++ {
			setCell(L, g, x+dx, y, top)
			setCell(L, g, x+dx, y+bh-1, bottom)
		}
		for dy := 1; dy < bh-1; dy++ {
			setCell(L, g, x, y+dy, left)
			setCell(L, g, x+bw-1, y+dy, right)
		}
		return 0
	}))
}

func setCell(L *lua.LState, g *lua.LTable, x, y, tile int) {
	w, h := getInt(g, "width"), getInt(g, "height")
	if x < 0 || y < 0 || x >= w || y >= h {
		L.RaiseError("tile (%d,%d) outside %dx%d grid", x, y, w, h)
	}
	g.RawSetInt(y*w+x+1, lua.LNumber(tile))
}
