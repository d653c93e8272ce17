// Package engine provides the Game session: it owns every runtime component
// and drives them through the scene state machine one frame at a time.
package engine

import (
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nathoo/mvpquest/assets"
	"github.com/nathoo/mvpquest/audio"
	"github.com/nathoo/mvpquest/engine/dialogue"
	"github.com/nathoo/mvpquest/engine/effects"
	"github.com/nathoo/mvpquest/engine/entity"
	"github.com/nathoo/mvpquest/engine/events"
	"github.com/nathoo/mvpquest/engine/input"
	"github.com/nathoo/mvpquest/engine/quest"
	"github.com/nathoo/mvpquest/engine/state"
	"github.com/nathoo/mvpquest/engine/world"
	"github.com/nathoo/mvpquest/types"
)

// Mode is the current scene.
type Mode int

const (
	ModeLoading Mode = iota
	ModeTitle
	ModePlaying
	ModeDialog
	ModeInventory
	ModeEnding
)

func (m Mode) String() string {
	switch m {
	case ModeLoading:
		return "loading"
	case ModeTitle:
		return "title"
	case ModePlaying:
		return "playing"
	case ModeDialog:
		return "dialog"
	case ModeInventory:
		return "inventory"
	case ModeEnding:
		return "ending"
	}
	return "unknown"
}

const (
	// MaxFrameDelta caps the per-frame time step in seconds.
	MaxFrameDelta = 0.05
	// NoticeDuration is how long the pickup notification stays up.
	NoticeDuration = 2.0
	// EndingSpeed is the credits scroll speed in lines per second.
	EndingSpeed = 1.1
	// EndingBoost is how many lines a confirm press skips.
	EndingBoost = 7.0
	// EndingMargin is how close to the end a confirm press returns to title.
	EndingMargin = 4.0
	// MessageLimit is the number of status messages kept.
	MessageLimit = 2
)

var footsteps = []string{"footstep", "footstep2"}

// Controls is the per-frame view of the input layer.
type Controls interface {
	Held(k input.Key) bool
	Pressed(k input.Key) bool
}

// Renderer receives logical draw calls in view coordinates (tiles).
type Renderer interface {
	DrawTile(id types.TileID, x, y int)
	DrawEntitySprite(key string, x, y int)
	DrawIcon(ref string, x, y int)
}

// Options configures a Game.
type Options struct {
	Audio    audio.Player
	Log      *logrus.Entry
	Seed     int64
	ViewCols int
	ViewRows int
}

// Notice is the transient "item acquired" notification.
type Notice struct {
	Item      types.ItemID
	Remaining float64
}

// Active reports whether the notice should be shown.
func (n Notice) Active() bool { return n.Remaining > 0 }

// Alpha is the notice opacity; it fades out over the final second.
func (n Notice) Alpha() float64 { return min(1, max(0, n.Remaining)) }

// Game is one play session and everything it owns.
type Game struct {
	Defs     *state.Defs
	State    *types.State
	World    *world.Store
	Entities *entity.System
	Dialog   *dialogue.Engine
	Quest    *quest.Orchestrator
	Messages *MessageLog
	RNG      *RNG

	audio   audio.Player
	baseLog *logrus.Entry
	log     *logrus.Entry
	session string

	mode       Mode
	loaded     bool
	cols, rows int
	cam        types.Pos
	notice     Notice
	ending     float64
	blink      float64
	frame      []types.Event
}

// New creates a game in the loading scene. It stays there until
// AssetsLoaded is called.
func New(defs *state.Defs, opts Options) *Game {
	if opts.Audio == nil {
		opts.Audio = audio.Nop{}
	}
	if opts.Log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		opts.Log = logrus.NewEntry(l)
	}
	g := &Game{
		Defs:     defs,
		World:    world.New(defs.Maps, defs.Blocking),
		Entities: entity.NewSystem(),
		Messages: NewMessageLog(MessageLimit),
		RNG:      NewRNG(opts.Seed),
		audio:    opts.Audio,
		baseLog:  opts.Log.WithField("component", "engine"),
		mode:     ModeLoading,
	}
	g.log = g.baseLog
	g.resetState()
	g.SetViewport(opts.ViewCols, opts.ViewRows)
	return g
}

func (g *Game) resetState() {
	g.State = state.NewState()
	g.Quest = quest.New(g.State)
	g.Dialog = dialogue.New(g.Defs.Dialogs, g.applyAction)
}

// SetViewport sets the visible area in tiles.
func (g *Game) SetViewport(cols, rows int) {
	g.cols, g.rows = max(1, cols), max(1, rows)
	g.updateCamera()
}

// AssetsLoaded is the one-shot load completion signal. Failed assets are
// logged and otherwise treated as loaded. Later calls are ignored.
func (g *Game) AssetsLoaded(rep assets.Report) {
	if g.loaded {
		return
	}
	g.loaded = true
	for _, name := range rep.FailedNames() {
		g.log.WithError(rep.Failed[name]).WithField("asset", name).Warn("asset failed to load")
	}
	g.startTitle()
}

// Update advances the game by dt seconds using this frame's input.
func (g *Game) Update(dt float64, c Controls) {
	dt = min(max(dt, 0), MaxFrameDelta)

	switch g.mode {
	case ModeLoading:

	case ModeTitle:
		g.blink += dt
		if c.Pressed(input.Confirm) {
			g.startGame()
		}

	case ModePlaying:
		g.updatePlaying(dt, c)
		if t := g.World.UpdateFade(dt); t != nil {
			g.completeTransition(*t)
		}
		if g.notice.Active() {
			g.notice.Remaining -= dt
		}

	case ModeDialog:
		g.Dialog.Update(dt)
		if c.Pressed(input.Confirm) || c.Pressed(input.Interact) {
			if g.Dialog.Advance() == dialogue.NextPage {
				g.dispatch([]types.Event{{Type: "page_turned", Data: map[string]any{"dialog": string(g.Dialog.ID())}}})
			}
			if !g.Dialog.Active() && g.mode == ModeDialog {
				g.setMode(ModePlaying)
			}
		}

	case ModeInventory:
		if c.Pressed(input.Inventory) || c.Pressed(input.Close) {
			g.setMode(ModePlaying)
		}

	case ModeEnding:
		g.updateEnding(dt, c)
	}
}

func (g *Game) updatePlaying(dt float64, c Controls) {
	if g.Entities.Update(dt) {
		g.caught()
	}

	if !g.World.Fading() {
		dx, dy := 0, 0
		if c.Held(input.Up) {
			dy = -1
		}
		if c.Held(input.Down) {
			dy = 1
		}
		if c.Held(input.Left) {
			dx = -1
		}
		if c.Held(input.Right) {
			dx = 1
		}
		if dx != 0 || dy != 0 {
			g.tryMove(dx, dy)
		}
		// Walking onto an item can open a dialog.
		if g.Dialog.Active() {
			g.setMode(ModeDialog)
			return
		}
	}

	if c.Pressed(input.Confirm) || c.Pressed(input.Interact) {
		if g.Interact() && g.Dialog.Active() {
			g.setMode(ModeDialog)
		}
	}
	if g.mode == ModePlaying && c.Pressed(input.Inventory) {
		g.setMode(ModeInventory)
	}

	g.updateCamera()
}

func (g *Game) updateEnding(dt float64, c Controls) {
	g.ending += EndingSpeed * dt
	length := float64(len(g.Defs.Ending) + g.rows)
	if c.Pressed(input.Confirm) {
		if g.ending > length-EndingMargin {
			g.startTitle()
			return
		}
		g.ending += EndingBoost
	}
	if g.ending >= length {
		g.startTitle()
	}
}

func (g *Game) tryMove(dx, dy int) {
	res := g.Entities.TryMove(dx, dy, g.World)
	if !res.Moved {
		return
	}
	g.audio.PlayEffect(g.RNG.Pick(footsteps))

	if t, ok := g.World.TransitionAt(res.To.X, res.To.Y); ok {
		if g.World.BeginTransition(t) {
			g.dispatch([]types.Event{{Type: "transition_started", Data: map[string]any{"map": string(t.Target)}}})
		} else {
			g.log.WithField("target", t.Target).Debug("transition refused")
		}
		return
	}
	if i := g.Entities.ItemAt(res.To); i >= 0 {
		g.pickup(i)
	}
}

// Interact acts on the tile the player faces: an NPC opens its current
// dialog, an item is picked up. Reports whether anything was there.
func (g *Game) Interact() bool {
	target := g.Entities.Player.Ahead()
	if npc, ok := g.Entities.NPCAt(target); ok {
		if id, ok := g.Quest.DialogFor(npc.ID); ok {
			g.openDialog(id, npc.ID)
		} else {
			g.log.WithField("npc", npc.ID).Debug("npc has no dialog")
		}
		return true
	}
	if i := g.Entities.ItemAt(target); i >= 0 {
		g.pickup(i)
		return true
	}
	return false
}

func (g *Game) pickup(i int) {
	it := g.Entities.TakeItem(i)
	state.MarkCollected(g.State, it.ID)
	if it.Dialog != "" {
		g.openDialog(it.Dialog, "")
		return
	}
	g.dispatch(effects.Apply(g.State, []types.Effect{{Kind: types.EffectGiveItem, Item: it.ID}}))
}

func (g *Game) openDialog(id types.DialogID, npc types.NPCID) {
	if !g.Dialog.Open(id, nil) {
		g.log.WithFields(logrus.Fields{"dialog": id, "npc": npc}).Warn("dialog failed to open")
		return
	}
	g.dispatch([]types.Event{{Type: "dialog_opened", Data: map[string]any{"dialog": string(id), "npc": string(npc)}}})
}

// applyAction is the dialog engine's completion hook.
func (g *Game) applyAction(a types.Action) {
	if !quest.KnownAction(a) {
		g.log.WithField("action", a).Warn("unknown dialog action")
		return
	}
	g.log.WithField("action", a).Info("quest action")
	g.dispatch(g.Quest.ApplyAction(a))
}

func (g *Game) caught() {
	m := g.World.Current()
	if m == nil {
		return
	}
	g.Entities.Player.Pos = m.Spawn
	g.dispatch([]types.Event{{Type: "player_caught", Data: map[string]any{"map": string(m.ID)}}})
}

func (g *Game) completeTransition(t types.Transition) {
	if !g.World.Load(t.Target) {
		return
	}
	m := g.World.Current()
	g.Entities.Player.Pos = t.To
	g.Entities.Populate(m, g.collected)
	g.playMusic(m)
	g.updateCamera()
	g.log.WithField("map", m.ID).Info("entered map")
	g.dispatch([]types.Event{{Type: "map_entered", Data: map[string]any{"map": string(m.ID)}}})
}

func (g *Game) collected(id types.ItemID) bool {
	return state.IsCollected(g.State, id)
}

func (g *Game) playMusic(m *types.MapDef) {
	if m.Music != "" {
		g.audio.PlayLoop(m.Music)
	}
}

// dispatch routes emitted events to their side effects and content
// reactions, and records them for Events.
func (g *Game) dispatch(evts []types.Event) {
	if len(evts) == 0 {
		return
	}
	for _, ev := range evts {
		g.log.WithField("event", ev.Type).WithFields(logrus.Fields(ev.Data)).Debug("event")
		switch ev.Type {
		case "item_taken":
			id, _ := ev.Data["item"].(string)
			g.notice = Notice{Item: types.ItemID(id), Remaining: NoticeDuration}
		case "game_finished":
			g.startEnding()
		}
	}
	for _, r := range events.Dispatch(evts, g.Defs) {
		if r.Sound != "" {
			g.audio.PlayEffect(r.Sound)
		}
		g.Messages.Push(r.Message)
	}
	g.frame = append(g.frame, evts...)
}

func (g *Game) setMode(m Mode) {
	if g.mode == m {
		return
	}
	g.log.WithFields(logrus.Fields{"from": g.mode.String(), "to": m.String()}).Debug("mode")
	g.mode = m
}

func (g *Game) startTitle() {
	g.setMode(ModeTitle)
	g.blink = 0
	g.audio.PlayLoop("title")
}

// startGame resets the session and drops the player at the start map's
// spawn point.
func (g *Game) startGame() {
	start, ok := g.Defs.Maps[g.Defs.Game.Start]
	if !ok {
		g.log.WithField("map", g.Defs.Game.Start).Error("start map missing")
		return
	}

	g.session = uuid.NewString()
	g.log = g.baseLog.WithField("session", g.session)
	g.resetState()
	g.World.Reset()
	g.World.Load(start.ID)
	g.Entities = entity.NewSystem()
	g.Entities.Place(start.Spawn)
	g.Entities.Populate(start, g.collected)
	g.Messages.Clear()
	g.notice = Notice{}
	g.ending = 0

	g.setMode(ModePlaying)
	g.playMusic(start)
	g.updateCamera()
	g.log.WithField("map", start.ID).Info("game started")
	g.dispatch([]types.Event{{Type: "game_started", Data: map[string]any{"map": string(start.ID)}}})
}

func (g *Game) startEnding() {
	g.setMode(ModeEnding)
	g.ending = 0
	g.audio.PlayLoop("ending")
}

func (g *Game) updateCamera() {
	m := g.World.Current()
	if m == nil {
		g.cam = types.Pos{}
		return
	}
	p := g.Entities.Player.Pos
	g.cam = types.Pos{
		X: clampCam(p.X-g.cols/2, m.Width-g.cols),
		Y: clampCam(p.Y-g.rows/2, m.Height-g.rows),
	}
}

func clampCam(target, limit int) int {
	return max(0, min(limit, target))
}

// Draw issues the draw calls for the visible part of the world: ground,
// objects, items, enemies, NPCs, then the player.
func (g *Game) Draw(r Renderer) {
	if g.World.Current() == nil {
		return
	}
	cam := g.cam
	for y := 0; y < g.rows; y++ {
		for x := 0; x < g.cols; x++ {
			wx, wy := cam.X+x, cam.Y+y
			if !g.World.InBounds(wx, wy) {
				continue
			}
			r.DrawTile(g.World.TileAt(world.Ground, wx, wy), x, y)
			if o := g.World.TileAt(world.Objects, wx, wy); o != types.TileNone {
				r.DrawTile(o, x, y)
			}
		}
	}

	visible := func(p types.Pos) (int, int, bool) {
		x, y := p.X-cam.X, p.Y-cam.Y
		return x, y, x >= 0 && y >= 0 && x < g.cols && y < g.rows
	}
	for _, it := range g.Entities.Items {
		if x, y, ok := visible(it.At); ok {
			icon := string(it.ID)
			if def, ok := g.Defs.Items[it.ID]; ok && def.Icon != "" {
				icon = def.Icon
			}
			r.DrawIcon(icon, x, y)
		}
	}
	for i := range g.Entities.Enemies {
		if x, y, ok := visible(g.Entities.Enemies[i].Cell()); ok {
			r.DrawEntitySprite("enemy", x, y)
		}
	}
	for _, n := range g.Entities.NPCs {
		if x, y, ok := visible(n.Pos); ok {
			sprite := string(n.ID)
			if def, ok := g.Defs.NPCs[n.ID]; ok && def.Sprite != "" {
				sprite = def.Sprite
			}
			r.DrawEntitySprite(sprite, x, y)
		}
	}
	p := g.Entities.Player
	if x, y, ok := visible(p.Pos); ok {
		r.DrawEntitySprite("player_"+p.Facing.String(), x, y)
	}
}

// Mode returns the current scene.
func (g *Game) Mode() Mode { return g.mode }

// Camera returns the top-left visible tile.
func (g *Game) Camera() types.Pos { return g.cam }

// Viewport returns the visible area in tiles.
func (g *Game) Viewport() (cols, rows int) { return g.cols, g.rows }

// FadeAlpha returns the map transition fade opacity.
func (g *Game) FadeAlpha() float64 { return g.World.FadeAlpha() }

// Notice returns the pickup notification.
func (g *Game) Notice() Notice { return g.notice }

// EndingScroll returns how many lines the credits have scrolled.
func (g *Game) EndingScroll() float64 { return g.ending }

// TitleBlink returns the time spent on the title screen.
func (g *Game) TitleBlink() float64 { return g.blink }

// Session returns the id of the current play session.
func (g *Game) Session() string { return g.session }

// CurrentQuest returns the quest step to show, if the quest has started.
func (g *Game) CurrentQuest() (types.QuestStep, bool) {
	if !g.Quest.Started() {
		return types.QuestStep{}, false
	}
	step := g.Quest.Step()
	if step < 0 || step >= len(g.Defs.Quest) {
		return types.QuestStep{}, false
	}
	return g.Defs.Quest[step], true
}

// Events returns the events emitted since the last call.
func (g *Game) Events() []types.Event {
	out := g.frame
	g.frame = nil
	return out
}
