// Package cli plays key scripts through the game's real frame loop without
// a screen. Each script line is a command; the runner prints status
// messages, scene changes and, with tracing on, events and sound cues.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/nathoo/mvpquest/audio"
	"github.com/nathoo/mvpquest/engine"
	"github.com/nathoo/mvpquest/engine/entity"
	"github.com/nathoo/mvpquest/engine/events"
	"github.com/nathoo/mvpquest/engine/input"
	"github.com/nathoo/mvpquest/engine/state"
)

// FrameDelta is the fixed frame time used for scripted play.
const FrameDelta = 1.0 / 30

// maxReadPresses bounds the "read" command so a broken dialog cannot hang
// a script.
const maxReadPresses = 200

// CLI drives a Game from a line-oriented script.
type CLI struct {
	Game      *engine.Game
	Defs      *state.Defs
	Cues      *audio.Recorder // optional; sound cues are traced from it
	In        io.Reader
	Out       io.Writer
	Trace     bool
	EchoInput bool // echo each script line (for playback transcripts)

	keys *input.State
	mode engine.Mode
}

// New creates a runner for g reading stdin and writing stdout.
func New(g *engine.Game, defs *state.Defs, cues *audio.Recorder) *CLI {
	return &CLI{
		Game: g,
		Defs: defs,
		Cues: cues,
		In:   os.Stdin,
		Out:  os.Stdout,
		keys: input.New(),
		mode: g.Mode(),
	}
}

// Run executes the script until it ends or /quit.
func (c *CLI) Run() {
	if c.keys == nil {
		c.keys = input.New()
	}
	if c.Defs.Game.Title != "" {
		c.printLine(c.Defs.Game.Title)
	}
	if c.Defs.Game.Intro != "" {
		c.printLine(c.Defs.Game.Intro)
	}
	c.printLine("")

	scanner := bufio.NewScanner(c.In)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine("> " + line)
		}
		if strings.HasPrefix(line, "/") {
			if c.handleMeta(line) {
				return
			}
			continue
		}
		if err := c.Exec(line); err != nil {
			c.printSystem(err.Error())
		}
	}
}

// Exec runs one game command.
func (c *CLI) Exec(line string) error {
	parts := strings.Fields(strings.ToLower(line))
	if len(parts) == 0 {
		return fmt.Errorf("empty command")
	}
	cmd := parts[0]
	count := 1
	if len(parts) > 1 && cmd != "wait" {
		n, err := strconv.Atoi(parts[1])
		if err != nil || n < 1 {
			return fmt.Errorf("bad count %q", parts[1])
		}
		count = n
	}

	switch cmd {
	case "up", "down", "left", "right", "w", "a", "s", "d":
		key := directionKey(cmd)
		for range count {
			c.step(key)
		}
	case "space", "confirm", "enter", "e", "interact", "i", "inventory", "esc", "close":
		key := actionKey(cmd)
		for range count {
			c.press(key)
		}
	case "read":
		c.read()
	case "wait":
		if len(parts) < 2 {
			return fmt.Errorf("wait needs seconds")
		}
		secs, err := strconv.ParseFloat(parts[1], 64)
		if err != nil || secs < 0 {
			return fmt.Errorf("bad duration %q", parts[1])
		}
		c.frames(int(math.Round(secs / FrameDelta)))
	case "frames":
		c.frames(count)
	default:
		return fmt.Errorf("unknown command %q, try /help", cmd)
	}
	return nil
}

func directionKey(cmd string) input.Key {
	switch cmd {
	case "up", "w":
		return input.Up
	case "down", "s":
		return input.Down
	case "left", "a":
		return input.Left
	}
	return input.Right
}

func actionKey(cmd string) input.Key {
	switch cmd {
	case "e", "interact":
		return input.Interact
	case "i", "inventory":
		return input.Inventory
	case "esc", "close":
		return input.Close
	}
	return input.Confirm
}

// step taps a direction and waits out the movement cooldown.
func (c *CLI) step(k input.Key) {
	c.keys.Press(k)
	c.frames(int(math.Ceil(entity.MoveCooldown/FrameDelta)) + 1)
}

// press taps a key for one frame, then lets one more frame run.
func (c *CLI) press(k input.Key) {
	c.keys.Press(k)
	c.frames(2)
}

// read presses confirm until the open dialog closes.
func (c *CLI) read() {
	if c.Game.Mode() != engine.ModeDialog {
		c.printSystem("No dialog open.")
		return
	}
	for i := 0; i < maxReadPresses && c.Game.Mode() == engine.ModeDialog; i++ {
		c.press(input.Confirm)
	}
}

func (c *CLI) frames(n int) {
	for range n {
		c.Game.Update(FrameDelta, c.keys)
		c.keys.EndFrame(FrameDelta)
		c.report()
	}
}

// report prints whatever the last frame produced.
func (c *CLI) report() {
	evts := c.Game.Events()
	if c.Trace {
		for _, ev := range evts {
			c.printSystem(fmt.Sprintf("[trace] event %s %v", ev.Type, ev.Data))
		}
		if c.Cues != nil {
			for _, cue := range c.Cues.Cues() {
				c.printSystem(fmt.Sprintf("[trace] %s %s", cue.Kind, cue.Name))
			}
		}
	}

	if m := c.Game.Mode(); m != c.mode {
		c.printSystem(fmt.Sprintf("%s -> %s", c.mode, m))
		c.mode = m
		if m == engine.ModeDialog {
			c.printDialog()
		}
	}
	for _, r := range events.Dispatch(evts, c.Defs) {
		if r.Message != "" {
			c.printLine(r.Message)
		}
	}
	for _, ev := range evts {
		if ev.Type == "page_turned" {
			c.printDialog()
		}
	}
}

func (c *CLI) printDialog() {
	if !c.Game.Dialog.Active() {
		return
	}
	p := c.Game.Dialog.Page()
	if p.Speaker != "" {
		c.printLine(p.Speaker + ": " + p.Text)
		return
	}
	c.printLine(p.Text)
}

// handleMeta dispatches meta-commands. Returns true if the run should end.
func (c *CLI) handleMeta(line string) bool {
	cmd := strings.Fields(line)[0]
	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true
	case "/help":
		c.cmdHelp()
	case "/state":
		c.cmdState()
	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}
	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}
	return false
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /quit   Exit",
		"  /help   Show this help",
		"  /state  Dump the current state",
		"  /trace  Toggle event and sound tracing",
		"",
		"Script:",
		"  up|down|left|right [n]  Step n tiles (also w/a/s/d)",
		"  space [n]               Confirm: start, talk, turn a page",
		"  e [n]                   Interact",
		"  i                       Open or close the inventory",
		"  esc                     Close an overlay",
		"  read                    Page through the open dialog",
		"  wait <seconds>          Let time pass",
		"  frames <n>              Run n frames",
		"  # ...                   Comment",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) cmdState() {
	g := c.Game
	s := g.State
	c.printSystem(fmt.Sprintf("Mode: %s", g.Mode()))
	if id := g.World.CurrentID(); id != "" {
		p := g.Entities.Player
		c.printSystem(fmt.Sprintf("Map: %s at (%d,%d) facing %s", id, p.Pos.X, p.Pos.Y, p.Facing))
	}
	c.printSystem(fmt.Sprintf("Inventory: %v", s.Inventory))
	c.printSystem(fmt.Sprintf("Flags: %+v", s.Flags))
	step := fmt.Sprintf("Step: %d", s.Step)
	if q, ok := g.CurrentQuest(); ok {
		step += " (" + q.Label + ")"
	}
	if !s.QuestStarted {
		step += " not started"
	}
	c.printSystem(step)
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
