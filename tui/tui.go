// Package tui is the terminal frontend: it ticks the game at a fixed rate,
// turns key presses into game input and draws the world with glyphs.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/mvpquest/assets"
	"github.com/nathoo/mvpquest/config"
	"github.com/nathoo/mvpquest/engine"
	"github.com/nathoo/mvpquest/engine/input"
	"github.com/nathoo/mvpquest/engine/state"
)

// Model is the Bubble Tea model for the game screen.
type Model struct {
	game   *engine.Game
	defs   *state.Defs
	atlas  *assets.Atlas
	loads  <-chan assets.Report
	canvas *canvas

	keys     keyMap
	help     help.Model
	input    *input.State
	frame    time.Duration
	last     time.Time
	width    int
	height   int
	ready    bool
	quitting bool
}

// frameMsg is one tick of the frame clock.
type frameMsg time.Time

// loadedMsg carries the asset load report.
type loadedMsg assets.Report

// New creates a TUI model for g. loads is the asset report channel; the
// game leaves the loading screen when it delivers.
func New(g *engine.Game, atlas *assets.Atlas, loads <-chan assets.Report, cfg *config.Config) Model {
	fps := cfg.FPS
	if fps <= 0 {
		fps = config.Default().FPS
	}
	return Model{
		game:   g,
		defs:   g.Defs,
		atlas:  atlas,
		loads:  loads,
		canvas: newCanvas(atlas, g.Defs),
		keys:   defaultKeyMap(),
		help:   help.New(),
		input:  input.New(),
		frame:  time.Second / time.Duration(fps),
	}
}

// Run starts the Bubble Tea program.
func Run(g *engine.Game, atlas *assets.Atlas, loads <-chan assets.Report, cfg *config.Config) error {
	m := New(g, atlas, loads, cfg)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init starts the frame clock and waits for the assets.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tick(), waitForAssets(m.loads))
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func waitForAssets(loads <-chan assets.Report) tea.Cmd {
	if loads == nil {
		return nil
	}
	return func() tea.Msg {
		return loadedMsg(<-loads)
	}
}

// Update handles messages (frames, key presses, window resize, assets).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		m.game.SetViewport(max(1, m.width/cellWidth), max(1, m.height-hudLines-1))

	case loadedMsg:
		m.game.AssetsLoaded(assets.Report(msg))

	case frameMsg:
		now := time.Time(msg)
		dt := m.frame.Seconds()
		if !m.last.IsZero() {
			dt = now.Sub(m.last).Seconds()
		}
		m.last = now
		m.game.Update(dt, m.input)
		m.input.EndFrame(dt)
		return m, m.tick()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if key.Matches(msg, m.keys.Quit) && m.game.Mode() != engine.ModeDialog {
			m.quitting = true
			return m, tea.Quit
		}
		if key.Matches(msg, m.keys.Help) {
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
		if k, ok := m.keys.gameKey(msg); ok {
			m.input.Press(k)
		}
	}
	return m, nil
}

// View renders the current scene.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	switch m.game.Mode() {
	case engine.ModeLoading:
		return m.renderLoading()
	case engine.ModeTitle:
		return m.renderTitle()
	case engine.ModeEnding:
		return m.renderEnding()
	}

	cols, rows := m.game.Viewport()
	m.canvas.reset(cols, rows)
	m.game.Draw(m.canvas)
	screen := m.canvas.render(m.game.FadeAlpha() >= 0.5)

	switch m.game.Mode() {
	case engine.ModeDialog:
		screen = overlayBottom(screen, m.renderDialog())
	case engine.ModeInventory:
		screen = overlayCenter(screen, m.renderInventory(), m.width)
	}

	return screen + "\n" +
		m.renderStatusBar() + "\n" +
		m.renderTracker() + "\n" +
		m.renderMessages() + "\n" +
		m.help.View(m.keys)
}
