package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/mvpquest/assets"
	"github.com/nathoo/mvpquest/engine/state"
	"github.com/nathoo/mvpquest/types"
)

// cellWidth is how many terminal columns one tile takes.
const cellWidth = 2

// canvas is a grid of glyphs the game draws into each frame.
// It implements engine.Renderer.
type canvas struct {
	atlas *assets.Atlas
	defs  *state.Defs

	cols, rows int
	cells      []assets.Glyph
	styles     map[[2]string]lipgloss.Style
}

func newCanvas(atlas *assets.Atlas, defs *state.Defs) *canvas {
	return &canvas{atlas: atlas, defs: defs, styles: map[[2]string]lipgloss.Style{}}
}

// reset clears the canvas to cols x rows empty cells.
func (c *canvas) reset(cols, rows int) {
	c.cols, c.rows = cols, rows
	if cap(c.cells) < cols*rows {
		c.cells = make([]assets.Glyph, cols*rows)
	}
	c.cells = c.cells[:cols*rows]
	for i := range c.cells {
		c.cells[i] = assets.Glyph{Text: "  "}
	}
}

func (c *canvas) DrawTile(id types.TileID, x, y int) {
	def, ok := c.defs.Tiles[id]
	if !ok {
		return
	}
	c.put(x, y, c.atlas.Tile(def.Name))
}

func (c *canvas) DrawEntitySprite(key string, x, y int) {
	c.put(x, y, c.atlas.Sprite(key))
}

func (c *canvas) DrawIcon(ref string, x, y int) {
	c.put(x, y, c.atlas.Icon(ref))
}

// put draws g over the cell. A glyph without a background keeps the one
// underneath.
func (c *canvas) put(x, y int, g assets.Glyph) {
	if x < 0 || y < 0 || x >= c.cols || y >= c.rows {
		return
	}
	i := y*c.cols + x
	if g.BG == "" {
		g.BG = c.cells[i].BG
	}
	c.cells[i] = g
}

// render returns the canvas as styled text. With dim set every cell is
// drawn faint.
func (c *canvas) render(dim bool) string {
	var b strings.Builder
	for y := 0; y < c.rows; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < c.cols; x++ {
			g := c.cells[y*c.cols+x]
			st := c.style(g.FG, g.BG)
			if dim {
				st = st.Faint(true)
			}
			b.WriteString(st.Render(padCell(g.Text)))
		}
	}
	return b.String()
}

func (c *canvas) style(fg, bg string) lipgloss.Style {
	k := [2]string{fg, bg}
	if st, ok := c.styles[k]; ok {
		return st
	}
	st := lipgloss.NewStyle()
	if fg != "" {
		st = st.Foreground(lipgloss.Color(fg))
	}
	if bg != "" {
		st = st.Background(lipgloss.Color(bg))
	}
	c.styles[k] = st
	return st
}

// padCell makes a glyph exactly cellWidth columns wide.
func padCell(s string) string {
	w := lipgloss.Width(s)
	if w < cellWidth {
		return s + strings.Repeat(" ", cellWidth-w)
	}
	return s
}
