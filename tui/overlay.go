package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

// renderDialog draws the open dialog page as a box.
func (m Model) renderDialog() string {
	d := m.game.Dialog
	if !d.Active() {
		return ""
	}
	inner := max(10, m.width-4)
	page := d.Page()

	var b strings.Builder
	if page.Speaker != "" {
		b.WriteString(styleSpeaker.Render(page.Speaker))
		b.WriteByte('\n')
	}
	b.WriteString(styleDialogText.Render(wordwrap.String(d.Visible(), inner)))
	if d.FullyRevealed() {
		hint := "▼ space"
		if d.LastPage() {
			hint = "■ space"
		}
		b.WriteByte('\n')
		b.WriteString(styleHint.Render(hint))
	}
	return styleDialogBox.Width(inner + 2).Render(b.String())
}

// renderInventory lists the items carried, in pickup order.
func (m Model) renderInventory() string {
	inv := m.game.State.Inventory
	width := max(20, min(50, m.width-8))

	var b strings.Builder
	b.WriteString(styleTitle.Render("INVENTORY"))
	b.WriteString("\n\n")
	if len(inv) == 0 {
		b.WriteString(styleHint.Render("Nothing yet."))
	}
	for i, id := range inv {
		if i > 0 {
			b.WriteString("\n\n")
		}
		def := m.defs.Items[id]
		name := def.Name
		if name == "" {
			name = displayName(string(id))
		}
		icon := m.atlas.Icon(def.Icon)
		b.WriteString(m.canvas.style(icon.FG, icon.BG).Render(padCell(icon.Text)))
		b.WriteString(styleSpeaker.Render(name))
		if def.Desc != "" {
			b.WriteByte('\n')
			b.WriteString(styleDialogText.Render(wordwrap.String(def.Desc, width)))
		}
	}
	b.WriteString("\n\n")
	b.WriteString(styleHint.Render("i / esc to close"))
	return styleOverlay.Render(b.String())
}

// renderTitle draws the title screen with a blinking prompt.
func (m Model) renderTitle() string {
	g := m.defs.Game
	lines := []string{styleTitle.Render(strings.ToUpper(g.Title))}
	if g.Author != "" {
		lines = append(lines, styleHint.Render("by "+g.Author))
	}
	if g.Intro != "" {
		lines = append(lines, "", styleDialogText.Render(wordwrap.String(g.Intro, max(20, min(60, m.width-8)))))
	}
	prompt := ""
	if int(m.game.TitleBlink()*2)%2 == 0 {
		prompt = styleNotice.Render("PRESS SPACE TO START")
	}
	lines = append(lines, "", prompt)
	return m.place(lipgloss.JoinVertical(lipgloss.Center, lines...))
}

// renderEnding scrolls the ending text up from the bottom of the screen.
func (m Model) renderEnding() string {
	_, rows := m.game.Viewport()
	text := m.defs.Ending
	top := int(m.game.EndingScroll()) - rows

	out := make([]string, rows)
	for r := range out {
		if i := top + r; i >= 0 && i < len(text) {
			out[r] = styleEnding.Render(text[i])
		}
	}
	return m.place(lipgloss.JoinVertical(lipgloss.Center, out...))
}

func (m Model) renderLoading() string {
	return m.place(styledSystemMsg("Loading..."))
}

func (m Model) place(s string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, s)
}

// overlayBottom replaces the last lines of base with box.
func overlayBottom(base, box string) string {
	lines := strings.Split(base, "\n")
	boxLines := strings.Split(box, "\n")
	start := max(0, len(lines)-len(boxLines))
	for i, l := range boxLines {
		if start+i < len(lines) {
			lines[start+i] = l
		} else {
			lines = append(lines, l)
		}
	}
	return strings.Join(lines, "\n")
}

// overlayCenter draws box over the middle of base.
func overlayCenter(base, box string, width int) string {
	lines := strings.Split(base, "\n")
	boxLines := strings.Split(box, "\n")
	start := max(0, (len(lines)-len(boxLines))/2)
	pad := max(0, (width-lipgloss.Width(box))/2)
	for i, l := range boxLines {
		row := strings.Repeat(" ", pad) + l
		if start+i < len(lines) {
			lines[start+i] = row
		} else {
			lines = append(lines, row)
		}
	}
	return strings.Join(lines, "\n")
}
