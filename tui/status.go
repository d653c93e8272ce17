package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nathoo/mvpquest/engine/state"
	"github.com/nathoo/mvpquest/types"
)

// hudLines is how many rows the HUD takes below the map.
const hudLines = 3

var titleCase = cases.Title(language.English)

// displayName derives a human-readable name from an id.
// "server_room" -> "Server Room".
func displayName(id string) string {
	return titleCase.String(strings.ReplaceAll(id, "_", " "))
}

// artifact is one collectible shown in the tracker.
type artifact struct {
	label string
	flag  types.Flag
}

var artifacts = []artifact{
	{"YAML", types.FlagHasYAML},
	{"API KEY", types.FlagHasAPIKey},
	{".env", types.FlagHasEnv},
}

// renderStatusBar produces a full-width inverted status line showing the
// current map and the quest step.
func (m Model) renderStatusBar() string {
	g := m.game

	mapName := ""
	if cur := g.World.Current(); cur != nil {
		mapName = cur.Name
		if mapName == "" {
			mapName = displayName(string(cur.ID))
		}
	}

	left := " " + mapName
	right := ""
	if q, ok := g.CurrentQuest(); ok {
		right = fmt.Sprintf("Quest: %s ", q.Label)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}

// renderTracker shows the current objective and the artifacts collected.
func (m Model) renderTracker() string {
	g := m.game
	q, ok := g.CurrentQuest()
	if !ok {
		return styleHint.Render(" Talk to people. Press space near someone.")
	}

	parts := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		if state.GetFlag(g.State, a.flag) {
			parts = append(parts, styleDone.Render("✓ "+a.label))
		} else {
			parts = append(parts, styleTodo.Render("○ "+a.label))
		}
	}
	return " " + styleQuest.Render(q.Desc) + "  " + strings.Join(parts, " ")
}

// renderMessages shows the pickup notice, or the latest status messages.
func (m Model) renderMessages() string {
	g := m.game
	if n := g.Notice(); n.Active() {
		name := string(n.Item)
		if def, ok := m.defs.Items[n.Item]; ok && def.Name != "" {
			name = def.Name
		}
		st := styleNotice
		if n.Alpha() < 0.5 {
			st = st.Faint(true)
		}
		return " " + st.Render("Acquired: "+name)
	}
	lines := g.Messages.Lines()
	if len(lines) == 0 {
		return ""
	}
	return " " + styleMessage.Render(strings.Join(lines, " · "))
}
