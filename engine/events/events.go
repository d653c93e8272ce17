// Package events implements single-pass event handler dispatch.
// Handlers produce reactions (a sound cue and/or a log message) and never
// emit further events.
package events

import (
	"fmt"
	"strings"

	"github.com/nathoo/mvpquest/engine/state"
	"github.com/nathoo/mvpquest/types"
)

// Dispatch runs event handlers against the emitted events. Single pass,
// no recursion. Reactions come back in event order, then handler order.
func Dispatch(events []types.Event, defs *state.Defs) []types.Reaction {
	var result []types.Reaction

	for _, event := range events {
		for _, h := range defs.Handlers {
			if h.EventType != event.Type || !matches(h.When, event.Data) {
				continue
			}
			result = append(result, types.Reaction{
				Sound:   h.Sound,
				Message: interpolate(h.Message, event.Data, defs),
			})
		}
	}

	return result
}

func matches(when map[string]string, data map[string]any) bool {
	for k, want := range when {
		v, ok := data[k]
		if !ok || fmt.Sprint(v) != want {
			return false
		}
	}
	return true
}

// interpolate replaces {key} with event data and {item.name}, {map.name}
// and {npc.name} with display names from the definitions.
func interpolate(text string, data map[string]any, defs *state.Defs) string {
	if !strings.Contains(text, "{") {
		return text
	}
	if id, ok := data["item"].(string); ok {
		name := id
		if def, ok := defs.Items[types.ItemID(id)]; ok {
			name = def.Name
		}
		text = strings.ReplaceAll(text, "{item.name}", name)
	}
	if id, ok := data["map"].(string); ok {
		name := id
		if m, ok := defs.Maps[types.MapID(id)]; ok && m.Name != "" {
			name = m.Name
		}
		text = strings.ReplaceAll(text, "{map.name}", name)
	}
	if id, ok := data["npc"].(string); ok {
		name := id
		if def, ok := defs.NPCs[types.NPCID(id)]; ok {
			name = def.Name
		}
		text = strings.ReplaceAll(text, "{npc.name}", name)
	}
	if step, ok := data["step"].(int); ok && step >= 0 && step < len(defs.Quest) {
		text = strings.ReplaceAll(text, "{step.label}", defs.Quest[step].Label)
	}
	for k, v := range data {
		text = strings.ReplaceAll(text, "{"+k+"}", fmt.Sprint(v))
	}
	return text
}
