// Package effects implements centralized state mutation via the Apply function.
// Every effect kind is one atomic operation. No logic in effects.
package effects

import (
	"github.com/nathoo/mvpquest/engine/state"
	"github.com/nathoo/mvpquest/types"
)

// Apply applies a list of effects to the quest state, mutating it.
// Returns the events emitted. Effects that change nothing emit nothing.
func Apply(s *types.State, effects []types.Effect) []types.Event {
	var events []types.Event

	for _, eff := range effects {
		switch eff.Kind {
		case types.EffectGiveItem:
			if !state.AddItem(s, eff.Item) {
				continue
			}
			events = append(events, types.Event{
				Type: "item_taken",
				Data: map[string]any{"item": string(eff.Item)},
			})

		case types.EffectSetFlag:
			if !state.SetFlag(s, eff.Flag) {
				continue
			}
			events = append(events, types.Event{
				Type: "flag_set",
				Data: map[string]any{"flag": state.FlagName(eff.Flag)},
			})

		case types.EffectStartQuest:
			if s.QuestStarted {
				continue
			}
			s.QuestStarted = true
			events = append(events, types.Event{
				Type: "quest_started",
				Data: map[string]any{},
			})

		case types.EffectAdvanceStep:
			// The step index only ever increases.
			if eff.Step <= s.Step {
				continue
			}
			from := s.Step
			s.Step = eff.Step
			events = append(events, types.Event{
				Type: "quest_advanced",
				Data: map[string]any{"from": from, "step": eff.Step},
			})

		case types.EffectFinishGame:
			events = append(events, types.Event{
				Type: "game_finished",
				Data: map[string]any{},
			})

		default:
			// Unknown effect kind: ignore.
		}
	}

	return events
}
