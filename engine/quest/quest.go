// Package quest implements quest progression: which dialog an NPC offers for
// the current flags, and what each dialog completion action does.
package quest

import (
	"github.com/nathoo/mvpquest/engine/effects"
	"github.com/nathoo/mvpquest/types"
)

// Quest chain step indices.
const (
	StepWelcome = iota
	StepGetYAML
	StepGetAPIKey
	StepGetEnv
	StepShipIt
)

// Orchestrator owns the quest state of one session.
type Orchestrator struct {
	s *types.State
}

// New returns an orchestrator over s.
func New(s *types.State) *Orchestrator {
	return &Orchestrator{s: s}
}

// State returns the underlying quest state.
func (o *Orchestrator) State() *types.State { return o.s }

// Step returns the current quest step index.
func (o *Orchestrator) Step() int { return o.s.Step }

// Started reports whether the quest has begun.
func (o *Orchestrator) Started() bool { return o.s.QuestStarted }

// DialogFor returns the dialog an NPC offers in the current state.
// Unknown NPCs have no dialog.
func (o *Orchestrator) DialogFor(npc types.NPCID) (types.DialogID, bool) {
	f := o.s.Flags
	switch npc {
	case types.NPCMerlin:
		if o.s.QuestStarted {
			return "merlin_later", true
		}
		return "merlin_intro", true
	case types.NPCDataDave:
		if f.HasDuck {
			return "datadave_later", true
		}
		return "datadave_intro", true
	case types.NPCKaren:
		if !o.s.QuestStarted {
			return "karen_intro", true
		}
		if hasAllArtifacts(f) {
			return "karen_complete", true
		}
		return "karen_progress", true
	case types.NPCPriya:
		if f.HasTicket {
			return "priya_later", true
		}
		return "priya_intro", true
	case types.NPCOracle:
		return "oracle_talk", true
	case types.NPCSteve:
		if f.HasTicket {
			return "steve_hasticket", true
		}
		return "steve_noticket", true
	case types.NPCBoss:
		if f.BossDefeated {
			return "boss_defeated", true
		}
		return "boss_intro", true
	}
	return "", false
}

// ApplyAction performs the effect group of a completion action and returns
// the events emitted. Unknown actions do nothing.
func (o *Orchestrator) ApplyAction(a types.Action) []types.Event {
	switch a {
	case types.ActionStartQuest:
		return effects.Apply(o.s, []types.Effect{
			{Kind: types.EffectStartQuest},
			{Kind: types.EffectAdvanceStep, Step: StepGetYAML},
		})
	case types.ActionGiveDuck:
		return o.grant("rubber_duck", types.FlagHasDuck, false)
	case types.ActionGiveTicket:
		return o.grant("jira_ticket", types.FlagHasTicket, false)
	case types.ActionGiveYAML:
		return o.grant("yaml_scroll", types.FlagHasYAML, true)
	case types.ActionGiveAPIKey:
		return o.grant("api_key", types.FlagHasAPIKey, true)
	case types.ActionGiveEnv:
		events := effects.Apply(o.s, []types.Effect{
			{Kind: types.EffectGiveItem, Item: "env_file"},
			{Kind: types.EffectSetFlag, Flag: types.FlagHasEnv},
			{Kind: types.EffectSetFlag, Flag: types.FlagBossDefeated},
		})
		return append(events, o.advance()...)
	case types.ActionFinishGame:
		return effects.Apply(o.s, []types.Effect{{Kind: types.EffectFinishGame}})
	}
	return nil
}

func (o *Orchestrator) grant(item types.ItemID, flag types.Flag, advance bool) []types.Event {
	events := effects.Apply(o.s, []types.Effect{
		{Kind: types.EffectGiveItem, Item: item},
		{Kind: types.EffectSetFlag, Flag: flag},
	})
	if advance {
		events = append(events, o.advance()...)
	}
	return events
}

func (o *Orchestrator) advance() []types.Event {
	next := NextStep(o.s.Flags, o.s.Step)
	return effects.Apply(o.s, []types.Effect{{Kind: types.EffectAdvanceStep, Step: next}})
}

// NextStep returns the step the quest should be on for the given flags.
// Holding all three artifacts always means StepShipIt. The result is never
// lower than step.
func NextStep(f types.Flags, step int) int {
	switch {
	case hasAllArtifacts(f):
		return StepShipIt
	case f.HasYAML && step < StepGetAPIKey:
		return StepGetAPIKey
	case f.HasAPIKey && step < StepGetEnv:
		return StepGetEnv
	}
	return step
}

// KnownAction reports whether a is a completion action the orchestrator
// understands.
func KnownAction(a types.Action) bool {
	switch a {
	case types.ActionStartQuest, types.ActionGiveDuck, types.ActionGiveTicket,
		types.ActionGiveYAML, types.ActionGiveAPIKey, types.ActionGiveEnv,
		types.ActionFinishGame:
		return true
	}
	return false
}

func hasAllArtifacts(f types.Flags) bool {
	return f.HasYAML && f.HasAPIKey && f.HasEnv
}
