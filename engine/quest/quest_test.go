package quest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/mvpquest/engine/state"
	"github.com/nathoo/mvpquest/types"
)

func newOrchestrator() *Orchestrator {
	return New(state.NewState())
}

func TestDialogFor_Merlin(t *testing.T) {
	o := newOrchestrator()

	id, ok := o.DialogFor(types.NPCMerlin)
	require.True(t, ok)
	assert.Equal(t, types.DialogID("merlin_intro"), id)

	events := o.ApplyAction(types.ActionStartQuest)
	assert.True(t, o.Started())
	assert.Equal(t, StepGetYAML, o.Step())
	require.Len(t, events, 2)
	assert.Equal(t, "quest_started", events[0].Type)
	assert.Equal(t, "quest_advanced", events[1].Type)

	id, _ = o.DialogFor(types.NPCMerlin)
	assert.Equal(t, types.DialogID("merlin_later"), id)
}

func TestDialogFor_Table(t *testing.T) {
	tests := []struct {
		name    string
		npc     types.NPCID
		started bool
		flags   types.Flags
		want    types.DialogID
	}{
		{"datadave before duck", types.NPCDataDave, false, types.Flags{}, "datadave_intro"},
		{"datadave after duck", types.NPCDataDave, false, types.Flags{HasDuck: true}, "datadave_later"},
		{"karen not started", types.NPCKaren, false, types.Flags{HasYAML: true, HasAPIKey: true, HasEnv: true}, "karen_intro"},
		{"karen progress", types.NPCKaren, true, types.Flags{HasYAML: true}, "karen_progress"},
		{"karen complete", types.NPCKaren, true, types.Flags{HasYAML: true, HasAPIKey: true, HasEnv: true}, "karen_complete"},
		{"priya before ticket", types.NPCPriya, false, types.Flags{}, "priya_intro"},
		{"priya after ticket", types.NPCPriya, false, types.Flags{HasTicket: true}, "priya_later"},
		{"oracle", types.NPCOracle, true, types.Flags{HasEnv: true}, "oracle_talk"},
		{"steve without ticket", types.NPCSteve, true, types.Flags{}, "steve_noticket"},
		{"steve with ticket", types.NPCSteve, true, types.Flags{HasTicket: true}, "steve_hasticket"},
		{"boss", types.NPCBoss, true, types.Flags{}, "boss_intro"},
		{"boss defeated", types.NPCBoss, true, types.Flags{BossDefeated: true}, "boss_defeated"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := newOrchestrator()
			o.s.QuestStarted = tt.started
			o.s.Flags = tt.flags

			got, ok := o.DialogFor(tt.npc)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDialogFor_UnknownNPC(t *testing.T) {
	o := newOrchestrator()
	_, ok := o.DialogFor("janitor")
	assert.False(t, ok)
}

func TestDialogFor_Pure(t *testing.T) {
	o := newOrchestrator()
	o.s.QuestStarted = true
	o.s.Flags.HasYAML = true
	before := *o.s

	for i := 0; i < 3; i++ {
		id, _ := o.DialogFor(types.NPCKaren)
		assert.Equal(t, types.DialogID("karen_progress"), id)
	}
	assert.Equal(t, before.Flags, o.s.Flags)
	assert.Equal(t, before.Step, o.s.Step)
}

func TestApplyAction_GiveDuck(t *testing.T) {
	o := newOrchestrator()

	o.ApplyAction(types.ActionGiveDuck)

	assert.True(t, o.s.Flags.HasDuck)
	assert.Equal(t, []types.ItemID{"rubber_duck"}, o.s.Inventory)
	assert.Equal(t, StepWelcome, o.Step(), "duck does not advance the quest")
}

func TestApplyAction_GiveTicket(t *testing.T) {
	o := newOrchestrator()
	o.ApplyAction(types.ActionGiveTicket)
	assert.True(t, o.s.Flags.HasTicket)
	assert.True(t, state.HasItem(o.s, "jira_ticket"))
}

func TestApplyAction_GiveEnvDefeatsBoss(t *testing.T) {
	o := newOrchestrator()
	o.ApplyAction(types.ActionGiveEnv)

	assert.True(t, o.s.Flags.HasEnv)
	assert.True(t, o.s.Flags.BossDefeated)
	assert.True(t, state.HasItem(o.s, "env_file"))
}

func TestApplyAction_StepProgression(t *testing.T) {
	o := newOrchestrator()
	o.ApplyAction(types.ActionStartQuest)

	o.ApplyAction(types.ActionGiveYAML)
	assert.Equal(t, StepGetAPIKey, o.Step())

	o.ApplyAction(types.ActionGiveAPIKey)
	assert.Equal(t, StepGetEnv, o.Step())

	o.ApplyAction(types.ActionGiveEnv)
	assert.Equal(t, StepShipIt, o.Step())
}

func TestApplyAction_ArtifactsInAnyOrder(t *testing.T) {
	artifacts := []types.Action{types.ActionGiveYAML, types.ActionGiveAPIKey, types.ActionGiveEnv}
	orders := [][]int{
		{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0},
	}
	for _, order := range orders {
		o := newOrchestrator()
		o.ApplyAction(types.ActionStartQuest)

		prev := o.Step()
		for _, i := range order {
			o.ApplyAction(artifacts[i])
			assert.GreaterOrEqual(t, o.Step(), prev, "step decreased for order %v", order)
			prev = o.Step()
		}
		assert.Equal(t, StepShipIt, o.Step(), "order %v", order)

		id, _ := o.DialogFor(types.NPCKaren)
		assert.Equal(t, types.DialogID("karen_complete"), id, "order %v", order)
	}
}

func TestApplyAction_StartQuestNeverLowersStep(t *testing.T) {
	o := newOrchestrator()
	o.s.Step = StepGetEnv

	o.ApplyAction(types.ActionStartQuest)

	assert.True(t, o.Started())
	assert.Equal(t, StepGetEnv, o.Step())
}

func TestApplyAction_FlagsMonotonic(t *testing.T) {
	o := newOrchestrator()
	actions := []types.Action{
		types.ActionGiveDuck, types.ActionGiveTicket, types.ActionGiveYAML,
		types.ActionGiveAPIKey, types.ActionGiveEnv, types.ActionStartQuest,
		types.ActionGiveDuck, types.ActionFinishGame,
	}
	var seen types.Flags
	for _, a := range actions {
		o.ApplyAction(a)
		f := o.s.Flags
		assert.False(t, seen.HasDuck && !f.HasDuck)
		assert.False(t, seen.HasTicket && !f.HasTicket)
		assert.False(t, seen.HasYAML && !f.HasYAML)
		assert.False(t, seen.HasAPIKey && !f.HasAPIKey)
		assert.False(t, seen.HasEnv && !f.HasEnv)
		assert.False(t, seen.BossDefeated && !f.BossDefeated)
		seen = f
	}
	assert.Len(t, o.s.Inventory, 5)
}

func TestApplyAction_FinishGame(t *testing.T) {
	o := newOrchestrator()
	events := o.ApplyAction(types.ActionFinishGame)
	require.Len(t, events, 1)
	assert.Equal(t, "game_finished", events[0].Type)
}

func TestApplyAction_Unknown(t *testing.T) {
	o := newOrchestrator()
	assert.Nil(t, o.ApplyAction("summon_dragon"))
	assert.Nil(t, o.ApplyAction(types.ActionNone))
	assert.Equal(t, types.Flags{}, o.s.Flags)
}

func TestNextStep(t *testing.T) {
	tests := []struct {
		name  string
		flags types.Flags
		step  int
		want  int
	}{
		{"nothing held", types.Flags{}, StepGetYAML, StepGetYAML},
		{"yaml", types.Flags{HasYAML: true}, StepGetYAML, StepGetAPIKey},
		{"apikey first", types.Flags{HasAPIKey: true}, StepGetYAML, StepGetEnv},
		{"yaml after apikey", types.Flags{HasYAML: true, HasAPIKey: true}, StepGetEnv, StepGetEnv},
		{"all three", types.Flags{HasYAML: true, HasAPIKey: true, HasEnv: true}, StepGetYAML, StepShipIt},
		{"env alone", types.Flags{HasEnv: true}, StepGetYAML, StepGetYAML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextStep(tt.flags, tt.step))
		})
	}
}

func TestKnownAction(t *testing.T) {
	assert.True(t, KnownAction(types.ActionGiveEnv))
	assert.False(t, KnownAction(types.ActionNone))
	assert.False(t, KnownAction("open_portal"))
}
