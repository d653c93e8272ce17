package dialogue

import (
	"strings"
	"testing"

	"github.com/nathoo/mvpquest/types"
)

func testDialogs() map[types.DialogID]types.DialogDef {
	return map[types.DialogID]types.DialogDef{
		"greeting": {
			ID: "greeting",
			Pages: []types.Page{
				{Speaker: "Merlin", Text: "Hello there."},
				{Speaker: "Merlin", Text: "Ship it."},
			},
			OnEnd: types.ActionStartQuest,
		},
		"sign": {
			ID:    "sign",
			Pages: []types.Page{{Text: "✓ done"}},
		},
		"empty": {ID: "empty"},
	}
}

func TestOpen_UnknownIsNoop(t *testing.T) {
	e := New(testDialogs(), nil)

	if e.Open("missing", nil) {
		t.Fatal("Open should fail for unknown id")
	}
	if e.Active() {
		t.Error("no session should be active")
	}
	if e.Open("empty", nil) {
		t.Error("Open should fail for a dialog without pages")
	}
}

func TestUpdate_RevealsAtCharInterval(t *testing.T) {
	e := New(testDialogs(), nil)
	e.Open("greeting", nil)

	if e.Visible() != "" {
		t.Fatalf("expected nothing visible, got %q", e.Visible())
	}

	// 5 characters worth of time, in uneven chunks.
	e.Update(CharInterval * 2.5)
	e.Update(CharInterval * 2.6)
	if got := e.Visible(); got != "Hello" {
		t.Errorf("expected %q, got %q", "Hello", got)
	}

	e.Update(10)
	if !e.FullyRevealed() {
		t.Error("page should be fully revealed after a long update")
	}
	if e.Visible() != "Hello there." {
		t.Errorf("unexpected visible text %q", e.Visible())
	}
}

func TestUpdate_CountsRunes(t *testing.T) {
	e := New(testDialogs(), nil)
	e.Open("sign", nil)

	e.Update(CharInterval * 1.5)
	if got := e.Visible(); got != "✓" {
		t.Errorf("expected first rune, got %q", got)
	}
}

func TestAdvance_Sequence(t *testing.T) {
	var actions []types.Action
	e := New(testDialogs(), func(a types.Action) { actions = append(actions, a) })
	e.Open("greeting", nil)

	e.Update(CharInterval * 3)
	if out := e.Advance(); out != Revealed {
		t.Fatalf("expected Revealed, got %v", out)
	}
	if !e.FullyRevealed() {
		t.Fatal("advance mid-typing should reveal the whole page")
	}
	if e.LastPage() {
		t.Error("first page is not the last")
	}

	if out := e.Advance(); out != NextPage {
		t.Fatalf("expected NextPage, got %v", out)
	}
	if e.Visible() != "" {
		t.Error("new page should start unrevealed")
	}
	if !e.LastPage() {
		t.Error("second page is the last")
	}

	e.Advance() // reveal
	if out := e.Advance(); out != Closed {
		t.Fatalf("expected Closed, got %v", out)
	}
	if e.Active() {
		t.Error("session should be closed")
	}
	if len(actions) != 1 || actions[0] != types.ActionStartQuest {
		t.Errorf("expected start_quest dispatched once, got %v", actions)
	}
	if out := e.Advance(); out != Idle {
		t.Errorf("expected Idle after close, got %v", out)
	}
}

func TestClose_ActionBeforeContinuation(t *testing.T) {
	var order []string
	e := New(testDialogs(), func(a types.Action) { order = append(order, "action:"+string(a)) })
	e.Open("greeting", func() { order = append(order, "continue") })

	for e.Active() {
		e.Advance()
	}

	got := strings.Join(order, ",")
	if got != "action:start_quest,continue" {
		t.Errorf("unexpected order %q", got)
	}
}

func TestClose_NoActionStillContinues(t *testing.T) {
	called := 0
	dispatched := 0
	e := New(testDialogs(), func(types.Action) { dispatched++ })
	e.Open("sign", func() { called++ })

	e.Advance()
	e.Advance()

	if dispatched != 0 {
		t.Errorf("dialog without action dispatched %d times", dispatched)
	}
	if called != 1 {
		t.Errorf("continuation called %d times, want 1", called)
	}
}

func TestOpen_DiscardsPriorSession(t *testing.T) {
	dispatched := 0
	continued := false
	e := New(testDialogs(), func(types.Action) { dispatched++ })
	e.Open("greeting", func() { continued = true })
	e.Advance()

	e.Open("sign", nil)
	if e.ID() != "sign" {
		t.Fatalf("expected sign, got %q", e.ID())
	}
	e.Advance()
	e.Advance()

	if dispatched != 0 {
		t.Error("discarded dialog must not dispatch its action")
	}
	if continued {
		t.Error("discarded dialog must not run its continuation")
	}
}

func TestInactiveAccessors(t *testing.T) {
	e := New(testDialogs(), nil)
	if e.Page() != (types.Page{}) || e.Visible() != "" || e.FullyRevealed() || e.LastPage() {
		t.Error("inactive engine should report empty state")
	}
	e.Update(1) // must not panic
}
