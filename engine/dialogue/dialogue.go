// Package dialogue implements paged dialog sessions with a typewriter reveal.
package dialogue

import "github.com/nathoo/mvpquest/types"

// CharInterval is the time in seconds between revealed characters.
const CharInterval = 0.03

// Outcome reports what Advance did.
type Outcome int

const (
	Idle     Outcome = iota // no active session
	Revealed                // skipped the reveal of the current page
	NextPage                // moved to the next page
	Closed                  // session ended
)

// Engine runs at most one dialog session at a time.
type Engine struct {
	dialogs  map[types.DialogID]types.DialogDef
	onAction func(types.Action)

	active   bool
	id       types.DialogID
	pages    []types.Page
	page     int
	text     []rune
	revealed int
	timer    float64
	onEnd    types.Action
	cont     func()
}

// New creates a dialog engine. onAction receives the completion action of
// each dialog that defines one; it may be nil.
func New(dialogs map[types.DialogID]types.DialogDef, onAction func(types.Action)) *Engine {
	return &Engine{dialogs: dialogs, onAction: onAction}
}

// Open starts the dialog with the given id, discarding any session in
// progress. cont, if non-nil, runs after the completion action when the
// dialog closes. Returns false and does nothing for unknown ids.
func (e *Engine) Open(id types.DialogID, cont func()) bool {
	def, ok := e.dialogs[id]
	if !ok || len(def.Pages) == 0 {
		return false
	}
	e.active = true
	e.id = id
	e.pages = def.Pages
	e.onEnd = def.OnEnd
	e.cont = cont
	e.setPage(0)
	return true
}

func (e *Engine) setPage(i int) {
	e.page = i
	e.text = []rune(e.pages[i].Text)
	e.revealed = 0
	e.timer = 0
}

// Update advances the typewriter reveal by dt seconds.
func (e *Engine) Update(dt float64) {
	if !e.active || e.revealed >= len(e.text) {
		return
	}
	e.timer += dt
	for e.timer >= CharInterval && e.revealed < len(e.text) {
		e.timer -= CharInterval
		e.revealed++
	}
}

// Advance reveals the rest of the current page if it is still typing,
// otherwise moves to the next page, otherwise closes the session.
func (e *Engine) Advance() Outcome {
	if !e.active {
		return Idle
	}
	if e.revealed < len(e.text) {
		e.revealed = len(e.text)
		return Revealed
	}
	if e.page+1 < len(e.pages) {
		e.setPage(e.page + 1)
		return NextPage
	}
	e.close()
	return Closed
}

// close ends the session. The completion action runs before the caller's
// continuation.
func (e *Engine) close() {
	action, cont := e.onEnd, e.cont
	e.active = false
	e.onEnd = types.ActionNone
	e.cont = nil
	if action != types.ActionNone && e.onAction != nil {
		e.onAction(action)
	}
	if cont != nil {
		cont()
	}
}

// Active reports whether a session is open.
func (e *Engine) Active() bool { return e.active }

// ID returns the id of the open dialog.
func (e *Engine) ID() types.DialogID { return e.id }

// Page returns the current page.
func (e *Engine) Page() types.Page {
	if !e.active {
		return types.Page{}
	}
	return e.pages[e.page]
}

// Visible returns the revealed prefix of the current page's text.
func (e *Engine) Visible() string {
	if !e.active {
		return ""
	}
	return string(e.text[:e.revealed])
}

// FullyRevealed reports whether the whole current page is shown.
func (e *Engine) FullyRevealed() bool {
	return e.active && e.revealed >= len(e.text)
}

// LastPage reports whether the current page is the final one.
func (e *Engine) LastPage() bool {
	return e.active && e.page == len(e.pages)-1
}
