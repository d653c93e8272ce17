// Package audio provides the sound collaborator. Every call is
// fire-and-forget: players never block the frame loop and never fail.
package audio

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/zyedidia/generic/mapset"
)

// Player plays named sound effects and looping music.
type Player interface {
	PlayEffect(name string)
	PlayLoop(name string)
	StopLoop()
}

// Nop discards every cue.
type Nop struct{}

func (Nop) PlayEffect(string) {}
func (Nop) PlayLoop(string)   {}
func (Nop) StopLoop()         {}

// Cue is one recorded call.
type Cue struct {
	Kind string // "effect", "loop" or "stop"
	Name string
}

// Recorder keeps every cue it receives.
type Recorder struct {
	mu   sync.Mutex
	cues []Cue
	loop string
}

func (r *Recorder) PlayEffect(name string) { r.add(Cue{Kind: "effect", Name: name}) }

func (r *Recorder) PlayLoop(name string) {
	r.mu.Lock()
	if r.loop == name {
		r.mu.Unlock()
		return
	}
	r.loop = name
	r.mu.Unlock()
	r.add(Cue{Kind: "loop", Name: name})
}

func (r *Recorder) StopLoop() {
	r.mu.Lock()
	r.loop = ""
	r.mu.Unlock()
	r.add(Cue{Kind: "stop"})
}

func (r *Recorder) add(c Cue) {
	r.mu.Lock()
	r.cues = append(r.cues, c)
	r.mu.Unlock()
}

// Cues returns the recorded cues and forgets them.
func (r *Recorder) Cues() []Cue {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.cues
	r.cues = nil
	return out
}

// Loop returns the music loop currently playing.
func (r *Recorder) Loop() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loop
}

// DefaultBells are the effects that ring the terminal bell.
var DefaultBells = []string{"quest", "error"}

// Terminal rings the terminal bell for a small set of effects. Music is
// tracked and logged only. It stays silent until Load opens a device.
type Terminal struct {
	log   *logrus.Entry
	bells mapset.Set[string]
	path  string

	mu   sync.Mutex
	out  io.WriteCloser
	loop string
}

// NewTerminal returns a terminal player that rings on the given effects.
// path is the device to write to, usually /dev/tty.
func NewTerminal(log *logrus.Entry, path string, bells ...string) *Terminal {
	if len(bells) == 0 {
		bells = DefaultBells
	}
	return &Terminal{log: log, bells: mapset.Of(bells...), path: path}
}

// Name identifies the audio device as an asset.
func (t *Terminal) Name() string { return "audio" }

// Load opens the output device.
func (t *Terminal) Load(context.Context) error {
	f, err := os.OpenFile(t.path, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.out = f
	t.mu.Unlock()
	return nil
}

// Attach uses w as the output device.
func (t *Terminal) Attach(w io.WriteCloser) {
	t.mu.Lock()
	t.out = w
	t.mu.Unlock()
}

func (t *Terminal) PlayEffect(name string) {
	t.log.WithField("effect", name).Trace("sound")
	if !t.bells.Has(name) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.out != nil {
		_, _ = t.out.Write([]byte("\a"))
	}
}

func (t *Terminal) PlayLoop(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.loop == name {
		return
	}
	t.loop = name
	t.log.WithField("loop", name).Debug("music")
}

func (t *Terminal) StopLoop() {
	t.mu.Lock()
	t.loop = ""
	t.mu.Unlock()
}

// Close releases the output device.
func (t *Terminal) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.out == nil {
		return nil
	}
	err := t.out.Close()
	t.out = nil
	return err
}
