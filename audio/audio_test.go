package audio

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopCloser struct{ *bytes.Buffer }

func (nopCloser) Close() error { return nil }

func testLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	r.PlayLoop("town")
	r.PlayLoop("town")
	r.PlayEffect("door")
	r.StopLoop()

	assert.Equal(t, []Cue{
		{Kind: "loop", Name: "town"},
		{Kind: "effect", Name: "door"},
		{Kind: "stop"},
	}, r.Cues())
	assert.Empty(t, r.Cues(), "Cues drains the recording")
	assert.Equal(t, "", r.Loop())
}

func TestTerminal_BellsOnlyForConfiguredEffects(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewTerminal(testLog(), "")
	p.Attach(nopCloser{buf})

	p.PlayEffect("footstep")
	p.PlayEffect("quest")
	p.PlayEffect("error")

	assert.Equal(t, "\a\a", buf.String())
}

func TestTerminal_SilentWithoutDevice(t *testing.T) {
	p := NewTerminal(testLog(), "", "door")
	p.PlayEffect("door")
	p.PlayLoop("town")
	p.StopLoop()
	assert.NoError(t, p.Close())
}

func TestTerminal_LoadMissingDevice(t *testing.T) {
	p := NewTerminal(testLog(), filepath.Join(t.TempDir(), "missing", "tty"))
	err := p.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, "audio", p.Name())
}

func TestNop(t *testing.T) {
	var p Player = Nop{}
	p.PlayEffect("x")
	p.PlayLoop("y")
	p.StopLoop()
}
