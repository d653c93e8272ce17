package assets

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAsset struct {
	name string
	err  error
	hits int
}

func (f *fakeAsset) Name() string { return f.name }

func (f *fakeAsset) Load(context.Context) error {
	f.hits++
	return f.err
}

func TestLoad_ReportsOnceThenCloses(t *testing.T) {
	ok := &fakeAsset{name: "ok"}
	bad := &fakeAsset{name: "bad", err: errors.New("boom")}

	ch := Load(context.Background(), ok, bad)

	rep, open := <-ch
	require.True(t, open)
	assert.Equal(t, []string{"ok"}, rep.Loaded)
	assert.EqualError(t, rep.Failed["bad"], "boom")
	assert.Equal(t, []string{"bad"}, rep.FailedNames())

	_, open = <-ch
	assert.False(t, open, "channel closes after the single report")
	assert.Equal(t, 1, ok.hits)
}

func TestLoad_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a := &fakeAsset{name: "late"}

	rep := <-Load(ctx, a)

	assert.Error(t, rep.Failed["late"])
	assert.Equal(t, 0, a.hits)
}

func TestLoad_Empty(t *testing.T) {
	rep := <-Load(context.Background())
	assert.Empty(t, rep.Loaded)
	assert.Empty(t, rep.Failed)
}

func TestAtlas_BuiltIn(t *testing.T) {
	a := NewAtlas("")
	require.NoError(t, a.Load(context.Background()))

	assert.Equal(t, "~~", a.Tile("WATER").Text)
	assert.Equal(t, "#9b59b6", a.Sprite("merlin").FG)
	assert.Equal(t, "◆ ", a.Icon("duck").Text)
	assert.Equal(t, "??", a.Tile("NOPE").Text, "unknown names fall back")
}

func TestAtlas_FileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atlas.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
tiles:
  WATER: { glyph: "≈≈", fg: "21" }
sprites:
  enemy: { glyph: "B ", fg: "9" }
`), 0o644))

	a := NewAtlas(path)
	require.NoError(t, a.Load(context.Background()))

	assert.Equal(t, "≈≈", a.Tile("WATER").Text)
	assert.Equal(t, "B ", a.Sprite("enemy").Text)
	assert.Equal(t, "  ", a.Tile("GRASS").Text, "entries missing from the file keep their built-in glyph")
}

func TestAtlas_MissingFileKeepsDefaults(t *testing.T) {
	a := NewAtlas(filepath.Join(t.TempDir(), "nope.yaml"))

	err := a.Load(context.Background())

	require.Error(t, err)
	assert.Equal(t, "~~", a.Tile("WATER").Text)
}

func TestAtlas_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atlas.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tiles: [unclosed"), 0o644))

	a := NewAtlas(path)
	assert.Error(t, a.Load(context.Background()))
	assert.Equal(t, "atlas", a.Name())
}
