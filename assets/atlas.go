package assets

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed default_atlas.yaml
var defaultAtlas []byte

// Glyph is how one tile, sprite or icon looks in a terminal cell.
type Glyph struct {
	Text string `yaml:"glyph"`
	FG   string `yaml:"fg"`
	BG   string `yaml:"bg"`
}

type atlasFile struct {
	Tiles    map[string]Glyph `yaml:"tiles"`
	Sprites  map[string]Glyph `yaml:"sprites"`
	Icons    map[string]Glyph `yaml:"icons"`
	Fallback Glyph            `yaml:"fallback"`
}

// Atlas maps tile names, sprite keys and icon references to glyphs.
// Entries from a loaded file override the built-in set.
type Atlas struct {
	path string

	mu   sync.RWMutex
	data atlasFile
}

// NewAtlas returns an atlas holding the built-in glyphs. If path is
// non-empty, Load overlays the file found there.
func NewAtlas(path string) *Atlas {
	a := &Atlas{path: path}
	if err := yaml.Unmarshal(defaultAtlas, &a.data); err != nil {
		panic(fmt.Sprintf("assets: built-in atlas: %v", err))
	}
	return a
}

// Name identifies the atlas as an asset.
func (a *Atlas) Name() string { return "atlas" }

// Load reads the configured atlas file and merges it over the built-in one.
// On error the built-in glyphs stay in place.
func (a *Atlas) Load(context.Context) error {
	if a.path == "" {
		return nil
	}
	raw, err := os.ReadFile(a.path)
	if err != nil {
		return fmt.Errorf("reading atlas: %w", err)
	}
	return a.merge(raw)
}

func (a *Atlas) merge(raw []byte) error {
	var f atlasFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parsing atlas: %w", err)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	mergeInto(a.data.Tiles, f.Tiles)
	mergeInto(a.data.Sprites, f.Sprites)
	mergeInto(a.data.Icons, f.Icons)
	if f.Fallback.Text != "" {
		a.data.Fallback = f.Fallback
	}
	return nil
}

func mergeInto(dst, src map[string]Glyph) {
	for k, v := range src {
		dst[k] = v
	}
}

// Tile returns the glyph for a tile name.
func (a *Atlas) Tile(name string) Glyph { return a.lookup(a.data.Tiles, name) }

// Sprite returns the glyph for an entity sprite key.
func (a *Atlas) Sprite(key string) Glyph { return a.lookup(a.data.Sprites, key) }

// Icon returns the glyph for an item icon reference.
func (a *Atlas) Icon(ref string) Glyph { return a.lookup(a.data.Icons, ref) }

func (a *Atlas) lookup(m map[string]Glyph, key string) Glyph {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if g, ok := m[key]; ok {
		return g
	}
	return a.data.Fallback
}
