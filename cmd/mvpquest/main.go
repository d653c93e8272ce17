// MVP Quest is a tile-world adventure played in the terminal.
// Usage: mvpquest [--version] [--config <file>] [--plain] [--script <file>] [--trace] [content_directory]
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nathoo/mvpquest/assets"
	"github.com/nathoo/mvpquest/audio"
	"github.com/nathoo/mvpquest/cli"
	"github.com/nathoo/mvpquest/config"
	"github.com/nathoo/mvpquest/content"
	"github.com/nathoo/mvpquest/engine"
	"github.com/nathoo/mvpquest/engine/state"
	"github.com/nathoo/mvpquest/loader"
	"github.com/nathoo/mvpquest/logger"
	"github.com/nathoo/mvpquest/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = "Usage: mvpquest [--version] [--config <file>] [--plain] [--script <file>] [--trace] [content_directory]\n"

// options are the parsed command-line flags.
type options struct {
	plain      bool
	trace      bool
	contentDir string
	scriptFile string
	configFile string
}

func main() {
	var opts options

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("mvpquest %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			opts.plain = true
		case "--trace":
			opts.trace = true
		case "--script", "--config":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "%s requires a file path\n", args[i])
				os.Exit(1)
			}
			if args[i] == "--script" {
				opts.scriptFile = args[i+1]
			} else {
				opts.configFile = args[i+1]
			}
			i++
		case "-h", "--help":
			fmt.Print(usage)
			return
		default:
			if opts.contentDir == "" {
				opts.contentDir = args[i]
			}
		}
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run wires the game together and plays it. Deferred cleanup (log file,
// script file, audio device) always runs before main exits.
func run(opts options) error {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if opts.contentDir != "" {
		cfg.Content = opts.contentDir
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	base, closer, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer closer.Close()
	log := base.WithField("version", version)

	defs, err := loadContent(cfg.Content)
	if err != nil {
		log.WithError(err).WithField("content", contentName(cfg.Content)).Error("loading game failed")
		return fmt.Errorf("loading game: %w", err)
	}
	for _, w := range defs.Warnings {
		log.WithField("content", contentName(cfg.Content)).Warn(w)
	}

	atlas := assets.NewAtlas(cfg.Tileset)

	// Script and plain modes: no screen, cues are recorded for tracing.
	if opts.scriptFile != "" || opts.plain || !isTerminal() {
		in := io.Reader(os.Stdin)
		if opts.scriptFile != "" {
			f, err := os.Open(opts.scriptFile)
			if err != nil {
				return fmt.Errorf("opening script: %w", err)
			}
			defer f.Close()
			in = f
		}

		rec := &audio.Recorder{}
		g := engine.New(defs, engine.Options{
			Audio:    rec,
			Log:      log,
			Seed:     cfg.Seed,
			ViewCols: 20,
			ViewRows: 12,
		})
		g.AssetsLoaded(<-assets.Load(context.Background(), atlas))

		c := cli.New(g, defs, rec)
		c.In = in
		c.EchoInput = opts.scriptFile != ""
		c.Trace = opts.trace
		c.Run()
		return nil
	}

	player, list := soundFor(cfg, log, atlas)
	if t, ok := player.(*audio.Terminal); ok {
		defer t.Close()
	}
	g := engine.New(defs, engine.Options{Audio: player, Log: log, Seed: cfg.Seed})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	loads := assets.Load(ctx, list...)

	return tui.Run(g, atlas, loads, cfg)
}

// loadContent loads the content directory, or the built-in game when dir
// is empty.
func loadContent(dir string) (*state.Defs, error) {
	if dir == "" {
		return loader.Load(content.FS)
	}
	return loader.LoadDir(dir)
}

func contentName(dir string) string {
	if dir == "" {
		return "built-in"
	}
	return dir
}

// soundFor picks the audio player and the assets to load with it.
func soundFor(cfg *config.Config, log *logrus.Entry, atlas *assets.Atlas) (audio.Player, []assets.Asset) {
	if !cfg.Audio.Enabled {
		return audio.Nop{}, []assets.Asset{atlas}
	}
	t := audio.NewTerminal(log.WithField("component", "audio"), cfg.Audio.Device, cfg.Audio.Bells...)
	return t, []assets.Asset{atlas, t}
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
