// dungeongen excavates one dungeon and writes it out as text, PNG, GIF
// and/or YAML, optionally archiving it.
//
// Usage:
//
//	go run ./cmd/dungeongen -seed 42 -ascii -png out/42.png -gif out/42.gif
//	go run ./cmd/dungeongen -load out/42.yaml -png out/42.png
//	go run ./cmd/dungeongen -schema > data/dungeon.schema.json
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/lawnchairsociety/dungeonbuilder/internal/config"
	"github.com/lawnchairsociety/dungeonbuilder/internal/dungeon"
	"github.com/lawnchairsociety/dungeonbuilder/internal/export"
	"github.com/lawnchairsociety/dungeonbuilder/internal/logger"
	"github.com/lawnchairsociety/dungeonbuilder/internal/render"
	"github.com/lawnchairsociety/dungeonbuilder/internal/store"
)

type options struct {
	configPath string
	seed       int64
	load       string
	ascii      bool
	pngPath    string
	gifPath    string
	yamlPath   string
	scale      int
	dbPath     string
	schema     bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "data/dungeon.yaml", "Path to config YAML file")
	loggingConfig := flag.String("logging", "data/logging.yaml", "Path to logging config YAML file")
	flag.Int64Var(&opts.seed, "seed", 0, "Generation seed (default: random based on current time)")
	flag.StringVar(&opts.load, "load", "", "Render an existing layout YAML file instead of generating")
	flag.BoolVar(&opts.ascii, "ascii", false, "Print the dungeon as text to stdout")
	flag.StringVar(&opts.pngPath, "png", "", "Write a PNG image to this path")
	flag.StringVar(&opts.gifPath, "gif", "", "Write an animated GIF of the excavation to this path")
	flag.StringVar(&opts.yamlPath, "yaml", "", "Write the layout as YAML to this path")
	flag.IntVar(&opts.scale, "scale", 0, "Pixels per cell (default: render.scale from config)")
	flag.StringVar(&opts.dbPath, "db", "", "Archive the layout in this SQLite database (overrides store config)")
	flag.BoolVar(&opts.schema, "schema", false, "Print the config JSON schema and exit")
	flag.Parse()

	if opts.schema {
		data, err := config.Schema()
		if err != nil {
			log.Fatalf("Failed to build schema: %v", err)
		}
		os.Stdout.Write(data)
		return
	}

	logConfig, err := logger.LoadConfig(*loggingConfig)
	if err != nil {
		log.Printf("Failed to load logging config, using defaults: %v", err)
	}
	if err := logger.Initialize(logConfig); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Close() }()

	if err := run(opts, os.Stdout); err != nil {
		logger.Error("dungeongen failed", "error", err)
		_ = logger.Close()
		os.Exit(1)
	}
}

// run performs one generation (or load) and writes the requested outputs.
func run(opts options, stdout io.Writer) error {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config %s: %w", opts.configPath, err)
	}
	if opts.scale > 0 {
		cfg.Render.Scale = opts.scale
	}
	if opts.dbPath != "" {
		cfg.Store.Enabled = true
		cfg.Store.Config = store.DefaultConfig(opts.dbPath)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var (
		layout *export.Layout
		grid   dungeon.View
	)
	if opts.load != "" {
		if opts.gifPath != "" {
			return errors.New("-gif needs a fresh excavation and cannot be combined with -load")
		}
		layout, err = export.ReadYAML(opts.load)
		if err != nil {
			return err
		}
		g, err := layout.Grid()
		if err != nil {
			return err
		}
		grid = g
		logger.Info("Layout loaded", "path", opts.load, "seed", layout.Seed)
	} else {
		var rec *render.Recorder
		layout, rec, err = generate(cfg, opts)
		if err != nil {
			return err
		}
		g, err := layout.Grid()
		if err != nil {
			return err
		}
		grid = g
		if rec != nil {
			if err := writeFile(opts.gifPath, rec.WriteGIF); err != nil {
				return err
			}
			logger.Info("Animation written", "path", opts.gifPath, "frames", rec.Frames(), "events", rec.Events())
		}
	}

	components := dungeon.Components(grid)
	logger.Info("Dungeon ready",
		"width", layout.Width,
		"height", layout.Height,
		"rooms", len(layout.Rooms),
		"components", len(components),
		"fingerprint", layout.Fingerprint)
	if len(components) > 1 {
		logger.Debug("Dungeon is not fully connected", "largest", components[0].Cells)
	}

	if opts.ascii {
		if _, err := io.WriteString(stdout, render.Text(grid)); err != nil {
			return err
		}
	}
	if opts.pngPath != "" {
		err := writeFile(opts.pngPath, func(w io.Writer) error {
			return render.WritePNG(w, grid, cfg.Render.Scale)
		})
		if err != nil {
			return err
		}
		logger.Info("Image written", "path", opts.pngPath, "scale", cfg.Render.Scale)
	}
	if opts.yamlPath != "" {
		if err := export.WriteYAML(opts.yamlPath, layout); err != nil {
			return err
		}
		logger.Info("Layout written", "path", opts.yamlPath)
	}
	if cfg.Store.Enabled {
		if err := archive(cfg.Store.Config, layout); err != nil {
			return err
		}
	}
	return nil
}

// generate excavates a dungeon for opts.seed, recording frames when a GIF
// was requested.
func generate(cfg *config.AppConfig, opts options) (*export.Layout, *render.Recorder, error) {
	seed := opts.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
		logger.Info("Dungeon seed selected", "seed", seed, "random", true)
	} else {
		logger.Info("Dungeon seed selected", "seed", seed, "random", false)
	}

	var (
		rec      *render.Recorder
		observer dungeon.Observer
	)
	if opts.gifPath != "" {
		rec = render.NewRecorder(cfg.Render.Scale, cfg.Render.GIFStride, cfg.Render.GIFDelay)
		observer = rec.Observe
	}

	start := time.Now()
	d, err := dungeon.Generate(cfg.Dungeon, dungeon.NewRand(seed), dungeon.WithObserver(observer))
	if err != nil {
		return nil, nil, err
	}
	if rec != nil {
		rec.Flush(d)
	}

	stats := d.Stats()
	logger.Debug("Excavation complete",
		"duration", time.Since(start),
		"room_attempts", stats.RoomAttempts,
		"seeds_tried", stats.SeedsTried,
		"seeds_accepted", stats.SeedsAccepted,
		"walk_steps", stats.WalkSteps)

	return export.FromDungeon(d, seed), rec, nil
}

func archive(cfg store.Config, layout *export.Layout) error {
	st, err := store.Open(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	id, err := st.SaveLayout(layout)
	switch {
	case errors.Is(err, store.ErrDuplicate):
		logger.Info("Layout already archived", "id", id)
	case err != nil:
		return err
	default:
		logger.Info("Layout archived", "id", id)
	}
	return nil
}

// writeFile creates path (and its directory) and streams write into it.
func writeFile(path string, write func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
