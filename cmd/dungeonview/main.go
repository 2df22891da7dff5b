// dungeonview serves the live excavation viewer and the layout archive.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/lawnchairsociety/dungeonbuilder/internal/config"
	"github.com/lawnchairsociety/dungeonbuilder/internal/logger"
	"github.com/lawnchairsociety/dungeonbuilder/internal/store"
	"github.com/lawnchairsociety/dungeonbuilder/internal/viewer"
)

func main() {
	configPath := flag.String("config", "data/dungeon.yaml", "Path to config YAML file")
	loggingConfig := flag.String("logging", "data/logging.yaml", "Path to logging config YAML file")
	listen := flag.String("listen", "", "HTTP listen address (overrides viewer.listen)")
	flag.Parse()

	logConfig, err := logger.LoadConfig(*loggingConfig)
	if err != nil {
		log.Printf("Failed to load logging config, using defaults: %v", err)
	}
	if err := logger.Initialize(logConfig); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Close() }()

	logger.Info("Starting dungeon viewer")

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config %s: %v", *configPath, err)
	}
	if *listen != "" {
		cfg.Viewer.Listen = *listen
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	var archive viewer.Archive
	if cfg.Store.Enabled {
		st, err := store.Open(cfg.Store.Config)
		if err != nil {
			log.Fatalf("Failed to open archive: %v", err)
		}
		defer st.Close()
		archive = st
		logger.Info("Archive opened", "driver", cfg.Store.Driver)
	} else {
		logger.Info("Archive disabled; streams will not be saved")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := viewer.NewServer(cfg, archive)
	if err := srv.Run(ctx); err != nil {
		logger.Error("Viewer stopped", "error", err)
		return
	}
	logger.Info("Viewer stopped")
}
