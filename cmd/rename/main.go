package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/hmlab/transcript-prep/internal/config"
	"github.com/hmlab/transcript-prep/internal/logger"
	"github.com/hmlab/transcript-prep/internal/rename"
	"github.com/hmlab/transcript-prep/internal/store"
)

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "path to YAML config")
		debug      = flag.Bool("d", false, "include debugging messages")
	)
	flag.BoolVar(debug, "debug", false, "include debugging messages")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *debug {
		cfg.Logging.Level = "debug"
	}

	ctx := context.Background()
	log := logger.New(cfg.Logging.Level)

	n, err := rename.New(cfg.Rename)
	if err != nil {
		log.Error(ctx, "Invalid rename configuration: %v", err)
		os.Exit(1)
	}

	var rec rename.Recorder
	st, err := store.Open(cfg.Paths.DB)
	if err != nil {
		log.Warn(ctx, "Session store unavailable, continuing without bookkeeping: %v", err)
	} else {
		defer st.Close()
		rec = st
	}

	res, err := n.Apply(ctx, cfg.Paths.Raw, cfg.Paths.Renamed, rec, log)
	if err != nil {
		log.Error(ctx, "Normalization failed: %v", err)
		os.Exit(1)
	}

	log.Info(ctx, "Normalization finished: %d renamed, %d skipped", res.Renamed, res.Skipped)
}
