package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/hmlab/transcript-prep/internal/align"
	"github.com/hmlab/transcript-prep/internal/config"
	"github.com/hmlab/transcript-prep/internal/logger"
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

	var rec align.Recorder
	st, err := store.Open(cfg.Paths.DB)
	if err != nil {
		log.Warn(ctx, "Session store unavailable, continuing without bookkeeping: %v", err)
	} else {
		defer st.Close()
		rec = st
	}

	prompter := align.NewConsolePrompter(os.Stdin, os.Stdout, cfg.Align.Roles)
	a := align.New(cfg.Align, prompter, rec, log)

	res, err := a.AlignDir(ctx, cfg.Paths.Renamed, cfg.Paths.Aligned)
	if err != nil {
		if errors.Is(err, align.ErrAborted) {
			log.Info(ctx, "Aborted after %d sessions; in-progress session discarded", res.Aligned)
			os.Exit(1)
		}
		log.Error(ctx, "Alignment failed: %v", err)
		os.Exit(1)
	}

	log.Info(ctx, "Alignment finished: %d aligned, %d skipped", res.Aligned, res.Skipped)
}
