package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hmlab/transcript-prep/internal/config"
	"github.com/hmlab/transcript-prep/internal/disfluency"
	"github.com/hmlab/transcript-prep/internal/liwc"
	"github.com/hmlab/transcript-prep/internal/logger"
	"github.com/hmlab/transcript-prep/internal/processor"
	"github.com/hmlab/transcript-prep/internal/report"
	"github.com/hmlab/transcript-prep/internal/store"
	"github.com/hmlab/transcript-prep/internal/watcher"
	"github.com/hmlab/transcript-prep/pkg/executor"
)

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "path to YAML config")
		debug      = flag.Bool("d", false, "include debugging messages")
		annotate   = flag.Bool("annotate", false, "run the external disfluency tagger")
		liwcExport = flag.Bool("liwc", false, "export transcripts for LIWC analysis")
		watch      = flag.Bool("watch", false, "stay resident and process new aligned transcripts")
		reportPath = flag.String("report", "", "write a .docx batch report to this path")
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.New(cfg.Logging.Level)
	log.Info(ctx, "Transcript preparation pipeline starting")
	log.Info(ctx, "Aligned transcripts: %s", cfg.Paths.Aligned)

	if !*annotate && !*liwcExport {
		log.Warn(ctx, "Neither -annotate nor -liwc given; nothing to do per file")
	}
	if *annotate && cfg.Annotator.Command == "" {
		log.Error(ctx, "-annotate requires annotator.command in config")
		os.Exit(1)
	}

	var rec processor.Recorder
	st, err := store.Open(cfg.Paths.DB)
	if err != nil {
		log.Warn(ctx, "Session store unavailable, continuing without bookkeeping: %v", err)
	} else {
		defer st.Close()
		rec = st
	}

	opts := processor.Options{Annotate: *annotate, LIWC: *liwcExport}
	annotator := disfluency.NewCommand(cfg.Annotator, executor.New())
	proc := processor.New(cfg, opts, annotator, liwc.New(cfg.LIWC), rec, log)

	if *watch {
		runWatch(ctx, cfg, proc, log)
		return
	}

	sum, err := proc.Run(ctx)
	if err != nil {
		log.Error(ctx, "Batch failed: %v", err)
		os.Exit(1)
	}

	if *reportPath != "" {
		writeReport(ctx, *reportPath, opts, sum, st, log)
	}

	if sum.Failed > 0 {
		os.Exit(1)
	}
}

// runWatch keeps the process resident, handling new aligned transcripts as
// they appear until interrupted.
func runWatch(ctx context.Context, cfg *config.Config, proc processor.Processor, log logger.Logger) {
	if err := os.MkdirAll(cfg.Paths.Aligned, 0755); err != nil {
		log.Error(ctx, "Failed to create aligned dir: %v", err)
		os.Exit(1)
	}

	w, err := watcher.New(cfg.Paths.Aligned, proc.Process, log)
	if err != nil {
		log.Error(ctx, "Failed to create watcher: %v", err)
		os.Exit(1)
	}
	defer w.Stop()

	errChan := make(chan error, 1)
	go func() {
		if err := w.Start(ctx); err != nil && err != context.Canceled {
			errChan <- err
		}
	}()

	log.Info(ctx, "Watching %s. Press Ctrl+C to stop", cfg.Paths.Aligned)

	select {
	case <-ctx.Done():
		log.Info(ctx, "Shutdown signal received")
	case err := <-errChan:
		log.Error(ctx, "Watcher error: %v", err)
		os.Exit(1)
	}
}

func writeReport(ctx context.Context, path string, opts processor.Options, sum processor.Summary, st *store.Store, log logger.Logger) {
	data := report.Data{
		RunID:       sum.RunID,
		GeneratedAt: time.Now(),
		Annotate:    opts.Annotate,
		LIWC:        opts.LIWC,
		Processed:   sum.Processed,
		Failed:      sum.Failed,
		Failures:    sum.Failures,
	}

	if st != nil {
		sessions, err := st.ListSessions(ctx)
		if err != nil {
			log.Warn(ctx, "Failed to load session ledger for report: %v", err)
		} else {
			data.Sessions = sessions
		}
	}

	if err := report.Write(path, data); err != nil {
		log.Error(ctx, "Failed to write report: %v", err)
		return
	}
	log.Info(ctx, "Report written: %s", path)
}
