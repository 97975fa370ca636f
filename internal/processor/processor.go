package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/hmlab/transcript-prep/internal/disfluency"
	"github.com/hmlab/transcript-prep/internal/liwc"
	"github.com/hmlab/transcript-prep/internal/transcript"
)

// Process runs the enabled steps for one aligned transcript.
func (p *implProcessor) Process(ctx context.Context, path string) error {
	session := transcript.SessionID(path)
	p.logger.Debug(ctx, "Processing session %s", session)

	turns, skipped, err := transcript.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read transcript: %w", err)
	}
	for _, s := range skipped {
		p.logger.Warn(ctx, "%s line %d: %s (skipped)", session, s.Num, s.Reason)
	}

	if p.opts.Annotate {
		if err := p.annotate(ctx, session, turns); err != nil {
			return fmt.Errorf("annotate: %w", err)
		}
	}

	if p.opts.LIWC {
		if err := p.export(ctx, session, turns); err != nil {
			return fmt.Errorf("liwc export: %w", err)
		}
	}

	return nil
}

// annotate runs the external disfluency tagger over the session and writes
// the annotated TSV.
func (p *implProcessor) annotate(ctx context.Context, session string, turns []transcript.Turn) error {
	start := time.Now()

	annotations, err := disfluency.AnnotateTurns(ctx, p.annotator, turns)
	if err != nil {
		return err
	}

	outPath := filepath.Join(p.cfg.Paths.Annotated, session+".tsv")
	if err := disfluency.WriteTSV(outPath, annotations); err != nil {
		return err
	}

	totals := disfluency.Totals(annotations)
	p.logger.Info(ctx, "Annotated %s: %d utterances, %d repairs in %s",
		session, len(annotations), totals.Total(), time.Since(start).Truncate(time.Millisecond))

	if p.recorder != nil {
		if err := p.recorder.RecordAnnotation(ctx, session, totals.Edit, totals.Repeat, totals.Restart); err != nil {
			p.logger.Warn(ctx, "Failed to record annotation for %s: %v", session, err)
		}
	}

	return nil
}

// export writes the LIWC-ready document for the session.
func (p *implProcessor) export(ctx context.Context, session string, turns []transcript.Turn) error {
	lines := p.exporter.ExportLines(turns)
	if err := liwc.WriteDocument(p.cfg.Paths.LIWCOut, session, lines); err != nil {
		return err
	}

	p.logger.Debug(ctx, "Exported %d lines from session %s", len(lines), session)

	if p.recorder != nil {
		if err := p.recorder.RecordExport(ctx, session, len(lines)); err != nil {
			p.logger.Warn(ctx, "Failed to record export for %s: %v", session, err)
		}
	}

	return nil
}

// Run processes every aligned transcript, one at a time, skipping failed
// files and continuing with the rest.
func (p *implProcessor) Run(ctx context.Context) (Summary, error) {
	var sum Summary

	if p.recorder != nil {
		id, err := p.recorder.BeginRun(ctx, p.opts.Annotate, p.opts.LIWC)
		if err != nil {
			p.logger.Warn(ctx, "Failed to record run start: %v", err)
		} else {
			sum.RunID = id
		}
	}

	for _, dir := range []string{p.cfg.Paths.Annotated, p.cfg.Paths.LIWCOut} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return sum, fmt.Errorf("create output dir: %w", err)
		}
	}

	entries, err := os.ReadDir(p.cfg.Paths.Aligned)
	if err != nil {
		return sum, fmt.Errorf("read aligned dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".txt" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	p.logger.Info(ctx, "Processing %d aligned transcripts", len(names))

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		path := filepath.Join(p.cfg.Paths.Aligned, name)
		if err := p.Process(ctx, path); err != nil {
			p.logger.Error(ctx, "Failed to process %s: %v", name, err)
			sum.Failed++
			sum.Failures = append(sum.Failures, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		sum.Processed++
	}

	if p.recorder != nil && sum.RunID != "" {
		if err := p.recorder.FinishRun(ctx, sum.RunID, sum.Processed, sum.Failed); err != nil {
			p.logger.Warn(ctx, "Failed to record run finish: %v", err)
		}
	}

	p.logger.Info(ctx, "Batch finished: %d processed, %d failed", sum.Processed, sum.Failed)
	return sum, nil
}
