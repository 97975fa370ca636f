package align

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hmlab/transcript-prep/internal/transcript"
)

// Align maps the speaker tokens of one transcript and rewrites it.
//
// The rewrite is line-preserving: only the leading speaker token of each
// utterance line is substituted, so an identity mapping reproduces the input
// byte for byte. Nothing is written until every token is resolved.
func (a *implAligner) Align(ctx context.Context, inPath, outPath string) error {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("read transcript: %w", err)
	}

	turns, skipped, err := transcript.Parse(strings.NewReader(string(data)))
	if err != nil {
		return fmt.Errorf("parse transcript: %w", err)
	}
	for _, s := range skipped {
		a.logger.Warn(ctx, "%s line %d: %s (skipped)", filepath.Base(inPath), s.Num, s.Reason)
	}

	tokens := transcript.Tokens(turns)
	a.logger.Info(ctx, "Found %d speakers in %s", len(tokens), filepath.Base(inPath))

	mapping := make(map[string]string, len(tokens))
	for _, token := range tokens {
		samples := transcript.SpeakerLines(turns, token)
		if len(samples) > a.sampleLines {
			samples = samples[:a.sampleLines]
		}

		name, err := a.prompter.Resolve(ctx, token, samples)
		if err != nil {
			return fmt.Errorf("resolve speaker %s: %w", token, err)
		}
		mapping[token] = name
	}

	a.logger.Info(ctx, "Alignment for %s: %v", filepath.Base(inPath), mapping)

	lines := strings.Split(string(data), "\n")
	for i, line := range lines {
		token, rest, ok := transcript.LeadingToken(line)
		if !ok {
			continue
		}
		if name, mapped := mapping[token]; mapped {
			lines[i] = name + line[rest:]
		}
	}

	if err := os.WriteFile(outPath, []byte(strings.Join(lines, "\n")), 0644); err != nil {
		return fmt.Errorf("write aligned transcript: %w", err)
	}

	if a.recorder != nil {
		session := transcript.SessionID(inPath)
		if err := a.recorder.RecordAlign(ctx, session, mapping); err != nil {
			a.logger.Warn(ctx, "Failed to record alignment for %s: %v", session, err)
		}
	}

	return nil
}

// AlignDir aligns every transcript in inDir that has no aligned output yet.
// An operator abort stops the pass; any other per-file failure skips that
// file and continues.
func (a *implAligner) AlignDir(ctx context.Context, inDir, outDir string) (Result, error) {
	var res Result

	entries, err := os.ReadDir(inDir)
	if err != nil {
		return res, fmt.Errorf("read input dir: %w", err)
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return res, fmt.Errorf("create output dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".txt" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		outPath := filepath.Join(outDir, name)
		if _, err := os.Stat(outPath); err == nil {
			a.logger.Debug(ctx, "Already aligned: %s", name)
			continue
		}

		if err := a.Align(ctx, filepath.Join(inDir, name), outPath); err != nil {
			if errors.Is(err, ErrAborted) {
				a.logger.Info(ctx, "Aborted during %s; nothing written for this session", name)
				return res, ErrAborted
			}
			a.logger.Error(ctx, "Failed to align %s: %v", name, err)
			res.Skipped++
			continue
		}
		res.Aligned++
	}

	return res, nil
}
