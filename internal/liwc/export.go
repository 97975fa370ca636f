package liwc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hmlab/transcript-prep/internal/config"
	"github.com/hmlab/transcript-prep/internal/transcript"
)

// asciiPunct is the punctuation stripped from utterances before export.
const asciiPunct = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Exporter produces LIWC-ready plaintext documents: one file per session,
// one cleaned utterance per line, speaker labels stripped.
type Exporter struct {
	speaker    string
	removeTags []string
}

// New creates an Exporter from config: which speaker's utterances to keep
// and which bracket annotations to remove.
func New(cfg config.LIWCConfig) *Exporter {
	return &Exporter{
		speaker:    cfg.Speaker,
		removeTags: cfg.RemoveTags,
	}
}

// CleanText normalizes one utterance for LIWC: annotation tags removed,
// punctuation stripped, lowercased, whitespace collapsed.
func (e *Exporter) CleanText(text string) string {
	for _, tag := range e.removeTags {
		text = strings.ReplaceAll(text, tag, "")
	}

	text = strings.Map(func(r rune) rune {
		if strings.ContainsRune(asciiPunct, r) {
			return -1
		}
		return r
	}, text)

	text = strings.ToLower(strings.Join(strings.Fields(text), " "))
	return text
}

// ExportLines returns the cleaned document lines for one session. Only the
// configured speaker's utterances are kept; utterances that clean down to
// nothing are dropped.
func (e *Exporter) ExportLines(turns []transcript.Turn) []string {
	var lines []string
	for _, t := range turns {
		if t.Speaker != e.speaker {
			continue
		}
		if cleaned := e.CleanText(t.Text); cleaned != "" {
			lines = append(lines, cleaned)
		}
	}
	return lines
}

// WriteDocument writes one session's cleaned lines as a LIWC document.
func WriteDocument(outDir, session string, lines []string) error {
	outPath := filepath.Join(outDir, session+".txt")
	if err := os.WriteFile(outPath, []byte(strings.Join(lines, "\n")), 0644); err != nil {
		return fmt.Errorf("write LIWC export: %w", err)
	}
	return nil
}

// ExportFile writes the LIWC document for one aligned transcript into
// outDir, returning the number of exported lines.
func (e *Exporter) ExportFile(inPath, outDir string) (int, error) {
	turns, _, err := transcript.ReadFile(inPath)
	if err != nil {
		return 0, err
	}

	lines := e.ExportLines(turns)
	if err := WriteDocument(outDir, transcript.SessionID(inPath), lines); err != nil {
		return 0, err
	}

	return len(lines), nil
}
