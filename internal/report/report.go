package report

import (
	"fmt"
	"time"

	"github.com/hmlab/transcript-prep/internal/store"
)

// Data is everything one batch report renders: the run outcome plus the
// session ledger. Counts only; no transcript text appears in a report.
type Data struct {
	RunID       string
	GeneratedAt time.Time
	Annotate    bool
	LIWC        bool
	Processed   int
	Failed      int
	Failures    []string
	Sessions    []store.Session
}

func (d Data) title() string {
	return "Transcript Preparation Report"
}

func (d Data) flagLine() string {
	steps := ""
	if d.Annotate {
		steps = "disfluency annotation"
	}
	if d.LIWC {
		if steps != "" {
			steps += ", "
		}
		steps += "LIWC export"
	}
	if steps == "" {
		steps = "none"
	}
	return "Steps: " + steps
}

func (d Data) summaryLines() []string {
	lines := []string{
		fmt.Sprintf("Run: %s", d.RunID),
		fmt.Sprintf("Generated: %s", d.GeneratedAt.Format("2006-01-02 15:04:05")),
		d.flagLine(),
		fmt.Sprintf("Transcripts processed: %d", d.Processed),
		fmt.Sprintf("Transcripts failed: %d", d.Failed),
	}
	return lines
}

func sessionLine(s store.Session) string {
	return fmt.Sprintf("%s  (subject %s, visit %s)  edits: %d  repeats: %d  restarts: %d  exported lines: %d",
		s.Session, orDash(s.Subject), orDash(s.Visit),
		s.EditCount, s.RepeatCount, s.RestartCount, s.ExportLines)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
