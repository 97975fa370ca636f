package disfluency

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hmlab/transcript-prep/internal/transcript"
)

// Annotation pairs one utterance with its tag stream and repair counts.
type Annotation struct {
	Turn   transcript.Turn
	Tags   []string
	Counts Counts
}

// AnnotateTurns runs the tagger over every utterance. A tagger failure on
// any utterance fails the whole transcript; the batch driver treats that as
// a per-file skip.
func AnnotateTurns(ctx context.Context, ann Annotator, turns []transcript.Turn) ([]Annotation, error) {
	annotations := make([]Annotation, 0, len(turns))
	for i, turn := range turns {
		tags, err := ann.Tag(ctx, turn.Text)
		if err != nil {
			return nil, fmt.Errorf("utterance %d: %w", i+1, err)
		}
		annotations = append(annotations, Annotation{
			Turn:   turn,
			Tags:   tags,
			Counts: Count(tags),
		})
	}
	return annotations, nil
}

// Totals sums the repair counts over a whole session.
func Totals(annotations []Annotation) Counts {
	var total Counts
	for _, a := range annotations {
		total.Add(a.Counts)
	}
	return total
}

// WriteTSV writes the annotated session as a tab-separated file with one
// utterance per row: speaker, timestamp, edit, repeat, restart, text.
func WriteTSV(path string, annotations []Annotation) error {
	var b strings.Builder
	b.WriteString("speaker\ttimestamp\tedit\trepeat\trestart\ttext\n")
	for _, a := range annotations {
		fmt.Fprintf(&b, "%s\t%s\t%d\t%d\t%d\t%s\n",
			a.Turn.Speaker, a.Turn.Timestamp,
			a.Counts.Edit, a.Counts.Repeat, a.Counts.Restart,
			a.Turn.Text)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write annotated transcript: %w", err)
	}
	return nil
}
