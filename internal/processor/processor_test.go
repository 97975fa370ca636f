package processor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hmlab/transcript-prep/internal/config"
	"github.com/hmlab/transcript-prep/internal/liwc"
	"github.com/hmlab/transcript-prep/internal/logger"
)

// stubAnnotator tags every word fluent except "uh", which becomes an edit
// term. Fails for utterances containing failOn.
type stubAnnotator struct {
	failOn string
}

func (s *stubAnnotator) Tag(ctx context.Context, utterance string) ([]string, error) {
	if s.failOn != "" && strings.Contains(utterance, s.failOn) {
		return nil, errors.New("tagger crashed")
	}
	words := strings.Fields(utterance)
	tags := make([]string, len(words))
	for i, w := range words {
		if w == "uh" {
			tags[i] = "<e/>"
		} else {
			tags[i] = "<f/>"
		}
	}
	return tags, nil
}

type fakeRecorder struct {
	annotations map[string][3]int
	exports     map[string]int
	runs        int
	finished    bool
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{
		annotations: make(map[string][3]int),
		exports:     make(map[string]int),
	}
}

func (f *fakeRecorder) RecordAnnotation(ctx context.Context, session string, edit, repeat, restart int) error {
	f.annotations[session] = [3]int{edit, repeat, restart}
	return nil
}

func (f *fakeRecorder) RecordExport(ctx context.Context, session string, lines int) error {
	f.exports[session] = lines
	return nil
}

func (f *fakeRecorder) BeginRun(ctx context.Context, annotate, liwc bool) (string, error) {
	f.runs++
	return "run-1", nil
}

func (f *fakeRecorder) FinishRun(ctx context.Context, id string, processed, failed int) error {
	f.finished = true
	return nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := &config.Config{
		Paths: config.PathsConfig{
			Raw:       filepath.Join(root, "raw"),
			Renamed:   filepath.Join(root, "renamed"),
			Aligned:   filepath.Join(root, "aligned"),
			LIWCOut:   filepath.Join(root, "liwc"),
			Annotated: filepath.Join(root, "annotated"),
			DB:        filepath.Join(root, "sessions.db"),
		},
		Rename: config.RenameConfig{
			Patterns: []string{`^MULTISENSE_(?P<subject>[A-Z0-9]+)_.*_visit(?P<visit>\d+)\.txt$`},
			Sessions: map[string]map[string]string{"HXXCM": {"3": "170208_MS0034"}},
		},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if err := os.MkdirAll(cfg.Paths.Aligned, 0755); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func writeAligned(t *testing.T, cfg *config.Config, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(cfg.Paths.Aligned, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func newTestProcessor(cfg *config.Config, opts Options, ann *stubAnnotator, rec Recorder) Processor {
	return New(cfg, opts, ann, liwc.New(cfg.LIWC), rec, logger.NewNop())
}

func TestRunLIWCExport(t *testing.T) {
	cfg := testConfig(t)
	writeAligned(t, cfg, "170208_MS0034.txt",
		"Participant\t0:00:01\tHello there.\nClinician\t0:00:04\tHi.\n")
	writeAligned(t, cfg, "240521_MS0059.txt",
		"Participant\t0:00:01\tI'm fine.\n")

	rec := newFakeRecorder()
	p := newTestProcessor(cfg, Options{LIWC: true}, &stubAnnotator{}, rec)

	sum, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if sum.Processed != 2 || sum.Failed != 0 {
		t.Fatalf("Summary = %+v", sum)
	}

	// Exactly one export per transcript, none containing speaker tokens.
	for _, session := range []string{"170208_MS0034", "240521_MS0059"} {
		data, err := os.ReadFile(filepath.Join(cfg.Paths.LIWCOut, session+".txt"))
		if err != nil {
			t.Fatalf("missing export for %s: %v", session, err)
		}
		for _, label := range []string{"Participant", "Clinician", "S1", "S2"} {
			if strings.Contains(string(data), label) {
				t.Errorf("%s export contains %q", session, label)
			}
		}
	}
	if rec.exports["170208_MS0034"] != 1 {
		t.Errorf("recorded export lines = %d, want 1", rec.exports["170208_MS0034"])
	}
}

func TestRunAnnotate(t *testing.T) {
	cfg := testConfig(t)
	writeAligned(t, cfg, "170208_MS0034.txt",
		"Participant\t0:00:01\tuh hello\nClinician\t0:00:04\tokay\n")

	rec := newFakeRecorder()
	p := newTestProcessor(cfg, Options{Annotate: true}, &stubAnnotator{}, rec)

	sum, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if sum.Processed != 1 {
		t.Fatalf("Summary = %+v", sum)
	}

	data, err := os.ReadFile(filepath.Join(cfg.Paths.Annotated, "170208_MS0034.tsv"))
	if err != nil {
		t.Fatalf("missing annotated TSV: %v", err)
	}
	if !strings.HasPrefix(string(data), "speaker\ttimestamp\tedit\trepeat\trestart\ttext\n") {
		t.Errorf("TSV header = %q", data)
	}
	if !strings.Contains(string(data), "Participant\t0:00:01\t1\t0\t0\tuh hello\n") {
		t.Errorf("TSV missing annotated row: %q", data)
	}

	if got := rec.annotations["170208_MS0034"]; got != [3]int{1, 0, 0} {
		t.Errorf("recorded annotation = %v", got)
	}
	if rec.runs != 1 || !rec.finished {
		t.Errorf("run bookkeeping: runs=%d finished=%v", rec.runs, rec.finished)
	}
}

func TestRunSkipsFailedFileAndContinues(t *testing.T) {
	cfg := testConfig(t)
	writeAligned(t, cfg, "170208_MS0034.txt", "Participant\t0:00:01\tthe bad one\n")
	writeAligned(t, cfg, "240521_MS0059.txt", "Participant\t0:00:01\tall good\n")

	p := newTestProcessor(cfg, Options{Annotate: true, LIWC: true}, &stubAnnotator{failOn: "bad"}, nil)

	sum, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if sum.Processed != 1 || sum.Failed != 1 {
		t.Fatalf("Summary = %+v", sum)
	}
	if len(sum.Failures) != 1 || !strings.Contains(sum.Failures[0], "170208_MS0034") {
		t.Errorf("Failures = %v", sum.Failures)
	}

	// The healthy file still got its export.
	if _, err := os.Stat(filepath.Join(cfg.Paths.LIWCOut, "240521_MS0059.txt")); err != nil {
		t.Errorf("missing export for healthy session: %v", err)
	}
}

func TestRunEmptyDir(t *testing.T) {
	cfg := testConfig(t)
	p := newTestProcessor(cfg, Options{LIWC: true}, &stubAnnotator{}, nil)

	sum, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if sum.Processed != 0 || sum.Failed != 0 {
		t.Errorf("Summary = %+v", sum)
	}
}
