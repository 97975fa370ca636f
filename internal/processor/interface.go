package processor

import "context"

// Processor runs the enabled batch steps over aligned transcripts.
type Processor interface {
	Process(ctx context.Context, path string) error
	Run(ctx context.Context) (Summary, error)
}

// Options selects which steps a batch run performs.
type Options struct {
	Annotate bool
	LIWC     bool
}

// Recorder persists batch bookkeeping. Satisfied by store.Store.
type Recorder interface {
	RecordAnnotation(ctx context.Context, session string, edit, repeat, restart int) error
	RecordExport(ctx context.Context, session string, lines int) error
	BeginRun(ctx context.Context, annotate, liwc bool) (string, error)
	FinishRun(ctx context.Context, id string, processed, failed int) error
}

// Summary is the outcome of one batch run.
type Summary struct {
	RunID     string
	Processed int
	Failed    int
	Failures  []string
}
