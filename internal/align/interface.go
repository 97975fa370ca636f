package align

import (
	"context"
	"errors"
)

// ErrAborted is returned when the operator abandons an in-progress mapping.
// Nothing is written for the session in that case.
var ErrAborted = errors.New("alignment aborted by operator")

// Aligner rewrites transcripts, replacing speaker tokens with resolved names.
type Aligner interface {
	Align(ctx context.Context, inPath, outPath string) error
	AlignDir(ctx context.Context, inDir, outDir string) (Result, error)
}

// Prompter resolves one speaker token to a display name. The console
// implementation blocks on operator input; tests substitute their own.
type Prompter interface {
	Resolve(ctx context.Context, token string, samples []string) (string, error)
}

// Recorder persists a completed alignment. Satisfied by store.Store.
type Recorder interface {
	RecordAlign(ctx context.Context, session string, mapping map[string]string) error
}

// Result tallies one alignment pass over a directory.
type Result struct {
	Aligned int
	Skipped int
}
