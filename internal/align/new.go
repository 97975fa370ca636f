package align

import (
	"github.com/hmlab/transcript-prep/internal/config"
	"github.com/hmlab/transcript-prep/internal/logger"
)

type implAligner struct {
	prompter    Prompter
	recorder    Recorder
	sampleLines int
	logger      logger.Logger
}

// New creates a new Aligner instance. The recorder may be nil when session
// bookkeeping is not wanted.
func New(cfg config.AlignConfig, prompter Prompter, rec Recorder, log logger.Logger) Aligner {
	return &implAligner{
		prompter:    prompter,
		recorder:    rec,
		sampleLines: cfg.SampleLines,
		logger:      log,
	}
}
