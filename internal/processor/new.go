package processor

import (
	"github.com/hmlab/transcript-prep/internal/config"
	"github.com/hmlab/transcript-prep/internal/disfluency"
	"github.com/hmlab/transcript-prep/internal/liwc"
	"github.com/hmlab/transcript-prep/internal/logger"
)

type implProcessor struct {
	cfg       *config.Config
	opts      Options
	annotator disfluency.Annotator
	exporter  *liwc.Exporter
	recorder  Recorder
	logger    logger.Logger
}

// New creates a new Processor instance. The recorder may be nil when session
// bookkeeping is not wanted.
func New(cfg *config.Config, opts Options, ann disfluency.Annotator, exp *liwc.Exporter, rec Recorder, log logger.Logger) Processor {
	return &implProcessor{
		cfg:       cfg,
		opts:      opts,
		annotator: ann,
		exporter:  exp,
		recorder:  rec,
		logger:    log,
	}
}
