package disfluency

import (
	"context"
	"fmt"
	"strings"

	"github.com/hmlab/transcript-prep/internal/config"
	"github.com/hmlab/transcript-prep/pkg/executor"
)

type commandAnnotator struct {
	command string
	args    []string
	exec    executor.Executor
}

// NewCommand creates an Annotator backed by the configured external tagger
// command. The utterance goes in on stdin; the tagger prints one
// whitespace-separated tag per word on stdout.
func NewCommand(cfg config.AnnotatorConfig, exec executor.Executor) Annotator {
	return &commandAnnotator{
		command: cfg.Command,
		args:    cfg.Args,
		exec:    exec,
	}
}

func (a *commandAnnotator) Tag(ctx context.Context, utterance string) ([]string, error) {
	if a.command == "" {
		return nil, fmt.Errorf("annotator command not configured")
	}

	out, err := a.exec.ExecuteStdin(ctx, utterance, a.command, a.args...)
	if err != nil {
		return nil, fmt.Errorf("tag utterance: %w", err)
	}

	return strings.Fields(out), nil
}
