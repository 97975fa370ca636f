package disfluency

import "context"

// Annotator is the narrow contract with the external disfluency tagger:
// utterance text in, one tag per word out (e.g. <f/>, <e/>, <rms id="12"/>).
// Tests substitute a stub.
type Annotator interface {
	Tag(ctx context.Context, utterance string) ([]string, error)
}
