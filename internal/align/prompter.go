package align

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// consolePrompter resolves speaker tokens by asking the operator on the
// terminal. It shows a handful of sample utterances for the token, then
// accepts a numbered role suggestion, free text, or a blank answer to keep
// the token as-is. EOF aborts the whole session.
type consolePrompter struct {
	in    *bufio.Reader
	out   io.Writer
	roles []string
}

// NewConsolePrompter creates a Prompter reading answers from in (normally
// stdin) and writing prompts to out (normally stdout).
func NewConsolePrompter(in io.Reader, out io.Writer, roles []string) Prompter {
	return &consolePrompter{
		in:    bufio.NewReader(in),
		out:   out,
		roles: roles,
	}
}

func (p *consolePrompter) Resolve(ctx context.Context, token string, samples []string) (string, error) {
	fmt.Fprintf(p.out, "\nSpeaker %s:\n", token)
	for _, s := range samples {
		fmt.Fprintf(p.out, "  %s\n", s)
	}

	var choices []string
	for i, role := range p.roles {
		choices = append(choices, fmt.Sprintf("%d: %s", i+1, role))
	}
	fmt.Fprintf(p.out, "Who is this? [%s] ", strings.Join(choices, ", "))

	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		if err == io.EOF {
			return "", ErrAborted
		}
		return "", fmt.Errorf("read answer: %w", err)
	}

	answer := strings.TrimSpace(line)
	if answer == "" {
		// Unidentified speakers keep their token.
		return token, nil
	}

	if idx, err := strconv.Atoi(answer); err == nil {
		if idx >= 1 && idx <= len(p.roles) {
			return p.roles[idx-1], nil
		}
		return token, nil
	}

	return answer, nil
}
