package transcript

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Turn is a single utterance in a session: who spoke, when, and what.
type Turn struct {
	Speaker   string
	Timestamp string
	Text      string
}

// SkippedLine records a transcript line that did not parse as an utterance.
type SkippedLine struct {
	Num    int
	Line   string
	Reason string
}

var (
	tokenRe     = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)
	timestampRe = regexp.MustCompile(`^\[?\d{1,3}:\d{2}(:\d{2})?(\.\d+)?\]?$`)
)

// LeadingToken returns the speaker token at the start of a line, if any,
// together with the index where the remainder of the line begins. The token
// may be terminated by a colon, a tab, or a space; the delimiter stays in
// the remainder so callers can rewrite the line without reformatting it.
func LeadingToken(line string) (token string, rest int, ok bool) {
	i := strings.IndexAny(line, ": \t")
	if i <= 0 {
		return "", 0, false
	}
	token = line[:i]
	if !tokenRe.MatchString(token) {
		return "", 0, false
	}
	return token, i, true
}

// ParseLine parses one utterance line. Aligned transcripts are tab-separated
// speaker/timestamp/text; raw transcripts are whitespace-separated with an
// optional timestamp after the speaker token.
func ParseLine(line string) (Turn, error) {
	if strings.Contains(line, "\t") {
		parts := strings.SplitN(line, "\t", 3)
		if len(parts) < 3 || parts[0] == "" {
			return Turn{}, fmt.Errorf("expected speaker, timestamp, text columns")
		}
		if !tokenRe.MatchString(parts[0]) {
			return Turn{}, fmt.Errorf("no speaker token")
		}
		return Turn{Speaker: parts[0], Timestamp: parts[1], Text: parts[2]}, nil
	}

	token, rest, ok := LeadingToken(line)
	if !ok {
		return Turn{}, fmt.Errorf("no speaker token")
	}

	remainder := strings.TrimLeft(line[rest:], ": \t")
	fields := strings.Fields(remainder)
	if len(fields) == 0 {
		return Turn{}, fmt.Errorf("no utterance text")
	}

	turn := Turn{Speaker: token}
	if timestampRe.MatchString(fields[0]) {
		turn.Timestamp = fields[0]
		fields = fields[1:]
	}
	if len(fields) == 0 {
		return Turn{}, fmt.Errorf("no utterance text")
	}
	turn.Text = strings.Join(fields, " ")

	return turn, nil
}

// Parse reads utterance turns from a transcript. Blank lines and bracketed
// annotation lines ([silence] and friends) are not utterances and are
// dropped silently; anything else that fails to parse is reported back as a
// skipped line.
func Parse(r io.Reader) ([]Turn, []SkippedLine, error) {
	var (
		turns   []Turn
		skipped []SkippedLine
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	num := 0
	for scanner.Scan() {
		num++
		line := scanner.Text()

		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "[") {
			continue
		}

		turn, err := ParseLine(line)
		if err != nil {
			skipped = append(skipped, SkippedLine{Num: num, Line: line, Reason: err.Error()})
			continue
		}
		turns = append(turns, turn)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("scan transcript: %w", err)
	}

	return turns, skipped, nil
}

// ReadFile parses the utterance turns of a transcript file.
func ReadFile(path string) ([]Turn, []SkippedLine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open transcript: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Tokens returns the distinct speaker tokens in first-seen order.
func Tokens(turns []Turn) []string {
	var tokens []string
	seen := make(map[string]bool)
	for _, t := range turns {
		if !seen[t.Speaker] {
			seen[t.Speaker] = true
			tokens = append(tokens, t.Speaker)
		}
	}
	return tokens
}

// SpeakerLines returns the utterance texts belonging to one speaker token.
func SpeakerLines(turns []Turn, speaker string) []string {
	var lines []string
	for _, t := range turns {
		if t.Speaker == speaker {
			lines = append(lines, t.Text)
		}
	}
	return lines
}

// Render serializes turns in the canonical tab-separated aligned format.
func Render(turns []Turn) string {
	var b strings.Builder
	for _, t := range turns {
		b.WriteString(t.Speaker)
		b.WriteByte('\t')
		b.WriteString(t.Timestamp)
		b.WriteByte('\t')
		b.WriteString(t.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

// WriteFile writes turns to a file in the canonical aligned format.
func WriteFile(path string, turns []Turn) error {
	if err := os.WriteFile(path, []byte(Render(turns)), 0644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	return nil
}

// SessionID derives the session name from a transcript path,
// e.g. _data/aligned_transcripts/170208_MS0034.txt -> 170208_MS0034.
func SessionID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
