package rename

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/hmlab/transcript-prep/internal/config"
	"github.com/hmlab/transcript-prep/internal/logger"
	"github.com/hmlab/transcript-prep/internal/transcript"
)

var (
	// ErrNoPattern means the filename matched none of the configured
	// legacy patterns. The normalizer never guesses.
	ErrNoPattern = errors.New("filename matches no known pattern")

	// ErrUnknownSession means the subject/visit pair extracted from the
	// filename has no entry in the session table.
	ErrUnknownSession = errors.New("no session entry for subject/visit")
)

// canonicalRe is the shape every normalized filename must have: YYMMDD_SITEID.
var canonicalRe = regexp.MustCompile(`^\d{6}_[A-Z0-9]+\.txt$`)

// Recorder persists a successful normalization. Satisfied by store.Store.
type Recorder interface {
	RecordRename(ctx context.Context, session, subject, visit, original string) error
}

// Normalizer converts legacy transcript filenames to the canonical
// YYMMDD_SITEID.txt format using configured patterns and a session table.
type Normalizer struct {
	patterns []*regexp.Regexp
	sessions map[string]map[string]string
}

// New compiles the configured legacy patterns. Config validation has already
// checked the named groups, so a compile failure here is a hard error.
func New(cfg config.RenameConfig) (*Normalizer, error) {
	n := &Normalizer{sessions: cfg.Sessions}
	for _, p := range cfg.Patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile pattern %q: %w", p, err)
		}
		n.patterns = append(n.patterns, re)
	}
	return n, nil
}

// Normalize maps a legacy filename to its canonical form.
func (n *Normalizer) Normalize(filename string) (string, error) {
	for _, re := range n.patterns {
		match := re.FindStringSubmatch(filename)
		if match == nil {
			continue
		}

		subject := match[re.SubexpIndex("subject")]
		visit := match[re.SubexpIndex("visit")]

		session, ok := n.sessions[subject][visit]
		if !ok {
			return "", fmt.Errorf("%w: subject %s visit %s", ErrUnknownSession, subject, visit)
		}

		canonical := session + ".txt"
		if !canonicalRe.MatchString(canonical) {
			return "", fmt.Errorf("session table entry %q is not canonical", session)
		}
		return canonical, nil
	}
	return "", fmt.Errorf("%w: %s", ErrNoPattern, filename)
}

// Subject extracts the subject and visit keys from a legacy filename,
// for bookkeeping alongside the canonical name.
func (n *Normalizer) Subject(filename string) (subject, visit string, ok bool) {
	for _, re := range n.patterns {
		match := re.FindStringSubmatch(filename)
		if match == nil {
			continue
		}
		return match[re.SubexpIndex("subject")], match[re.SubexpIndex("visit")], true
	}
	return "", "", false
}

// Result tallies one normalization pass over a directory.
type Result struct {
	Renamed int
	Skipped int
}

// Apply normalizes every file in rawDir into outDir. Files that match no
// pattern or no session entry are reported and skipped; the pass continues.
// Existing outputs are left alone so reruns are safe.
func (n *Normalizer) Apply(ctx context.Context, rawDir, outDir string, rec Recorder, log logger.Logger) (Result, error) {
	var res Result

	entries, err := os.ReadDir(rawDir)
	if err != nil {
		return res, fmt.Errorf("read raw dir: %w", err)
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return res, fmt.Errorf("create output dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		canonical, err := n.Normalize(name)
		if err != nil {
			log.Warn(ctx, "Skipping %s: %v", name, err)
			res.Skipped++
			continue
		}

		dest := filepath.Join(outDir, canonical)
		if _, err := os.Stat(dest); err == nil {
			log.Debug(ctx, "Already normalized: %s -> %s", name, canonical)
			continue
		}

		if err := copyFile(filepath.Join(rawDir, name), dest); err != nil {
			log.Warn(ctx, "Skipping %s: %v", name, err)
			res.Skipped++
			continue
		}

		log.Info(ctx, "Normalized %s -> %s", name, canonical)
		res.Renamed++

		if rec != nil {
			subject, visit, _ := n.Subject(name)
			session := transcript.SessionID(canonical)
			if err := rec.RecordRename(ctx, session, subject, visit, name); err != nil {
				log.Warn(ctx, "Failed to record rename for %s: %v", session, err)
			}
		}
	}

	return res, nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return fmt.Errorf("write destination: %w", err)
	}
	return nil
}
