package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Paths     PathsConfig     `yaml:"paths"`
	Rename    RenameConfig    `yaml:"rename"`
	Align     AlignConfig     `yaml:"align"`
	Annotator AnnotatorConfig `yaml:"annotator"`
	LIWC      LIWCConfig      `yaml:"liwc"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type PathsConfig struct {
	Raw       string `yaml:"raw"`
	Renamed   string `yaml:"renamed"`
	Aligned   string `yaml:"aligned"`
	LIWCOut   string `yaml:"liwc_out"`
	Annotated string `yaml:"annotated_out"`
	DB        string `yaml:"db"`
}

// RenameConfig carries the legacy filename grammar. The grammar is
// convention-driven and changes per study wave, so both the patterns and the
// subject/visit session table live in configuration rather than code.
type RenameConfig struct {
	// Patterns are regexes matched against raw filenames. Each must define
	// named groups "subject" and "visit".
	Patterns []string `yaml:"patterns"`

	// Sessions maps subject key -> visit number -> canonical session ID
	// (e.g. HXXCM -> 3 -> 170208_MS0034).
	Sessions map[string]map[string]string `yaml:"sessions"`
}

type AlignConfig struct {
	Roles       []string `yaml:"roles"`
	SampleLines int      `yaml:"sample_lines"`
}

type AnnotatorConfig struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

type LIWCConfig struct {
	Speaker    string   `yaml:"speaker"`
	RemoveTags []string `yaml:"remove_tags"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads and validates a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if len(c.Rename.Patterns) == 0 {
		return fmt.Errorf("rename.patterns is required")
	}
	for _, p := range c.Rename.Patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return fmt.Errorf("rename.patterns: invalid pattern %q: %w", p, err)
		}
		if !hasGroup(re, "subject") || !hasGroup(re, "visit") {
			return fmt.Errorf("rename.patterns: pattern %q must define named groups \"subject\" and \"visit\"", p)
		}
	}
	if len(c.Rename.Sessions) == 0 {
		return fmt.Errorf("rename.sessions is required")
	}

	if c.Paths.Raw == "" {
		c.Paths.Raw = "_data/raw_transcripts"
	}
	if c.Paths.Renamed == "" {
		c.Paths.Renamed = "_data/renamed_transcripts"
	}
	if c.Paths.Aligned == "" {
		c.Paths.Aligned = "_data/aligned_transcripts"
	}
	if c.Paths.LIWCOut == "" {
		c.Paths.LIWCOut = "_data/liwc_transcripts"
	}
	if c.Paths.Annotated == "" {
		c.Paths.Annotated = "_data/annotated_transcripts"
	}
	if c.Paths.DB == "" {
		c.Paths.DB = "_data/sessions.db"
	}

	if len(c.Align.Roles) == 0 {
		c.Align.Roles = []string{"Participant", "Clinician", "RA"}
	}
	if c.Align.SampleLines == 0 {
		c.Align.SampleLines = 10
	}

	if c.LIWC.Speaker == "" {
		c.LIWC.Speaker = "Participant"
	}
	if c.LIWC.RemoveTags == nil {
		c.LIWC.RemoveTags = []string{
			"[inaudible]", "[laughter]", "[crosstalk]", "[redacted]",
		}
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	return nil
}

func hasGroup(re *regexp.Regexp, name string) bool {
	for _, n := range re.SubexpNames() {
		if n == name {
			return true
		}
	}
	return false
}
