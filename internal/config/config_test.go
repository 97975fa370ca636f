package config

import (
	"os"
	"testing"
)

func validConfig() Config {
	return Config{
		Rename: RenameConfig{
			Patterns: []string{`^MULTISENSE_(?P<subject>[A-Z0-9]+)_.*_visit(?P<visit>\d+)\.txt$`},
			Sessions: map[string]map[string]string{
				"HXXCM": {"3": "170208_MS0034"},
			},
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing patterns",
			mutate:  func(c *Config) { c.Rename.Patterns = nil },
			wantErr: true,
		},
		{
			name:    "missing sessions",
			mutate:  func(c *Config) { c.Rename.Sessions = nil },
			wantErr: true,
		},
		{
			name:    "invalid pattern",
			mutate:  func(c *Config) { c.Rename.Patterns = []string{`([unclosed`} },
			wantErr: true,
		},
		{
			name:    "pattern missing named groups",
			mutate:  func(c *Config) { c.Rename.Patterns = []string{`^([A-Z0-9]+)_visit(\d+)\.txt$`} },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if cfg.Paths.Raw != "_data/raw_transcripts" {
		t.Errorf("Paths.Raw = %q, want default", cfg.Paths.Raw)
	}
	if cfg.Paths.DB != "_data/sessions.db" {
		t.Errorf("Paths.DB = %q, want default", cfg.Paths.DB)
	}
	if len(cfg.Align.Roles) != 3 || cfg.Align.Roles[0] != "Participant" {
		t.Errorf("Align.Roles = %v, want default roles", cfg.Align.Roles)
	}
	if cfg.Align.SampleLines != 10 {
		t.Errorf("Align.SampleLines = %d, want 10", cfg.Align.SampleLines)
	}
	if cfg.LIWC.Speaker != "Participant" {
		t.Errorf("LIWC.Speaker = %q, want Participant", cfg.LIWC.Speaker)
	}
	if len(cfg.LIWC.RemoveTags) == 0 {
		t.Error("LIWC.RemoveTags empty, want defaults")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoad(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	content := `
paths:
  raw: "testdata/raw"
  aligned: "testdata/aligned"

rename:
  patterns:
    - '^MULTISENSE_(?P<subject>[A-Z0-9]+)_.*_visit(?P<visit>\d+)\.txt$'
  sessions:
    HXXCM:
      "3": "170208_MS0034"

align:
  roles: ["Participant", "Interviewer"]

annotator:
  command: "disfluency-tagger"
  args: ["--stdin"]

logging:
  level: "debug"
`

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Paths.Raw != "testdata/raw" {
		t.Errorf("Paths.Raw = %q, want testdata/raw", cfg.Paths.Raw)
	}
	if cfg.Paths.Renamed != "_data/renamed_transcripts" {
		t.Errorf("Paths.Renamed = %q, want default", cfg.Paths.Renamed)
	}
	if got := cfg.Rename.Sessions["HXXCM"]["3"]; got != "170208_MS0034" {
		t.Errorf("Sessions[HXXCM][3] = %q, want 170208_MS0034", got)
	}
	if len(cfg.Align.Roles) != 2 {
		t.Errorf("Align.Roles = %v, want two roles", cfg.Align.Roles)
	}
	if cfg.Annotator.Command != "disfluency-tagger" {
		t.Errorf("Annotator.Command = %q", cfg.Annotator.Command)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("no/such/config.yaml"); err == nil {
		t.Error("Load() expected error for missing file")
	}
}
