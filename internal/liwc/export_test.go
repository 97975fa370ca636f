package liwc

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/hmlab/transcript-prep/internal/config"
	"github.com/hmlab/transcript-prep/internal/transcript"
)

func testExporter() *Exporter {
	cfg := config.LIWCConfig{
		Speaker:    "Participant",
		RemoveTags: []string{"[inaudible]", "[laughter]", "[crosstalk]", "[redacted]"},
	}
	return New(cfg)
}

func TestCleanText(t *testing.T) {
	e := testExporter()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "I Guess So", "i guess so"},
		{"strips punctuation", "well, I don't know...", "well i dont know"},
		{"removes annotation tags", "so [laughter] anyway [inaudible]", "so anyway"},
		{"collapses whitespace", "one    two\tthree", "one two three"},
		{"cleans to empty", "[redacted]", ""},
		{"punctuation only", "...?!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.CleanText(tt.in); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExportLines(t *testing.T) {
	e := testExporter()

	turns := []transcript.Turn{
		{Speaker: "Clinician", Text: "How are you feeling?"},
		{Speaker: "Participant", Text: "Pretty good, I think."},
		{Speaker: "Participant", Text: "[inaudible]"},
		{Speaker: "RA", Text: "One moment."},
		{Speaker: "Participant", Text: "Yeah."},
	}

	got := e.ExportLines(turns)
	want := []string{"pretty good i think", "yeah"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExportLines() = %v, want %v", got, want)
	}
}

func TestExportFile(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()

	content := "Participant\t0:00:01\tHello there.\n" +
		"Clinician\t0:00:04\tHi, how are you?\n" +
		"Participant\t0:00:08\tI'm okay [laughter] mostly.\n"
	inPath := filepath.Join(inDir, "170208_MS0034.txt")
	if err := os.WriteFile(inPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	e := testExporter()
	n, err := e.ExportFile(inPath, outDir)
	if err != nil {
		t.Fatalf("ExportFile() error = %v", err)
	}
	if n != 2 {
		t.Errorf("exported %d lines, want 2", n)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "170208_MS0034.txt"))
	if err != nil {
		t.Fatal(err)
	}

	want := "hello there\nim okay mostly"
	if string(data) != want {
		t.Errorf("export = %q, want %q", data, want)
	}

	// No speaker labels survive into the export.
	for _, label := range []string{"Participant", "Clinician", "S1", "S2"} {
		if strings.Contains(string(data), label) {
			t.Errorf("export contains speaker label %q", label)
		}
	}
}
