package report

import (
	"fmt"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const (
	fontName = "Times New Roman"
	fontSize = 12
)

// Write renders the batch report as a docx file.
func Write(outputPath string, d Data) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}

	addStyledRun(doc.AddParagraph(""), d.title(), true, 16)
	doc.AddParagraph("")

	for _, line := range d.summaryLines() {
		addStyledRun(doc.AddParagraph(""), line, false, fontSize)
	}

	if len(d.Failures) > 0 {
		doc.AddParagraph("")
		addStyledRun(doc.AddParagraph(""), "Failures", true, 14)
		for _, f := range d.Failures {
			addStyledRun(doc.AddParagraph(""), "• "+f, false, fontSize)
		}
	}

	doc.AddParagraph("")
	addStyledRun(doc.AddParagraph(""), "Sessions", true, 14)
	if len(d.Sessions) == 0 {
		addStyledRun(doc.AddParagraph(""), "No sessions recorded.", false, fontSize)
	}
	for _, s := range d.Sessions {
		addStyledRun(doc.AddParagraph(""), "• "+sessionLine(s), false, fontSize)
	}

	if err := doc.SaveTo(outputPath); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}
