package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/devbush/tubescribe/internal/domain"
)

// DocxFileName is the name of the optional Word rendering of a report.
const DocxFileName = "combined_transcript.docx"

const (
	fontName = "Times New Roman"
	fontSize = 12
)

// DocxRenderer renders a combined report as a Word document.
type DocxRenderer struct {
	title string
}

// NewDocxRenderer creates a renderer; title heads the document.
func NewDocxRenderer(title string) *DocxRenderer {
	if title == "" {
		title = "Combined transcript"
	}
	return &DocxRenderer{title: title}
}

// Render writes <batchRoot>/combined_transcript.docx.
func (r *DocxRenderer) Render(batchRoot string, report *domain.CombinedReport) (string, error) {
	doc, err := godocx.NewDocument()
	if err != nil {
		return "", fmt.Errorf("failed to create document: %w", err)
	}

	addStyledRun(doc.AddParagraph(""), r.title, true, 16, "000000")

	for _, entry := range report.Entries() {
		addStyledRun(doc.AddParagraph(""), entry.URL, true, 13, "000000")

		color := "000000"
		if entry.Failed {
			color = "C00000"
		}
		for _, line := range strings.Split(entry.Body, "\n") {
			addStyledRun(doc.AddParagraph(""), line, false, fontSize, color)
		}
		doc.AddParagraph("")
	}

	path := filepath.Join(batchRoot, DocxFileName)
	if err := doc.SaveTo(path); err != nil {
		return "", domain.NewTaskError(domain.KindFilesystem, "failed to write docx report", err)
	}
	return path, nil
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64, color string) {
	run := p.AddText(text).Font(fontName).Size(size).Color(color)
	if bold {
		run.Bold(true)
	}
}
