package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf/v2"

	"github.com/m1haww/call-recorder-sub000/internal/domain"
)

// PDFService renders a call sheet for one recording: header, call
// metadata, then the transcription and summary sections.
type PDFService struct{}

func NewPDFService() *PDFService {
	return &PDFService{}
}

func (s *PDFService) GeneratePDF(rec domain.Recording, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure pdf directory: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Call %s", rec.ID), false)
	pdf.SetAuthor("Call Recorder", false)
	pdf.AddPage()

	title := strings.TrimSpace(rec.Title)
	if title == "" {
		title = fmt.Sprintf("%s to %s", rec.FromPhone, rec.ToPhone)
	}

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, title)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	if when, ok := rec.CallTime(); ok {
		pdf.Cell(0, 6, fmt.Sprintf("Recorded: %s", when.Local().Format("02/01/2006 15:04")))
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, fmt.Sprintf("From: %s", rec.FromPhone))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("To: %s", rec.ToPhone))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Duration: %s", formatDuration(rec.Duration)))
	pdf.Ln(12)

	s.writeSection(pdf, "Transcription", rec.Transcription, false)
	pdf.Ln(8)
	s.writeSection(pdf, "Summary", rec.Summary, true)

	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}

	return nil
}

func (s *PDFService) writeSection(pdf *gofpdf.Fpdf, title, content string, bullet bool) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, title)
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 12)

	content = strings.TrimSpace(content)
	if content == "" {
		pdf.MultiCell(0, 6, "(none)", "", "L", false)
		return
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		text := line
		if bullet {
			text = fmt.Sprintf("- %s", line)
		}
		pdf.MultiCell(0, 6, text, "", "L", false)
	}
}

func formatDuration(seconds int) string {
	d := time.Duration(seconds) * time.Second
	if d >= time.Hour {
		return fmt.Sprintf("%d:%02d:%02d", int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60)
	}
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
