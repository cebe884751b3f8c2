package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m1haww/call-recorder-sub000/internal/domain"
)

func TestGeneratePDF(t *testing.T) {
	rec := domain.Recording{
		ID:                  "rec-1",
		CallDate:            "2024-03-01T10:30:00Z",
		FromPhone:           "+15550123456",
		ToPhone:             "+15550199887",
		Duration:            342,
		RecordingStatus:     domain.StatusCompleted,
		TranscriptionStatus: domain.StatusCompleted,
		Title:               "Insurance claim follow-up",
		Transcription:       "Hello, I'm calling about claim 88-40312.\nYes, one moment please.",
		Summary:             "Claim confirmed in review.\nCallback promised.",
	}

	outPath := filepath.Join(t.TempDir(), "pdf", "rec-1.pdf")
	if err := NewPDFService().GeneratePDF(rec, outPath); err != nil {
		t.Fatalf("generate pdf: %v", err)
	}

	info, err := os.Stat(outPath)
	if err != nil {
		t.Fatalf("stat pdf: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("pdf file is empty")
	}
}

func TestGeneratePDFWithEmptySections(t *testing.T) {
	rec := domain.Recording{
		ID:        "rec-2",
		FromPhone: "+15550123456",
		ToPhone:   "+15550144221",
	}

	outPath := filepath.Join(t.TempDir(), "rec-2.pdf")
	if err := NewPDFService().GeneratePDF(rec, outPath); err != nil {
		t.Fatalf("generate pdf with empty sections: %v", err)
	}

	if _, err := os.Stat(outPath); err != nil {
		t.Fatalf("stat pdf: %v", err)
	}
}
