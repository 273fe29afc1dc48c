package docextract

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTabularExtractorCSVRendersPipeTable(t *testing.T) {
	e := &TabularExtractor{}
	path := filepath.Join(t.TempDir(), "substances.csv")
	os.WriteFile(path, []byte("name,hazard_class\nAcetone,flammable\nBenzene,toxic\n"), 0o644)

	record, err := e.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !strings.Contains(record.Content, "| Acetone | flammable |") {
		t.Errorf("expected pipe-rendered row, got %q", record.Content)
	}
	if record.Metadata.ExtractedMetadata["row_count"] != "3" {
		t.Errorf("row_count = %q, want 3 (header + 2 data rows)", record.Metadata.ExtractedMetadata["row_count"])
	}
}

func TestTabularExtractorCSVMissingFileErrors(t *testing.T) {
	e := &TabularExtractor{}
	if _, err := e.Extract(context.Background(), filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("expected an error for a missing CSV file")
	}
}

func TestTabularExtractorSupportedFormats(t *testing.T) {
	e := &TabularExtractor{}
	formats := e.SupportedFormats()
	want := map[string]bool{"xlsx": true, "xls": true, "csv": true}
	if len(formats) != len(want) {
		t.Fatalf("SupportedFormats() = %v, want %v", formats, want)
	}
	for _, f := range formats {
		if !want[f] {
			t.Errorf("unexpected format %q", f)
		}
	}
}
