package docextract

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPlainTextExtractorReadsVerbatim(t *testing.T) {
	e := &PlainTextExtractor{}
	path := filepath.Join(t.TempDir(), "notes.txt")
	content := "line one\nline two"
	os.WriteFile(path, []byte(content), 0o644)

	record, err := e.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if record.Content != content {
		t.Errorf("Content = %q, want %q", record.Content, content)
	}
}

func TestPlainTextExtractorJSONListsTopLevelKeys(t *testing.T) {
	e := &PlainTextExtractor{}
	path := filepath.Join(t.TempDir(), "doc.json")
	os.WriteFile(path, []byte(`{"zeta": 1, "alpha": 2}`), 0o644)

	record, err := e.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	keys := record.Metadata.ExtractedMetadata["top_level_keys"]
	if keys != "alpha,zeta" {
		t.Errorf("top_level_keys = %q, want \"alpha,zeta\" (sorted)", keys)
	}
	if !strings.Contains(record.Content, "\"alpha\"") {
		t.Errorf("expected pretty-printed JSON content, got %q", record.Content)
	}
}

func TestPlainTextExtractorMalformedJSONFallsBackToRaw(t *testing.T) {
	e := &PlainTextExtractor{}
	path := filepath.Join(t.TempDir(), "broken.json")
	os.WriteFile(path, []byte(`not valid json`), 0o644)

	record, err := e.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract should not error on malformed JSON, should fall back to raw content: %v", err)
	}
	if record.Content != "not valid json" {
		t.Errorf("Content = %q, want the raw fallback content", record.Content)
	}
}

func TestPlainTextExtractorMissingFileErrors(t *testing.T) {
	e := &PlainTextExtractor{}
	if _, err := e.Extract(context.Background(), filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
