package ontology

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDirectoryTurtle(t *testing.T) {
	dir := t.TempDir()
	content := `
# a comment
hs:Acetone rdf:type hs:Substance .
hs:Acetone hs:hazardClass "flammable" .
`
	if err := os.WriteFile(filepath.Join(dir, "substances.ttl"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s := New()
	report, err := s.LoadDirectory(context.Background(), dir)
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if report.FilesLoaded != 1 {
		t.Errorf("FilesLoaded = %d, want 1", report.FilesLoaded)
	}
	if report.TriplesAdded != 2 {
		t.Errorf("TriplesAdded = %d, want 2", report.TriplesAdded)
	}

	props := s.PropertiesOf("hs:Acetone")
	if props["hs:hazardClass"] != "flammable" {
		t.Errorf("hazardClass = %q, want flammable", props["hs:hazardClass"])
	}
}

func TestLoadDirectoryContinuesPastFailures(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "good.ttl"), []byte("hs:A rdf:type hs:Substance .\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bad.owl"), []byte("not valid xml <<<"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := New()
	report, err := s.LoadDirectory(context.Background(), dir)
	if err != nil {
		t.Fatalf("LoadDirectory should not itself fail on a per-file error: %v", err)
	}
	if report.FilesLoaded != 1 {
		t.Errorf("FilesLoaded = %d, want 1 (the .ttl file)", report.FilesLoaded)
	}
	if len(report.Failures) != 1 {
		t.Errorf("Failures = %d, want 1 (the .owl file)", len(report.Failures))
	}
}

func TestLoadDirectoryZeroFiles(t *testing.T) {
	dir := t.TempDir()
	s := New()
	report, err := s.LoadDirectory(context.Background(), dir)
	if err != nil {
		t.Fatalf("LoadDirectory on an empty dir should not error: %v", err)
	}
	if report.FilesLoaded != 0 {
		t.Errorf("FilesLoaded = %d, want 0", report.FilesLoaded)
	}
}

func TestLoadDirectoryJSONLD(t *testing.T) {
	dir := t.TempDir()
	content := `[{"@id": "hs:Benzene", "@type": "hs:Substance", "hs:hazardClass": "toxic"}]`
	if err := os.WriteFile(filepath.Join(dir, "benzene.json"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s := New()
	report, err := s.LoadDirectory(context.Background(), dir)
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if report.FilesLoaded != 1 {
		t.Errorf("FilesLoaded = %d, want 1", report.FilesLoaded)
	}

	instances := s.Instances("hs:Substance")
	if len(instances) != 1 {
		t.Errorf("expected 1 hs:Substance instance, got %v", instances)
	}
}
