package docpipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hazkg/hazkg/docextract"
	"github.com/hazkg/hazkg/graphstore"
	"github.com/hazkg/hazkg/textproc"
	"github.com/hazkg/hazkg/validation"
	"github.com/hazkg/hazkg/vectorstore"
)

const sampleDocContent = "Acetone Solution is flammable and toxic. Keep it away from heat to avoid corrosive reactions. Acetone Solution is stored in a steel cabinet."

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()

	registry := docextract.NewRegistry()
	processor := textproc.NewProcessor(1000, 200)

	vectors, err := vectorstore.New(vectorstore.Config{Backend: "local", Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("vectorstore.New: %v", err)
	}
	if err := vectors.Init(context.Background()); err != nil {
		t.Fatalf("vectors.Init: %v", err)
	}

	graph := graphstore.New()
	if err := graph.Connect(context.Background(), graphstore.ConnConfig{Path: filepath.Join(t.TempDir(), "graph.db")}); err != nil {
		t.Fatalf("graph.Connect: %v", err)
	}
	t.Cleanup(func() { graph.Disconnect(context.Background()) })

	return New(registry, processor, vectors, graph, validation.NewEngine())
}

func writeSampleDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunExecutesAllSevenStagesOnSuccess(t *testing.T) {
	p := newTestPipeline(t)
	path := writeSampleDoc(t, t.TempDir(), "notes.txt", sampleDocContent)

	result, err := p.Run(context.Background(), path)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	wantNames := []string{"ingest", "classify", "extract_entities", "extract_relations", "chunk_embed", "validate", "merge"}
	if len(result.Stages) != len(wantNames) {
		t.Fatalf("got %d stages, want %d: %+v", len(result.Stages), len(wantNames), result.Stages)
	}
	for i, name := range wantNames {
		if result.Stages[i].Name != name {
			t.Errorf("stage[%d].Name = %q, want %q", i, result.Stages[i].Name, name)
		}
		if result.Stages[i].Error != "" {
			t.Errorf("stage[%d] (%s) unexpectedly errored: %s", i, name, result.Stages[i].Error)
		}
	}

	if result.EntitiesFound == 0 {
		t.Error("expected at least one extracted entity")
	}
	if result.RelationsFound == 0 {
		t.Error("expected at least one extracted relation")
	}
	if result.ChunksStored != 1 {
		t.Errorf("ChunksStored = %d, want 1 for a short document", result.ChunksStored)
	}
	if result.DocumentID == "" {
		t.Error("expected a non-empty DocumentID derived from the content hash")
	}
}

func TestRunIsIdempotentForUnchangedFileContent(t *testing.T) {
	p := newTestPipeline(t)
	dir := t.TempDir()
	path := writeSampleDoc(t, dir, "notes.txt", sampleDocContent)

	first, err := p.Run(context.Background(), path)
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	second, err := p.Run(context.Background(), path)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}

	if first.DocumentID != second.DocumentID {
		t.Errorf("DocumentID changed across runs of unchanged content: %q vs %q", first.DocumentID, second.DocumentID)
	}
	for _, stage := range second.Stages {
		if stage.Error != "" {
			t.Errorf("re-run stage %s unexpectedly errored: %s", stage.Name, stage.Error)
		}
	}
}

func TestRunDerivesSameDocumentIDForIdenticalContentDifferentFilenames(t *testing.T) {
	p := newTestPipeline(t)
	dir := t.TempDir()
	pathA := writeSampleDoc(t, dir, "a.txt", sampleDocContent)
	pathB := writeSampleDoc(t, dir, "b.txt", sampleDocContent)

	resultA, err := p.Run(context.Background(), pathA)
	if err != nil {
		t.Fatalf("Run(a): %v", err)
	}
	resultB, err := p.Run(context.Background(), pathB)
	if err != nil {
		t.Fatalf("Run(b): %v", err)
	}

	if resultA.DocumentID != resultB.DocumentID {
		t.Errorf("expected identical content to derive the same document id regardless of filename, got %q vs %q", resultA.DocumentID, resultB.DocumentID)
	}
}

func TestRunFailsIngestStageOnMissingFile(t *testing.T) {
	p := newTestPipeline(t)

	_, err := p.Run(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	if err == nil {
		t.Fatal("expected an error for a missing source file")
	}
}

func TestRunHandlesEmptyDocumentWithoutError(t *testing.T) {
	p := newTestPipeline(t)
	path := writeSampleDoc(t, t.TempDir(), "empty.txt", "")

	result, err := p.Run(context.Background(), path)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// ChunkText always yields at least one (possibly empty) window, so
	// an empty document still produces exactly one stored chunk.
	if result.ChunksStored != 1 {
		t.Errorf("ChunksStored = %d, want 1 for an empty document", result.ChunksStored)
	}
	if result.EntitiesFound != 0 {
		t.Errorf("EntitiesFound = %d, want 0 for an empty document", result.EntitiesFound)
	}
	for _, stage := range result.Stages {
		if stage.Error != "" {
			t.Errorf("stage %s unexpectedly errored: %s", stage.Name, stage.Error)
		}
	}
}

func TestEntityMentionsAsRowsOnlyIncludesChemicalCategory(t *testing.T) {
	processed := textproc.Result{
		Entities: []textproc.ExtractedEntity{
			{Text: "Acetone Solution", Category: "chemical"},
			{Text: "flammable", Category: "hazard"},
			{Text: "boiling point", Category: "property"},
		},
	}

	rows := entityMentionsAsRows(processed)
	if len(rows) != 1 {
		t.Fatalf("expected exactly 1 row (chemical category only), got %d: %+v", len(rows), rows)
	}
	if rows[0]["name"] != "Acetone Solution" {
		t.Errorf("row name = %q, want %q", rows[0]["name"], "Acetone Solution")
	}
}

func TestMergeIntoGraphDedupesRepeatedEntityText(t *testing.T) {
	p := newTestPipeline(t)
	processed := textproc.Result{
		Entities: []textproc.ExtractedEntity{
			{Text: "Acetone", Category: "chemical"},
			{Text: "Acetone", Category: "chemical"},
		},
	}
	record := docextract.Record{SourcePath: "dup.txt"}

	merged, errs := p.mergeIntoGraph(context.Background(), record, processed)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if merged != 1 {
		t.Errorf("merged = %d, want 1 (repeated entity text deduped)", merged)
	}
}

func TestMergeIntoGraphSkipsEdgesWithUnresolvedEndpoints(t *testing.T) {
	p := newTestPipeline(t)
	processed := textproc.Result{
		Entities: []textproc.ExtractedEntity{
			{Text: "Acetone", Category: "chemical"},
		},
		Relations: []textproc.ExtractedRelation{
			{Source: "Acetone", Target: "unresolved container", Type: "STORED_IN", Confidence: 0.6},
		},
	}
	record := docextract.Record{SourcePath: "partial.txt"}

	merged, errs := p.mergeIntoGraph(context.Background(), record, processed)
	if len(errs) != 0 {
		t.Fatalf("expected no errors, the edge should simply be skipped: %v", errs)
	}
	if merged != 1 {
		t.Errorf("merged = %d, want 1", merged)
	}

	stats, err := p.Graph.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.EdgeCount != 0 {
		t.Errorf("EdgeCount = %d, want 0 since the edge's target was never created", stats.EdgeCount)
	}
}

func TestMergeIntoGraphFoldsHazardClassIntoSubstanceProperty(t *testing.T) {
	p := newTestPipeline(t)
	processed := textproc.Result{
		Entities: []textproc.ExtractedEntity{
			{Text: "Acetone", Category: "chemical"},
			{Text: "flammable", Category: "hazard"},
		},
		Relations: []textproc.ExtractedRelation{
			{Source: "Acetone", Target: "flammable", Type: "HAS_HAZARD_CLASS", Confidence: 0.6},
		},
	}
	record := docextract.Record{SourcePath: "hazard.txt"}

	merged, errs := p.mergeIntoGraph(context.Background(), record, processed)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if merged != 1 {
		t.Errorf("merged = %d, want 1 (no dedicated node for the hazard entity)", merged)
	}

	node, err := p.Graph.GetNode(context.Background(), "HazardousSubstance", "Acetone")
	if err != nil {
		t.Fatalf("GetNode: %v", err)
	}
	if node == nil {
		t.Fatal("expected the Acetone HazardousSubstance node to exist")
	}
	if node.Properties["hazard_class"] != "flammable" {
		t.Errorf("hazard_class = %v, want flammable", node.Properties["hazard_class"])
	}

	if _, err := p.Graph.GetNode(context.Background(), "HazardousSubstance", "flammable"); err != nil {
		t.Fatalf("GetNode(flammable): %v", err)
	}
	hazardNode, _ := p.Graph.GetNode(context.Background(), "HazardousSubstance", "flammable")
	if hazardNode != nil {
		t.Error("expected no dedicated node for the hazard entity")
	}
}
