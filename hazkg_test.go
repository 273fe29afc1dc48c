package hazkg

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hazkg/hazkg/domain"
	"github.com/hazkg/hazkg/graphstore"
	"github.com/hazkg/hazkg/vectorstore"
)

func TestDefaultConfigMatchesSpecDefaults(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.ChunkSize != 1000 || cfg.ChunkOverlap != 200 {
		t.Errorf("chunking defaults = %d/%d, want 1000/200", cfg.ChunkSize, cfg.ChunkOverlap)
	}
	if cfg.Quality.MinOverall != 0.7 {
		t.Errorf("Quality.MinOverall = %v, want 0.7", cfg.Quality.MinOverall)
	}
	if cfg.VectorStore.Backend != "local" {
		t.Errorf("VectorStore.Backend = %q, want local", cfg.VectorStore.Backend)
	}
}

func TestOptionsMutateConfigBeforeConstruction(t *testing.T) {
	cfg := DefaultConfig()
	opts := []Option{
		WithChunking(500, 50),
		WithOntologyDir("custom-ontology"),
		WithQuality(QualityThresholds{MinOverall: 0.5}),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.ChunkSize != 500 || cfg.ChunkOverlap != 50 {
		t.Errorf("chunking = %d/%d, want 500/50", cfg.ChunkSize, cfg.ChunkOverlap)
	}
	if cfg.OntologyDir != "custom-ontology" {
		t.Errorf("OntologyDir = %q, want custom-ontology", cfg.OntologyDir)
	}
	if cfg.Quality.MinOverall != 0.5 {
		t.Errorf("Quality.MinOverall = %v, want 0.5", cfg.Quality.MinOverall)
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.GraphStore = graphstore.ConnConfig{Path: filepath.Join(dir, "graph.db")}
	cfg.VectorStore = vectorstore.Config{Backend: "local", Dir: filepath.Join(dir, "vectors")}
	cfg.OntologyDir = dir

	engine, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { engine.Close(context.Background()) })
	return engine
}

func TestNewWiresEveryComponent(t *testing.T) {
	engine := newTestEngine(t)

	if engine.Graph == nil || engine.Vectors == nil || engine.Validation == nil || engine.Quality == nil {
		t.Fatal("expected every component to be non-nil after New")
	}
	if engine.OntoPipeline == nil || engine.DocPipeline == nil {
		t.Fatal("expected both pipelines to be wired")
	}
	if engine.LoadOntologyStore() == nil {
		t.Error("expected LoadOntologyStore to return the pipeline's backing store")
	}
}

func TestNewAppliesOptionsBeforeConnecting(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.VectorStore = vectorstore.Config{Backend: "local", Dir: filepath.Join(dir, "vectors")}

	engine, err := New(
		context.Background(),
		cfg,
		WithGraphStore(graphstore.ConnConfig{Path: filepath.Join(dir, "custom.db")}),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer engine.Close(context.Background())

	stats, err := engine.Graph.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.NodeCount != 0 {
		t.Errorf("NodeCount = %d, want 0 on a fresh store", stats.NodeCount)
	}
}

func TestCheckCompatibilityDelegatesToCompatibilityPackage(t *testing.T) {
	engine := newTestEngine(t)

	substance := domain.HazardousSubstance{HazardClass: "flammable"}
	container := domain.Container{Material: "glass"}

	result := engine.CheckCompatibility(substance, container)
	if !result.Compatible {
		t.Errorf("expected glass to be compatible with flammable, got errors: %v", result.Errors)
	}
}

func TestRunOntologyIngestDefaultsToConfiguredDir(t *testing.T) {
	engine := newTestEngine(t)
	if err := os.WriteFile(filepath.Join(engine.cfg.OntologyDir, "substances.ttl"),
		[]byte("hs:Acetone rdf:type hs:Substance .\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := engine.RunOntologyIngest(context.Background(), "")
	if err != nil {
		t.Fatalf("RunOntologyIngest: %v", err)
	}
	if len(result.Stages) == 0 {
		t.Error("expected at least one stage result")
	}
}

func TestCloseDisconnectsGraphStore(t *testing.T) {
	engine := newTestEngine(t)

	if err := engine.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := engine.Graph.Stats(context.Background()); err == nil {
		t.Error("expected an error using the graph store after Close")
	}
}
