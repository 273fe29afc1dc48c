// Package hazkg wires C1-C10 into a single process, the way the
// teacher's goreason.go composes store+parser+chunker+llm behind one
// Engine. Engine holds every component as an explicit field (Design
// Note "Process-wide singletons → explicit context object") so tests
// and multiple pipeline runs never share hidden global state.
package hazkg

import (
	"context"
	"fmt"

	"github.com/hazkg/hazkg/compatibility"
	"github.com/hazkg/hazkg/docextract"
	"github.com/hazkg/hazkg/docpipeline"
	"github.com/hazkg/hazkg/domain"
	"github.com/hazkg/hazkg/graphstore"
	"github.com/hazkg/hazkg/ontology"
	"github.com/hazkg/hazkg/ontopipeline"
	"github.com/hazkg/hazkg/quality"
	"github.com/hazkg/hazkg/textproc"
	"github.com/hazkg/hazkg/validation"
	"github.com/hazkg/hazkg/vectorstore"
)

// Engine is the process-wide handle onto every component: the graph
// store, the chosen vector backend, the ontology store, the
// validation and quality engines, and the two pipelines built on top
// of them.
type Engine struct {
	cfg Config

	Graph      *graphstore.Store
	Vectors    vectorstore.Store
	Validation *validation.Engine
	Quality    *quality.Engine

	OntoPipeline *ontopipeline.Pipeline
	DocPipeline  *docpipeline.Pipeline
}

// New constructs an Engine from cfg plus any Options, connecting the
// graph store and initializing the chosen vector backend. cfg is
// copied and never mutated after this call returns (spec §5
// "Configuration ... immutable after initialization").
func New(ctx context.Context, cfg Config, opts ...Option) (*Engine, error) {
	for _, opt := range opts {
		opt(&cfg)
	}

	graph := graphstore.New()
	if err := graph.Connect(ctx, cfg.GraphStore); err != nil {
		return nil, fmt.Errorf("hazkg: connecting graph store: %w", err)
	}

	vectors, err := vectorstore.New(cfg.VectorStore)
	if err != nil {
		graph.Disconnect(ctx)
		return nil, fmt.Errorf("hazkg: constructing vector store: %w", err)
	}
	if err := vectors.Init(ctx); err != nil {
		graph.Disconnect(ctx)
		return nil, fmt.Errorf("hazkg: initializing vector store: %w", err)
	}

	validationEngine := validation.NewEngine()
	qualityEngine := quality.NewEngine()

	minOverall := cfg.Quality.MinOverall
	if minOverall <= 0 {
		minOverall = quality.MinOverallForStorage
	}

	docTagger := textproc.NewRulesTagger()
	processor := &textproc.Processor{Tagger: docTagger, ChunkSize: cfg.ChunkSize, ChunkOverlap: cfg.ChunkOverlap}

	extractor := docextract.NewRegistry()

	engine := &Engine{
		cfg:          cfg,
		Graph:        graph,
		Vectors:      vectors,
		Validation:   validationEngine,
		Quality:      qualityEngine,
		OntoPipeline: ontopipeline.New(graph, minOverall),
		DocPipeline:  docpipeline.New(extractor, processor, vectors, graph, validationEngine),
	}
	return engine, nil
}

// Close releases every held resource.
func (e *Engine) Close(ctx context.Context) error {
	return e.Graph.Disconnect(ctx)
}

// CheckCompatibility exposes C5's container check directly on the
// Engine, since it is a pure function over domain values rather than
// a stateful component requiring a pipeline of its own.
func (e *Engine) CheckCompatibility(substance domain.HazardousSubstance, container domain.Container) compatibility.Result {
	return compatibility.CheckContainer(substance, container)
}

// RunOntologyIngest runs the five-stage Ontology-to-Graph pipeline
// (C9) over dir, defaulting to cfg.OntologyDir when dir is empty.
func (e *Engine) RunOntologyIngest(ctx context.Context, dir string) (ontopipeline.Result, error) {
	if dir == "" {
		dir = e.cfg.OntologyDir
	}
	return e.OntoPipeline.Run(ctx, dir)
}

// RunDocumentIngest runs the seven-stage Document-to-Graph pipeline
// (C10) over a single file.
func (e *Engine) RunDocumentIngest(ctx context.Context, path string) (docpipeline.Result, error) {
	return e.DocPipeline.Run(ctx, path)
}

// LoadOntologyStore exposes the pipeline's backing ontology.Store for
// read-only inspection (classes, properties, instances) outside a
// full Run.
func (e *Engine) LoadOntologyStore() *ontology.Store {
	return e.OntoPipeline.Store
}
