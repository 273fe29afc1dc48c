package hazkg

import (
	"github.com/hazkg/hazkg/graphstore"
	"github.com/hazkg/hazkg/llm"
	"github.com/hazkg/hazkg/vectorstore"
)

// QualityThresholds holds the quality minimums. Only MinOverall is
// read: it is the overall minimum C9 gates storage on (C10 has no
// quality gate). The per-dimension fields are not consulted; C6's
// recommendations use fixed thresholds in the quality package.
type QualityThresholds struct {
	Completeness float64
	Accuracy     float64
	Consistency  float64
	Timeliness   float64
	Uniqueness   float64
	MinOverall   float64
}

// Config is read once at process start and never mutated afterward
// (spec §5 "Configuration ... immutable after initialization"),
// mirroring the teacher's config.go Config/DefaultConfig/Option
// pattern.
type Config struct {
	GraphStore   graphstore.ConnConfig
	VectorStore  vectorstore.Config
	Quality      QualityThresholds
	ChunkSize    int
	ChunkOverlap int
	OntologyDir  string
	LLM          *llm.Config // optional: only consulted by the LLM-assisted tagger
}

// DefaultConfig returns the spec's literal defaults: chunk size 1000
// with overlap 200, the quality thresholds from spec §4.6, and a
// local (on-disk) vector backend.
func DefaultConfig() Config {
	return Config{
		GraphStore: graphstore.ConnConfig{Path: "hazkg-graph.db"},
		VectorStore: vectorstore.Config{
			Backend: "local",
			Dir:     "hazkg-vectors",
		},
		Quality: QualityThresholds{
			Completeness: 0.8,
			Accuracy:     0.9,
			Consistency:  0.85,
			Timeliness:   0.95,
			Uniqueness:   0.9,
			MinOverall:   0.7,
		},
		ChunkSize:    1000,
		ChunkOverlap: 200,
		OntologyDir:  "ontology-data",
	}
}

// Option mutates a Config at construction time, before it is ever
// passed to New.
type Option func(*Config)

// WithGraphStore overrides the graph store connection settings.
func WithGraphStore(cfg graphstore.ConnConfig) Option {
	return func(c *Config) { c.GraphStore = cfg }
}

// WithVectorStore overrides the vector store backend and settings.
func WithVectorStore(cfg vectorstore.Config) Option {
	return func(c *Config) { c.VectorStore = cfg }
}

// WithQuality overrides the quality gate thresholds.
func WithQuality(t QualityThresholds) Option {
	return func(c *Config) { c.Quality = t }
}

// WithChunking overrides the text chunk size and overlap.
func WithChunking(size, overlap int) Option {
	return func(c *Config) { c.ChunkSize = size; c.ChunkOverlap = overlap }
}

// WithOntologyDir overrides the directory C9 scans on each run.
func WithOntologyDir(dir string) Option {
	return func(c *Config) { c.OntologyDir = dir }
}

// WithLLM enables the LLM-assisted tagger in the document pipeline.
func WithLLM(cfg llm.Config) Option {
	return func(c *Config) { c.LLM = &cfg }
}
