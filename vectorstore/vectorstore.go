// Package vectorstore adapts the vector index (C3) behind a single
// interface with three interchangeable backends, dispatched from
// configuration at startup exactly like the teacher's llm.NewProvider
// factory: a string selector switches over constructors once, and the
// chosen backend never changes for the life of the process (Design
// Note "Vector backend polymorphism").
package vectorstore

import (
	"context"
	"fmt"
	"time"
)

// Document is a chunk-level record upserted into the vector index.
type Document struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding,omitempty"`
	Source    string    `json:"source"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

// ScoredDocument is a search result: a Document plus its similarity score.
type ScoredDocument struct {
	Document
	Score float64 `json:"score"`
}

// VectorStats summarizes the index.
type VectorStats struct {
	DocumentCount int
	Dimension     int
	Backend       string
}

// Store is the shared contract every backend implements.
type Store interface {
	Init(ctx context.Context) error
	Upsert(ctx context.Context, docs []Document) error
	Search(ctx context.Context, queryText string, k int) ([]ScoredDocument, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (VectorStats, error)
}

// Config selects and configures a backend.
type Config struct {
	Backend   string `json:"backend"` // local, remote-a, remote-b
	Dir       string `json:"dir"`     // local backend: directory for documents.json/embeddings.json
	BaseURL   string `json:"base_url"`
	APIKey    string `json:"api_key"`
	IndexName string `json:"index_name"`
	Dimension int    `json:"dimension"`
}

// defaultDimension returns the spec's per-selector embedding
// dimension default (1536, 384, 1024, 3072) when Config.Dimension is
// unset.
func defaultDimension(backend string) int {
	switch backend {
	case "local":
		return 1536
	case "remote-a":
		return 384
	case "remote-b":
		return 1024
	default:
		return 3072
	}
}

// New constructs a Store from cfg, mirroring llm.NewProvider's
// config-string-driven switch.
func New(cfg Config) (Store, error) {
	if cfg.Dimension == 0 {
		cfg.Dimension = defaultDimension(cfg.Backend)
	}
	switch cfg.Backend {
	case "local":
		return newLocalStore(cfg), nil
	case "remote-a":
		return newRemoteStore(cfg, "remote-a"), nil
	case "remote-b":
		return newRemoteStore(cfg, "remote-b"), nil
	case "":
		return nil, fmt.Errorf("vectorstore: backend not specified")
	default:
		return nil, fmt.Errorf("vectorstore: unknown backend: %s", cfg.Backend)
	}
}

// cosineSimilarity computes true cosine similarity between two
// equal-length embeddings. The teacher's own local backend stubs
// "similarity search" as most-recent-first; per Design Note "Vector
// backend polymorphism" this is the faithful implementation the note
// calls for, closing that known limitation rather than inheriting it.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (sqrt(normA) * sqrt(normB))
}

func sqrt(x float64) float64 {
	if x == 0 {
		return 0
	}
	z := x
	for i := 0; i < 32; i++ {
		z -= (z*z - x) / (2 * z)
	}
	return z
}

// textEmbedding produces a deterministic pseudo-embedding for text
// when no embedding was supplied and no remote embedding service is
// configured: a fixed-width bag-of-characters histogram, normalized.
// This keeps Search usable (and its cosine-similarity law testable)
// without requiring a live embedding backend in every environment.
func textEmbedding(text string, dim int) []float32 {
	v := make([]float32, dim)
	for i, r := range text {
		v[(int(r)+i)%dim]++
	}
	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	if norm == 0 {
		return v
	}
	n := float32(sqrt(norm))
	for i := range v {
		v[i] /= n
	}
	return v
}
