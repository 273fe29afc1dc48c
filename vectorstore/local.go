package vectorstore

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"
)

func init() {
	sqlite_vec.Auto()
}

// localStore persists documents and embeddings to two JSON files under
// a configured directory, per the spec's persisted-state layout, and
// mirrors the embeddings into a sqlite-vec vec0 virtual table when one
// can be created. Search does not query that table: it always ranks by
// cosine similarity over the embeddings held in memory. Grounded on
// the teacher's store.go sqlite-vec usage (init-time sqlite_vec.Auto(),
// little-endian float32 packing).
type localStore struct {
	mu  sync.RWMutex
	cfg Config

	documents map[string]Document
	vecDB     *sql.DB // nil if sqlite-vec setup failed; only Upsert and Delete use it
}

func newLocalStore(cfg Config) *localStore {
	if cfg.Dir == "" {
		cfg.Dir = "."
	}
	return &localStore{cfg: cfg, documents: make(map[string]Document)}
}

func (l *localStore) documentsPath() string { return filepath.Join(l.cfg.Dir, "documents.json") }
func (l *localStore) embeddingsPath() string { return filepath.Join(l.cfg.Dir, "embeddings.json") }

func (l *localStore) Init(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(l.cfg.Dir, 0o755); err != nil {
		return fmt.Errorf("vectorstore: creating directory: %w", err)
	}
	if err := l.loadFromDiskLocked(); err != nil {
		return err
	}

	dbPath := filepath.Join(l.cfg.Dir, "vectors.db")
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=30000")
	if err == nil {
		if err := db.PingContext(ctx); err == nil {
			ddl := fmt.Sprintf(`CREATE VIRTUAL TABLE IF NOT EXISTS vec_docs USING vec0(doc_id TEXT PRIMARY KEY, embedding float[%d]);`, l.cfg.Dimension)
			if _, err := db.ExecContext(ctx, ddl); err == nil {
				l.vecDB = db
			} else {
				db.Close()
			}
		} else {
			db.Close()
		}
	}
	return nil
}

func (l *localStore) loadFromDiskLocked() error {
	if data, err := os.ReadFile(l.documentsPath()); err == nil {
		var docs []Document
		if err := json.Unmarshal(data, &docs); err == nil {
			for _, d := range docs {
				l.documents[d.ID] = d
			}
		}
	}
	if data, err := os.ReadFile(l.embeddingsPath()); err == nil {
		var embeddings map[string][]float32
		if err := json.Unmarshal(data, &embeddings); err == nil {
			for id, emb := range embeddings {
				if d, ok := l.documents[id]; ok {
					d.Embedding = emb
					l.documents[id] = d
				}
			}
		}
	}
	return nil
}

func (l *localStore) persistLocked() error {
	docs := make([]Document, 0, len(l.documents))
	embeddings := make(map[string][]float32, len(l.documents))
	for _, d := range l.documents {
		stripped := d
		stripped.Embedding = nil
		docs = append(docs, stripped)
		if len(d.Embedding) > 0 {
			embeddings[d.ID] = d.Embedding
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })

	docsJSON, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(l.documentsPath(), docsJSON, 0o644); err != nil {
		return fmt.Errorf("vectorstore: writing documents.json: %w", err)
	}
	embJSON, err := json.MarshalIndent(embeddings, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(l.embeddingsPath(), embJSON, 0o644); err != nil {
		return fmt.Errorf("vectorstore: writing embeddings.json: %w", err)
	}
	return nil
}

func serializeFloat32(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// Upsert writes docs to disk and mirrors each into the vec0 table
// when available. Re-upserting the same id replaces the prior record,
// satisfying the idempotence law required by C10.
func (l *localStore) Upsert(ctx context.Context, docs []Document) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, d := range docs {
		if len(d.Embedding) == 0 {
			d.Embedding = textEmbedding(d.Text, l.cfg.Dimension)
		}
		l.documents[d.ID] = d
		if l.vecDB != nil {
			// vec0 virtual tables reject INSERT ... ON CONFLICT, so any
			// existing row for the id is deleted before inserting.
			l.vecDB.ExecContext(ctx, `DELETE FROM vec_docs WHERE doc_id = ?`, d.ID)
			_, err := l.vecDB.ExecContext(ctx,
				`INSERT INTO vec_docs(doc_id, embedding) VALUES (?, ?)`,
				d.ID, serializeFloat32(d.Embedding))
			if err != nil {
				// vec0 mirror is best-effort; Search does not read it.
				continue
			}
		}
	}
	return l.persistLocked()
}

// Search embeds queryText (via the same deterministic fallback used
// for un-embedded documents, so query and corpus embeddings share a
// space) and returns the k nearest documents by true cosine
// similarity.
func (l *localStore) Search(ctx context.Context, queryText string, k int) ([]ScoredDocument, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	query := textEmbedding(queryText, l.cfg.Dimension)

	var results []ScoredDocument
	for _, d := range l.documents {
		score := cosineSimilarity(query, d.Embedding)
		results = append(results, ScoredDocument{Document: d, Score: score})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if k > 0 && len(results) > k {
		results = results[:k]
	}
	return results, nil
}

func (l *localStore) Delete(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.documents, id)
	if l.vecDB != nil {
		l.vecDB.ExecContext(ctx, `DELETE FROM vec_docs WHERE doc_id = ?`, id)
	}
	return l.persistLocked()
}

func (l *localStore) Stats(ctx context.Context) (VectorStats, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return VectorStats{DocumentCount: len(l.documents), Dimension: l.cfg.Dimension, Backend: "local"}, nil
}
