// Package graphstore is a typed property-graph adapter (C2). It wraps
// an embedded SQLite database the way the teacher wraps its own
// document/chunk store: WAL mode, a bounded connection pool, a small
// inTx helper, and parameterized queries everywhere. Backend identity
// (SQLite today) is an implementation choice behind this package's
// exported operations, which is the contract the specification
// actually asks for ("graph database driver and query transport" is
// out of scope as an external collaborator — this is the one
// concrete, swappable reference implementation of that contract).
package graphstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hazkg/hazkg/hazkgerr"
)

// ConnConfig names the backend to connect to. Only Path is meaningful
// for the embedded SQLite backend; URI/User/Password/Database are
// carried for parity with the spec's "connect with explicit
// URI/user/password/database" contract and accepted but unused by
// this backend.
type ConnConfig struct {
	Path     string
	URI      string
	User     string
	Password string
	Database string
}

// Store is a typed node/edge CRUD layer over SQLite.
type Store struct {
	db        *sql.DB
	connected bool
}

// New constructs a disconnected Store. Call Connect before any other
// operation; every other method returns ErrNotConnected until then.
func New() *Store {
	return &Store{}
}

// Connect opens the backing database and ensures the schema exists.
func (s *Store) Connect(ctx context.Context, cfg ConnConfig) error {
	path := cfg.Path
	if path == "" {
		path = "hazkg-graph.db"
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("graphstore: creating directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=30000")
	if err != nil {
		return hazkgerr.Wrap(hazkgerr.ErrBackendUnavailable, "opening database", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return hazkgerr.Wrap(hazkgerr.ErrBackendUnavailable, "pinging database", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	if _, err := db.ExecContext(ctx, schemaSQL()); err != nil {
		db.Close()
		return hazkgerr.Wrap(hazkgerr.ErrBackendUnavailable, "creating schema", err)
	}

	s.db = db
	s.connected = true
	return nil
}

// EnsureSchema re-applies the DDL; idempotent, safe to call repeatedly.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if !s.connected {
		return hazkgerr.ErrNotConnected
	}
	if _, err := s.db.ExecContext(ctx, schemaSQL()); err != nil {
		return hazkgerr.Wrap(hazkgerr.ErrBackendUnavailable, "ensuring schema", err)
	}
	return nil
}

// Disconnect closes the underlying database connection.
func (s *Store) Disconnect(ctx context.Context) error {
	if !s.connected {
		return hazkgerr.ErrNotConnected
	}
	s.connected = false
	return s.db.Close()
}

// CreateNode creates a node with the given label/id/properties, or
// returns the existing id as a no-op if (label, id) already exists —
// "idempotent modulo identifier" per spec §4.2.
func (s *Store) CreateNode(ctx context.Context, label, id string, props map[string]any) (string, error) {
	if !s.connected {
		return "", hazkgerr.ErrNotConnected
	}
	existing, err := s.GetNode(ctx, label, id)
	if err == nil && existing != nil {
		return id, nil
	}

	data, err := json.Marshal(props)
	if err != nil {
		return "", fmt.Errorf("graphstore: marshaling properties: %w", err)
	}
	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO nodes (label, id, properties, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		label, id, string(data), now, now)
	if err != nil {
		return "", hazkgerr.Wrap(hazkgerr.ErrConflict, fmt.Sprintf("creating node %s/%s", label, id), err)
	}
	return id, nil
}

// Node is a label/id/properties/timestamp record.
type Node struct {
	Label      string
	ID         string
	Properties map[string]any
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// GetNode fetches a node by (label, id). Returns (nil, nil) if absent.
func (s *Store) GetNode(ctx context.Context, label, id string) (*Node, error) {
	if !s.connected {
		return nil, hazkgerr.ErrNotConnected
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT properties, created_at, updated_at FROM nodes WHERE label = ? AND id = ?`, label, id)
	var propsJSON string
	var createdAt, updatedAt time.Time
	if err := row.Scan(&propsJSON, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, hazkgerr.Wrap(hazkgerr.ErrBackendUnavailable, "reading node", err)
	}
	var props map[string]any
	if err := json.Unmarshal([]byte(propsJSON), &props); err != nil {
		return nil, fmt.Errorf("graphstore: unmarshaling properties: %w", err)
	}
	return &Node{Label: label, ID: id, Properties: props, CreatedAt: createdAt, UpdatedAt: updatedAt}, nil
}

// ListNodes returns up to limit nodes with the given label, ordered by id.
func (s *Store) ListNodes(ctx context.Context, label string, limit int) ([]Node, error) {
	if !s.connected {
		return nil, hazkgerr.ErrNotConnected
	}
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, properties, created_at, updated_at FROM nodes WHERE label = ? ORDER BY id LIMIT ?`, label, limit)
	if err != nil {
		return nil, hazkgerr.Wrap(hazkgerr.ErrBackendUnavailable, "listing nodes", err)
	}
	defer rows.Close()

	var out []Node
	for rows.Next() {
		var n Node
		var propsJSON string
		if err := rows.Scan(&n.ID, &propsJSON, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		n.Label = label
		json.Unmarshal([]byte(propsJSON), &n.Properties)
		out = append(out, n)
	}
	return out, rows.Err()
}

// CreateEdge creates a typed edge between two existing nodes. Returns
// a SchemaViolation-wrapped error if either endpoint is absent,
// satisfying invariant 2 ("every relationship endpoint references an
// existing node of the admitted kind").
func (s *Store) CreateEdge(ctx context.Context, srcLabel, srcID, dstLabel, dstID, edgeType string, props map[string]any) (int64, error) {
	if !s.connected {
		return 0, hazkgerr.ErrNotConnected
	}
	src, err := s.GetNode(ctx, srcLabel, srcID)
	if err != nil {
		return 0, err
	}
	if src == nil {
		return 0, hazkgerr.Wrap(hazkgerr.ErrSchemaViolation, fmt.Sprintf("edge source %s/%s does not exist", srcLabel, srcID), nil)
	}
	dst, err := s.GetNode(ctx, dstLabel, dstID)
	if err != nil {
		return 0, err
	}
	if dst == nil {
		return 0, hazkgerr.Wrap(hazkgerr.ErrSchemaViolation, fmt.Sprintf("edge target %s/%s does not exist", dstLabel, dstID), nil)
	}

	data, err := json.Marshal(props)
	if err != nil {
		return 0, fmt.Errorf("graphstore: marshaling edge properties: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO edges (src_label, src_id, dst_label, dst_id, type, properties, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		srcLabel, srcID, dstLabel, dstID, edgeType, string(data), time.Now().UTC())
	if err != nil {
		return 0, hazkgerr.Wrap(hazkgerr.ErrBackendUnavailable, "creating edge", err)
	}
	return res.LastInsertId()
}

// Edge is a typed relationship between two nodes.
type Edge struct {
	ID        int64
	SrcLabel  string
	SrcID     string
	DstLabel  string
	DstID     string
	Type      string
	Properties map[string]any
	CreatedAt time.Time
}

// GraphStats summarizes the graph's size and shape.
type GraphStats struct {
	NodeCount     int
	EdgeCount     int
	DistinctLabels int
	DistinctEdgeTypes int
}

// Stats computes aggregate graph statistics.
func (s *Store) Stats(ctx context.Context) (GraphStats, error) {
	if !s.connected {
		return GraphStats{}, hazkgerr.ErrNotConnected
	}
	var stats GraphStats
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM nodes`)
	if err := row.Scan(&stats.NodeCount); err != nil {
		return stats, hazkgerr.Wrap(hazkgerr.ErrBackendUnavailable, "counting nodes", err)
	}
	row = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM edges`)
	if err := row.Scan(&stats.EdgeCount); err != nil {
		return stats, hazkgerr.Wrap(hazkgerr.ErrBackendUnavailable, "counting edges", err)
	}
	row = s.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT label) FROM nodes`)
	row.Scan(&stats.DistinctLabels)
	row = s.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT type) FROM edges`)
	row.Scan(&stats.DistinctEdgeTypes)
	return stats, nil
}

// NodeList/EdgeList are the flat export shapes for Export.
type NodeList []Node
type EdgeList []Edge

// Export returns every node and edge currently stored, sorted by
// (label, id) and id respectively for deterministic output.
func (s *Store) Export(ctx context.Context) (NodeList, EdgeList, error) {
	if !s.connected {
		return nil, nil, hazkgerr.ErrNotConnected
	}
	rows, err := s.db.QueryContext(ctx, `SELECT label, id, properties, created_at, updated_at FROM nodes`)
	if err != nil {
		return nil, nil, hazkgerr.Wrap(hazkgerr.ErrBackendUnavailable, "exporting nodes", err)
	}
	var nodes NodeList
	for rows.Next() {
		var n Node
		var propsJSON string
		if err := rows.Scan(&n.Label, &n.ID, &propsJSON, &n.CreatedAt, &n.UpdatedAt); err != nil {
			rows.Close()
			return nil, nil, err
		}
		json.Unmarshal([]byte(propsJSON), &n.Properties)
		nodes = append(nodes, n)
	}
	rows.Close()
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Label != nodes[j].Label {
			return nodes[i].Label < nodes[j].Label
		}
		return nodes[i].ID < nodes[j].ID
	})

	erows, err := s.db.QueryContext(ctx, `SELECT id, src_label, src_id, dst_label, dst_id, type, properties, created_at FROM edges`)
	if err != nil {
		return nil, nil, hazkgerr.Wrap(hazkgerr.ErrBackendUnavailable, "exporting edges", err)
	}
	defer erows.Close()
	var edges EdgeList
	for erows.Next() {
		var e Edge
		var propsJSON string
		if err := erows.Scan(&e.ID, &e.SrcLabel, &e.SrcID, &e.DstLabel, &e.DstID, &e.Type, &propsJSON, &e.CreatedAt); err != nil {
			return nil, nil, err
		}
		json.Unmarshal([]byte(propsJSON), &e.Properties)
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].ID < edges[j].ID })
	return nodes, edges, nil
}

func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
