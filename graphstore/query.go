package graphstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hazkg/hazkg/hazkgerr"
)

// SearchSubstring returns nodes of the given label whose serialized
// property values contain substr (case-insensitive), a pragmatic
// stand-in for the spec's "full-text-ish search by substring across
// property values." Property names are never interpolated into SQL;
// this scans in Go over property values already fetched with a
// parameterized label filter.
func (s *Store) SearchSubstring(ctx context.Context, label, substr string) ([]Node, error) {
	if !s.connected {
		return nil, hazkgerr.ErrNotConnected
	}
	nodes, err := s.ListNodes(ctx, label, 100000)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(substr)
	var out []Node
	for _, n := range nodes {
		blob, _ := json.Marshal(n.Properties)
		if strings.Contains(strings.ToLower(string(blob)), needle) {
			out = append(out, n)
		}
	}
	return out, nil
}

type pathKey struct{ label, id string }

// ShortestPath performs a bounded breadth-first search over the edges
// table from (srcLabel, srcID) to (dstLabel, dstID), returning the
// sequence of node keys on the path or nil if none exists within
// maxHops.
func (s *Store) ShortestPath(ctx context.Context, srcLabel, srcID, dstLabel, dstID string, maxHops int) ([]string, error) {
	if !s.connected {
		return nil, hazkgerr.ErrNotConnected
	}
	if maxHops <= 0 {
		maxHops = 6
	}
	start := pathKey{srcLabel, srcID}
	goal := pathKey{dstLabel, dstID}
	if start == goal {
		return []string{fmt.Sprintf("%s/%s", srcLabel, srcID)}, nil
	}

	visited := map[pathKey]bool{start: true}
	type frame struct {
		key  pathKey
		path []pathKey
	}
	queue := []frame{{key: start, path: []pathKey{start}}}

	for hop := 0; hop < maxHops && len(queue) > 0; hop++ {
		var next []frame
		for _, f := range queue {
			neighbors, err := s.neighborsOf(ctx, f.key)
			if err != nil {
				return nil, err
			}
			for _, n := range neighbors {
				if visited[n] {
					continue
				}
				visited[n] = true
				path := append(append([]pathKey{}, f.path...), n)
				if n == goal {
					return keysToStrings(path), nil
				}
				next = append(next, frame{key: n, path: path})
			}
		}
		queue = next
	}
	return nil, nil
}

func keysToStrings(keys []pathKey) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = fmt.Sprintf("%s/%s", k.label, k.id)
	}
	return out
}

func (s *Store) neighborsOf(ctx context.Context, k pathKey) ([]pathKey, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT dst_label, dst_id FROM edges WHERE src_label = ? AND src_id = ?
		 UNION
		 SELECT src_label, src_id FROM edges WHERE dst_label = ? AND dst_id = ?`,
		k.label, k.id, k.label, k.id)
	if err != nil {
		return nil, hazkgerr.Wrap(hazkgerr.ErrBackendUnavailable, "querying neighbors", err)
	}
	defer rows.Close()
	var out []pathKey
	for rows.Next() {
		var n pathKey
		if err := rows.Scan(&n.label, &n.id); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// Recommendation is a degree-ranked neighbor of a node.
type Recommendation struct {
	Label  string
	ID     string
	Degree int
}

// Recommendations returns up to limit neighbors of (label, id) ranked
// by their own degree (most-connected neighbors first), a simple
// degree-ranked recommendation heuristic per spec §4.2.
func (s *Store) Recommendations(ctx context.Context, label, id string, limit int) ([]Recommendation, error) {
	if !s.connected {
		return nil, hazkgerr.ErrNotConnected
	}
	if limit <= 0 {
		limit = 10
	}
	neighbors, err := s.neighborsOf(ctx, pathKey{label, id})
	if err != nil {
		return nil, err
	}
	var recs []Recommendation
	for _, n := range neighbors {
		degree, err := s.degreeOf(ctx, n)
		if err != nil {
			return nil, err
		}
		recs = append(recs, Recommendation{Label: n.label, ID: n.id, Degree: degree})
	}
	sortRecommendations(recs)
	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

func sortRecommendations(recs []Recommendation) {
	for i := 1; i < len(recs); i++ {
		j := i
		for j > 0 && recs[j-1].Degree < recs[j].Degree {
			recs[j-1], recs[j] = recs[j], recs[j-1]
			j--
		}
	}
}

func (s *Store) degreeOf(ctx context.Context, k pathKey) (int, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT
		   (SELECT COUNT(*) FROM edges WHERE src_label = ? AND src_id = ?) +
		   (SELECT COUNT(*) FROM edges WHERE dst_label = ? AND dst_id = ?)`,
		k.label, k.id, k.label, k.id)
	var degree int
	if err := row.Scan(&degree); err != nil {
		return 0, hazkgerr.Wrap(hazkgerr.ErrBackendUnavailable, "computing degree", err)
	}
	return degree, nil
}
