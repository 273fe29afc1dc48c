package graphstore

// schemaSQL returns the DDL bootstrapping the property-graph tables:
// nodes partitioned by label with a unique (label, id) key, and edges
// referencing (label, id) pairs by value (SQLite cannot express a
// foreign key into a label-partitioned composite key cleanly across
// dynamic label sets, so endpoint existence is checked in Go — see
// CreateEdge). Indexed the way the teacher's store/schema.go indexes
// its own tables: one index per field commonly filtered on.
func schemaSQL() string {
	return `
CREATE TABLE IF NOT EXISTS nodes (
    label TEXT NOT NULL,
    id TEXT NOT NULL,
    properties TEXT NOT NULL,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL,
    PRIMARY KEY (label, id)
);

CREATE TABLE IF NOT EXISTS edges (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    src_label TEXT NOT NULL,
    src_id TEXT NOT NULL,
    dst_label TEXT NOT NULL,
    dst_id TEXT NOT NULL,
    type TEXT NOT NULL,
    properties TEXT NOT NULL,
    created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_nodes_label ON nodes(label);
CREATE INDEX IF NOT EXISTS idx_edges_type ON edges(type);
CREATE INDEX IF NOT EXISTS idx_edges_src ON edges(src_label, src_id);
CREATE INDEX IF NOT EXISTS idx_edges_dst ON edges(dst_label, dst_id);
`
}
