package postgres

import (
	"context"
	"fmt"
)

// Edges deliberately carry no foreign key to nodes: the editor may save a
// connection whose endpoint was removed, and it is stored as-is.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS automations (
    id              TEXT PRIMARY KEY,
    name            TEXT NOT NULL,
    platform        TEXT NOT NULL,
    trigger_type    TEXT NOT NULL,
    trigger_summary TEXT NOT NULL,
    response        TEXT NOT NULL,
    status          TEXT NOT NULL DEFAULT 'active',
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS automation_nodes (
    automation_id TEXT NOT NULL REFERENCES automations(id) ON DELETE CASCADE,
    id            TEXT NOT NULL,
    kind          TEXT NOT NULL,
    position_x    DOUBLE PRECISION NOT NULL DEFAULT 0,
    position_y    DOUBLE PRECISION NOT NULL DEFAULT 0,
    data          JSONB NOT NULL DEFAULT '{}',
    seq           INT NOT NULL,
    PRIMARY KEY (automation_id, id)
);

CREATE TABLE IF NOT EXISTS automation_edges (
    automation_id TEXT NOT NULL REFERENCES automations(id) ON DELETE CASCADE,
    id            TEXT NOT NULL,
    source        TEXT NOT NULL,
    target        TEXT NOT NULL,
    source_handle TEXT NOT NULL DEFAULT '',
    seq           INT NOT NULL,
    PRIMARY KEY (automation_id, id)
);

CREATE TABLE IF NOT EXISTS catalog_options (
    kind        TEXT NOT NULL,
    id          TEXT NOT NULL,
    label       TEXT NOT NULL,
    platform_id TEXT NOT NULL DEFAULT '',
    page_id     TEXT NOT NULL DEFAULT '',
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (kind, id)
);

CREATE INDEX IF NOT EXISTS idx_automations_created ON automations(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_catalog_options_page ON catalog_options(kind, page_id);
`

// CreateSchema creates the automation and catalog tables if they don't exist.
func (s *PGStore) CreateSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("postgres: create schema: %w", err)
	}
	return nil
}

// DropSchema drops every table CreateSchema creates.
func (s *PGStore) DropSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `DROP TABLE IF EXISTS automation_edges, automation_nodes, automations, catalog_options CASCADE;`)
	if err != nil {
		return fmt.Errorf("postgres: drop schema: %w", err)
	}
	return nil
}
