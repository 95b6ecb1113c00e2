package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/meikuraledutech/automation"
)

const upsertAutomationSQL = `
INSERT INTO automations (id, name, platform, trigger_type, trigger_summary, response, status)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    platform = EXCLUDED.platform,
    trigger_type = EXCLUDED.trigger_type,
    trigger_summary = EXCLUDED.trigger_summary,
    response = EXCLUDED.response,
    updated_at = NOW()
RETURNING status, created_at, updated_at`

const selectAutomationColumns = `id, name, platform, trigger_type, trigger_summary, response, status, created_at, updated_at`

// SaveAutomation inserts or replaces an automation with its nodes and edges
// in one transaction. A record without an id gets a UUID. On update the
// stored status and creation time win.
func (s *PGStore) SaveAutomation(ctx context.Context, r *automation.Record) (*automation.Record, error) {
	out := *r
	if out.ID == "" {
		out.ID = uuid.NewString()
	}
	status := out.Status
	if status == "" {
		status = automation.StatusActive
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("postgres: begin tx: %w", err)
	}
	defer s.rollback(ctx, tx)

	var stored string
	if err := tx.QueryRow(ctx, upsertAutomationSQL,
		out.ID, out.Name, out.Platform, out.Type, out.Trigger, out.Response, string(status),
	).Scan(&stored, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, fmt.Errorf("postgres: upsert automation %s: %w", out.ID, err)
	}
	out.Status = automation.Status(stored)

	// Replace semantics: the graph is always written whole.
	if _, err := tx.Exec(ctx, `DELETE FROM automation_edges WHERE automation_id = $1`, out.ID); err != nil {
		return nil, fmt.Errorf("postgres: delete edges: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM automation_nodes WHERE automation_id = $1`, out.ID); err != nil {
		return nil, fmt.Errorf("postgres: delete nodes: %w", err)
	}
	if err := insertNodes(ctx, tx, out.ID, out.Nodes); err != nil {
		return nil, err
	}
	if err := insertEdges(ctx, tx, out.ID, out.Edges); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("postgres: commit: %w", err)
	}

	s.log.Debug("automation saved",
		zap.String("id", out.ID),
		zap.Int("nodes", len(out.Nodes)),
		zap.Int("edges", len(out.Edges)),
	)
	return &out, nil
}

// GetAutomation retrieves an automation with its nodes and edges.
// Returns nil, nil if not found.
func (s *PGStore) GetAutomation(ctx context.Context, id string) (*automation.Record, error) {
	row := s.db.QueryRow(ctx, `SELECT `+selectAutomationColumns+` FROM automations WHERE id = $1`, id)
	r, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("postgres: get automation: %w", err)
	}

	if r.Nodes, err = listNodes(ctx, s.db, id); err != nil {
		return nil, err
	}
	if r.Edges, err = listEdges(ctx, s.db, id); err != nil {
		return nil, err
	}
	return r, nil
}

// ListAutomations returns matching automations, newest first, without
// their nodes and edges. Returns an empty slice (not nil) if none found.
func (s *PGStore) ListAutomations(ctx context.Context, f automation.ListFilter) ([]automation.Record, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.Platform != "" {
		add("platform = $%d", f.Platform)
	}
	if f.Type != "" {
		add("trigger_type = $%d", f.Type)
	}
	if f.Status != "" {
		add("status = $%d", string(f.Status))
	}
	if f.Search != "" {
		add("name ILIKE '%%' || $%d || '%%'", f.Search)
	}

	sql := `SELECT ` + selectAutomationColumns + ` FROM automations`
	if len(where) > 0 {
		sql += ` WHERE ` + strings.Join(where, " AND ")
	}
	sql += ` ORDER BY created_at DESC, id`

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list automations: %w", err)
	}
	defer rows.Close()

	out := []automation.Record{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan automation: %w", err)
		}
		out = append(out, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: rows automations: %w", err)
	}
	return out, nil
}

// SetStatus switches an automation on or off.
// Returns automation.ErrAutomationNotFound if it doesn't exist.
func (s *PGStore) SetStatus(ctx context.Context, id string, status automation.Status) error {
	ct, err := s.db.Exec(ctx,
		`UPDATE automations SET status = $1, updated_at = NOW() WHERE id = $2`,
		string(status), id,
	)
	if err != nil {
		return fmt.Errorf("postgres: set status: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return automation.ErrAutomationNotFound
	}
	return nil
}

// DeleteAutomation removes an automation; its nodes and edges are
// cascade-deleted by the DB. No error if it doesn't exist.
func (s *PGStore) DeleteAutomation(ctx context.Context, id string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM automations WHERE id = $1`, id); err != nil {
		return fmt.Errorf("postgres: delete automation: %w", err)
	}
	return nil
}

func scanRecord(row pgx.Row) (*automation.Record, error) {
	var (
		r      automation.Record
		status string
	)
	if err := row.Scan(
		&r.ID, &r.Name, &r.Platform, &r.Type, &r.Trigger, &r.Response,
		&status, &r.CreatedAt, &r.UpdatedAt,
	); err != nil {
		return nil, err
	}
	r.Status = automation.Status(status)
	return &r, nil
}
