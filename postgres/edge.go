package postgres

import (
	"context"
	"fmt"

	"github.com/meikuraledutech/automation"
)

// insertEdges writes edges in graph order. Endpoints are not checked
// against the node table.
func insertEdges(ctx context.Context, db execer, automationID string, edges []automation.Edge) error {
	for i, e := range edges {
		if _, err := db.Exec(ctx,
			`INSERT INTO automation_edges (automation_id, id, source, target, source_handle, seq)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			automationID, e.ID, e.Source, e.Target, string(e.SourceHandle), i,
		); err != nil {
			return fmt.Errorf("postgres: insert edge %s: %w", e.ID, err)
		}
	}
	return nil
}

// listEdges returns the automation's edges in graph order.
// Returns an empty slice (not nil) if none found.
func listEdges(ctx context.Context, db querier, automationID string) ([]automation.Edge, error) {
	rows, err := db.Query(ctx,
		`SELECT id, source, target, source_handle FROM automation_edges
		 WHERE automation_id = $1 ORDER BY seq`, automationID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list edges: %w", err)
	}
	defer rows.Close()

	edges := []automation.Edge{}
	for rows.Next() {
		var (
			e      automation.Edge
			handle string
		)
		if err := rows.Scan(&e.ID, &e.Source, &e.Target, &handle); err != nil {
			return nil, fmt.Errorf("postgres: scan edge: %w", err)
		}
		e.SourceHandle = automation.Handle(handle)
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: rows edges: %w", err)
	}
	return edges, nil
}
