package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/meikuraledutech/automation"
)

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// insertNodes writes nodes in graph order. Data is stored in its flattened
// wire form.
func insertNodes(ctx context.Context, db execer, automationID string, nodes []automation.Node) error {
	for i, n := range nodes {
		data, err := json.Marshal(n.Data)
		if err != nil {
			return fmt.Errorf("postgres: encode node %s: %w", n.ID, err)
		}
		if _, err := db.Exec(ctx,
			`INSERT INTO automation_nodes (automation_id, id, kind, position_x, position_y, data, seq)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			automationID, n.ID, string(n.Kind), n.Position.X, n.Position.Y, data, i,
		); err != nil {
			return fmt.Errorf("postgres: insert node %s: %w", n.ID, err)
		}
	}
	return nil
}

// listNodes returns the automation's nodes in graph order.
// Returns an empty slice (not nil) if none found.
func listNodes(ctx context.Context, db querier, automationID string) ([]automation.Node, error) {
	rows, err := db.Query(ctx,
		`SELECT id, kind, position_x, position_y, data FROM automation_nodes
		 WHERE automation_id = $1 ORDER BY seq`, automationID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list nodes: %w", err)
	}
	defer rows.Close()

	nodes := []automation.Node{}
	for rows.Next() {
		var (
			n    automation.Node
			kind string
			data []byte
		)
		if err := rows.Scan(&n.ID, &kind, &n.Position.X, &n.Position.Y, &data); err != nil {
			return nil, fmt.Errorf("postgres: scan node: %w", err)
		}
		n.Kind = automation.Kind(kind)
		if n.Data, err = automation.DecodeNodeData(n.Kind, data); err != nil {
			return nil, fmt.Errorf("postgres: node %s: %w", n.ID, err)
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: rows nodes: %w", err)
	}
	return nodes, nil
}
