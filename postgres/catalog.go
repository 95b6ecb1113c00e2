package postgres

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/meikuraledutech/automation"
)

const upsertOptionSQL = `
INSERT INTO catalog_options (kind, id, label, platform_id, page_id)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (kind, id) DO UPDATE SET
    label = EXCLUDED.label,
    platform_id = EXCLUDED.platform_id,
    page_id = EXCLUDED.page_id,
    updated_at = NOW()`

// ListOptions returns the options of kind that pass f, ordered by label.
func (s *PGStore) ListOptions(ctx context.Context, kind automation.OptionKind, f automation.OptionFilter) ([]automation.Option, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: %q", automation.ErrUnknownOptionKind, kind)
	}
	where := []string{"kind = $1"}
	args := []any{string(kind)}
	if f.PlatformID != "" {
		args = append(args, f.PlatformID)
		where = append(where, fmt.Sprintf("platform_id = $%d", len(args)))
	}
	if f.PageID != "" {
		args = append(args, f.PageID)
		where = append(where, fmt.Sprintf("page_id = $%d", len(args)))
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, label, platform_id, page_id FROM catalog_options WHERE `+
			strings.Join(where, " AND ")+` ORDER BY label, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list %s options: %w", kind, err)
	}
	defer rows.Close()

	out := []automation.Option{}
	for rows.Next() {
		var o automation.Option
		if err := rows.Scan(&o.ID, &o.Label, &o.PlatformID, &o.PageID); err != nil {
			return nil, fmt.Errorf("postgres: scan option: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: rows options: %w", err)
	}
	return out, nil
}

// PutOptions upserts options by (kind, id) in one transaction.
func (s *PGStore) PutOptions(ctx context.Context, kind automation.OptionKind, opts []automation.Option) error {
	if !kind.IsValid() {
		return fmt.Errorf("%w: %q", automation.ErrUnknownOptionKind, kind)
	}
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: begin tx: %w", err)
	}
	defer s.rollback(ctx, tx)

	for _, o := range opts {
		if _, err := tx.Exec(ctx, upsertOptionSQL, string(kind), o.ID, o.Label, o.PlatformID, o.PageID); err != nil {
			return fmt.Errorf("postgres: upsert %s option %s: %w", kind, o.ID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

// SyncPosts pulls the page's posts from the post source, upserts them and
// returns every stored post of the page. Without a post source it only
// returns what is stored.
func (s *PGStore) SyncPosts(ctx context.Context, pageID string) ([]automation.Option, error) {
	if s.posts != nil {
		fetched, err := s.posts.FetchPosts(ctx, pageID)
		if err != nil {
			return nil, fmt.Errorf("postgres: fetch posts for page %s: %w", pageID, err)
		}
		for i := range fetched {
			fetched[i].PageID = pageID
		}
		if err := s.PutOptions(ctx, automation.OptionPost, fetched); err != nil {
			return nil, err
		}
		s.log.Info("posts synced", zap.String("page_id", pageID), zap.Int("count", len(fetched)))
	}
	return s.ListOptions(ctx, automation.OptionPost, automation.OptionFilter{PageID: pageID})
}
