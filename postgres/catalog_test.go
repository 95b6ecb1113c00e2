package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meikuraledutech/automation"
)

type postSourceFunc func(ctx context.Context, pageID string) ([]automation.Option, error)

func (f postSourceFunc) FetchPosts(ctx context.Context, pageID string) ([]automation.Option, error) {
	return f(ctx, pageID)
}

var optionColumns = []string{"id", "label", "platform_id", "page_id"}

func TestListOptions(t *testing.T) {
	ctx := context.Background()

	t.Run("filters pages by platform", func(t *testing.T) {
		mock, store := newMock(t)
		mock.ExpectQuery(quoted("FROM catalog_options WHERE kind = $1 AND platform_id = $2 ORDER BY label, id")).
			WithArgs("page", "ig").
			WillReturnRows(pgxmock.NewRows(optionColumns).AddRow("p1", "Acme IG", "ig", ""))

		opts, err := store.ListOptions(ctx, automation.OptionPage, automation.OptionFilter{PlatformID: "ig"})
		require.NoError(t, err)
		assert.Equal(t, []automation.Option{{ID: "p1", Label: "Acme IG", PlatformID: "ig"}}, opts)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects unknown kinds without querying", func(t *testing.T) {
		mock, store := newMock(t)
		_, err := store.ListOptions(ctx, automation.OptionKind("tag"), automation.OptionFilter{})
		assert.ErrorIs(t, err, automation.ErrUnknownOptionKind)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPutOptions(t *testing.T) {
	mock, store := newMock(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(quoted("INSERT INTO catalog_options")).
		WithArgs("platform", "ig", "Instagram", "", "").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(quoted("INSERT INTO catalog_options")).
		WithArgs("platform", "fb", "Facebook", "", "").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()
	mock.ExpectRollback().WillReturnError(pgx.ErrTxClosed)

	err := store.PutOptions(ctx, automation.OptionPlatform, []automation.Option{
		{ID: "ig", Label: "Instagram"},
		{ID: "fb", Label: "Facebook"},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncPosts(t *testing.T) {
	ctx := context.Background()

	t.Run("stores fetched posts under the page", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		src := postSourceFunc(func(ctx context.Context, pageID string) ([]automation.Option, error) {
			return []automation.Option{{ID: "post-9", Label: "Launch"}}, nil
		})
		store := New(mock, WithPostSource(src))

		mock.ExpectBegin()
		mock.ExpectExec(quoted("INSERT INTO catalog_options")).
			WithArgs("post", "post-9", "Launch", "", "page-1").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()
		mock.ExpectRollback().WillReturnError(pgx.ErrTxClosed)
		mock.ExpectQuery(quoted("FROM catalog_options WHERE kind = $1 AND page_id = $2")).
			WithArgs("post", "page-1").
			WillReturnRows(pgxmock.NewRows(optionColumns).
				AddRow("post-1", "Earlier", "", "page-1").
				AddRow("post-9", "Launch", "", "page-1"))

		posts, err := store.SyncPosts(ctx, "page-1")
		require.NoError(t, err)
		assert.Len(t, posts, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("surfaces upstream failures", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		src := postSourceFunc(func(ctx context.Context, pageID string) ([]automation.Option, error) {
			return nil, errors.New("rate limited")
		})
		store := New(mock, WithPostSource(src))

		_, err = store.SyncPosts(ctx, "page-1")
		assert.ErrorContains(t, err, "rate limited")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
