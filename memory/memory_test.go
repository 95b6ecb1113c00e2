package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meikuraledutech/automation"
)

type staticPosts []automation.Option

func (p staticPosts) FetchPosts(ctx context.Context, pageID string) ([]automation.Option, error) {
	return append([]automation.Option(nil), p...), nil
}

type failingPosts struct{}

func (failingPosts) FetchPosts(ctx context.Context, pageID string) ([]automation.Option, error) {
	return nil, errors.New("rate limited")
}

func TestSaveAutomation(t *testing.T) {
	ctx := context.Background()
	s := New(nil)
	clock := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time { return clock }

	saved, err := s.SaveAutomation(ctx, &automation.Record{Name: "First", Platform: "Instagram"})
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)
	assert.Equal(t, automation.StatusActive, saved.Status)
	assert.Equal(t, clock, saved.CreatedAt)

	require.NoError(t, s.SetStatus(ctx, saved.ID, automation.StatusInactive))

	clock = clock.Add(time.Hour)
	updated, err := s.SaveAutomation(ctx, &automation.Record{ID: saved.ID, Name: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, automation.StatusInactive, updated.Status, "update keeps the stored status")
	assert.Equal(t, saved.CreatedAt, updated.CreatedAt)
	assert.Equal(t, clock, updated.UpdatedAt)

	assert.ErrorIs(t, s.SetStatus(ctx, "missing", automation.StatusActive), automation.ErrAutomationNotFound)
}

func TestGetAutomation_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := New(nil)
	saved, err := s.SaveAutomation(ctx, &automation.Record{
		Name:  "Flow",
		Nodes: []automation.Node{{ID: "t1", Kind: automation.KindTrigger}},
	})
	require.NoError(t, err)

	got, err := s.GetAutomation(ctx, saved.ID)
	require.NoError(t, err)
	got.Nodes[0].ID = "changed"

	again, err := s.GetAutomation(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "t1", again.Nodes[0].ID)

	missing, err := s.GetAutomation(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestListAutomations(t *testing.T) {
	ctx := context.Background()
	s := New(nil)
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	for _, r := range []automation.Record{
		{Name: "Price replies", Platform: "Instagram", Type: "Comment"},
		{Name: "Welcome DM", Platform: "Facebook", Type: "New Follower"},
		{Name: "Price DMs", Platform: "Facebook", Type: "Comment"},
	} {
		_, err := s.SaveAutomation(ctx, &r)
		require.NoError(t, err)
	}

	all, err := s.ListAutomations(ctx, automation.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Price DMs", all[0].Name, "newest first")

	got, err := s.ListAutomations(ctx, automation.ListFilter{Platform: "Facebook", Search: "price"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Price DMs", got[0].Name)

	got, err = s.ListAutomations(ctx, automation.ListFilter{Status: automation.StatusInactive})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOptions(t *testing.T) {
	ctx := context.Background()
	s := New(nil)

	require.NoError(t, s.PutOptions(ctx, automation.OptionPage, []automation.Option{
		{ID: "p1", Label: "Acme IG", PlatformID: "ig"},
		{ID: "p2", Label: "Acme FB", PlatformID: "fb"},
	}))
	require.NoError(t, s.PutOptions(ctx, automation.OptionPage, []automation.Option{
		{ID: "p1", Label: "Acme Instagram", PlatformID: "ig"},
	}))

	got, err := s.ListOptions(ctx, automation.OptionPage, automation.OptionFilter{PlatformID: "ig"})
	require.NoError(t, err)
	assert.Equal(t, []automation.Option{{ID: "p1", Label: "Acme Instagram", PlatformID: "ig"}}, got)

	_, err = s.ListOptions(ctx, "tag", automation.OptionFilter{})
	assert.ErrorIs(t, err, automation.ErrUnknownOptionKind)
	assert.ErrorIs(t, s.PutOptions(ctx, "tag", nil), automation.ErrUnknownOptionKind)
}

func TestSyncPosts(t *testing.T) {
	ctx := context.Background()
	s := New(staticPosts{{ID: "post-1", Label: "Launch day"}})

	got, err := s.SyncPosts(ctx, "page-ig")
	require.NoError(t, err)
	assert.Equal(t, []automation.Option{{ID: "post-1", Label: "Launch day", PageID: "page-ig"}}, got)

	other, err := s.ListOptions(ctx, automation.OptionPost, automation.OptionFilter{PageID: "page-fb"})
	require.NoError(t, err)
	assert.Empty(t, other)

	_, err = New(failingPosts{}).SyncPosts(ctx, "page-ig")
	assert.ErrorContains(t, err, "rate limited")
}
