package memory

import (
	"context"
	"fmt"

	"github.com/meikuraledutech/automation"
)

// ListOptions returns the options of kind that pass f, in insertion order.
func (s *Store) ListOptions(ctx context.Context, kind automation.OptionKind, f automation.OptionFilter) ([]automation.Option, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: %q", automation.ErrUnknownOptionKind, kind)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []automation.Option{}
	for _, o := range s.options[kind] {
		if f.Matches(o) {
			out = append(out, o)
		}
	}
	return out, nil
}

// PutOptions upserts options by id.
func (s *Store) PutOptions(ctx context.Context, kind automation.OptionKind, opts []automation.Option) error {
	if !kind.IsValid() {
		return fmt.Errorf("%w: %q", automation.ErrUnknownOptionKind, kind)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putLocked(kind, opts)
	return nil
}

func (s *Store) putLocked(kind automation.OptionKind, opts []automation.Option) {
	existing := s.options[kind]
	for _, o := range opts {
		replaced := false
		for i := range existing {
			if existing[i].ID == o.ID {
				existing[i] = o
				replaced = true
				break
			}
		}
		if !replaced {
			existing = append(existing, o)
		}
	}
	s.options[kind] = existing
}

// SyncPosts pulls the page's posts from the post source, stores them and
// returns the page's posts.
func (s *Store) SyncPosts(ctx context.Context, pageID string) ([]automation.Option, error) {
	if s.posts != nil {
		fetched, err := s.posts.FetchPosts(ctx, pageID)
		if err != nil {
			return nil, fmt.Errorf("memory: fetch posts for page %s: %w", pageID, err)
		}
		for i := range fetched {
			fetched[i].PageID = pageID
		}
		s.mu.Lock()
		s.putLocked(automation.OptionPost, fetched)
		s.mu.Unlock()
	}
	return s.ListOptions(ctx, automation.OptionPost, automation.OptionFilter{PageID: pageID})
}
