// Package memory keeps automations and catalog options in process memory.
// It backs `serve --in-memory` and the HTTP tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/meikuraledutech/automation"
)

// Store implements automation.Store and automation.Catalog.
type Store struct {
	mu          sync.RWMutex
	automations map[string]automation.Record
	options     map[automation.OptionKind][]automation.Option
	posts       automation.PostSource
	now         func() time.Time
}

var (
	_ automation.Store   = (*Store)(nil)
	_ automation.Catalog = (*Store)(nil)
)

// New creates an empty store. posts may be nil, in which case SyncPosts
// only returns what is already stored.
func New(posts automation.PostSource) *Store {
	return &Store{
		automations: make(map[string]automation.Record),
		options:     make(map[automation.OptionKind][]automation.Option),
		posts:       posts,
		now:         time.Now,
	}
}

func (s *Store) CreateSchema(ctx context.Context) error { return nil }

// DropSchema forgets everything.
func (s *Store) DropSchema(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.automations = make(map[string]automation.Record)
	s.options = make(map[automation.OptionKind][]automation.Option)
	return nil
}

// SaveAutomation inserts or replaces a record. Records without an id get a
// UUID; an update keeps the stored status and creation time.
func (s *Store) SaveAutomation(ctx context.Context, r *automation.Record) (*automation.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := copyRecord(*r)
	now := s.now().UTC()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if prev, ok := s.automations[rec.ID]; ok {
		rec.Status = prev.Status
		rec.CreatedAt = prev.CreatedAt
	} else {
		if rec.Status == "" {
			rec.Status = automation.StatusActive
		}
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	s.automations[rec.ID] = rec

	out := copyRecord(rec)
	return &out, nil
}

// GetAutomation returns nil, nil if not found.
func (s *Store) GetAutomation(ctx context.Context, id string) (*automation.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.automations[id]
	if !ok {
		return nil, nil
	}
	out := copyRecord(rec)
	return &out, nil
}

// ListAutomations returns matching records, newest first, without their
// nodes and edges.
func (s *Store) ListAutomations(ctx context.Context, f automation.ListFilter) ([]automation.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []automation.Record{}
	for _, rec := range s.automations {
		if !matches(rec, f) {
			continue
		}
		rec.Nodes, rec.Edges = nil, nil
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func matches(r automation.Record, f automation.ListFilter) bool {
	if f.Platform != "" && r.Platform != f.Platform {
		return false
	}
	if f.Type != "" && r.Type != f.Type {
		return false
	}
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(r.Name), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

// SetStatus returns automation.ErrAutomationNotFound for unknown ids.
func (s *Store) SetStatus(ctx context.Context, id string, status automation.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.automations[id]
	if !ok {
		return automation.ErrAutomationNotFound
	}
	rec.Status = status
	rec.UpdatedAt = s.now().UTC()
	s.automations[id] = rec
	return nil
}

// DeleteAutomation is a no-op for unknown ids.
func (s *Store) DeleteAutomation(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.automations, id)
	return nil
}

func copyRecord(r automation.Record) automation.Record {
	g := automation.FromRecord(&r)
	r.Nodes, r.Edges = g.Nodes, g.Edges
	return r
}
