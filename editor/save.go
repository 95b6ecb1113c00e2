package editor

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/meikuraledutech/automation"
)

// Validate runs the validation pass on the current graph and keeps the
// result as the session's error list.
func (s *Session) Validate() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Errors = automation.Validate(&s.state.Graph, automation.WithStrict(s.strict))
	return append([]string(nil), s.state.Errors...)
}

// Save validates the graph, derives its record and hands it to the
// persister. Validation failures come back as *automation.ValidationError.
// Only one save may be in flight; a second call gets
// automation.ErrSaveInProgress. A failed persist leaves the session as it
// was; a successful one re-hydrates the session from the returned record.
func (s *Session) Save(ctx context.Context) (*automation.Record, error) {
	s.mu.Lock()
	if s.state.Saving {
		s.mu.Unlock()
		return nil, automation.ErrSaveInProgress
	}
	record, err := automation.Save(&s.state.Graph, automation.WithStrict(s.strict))
	if err != nil {
		s.state.Errors = automation.Problems(err)
		s.mu.Unlock()
		return nil, err
	}
	s.state.Errors = nil
	s.state.Saving = true
	record.ID = s.state.RecordID
	s.mu.Unlock()

	saved, err := s.store.SaveAutomation(ctx, &record)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Saving = false
	if err != nil {
		s.log.Warn("save automation failed", zap.String("name", record.Name), zap.Error(err))
		return nil, fmt.Errorf("editor: save automation: %w", err)
	}

	selected := s.state.Selected
	s.hydrate(saved)
	if _, ok := s.state.Graph.Node(selected); ok {
		s.state.Selected = selected
	}
	s.log.Info("automation saved", zap.String("id", saved.ID), zap.String("name", saved.Name))
	return saved, nil
}
