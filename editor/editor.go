// Package editor implements the graph editing session behind the visual
// automation builder: node and edge gestures, node selection, the pre-save
// validation pass and the hand-off to the persistence collaborator.
package editor

import (
	"sync"

	"go.uber.org/zap"

	"github.com/meikuraledutech/automation"
)

// State is the serializable state of one editing session.
type State struct {
	RecordID string           `json:"recordId,omitempty"`
	Graph    automation.Graph `json:"graph"`
	// Selected is the id of the selected node; empty means idle.
	Selected string   `json:"selected,omitempty"`
	Errors   []string `json:"errors,omitempty"`
	Saving   bool     `json:"saving"`
	// FitView asks the canvas to centre an empty graph instead of laying
	// out stored positions.
	FitView bool `json:"fitView"`
}

// Session owns exactly one graph. All methods are safe for concurrent use,
// but a save never holds the lock while the persister runs.
type Session struct {
	mu     sync.Mutex
	state  State
	store  automation.Persister
	log    *zap.Logger
	strict bool
}

var _ automation.Editor = (*Session)(nil)

// Option customizes a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Session) {
		if log != nil {
			s.log = log.Named("editor")
		}
	}
}

// WithStrictValidation turns on the strict rule set for Validate and Save.
func WithStrictValidation(enable bool) Option {
	return func(s *Session) {
		s.strict = enable
	}
}

// New starts a session on an empty graph called name.
func New(name string, store automation.Persister, opts ...Option) *Session {
	return Open(&automation.Record{Name: name}, store, opts...)
}

// Open starts a session hydrated from a saved record. A record without
// nodes opens an empty, auto-fitted canvas.
func Open(r *automation.Record, store automation.Persister, opts ...Option) *Session {
	s := &Session{
		store: store,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.hydrate(r)
	return s
}

func (s *Session) hydrate(r *automation.Record) {
	s.state = State{
		RecordID: r.ID,
		Graph:    automation.FromRecord(r),
		FitView:  len(r.Nodes) == 0,
	}
}

// Snapshot returns a copy of the session state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := s.state
	cp.Graph = s.state.Graph.Clone()
	cp.Errors = append([]string(nil), s.state.Errors...)
	return cp
}

// Graph returns a copy of the graph being edited.
func (s *Session) Graph() automation.Graph {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Graph.Clone()
}

// Errors returns the problems found by the last validation, if still current.
func (s *Session) Errors() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.state.Errors...)
}

// SetName renames the automation.
func (s *Session) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Graph.Name = name
}

// AddNode drops a new node of kind onto the canvas at pos.
func (s *Session) AddNode(kind automation.Kind, initial map[string]any, pos automation.Position) (automation.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := s.state.Graph.AddNode(kind, initial, pos)
	if err != nil {
		return automation.Node{}, err
	}
	s.touch()
	return n, nil
}

// MoveNode repositions a node. Unknown ids are ignored.
func (s *Session) MoveNode(id string, pos automation.Position) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.Graph.MoveNode(id, pos) {
		return false
	}
	s.touch()
	return true
}

// UpdateNodeData merges partial into a node's data. Unknown ids are ignored.
func (s *Session) UpdateNodeData(id string, partial map[string]any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok, err := s.state.Graph.UpdateNodeData(id, partial)
	if err != nil || !ok {
		return ok, err
	}
	s.touch()
	return true, nil
}

// DeleteNode removes a node and its edges, clearing the selection if the
// node was selected.
func (s *Session) DeleteNode(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.Graph.DeleteNode(id) {
		return false
	}
	if s.state.Selected == id {
		s.state.Selected = ""
	}
	return true
}

// Connect draws an edge if the editor allows it. See automation.CanConnect.
func (s *Session) Connect(source, target string, handle automation.Handle) (automation.Edge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := automation.CanConnect(&s.state.Graph, source, target, handle); err != nil {
		return automation.Edge{}, err
	}
	return s.state.Graph.Connect(source, target, handle), nil
}

// Disconnect removes an edge.
func (s *Session) Disconnect(edgeID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Graph.Disconnect(edgeID)
}

// touch drops errors computed against an older graph. They are only
// recomputed on the next explicit Validate or Save.
func (s *Session) touch() {
	s.state.Errors = nil
}
