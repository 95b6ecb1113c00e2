package editor

import "github.com/meikuraledutech/automation"

// Select moves the session from idle (or another selection) to the given
// node. Unknown ids leave the selection unchanged.
func (s *Session) Select(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.state.Graph.Node(id); !ok {
		return false
	}
	s.state.Selected = id
	return true
}

// Deselect returns the session to idle.
func (s *Session) Deselect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Selected = ""
}

// Selected returns the selected node, if any.
func (s *Session) Selected() (automation.Node, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Selected == "" {
		return automation.Node{}, false
	}
	return s.state.Graph.Node(s.state.Selected)
}

// Panel returns the configuration panel of the selected node, built from
// its current data.
func (s *Session) Panel() (automation.Panel, bool) {
	n, ok := s.Selected()
	if !ok {
		return automation.Panel{}, false
	}
	return automation.PanelFor(n), true
}

// UpdateSelected merges partial into the selected node's data.
func (s *Session) UpdateSelected(partial map[string]any) (bool, error) {
	s.mu.Lock()
	id := s.state.Selected
	s.mu.Unlock()
	if id == "" {
		return false, nil
	}
	return s.UpdateNodeData(id, partial)
}
