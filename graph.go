package automation

import (
	"fmt"

	"github.com/google/uuid"
)

// NewNode allocates a node of the given kind at pos. initial is merged into
// the node's data; the label defaults to "New <kind>".
func NewNode(kind Kind, initial map[string]any, pos Position) (Node, error) {
	cfg, err := NewConfig(kind)
	if err != nil {
		return Node{}, err
	}
	data := NodeData{Config: cfg}
	if len(initial) > 0 {
		if data, err = data.Merge(initial); err != nil {
			return Node{}, err
		}
	}
	if data.Label == "" {
		data.Label = fmt.Sprintf("New %s", kind)
	}
	return Node{
		ID:       fmt.Sprintf("%s-%s", kind, uuid.NewString()),
		Kind:     kind,
		Position: pos,
		Data:     data,
	}, nil
}

// AddNode creates a node and appends it to the graph.
func (g *Graph) AddNode(kind Kind, initial map[string]any, pos Position) (Node, error) {
	n, err := NewNode(kind, initial, pos)
	if err != nil {
		return Node{}, err
	}
	g.Nodes = append(g.Nodes, n)
	return n, nil
}

func (g *Graph) indexOf(id string) int {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return i
		}
	}
	return -1
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	if i := g.indexOf(id); i >= 0 {
		return g.Nodes[i], true
	}
	return Node{}, false
}

// NodesOfKind returns the nodes of kind k in graph order.
func (g *Graph) NodesOfKind(k Kind) []Node {
	var out []Node
	for _, n := range g.Nodes {
		if n.Kind == k {
			out = append(out, n)
		}
	}
	return out
}

// UpdateNodeData shallow-merges partial into the node's data. It reports
// false without error when id is unknown. A partial that does not fit the
// node's schema returns an error and leaves the node untouched.
func (g *Graph) UpdateNodeData(id string, partial map[string]any) (bool, error) {
	i := g.indexOf(id)
	if i < 0 {
		return false, nil
	}
	merged, err := g.Nodes[i].Data.Merge(partial)
	if err != nil {
		return false, err
	}
	g.Nodes[i].Data = merged
	return true, nil
}

// MoveNode sets a node's position. It reports false when id is unknown.
func (g *Graph) MoveNode(id string, pos Position) bool {
	i := g.indexOf(id)
	if i < 0 {
		return false
	}
	g.Nodes[i].Position = pos
	return true
}

// DeleteNode removes the node and every edge that starts or ends at it.
// It reports false when id is unknown.
func (g *Graph) DeleteNode(id string) bool {
	i := g.indexOf(id)
	if i < 0 {
		return false
	}
	g.Nodes = append(g.Nodes[:i], g.Nodes[i+1:]...)

	edges := g.Edges[:0]
	for _, e := range g.Edges {
		if e.Source == id || e.Target == id {
			continue
		}
		edges = append(edges, e)
	}
	g.Edges = edges
	return true
}

// Connect appends an edge from source to target. Any topology is accepted
// here, including self-loops and parallel edges; interactive restrictions
// live in CanConnect.
func (g *Graph) Connect(source, target string, handle Handle) Edge {
	e := Edge{
		ID:           fmt.Sprintf("e-%s", uuid.NewString()),
		Source:       source,
		Target:       target,
		SourceHandle: handle,
	}
	g.Edges = append(g.Edges, e)
	return e
}

// Disconnect removes the edge with the given id. It reports false when id
// is unknown.
func (g *Graph) Disconnect(edgeID string) bool {
	for i := range g.Edges {
		if g.Edges[i].ID == edgeID {
			g.Edges = append(g.Edges[:i], g.Edges[i+1:]...)
			return true
		}
	}
	return false
}

// Clone returns a deep copy of g.
func (g Graph) Clone() Graph {
	cp := Graph{Name: g.Name}
	if g.Nodes != nil {
		cp.Nodes = make([]Node, len(g.Nodes))
		for i, n := range g.Nodes {
			n.Data = n.Data.Clone()
			cp.Nodes[i] = n
		}
	}
	if g.Edges != nil {
		cp.Edges = append([]Edge(nil), g.Edges...)
	}
	return cp
}

// DuplicateIDs reports every node or edge id used more than once, or nil.
// Graphs built through AddNode and Connect never have any; graphs decoded
// from clients or files may.
func (g *Graph) DuplicateIDs() []string {
	var problems []string
	seen := make(map[string]int, len(g.Nodes))
	for _, n := range g.Nodes {
		if seen[n.ID]++; seen[n.ID] == 2 {
			problems = append(problems, fmt.Sprintf("Node id %q is used more than once", n.ID))
		}
	}
	seen = make(map[string]int, len(g.Edges))
	for _, e := range g.Edges {
		if seen[e.ID]++; seen[e.ID] == 2 {
			problems = append(problems, fmt.Sprintf("Connection id %q is used more than once", e.ID))
		}
	}
	return problems
}
