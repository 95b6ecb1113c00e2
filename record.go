package automation

import "strings"

// Defaults used when the trigger or an action leaves a field blank.
const (
	DefaultPlatform    = "All Platforms"
	DefaultTriggerType = "Custom"
	DefaultTrigger     = "Custom trigger"
	DefaultAction      = "Custom action"
)

// ToRecord flattens g into a record. The first trigger node supplies
// platform, type and trigger; every action node contributes its description
// to the comma-joined response. It does not validate g.
func ToRecord(g *Graph) Record {
	cp := g.Clone()
	r := Record{
		Name:     cp.Name,
		Nodes:    cp.Nodes,
		Edges:    cp.Edges,
		Platform: DefaultPlatform,
		Type:     DefaultTriggerType,
		Trigger:  DefaultTrigger,
	}
	if r.Nodes == nil {
		r.Nodes = []Node{}
	}
	if r.Edges == nil {
		r.Edges = []Edge{}
	}

	if triggers := g.NodesOfKind(KindTrigger); len(triggers) > 0 {
		t := triggers[0]
		if cfg := t.Data.Trigger(); cfg != nil {
			if cfg.Platform != "" {
				r.Platform = cfg.Platform
			}
			if cfg.TriggerType != "" {
				r.Type = cfg.TriggerType
			}
		}
		if t.Data.Description != "" {
			r.Trigger = t.Data.Description
		}
	}

	var responses []string
	for _, a := range g.NodesOfKind(KindAction) {
		desc := a.Data.Description
		if desc == "" {
			desc = DefaultAction
		}
		responses = append(responses, desc)
	}
	r.Response = strings.Join(responses, ", ")
	return r
}

// FromRecord loads a saved record's nodes and edges as-is.
func FromRecord(r *Record) Graph {
	g := Graph{Name: r.Name, Nodes: r.Nodes, Edges: r.Edges}
	return g.Clone()
}
