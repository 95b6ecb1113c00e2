package automation

import (
	"fmt"
	"strings"
	"time"
)

// Validation messages for the default rule set.
const (
	MsgNoTrigger      = "Automation needs at least one trigger node"
	MsgManyTriggers   = "Automation can only have one trigger node"
	MsgNoAction       = "Automation needs at least one action node"
	msgOrphanedFormat = "%d node(s) are not connected to the automation flow"
)

type validateOptions struct {
	strict bool
}

// ValidateOption tunes Validate.
type ValidateOption func(*validateOptions)

// WithStrict enables the checks the default rule set deliberately leaves
// out: dangling edges, cycles, missing condition branches and per-kind
// config problems.
func WithStrict(enable bool) ValidateOption {
	return func(o *validateOptions) {
		o.strict = enable
	}
}

// Validate decides whether g is a usable automation and returns the
// problems found, or nil.
//
// The default rules: exactly one trigger, at least one action, and every
// non-trigger node must appear on some edge. Orphans are reported as one
// aggregate problem carrying the count.
func Validate(g *Graph, opts ...ValidateOption) []string {
	var o validateOptions
	for _, opt := range opts {
		opt(&o)
	}

	var problems []string

	triggers, actions := 0, 0
	for _, n := range g.Nodes {
		switch n.Kind {
		case KindTrigger:
			triggers++
		case KindAction:
			actions++
		}
	}
	switch {
	case triggers == 0:
		problems = append(problems, MsgNoTrigger)
	case triggers > 1:
		problems = append(problems, MsgManyTriggers)
	}
	if actions == 0 {
		problems = append(problems, MsgNoAction)
	}

	connected := make(map[string]bool, len(g.Edges)*2)
	for _, e := range g.Edges {
		connected[e.Source] = true
		connected[e.Target] = true
	}
	orphaned := 0
	for _, n := range g.Nodes {
		if n.Kind != KindTrigger && !connected[n.ID] {
			orphaned++
		}
	}
	if orphaned > 0 {
		problems = append(problems, fmt.Sprintf(msgOrphanedFormat, orphaned))
	}

	if o.strict {
		problems = append(problems, strictProblems(g)...)
	}
	return problems
}

// Save validates g and, when it is valid, derives its record.
func Save(g *Graph, opts ...ValidateOption) (Record, error) {
	if problems := Validate(g, opts...); len(problems) > 0 {
		return Record{}, &ValidationError{Problems: problems}
	}
	return ToRecord(g), nil
}

func strictProblems(g *Graph) []string {
	problems := g.DuplicateIDs()

	ids := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		ids[n.ID] = true
	}
	for _, e := range g.Edges {
		for _, end := range []string{e.Source, e.Target} {
			if !ids[end] {
				problems = append(problems, fmt.Sprintf("Connection %s references a missing node %s", e.ID, end))
			}
		}
	}

	if cycle := findCycle(g); cycle != nil {
		problems = append(problems, fmt.Sprintf("Automation flow contains a loop: %s", strings.Join(cycle, " -> ")))
	}

	for _, n := range g.Nodes {
		if n.Kind == KindCondition {
			problems = append(problems, missingBranches(g, n)...)
		}
		problems = append(problems, ConfigProblems(n)...)
	}
	return problems
}

func missingBranches(g *Graph, n Node) []string {
	seen := map[Handle]bool{}
	for _, e := range g.Edges {
		if e.Source == n.ID {
			seen[e.SourceHandle] = true
		}
	}
	var problems []string
	for _, h := range PortsFor(KindCondition).Outputs {
		if !seen[h] {
			problems = append(problems, fmt.Sprintf("Condition %q has no %s branch", n.Data.Label, h))
		}
	}
	return problems
}

// ConfigProblems checks a node's kind-specific config.
func ConfigProblems(n Node) []string {
	var problems []string
	switch c := n.Data.Config.(type) {
	case *TriggerConfig:
		if strings.TrimSpace(c.TriggerType) == "" {
			problems = append(problems, fmt.Sprintf("Trigger %q has no trigger type", n.Data.Label))
		}
	case *ConditionConfig:
		if len(c.Conditions) == 0 && (c.Field == "" || c.Operator == "") {
			problems = append(problems, fmt.Sprintf("Condition %q has no comparison", n.Data.Label))
		}
		for i, cl := range c.Conditions {
			if cl.Field == "" || cl.Operator == "" {
				problems = append(problems, fmt.Sprintf("Condition %q clause %d is incomplete", n.Data.Label, i+1))
			}
		}
		switch c.Logic {
		case "", LogicAnd, LogicOr:
		default:
			problems = append(problems, fmt.Sprintf("Condition %q has unknown logic operator %q", n.Data.Label, c.Logic))
		}
	case *ActionConfig:
		if strings.TrimSpace(c.ActionType) == "" {
			problems = append(problems, fmt.Sprintf("Action %q has no action type", n.Data.Label))
		}
		if r := c.Retry; r != nil {
			if r.Attempts < 1 {
				problems = append(problems, fmt.Sprintf("Action %q must retry at least once", n.Data.Label))
			}
			if _, err := time.ParseDuration(r.Interval); err != nil {
				problems = append(problems, fmt.Sprintf("Action %q has an invalid retry interval %q", n.Data.Label, r.Interval))
			}
		}
	default:
		problems = append(problems, fmt.Sprintf("Node %q has no configuration", n.ID))
	}
	return problems
}

// findCycle returns the node ids of the first cycle found, closed by
// repeating its first node, or nil when the graph is acyclic.
func findCycle(g *Graph) []string {
	adj := make(map[string][]string)
	for _, e := range g.Edges {
		adj[e.Source] = append(adj[e.Source], e.Target)
	}

	const (
		unvisited = 0
		visiting  = 1
		visited   = 2
	)

	state := make(map[string]int)
	var path []string
	var cycle []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		state[id] = visiting
		path = append(path, id)
		for _, next := range adj[id] {
			switch state[next] {
			case visiting:
				for i, p := range path {
					if p == next {
						cycle = append(append([]string(nil), path[i:]...), next)
						break
					}
				}
				return true
			case unvisited:
				if dfs(next) {
					return true
				}
			}
		}
		path = path[:len(path)-1]
		state[id] = visited
		return false
	}

	for _, n := range g.Nodes {
		if state[n.ID] == unvisited && dfs(n.ID) {
			return cycle
		}
	}
	return nil
}
