package automation

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// commentGraph builds trigger -> reply, the smallest valid automation.
func commentGraph(t *testing.T) (*Graph, Node, Node, Edge) {
	t.Helper()
	g := &Graph{Name: "Comment replies"}
	trigger, err := g.AddNode(KindTrigger, map[string]any{
		"platform":    "Instagram",
		"triggerType": "Comment",
		"description": "Triggered by a new comment",
	}, Position{X: 100, Y: 100})
	require.NoError(t, err)
	action, err := g.AddNode(KindAction, map[string]any{
		"actionType":  "reply",
		"description": "Send a response",
	}, Position{X: 400, Y: 100})
	require.NoError(t, err)
	edge := g.Connect(trigger.ID, action.ID, HandleDefault)
	return g, trigger, action, edge
}

func TestNewNode_Defaults(t *testing.T) {
	for _, kind := range Kinds {
		n, err := NewNode(kind, nil, Position{X: 1, Y: 2})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(n.ID, string(kind)+"-"), "id %q should carry its kind", n.ID)
		assert.Equal(t, kind, n.Kind)
		assert.Equal(t, "New "+string(kind), n.Data.Label)
		assert.Equal(t, kind, n.Data.Config.Kind())
		assert.Equal(t, Position{X: 1, Y: 2}, n.Position)
	}
}

func TestNewNode_UniqueIDs(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		n, err := NewNode(KindAction, nil, Position{})
		require.NoError(t, err)
		require.False(t, seen[n.ID], "duplicate id %s", n.ID)
		seen[n.ID] = true
	}
}

func TestNewNode_MergesInitialData(t *testing.T) {
	n, err := NewNode(KindTrigger, map[string]any{
		"label":    "New comment",
		"platform": "Facebook",
	}, Position{})
	require.NoError(t, err)
	assert.Equal(t, "New comment", n.Data.Label)
	assert.Equal(t, "Facebook", n.Data.Trigger().Platform)
}

func TestNewNode_UnknownKind(t *testing.T) {
	_, err := NewNode(Kind("delay"), nil, Position{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownKind))
}

func TestUpdateNodeData(t *testing.T) {
	g, _, action, _ := commentGraph(t)

	ok, err := g.UpdateNodeData(action.ID, map[string]any{
		"target":     "comment_author",
		"parameters": map[string]any{"message": "Thanks!"},
	})
	require.NoError(t, err)
	require.True(t, ok)

	got, _ := g.Node(action.ID)
	cfg := got.Data.Action()
	require.NotNil(t, cfg)
	assert.Equal(t, "reply", cfg.ActionType, "untouched keys survive the merge")
	assert.Equal(t, "comment_author", cfg.Target)
	assert.Equal(t, "Thanks!", cfg.Parameters["message"])
	assert.Equal(t, "Send a response", got.Data.Description)
}

func TestUpdateNodeData_UnknownIDIsNoop(t *testing.T) {
	g, _, _, _ := commentGraph(t)
	before := g.Clone()

	ok, err := g.UpdateNodeData("missing", map[string]any{"label": "x"})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, before, *g)
}

func TestUpdateNodeData_RejectsWrongType(t *testing.T) {
	g, trigger, _, _ := commentGraph(t)

	ok, err := g.UpdateNodeData(trigger.ID, map[string]any{"platform": 42})
	require.Error(t, err)
	assert.False(t, ok)

	got, _ := g.Node(trigger.ID)
	assert.Equal(t, "Instagram", got.Data.Trigger().Platform)
}

func TestMoveNode(t *testing.T) {
	g, trigger, _, _ := commentGraph(t)
	assert.True(t, g.MoveNode(trigger.ID, Position{X: 5, Y: 6}))
	got, _ := g.Node(trigger.ID)
	assert.Equal(t, Position{X: 5, Y: 6}, got.Position)
	assert.False(t, g.MoveNode("missing", Position{}))
}

func TestDeleteNode_CascadesEdges(t *testing.T) {
	g := &Graph{}
	trigger, _ := g.AddNode(KindTrigger, nil, Position{})
	cond, _ := g.AddNode(KindCondition, nil, Position{})
	yes, _ := g.AddNode(KindAction, nil, Position{})
	no, _ := g.AddNode(KindAction, nil, Position{})
	g.Connect(trigger.ID, cond.ID, HandleDefault)
	g.Connect(cond.ID, yes.ID, HandleTrue)
	g.Connect(cond.ID, no.ID, HandleFalse)
	g.Connect(yes.ID, cond.ID, HandleDefault)
	g.Connect(cond.ID, cond.ID, HandleTrue)

	for _, n := range g.Nodes {
		t.Run(n.Data.Label+"/"+n.ID, func(t *testing.T) {
			cp := g.Clone()
			require.True(t, cp.DeleteNode(n.ID))
			_, found := cp.Node(n.ID)
			assert.False(t, found)
			for _, e := range cp.Edges {
				assert.NotEqual(t, n.ID, e.Source)
				assert.NotEqual(t, n.ID, e.Target)
			}
		})
	}

	assert.False(t, g.DeleteNode("missing"))
	assert.Len(t, g.Edges, 5)
}

func TestConnect_AcceptsAnyTopology(t *testing.T) {
	g := &Graph{}
	a, _ := g.AddNode(KindAction, nil, Position{})

	self := g.Connect(a.ID, a.ID, HandleDefault)
	dup1 := g.Connect(a.ID, "nowhere", HandleDefault)
	dup2 := g.Connect(a.ID, "nowhere", HandleDefault)

	assert.Len(t, g.Edges, 3)
	assert.NotEqual(t, dup1.ID, dup2.ID)
	assert.Equal(t, a.ID, self.Target)

	assert.True(t, g.Disconnect(self.ID))
	assert.False(t, g.Disconnect(self.ID))
	assert.Len(t, g.Edges, 2)
}

func TestCanConnect(t *testing.T) {
	g := &Graph{}
	trigger, _ := g.AddNode(KindTrigger, nil, Position{})
	cond, _ := g.AddNode(KindCondition, nil, Position{})
	action, _ := g.AddNode(KindAction, nil, Position{})

	tests := []struct {
		name   string
		source string
		target string
		handle Handle
		ok     bool
	}{
		{"trigger to action", trigger.ID, action.ID, HandleDefault, true},
		{"trigger to condition", trigger.ID, cond.ID, HandleDefault, true},
		{"condition true branch", cond.ID, action.ID, HandleTrue, true},
		{"condition false branch", cond.ID, action.ID, HandleFalse, true},
		{"action chain", action.ID, cond.ID, HandleDefault, true},
		{"self loop", action.ID, action.ID, HandleDefault, false},
		{"into trigger", action.ID, trigger.ID, HandleDefault, false},
		{"condition without handle", cond.ID, action.ID, HandleDefault, false},
		{"action with handle", action.ID, cond.ID, HandleTrue, false},
		{"unknown source", "missing", action.ID, HandleDefault, false},
		{"unknown target", trigger.ID, "missing", HandleDefault, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanConnect(g, tt.source, tt.target, tt.handle)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConnection)
			var ce *ConnectionError
			require.ErrorAs(t, err, &ce)
			assert.NotEmpty(t, ce.Reason)
		})
	}
}

func TestGraphClone_IsDeep(t *testing.T) {
	g, _, action, _ := commentGraph(t)
	_, err := g.UpdateNodeData(action.ID, map[string]any{"parameters": map[string]any{"message": "hi"}})
	require.NoError(t, err)

	cp := g.Clone()
	cp.Nodes[1].Data.Action().Parameters["message"] = "changed"
	cp.Edges[0].Target = "elsewhere"

	orig, _ := g.Node(action.ID)
	assert.Equal(t, "hi", orig.Data.Action().Parameters["message"])
	assert.Equal(t, action.ID, g.Edges[0].Target)
}

func TestDuplicateIDs(t *testing.T) {
	g, trigger, action, edge := commentGraph(t)
	assert.Nil(t, g.DuplicateIDs())

	g.Nodes = append(g.Nodes, action, action)
	g.Edges = append(g.Edges, Edge{ID: edge.ID, Source: trigger.ID, Target: action.ID})

	assert.Equal(t, []string{
		fmt.Sprintf("Node id %q is used more than once", action.ID),
		fmt.Sprintf("Connection id %q is used more than once", edge.ID),
	}, g.DuplicateIDs())
	assert.Subset(t, Validate(g, WithStrict(true)), g.DuplicateIDs())
}
