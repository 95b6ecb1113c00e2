package automation

import (
	stdjson "encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToRecord_Defaults(t *testing.T) {
	g := &Graph{Name: "Bare"}
	trigger, _ := g.AddNode(KindTrigger, nil, Position{})
	first, _ := g.AddNode(KindAction, nil, Position{})
	second, _ := g.AddNode(KindAction, map[string]any{"description": "Send DM"}, Position{})
	g.Connect(trigger.ID, first.ID, HandleDefault)
	g.Connect(first.ID, second.ID, HandleDefault)

	r := ToRecord(g)
	assert.Equal(t, DefaultPlatform, r.Platform)
	assert.Equal(t, DefaultTriggerType, r.Type)
	assert.Equal(t, DefaultTrigger, r.Trigger)
	assert.Equal(t, "Custom action, Send DM", r.Response)
}

func TestToRecord_NoTriggerNoActions(t *testing.T) {
	r := ToRecord(&Graph{Name: "Empty"})
	assert.Equal(t, DefaultPlatform, r.Platform)
	assert.Equal(t, "", r.Response)
	assert.NotNil(t, r.Nodes)
	assert.NotNil(t, r.Edges)
}

func TestToRecord_DoesNotAliasGraph(t *testing.T) {
	g, trigger, _, _ := commentGraph(t)
	r := ToRecord(g)
	_, err := g.UpdateNodeData(trigger.ID, map[string]any{"platform": "Facebook"})
	require.NoError(t, err)
	assert.Equal(t, "Instagram", r.Nodes[0].Data.Trigger().Platform)
}

func TestRecord_RoundTrip(t *testing.T) {
	g, _, _, _ := commentGraph(t)
	saved := ToRecord(g)

	hydrated := FromRecord(&saved)
	again := ToRecord(&hydrated)

	assert.Equal(t, saved.Platform, again.Platform)
	assert.Equal(t, saved.Type, again.Type)
	assert.Equal(t, saved.Trigger, again.Trigger)
	assert.Equal(t, saved.Response, again.Response)
	if diff := cmp.Diff(saved, again); diff != "" {
		t.Errorf("round trip changed the record (-want +got):\n%s", diff)
	}
}

func TestRecord_JSONRoundTrip(t *testing.T) {
	g, _, _, _ := commentGraph(t)
	_, err := g.UpdateNodeData(g.Nodes[1].ID, map[string]any{
		"parameters":    map[string]any{"message": "Thanks!"},
		"retryStrategy": map[string]any{"attempts": 2, "interval": "1m"},
	})
	require.NoError(t, err)
	want := ToRecord(g)

	raw, err := json.Marshal(want)
	require.NoError(t, err)

	var got Record
	require.NoError(t, json.Unmarshal(raw, &got))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("record changed across JSON (-want +got):\n%s", diff)
	}
}

func TestRecord_OmitsUnsetTimestamps(t *testing.T) {
	g, _, _, _ := commentGraph(t)
	rec := ToRecord(g)

	raw, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "created_at")
	assert.NotContains(t, string(raw), "0001-01-01")

	saved := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	rec.CreatedAt, rec.UpdatedAt = saved, saved
	raw, err = json.Marshal(rec)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"created_at":"2026-03-04T05:06:07Z"`)

	var got Record
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.True(t, got.UpdatedAt.Equal(saved))
}

func TestNode_DecodesCanvasJSON(t *testing.T) {
	raw := []byte(`{
		"id": "condition-1",
		"type": "condition",
		"position": {"x": 250, "y": 80},
		"data": {
			"label": "Mentions price",
			"conditionType": "keyword",
			"conditions": [{"field": "text", "operator": "contains", "value": "price"}],
			"logicOperator": "OR"
		}
	}`)

	var n Node
	require.NoError(t, json.Unmarshal(raw, &n))
	assert.Equal(t, "condition-1", n.ID)
	assert.Equal(t, KindCondition, n.Kind)
	assert.Equal(t, Position{X: 250, Y: 80}, n.Position)
	assert.Equal(t, "Mentions price", n.Data.Label)

	cfg := n.Data.Condition()
	require.NotNil(t, cfg)
	assert.Equal(t, LogicOr, cfg.Logic)
	assert.Equal(t, []Clause{{Field: "text", Operator: "contains", Value: "price"}}, cfg.Conditions)
}

func TestNode_UnknownTypeFailsToDecode(t *testing.T) {
	var n Node
	err := stdjson.Unmarshal([]byte(`{"id":"x","type":"delay","data":{}}`), &n)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestNodeData_FlattenedOnTheWire(t *testing.T) {
	n, err := NewNode(KindTrigger, map[string]any{"platform": "Instagram", "description": "d"}, Position{})
	require.NoError(t, err)

	raw, err := json.Marshal(n.Data)
	require.NoError(t, err)
	assert.JSONEq(t, `{"label":"New trigger","description":"d","platform":"Instagram"}`, string(raw))
}

func TestPanelFor(t *testing.T) {
	for _, kind := range Kinds {
		n, err := NewNode(kind, nil, Position{})
		require.NoError(t, err)

		p := PanelFor(n)
		assert.Equal(t, n.ID, p.NodeID)
		assert.Equal(t, kind, p.Kind)
		require.Greater(t, len(p.Fields), 2, "%s panel should expose its config fields", kind)

		// Every field key must be mergeable back into the node.
		for _, f := range p.Fields {
			_, err := n.Data.Merge(map[string]any{f.Key: nil})
			assert.NoError(t, err, "%s field %s", kind, f.Key)
		}
	}
}
