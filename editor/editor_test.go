package editor

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/meikuraledutech/automation"
)

// fakePersister records what it is asked to save. When gate is set, saves
// block until it is closed.
type fakePersister struct {
	mu      sync.Mutex
	saved   []automation.Record
	err     error
	gate    chan struct{}
	entered chan struct{}
}

func (f *fakePersister) SaveAutomation(ctx context.Context, r *automation.Record) (*automation.Record, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := *r
	if out.ID == "" {
		out.ID = "auto-1"
	}
	out.Status = automation.StatusActive
	f.saved = append(f.saved, out)
	return &out, nil
}

func buildCommentFlow(t *testing.T, s *Session) (automation.Node, automation.Node) {
	t.Helper()
	trigger, err := s.AddNode(automation.KindTrigger, map[string]any{
		"platform":    "Instagram",
		"triggerType": "Comment",
		"description": "Triggered by a new comment",
	}, automation.Position{X: 100, Y: 100})
	require.NoError(t, err)
	action, err := s.AddNode(automation.KindAction, map[string]any{
		"actionType":  "reply",
		"description": "Send a response",
	}, automation.Position{X: 400, Y: 100})
	require.NoError(t, err)
	_, err = s.Connect(trigger.ID, action.ID, automation.HandleDefault)
	require.NoError(t, err)
	return trigger, action
}

func TestNew_StartsEmptyAndFitted(t *testing.T) {
	s := New("Untitled", &fakePersister{})
	st := s.Snapshot()
	assert.Equal(t, "Untitled", st.Graph.Name)
	assert.Empty(t, st.Graph.Nodes)
	assert.True(t, st.FitView)
	assert.Empty(t, st.Selected)
}

func TestOpen_HydratesRecord(t *testing.T) {
	g := &automation.Graph{Name: "Saved"}
	trig, _ := g.AddNode(automation.KindTrigger, nil, automation.Position{})
	act, _ := g.AddNode(automation.KindAction, nil, automation.Position{})
	g.Connect(trig.ID, act.ID, automation.HandleDefault)
	rec := automation.ToRecord(g)
	rec.ID = "a-1"

	s := Open(&rec, &fakePersister{})
	st := s.Snapshot()
	assert.Equal(t, "a-1", st.RecordID)
	assert.False(t, st.FitView)
	assert.Len(t, st.Graph.Nodes, 2)
	assert.Len(t, st.Graph.Edges, 1)
}

func TestSelection(t *testing.T) {
	s := New("Flow", &fakePersister{})
	trigger, action := buildCommentFlow(t, s)

	_, ok := s.Panel()
	assert.False(t, ok, "idle session has no panel")

	assert.False(t, s.Select("missing"))
	require.True(t, s.Select(action.ID))

	panel, ok := s.Panel()
	require.True(t, ok)
	assert.Equal(t, automation.KindAction, panel.Kind)

	ok, err := s.UpdateSelected(map[string]any{"target": "author"})
	require.NoError(t, err)
	require.True(t, ok)
	sel, _ := s.Selected()
	assert.Equal(t, "author", sel.Data.Action().Target)

	require.True(t, s.Select(trigger.ID))
	panel, _ = s.Panel()
	assert.Equal(t, automation.KindTrigger, panel.Kind)

	s.Deselect()
	_, ok = s.Selected()
	assert.False(t, ok)
}

func TestDeleteSelectedNodeReturnsToIdle(t *testing.T) {
	s := New("Flow", &fakePersister{})
	trigger, action := buildCommentFlow(t, s)

	require.True(t, s.Select(action.ID))
	require.True(t, s.DeleteNode(action.ID))

	_, ok := s.Selected()
	assert.False(t, ok)
	assert.Empty(t, s.Graph().Edges)

	require.True(t, s.Select(trigger.ID))
	assert.False(t, s.DeleteNode("missing"))
	_, ok = s.Selected()
	assert.True(t, ok, "deleting another node keeps the selection")
}

func TestConnectAppliesEditorRestrictions(t *testing.T) {
	s := New("Flow", &fakePersister{})
	trigger, action := buildCommentFlow(t, s)

	_, err := s.Connect(action.ID, action.ID, automation.HandleDefault)
	assert.ErrorIs(t, err, automation.ErrInvalidConnection)
	_, err = s.Connect(action.ID, trigger.ID, automation.HandleDefault)
	assert.ErrorIs(t, err, automation.ErrInvalidConnection)
	assert.Len(t, s.Graph().Edges, 1)
}

func TestEditsClearStaleErrors(t *testing.T) {
	s := New("Flow", &fakePersister{})

	require.NotEmpty(t, s.Validate())
	require.NotEmpty(t, s.Errors())

	n, err := s.AddNode(automation.KindTrigger, nil, automation.Position{})
	require.NoError(t, err)
	assert.Empty(t, s.Errors(), "adding a node clears errors")

	s.Validate()
	require.True(t, s.MoveNode(n.ID, automation.Position{X: 10}))
	assert.Empty(t, s.Errors(), "moving a node clears errors")

	s.Validate()
	_, err = s.UpdateNodeData(n.ID, map[string]any{"label": "Start"})
	require.NoError(t, err)
	assert.Empty(t, s.Errors(), "editing a node clears errors")
}

func TestSave_ValidationFailureBlocksPersist(t *testing.T) {
	store := &fakePersister{}
	s := New("Flow", store)
	_, action := buildCommentFlow(t, s)
	require.True(t, s.DeleteNode(action.ID))

	rec, err := s.Save(context.Background())
	require.Error(t, err)
	assert.Nil(t, rec)
	assert.ErrorIs(t, err, automation.ErrValidation)
	assert.Equal(t, []string{automation.MsgNoAction}, s.Errors())
	assert.Empty(t, store.saved)
}

func TestSave_PersistsDerivedRecord(t *testing.T) {
	store := &fakePersister{}
	s := New("Comment replies", store)
	buildCommentFlow(t, s)

	rec, err := s.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "auto-1", rec.ID)
	assert.Equal(t, "Instagram", rec.Platform)
	assert.Equal(t, "Comment", rec.Type)
	assert.Equal(t, "Triggered by a new comment", rec.Trigger)
	assert.Equal(t, "Send a response", rec.Response)

	st := s.Snapshot()
	assert.Equal(t, "auto-1", st.RecordID, "session re-hydrates from the saved record")
	assert.False(t, st.Saving)

	// A second save updates the same automation.
	_, err = s.Save(context.Background())
	require.NoError(t, err)
	require.Len(t, store.saved, 2)
	assert.Equal(t, "auto-1", store.saved[1].ID)
}

func TestSave_PersistFailureLeavesStateUntouched(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	store := &fakePersister{err: errors.New("connection refused")}
	s := New("Flow", store, WithLogger(zap.New(core)))
	buildCommentFlow(t, s)
	before := s.Snapshot()

	_, err := s.Save(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "connection refused")
	assert.Equal(t, before, s.Snapshot())
	assert.Equal(t, 1, logs.FilterMessage("save automation failed").Len())

	// The user can retry once the collaborator recovers.
	store.mu.Lock()
	store.err = nil
	store.mu.Unlock()
	_, err = s.Save(context.Background())
	require.NoError(t, err)
}

func TestSave_RejectsConcurrentSave(t *testing.T) {
	defer goleak.VerifyNone(t)
	store := &fakePersister{gate: make(chan struct{}), entered: make(chan struct{}, 1)}
	s := New("Flow", store)
	buildCommentFlow(t, s)

	done := make(chan error, 1)
	go func() {
		_, err := s.Save(context.Background())
		done <- err
	}()
	<-store.entered

	assert.True(t, s.Snapshot().Saving)
	_, err := s.Save(context.Background())
	assert.ErrorIs(t, err, automation.ErrSaveInProgress)

	close(store.gate)
	require.NoError(t, <-done)
	assert.False(t, s.Snapshot().Saving)
	assert.Len(t, store.saved, 1)
}

func TestStrictValidation(t *testing.T) {
	s := New("Flow", &fakePersister{}, WithStrictValidation(true))
	trigger, err := s.AddNode(automation.KindTrigger, map[string]any{"triggerType": "Comment"}, automation.Position{})
	require.NoError(t, err)
	cond, err := s.AddNode(automation.KindCondition, map[string]any{"field": "text", "operator": "contains"}, automation.Position{})
	require.NoError(t, err)
	action, err := s.AddNode(automation.KindAction, map[string]any{"actionType": "reply"}, automation.Position{})
	require.NoError(t, err)
	_, err = s.Connect(trigger.ID, cond.ID, automation.HandleDefault)
	require.NoError(t, err)
	_, err = s.Connect(cond.ID, action.ID, automation.HandleTrue)
	require.NoError(t, err)

	problems := s.Validate()
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0], "no false branch")
}
