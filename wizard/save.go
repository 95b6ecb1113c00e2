package wizard

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/meikuraledutech/automation"
)

// Action types and descriptions of the generated response nodes.
const (
	ActionReply  = "reply"
	ActionSendDM = "send_dm"

	descReply  = "Reply to comment"
	descSendDM = "Send direct message"
)

const (
	columnWidth = 300
	rowHeight   = 150
	originX     = 100
	originY     = 100
)

// Validate runs every step validator and keeps the result as the error list.
func (w *Wizard) Validate() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Errors = ValidateAll(w.state.Data)
	return append([]string(nil), w.state.Errors...)
}

// Graph builds the automation graph described by the collected answers.
func (w *Wizard) Graph() (automation.Graph, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.graphLocked()
}

func (w *Wizard) graphLocked() (automation.Graph, error) {
	d := w.state.Data
	g := automation.Graph{Name: strings.TrimSpace(d.Label)}

	service := w.labelLocked(StepTrigger, d.ServiceID)
	trigger, err := g.AddNode(automation.KindTrigger, map[string]any{
		"label":       service,
		"description": triggerDescription(service),
		"platform":    w.labelLocked(StepPlatform, d.PlatformID),
		"triggerType": service,
		"pageId":      d.PageID,
		"postId":      d.PostID,
	}, automation.Position{X: originX, Y: originY})
	if err != nil {
		return automation.Graph{}, fmt.Errorf("wizard: build trigger: %w", err)
	}

	from, handle := trigger.ID, automation.HandleDefault
	column := 1
	if len(d.Keywords) > 0 {
		clauses := make([]automation.Clause, 0, len(d.Keywords))
		for _, k := range d.Keywords {
			clauses = append(clauses, automation.Clause{Field: "text", Operator: "contains", Value: k})
		}
		cond, err := g.AddNode(automation.KindCondition, map[string]any{
			"label":         "Keyword match",
			"description":   "Contains " + strings.Join(d.Keywords, " or "),
			"conditionType": "keyword",
			"conditions":    clauses,
			"logicOperator": automation.LogicOr,
		}, automation.Position{X: originX + columnWidth, Y: originY})
		if err != nil {
			return automation.Graph{}, fmt.Errorf("wizard: build keyword condition: %w", err)
		}
		g.Connect(from, cond.ID, handle)
		from, handle = cond.ID, automation.HandleTrue
		column++
	}

	row := 0
	addAction := func(actionType, desc, target string, params map[string]any) error {
		n, err := g.AddNode(automation.KindAction, map[string]any{
			"label":       desc,
			"description": desc,
			"actionType":  actionType,
			"target":      target,
			"parameters":  params,
		}, automation.Position{X: float64(originX + column*columnWidth), Y: float64(originY + row*rowHeight)})
		if err != nil {
			return fmt.Errorf("wizard: build %s action: %w", actionType, err)
		}
		g.Connect(from, n.ID, handle)
		row++
		return nil
	}

	if !blank(d.CommentContent) {
		if err := addAction(ActionReply, descReply, "comment", map[string]any{
			"message": d.CommentContent,
		}); err != nil {
			return automation.Graph{}, err
		}
	}
	if !blank(d.DMContent) {
		params := map[string]any{"message": d.DMContent}
		if len(d.Titles) > 0 {
			params["titles"] = d.Titles
		}
		if len(d.URLs) > 0 {
			params["urls"] = d.URLs
		}
		if len(d.QuickLinks) > 0 {
			params["quick_links"] = d.QuickLinks
		}
		if err := addAction(ActionSendDM, descSendDM, "author", params); err != nil {
			return automation.Graph{}, err
		}
	}
	return g, nil
}

func triggerDescription(service string) string {
	if service == "" {
		return ""
	}
	return "Triggered by a new " + strings.ToLower(service)
}

// Save validates every step, builds the graph, derives its record and hands
// it to the persister. Step failures come back as *automation.ValidationError
// and become the error list. Only one save may be in flight.
func (w *Wizard) Save(ctx context.Context) (*automation.Record, error) {
	w.mu.Lock()
	if w.state.Saving {
		w.mu.Unlock()
		return nil, automation.ErrSaveInProgress
	}
	if problems := ValidateAll(w.state.Data); len(problems) > 0 {
		w.state.Errors = problems
		w.mu.Unlock()
		return nil, &automation.ValidationError{Problems: problems}
	}
	g, err := w.graphLocked()
	if err != nil {
		w.mu.Unlock()
		return nil, err
	}
	record, err := automation.Save(&g)
	if err != nil {
		w.state.Errors = automation.Problems(err)
		w.mu.Unlock()
		return nil, err
	}
	w.state.Errors = nil
	w.state.Saving = true
	record.ID = w.state.RecordID
	w.mu.Unlock()

	saved, err := w.store.SaveAutomation(ctx, &record)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Saving = false
	if err != nil {
		w.log.Warn("save automation failed", zap.String("label", record.Name), zap.Error(err))
		return nil, fmt.Errorf("wizard: save automation: %w", err)
	}
	w.state.RecordID = saved.ID
	w.log.Info("automation saved", zap.String("id", saved.ID), zap.String("name", saved.Name))
	return saved, nil
}
