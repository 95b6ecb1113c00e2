package automation

// Input is the widget a panel field is edited with.
type Input string

const (
	InputText     Input = "text"
	InputTextarea Input = "textarea"
	InputSelect   Input = "select"
	InputRetry    Input = "retry"
	InputKeyValue Input = "keyvalue"
	InputClauses  Input = "clauses"
)

// Suggested values for the select fields of each panel.
var (
	TriggerTypes       = []string{"Comment", "Direct Message", "Mention", "Story Reply", "New Follower", "Custom"}
	ActionTypes        = []string{"reply", "send_dm", "send_message", "hide_comment", "tag_user", "webhook"}
	ConditionTypes     = []string{"keyword", "field", "sentiment", "time"}
	ConditionOperators = []string{"equals", "not_equals", "contains", "not_contains", "starts_with", "greater_than", "less_than"}
	LogicOperators     = []string{string(LogicAnd), string(LogicOr)}
)

// Field is one editable entry of a node's configuration panel. Key is the
// data key an edit of this field is merged under.
type Field struct {
	Key     string   `json:"key"`
	Label   string   `json:"label"`
	Input   Input    `json:"input"`
	Options []string `json:"options,omitempty"`
	Value   any      `json:"value,omitempty"`
}

// Panel is the configuration panel of a selected node.
type Panel struct {
	NodeID string  `json:"nodeId"`
	Kind   Kind    `json:"kind"`
	Fields []Field `json:"fields"`
}

// PanelFor builds the configuration panel for n.
func PanelFor(n Node) Panel {
	p := Panel{
		NodeID: n.ID,
		Kind:   n.Kind,
		Fields: []Field{
			{Key: "label", Label: "Label", Input: InputText, Value: n.Data.Label},
			{Key: "description", Label: "Description", Input: InputTextarea, Value: n.Data.Description},
		},
	}

	switch c := n.Data.Config.(type) {
	case *TriggerConfig:
		p.Fields = append(p.Fields,
			Field{Key: "platform", Label: "Platform", Input: InputSelect, Value: c.Platform},
			Field{Key: "triggerType", Label: "Trigger type", Input: InputSelect, Options: TriggerTypes, Value: c.TriggerType},
			Field{Key: "pageId", Label: "Page", Input: InputSelect, Value: c.PageID},
			Field{Key: "postId", Label: "Post", Input: InputSelect, Value: c.PostID},
		)
	case *ConditionConfig:
		p.Fields = append(p.Fields,
			Field{Key: "conditionType", Label: "Condition type", Input: InputSelect, Options: ConditionTypes, Value: c.ConditionType},
			Field{Key: "field", Label: "Field", Input: InputText, Value: c.Field},
			Field{Key: "operator", Label: "Operator", Input: InputSelect, Options: ConditionOperators, Value: c.Operator},
			Field{Key: "value", Label: "Value", Input: InputText, Value: c.Value},
			Field{Key: "conditions", Label: "Conditions", Input: InputClauses, Value: c.Conditions},
			Field{Key: "logicOperator", Label: "Match", Input: InputSelect, Options: LogicOperators, Value: c.Logic},
		)
	case *ActionConfig:
		p.Fields = append(p.Fields,
			Field{Key: "actionType", Label: "Action type", Input: InputSelect, Options: ActionTypes, Value: c.ActionType},
			Field{Key: "target", Label: "Target", Input: InputText, Value: c.Target},
			Field{Key: "parameters", Label: "Parameters", Input: InputKeyValue, Value: c.Parameters},
			Field{Key: "retryStrategy", Label: "Retry", Input: InputRetry, Value: c.Retry},
		)
	}
	return p
}
