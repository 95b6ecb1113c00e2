package automation

import "fmt"

// Kind is the closed set of node kinds. It fixes a node's config schema,
// its ports and its validation contract.
type Kind string

const (
	KindTrigger   Kind = "trigger"
	KindCondition Kind = "condition"
	KindAction    Kind = "action"
)

// Kinds lists every node kind in palette order.
var Kinds = []Kind{KindTrigger, KindCondition, KindAction}

// IsValid reports whether k is one of the known kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindTrigger, KindCondition, KindAction:
		return true
	default:
		return false
	}
}

// Config is the kind-specific part of a node's data. The implementations
// are TriggerConfig, ConditionConfig and ActionConfig; the set is sealed.
type Config interface {
	Kind() Kind
	sealed()
}

// TriggerConfig configures the event that starts an automation.
type TriggerConfig struct {
	Platform    string `json:"platform,omitempty"`
	TriggerType string `json:"triggerType,omitempty"`
	PageID      string `json:"pageId,omitempty"`
	PostID      string `json:"postId,omitempty"`
}

// LogicOperator combines the clauses of a compound condition.
type LogicOperator string

const (
	LogicAnd LogicOperator = "AND"
	LogicOr  LogicOperator = "OR"
)

// Clause is a single field/operator/value comparison.
type Clause struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// ConditionConfig configures a branching node. It holds either a single
// comparison (Field/Operator/Value) or a list of clauses joined by Logic.
type ConditionConfig struct {
	ConditionType string        `json:"conditionType,omitempty"`
	Field         string        `json:"field,omitempty"`
	Operator      string        `json:"operator,omitempty"`
	Value         string        `json:"value,omitempty"`
	Conditions    []Clause      `json:"conditions,omitempty"`
	Logic         LogicOperator `json:"logicOperator,omitempty"`
}

// RetryStrategy tells the execution engine how to retry a failed action.
// Interval is a Go duration string such as "30s".
type RetryStrategy struct {
	Attempts int    `json:"attempts"`
	Interval string `json:"interval"`
}

// ActionConfig configures a step that does something.
type ActionConfig struct {
	ActionType string         `json:"actionType,omitempty"`
	Target     string         `json:"target,omitempty"`
	Parameters map[string]any `json:"parameters,omitempty"`
	Retry      *RetryStrategy `json:"retryStrategy,omitempty"`
}

func (*TriggerConfig) Kind() Kind   { return KindTrigger }
func (*ConditionConfig) Kind() Kind { return KindCondition }
func (*ActionConfig) Kind() Kind    { return KindAction }

func (*TriggerConfig) sealed()   {}
func (*ConditionConfig) sealed() {}
func (*ActionConfig) sealed()    {}

// NewConfig returns an empty config for kind.
func NewConfig(kind Kind) (Config, error) {
	switch kind {
	case KindTrigger:
		return &TriggerConfig{}, nil
	case KindCondition:
		return &ConditionConfig{}, nil
	case KindAction:
		return &ActionConfig{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

func cloneConfig(c Config) Config {
	switch c := c.(type) {
	case *TriggerConfig:
		cp := *c
		return &cp
	case *ConditionConfig:
		cp := *c
		if c.Conditions != nil {
			cp.Conditions = append([]Clause(nil), c.Conditions...)
		}
		return &cp
	case *ActionConfig:
		cp := *c
		if c.Parameters != nil {
			cp.Parameters = make(map[string]any, len(c.Parameters))
			for k, v := range c.Parameters {
				cp.Parameters[k] = v
			}
		}
		if c.Retry != nil {
			r := *c.Retry
			cp.Retry = &r
		}
		return &cp
	default:
		return nil
	}
}
