package automation

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

// NodeData is a node's payload: the shared label and description plus the
// kind-specific config. On the wire all three are flattened into one object.
type NodeData struct {
	Label       string
	Description string
	Config      Config
}

type nodeDataBase struct {
	Label       string `json:"label"`
	Description string `json:"description"`
}

// Fields returns the flattened data object.
func (d NodeData) Fields() (map[string]any, error) {
	fields := make(map[string]any)
	if d.Config != nil {
		raw, err := json.Marshal(d.Config)
		if err != nil {
			return nil, fmt.Errorf("automation: encode %s config: %w", d.Config.Kind(), err)
		}
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("automation: flatten %s config: %w", d.Config.Kind(), err)
		}
	}
	fields["label"] = d.Label
	if d.Description != "" {
		fields["description"] = d.Description
	}
	return fields, nil
}

// MarshalJSON writes the flattened data object.
func (d NodeData) MarshalJSON() ([]byte, error) {
	fields, err := d.Fields()
	if err != nil {
		return nil, err
	}
	return json.Marshal(fields)
}

// DecodeNodeData parses a flattened data object for a node of the given kind.
// An empty or null payload yields empty data with a zero config.
func DecodeNodeData(kind Kind, raw []byte) (NodeData, error) {
	cfg, err := NewConfig(kind)
	if err != nil {
		return NodeData{}, err
	}
	d := NodeData{Config: cfg}
	if len(raw) == 0 || string(raw) == "null" {
		return d, nil
	}

	var base nodeDataBase
	if err := json.Unmarshal(raw, &base); err != nil {
		return NodeData{}, fmt.Errorf("automation: decode %s data: %w", kind, err)
	}
	if err := json.Unmarshal(raw, cfg); err != nil {
		return NodeData{}, fmt.Errorf("automation: decode %s config: %w", kind, err)
	}
	d.Label = base.Label
	d.Description = base.Description
	return d, nil
}

// Merge shallow-merges partial into the flattened data object and returns
// the result. d is not modified; a partial that does not fit the kind's
// schema is rejected.
func (d NodeData) Merge(partial map[string]any) (NodeData, error) {
	if d.Config == nil {
		return NodeData{}, fmt.Errorf("automation: merge into data without config")
	}
	fields, err := d.Fields()
	if err != nil {
		return NodeData{}, err
	}
	for k, v := range partial {
		fields[k] = v
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return NodeData{}, fmt.Errorf("automation: encode merged data: %w", err)
	}
	return DecodeNodeData(d.Config.Kind(), raw)
}

// Clone returns a deep copy of d.
func (d NodeData) Clone() NodeData {
	cp := d
	if d.Config != nil {
		cp.Config = cloneConfig(d.Config)
	}
	return cp
}

// Trigger returns the trigger config, or nil for other kinds.
func (d NodeData) Trigger() *TriggerConfig {
	c, _ := d.Config.(*TriggerConfig)
	return c
}

// Condition returns the condition config, or nil for other kinds.
func (d NodeData) Condition() *ConditionConfig {
	c, _ := d.Config.(*ConditionConfig)
	return c
}

// Action returns the action config, or nil for other kinds.
func (d NodeData) Action() *ActionConfig {
	c, _ := d.Config.(*ActionConfig)
	return c
}

type nodeWire struct {
	ID       string              `json:"id"`
	Kind     Kind                `json:"type"`
	Position Position            `json:"position"`
	Data     jsoniter.RawMessage `json:"data"`
}

// UnmarshalJSON decodes a node, using its type to pick the config schema.
func (n *Node) UnmarshalJSON(b []byte) error {
	var w nodeWire
	if err := json.Unmarshal(b, &w); err != nil {
		return fmt.Errorf("automation: decode node: %w", err)
	}
	data, err := DecodeNodeData(w.Kind, w.Data)
	if err != nil {
		return fmt.Errorf("automation: node %q: %w", w.ID, err)
	}
	n.ID = w.ID
	n.Kind = w.Kind
	n.Position = w.Position
	n.Data = data
	return nil
}
