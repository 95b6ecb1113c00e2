package automation

import (
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Graph is an editable automation: a named set of typed nodes and the
// directed edges connecting them.
type Graph struct {
	Name  string `json:"name"`
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Position is the canvas coordinate of a node. It never affects semantics.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a single step in an automation graph.
// Kind is serialized as "type" to match the canvas wire shape.
type Node struct {
	ID       string   `json:"id"`
	Kind     Kind     `json:"type"`
	Position Position `json:"position"`
	Data     NodeData `json:"data"`
}

// Handle names an output port on a node. Only condition nodes use it.
type Handle string

const (
	HandleDefault Handle = ""
	HandleTrue    Handle = "true"
	HandleFalse   Handle = "false"
)

// UnmarshalJSON accepts the handle as a string or as a bare boolean, the
// form YAML files produce for unquoted true/false.
func (h *Handle) UnmarshalJSON(b []byte) error {
	switch string(b) {
	case "true":
		*h = HandleTrue
		return nil
	case "false":
		*h = HandleFalse
		return nil
	case "null":
		*h = HandleDefault
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("automation: decode handle: %w", err)
	}
	*h = Handle(s)
	return nil
}

// Edge is a directed connection from one node's output to another node's input.
type Edge struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceHandle Handle `json:"sourceHandle,omitempty"`
}

// Status is the on/off switch of a persisted automation.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive:
		return true
	default:
		return false
	}
}

// Record is the flattened, persisted shape of an automation. Platform, Type,
// Trigger and Response are derived from the graph; Nodes and Edges are kept
// so the automation can be re-edited.
type Record struct {
	ID        string    `json:"id,omitempty"`
	Name      string    `json:"name"`
	Nodes     []Node    `json:"nodes"`
	Edges     []Edge    `json:"edges"`
	Platform  string    `json:"platform"`
	Type      string    `json:"type"`
	Trigger   string    `json:"trigger"`
	Response  string    `json:"response"`
	Status    Status    `json:"status,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type recordWire struct {
	ID        string     `json:"id,omitempty"`
	Name      string     `json:"name"`
	Nodes     []Node     `json:"nodes"`
	Edges     []Edge     `json:"edges"`
	Platform  string     `json:"platform"`
	Type      string     `json:"type"`
	Trigger   string     `json:"trigger"`
	Response  string     `json:"response"`
	Status    Status     `json:"status,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// MarshalJSON leaves out the timestamps of records that were never saved.
func (r Record) MarshalJSON() ([]byte, error) {
	w := recordWire{
		ID:       r.ID,
		Name:     r.Name,
		Nodes:    r.Nodes,
		Edges:    r.Edges,
		Platform: r.Platform,
		Type:     r.Type,
		Trigger:  r.Trigger,
		Response: r.Response,
		Status:   r.Status,
	}
	if !r.CreatedAt.IsZero() {
		w.CreatedAt = &r.CreatedAt
	}
	if !r.UpdatedAt.IsZero() {
		w.UpdatedAt = &r.UpdatedAt
	}
	return json.Marshal(w)
}
