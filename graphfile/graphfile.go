// Package graphfile reads automation graphs from YAML or JSON files and
// writes saved automations out as YAML.
package graphfile

import (
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"github.com/meikuraledutech/automation"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Decode parses a graph document. JSON is accepted as a subset of YAML, so
// canvas exports and hand-written YAML files go through the same path. The
// node objects use the canvas wire shape either way.
func Decode(data []byte) (automation.Graph, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return automation.Graph{}, fmt.Errorf("graphfile: parse: %w", err)
	}
	if doc == nil {
		return automation.Graph{}, fmt.Errorf("graphfile: empty document")
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return automation.Graph{}, fmt.Errorf("graphfile: normalize: %w", err)
	}
	var g automation.Graph
	if err := json.Unmarshal(raw, &g); err != nil {
		return automation.Graph{}, fmt.Errorf("graphfile: decode graph: %w", err)
	}
	return g, nil
}

// ReadFile decodes the graph stored at path.
func ReadFile(path string) (automation.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return automation.Graph{}, fmt.Errorf("graphfile: %w", err)
	}
	return Decode(data)
}

// export is the top-level document written by EncodeRecords.
type export struct {
	Automations any `yaml:"automations"`
}

// EncodeRecords writes recs as one YAML document. Node data is written in
// its flattened wire form, so the output can be fed back to Decode one
// automation at a time.
func EncodeRecords(w io.Writer, recs []automation.Record) error {
	if recs == nil {
		recs = []automation.Record{}
	}
	raw, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("graphfile: encode records: %w", err)
	}
	var generic []any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return fmt.Errorf("graphfile: normalize records: %w", err)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(export{Automations: generic}); err != nil {
		return fmt.Errorf("graphfile: write yaml: %w", err)
	}
	return enc.Close()
}
