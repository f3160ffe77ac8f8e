package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// ErrInvalidSnapshot is returned when a serialized workflow does not match the snapshot schema.
var ErrInvalidSnapshot = errors.New("invalid workflow snapshot")

// NodeRecord is the serialized form of a NodeInstance.
type NodeRecord struct {
	ID          string         `json:"id"                    yaml:"id"                    validate:"required"`
	Category    string         `json:"category"              yaml:"category"              validate:"required"`
	Subtype     string         `json:"subtype"               yaml:"subtype"               validate:"required"`
	Cases       int            `json:"cases,omitempty"       yaml:"cases,omitempty"`
	Label       string         `json:"label"                 yaml:"label"                 validate:"required"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Icon        string         `json:"icon,omitempty"        yaml:"icon,omitempty"`
	Inputs      []Port         `json:"inputs"                yaml:"inputs"                validate:"dive"`
	Outputs     []Port         `json:"outputs"               yaml:"outputs"               validate:"dive"`
	Position    Position       `json:"position"              yaml:"position"`
	Config      map[string]any `json:"config"                yaml:"config"`
}

// Snapshot is the serialized form of a whole workflow graph.
type Snapshot struct {
	ID        string        `json:"id"                  yaml:"id"                  validate:"required"`
	Name      string        `json:"name"                yaml:"name"                validate:"required,min=1"`
	Nodes     []*NodeRecord `json:"nodes"               yaml:"nodes"               validate:"dive"`
	Edges     []*Edge       `json:"edges"               yaml:"edges"               validate:"dive"`
	Selection Selection     `json:"selection,omitempty" yaml:"selection,omitempty"`
	CreatedAt time.Time     `json:"created_at"          yaml:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"          yaml:"updated_at"`
}

// NewNodeRecord converts a node into its serialized form.
func NewNodeRecord(node *NodeInstance) (*NodeRecord, error) {
	config, err := ConfigToMap(node.Config)
	if err != nil {
		return nil, fmt.Errorf("node %s: %w", node.ID, err)
	}

	record := &NodeRecord{
		ID:          node.ID,
		Category:    string(node.Category()),
		Subtype:     node.Subtype(),
		Label:       node.Label,
		Description: node.Description,
		Icon:        node.Icon,
		Inputs:      append([]Port{}, node.Inputs...),
		Outputs:     append([]Port{}, node.Outputs...),
		Position:    node.Position,
		Config:      config,
	}

	if logic, ok := node.Kind.(LogicKind); ok && logic.Type == LogicSwitch {
		record.Cases = logic.SwitchCases()
	}

	return record, nil
}

// Instance converts a record back into a node. Ports are taken from the
// record as stored; callers decide whether to trust them.
func (r *NodeRecord) Instance() (*NodeInstance, error) {
	kind, err := ParseKind(r.Category, r.Subtype)
	if err != nil {
		return nil, fmt.Errorf("node %s: %w", r.ID, err)
	}

	if logic, ok := kind.(LogicKind); ok && logic.Type == LogicSwitch && r.Cases > 0 {
		logic.Cases = r.Cases
		kind = logic
	}

	config, err := ConfigFromMap(kind.Category(), r.Config)
	if err != nil {
		return nil, fmt.Errorf("node %s: %w", r.ID, err)
	}

	return &NodeInstance{
		ID:          r.ID,
		Kind:        kind,
		Label:       r.Label,
		Description: r.Description,
		Icon:        r.Icon,
		Inputs:      append([]Port(nil), r.Inputs...),
		Outputs:     append([]Port(nil), r.Outputs...),
		Position:    r.Position,
		Config:      config,
	}, nil
}

const snapshotSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["id", "name", "nodes", "edges"],
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "name": {"type": "string", "minLength": 1},
    "nodes": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "required": ["id", "category", "subtype", "label", "inputs", "outputs"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "category": {"enum": ["agent", "trigger", "logic", "data", "integration", "output"]},
          "subtype": {"type": "string", "minLength": 1},
          "cases": {"type": "integer", "minimum": 0},
          "label": {"type": "string"},
          "inputs": {"type": ["array", "null"], "items": {"$ref": "#/definitions/port"}},
          "outputs": {"type": ["array", "null"], "items": {"$ref": "#/definitions/port"}},
          "position": {
            "type": "object",
            "properties": {"x": {"type": "number"}, "y": {"type": "number"}}
          },
          "config": {"type": ["object", "null"]}
        }
      }
    },
    "edges": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "required": ["id", "source_node_id", "source_port_id", "target_node_id", "target_port_id"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "source_node_id": {"type": "string", "minLength": 1},
          "source_port_id": {"type": "string", "minLength": 1},
          "target_node_id": {"type": "string", "minLength": 1},
          "target_port_id": {"type": "string", "minLength": 1},
          "connection_type": {"enum": ["", "default", "collaboration", "approval", "feedback"]}
        }
      }
    },
    "selection": {
      "type": "object",
      "properties": {"node_id": {"type": "string"}, "edge_id": {"type": "string"}}
    }
  },
  "definitions": {
    "port": {
      "type": "object",
      "required": ["id", "kind", "direction"],
      "properties": {
        "id": {"type": "string", "minLength": 1},
        "kind": {"enum": ["data", "control", "trigger"]},
        "label": {"type": "string"},
        "direction": {"enum": ["input", "output"]}
      }
    }
  }
}`

var snapshotSchemaLoader = gojsonschema.NewStringLoader(snapshotSchema)

// DecodeSnapshot checks a JSON document against the snapshot schema and
// decodes it. It does not check referential integrity; see graph.Load.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	result, err := gojsonschema.Validate(snapshotSchemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}

	if !result.Valid() {
		var errs []string
		for _, desc := range result.Errors() {
			errs = append(errs, desc.String())
		}

		return nil, fmt.Errorf("%w: %s", ErrInvalidSnapshot, strings.Join(errs, "; "))
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}

	return &snapshot, nil
}

// EncodeJSON renders the snapshot as indented JSON.
func (s *Snapshot) EncodeJSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// EncodeYAML renders the snapshot as YAML.
func (s *Snapshot) EncodeYAML() ([]byte, error) {
	return yaml.Marshal(s)
}

// IsInvalidSnapshot checks if an error indicates a malformed snapshot document.
func IsInvalidSnapshot(err error) bool {
	return errors.Is(err, ErrInvalidSnapshot)
}
