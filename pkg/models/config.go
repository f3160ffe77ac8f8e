package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrConfigCategoryMismatch is returned when a config variant is attached to a node of another category.
var ErrConfigCategoryMismatch = errors.New("config does not match node category")

// NodeConfig is the per-category settings variant of a node.
type NodeConfig interface {
	Category() Category
	isConfig()
}

// AgentConfig holds the settings of an agent node.
type AgentConfig struct {
	Model        string  `json:"model,omitempty"        validate:"omitempty,min=1"`
	Instructions string  `json:"instructions,omitempty"`
	Temperature  float64 `json:"temperature,omitempty"  validate:"gte=0,lte=2"`
}

// TriggerConfig holds the settings of a trigger node. Which fields matter
// depends on the trigger subtype.
type TriggerConfig struct {
	Cron      string   `json:"cron,omitempty"`                                                  // Schedule
	Path      string   `json:"path,omitempty"       validate:"omitempty,startswith=/"`          // Webhook
	Method    string   `json:"method,omitempty"     validate:"omitempty,oneof=GET POST PUT PATCH DELETE"` // Webhook
	EventName string   `json:"event_name,omitempty"`                                            // Event
	Fields    []string `json:"fields,omitempty"     validate:"omitempty,dive,required"`         // Form
}

// LogicConfig holds the settings of a logic node.
type LogicConfig struct {
	Expression    string `json:"expression,omitempty"`
	DelaySeconds  int    `json:"delay_seconds,omitempty"  validate:"gte=0"`
	MaxIterations int    `json:"max_iterations,omitempty" validate:"gte=0"`
}

// DataConfig holds the settings of a data node.
type DataConfig struct {
	Expression string `json:"expression,omitempty"`
	Key        string `json:"key,omitempty"`
}

// IntegrationConfig holds the settings of an integration node.
type IntegrationConfig struct {
	Platform  string `json:"platform"            validate:"required"`
	Operation string `json:"operation,omitempty"`
	Endpoint  string `json:"endpoint,omitempty"  validate:"omitempty,url"`
}

// OutputConfig holds the settings of an output node.
type OutputConfig struct {
	Format      string `json:"format,omitempty"      validate:"omitempty,oneof=json text markdown csv"`
	Destination string `json:"destination,omitempty"`
}

func (*AgentConfig) Category() Category       { return CategoryAgent }
func (*TriggerConfig) Category() Category     { return CategoryTrigger }
func (*LogicConfig) Category() Category       { return CategoryLogic }
func (*DataConfig) Category() Category        { return CategoryData }
func (*IntegrationConfig) Category() Category { return CategoryIntegration }
func (*OutputConfig) Category() Category      { return CategoryOutput }

func (*AgentConfig) isConfig()       {}
func (*TriggerConfig) isConfig()     {}
func (*LogicConfig) isConfig()       {}
func (*DataConfig) isConfig()        {}
func (*IntegrationConfig) isConfig() {}
func (*OutputConfig) isConfig()      {}

// NewConfig returns an empty config variant for the category.
func NewConfig(category Category) (NodeConfig, error) {
	switch category {
	case CategoryAgent:
		return &AgentConfig{}, nil
	case CategoryTrigger:
		return &TriggerConfig{}, nil
	case CategoryLogic:
		return &LogicConfig{}, nil
	case CategoryData:
		return &DataConfig{}, nil
	case CategoryIntegration:
		return &IntegrationConfig{}, nil
	case CategoryOutput:
		return &OutputConfig{}, nil
	default:
		return nil, fmt.Errorf("%w: category %q", ErrUnknownNodeKind, category)
	}
}

// ConfigFromMap decodes the weakly typed boundary form of a config into
// the variant for the category.
func ConfigFromMap(category Category, values map[string]any) (NodeConfig, error) {
	config, err := NewConfig(category)
	if err != nil {
		return nil, err
	}

	if len(values) == 0 {
		return config, nil
	}

	raw, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s config: %w", category, err)
	}

	if err := json.Unmarshal(raw, config); err != nil {
		return nil, fmt.Errorf("failed to decode %s config: %w", category, err)
	}

	return config, nil
}

// ConfigToMap encodes a config variant into its boundary form.
func ConfigToMap(config NodeConfig) (map[string]any, error) {
	if config == nil {
		return map[string]any{}, nil
	}

	raw, err := json.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s config: %w", config.Category(), err)
	}

	values := make(map[string]any)
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("failed to decode %s config: %w", config.Category(), err)
	}

	return values, nil
}

// CloneConfig returns a deep copy of a config variant.
func CloneConfig(config NodeConfig) NodeConfig {
	switch c := config.(type) {
	case *AgentConfig:
		clone := *c

		return &clone
	case *TriggerConfig:
		clone := *c
		clone.Fields = append([]string(nil), c.Fields...)

		return &clone
	case *LogicConfig:
		clone := *c

		return &clone
	case *DataConfig:
		clone := *c

		return &clone
	case *IntegrationConfig:
		clone := *c

		return &clone
	case *OutputConfig:
		clone := *c

		return &clone
	default:
		return nil
	}
}
