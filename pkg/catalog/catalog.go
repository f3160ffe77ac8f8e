// Package catalog maps node kinds to their canonical ports, metadata and default configuration.
package catalog

import (
	"fmt"

	"github.com/dukex/flowcanvas/pkg/models"
)

// Metadata is the display information of a node kind.
type Metadata struct {
	Label       string `json:"label"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Template is a palette entry the canvas can drop onto the graph.
type Template struct {
	Category    models.Category `json:"category"`
	Subtype     string          `json:"subtype"`
	Label       string          `json:"label"`
	Description string          `json:"description"`
	Icon        string          `json:"icon"`
	Inputs      []models.Port   `json:"inputs"`
	Outputs     []models.Port   `json:"outputs"`
}

// PortsFor returns the canonical input and output ports of a kind. The
// result is a fresh slice on every call.
func PortsFor(kind models.Kind) ([]models.Port, []models.Port) {
	switch k := kind.(type) {
	case models.AgentKind:
		return agentPorts(k)
	case models.TriggerKind:
		return triggerPorts(k)
	case models.LogicKind:
		return logicPorts(k)
	case models.DataKind:
		return dataPorts(k)
	case models.IntegrationKind:
		return integrationPorts(k)
	case models.OutputKind:
		return outputPorts(k)
	default:
		panic(misuse(kind))
	}
}

// MetadataFor returns the default label, description and icon of a kind.
func MetadataFor(kind models.Kind) Metadata {
	switch k := kind.(type) {
	case models.AgentKind:
		return agentMetadata(k)
	case models.TriggerKind:
		return triggerMetadata(k)
	case models.LogicKind:
		return logicMetadata(k)
	case models.DataKind:
		return dataMetadata(k)
	case models.IntegrationKind:
		return integrationMetadata(k)
	case models.OutputKind:
		return outputMetadata(k)
	default:
		panic(misuse(kind))
	}
}

// DefaultConfig returns the configuration a freshly dropped node starts with.
func DefaultConfig(kind models.Kind) models.NodeConfig {
	switch k := kind.(type) {
	case models.AgentKind:
		return agentConfig(k)
	case models.TriggerKind:
		return triggerConfig(k)
	case models.LogicKind:
		return logicConfig(k)
	case models.DataKind:
		return dataConfig(k)
	case models.IntegrationKind:
		return integrationConfig(k)
	case models.OutputKind:
		return outputConfig(k)
	default:
		panic(misuse(kind))
	}
}

// Templates returns every node kind of the palette, grouped by category.
func Templates() []Template {
	var templates []Template

	for _, category := range models.Categories() {
		for _, subtype := range models.Subtypes(category) {
			kind, err := models.ParseKind(string(category), subtype)
			if err != nil {
				panic(err)
			}

			meta := MetadataFor(kind)
			inputs, outputs := PortsFor(kind)

			templates = append(templates, Template{
				Category:    category,
				Subtype:     subtype,
				Label:       meta.Label,
				Description: meta.Description,
				Icon:        meta.Icon,
				Inputs:      inputs,
				Outputs:     outputs,
			})
		}
	}

	return templates
}

// misuse builds the panic value for a kind the catalog does not know. Kinds
// built through models.ParseKind never reach it.
func misuse(kind models.Kind) string {
	if kind == nil {
		return "catalog: nil node kind"
	}

	return fmt.Sprintf("catalog: unhandled node kind %s", models.KindString(kind))
}

func in(id string, kind models.PortKind, label string) models.Port {
	return models.NewInputPort(id, kind, label)
}

func out(id string, kind models.PortKind, label string) models.Port {
	return models.NewOutputPort(id, kind, label)
}

// standardPorts is the Trigger-in/Data-in, Trigger-out/Data-out shape
// shared by data, integration and output nodes.
func standardPorts() ([]models.Port, []models.Port) {
	return []models.Port{
			in("in", models.PortKindTrigger, "In"),
			in("data", models.PortKindData, "Data"),
		}, []models.Port{
			out("out", models.PortKindTrigger, "Out"),
			out("result", models.PortKindData, "Result"),
		}
}
