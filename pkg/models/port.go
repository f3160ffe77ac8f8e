// Package models defines the typed node, port and edge model of a workflow canvas.
package models

// PortKind classifies what travels through a port.
type PortKind string

const (
	PortKindData    PortKind = "data"    // Carries a payload value
	PortKindControl PortKind = "control" // Wildcard, bridges data and trigger
	PortKindTrigger PortKind = "trigger" // Carries a "proceed" signal
)

// Valid reports whether k is one of the known port kinds.
func (k PortKind) Valid() bool {
	switch k {
	case PortKindData, PortKindControl, PortKindTrigger:
		return true
	default:
		return false
	}
}

// PortDirection represents the side of a node a port sits on.
type PortDirection string

const (
	PortDirectionInput  PortDirection = "input"
	PortDirectionOutput PortDirection = "output"
)

// Port represents a typed connection point on a node.
type Port struct {
	ID        string        `json:"id"        yaml:"id"        validate:"required"` // Unique within the owning node
	Kind      PortKind      `json:"kind"      yaml:"kind"      validate:"required,oneof=data control trigger"`
	Label     string        `json:"label"     yaml:"label"`
	Direction PortDirection `json:"direction" yaml:"direction" validate:"required,oneof=input output"`
}

// NewInputPort creates an input port.
func NewInputPort(id string, kind PortKind, label string) Port {
	return Port{ID: id, Kind: kind, Label: label, Direction: PortDirectionInput}
}

// NewOutputPort creates an output port.
func NewOutputPort(id string, kind PortKind, label string) Port {
	return Port{ID: id, Kind: kind, Label: label, Direction: PortDirectionOutput}
}

func findPort(ports []Port, id string) (Port, bool) {
	for _, port := range ports {
		if port.ID == id {
			return port, true
		}
	}

	return Port{}, false
}
