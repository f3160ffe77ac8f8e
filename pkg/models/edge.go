package models

// ConnectionType describes the relationship an edge represents. It is
// presentation metadata and never affects validation.
type ConnectionType string

const (
	ConnectionDefault       ConnectionType = "default"
	ConnectionCollaboration ConnectionType = "collaboration"
	ConnectionApproval      ConnectionType = "approval"
	ConnectionFeedback      ConnectionType = "feedback"
)

// Edge connects an output port of one node to an input port of another.
type Edge struct {
	ID             string         `json:"id"                        yaml:"id"               validate:"required"`
	SourceNodeID   string         `json:"source_node_id"            yaml:"source_node_id"   validate:"required"`
	SourcePortID   string         `json:"source_port_id"            yaml:"source_port_id"   validate:"required"`
	TargetNodeID   string         `json:"target_node_id"            yaml:"target_node_id"   validate:"required"`
	TargetPortID   string         `json:"target_port_id"            yaml:"target_port_id"   validate:"required"`
	ConnectionType ConnectionType `json:"connection_type,omitempty" yaml:"connection_type,omitempty" validate:"omitempty,oneof=default collaboration approval feedback"`
}

// Touches reports whether the edge has nodeID at either end.
func (e *Edge) Touches(nodeID string) bool {
	return e.SourceNodeID == nodeID || e.TargetNodeID == nodeID
}

// SameEndpoints reports whether two edges join the same pair of ports.
func (e *Edge) SameEndpoints(other *Edge) bool {
	return e.SourceNodeID == other.SourceNodeID &&
		e.SourcePortID == other.SourcePortID &&
		e.TargetNodeID == other.TargetNodeID &&
		e.TargetPortID == other.TargetPortID
}

// Selection identifies the single selected node or edge of a canvas.
// At most one of the two fields is set.
type Selection struct {
	NodeID string `json:"node_id,omitempty" yaml:"node_id,omitempty"`
	EdgeID string `json:"edge_id,omitempty" yaml:"edge_id,omitempty"`
}

// Empty reports whether nothing is selected.
func (s Selection) Empty() bool {
	return s.NodeID == "" && s.EdgeID == ""
}
