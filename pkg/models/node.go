package models

// Position is a canvas coordinate. It plays no part in validation.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// NodeInstance is a node placed on the canvas. Its ports are snapshotted
// from the catalog when the node is created and never change afterwards.
type NodeInstance struct {
	ID          string
	Kind        Kind
	Label       string
	Description string
	Icon        string
	Inputs      []Port
	Outputs     []Port
	Position    Position
	Config      NodeConfig
}

// Category returns the category of the node.
func (n *NodeInstance) Category() Category {
	return n.Kind.Category()
}

// Subtype returns the category-specific subtype of the node.
func (n *NodeInstance) Subtype() string {
	return n.Kind.Subtype()
}

func (n *NodeInstance) IsTrigger() bool {
	return n.Category() == CategoryTrigger
}

func (n *NodeInstance) IsOutput() bool {
	return n.Category() == CategoryOutput
}

// InputPort looks up one of the node's declared input ports.
func (n *NodeInstance) InputPort(id string) (Port, bool) {
	return findPort(n.Inputs, id)
}

// OutputPort looks up one of the node's declared output ports.
func (n *NodeInstance) OutputPort(id string) (Port, bool) {
	return findPort(n.Outputs, id)
}

// Clone returns a copy that shares no mutable state with n.
func (n *NodeInstance) Clone() *NodeInstance {
	clone := *n
	clone.Inputs = append([]Port(nil), n.Inputs...)
	clone.Outputs = append([]Port(nil), n.Outputs...)
	clone.Config = CloneConfig(n.Config)

	return &clone
}
