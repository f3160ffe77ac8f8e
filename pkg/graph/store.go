// Package graph holds the mutable set of nodes and edges placed on a canvas.
package graph

import (
	"fmt"
	"slices"

	"github.com/dukex/flowcanvas/pkg/catalog"
	"github.com/dukex/flowcanvas/pkg/models"
	"github.com/dukex/flowcanvas/pkg/rules"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Template describes a node to instantiate. Empty display fields and a nil
// config fall back to the catalog defaults for the kind.
type Template struct {
	Kind        models.Kind       `validate:"required"`
	Label       string            `validate:"omitempty,max=120"`
	Description string            `validate:"omitempty,max=500"`
	Icon        string            `validate:"omitempty,max=64"`
	Position    models.Position
	Config      models.NodeConfig
}

// Candidate is a requested edge, not yet admitted.
type Candidate struct {
	SourceNodeID   string                `json:"source_node_id" validate:"required"`
	SourcePortID   string                `json:"source_port_id" validate:"required"`
	TargetNodeID   string                `json:"target_node_id" validate:"required"`
	TargetPortID   string                `json:"target_port_id" validate:"required"`
	ConnectionType models.ConnectionType `json:"connection_type,omitempty"`
}

// Store owns the nodes, edges and selection of one workflow. It is not safe
// for concurrent use; callers apply operations one at a time.
type Store struct {
	nodes     map[string]*models.NodeInstance
	nodeOrder []string
	edges     map[string]*models.Edge
	edgeOrder []string
	selection models.Selection
	newID     func() string
	validate  *validator.Validate
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator replaces the uuid generator used for new nodes and edges.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		s.newID = newID
	}
}

// WithValidator shares a validator instance with the store.
func WithValidator(validate *validator.Validate) Option {
	return func(s *Store) {
		s.validate = validate
	}
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	store := &Store{
		nodes: make(map[string]*models.NodeInstance),
		edges: make(map[string]*models.Edge),
		newID: func() string { return uuid.New().String() },
	}

	for _, opt := range opts {
		opt(store)
	}

	if store.validate == nil {
		store.validate = validator.New(validator.WithRequiredStructEnabled())
	}

	return store
}

// AddNode instantiates a template, snapshotting its ports from the catalog.
func (s *Store) AddNode(template Template) (*models.NodeInstance, error) {
	if err := s.validate.Struct(template); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTemplate, err)
	}

	template.Kind = normalizeKind(template.Kind)

	config := template.Config
	if config == nil {
		config = catalog.DefaultConfig(template.Kind)
	} else if err := s.checkConfig(template.Kind.Category(), config); err != nil {
		return nil, err
	}

	meta := catalog.MetadataFor(template.Kind)
	inputs, outputs := catalog.PortsFor(template.Kind)

	node := &models.NodeInstance{
		ID:          s.newID(),
		Kind:        template.Kind,
		Label:       valueOr(template.Label, meta.Label),
		Description: valueOr(template.Description, meta.Description),
		Icon:        valueOr(template.Icon, meta.Icon),
		Inputs:      inputs,
		Outputs:     outputs,
		Position:    template.Position,
		Config:      models.CloneConfig(config),
	}

	s.nodes[node.ID] = node
	s.nodeOrder = append(s.nodeOrder, node.ID)

	return node.Clone(), nil
}

// RemoveNode deletes a node together with every edge touching it and
// returns the IDs of the removed edges.
func (s *Store) RemoveNode(id string) ([]string, error) {
	if _, ok := s.nodes[id]; !ok {
		return nil, &MutationError{Op: "RemoveNode", Target: id, Err: ErrNodeNotFound}
	}

	var removed []string

	for _, edgeID := range s.edgeOrder {
		if s.edges[edgeID].Touches(id) {
			removed = append(removed, edgeID)
		}
	}

	for _, edgeID := range removed {
		s.deleteEdge(edgeID)
	}

	delete(s.nodes, id)
	s.nodeOrder = slices.DeleteFunc(s.nodeOrder, func(n string) bool { return n == id })

	if s.selection.NodeID == id {
		s.selection = models.Selection{}
	}

	return removed, nil
}

// AddEdge admits a candidate through the connection rules. On refusal the
// store is unchanged and the returned error is a *rules.Rejection.
func (s *Store) AddEdge(candidate Candidate) (*models.Edge, error) {
	connectionType := candidate.ConnectionType
	if connectionType == "" {
		connectionType = models.ConnectionDefault
	}

	if !validConnectionType(connectionType) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidConnectionType, candidate.ConnectionType)
	}

	source, ok := s.nodes[candidate.SourceNodeID]
	if !ok {
		return nil, missingNode(candidate, candidate.SourceNodeID)
	}

	target, ok := s.nodes[candidate.TargetNodeID]
	if !ok {
		return nil, missingNode(candidate, candidate.TargetNodeID)
	}

	if rejection := rules.Check(
		rules.Endpoint{Node: source, PortID: candidate.SourcePortID},
		rules.Endpoint{Node: target, PortID: candidate.TargetPortID},
	); rejection != nil {
		return nil, rejection
	}

	edge := &models.Edge{
		ID:             s.newID(),
		SourceNodeID:   candidate.SourceNodeID,
		SourcePortID:   candidate.SourcePortID,
		TargetNodeID:   candidate.TargetNodeID,
		TargetPortID:   candidate.TargetPortID,
		ConnectionType: connectionType,
	}

	for _, existing := range s.edges {
		if existing.SameEndpoints(edge) {
			return nil, &rules.Rejection{
				Reason: rules.ReasonDuplicateEdge,
				Message: fmt.Sprintf("%q is already connected to %q on these ports",
					source.Label, target.Label),
				SourceNodeID: candidate.SourceNodeID,
				SourcePortID: candidate.SourcePortID,
				TargetNodeID: candidate.TargetNodeID,
				TargetPortID: candidate.TargetPortID,
			}
		}
	}

	s.edges[edge.ID] = edge
	s.edgeOrder = append(s.edgeOrder, edge.ID)

	clone := *edge

	return &clone, nil
}

// RemoveEdge deletes a single edge.
func (s *Store) RemoveEdge(id string) error {
	if _, ok := s.edges[id]; !ok {
		return &MutationError{Op: "RemoveEdge", Target: id, Err: ErrEdgeNotFound}
	}

	s.deleteEdge(id)

	return nil
}

// Select makes a node or an edge the single selected target. Selecting a
// node clears any selected edge and vice versa; an empty selection clears both.
func (s *Store) Select(selection models.Selection) error {
	switch {
	case selection.NodeID != "" && selection.EdgeID != "":
		return &MutationError{
			Op:     "Select",
			Target: selection.NodeID + "," + selection.EdgeID,
			Err:    ErrInvalidSelection,
		}
	case selection.NodeID != "":
		if _, ok := s.nodes[selection.NodeID]; !ok {
			return &MutationError{Op: "Select", Target: selection.NodeID, Err: ErrNodeNotFound}
		}
	case selection.EdgeID != "":
		if _, ok := s.edges[selection.EdgeID]; !ok {
			return &MutationError{Op: "Select", Target: selection.EdgeID, Err: ErrEdgeNotFound}
		}
	}

	s.selection = selection

	return nil
}

// Selected returns the current selection.
func (s *Store) Selected() models.Selection {
	return s.selection
}

// MoveNode changes the canvas position of a node.
func (s *Store) MoveNode(id string, position models.Position) error {
	node, ok := s.nodes[id]
	if !ok {
		return &MutationError{Op: "MoveNode", Target: id, Err: ErrNodeNotFound}
	}

	node.Position = position

	return nil
}

// RenameNode changes the display label of a node.
func (s *Store) RenameNode(id, label string) error {
	node, ok := s.nodes[id]
	if !ok {
		return &MutationError{Op: "RenameNode", Target: id, Err: ErrNodeNotFound}
	}

	if err := s.validate.Var(label, "required,max=120"); err != nil {
		return &MutationError{Op: "RenameNode", Target: id, Err: fmt.Errorf("%w: %w", ErrInvalidTemplate, err)}
	}

	node.Label = label

	return nil
}

// UpdateConfig replaces the configuration of a node. The config variant
// must belong to the node's category.
func (s *Store) UpdateConfig(id string, config models.NodeConfig) error {
	node, ok := s.nodes[id]
	if !ok {
		return &MutationError{Op: "UpdateConfig", Target: id, Err: ErrNodeNotFound}
	}

	if err := s.checkConfig(node.Category(), config); err != nil {
		return &MutationError{Op: "UpdateConfig", Target: id, Err: err}
	}

	node.Config = models.CloneConfig(config)

	return nil
}

// Node returns a copy of a node.
func (s *Store) Node(id string) (*models.NodeInstance, bool) {
	node, ok := s.nodes[id]
	if !ok {
		return nil, false
	}

	return node.Clone(), true
}

// Edge returns a copy of an edge.
func (s *Store) Edge(id string) (*models.Edge, bool) {
	edge, ok := s.edges[id]
	if !ok {
		return nil, false
	}

	clone := *edge

	return &clone, true
}

// Nodes returns copies of all nodes in insertion order.
func (s *Store) Nodes() []*models.NodeInstance {
	nodes := make([]*models.NodeInstance, 0, len(s.nodeOrder))
	for _, id := range s.nodeOrder {
		nodes = append(nodes, s.nodes[id].Clone())
	}

	return nodes
}

// Edges returns copies of all edges in insertion order.
func (s *Store) Edges() []*models.Edge {
	edges := make([]*models.Edge, 0, len(s.edgeOrder))
	for _, id := range s.edgeOrder {
		clone := *s.edges[id]
		edges = append(edges, &clone)
	}

	return edges
}

// EdgesOf returns copies of the edges that touch a node.
func (s *Store) EdgesOf(nodeID string) []*models.Edge {
	var edges []*models.Edge

	for _, id := range s.edgeOrder {
		if edge := s.edges[id]; edge.Touches(nodeID) {
			clone := *edge
			edges = append(edges, &clone)
		}
	}

	return edges
}

// Len returns the number of nodes and edges.
func (s *Store) Len() (int, int) {
	return len(s.nodes), len(s.edges)
}

func (s *Store) deleteEdge(id string) {
	delete(s.edges, id)
	s.edgeOrder = slices.DeleteFunc(s.edgeOrder, func(e string) bool { return e == id })

	if s.selection.EdgeID == id {
		s.selection = models.Selection{}
	}
}

func (s *Store) checkConfig(category models.Category, config models.NodeConfig) error {
	if config == nil {
		return fmt.Errorf("%w: config is required", ErrInvalidConfig)
	}

	if config.Category() != category {
		return fmt.Errorf("%w: %w: %s config on %s node",
			ErrInvalidConfig, models.ErrConfigCategoryMismatch, config.Category(), category)
	}

	if err := s.validate.Struct(config); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return nil
}

func missingNode(candidate Candidate, nodeID string) *rules.Rejection {
	return &rules.Rejection{
		Reason:       rules.ReasonNodeNotFound,
		Message:      fmt.Sprintf("node %q does not exist", nodeID),
		SourceNodeID: candidate.SourceNodeID,
		SourcePortID: candidate.SourcePortID,
		TargetNodeID: candidate.TargetNodeID,
		TargetPortID: candidate.TargetPortID,
	}
}

func validConnectionType(connectionType models.ConnectionType) bool {
	switch connectionType {
	case models.ConnectionDefault, models.ConnectionCollaboration,
		models.ConnectionApproval, models.ConnectionFeedback:
		return true
	default:
		return false
	}
}

// normalizeKind settles the case count of logic kinds: switch nodes get
// their effective count and every other logic subtype carries none.
func normalizeKind(kind models.Kind) models.Kind {
	logic, ok := kind.(models.LogicKind)
	if !ok {
		return kind
	}

	if logic.Type == models.LogicSwitch {
		logic.Cases = logic.SwitchCases()
	} else {
		logic.Cases = 0
	}

	return logic
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}

	return value
}
