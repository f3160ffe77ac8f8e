package graph

import (
	"fmt"

	"github.com/dukex/flowcanvas/pkg/models"
)

// Snapshot captures the store as a serializable document. Timestamps are
// left for the caller to fill in.
func (s *Store) Snapshot(id, name string) (*models.Snapshot, error) {
	snapshot := &models.Snapshot{
		ID:        id,
		Name:      name,
		Nodes:     make([]*models.NodeRecord, 0, len(s.nodeOrder)),
		Edges:     s.Edges(),
		Selection: s.selection,
	}

	for _, nodeID := range s.nodeOrder {
		record, err := models.NewNodeRecord(s.nodes[nodeID])
		if err != nil {
			return nil, err
		}

		snapshot.Nodes = append(snapshot.Nodes, record)
	}

	return snapshot, nil
}

// Load rebuilds a store from a snapshot. A snapshot is never trusted: every
// structural invariant is checked again and the snapshot is refused as a
// whole, listing every violation, if any of them fails. Port kind
// compatibility of stored edges is left to the validator so that edges
// created under older rules still load and get reported.
func Load(snapshot *models.Snapshot, opts ...Option) (*Store, error) {
	if snapshot == nil {
		return nil, &LoadError{Issues: []string{"snapshot is nil"}}
	}

	store := NewStore(opts...)

	var issues []string

	for i, record := range snapshot.Nodes {
		if record == nil {
			issues = append(issues, fmt.Sprintf("node #%d is empty", i))

			continue
		}

		if _, dup := store.nodes[record.ID]; dup {
			issues = append(issues, fmt.Sprintf("duplicate node id %q", record.ID))

			continue
		}

		node, err := record.Instance()
		if err != nil {
			issues = append(issues, err.Error())

			continue
		}

		issues = append(issues, portIssues(node)...)

		store.nodes[node.ID] = node
		store.nodeOrder = append(store.nodeOrder, node.ID)
	}

	for i, edge := range snapshot.Edges {
		if edge == nil {
			issues = append(issues, fmt.Sprintf("edge #%d is empty", i))

			continue
		}

		if _, dup := store.edges[edge.ID]; dup {
			issues = append(issues, fmt.Sprintf("duplicate edge id %q", edge.ID))

			continue
		}

		if edgeIssues := store.edgeIssues(edge); len(edgeIssues) > 0 {
			issues = append(issues, edgeIssues...)

			continue
		}

		if existing := store.edgeBetween(edge); existing != nil {
			issues = append(issues, fmt.Sprintf("edge %q: joins the same ports as edge %q", edge.ID, existing.ID))

			continue
		}

		clone := *edge
		if clone.ConnectionType == "" {
			clone.ConnectionType = models.ConnectionDefault
		}

		store.edges[clone.ID] = &clone
		store.edgeOrder = append(store.edgeOrder, clone.ID)
	}

	if len(issues) > 0 {
		return nil, &LoadError{Issues: issues}
	}

	if err := store.Select(snapshot.Selection); err != nil {
		return nil, &LoadError{Issues: []string{fmt.Sprintf("selection: %v", err)}}
	}

	return store, nil
}

func portIssues(node *models.NodeInstance) []string {
	var issues []string

	seen := make(map[string]bool)

	check := func(ports []models.Port, direction models.PortDirection) {
		for _, port := range ports {
			if seen[port.ID] {
				issues = append(issues, fmt.Sprintf("node %q: duplicate port id %q", node.ID, port.ID))
			}

			seen[port.ID] = true

			if port.Direction != direction {
				issues = append(issues, fmt.Sprintf("node %q: port %q is listed as %s but declared %s",
					node.ID, port.ID, direction, port.Direction))
			}

			if !port.Kind.Valid() {
				issues = append(issues, fmt.Sprintf("node %q: port %q has unknown kind %q", node.ID, port.ID, port.Kind))
			}
		}
	}

	check(node.Inputs, models.PortDirectionInput)
	check(node.Outputs, models.PortDirectionOutput)

	return issues
}

func (s *Store) edgeIssues(edge *models.Edge) []string {
	var issues []string

	if edge.ConnectionType != "" && !validConnectionType(edge.ConnectionType) {
		issues = append(issues, fmt.Sprintf("edge %q: unknown connection type %q", edge.ID, edge.ConnectionType))
	}

	if edge.SourceNodeID == edge.TargetNodeID {
		issues = append(issues, fmt.Sprintf("edge %q: connects node %q to itself", edge.ID, edge.SourceNodeID))
	}

	source, ok := s.nodes[edge.SourceNodeID]
	if !ok {
		issues = append(issues, fmt.Sprintf("edge %q: source node %q does not exist", edge.ID, edge.SourceNodeID))
	} else if _, ok := source.OutputPort(edge.SourcePortID); !ok {
		issues = append(issues, fmt.Sprintf("edge %q: node %q has no output port %q", edge.ID, edge.SourceNodeID, edge.SourcePortID))
	}

	target, ok := s.nodes[edge.TargetNodeID]
	if !ok {
		issues = append(issues, fmt.Sprintf("edge %q: target node %q does not exist", edge.ID, edge.TargetNodeID))
	} else if _, ok := target.InputPort(edge.TargetPortID); !ok {
		issues = append(issues, fmt.Sprintf("edge %q: node %q has no input port %q", edge.ID, edge.TargetNodeID, edge.TargetPortID))
	}

	return issues
}

// edgeBetween returns an admitted edge joining the same ports as edge.
func (s *Store) edgeBetween(edge *models.Edge) *models.Edge {
	for _, id := range s.edgeOrder {
		if existing := s.edges[id]; existing.SameEndpoints(edge) {
			return existing
		}
	}

	return nil
}
