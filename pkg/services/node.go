package services

import (
	"context"
	"fmt"

	"github.com/dukex/flowcanvas/pkg/events"
	"github.com/dukex/flowcanvas/pkg/graph"
	"github.com/dukex/flowcanvas/pkg/models"
	"github.com/dukex/flowcanvas/pkg/otelhelper"
	"go.opentelemetry.io/otel/attribute"
)

// AddNodeRequest places a palette entry on the canvas. A nil config takes
// the catalog defaults for the kind.
type AddNodeRequest struct {
	Category    string          `json:"category"              validate:"required"`
	Subtype     string          `json:"subtype"               validate:"required"`
	Cases       int             `json:"cases,omitempty"       validate:"omitempty,min=2,max=32"`
	Label       string          `json:"label,omitempty"`
	Description string          `json:"description,omitempty"`
	Icon        string          `json:"icon,omitempty"`
	Position    models.Position `json:"position"`
	Config      map[string]any  `json:"config,omitempty"`
}

// UpdateNodeRequest changes any of a node's position, label or config.
// Nil fields are left as they are.
type UpdateNodeRequest struct {
	Position *models.Position `json:"position,omitempty"`
	Label    *string          `json:"label,omitempty"`
	Config   map[string]any   `json:"config,omitempty"`
}

// AddNode instantiates a node from its kind and places it on the canvas.
func (w *Workflow) AddNode(ctx context.Context, workflowID string, req AddNodeRequest) (*models.NodeInstance, error) {
	ctx, span := otelhelper.StartSpan(ctx, w.tracer, "workflow.add_node",
		attribute.String(otelhelper.WorkflowIDKey, workflowID),
		attribute.String(otelhelper.NodeKindKey, req.Category+"/"+req.Subtype))
	defer span.End()

	template, err := w.templateFor(req)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	var node *models.NodeInstance

	err = w.edit(ctx, workflowID, func(s *session) error {
		node, err = s.store.AddNode(template)
		if err != nil {
			return err
		}

		w.publish(ctx, workflowID, events.NodeAdded{
			BaseEvent: events.NewBaseEvent(events.NodeAddedEvent, workflowID),
			NodeID:    node.ID,
			Category:  string(node.Category()),
			Subtype:   node.Subtype(),
			Label:     node.Label,
		})

		return nil
	})
	w.record("add_node", err)

	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	span.SetAttributes(attribute.String(otelhelper.NodeIDKey, node.ID))
	w.logger.DebugContext(ctx, "Node added", "workflow_id", workflowID, "node_id", node.ID, "kind", models.KindString(node.Kind))

	return node, nil
}

func (w *Workflow) templateFor(req AddNodeRequest) (graph.Template, error) {
	if err := w.validate.Struct(req); err != nil {
		return graph.Template{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	kind, err := models.ParseKind(req.Category, req.Subtype)
	if err != nil {
		return graph.Template{}, err
	}

	if logic, ok := kind.(models.LogicKind); ok && logic.Type == models.LogicSwitch && req.Cases > 0 {
		logic.Cases = req.Cases
		kind = logic
	}

	template := graph.Template{
		Kind:        kind,
		Label:       req.Label,
		Description: req.Description,
		Icon:        req.Icon,
		Position:    req.Position,
	}

	if req.Config != nil {
		template.Config, err = models.ConfigFromMap(kind.Category(), req.Config)
		if err != nil {
			return graph.Template{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
	}

	return template, nil
}

// RemoveNode deletes a node and every edge touching it, returning the IDs
// of the removed edges.
func (w *Workflow) RemoveNode(ctx context.Context, workflowID, nodeID string) ([]string, error) {
	ctx, span := otelhelper.StartSpan(ctx, w.tracer, "workflow.remove_node",
		attribute.String(otelhelper.WorkflowIDKey, workflowID),
		attribute.String(otelhelper.NodeIDKey, nodeID))
	defer span.End()

	var removed []string

	err := w.edit(ctx, workflowID, func(s *session) error {
		var err error

		removed, err = s.store.RemoveNode(nodeID)
		if err != nil {
			return err
		}

		w.publish(ctx, workflowID, events.NodeRemoved{
			BaseEvent:      events.NewBaseEvent(events.NodeRemovedEvent, workflowID),
			NodeID:         nodeID,
			RemovedEdgeIDs: removed,
		})

		return nil
	})
	w.record("remove_node", err)

	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	w.logger.DebugContext(ctx, "Node removed", "workflow_id", workflowID, "node_id", nodeID, "removed_edges", len(removed))

	return removed, nil
}

// MoveNode changes a node's canvas position.
func (w *Workflow) MoveNode(ctx context.Context, workflowID, nodeID string, position models.Position) (*models.NodeInstance, error) {
	return w.UpdateNode(ctx, workflowID, nodeID, UpdateNodeRequest{Position: &position})
}

// RenameNode changes a node's display label.
func (w *Workflow) RenameNode(ctx context.Context, workflowID, nodeID, label string) (*models.NodeInstance, error) {
	return w.UpdateNode(ctx, workflowID, nodeID, UpdateNodeRequest{Label: &label})
}

// UpdateNodeConfig replaces a node's configuration.
func (w *Workflow) UpdateNodeConfig(ctx context.Context, workflowID, nodeID string, config map[string]any) (*models.NodeInstance, error) {
	if config == nil {
		config = map[string]any{}
	}

	return w.UpdateNode(ctx, workflowID, nodeID, UpdateNodeRequest{Config: config})
}

// UpdateNode applies every change in req or none of them. One event is
// published per changed aspect.
func (w *Workflow) UpdateNode(ctx context.Context, workflowID, nodeID string, req UpdateNodeRequest) (*models.NodeInstance, error) {
	ctx, span := otelhelper.StartSpan(ctx, w.tracer, "workflow.update_node",
		attribute.String(otelhelper.WorkflowIDKey, workflowID),
		attribute.String(otelhelper.NodeIDKey, nodeID))
	defer span.End()

	if req.Position == nil && req.Label == nil && req.Config == nil {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidRequest)
	}

	var node *models.NodeInstance

	err := w.edit(ctx, workflowID, func(s *session) error {
		current, ok := s.store.Node(nodeID)
		if !ok {
			return &graph.MutationError{Op: "UpdateNode", Target: nodeID, Err: graph.ErrNodeNotFound}
		}

		var config models.NodeConfig

		if req.Config != nil {
			var err error

			config, err = models.ConfigFromMap(current.Category(), req.Config)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
			}
		}

		// Moving cannot fail, so it is applied last.
		var changes []events.NodeChange

		if req.Label != nil {
			if err := s.store.RenameNode(nodeID, *req.Label); err != nil {
				return err
			}

			changes = append(changes, events.NodeRenamed)
		}

		if config != nil {
			if err := s.store.UpdateConfig(nodeID, config); err != nil {
				if req.Label != nil {
					_ = s.store.RenameNode(nodeID, current.Label)
				}

				return err
			}

			changes = append(changes, events.NodeConfigUpdated)
		}

		if req.Position != nil {
			if err := s.store.MoveNode(nodeID, *req.Position); err != nil {
				return err
			}

			changes = append(changes, events.NodeMoved)
		}

		node, _ = s.store.Node(nodeID)

		for _, change := range changes {
			w.publish(ctx, workflowID, events.NodeUpdated{
				BaseEvent: events.NewBaseEvent(events.NodeUpdatedEvent, workflowID),
				NodeID:    nodeID,
				Change:    change,
			})
		}

		return nil
	})
	w.record("update_node", err)

	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	w.logger.DebugContext(ctx, "Node updated", "workflow_id", workflowID, "node_id", nodeID)

	return node, nil
}

// Select changes the canvas selection. An empty selection clears it.
func (w *Workflow) Select(ctx context.Context, workflowID string, selection models.Selection) error {
	ctx, span := otelhelper.StartSpan(ctx, w.tracer, "workflow.select", attribute.String(otelhelper.WorkflowIDKey, workflowID))
	defer span.End()

	err := w.edit(ctx, workflowID, func(s *session) error {
		if err := s.store.Select(selection); err != nil {
			return err
		}

		w.publish(ctx, workflowID, events.SelectionChanged{
			BaseEvent: events.NewBaseEvent(events.SelectionChangedEvent, workflowID),
			NodeID:    selection.NodeID,
			EdgeID:    selection.EdgeID,
		})

		return nil
	})
	if err != nil {
		otelhelper.SetError(span, err)
	}

	return err
}
