package services

import (
	"context"

	"github.com/dukex/flowcanvas/pkg/events"
	"github.com/dukex/flowcanvas/pkg/graph"
	"github.com/dukex/flowcanvas/pkg/models"
	"github.com/dukex/flowcanvas/pkg/otelhelper"
	"github.com/dukex/flowcanvas/pkg/rules"
	"go.opentelemetry.io/otel/attribute"
)

// AddEdge asks the connection rules to admit a candidate edge. A refused
// connection returns a *rules.Rejection and is published as an
// edge.rejected event so every open canvas can show the reason.
func (w *Workflow) AddEdge(ctx context.Context, workflowID string, candidate graph.Candidate) (*models.Edge, error) {
	ctx, span := otelhelper.StartSpan(ctx, w.tracer, "workflow.add_edge", attribute.String(otelhelper.WorkflowIDKey, workflowID))
	defer span.End()

	var edge *models.Edge

	err := w.edit(ctx, workflowID, func(s *session) error {
		var err error

		edge, err = s.store.AddEdge(candidate)
		if err != nil {
			if rejection, ok := rules.IsRejection(err); ok {
				w.reject(ctx, workflowID, rejection)
			}

			return err
		}

		w.publish(ctx, workflowID, events.EdgeAdded{
			BaseEvent:    events.NewBaseEvent(events.EdgeAddedEvent, workflowID),
			EdgeID:       edge.ID,
			SourceNodeID: edge.SourceNodeID,
			SourcePortID: edge.SourcePortID,
			TargetNodeID: edge.TargetNodeID,
			TargetPortID: edge.TargetPortID,
		})

		return nil
	})
	w.record("add_edge", err)

	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	span.SetAttributes(attribute.String(otelhelper.EdgeIDKey, edge.ID))
	w.logger.DebugContext(ctx, "Edge added", "workflow_id", workflowID, "edge_id", edge.ID)

	return edge, nil
}

func (w *Workflow) reject(ctx context.Context, workflowID string, rejection *rules.Rejection) {
	w.logger.InfoContext(ctx, "Connection rejected",
		"workflow_id", workflowID,
		"reason", rejection.Reason,
		"message", rejection.Message)

	if w.metrics != nil {
		w.metrics.RecordRejection(string(rejection.Reason))
	}

	w.publish(ctx, workflowID, events.EdgeRejected{
		BaseEvent:    events.NewBaseEvent(events.EdgeRejectedEvent, workflowID),
		SourceNodeID: rejection.SourceNodeID,
		SourcePortID: rejection.SourcePortID,
		TargetNodeID: rejection.TargetNodeID,
		TargetPortID: rejection.TargetPortID,
		Reason:       string(rejection.Reason),
		Message:      rejection.Message,
	})
}

// RemoveEdge deletes one edge.
func (w *Workflow) RemoveEdge(ctx context.Context, workflowID, edgeID string) error {
	ctx, span := otelhelper.StartSpan(ctx, w.tracer, "workflow.remove_edge",
		attribute.String(otelhelper.WorkflowIDKey, workflowID),
		attribute.String(otelhelper.EdgeIDKey, edgeID))
	defer span.End()

	err := w.edit(ctx, workflowID, func(s *session) error {
		if err := s.store.RemoveEdge(edgeID); err != nil {
			return err
		}

		w.publish(ctx, workflowID, events.EdgeRemoved{
			BaseEvent: events.NewBaseEvent(events.EdgeRemovedEvent, workflowID),
			EdgeID:    edgeID,
		})

		return nil
	})
	w.record("remove_edge", err)

	if err != nil {
		otelhelper.SetError(span, err)

		return err
	}

	return nil
}
