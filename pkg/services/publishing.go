package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dukex/flowcanvas/pkg/events"
	"github.com/dukex/flowcanvas/pkg/models"
	"github.com/dukex/flowcanvas/pkg/otelhelper"
	"github.com/dukex/flowcanvas/pkg/validation"
	"go.opentelemetry.io/otel/attribute"
)

// SaveResult is the stored snapshot together with the problems it still has.
type SaveResult struct {
	Workflow *models.Snapshot     `json:"workflow"`
	Problems []validation.Problem `json:"problems"`
}

// RunRequest acknowledges a workflow handed off for execution.
type RunRequest struct {
	RunID      string    `json:"run_id"`
	WorkflowID string    `json:"workflow_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// Validate runs every structural check over the workflow. A nil result
// means the workflow is ready to run.
func (w *Workflow) Validate(ctx context.Context, workflowID string) ([]validation.Problem, error) {
	ctx, span := otelhelper.StartSpan(ctx, w.tracer, "workflow.validate", attribute.String(otelhelper.WorkflowIDKey, workflowID))
	defer span.End()

	var problems []validation.Problem

	err := w.edit(ctx, workflowID, func(s *session) error {
		problems = w.check(ctx, s)

		return nil
	})
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	span.SetAttributes(attribute.Int(otelhelper.ProblemCountKey, len(problems)))

	return problems, nil
}

// Save stores the workflow as it is. Drafts with problems are stored too;
// the problems are returned alongside.
func (w *Workflow) Save(ctx context.Context, workflowID string) (*SaveResult, error) {
	ctx, span := otelhelper.StartSpan(ctx, w.tracer, "workflow.save", attribute.String(otelhelper.WorkflowIDKey, workflowID))
	defer span.End()

	var result *SaveResult

	err := w.edit(ctx, workflowID, func(s *session) error {
		problems := w.check(ctx, s)

		snapshot, err := s.snapshot()
		if err != nil {
			return err
		}

		if err := w.persistence.SaveWorkflow(ctx, snapshot); err != nil {
			w.logger.ErrorContext(ctx, "Failed to save workflow", "workflow_id", workflowID, "error", err)

			return fmt.Errorf("failed to save workflow: %w", err)
		}

		s.createdAt = snapshot.CreatedAt

		w.publish(ctx, workflowID, events.WorkflowSaved{
			BaseEvent:    events.NewBaseEvent(events.WorkflowSavedEvent, workflowID),
			NodeCount:    len(snapshot.Nodes),
			EdgeCount:    len(snapshot.Edges),
			ProblemCount: len(problems),
		})

		result = &SaveResult{Workflow: snapshot, Problems: problems}

		return nil
	})
	w.record("save", err)

	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	w.logger.InfoContext(ctx, "Workflow saved", "workflow_id", workflowID, "problems", len(result.Problems))

	return result, nil
}

// Run validates the workflow and, when no problem at all is found, records
// a run request. Warnings block a run as much as errors do. Nothing is
// executed here.
func (w *Workflow) Run(ctx context.Context, workflowID string) (*RunRequest, error) {
	ctx, span := otelhelper.StartSpan(ctx, w.tracer, "workflow.run", attribute.String(otelhelper.WorkflowIDKey, workflowID))
	defer span.End()

	var request *RunRequest

	err := w.edit(ctx, workflowID, func(s *session) error {
		problems := w.check(ctx, s)
		if validation.Blocking(problems) {
			return &RunBlockedError{WorkflowID: workflowID, Problems: problems}
		}

		nodes, edges := s.store.Len()

		request = &RunRequest{
			RunID:      w.newID(),
			WorkflowID: workflowID,
			CreatedAt:  time.Now().UTC(),
		}

		w.publish(ctx, workflowID, events.WorkflowRunRequested{
			BaseEvent: events.NewBaseEvent(events.WorkflowRunRequestedEvent, workflowID),
			RunID:     request.RunID,
			NodeCount: nodes,
			EdgeCount: edges,
		})

		return nil
	})
	w.record("run", err)

	if err != nil {
		otelhelper.SetError(span, err)

		if blocked, ok := IsRunBlocked(err); ok {
			w.logger.InfoContext(ctx, "Run blocked", "workflow_id", workflowID, "problems", len(blocked.Problems))
		}

		return nil, err
	}

	w.logger.InfoContext(ctx, "Run requested", "workflow_id", workflowID, "run_id", request.RunID)

	return request, nil
}

// check validates the session, recording metrics and publishing the outcome.
func (w *Workflow) check(ctx context.Context, s *session) []validation.Problem {
	started := time.Now()
	problems := w.validator.Validate(s.store)

	if w.metrics != nil {
		w.metrics.RecordValidation(problems, time.Since(started))
	}

	codes := make([]string, 0, len(problems))
	for _, problem := range problems {
		codes = append(codes, string(problem.Code))
	}

	w.publish(ctx, s.id, events.WorkflowValidated{
		BaseEvent:    events.NewBaseEvent(events.WorkflowValidatedEvent, s.id),
		ProblemCount: len(problems),
		Codes:        codes,
		Blocking:     validation.Blocking(problems),
	})

	return problems
}
