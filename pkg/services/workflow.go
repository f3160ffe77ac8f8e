package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dukex/flowcanvas/pkg/eventbus"
	"github.com/dukex/flowcanvas/pkg/graph"
	"github.com/dukex/flowcanvas/pkg/metrics"
	"github.com/dukex/flowcanvas/pkg/models"
	"github.com/dukex/flowcanvas/pkg/otelhelper"
	"github.com/dukex/flowcanvas/pkg/persistence"
	"github.com/dukex/flowcanvas/pkg/validation"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Workflow edits workflow graphs on behalf of a canvas. Each open workflow
// has its own lock, so edits to one workflow are applied strictly one after
// another while different workflows proceed independently.
type Workflow struct {
	persistence persistence.Persistence
	publisher   eventbus.EventPublisher
	validator   *validation.Validator
	validate    *validator.Validate
	metrics     *metrics.Collector
	tracer      trace.Tracer
	logger      *slog.Logger
	newID       func() string

	mu      sync.Mutex
	open    map[string]*session
	deletes uint64
}

// session is one workflow held in memory between edits. A detached
// session has been dropped by Delete and must not be edited or saved.
type session struct {
	mu        sync.Mutex
	detached  bool
	id        string
	name      string
	createdAt time.Time
	store     *graph.Store
}

// Option configures the Workflow service.
type Option func(*Workflow)

// WithEventPublisher publishes an event for every applied edit.
func WithEventPublisher(publisher eventbus.EventPublisher) Option {
	return func(w *Workflow) {
		w.publisher = publisher
	}
}

// WithPolicy replaces the default validation policy.
func WithPolicy(policy validation.Policy) Option {
	return func(w *Workflow) {
		w.validator = validation.New(policy)
	}
}

func WithMetrics(collector *metrics.Collector) Option {
	return func(w *Workflow) {
		w.metrics = collector
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(w *Workflow) {
		w.tracer = tracer
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(w *Workflow) {
		w.logger = logger
	}
}

// WithIDGenerator replaces the uuid generator for workflows, nodes and edges.
func WithIDGenerator(newID func() string) Option {
	return func(w *Workflow) {
		w.newID = newID
	}
}

// NewWorkflow creates a new workflow service.
func NewWorkflow(persistence persistence.Persistence, opts ...Option) *Workflow {
	w := &Workflow{
		persistence: persistence,
		validator:   validation.New(validation.DefaultPolicy()),
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		tracer:      otelhelper.NoopTracer("flowcanvas"),
		logger:      slog.Default(),
		newID:       uuid.NewString,
		open:        make(map[string]*session),
	}

	for _, opt := range opts {
		opt(w)
	}

	w.logger = w.logger.With("module", "workflow_service")

	return w
}

// HealthCheck checks the health of the persistence layer.
func (w *Workflow) HealthCheck(ctx context.Context) (string, bool) {
	if w.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := w.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// CreateWorkflowRequest names a new, empty workflow.
type CreateWorkflowRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

// Create starts an empty workflow and stores it as a draft.
func (w *Workflow) Create(ctx context.Context, req CreateWorkflowRequest) (*models.Snapshot, error) {
	ctx, span := otelhelper.StartSpan(ctx, w.tracer, "workflow.create")
	defer span.End()

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, ErrWorkflowNameRequired
	}

	if err := w.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	s := &session{
		id:    w.newID(),
		name:  req.Name,
		store: w.newStore(),
	}

	snapshot, err := s.store.Snapshot(s.id, s.name)
	if err != nil {
		return nil, err
	}

	if err := w.persistence.SaveWorkflow(ctx, snapshot); err != nil {
		otelhelper.SetError(span, err)
		w.logger.ErrorContext(ctx, "Failed to store new workflow", "workflow_id", s.id, "error", err)

		return nil, fmt.Errorf("failed to create workflow: %w", err)
	}

	s.createdAt = snapshot.CreatedAt

	w.mu.Lock()
	w.open[s.id] = s
	w.mu.Unlock()

	span.SetAttributes(attribute.String(otelhelper.WorkflowIDKey, s.id))
	w.logger.InfoContext(ctx, "Workflow created", "workflow_id", s.id, "name", s.name)
	w.record("create", nil)

	return snapshot, nil
}

// Get returns the current state of a workflow, including unsaved edits.
func (w *Workflow) Get(ctx context.Context, id string) (*models.Snapshot, error) {
	ctx, span := otelhelper.StartSpan(ctx, w.tracer, "workflow.get", attribute.String(otelhelper.WorkflowIDKey, id))
	defer span.End()

	var snapshot *models.Snapshot

	err := w.edit(ctx, id, func(s *session) error {
		var err error

		snapshot, err = s.snapshot()

		return err
	})
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	return snapshot, nil
}

// ListWorkflowsRequest contains options for listing workflows.
type ListWorkflowsRequest struct {
	Limit     int
	Offset    int
	SortBy    string
	SortOrder string
}

// ListWorkflowsResponse contains the result of listing workflows.
type ListWorkflowsResponse struct {
	Workflows   []*models.Snapshot `json:"workflows"`
	TotalCount  int64              `json:"total_count"`
	HasNextPage bool               `json:"has_next_page"`
}

// List returns stored workflows. Unsaved edits are not reflected.
func (w *Workflow) List(ctx context.Context, req ListWorkflowsRequest) (*ListWorkflowsResponse, error) {
	ctx, span := otelhelper.StartSpan(ctx, w.tracer, "workflow.list")
	defer span.End()

	result, err := w.persistence.ListWorkflows(ctx, persistence.ListWorkflowsOptions{
		Limit:     req.Limit,
		Offset:    req.Offset,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		if persistence.IsInvalidSortField(err) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSortField, err)
		}

		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}

	return &ListWorkflowsResponse{
		Workflows:   result.Workflows,
		TotalCount:  result.TotalCount,
		HasNextPage: result.HasNextPage,
	}, nil
}

// Delete removes a workflow from storage and drops any unsaved edits.
func (w *Workflow) Delete(ctx context.Context, id string) error {
	ctx, span := otelhelper.StartSpan(ctx, w.tracer, "workflow.delete", attribute.String(otelhelper.WorkflowIDKey, id))
	defer span.End()

	s := w.claim(id)

	err := w.persistence.DeleteWorkflow(ctx, id)
	if err == nil || s.store == nil {
		s.detached = true

		w.mu.Lock()
		if w.open[id] == s {
			delete(w.open, id)
		}
		w.mu.Unlock()
	}

	s.mu.Unlock()
	w.record("delete", err)

	if err != nil {
		otelhelper.SetError(span, err)

		return err
	}

	w.logger.InfoContext(ctx, "Workflow deleted", "workflow_id", id)

	return nil
}

// claim returns the open session for id with its lock held, so edits in
// flight finish before a delete goes ahead. When nothing is open a locked
// placeholder takes the slot until the delete is done.
func (w *Workflow) claim(id string) *session {
	w.mu.Lock()

	w.deletes++

	s, ok := w.open[id]
	if !ok {
		s = &session{id: id}
		s.mu.Lock()
		w.open[id] = s
	}

	w.mu.Unlock()

	if ok {
		s.mu.Lock()
	}

	return s
}

// session returns the open session for id, loading it from storage on
// first use. Stored snapshots go through graph.Load, so a snapshot that
// breaks the graph invariants is refused here. Loading happens without the
// service lock; a delete that starts meanwhile discards the load.
func (w *Workflow) session(ctx context.Context, id string) (*session, error) {
	for {
		w.mu.Lock()
		if s, ok := w.open[id]; ok {
			w.mu.Unlock()

			return s, nil
		}

		deletes := w.deletes
		w.mu.Unlock()

		loaded, err := w.load(ctx, id)
		if err != nil {
			return nil, err
		}

		w.mu.Lock()

		if s, ok := w.open[id]; ok {
			w.mu.Unlock()

			return s, nil
		}

		if w.deletes != deletes {
			w.mu.Unlock()

			continue
		}

		w.open[id] = loaded
		w.mu.Unlock()

		w.logger.DebugContext(ctx, "Workflow loaded", "workflow_id", id)

		return loaded, nil
	}
}

func (w *Workflow) load(ctx context.Context, id string) (*session, error) {
	snapshot, err := w.persistence.WorkflowByID(ctx, id)
	if err != nil {
		return nil, err
	}

	store, err := graph.Load(snapshot, w.storeOptions()...)
	if err != nil {
		w.logger.ErrorContext(ctx, "Stored workflow is corrupt", "workflow_id", id, "error", err)

		return nil, fmt.Errorf("failed to load workflow %s: %w", id, err)
	}

	return &session{
		id:        snapshot.ID,
		name:      snapshot.Name,
		createdAt: snapshot.CreatedAt,
		store:     store,
	}, nil
}

// edit runs fn with the session for id locked. A session detached by a
// concurrent delete is looked up again, which then finds nothing.
func (w *Workflow) edit(ctx context.Context, id string, fn func(s *session) error) error {
	for {
		s, err := w.session(ctx, id)
		if err != nil {
			return err
		}

		s.mu.Lock()

		if s.detached {
			s.mu.Unlock()

			continue
		}

		err = fn(s)
		s.mu.Unlock()

		return err
	}
}

func (w *Workflow) newStore() *graph.Store {
	return graph.NewStore(w.storeOptions()...)
}

func (w *Workflow) storeOptions() []graph.Option {
	return []graph.Option{graph.WithIDGenerator(w.newID), graph.WithValidator(w.validate)}
}

func (s *session) snapshot() (*models.Snapshot, error) {
	snapshot, err := s.store.Snapshot(s.id, s.name)
	if err != nil {
		return nil, err
	}

	snapshot.CreatedAt = s.createdAt

	return snapshot, nil
}

// publish sends an event for an edit that was already applied. A failed
// publish is logged and does not undo the edit.
func (w *Workflow) publish(ctx context.Context, workflowID string, event eventbus.Event) {
	if w.publisher == nil {
		return
	}

	if err := w.publisher.Publish(ctx, workflowID, event); err != nil {
		w.logger.ErrorContext(ctx, "Failed to publish event",
			"workflow_id", workflowID,
			"event_type", event.GetType(),
			"error", err)
	}
}

func (w *Workflow) record(operation string, err error) {
	if w.metrics != nil {
		w.metrics.RecordOperation(operation, err)
	}
}
