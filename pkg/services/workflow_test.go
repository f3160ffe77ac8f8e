package services_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/dukex/flowcanvas/pkg/events"
	"github.com/dukex/flowcanvas/pkg/graph"
	"github.com/dukex/flowcanvas/pkg/metrics"
	"github.com/dukex/flowcanvas/pkg/mocks"
	"github.com/dukex/flowcanvas/pkg/models"
	"github.com/dukex/flowcanvas/pkg/persistence"
	"github.com/dukex/flowcanvas/pkg/persistence/file"
	"github.com/dukex/flowcanvas/pkg/rules"
	"github.com/dukex/flowcanvas/pkg/services"
	"github.com/dukex/flowcanvas/pkg/testutil"
	"github.com/dukex/flowcanvas/pkg/validation"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	service     *services.Workflow
	bus         *mocks.MockEventBus
	persistence persistence.Persistence
}

func newFixture(t *testing.T, opts ...services.Option) *fixture {
	t.Helper()

	store := file.NewPersistence(t.TempDir())

	bus := &mocks.MockEventBus{}
	bus.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	opts = append([]services.Option{
		services.WithEventPublisher(bus),
		services.WithIDGenerator(testutil.SequentialIDs("id")),
		services.WithLogger(slog.New(slog.DiscardHandler)),
		services.WithMetrics(metrics.NewCollector("flowcanvas_test", prometheus.NewRegistry())),
	}, opts...)

	return &fixture{
		service:     services.NewWorkflow(store, opts...),
		bus:         bus,
		persistence: store,
	}
}

func (f *fixture) create(t *testing.T) string {
	t.Helper()

	created, err := f.service.Create(t.Context(), services.CreateWorkflowRequest{Name: "Research digest"})
	require.NoError(t, err)

	return created.ID
}

func (f *fixture) addNode(t *testing.T, workflowID, category, subtype, label string) *models.NodeInstance {
	t.Helper()

	node, err := f.service.AddNode(t.Context(), workflowID, services.AddNodeRequest{
		Category: category,
		Subtype:  subtype,
		Label:    label,
	})
	require.NoError(t, err)

	return node
}

func (f *fixture) connect(t *testing.T, workflowID string, source *models.NodeInstance, sourcePort string, target *models.NodeInstance, targetPort string) *models.Edge {
	t.Helper()

	edge, err := f.service.AddEdge(t.Context(), workflowID, graph.Candidate{
		SourceNodeID: source.ID, SourcePortID: sourcePort,
		TargetNodeID: target.ID, TargetPortID: targetPort,
	})
	require.NoError(t, err)

	return edge
}

// linear builds trigger -> researcher -> response.
func (f *fixture) linear(t *testing.T, workflowID string) (trigger, agent, output *models.NodeInstance) {
	t.Helper()

	trigger = f.addNode(t, workflowID, "trigger", "manual", "Start")
	agent = f.addNode(t, workflowID, "agent", "researcher", "Research")
	output = f.addNode(t, workflowID, "output", "response", "Reply")

	f.connect(t, workflowID, trigger, "trigger", agent, "in")
	f.connect(t, workflowID, agent, "done", output, "in")

	return trigger, agent, output
}

func TestWorkflow_Create(t *testing.T) {
	f := newFixture(t)

	created, err := f.service.Create(t.Context(), services.CreateWorkflowRequest{Name: "  Research digest  "})
	require.NoError(t, err)

	assert.Equal(t, "id-1", created.ID)
	assert.Equal(t, "Research digest", created.Name)
	assert.Empty(t, created.Nodes)
	assert.False(t, created.CreatedAt.IsZero())

	stored, err := f.persistence.WorkflowByID(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Research digest", stored.Name)
}

func TestWorkflow_Create_NameRequired(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Create(t.Context(), services.CreateWorkflowRequest{Name: "   "})
	require.ErrorIs(t, err, services.ErrWorkflowNameRequired)
	assert.True(t, services.IsValidationError(err))
}

func TestWorkflow_Get_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Get(t.Context(), "missing")
	require.Error(t, err)
	assert.True(t, services.IsNotFoundError(err))
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestWorkflow_AddNode(t *testing.T) {
	f := newFixture(t)
	workflowID := f.create(t)

	node := f.addNode(t, workflowID, "agent", "researcher", "")

	assert.Equal(t, models.CategoryAgent, node.Category())
	assert.Equal(t, "Researcher", node.Label)
	assert.NotEmpty(t, node.Inputs)
	assert.NotEmpty(t, node.Outputs)

	snapshot, err := f.service.Get(t.Context(), workflowID)
	require.NoError(t, err)
	require.Len(t, snapshot.Nodes, 1)
	assert.Equal(t, node.ID, snapshot.Nodes[0].ID)

	assert.Contains(t, f.bus.PublishedTypes(), events.NodeAddedEvent)
}

func TestWorkflow_AddNode_SwitchCases(t *testing.T) {
	f := newFixture(t)
	workflowID := f.create(t)

	node, err := f.service.AddNode(t.Context(), workflowID, services.AddNodeRequest{
		Category: "logic",
		Subtype:  "switch",
		Cases:    4,
	})
	require.NoError(t, err)

	var outputs []string
	for _, port := range node.Outputs {
		outputs = append(outputs, port.ID)
	}

	assert.Equal(t, []string{"case-1", "case-2", "case-3", "case-4", "default"}, outputs)
}

func TestWorkflow_AddNode_InvalidRequests(t *testing.T) {
	tests := []struct {
		name string
		req  services.AddNodeRequest
	}{
		{name: "unknown subtype", req: services.AddNodeRequest{Category: "agent", Subtype: "painter"}},
		{name: "unknown category", req: services.AddNodeRequest{Category: "robot", Subtype: "writer"}},
		{name: "missing subtype", req: services.AddNodeRequest{Category: "agent"}},
		{name: "too few cases", req: services.AddNodeRequest{Category: "logic", Subtype: "switch", Cases: 1}},
		{
			name: "config out of range",
			req: services.AddNodeRequest{
				Category: "agent", Subtype: "writer",
				Config: map[string]any{"temperature": 5},
			},
		},
		{
			name: "config of the wrong type",
			req: services.AddNodeRequest{
				Category: "agent", Subtype: "writer",
				Config: map[string]any{"temperature": "hot"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			workflowID := f.create(t)

			_, err := f.service.AddNode(t.Context(), workflowID, tt.req)
			require.Error(t, err)
			assert.True(t, services.IsValidationError(err), "got %v", err)

			snapshot, err := f.service.Get(t.Context(), workflowID)
			require.NoError(t, err)
			assert.Empty(t, snapshot.Nodes)
		})
	}
}

func TestWorkflow_AddEdge_Rejected(t *testing.T) {
	f := newFixture(t)
	workflowID := f.create(t)

	trigger := f.addNode(t, workflowID, "trigger", "manual", "Start")
	agent := f.addNode(t, workflowID, "agent", "researcher", "Research")

	_, err := f.service.AddEdge(t.Context(), workflowID, graph.Candidate{
		SourceNodeID: trigger.ID, SourcePortID: "data",
		TargetNodeID: agent.ID, TargetPortID: "in",
	})
	require.Error(t, err)

	rejection, ok := rules.IsRejection(err)
	require.True(t, ok)
	assert.Equal(t, rules.ReasonKindMismatch, rejection.Reason)
	assert.Contains(t, rejection.Message, "Start")
	assert.Contains(t, rejection.Message, "Research")

	snapshot, err := f.service.Get(t.Context(), workflowID)
	require.NoError(t, err)
	assert.Empty(t, snapshot.Edges)

	assert.Contains(t, f.bus.PublishedTypes(), events.EdgeRejectedEvent)
	assert.NotContains(t, f.bus.PublishedTypes(), events.EdgeAddedEvent)
}

func TestWorkflow_RemoveNode_Cascades(t *testing.T) {
	f := newFixture(t)
	workflowID := f.create(t)

	_, agent, _ := f.linear(t, workflowID)

	require.NoError(t, f.service.Select(t.Context(), workflowID, models.Selection{NodeID: agent.ID}))

	removed, err := f.service.RemoveNode(t.Context(), workflowID, agent.ID)
	require.NoError(t, err)
	assert.Len(t, removed, 2)

	snapshot, err := f.service.Get(t.Context(), workflowID)
	require.NoError(t, err)
	assert.Len(t, snapshot.Nodes, 2)
	assert.Empty(t, snapshot.Edges)
	assert.True(t, snapshot.Selection.Empty())

	_, err = f.service.RemoveNode(t.Context(), workflowID, agent.ID)
	assert.True(t, graph.IsNodeNotFound(err))
}

func TestWorkflow_RemoveEdge(t *testing.T) {
	f := newFixture(t)
	workflowID := f.create(t)

	trigger := f.addNode(t, workflowID, "trigger", "manual", "Start")
	agent := f.addNode(t, workflowID, "agent", "researcher", "Research")
	edge := f.connect(t, workflowID, trigger, "trigger", agent, "in")

	require.NoError(t, f.service.RemoveEdge(t.Context(), workflowID, edge.ID))
	assert.True(t, graph.IsEdgeNotFound(f.service.RemoveEdge(t.Context(), workflowID, edge.ID)))
	assert.Contains(t, f.bus.PublishedTypes(), events.EdgeRemovedEvent)
}

func TestWorkflow_UpdateNode(t *testing.T) {
	f := newFixture(t)
	workflowID := f.create(t)

	node := f.addNode(t, workflowID, "agent", "writer", "Draft")

	moved, err := f.service.MoveNode(t.Context(), workflowID, node.ID, models.Position{X: 40, Y: 80})
	require.NoError(t, err)
	assert.Equal(t, models.Position{X: 40, Y: 80}, moved.Position)

	renamed, err := f.service.RenameNode(t.Context(), workflowID, node.ID, "Final draft")
	require.NoError(t, err)
	assert.Equal(t, "Final draft", renamed.Label)

	configured, err := f.service.UpdateNodeConfig(t.Context(), workflowID, node.ID, map[string]any{
		"model":       "large",
		"temperature": 0.5,
	})
	require.NoError(t, err)
	assert.Equal(t, &models.AgentConfig{Model: "large", Temperature: 0.5}, configured.Config)

	updates := 0

	for _, eventType := range f.bus.PublishedTypes() {
		if eventType == events.NodeUpdatedEvent {
			updates++
		}
	}

	assert.Equal(t, 3, updates)
}

func TestWorkflow_UpdateNode_AllOrNothing(t *testing.T) {
	f := newFixture(t)
	workflowID := f.create(t)

	node := f.addNode(t, workflowID, "agent", "writer", "Draft")
	label := "Renamed"

	_, err := f.service.UpdateNode(t.Context(), workflowID, node.ID, services.UpdateNodeRequest{
		Label:  &label,
		Config: map[string]any{"temperature": 9},
	})
	require.Error(t, err)
	assert.True(t, services.IsValidationError(err))

	snapshot, err := f.service.Get(t.Context(), workflowID)
	require.NoError(t, err)
	assert.Equal(t, "Draft", snapshot.Nodes[0].Label)
}

func TestWorkflow_UpdateNode_Errors(t *testing.T) {
	f := newFixture(t)
	workflowID := f.create(t)

	node := f.addNode(t, workflowID, "agent", "writer", "Draft")

	_, err := f.service.UpdateNode(t.Context(), workflowID, node.ID, services.UpdateNodeRequest{})
	assert.True(t, services.IsValidationError(err))

	_, err = f.service.RenameNode(t.Context(), workflowID, node.ID, "")
	assert.True(t, services.IsValidationError(err))

	_, err = f.service.MoveNode(t.Context(), workflowID, "missing", models.Position{})
	assert.True(t, services.IsNotFoundError(err))
}

func TestWorkflow_Select(t *testing.T) {
	f := newFixture(t)
	workflowID := f.create(t)

	node := f.addNode(t, workflowID, "agent", "writer", "Draft")

	require.NoError(t, f.service.Select(t.Context(), workflowID, models.Selection{NodeID: node.ID}))

	snapshot, err := f.service.Get(t.Context(), workflowID)
	require.NoError(t, err)
	assert.Equal(t, node.ID, snapshot.Selection.NodeID)

	err = f.service.Select(t.Context(), workflowID, models.Selection{NodeID: node.ID, EdgeID: "e"})
	assert.True(t, services.IsValidationError(err))

	err = f.service.Select(t.Context(), workflowID, models.Selection{EdgeID: "missing"})
	assert.True(t, services.IsNotFoundError(err))

	assert.Contains(t, f.bus.PublishedTypes(), events.SelectionChangedEvent)
}

func TestWorkflow_Validate(t *testing.T) {
	f := newFixture(t)
	workflowID := f.create(t)

	problems, err := f.service.Validate(t.Context(), workflowID)
	require.NoError(t, err)
	require.Len(t, problems, 1)
	assert.Equal(t, validation.CodeEmptyWorkflow, problems[0].Code)

	f.linear(t, workflowID)

	problems, err = f.service.Validate(t.Context(), workflowID)
	require.NoError(t, err)
	assert.Empty(t, problems)

	assert.Contains(t, f.bus.PublishedTypes(), events.WorkflowValidatedEvent)
}

func TestWorkflow_Save_InvalidDraft(t *testing.T) {
	f := newFixture(t)
	workflowID := f.create(t)

	f.addNode(t, workflowID, "agent", "writer", "Draft")

	result, err := f.service.Save(t.Context(), workflowID)
	require.NoError(t, err)
	assert.True(t, validation.HasErrors(result.Problems))
	assert.Len(t, result.Workflow.Nodes, 1)

	stored, err := f.persistence.WorkflowByID(t.Context(), workflowID)
	require.NoError(t, err)
	assert.Len(t, stored.Nodes, 1)

	assert.Contains(t, f.bus.PublishedTypes(), events.WorkflowSavedEvent)
}

func TestWorkflow_Save_ReloadsInAnotherService(t *testing.T) {
	f := newFixture(t)
	workflowID := f.create(t)

	trigger, agent, output := f.linear(t, workflowID)

	_, err := f.service.Save(t.Context(), workflowID)
	require.NoError(t, err)

	// An edit after saving stays in memory only.
	f.addNode(t, workflowID, "data", "transform", "Unsaved")

	other := services.NewWorkflow(f.persistence, services.WithLogger(slog.New(slog.DiscardHandler)))

	snapshot, err := other.Get(t.Context(), workflowID)
	require.NoError(t, err)

	var ids []string
	for _, node := range snapshot.Nodes {
		ids = append(ids, node.ID)
	}

	assert.Equal(t, []string{trigger.ID, agent.ID, output.ID}, ids)
	assert.Len(t, snapshot.Edges, 2)

	problems, err := other.Validate(t.Context(), workflowID)
	require.NoError(t, err)
	assert.Empty(t, problems)
}

func TestWorkflow_Run(t *testing.T) {
	f := newFixture(t)
	workflowID := f.create(t)

	f.linear(t, workflowID)

	request, err := f.service.Run(t.Context(), workflowID)
	require.NoError(t, err)
	assert.Equal(t, workflowID, request.WorkflowID)
	assert.NotEmpty(t, request.RunID)
	assert.Contains(t, f.bus.PublishedTypes(), events.WorkflowRunRequestedEvent)
}

func TestWorkflow_Run_BlockedByWarning(t *testing.T) {
	f := newFixture(t)
	workflowID := f.create(t)

	trigger := f.addNode(t, workflowID, "trigger", "manual", "Start")
	agent := f.addNode(t, workflowID, "agent", "researcher", "Research")
	f.connect(t, workflowID, trigger, "trigger", agent, "in")

	_, err := f.service.Run(t.Context(), workflowID)
	require.ErrorIs(t, err, services.ErrRunBlocked)

	blocked, ok := services.IsRunBlocked(err)
	require.True(t, ok)
	require.Len(t, blocked.Problems, 1)
	assert.Equal(t, validation.CodeNoOutput, blocked.Problems[0].Code)
	assert.Equal(t, validation.SeverityWarning, blocked.Problems[0].Severity)

	assert.NotContains(t, f.bus.PublishedTypes(), events.WorkflowRunRequestedEvent)
}

func TestWorkflow_Run_MultipleTriggersPolicy(t *testing.T) {
	build := func(t *testing.T, f *fixture) string {
		t.Helper()

		workflowID := f.create(t)

		_, agent, _ := f.linear(t, workflowID)
		second := f.addNode(t, workflowID, "trigger", "webhook", "Hook")
		f.connect(t, workflowID, second, "trigger", agent, "in")

		return workflowID
	}

	strict := newFixture(t)
	_, err := strict.service.Run(t.Context(), build(t, strict))
	require.ErrorIs(t, err, services.ErrRunBlocked)

	policy := validation.DefaultPolicy()
	policy.AllowMultipleTriggers = true

	relaxed := newFixture(t, services.WithPolicy(policy))
	_, err = relaxed.service.Run(t.Context(), build(t, relaxed))
	require.NoError(t, err)
}

func TestWorkflow_ListAndDelete(t *testing.T) {
	f := newFixture(t)

	first := f.create(t)
	second := f.create(t)

	result, err := f.service.List(t.Context(), services.ListWorkflowsRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.TotalCount)

	require.NoError(t, f.service.Delete(t.Context(), first))

	_, err = f.service.Get(t.Context(), first)
	assert.True(t, services.IsNotFoundError(err))

	result, err = f.service.List(t.Context(), services.ListWorkflowsRequest{})
	require.NoError(t, err)
	require.Len(t, result.Workflows, 1)
	assert.Equal(t, second, result.Workflows[0].ID)

	_, err = f.service.List(t.Context(), services.ListWorkflowsRequest{SortBy: "owner"})
	assert.ErrorIs(t, err, services.ErrInvalidSortField)

	assert.True(t, services.IsNotFoundError(f.service.Delete(t.Context(), first)))
}

// gatedPersistence holds a save or a load of one workflow until released.
type gatedPersistence struct {
	persistence.Persistence

	saveID  string
	loadID  string
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGatedPersistence(t *testing.T) *gatedPersistence {
	return &gatedPersistence{
		Persistence: file.NewPersistence(t.TempDir()),
		entered:     make(chan struct{}),
		release:     make(chan struct{}),
	}
}

func (g *gatedPersistence) hold() {
	g.once.Do(func() { close(g.entered) })
	<-g.release
}

func (g *gatedPersistence) SaveWorkflow(ctx context.Context, snapshot *models.Snapshot) error {
	if snapshot.ID == g.saveID {
		g.hold()
	}

	return g.Persistence.SaveWorkflow(ctx, snapshot)
}

func (g *gatedPersistence) WorkflowByID(ctx context.Context, id string) (*models.Snapshot, error) {
	if id == g.loadID {
		g.hold()
	}

	return g.Persistence.WorkflowByID(ctx, id)
}

func TestWorkflow_DeleteWaitsForSave(t *testing.T) {
	store := newGatedPersistence(t)
	service := services.NewWorkflow(store, services.WithLogger(slog.New(slog.DiscardHandler)))

	created, err := service.Create(t.Context(), services.CreateWorkflowRequest{Name: "Short lived"})
	require.NoError(t, err)

	store.saveID = created.ID

	saved := make(chan error, 1)
	go func() {
		_, err := service.Save(t.Context(), created.ID)
		saved <- err
	}()

	<-store.entered

	deleted := make(chan error, 1)
	go func() {
		deleted <- service.Delete(t.Context(), created.ID)
	}()

	select {
	case err := <-deleted:
		t.Fatalf("delete finished while a save was in flight: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	close(store.release)

	require.NoError(t, <-saved)
	require.NoError(t, <-deleted)

	_, err = store.WorkflowByID(t.Context(), created.ID)
	assert.True(t, persistence.IsWorkflowNotFound(err))

	_, err = service.Save(t.Context(), created.ID)
	assert.True(t, services.IsNotFoundError(err))

	_, err = service.Get(t.Context(), created.ID)
	assert.True(t, services.IsNotFoundError(err))
}

func TestWorkflow_SlowLoadDoesNotBlockOtherWorkflows(t *testing.T) {
	store := newGatedPersistence(t)
	writer := services.NewWorkflow(store, services.WithLogger(slog.New(slog.DiscardHandler)))

	slow, err := writer.Create(t.Context(), services.CreateWorkflowRequest{Name: "Slow"})
	require.NoError(t, err)

	fast, err := writer.Create(t.Context(), services.CreateWorkflowRequest{Name: "Fast"})
	require.NoError(t, err)

	store.loadID = slow.ID
	reader := services.NewWorkflow(store, services.WithLogger(slog.New(slog.DiscardHandler)))

	loaded := make(chan error, 1)
	go func() {
		_, err := reader.Get(t.Context(), slow.ID)
		loaded <- err
	}()

	<-store.entered

	got := make(chan error, 1)
	go func() {
		snapshot, err := reader.Get(t.Context(), fast.ID)
		if err == nil && snapshot.Name != "Fast" {
			err = fmt.Errorf("unexpected workflow %q", snapshot.Name)
		}
		got <- err
	}()

	select {
	case err := <-got:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Error("loading one workflow blocked another")
	}

	close(store.release)
	require.NoError(t, <-loaded)
}

func TestWorkflow_CorruptSnapshotIsRefused(t *testing.T) {
	store := &mocks.MockPersistence{}
	store.On("WorkflowByID", mock.Anything, "wf-1").Return(&models.Snapshot{
		ID:   "wf-1",
		Name: "Broken",
		Edges: []*models.Edge{{
			ID: "e-1", SourceNodeID: "ghost", SourcePortID: "out",
			TargetNodeID: "phantom", TargetPortID: "in",
		}},
	}, nil)

	service := services.NewWorkflow(store, services.WithLogger(slog.New(slog.DiscardHandler)))

	_, err := service.Get(t.Context(), "wf-1")
	require.Error(t, err)
	assert.True(t, graph.IsCorruptSnapshot(err))
	store.AssertExpectations(t)
}

func TestWorkflow_PublishFailureKeepsEdit(t *testing.T) {
	bus := &mocks.MockEventBus{}
	bus.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down"))

	service := services.NewWorkflow(file.NewPersistence(t.TempDir()),
		services.WithEventPublisher(bus),
		services.WithLogger(slog.New(slog.DiscardHandler)))

	created, err := service.Create(t.Context(), services.CreateWorkflowRequest{Name: "Offline"})
	require.NoError(t, err)

	_, err = service.AddNode(t.Context(), created.ID, services.AddNodeRequest{Category: "agent", Subtype: "coder"})
	require.NoError(t, err)

	snapshot, err := service.Get(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Len(t, snapshot.Nodes, 1)
}

func TestWorkflow_ConcurrentEdits(t *testing.T) {
	f := newFixture(t)
	workflowID := f.create(t)

	const writers = 16

	var wg sync.WaitGroup

	for i := range writers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := f.service.AddNode(t.Context(), workflowID, services.AddNodeRequest{
				Category: "agent",
				Subtype:  "writer",
				Label:    fmt.Sprintf("Writer %d", i),
			})
			assert.NoError(t, err)
		}()
	}

	wg.Wait()

	snapshot, err := f.service.Get(t.Context(), workflowID)
	require.NoError(t, err)
	assert.Len(t, snapshot.Nodes, writers)
}

func TestWorkflow_HealthCheck(t *testing.T) {
	store := &mocks.MockPersistence{}
	store.On("HealthCheck", mock.Anything).Return(nil).Once()
	store.On("HealthCheck", mock.Anything).Return(errors.New("disk full")).Once()

	service := services.NewWorkflow(store)

	message, ok := service.HealthCheck(t.Context())
	assert.True(t, ok)
	assert.Equal(t, "Persistence layer is healthy", message)

	message, ok = service.HealthCheck(t.Context())
	assert.False(t, ok)
	assert.Contains(t, message, "disk full")
}
