// Package persistence provides the storage abstraction for workflow snapshots.
package persistence

import (
	"context"

	"github.com/dukex/flowcanvas/pkg/models"
)

// Persistence stores workflow snapshots. Implementations never trust what
// they read back: callers rebuild graphs through graph.Load.
type Persistence interface {
	ListWorkflows(ctx context.Context, opts ListWorkflowsOptions) (*WorkflowListResult, error)
	SaveWorkflow(ctx context.Context, snapshot *models.Snapshot) error
	WorkflowByID(ctx context.Context, id string) (*models.Snapshot, error)
	DeleteWorkflow(ctx context.Context, id string) error
	HealthCheck(ctx context.Context) error

	Close(ctx context.Context) error
}

// ListWorkflowsOptions controls pagination and ordering of ListWorkflows.
type ListWorkflowsOptions struct {
	Limit     int    `query:"limit"      validate:"omitempty,min=1,max=100"`
	Offset    int    `query:"offset"     validate:"omitempty,min=0"`
	SortBy    string `query:"sort_by"    validate:"omitempty,oneof=created_at updated_at name"`
	SortOrder string `query:"sort_order" validate:"omitempty,oneof=asc desc"`
}

// WorkflowListResult is one page of workflows.
type WorkflowListResult struct {
	Workflows   []*models.Snapshot `json:"workflows"`
	TotalCount  int64              `json:"total_count"`
	HasNextPage bool               `json:"has_next_page"`
}
