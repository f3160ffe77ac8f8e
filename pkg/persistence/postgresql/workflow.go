package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukex/flowcanvas/pkg/models"
	"github.com/dukex/flowcanvas/pkg/persistence"
)

// sortColumns maps list sort fields to SQL expressions. Only these ever reach
// the ORDER BY clause.
var sortColumns = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"name":       "LOWER(name)",
}

// WorkflowRepository handles workflow snapshot database operations.
type WorkflowRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewWorkflowRepository creates a new workflow repository.
func NewWorkflowRepository(db *sql.DB, logger *slog.Logger) *WorkflowRepository {
	return &WorkflowRepository{db: db, logger: logger}
}

// ListWorkflows returns a page of live workflows.
func (r *WorkflowRepository) ListWorkflows(ctx context.Context, opts persistence.ListWorkflowsOptions) (*persistence.WorkflowListResult, error) {
	opts, err := opts.Normalize()
	if err != nil {
		return nil, err
	}

	var total int64

	err = r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM workflows WHERE deleted_at IS NULL").Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("failed to count workflows: %w", err)
	}

	direction := "DESC"
	if opts.SortOrder == "asc" {
		direction = "ASC"
	}

	query := fmt.Sprintf(`
		SELECT snapshot
		FROM workflows
		WHERE deleted_at IS NULL
		ORDER BY %s %s, id
		LIMIT $1 OFFSET $2
	`, sortColumns[opts.SortBy], direction)

	rows, err := r.db.QueryContext(ctx, query, opts.Limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query workflows: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	workflows := make([]*models.Snapshot, 0)

	for rows.Next() {
		var document []byte
		if err := rows.Scan(&document); err != nil {
			return nil, fmt.Errorf("failed to scan workflow: %w", err)
		}

		snapshot, err := models.DecodeSnapshot(document)
		if err != nil {
			return nil, fmt.Errorf("failed to decode workflow: %w", err)
		}

		workflows = append(workflows, snapshot)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating workflows: %w", err)
	}

	return &persistence.WorkflowListResult{
		Workflows:   workflows,
		TotalCount:  total,
		HasNextPage: int64(opts.Offset+len(workflows)) < total,
	}, nil
}

// GetByID returns a live workflow snapshot.
func (r *WorkflowRepository) GetByID(ctx context.Context, id string) (*models.Snapshot, error) {
	var document []byte

	err := r.db.QueryRowContext(ctx,
		"SELECT snapshot FROM workflows WHERE id = $1 AND deleted_at IS NULL", id,
	).Scan(&document)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewWorkflowError("GetByID", id, persistence.ErrWorkflowNotFound)
		}

		return nil, fmt.Errorf("failed to fetch workflow %s: %w", id, err)
	}

	snapshot, err := models.DecodeSnapshot(document)
	if err != nil {
		return nil, persistence.NewWorkflowError("GetByID", id, err)
	}

	return snapshot, nil
}

// Save upserts a workflow snapshot, stamping its timestamps. Saving a
// soft-deleted ID brings it back.
func (r *WorkflowRepository) Save(ctx context.Context, snapshot *models.Snapshot) error {
	now := time.Now().UTC()

	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = now
	}

	snapshot.UpdatedAt = now

	document, err := snapshot.EncodeJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal workflow %s: %w", snapshot.ID, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO workflows (id, name, snapshot, node_count, edge_count, created_at, updated_at, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULL)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			snapshot = EXCLUDED.snapshot,
			node_count = EXCLUDED.node_count,
			edge_count = EXCLUDED.edge_count,
			updated_at = EXCLUDED.updated_at,
			deleted_at = NULL
	`, snapshot.ID, snapshot.Name, string(document), len(snapshot.Nodes), len(snapshot.Edges), snapshot.CreatedAt, snapshot.UpdatedAt)
	if err != nil {
		return persistence.NewWorkflowError("Save", snapshot.ID, err)
	}

	return nil
}

// Delete soft deletes a workflow.
func (r *WorkflowRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE workflows SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL", id, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to delete workflow %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete workflow %s: %w", id, err)
	}

	if affected == 0 {
		return persistence.NewWorkflowError("Delete", id, persistence.ErrWorkflowNotFound)
	}

	return nil
}
