package file

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/dukex/flowcanvas/pkg/models"
	"github.com/dukex/flowcanvas/pkg/persistence"
)

// WorkflowRepository handles workflow snapshot file operations.
type WorkflowRepository struct {
	root string // File system root for storing workflows
}

// NewWorkflowRepository creates a new workflow repository.
func NewWorkflowRepository(root string) *WorkflowRepository {
	return &WorkflowRepository{root: root}
}

// ListWorkflows returns a sorted page of workflows, read from disk on every call.
func (wr *WorkflowRepository) ListWorkflows(ctx context.Context, opts persistence.ListWorkflowsOptions) (*persistence.WorkflowListResult, error) {
	root := os.DirFS(wr.dir())

	jsonFiles, err := fs.Glob(root, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list workflow files: %w", err)
	}

	snapshots := make([]*models.Snapshot, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		workflowID := strings.TrimSuffix(file, ".json")

		snapshot, err := wr.GetByID(ctx, workflowID)
		if err != nil {
			return nil, fmt.Errorf("failed to load workflow %s: %w", workflowID, err)
		}

		snapshots = append(snapshots, snapshot)
	}

	return persistence.Paginate(snapshots, opts)
}

// GetByID retrieves a workflow snapshot by its ID from the file system.
func (wr *WorkflowRepository) GetByID(_ context.Context, workflowID string) (*models.Snapshot, error) {
	body, err := os.ReadFile(wr.file(workflowID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.NewWorkflowError("GetByID", workflowID, persistence.ErrWorkflowNotFound)
		}

		return nil, fmt.Errorf("failed to fetch workflow %s: %w", workflowID, err)
	}

	snapshot, err := models.DecodeSnapshot(body)
	if err != nil {
		return nil, persistence.NewWorkflowError("GetByID", workflowID, err)
	}

	return snapshot, nil
}

// Save writes a workflow snapshot to the file system, stamping its timestamps.
func (wr *WorkflowRepository) Save(_ context.Context, snapshot *models.Snapshot) error {
	err := os.MkdirAll(wr.dir(), 0750)
	if err != nil {
		return fmt.Errorf("failed to create workflows directory: %w", err)
	}

	now := time.Now().UTC()
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = now
	}

	snapshot.UpdatedAt = now

	data, err := snapshot.EncodeJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal workflow %s: %w", snapshot.ID, err)
	}

	return os.WriteFile(wr.file(snapshot.ID), data, 0600)
}

// Delete removes a workflow snapshot by its ID.
func (wr *WorkflowRepository) Delete(_ context.Context, id string) error {
	err := os.Remove(wr.file(id))
	if err != nil && os.IsNotExist(err) {
		return persistence.NewWorkflowError("Delete", id, persistence.ErrWorkflowNotFound)
	}

	if err != nil {
		return fmt.Errorf("failed to delete workflow %s: %w", id, err)
	}

	return nil
}

func (wr *WorkflowRepository) dir() string {
	return path.Join(wr.root, "workflows")
}

// file keeps the snapshot inside the workflows directory whatever the ID holds.
func (wr *WorkflowRepository) file(id string) string {
	return filepath.Join(wr.dir(), filepath.Base(filepath.Clean("/"+id))+".json")
}
