// Package redis provides Redis persistence for workflow snapshots.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/dukex/flowcanvas/pkg/models"
	"github.com/dukex/flowcanvas/pkg/persistence"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "flowcanvas:workflow:"
	indexKey  = "flowcanvas:workflows"
)

// Persistence stores each snapshot as a JSON string under its own key and
// keeps the set of known IDs in an index set.
type Persistence struct {
	client redis.UniversalClient
	logger *slog.Logger
}

// NewPersistence connects to the Redis server named by a redis:// URL.
func NewPersistence(ctx context.Context, logger *slog.Logger, redisURL string) (*Persistence, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(options)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()

		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return NewPersistenceWithClient(logger, client), nil
}

// NewPersistenceWithClient wraps an existing client.
func NewPersistenceWithClient(logger *slog.Logger, client redis.UniversalClient) *Persistence {
	return &Persistence{
		client: client,
		logger: logger.With("module", "redis_persistence"),
	}
}

func workflowKey(id string) string {
	return keyPrefix + id
}

// Close closes the client.
func (p *Persistence) Close(_ context.Context) error {
	if err := p.client.Close(); err != nil {
		return fmt.Errorf("failed to close redis client: %w", err)
	}

	return nil
}

// HealthCheck pings the server.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	if err := p.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}

	return nil
}

// SaveWorkflow writes the snapshot and indexes its ID in one transaction.
func (p *Persistence) SaveWorkflow(ctx context.Context, snapshot *models.Snapshot) error {
	now := time.Now().UTC()
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = now
	}

	snapshot.UpdatedAt = now

	document, err := snapshot.EncodeJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal workflow %s: %w", snapshot.ID, err)
	}

	_, err = p.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, workflowKey(snapshot.ID), document, 0)
		pipe.SAdd(ctx, indexKey, snapshot.ID)

		return nil
	})
	if err != nil {
		return persistence.NewWorkflowError("SaveWorkflow", snapshot.ID, err)
	}

	return nil
}

// WorkflowByID reads one snapshot.
func (p *Persistence) WorkflowByID(ctx context.Context, id string) (*models.Snapshot, error) {
	document, err := p.client.Get(ctx, workflowKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, persistence.NewWorkflowError("WorkflowByID", id, persistence.ErrWorkflowNotFound)
		}

		return nil, fmt.Errorf("failed to fetch workflow %s: %w", id, err)
	}

	snapshot, err := models.DecodeSnapshot(document)
	if err != nil {
		return nil, persistence.NewWorkflowError("WorkflowByID", id, err)
	}

	return snapshot, nil
}

// DeleteWorkflow removes the snapshot and its index entry.
func (p *Persistence) DeleteWorkflow(ctx context.Context, id string) error {
	var deleted *redis.IntCmd

	_, err := p.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		deleted = pipe.Del(ctx, workflowKey(id))
		pipe.SRem(ctx, indexKey, id)

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete workflow %s: %w", id, err)
	}

	if deleted.Val() == 0 {
		return persistence.NewWorkflowError("DeleteWorkflow", id, persistence.ErrWorkflowNotFound)
	}

	return nil
}

// ListWorkflows loads every indexed snapshot and pages through them in
// memory. IDs left in the index without a document are skipped.
func (p *Persistence) ListWorkflows(ctx context.Context, opts persistence.ListWorkflowsOptions) (*persistence.WorkflowListResult, error) {
	if _, err := opts.Normalize(); err != nil {
		return nil, err
	}

	ids, err := p.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list workflow ids: %w", err)
	}

	slices.Sort(ids)

	snapshots := make([]*models.Snapshot, 0, len(ids))
	if len(ids) == 0 {
		return persistence.Paginate(snapshots, opts)
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, workflowKey(id))
	}

	documents, err := p.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load workflows: %w", err)
	}

	for i, document := range documents {
		text, ok := document.(string)
		if !ok {
			p.logger.WarnContext(ctx, "Indexed workflow has no document", "workflow_id", ids[i])

			continue
		}

		snapshot, err := models.DecodeSnapshot([]byte(text))
		if err != nil {
			return nil, fmt.Errorf("failed to decode workflow %s: %w", ids[i], err)
		}

		snapshots = append(snapshots, snapshot)
	}

	return persistence.Paginate(snapshots, opts)
}
