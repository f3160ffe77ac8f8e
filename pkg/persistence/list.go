package persistence

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dukex/flowcanvas/pkg/models"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Normalize fills in list defaults and rejects sort fields outside the allowlist.
func (o ListWorkflowsOptions) Normalize() (ListWorkflowsOptions, error) {
	if o.Limit <= 0 || o.Limit > MaxListLimit {
		o.Limit = DefaultListLimit
	}

	if o.Offset < 0 {
		o.Offset = 0
	}

	if o.SortBy == "" {
		o.SortBy = "created_at"
	}

	if o.SortOrder == "" {
		o.SortOrder = "desc"
	}

	switch o.SortBy {
	case "created_at", "updated_at", "name":
	default:
		return o, fmt.Errorf("%w: %s", ErrInvalidSortField, o.SortBy)
	}

	if o.SortOrder != "asc" && o.SortOrder != "desc" {
		return o, fmt.Errorf("%w: order %s", ErrInvalidSortField, o.SortOrder)
	}

	return o, nil
}

// Paginate sorts and slices snapshots held in memory. Backends without a
// query language (file, redis) share it.
func Paginate(snapshots []*models.Snapshot, opts ListWorkflowsOptions) (*WorkflowListResult, error) {
	opts, err := opts.Normalize()
	if err != nil {
		return nil, err
	}

	sort.SliceStable(snapshots, func(i, j int) bool {
		a, b := snapshots[i], snapshots[j]
		if opts.SortOrder == "desc" {
			a, b = b, a
		}

		switch opts.SortBy {
		case "name":
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		case "updated_at":
			return a.UpdatedAt.Before(b.UpdatedAt)
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	})

	total := int64(len(snapshots))

	if opts.Offset >= len(snapshots) {
		return &WorkflowListResult{Workflows: make([]*models.Snapshot, 0), TotalCount: total}, nil
	}

	end := min(opts.Offset+opts.Limit, len(snapshots))

	return &WorkflowListResult{
		Workflows:   snapshots[opts.Offset:end],
		TotalCount:  total,
		HasNextPage: end < len(snapshots),
	}, nil
}
