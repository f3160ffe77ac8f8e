package postgresql

import (
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dukex/flowcanvas/pkg/persistence"
	"github.com/dukex/flowcanvas/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepository(t *testing.T) (*WorkflowRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	return NewWorkflowRepository(db, slog.New(slog.DiscardHandler)), mock
}

func TestWorkflowRepository_Save(t *testing.T) {
	repo, mock := newMockRepository(t)

	snapshot, err := testutil.NewLinearCanvas(t).Store.Snapshot("wf-1", "Linear")
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO workflows").
		WithArgs("wf-1", "Linear", sqlmock.AnyArg(), int64(3), int64(2), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Save(t.Context(), snapshot))
	assert.False(t, snapshot.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkflowRepository_GetByID(t *testing.T) {
	repo, mock := newMockRepository(t)

	snapshot, err := testutil.NewLinearCanvas(t).Store.Snapshot("wf-1", "Linear")
	require.NoError(t, err)

	document, err := snapshot.EncodeJSON()
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT snapshot FROM workflows WHERE id = \$1 AND deleted_at IS NULL`).
		WithArgs("wf-1").
		WillReturnRows(sqlmock.NewRows([]string{"snapshot"}).AddRow(document))

	loaded, err := repo.GetByID(t.Context(), "wf-1")
	require.NoError(t, err)
	assert.Equal(t, "Linear", loaded.Name)
	assert.Len(t, loaded.Nodes, 3)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkflowRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("SELECT snapshot FROM workflows").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"snapshot"}))

	_, err := repo.GetByID(t.Context(), "missing")
	require.Error(t, err)
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestWorkflowRepository_GetByID_CorruptDocument(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("SELECT snapshot FROM workflows").
		WithArgs("wf-1").
		WillReturnRows(sqlmock.NewRows([]string{"snapshot"}).AddRow([]byte(`{"id": "wf-1", "nodes": 3}`)))

	_, err := repo.GetByID(t.Context(), "wf-1")
	require.Error(t, err)
	assert.False(t, persistence.IsWorkflowNotFound(err))
}

func TestWorkflowRepository_Delete(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		notFound bool
	}{
		{name: "live workflow", affected: 1},
		{name: "missing or already deleted", affected: 0, notFound: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)

			mock.ExpectExec(`UPDATE workflows SET deleted_at = \$2 WHERE id = \$1 AND deleted_at IS NULL`).
				WithArgs("wf-1", sqlmock.AnyArg()).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			err := repo.Delete(t.Context(), "wf-1")
			if tt.notFound {
				assert.True(t, persistence.IsWorkflowNotFound(err))
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestWorkflowRepository_ListWorkflows(t *testing.T) {
	repo, mock := newMockRepository(t)

	first, err := testutil.NewLinearCanvas(t).Store.Snapshot("wf-1", "alpha")
	require.NoError(t, err)

	document, err := first.EncodeJSON()
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM workflows WHERE deleted_at IS NULL`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`ORDER BY LOWER\(name\) ASC, id\s+LIMIT \$1 OFFSET \$2`).
		WithArgs(int64(1), int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"snapshot"}).AddRow(document))

	result, err := repo.ListWorkflows(t.Context(), persistence.ListWorkflowsOptions{SortBy: "name", SortOrder: "asc", Limit: 1})
	require.NoError(t, err)

	require.Len(t, result.Workflows, 1)
	assert.Equal(t, "alpha", result.Workflows[0].Name)
	assert.Equal(t, int64(3), result.TotalCount)
	assert.True(t, result.HasNextPage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkflowRepository_ListWorkflows_InvalidSortField(t *testing.T) {
	repo, mock := newMockRepository(t)

	_, err := repo.ListWorkflows(t.Context(), persistence.ListWorkflowsOptions{SortBy: "name; DROP TABLE workflows; --"})
	require.Error(t, err)
	assert.True(t, persistence.IsInvalidSortField(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
