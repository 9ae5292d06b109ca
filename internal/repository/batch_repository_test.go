package repository

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruet-cse/class-routine-api/internal/models"
)

func newBatchRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func gridJSON(t *testing.T) ([]byte, []byte) {
	schedule, conflicts := models.NewEmptyGrids()
	rawSchedule, err := json.Marshal(schedule)
	require.NoError(t, err)
	rawConflicts, err := json.Marshal(conflicts)
	require.NoError(t, err)
	return rawSchedule, rawConflicts
}

func TestBatchRepositoryList(t *testing.T) {
	db, mock, cleanup := newBatchRepoMock(t)
	defer cleanup()
	repo := NewBatchRepository(db)

	rawSchedule, rawConflicts := gridJSON(t)
	rows := sqlmock.NewRows([]string{"id", "year", "semester", "name", "color", "schedule", "conflicts", "created_at", "updated_at"}).
		AddRow("b1", "2nd", "Odd", "CSE 21", "#ffffff", rawSchedule, rawConflicts, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, year, semester, name, color, schedule, conflicts, created_at, updated_at FROM batches WHERE 1=1 ORDER BY created_at ASC LIMIT 20 OFFSET 0")).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM batches WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	list, total, err := repo.List(context.Background(), models.BatchFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "CSE 21", list[0].Name)
	assert.Contains(t, list[0].Schedule, "sat")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchRepositoryListWithFilters(t *testing.T) {
	db, mock, cleanup := newBatchRepoMock(t)
	defer cleanup()
	repo := NewBatchRepository(db)

	rawSchedule, rawConflicts := gridJSON(t)
	rows := sqlmock.NewRows([]string{"id", "year", "semester", "name", "color", "schedule", "conflicts", "created_at", "updated_at"}).
		AddRow("b1", "2nd", "Odd", "CSE 21", "#ffffff", rawSchedule, rawConflicts, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("WHERE 1=1 AND year = $1 AND semester = $2 AND LOWER(name) LIKE $3")).
		WithArgs("2nd", "Odd", "%cse%").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("2nd", "Odd", "%cse%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, total, err := repo.List(context.Background(), models.BatchFilter{Year: "2nd", Semester: "Odd", Search: "CSE"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchRepositoryListAll(t *testing.T) {
	db, mock, cleanup := newBatchRepoMock(t)
	defer cleanup()
	repo := NewBatchRepository(db)

	rawSchedule, rawConflicts := gridJSON(t)
	rows := sqlmock.NewRows([]string{"id", "year", "semester", "name", "color", "schedule", "conflicts", "created_at", "updated_at"}).
		AddRow("b1", "2nd", "Odd", "CSE 21", "#ffffff", rawSchedule, rawConflicts, time.Now(), time.Now()).
		AddRow("b2", "3rd", "Odd", "CSE 20", "#aabbcc", rawSchedule, rawConflicts, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM batches ORDER BY year ASC, semester ASC, created_at ASC")).
		WillReturnRows(rows)

	list, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newBatchRepoMock(t)
	defer cleanup()
	repo := NewBatchRepository(db)

	rawSchedule, rawConflicts := gridJSON(t)
	rows := sqlmock.NewRows([]string{"id", "year", "semester", "name", "color", "schedule", "conflicts", "created_at", "updated_at"}).
		AddRow("b1", "2nd", "Odd", "CSE 21", "#ffffff", rawSchedule, rawConflicts, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM batches WHERE id = $1")).
		WithArgs("b1").
		WillReturnRows(rows)

	batch, err := repo.FindByID(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, "b1", batch.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newBatchRepoMock(t)
	defer cleanup()
	repo := NewBatchRepository(db)

	mock.ExpectExec("INSERT INTO batches").
		WillReturnResult(sqlmock.NewResult(1, 1))

	schedule, conflicts := models.NewEmptyGrids()
	batch := &models.Batch{Year: "2nd", Semester: "Odd", Name: "CSE 21", Color: "#ffffff", Schedule: schedule, Conflicts: conflicts}
	require.NoError(t, repo.Create(context.Background(), batch))
	assert.NotEmpty(t, batch.ID)
	assert.False(t, batch.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchRepositoryUpdate(t *testing.T) {
	db, mock, cleanup := newBatchRepoMock(t)
	defer cleanup()
	repo := NewBatchRepository(db)

	mock.ExpectExec("UPDATE batches SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	schedule, conflicts := models.NewEmptyGrids()
	batch := &models.Batch{ID: "b1", Year: "2nd", Semester: "Odd", Name: "CSE 21", Schedule: schedule, Conflicts: conflicts}
	require.NoError(t, repo.Update(context.Background(), batch))
	assert.False(t, batch.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newBatchRepoMock(t)
	defer cleanup()
	repo := NewBatchRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM batches WHERE id = $1")).
		WithArgs("b1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "b1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
