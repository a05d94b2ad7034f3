package repository

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// The bulk operations must hit the store as one predicate-scoped
// statement, never a read-then-loop-write. These tests pin the generated
// SQL down with sqlmock.

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return db, mock
}

func TestBulkMoveStatus_SingleAtomicUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE `tasks` SET `status`=? WHERE (assigned_to_id = ? OR created_by_id = ?) AND status = ?",
	)).
		WithArgs("in_progress", 7, 7, "new").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	count, err := repo.BulkMoveStatus(7, "new", "in_progress")
	require.NoError(t, err)
	require.Equal(t, int64(3), count)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkMoveStatus_ZeroMatchesIsNotAnError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE `tasks` SET `status`=? WHERE (assigned_to_id = ? OR created_by_id = ?) AND status = ?",
	)).
		WithArgs("done", 7, 7, "in_progress").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	count, err := repo.BulkMoveStatus(7, "in_progress", "done")
	require.NoError(t, err)
	require.Equal(t, int64(0), count)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkDeleteStatus_SingleAtomicDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(
		"DELETE FROM `tasks` WHERE (assigned_to_id = ? OR created_by_id = ?) AND status = ?",
	)).
		WithArgs(7, 7, "done").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	count, err := repo.BulkDeleteStatus(7, "done")
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	require.NoError(t, mock.ExpectationsWereMet())
}
