package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kama326/task-manager/internal/models"
	"github.com/kama326/task-manager/internal/repository"
)

func setupTaskService(t *testing.T) (*TaskService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Task{},
	))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return NewTaskService(repository.NewTaskRepository(db), repository.NewUserRepository(db)), db
}

func createServiceTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, PasswordHash: "hash"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestCreateTask_UnknownAssignee(t *testing.T) {
	svc, db := setupTaskService(t)
	user := createServiceTestUser(t, db, "alice")

	missing := uint64(9999)
	task, errs, err := svc.CreateTask(CreateTaskInput{
		Title:        "Task",
		AssignedToID: &missing,
		CreatedByID:  user.ID,
	})
	require.NoError(t, err)
	require.Nil(t, task)
	require.Contains(t, errs, "assigned_to")

	var count int64
	db.Model(&models.Task{}).Count(&count)
	require.Equal(t, int64(0), count)
}

func TestCreateTask_AssigneeIsStored(t *testing.T) {
	svc, db := setupTaskService(t)
	alice := createServiceTestUser(t, db, "alice")
	bob := createServiceTestUser(t, db, "bob")

	task, errs, err := svc.CreateTask(CreateTaskInput{
		Title:        "Task for Bob",
		AssignedToID: &bob.ID,
		CreatedByID:  alice.ID,
	})
	require.NoError(t, err)
	require.False(t, errs.Has())
	require.NotNil(t, task.AssignedToID)
	require.Equal(t, bob.ID, *task.AssignedToID)

	// Bob sees it through his assignee scope
	got, err := svc.GetTask(bob.ID, task.ID)
	require.NoError(t, err)
	require.Equal(t, task.ID, got.ID)
}

func TestCreateTask_TitleLengthCountsCharacters(t *testing.T) {
	svc, db := setupTaskService(t)
	user := createServiceTestUser(t, db, "alice")

	// 150 Cyrillic characters are 300 bytes; the limit is characters
	title := strings.Repeat("Я", 150)
	task, errs, err := svc.CreateTask(CreateTaskInput{
		Title:       title,
		CreatedByID: user.ID,
	})
	require.NoError(t, err)
	require.False(t, errs.Has())
	require.Equal(t, title, task.Title)
}

func TestCreateTask_TitleTooLong(t *testing.T) {
	svc, db := setupTaskService(t)
	user := createServiceTestUser(t, db, "alice")

	task, errs, err := svc.CreateTask(CreateTaskInput{
		Title:       strings.Repeat("Я", 201),
		CreatedByID: user.ID,
	})
	require.NoError(t, err)
	require.Nil(t, task)
	require.Equal(t, []string{"Ensure this field has no more than 200 characters."}, errs["title"])

	// Exactly at the limit passes
	task, errs, err = svc.CreateTask(CreateTaskInput{
		Title:       strings.Repeat("Я", 200),
		CreatedByID: user.ID,
	})
	require.NoError(t, err)
	require.False(t, errs.Has())
	require.NotNil(t, task)
}

func TestUpdateTask_ClearAssignee(t *testing.T) {
	svc, db := setupTaskService(t)
	alice := createServiceTestUser(t, db, "alice")
	bob := createServiceTestUser(t, db, "bob")

	task, _, err := svc.CreateTask(CreateTaskInput{
		Title:        "Task",
		AssignedToID: &bob.ID,
		CreatedByID:  alice.ID,
	})
	require.NoError(t, err)

	updated, errs, err := svc.UpdateTask(alice.ID, task.ID, UpdateTaskInput{
		ClearAssignedTo: true,
	})
	require.NoError(t, err)
	require.False(t, errs.Has())
	require.Nil(t, updated.AssignedToID)

	// Bob lost his scope over the task
	_, err = svc.GetTask(bob.ID, task.ID)
	require.ErrorIs(t, err, ErrTaskNotFound)
}

func TestBulkMove_ValidatesToStatusOnly(t *testing.T) {
	svc, db := setupTaskService(t)
	user := createServiceTestUser(t, db, "alice")

	// Unknown from_status just matches nothing
	count, errs, err := svc.BulkMove(user.ID, "bogus", "done")
	require.NoError(t, err)
	require.False(t, errs.Has())
	require.Equal(t, int64(0), count)

	// Unknown to_status is rejected before any write
	_, errs, err = svc.BulkMove(user.ID, "new", "bogus")
	require.NoError(t, err)
	require.Contains(t, errs, "to_status")
}
