package repository

import (
	"github.com/kama326/task-manager/internal/models"
	"github.com/kama326/task-manager/internal/utils"
)

// TaskRepository defines the interface for task data access. Every read
// and mutation is scoped to the requesting user's visibility set
// (tasks assigned to them OR created by them).
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindVisibleByID finds a task by ID within the user's visibility
	// scope. Out-of-scope rows behave exactly like missing rows.
	FindVisibleByID(userID, taskID uint64) (*models.Task, error)

	// ListVisible retrieves the user's visible tasks with filtering and
	// pagination, newest first.
	ListVisible(filter TaskFilter) ([]models.Task, int64, error)

	// Update persists changes to a task
	Update(task *models.Task) error

	// Delete removes a task
	Delete(taskID uint64) error

	// BulkMoveStatus atomically sets status = toStatus on every task in
	// the user's visibility scope whose status equals fromStatus.
	// Returns the number of rows changed.
	BulkMoveStatus(userID uint64, fromStatus, toStatus string) (int64, error)

	// BulkDeleteStatus atomically deletes every task in the user's
	// visibility scope whose status matches. Returns the number deleted.
	BulkDeleteStatus(userID uint64, status string) (int64, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	UserID     uint64
	Status     *models.TaskStatus
	Pagination utils.PaginationParams
}

// UserRepository defines the interface for user and profile data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByIDWithProfile finds a user by ID with the profile preloaded
	FindByIDWithProfile(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// Update persists changes to a user
	Update(user *models.User) error

	// UpdatePassword replaces the stored credential hash for a user
	UpdatePassword(id uint64, passwordHash string) error

	// GetOrCreateProfile returns the user's profile, creating an empty
	// one if it does not exist yet.
	GetOrCreateProfile(userID uint64) (*models.Profile, error)

	// SaveProfile persists changes to a profile
	SaveProfile(profile *models.Profile) error
}
