package repository

import (
	"gorm.io/gorm"

	"github.com/kama326/task-manager/internal/database"
	"github.com/kama326/task-manager/internal/models"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindVisibleByID finds a task by ID within the user's visibility scope.
// An out-of-scope ID yields gorm.ErrRecordNotFound, same as a missing one.
func (r *GormTaskRepository) FindVisibleByID(userID, taskID uint64) (*models.Task, error) {
	var task models.Task
	err := r.db.
		Scopes(database.VisibleTo(userID)).
		Preload("AssignedTo").
		Preload("CreatedBy").
		First(&task, taskID).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// ListVisible retrieves the user's visible tasks, newest first
func (r *GormTaskRepository) ListVisible(filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{}).
		Where("assigned_to_id = ? OR created_by_id = ?", filter.UserID, filter.UserID)

	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("tasks.created_at DESC")

	if filter.Pagination.Limit > 0 {
		listQuery = listQuery.Scopes(database.Paginate(filter.Pagination))
	}

	if err := listQuery.Preload("AssignedTo").Preload("CreatedBy").Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update persists changes to a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete removes a task
func (r *GormTaskRepository) Delete(taskID uint64) error {
	return r.db.Delete(&models.Task{}, taskID).Error
}

// BulkMoveStatus issues a single predicate UPDATE so concurrent bulk
// operations never interleave partial writes.
func (r *GormTaskRepository) BulkMoveStatus(userID uint64, fromStatus, toStatus string) (int64, error) {
	result := r.db.Model(&models.Task{}).
		Where("assigned_to_id = ? OR created_by_id = ?", userID, userID).
		Where("status = ?", fromStatus).
		Update("status", toStatus)
	return result.RowsAffected, result.Error
}

// BulkDeleteStatus issues a single predicate DELETE. A zero match count
// is a valid outcome, not an error.
func (r *GormTaskRepository) BulkDeleteStatus(userID uint64, status string) (int64, error) {
	result := r.db.
		Where("assigned_to_id = ? OR created_by_id = ?", userID, userID).
		Where("status = ?", status).
		Delete(&models.Task{})
	return result.RowsAffected, result.Error
}
