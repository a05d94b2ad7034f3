package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/kama326/task-manager/internal/constants"
	"github.com/kama326/task-manager/internal/models"
	"github.com/kama326/task-manager/internal/repository"
	"github.com/kama326/task-manager/internal/utils"
	"github.com/kama326/task-manager/internal/validation"
)

var (
	ErrTaskNotFound = errors.New("task not found")
)

// TaskService handles task business logic. Every operation takes the
// calling user's ID explicitly and stays inside that user's visibility
// scope (tasks assigned to them or created by them).
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	UserID     uint64
	Status     *models.TaskStatus
	Pagination utils.PaginationParams
}

// CreateTaskInput represents input for creating a task. CreatedByID is
// always the authenticated caller, never taken from the payload.
type CreateTaskInput struct {
	Title        string
	Description  string
	Status       models.TaskStatus
	Priority     models.TaskPriority
	DueDate      *time.Time
	AssignedToID *uint64
	CreatedByID  uint64
}

// UpdateTaskInput represents input for partially updating a task.
// Nil pointer means the field was not sent; the Clear flags distinguish
// an explicit null from an absent field.
type UpdateTaskInput struct {
	Title           *string
	Description     *string
	Status          *models.TaskStatus
	Priority        *models.TaskPriority
	DueDate         *time.Time
	ClearDueDate    bool
	AssignedToID    *uint64
	ClearAssignedTo bool
}

// ListTasks returns the caller's visible tasks, newest first
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, int64, error) {
	filter := repository.TaskFilter{
		UserID:     input.UserID,
		Status:     input.Status,
		Pagination: input.Pagination,
	}

	tasks, total, err := s.taskRepo.ListVisible(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// GetTask returns a task within the caller's visibility scope. An
// out-of-scope ID is indistinguishable from a missing one.
func (s *TaskService) GetTask(userID, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindVisibleByID(userID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// CreateTask validates and creates a new task for the caller
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, validation.Errors, error) {
	errs := validation.New()

	title := strings.TrimSpace(input.Title)
	if title == "" {
		errs.Add("title", validation.MsgRequired)
	} else if utf8.RuneCountInString(title) > constants.MaxTitleLength {
		errs.Add("title", fmt.Sprintf("Ensure this field has no more than %d characters.", constants.MaxTitleLength))
	}

	status := input.Status
	if status == "" {
		status = models.TaskStatusNew
	} else if !models.ValidTaskStatus(status) {
		errs.Add("status", fmt.Sprintf(validation.MsgInvalidChoice, string(status)))
	}

	priority := input.Priority
	if priority == "" {
		priority = models.TaskPriorityMedium
	} else if !models.ValidTaskPriority(priority) {
		errs.Add("priority", fmt.Sprintf(validation.MsgInvalidChoice, string(priority)))
	}

	if input.AssignedToID != nil {
		if err := s.checkAssignee(*input.AssignedToID, errs); err != nil {
			return nil, nil, err
		}
	}

	if errs.Has() {
		return nil, errs, nil
	}

	task := &models.Task{
		Title:        title,
		Description:  input.Description,
		Status:       status,
		Priority:     priority,
		DueDate:      input.DueDate,
		AssignedToID: input.AssignedToID,
		CreatedByID:  input.CreatedByID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, nil, fmt.Errorf("failed to create task: %w", err)
	}

	// Reload with relations; the creator is always inside their own scope
	created, err := s.taskRepo.FindVisibleByID(input.CreatedByID, task.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to reload task: %w", err)
	}

	return created, nil, nil
}

// UpdateTask partially updates a task within the caller's scope.
// created_by and created_at are not part of the input and stay untouched.
func (s *TaskService) UpdateTask(userID, taskID uint64, input UpdateTaskInput) (*models.Task, validation.Errors, error) {
	task, err := s.taskRepo.FindVisibleByID(userID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrTaskNotFound
		}
		return nil, nil, fmt.Errorf("failed to find task: %w", err)
	}

	errs := validation.New()

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			errs.Add("title", validation.MsgBlank)
		} else if utf8.RuneCountInString(title) > constants.MaxTitleLength {
			errs.Add("title", fmt.Sprintf("Ensure this field has no more than %d characters.", constants.MaxTitleLength))
		} else {
			task.Title = title
		}
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		if !models.ValidTaskStatus(*input.Status) {
			errs.Add("status", fmt.Sprintf(validation.MsgInvalidChoice, string(*input.Status)))
		} else {
			task.Status = *input.Status
		}
	}
	if input.Priority != nil {
		if !models.ValidTaskPriority(*input.Priority) {
			errs.Add("priority", fmt.Sprintf(validation.MsgInvalidChoice, string(*input.Priority)))
		} else {
			task.Priority = *input.Priority
		}
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.ClearAssignedTo {
		task.AssignedToID = nil
	} else if input.AssignedToID != nil {
		if err := s.checkAssignee(*input.AssignedToID, errs); err != nil {
			return nil, nil, err
		}
		if !errs.Has() {
			task.AssignedToID = input.AssignedToID
		}
	}

	if errs.Has() {
		return nil, errs, nil
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, nil, fmt.Errorf("failed to update task: %w", err)
	}

	updated, err := s.taskRepo.FindVisibleByID(userID, task.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to reload task: %w", err)
	}

	return updated, nil, nil
}

// DeleteTask removes a task within the caller's scope
func (s *TaskService) DeleteTask(userID, taskID uint64) error {
	task, err := s.taskRepo.FindVisibleByID(userID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.taskRepo.Delete(task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// BulkMove moves every in-scope task from one status to another in a
// single atomic update and returns the number of rows changed.
func (s *TaskService) BulkMove(userID uint64, fromStatus, toStatus string) (int64, validation.Errors, error) {
	errs := validation.New()
	if fromStatus == "" {
		errs.Add("from_status", validation.MsgRequired)
	}
	if toStatus == "" {
		errs.Add("to_status", validation.MsgRequired)
	} else if !models.ValidTaskStatus(models.TaskStatus(toStatus)) {
		// from_status is just a filter, but an unconstrained to_status
		// would write an out-of-vocabulary value into every matched row
		errs.Add("to_status", fmt.Sprintf(validation.MsgInvalidChoice, toStatus))
	}
	if errs.Has() {
		return 0, errs, nil
	}

	count, err := s.taskRepo.BulkMoveStatus(userID, fromStatus, toStatus)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to move tasks: %w", err)
	}

	return count, nil, nil
}

// BulkDelete deletes every in-scope task with the given status in a
// single atomic delete. Zero matches is a valid outcome.
func (s *TaskService) BulkDelete(userID uint64, status string) (int64, validation.Errors, error) {
	errs := validation.New()
	if status == "" {
		errs.Add("status", validation.MsgRequired)
	}
	if errs.Has() {
		return 0, errs, nil
	}

	count, err := s.taskRepo.BulkDeleteStatus(userID, status)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to delete tasks: %w", err)
	}

	return count, nil, nil
}

func (s *TaskService) checkAssignee(userID uint64, errs validation.Errors) error {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			errs.Add("assigned_to", fmt.Sprintf("Invalid pk %d - object does not exist.", userID))
			return nil
		}
		return fmt.Errorf("failed to check assignee: %w", err)
	}
	return nil
}
