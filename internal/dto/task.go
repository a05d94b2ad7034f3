package dto

import (
	"time"

	"github.com/kama326/task-manager/internal/models"
)

// TaskUserDTO is the minimal user representation nested in task responses
type TaskUserDTO struct {
	ID        uint64 `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID                 uint64              `json:"id"`
	Title              string              `json:"title"`
	Description        string              `json:"description"`
	Status             models.TaskStatus   `json:"status"`
	Priority           models.TaskPriority `json:"priority"`
	CreatedAt          time.Time           `json:"created_at"`
	DueDate            *time.Time          `json:"due_date"`
	AssignedTo         *uint64             `json:"assigned_to"`
	AssignedToUsername string              `json:"assigned_to_username,omitempty"`
	CreatedBy          *TaskUserDTO        `json:"created_by,omitempty"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO `json:"tasks"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalCount int64     `json:"total_count"`
}

// ToTaskUserDTO converts a User model to TaskUserDTO
func ToTaskUserDTO(user models.User) TaskUserDTO {
	return TaskUserDTO{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		CreatedAt:   task.CreatedAt,
		DueDate:     task.DueDate,
		AssignedTo:  task.AssignedToID,
	}

	// Include the assignee's username if preloaded
	if task.AssignedTo != nil && task.AssignedTo.ID != 0 {
		dto.AssignedToUsername = task.AssignedTo.Username
	}

	// Include the creator if preloaded
	if task.CreatedBy.ID != 0 {
		creator := ToTaskUserDTO(task.CreatedBy)
		dto.CreatedBy = &creator
	}

	return dto
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, page, pageSize int, totalCount int64) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	return TaskListResponse{
		Tasks:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
	}
}
