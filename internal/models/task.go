package models

import (
	"time"
)

type TaskStatus string

const (
	TaskStatusNew        TaskStatus = "new"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

// ValidTaskStatus reports whether s is one of the enumerated statuses.
func ValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskStatusNew, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// ValidTaskPriority reports whether p is one of the enumerated priorities.
func ValidTaskPriority(p TaskPriority) bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

type Task struct {
	ID          uint64       `gorm:"primarykey" json:"id"`
	Title       string       `gorm:"type:varchar(200);not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Status      TaskStatus   `gorm:"type:varchar(20);not null;default:'new'" json:"status"`
	Priority    TaskPriority `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	// CreatedAt is assigned by the server on insert and never updated.
	CreatedAt    time.Time  `gorm:"<-:create" json:"created_at"`
	DueDate      *time.Time `json:"due_date"`
	AssignedToID *uint64    `json:"assigned_to"`
	CreatedByID  uint64     `gorm:"not null" json:"created_by_id"`

	// Relations
	AssignedTo *User `gorm:"foreignKey:AssignedToID;constraint:OnDelete:SET NULL" json:"-"`
	CreatedBy  User  `gorm:"foreignKey:CreatedByID;constraint:OnDelete:CASCADE" json:"-"`
}
