package database

import (
	"gorm.io/gorm"

	"github.com/kama326/task-manager/internal/utils"
)

// Paginate applies pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// VisibleTo restricts a task query to rows the given user may see:
// tasks assigned to them or created by them.
func VisibleTo(userID uint64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("assigned_to_id = ? OR created_by_id = ?", userID, userID)
	}
}
