package models

import "time"

// Profile is the one-to-one extension of a User. It only exists once the
// user has uploaded an avatar (created lazily, never deleted on its own).
type Profile struct {
	UserID    uint64    `gorm:"primarykey" json:"user_id"`
	AvatarKey string    `gorm:"type:varchar(255)" json:"avatar_key"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}
