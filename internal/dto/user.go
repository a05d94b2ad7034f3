package dto

import (
	"github.com/kama326/task-manager/internal/models"
)

// ProfileDTO represents a user's profile in API responses
type ProfileDTO struct {
	Avatar *string `json:"avatar"`
}

// UserDTO represents a user in API responses
type UserDTO struct {
	ID        uint64      `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Profile   *ProfileDTO `json:"profile,omitempty"`
}

// ToUserDTO converts a User model to UserDTO. avatarURL is the resolved
// blob-store URL for the user's avatar, nil when there is none.
func ToUserDTO(user models.User, avatarURL *string) UserDTO {
	dto := UserDTO{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}

	// Include profile if loaded
	if user.Profile != nil {
		dto.Profile = &ProfileDTO{Avatar: avatarURL}
	}

	return dto
}

// ToProfileDTO builds the profile representation returned by the avatar
// upload endpoint.
func ToProfileDTO(avatarURL *string) ProfileDTO {
	return ProfileDTO{Avatar: avatarURL}
}
