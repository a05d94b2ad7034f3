package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/kama326/task-manager/internal/models"
	"github.com/kama326/task-manager/internal/repository"
	"github.com/kama326/task-manager/internal/storage"
	"github.com/kama326/task-manager/internal/validation"
)

var (
	ErrWrongOldPassword = errors.New("wrong old password")
	ErrPasswordMismatch = errors.New("new password and confirmation do not match")
)

// AccountService handles the authenticated user's own account: identity
// fields, credential changes and the avatar profile.
type AccountService struct {
	userRepo repository.UserRepository
	avatars  storage.AvatarStore
}

// NewAccountService creates a new AccountService.
func NewAccountService(userRepo repository.UserRepository, avatars storage.AvatarStore) *AccountService {
	return &AccountService{
		userRepo: userRepo,
		avatars:  avatars,
	}
}

// GetCurrentUser returns the caller's identity record with the profile
// loaded and the avatar URL resolved against the blob store.
func (s *AccountService) GetCurrentUser(ctx context.Context, userID uint64) (*models.User, *string, error) {
	user, err := s.userRepo.FindByIDWithProfile(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}

	avatarURL, err := s.resolveAvatarURL(ctx, user.Profile)
	if err != nil {
		return nil, nil, err
	}

	return user, avatarURL, nil
}

// UpdateUserInput holds the identity fields a user may change on their
// own record. Nil means the field was not sent.
type UpdateUserInput struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
}

// UpdateUser applies a partial update to the caller's identity fields.
func (s *AccountService) UpdateUser(ctx context.Context, userID uint64, input UpdateUserInput) (*models.User, *string, validation.Errors, error) {
	user, err := s.userRepo.FindByIDWithProfile(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, ErrUserNotFound
		}
		return nil, nil, nil, fmt.Errorf("failed to find user: %w", err)
	}

	errs := validation.New()
	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if username == "" {
			errs.Add("username", validation.MsgBlank)
		} else if username != user.Username {
			if _, err := s.userRepo.FindByUsername(username); err == nil {
				errs.Add("username", "A user with that username already exists.")
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, nil, fmt.Errorf("failed to check username: %w", err)
			} else {
				user.Username = username
			}
		}
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}

	if errs.Has() {
		return nil, nil, errs, nil
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to update user: %w", err)
	}

	avatarURL, err := s.resolveAvatarURL(ctx, user.Profile)
	if err != nil {
		return nil, nil, nil, err
	}

	return user, avatarURL, nil, nil
}

// ChangePasswordInput holds the credential-change request fields.
type ChangePasswordInput struct {
	OldPassword     string
	NewPassword     string
	ConfirmPassword string
}

// ChangePassword replaces the caller's credential. Checks run in order:
// the old password must match the stored hash, then the new password
// must equal its confirmation. Presence validation happens in the
// handler before this is called.
func (s *AccountService) ChangePassword(userID uint64, input ChangePasswordInput) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.OldPassword)); err != nil {
		return ErrWrongOldPassword
	}

	if input.NewPassword != input.ConfirmPassword {
		return ErrPasswordMismatch
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrFailedToHashPassword
	}

	if err := s.userRepo.UpdatePassword(user.ID, string(hashed)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// UploadAvatar stores the image in the blob store and points the
// caller's profile at it, creating the profile on first upload.
func (s *AccountService) UploadAvatar(ctx context.Context, userID uint64, contentType string, body io.Reader) (string, error) {
	key := storage.NewObjectKey()
	if err := s.avatars.Put(ctx, key, contentType, body); err != nil {
		return "", fmt.Errorf("failed to store avatar: %w", err)
	}

	profile, err := s.userRepo.GetOrCreateProfile(userID)
	if err != nil {
		return "", fmt.Errorf("failed to load profile: %w", err)
	}

	profile.AvatarKey = key
	if err := s.userRepo.SaveProfile(profile); err != nil {
		return "", fmt.Errorf("failed to save profile: %w", err)
	}

	url, err := s.avatars.URL(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to resolve avatar URL: %w", err)
	}

	return url, nil
}

func (s *AccountService) resolveAvatarURL(ctx context.Context, profile *models.Profile) (*string, error) {
	if profile == nil || profile.AvatarKey == "" {
		return nil, nil
	}
	url, err := s.avatars.URL(ctx, profile.AvatarKey)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve avatar URL: %w", err)
	}
	return &url, nil
}
