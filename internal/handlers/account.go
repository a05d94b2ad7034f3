package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kama326/task-manager/internal/dto"
	apierrors "github.com/kama326/task-manager/internal/errors"
	"github.com/kama326/task-manager/internal/middleware"
	"github.com/kama326/task-manager/internal/services"
	"github.com/kama326/task-manager/internal/validation"
)

// sniffLen is how many leading bytes http.DetectContentType needs.
const sniffLen = 512

// AccountHandler serves the authenticated user's own account endpoints.
type AccountHandler struct {
	accountService *services.AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService *services.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
	}
}

// GetMe returns the caller's identity fields and profile.
func (h *AccountHandler) GetMe(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, avatarURL, err := h.accountService.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		respondAccountError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user, avatarURL))
}

// UpdateMe partially updates the caller's identity fields. The target
// record is always the caller's own; no other user is reachable here.
func (h *AccountHandler) UpdateMe(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	// Parse raw JSON to detect which fields were sent
	var rawReq map[string]any
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	bindErrs := validation.New()
	var input services.UpdateUserInput
	input.Username = optionalString(rawReq, "username", bindErrs)
	input.Email = optionalString(rawReq, "email", bindErrs)
	input.FirstName = optionalString(rawReq, "first_name", bindErrs)
	input.LastName = optionalString(rawReq, "last_name", bindErrs)
	if bindErrs.Has() {
		apierrors.ValidationFailed(c, bindErrs)
		return
	}

	user, avatarURL, errs, err := h.accountService.UpdateUser(c.Request.Context(), userID, input)
	if err != nil {
		respondAccountError(c, err)
		return
	}
	if errs.Has() {
		apierrors.ValidationFailed(c, errs)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user, avatarURL))
}

// UploadAvatar accepts a multipart image and attaches it to the caller's
// profile, creating the profile on first upload.
func (h *AccountHandler) UploadAvatar(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	file, _, err := c.Request.FormFile("avatar")
	if err != nil {
		errs := validation.New()
		errs.Add("avatar", "No file was submitted.")
		apierrors.ValidationFailed(c, errs)
		return
	}
	defer file.Close()

	// Sniff the content type from the leading bytes
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		apierrors.InternalError(c, "Failed to read upload")
		return
	}
	contentType := http.DetectContentType(head[:n])
	if !strings.HasPrefix(contentType, "image/") {
		errs := validation.New()
		errs.Add("avatar", "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
		apierrors.ValidationFailed(c, errs)
		return
	}

	body := io.MultiReader(bytes.NewReader(head[:n]), file)
	url, err := h.accountService.UploadAvatar(c.Request.Context(), userID, contentType, body)
	if err != nil {
		respondAccountError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProfileDTO(&url))
}

// ChangePassword replaces the caller's credential. Validation order:
// all three fields present, old password correct, new equals confirm.
func (h *AccountHandler) ChangePassword(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type ChangePasswordRequest struct {
		OldPassword     string `json:"old_password"`
		NewPassword     string `json:"new_password"`
		ConfirmPassword string `json:"confirm_password"`
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	errs := validation.New()
	if req.OldPassword == "" {
		errs.Add("old_password", validation.MsgRequired)
	}
	if req.NewPassword == "" {
		errs.Add("new_password", validation.MsgRequired)
	}
	if req.ConfirmPassword == "" {
		errs.Add("confirm_password", validation.MsgRequired)
	}
	if errs.Has() {
		apierrors.ValidationFailed(c, errs)
		return
	}

	err := h.accountService.ChangePassword(userID, services.ChangePasswordInput{
		OldPassword:     req.OldPassword,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrWrongOldPassword):
			errs.Add("old_password", "Wrong password.")
			apierrors.ValidationFailed(c, errs)
		case errors.Is(err, services.ErrPasswordMismatch):
			errs.Add("new_password", "Passwords do not match.")
			apierrors.ValidationFailed(c, errs)
		default:
			respondAccountError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "password set"})
}

// optionalString reads a string field out of a raw JSON map. An absent
// key means the field was not sent; a present key with a null or
// non-string value is a binding error, never silently dropped.
func optionalString(raw map[string]any, key string, errs validation.Errors) *string {
	v, sent := raw[key]
	if !sent {
		return nil
	}
	if v == nil {
		errs.Add(key, validation.MsgNotNull)
		return nil
	}
	s, ok := v.(string)
	if !ok {
		errs.Add(key, validation.MsgNotAString)
		return nil
	}
	return &s
}

func respondAccountError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
