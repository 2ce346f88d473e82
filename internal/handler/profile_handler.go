package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"recipebook/internal/errors"
	"recipebook/internal/service"
	"recipebook/internal/upload"
)

// ProfileHandler bundles the profile endpoints.
type ProfileHandler struct {
	svc service.ProfileService
	log *slog.Logger
}

// NewProfileHandler creates a handler layer.
func NewProfileHandler(svc service.ProfileService, log *slog.Logger) *ProfileHandler {
	return &ProfileHandler{svc: svc, log: orDefault(log)}
}

// UpdateProfileRequest represents a profile update. Omitted fields are left
// unchanged; empty strings are stored as given.
type UpdateProfileRequest struct {
	Name  *string `json:"name" validate:"omitempty,max=255"`
	Email *string `json:"email" validate:"omitempty,max=255"`
}

// ImageResponse is returned after a profile image upload.
type ImageResponse struct {
	ImageURL string `json:"imageUrl"`
}

// GetProfile godoc
// @Summary Get the profile
// @Tags profile
// @Produce json
// @Success 200 {object} model.User
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /profile [get]
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	user, err := h.svc.Get(c.Request().Context())
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch profile", "GET_PROFILE_FAILED")
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile godoc
// @Summary Update profile name and email
// @Tags profile
// @Accept json
// @Produce json
// @Param profile body UpdateProfileRequest true "Profile payload"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /profile [put]
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body", "INVALID_REQUEST")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(err.Error(), "VALIDATION_ERROR")
	}

	user, err := h.svc.Update(c.Request().Context(), service.UpdateProfileInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		return respondError(c, h.log, err, "Failed to update profile", "UPDATE_PROFILE_FAILED")
	}
	return c.JSON(http.StatusOK, user)
}

// UploadProfileImage godoc
// @Summary Upload a profile image
// @Tags profile
// @Accept mpfd
// @Produce json
// @Param profileImage formData file true "Image, at most 5 MiB"
// @Success 200 {object} ImageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /profile/upload [post]
func (h *ProfileHandler) UploadProfileImage(c echo.Context) error {
	file := upload.FromContext(c)
	if file == nil {
		return respondError(c, h.log, errors.ErrNoFile, "", "")
	}

	if err := h.svc.SetImage(c.Request().Context(), file.URL); err != nil {
		return respondError(c, h.log, err, "Failed to save image URL to database.", "SAVE_IMAGE_FAILED")
	}
	return c.JSON(http.StatusOK, ImageResponse{ImageURL: file.URL})
}
