package v1

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/billkazi/billkazi/internal/api/dto"
	ierr "github.com/billkazi/billkazi/internal/errors"
	"github.com/billkazi/billkazi/internal/logger"
	"github.com/billkazi/billkazi/internal/service"
)

// SettingsHandler exposes the account profile and business settings.
type SettingsHandler struct {
	service service.UserService
	log     *logger.Logger
}

func NewSettingsHandler(service service.UserService, log *logger.Logger) *SettingsHandler {
	return &SettingsHandler{service: service, log: log}
}

// @Summary Get the account profile
// @Tags Settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserResponse
// @Router /settings/profile [get]
func (h *SettingsHandler) GetProfile(c *gin.Context) {
	resp, err := h.service.GetProfile(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Update the account profile
// @Description Update the account name, business identity and invoicing defaults
// @Tags Settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body dto.UpdateProfileRequest true "Fields to update"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /settings/profile [put]
func (h *SettingsHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.UpdateProfile(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Upload a business logo
// @Description Upload a logo image (multipart field "logo"); the stored URL lands on the business profile
// @Tags Settings
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param logo formData file true "Logo image (PNG, JPEG or WebP)"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /settings/logo [post]
func (h *SettingsHandler) UploadLogo(c *gin.Context) {
	fileHeader, err := c.FormFile("logo")
	if err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Attach the logo as a multipart file field named 'logo'").
			Mark(ierr.ErrValidation))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Failed to read uploaded file").
			Mark(ierr.ErrValidation))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Failed to read uploaded file").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.UploadLogo(c.Request.Context(), data, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		h.log.Errorw("failed to upload logo", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
