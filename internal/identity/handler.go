package identity

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/remitlite/remitlite/internal/validation"
)

// UserIDLocal is the fiber.Ctx local set by the JWT middleware.
const UserIDLocal = "user_id"

// Handler exposes profile endpoints for the authenticated user.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs an identity HTTP handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

type updateProfileRequest struct {
	Name        *string `json:"name" validate:"omitempty,notblank,max=100"`
	CountryCode *string `json:"country_code" validate:"omitempty,len=2"`
	Phone       *string `json:"phone" validate:"omitempty,max=20"`
}

// Profile returns the caller's profile.
func (h *Handler) Profile(c *fiber.Ctx) error {
	uid, _ := c.Locals(UserIDLocal).(string)
	user, err := h.service.Get(c.UserContext(), uid)
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(http.StatusNotFound, "User not found")
	}
	if err != nil {
		h.logger.Error("profile lookup failed", slog.String("user_id", uid), slog.Any("error", err))
		return fiber.NewError(http.StatusInternalServerError, "profile lookup failed")
	}
	return c.JSON(fiber.Map{"user": user.Profile()})
}

// UpdateProfile changes name, country or phone of the caller.
func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	uid, _ := c.Locals(UserIDLocal).(string)
	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid JSON body")
	}
	if err := validation.Struct(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	user, err := h.service.UpdateProfile(c.UserContext(), uid, ProfileUpdate{
		Name:        req.Name,
		CountryCode: req.CountryCode,
		Phone:       req.Phone,
	})
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(http.StatusNotFound, "User not found")
	}
	if err != nil {
		h.logger.Error("profile update failed", slog.String("user_id", uid), slog.Any("error", err))
		return fiber.NewError(http.StatusInternalServerError, "profile update failed")
	}
	return c.JSON(fiber.Map{"message": "Profile updated successfully", "user": user.Profile()})
}
