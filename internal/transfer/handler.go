package transfer

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/remitlite/remitlite/internal/identity"
	"github.com/remitlite/remitlite/internal/validation"
)

// MaxListLimit caps the ?limit= query on listing endpoints.
const MaxListLimit = 500

// Handler exposes transfer endpoints.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs a transfer HTTP handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Create validates the request and records a completed transfer.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req CreateInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid JSON body")
	}
	if err := validation.Struct(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	rec, err := h.service.Create(c.UserContext(), req)
	if errors.Is(err, identity.ErrEmailTaken) {
		return fiber.NewError(http.StatusConflict, "party is being created concurrently, retry")
	}
	if err != nil {
		h.logger.Error("create transfer failed", slog.Any("error", err))
		return fiber.NewError(http.StatusInternalServerError, "failed to create transfer")
	}
	return c.Status(http.StatusCreated).JSON(rec)
}

// List returns transfers newest first, optionally capped by ?limit=.
func (h *Handler) List(c *fiber.Ctx) error {
	limit, err := parseLimit(c)
	if err != nil {
		return err
	}
	recs, err := h.service.List(c.UserContext(), limit)
	if err != nil {
		h.logger.Error("list transfers failed", slog.Any("error", err))
		return fiber.NewError(http.StatusInternalServerError, "failed to list transfers")
	}
	return c.JSON(recs)
}

// Get returns a single transfer by id or tracking number.
func (h *Handler) Get(c *fiber.Ctx) error {
	rec, err := h.service.Get(c.UserContext(), c.Params("id"))
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(http.StatusNotFound, "Transfer not found")
	}
	if err != nil {
		h.logger.Error("load transfer failed", slog.String("id", c.Params("id")), slog.Any("error", err))
		return fiber.NewError(http.StatusInternalServerError, "failed to load transfer")
	}
	return c.JSON(rec)
}

// Mine lists transfers of the authenticated user.
func (h *Handler) Mine(c *fiber.Ctx) error {
	limit, err := parseLimit(c)
	if err != nil {
		return err
	}
	uid, _ := c.Locals(identity.UserIDLocal).(string)
	recs, err := h.service.ListForParty(c.UserContext(), uid, limit)
	if err != nil {
		h.logger.Error("list own transfers failed", slog.String("user_id", uid), slog.Any("error", err))
		return fiber.NewError(http.StatusInternalServerError, "failed to list transfers")
	}
	return c.JSON(recs)
}

// parseLimit reads ?limit=. Absent means no limit.
func parseLimit(c *fiber.Ctx) (int, error) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fiber.NewError(http.StatusBadRequest, "limit must be a positive integer")
	}
	return min(n, MaxListLimit), nil
}
