package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/remitlite/remitlite/internal/identity"
	"github.com/remitlite/remitlite/internal/validation"
)

// Handler exposes register/login/verify endpoints.
type Handler struct {
	ids    *identity.Service
	tokens *Service
	logger *slog.Logger
}

// NewHandler constructs an auth HTTP handler.
func NewHandler(ids *identity.Service, tokens *Service, logger *slog.Logger) *Handler {
	return &Handler{ids: ids, tokens: tokens, logger: logger}
}

type registerRequest struct {
	Name        string `json:"name" validate:"required,notblank,max=100"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	CountryCode string `json:"country_code" validate:"omitempty,len=2"`
	Phone       string `json:"phone" validate:"omitempty,max=20"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Message   string           `json:"message"`
	User      identity.Profile `json:"user"`
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
}

// Register creates an account and returns a token for it.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid JSON body")
	}
	if err := validation.Struct(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	user, err := h.ids.Register(c.UserContext(), identity.Registration{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		CountryCode: req.CountryCode,
		Phone:       req.Phone,
	})
	if errors.Is(err, identity.ErrEmailTaken) {
		return fiber.NewError(http.StatusBadRequest, "Email already registered")
	}
	if err != nil {
		h.logger.Error("registration failed", slog.String("email", req.Email), slog.Any("error", err))
		return fiber.NewError(http.StatusInternalServerError, "registration failed")
	}
	return h.respond(c, http.StatusCreated, "User registered successfully", user)
}

// Login verifies credentials and returns a fresh token.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid JSON body")
	}
	if err := validation.Struct(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	user, err := h.ids.Authenticate(c.UserContext(), req.Email, req.Password)
	if errors.Is(err, identity.ErrInvalidCredentials) {
		return fiber.NewError(http.StatusUnauthorized, "Invalid email or password")
	}
	if err != nil {
		h.logger.Error("login failed", slog.String("email", req.Email), slog.Any("error", err))
		return fiber.NewError(http.StatusInternalServerError, "login failed")
	}
	return h.respond(c, http.StatusOK, "Login successful", user)
}

// Verify reports whether the bearer token is valid.
func (h *Handler) Verify(c *fiber.Ctx) error {
	token, ok := BearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "Token is missing")
	}
	userID, err := h.tokens.Parse(token)
	if errors.Is(err, ErrTokenExpired) {
		return fiber.NewError(http.StatusUnauthorized, "Token expired")
	}
	if err != nil {
		return fiber.NewError(http.StatusUnauthorized, "Invalid token")
	}
	user, err := h.ids.Get(c.UserContext(), userID)
	if err != nil {
		return fiber.NewError(http.StatusUnauthorized, "User not found")
	}
	return c.JSON(fiber.Map{"valid": true, "user": user.Profile()})
}

func (h *Handler) respond(c *fiber.Ctx, status int, msg string, user identity.User) error {
	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.logger.Error("token issue failed", slog.String("user_id", user.ID), slog.Any("error", err))
		return fiber.NewError(http.StatusInternalServerError, "token issue failed")
	}
	return c.Status(status).JSON(authResponse{
		Message:   msg,
		User:      user.Profile(),
		Token:     token.AccessToken,
		ExpiresAt: token.ExpiresAt,
	})
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
