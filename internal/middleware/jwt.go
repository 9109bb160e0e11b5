package middleware

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/remitlite/remitlite/internal/auth"
	"github.com/remitlite/remitlite/internal/identity"
)

// TokenParser verifies an access token and returns its user id.
type TokenParser interface {
	Parse(token string) (string, error)
}

// JWTAuth validates bearer tokens and requires the user to still exist.
func JWTAuth(tokens TokenParser, repo identity.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr, ok := auth.BearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return fiber.NewError(http.StatusUnauthorized, "Token is missing")
		}
		userID, err := tokens.Parse(tokenStr)
		if errors.Is(err, auth.ErrTokenExpired) {
			return fiber.NewError(http.StatusUnauthorized, "Token expired")
		}
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "Invalid token")
		}
		if _, err := repo.FindByID(c.UserContext(), userID); err != nil {
			return fiber.NewError(http.StatusUnauthorized, "User not found")
		}

		c.Locals(identity.UserIDLocal, userID)
		return c.Next()
	}
}
