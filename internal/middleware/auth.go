package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"henalis/internal/auth"
	"henalis/pkg/httperror"
)

// TokenVerifier turns a bearer token into the caller's identity.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (auth.Identity, error)
}

// RequireUser rejects requests without a valid bearer token and stores the identity in
// the user context.
func RequireUser(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
		scheme, token, ok := strings.Cut(authorization, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return reject(c, httperror.Unauthorized(
				"auth.missing_token",
				"Authorization header with a bearer token is required",
				nil,
			))
		}

		userCtx := c.UserContext()
		if userCtx == nil {
			userCtx = context.Background()
		}

		identity, err := verifier.Verify(userCtx, strings.TrimSpace(token))
		if err != nil {
			zap.L().Warn("Rejected bearer token", zap.Error(err))
			return reject(c, httperror.Unauthorized(
				"auth.invalid_token",
				"Invalid or expired token",
				nil,
			))
		}

		c.SetUserContext(auth.WithIdentity(userCtx, identity))
		return c.Next()
	}
}

// RequireAdmin must run after RequireUser.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := auth.FromContext(c.UserContext())
		if !ok {
			return reject(c, httperror.Unauthorized("auth.missing_token", "Authentication required", nil))
		}
		if !identity.IsAdmin {
			return reject(c, httperror.Forbidden("auth.forbidden", "Admin privileges required", nil))
		}
		return c.Next()
	}
}

func reject(c *fiber.Ctx, err *httperror.Error) error {
	return c.Status(err.Status).JSON(fiber.Map{
		"code":    err.Code,
		"message": err.Message,
	})
}
