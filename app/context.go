package app

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"henalis/internal/auth"
	"henalis/pkg/httperror"
)

type fiberKey struct{}

// WithFiber exposes the fiber context to handlers that need the raw request, like uploads.
func WithFiber(ctx context.Context, c *fiber.Ctx) context.Context {
	return context.WithValue(ctx, fiberKey{}, c)
}

func FiberCtx(ctx context.Context) (*fiber.Ctx, error) {
	c, ok := ctx.Value(fiberKey{}).(*fiber.Ctx)
	if !ok || c == nil {
		return nil, httperror.InternalServerError("upload.no_context", "Fiber context not found", nil)
	}
	return c, nil
}

// UserID returns the authenticated caller.
func UserID(ctx context.Context) (string, error) {
	id, ok := auth.FromContext(ctx)
	if !ok || id.UserID == "" {
		return "", httperror.Unauthorized("auth.missing_identity", "Authentication required", nil)
	}
	return id.UserID, nil
}
