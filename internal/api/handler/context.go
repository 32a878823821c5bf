package handler

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-service/internal/core/domain"
)

// actor returns the caller's username as injected by the Auth middleware, or
// "anonymous" on open routes.
func actor(c echo.Context) string {
	if username, _ := c.Get("username").(string); username != "" {
		return username
	}
	return "anonymous"
}

// userID reads the :id path parameter. Ids are UUIDs; anything else, and the
// all-zero UUID, is a caller error.
func userID(c echo.Context) (string, error) {
	raw := c.Param("id")
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return "", fmt.Errorf("%w: malformed user id %q", domain.ErrInvalidArgument, raw)
	}
	return id.String(), nil
}

// bindAndValidate decodes the request body into req and runs struct
// validation. Both failures are caller errors.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return fmt.Errorf("%w: invalid payload", domain.ErrInvalidArgument)
	}
	return c.Validate(req)
}
