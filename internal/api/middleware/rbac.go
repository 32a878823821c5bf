package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-service/internal/core/domain"
)

// RBAC enforces role-based access control over the roles injected by Auth.
// Matching is case-sensitive; holding any allowed role is enough. A miss is
// domain.ErrForbidden.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			held, _ := c.Get("roles").([]string)
			for _, r := range held {
				if _, ok := allowed[r]; ok {
					return next(c)
				}
			}
			return domain.ErrForbidden
		}
	}
}
