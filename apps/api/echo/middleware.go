package echoapi

import (
	"github.com/labstack/echo/v4"
)

// contextUserMiddleware loads the token's User into the context; it must run after the JWT middleware.
func (a *authenticator) contextUserMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if _, err := a.getContextUser(ctx); err != nil {
				return err
			}
			return next(ctx)
		}
	}
}

// requireRole only lets through context users having one of the roles.
func requireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr := contextUser(ctx)
			if usr.HasRole(roles...) {
				return next(ctx)
			}
			return errInsufficientPermissions
		}
	}
}

// with returns a copy of the authed middleware chain followed by extra.
func with(authed []echo.MiddlewareFunc, extra ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	chain := make([]echo.MiddlewareFunc, 0, len(authed)+len(extra))
	chain = append(chain, authed...)
	return append(chain, extra...)
}
