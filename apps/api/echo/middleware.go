package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kisanhq/kisan/core/session"
)

// roleGuardMiddleware renders the protected view only when an authenticated
// user's role is in the allowed set; anyone else is redirected to the login
// view. This is a UX convenience, not a security boundary: no forbidden
// signal is exposed and the check is trivially bypassable by a direct client.
func roleGuardMiddleware(svc *session.Service, roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if usr, ok := svc.Current(); ok && usr.HasAnyRole(roles...) {
				return next(ctx)
			}
			return ctx.Redirect(http.StatusFound, "/login")
		}
	}
}
