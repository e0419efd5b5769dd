package session

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/little_lovely/pkg/logging"
)

const (
	CookieName = "session_id"
	ctxKey     = "session_marker"
)

// Middleware loads the marker named by the session cookie. Missing or unknown
// sessions leave the zero Marker in the context; guarded screens decide what to do.
func Middleware(repo Repository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			marker := Marker{}
			if cookie, err := c.Cookie(CookieName); err == nil && cookie.Value != "" {
				m, err := repo.Load(c.Request().Context(), cookie.Value)
				switch {
				case err == nil:
					marker = m
				case errors.Is(err, ErrNotFound):
				default:
					logging.FromContext(c.Request().Context()).Warn("session_load_failed", "error", err)
				}
			}
			c.Set(ctxKey, marker)
			return next(c)
		}
	}
}

func FromContext(c echo.Context) Marker {
	m, _ := c.Get(ctxKey).(Marker)
	return m
}
