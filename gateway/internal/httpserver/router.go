package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/little_lovely/gateway/internal/middleware"
	authmw "github.com/Skotchmaster/little_lovely/pkg/middleware/auth"
	"github.com/Skotchmaster/little_lovely/pkg/middleware/csrf"
	"github.com/Skotchmaster/little_lovely/pkg/tokens"
)

type Deps struct {
	AuthURL    string
	CatalogURL string
	StaffURL   string

	JWTSecret []byte

	// Refresher renews an expired access token at the edge; nil rejects it with 401.
	Refresher  authmw.TokenRefresher
	CSRFConfig csrf.Config
	Logger     *slog.Logger
}

var writeMethods = []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete}

func Register(e *echo.Echo, d *Deps) error {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	for _, m := range middleware.Common(d.Logger) {
		e.Use(m)
	}

	auth, err := newUpstream("auth", d.AuthURL, "/api/v1/auth")
	if err != nil {
		return err
	}
	catalog, err := newUpstream("catalog", d.CatalogURL, "/api/v1")
	if err != nil {
		return err
	}
	staff, err := newUpstream("staff", d.StaffURL, "")
	if err != nil {
		return err
	}

	e.Any("/api/v1/auth/*", auth.handler)
	e.GET("/api/v1/catalog/*", catalog.handler)

	guard := authmw.NewAutoRefreshMiddleware(d.JWTSecret, d.Refresher)
	api := e.Group("/api/v1",
		csrf.Middleware(d.CSRFConfig),
		guard.RequireRole(tokens.RoleAdmin, tokens.RoleStaff),
	)
	api.Match(writeMethods, "/catalog/*", catalog.handler)

	// The staff console owns its own session and CSRF handling.
	e.GET("/", staff.handler)
	e.POST("/login", staff.handler)
	e.POST("/logout", staff.handler)
	e.Any("/staff/*", staff.handler)
	e.GET("/static/*", staff.handler)

	return nil
}
