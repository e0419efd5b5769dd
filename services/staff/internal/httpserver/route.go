package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/little_lovely/pkg/middleware/csrf"
	"github.com/Skotchmaster/little_lovely/services/staff/internal/routes"
	"github.com/Skotchmaster/little_lovely/services/staff/internal/session"
)

type Deps struct {
	StaffHandler *StaffHTTP
	Renderer     echo.Renderer
	CSRF         csrf.Config
}

func Register(e *echo.Echo, d *Deps) {
	e.Renderer = d.Renderer

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.StaticFS("/static", staticFiles())

	h := d.StaffHandler
	pages := e.Group("", session.Middleware(h.Sessions), csrf.Middleware(d.CSRF))

	pages.GET("/", h.Home).Name = routes.Home
	pages.POST("/login", h.Login).Name = routes.Login
	pages.POST("/logout", h.Logout).Name = routes.Logout
	pages.GET("/staff/profile", h.Profile).Name = routes.StaffProfile
	pages.GET("/staff/profile/edit", h.EditProfile).Name = routes.EditProfile
}
