package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/little_lovely/pkg/authclient"
	jwthelp "github.com/Skotchmaster/little_lovely/pkg/jwt"
	"github.com/Skotchmaster/little_lovely/pkg/logging"
	"github.com/Skotchmaster/little_lovely/pkg/middleware/csrf"
	"github.com/Skotchmaster/little_lovely/pkg/tokens"
	"github.com/Skotchmaster/little_lovely/services/staff/internal/notify"
	"github.com/Skotchmaster/little_lovely/services/staff/internal/profile"
	"github.com/Skotchmaster/little_lovely/services/staff/internal/routes"
	"github.com/Skotchmaster/little_lovely/services/staff/internal/session"
)

const (
	InvalidCredentialsMessage = "Invalid username or password"
	LoginUnavailableMessage   = "Unable to sign in right now, please try again later"
)

type AuthClient interface {
	Login(ctx context.Context, username, password string) (*authclient.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}

type StaffHTTP struct {
	Sessions   session.Repository
	Auth       AuthClient
	Catalog    profile.ProductSource
	JWTSecret  []byte
	SessionTTL time.Duration

	CookieSecure bool
}

type PageData struct {
	Title     string
	CSRFToken string
	Toasts    []notify.Toast
	Marker    session.Marker
	IsStaff   bool
	Products  []profile.Product

	HomeURL    string
	LoginURL   string
	LogoutURL  string
	ProfileURL string
	EditURL    string
}

func newPageData(c echo.Context, title string, toasts *notify.Host) PageData {
	e := c.Echo()
	marker := session.FromContext(c)
	return PageData{
		Title:      title,
		CSRFToken:  csrf.Token(c),
		Toasts:     toasts.Toasts(),
		Marker:     marker,
		IsStaff:    marker.HasRole(profile.StaffRole),
		HomeURL:    e.Reverse(routes.Home),
		LoginURL:   e.Reverse(routes.Login),
		LogoutURL:  e.Reverse(routes.Logout),
		ProfileURL: e.Reverse(routes.StaffProfile),
		EditURL:    e.Reverse(routes.EditProfile),
	}
}

// navigator records the first route a screen asks to navigate to.
type navigator struct {
	route string
}

func (n *navigator) Navigate(route string) {
	if n.route == "" {
		n.route = route
	}
}

func (h *StaffHTTP) Home(c echo.Context) error {
	return c.Render(http.StatusOK, "home", newPageData(c, "Home", notify.NewHost()))
}

func (h *StaffHTTP) Profile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "staff.profile")

	toasts := notify.NewHost()
	nav := &navigator{}
	screen := profile.NewScreen(session.FromContext(c), h.Catalog, toasts, nav)
	screen.Mount(ctx)

	if nav.route != "" {
		l.Info("staff_profile_redirect", "status", http.StatusFound, "reason", "role mismatch", "to", nav.route)
		return c.Redirect(http.StatusFound, c.Echo().Reverse(nav.route))
	}

	data := newPageData(c, "Staff profile", toasts)
	data.Products = screen.Products()
	l.Info("staff_profile_success", "products", len(data.Products))
	return c.Render(http.StatusOK, "profile", data)
}

// EditProfile is linked from the profile page; editing is not offered yet.
func (h *StaffHTTP) EditProfile(c echo.Context) error {
	return echo.ErrNotImplemented
}

func (h *StaffHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "staff.login")

	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")

	toasts := notify.NewHost()
	if username == "" || password == "" {
		l.Warn("login_failed", "status", 400, "reason", "empty credentials")
		toasts.Error(InvalidCredentialsMessage)
		return c.Render(http.StatusBadRequest, "home", newPageData(c, "Home", toasts))
	}

	resp, err := h.Auth.Login(ctx, username, password)
	if err != nil {
		if errors.Is(err, authclient.ErrInvalidCredentials) {
			l.Warn("login_failed", "status", 401, "reason", "invalid credentials", "error", err)
			toasts.Error(InvalidCredentialsMessage)
			return c.Render(http.StatusUnauthorized, "home", newPageData(c, "Home", toasts))
		}
		l.Error("login_failed", "status", 502, "reason", "auth service error", "error", err)
		toasts.Error(LoginUnavailableMessage)
		return c.Render(http.StatusBadGateway, "home", newPageData(c, "Home", toasts))
	}

	claims, err := tokens.AccessClaimsFromToken(resp.AccessToken, h.JWTSecret)
	if err != nil {
		l.Error("login_failed", "status", 502, "reason", "access token rejected", "error", err)
		toasts.Error(LoginUnavailableMessage)
		return c.Render(http.StatusBadGateway, "home", newPageData(c, "Home", toasts))
	}

	marker := session.Marker{
		SessionID: uuid.NewString(),
		UserID:    claims.Subject,
		Username:  claims.Username,
		Role:      claims.Role,
	}
	if marker.Username == "" {
		marker.Username = username
	}
	if err := h.Sessions.Save(ctx, marker, h.SessionTTL); err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot save session", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot save session")
	}

	c.SetCookie(&http.Cookie{
		Name:     session.CookieName,
		Value:    marker.SessionID,
		Path:     "/",
		MaxAge:   int(h.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	c.SetCookie(jwthelp.CreateCookie(jwthelp.AccessCookie, resp.AccessToken, "/", time.Unix(resp.AccessExp, 0)))
	c.SetCookie(jwthelp.CreateCookie(jwthelp.RefreshCookie, resp.RefreshToken, "/", time.Unix(resp.RefreshExp, 0)))

	target := routes.Home
	if marker.HasRole(profile.StaffRole) {
		target = routes.StaffProfile
	}

	l.Info("login_success", "user_id", marker.UserID, "role", marker.Role)
	return c.Redirect(http.StatusSeeOther, c.Echo().Reverse(target))
}

func (h *StaffHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "staff.logout")

	if cookie, err := c.Cookie(jwthelp.RefreshCookie); err == nil && cookie.Value != "" {
		if err := h.Auth.Logout(ctx, cookie.Value); err != nil {
			l.Warn("logout_auth_failed", "reason", "cannot revoke refresh token", "error", err)
		}
	}

	if cookie, err := c.Cookie(session.CookieName); err == nil && cookie.Value != "" {
		if err := h.Sessions.Delete(ctx, cookie.Value); err != nil {
			l.Warn("logout_session_failed", "reason", "cannot delete session", "error", err)
		}
	}

	c.SetCookie(jwthelp.DeleteCookie(session.CookieName, "/"))
	c.SetCookie(jwthelp.DeleteCookie(jwthelp.AccessCookie, "/"))
	c.SetCookie(jwthelp.DeleteCookie(jwthelp.RefreshCookie, "/"))

	l.Info("logout_success")
	return c.Redirect(http.StatusSeeOther, c.Echo().Reverse(routes.Home))
}
