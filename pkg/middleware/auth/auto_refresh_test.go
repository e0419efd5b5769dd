package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/little_lovely/pkg/authclient"
	"github.com/Skotchmaster/little_lovely/pkg/tokens"
)

var testSecret = []byte("test-jwt-secret")

type fakeRefresher struct {
	resp  *authclient.TokenResponse
	err   error
	calls int
}

func (f *fakeRefresher) RefreshTokens(context.Context, string) (*authclient.TokenResponse, error) {
	f.calls++
	return f.resp, f.err
}

func signAccess(t *testing.T, role string, exp time.Time) string {
	t.Helper()
	tok, err := tokens.SignAccessToken(tokens.AccessClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}, testSecret)
	require.NoError(t, err)
	return tok
}

func serve(t *testing.T, h echo.HandlerFunc, cookies ...*http.Cookie) (*httptest.ResponseRecorder, echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/catalog/products", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := h(c)
	return rec, c, err
}

func ok(c echo.Context) error { return c.NoContent(http.StatusNoContent) }

func TestRequireRole_Allows(t *testing.T) {
	mw := NewAutoRefreshMiddleware(testSecret, nil)
	access := signAccess(t, tokens.RoleStaff, time.Now().Add(time.Minute))

	rec, c, err := serve(t, mw.RequireRole(tokens.RoleAdmin, tokens.RoleStaff)(ok), &http.Cookie{Name: "accessToken", Value: access})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, tokens.RoleStaff, c.Get(CtxRole))
	assert.Equal(t, "user-1", c.Get(CtxUserID))
}

func TestRequireRole_Forbidden(t *testing.T) {
	mw := NewAutoRefreshMiddleware(testSecret, nil)
	access := signAccess(t, tokens.RoleCustomer, time.Now().Add(time.Minute))

	_, _, err := serve(t, mw.RequireRole(tokens.RoleAdmin)(ok), &http.Cookie{Name: "accessToken", Value: access})
	var he *echo.HTTPError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, http.StatusForbidden, he.Code)
}

func TestRequireAuth_MissingCookie(t *testing.T) {
	mw := NewAutoRefreshMiddleware(testSecret, nil)

	_, _, err := serve(t, mw.RequireAuth(ok))
	var he *echo.HTTPError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestRequireAuth_ExpiredTokenIsRefreshed(t *testing.T) {
	fresh := signAccess(t, tokens.RoleStaff, time.Now().Add(time.Minute))
	refresher := &fakeRefresher{resp: &authclient.TokenResponse{
		AccessToken:  fresh,
		RefreshToken: "new-refresh",
		AccessExp:    time.Now().Add(time.Minute).Unix(),
		RefreshExp:   time.Now().Add(time.Hour).Unix(),
	}}
	mw := NewAutoRefreshMiddleware(testSecret, refresher)
	expired := signAccess(t, tokens.RoleStaff, time.Now().Add(-time.Minute))

	rec, c, err := serve(t, mw.RequireAuth(ok),
		&http.Cookie{Name: "accessToken", Value: expired},
		&http.Cookie{Name: "refreshToken", Value: "old-refresh"},
		&http.Cookie{Name: "XSRF-TOKEN", Value: "keep-me"},
	)
	require.NoError(t, err)
	assert.Equal(t, 1, refresher.calls)

	access, err := c.Request().Cookie("accessToken")
	require.NoError(t, err)
	assert.Equal(t, fresh, access.Value)
	refresh, err := c.Request().Cookie("refreshToken")
	require.NoError(t, err)
	assert.Equal(t, "new-refresh", refresh.Value)
	other, err := c.Request().Cookie("XSRF-TOKEN")
	require.NoError(t, err)
	assert.Equal(t, "keep-me", other.Value)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	var names []string
	for _, ck := range rec.Result().Cookies() {
		names = append(names, ck.Name)
	}
	assert.ElementsMatch(t, []string{"accessToken", "refreshToken"}, names)
}

func TestRequireAuth_RefreshFails(t *testing.T) {
	refresher := &fakeRefresher{err: errors.New("boom")}
	mw := NewAutoRefreshMiddleware(testSecret, refresher)
	expired := signAccess(t, tokens.RoleStaff, time.Now().Add(-time.Minute))

	_, _, err := serve(t, mw.RequireAuth(ok),
		&http.Cookie{Name: "accessToken", Value: expired},
		&http.Cookie{Name: "refreshToken", Value: "old-refresh"},
	)
	var he *echo.HTTPError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}
