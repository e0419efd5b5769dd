package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/little_lovely/pkg/authclient"
	jwthelp "github.com/Skotchmaster/little_lovely/pkg/jwt"
	"github.com/Skotchmaster/little_lovely/pkg/tokens"
	"github.com/Skotchmaster/little_lovely/services/auth/internal/models"
	"github.com/Skotchmaster/little_lovely/services/auth/internal/repo"
	"github.com/Skotchmaster/little_lovely/services/auth/internal/service"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	e := echo.New()
	Register(e, &Deps{AuthHandler: &AuthHTTP{Svc: &service.AuthService{
		Repo:          &repo.GormRepo{DB: db},
		JWTSecret:     []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	}}})
	return e
}

func postJSON(e *echo.Echo, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func TestRegister(t *testing.T) {
	e := newTestServer(t)

	rec := postJSON(e, "/register", `{"username":"anna","password":"Secret123"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(e, "/register", `{"username":"anna","password":"Secret123"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = postJSON(e, "/register", `{"username":"","password":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_ReturnsTokensAndCookies(t *testing.T) {
	e := newTestServer(t)
	require.Equal(t, http.StatusCreated, postJSON(e, "/register", `{"username":"anna","password":"Secret123"}`).Code)

	rec := postJSON(e, "/login", `{"username":"anna","password":"Secret123"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp authclient.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, tokens.RoleCustomer, resp.Role)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Greater(t, resp.RefreshExp, resp.AccessExp)

	access := findCookie(rec, jwthelp.AccessCookie)
	require.NotNil(t, access)
	assert.Equal(t, resp.AccessToken, access.Value)
	require.NotNil(t, findCookie(rec, jwthelp.RefreshCookie))

	rec = postJSON(e, "/login", `{"username":"anna","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshAndLogout(t *testing.T) {
	e := newTestServer(t)
	require.Equal(t, http.StatusCreated, postJSON(e, "/register", `{"username":"anna","password":"Secret123"}`).Code)
	rec := postJSON(e, "/login", `{"username":"anna","password":"Secret123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	refresh := findCookie(rec, jwthelp.RefreshCookie)
	require.NotNil(t, refresh)

	rec = postJSON(e, "/refresh", "", &http.Cookie{Name: jwthelp.RefreshCookie, Value: refresh.Value})
	require.Equal(t, http.StatusOK, rec.Code)
	rotated := findCookie(rec, jwthelp.RefreshCookie)
	require.NotNil(t, rotated)
	assert.NotEqual(t, refresh.Value, rotated.Value)

	rec = postJSON(e, "/refresh", "", &http.Cookie{Name: jwthelp.RefreshCookie, Value: refresh.Value})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = postJSON(e, "/logout", "", &http.Cookie{Name: jwthelp.RefreshCookie, Value: rotated.Value})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postJSON(e, "/refresh", "", &http.Cookie{Name: jwthelp.RefreshCookie, Value: rotated.Value})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogout_WithoutCookie(t *testing.T) {
	e := newTestServer(t)

	rec := postJSON(e, "/logout", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRefresh_MissingCookie(t *testing.T) {
	e := newTestServer(t)

	rec := postJSON(e, "/refresh", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
