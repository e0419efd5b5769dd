package httpserver

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/little_lovely/pkg/authclient"
	jwthelp "github.com/Skotchmaster/little_lovely/pkg/jwt"
	"github.com/Skotchmaster/little_lovely/pkg/middleware/csrf"
	"github.com/Skotchmaster/little_lovely/pkg/tokens"
)

var gwSecret = []byte("gateway-test-secret")

// backend answers with its name and the path it received.
func backend(t *testing.T, name string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, name+" "+r.Method+" "+r.URL.Path)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newGateway(t *testing.T) *echo.Echo {
	t.Helper()
	e := echo.New()
	require.NoError(t, Register(e, &Deps{
		AuthURL:    backend(t, "auth").URL,
		CatalogURL: backend(t, "catalog").URL,
		StaffURL:   backend(t, "staff").URL,
		JWTSecret:  gwSecret,
		CSRFConfig: csrf.DefaultConfig(),
	}))
	return e
}

func signAccess(t *testing.T, role string, exp time.Time) string {
	t.Helper()
	tok, err := tokens.SignAccessToken(tokens.AccessClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}, gwSecret)
	require.NoError(t, err)
	return tok
}

func accessCookie(t *testing.T, role string) *http.Cookie {
	t.Helper()
	return &http.Cookie{Name: jwthelp.AccessCookie, Value: signAccess(t, role, time.Now().Add(time.Minute))}
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func writeRequest(method, target string, cookies ...*http.Cookie) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("X-CSRF-Token", "csrf-value")
	req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: "csrf-value"})
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func TestRegister_ProxiesAuthWithPrefixStripped(t *testing.T) {
	e := newGateway(t)

	rec := serve(e, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "auth POST /login", rec.Body.String())
}

func TestRegister_CatalogReadsArePublic(t *testing.T) {
	e := newGateway(t)

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products/active", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "catalog GET /catalog/products/active", rec.Body.String())
}

func TestRegister_CatalogWrites(t *testing.T) {
	tests := []struct {
		name     string
		cookies  []*http.Cookie
		wantCode int
	}{
		{name: "no token", wantCode: http.StatusUnauthorized},
		{name: "customer", cookies: []*http.Cookie{accessCookie(t, tokens.RoleCustomer)}, wantCode: http.StatusForbidden},
		{name: "staff", cookies: []*http.Cookie{accessCookie(t, tokens.RoleStaff)}, wantCode: http.StatusOK},
		{name: "admin", cookies: []*http.Cookie{accessCookie(t, tokens.RoleAdmin)}, wantCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newGateway(t)

			rec := serve(e, writeRequest(http.MethodPost, "/api/v1/catalog/products", tt.cookies...))

			require.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, "catalog POST /catalog/products", rec.Body.String())
			}
		})
	}
}

func TestRegister_CatalogWriteWithoutCSRFToken(t *testing.T) {
	e := newGateway(t)
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/catalog/products/42", nil)
	req.Header.Set("Origin", "http://example.com")
	req.AddCookie(accessCookie(t, tokens.RoleStaff))

	rec := serve(e, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRegister_StaffConsoleRoutes(t *testing.T) {
	e := newGateway(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/"},
		{http.MethodPost, "/login"},
		{http.MethodPost, "/logout"},
		{http.MethodGet, "/staff/profile"},
		{http.MethodGet, "/static/staff.css"},
	} {
		rec := serve(e, httptest.NewRequest(tc.method, tc.path, nil))
		require.Equal(t, http.StatusOK, rec.Code, tc.path)
		assert.Equal(t, "staff "+tc.method+" "+tc.path, rec.Body.String())
	}
}

func TestRegister_Health(t *testing.T) {
	e := newGateway(t)

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegister_InvalidTarget(t *testing.T) {
	e := echo.New()
	err := Register(e, &Deps{AuthURL: "://bad", CatalogURL: "http://x", StaffURL: "http://y"})
	assert.Error(t, err)

	err = Register(echo.New(), &Deps{AuthURL: "http://x", CatalogURL: "http://y", StaffURL: "staff:8080"})
	assert.ErrorIs(t, err, errNoHost)
}

func TestRegister_ExpiredTokenRefreshedBeforeProxying(t *testing.T) {
	fresh := signAccess(t, tokens.RoleStaff, time.Now().Add(time.Minute))

	auth := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/refresh", r.URL.Path)
		ck, err := r.Cookie(jwthelp.RefreshCookie)
		require.NoError(t, err)
		assert.Equal(t, "old-refresh", ck.Value)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(authclient.TokenResponse{
			AccessToken:  fresh,
			RefreshToken: "new-refresh",
			AccessExp:    time.Now().Add(time.Minute).Unix(),
			RefreshExp:   time.Now().Add(time.Hour).Unix(),
			Role:         tokens.RoleStaff,
		})
	}))
	t.Cleanup(auth.Close)

	// The catalog sees the renewed pair, not the revoked one.
	catalog := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		access, _ := r.Cookie(jwthelp.AccessCookie)
		refresh, _ := r.Cookie(jwthelp.RefreshCookie)
		if access == nil || refresh == nil || access.Value != fresh || refresh.Value != "new-refresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(catalog.Close)

	e := echo.New()
	require.NoError(t, Register(e, &Deps{
		AuthURL:    auth.URL,
		CatalogURL: catalog.URL,
		StaffURL:   backend(t, "staff").URL,
		JWTSecret:  gwSecret,
		Refresher:  authclient.NewClient(auth.URL),
		CSRFConfig: csrf.DefaultConfig(),
	}))

	rec := serve(e, writeRequest(http.MethodPost, "/api/v1/catalog/products",
		&http.Cookie{Name: jwthelp.AccessCookie, Value: signAccess(t, tokens.RoleStaff, time.Now().Add(-time.Minute))},
		&http.Cookie{Name: jwthelp.RefreshCookie, Value: "old-refresh"},
	))

	require.Equal(t, http.StatusCreated, rec.Code)
	var names []string
	for _, ck := range rec.Result().Cookies() {
		names = append(names, ck.Name)
	}
	assert.Contains(t, names, jwthelp.AccessCookie)
	assert.Contains(t, names, jwthelp.RefreshCookie)
}

func TestRegister_ExpiredTokenWithoutRefresher(t *testing.T) {
	e := newGateway(t)

	rec := serve(e, writeRequest(http.MethodPost, "/api/v1/catalog/products",
		&http.Cookie{Name: jwthelp.AccessCookie, Value: signAccess(t, tokens.RoleStaff, time.Now().Add(-time.Minute))},
	))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegister_UpstreamDown(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	e := echo.New()
	require.NoError(t, Register(e, &Deps{
		AuthURL:    deadURL,
		CatalogURL: backend(t, "catalog").URL,
		StaffURL:   backend(t, "staff").URL,
		JWTSecret:  gwSecret,
		CSRFConfig: csrf.DefaultConfig(),
	}))

	rec := serve(e, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "auth is unavailable")
}

func TestRegister_ForwardsHostAndRequestID(t *testing.T) {
	var gotHost, gotRequestID, gotProto string
	staff := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHost = r.Host
		gotRequestID = r.Header.Get(echo.HeaderXRequestID)
		gotProto = r.Header.Get("X-Forwarded-Proto")
	}))
	t.Cleanup(staff.Close)

	e := echo.New()
	require.NoError(t, Register(e, &Deps{
		AuthURL:    backend(t, "auth").URL,
		CatalogURL: backend(t, "catalog").URL,
		StaffURL:   staff.URL,
		JWTSecret:  gwSecret,
		CSRFConfig: csrf.DefaultConfig(),
	}))

	req := httptest.NewRequest(http.MethodGet, "/staff/profile", nil)
	req.Host = "shop.example"
	rec := serve(e, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "shop.example", gotHost)
	assert.Equal(t, "http", gotProto)
	assert.NotEmpty(t, gotRequestID)
	assert.Equal(t, rec.Header().Get(echo.HeaderXRequestID), gotRequestID)
}
