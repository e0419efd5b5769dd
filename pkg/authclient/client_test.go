package authclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Login(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/login", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(TokenResponse{AccessToken: "a", RefreshToken: "r", Role: "ROLE_STAFF"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL + "/")

	res, err := c.Login(context.Background(), "linh", "secret")
	require.NoError(t, err)
	assert.Equal(t, "a", res.AccessToken)
	assert.Equal(t, "ROLE_STAFF", res.Role)

	_, err = c.Login(context.Background(), "linh", "wrong")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
}

func TestClient_Logout_SendsRefreshCookie(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/logout", r.URL.Path)
		if ck, err := r.Cookie("refreshToken"); err == nil {
			got = ck.Value
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.NoError(t, NewClient(srv.URL).Logout(context.Background(), "refresh-1"))
	assert.Equal(t, "refresh-1", got)
}

func TestClient_Logout_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	require.Error(t, NewClient(srv.URL).Logout(context.Background(), "x"))
}
