package tokens

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessToken_RoundTrip(t *testing.T) {
	secret := []byte("access-secret")
	exp := time.Now().Add(15 * time.Minute)

	signed, err := SignAccessToken(AccessClaims{
		Role:     RoleStaff,
		Username: "linh",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}, secret)
	require.NoError(t, err)

	claims, err := AccessClaimsFromToken(signed, secret)
	require.NoError(t, err)
	assert.Equal(t, RoleStaff, claims.Role)
	assert.Equal(t, "linh", claims.Username)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestAccessToken_WrongSecret(t *testing.T) {
	signed, err := SignAccessToken(AccessClaims{Role: RoleStaff}, []byte("one"))
	require.NoError(t, err)

	claims, err := AccessClaimsFromToken(signed, []byte("two"))
	require.Error(t, err)
	assert.Nil(t, claims)
}

func TestAccessToken_Expired(t *testing.T) {
	secret := []byte("access-secret")
	signed, err := SignAccessToken(AccessClaims{
		Role: RoleStaff,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}, secret)
	require.NoError(t, err)

	_, err = AccessClaimsFromToken(signed, secret)
	require.Error(t, err)
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired))
}

func TestRefreshToken_RoundTrip(t *testing.T) {
	secret := []byte("refresh-secret")
	signed, err := SignRefreshToken(RefreshClaims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-2",
			ID:        "jti-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}, secret)
	require.NoError(t, err)

	claims, err := RefreshClaimsFromToken(signed, secret)
	require.NoError(t, err)
	assert.Equal(t, "jti-1", claims.ID)
	assert.Equal(t, RoleAdmin, claims.Role)
}
