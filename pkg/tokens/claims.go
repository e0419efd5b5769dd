package tokens

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleCustomer = "ROLE_CUSTOMER"
	RoleStaff    = "ROLE_STAFF"
	RoleAdmin    = "ROLE_ADMIN"
)

var ErrInvalidToken = errors.New("invalid token")

type AccessClaims struct {
	Role     string `json:"role"`
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func keyFunc(secret []byte) jwt.Keyfunc {
	return func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return secret, nil
	}
}
