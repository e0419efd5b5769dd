// Package session stores the role marker written at login and read by guarded screens.
package session

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("session not found")

// Marker is the per-session value guarded screens check before rendering.
type Marker struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
}

func (m Marker) HasRole(role string) bool {
	return m.Role != "" && m.Role == role
}

type Repository interface {
	Load(ctx context.Context, id string) (Marker, error)
	Save(ctx context.Context, m Marker, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}
