package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisRepository_SaveLoadDelete(t *testing.T) {
	mr, client := setupTestRedis(t)
	repo := NewRedisRepository(client)
	ctx := context.Background()
	m := Marker{SessionID: uuid.NewString(), UserID: "u1", Username: "anna", Role: "ROLE_STAFF"}

	require.NoError(t, repo.Save(ctx, m, time.Minute))
	assert.True(t, mr.Exists("session:"+m.SessionID))
	assert.Equal(t, time.Minute, mr.TTL("session:"+m.SessionID))

	got, err := repo.Load(ctx, m.SessionID)
	require.NoError(t, err)
	assert.Equal(t, m, got)

	require.NoError(t, repo.Delete(ctx, m.SessionID))
	_, err = repo.Load(ctx, m.SessionID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRedisRepository_Expires(t *testing.T) {
	mr, client := setupTestRedis(t)
	repo := NewRedisRepositoryWithPrefix(client, "staff-session:")
	ctx := context.Background()
	m := Marker{SessionID: "s1", Role: "ROLE_STAFF"}

	require.NoError(t, repo.Save(ctx, m, 30*time.Second))
	assert.True(t, mr.Exists("staff-session:s1"))

	mr.FastForward(31 * time.Second)

	_, err := repo.Load(ctx, "s1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRedisRepository_LoadMissing(t *testing.T) {
	_, client := setupTestRedis(t)
	repo := NewRedisRepository(client)

	_, err := repo.Load(context.Background(), "")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = repo.Load(context.Background(), uuid.NewString())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRedisRepository_CorruptValue(t *testing.T) {
	mr, client := setupTestRedis(t)
	repo := NewRedisRepository(client)
	require.NoError(t, mr.Set("session:broken", "{not json"))

	_, err := repo.Load(context.Background(), "broken")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestRedisRepository_SaveRejectsBadInput(t *testing.T) {
	_, client := setupTestRedis(t)
	repo := NewRedisRepository(client)
	ctx := context.Background()

	assert.Error(t, repo.Save(ctx, Marker{Role: "ROLE_STAFF"}, time.Minute))
	assert.Error(t, repo.Save(ctx, Marker{SessionID: "s1"}, 0))
}

func TestRedisRepository_ServerDown(t *testing.T) {
	mr, client := setupTestRedis(t)
	repo := NewRedisRepository(client)
	mr.Close()

	_, err := repo.Load(context.Background(), "s1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
