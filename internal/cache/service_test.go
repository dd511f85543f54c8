package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCache(t *testing.T) (*Service, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewServiceWithClient(rdb), mr
}

func TestFriendshipKeyCanonical(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "friendship:3:7", FriendshipKey(3, 7))
	assert.Equal(t, "friendship:3:7", FriendshipKey(7, 3))
	assert.Equal(t, "profile:42", ProfileKey(42))
}

func TestGetSetJSON(t *testing.T) {
	svc, _ := setupCache(t)
	ctx := context.Background()

	type entry struct {
		Exists  bool `json:"exists"`
		Blocked bool `json:"blocked"`
	}

	var missing entry
	found, err := svc.GetJSON(ctx, "friendship:1:2", &missing)
	assert.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, svc.SetJSON(ctx, "friendship:1:2", entry{Exists: true}, time.Minute))

	var got entry
	found, err = svc.GetJSON(ctx, "friendship:1:2", &got)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.True(t, got.Exists)
	assert.False(t, got.Blocked)
}

func TestReadThroughPopulatesOnMiss(t *testing.T) {
	svc, _ := setupCache(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *string) func() error {
		return func() error {
			fetches++
			*dest = "from-store"
			return nil
		}
	}

	var first string
	require.NoError(t, svc.ReadThrough(ctx, "profile", "profile:1", &first, time.Minute, fetch(&first)))
	assert.Equal(t, "from-store", first)
	assert.Equal(t, 1, fetches)

	var second string
	require.NoError(t, svc.ReadThrough(ctx, "profile", "profile:1", &second, time.Minute, fetch(&second)))
	assert.Equal(t, "from-store", second)
	assert.Equal(t, 1, fetches, "second read must be served from cache")
}

func TestReadThroughFetchErrorPropagates(t *testing.T) {
	svc, mr := setupCache(t)
	ctx := context.Background()

	var dest string
	err := svc.ReadThrough(ctx, "profile", "profile:1", &dest, time.Minute, func() error {
		return errors.New("store unavailable")
	})
	assert.Error(t, err)
	assert.False(t, mr.Exists("profile:1"), "a failed fetch must not populate the cache")
}

func TestInvalidate(t *testing.T) {
	svc, mr := setupCache(t)
	ctx := context.Background()

	require.NoError(t, svc.SetJSON(ctx, FriendshipKey(1, 2), true, time.Minute))
	svc.InvalidateFriendship(ctx, 2, 1)
	assert.False(t, mr.Exists("friendship:1:2"))

	require.NoError(t, svc.SetJSON(ctx, ProfileKey(5), true, time.Minute))
	svc.InvalidateProfile(ctx, 5)
	assert.False(t, mr.Exists("profile:5"))
}

func TestInvalidateUserFriendships(t *testing.T) {
	svc, mr := setupCache(t)
	ctx := context.Background()

	require.NoError(t, svc.SetJSON(ctx, FriendshipKey(3, 10), true, time.Minute))
	require.NoError(t, svc.SetJSON(ctx, FriendshipKey(1, 3), true, time.Minute))
	require.NoError(t, svc.SetJSON(ctx, FriendshipKey(4, 10), true, time.Minute))

	require.NoError(t, svc.InvalidateUserFriendships(ctx, 3))

	assert.False(t, mr.Exists("friendship:3:10"))
	assert.False(t, mr.Exists("friendship:1:3"))
	assert.True(t, mr.Exists("friendship:4:10"), "unrelated pairs must survive")
}

func TestNilClientPassThrough(t *testing.T) {
	svc := NewServiceWithClient(nil)
	ctx := context.Background()

	var dest string
	found, err := svc.GetJSON(ctx, "k", &dest)
	assert.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, svc.SetJSON(ctx, "k", "v", time.Minute))
	svc.Invalidate(ctx, "k")
	assert.NoError(t, svc.InvalidateUserFriendships(ctx, 1))
	assert.NoError(t, svc.Close())

	fetched := false
	require.NoError(t, svc.ReadThrough(ctx, "profile", "k", &dest, time.Minute, func() error {
		fetched = true
		dest = "v"
		return nil
	}))
	assert.True(t, fetched)
	assert.Equal(t, "v", dest)
}
