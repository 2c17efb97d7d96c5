package cache_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/priya/course-platform/internal/cache"
	"github.com/priya/course-platform/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) cache.Store {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})

	return cache.NewRedisStore(client)
}

func TestSessionStore_RoundTrip(t *testing.T) {
	sessions := cache.NewSessionStore(newTestStore(t))
	ctx := context.Background()

	user := &domain.User{
		ID:           uuid.New(),
		Name:         "Test User",
		Email:        "test@example.com",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		Role:         domain.RoleUser,
		IsVerified:   true,
	}

	require.NoError(t, sessions.Set(ctx, user))

	got, err := sessions.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, user.Email, got.Email)
	// The snapshot is a server-side mirror, hash included.
	assert.Equal(t, user.PasswordHash, got.PasswordHash)
}

func TestSessionStore_Miss(t *testing.T) {
	sessions := cache.NewSessionStore(newTestStore(t))

	_, err := sessions.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}

func TestSessionStore_OverwriteIsLastWriterWins(t *testing.T) {
	sessions := cache.NewSessionStore(newTestStore(t))
	ctx := context.Background()

	user := &domain.User{ID: uuid.New(), Name: "Before", Email: "a@b.co"}
	require.NoError(t, sessions.Set(ctx, user))

	user.Name = "After"
	require.NoError(t, sessions.Set(ctx, user))

	got, err := sessions.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "After", got.Name)
}

func TestSessionStore_DeleteIsIdempotent(t *testing.T) {
	sessions := cache.NewSessionStore(newTestStore(t))
	ctx := context.Background()

	user := &domain.User{ID: uuid.New(), Email: "a@b.co"}
	require.NoError(t, sessions.Set(ctx, user))

	require.NoError(t, sessions.Delete(ctx, user.ID))
	require.NoError(t, sessions.Delete(ctx, user.ID))

	_, err := sessions.Get(ctx, user.ID)
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}

func TestCatalogCache_InvalidateDropsListing(t *testing.T) {
	catalog := cache.NewCatalogCache(newTestStore(t))
	ctx := context.Background()

	course := &domain.Course{ID: uuid.New(), Name: "Go Basics", Price: 49}
	require.NoError(t, catalog.SetCourse(ctx, course))
	require.NoError(t, catalog.SetAllCourses(ctx, []*domain.Course{course}))

	got, err := catalog.GetCourse(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, course.Name, got.Name)

	require.NoError(t, catalog.Invalidate(ctx, course.ID))

	_, err = catalog.GetCourse(ctx, course.ID)
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
	_, err = catalog.GetAllCourses(ctx)
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}
