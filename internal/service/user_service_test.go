package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/priya/course-platform/internal/cache"
	"github.com/priya/course-platform/internal/domain"
	"github.com/priya/course-platform/internal/repository/postgres"
	"github.com/priya/course-platform/internal/service"
	"github.com/priya/course-platform/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userFixture struct {
	db       *testutil.TestDB
	user     *service.UserService
	sessions *cache.SessionStore
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()

	testDB := testutil.NewTestDB(t)
	store, _ := testutil.NewTestCache(t)
	sessions := cache.NewSessionStore(store)
	repos := postgres.NewRepositories(testDB.DB)

	return &userFixture{
		db:       testDB,
		user:     service.NewUserService(repos.User, sessions, testutil.FakeAssets{}),
		sessions: sessions,
	}
}

func strPtr(s string) *string { return &s }

func TestUserService_UpdateInfo(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, f.db.DB)
	require.NoError(t, f.sessions.Set(ctx, user))

	updated, err := f.user.UpdateInfo(ctx, user.ID, service.UpdateInfoInput{
		Name:  strPtr("New Name"),
		Email: strPtr("newmail@example.com"),
	})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "newmail@example.com", updated.Email)

	// The session snapshot follows the profile
	cached, err := f.sessions.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "newmail@example.com", cached.Email)
}

func TestUserService_UpdateInfo_EmailTaken(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	testutil.NewUserBuilder().WithEmail("taken@example.com").Build(t, f.db.DB)
	user, _ := testutil.NewUserBuilder().Build(t, f.db.DB)

	_, err := f.user.UpdateInfo(ctx, user.ID, service.UpdateInfoInput{
		Email: strPtr("taken@example.com"),
	})
	assert.ErrorIs(t, err, domain.ErrEmailExists)
}

func TestUserService_UpdateInfo_InvalidEmail(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, f.db.DB)

	_, err := f.user.UpdateInfo(ctx, user.ID, service.UpdateInfoInput{
		Email: strPtr("not-an-email"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)
}

func TestUserService_UpdatePassword(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	user, password := testutil.NewUserBuilder().WithPassword("oldpassword").Build(t, f.db.DB)

	_, err := f.user.UpdatePassword(ctx, user.ID, service.UpdatePasswordInput{
		OldPassword: "wrong",
		NewPassword: "newpassword",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = f.user.UpdatePassword(ctx, user.ID, service.UpdatePasswordInput{
		OldPassword: password,
		NewPassword: "newpassword",
	})
	require.NoError(t, err)
}

func TestUserService_UpdatePassword_SocialAccount(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	// Social accounts carry no password hash
	social := &domain.User{
		ID:         uuid.New(),
		Name:       "social",
		Email:      "social-pw@example.com",
		Role:       domain.RoleUser,
		IsVerified: true,
	}
	require.NoError(t, f.db.DB.Create(social).Error)

	_, err := f.user.UpdatePassword(ctx, social.ID, service.UpdatePasswordInput{
		OldPassword: "anything",
		NewPassword: "newpassword",
	})
	assert.ErrorIs(t, err, domain.ErrPasswordNotSet)
}

func TestUserService_UpdateAvatar(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, f.db.DB)

	key, uploadURL, err := f.user.AvatarUploadURL(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, key)
	assert.NotEmpty(t, uploadURL)

	updated, err := f.user.UpdateAvatar(ctx, user.ID, key)
	require.NoError(t, err)
	assert.Equal(t, "https://assets.test/"+key, updated.AvatarURL)
}

func TestUserService_UpdateRole(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, f.db.DB)

	updated, err := f.user.UpdateRole(ctx, user.ID, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, updated.Role)

	// The cached session picks up the new role immediately
	cached, err := f.sessions.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, cached.Role)

	_, err = f.user.UpdateRole(ctx, user.ID, "superuser")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUserService_Delete_RevokesSession(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, f.db.DB)
	require.NoError(t, f.sessions.Set(ctx, user))

	require.NoError(t, f.user.Delete(ctx, user.ID))

	_, err := f.sessions.Get(ctx, user.ID)
	assert.ErrorIs(t, err, cache.ErrCacheMiss)

	assert.ErrorIs(t, f.user.Delete(ctx, user.ID), domain.ErrUserNotFound)
}
