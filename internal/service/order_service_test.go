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

type orderFixture struct {
	db       *testutil.TestDB
	order    *service.OrderService
	sessions *cache.SessionStore
	catalog  *cache.CatalogCache
	mailer   *testutil.FakeMailer
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	testDB := testutil.NewTestDB(t)
	store, _ := testutil.NewTestCache(t)
	sessions := cache.NewSessionStore(store)
	catalog := cache.NewCatalogCache(store)
	repos := postgres.NewRepositories(testDB.DB)
	mailer := &testutil.FakeMailer{}
	notifications := service.NewNotificationService(repos.Notification, &recordingNotifier{})

	return &orderFixture{
		db:       testDB,
		order:    service.NewOrderService(repos.Order, repos.Course, repos.User, sessions, catalog, mailer, notifications),
		sessions: sessions,
		catalog:  catalog,
		mailer:   mailer,
	}
}

func TestOrderService_Create(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	course := testutil.NewCourseBuilder().Build(t, f.db.DB)
	user, _ := testutil.NewUserBuilder().Build(t, f.db.DB)

	order, err := f.order.Create(ctx, user.ID, service.CreateOrderInput{CourseID: course.ID})
	require.NoError(t, err)
	assert.Equal(t, course.ID, order.CourseID)
	assert.Equal(t, user.ID, order.UserID)

	// The user is enrolled and the session snapshot reflects it
	cached, err := f.sessions.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, cached.Enrolled(course.ID))

	// A confirmation mail went out
	assert.Len(t, f.mailer.SentTo(user.Email), 1)

	// Buying the same course twice is refused
	_, err = f.order.Create(ctx, user.ID, service.CreateOrderInput{CourseID: course.ID})
	assert.ErrorIs(t, err, domain.ErrAlreadyPurchased)
}

func TestOrderService_Create_UnknownCourseAndUser(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, f.db.DB)
	_, err := f.order.Create(ctx, user.ID, service.CreateOrderInput{CourseID: uuid.New()})
	assert.ErrorIs(t, err, domain.ErrCourseNotFound)

	course := testutil.NewCourseBuilder().Build(t, f.db.DB)
	_, err = f.order.Create(ctx, uuid.New(), service.CreateOrderInput{CourseID: course.ID})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestOrderService_Create_MailFailureDoesNotFailOrder(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	course := testutil.NewCourseBuilder().Build(t, f.db.DB)
	user, _ := testutil.NewUserBuilder().Build(t, f.db.DB)

	f.mailer.Err = assert.AnError
	order, err := f.order.Create(ctx, user.ID, service.CreateOrderInput{CourseID: course.ID})
	require.NoError(t, err)
	assert.NotNil(t, order)
}

func TestOrderService_GetAll(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	course := testutil.NewCourseBuilder().Build(t, f.db.DB)
	first, _ := testutil.NewUserBuilder().Build(t, f.db.DB)
	second, _ := testutil.NewUserBuilder().Build(t, f.db.DB)

	_, err := f.order.Create(ctx, first.ID, service.CreateOrderInput{CourseID: course.ID})
	require.NoError(t, err)
	_, err = f.order.Create(ctx, second.ID, service.CreateOrderInput{CourseID: course.ID})
	require.NoError(t, err)

	orders, err := f.order.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}
