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

type courseFixture struct {
	db       *testutil.TestDB
	course   *service.CourseService
	catalog  *cache.CatalogCache
	sessions *cache.SessionStore
	mailer   *testutil.FakeMailer
	notifier *recordingNotifier
}

type recordingNotifier struct {
	notifications []*domain.Notification
}

func (n *recordingNotifier) Broadcast(notification *domain.Notification) {
	n.notifications = append(n.notifications, notification)
}

func newCourseFixture(t *testing.T) *courseFixture {
	t.Helper()

	testDB := testutil.NewTestDB(t)
	store, _ := testutil.NewTestCache(t)
	catalog := cache.NewCatalogCache(store)
	sessions := cache.NewSessionStore(store)
	repos := postgres.NewRepositories(testDB.DB)
	mailer := &testutil.FakeMailer{}
	notifier := &recordingNotifier{}
	notifications := service.NewNotificationService(repos.Notification, notifier)

	return &courseFixture{
		db:       testDB,
		course:   service.NewCourseService(repos.Course, repos.User, catalog, mailer, notifications),
		catalog:  catalog,
		sessions: sessions,
		mailer:   mailer,
		notifier: notifier,
	}
}

func sampleCourseInput() service.CourseInput {
	return service.CourseInput{
		Name:        "Go from scratch",
		Description: "Learn Go",
		Price:       39.99,
		Level:       "Beginner",
		Benefits:    []domain.TitledItem{{Title: "Write servers"}},
		Sections: []domain.Section{
			{
				Title:    "Hello world",
				VideoURL: "https://videos.test/hello.mp4",
				Links:    []domain.SectionLink{{Title: "Docs", URL: "https://go.dev"}},
			},
		},
	}
}

func TestCourseService_GetPublic_StripsPrivateContent(t *testing.T) {
	f := newCourseFixture(t)
	ctx := context.Background()

	created, err := f.course.Create(ctx, sampleCourseInput())
	require.NoError(t, err)

	got, err := f.course.GetPublic(ctx, created.ID)
	require.NoError(t, err)

	sections, err := got.DecodeSections()
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Empty(t, sections[0].VideoURL)
	assert.Nil(t, sections[0].Links)
	assert.Nil(t, sections[0].Questions)
	assert.Equal(t, "Hello world", sections[0].Title)

	// The stripped view is what landed in the cache
	cached, err := f.catalog.GetCourse(ctx, created.ID)
	require.NoError(t, err)
	cachedSections, err := cached.DecodeSections()
	require.NoError(t, err)
	assert.Empty(t, cachedSections[0].VideoURL)
}

func TestCourseService_GetPublic_NotFound(t *testing.T) {
	f := newCourseFixture(t)

	_, err := f.course.GetPublic(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrCourseNotFound)
}

func TestCourseService_Update_InvalidatesCache(t *testing.T) {
	f := newCourseFixture(t)
	ctx := context.Background()

	created, err := f.course.Create(ctx, sampleCourseInput())
	require.NoError(t, err)

	// Warm both cache keys
	_, err = f.course.GetPublic(ctx, created.ID)
	require.NoError(t, err)
	_, err = f.course.GetAllPublic(ctx)
	require.NoError(t, err)

	input := sampleCourseInput()
	input.Name = "Go in depth"
	_, err = f.course.Update(ctx, created.ID, input)
	require.NoError(t, err)

	// Both keys were dropped, the next read rebuilds from the store
	_, err = f.catalog.GetCourse(ctx, created.ID)
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
	_, err = f.catalog.GetAllCourses(ctx)
	assert.ErrorIs(t, err, cache.ErrCacheMiss)

	got, err := f.course.GetPublic(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go in depth", got.Name)
}

func TestCourseService_GetContent_RequiresEnrollment(t *testing.T) {
	f := newCourseFixture(t)
	ctx := context.Background()

	created, err := f.course.Create(ctx, sampleCourseInput())
	require.NoError(t, err)

	outsider, _ := testutil.NewUserBuilder().Build(t, f.db.DB)
	_, err = f.course.GetContent(ctx, outsider, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotEnrolled)

	enrolled, _ := testutil.NewUserBuilder().WithCourse(created.ID).Build(t, f.db.DB)
	sections, err := f.course.GetContent(ctx, enrolled, created.ID)
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, "https://videos.test/hello.mp4", sections[0].VideoURL)

	// Admins see content without enrolling
	admin, _ := testutil.NewUserBuilder().WithRole(domain.RoleAdmin).Build(t, f.db.DB)
	_, err = f.course.GetContent(ctx, admin, created.ID)
	require.NoError(t, err)
}

func TestCourseService_Questions(t *testing.T) {
	f := newCourseFixture(t)
	ctx := context.Background()

	created, err := f.course.Create(ctx, sampleCourseInput())
	require.NoError(t, err)
	sections, err := created.DecodeSections()
	require.NoError(t, err)
	sectionID := sections[0].ID

	student, _ := testutil.NewUserBuilder().WithCourse(created.ID).Build(t, f.db.DB)

	// A new question lands in the section and raises an admin notification
	updated, err := f.course.AddQuestion(ctx, student, created.ID, sectionID, "Why interfaces?")
	require.NoError(t, err)
	gotSections, err := updated.DecodeSections()
	require.NoError(t, err)
	require.Len(t, gotSections[0].Questions, 1)
	assert.Equal(t, "Why interfaces?", gotSections[0].Questions[0].Text)
	require.Len(t, f.notifier.notifications, 1)

	questionID := gotSections[0].Questions[0].ID

	// Someone else answering mails the question author
	admin, _ := testutil.NewUserBuilder().WithRole(domain.RoleAdmin).Build(t, f.db.DB)
	answered, err := f.course.AddAnswer(ctx, admin, created.ID, sectionID, questionID, "They decouple behavior")
	require.NoError(t, err)
	gotSections, err = answered.DecodeSections()
	require.NoError(t, err)
	require.Len(t, gotSections[0].Questions[0].Replies, 1)
	assert.Len(t, f.mailer.SentTo(student.Email), 1)

	// Unknown question
	_, err = f.course.AddAnswer(ctx, admin, created.ID, sectionID, uuid.New(), "answer")
	assert.ErrorIs(t, err, domain.ErrQuestionNotFound)

	// Unknown section
	_, err = f.course.AddQuestion(ctx, student, created.ID, uuid.New(), "lost question")
	assert.ErrorIs(t, err, domain.ErrSectionNotFound)
}

func TestCourseService_Reviews(t *testing.T) {
	f := newCourseFixture(t)
	ctx := context.Background()

	created, err := f.course.Create(ctx, sampleCourseInput())
	require.NoError(t, err)

	outsider, _ := testutil.NewUserBuilder().Build(t, f.db.DB)
	_, err = f.course.AddReview(ctx, outsider, created.ID, 5, "great")
	assert.ErrorIs(t, err, domain.ErrNotEnrolled)

	first, _ := testutil.NewUserBuilder().WithCourse(created.ID).Build(t, f.db.DB)
	second, _ := testutil.NewUserBuilder().WithCourse(created.ID).Build(t, f.db.DB)

	_, err = f.course.AddReview(ctx, first, created.ID, 5, "great")
	require.NoError(t, err)
	reviewed, err := f.course.AddReview(ctx, second, created.ID, 4, "good")
	require.NoError(t, err)

	assert.InDelta(t, 4.5, reviewed.Ratings, 0.001)

	reviews, err := reviewed.DecodeReviews()
	require.NoError(t, err)
	require.Len(t, reviews, 2)

	// Admin replies to a review
	admin, _ := testutil.NewUserBuilder().WithRole(domain.RoleAdmin).Build(t, f.db.DB)
	replied, err := f.course.AddReviewReply(ctx, admin, created.ID, reviews[0].ID, "thanks!")
	require.NoError(t, err)
	gotReviews, err := replied.DecodeReviews()
	require.NoError(t, err)
	require.Len(t, gotReviews[0].Replies, 1)

	_, err = f.course.AddReviewReply(ctx, admin, created.ID, uuid.New(), "thanks!")
	assert.ErrorIs(t, err, domain.ErrReviewNotFound)
}

func TestCourseService_Delete(t *testing.T) {
	f := newCourseFixture(t)
	ctx := context.Background()

	created, err := f.course.Create(ctx, sampleCourseInput())
	require.NoError(t, err)

	require.NoError(t, f.course.Delete(ctx, created.ID))
	_, err = f.course.GetPublic(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrCourseNotFound)

	assert.ErrorIs(t, f.course.Delete(ctx, created.ID), domain.ErrCourseNotFound)
}
