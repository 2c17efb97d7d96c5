package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/priya/course-platform/internal/cache"
	"github.com/priya/course-platform/internal/domain"
	"github.com/priya/course-platform/internal/mail"
	"github.com/priya/course-platform/internal/repository"
	"gorm.io/gorm"
)

type CourseService struct {
	courseRepo    repository.CourseRepository
	userRepo      repository.UserRepository
	catalog       *cache.CatalogCache
	mailer        Mailer
	notifications *NotificationService
}

func NewCourseService(
	courseRepo repository.CourseRepository,
	userRepo repository.UserRepository,
	catalog *cache.CatalogCache,
	mailer Mailer,
	notifications *NotificationService,
) *CourseService {
	return &CourseService{
		courseRepo:    courseRepo,
		userRepo:      userRepo,
		catalog:       catalog,
		mailer:        mailer,
		notifications: notifications,
	}
}

type CourseInput struct {
	Name           string
	Description    string
	Categories     string
	Price          float64
	EstimatedPrice float64
	ThumbnailKey   string
	ThumbnailURL   string
	Tags           string
	Level          string
	DemoURL        string
	Benefits       []domain.TitledItem
	Prerequisites  []domain.TitledItem
	Sections       []domain.Section
}

func (s *CourseService) Create(ctx context.Context, input CourseInput) (*domain.Course, error) {
	course := &domain.Course{
		ID:             uuid.New(),
		Name:           input.Name,
		Description:    input.Description,
		Categories:     input.Categories,
		Price:          input.Price,
		EstimatedPrice: input.EstimatedPrice,
		ThumbnailKey:   input.ThumbnailKey,
		ThumbnailURL:   input.ThumbnailURL,
		Tags:           input.Tags,
		Level:          input.Level,
		DemoURL:        input.DemoURL,
	}

	if err := setJSON(&course.Benefits, input.Benefits); err != nil {
		return nil, err
	}
	if err := setJSON(&course.Prerequisites, input.Prerequisites); err != nil {
		return nil, err
	}
	for i := range input.Sections {
		if input.Sections[i].ID == uuid.Nil {
			input.Sections[i].ID = uuid.New()
		}
	}
	if err := course.SetSections(input.Sections); err != nil {
		return nil, err
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}

	s.invalidate(ctx, course.ID)
	return course, nil
}

func (s *CourseService) Update(ctx context.Context, id uuid.UUID, input CourseInput) (*domain.Course, error) {
	course, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	course.Name = input.Name
	course.Description = input.Description
	course.Categories = input.Categories
	course.Price = input.Price
	course.EstimatedPrice = input.EstimatedPrice
	course.Tags = input.Tags
	course.Level = input.Level
	course.DemoURL = input.DemoURL
	if input.ThumbnailKey != "" {
		course.ThumbnailKey = input.ThumbnailKey
		course.ThumbnailURL = input.ThumbnailURL
	}
	if err := setJSON(&course.Benefits, input.Benefits); err != nil {
		return nil, err
	}
	if err := setJSON(&course.Prerequisites, input.Prerequisites); err != nil {
		return nil, err
	}
	if input.Sections != nil {
		for i := range input.Sections {
			if input.Sections[i].ID == uuid.Nil {
				input.Sections[i].ID = uuid.New()
			}
		}
		if err := course.SetSections(input.Sections); err != nil {
			return nil, err
		}
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}

	s.invalidate(ctx, course.ID)
	return course, nil
}

// GetPublic serves the catalog view of one course through the read-through
// cache. Cached entries are pre-stripped of private content.
func (s *CourseService) GetPublic(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	if cached, err := s.catalog.GetCourse(ctx, id); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		log.Printf("ERROR [course.GetPublic] cache read failed: %v", err)
	}

	course, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := course.StripPrivateContent(); err != nil {
		return nil, err
	}

	if err := s.catalog.SetCourse(ctx, course); err != nil {
		log.Printf("ERROR [course.GetPublic] cache write failed: %v", err)
	}
	return course, nil
}

// GetAllPublic serves the full catalog listing through the cache.
func (s *CourseService) GetAllPublic(ctx context.Context) ([]*domain.Course, error) {
	if cached, err := s.catalog.GetAllCourses(ctx); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		log.Printf("ERROR [course.GetAllPublic] cache read failed: %v", err)
	}

	courses, err := s.courseRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, course := range courses {
		if err := course.StripPrivateContent(); err != nil {
			return nil, err
		}
	}

	if err := s.catalog.SetAllCourses(ctx, courses); err != nil {
		log.Printf("ERROR [course.GetAllPublic] cache write failed: %v", err)
	}
	return courses, nil
}

// GetContent returns the full sections of a course for an enrolled user.
// Admins bypass the enrollment check.
func (s *CourseService) GetContent(ctx context.Context, user *domain.User, courseID uuid.UUID) ([]domain.Section, error) {
	if user.Role != domain.RoleAdmin && !user.Enrolled(courseID) {
		return nil, domain.ErrNotEnrolled
	}

	course, err := s.getByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return course.DecodeSections()
}

// AddQuestion appends a question to a section's Q&A thread.
func (s *CourseService) AddQuestion(ctx context.Context, user *domain.User, courseID, sectionID uuid.UUID, text string) (*domain.Course, error) {
	if user.Role != domain.RoleAdmin && !user.Enrolled(courseID) {
		return nil, domain.ErrNotEnrolled
	}

	course, err := s.getByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	sections, err := course.DecodeSections()
	if err != nil {
		return nil, err
	}

	idx := sectionIndex(sections, sectionID)
	if idx < 0 {
		return nil, domain.ErrSectionNotFound
	}

	sections[idx].Questions = append(sections[idx].Questions, domain.Comment{
		ID:     uuid.New(),
		UserID: user.ID,
		Name:   user.Name,
		Text:   text,
	})

	if err := course.SetSections(sections); err != nil {
		return nil, err
	}
	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}

	s.notifications.Create(ctx, user.ID, "New Question Received",
		"You have a new question in "+sections[idx].Title)

	return course, nil
}

// AddAnswer appends a reply to a question. The question's author is told by
// email, unless they answered themselves, in which case only the admin
// notification is created.
func (s *CourseService) AddAnswer(ctx context.Context, user *domain.User, courseID, sectionID, questionID uuid.UUID, text string) (*domain.Course, error) {
	course, err := s.getByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	sections, err := course.DecodeSections()
	if err != nil {
		return nil, err
	}

	si := sectionIndex(sections, sectionID)
	if si < 0 {
		return nil, domain.ErrSectionNotFound
	}

	qi := -1
	for i := range sections[si].Questions {
		if sections[si].Questions[i].ID == questionID {
			qi = i
			break
		}
	}
	if qi < 0 {
		return nil, domain.ErrQuestionNotFound
	}

	question := &sections[si].Questions[qi]
	question.Replies = append(question.Replies, domain.Comment{
		ID:     uuid.New(),
		UserID: user.ID,
		Name:   user.Name,
		Text:   text,
	})

	if err := course.SetSections(sections); err != nil {
		return nil, err
	}
	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}

	if question.UserID == user.ID {
		s.notifications.Create(ctx, user.ID, "New Question Reply Received",
			"You have a new reply in "+sections[si].Title)
	} else if author, err := s.userRepo.GetByID(ctx, question.UserID); err == nil {
		data := mail.QuestionReplyData{
			Name:         author.Name,
			CourseName:   course.Name,
			SectionTitle: sections[si].Title,
		}
		if err := s.mailer.Send(author.Email, "Question Reply", "question_reply", data); err != nil {
			log.Printf("ERROR [course.AddAnswer] failed to send reply mail: %v", err)
		}
	}

	return course, nil
}

// AddReview stores an enrolled user's review and recomputes the average
// rating.
func (s *CourseService) AddReview(ctx context.Context, user *domain.User, courseID uuid.UUID, rating float64, comment string) (*domain.Course, error) {
	if user.Role != domain.RoleAdmin && !user.Enrolled(courseID) {
		return nil, domain.ErrNotEnrolled
	}

	course, err := s.getByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	reviews, err := course.DecodeReviews()
	if err != nil {
		return nil, err
	}

	reviews = append(reviews, domain.Review{
		ID:      uuid.New(),
		UserID:  user.ID,
		Name:    user.Name,
		Rating:  rating,
		Comment: comment,
	})

	var total float64
	for _, r := range reviews {
		total += r.Rating
	}
	course.Ratings = total / float64(len(reviews))

	if err := course.SetReviews(reviews); err != nil {
		return nil, err
	}
	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}

	s.invalidate(ctx, course.ID)
	s.notifications.Create(ctx, user.ID, "New Review Received",
		user.Name+" has given a review on "+course.Name)

	return course, nil
}

// AddReviewReply lets an admin answer a review in place.
func (s *CourseService) AddReviewReply(ctx context.Context, user *domain.User, courseID, reviewID uuid.UUID, comment string) (*domain.Course, error) {
	course, err := s.getByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	reviews, err := course.DecodeReviews()
	if err != nil {
		return nil, err
	}

	ri := -1
	for i := range reviews {
		if reviews[i].ID == reviewID {
			ri = i
			break
		}
	}
	if ri < 0 {
		return nil, domain.ErrReviewNotFound
	}

	reviews[ri].Replies = append(reviews[ri].Replies, domain.Comment{
		ID:     uuid.New(),
		UserID: user.ID,
		Name:   user.Name,
		Text:   comment,
	})

	if err := course.SetReviews(reviews); err != nil {
		return nil, err
	}
	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}

	s.invalidate(ctx, course.ID)
	return course, nil
}

// GetAllAdmin returns every course with private content intact.
func (s *CourseService) GetAllAdmin(ctx context.Context) ([]*domain.Course, error) {
	return s.courseRepo.GetAll(ctx)
}

func (s *CourseService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.getByID(ctx, id); err != nil {
		return err
	}
	if err := s.courseRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *CourseService) getByID(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

func (s *CourseService) invalidate(ctx context.Context, id uuid.UUID) {
	if err := s.catalog.Invalidate(ctx, id); err != nil {
		log.Printf("ERROR [course.invalidate] failed to drop cache keys for %s: %v", id, err)
	}
}

func sectionIndex(sections []domain.Section, id uuid.UUID) int {
	for i := range sections {
		if sections[i].ID == id {
			return i
		}
	}
	return -1
}
