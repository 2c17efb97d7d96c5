package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/priya/course-platform/internal/api/middleware"
	"github.com/priya/course-platform/internal/domain"
	"github.com/priya/course-platform/internal/service"
)

type CourseHandler struct {
	courseService *service.CourseService
}

func NewCourseHandler(courseService *service.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

type CourseRequest struct {
	Name           string              `json:"name"`
	Description    string              `json:"description"`
	Categories     string              `json:"categories"`
	Price          float64             `json:"price"`
	EstimatedPrice float64             `json:"estimatedPrice"`
	ThumbnailKey   string              `json:"thumbnailKey"`
	ThumbnailURL   string              `json:"thumbnailUrl"`
	Tags           string              `json:"tags"`
	Level          string              `json:"level"`
	DemoURL        string              `json:"demoUrl"`
	Benefits       []domain.TitledItem `json:"benefits"`
	Prerequisites  []domain.TitledItem `json:"prerequisites"`
	Sections       []domain.Section    `json:"courseData"`
}

type AddQuestionRequest struct {
	CourseID  string `json:"courseId"`
	SectionID string `json:"contentId"`
	Question  string `json:"question"`
}

type AddAnswerRequest struct {
	CourseID   string `json:"courseId"`
	SectionID  string `json:"contentId"`
	QuestionID string `json:"questionId"`
	Answer     string `json:"answer"`
}

type AddReviewRequest struct {
	Rating  float64 `json:"rating"`
	Comment string  `json:"review"`
}

type AddReviewReplyRequest struct {
	CourseID string `json:"courseId"`
	ReviewID string `json:"reviewId"`
	Comment  string `json:"comment"`
}

func (r CourseRequest) toInput() service.CourseInput {
	return service.CourseInput{
		Name:           r.Name,
		Description:    r.Description,
		Categories:     r.Categories,
		Price:          r.Price,
		EstimatedPrice: r.EstimatedPrice,
		ThumbnailKey:   r.ThumbnailKey,
		ThumbnailURL:   r.ThumbnailURL,
		Tags:           r.Tags,
		Level:          r.Level,
		DemoURL:        r.DemoURL,
		Benefits:       r.Benefits,
		Prerequisites:  r.Prerequisites,
		Sections:       r.Sections,
	}
}

func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.Description == "" {
		http.Error(w, "Name and description are required", http.StatusBadRequest)
		return
	}

	course, err := h.courseService.Create(r.Context(), req.toInput())
	if err != nil {
		log.Printf("ERROR [course.Create] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{"success": true, "course": course})
}

func (h *CourseHandler) Update(w http.ResponseWriter, r *http.Request) {
	courseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid course ID", http.StatusBadRequest)
		return
	}

	var req CourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	course, err := h.courseService.Update(r.Context(), courseID, req.toInput())
	if err != nil {
		if errors.Is(err, domain.ErrCourseNotFound) {
			http.Error(w, domain.ErrCourseNotFound.Error(), http.StatusNotFound)
			return
		}
		log.Printf("ERROR [course.Update] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true, "course": course})
}

// GetPublic serves the catalog view of a single course. Video URLs and
// per-section questions are stripped before the payload leaves the server.
func (h *CourseHandler) GetPublic(w http.ResponseWriter, r *http.Request) {
	courseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid course ID", http.StatusBadRequest)
		return
	}

	course, err := h.courseService.GetPublic(r.Context(), courseID)
	if err != nil {
		if errors.Is(err, domain.ErrCourseNotFound) {
			http.Error(w, domain.ErrCourseNotFound.Error(), http.StatusNotFound)
			return
		}
		log.Printf("ERROR [course.GetPublic] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true, "course": course})
}

func (h *CourseHandler) GetAllPublic(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courseService.GetAllPublic(r.Context())
	if err != nil {
		log.Printf("ERROR [course.GetAllPublic] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true, "courses": courses})
}

func (h *CourseHandler) GetContent(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		http.Error(w, domain.ErrNotAuthenticated.Error(), http.StatusUnauthorized)
		return
	}

	courseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid course ID", http.StatusBadRequest)
		return
	}

	content, err := h.courseService.GetContent(r.Context(), user, courseID)
	if err != nil {
		switch {
		// 404 rather than 403 so callers cannot tell an unpurchased course
		// apart from one that does not exist.
		case errors.Is(err, domain.ErrNotEnrolled):
			http.Error(w, domain.ErrNotEnrolled.Error(), http.StatusNotFound)
		case errors.Is(err, domain.ErrCourseNotFound):
			http.Error(w, domain.ErrCourseNotFound.Error(), http.StatusNotFound)
		default:
			log.Printf("ERROR [course.GetContent] %v", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true, "content": content})
}

func (h *CourseHandler) AddQuestion(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		http.Error(w, domain.ErrNotAuthenticated.Error(), http.StatusUnauthorized)
		return
	}

	var req AddQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Question == "" {
		http.Error(w, "Question text is required", http.StatusBadRequest)
		return
	}

	courseID, err := uuid.Parse(req.CourseID)
	if err != nil {
		http.Error(w, "Invalid course ID", http.StatusBadRequest)
		return
	}
	sectionID, err := uuid.Parse(req.SectionID)
	if err != nil {
		http.Error(w, "Invalid content ID", http.StatusBadRequest)
		return
	}

	course, err := h.courseService.AddQuestion(r.Context(), user, courseID, sectionID, req.Question)
	if err != nil {
		h.writeCourseMutationError(w, "course.AddQuestion", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true, "course": course})
}

func (h *CourseHandler) AddAnswer(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		http.Error(w, domain.ErrNotAuthenticated.Error(), http.StatusUnauthorized)
		return
	}

	var req AddAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Answer == "" {
		http.Error(w, "Answer text is required", http.StatusBadRequest)
		return
	}

	courseID, err := uuid.Parse(req.CourseID)
	if err != nil {
		http.Error(w, "Invalid course ID", http.StatusBadRequest)
		return
	}
	sectionID, err := uuid.Parse(req.SectionID)
	if err != nil {
		http.Error(w, "Invalid content ID", http.StatusBadRequest)
		return
	}
	questionID, err := uuid.Parse(req.QuestionID)
	if err != nil {
		http.Error(w, "Invalid question ID", http.StatusBadRequest)
		return
	}

	course, err := h.courseService.AddAnswer(r.Context(), user, courseID, sectionID, questionID, req.Answer)
	if err != nil {
		h.writeCourseMutationError(w, "course.AddAnswer", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true, "course": course})
}

func (h *CourseHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		http.Error(w, domain.ErrNotAuthenticated.Error(), http.StatusUnauthorized)
		return
	}

	courseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid course ID", http.StatusBadRequest)
		return
	}

	var req AddReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		http.Error(w, "Rating must be between 1 and 5", http.StatusBadRequest)
		return
	}

	course, err := h.courseService.AddReview(r.Context(), user, courseID, req.Rating, req.Comment)
	if err != nil {
		h.writeCourseMutationError(w, "course.AddReview", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true, "course": course})
}

func (h *CourseHandler) AddReviewReply(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		http.Error(w, domain.ErrNotAuthenticated.Error(), http.StatusUnauthorized)
		return
	}

	var req AddReviewReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Comment == "" {
		http.Error(w, "Comment is required", http.StatusBadRequest)
		return
	}

	courseID, err := uuid.Parse(req.CourseID)
	if err != nil {
		http.Error(w, "Invalid course ID", http.StatusBadRequest)
		return
	}
	reviewID, err := uuid.Parse(req.ReviewID)
	if err != nil {
		http.Error(w, "Invalid review ID", http.StatusBadRequest)
		return
	}

	course, err := h.courseService.AddReviewReply(r.Context(), user, courseID, reviewID, req.Comment)
	if err != nil {
		h.writeCourseMutationError(w, "course.AddReviewReply", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true, "course": course})
}

func (h *CourseHandler) GetAllAdmin(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courseService.GetAllAdmin(r.Context())
	if err != nil {
		log.Printf("ERROR [course.GetAllAdmin] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true, "courses": courses})
}

func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	courseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid course ID", http.StatusBadRequest)
		return
	}

	if err := h.courseService.Delete(r.Context(), courseID); err != nil {
		if errors.Is(err, domain.ErrCourseNotFound) {
			http.Error(w, domain.ErrCourseNotFound.Error(), http.StatusNotFound)
			return
		}
		log.Printf("ERROR [course.Delete] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"message": "Course deleted successfully",
	})
}

func (h *CourseHandler) writeCourseMutationError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotEnrolled):
		http.Error(w, domain.ErrNotEnrolled.Error(), http.StatusForbidden)
	case errors.Is(err, domain.ErrCourseNotFound):
		http.Error(w, domain.ErrCourseNotFound.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrSectionNotFound):
		http.Error(w, domain.ErrSectionNotFound.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrQuestionNotFound):
		http.Error(w, domain.ErrQuestionNotFound.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrReviewNotFound):
		http.Error(w, domain.ErrReviewNotFound.Error(), http.StatusNotFound)
	default:
		log.Printf("ERROR [%s] %v", op, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
