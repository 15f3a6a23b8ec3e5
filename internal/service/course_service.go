package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/learnifyhq/learnify-backend/internal/model"
	"github.com/learnifyhq/learnify-backend/internal/repository"
)

// Course domain errors.
var (
	ErrCourseNotFound = errors.New("course not found")
	// ErrNotOwner is returned when a teacher touches a resource another
	// teacher owns.
	ErrNotOwner = errors.New("not the resource owner")
)

// CourseService handles the course catalog.
type CourseService struct {
	courses *repository.CourseRepository
	log     zerolog.Logger
}

// NewCourseService creates a new CourseService.
func NewCourseService(courses *repository.CourseRepository, log zerolog.Logger) *CourseService {
	return &CourseService{
		courses: courses,
		log:     log.With().Str("component", "course_service").Logger(),
	}
}

// Create persists a course owned by the given teacher.
func (s *CourseService) Create(ctx context.Context, teacherID string, req *model.CreateCourseRequest) (*model.Course, error) {
	course := &model.Course{
		Title:       req.Title,
		Description: req.Description,
		TeacherID:   teacherID,
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}

	s.log.Info().
		Str("course_id", course.ID.String()).
		Str("teacher_id", teacherID).
		Msg("Course created")
	return course, nil
}

// Get retrieves one course.
func (s *CourseService) Get(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	course, err := s.courses.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCourseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	return course, nil
}

// List retrieves the full course catalog.
func (s *CourseService) List(ctx context.Context) ([]model.Course, error) {
	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	if courses == nil {
		courses = []model.Course{}
	}
	return courses, nil
}

// Update applies partial changes to a course the teacher owns.
func (s *CourseService) Update(ctx context.Context, id uuid.UUID, teacherID string, req *model.UpdateCourseRequest) (*model.Course, error) {
	course, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if course.TeacherID != teacherID {
		return nil, ErrNotOwner
	}

	if req.Title != "" {
		course.Title = req.Title
	}
	if req.Description != "" {
		course.Description = req.Description
	}
	if err := s.courses.Update(ctx, course); err != nil {
		return nil, fmt.Errorf("update course: %w", err)
	}
	return course, nil
}

// Delete removes a course the teacher owns.
func (s *CourseService) Delete(ctx context.Context, id uuid.UUID, teacherID string) error {
	course, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if course.TeacherID != teacherID {
		return ErrNotOwner
	}
	if err := s.courses.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}

	s.log.Info().Str("course_id", id.String()).Msg("Course deleted")
	return nil
}
