package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/LMS-F-2025/classroom-service/internal/models"
	"github.com/LMS-F-2025/classroom-service/internal/repositories"
	"github.com/LMS-F-2025/classroom-service/internal/validator"
)

type lessonService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewLessonService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator) LessonService {
	return &lessonService{repo: repo, logger: logger, validator: v}
}

func (s *lessonService) Create(ctx context.Context, classroomID uuid.UUID, userID string, req validator.CreateLessonRequest) (*models.Lesson, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.Classroom().GetByID(ctx, classroomID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrClassroomNotFound
		}
		return nil, fmt.Errorf("failed to get classroom: %w", err)
	}

	if err := requireInstructor(ctx, s.repo, classroomID, userID, "lesson", "create"); err != nil {
		return nil, err
	}

	count, err := s.repo.Lesson().CountByClassroom(ctx, classroomID)
	if err != nil {
		return nil, fmt.Errorf("failed to count lessons: %w", err)
	}

	lesson := &models.Lesson{
		ClassroomID: classroomID,
		Title:       req.Title,
		SortOrder:   int(count) + 1,
		IsPublished: true,
	}
	if req.Content != "" {
		lesson.Content = &req.Content
	}
	if req.VideoURL != "" {
		lesson.VideoURL = &req.VideoURL
	}

	if err := s.repo.Lesson().Create(ctx, lesson); err != nil {
		return nil, fmt.Errorf("failed to create lesson: %w", err)
	}

	s.logger.Info("Lesson created",
		"lesson_id", lesson.ID,
		"classroom_id", classroomID,
		"sort_order", lesson.SortOrder)
	return lesson, nil
}

func (s *lessonService) ListByClassroom(ctx context.Context, classroomID uuid.UUID, userID string) ([]*models.Lesson, error) {
	if _, err := s.repo.Classroom().GetByID(ctx, classroomID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrClassroomNotFound
		}
		return nil, fmt.Errorf("failed to get classroom: %w", err)
	}

	if _, err := requireMember(ctx, s.repo, classroomID, userID, "lesson", "list"); err != nil {
		return nil, err
	}

	lessons, err := s.repo.Lesson().ListByClassroom(ctx, classroomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lessons: %w", err)
	}
	return lessons, nil
}

func (s *lessonService) Update(ctx context.Context, id uuid.UUID, userID string, req validator.UpdateLessonRequest) (*models.Lesson, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	lesson, err := s.repo.Lesson().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrLessonNotFound
		}
		return nil, fmt.Errorf("failed to get lesson: %w", err)
	}

	if err := requireInstructor(ctx, s.repo, lesson.ClassroomID, userID, "lesson", "update"); err != nil {
		return nil, err
	}

	if req.Title != nil {
		lesson.Title = *req.Title
	}
	if req.Content != nil {
		lesson.Content = req.Content
	}
	if req.VideoURL != nil {
		lesson.VideoURL = req.VideoURL
	}
	if req.IsPublished != nil {
		lesson.IsPublished = *req.IsPublished
	}

	if err := s.repo.Lesson().Update(ctx, lesson); err != nil {
		return nil, fmt.Errorf("failed to update lesson: %w", err)
	}
	return lesson, nil
}

func (s *lessonService) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	lesson, err := s.repo.Lesson().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrLessonNotFound
		}
		return fmt.Errorf("failed to get lesson: %w", err)
	}

	if err := requireInstructor(ctx, s.repo, lesson.ClassroomID, userID, "lesson", "delete"); err != nil {
		return err
	}

	if err := s.repo.Lesson().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete lesson: %w", err)
	}

	s.logger.Info("Lesson deleted", "lesson_id", id, "user_id", userID)
	return nil
}
