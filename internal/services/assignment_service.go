package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/LMS-F-2025/classroom-service/internal/events"
	"github.com/LMS-F-2025/classroom-service/internal/models"
	"github.com/LMS-F-2025/classroom-service/internal/repositories"
	"github.com/LMS-F-2025/classroom-service/internal/validator"
)

type assignmentService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewAssignmentService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher) AssignmentService {
	return &assignmentService{
		repo:      repo,
		logger:    logger,
		validator: v,
		publisher: publisher,
	}
}

func (s *assignmentService) Create(ctx context.Context, classroomID uuid.UUID, userID string, req validator.CreateAssignmentRequest) (*models.Assignment, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.Classroom().GetByID(ctx, classroomID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrClassroomNotFound
		}
		return nil, fmt.Errorf("failed to get classroom: %w", err)
	}

	if err := requireInstructor(ctx, s.repo, classroomID, userID, "assignment", "create"); err != nil {
		return nil, err
	}

	assignment := &models.Assignment{
		ClassroomID: classroomID,
		Title:       req.Title,
		DueDate:     req.DueDate,
		MaxScore:    100,
	}
	if req.Description != "" {
		assignment.Description = &req.Description
	}
	if req.MaxScore != nil {
		assignment.MaxScore = *req.MaxScore
	}

	if err := s.repo.Assignment().Create(ctx, assignment); err != nil {
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}

	s.logger.Info("Assignment created",
		"assignment_id", assignment.ID,
		"classroom_id", classroomID)
	return assignment, nil
}

func (s *assignmentService) ListByClassroom(ctx context.Context, classroomID uuid.UUID, userID string) ([]*models.Assignment, error) {
	if _, err := s.repo.Classroom().GetByID(ctx, classroomID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrClassroomNotFound
		}
		return nil, fmt.Errorf("failed to get classroom: %w", err)
	}

	if _, err := requireMember(ctx, s.repo, classroomID, userID, "assignment", "list"); err != nil {
		return nil, err
	}

	assignments, err := s.repo.Assignment().ListByClassroom(ctx, classroomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return assignments, nil
}

func (s *assignmentService) Update(ctx context.Context, id uuid.UUID, userID string, req validator.UpdateAssignmentRequest) (*models.Assignment, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	assignment, err := s.repo.Assignment().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	if err := requireInstructor(ctx, s.repo, assignment.ClassroomID, userID, "assignment", "update"); err != nil {
		return nil, err
	}

	if req.Title != nil {
		assignment.Title = *req.Title
	}
	if req.Description != nil {
		assignment.Description = req.Description
	}
	if req.MaxScore != nil {
		assignment.MaxScore = *req.MaxScore
	}
	if req.DueDate != nil {
		assignment.DueDate = req.DueDate
	}

	if err := s.repo.Assignment().Update(ctx, assignment); err != nil {
		return nil, fmt.Errorf("failed to update assignment: %w", err)
	}
	return assignment, nil
}

// Submit records a new attempt in the per-(assignment, student) stream. The
// is_latest flip and the insert run in one transaction so two concurrent
// submissions can never both end up latest.
func (s *assignmentService) Submit(ctx context.Context, assignmentID uuid.UUID, studentID string, req validator.SubmitAssignmentRequest) (*models.AssignmentSubmission, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	assignment, err := s.repo.Assignment().GetByID(ctx, assignmentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	if _, err := requireMember(ctx, s.repo, assignment.ClassroomID, studentID, "assignment", "submit"); err != nil {
		return nil, err
	}

	submission := &models.AssignmentSubmission{
		AssignmentID: assignmentID,
		StudentID:    studentID,
		IsLatest:     true,
		Status:       models.SubmissionSubmitted,
	}
	if req.Content != "" {
		submission.Content = &req.Content
	}
	if len(req.FileURLs) > 0 {
		urls, err := json.Marshal(req.FileURLs)
		if err != nil {
			return nil, fmt.Errorf("failed to encode file urls: %w", err)
		}
		submission.FileURLs = urls
	}

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		count, err := tx.Submission().CountAttempts(ctx, assignmentID, studentID)
		if err != nil {
			return fmt.Errorf("failed to count attempts: %w", err)
		}
		submission.AttemptNumber = int(count) + 1

		if count > 0 {
			if err := tx.Submission().MarkAllStale(ctx, assignmentID, studentID); err != nil {
				return fmt.Errorf("failed to mark prior attempts stale: %w", err)
			}
		}

		if err := tx.Submission().Create(ctx, submission); err != nil {
			return fmt.Errorf("failed to create submission: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Assignment submitted",
		"assignment_id", assignmentID,
		"student_id", studentID,
		"attempt_number", submission.AttemptNumber)
	return submission, nil
}

// Grade resolves the submission's owning classroom transitively and
// authorizes before writing grade, feedback, and the graded status.
func (s *assignmentService) Grade(ctx context.Context, submissionID uuid.UUID, teacherID string, req validator.GradeSubmissionRequest) (*models.AssignmentSubmission, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	submission, err := s.repo.Submission().GetByID(ctx, submissionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	assignment, err := s.repo.Assignment().GetByID(ctx, submission.AssignmentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	if err := requireInstructor(ctx, s.repo, assignment.ClassroomID, teacherID, "submission", "grade"); err != nil {
		return nil, err
	}

	if req.Grade < 0 || req.Grade > float64(assignment.MaxScore) {
		return nil, ErrInvalidGrade
	}

	grade := req.Grade
	submission.Grade = &grade
	submission.Status = models.SubmissionGraded
	if req.Feedback != "" {
		submission.Feedback = &req.Feedback
	}

	if err := s.repo.Submission().Update(ctx, submission); err != nil {
		return nil, fmt.Errorf("failed to update submission: %w", err)
	}

	s.logger.Info("Submission graded",
		"submission_id", submissionID,
		"teacher_id", teacherID,
		"grade", grade)

	if err := s.publisher.Publish(ctx, events.EventSubmissionGraded, events.SubmissionGradedEvent{
		SubmissionID: submissionID.String(),
		AssignmentID: assignment.ID.String(),
		ClassroomID:  assignment.ClassroomID.String(),
		StudentID:    submission.StudentID,
		Grade:        grade,
	}); err != nil {
		s.logger.Warn("Failed to publish submission graded event", "error", err)
	}

	return submission, nil
}

// ListSubmissions returns the latest attempt per student, newest first, for
// instructors.
func (s *assignmentService) ListSubmissions(ctx context.Context, assignmentID uuid.UUID, teacherID string) ([]*models.AssignmentSubmission, error) {
	assignment, err := s.repo.Assignment().GetByID(ctx, assignmentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	if err := requireInstructor(ctx, s.repo, assignment.ClassroomID, teacherID, "submission", "list"); err != nil {
		return nil, err
	}

	submissions, err := s.repo.Submission().ListLatestByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	s.mergeProfiles(ctx, submissions)
	return submissions, nil
}

// SubmissionHistory returns a student's own attempt chain, oldest first.
func (s *assignmentService) SubmissionHistory(ctx context.Context, assignmentID uuid.UUID, studentID string) ([]*models.AssignmentSubmission, error) {
	assignment, err := s.repo.Assignment().GetByID(ctx, assignmentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	if _, err := requireMember(ctx, s.repo, assignment.ClassroomID, studentID, "assignment", "view history"); err != nil {
		return nil, err
	}

	history, err := s.repo.Submission().ListHistory(ctx, assignmentID, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submission history: %w", err)
	}
	return history, nil
}

func (s *assignmentService) mergeProfiles(ctx context.Context, submissions []*models.AssignmentSubmission) {
	if len(submissions) == 0 {
		return
	}

	ids := make([]string, len(submissions))
	for i, sub := range submissions {
		ids[i] = sub.StudentID
	}

	profiles, err := s.repo.User().GetByIDs(ctx, ids)
	if err != nil {
		profiles = map[string]*models.User{}
	}

	for _, sub := range submissions {
		if p, ok := profiles[sub.StudentID]; ok {
			sub.Profile = p
		} else {
			sub.Profile = &models.User{ID: sub.StudentID, FullName: "Unknown"}
		}
	}
}
