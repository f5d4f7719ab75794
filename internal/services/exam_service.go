package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/LMS-F-2025/classroom-service/internal/events"
	"github.com/LMS-F-2025/classroom-service/internal/models"
	"github.com/LMS-F-2025/classroom-service/internal/repositories"
	"github.com/LMS-F-2025/classroom-service/internal/validator"
)

type examService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewExamService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher) ExamService {
	return &examService{
		repo:      repo,
		logger:    logger,
		validator: v,
		publisher: publisher,
	}
}

func (s *examService) Create(ctx context.Context, classroomID uuid.UUID, userID string, req validator.CreateExamRequest) (*models.Exam, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.Classroom().GetByID(ctx, classroomID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrClassroomNotFound
		}
		return nil, fmt.Errorf("failed to get classroom: %w", err)
	}

	if err := requireInstructor(ctx, s.repo, classroomID, userID, "exam", "create"); err != nil {
		return nil, err
	}

	exam := &models.Exam{
		ClassroomID:     classroomID,
		Title:           req.Title,
		DurationMinutes: req.DurationMinutes,
		PassingScore:    req.PassingScore,
		IsPublished:     false,
	}
	if req.Description != "" {
		exam.Description = &req.Description
	}

	if err := s.repo.Exam().Create(ctx, exam); err != nil {
		return nil, fmt.Errorf("failed to create exam: %w", err)
	}

	s.logger.Info("Exam created", "exam_id", exam.ID, "classroom_id", classroomID)
	return exam, nil
}

func (s *examService) ListByClassroom(ctx context.Context, classroomID uuid.UUID, userID string) ([]*models.Exam, error) {
	if _, err := s.repo.Classroom().GetByID(ctx, classroomID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrClassroomNotFound
		}
		return nil, fmt.Errorf("failed to get classroom: %w", err)
	}

	role, err := requireMember(ctx, s.repo, classroomID, userID, "exam", "list")
	if err != nil {
		return nil, err
	}

	// Students only see published exams; drafts stay instructor-only.
	filters := repositories.ExamFilters{
		PublishedOnly: role == models.RoleStudent,
	}
	exams, _, err := s.repo.Exam().ListByClassroom(ctx, classroomID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list exams: %w", err)
	}
	return exams, nil
}

// AddQuestion appends a question with sort_order = current count + 1. Order
// is append-only and never recomputed. Adding after publish is allowed.
func (s *examService) AddQuestion(ctx context.Context, examID uuid.UUID, userID string, req validator.AddQuestionRequest) (*models.ExamQuestion, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	exam, err := s.repo.Exam().GetByID(ctx, examID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}

	if err := requireInstructor(ctx, s.repo, exam.ClassroomID, userID, "question", "add"); err != nil {
		return nil, err
	}

	options := make([]models.QuestionOption, len(req.Options))
	for i, opt := range req.Options {
		options[i] = models.QuestionOption{Key: opt.Key, Text: opt.Text}
	}
	encoded, err := json.Marshal(options)
	if err != nil {
		return nil, fmt.Errorf("failed to encode options: %w", err)
	}

	question := &models.ExamQuestion{
		ExamID:        examID,
		Content:       req.Content,
		Options:       encoded,
		CorrectOption: req.CorrectOption,
		Points:        req.Points,
		Type:          models.QuestionType(req.Type),
	}

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		count, err := tx.ExamQuestion().CountByExam(ctx, examID)
		if err != nil {
			return fmt.Errorf("failed to count questions: %w", err)
		}
		question.SortOrder = int(count) + 1

		if err := tx.ExamQuestion().Create(ctx, question); err != nil {
			return fmt.Errorf("failed to create question: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Question added",
		"exam_id", examID,
		"question_id", question.ID,
		"sort_order", question.SortOrder)
	return question, nil
}

// GetDetail returns the full authoring view including correct options. It is
// restricted to owners and instructors.
func (s *examService) GetDetail(ctx context.Context, examID uuid.UUID, userID string) (*models.Exam, error) {
	exam, err := s.repo.Exam().GetByIDWithQuestions(ctx, examID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}

	if err := requireInstructor(ctx, s.repo, exam.ClassroomID, userID, "exam", "view detail"); err != nil {
		return nil, err
	}

	return exam, nil
}

// GetForStudent returns the test-taking view. The exam must be published and
// the caller a member; correct_option is stripped from every question. The
// redaction is a hard invariant, not a convenience default.
func (s *examService) GetForStudent(ctx context.Context, examID uuid.UUID, studentID string) (*StudentExamView, error) {
	exam, err := s.repo.Exam().GetByIDWithQuestions(ctx, examID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}

	if _, err := requireMember(ctx, s.repo, exam.ClassroomID, studentID, "exam", "take"); err != nil {
		return nil, err
	}

	if !exam.IsPublished {
		return nil, ErrExamNotPublished
	}

	view := &StudentExamView{
		ID:              exam.ID,
		ClassroomID:     exam.ClassroomID,
		Title:           exam.Title,
		Description:     exam.Description,
		DurationMinutes: exam.DurationMinutes,
		Questions:       make([]StudentQuestionView, 0, len(exam.Questions)),
	}

	for _, q := range exam.Questions {
		var options []models.QuestionOption
		if len(q.Options) > 0 {
			if err := json.Unmarshal(q.Options, &options); err != nil {
				return nil, fmt.Errorf("failed to decode question options: %w", err)
			}
		}

		points := 0
		if q.Points != nil {
			points = *q.Points
		}

		view.Questions = append(view.Questions, StudentQuestionView{
			ID:        q.ID,
			Content:   q.Content,
			Type:      q.Type,
			Options:   options,
			Points:    points,
			SortOrder: q.SortOrder,
		})
	}

	return view, nil
}

// Publish flips the exam to published. The transition is one-way and
// idempotent; publishing an already-published exam is not an error.
func (s *examService) Publish(ctx context.Context, examID uuid.UUID, userID string) (*models.Exam, error) {
	exam, err := s.repo.Exam().GetByID(ctx, examID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}

	if err := requireInstructor(ctx, s.repo, exam.ClassroomID, userID, "exam", "publish"); err != nil {
		return nil, err
	}

	if exam.IsPublished {
		return exam, nil
	}

	if err := s.repo.Exam().Publish(ctx, examID); err != nil {
		return nil, fmt.Errorf("failed to publish exam: %w", err)
	}
	exam.IsPublished = true

	s.logger.Info("Exam published", "exam_id", examID, "user_id", userID)

	if err := s.publisher.Publish(ctx, events.EventExamPublished, events.ExamPublishedEvent{
		ExamID:      examID.String(),
		ClassroomID: exam.ClassroomID.String(),
		Title:       exam.Title,
		PublishedBy: userID,
	}); err != nil {
		s.logger.Warn("Failed to publish exam published event", "error", err)
	}

	return exam, nil
}

// Submit scores an attempt against a one-time in-memory index of the exam's
// questions. max_score sums points over all questions regardless of which
// were answered; the raw answer list is persisted verbatim for audit.
func (s *examService) Submit(ctx context.Context, examID uuid.UUID, studentID string, req validator.SubmitAttemptRequest) (*models.ExamAttempt, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	exam, err := s.repo.Exam().GetByID(ctx, examID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}

	if _, err := requireMember(ctx, s.repo, exam.ClassroomID, studentID, "exam", "submit"); err != nil {
		return nil, err
	}

	if !exam.IsPublished {
		return nil, ErrExamNotPublished
	}

	questions, err := s.repo.ExamQuestion().ListByExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}

	index := make(map[uuid.UUID]*models.ExamQuestion, len(questions))
	maxScore := 0.0
	for _, q := range questions {
		index[q.ID] = q
		if q.Points != nil {
			maxScore += float64(*q.Points)
		}
	}

	score := 0.0
	for _, answer := range req.Answers {
		questionID, err := uuid.Parse(answer.QuestionID)
		if err != nil {
			continue
		}
		question, ok := index[questionID]
		if !ok {
			// Unknown question ids contribute nothing.
			continue
		}
		if answer.SelectedKey == question.CorrectOption && question.Points != nil {
			score += float64(*question.Points)
		}
	}

	snapshot, err := json.Marshal(req.Answers)
	if err != nil {
		return nil, fmt.Errorf("failed to encode answers snapshot: %w", err)
	}

	now := time.Now().UTC()
	attempt := &models.ExamAttempt{
		ExamID:          examID,
		StudentID:       studentID,
		Score:           score,
		MaxScore:        maxScore,
		AnswersSnapshot: snapshot,
		StartedAt:       now,
		FinishedAt:      &now,
	}

	if err := s.repo.ExamAttempt().Create(ctx, attempt); err != nil {
		return nil, fmt.Errorf("failed to create attempt: %w", err)
	}

	s.logger.Info("Exam attempt submitted",
		"exam_id", examID,
		"student_id", studentID,
		"score", score,
		"max_score", maxScore)

	if err := s.publisher.Publish(ctx, events.EventExamAttemptSubmitted, events.ExamAttemptSubmittedEvent{
		AttemptID:   attempt.ID.String(),
		ExamID:      examID.String(),
		ClassroomID: exam.ClassroomID.String(),
		StudentID:   studentID,
		Score:       score,
		MaxScore:    maxScore,
	}); err != nil {
		s.logger.Warn("Failed to publish attempt submitted event", "error", err)
	}

	return attempt, nil
}
