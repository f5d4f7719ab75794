package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/LMS-F-2025/classroom-service/internal/events"
	"github.com/LMS-F-2025/classroom-service/internal/models"
	"github.com/LMS-F-2025/classroom-service/internal/repositories"
	"github.com/LMS-F-2025/classroom-service/internal/validator"
)

type classroomService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewClassroomService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher) ClassroomService {
	return &classroomService{
		repo:      repo,
		logger:    logger,
		validator: v,
		publisher: publisher,
	}
}

// Create creates a classroom and its owner membership row in one
// transaction, so a classroom can never exist without an owner member.
func (s *classroomService) Create(ctx context.Context, ownerID string, req validator.CreateClassroomRequest) (*models.Classroom, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	classroom := &models.Classroom{
		OwnerID:        ownerID,
		Title:          req.Title,
		EnrollmentType: models.EnrollmentType(req.EnrollmentType),
		Price:          req.Price,
	}
	if req.Description != "" {
		classroom.Description = &req.Description
	}
	if req.AccessCode != "" {
		code := req.AccessCode
		classroom.AccessCode = &code
	}
	if req.InstituteID != nil {
		instituteID, err := uuid.Parse(*req.InstituteID)
		if err != nil {
			return nil, fmt.Errorf("invalid institute id: %w", err)
		}
		classroom.InstituteID = &instituteID
	}

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Classroom().Create(ctx, classroom); err != nil {
			return fmt.Errorf("failed to create classroom: %w", err)
		}

		owner := &models.ClassroomMember{
			ClassroomID: classroom.ID,
			UserID:      ownerID,
			Role:        models.RoleOwner,
		}
		if err := tx.Member().Create(ctx, owner); err != nil {
			return fmt.Errorf("failed to create owner membership: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Classroom created",
		"classroom_id", classroom.ID,
		"owner_id", ownerID,
		"enrollment_type", classroom.EnrollmentType)

	classroom.MemberCount = 1
	return classroom, nil
}

func (s *classroomService) GetByID(ctx context.Context, id uuid.UUID) (*models.Classroom, error) {
	classroom, err := s.repo.Classroom().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrClassroomNotFound
		}
		return nil, fmt.Errorf("failed to get classroom: %w", err)
	}

	count, err := s.repo.Member().Count(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to count members: %w", err)
	}
	classroom.MemberCount = count

	return classroom, nil
}

func (s *classroomService) List(ctx context.Context, filters repositories.ClassroomFilters) ([]*models.Classroom, int64, error) {
	classrooms, total, err := s.repo.Classroom().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list classrooms: %w", err)
	}

	for _, c := range classrooms {
		count, err := s.repo.Member().Count(ctx, c.ID)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to count members: %w", err)
		}
		c.MemberCount = count
	}

	return classrooms, total, nil
}

func (s *classroomService) Update(ctx context.Context, id uuid.UUID, userID string, req validator.UpdateClassroomRequest) (*models.Classroom, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	classroom, err := s.repo.Classroom().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrClassroomNotFound
		}
		return nil, fmt.Errorf("failed to get classroom: %w", err)
	}

	if err := requireInstructor(ctx, s.repo, id, userID, "classroom", "update"); err != nil {
		return nil, err
	}

	if req.Title != nil {
		classroom.Title = *req.Title
	}
	if req.Description != nil {
		classroom.Description = req.Description
	}
	if req.EnrollmentType != nil {
		classroom.EnrollmentType = models.EnrollmentType(*req.EnrollmentType)
	}
	if req.AccessCode != nil {
		classroom.AccessCode = req.AccessCode
	}
	if req.Price != nil {
		classroom.Price = req.Price
	}

	// A password-protected classroom must always carry an access code.
	if classroom.EnrollmentType == models.EnrollmentPassword &&
		(classroom.AccessCode == nil || *classroom.AccessCode == "") {
		return nil, ErrAccessCodeRequired
	}

	if err := s.repo.Classroom().Update(ctx, classroom); err != nil {
		return nil, fmt.Errorf("failed to update classroom: %w", err)
	}

	s.logger.Info("Classroom updated", "classroom_id", id, "user_id", userID)
	return classroom, nil
}

func (s *classroomService) Archive(ctx context.Context, id uuid.UUID, userID string) error {
	if _, err := s.repo.Classroom().GetByID(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrClassroomNotFound
		}
		return fmt.Errorf("failed to get classroom: %w", err)
	}

	if err := requireInstructor(ctx, s.repo, id, userID, "classroom", "archive"); err != nil {
		return err
	}

	if err := s.repo.Classroom().SetArchived(ctx, id, true); err != nil {
		return fmt.Errorf("failed to archive classroom: %w", err)
	}

	s.logger.Info("Classroom archived", "classroom_id", id, "user_id", userID)
	return nil
}

// Join runs the enrollment state machine. Preconditions are checked in a
// fixed order; the composite unique index on (classroom_id, user_id) is the
// last line of defense against two concurrent joins for the same user.
func (s *classroomService) Join(ctx context.Context, userID string, classroomID uuid.UUID, req validator.JoinClassroomRequest) (*models.ClassroomMember, error) {
	classroom, err := s.repo.Classroom().GetByID(ctx, classroomID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrClassroomNotFound
		}
		return nil, fmt.Errorf("failed to get classroom: %w", err)
	}

	if classroom.OwnerID == userID {
		return nil, ErrOwnerCannotJoin
	}

	if _, err := s.repo.Member().Get(ctx, classroomID, userID); err == nil {
		return nil, ErrAlreadyEnrolled
	} else if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}

	switch classroom.EnrollmentType {
	case models.EnrollmentPublic:
		// Always admit.
	case models.EnrollmentPassword:
		if req.AccessCode == "" {
			return nil, ErrAccessCodeRequired
		}
		if classroom.AccessCode == nil || req.AccessCode != *classroom.AccessCode {
			return nil, NewPermissionError(userID, "classroom", "join", "access code does not match")
		}
	case models.EnrollmentRequest, models.EnrollmentPaid:
		return nil, ErrEnrollmentNotSupported
	default:
		return nil, ErrInvalidEnrollmentType
	}

	member := &models.ClassroomMember{
		ClassroomID: classroomID,
		UserID:      userID,
		Role:        models.RoleStudent,
	}
	if err := s.repo.Member().Create(ctx, member); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrAlreadyEnrolled
		}
		return nil, fmt.Errorf("failed to create membership: %w", err)
	}

	s.logger.Info("Member joined classroom",
		"classroom_id", classroomID,
		"user_id", userID)

	if err := s.publisher.Publish(ctx, events.EventMemberJoined, events.MemberJoinedEvent{
		ClassroomID: classroomID.String(),
		UserID:      userID,
		Role:        string(models.RoleStudent),
	}); err != nil {
		s.logger.Warn("Failed to publish member joined event", "error", err)
	}

	return member, nil
}

func (s *classroomService) ListMembers(ctx context.Context, classroomID uuid.UUID, userID string) ([]*models.ClassroomMember, error) {
	if _, err := s.repo.Classroom().GetByID(ctx, classroomID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrClassroomNotFound
		}
		return nil, fmt.Errorf("failed to get classroom: %w", err)
	}

	if _, err := requireMember(ctx, s.repo, classroomID, userID, "classroom", "list members"); err != nil {
		return nil, err
	}

	members, _, err := s.repo.Member().List(ctx, classroomID, repositories.MemberFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	mergeMemberProfiles(ctx, s.repo, members)
	return members, nil
}

// mergeMemberProfiles resolves member profiles in a second lookup, degrading
// to an "Unknown" placeholder for unresolvable IDs.
func mergeMemberProfiles(ctx context.Context, repo repositories.Repository, members []*models.ClassroomMember) {
	if len(members) == 0 {
		return
	}

	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.UserID
	}

	profiles, err := repo.User().GetByIDs(ctx, ids)
	if err != nil {
		profiles = map[string]*models.User{}
	}

	for _, m := range members {
		if p, ok := profiles[m.UserID]; ok {
			m.Profile = p
		} else {
			m.Profile = &models.User{ID: m.UserID, FullName: "Unknown"}
		}
	}
}
