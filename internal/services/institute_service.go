package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/LMS-F-2025/classroom-service/internal/models"
	"github.com/LMS-F-2025/classroom-service/internal/repositories"
	"github.com/LMS-F-2025/classroom-service/internal/validator"
)

type instituteService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewInstituteService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator) InstituteService {
	return &instituteService{
		repo:      repo,
		logger:    logger,
		validator: v,
	}
}

func (s *instituteService) Create(ctx context.Context, ownerID string, req validator.CreateInstituteRequest) (*models.Institute, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	institute := &models.Institute{
		OwnerID: ownerID,
		Name:    req.Name,
	}
	if req.Description != "" {
		institute.Description = &req.Description
	}

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Institute().Create(ctx, institute); err != nil {
			return fmt.Errorf("failed to create institute: %w", err)
		}
		member := &models.InstituteMember{
			InstituteID:           institute.ID,
			UserID:                ownerID,
			Role:                  models.InstituteRoleOwner,
			IsVerifiedByInstitute: true,
			JoinedAt:              time.Now().UTC(),
		}
		if err := tx.Institute().AddMember(ctx, member); err != nil {
			return fmt.Errorf("failed to add owner member: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Institute created", "institute_id", institute.ID, "owner_id", ownerID)
	return institute, nil
}

func (s *instituteService) GetByID(ctx context.Context, id uuid.UUID) (*models.Institute, error) {
	institute, err := s.repo.Institute().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInstituteNotFound
		}
		return nil, fmt.Errorf("failed to get institute: %w", err)
	}
	return institute, nil
}

// AddMember resolves the invitee by email and enrolls them. Only the
// institute owner or an admin member may add members.
func (s *instituteService) AddMember(ctx context.Context, instituteID uuid.UUID, actorID string, req validator.AddInstituteMemberRequest) (*models.InstituteMember, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := requireInstituteAdmin(ctx, s.repo, instituteID, actorID, "add member"); err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByEmail(ctx, req.Email)
	if err != nil || user == nil {
		return nil, ErrUserNotFound
	}

	role := models.InstituteRoleStudent
	if req.Role != "" {
		role = models.InstituteRole(req.Role)
	}

	member := &models.InstituteMember{
		InstituteID: instituteID,
		UserID:      user.ID,
		Role:        role,
		JoinedAt:    time.Now().UTC(),
	}
	if req.StudentIDCode != "" {
		member.StudentIDCode = &req.StudentIDCode
	}

	if err := s.repo.Institute().AddMember(ctx, member); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrAlreadyMember
		}
		return nil, fmt.Errorf("failed to add institute member: %w", err)
	}

	member.Profile = user

	s.logger.Info("Institute member added",
		"institute_id", instituteID,
		"user_id", user.ID,
		"role", role)
	return member, nil
}

func (s *instituteService) ListMembers(ctx context.Context, instituteID uuid.UUID, actorID string) ([]*models.InstituteMember, error) {
	if _, err := s.repo.Institute().GetByID(ctx, instituteID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInstituteNotFound
		}
		return nil, fmt.Errorf("failed to get institute: %w", err)
	}

	members, _, err := s.repo.Institute().ListMembers(ctx, instituteID, repositories.InstituteMemberFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to list institute members: %w", err)
	}

	if len(members) > 0 {
		ids := make([]string, 0, len(members))
		for _, m := range members {
			ids = append(ids, m.UserID)
		}
		profiles, err := s.repo.User().GetByIDs(ctx, ids)
		if err != nil {
			s.logger.Warn("Failed to fetch institute member profiles", "error", err)
		} else {
			for _, m := range members {
				if profile, ok := profiles[m.UserID]; ok {
					m.Profile = profile
				}
			}
		}
	}
	return members, nil
}

func (s *instituteService) UpdateMember(ctx context.Context, instituteID uuid.UUID, actorID, userID string, req validator.UpdateInstituteMemberRequest) (*models.InstituteMember, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := requireInstituteAdmin(ctx, s.repo, instituteID, actorID, "update member"); err != nil {
		return nil, err
	}

	member, err := s.repo.Institute().GetMember(ctx, instituteID, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get institute member: %w", err)
	}

	if req.Role != nil {
		member.Role = models.InstituteRole(*req.Role)
	}
	if req.StudentIDCode != nil {
		member.StudentIDCode = req.StudentIDCode
	}

	if err := s.repo.Institute().UpdateMember(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to update institute member: %w", err)
	}
	return member, nil
}

func (s *instituteService) RemoveMember(ctx context.Context, instituteID uuid.UUID, actorID, userID string) error {
	institute, err := requireInstituteAdmin(ctx, s.repo, instituteID, actorID, "remove member")
	if err != nil {
		return err
	}

	member, err := s.repo.Institute().GetMember(ctx, instituteID, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("failed to get institute member: %w", err)
	}

	if member.Role == models.InstituteRoleOwner || userID == institute.OwnerID {
		return ErrCannotRemoveOwner
	}

	if err := s.repo.Institute().RemoveMember(ctx, instituteID, userID); err != nil {
		return fmt.Errorf("failed to remove institute member: %w", err)
	}

	s.logger.Info("Institute member removed", "institute_id", instituteID, "user_id", userID)
	return nil
}
