package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/LMS-F-2025/classroom-service/internal/models"
	"github.com/LMS-F-2025/classroom-service/internal/repositories"
)

// Role resolution is a read-only projection over membership rows, re-derived
// from the store on every call. It is never cached.

// roleOf resolves a user's role inside a classroom. Returns
// ErrMemberNotFound when the user has no membership row.
func roleOf(ctx context.Context, repo repositories.Repository, classroomID uuid.UUID, userID string) (models.ClassroomRole, error) {
	member, err := repo.Member().Get(ctx, classroomID, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return "", ErrMemberNotFound
		}
		return "", fmt.Errorf("failed to resolve role: %w", err)
	}
	return member.Role, nil
}

// requireInstructor gates every mutating classroom-scoped operation on an
// owner or instructor role.
func requireInstructor(ctx context.Context, repo repositories.Repository, classroomID uuid.UUID, userID, resource, action string) error {
	role, err := roleOf(ctx, repo, classroomID, userID)
	if err != nil {
		if err == ErrMemberNotFound {
			return NewPermissionError(userID, resource, action, "not a member of this classroom")
		}
		return err
	}

	if role != models.RoleOwner && role != models.RoleInstructor {
		return NewPermissionError(userID, resource, action, "requires owner or instructor role")
	}
	return nil
}

// requireMember gates viewing operations on any membership row.
func requireMember(ctx context.Context, repo repositories.Repository, classroomID uuid.UUID, userID, resource, action string) (models.ClassroomRole, error) {
	role, err := roleOf(ctx, repo, classroomID, userID)
	if err != nil {
		if err == ErrMemberNotFound {
			return "", NewPermissionError(userID, resource, action, "not a member of this classroom")
		}
		return "", err
	}
	return role, nil
}

// requireInstituteAdmin authorizes institute-scoped mutations. The institute
// root owner is authorized even without a member row; this prevents owner
// lockout when the creator lacks a membership record.
func requireInstituteAdmin(ctx context.Context, repo repositories.Repository, instituteID uuid.UUID, userID, action string) (*models.Institute, error) {
	institute, err := repo.Institute().GetByID(ctx, instituteID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInstituteNotFound
		}
		return nil, fmt.Errorf("failed to load institute: %w", err)
	}

	if institute.OwnerID == userID {
		return institute, nil
	}

	member, err := repo.Institute().GetMember(ctx, instituteID, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewPermissionError(userID, "institute", action, "not a member of this institute")
		}
		return nil, fmt.Errorf("failed to resolve institute role: %w", err)
	}

	if member.Role != models.InstituteRoleOwner && member.Role != models.InstituteRoleAdmin {
		return nil, NewPermissionError(userID, "institute", action, "requires owner or admin role")
	}
	return institute, nil
}
