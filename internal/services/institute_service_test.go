package services

import (
	"context"
	"errors"
	"testing"

	"github.com/LMS-F-2025/classroom-service/internal/models"
	"github.com/LMS-F-2025/classroom-service/internal/validator"
)

func newInstituteService(env *testEnv) InstituteService {
	return NewInstituteService(env.repo, env.logger, env.validator)
}

func TestInstituteCreate_OwnerMembership(t *testing.T) {
	env := newTestEnv()
	svc := newInstituteService(env)
	ctx := context.Background()

	institute, err := svc.Create(ctx, "owner-1", validator.CreateInstituteRequest{Name: "Springfield High"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	member, err := env.repo.Institute().GetMember(ctx, institute.ID, "owner-1")
	if err != nil {
		t.Fatalf("owner membership missing: %v", err)
	}
	if member.Role != models.InstituteRoleOwner {
		t.Errorf("owner role = %s, want %s", member.Role, models.InstituteRoleOwner)
	}
	if !member.IsVerifiedByInstitute {
		t.Errorf("owner should be verified")
	}
}

func TestInstituteAddMember_ByEmail(t *testing.T) {
	env := newTestEnv()
	svc := newInstituteService(env)
	ctx := context.Background()

	env.addUser("teacher-1", "Jaime Rivera")

	institute, err := svc.Create(ctx, "owner-1", validator.CreateInstituteRequest{Name: "Springfield High"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	member, err := svc.AddMember(ctx, institute.ID, "owner-1", validator.AddInstituteMemberRequest{
		Email: "teacher-1@example.com",
		Role:  "teacher",
	})
	if err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if member.UserID != "teacher-1" || member.Role != models.InstituteRoleTeacher {
		t.Errorf("member = %s/%s, want teacher-1/teacher", member.UserID, member.Role)
	}

	if _, err := svc.AddMember(ctx, institute.ID, "owner-1", validator.AddInstituteMemberRequest{
		Email: "teacher-1@example.com",
	}); !errors.Is(err, ErrAlreadyMember) {
		t.Errorf("second add: got %v, want ErrAlreadyMember", err)
	}
}

func TestInstituteAddMember_UnknownEmail(t *testing.T) {
	env := newTestEnv()
	svc := newInstituteService(env)
	ctx := context.Background()

	institute, err := svc.Create(ctx, "owner-1", validator.CreateInstituteRequest{Name: "Springfield High"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = svc.AddMember(ctx, institute.ID, "owner-1", validator.AddInstituteMemberRequest{
		Email: "nobody@example.com",
	})
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("got %v, want ErrUserNotFound", err)
	}
}

func TestInstituteAddMember_NonAdminForbidden(t *testing.T) {
	env := newTestEnv()
	svc := newInstituteService(env)
	ctx := context.Background()

	env.addUser("student-1", "Sam Lee")
	env.addUser("student-2", "Val Chen")

	institute, err := svc.Create(ctx, "owner-1", validator.CreateInstituteRequest{Name: "Springfield High"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.AddMember(ctx, institute.ID, "owner-1", validator.AddInstituteMemberRequest{
		Email: "student-1@example.com",
	}); err != nil {
		t.Fatalf("AddMember: %v", err)
	}

	_, err = svc.AddMember(ctx, institute.ID, "student-1", validator.AddInstituteMemberRequest{
		Email: "student-2@example.com",
	})
	if !IsPermissionError(err) {
		t.Errorf("got %v, want PermissionError", err)
	}
}

func TestInstituteRemoveMember_OwnerProtected(t *testing.T) {
	env := newTestEnv()
	svc := newInstituteService(env)
	ctx := context.Background()

	env.addUser("teacher-1", "Jaime Rivera")

	institute, err := svc.Create(ctx, "owner-1", validator.CreateInstituteRequest{Name: "Springfield High"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.AddMember(ctx, institute.ID, "owner-1", validator.AddInstituteMemberRequest{
		Email: "teacher-1@example.com",
		Role:  "teacher",
	}); err != nil {
		t.Fatalf("AddMember: %v", err)
	}

	if err := svc.RemoveMember(ctx, institute.ID, "owner-1", "owner-1"); !errors.Is(err, ErrCannotRemoveOwner) {
		t.Errorf("remove owner: got %v, want ErrCannotRemoveOwner", err)
	}

	if err := svc.RemoveMember(ctx, institute.ID, "owner-1", "teacher-1"); err != nil {
		t.Fatalf("RemoveMember: %v", err)
	}
	if _, err := env.repo.Institute().GetMember(ctx, institute.ID, "teacher-1"); err == nil {
		t.Errorf("member still present after removal")
	}
}

func TestInstituteUpdateMember_RoleAndCode(t *testing.T) {
	env := newTestEnv()
	svc := newInstituteService(env)
	ctx := context.Background()

	env.addUser("student-1", "Sam Lee")

	institute, err := svc.Create(ctx, "owner-1", validator.CreateInstituteRequest{Name: "Springfield High"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.AddMember(ctx, institute.ID, "owner-1", validator.AddInstituteMemberRequest{
		Email: "student-1@example.com",
	}); err != nil {
		t.Fatalf("AddMember: %v", err)
	}

	role := "teacher"
	updated, err := svc.UpdateMember(ctx, institute.ID, "owner-1", "student-1", validator.UpdateInstituteMemberRequest{
		Role:          &role,
		StudentIDCode: strPtr("SH-042"),
	})
	if err != nil {
		t.Fatalf("UpdateMember: %v", err)
	}
	if updated.Role != models.InstituteRoleTeacher {
		t.Errorf("role = %s, want teacher", updated.Role)
	}
	if updated.StudentIDCode == nil || *updated.StudentIDCode != "SH-042" {
		t.Errorf("student id code not updated")
	}
}
