package services

import (
	"context"
	"errors"
	"testing"

	"github.com/LMS-F-2025/classroom-service/internal/events"
	"github.com/LMS-F-2025/classroom-service/internal/models"
	"github.com/LMS-F-2025/classroom-service/internal/validator"
)

func newClassroomService(env *testEnv) ClassroomService {
	return NewClassroomService(env.repo, env.logger, env.validator, env.publisher)
}

func TestClassroomCreate_OwnerMembership(t *testing.T) {
	env := newTestEnv()
	svc := newClassroomService(env)
	ctx := context.Background()

	classroom, err := svc.Create(ctx, "owner-1", validator.CreateClassroomRequest{
		Title:          "Operating Systems",
		EnrollmentType: "public",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if classroom.MemberCount != 1 {
		t.Errorf("member count = %d, want 1", classroom.MemberCount)
	}

	member, err := env.repo.Member().Get(ctx, classroom.ID, "owner-1")
	if err != nil {
		t.Fatalf("owner membership missing: %v", err)
	}
	if member.Role != models.RoleOwner {
		t.Errorf("owner role = %s, want %s", member.Role, models.RoleOwner)
	}
}

func TestClassroomJoin_Public(t *testing.T) {
	env := newTestEnv()
	svc := newClassroomService(env)
	ctx := context.Background()

	classroom := env.seedClassroom("owner-1", models.EnrollmentPublic, nil)

	member, err := svc.Join(ctx, "student-1", classroom.ID, validator.JoinClassroomRequest{})
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if member.Role != models.RoleStudent {
		t.Errorf("joined role = %s, want %s", member.Role, models.RoleStudent)
	}

	published := env.publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != events.EventMemberJoined {
		t.Errorf("expected one %s event, got %d events", events.EventMemberJoined, len(published))
	}
}

func TestClassroomJoin_PasswordTaxonomy(t *testing.T) {
	env := newTestEnv()
	svc := newClassroomService(env)
	ctx := context.Background()

	classroom := env.seedClassroom("owner-1", models.EnrollmentPassword, strPtr("s3cret"))

	if _, err := svc.Join(ctx, "student-1", classroom.ID, validator.JoinClassroomRequest{}); !errors.Is(err, ErrAccessCodeRequired) {
		t.Errorf("empty code: got %v, want ErrAccessCodeRequired", err)
	}

	_, err := svc.Join(ctx, "student-1", classroom.ID, validator.JoinClassroomRequest{AccessCode: "wrong"})
	if !IsPermissionError(err) {
		t.Errorf("wrong code: got %v, want PermissionError", err)
	}

	member, err := svc.Join(ctx, "student-1", classroom.ID, validator.JoinClassroomRequest{AccessCode: "s3cret"})
	if err != nil {
		t.Fatalf("correct code: %v", err)
	}
	if member.Role != models.RoleStudent {
		t.Errorf("joined role = %s, want %s", member.Role, models.RoleStudent)
	}

	if _, err := svc.Join(ctx, "student-1", classroom.ID, validator.JoinClassroomRequest{AccessCode: "s3cret"}); !errors.Is(err, ErrAlreadyEnrolled) {
		t.Errorf("second join: got %v, want ErrAlreadyEnrolled", err)
	}
}

func TestClassroomJoin_OwnerConflict(t *testing.T) {
	env := newTestEnv()
	svc := newClassroomService(env)
	ctx := context.Background()

	classroom := env.seedClassroom("owner-1", models.EnrollmentPublic, nil)

	if _, err := svc.Join(ctx, "owner-1", classroom.ID, validator.JoinClassroomRequest{}); !errors.Is(err, ErrOwnerCannotJoin) {
		t.Errorf("owner join: got %v, want ErrOwnerCannotJoin", err)
	}
}

func TestClassroomJoin_UnsupportedAndUnknownTypes(t *testing.T) {
	env := newTestEnv()
	svc := newClassroomService(env)
	ctx := context.Background()

	tests := []struct {
		name       string
		enrollment models.EnrollmentType
		want       error
	}{
		{"request", models.EnrollmentRequest, ErrEnrollmentNotSupported},
		{"paid", models.EnrollmentPaid, ErrEnrollmentNotSupported},
		{"institute_only", models.EnrollmentInstituteOnly, ErrInvalidEnrollmentType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classroom := env.seedClassroom("owner-"+tt.name, tt.enrollment, nil)
			if _, err := svc.Join(ctx, "student-1", classroom.ID, validator.JoinClassroomRequest{}); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestClassroomUpdate_PasswordRequiresCode(t *testing.T) {
	env := newTestEnv()
	svc := newClassroomService(env)
	ctx := context.Background()

	classroom := env.seedClassroom("owner-1", models.EnrollmentPublic, nil)

	enrollment := "password"
	_, err := svc.Update(ctx, classroom.ID, "owner-1", validator.UpdateClassroomRequest{
		EnrollmentType: &enrollment,
	})
	if !errors.Is(err, ErrAccessCodeRequired) {
		t.Errorf("got %v, want ErrAccessCodeRequired", err)
	}

	code := "s3cret"
	updated, err := svc.Update(ctx, classroom.ID, "owner-1", validator.UpdateClassroomRequest{
		EnrollmentType: &enrollment,
		AccessCode:     &code,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.EnrollmentType != models.EnrollmentPassword {
		t.Errorf("enrollment type = %s, want password", updated.EnrollmentType)
	}
}

func TestClassroomUpdate_StudentForbidden(t *testing.T) {
	env := newTestEnv()
	svc := newClassroomService(env)
	ctx := context.Background()

	classroom := env.seedClassroom("owner-1", models.EnrollmentPublic, nil)
	env.addMember(classroom.ID, "student-1", models.RoleStudent)

	title := "Hijacked"
	_, err := svc.Update(ctx, classroom.ID, "student-1", validator.UpdateClassroomRequest{Title: &title})
	if !IsPermissionError(err) {
		t.Errorf("got %v, want PermissionError", err)
	}
}

func TestClassroomListMembers_ProfileFallback(t *testing.T) {
	env := newTestEnv()
	svc := newClassroomService(env)
	ctx := context.Background()

	classroom := env.seedClassroom("owner-1", models.EnrollmentPublic, nil)
	env.addMember(classroom.ID, "student-1", models.RoleStudent)
	env.addUser("owner-1", "Ada Lovelace")
	// student-1 has no profile in the identity provider.

	members, err := svc.ListMembers(ctx, classroom.ID, "owner-1")
	if err != nil {
		t.Fatalf("ListMembers: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("got %d members, want 2", len(members))
	}
	for _, m := range members {
		switch m.UserID {
		case "owner-1":
			if m.Profile == nil || m.Profile.FullName != "Ada Lovelace" {
				t.Errorf("owner profile not resolved")
			}
		case "student-1":
			if m.Profile == nil || m.Profile.FullName != "Unknown" {
				t.Errorf("missing profile should fall back to Unknown placeholder")
			}
		}
	}
}

func TestClassroomListMembers_NonMemberForbidden(t *testing.T) {
	env := newTestEnv()
	svc := newClassroomService(env)
	ctx := context.Background()

	classroom := env.seedClassroom("owner-1", models.EnrollmentPublic, nil)

	_, err := svc.ListMembers(ctx, classroom.ID, "stranger")
	if !IsPermissionError(err) {
		t.Errorf("got %v, want PermissionError", err)
	}
}
