package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/LMS-F-2025/classroom-service/internal/events"
	"github.com/LMS-F-2025/classroom-service/internal/models"
	"github.com/LMS-F-2025/classroom-service/internal/validator"
)

func newAssignmentService(env *testEnv) AssignmentService {
	return NewAssignmentService(env.repo, env.logger, env.validator, env.publisher)
}

func seedAssignment(env *testEnv, classroomID uuid.UUID, maxScore int) *models.Assignment {
	assignment := &models.Assignment{
		ID:          uuid.New(),
		ClassroomID: classroomID,
		Title:       "Problem set 1",
		MaxScore:    maxScore,
	}
	env.repo.store.assignments[assignment.ID] = assignment
	return assignment
}

func TestAssignmentSubmit_AttemptChain(t *testing.T) {
	env := newTestEnv()
	svc := newAssignmentService(env)
	ctx := context.Background()

	classroom := env.seedClassroom("owner-1", models.EnrollmentPublic, nil)
	env.addMember(classroom.ID, "student-1", models.RoleStudent)
	assignment := seedAssignment(env, classroom.ID, 100)

	first, err := svc.Submit(ctx, assignment.ID, "student-1", validator.SubmitAssignmentRequest{Content: "v1"})
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	second, err := svc.Submit(ctx, assignment.ID, "student-1", validator.SubmitAssignmentRequest{Content: "v2"})
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}

	if first.AttemptNumber != 1 || second.AttemptNumber != 2 {
		t.Errorf("attempt numbers = %d, %d, want 1, 2", first.AttemptNumber, second.AttemptNumber)
	}

	history, err := svc.SubmissionHistory(ctx, assignment.ID, "student-1")
	if err != nil {
		t.Fatalf("SubmissionHistory: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	for i, s := range history {
		if s.AttemptNumber != i+1 {
			t.Errorf("history[%d].AttemptNumber = %d, want %d", i, s.AttemptNumber, i+1)
		}
	}

	var latest int
	for _, s := range history {
		if s.IsLatest {
			latest++
			if s.AttemptNumber != 2 {
				t.Errorf("latest attempt = %d, want 2", s.AttemptNumber)
			}
		}
	}
	if latest != 1 {
		t.Errorf("got %d latest rows, want exactly 1", latest)
	}
}

func TestAssignmentSubmit_NonMemberForbidden(t *testing.T) {
	env := newTestEnv()
	svc := newAssignmentService(env)
	ctx := context.Background()

	classroom := env.seedClassroom("owner-1", models.EnrollmentPublic, nil)
	assignment := seedAssignment(env, classroom.ID, 100)

	_, err := svc.Submit(ctx, assignment.ID, "stranger", validator.SubmitAssignmentRequest{Content: "v1"})
	if !IsPermissionError(err) {
		t.Errorf("got %v, want PermissionError", err)
	}
}

func TestAssignmentGrade_BoundsAndEvent(t *testing.T) {
	env := newTestEnv()
	svc := newAssignmentService(env)
	ctx := context.Background()

	classroom := env.seedClassroom("owner-1", models.EnrollmentPublic, nil)
	env.addMember(classroom.ID, "student-1", models.RoleStudent)
	assignment := seedAssignment(env, classroom.ID, 50)

	submission, err := svc.Submit(ctx, assignment.ID, "student-1", validator.SubmitAssignmentRequest{Content: "v1"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if _, err := svc.Grade(ctx, submission.ID, "owner-1", validator.GradeSubmissionRequest{Grade: 51}); !errors.Is(err, ErrInvalidGrade) {
		t.Errorf("over max: got %v, want ErrInvalidGrade", err)
	}

	graded, err := svc.Grade(ctx, submission.ID, "owner-1", validator.GradeSubmissionRequest{Grade: 42, Feedback: "solid"})
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if graded.Status != models.SubmissionGraded {
		t.Errorf("status = %s, want graded", graded.Status)
	}
	if graded.Grade == nil || *graded.Grade != 42 {
		t.Errorf("grade not persisted")
	}

	published := env.publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != events.EventSubmissionGraded {
		t.Errorf("expected one %s event, got %d events", events.EventSubmissionGraded, len(published))
	}
}

func TestAssignmentGrade_StudentForbidden(t *testing.T) {
	env := newTestEnv()
	svc := newAssignmentService(env)
	ctx := context.Background()

	classroom := env.seedClassroom("owner-1", models.EnrollmentPublic, nil)
	env.addMember(classroom.ID, "student-1", models.RoleStudent)
	env.addMember(classroom.ID, "student-2", models.RoleStudent)
	assignment := seedAssignment(env, classroom.ID, 100)

	submission, err := svc.Submit(ctx, assignment.ID, "student-1", validator.SubmitAssignmentRequest{Content: "v1"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	_, err = svc.Grade(ctx, submission.ID, "student-2", validator.GradeSubmissionRequest{Grade: 10})
	if !IsPermissionError(err) {
		t.Errorf("got %v, want PermissionError", err)
	}
}

func TestAssignmentListSubmissions_LatestOnly(t *testing.T) {
	env := newTestEnv()
	svc := newAssignmentService(env)
	ctx := context.Background()

	classroom := env.seedClassroom("owner-1", models.EnrollmentPublic, nil)
	env.addMember(classroom.ID, "student-1", models.RoleStudent)
	env.addMember(classroom.ID, "student-2", models.RoleStudent)
	assignment := seedAssignment(env, classroom.ID, 100)

	for _, content := range []string{"v1", "v2", "v3"} {
		if _, err := svc.Submit(ctx, assignment.ID, "student-1", validator.SubmitAssignmentRequest{Content: content}); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}
	if _, err := svc.Submit(ctx, assignment.ID, "student-2", validator.SubmitAssignmentRequest{Content: "v1"}); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	submissions, err := svc.ListSubmissions(ctx, assignment.ID, "owner-1")
	if err != nil {
		t.Fatalf("ListSubmissions: %v", err)
	}
	if len(submissions) != 2 {
		t.Fatalf("got %d submissions, want one latest per student", len(submissions))
	}
	for _, s := range submissions {
		if !s.IsLatest {
			t.Errorf("non-latest row returned for student %s", s.StudentID)
		}
	}
}

func TestAssignmentCreate_DefaultMaxScore(t *testing.T) {
	env := newTestEnv()
	svc := newAssignmentService(env)
	ctx := context.Background()

	classroom := env.seedClassroom("owner-1", models.EnrollmentPublic, nil)

	assignment, err := svc.Create(ctx, classroom.ID, "owner-1", validator.CreateAssignmentRequest{Title: "PS1"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if assignment.MaxScore != 100 {
		t.Errorf("max score = %d, want default 100", assignment.MaxScore)
	}

	custom, err := svc.Create(ctx, classroom.ID, "owner-1", validator.CreateAssignmentRequest{Title: "PS2", MaxScore: intPtr(20)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if custom.MaxScore != 20 {
		t.Errorf("max score = %d, want 20", custom.MaxScore)
	}
}

func TestAssignmentUpdate_PartialFields(t *testing.T) {
	env := newTestEnv()
	svc := newAssignmentService(env)
	ctx := context.Background()

	classroom := env.seedClassroom("owner-1", models.EnrollmentPublic, nil)
	env.addMember(classroom.ID, "student-1", models.RoleStudent)
	assignment := seedAssignment(env, classroom.ID, 100)

	updated, err := svc.Update(ctx, assignment.ID, "owner-1", validator.UpdateAssignmentRequest{
		Title:    strPtr("Problem set 1 (revised)"),
		MaxScore: intPtr(50),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "Problem set 1 (revised)" {
		t.Errorf("title = %q", updated.Title)
	}
	if updated.MaxScore != 50 {
		t.Errorf("max score = %d, want 50", updated.MaxScore)
	}

	if _, err := svc.Update(ctx, assignment.ID, "student-1", validator.UpdateAssignmentRequest{Title: strPtr("nope")}); !IsPermissionError(err) {
		t.Errorf("student update error = %v, want permission error", err)
	}
}
