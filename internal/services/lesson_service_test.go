package services

import (
	"context"
	"testing"

	"github.com/LMS-F-2025/classroom-service/internal/models"
	"github.com/LMS-F-2025/classroom-service/internal/validator"
)

func newLessonService(env *testEnv) LessonService {
	return NewLessonService(env.repo, env.logger, env.validator)
}

func TestLessonCreate_AppendOnlyOrder(t *testing.T) {
	env := newTestEnv()
	svc := newLessonService(env)
	ctx := context.Background()

	classroom := env.seedClassroom("owner-1", models.EnrollmentPublic, nil)

	for i, title := range []string{"Intro", "Sorting", "Graphs"} {
		lesson, err := svc.Create(ctx, classroom.ID, "owner-1", validator.CreateLessonRequest{Title: title})
		if err != nil {
			t.Fatalf("Create %q: %v", title, err)
		}
		if lesson.SortOrder != i+1 {
			t.Errorf("%q sort order = %d, want %d", title, lesson.SortOrder, i+1)
		}
	}

	lessons, err := svc.ListByClassroom(ctx, classroom.ID, "owner-1")
	if err != nil {
		t.Fatalf("ListByClassroom: %v", err)
	}
	if len(lessons) != 3 {
		t.Fatalf("got %d lessons, want 3", len(lessons))
	}
	if lessons[0].Title != "Intro" || lessons[2].Title != "Graphs" {
		t.Errorf("lesson order not preserved: %s ... %s", lessons[0].Title, lessons[2].Title)
	}
}

func TestLessonCreate_StudentForbidden(t *testing.T) {
	env := newTestEnv()
	svc := newLessonService(env)
	ctx := context.Background()

	classroom := env.seedClassroom("owner-1", models.EnrollmentPublic, nil)
	env.addMember(classroom.ID, "student-1", models.RoleStudent)

	_, err := svc.Create(ctx, classroom.ID, "student-1", validator.CreateLessonRequest{Title: "Hack"})
	if !IsPermissionError(err) {
		t.Errorf("got %v, want PermissionError", err)
	}
}

func TestLessonUpdate_InstructorAllowed(t *testing.T) {
	env := newTestEnv()
	svc := newLessonService(env)
	ctx := context.Background()

	classroom := env.seedClassroom("owner-1", models.EnrollmentPublic, nil)
	env.addMember(classroom.ID, "ta-1", models.RoleInstructor)

	lesson, err := svc.Create(ctx, classroom.ID, "owner-1", validator.CreateLessonRequest{Title: "Intro"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	hidden := false
	updated, err := svc.Update(ctx, lesson.ID, "ta-1", validator.UpdateLessonRequest{IsPublished: &hidden})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.IsPublished {
		t.Errorf("lesson still published after update")
	}
}

func TestLessonDelete(t *testing.T) {
	env := newTestEnv()
	svc := newLessonService(env)
	ctx := context.Background()

	classroom := env.seedClassroom("owner-1", models.EnrollmentPublic, nil)

	lesson, err := svc.Create(ctx, classroom.ID, "owner-1", validator.CreateLessonRequest{Title: "Intro"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Delete(ctx, lesson.ID, "owner-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, lesson.ID, "owner-1"); !IsNotFound(err) {
		t.Errorf("second delete: got %v, want not found", err)
	}
}
