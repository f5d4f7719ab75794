package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/LMS-F-2025/classroom-service/internal/models"
)

func newStatsService(env *testEnv) StatsService {
	return NewStatsService(env.repo, env.logger)
}

func seedAttempt(env *testEnv, examID uuid.UUID, studentID string, score float64) {
	env.repo.store.attempts = append(env.repo.store.attempts, &models.ExamAttempt{
		ID:        uuid.New(),
		ExamID:    examID,
		StudentID: studentID,
		Score:     score,
		MaxScore:  100,
	})
}

func seedPublishedExam(env *testEnv, classroomID uuid.UUID) *models.Exam {
	exam := &models.Exam{
		ID:          uuid.New(),
		ClassroomID: classroomID,
		Title:       "Midterm",
		IsPublished: true,
	}
	env.repo.store.exams[exam.ID] = exam
	return exam
}

func TestStatsOverview_CountsAndRoundedAverage(t *testing.T) {
	env := newTestEnv()
	svc := newStatsService(env)
	ctx := context.Background()

	classroom := env.seedClassroom("owner-1", models.EnrollmentPublic, nil)
	env.addMember(classroom.ID, "student-1", models.RoleStudent)
	env.addMember(classroom.ID, "student-2", models.RoleStudent)
	env.addMember(classroom.ID, "ta-1", models.RoleInstructor)

	exam := seedPublishedExam(env, classroom.ID)
	draft := &models.Exam{ID: uuid.New(), ClassroomID: classroom.ID, Title: "Draft"}
	env.repo.store.exams[draft.ID] = draft

	seedAttempt(env, exam.ID, "student-1", 70)
	seedAttempt(env, exam.ID, "student-2", 80)
	seedAttempt(env, exam.ID, "student-2", 90.05)

	overview, err := svc.Overview(ctx, classroom.ID, "student-1")
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}

	// Only student-role members count; instructors and the owner do not.
	if overview.StudentCount != 2 {
		t.Errorf("student count = %d, want 2", overview.StudentCount)
	}
	if overview.PublishedExamCount != 1 {
		t.Errorf("published exam count = %d, want 1", overview.PublishedExamCount)
	}
	if overview.AttemptCount != 3 {
		t.Errorf("attempt count = %d, want 3", overview.AttemptCount)
	}
	if overview.AverageScore != 80.02 {
		t.Errorf("average = %v, want 80.02", overview.AverageScore)
	}
}

func TestStatsOverview_NoAttemptsZeroAverage(t *testing.T) {
	env := newTestEnv()
	svc := newStatsService(env)
	ctx := context.Background()

	classroom := env.seedClassroom("owner-1", models.EnrollmentPublic, nil)

	overview, err := svc.Overview(ctx, classroom.ID, "owner-1")
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if overview.AverageScore != 0 {
		t.Errorf("average = %v, want 0 when no attempts", overview.AverageScore)
	}
}

func TestStatsLeaderboard_RankingAndTies(t *testing.T) {
	env := newTestEnv()
	svc := newStatsService(env)
	ctx := context.Background()

	classroom := env.seedClassroom("owner-1", models.EnrollmentPublic, nil)
	for _, id := range []string{"student-1", "student-2", "student-3"} {
		env.addMember(classroom.ID, id, models.RoleStudent)
	}
	env.addUser("student-1", "Ada")
	env.addUser("student-2", "Grace")
	// student-3 has no resolvable profile.

	exam := seedPublishedExam(env, classroom.ID)
	seedAttempt(env, exam.ID, "student-1", 95)
	seedAttempt(env, exam.ID, "student-2", 40)
	seedAttempt(env, exam.ID, "student-3", 95)

	entries, err := svc.Leaderboard(ctx, classroom.ID, "owner-1")
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}

	// Ties share a total but still occupy distinct positions.
	if entries[0].TotalScore != 95 || entries[1].TotalScore != 95 || entries[2].TotalScore != 40 {
		t.Errorf("totals = %v, %v, %v, want 95, 95, 40",
			entries[0].TotalScore, entries[1].TotalScore, entries[2].TotalScore)
	}
	for i, e := range entries {
		if e.Rank != i+1 {
			t.Errorf("entries[%d].Rank = %d, want %d", i, e.Rank, i+1)
		}
	}

	if entries[0].FullName != "Ada" {
		t.Errorf("entries[0].FullName = %s, want Ada", entries[0].FullName)
	}
	if entries[1].FullName != "Unknown" {
		t.Errorf("unresolvable profile should render as Unknown, got %s", entries[1].FullName)
	}
}

func TestStatsLeaderboard_CapsAtTen(t *testing.T) {
	env := newTestEnv()
	svc := newStatsService(env)
	ctx := context.Background()

	classroom := env.seedClassroom("owner-1", models.EnrollmentPublic, nil)
	exam := seedPublishedExam(env, classroom.ID)
	for i := 0; i < 12; i++ {
		id := string(rune('a'+i)) + "-student"
		env.addMember(classroom.ID, id, models.RoleStudent)
		seedAttempt(env, exam.ID, id, float64(i))
	}

	entries, err := svc.Leaderboard(ctx, classroom.ID, "owner-1")
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(entries) != 10 {
		t.Errorf("got %d entries, want 10", len(entries))
	}
	if entries[0].TotalScore != 11 {
		t.Errorf("top total = %v, want 11", entries[0].TotalScore)
	}
}

func TestStatsOverview_NonMemberForbidden(t *testing.T) {
	env := newTestEnv()
	svc := newStatsService(env)
	ctx := context.Background()

	classroom := env.seedClassroom("owner-1", models.EnrollmentPublic, nil)

	_, err := svc.Overview(ctx, classroom.ID, "stranger")
	if !IsPermissionError(err) {
		t.Errorf("got %v, want PermissionError", err)
	}
}
