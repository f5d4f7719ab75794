package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/LMS-F-2025/classroom-service/internal/models"
	"github.com/LMS-F-2025/classroom-service/internal/repositories"
	"github.com/LMS-F-2025/classroom-service/internal/validator"
)

// ===== RESPONSE TYPES =====

// ClassroomOverviewResponse is the aggregate view served per classroom.
// AverageScore is rounded to two decimals, zero when no attempts exist.
type ClassroomOverviewResponse struct {
	StudentCount       int64   `json:"student_count"`
	LessonCount        int64   `json:"lesson_count"`
	AssignmentCount    int64   `json:"assignment_count"`
	PublishedExamCount int64   `json:"published_exam_count"`
	SessionCount       int64   `json:"session_count"`
	AttemptCount       int64   `json:"attempt_count"`
	AverageScore       float64 `json:"average_score"`
}

// LeaderboardEntry is one ranked row of the classroom leaderboard.
type LeaderboardEntry struct {
	Rank         int     `json:"rank"`
	StudentID    string  `json:"student_id"`
	FullName     string  `json:"full_name"`
	AvatarURL    *string `json:"avatar_url,omitempty"`
	TotalScore   float64 `json:"total_score"`
	AttemptCount int64   `json:"attempt_count"`
}

// StudentExamView is the redacted exam payload served to test-takers. The
// correct option is stripped from every question.
type StudentExamView struct {
	ID              uuid.UUID             `json:"id"`
	ClassroomID     uuid.UUID             `json:"classroom_id"`
	Title           string                `json:"title"`
	Description     *string               `json:"description"`
	DurationMinutes int                   `json:"duration_minutes"`
	Questions       []StudentQuestionView `json:"questions"`
}

type StudentQuestionView struct {
	ID        uuid.UUID               `json:"id"`
	Content   string                  `json:"content"`
	Type      models.QuestionType     `json:"type"`
	Options   []models.QuestionOption `json:"options"`
	Points    int                     `json:"points"`
	SortOrder int                     `json:"sort_order"`
}

// ===== SERVICE INTERFACES =====

type ClassroomService interface {
	Create(ctx context.Context, ownerID string, req validator.CreateClassroomRequest) (*models.Classroom, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Classroom, error)
	List(ctx context.Context, filters repositories.ClassroomFilters) ([]*models.Classroom, int64, error)
	Update(ctx context.Context, id uuid.UUID, userID string, req validator.UpdateClassroomRequest) (*models.Classroom, error)
	Archive(ctx context.Context, id uuid.UUID, userID string) error
	Join(ctx context.Context, userID string, classroomID uuid.UUID, req validator.JoinClassroomRequest) (*models.ClassroomMember, error)
	ListMembers(ctx context.Context, classroomID uuid.UUID, userID string) ([]*models.ClassroomMember, error)
}

type LessonService interface {
	Create(ctx context.Context, classroomID uuid.UUID, userID string, req validator.CreateLessonRequest) (*models.Lesson, error)
	ListByClassroom(ctx context.Context, classroomID uuid.UUID, userID string) ([]*models.Lesson, error)
	Update(ctx context.Context, id uuid.UUID, userID string, req validator.UpdateLessonRequest) (*models.Lesson, error)
	Delete(ctx context.Context, id uuid.UUID, userID string) error
}

type AssignmentService interface {
	Create(ctx context.Context, classroomID uuid.UUID, userID string, req validator.CreateAssignmentRequest) (*models.Assignment, error)
	ListByClassroom(ctx context.Context, classroomID uuid.UUID, userID string) ([]*models.Assignment, error)
	Update(ctx context.Context, id uuid.UUID, userID string, req validator.UpdateAssignmentRequest) (*models.Assignment, error)
	Submit(ctx context.Context, assignmentID uuid.UUID, studentID string, req validator.SubmitAssignmentRequest) (*models.AssignmentSubmission, error)
	Grade(ctx context.Context, submissionID uuid.UUID, teacherID string, req validator.GradeSubmissionRequest) (*models.AssignmentSubmission, error)
	ListSubmissions(ctx context.Context, assignmentID uuid.UUID, teacherID string) ([]*models.AssignmentSubmission, error)
	SubmissionHistory(ctx context.Context, assignmentID uuid.UUID, studentID string) ([]*models.AssignmentSubmission, error)
}

type ExamService interface {
	Create(ctx context.Context, classroomID uuid.UUID, userID string, req validator.CreateExamRequest) (*models.Exam, error)
	ListByClassroom(ctx context.Context, classroomID uuid.UUID, userID string) ([]*models.Exam, error)
	AddQuestion(ctx context.Context, examID uuid.UUID, userID string, req validator.AddQuestionRequest) (*models.ExamQuestion, error)
	GetDetail(ctx context.Context, examID uuid.UUID, userID string) (*models.Exam, error)
	GetForStudent(ctx context.Context, examID uuid.UUID, studentID string) (*StudentExamView, error)
	Publish(ctx context.Context, examID uuid.UUID, userID string) (*models.Exam, error)
	Submit(ctx context.Context, examID uuid.UUID, studentID string, req validator.SubmitAttemptRequest) (*models.ExamAttempt, error)
}

type AttendanceService interface {
	CreateSession(ctx context.Context, classroomID uuid.UUID, userID string, req validator.CreateAttendanceSessionRequest) (*models.AttendanceSession, error)
	ListSessions(ctx context.Context, classroomID uuid.UUID, userID string) ([]*models.AttendanceSession, error)
	CheckIn(ctx context.Context, sessionID uuid.UUID, studentID string, req validator.CheckInRequest) (*models.AttendanceRecord, error)
	ListRecords(ctx context.Context, sessionID uuid.UUID, userID string) ([]*models.AttendanceRecord, error)
}

type StatsService interface {
	Overview(ctx context.Context, classroomID uuid.UUID, userID string) (*ClassroomOverviewResponse, error)
	Leaderboard(ctx context.Context, classroomID uuid.UUID, userID string) ([]*LeaderboardEntry, error)
}

type InstituteService interface {
	Create(ctx context.Context, ownerID string, req validator.CreateInstituteRequest) (*models.Institute, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Institute, error)
	AddMember(ctx context.Context, instituteID uuid.UUID, actorID string, req validator.AddInstituteMemberRequest) (*models.InstituteMember, error)
	ListMembers(ctx context.Context, instituteID uuid.UUID, actorID string) ([]*models.InstituteMember, error)
	UpdateMember(ctx context.Context, instituteID uuid.UUID, actorID, userID string, req validator.UpdateInstituteMemberRequest) (*models.InstituteMember, error)
	RemoveMember(ctx context.Context, instituteID uuid.UUID, actorID, userID string) error
}

// ExportService produces instructor-only xlsx reports.
type ExportService interface {
	ClassroomReport(ctx context.Context, classroomID uuid.UUID, userID string) ([]byte, error)
}

// ServiceManager aggregates all services with shared lifecycle management.
type ServiceManager interface {
	Classroom() ClassroomService
	Lesson() LessonService
	Assignment() AssignmentService
	Exam() ExamService
	Attendance() AttendanceService
	Stats() StatsService
	Institute() InstituteService
	Export() ExportService

	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
