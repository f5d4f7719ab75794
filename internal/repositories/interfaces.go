package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/LMS-F-2025/classroom-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type ClassroomFilters struct {
	OwnerID         *string                `json:"owner_id"`
	MemberID        *string                `json:"member_id"`
	InstituteID     *uuid.UUID             `json:"institute_id"`
	EnrollmentType  *models.EnrollmentType `json:"enrollment_type"`
	IncludeArchived bool                   `json:"include_archived"`
	Search          *string                `json:"search"`
	Limit           int                    `json:"limit"`
	Offset          int                    `json:"offset"`
	SortBy          string                 `json:"sort_by"`    // "created_at", "title"
	SortOrder       string                 `json:"sort_order"` // "asc", "desc"
}

type MemberFilters struct {
	Role   *models.ClassroomRole `json:"role"`
	Limit  int                   `json:"limit"`
	Offset int                   `json:"offset"`
}

type ExamFilters struct {
	PublishedOnly bool `json:"published_only"`
	Limit         int  `json:"limit"`
	Offset        int  `json:"offset"`
}

type InstituteMemberFilters struct {
	Role   *models.InstituteRole `json:"role"`
	Limit  int                   `json:"limit"`
	Offset int                   `json:"offset"`
}

// ===== SHARED STATISTICS STRUCTS =====

// ClassroomOverview aggregates entity counts and the mean exam score across
// all attempts in a classroom. Students are members with role=student; exams
// are counted only once published.
type ClassroomOverview struct {
	StudentCount       int64   `json:"student_count"`
	LessonCount        int64   `json:"lesson_count"`
	AssignmentCount    int64   `json:"assignment_count"`
	PublishedExamCount int64   `json:"published_exam_count"`
	SessionCount       int64   `json:"session_count"`
	AttemptCount       int64   `json:"attempt_count"`
	AverageExamScore   float64 `json:"average_exam_score"`
}

// StudentScoreTotal is one leaderboard row before profile resolution.
type StudentScoreTotal struct {
	StudentID    string  `json:"student_id"`
	TotalScore   float64 `json:"total_score"`
	AttemptCount int64   `json:"attempt_count"`
}

// ===== REPOSITORY INTERFACES =====

type ClassroomRepository interface {
	Create(ctx context.Context, classroom *models.Classroom) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Classroom, error)
	List(ctx context.Context, filters ClassroomFilters) ([]*models.Classroom, int64, error)
	Update(ctx context.Context, classroom *models.Classroom) error
	SetArchived(ctx context.Context, id uuid.UUID, archived bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type MemberRepository interface {
	Create(ctx context.Context, member *models.ClassroomMember) error
	Get(ctx context.Context, classroomID uuid.UUID, userID string) (*models.ClassroomMember, error)
	List(ctx context.Context, classroomID uuid.UUID, filters MemberFilters) ([]*models.ClassroomMember, int64, error)
	UpdateRole(ctx context.Context, classroomID uuid.UUID, userID string, role models.ClassroomRole) error
	Delete(ctx context.Context, classroomID uuid.UUID, userID string) error
	Count(ctx context.Context, classroomID uuid.UUID) (int64, error)
}

type LessonRepository interface {
	Create(ctx context.Context, lesson *models.Lesson) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Lesson, error)
	ListByClassroom(ctx context.Context, classroomID uuid.UUID) ([]*models.Lesson, error)
	CountByClassroom(ctx context.Context, classroomID uuid.UUID) (int64, error)
	Update(ctx context.Context, lesson *models.Lesson) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type AssignmentRepository interface {
	Create(ctx context.Context, assignment *models.Assignment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Assignment, error)
	ListByClassroom(ctx context.Context, classroomID uuid.UUID) ([]*models.Assignment, error)
	Update(ctx context.Context, assignment *models.Assignment) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.AssignmentSubmission) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.AssignmentSubmission, error)
	GetLatest(ctx context.Context, assignmentID uuid.UUID, studentID string) (*models.AssignmentSubmission, error)
	ListHistory(ctx context.Context, assignmentID uuid.UUID, studentID string) ([]*models.AssignmentSubmission, error)
	ListLatestByAssignment(ctx context.Context, assignmentID uuid.UUID) ([]*models.AssignmentSubmission, error)
	CountAttempts(ctx context.Context, assignmentID uuid.UUID, studentID string) (int64, error)
	MarkAllStale(ctx context.Context, assignmentID uuid.UUID, studentID string) error
	Update(ctx context.Context, submission *models.AssignmentSubmission) error
}

type ExamRepository interface {
	Create(ctx context.Context, exam *models.Exam) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Exam, error)
	GetByIDWithQuestions(ctx context.Context, id uuid.UUID) (*models.Exam, error)
	ListByClassroom(ctx context.Context, classroomID uuid.UUID, filters ExamFilters) ([]*models.Exam, int64, error)
	Update(ctx context.Context, exam *models.Exam) error
	Publish(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ExamQuestionRepository interface {
	Create(ctx context.Context, question *models.ExamQuestion) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ExamQuestion, error)
	ListByExam(ctx context.Context, examID uuid.UUID) ([]*models.ExamQuestion, error)
	CountByExam(ctx context.Context, examID uuid.UUID) (int64, error)
	Update(ctx context.Context, question *models.ExamQuestion) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ExamAttemptRepository interface {
	Create(ctx context.Context, attempt *models.ExamAttempt) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ExamAttempt, error)
	ListByExam(ctx context.Context, examID uuid.UUID) ([]*models.ExamAttempt, error)
	ListByExamStudent(ctx context.Context, examID uuid.UUID, studentID string) ([]*models.ExamAttempt, error)
}

type AttendanceRepository interface {
	CreateSession(ctx context.Context, session *models.AttendanceSession) error
	GetSession(ctx context.Context, id uuid.UUID) (*models.AttendanceSession, error)
	ListSessionsByClassroom(ctx context.Context, classroomID uuid.UUID) ([]*models.AttendanceSession, error)
	CreateRecord(ctx context.Context, record *models.AttendanceRecord) error
	GetRecord(ctx context.Context, sessionID uuid.UUID, studentID string) (*models.AttendanceRecord, error)
	ListRecords(ctx context.Context, sessionID uuid.UUID) ([]*models.AttendanceRecord, error)
	CountRecords(ctx context.Context, sessionID uuid.UUID) (int64, error)
}

type InstituteRepository interface {
	Create(ctx context.Context, institute *models.Institute) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Institute, error)
	Update(ctx context.Context, institute *models.Institute) error
	Delete(ctx context.Context, id uuid.UUID) error

	AddMember(ctx context.Context, member *models.InstituteMember) error
	GetMember(ctx context.Context, instituteID uuid.UUID, userID string) (*models.InstituteMember, error)
	ListMembers(ctx context.Context, instituteID uuid.UUID, filters InstituteMemberFilters) ([]*models.InstituteMember, int64, error)
	UpdateMember(ctx context.Context, member *models.InstituteMember) error
	RemoveMember(ctx context.Context, instituteID uuid.UUID, userID string) error
}

type StatsRepository interface {
	ClassroomOverview(ctx context.Context, classroomID uuid.UUID) (*ClassroomOverview, error)
	StudentScoreTotals(ctx context.Context, classroomID uuid.UUID) ([]*StudentScoreTotal, error)
}

// UserRepository resolves profiles from the identity provider.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// ===== ERROR CLASSIFICATION =====

// IsNotFoundError reports whether err is a record-not-found from the store.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateError reports whether err is a unique-constraint violation.
func IsDuplicateError(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
