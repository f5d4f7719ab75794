package repositories

import "context"

// Repository aggregates all repository interfaces.
type Repository interface {
	// Classroom domain
	Classroom() ClassroomRepository
	Member() MemberRepository
	Lesson() LessonRepository

	// Assessment domain
	Assignment() AssignmentRepository
	Submission() SubmissionRepository
	Exam() ExamRepository
	ExamQuestion() ExamQuestionRepository
	ExamAttempt() ExamAttemptRepository

	// Attendance domain
	Attendance() AttendanceRepository

	// Institute domain
	Institute() InstituteRepository

	// Aggregation domain
	Stats() StatsRepository

	// User domain (read-only, backed by the identity provider)
	User() UserRepository

	// Transaction support. fn runs against a Repository whose writes are
	// scoped to a single database transaction.
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}
