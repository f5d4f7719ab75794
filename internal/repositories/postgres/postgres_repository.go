package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/LMS-F-2025/classroom-service/internal/cache"
	"github.com/LMS-F-2025/classroom-service/internal/repositories"
	"github.com/LMS-F-2025/classroom-service/internal/repositories/casdoor"
)

// PostgreSQLRepository implements the main Repository interface.
type PostgreSQLRepository struct {
	db           *gorm.DB
	redisClient  *redis.Client
	cacheManager *cache.CacheManager

	classroom    repositories.ClassroomRepository
	member       repositories.MemberRepository
	lesson       repositories.LessonRepository
	assignment   repositories.AssignmentRepository
	submission   repositories.SubmissionRepository
	exam         repositories.ExamRepository
	examQuestion repositories.ExamQuestionRepository
	examAttempt  repositories.ExamAttemptRepository
	attendance   repositories.AttendanceRepository
	institute    repositories.InstituteRepository
	stats        repositories.StatsRepository
	user         repositories.UserRepository
}

// RepositoryConfig holds configuration for repository initialization.
type RepositoryConfig struct {
	DB            *gorm.DB
	RedisClient   *redis.Client
	CasdoorConfig casdoor.CasdoorConfig
}

// NewPostgreSQLRepository creates a repository backed by PostgreSQL with all
// sub-repositories wired up.
func NewPostgreSQLRepository(config RepositoryConfig) repositories.Repository {
	cacheManager := cache.NewCacheManager(config.RedisClient)

	repo := &PostgreSQLRepository{
		db:           config.DB,
		redisClient:  config.RedisClient,
		cacheManager: cacheManager,
	}

	repo.initSubRepos(config.DB)

	// User repository is external and never transaction-scoped.
	repo.user = casdoor.NewUserCasdoor(config.CasdoorConfig, cacheManager.Profile)

	return repo
}

func (r *PostgreSQLRepository) initSubRepos(db *gorm.DB) {
	r.classroom = NewClassroomPostgreSQL(db, r.cacheManager)
	r.member = NewMemberPostgreSQL(db)
	r.lesson = NewLessonPostgreSQL(db)
	r.assignment = NewAssignmentPostgreSQL(db)
	r.submission = NewSubmissionPostgreSQL(db)
	r.exam = NewExamPostgreSQL(db)
	r.examQuestion = NewExamQuestionPostgreSQL(db)
	r.examAttempt = NewExamAttemptPostgreSQL(db, r.cacheManager)
	r.attendance = NewAttendancePostgreSQL(db)
	r.institute = NewInstitutePostgreSQL(db)
	r.stats = NewStatsPostgreSQL(db, r.cacheManager)
}

func (r *PostgreSQLRepository) Classroom() repositories.ClassroomRepository   { return r.classroom }
func (r *PostgreSQLRepository) Member() repositories.MemberRepository         { return r.member }
func (r *PostgreSQLRepository) Lesson() repositories.LessonRepository         { return r.lesson }
func (r *PostgreSQLRepository) Assignment() repositories.AssignmentRepository { return r.assignment }
func (r *PostgreSQLRepository) Submission() repositories.SubmissionRepository { return r.submission }
func (r *PostgreSQLRepository) Exam() repositories.ExamRepository             { return r.exam }
func (r *PostgreSQLRepository) ExamQuestion() repositories.ExamQuestionRepository {
	return r.examQuestion
}
func (r *PostgreSQLRepository) ExamAttempt() repositories.ExamAttemptRepository { return r.examAttempt }
func (r *PostgreSQLRepository) Attendance() repositories.AttendanceRepository   { return r.attendance }
func (r *PostgreSQLRepository) Institute() repositories.InstituteRepository     { return r.institute }
func (r *PostgreSQLRepository) Stats() repositories.StatsRepository             { return r.stats }
func (r *PostgreSQLRepository) User() repositories.UserRepository               { return r.user }

// WithTransaction executes fn against a repository whose writes all run in a
// single database transaction.
func (r *PostgreSQLRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &PostgreSQLRepository{
			db:           tx,
			redisClient:  r.redisClient,
			cacheManager: r.cacheManager,
		}
		txRepo.initSubRepos(tx)
		txRepo.user = r.user

		return fn(txRepo)
	})
}

// Ping checks database and cache connectivity.
func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if r.redisClient != nil {
		if err := r.cacheManager.HealthCheck(ctx); err != nil {
			return fmt.Errorf("cache ping failed: %w", err)
		}
	}

	return nil
}

// Close closes all connections.
func (r *PostgreSQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	if r.redisClient != nil {
		if err := r.redisClient.Close(); err != nil {
			return fmt.Errorf("failed to close Redis: %w", err)
		}
	}

	return nil
}
