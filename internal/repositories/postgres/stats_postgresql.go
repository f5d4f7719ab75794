package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/LMS-F-2025/classroom-service/internal/cache"
	"github.com/LMS-F-2025/classroom-service/internal/models"
	"github.com/LMS-F-2025/classroom-service/internal/repositories"
)

// StatsPostgreSQL implements StatsRepository. Aggregate queries are cached
// and invalidated on new exam attempts.
type StatsPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewStatsPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.StatsRepository {
	return &StatsPostgreSQL{db: db, cacheManager: cacheManager}
}

func (r *StatsPostgreSQL) ClassroomOverview(ctx context.Context, classroomID uuid.UUID) (*repositories.ClassroomOverview, error) {
	var overview repositories.ClassroomOverview

	cacheKey := fmt.Sprintf("overview:%s", classroomID)
	err := r.cacheManager.Stats.CacheOrExecute(ctx, cacheKey, &overview, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		return r.buildOverview(ctx, classroomID)
	})
	if err != nil {
		return nil, err
	}

	return &overview, nil
}

func (r *StatsPostgreSQL) buildOverview(ctx context.Context, classroomID uuid.UUID) (*repositories.ClassroomOverview, error) {
	db := r.db.WithContext(ctx)
	overview := &repositories.ClassroomOverview{}

	err := db.Model(&models.ClassroomMember{}).
		Where("classroom_id = ? AND role = ?", classroomID, models.RoleStudent).
		Count(&overview.StudentCount).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count students: %w", err)
	}

	counts := []struct {
		model interface{}
		dest  *int64
	}{
		{&models.Lesson{}, &overview.LessonCount},
		{&models.Assignment{}, &overview.AssignmentCount},
		{&models.AttendanceSession{}, &overview.SessionCount},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Where("classroom_id = ?", classroomID).Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("failed to build overview counts: %w", err)
		}
	}

	err = db.Model(&models.Exam{}).
		Where("classroom_id = ? AND is_published = ?", classroomID, true).
		Count(&overview.PublishedExamCount).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count published exams: %w", err)
	}

	// Mean raw score over every attempt of every exam in the classroom.
	type aggRow struct {
		Count int64
		Avg   *float64
	}
	var agg aggRow
	err = db.Model(&models.ExamAttempt{}).
		Select("COUNT(*) as count, AVG(exam_attempts.score) as avg").
		Joins("JOIN exams ON exams.id = exam_attempts.exam_id").
		Where("exams.classroom_id = ?", classroomID).
		Scan(&agg).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate attempts: %w", err)
	}

	overview.AttemptCount = agg.Count
	if agg.Avg != nil {
		overview.AverageExamScore = *agg.Avg
	}

	return overview, nil
}

func (r *StatsPostgreSQL) StudentScoreTotals(ctx context.Context, classroomID uuid.UUID) ([]*repositories.StudentScoreTotal, error) {
	var totals []*repositories.StudentScoreTotal

	cacheKey := fmt.Sprintf("leaderboard:%s", classroomID)
	err := r.cacheManager.Stats.CacheOrExecute(ctx, cacheKey, &totals, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		return r.buildScoreTotals(ctx, classroomID)
	})
	if err != nil {
		return nil, err
	}

	return totals, nil
}

func (r *StatsPostgreSQL) buildScoreTotals(ctx context.Context, classroomID uuid.UUID) ([]*repositories.StudentScoreTotal, error) {
	var totals []*repositories.StudentScoreTotal
	err := r.db.WithContext(ctx).
		Model(&models.ExamAttempt{}).
		Select("exam_attempts.student_id, SUM(exam_attempts.score) as total_score, COUNT(*) as attempt_count").
		Joins("JOIN exams ON exams.id = exam_attempts.exam_id").
		Where("exams.classroom_id = ?", classroomID).
		Group("exam_attempts.student_id").
		Order("total_score DESC").
		Scan(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute score totals: %w", err)
	}
	return totals, nil
}
