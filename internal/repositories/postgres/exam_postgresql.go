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

type ExamPostgreSQL struct {
	db *gorm.DB
}

func NewExamPostgreSQL(db *gorm.DB) repositories.ExamRepository {
	return &ExamPostgreSQL{db: db}
}

func (r *ExamPostgreSQL) Create(ctx context.Context, exam *models.Exam) error {
	return r.db.WithContext(ctx).Create(exam).Error
}

func (r *ExamPostgreSQL) GetByID(ctx context.Context, id uuid.UUID) (*models.Exam, error) {
	var exam models.Exam
	if err := r.db.WithContext(ctx).First(&exam, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *ExamPostgreSQL) GetByIDWithQuestions(ctx context.Context, id uuid.UUID) (*models.Exam, error) {
	var exam models.Exam
	err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		First(&exam, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *ExamPostgreSQL) ListByClassroom(ctx context.Context, classroomID uuid.UUID, filters repositories.ExamFilters) ([]*models.Exam, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Exam{}).
		Where("classroom_id = ?", classroomID)

	if filters.PublishedOnly {
		query = query.Where("is_published = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count exams: %w", err)
	}

	query = query.Order("created_at DESC")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var exams []*models.Exam
	if err := query.Find(&exams).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list exams: %w", err)
	}

	return exams, total, nil
}

func (r *ExamPostgreSQL) Update(ctx context.Context, exam *models.Exam) error {
	return r.db.WithContext(ctx).Save(exam).Error
}

func (r *ExamPostgreSQL) Publish(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.Exam{}).
		Where("id = ?", id).
		Update("is_published", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ExamPostgreSQL) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Exam{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type ExamQuestionPostgreSQL struct {
	db *gorm.DB
}

func NewExamQuestionPostgreSQL(db *gorm.DB) repositories.ExamQuestionRepository {
	return &ExamQuestionPostgreSQL{db: db}
}

func (r *ExamQuestionPostgreSQL) Create(ctx context.Context, question *models.ExamQuestion) error {
	return r.db.WithContext(ctx).Create(question).Error
}

func (r *ExamQuestionPostgreSQL) GetByID(ctx context.Context, id uuid.UUID) (*models.ExamQuestion, error) {
	var question models.ExamQuestion
	if err := r.db.WithContext(ctx).First(&question, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *ExamQuestionPostgreSQL) ListByExam(ctx context.Context, examID uuid.UUID) ([]*models.ExamQuestion, error) {
	var questions []*models.ExamQuestion
	err := r.db.WithContext(ctx).
		Where("exam_id = ?", examID).
		Order("sort_order ASC").
		Find(&questions).Error
	return questions, err
}

func (r *ExamQuestionPostgreSQL) CountByExam(ctx context.Context, examID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ExamQuestion{}).
		Where("exam_id = ?", examID).
		Count(&count).Error
	return count, err
}

func (r *ExamQuestionPostgreSQL) Update(ctx context.Context, question *models.ExamQuestion) error {
	return r.db.WithContext(ctx).Save(question).Error
}

func (r *ExamQuestionPostgreSQL) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ExamQuestion{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ExamAttemptPostgreSQL implements ExamAttemptRepository. Creating an attempt
// invalidates the classroom stats cache.
type ExamAttemptPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewExamAttemptPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.ExamAttemptRepository {
	return &ExamAttemptPostgreSQL{db: db, cacheManager: cacheManager}
}

func (r *ExamAttemptPostgreSQL) Create(ctx context.Context, attempt *models.ExamAttempt) error {
	if err := r.db.WithContext(ctx).Create(attempt).Error; err != nil {
		return err
	}

	var classroomID uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.Exam{}).
		Select("classroom_id").
		Where("id = ?", attempt.ExamID).
		Scan(&classroomID).Error
	if err == nil && classroomID != uuid.Nil {
		r.cacheManager.InvalidateClassroomStats(ctx, classroomID.String())
	}

	return nil
}

func (r *ExamAttemptPostgreSQL) GetByID(ctx context.Context, id uuid.UUID) (*models.ExamAttempt, error) {
	var attempt models.ExamAttempt
	if err := r.db.WithContext(ctx).First(&attempt, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *ExamAttemptPostgreSQL) ListByExam(ctx context.Context, examID uuid.UUID) ([]*models.ExamAttempt, error) {
	var attempts []*models.ExamAttempt
	err := r.db.WithContext(ctx).
		Where("exam_id = ?", examID).
		Order("started_at DESC").
		Find(&attempts).Error
	return attempts, err
}

func (r *ExamAttemptPostgreSQL) ListByExamStudent(ctx context.Context, examID uuid.UUID, studentID string) ([]*models.ExamAttempt, error) {
	var attempts []*models.ExamAttempt
	err := r.db.WithContext(ctx).
		Where("exam_id = ? AND student_id = ?", examID, studentID).
		Order("started_at DESC").
		Find(&attempts).Error
	return attempts, err
}
