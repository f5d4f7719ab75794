package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/LMS-F-2025/classroom-service/internal/models"
	"github.com/LMS-F-2025/classroom-service/internal/repositories"
)

type AssignmentPostgreSQL struct {
	db *gorm.DB
}

func NewAssignmentPostgreSQL(db *gorm.DB) repositories.AssignmentRepository {
	return &AssignmentPostgreSQL{db: db}
}

func (r *AssignmentPostgreSQL) Create(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *AssignmentPostgreSQL) GetByID(ctx context.Context, id uuid.UUID) (*models.Assignment, error) {
	var assignment models.Assignment
	if err := r.db.WithContext(ctx).First(&assignment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *AssignmentPostgreSQL) ListByClassroom(ctx context.Context, classroomID uuid.UUID) ([]*models.Assignment, error) {
	var assignments []*models.Assignment
	err := r.db.WithContext(ctx).
		Where("classroom_id = ?", classroomID).
		Order("created_at DESC").
		Find(&assignments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	// Attach latest-submission counts in one grouped query.
	if len(assignments) > 0 {
		ids := make([]uuid.UUID, len(assignments))
		for i, a := range assignments {
			ids[i] = a.ID
		}

		type row struct {
			AssignmentID uuid.UUID
			Count        int64
		}
		var rows []row
		err = r.db.WithContext(ctx).
			Model(&models.AssignmentSubmission{}).
			Select("assignment_id, COUNT(*) as count").
			Where("assignment_id IN ? AND is_latest = ?", ids, true).
			Group("assignment_id").
			Scan(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("failed to count submissions: %w", err)
		}

		counts := make(map[uuid.UUID]int64, len(rows))
		for _, rw := range rows {
			counts[rw.AssignmentID] = rw.Count
		}
		for _, a := range assignments {
			a.SubmissionCount = counts[a.ID]
		}
	}

	return assignments, nil
}

func (r *AssignmentPostgreSQL) Update(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Save(assignment).Error
}

func (r *AssignmentPostgreSQL) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Assignment{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SubmissionPostgreSQL implements SubmissionRepository. The mark-stale plus
// insert sequence must run inside Repository.WithTransaction; this type only
// provides the individual statements.
type SubmissionPostgreSQL struct {
	db *gorm.DB
}

func NewSubmissionPostgreSQL(db *gorm.DB) repositories.SubmissionRepository {
	return &SubmissionPostgreSQL{db: db}
}

func (r *SubmissionPostgreSQL) Create(ctx context.Context, submission *models.AssignmentSubmission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *SubmissionPostgreSQL) GetByID(ctx context.Context, id uuid.UUID) (*models.AssignmentSubmission, error) {
	var submission models.AssignmentSubmission
	if err := r.db.WithContext(ctx).First(&submission, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *SubmissionPostgreSQL) GetLatest(ctx context.Context, assignmentID uuid.UUID, studentID string) (*models.AssignmentSubmission, error) {
	var submission models.AssignmentSubmission
	err := r.db.WithContext(ctx).
		First(&submission, "assignment_id = ? AND student_id = ? AND is_latest = ?", assignmentID, studentID, true).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *SubmissionPostgreSQL) ListHistory(ctx context.Context, assignmentID uuid.UUID, studentID string) ([]*models.AssignmentSubmission, error) {
	var submissions []*models.AssignmentSubmission
	err := r.db.WithContext(ctx).
		Where("assignment_id = ? AND student_id = ?", assignmentID, studentID).
		Order("attempt_number ASC").
		Find(&submissions).Error
	return submissions, err
}

func (r *SubmissionPostgreSQL) ListLatestByAssignment(ctx context.Context, assignmentID uuid.UUID) ([]*models.AssignmentSubmission, error) {
	var submissions []*models.AssignmentSubmission
	err := r.db.WithContext(ctx).
		Where("assignment_id = ? AND is_latest = ?", assignmentID, true).
		Order("submitted_at DESC").
		Find(&submissions).Error
	return submissions, err
}

func (r *SubmissionPostgreSQL) CountAttempts(ctx context.Context, assignmentID uuid.UUID, studentID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AssignmentSubmission{}).
		Where("assignment_id = ? AND student_id = ?", assignmentID, studentID).
		Count(&count).Error
	return count, err
}

func (r *SubmissionPostgreSQL) MarkAllStale(ctx context.Context, assignmentID uuid.UUID, studentID string) error {
	return r.db.WithContext(ctx).
		Model(&models.AssignmentSubmission{}).
		Where("assignment_id = ? AND student_id = ? AND is_latest = ?", assignmentID, studentID, true).
		Update("is_latest", false).Error
}

func (r *SubmissionPostgreSQL) Update(ctx context.Context, submission *models.AssignmentSubmission) error {
	return r.db.WithContext(ctx).Save(submission).Error
}
