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

// ClassroomPostgreSQL implements ClassroomRepository with a read-through
// cache on single-classroom lookups.
type ClassroomPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewClassroomPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.ClassroomRepository {
	return &ClassroomPostgreSQL{db: db, cacheManager: cacheManager}
}

func (r *ClassroomPostgreSQL) Create(ctx context.Context, classroom *models.Classroom) error {
	return r.db.WithContext(ctx).Create(classroom).Error
}

func (r *ClassroomPostgreSQL) GetByID(ctx context.Context, id uuid.UUID) (*models.Classroom, error) {
	var classroom models.Classroom

	cacheKey := id.String()
	err := r.cacheManager.Classroom.CacheOrExecute(ctx, cacheKey, &classroom, cache.ClassroomCacheConfig.TTL, func() (interface{}, error) {
		var fresh models.Classroom
		if err := r.db.WithContext(ctx).First(&fresh, "id = ?", id).Error; err != nil {
			return nil, err
		}
		return &fresh, nil
	})
	if err != nil {
		return nil, unwrapFetchErr(err)
	}

	return &classroom, nil
}

// CacheOrExecute wraps fetch errors; restore the gorm sentinel so callers can
// classify not-found.
func unwrapFetchErr(err error) error {
	if repositories.IsNotFoundError(err) {
		return gorm.ErrRecordNotFound
	}
	return err
}

func (r *ClassroomPostgreSQL) List(ctx context.Context, filters repositories.ClassroomFilters) ([]*models.Classroom, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Classroom{})

	if filters.MemberID != nil {
		query = query.Joins("JOIN classroom_members ON classroom_members.classroom_id = classrooms.id").
			Where("classroom_members.user_id = ?", *filters.MemberID)
	}
	query = applyClassroomFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count classrooms: %w", err)
	}

	var classrooms []*models.Classroom
	query = applyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)
	if err := query.Find(&classrooms).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list classrooms: %w", err)
	}

	return classrooms, total, nil
}

func (r *ClassroomPostgreSQL) Update(ctx context.Context, classroom *models.Classroom) error {
	if err := r.db.WithContext(ctx).Save(classroom).Error; err != nil {
		return err
	}

	cache.SafeDelete(ctx, r.cacheManager.Classroom, classroom.ID.String())
	return nil
}

func (r *ClassroomPostgreSQL) SetArchived(ctx context.Context, id uuid.UUID, archived bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.Classroom{}).
		Where("id = ?", id).
		Update("is_archived", archived)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	cache.SafeDelete(ctx, r.cacheManager.Classroom, id.String())
	return nil
}

func (r *ClassroomPostgreSQL) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Classroom{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	cache.SafeDelete(ctx, r.cacheManager.Classroom, id.String())
	return nil
}

// MemberPostgreSQL implements MemberRepository.
type MemberPostgreSQL struct {
	db *gorm.DB
}

func NewMemberPostgreSQL(db *gorm.DB) repositories.MemberRepository {
	return &MemberPostgreSQL{db: db}
}

func (r *MemberPostgreSQL) Create(ctx context.Context, member *models.ClassroomMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *MemberPostgreSQL) Get(ctx context.Context, classroomID uuid.UUID, userID string) (*models.ClassroomMember, error) {
	var member models.ClassroomMember
	err := r.db.WithContext(ctx).
		First(&member, "classroom_id = ? AND user_id = ?", classroomID, userID).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *MemberPostgreSQL) List(ctx context.Context, classroomID uuid.UUID, filters repositories.MemberFilters) ([]*models.ClassroomMember, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.ClassroomMember{}).
		Where("classroom_id = ?", classroomID)

	if filters.Role != nil {
		query = query.Where("role = ?", *filters.Role)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count members: %w", err)
	}

	query = query.Order("joined_at ASC")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var members []*models.ClassroomMember
	if err := query.Find(&members).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list members: %w", err)
	}

	return members, total, nil
}

func (r *MemberPostgreSQL) UpdateRole(ctx context.Context, classroomID uuid.UUID, userID string, role models.ClassroomRole) error {
	result := r.db.WithContext(ctx).
		Model(&models.ClassroomMember{}).
		Where("classroom_id = ? AND user_id = ?", classroomID, userID).
		Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *MemberPostgreSQL) Delete(ctx context.Context, classroomID uuid.UUID, userID string) error {
	result := r.db.WithContext(ctx).
		Delete(&models.ClassroomMember{}, "classroom_id = ? AND user_id = ?", classroomID, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *MemberPostgreSQL) Count(ctx context.Context, classroomID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ClassroomMember{}).
		Where("classroom_id = ?", classroomID).
		Count(&count).Error
	return count, err
}
