package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/LMS-F-2025/classroom-service/internal/models"
	"github.com/LMS-F-2025/classroom-service/internal/repositories"
)

type InstitutePostgreSQL struct {
	db *gorm.DB
}

func NewInstitutePostgreSQL(db *gorm.DB) repositories.InstituteRepository {
	return &InstitutePostgreSQL{db: db}
}

func (r *InstitutePostgreSQL) Create(ctx context.Context, institute *models.Institute) error {
	return r.db.WithContext(ctx).Create(institute).Error
}

func (r *InstitutePostgreSQL) GetByID(ctx context.Context, id uuid.UUID) (*models.Institute, error) {
	var institute models.Institute
	if err := r.db.WithContext(ctx).First(&institute, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &institute, nil
}

func (r *InstitutePostgreSQL) Update(ctx context.Context, institute *models.Institute) error {
	return r.db.WithContext(ctx).Save(institute).Error
}

func (r *InstitutePostgreSQL) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Institute{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *InstitutePostgreSQL) AddMember(ctx context.Context, member *models.InstituteMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *InstitutePostgreSQL) GetMember(ctx context.Context, instituteID uuid.UUID, userID string) (*models.InstituteMember, error) {
	var member models.InstituteMember
	err := r.db.WithContext(ctx).
		First(&member, "institute_id = ? AND user_id = ?", instituteID, userID).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *InstitutePostgreSQL) ListMembers(ctx context.Context, instituteID uuid.UUID, filters repositories.InstituteMemberFilters) ([]*models.InstituteMember, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.InstituteMember{}).
		Where("institute_id = ?", instituteID)

	if filters.Role != nil {
		query = query.Where("role = ?", *filters.Role)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count institute members: %w", err)
	}

	query = query.Order("joined_at ASC")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var members []*models.InstituteMember
	if err := query.Find(&members).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list institute members: %w", err)
	}

	return members, total, nil
}

func (r *InstitutePostgreSQL) UpdateMember(ctx context.Context, member *models.InstituteMember) error {
	return r.db.WithContext(ctx).Save(member).Error
}

func (r *InstitutePostgreSQL) RemoveMember(ctx context.Context, instituteID uuid.UUID, userID string) error {
	result := r.db.WithContext(ctx).
		Delete(&models.InstituteMember{}, "institute_id = ? AND user_id = ?", instituteID, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
