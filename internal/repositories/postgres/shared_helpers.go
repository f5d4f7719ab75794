package postgres

import (
	"gorm.io/gorm"

	"github.com/LMS-F-2025/classroom-service/internal/repositories"
)

// applyClassroomFilters applies common filters to classroom queries.
func applyClassroomFilters(query *gorm.DB, filters repositories.ClassroomFilters) *gorm.DB {
	if filters.OwnerID != nil {
		query = query.Where("owner_id = ?", *filters.OwnerID)
	}
	if filters.InstituteID != nil {
		query = query.Where("institute_id = ?", *filters.InstituteID)
	}
	if filters.EnrollmentType != nil {
		query = query.Where("enrollment_type = ?", *filters.EnrollmentType)
	}
	if !filters.IncludeArchived {
		query = query.Where("is_archived = ?", false)
	}
	if filters.Search != nil && *filters.Search != "" {
		query = query.Where("title ILIKE ?", "%"+*filters.Search+"%")
	}
	return query
}

// applyPaginationAndSort applies pagination and sorting with a whitelist of
// sort columns.
func applyPaginationAndSort(query *gorm.DB, sortBy, sortOrder string, limit, offset int) *gorm.DB {
	allowedSortColumns := map[string]bool{
		"created_at": true,
		"updated_at": true,
		"id":         true,
		"title":      true,
	}

	if sortBy == "" || !allowedSortColumns[sortBy] {
		sortBy = "created_at"
	}

	if sortOrder != "asc" && sortOrder != "ASC" {
		sortOrder = "DESC"
	} else {
		sortOrder = "ASC"
	}

	query = query.Order(sortBy + " " + sortOrder)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	return query
}
