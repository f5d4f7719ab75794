package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/LMS-F-2025/classroom-service/internal/models"
	"github.com/LMS-F-2025/classroom-service/internal/repositories"
)

type AttendancePostgreSQL struct {
	db *gorm.DB
}

func NewAttendancePostgreSQL(db *gorm.DB) repositories.AttendanceRepository {
	return &AttendancePostgreSQL{db: db}
}

func (r *AttendancePostgreSQL) CreateSession(ctx context.Context, session *models.AttendanceSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *AttendancePostgreSQL) GetSession(ctx context.Context, id uuid.UUID) (*models.AttendanceSession, error) {
	var session models.AttendanceSession
	if err := r.db.WithContext(ctx).First(&session, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *AttendancePostgreSQL) ListSessionsByClassroom(ctx context.Context, classroomID uuid.UUID) ([]*models.AttendanceSession, error) {
	var sessions []*models.AttendanceSession
	err := r.db.WithContext(ctx).
		Where("classroom_id = ?", classroomID).
		Order("open_at DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	if len(sessions) > 0 {
		ids := make([]uuid.UUID, len(sessions))
		for i, s := range sessions {
			ids[i] = s.ID
		}

		type row struct {
			SessionID uuid.UUID
			Count     int64
		}
		var rows []row
		err = r.db.WithContext(ctx).
			Model(&models.AttendanceRecord{}).
			Select("session_id, COUNT(*) as count").
			Where("session_id IN ?", ids).
			Group("session_id").
			Scan(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("failed to count records: %w", err)
		}

		counts := make(map[uuid.UUID]int64, len(rows))
		for _, rw := range rows {
			counts[rw.SessionID] = rw.Count
		}
		for _, s := range sessions {
			s.RecordCount = counts[s.ID]
		}
	}

	return sessions, nil
}

func (r *AttendancePostgreSQL) CreateRecord(ctx context.Context, record *models.AttendanceRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *AttendancePostgreSQL) GetRecord(ctx context.Context, sessionID uuid.UUID, studentID string) (*models.AttendanceRecord, error) {
	var record models.AttendanceRecord
	err := r.db.WithContext(ctx).
		First(&record, "session_id = ? AND student_id = ?", sessionID, studentID).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *AttendancePostgreSQL) ListRecords(ctx context.Context, sessionID uuid.UUID) ([]*models.AttendanceRecord, error) {
	var records []*models.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("checked_in_at ASC").
		Find(&records).Error
	return records, err
}

func (r *AttendancePostgreSQL) CountRecords(ctx context.Context, sessionID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AttendanceRecord{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error
	return count, err
}
