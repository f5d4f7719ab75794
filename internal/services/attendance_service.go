package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/LMS-F-2025/classroom-service/internal/events"
	"github.com/LMS-F-2025/classroom-service/internal/models"
	"github.com/LMS-F-2025/classroom-service/internal/repositories"
	"github.com/LMS-F-2025/classroom-service/internal/validator"
)

// lateThresholdMinutes is the fixed grace period recorded on every session.
const lateThresholdMinutes = 15

type attendanceService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewAttendanceService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher) AttendanceService {
	return &attendanceService{
		repo:      repo,
		logger:    logger,
		validator: v,
		publisher: publisher,
	}
}

// CreateSession opens a check-in window starting now and closing after the
// requested duration.
func (s *attendanceService) CreateSession(ctx context.Context, classroomID uuid.UUID, userID string, req validator.CreateAttendanceSessionRequest) (*models.AttendanceSession, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.Classroom().GetByID(ctx, classroomID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrClassroomNotFound
		}
		return nil, fmt.Errorf("failed to get classroom: %w", err)
	}

	if err := requireInstructor(ctx, s.repo, classroomID, userID, "attendance session", "create"); err != nil {
		return nil, err
	}

	openAt := time.Now().UTC()
	session := &models.AttendanceSession{
		ClassroomID:          classroomID,
		OpenAt:               openAt,
		CloseAt:              openAt.Add(time.Duration(req.DurationMinutes) * time.Minute),
		LateThresholdMinutes: lateThresholdMinutes,
		AutoMarkAbsent:       true,
	}
	if req.AutoMarkAbsent != nil {
		session.AutoMarkAbsent = *req.AutoMarkAbsent
	}

	if err := s.repo.Attendance().CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create attendance session: %w", err)
	}

	s.logger.Info("Attendance session opened",
		"session_id", session.ID,
		"classroom_id", classroomID,
		"close_at", session.CloseAt)

	if err := s.publisher.Publish(ctx, events.EventAttendanceSessionOpened, events.AttendanceSessionOpenedEvent{
		SessionID:   session.ID.String(),
		ClassroomID: classroomID.String(),
		OpenAt:      session.OpenAt,
		CloseAt:     session.CloseAt,
	}); err != nil {
		s.logger.Warn("Failed to publish session opened event", "error", err)
	}

	return session, nil
}

func (s *attendanceService) ListSessions(ctx context.Context, classroomID uuid.UUID, userID string) ([]*models.AttendanceSession, error) {
	if _, err := s.repo.Classroom().GetByID(ctx, classroomID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrClassroomNotFound
		}
		return nil, fmt.Errorf("failed to get classroom: %w", err)
	}

	if _, err := requireMember(ctx, s.repo, classroomID, userID, "attendance session", "list"); err != nil {
		return nil, err
	}

	sessions, err := s.repo.Attendance().ListSessionsByClassroom(ctx, classroomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance sessions: %w", err)
	}
	return sessions, nil
}

// CheckIn records the caller as present in an open session. A check-in after
// close_at is rejected, and each student checks in at most once per session.
func (s *attendanceService) CheckIn(ctx context.Context, sessionID uuid.UUID, studentID string, req validator.CheckInRequest) (*models.AttendanceRecord, error) {
	session, err := s.repo.Attendance().GetSession(ctx, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get attendance session: %w", err)
	}

	if _, err := requireMember(ctx, s.repo, session.ClassroomID, studentID, "attendance session", "check in"); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if now.After(session.CloseAt) {
		return nil, ErrSessionClosed
	}

	if _, err := s.repo.Attendance().GetRecord(ctx, sessionID, studentID); err == nil {
		return nil, ErrAlreadyCheckedIn
	} else if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check existing record: %w", err)
	}

	record := &models.AttendanceRecord{
		SessionID:   sessionID,
		StudentID:   studentID,
		CheckedInAt: now,
		Status:      models.AttendancePresent,
	}
	if req.LocationData != nil {
		encoded, err := json.Marshal(req.LocationData)
		if err != nil {
			return nil, fmt.Errorf("failed to encode location data: %w", err)
		}
		record.LocationData = datatypes.JSON(encoded)
	}

	if err := s.repo.Attendance().CreateRecord(ctx, record); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrAlreadyCheckedIn
		}
		return nil, fmt.Errorf("failed to create attendance record: %w", err)
	}

	s.logger.Info("Student checked in",
		"session_id", sessionID,
		"student_id", studentID)
	return record, nil
}

func (s *attendanceService) ListRecords(ctx context.Context, sessionID uuid.UUID, userID string) ([]*models.AttendanceRecord, error) {
	session, err := s.repo.Attendance().GetSession(ctx, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get attendance session: %w", err)
	}

	if _, err := requireMember(ctx, s.repo, session.ClassroomID, userID, "attendance session", "view records"); err != nil {
		return nil, err
	}

	records, err := s.repo.Attendance().ListRecords(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}

	s.attachProfiles(ctx, records)
	return records, nil
}

func (s *attendanceService) attachProfiles(ctx context.Context, records []*models.AttendanceRecord) {
	if len(records) == 0 {
		return
	}
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.StudentID)
	}
	profiles, err := s.repo.User().GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Warn("Failed to fetch attendance profiles", "error", err)
		return
	}
	for _, r := range records {
		if profile, ok := profiles[r.StudentID]; ok {
			r.Profile = profile
		}
	}
}
