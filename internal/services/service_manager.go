package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/LMS-F-2025/classroom-service/internal/events"
	"github.com/LMS-F-2025/classroom-service/internal/repositories"
	"github.com/LMS-F-2025/classroom-service/internal/validator"
)

type serviceManager struct {
	repo      repositories.Repository
	logger    *slog.Logger
	publisher events.EventPublisher

	classroom  ClassroomService
	lesson     LessonService
	assignment AssignmentService
	exam       ExamService
	attendance AttendanceService
	stats      StatsService
	institute  InstituteService
	export     ExportService
}

// NewServiceManager wires every service over the shared repository,
// validator and event publisher.
func NewServiceManager(repo repositories.Repository, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher) ServiceManager {
	stats := NewStatsService(repo, logger)
	return &serviceManager{
		repo:       repo,
		logger:     logger,
		publisher:  publisher,
		classroom:  NewClassroomService(repo, logger, v, publisher),
		lesson:     NewLessonService(repo, logger, v),
		assignment: NewAssignmentService(repo, logger, v, publisher),
		exam:       NewExamService(repo, logger, v, publisher),
		attendance: NewAttendanceService(repo, logger, v, publisher),
		stats:      stats,
		institute:  NewInstituteService(repo, logger, v),
		export:     NewExportService(repo, stats, logger),
	}
}

func (m *serviceManager) Classroom() ClassroomService   { return m.classroom }
func (m *serviceManager) Lesson() LessonService         { return m.lesson }
func (m *serviceManager) Assignment() AssignmentService { return m.assignment }
func (m *serviceManager) Exam() ExamService             { return m.exam }
func (m *serviceManager) Attendance() AttendanceService { return m.attendance }
func (m *serviceManager) Stats() StatsService           { return m.stats }
func (m *serviceManager) Institute() InstituteService   { return m.institute }
func (m *serviceManager) Export() ExportService         { return m.export }

func (m *serviceManager) HealthCheck(ctx context.Context) error {
	if err := m.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}
	return nil
}

func (m *serviceManager) Shutdown(ctx context.Context) error {
	m.logger.Info("Shutting down services")
	if err := m.publisher.Close(); err != nil {
		m.logger.Warn("Failed to close event publisher", "error", err)
	}
	if err := m.repo.Close(); err != nil {
		return fmt.Errorf("failed to close repository: %w", err)
	}
	return nil
}
