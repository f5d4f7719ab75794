package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/LMS-F-2025/classroom-service/internal/repositories"
)

type exportService struct {
	repo   repositories.Repository
	stats  StatsService
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, stats StatsService, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		stats:  stats,
		logger: logger,
	}
}

// ClassroomReport builds an xlsx workbook with an overview sheet, the
// leaderboard and per-session attendance. Instructor only.
func (s *exportService) ClassroomReport(ctx context.Context, classroomID uuid.UUID, userID string) ([]byte, error) {
	classroom, err := s.repo.Classroom().GetByID(ctx, classroomID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrClassroomNotFound
		}
		return nil, fmt.Errorf("failed to get classroom: %w", err)
	}

	if err := requireInstructor(ctx, s.repo, classroomID, userID, "report", "export"); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("Failed to close workbook", "error", err)
		}
	}()

	if err := s.writeOverviewSheet(ctx, f, classroomID, userID, classroom.Title); err != nil {
		return nil, err
	}
	if err := s.writeLeaderboardSheet(ctx, f, classroomID, userID); err != nil {
		return nil, err
	}
	if err := s.writeAttendanceSheet(ctx, f, classroomID); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}

	s.logger.Info("Classroom report exported", "classroom_id", classroomID, "user_id", userID)
	return buf.Bytes(), nil
}

func (s *exportService) writeOverviewSheet(ctx context.Context, f *excelize.File, classroomID uuid.UUID, userID, title string) error {
	const sheet = "Overview"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	overview, err := s.stats.Overview(ctx, classroomID, userID)
	if err != nil {
		return err
	}

	rows := [][]interface{}{
		{"Classroom", title},
		{"Students", overview.StudentCount},
		{"Lessons", overview.LessonCount},
		{"Assignments", overview.AssignmentCount},
		{"Published exams", overview.PublishedExamCount},
		{"Attendance sessions", overview.SessionCount},
		{"Exam attempts", overview.AttemptCount},
		{"Average exam score", overview.AverageScore},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to build cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write overview row: %w", err)
		}
	}
	return nil
}

func (s *exportService) writeLeaderboardSheet(ctx context.Context, f *excelize.File, classroomID uuid.UUID, userID string) error {
	const sheet = "Leaderboard"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create leaderboard sheet: %w", err)
	}

	entries, err := s.stats.Leaderboard(ctx, classroomID, userID)
	if err != nil {
		return err
	}

	header := []interface{}{"Rank", "Student", "Total score", "Attempts"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write leaderboard header: %w", err)
	}
	for i, entry := range entries {
		row := []interface{}{entry.Rank, entry.FullName, entry.TotalScore, entry.AttemptCount}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to build cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write leaderboard row: %w", err)
		}
	}
	return nil
}

func (s *exportService) writeAttendanceSheet(ctx context.Context, f *excelize.File, classroomID uuid.UUID) error {
	const sheet = "Attendance"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create attendance sheet: %w", err)
	}

	sessions, err := s.repo.Attendance().ListSessionsByClassroom(ctx, classroomID)
	if err != nil {
		return fmt.Errorf("failed to list attendance sessions: %w", err)
	}

	header := []interface{}{"Session opened", "Session closed", "Check-ins"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write attendance header: %w", err)
	}
	for i, session := range sessions {
		count, err := s.repo.Attendance().CountRecords(ctx, session.ID)
		if err != nil {
			return fmt.Errorf("failed to count attendance records: %w", err)
		}
		row := []interface{}{
			session.OpenAt.Format("2006-01-02 15:04"),
			session.CloseAt.Format("2006-01-02 15:04"),
			count,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to build cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write attendance row: %w", err)
		}
	}
	return nil
}
