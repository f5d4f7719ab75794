package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/LMS-F-2025/classroom-service/internal/repositories"
)

// leaderboardSize caps the leaderboard at the top scorers.
const leaderboardSize = 10

type statsService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewStatsService(repo repositories.Repository, logger *slog.Logger) StatsService {
	return &statsService{
		repo:   repo,
		logger: logger,
	}
}

func (s *statsService) Overview(ctx context.Context, classroomID uuid.UUID, userID string) (*ClassroomOverviewResponse, error) {
	if _, err := s.repo.Classroom().GetByID(ctx, classroomID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrClassroomNotFound
		}
		return nil, fmt.Errorf("failed to get classroom: %w", err)
	}

	if _, err := requireMember(ctx, s.repo, classroomID, userID, "stats", "view overview"); err != nil {
		return nil, err
	}

	overview, err := s.repo.Stats().ClassroomOverview(ctx, classroomID)
	if err != nil {
		return nil, fmt.Errorf("failed to build classroom overview: %w", err)
	}

	return &ClassroomOverviewResponse{
		StudentCount:       overview.StudentCount,
		LessonCount:        overview.LessonCount,
		AssignmentCount:    overview.AssignmentCount,
		PublishedExamCount: overview.PublishedExamCount,
		SessionCount:       overview.SessionCount,
		AttemptCount:       overview.AttemptCount,
		AverageScore:       math.Round(overview.AverageExamScore*100) / 100,
	}, nil
}

// Leaderboard ranks students by total exam score across all of the
// classroom's exams, highest first, capped at ten entries. Ranks are dense
// positions 1..n; ties keep their storage order.
func (s *statsService) Leaderboard(ctx context.Context, classroomID uuid.UUID, userID string) ([]*LeaderboardEntry, error) {
	if _, err := s.repo.Classroom().GetByID(ctx, classroomID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrClassroomNotFound
		}
		return nil, fmt.Errorf("failed to get classroom: %w", err)
	}

	if _, err := requireMember(ctx, s.repo, classroomID, userID, "stats", "view leaderboard"); err != nil {
		return nil, err
	}

	totals, err := s.repo.Stats().StudentScoreTotals(ctx, classroomID)
	if err != nil {
		return nil, fmt.Errorf("failed to load score totals: %w", err)
	}

	if len(totals) > leaderboardSize {
		totals = totals[:leaderboardSize]
	}

	ids := make([]string, 0, len(totals))
	for _, t := range totals {
		ids = append(ids, t.StudentID)
	}

	users, err := s.repo.User().GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Warn("Failed to fetch leaderboard profiles", "error", err)
		users = nil
	}

	entries := make([]*LeaderboardEntry, 0, len(totals))
	for i, t := range totals {
		entry := &LeaderboardEntry{
			Rank:         i + 1,
			StudentID:    t.StudentID,
			FullName:     "Unknown",
			TotalScore:   t.TotalScore,
			AttemptCount: t.AttemptCount,
		}
		if user, ok := users[t.StudentID]; ok && user != nil {
			entry.FullName = user.FullName
			entry.AvatarURL = user.AvatarURL
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
