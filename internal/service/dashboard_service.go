package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/sped-tracker-api/internal/dto"
	"github.com/noah-isme/sped-tracker-api/internal/models"
)

type studentCounter interface {
	Count(ctx context.Context, teacherID string) (int, error)
}

type activeScheduleFinder interface {
	FindActive(ctx context.Context) (*models.Schedule, error)
}

// DashboardService composes the landing page summary.
type DashboardService struct {
	students  studentCounter
	schedules activeScheduleFinder
	logger    *zap.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(students studentCounter, schedules activeScheduleFinder, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{students: students, schedules: schedules, logger: logger}
}

// Summary returns the caller's student count and the active schedule, if any.
func (s *DashboardService) Summary(ctx context.Context, identity models.Identity) (*dto.DashboardSummary, error) {
	if err := requireUser(identity); err != nil {
		return nil, err
	}
	count, err := s.students.Count(ctx, identity.UserID)
	if err != nil {
		return nil, storeError(err, "failed to count students")
	}
	summary := &dto.DashboardSummary{StudentCount: count}

	active, err := s.schedules.FindActive(ctx)
	switch {
	case err == nil:
		summary.ActiveSchedule = active
	case errors.Is(err, sql.ErrNoRows):
	default:
		return nil, storeError(err, "failed to load active schedule")
	}
	return summary, nil
}
