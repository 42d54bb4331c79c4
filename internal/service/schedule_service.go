package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sped-tracker-api/internal/dto"
	"github.com/noah-isme/sped-tracker-api/internal/models"
	appErrors "github.com/noah-isme/sped-tracker-api/pkg/errors"
)

const dateLayout = "2006-01-02"

type scheduleRepository interface {
	List(ctx context.Context, filter models.ScheduleFilter) ([]models.Schedule, int, error)
	FindByID(ctx context.Context, id string) (*models.Schedule, error)
	FindActive(ctx context.Context) (*models.Schedule, error)
	Create(ctx context.Context, schedule *models.Schedule) error
	CreateActive(ctx context.Context, schedule *models.Schedule) error
	Update(ctx context.Context, schedule *models.Schedule) error
	UpdateActive(ctx context.Context, schedule *models.Schedule) error
	SetActive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type scheduleInstanceLister interface {
	ListBySchedule(ctx context.Context, scheduleID string) ([]models.ServiceInstance, error)
}

// ScheduleRequest is the full field set of a schedule. Dates use YYYY-MM-DD.
type ScheduleRequest struct {
	Title     string `json:"title" validate:"required,max=100"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Active    bool   `json:"active"`
}

// ScheduleServiceConfig tunes schedule behaviour.
type ScheduleServiceConfig struct {
	WeekViewTTL time.Duration
}

// ScheduleService manages schedules and their weekly projections.
type ScheduleService struct {
	repo      scheduleRepository
	instances scheduleInstanceLister
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ScheduleServiceConfig
}

// NewScheduleService constructs a ScheduleService.
func NewScheduleService(repo scheduleRepository, instances scheduleInstanceLister, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg ScheduleServiceConfig) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{repo: repo, instances: instances, cache: cache, metrics: metrics, validator: validate, logger: logger, cfg: cfg}
}

// List returns the caller's schedules.
func (s *ScheduleService) List(ctx context.Context, identity models.Identity, filter models.ScheduleFilter) ([]models.Schedule, *models.Pagination, error) {
	if err := requireStaff(identity); err != nil {
		return nil, nil, err
	}
	filter.TeacherID = identity.UserID
	schedules, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, storeError(err, "failed to list schedules")
	}
	return schedules, models.NewPagination(filter.PageRequest, total), nil
}

// Get returns one schedule.
func (s *ScheduleService) Get(ctx context.Context, identity models.Identity, id string) (*models.Schedule, error) {
	if err := requireStaff(identity); err != nil {
		return nil, err
	}
	return s.find(ctx, id)
}

// GetActive returns the schedule currently marked active.
func (s *ScheduleService) GetActive(ctx context.Context, identity models.Identity) (*models.Schedule, error) {
	if err := requireStaff(identity); err != nil {
		return nil, err
	}
	schedule, err := s.repo.FindActive(ctx)
	if err != nil {
		return nil, lookupError(err, "no active schedule", "failed to load active schedule")
	}
	return schedule, nil
}

// WeekView returns the schedule's instances bucketed by day. The second
// return value reports whether it came from the cache.
func (s *ScheduleService) WeekView(ctx context.Context, identity models.Identity, id string) (*dto.WeekView, bool, error) {
	if err := requireStaff(identity); err != nil {
		return nil, false, err
	}
	if cached, ok := s.cache.WeekView(ctx, id); ok {
		return cached, true, nil
	}

	schedule, instances, err := s.loadWithInstances(ctx, id)
	if err != nil {
		return nil, false, err
	}
	view := BuildWeekView(instances)
	view.Schedule = schedule
	s.cache.StoreWeekView(ctx, id, view, s.cfg.WeekViewTTL)
	return &view, false, nil
}

// SlotView returns the schedule's instances bucketed by day and start hour.
func (s *ScheduleService) SlotView(ctx context.Context, identity models.Identity, id string) (*dto.SlotWeekView, error) {
	if err := requireStaff(identity); err != nil {
		return nil, err
	}
	schedule, instances, err := s.loadWithInstances(ctx, id)
	if err != nil {
		return nil, err
	}
	view := BuildSlotView(instances)
	view.Schedule = schedule
	return &view, nil
}

// Create stores a schedule owned by the caller. An active schedule is
// created through the activation path so no other schedule stays active.
func (s *ScheduleService) Create(ctx context.Context, identity models.Identity, req ScheduleRequest) (*models.Schedule, error) {
	if err := requireUser(identity); err != nil {
		return nil, err
	}
	schedule := &models.Schedule{}
	if err := s.apply(schedule, req); err != nil {
		return nil, err
	}
	teacherID := identity.UserID
	schedule.TeacherID = &teacherID

	var err error
	if req.Active {
		err = s.repo.CreateActive(ctx, schedule)
	} else {
		err = s.repo.Create(ctx, schedule)
	}
	if err != nil {
		return nil, storeError(err, "failed to create schedule")
	}
	if schedule.Active {
		s.activated(ctx, schedule.ID)
	}
	return schedule, nil
}

// Update replaces the fields of a schedule, going through the activation
// path when it is marked active.
func (s *ScheduleService) Update(ctx context.Context, identity models.Identity, id string, req ScheduleRequest) (*models.Schedule, error) {
	if err := requireUser(identity); err != nil {
		return nil, err
	}
	schedule := &models.Schedule{}
	if err := s.apply(schedule, req); err != nil {
		return nil, err
	}
	existing, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	existing.Title = schedule.Title
	existing.StartDate = schedule.StartDate
	existing.EndDate = schedule.EndDate
	existing.Active = req.Active

	if req.Active {
		err = s.repo.UpdateActive(ctx, existing)
	} else {
		err = s.repo.Update(ctx, existing)
	}
	if err != nil {
		return nil, lookupError(err, "schedule not found", "failed to update schedule")
	}
	if existing.Active {
		s.activated(ctx, existing.ID)
	} else {
		s.cache.InvalidateSchedules(ctx)
	}
	return existing, nil
}

// SetActive makes the schedule the single active one.
func (s *ScheduleService) SetActive(ctx context.Context, identity models.Identity, id string) (*models.Schedule, error) {
	if err := requireUser(identity); err != nil {
		return nil, err
	}
	if err := s.repo.SetActive(ctx, id); err != nil {
		return nil, lookupError(err, "schedule not found", "failed to activate schedule")
	}
	s.activated(ctx, id)
	return s.find(ctx, id)
}

// Delete removes a schedule; its instances remain without a schedule.
func (s *ScheduleService) Delete(ctx context.Context, identity models.Identity, id string) error {
	if err := requireUser(identity); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError(err, "schedule not found", "failed to delete schedule")
	}
	s.cache.InvalidateSchedules(ctx)
	s.logger.Info("schedule deleted", zap.String("schedule_id", id))
	return nil
}

func (s *ScheduleService) find(ctx context.Context, id string) (*models.Schedule, error) {
	schedule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "schedule not found", "failed to load schedule")
	}
	return schedule, nil
}

func (s *ScheduleService) loadWithInstances(ctx context.Context, id string) (*models.Schedule, []models.ServiceInstance, error) {
	schedule, err := s.find(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	instances, err := s.instances.ListBySchedule(ctx, id)
	if err != nil {
		return nil, nil, storeError(err, "failed to load schedule instances")
	}
	return schedule, instances, nil
}

func (s *ScheduleService) apply(schedule *models.Schedule, req ScheduleRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return validationError(err, "invalid schedule payload")
	}
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return validationError(err, "invalid start_date")
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return validationError(err, "invalid end_date")
	}
	if end.Before(start) {
		return appErrors.Clone(appErrors.ErrValidation, "end_date must not be before start_date")
	}
	schedule.Title = req.Title
	schedule.StartDate = start
	schedule.EndDate = end
	return nil
}

func (s *ScheduleService) activated(ctx context.Context, id string) {
	s.metrics.RecordScheduleActivation()
	s.cache.InvalidateSchedules(ctx)
	s.logger.Info("schedule activated", zap.String("schedule_id", id))
}
