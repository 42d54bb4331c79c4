package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sped-tracker-api/internal/models"
)

type serviceInstanceRepository interface {
	FindByID(ctx context.Context, id string) (*models.ServiceInstance, error)
	Create(ctx context.Context, instance *models.ServiceInstance) error
	Update(ctx context.Context, instance *models.ServiceInstance) error
	Delete(ctx context.Context, id string) error
}

// ServiceInstanceRequest is the full field set of a weekly occurrence. Times
// are optional; an instance without both ends has no duration.
type ServiceInstanceRequest struct {
	ServiceID  string            `json:"service_id" validate:"required,uuid"`
	ScheduleID string            `json:"schedule_id" validate:"required,uuid"`
	Day        models.Weekday    `json:"day" validate:"required,oneof=M Tu W Th F"`
	TimeStart  *models.TimeOfDay `json:"time_start"`
	TimeEnd    *models.TimeOfDay `json:"time_end"`
}

// ServiceInstanceService manages scheduled occurrences of services.
type ServiceInstanceService struct {
	repo      serviceInstanceRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewServiceInstanceService constructs a ServiceInstanceService.
func NewServiceInstanceService(repo serviceInstanceRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ServiceInstanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ServiceInstanceService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// Get returns one instance.
func (s *ServiceInstanceService) Get(ctx context.Context, identity models.Identity, id string) (*models.ServiceInstance, error) {
	if err := requireStaff(identity); err != nil {
		return nil, err
	}
	instance, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "service instance not found", "failed to load service instance")
	}
	return instance, nil
}

// Create places a new occurrence on a schedule.
func (s *ServiceInstanceService) Create(ctx context.Context, identity models.Identity, req ServiceInstanceRequest) (*models.ServiceInstance, error) {
	if err := requireUser(identity); err != nil {
		return nil, err
	}
	if err := s.validate(req); err != nil {
		return nil, err
	}
	instance := &models.ServiceInstance{}
	applyInstanceRequest(instance, req)
	if err := s.repo.Create(ctx, instance); err != nil {
		return nil, storeError(err, "failed to create service instance")
	}
	s.cache.InvalidateSchedules(ctx)
	return instance, nil
}

// Update replaces the fields of an existing occurrence.
func (s *ServiceInstanceService) Update(ctx context.Context, identity models.Identity, id string, req ServiceInstanceRequest) (*models.ServiceInstance, error) {
	if err := requireUser(identity); err != nil {
		return nil, err
	}
	if err := s.validate(req); err != nil {
		return nil, err
	}
	instance, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "service instance not found", "failed to load service instance")
	}
	applyInstanceRequest(instance, req)
	if err := s.repo.Update(ctx, instance); err != nil {
		return nil, lookupError(err, "service instance not found", "failed to update service instance")
	}
	s.cache.InvalidateSchedules(ctx)
	return instance, nil
}

// Delete removes an occurrence.
func (s *ServiceInstanceService) Delete(ctx context.Context, identity models.Identity, id string) error {
	if err := requireUser(identity); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError(err, "service instance not found", "failed to delete service instance")
	}
	s.cache.InvalidateSchedules(ctx)
	return nil
}

func (s *ServiceInstanceService) validate(req ServiceInstanceRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return validationError(err, "invalid service instance payload")
	}
	for _, t := range []*models.TimeOfDay{req.TimeStart, req.TimeEnd} {
		if t != nil && !t.Valid() {
			return validationError(errors.New("time out of range"), "time must be within a day")
		}
	}
	return nil
}

func applyInstanceRequest(instance *models.ServiceInstance, req ServiceInstanceRequest) {
	serviceID, scheduleID := req.ServiceID, req.ScheduleID
	instance.ServiceID = &serviceID
	instance.ScheduleID = &scheduleID
	instance.Day = req.Day
	instance.TimeStart = req.TimeStart
	instance.TimeEnd = req.TimeEnd
}
