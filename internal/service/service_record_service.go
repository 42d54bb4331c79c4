package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sped-tracker-api/internal/models"
)

type serviceRecordRepository interface {
	List(ctx context.Context, filter models.ServiceFilter) ([]models.Service, int, error)
	FindByID(ctx context.Context, id string) (*models.Service, error)
	Create(ctx context.Context, svc *models.Service) error
	Update(ctx context.Context, svc *models.Service) error
	Delete(ctx context.Context, id string) error
}

// ServiceRecordRequest is the full field set of a service requirement.
type ServiceRecordRequest struct {
	StudentID    string             `json:"student_id" validate:"required,uuid"`
	Subject      models.Subject     `json:"subject" validate:"required,oneof=MATH ELA"`
	ServiceType  models.ServiceType `json:"service_type" validate:"required,oneof=PI PO"`
	TotalTimeReq *int               `json:"total_time_req" validate:"required,gte=0"`
	Satisfied    bool               `json:"satisfied"`
}

// ServiceRecordService handles student service requirements.
type ServiceRecordService struct {
	repo      serviceRecordRepository
	instances scheduledInstanceLister
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewServiceRecordService constructs a ServiceRecordService.
func NewServiceRecordService(repo serviceRecordRepository, instances scheduledInstanceLister, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ServiceRecordService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ServiceRecordService{repo: repo, instances: instances, cache: cache, validator: validate, logger: logger}
}

// List returns services matching the filter.
func (s *ServiceRecordService) List(ctx context.Context, identity models.Identity, filter models.ServiceFilter) ([]models.Service, *models.Pagination, error) {
	if err := requireStaff(identity); err != nil {
		return nil, nil, err
	}
	services, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, storeError(err, "failed to list services")
	}
	return services, models.NewPagination(filter.PageRequest, total), nil
}

// Get returns a service with its instances and satisfaction state.
func (s *ServiceRecordService) Get(ctx context.Context, identity models.Identity, id string) (*models.ServiceDetail, error) {
	if err := requireStaff(identity); err != nil {
		return nil, err
	}
	svc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "service not found", "failed to load service")
	}
	allocations, err := loadAllocations(ctx, s.instances, []models.Service{*svc})
	if err != nil {
		return nil, err
	}
	detail := models.NewServiceDetail(allocations[0], true)
	return &detail, nil
}

// Create records a new service requirement.
func (s *ServiceRecordService) Create(ctx context.Context, identity models.Identity, req ServiceRecordRequest) (*models.Service, error) {
	if err := requireUser(identity); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid service payload")
	}
	svc := &models.Service{}
	applyServiceRequest(svc, req)
	if err := s.repo.Create(ctx, svc); err != nil {
		return nil, storeError(err, "failed to create service")
	}
	return svc, nil
}

// Update replaces the fields of an existing service.
func (s *ServiceRecordService) Update(ctx context.Context, identity models.Identity, id string, req ServiceRecordRequest) (*models.Service, error) {
	if err := requireUser(identity); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid service payload")
	}
	svc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "service not found", "failed to load service")
	}
	applyServiceRequest(svc, req)
	if err := s.repo.Update(ctx, svc); err != nil {
		return nil, lookupError(err, "service not found", "failed to update service")
	}
	return svc, nil
}

// Delete removes a service; its instances remain without a service.
func (s *ServiceRecordService) Delete(ctx context.Context, identity models.Identity, id string) error {
	if err := requireUser(identity); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError(err, "service not found", "failed to delete service")
	}
	s.cache.InvalidateSchedules(ctx)
	s.logger.Info("service deleted", zap.String("service_id", id))
	return nil
}

func applyServiceRequest(svc *models.Service, req ServiceRecordRequest) {
	studentID := req.StudentID
	svc.StudentID = &studentID
	svc.Subject = req.Subject
	svc.ServiceType = req.ServiceType
	svc.TotalTimeReq = *req.TotalTimeReq
	svc.Satisfied = req.Satisfied
}
