package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sped-tracker-api/internal/models"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	Count(ctx context.Context, teacherID string) (int, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
}

type studentServiceLister interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.Service, error)
}

type scheduledInstanceLister interface {
	ListScheduledByServiceIDs(ctx context.Context, serviceIDs []string) ([]models.ScheduledInstance, error)
}

// StudentRequest is the full field set of a student. Updates replace every
// field; the owning teacher is always the caller who created the record.
type StudentRequest struct {
	FirstName  string  `json:"first_name" validate:"required,max=20"`
	MiddleName *string `json:"middle_name" validate:"omitempty,max=20"`
	LastName   string  `json:"last_name" validate:"required,max=20"`
	Serviced   bool    `json:"serviced"`
}

// StudentService handles student use-cases.
type StudentService struct {
	repo      studentRepository
	services  studentServiceLister
	instances scheduledInstanceLister
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, services studentServiceLister, instances scheduledInstanceLister, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, services: services, instances: instances, validator: validate, logger: logger}
}

// List returns the caller's students ordered by last then first name.
func (s *StudentService) List(ctx context.Context, identity models.Identity, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	if err := requireStaff(identity); err != nil {
		return nil, nil, err
	}
	filter.TeacherID = identity.UserID
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, storeError(err, "failed to list students")
	}
	return students, models.NewPagination(filter.PageRequest, total), nil
}

// Get returns a student with its services and the derived serviced state.
func (s *StudentService) Get(ctx context.Context, identity models.Identity, id string) (*models.StudentDetail, error) {
	if err := requireStaff(identity); err != nil {
		return nil, err
	}
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "student not found", "failed to load student")
	}

	services, err := s.services.ListByStudent(ctx, student.ID)
	if err != nil {
		return nil, storeError(err, "failed to load student services")
	}
	allocations, err := loadAllocations(ctx, s.instances, services)
	if err != nil {
		return nil, err
	}

	detail := &models.StudentDetail{
		Student:    *student,
		IsServiced: models.IsServiced(allocations),
		Services:   make([]models.ServiceDetail, 0, len(allocations)),
	}
	for _, a := range allocations {
		detail.Services = append(detail.Services, models.NewServiceDetail(a, false))
	}
	return detail, nil
}

// Create registers a student owned by the caller.
func (s *StudentService) Create(ctx context.Context, identity models.Identity, req StudentRequest) (*models.Student, error) {
	if err := requireUser(identity); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid student payload")
	}
	student := &models.Student{TeacherID: identity.UserID}
	applyStudentRequest(student, req)
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, storeError(err, "failed to create student")
	}
	s.logger.Info("student created", zap.String("student_id", student.ID), zap.String("teacher_id", student.TeacherID))
	return student, nil
}

// Update replaces the fields of an existing student.
func (s *StudentService) Update(ctx context.Context, identity models.Identity, id string, req StudentRequest) (*models.Student, error) {
	if err := requireUser(identity); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid student payload")
	}
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "student not found", "failed to load student")
	}
	applyStudentRequest(student, req)
	if err := s.repo.Update(ctx, student); err != nil {
		return nil, lookupError(err, "student not found", "failed to update student")
	}
	return student, nil
}

// Delete removes a student; its services remain without a student.
func (s *StudentService) Delete(ctx context.Context, identity models.Identity, id string) error {
	if err := requireUser(identity); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError(err, "student not found", "failed to delete student")
	}
	s.logger.Info("student deleted", zap.String("student_id", id))
	return nil
}

func applyStudentRequest(student *models.Student, req StudentRequest) {
	student.FirstName = req.FirstName
	student.MiddleName = req.MiddleName
	student.LastName = req.LastName
	student.Serviced = req.Serviced
}

// loadAllocations fetches the instances of services and groups them. The
// satisfaction state is computed fresh on every call.
func loadAllocations(ctx context.Context, instances scheduledInstanceLister, services []models.Service) ([]models.ServiceAllocation, error) {
	ids := make([]string, 0, len(services))
	for _, svc := range services {
		ids = append(ids, svc.ID)
	}
	scheduled, err := instances.ListScheduledByServiceIDs(ctx, ids)
	if err != nil {
		return nil, storeError(err, "failed to load service instances")
	}
	return models.GroupAllocations(services, scheduled), nil
}
