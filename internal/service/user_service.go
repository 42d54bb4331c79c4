package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/sped-tracker-api/internal/models"
	appErrors "github.com/noah-isme/sped-tracker-api/pkg/errors"
)

type userRepository interface {
	List(ctx context.Context, req models.PageRequest) ([]models.User, int, error)
	Delete(ctx context.Context, id string) error
}

// UserService exposes teacher accounts.
type UserService struct {
	repo   userRepository
	cache  *CacheService
	logger *zap.Logger
}

// NewUserService constructs a UserService.
func NewUserService(repo userRepository, cache *CacheService, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, cache: cache, logger: logger}
}

// ListTeachers returns all teacher accounts.
func (s *UserService) ListTeachers(ctx context.Context, identity models.Identity, req models.PageRequest) ([]models.User, *models.Pagination, error) {
	if err := requireStaff(identity); err != nil {
		return nil, nil, err
	}
	users, total, err := s.repo.List(ctx, req)
	if err != nil {
		return nil, nil, storeError(err, "failed to list teachers")
	}
	return users, models.NewPagination(req, total), nil
}

// DeleteTeacher removes a teacher and their students. Only staff may do it,
// and never on their own account.
func (s *UserService) DeleteTeacher(ctx context.Context, identity models.Identity, id string) error {
	if err := requireStaff(identity); err != nil {
		return err
	}
	if identity.UserID == id {
		return appErrors.Clone(appErrors.ErrValidation, "cannot delete your own account")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError(err, "teacher not found", "failed to delete teacher")
	}
	s.cache.InvalidateSchedules(ctx)
	s.logger.Info("teacher deleted", zap.String("teacher_id", id), zap.String("deleted_by", identity.UserID))
	return nil
}
