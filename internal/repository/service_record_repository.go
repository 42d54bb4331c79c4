package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sped-tracker-api/internal/models"
	"github.com/noah-isme/sped-tracker-api/pkg/database"
)

const serviceColumns = "id, student_id, subject, service_type, total_time_req, satisfied, created_at, updated_at"

// ServiceRecordRepository persists student service requirements.
type ServiceRecordRepository struct {
	db *sqlx.DB
}

// NewServiceRecordRepository constructs a ServiceRecordRepository.
func NewServiceRecordRepository(db *sqlx.DB) *ServiceRecordRepository {
	return &ServiceRecordRepository{db: db}
}

// List returns services matching the filter, newest first.
func (r *ServiceRecordRepository) List(ctx context.Context, filter models.ServiceFilter) ([]models.Service, int, error) {
	base := "FROM services WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.Subject != "" {
		conditions = append(conditions, fmt.Sprintf("subject = $%d", len(args)+1))
		args = append(args, filter.Subject)
	}
	if filter.ServiceType != "" {
		conditions = append(conditions, fmt.Sprintf("service_type = $%d", len(args)+1))
		args = append(args, filter.ServiceType)
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	_, size, offset := filter.Window()
	query := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", serviceColumns, base, size, offset)

	var services []models.Service
	if err := r.db.SelectContext(ctx, &services, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list services: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count services: %w", err)
	}
	return services, total, nil
}

// ListByStudent returns every service of a student in creation order.
func (r *ServiceRecordRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Service, error) {
	var services []models.Service
	query := "SELECT " + serviceColumns + " FROM services WHERE student_id = $1 ORDER BY created_at ASC"
	if err := r.db.SelectContext(ctx, &services, query, studentID); err != nil {
		return nil, fmt.Errorf("list student services: %w", err)
	}
	return services, nil
}

// FindByID fetches a service by ID.
func (r *ServiceRecordRepository) FindByID(ctx context.Context, id string) (*models.Service, error) {
	var svc models.Service
	if err := r.db.GetContext(ctx, &svc, "SELECT "+serviceColumns+" FROM services WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &svc, nil
}

// Create inserts a new service.
func (r *ServiceRecordRepository) Create(ctx context.Context, svc *models.Service) error {
	if svc.ID == "" {
		svc.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if svc.CreatedAt.IsZero() {
		svc.CreatedAt = now
	}
	svc.UpdatedAt = now
	const query = `INSERT INTO services (id, student_id, subject, service_type, total_time_req, satisfied, created_at, updated_at)
        VALUES (:id, :student_id, :subject, :service_type, :total_time_req, :satisfied, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, svc); err != nil {
		return fmt.Errorf("create service: %w", err)
	}
	return nil
}

// Update replaces the mutable fields of a service.
func (r *ServiceRecordRepository) Update(ctx context.Context, svc *models.Service) error {
	svc.UpdatedAt = time.Now().UTC()
	const query = `UPDATE services SET student_id = :student_id, subject = :subject, service_type = :service_type, total_time_req = :total_time_req, satisfied = :satisfied, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, svc)
	if err != nil {
		return fmt.Errorf("update service: %w", err)
	}
	return expectAffected(res)
}

// Delete removes a service. Its instances stay behind with no service.
func (r *ServiceRecordRepository) Delete(ctx context.Context, id string) error {
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE service_instances SET service_id = NULL, updated_at = $2 WHERE service_id = $1`, id, time.Now().UTC()); err != nil {
			return fmt.Errorf("detach service instances: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM services WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete service: %w", err)
		}
		return expectAffected(res)
	})
}
