package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/sped-tracker-api/internal/models"
)

const instanceColumns = "id, service_id, schedule_id, day, time_start, time_end, created_at, updated_at"

// ServiceInstanceRepository persists weekly service occurrences.
type ServiceInstanceRepository struct {
	db *sqlx.DB
}

// NewServiceInstanceRepository constructs a ServiceInstanceRepository.
func NewServiceInstanceRepository(db *sqlx.DB) *ServiceInstanceRepository {
	return &ServiceInstanceRepository{db: db}
}

// ListScheduledByServiceIDs returns the instances of the given services along
// with the active flag of the schedule each belongs to.
func (r *ServiceInstanceRepository) ListScheduledByServiceIDs(ctx context.Context, serviceIDs []string) ([]models.ScheduledInstance, error) {
	if len(serviceIDs) == 0 {
		return nil, nil
	}
	const query = `SELECT si.id, si.service_id, si.schedule_id, si.day, si.time_start, si.time_end, si.created_at, si.updated_at, sc.active AS schedule_active
        FROM service_instances si
        LEFT JOIN schedules sc ON sc.id = si.schedule_id
        WHERE si.service_id = ANY($1)
        ORDER BY si.created_at ASC`
	var instances []models.ScheduledInstance
	if err := r.db.SelectContext(ctx, &instances, query, pq.Array(serviceIDs)); err != nil {
		return nil, fmt.Errorf("list scheduled instances: %w", err)
	}
	return instances, nil
}

// ListBySchedule returns the instances attached to a schedule in creation order.
func (r *ServiceInstanceRepository) ListBySchedule(ctx context.Context, scheduleID string) ([]models.ServiceInstance, error) {
	query := "SELECT " + instanceColumns + " FROM service_instances WHERE schedule_id = $1 ORDER BY created_at ASC"
	var instances []models.ServiceInstance
	if err := r.db.SelectContext(ctx, &instances, query, scheduleID); err != nil {
		return nil, fmt.Errorf("list schedule instances: %w", err)
	}
	return instances, nil
}

// ListEntriesBySchedule returns the instances of a schedule joined with their
// service and student, ordered for export.
func (r *ServiceInstanceRepository) ListEntriesBySchedule(ctx context.Context, scheduleID string) ([]models.ScheduleEntry, error) {
	const query = `SELECT si.id, si.service_id, si.schedule_id, si.day, si.time_start, si.time_end, si.created_at, si.updated_at,
            s.subject, s.service_type, st.first_name AS student_first_name, st.last_name AS student_last_name
        FROM service_instances si
        LEFT JOIN services s ON s.id = si.service_id
        LEFT JOIN students st ON st.id = s.student_id
        WHERE si.schedule_id = $1
        ORDER BY si.created_at ASC`
	var entries []models.ScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query, scheduleID); err != nil {
		return nil, fmt.Errorf("list schedule entries: %w", err)
	}
	return entries, nil
}

// FindByID fetches an instance by ID.
func (r *ServiceInstanceRepository) FindByID(ctx context.Context, id string) (*models.ServiceInstance, error) {
	var instance models.ServiceInstance
	if err := r.db.GetContext(ctx, &instance, "SELECT "+instanceColumns+" FROM service_instances WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &instance, nil
}

// Create inserts a new instance.
func (r *ServiceInstanceRepository) Create(ctx context.Context, instance *models.ServiceInstance) error {
	if instance.ID == "" {
		instance.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if instance.CreatedAt.IsZero() {
		instance.CreatedAt = now
	}
	instance.UpdatedAt = now
	const query = `INSERT INTO service_instances (id, service_id, schedule_id, day, time_start, time_end, created_at, updated_at)
        VALUES (:id, :service_id, :schedule_id, :day, :time_start, :time_end, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, instance); err != nil {
		return fmt.Errorf("create service instance: %w", err)
	}
	return nil
}

// Update replaces the mutable fields of an instance.
func (r *ServiceInstanceRepository) Update(ctx context.Context, instance *models.ServiceInstance) error {
	instance.UpdatedAt = time.Now().UTC()
	const query = `UPDATE service_instances SET service_id = :service_id, schedule_id = :schedule_id, day = :day, time_start = :time_start, time_end = :time_end, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, instance)
	if err != nil {
		return fmt.Errorf("update service instance: %w", err)
	}
	return expectAffected(res)
}

// Delete removes an instance.
func (r *ServiceInstanceRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM service_instances WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete service instance: %w", err)
	}
	return expectAffected(res)
}
