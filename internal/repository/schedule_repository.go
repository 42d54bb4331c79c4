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

const scheduleColumns = "id, title, start_date, end_date, teacher_id, active, created_at, updated_at"

// lockSchedules serialises activations so only one schedule ends up active
// when two requests race.
const lockSchedules = "LOCK TABLE schedules IN SHARE ROW EXCLUSIVE MODE"

// ScheduleRepository provides persistence for schedules.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// List returns schedules, most recent start date first.
func (r *ScheduleRepository) List(ctx context.Context, filter models.ScheduleFilter) ([]models.Schedule, int, error) {
	base := "FROM schedules WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.TeacherID != "" {
		conditions = append(conditions, fmt.Sprintf("teacher_id = $%d", len(args)+1))
		args = append(args, filter.TeacherID)
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	_, size, offset := filter.Window()
	query := fmt.Sprintf("SELECT %s %s ORDER BY start_date DESC, created_at DESC LIMIT %d OFFSET %d", scheduleColumns, base, size, offset)

	var schedules []models.Schedule
	if err := r.db.SelectContext(ctx, &schedules, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list schedules: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count schedules: %w", err)
	}
	return schedules, total, nil
}

// FindByID fetches a schedule by ID.
func (r *ScheduleRepository) FindByID(ctx context.Context, id string) (*models.Schedule, error) {
	var schedule models.Schedule
	if err := r.db.GetContext(ctx, &schedule, "SELECT "+scheduleColumns+" FROM schedules WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &schedule, nil
}

// FindActive returns the active schedule or sql.ErrNoRows when none is.
func (r *ScheduleRepository) FindActive(ctx context.Context) (*models.Schedule, error) {
	var schedule models.Schedule
	if err := r.db.GetContext(ctx, &schedule, "SELECT "+scheduleColumns+" FROM schedules WHERE active = TRUE LIMIT 1"); err != nil {
		return nil, err
	}
	return &schedule, nil
}

const insertSchedule = `INSERT INTO schedules (id, title, start_date, end_date, teacher_id, active, created_at, updated_at)
    VALUES (:id, :title, :start_date, :end_date, :teacher_id, :active, :created_at, :updated_at)`

const updateSchedule = `UPDATE schedules SET title = :title, start_date = :start_date, end_date = :end_date, teacher_id = :teacher_id, active = :active, updated_at = :updated_at WHERE id = :id`

// Create inserts an inactive schedule. Use CreateActive for active ones.
func (r *ScheduleRepository) Create(ctx context.Context, schedule *models.Schedule) error {
	prepareScheduleInsert(schedule)
	schedule.Active = false
	if _, err := r.db.NamedExecContext(ctx, insertSchedule, schedule); err != nil {
		return fmt.Errorf("create schedule: %w", err)
	}
	return nil
}

// CreateActive inserts a schedule as the single active one, deactivating any
// other schedule in the same transaction.
func (r *ScheduleRepository) CreateActive(ctx context.Context, schedule *models.Schedule) error {
	prepareScheduleInsert(schedule)
	schedule.Active = true
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := clearActive(ctx, tx, schedule.ID, schedule.UpdatedAt); err != nil {
			return err
		}
		if _, err := tx.NamedExecContext(ctx, insertSchedule, schedule); err != nil {
			return fmt.Errorf("create schedule: %w", err)
		}
		return nil
	})
}

// Update saves the schedule as is. Callers turning a schedule active must use
// UpdateActive so the others are cleared first.
func (r *ScheduleRepository) Update(ctx context.Context, schedule *models.Schedule) error {
	schedule.UpdatedAt = time.Now().UTC()
	res, err := r.db.NamedExecContext(ctx, updateSchedule, schedule)
	if err != nil {
		return fmt.Errorf("update schedule: %w", err)
	}
	return expectAffected(res)
}

// UpdateActive saves the schedule and makes it the single active one.
func (r *ScheduleRepository) UpdateActive(ctx context.Context, schedule *models.Schedule) error {
	schedule.UpdatedAt = time.Now().UTC()
	schedule.Active = true
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := clearActive(ctx, tx, schedule.ID, schedule.UpdatedAt); err != nil {
			return err
		}
		res, err := tx.NamedExecContext(ctx, updateSchedule, schedule)
		if err != nil {
			return fmt.Errorf("update schedule: %w", err)
		}
		return expectAffected(res)
	})
}

// SetActive activates the schedule with the given id and deactivates every
// other one. Returns sql.ErrNoRows if the schedule does not exist.
func (r *ScheduleRepository) SetActive(ctx context.Context, id string) error {
	now := time.Now().UTC()
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := clearActive(ctx, tx, id, now); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `UPDATE schedules SET active = TRUE, updated_at = $2 WHERE id = $1`, id, now)
		if err != nil {
			return fmt.Errorf("activate schedule: %w", err)
		}
		return expectAffected(res)
	})
}

// Delete removes a schedule. Its instances stay behind with no schedule.
func (r *ScheduleRepository) Delete(ctx context.Context, id string) error {
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE service_instances SET schedule_id = NULL, updated_at = $2 WHERE schedule_id = $1`, id, time.Now().UTC()); err != nil {
			return fmt.Errorf("detach schedule instances: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM schedules WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete schedule: %w", err)
		}
		return expectAffected(res)
	})
}

func clearActive(ctx context.Context, tx *sqlx.Tx, keepID string, now time.Time) error {
	if _, err := tx.ExecContext(ctx, lockSchedules); err != nil {
		return fmt.Errorf("lock schedules: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE schedules SET active = FALSE, updated_at = $2 WHERE active = TRUE AND id <> $1`, keepID, now); err != nil {
		return fmt.Errorf("deactivate schedules: %w", err)
	}
	return nil
}

func prepareScheduleInsert(schedule *models.Schedule) {
	if schedule.ID == "" {
		schedule.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if schedule.CreatedAt.IsZero() {
		schedule.CreatedAt = now
	}
	schedule.UpdatedAt = now
}
