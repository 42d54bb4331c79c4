package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sped-tracker-api/internal/models"
	"github.com/noah-isme/sped-tracker-api/pkg/database"
)

const userColumns = "id, email, password_hash, full_name, is_staff, active, created_at, updated_at"

// UserRepository handles persistence of teacher accounts.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository constructs a new UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail returns a user by email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	query := "SELECT " + userColumns + " FROM users WHERE LOWER(email) = LOWER($1) LIMIT 1"
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID returns a user by ID.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.GetContext(ctx, &user, "SELECT "+userColumns+" FROM users WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns teachers ordered by name.
func (r *UserRepository) List(ctx context.Context, req models.PageRequest) ([]models.User, int, error) {
	_, size, offset := req.Window()
	query := fmt.Sprintf("SELECT %s FROM users ORDER BY full_name ASC LIMIT %d OFFSET %d", userColumns, size, offset)

	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM users"); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	return users, total, nil
}

// Delete removes a teacher together with their students. Services of those
// students and schedules of the teacher are kept with the owner cleared.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	now := time.Now().UTC()
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE services SET student_id = NULL, updated_at = $2 WHERE student_id IN (SELECT id FROM students WHERE teacher_id = $1)`, id, now); err != nil {
			return fmt.Errorf("detach teacher services: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM students WHERE teacher_id = $1`, id); err != nil {
			return fmt.Errorf("delete teacher students: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE schedules SET teacher_id = NULL, updated_at = $2 WHERE teacher_id = $1`, id, now); err != nil {
			return fmt.Errorf("detach teacher schedules: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return expectAffected(res)
	})
}
