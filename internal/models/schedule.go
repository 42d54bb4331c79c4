package models

import "time"

// Schedule is a named date range holding service instances. At most one
// schedule is active across the whole system.
type Schedule struct {
	ID        string    `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	StartDate time.Time `db:"start_date" json:"start_date"`
	EndDate   time.Time `db:"end_date" json:"end_date"`
	TeacherID *string   `db:"teacher_id" json:"teacher_id"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ScheduleFilter describes query params for listing schedules.
type ScheduleFilter struct {
	PageRequest
	TeacherID string
	Active    *bool
}
