package models

import (
	"fmt"
	"time"
)

// Student is a learner on a teacher's caseload.
type Student struct {
	ID         string    `db:"id" json:"id"`
	FirstName  string    `db:"first_name" json:"first_name"`
	MiddleName *string   `db:"middle_name" json:"middle_name,omitempty"`
	LastName   string    `db:"last_name" json:"last_name"`
	TeacherID  string    `db:"teacher_id" json:"teacher_id"`
	Serviced   bool      `db:"serviced" json:"serviced"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// DisplayName renders "Last, First".
func (s Student) DisplayName() string {
	return fmt.Sprintf("%s, %s", s.LastName, s.FirstName)
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	PageRequest
	TeacherID string
	Search    string
}

// StudentDetail is a student with its services and derived serviced state.
type StudentDetail struct {
	Student
	IsServiced bool            `json:"is_serviced"`
	Services   []ServiceDetail `json:"services"`
}
