package models

import "time"

// ServiceInstance is one weekly occurrence of a service on a schedule.
type ServiceInstance struct {
	ID         string     `db:"id" json:"id"`
	ServiceID  *string    `db:"service_id" json:"service_id"`
	ScheduleID *string    `db:"schedule_id" json:"schedule_id"`
	Day        Weekday    `db:"day" json:"day"`
	TimeStart  *TimeOfDay `db:"time_start" json:"time_start"`
	TimeEnd    *TimeOfDay `db:"time_end" json:"time_end"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// ScheduledInstance pairs an instance with the active flag of its schedule.
// ScheduleActive is nil when the instance has no schedule.
type ScheduledInstance struct {
	ServiceInstance
	ScheduleActive *bool `db:"schedule_active" json:"schedule_active"`
}

// ScheduleEntry is an instance joined with the service and student it serves,
// used for exports.
type ScheduleEntry struct {
	ServiceInstance
	Subject          *Subject     `db:"subject" json:"subject"`
	ServiceType      *ServiceType `db:"service_type" json:"service_type"`
	StudentFirstName *string      `db:"student_first_name" json:"student_first_name"`
	StudentLastName  *string      `db:"student_last_name" json:"student_last_name"`
}
