package models

import "time"

// Service is a required allocation of minutes for a student in one subject
// and delivery type. Satisfied is the manually kept flag; IsSatisfied derives
// the actual state from scheduled instances.
type Service struct {
	ID           string      `db:"id" json:"id"`
	StudentID    *string     `db:"student_id" json:"student_id"`
	Subject      Subject     `db:"subject" json:"subject"`
	ServiceType  ServiceType `db:"service_type" json:"service_type"`
	TotalTimeReq int         `db:"total_time_req" json:"total_time_req"`
	Satisfied    bool        `db:"satisfied" json:"satisfied"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updated_at"`
}

// ServiceFilter describes query params for listing services.
type ServiceFilter struct {
	PageRequest
	StudentID   string
	Subject     Subject
	ServiceType ServiceType
}

// ServiceDetail is a service with the minutes scheduled against it.
type ServiceDetail struct {
	Service
	ScheduledMinutes int                 `json:"scheduled_minutes"`
	IsSatisfied      bool                `json:"is_satisfied"`
	Instances        []ScheduledInstance `json:"instances,omitempty"`
}

// NewServiceDetail derives the detail view from a loaded allocation.
func NewServiceDetail(a ServiceAllocation, withInstances bool) ServiceDetail {
	detail := ServiceDetail{
		Service:          a.Service,
		ScheduledMinutes: SatisfiedMinutes(a.Instances),
		IsSatisfied:      a.Satisfied(),
	}
	if withInstances {
		detail.Instances = a.Instances
	}
	return detail
}
