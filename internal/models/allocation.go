package models

import "math"

const halfDaySeconds = 12 * secondsPerHour

// Duration returns the instance length in minutes, or nil when either end is
// unset. Both ends are reduced modulo 12 hours before subtracting, matching the
// legacy records: 13:00-14:30 gives 90, but 11:30-12:15 gives 675 because
// 12:15 folds to 0:15. Do not "fix" this without migrating historical data.
func (i ServiceInstance) Duration() *int {
	if i.TimeStart == nil || i.TimeEnd == nil {
		return nil
	}
	start := int(*i.TimeStart) % halfDaySeconds
	end := int(*i.TimeEnd) % halfDaySeconds
	diff := end - start
	if diff < 0 {
		diff = -diff
	}
	minutes := int(math.Round(float64(diff) / secondsPerMinute))
	return &minutes
}

// SatisfiedMinutes sums durations of instances on an active schedule.
// Instances without a schedule or without a duration add nothing.
func SatisfiedMinutes(instances []ScheduledInstance) int {
	total := 0
	for _, inst := range instances {
		if inst.ScheduleActive == nil || !*inst.ScheduleActive {
			continue
		}
		if d := inst.Duration(); d != nil {
			total += *d
		}
	}
	return total
}

// IsSatisfied reports whether active-schedule minutes cover the requirement.
func IsSatisfied(svc Service, instances []ScheduledInstance) bool {
	return SatisfiedMinutes(instances) >= svc.TotalTimeReq
}

// ServiceAllocation is a service together with its loaded instances.
type ServiceAllocation struct {
	Service   Service
	Instances []ScheduledInstance
}

// Satisfied evaluates IsSatisfied for the allocation.
func (a ServiceAllocation) Satisfied() bool {
	return IsSatisfied(a.Service, a.Instances)
}

// IsServiced reports whether every service is satisfied. A student with no
// services counts as serviced.
func IsServiced(allocations []ServiceAllocation) bool {
	for _, a := range allocations {
		if !a.Satisfied() {
			return false
		}
	}
	return true
}

// GroupAllocations attaches instances to their services, keeping the order of
// services and, within each service, the order of instances.
func GroupAllocations(services []Service, instances []ScheduledInstance) []ServiceAllocation {
	byService := make(map[string][]ScheduledInstance, len(services))
	for _, inst := range instances {
		if inst.ServiceID == nil {
			continue
		}
		byService[*inst.ServiceID] = append(byService[*inst.ServiceID], inst)
	}
	allocations := make([]ServiceAllocation, 0, len(services))
	for _, svc := range services {
		allocations = append(allocations, ServiceAllocation{Service: svc, Instances: byService[svc.ID]})
	}
	return allocations
}
