package dto

import "github.com/noah-isme/sped-tracker-api/internal/models"

// DayBucket holds the instances placed on one school day.
type DayBucket struct {
	Day       models.Weekday            `json:"day"`
	Label     string                    `json:"label"`
	Instances []*models.ServiceInstance `json:"instances"`
}

// WeekView buckets a schedule's instances by day, Monday through Friday.
type WeekView struct {
	Schedule *models.Schedule `json:"schedule,omitempty"`
	Days     []DayBucket      `json:"days"`
}

// Day returns the bucket for d, or nil for an unknown day.
func (w *WeekView) Day(d models.Weekday) []*models.ServiceInstance {
	for i := range w.Days {
		if w.Days[i].Day == d {
			return w.Days[i].Instances
		}
	}
	return nil
}

// HourSlot is one labelled display row of the weekly grid.
type HourSlot struct {
	Hour  int    `json:"hour"`
	Label string `json:"label"`
}

// SlotBucket holds the instances of one day that start in a given slot.
type SlotBucket struct {
	HourSlot
	Instances []*models.ServiceInstance `json:"instances"`
}

// SlotDay is one day of the slot grid.
type SlotDay struct {
	Day   models.Weekday `json:"day"`
	Label string         `json:"label"`
	Slots []SlotBucket   `json:"slots"`
}

// SlotWeekView buckets instances by day and start hour.
type SlotWeekView struct {
	Schedule *models.Schedule `json:"schedule,omitempty"`
	Days     []SlotDay        `json:"days"`
}

// Slot returns the instances in the slot labelled label on day d.
func (w *SlotWeekView) Slot(d models.Weekday, label string) []*models.ServiceInstance {
	for i := range w.Days {
		if w.Days[i].Day != d {
			continue
		}
		for j := range w.Days[i].Slots {
			if w.Days[i].Slots[j].Label == label {
				return w.Days[i].Slots[j].Instances
			}
		}
	}
	return nil
}

// DashboardSummary is the landing page overview.
type DashboardSummary struct {
	StudentCount   int              `json:"student_count"`
	ActiveSchedule *models.Schedule `json:"active_schedule,omitempty"`
}
