package service

import (
	"github.com/noah-isme/sped-tracker-api/internal/dto"
	"github.com/noah-isme/sped-tracker-api/internal/models"
)

// HourSlots are the display rows of the weekly grid. Hours after noon keep
// their 12-hour value, so an instance is matched by comparing its 24-hour
// start hour to Hour directly: afternoon instances (13:00 and later) never
// land in a slot, and a 1 AM start would land in the 1 PM row. Existing
// printouts depend on this layout.
var HourSlots = []dto.HourSlot{
	{Hour: 7, Label: "7 AM"},
	{Hour: 8, Label: "8 AM"},
	{Hour: 9, Label: "9 AM"},
	{Hour: 10, Label: "10 AM"},
	{Hour: 11, Label: "11 AM"},
	{Hour: 12, Label: "12 PM"},
	{Hour: 1, Label: "1 PM"},
	{Hour: 2, Label: "2 PM"},
	{Hour: 3, Label: "3 PM"},
}

// BuildWeekView buckets instances by day, Monday through Friday. Every day is
// present, and within a day instances keep their input order. Buckets hold
// pointers into instances.
func BuildWeekView(instances []models.ServiceInstance) dto.WeekView {
	index := make(map[models.Weekday]int, len(models.Weekdays))
	view := dto.WeekView{Days: make([]dto.DayBucket, len(models.Weekdays))}
	for i, day := range models.Weekdays {
		index[day] = i
		view.Days[i] = dto.DayBucket{Day: day, Label: day.Label(), Instances: []*models.ServiceInstance{}}
	}
	for i := range instances {
		pos, ok := index[instances[i].Day]
		if !ok {
			continue
		}
		view.Days[pos].Instances = append(view.Days[pos].Instances, &instances[i])
	}
	return view
}

// BuildSlotView further splits each day into HourSlots by start hour.
// Instances without a start time are left out.
func BuildSlotView(instances []models.ServiceInstance) dto.SlotWeekView {
	week := BuildWeekView(instances)
	view := dto.SlotWeekView{Days: make([]dto.SlotDay, len(week.Days))}
	for i, bucket := range week.Days {
		day := dto.SlotDay{Day: bucket.Day, Label: bucket.Label, Slots: make([]dto.SlotBucket, len(HourSlots))}
		for j, slot := range HourSlots {
			day.Slots[j] = dto.SlotBucket{HourSlot: slot, Instances: []*models.ServiceInstance{}}
		}
		for _, inst := range bucket.Instances {
			if inst.TimeStart == nil {
				continue
			}
			for j := range day.Slots {
				if day.Slots[j].Hour == inst.TimeStart.Hour() {
					day.Slots[j].Instances = append(day.Slots[j].Instances, inst)
					break
				}
			}
		}
		view.Days[i] = day
	}
	return view
}
