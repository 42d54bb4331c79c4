package export

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
)

const icsFloatingLayout = "20060102T150405"

// RecurringEvent is a weekly occurrence at a fixed wall-clock time.
type RecurringEvent struct {
	UID     string
	Summary string
	Weekday time.Weekday
	// Start and End are offsets from midnight.
	Start time.Duration
	End   time.Duration
}

// ICSExporter renders weekly recurring events into an iCalendar feed.
type ICSExporter struct {
	ProductID string
}

// NewICSExporter constructs an iCalendar exporter.
func NewICSExporter(productID string) *ICSExporter {
	return &ICSExporter{ProductID: productID}
}

// Render emits one VEVENT per recurring event, starting on the first matching
// weekday on or after from and repeating weekly through until. Times are
// floating (no zone) because schedule times carry none.
func (e *ICSExporter) Render(name string, from, until time.Time, events []RecurringEvent) ([]byte, error) {
	if until.Before(from) {
		return nil, fmt.Errorf("ics range ends before it starts")
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	if e.ProductID != "" {
		cal.SetProductId(e.ProductID)
	}
	if name != "" {
		cal.SetXWRCalName(name)
	}

	stamp := time.Now().UTC()
	lastDay := time.Date(until.Year(), until.Month(), until.Day(), 23, 59, 59, 0, time.UTC)

	for _, ev := range events {
		day := FirstWeekdayOnOrAfter(from, ev.Weekday)
		if day.After(lastDay) {
			continue
		}
		event := cal.AddEvent(ev.UID)
		event.SetDtStampTime(stamp)
		event.SetSummary(ev.Summary)
		event.SetProperty(ics.ComponentPropertyDtStart, day.Add(ev.Start).Format(icsFloatingLayout))
		event.SetProperty(ics.ComponentPropertyDtEnd, day.Add(ev.End).Format(icsFloatingLayout))
		event.SetProperty(ics.ComponentPropertyRrule, "FREQ=WEEKLY;UNTIL="+lastDay.Format(icsFloatingLayout))
	}

	return []byte(cal.Serialize()), nil
}

// FirstWeekdayOnOrAfter returns midnight of the first date >= from falling on wd.
func FirstWeekdayOnOrAfter(from time.Time, wd time.Weekday) time.Time {
	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(wd) - int(day.Weekday()) + 7) % 7
	return day.AddDate(0, 0, offset)
}
