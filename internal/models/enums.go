package models

import "time"

// Weekday is a school day on which a service instance takes place.
type Weekday string

const (
	Monday    Weekday = "M"
	Tuesday   Weekday = "Tu"
	Wednesday Weekday = "W"
	Thursday  Weekday = "Th"
	Friday    Weekday = "F"
)

// Weekdays lists school days in display order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}

var weekdayLabels = map[Weekday]string{
	Monday:    "Monday",
	Tuesday:   "Tuesday",
	Wednesday: "Wednesday",
	Thursday:  "Thursday",
	Friday:    "Friday",
}

var weekdayTime = map[Weekday]time.Weekday{
	Monday:    time.Monday,
	Tuesday:   time.Tuesday,
	Wednesday: time.Wednesday,
	Thursday:  time.Thursday,
	Friday:    time.Friday,
}

// Valid reports whether d is one of the five school days.
func (d Weekday) Valid() bool {
	_, ok := weekdayLabels[d]
	return ok
}

// Label returns the full day name.
func (d Weekday) Label() string { return weekdayLabels[d] }

// TimeWeekday converts to the standard library weekday.
func (d Weekday) TimeWeekday() time.Weekday { return weekdayTime[d] }

// Subject is the instructional area a service covers.
type Subject string

const (
	SubjectMath Subject = "MATH"
	SubjectELA  Subject = "ELA"
)

// Label returns the display name.
func (s Subject) Label() string {
	switch s {
	case SubjectMath:
		return "Math"
	case SubjectELA:
		return "ELA"
	}
	return string(s)
}

// ServiceType describes where a service is delivered.
type ServiceType string

const (
	ServiceTypePushIn  ServiceType = "PI"
	ServiceTypePullOut ServiceType = "PO"
)

// Label returns the display name.
func (t ServiceType) Label() string {
	switch t {
	case ServiceTypePushIn:
		return "Push-In"
	case ServiceTypePullOut:
		return "Pull-Out"
	}
	return string(t)
}
