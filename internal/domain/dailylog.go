package domain

import "time"

// DutyStatus is one of the four rows of a driver's daily log grid.
type DutyStatus string

const (
	StatusOffDuty DutyStatus = "off-duty"
	StatusSleeper DutyStatus = "sleeper"
	StatusDriving DutyStatus = "driving"
	StatusOnDuty  DutyStatus = "on-duty"
)

// Segment is a contiguous block on the 24-hour grid of a single day.
// Segments are not checked for overlap.
type Segment struct {
	Type      DutyStatus `json:"type"`
	StartHour float64    `json:"startHour"`
	Duration  float64    `json:"duration"`
}

// Event is a timestamped annotation on a daily log.
// Type is a duty status or, for rest events, the rest stop type.
type Event struct {
	Time        string `json:"time"` // "HH:MM"
	Description string `json:"description"`
	Type        string `json:"type"`
}

// DailyLog is one calendar day of a trip.
// Date is stamped when the log is created, not derived from the trip.
// TotalOnDutyHours includes driving time.
type DailyLog struct {
	Date              time.Time `json:"date"`
	StartLocation     string    `json:"startLocation"`
	EndLocation       string    `json:"endLocation"`
	TotalMiles        float64   `json:"totalMiles"`
	TotalDrivingHours float64   `json:"totalDrivingHours"`
	TotalOnDutyHours  float64   `json:"totalOnDutyHours"`
	Events            []Event   `json:"events"`
	Segments          []Segment `json:"segments"`
}

// ExportRow is one segment of one daily log, flattened for export.
// Day is 1-based.
type ExportRow struct {
	Day           int
	Date          time.Time
	StartLocation string
	EndLocation   string
	Status        DutyStatus
	StartHour     float64
	StartTime     string // "HH:MM"
	Duration      float64
}
