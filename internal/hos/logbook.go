package hos

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/pkordes/eld-logbook/internal/domain"
)

// minuteEpsilon absorbs float noise from summed fractional hours, so an
// accumulated 12.499999999999998 still renders as "12:30".
const minuteEpsilon = 1e-6

// FormatHour renders a fractional hour as "HH:MM", flooring to the minute:
// 5.999 renders as "05:59".
func FormatHour(hour float64) string {
	total := int(math.Floor(hour*60 + minuteEpsilon))
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// NewLog returns an empty daily log stamped with the calendar day of date.
func NewLog(date time.Time, start, end string, miles float64) domain.DailyLog {
	y, mo, d := date.Date()
	return domain.DailyLog{
		Date:          time.Date(y, mo, d, 0, 0, 0, 0, date.Location()),
		StartLocation: start,
		EndLocation:   end,
		TotalMiles:    miles,
		Events:        []domain.Event{},
		Segments:      []domain.Segment{},
	}
}

// AddEvent returns a copy of log with an event at hour appended.
// When onDuty is positive an on-duty segment of that length is also appended,
// starting on the whole hour of the event, and counted in TotalOnDutyHours.
func AddEvent(log domain.DailyLog, hour float64, description, eventType string, onDuty float64) domain.DailyLog {
	log.Events = append(slices.Clip(log.Events), domain.Event{
		Time:        FormatHour(hour),
		Description: description,
		Type:        eventType,
	})
	if onDuty > 0 {
		log = AddSegments(log, domain.Segment{
			Type:      domain.StatusOnDuty,
			StartHour: math.Floor(hour),
			Duration:  onDuty,
		})
		log.TotalOnDutyHours += onDuty
	}
	return log
}

// AddSegments returns a copy of log with segs appended. Totals are untouched.
func AddSegments(log domain.DailyLog, segs ...domain.Segment) domain.DailyLog {
	log.Segments = append(slices.Clip(log.Segments), segs...)
	return log
}

// AddDriving folds a simulator result into a copy of log.
func AddDriving(log domain.DailyLog, res DriveResult) domain.DailyLog {
	log = AddSegments(log, res.Segments...)
	log.TotalDrivingHours += res.TotalDrivingHours
	log.TotalOnDutyHours += res.TotalOnDutyHours
	return log
}
