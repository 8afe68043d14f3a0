package hos

import (
	"fmt"
	"math"
	"time"

	"github.com/pkordes/eld-logbook/internal/domain"
)

// ContinuingRoute is the start location of every day after the first.
const ContinuingRoute = "Continuing route"

// RestArea is the end location of a day that closes at a daily rest.
const RestArea = "Rest area"

// Planner lays a trip out as daily logs.
type Planner struct {
	rules Rules
	clock func() time.Time
}

// NewPlanner returns a Planner using rules. clock stamps the date of each
// log; nil means time.Now.
func NewPlanner(rules Rules, clock func() time.Time) *Planner {
	if clock == nil {
		clock = time.Now
	}
	return &Planner{rules: rules, clock: clock}
}

// Rules returns the limits the planner was built with.
func (p *Planner) Rules() Rules {
	return p.rules
}

// Plan validates input and returns one log per calendar day of the trip.
// Trips without a day-ending rest stop get a single log.
func (p *Planner) Plan(input domain.TripInput) ([]domain.DailyLog, error) {
	if err := p.rules.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateInput(input); err != nil {
		return nil, err
	}
	if len(DailyRests(input.RestStops)) == 0 {
		return p.PlanSingleDay(input)
	}
	return p.PlanMultiDay(input)
}

// PlanSingleDay lays the whole trip onto one log: a pickup hour, one
// contiguous driving block capped at the daily limit, and a drop-off hour.
// It does not chunk driving or insert breaks.
func (p *Planner) PlanSingleDay(input domain.TripInput) ([]domain.DailyLog, error) {
	r := p.rules
	log := NewLog(p.clock(), input.CurrentLocation, input.DropOffLocation, input.TotalDistance)

	log = AddEvent(log, 0, "Pickup at "+input.PickupLocation, string(domain.StatusOnDuty), r.PickupDuration)

	driving := max(min(input.TotalDuration-r.FixedOverhead, r.MaxDailyDriving), 0)
	log = AddSegments(log, domain.Segment{Type: domain.StatusDriving, StartHour: r.PickupDuration, Duration: driving})
	log.TotalDrivingHours = driving

	log = AddEvent(log, r.PickupDuration+driving, "Drop off at "+input.DropOffLocation, string(domain.StatusOnDuty), r.DropOffDuration)
	log.TotalOnDutyHours = driving + r.PickupDuration + r.DropOffDuration

	return []domain.DailyLog{log}, nil
}

// PlanMultiDay closes a day at every daily rest and adds a final day for any
// distance left after the last one. It requires at least one daily rest.
func (p *Planner) PlanMultiDay(input domain.TripInput) ([]domain.DailyLog, error) {
	r := p.rules
	rests := DailyRests(input.RestStops)
	if len(rests) == 0 {
		return nil, fmt.Errorf("%w: multi-day plan needs at least one daily rest", domain.ErrInvalidInput)
	}

	avgSpeed := AverageSpeed(r, input.TotalDistance, input.TotalDuration)

	logs := make([]domain.DailyLog, 0, len(rests)+1)
	prevRest := 0.0

	for i, rest := range rests {
		miles := rest.DistanceFromStart - prevRest
		start, startHour := ContinuingRoute, 0.0
		if i == 0 {
			start, startHour = input.CurrentLocation, r.PickupDuration
		}

		log := NewLog(p.clock(), start, RestArea, miles)
		if i == 0 {
			log = AddEvent(log, 0, "Pickup at "+input.PickupLocation, string(domain.StatusOnDuty), r.PickupDuration)
		}

		res, err := Simulate(r, DriveParams{
			StartHour:            startHour,
			RemainingMiles:       miles,
			AvgSpeed:             avgSpeed,
			RestStops:            input.RestStops,
			PreviousRestDistance: prevRest,
			RestStop:             &rest,
		})
		if err != nil {
			return nil, fmt.Errorf("hos.Planner.PlanMultiDay: day %d: %w", i+1, err)
		}
		log = AddDriving(log, res)

		log = AddSegments(log, domain.Segment{Type: domain.StatusSleeper, StartHour: res.EndHour, Duration: rest.Duration})
		log = AddEvent(log, res.EndHour, restDescription(rest), string(rest.Type), 0)

		logs = append(logs, log)
		prevRest = rest.DistanceFromStart
	}

	if prevRest < input.TotalDistance {
		miles := input.TotalDistance - prevRest
		log := NewLog(p.clock(), ContinuingRoute, input.DropOffLocation, miles)

		res, err := Simulate(r, DriveParams{RemainingMiles: miles, AvgSpeed: avgSpeed})
		if err != nil {
			return nil, fmt.Errorf("hos.Planner.PlanMultiDay: final day: %w", err)
		}
		log = AddDriving(log, res)
		log = AddEvent(log, res.EndHour, "Drop off at "+input.DropOffLocation, string(domain.StatusOnDuty), r.DropOffDuration)

		logs = append(logs, log)
	}

	return logs, nil
}

// AverageSpeed derives miles per hour from the whole trip, excluding the
// fixed pickup/drop-off overhead. The driving window is floored at
// rules.MinDrivingWindow, which distorts speed for very short trips but never
// divides by zero.
func AverageSpeed(rules Rules, distance, duration float64) float64 {
	return distance / math.Max(duration-rules.FixedOverhead, rules.MinDrivingWindow)
}

// DailyRests returns the day-ending stops in their original order.
func DailyRests(stops []domain.RestStop) []domain.RestStop {
	var out []domain.RestStop
	for _, s := range stops {
		if s.EndsDay() {
			out = append(out, s)
		}
	}
	return out
}

// ValidateInput rejects trips the engine cannot lay out consistently.
func ValidateInput(in domain.TripInput) error {
	if !finitePositive(in.TotalDistance) {
		return fmt.Errorf("%w: total_distance must be a positive number", domain.ErrInvalidInput)
	}
	if !finitePositive(in.TotalDuration) {
		return fmt.Errorf("%w: total_duration must be a positive number", domain.ErrInvalidInput)
	}
	prev := 0.0
	for i, s := range in.RestStops {
		switch {
		case !finiteNonNegative(s.DistanceFromStart):
			return fmt.Errorf("%w: rest_stops[%d].distance_from_start must be a non-negative number", domain.ErrInvalidInput, i)
		case !finiteNonNegative(s.Duration):
			return fmt.Errorf("%w: rest_stops[%d].duration must be a non-negative number", domain.ErrInvalidInput, i)
		case s.DistanceFromStart > in.TotalDistance:
			return fmt.Errorf("%w: rest_stops[%d] at mile %.1f is beyond the trip distance %.1f",
				domain.ErrInvalidInput, i, s.DistanceFromStart, in.TotalDistance)
		case s.DistanceFromStart < prev:
			return fmt.Errorf("%w: rest_stops must be ordered by distance_from_start", domain.ErrInvalidInput)
		}
		prev = s.DistanceFromStart
	}
	return nil
}

func restDescription(s domain.RestStop) string {
	return fmt.Sprintf("%s at mile %.1f", s.Type, s.DistanceFromStart)
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

func finiteNonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}
