package hos

import (
	"fmt"
	"math"

	"github.com/pkordes/eld-logbook/internal/domain"
)

// DriveParams describes one simulated stretch of driving.
//
// RestStops, PreviousRestDistance and RestStop give the fuel-stop search
// context: only fuel stops after PreviousRestDistance and no further than
// RestStop are considered. A nil RestStop leaves the window open-ended and
// pins the position estimate at PreviousRestDistance.
type DriveParams struct {
	StartHour            float64
	RemainingMiles       float64
	AvgSpeed             float64 // miles per hour, must be positive
	RestStops            []domain.RestStop
	PreviousRestDistance float64
	RestStop             *domain.RestStop
}

// DriveResult is the outcome of Simulate. EndHour is where the last segment
// finished on the day's grid.
type DriveResult struct {
	Segments          []domain.Segment
	TotalDrivingHours float64
	TotalOnDutyHours  float64
	EndHour           float64
}

// Simulate chunks a stretch of driving into segments no longer than
// rules.DriveChunk. It inserts a break once rules.BreakAfterDriving hours
// have been driven since the last one, takes fuel stops that come within
// rules.FuelProximityMiles of the estimated position, and stops driving at
// rules.MaxDailyDriving. Miles that do not fit under the cap are dropped.
func Simulate(rules Rules, p DriveParams) (DriveResult, error) {
	if !(p.AvgSpeed > 0) || math.IsInf(p.AvgSpeed, 0) {
		return DriveResult{}, fmt.Errorf("%w: average speed must be positive, got %v", domain.ErrInvalidInput, p.AvgSpeed)
	}
	if !(p.RemainingMiles >= 0) || math.IsInf(p.RemainingMiles, 0) {
		return DriveResult{}, fmt.Errorf("%w: remaining miles must be a non-negative number, got %v", domain.ErrInvalidInput, p.RemainingMiles)
	}

	res := DriveResult{Segments: []domain.Segment{}, EndHour: p.StartHour}

	totalDriving := p.RemainingMiles / p.AvgSpeed
	remaining := totalDriving
	sinceBreak := 0.0

	windowEnd := math.Inf(1)
	span := 0.0
	if p.RestStop != nil {
		span = p.RestStop.DistanceFromStart - p.PreviousRestDistance
		if p.RestStop.DistanceFromStart != 0 {
			windowEnd = p.RestStop.DistanceFromStart
		}
	}
	taken := make(map[int]bool)

	onDuty := func(d float64) {
		res.Segments = append(res.Segments, domain.Segment{Type: domain.StatusOnDuty, StartHour: res.EndHour, Duration: d})
		res.TotalOnDutyHours += d
		res.EndHour += d
	}

	for remaining > 0 {
		if sinceBreak >= rules.BreakAfterDriving {
			onDuty(rules.BreakDuration)
			sinceBreak = 0
		}

		position := p.PreviousRestDistance + (totalDriving-remaining)/totalDriving*span
		if i := findFuelStop(rules, p.RestStops, p.PreviousRestDistance, windowEnd, position, taken); i >= 0 {
			onDuty(rules.FuelStopDuration)
			if rules.RefuelOncePerStop {
				taken[i] = true
			}
		}

		driveTime := min(rules.DriveChunk, remaining, rules.MaxDailyDriving-res.TotalDrivingHours)
		if driveTime <= 0 {
			break
		}

		res.Segments = append(res.Segments, domain.Segment{Type: domain.StatusDriving, StartHour: res.EndHour, Duration: driveTime})
		res.TotalDrivingHours += driveTime
		res.TotalOnDutyHours += driveTime
		res.EndHour += driveTime
		remaining -= driveTime
		sinceBreak += driveTime
	}

	return res, nil
}

// findFuelStop returns the index of the first untaken fuel stop inside
// (from, to] and within the proximity window of position, or -1.
func findFuelStop(rules Rules, stops []domain.RestStop, from, to, position float64, taken map[int]bool) int {
	for i, s := range stops {
		if taken[i] || !s.Type.Has(domain.StopFuel) {
			continue
		}
		if s.DistanceFromStart <= from || s.DistanceFromStart > to {
			continue
		}
		if math.Abs(s.DistanceFromStart-position) < rules.FuelProximityMiles {
			return i
		}
	}
	return -1
}
