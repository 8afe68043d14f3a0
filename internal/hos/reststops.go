package hos

import (
	"fmt"
	"math"

	"github.com/pkordes/eld-logbook/internal/domain"
)

// mergeDistance is how close (miles) two stops must be to merge into one.
const mergeDistance = 1.0

// Available returns the driver's remaining hours for a trip starting with
// cycleUsed hours already on the 70-hour clock.
func Available(rules Rules, cycleUsed float64) domain.AvailableHours {
	return domain.AvailableHours{
		CycleHoursAvailable:   math.Max(0, rules.MaxCycleHours-cycleUsed),
		DailyDrivingAvailable: rules.MaxDailyDriving,
		DailyDutyAvailable:    rules.MaxOnDutyWindow,
	}
}

// calcState is the running clock of the rest stop calculation.
type calcState struct {
	driving    float64
	duty       float64
	sinceBreak float64
	cycle      float64
	traveled   float64
	lastFuel   float64
}

// CalculateRestStops walks the trip in steps of at most rules.DriveChunk and
// records where the driver must stop. At each step, in priority order: a
// daily rest once driving or on-duty time is exhausted (plus a cycle reset
// when the cycle is spent), a short break after continuous driving, a fuel
// stop every rules.FuelIntervalMiles, otherwise more driving.
//
// Stops closer than a mile to the previous one are merged into it.
func CalculateRestStops(rules Rules, totalDistance, totalDuration, cycleUsed float64) ([]domain.RestStop, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if !finitePositive(totalDistance) {
		return nil, fmt.Errorf("%w: total distance must be a positive number", domain.ErrInvalidInput)
	}
	driveWindow := totalDuration - rules.FixedOverhead
	if !(driveWindow > 0) || math.IsInf(driveWindow, 0) {
		return nil, fmt.Errorf("%w: trip duration too short to compute average speed", domain.ErrInvalidInput)
	}
	avgSpeed := totalDistance / driveWindow

	st := calcState{duty: rules.PickupDuration, cycle: cycleUsed + rules.PickupDuration}
	stops := []domain.RestStop{}

	for steps := 0; st.traveled < totalDistance; steps++ {
		if steps >= rules.MaxSimulationSteps {
			break
		}

		switch {
		case st.driving >= rules.MaxDailyDriving || st.duty >= rules.MaxOnDutyWindow:
			stops = addStop(stops, newStop(domain.StopDailyRest, rules.DailyRestHours, st.traveled,
				"Reached daily HOS driving/on-duty limit"))
			if st.cycle >= rules.MaxCycleHours {
				stops = addStop(stops, newStop(domain.StopCycleReset, rules.CycleResetHours, st.traveled,
					fmt.Sprintf("Cycle limit reached (%g hours) - performing reset", rules.MaxCycleHours)))
				st.cycle = 0
			}
			st.driving, st.duty, st.sinceBreak = 0, 0, 0

		case st.sinceBreak >= rules.BreakAfterDriving:
			stops = addStop(stops, newStop(domain.StopShortBreak, rules.BreakDuration, st.traveled,
				fmt.Sprintf("%g-hour continuous driving limit", rules.BreakAfterDriving)))
			st.sinceBreak = 0
			st.duty += rules.BreakDuration
			st.cycle += rules.BreakDuration

		case st.traveled-st.lastFuel >= rules.FuelIntervalMiles:
			stops = addStop(stops, newStop(domain.StopFuel, rules.FuelStopDuration, st.traveled,
				fmt.Sprintf("Scheduled fuel stop (every %g miles)", rules.FuelIntervalMiles)))
			st.lastFuel = st.traveled
			st.duty += rules.FuelStopDuration
			st.cycle += rules.FuelStopDuration

		default:
			hours := max(0, min(
				rules.DriveChunk,
				rules.MaxDailyDriving-st.driving,
				rules.MaxOnDutyWindow-st.duty,
				rules.BreakAfterDriving-st.sinceBreak,
				(totalDistance-st.traveled)/avgSpeed,
			))
			if hours <= 0 {
				return stops, nil
			}
			st.traveled += hours * avgSpeed
			st.driving += hours
			st.duty += hours
			st.sinceBreak += hours
			st.cycle += hours
		}
	}

	return stops, nil
}

func newStop(t domain.StopType, duration, distance float64, reason string) domain.RestStop {
	return domain.RestStop{
		Type:              t,
		Duration:          duration,
		DistanceFromStart: distance,
		Reason:            reason,
		Location:          fmt.Sprintf("Rest stop at mile %.1f", distance),
	}
}

// addStop appends s, or folds it into the last stop when both sit at
// practically the same mile marker.
func addStop(stops []domain.RestStop, s domain.RestStop) []domain.RestStop {
	if n := len(stops); n > 0 && math.Abs(stops[n-1].DistanceFromStart-s.DistanceFromStart) < mergeDistance {
		last := stops[n-1]
		last.Type = last.Type.Merge(s.Type)
		last.Duration += s.Duration
		last.Reason += "; " + s.Reason
		return append(stops[:n-1:n-1], last)
	}
	return append(stops, s)
}
