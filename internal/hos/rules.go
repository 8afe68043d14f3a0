// Package hos implements the Hours-of-Service daily log engine.
//
// The engine turns a computed trip (distance, duration, mandated rest stops)
// into one DailyLog per calendar day: a duty-status timeline on the 24-hour
// grid plus a textual event list. It is a simplified simulation, not a
// certified compliance engine: it chunks driving into bounded intervals,
// inserts breaks and fuel stops, and splits the trip at daily rests.
//
// Everything here is pure apart from the injected clock used to stamp log
// dates, so a Planner can be shared between goroutines.
package hos

import (
	"fmt"

	"github.com/pkordes/eld-logbook/internal/domain"
)

// Rules holds every numeric limit the engine uses. Start from DefaultRules
// and override individual fields; tests use this to probe boundary values.
type Rules struct {
	// BreakAfterDriving is the continuous driving (hours) that forces a break.
	BreakAfterDriving float64
	// BreakDuration is the length of that break in hours.
	BreakDuration float64
	// MaxDailyDriving caps driving hours within one simulated day.
	MaxDailyDriving float64
	// DriveChunk is the longest single driving segment, in hours.
	DriveChunk float64

	// FuelStopDuration is the on-duty time spent fuelling, in hours.
	FuelStopDuration float64
	// FuelProximityMiles is how close the estimated position must be to a
	// fuel stop for the stop to be taken.
	FuelProximityMiles float64
	// RefuelOncePerStop consumes a fuel stop once it has been taken.
	// When false a stop is taken on every step that is within range.
	RefuelOncePerStop bool

	// FixedOverhead is the pickup + drop-off time removed from the trip
	// duration before deriving average speed.
	FixedOverhead float64
	// MinDrivingWindow floors the driving window used for average speed so
	// very short trips never divide by zero.
	MinDrivingWindow float64
	PickupDuration   float64
	DropOffDuration  float64

	// The remaining fields drive CalculateRestStops only.
	MaxOnDutyWindow    float64
	MaxCycleHours      float64
	DailyRestHours     float64
	CycleResetHours    float64
	FuelIntervalMiles  float64
	MaxSimulationSteps int
}

// DefaultRules returns the property-carrying driver limits the engine is
// modelled on (11 hours driving, 30-minute break after 8 hours, 70/8 cycle).
func DefaultRules() Rules {
	return Rules{
		BreakAfterDriving:  8,
		BreakDuration:      0.5,
		MaxDailyDriving:    11,
		DriveChunk:         1,
		FuelStopDuration:   0.5,
		FuelProximityMiles: 100,
		RefuelOncePerStop:  true,
		FixedOverhead:      2,
		MinDrivingWindow:   1,
		PickupDuration:     1,
		DropOffDuration:    1,
		MaxOnDutyWindow:    14,
		MaxCycleHours:      70,
		DailyRestHours:     10,
		CycleResetHours:    34,
		FuelIntervalMiles:  1000,
		MaxSimulationSteps: 200,
	}
}

// Validate rejects rule sets that would stall or corrupt the simulation.
func (r Rules) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"break_after_driving", r.BreakAfterDriving},
		{"max_daily_driving", r.MaxDailyDriving},
		{"drive_chunk", r.DriveChunk},
		{"min_driving_window", r.MinDrivingWindow},
		{"max_on_duty_window", r.MaxOnDutyWindow},
		{"max_cycle_hours", r.MaxCycleHours},
		{"fuel_interval_miles", r.FuelIntervalMiles},
	}
	for _, p := range positive {
		if !(p.v > 0) {
			return fmt.Errorf("%w: rule %s must be positive", domain.ErrInvalidInput, p.name)
		}
	}
	nonNegative := []struct {
		name string
		v    float64
	}{
		{"break_duration", r.BreakDuration},
		{"fuel_stop_duration", r.FuelStopDuration},
		{"fuel_proximity_miles", r.FuelProximityMiles},
		{"fixed_overhead", r.FixedOverhead},
		{"pickup_duration", r.PickupDuration},
		{"drop_off_duration", r.DropOffDuration},
		{"daily_rest_hours", r.DailyRestHours},
		{"cycle_reset_hours", r.CycleResetHours},
	}
	for _, p := range nonNegative {
		if !(p.v >= 0) {
			return fmt.Errorf("%w: rule %s must not be negative", domain.ErrInvalidInput, p.name)
		}
	}
	if r.MaxSimulationSteps <= 0 {
		return fmt.Errorf("%w: rule max_simulation_steps must be positive", domain.ErrInvalidInput)
	}
	return nil
}
