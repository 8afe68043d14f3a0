package hos_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/eld-logbook/internal/domain"
	"github.com/pkordes/eld-logbook/internal/hos"
)

// ---- helpers ---------------------------------------------------------------

var fixedNow = time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

func newPlanner() *hos.Planner {
	return hos.NewPlanner(hos.DefaultRules(), func() time.Time { return fixedNow })
}

func tripFixture(distance, duration float64, stops ...domain.RestStop) domain.TripInput {
	return domain.TripInput{
		CurrentLocation: "Los Angeles, CA",
		PickupLocation:  "Phoenix, AZ",
		DropOffLocation: "Dallas, TX",
		TotalDistance:   distance,
		TotalDuration:   duration,
		RestStops:       stops,
	}
}

func dailyRest(at float64) domain.RestStop {
	return domain.RestStop{Type: domain.StopDailyRest, DistanceFromStart: at, Duration: 10}
}

// ---- single day ------------------------------------------------------------

// No rest stops gives one log with min(duration-2, 11) driving hours.
func TestPlan_SingleDay(t *testing.T) {
	logs, err := newPlanner().Plan(tripFixture(300, 6))
	require.NoError(t, err)
	require.Len(t, logs, 1)

	log := logs[0]
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), log.Date)
	assert.Equal(t, "Los Angeles, CA", log.StartLocation)
	assert.Equal(t, "Dallas, TX", log.EndLocation)
	assert.Equal(t, 300.0, log.TotalMiles)
	assert.Equal(t, 4.0, log.TotalDrivingHours)
	assert.Equal(t, 6.0, log.TotalOnDutyHours)

	assert.Equal(t, []domain.Segment{
		{Type: domain.StatusOnDuty, StartHour: 0, Duration: 1},
		{Type: domain.StatusDriving, StartHour: 1, Duration: 4},
		{Type: domain.StatusOnDuty, StartHour: 5, Duration: 1},
	}, log.Segments)
	assert.Equal(t, []domain.Event{
		{Time: "00:00", Description: "Pickup at Phoenix, AZ", Type: "on-duty"},
		{Time: "05:00", Description: "Drop off at Dallas, TX", Type: "on-duty"},
	}, log.Events)
}

func TestPlan_SingleDay_DrivingCappedAtEleven(t *testing.T) {
	logs, err := newPlanner().Plan(tripFixture(900, 20))
	require.NoError(t, err)
	require.Len(t, logs, 1)

	assert.Equal(t, 11.0, logs[0].TotalDrivingHours)
	assert.Equal(t, 13.0, logs[0].TotalOnDutyHours)
	assert.Equal(t, "12:00", logs[0].Events[1].Time)
}

func TestPlan_SingleDay_ShortTripDrivesNoNegativeHours(t *testing.T) {
	logs, err := newPlanner().Plan(tripFixture(20, 1.5))
	require.NoError(t, err)
	require.Len(t, logs, 1)

	assert.Zero(t, logs[0].TotalDrivingHours)
	assert.Equal(t, 2.0, logs[0].TotalOnDutyHours)
}

func TestPlan_IntraDayStopsOnlyStaysSingleDay(t *testing.T) {
	logs, err := newPlanner().Plan(tripFixture(600, 12,
		domain.RestStop{Type: domain.StopShortBreak, DistanceFromStart: 400, Duration: 0.5},
		domain.RestStop{Type: domain.StopFuel, DistanceFromStart: 500, Duration: 0.5},
	))
	require.NoError(t, err)

	require.Len(t, logs, 1)
	assert.Equal(t, 10.0, logs[0].TotalDrivingHours)
}

// ---- multi day -------------------------------------------------------------

// One daily rest at mile 500 of 900 gives two logs.
func TestPlan_MultiDay_TwoDays(t *testing.T) {
	logs, err := newPlanner().Plan(tripFixture(900, 20, dailyRest(500)))
	require.NoError(t, err)
	require.Len(t, logs, 2)

	day1 := logs[0]
	assert.Equal(t, "Los Angeles, CA", day1.StartLocation)
	assert.Equal(t, hos.RestArea, day1.EndLocation)
	assert.Equal(t, 500.0, day1.TotalMiles)
	assert.Equal(t, 10.0, day1.TotalDrivingHours)
	assert.Equal(t, 11.5, day1.TotalOnDutyHours)
	assert.Equal(t, domain.Segment{Type: domain.StatusOnDuty, StartHour: 0, Duration: 1}, day1.Segments[0])
	last := day1.Segments[len(day1.Segments)-1]
	assert.Equal(t, domain.Segment{Type: domain.StatusSleeper, StartHour: 11.5, Duration: 10}, last)
	assert.Equal(t, []domain.Event{
		{Time: "00:00", Description: "Pickup at Phoenix, AZ", Type: "on-duty"},
		{Time: "11:30", Description: "10-hour rest at mile 500.0", Type: "10-hour rest"},
	}, day1.Events)

	day2 := logs[1]
	assert.Equal(t, hos.ContinuingRoute, day2.StartLocation)
	assert.Equal(t, "Dallas, TX", day2.EndLocation)
	assert.Equal(t, 400.0, day2.TotalMiles)
	assert.Equal(t, 8.0, day2.TotalDrivingHours)
	assert.Equal(t, 9.0, day2.TotalOnDutyHours)
	assert.Equal(t, domain.Segment{Type: domain.StatusDriving, StartHour: 0, Duration: 1}, day2.Segments[0])
	assert.Equal(t, domain.Segment{Type: domain.StatusOnDuty, StartHour: 8, Duration: 1}, day2.Segments[len(day2.Segments)-1])
	assert.Equal(t, []domain.Event{
		{Time: "08:00", Description: "Drop off at Dallas, TX", Type: "on-duty"},
	}, day2.Events)
}

// A fuel stop near the middle of a 500-mile day adds a half hour on duty.
func TestPlan_MultiDay_FuelStopInsideDay(t *testing.T) {
	withFuel, err := newPlanner().Plan(tripFixture(900, 20,
		domain.RestStop{Type: domain.StopFuel, DistanceFromStart: 260, Duration: 0.5},
		dailyRest(500),
	))
	require.NoError(t, err)
	without, err := newPlanner().Plan(tripFixture(900, 20, dailyRest(500)))
	require.NoError(t, err)

	require.Len(t, withFuel, 2)
	assert.Equal(t, 2, countSegments(withFuel[0].Segments, domain.StatusOnDuty, 0.5))
	assert.Equal(t, 1, countSegments(without[0].Segments, domain.StatusOnDuty, 0.5))
	assert.Equal(t, without[0].TotalOnDutyHours+0.5, withFuel[0].TotalOnDutyHours)
	assert.Equal(t, without[0].TotalDrivingHours, withFuel[0].TotalDrivingHours)
	// The final day has no fuel context.
	assert.Equal(t, without[1], withFuel[1])
}

// A total_duration of 2 or less floors the driving window at one hour.
func TestPlan_MultiDay_ShortDurationFloorsSpeed(t *testing.T) {
	rules := hos.DefaultRules()
	assert.Equal(t, 100.0, hos.AverageSpeed(rules, 100, 2))
	assert.Equal(t, 100.0, hos.AverageSpeed(rules, 100, 0.5))
	assert.Equal(t, 50.0, hos.AverageSpeed(rules, 100, 4))

	logs, err := newPlanner().Plan(tripFixture(100, 2, dailyRest(50)))
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, 0.5, logs[0].TotalDrivingHours)
	assert.Equal(t, 0.5, logs[1].TotalDrivingHours)
}

func TestPlan_MultiDay_RestAtDestinationHasNoTrailingDay(t *testing.T) {
	logs, err := newPlanner().Plan(tripFixture(900, 20, dailyRest(500), dailyRest(900)))
	require.NoError(t, err)

	require.Len(t, logs, 2)
	assert.Equal(t, hos.ContinuingRoute, logs[1].StartLocation)
	assert.Equal(t, hos.RestArea, logs[1].EndLocation)
	assert.Equal(t, 400.0, logs[1].TotalMiles)
	// Later days carry no pickup.
	assert.Equal(t, domain.StatusDriving, logs[1].Segments[0].Type)
}

func TestPlan_MultiDay_CompoundRestEndsDay(t *testing.T) {
	reset := domain.RestStop{
		Type:              domain.StopDailyRest.Merge(domain.StopCycleReset),
		DistanceFromStart: 550,
		Duration:          44,
	}
	logs, err := newPlanner().Plan(tripFixture(1100, 24, reset))
	require.NoError(t, err)

	require.Len(t, logs, 2)
	sleeper := logs[0].Segments[len(logs[0].Segments)-1]
	assert.Equal(t, domain.StatusSleeper, sleeper.Type)
	assert.Equal(t, 44.0, sleeper.Duration)
	assert.Equal(t, "10-hour rest + 34-hour reset", logs[0].Events[1].Type)
}

func TestPlanMultiDay_RequiresDailyRest(t *testing.T) {
	_, err := newPlanner().PlanMultiDay(tripFixture(300, 6))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPlan_Idempotent(t *testing.T) {
	input := tripFixture(2500, 45,
		domain.RestStop{Type: domain.StopFuel, DistanceFromStart: 300, Duration: 0.5},
		dailyRest(600),
		dailyRest(1200),
		domain.RestStop{Type: domain.StopFuel, DistanceFromStart: 1500, Duration: 0.5},
		dailyRest(1800),
	)
	p := newPlanner()

	first, err := p.Plan(input)
	require.NoError(t, err)
	second, err := p.Plan(input)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPlan_DoesNotMutateInput(t *testing.T) {
	input := tripFixture(900, 20, dailyRest(500))
	before := append([]domain.RestStop(nil), input.RestStops...)

	_, err := newPlanner().Plan(input)
	require.NoError(t, err)

	assert.Equal(t, before, input.RestStops)
}

// ---- validation ------------------------------------------------------------

func TestPlan_RejectsInvalidInput(t *testing.T) {
	cases := map[string]domain.TripInput{
		"zero distance":      tripFixture(0, 10),
		"negative duration":  tripFixture(100, -1),
		"nan distance":       tripFixture(math.NaN(), 10),
		"infinite duration":  tripFixture(100, math.Inf(1)),
		"stop beyond trip":   tripFixture(900, 20, dailyRest(950)),
		"negative stop":      tripFixture(900, 20, dailyRest(-5)),
		"unordered stops":    tripFixture(900, 20, dailyRest(600), dailyRest(300)),
		"negative stop time": tripFixture(900, 20, domain.RestStop{Type: domain.StopDailyRest, DistanceFromStart: 100, Duration: -1}),
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := newPlanner().Plan(input)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestPlan_RejectsInvalidRules(t *testing.T) {
	rules := hos.DefaultRules()
	rules.DriveChunk = 0

	_, err := hos.NewPlanner(rules, nil).Plan(tripFixture(300, 6))

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ---- properties ------------------------------------------------------------

// TestPlan_Properties runs the rest stop calculator and the planner end to end
// over a spread of trips and checks the invariants every plan must hold.
func TestPlan_Properties(t *testing.T) {
	rules := hos.DefaultRules()
	trips := []struct {
		distance, duration, cycle float64
	}{
		{300, 6, 0},
		{650, 13, 0},
		{1100, 24, 65},
		{1200, 24, 10},
		{2000, 22, 0},
		{2500, 45, 65},
		{700, 14, 69.5},
		{3000, 60, 0},
	}

	for _, tc := range trips {
		stops, err := hos.CalculateRestStops(rules, tc.distance, tc.duration, tc.cycle)
		require.NoError(t, err)

		logs, err := newPlanner().Plan(tripFixture(tc.distance, tc.duration, stops...))
		require.NoError(t, err)
		require.NotEmpty(t, logs)

		var miles float64
		for _, log := range logs {
			miles += log.TotalMiles
			assert.LessOrEqual(t, log.TotalDrivingHours, rules.MaxDailyDriving)
			assert.GreaterOrEqual(t, log.TotalOnDutyHours, log.TotalDrivingHours)
			if len(logs) > 1 {
				for _, s := range log.Segments {
					if s.Type == domain.StatusDriving {
						assert.LessOrEqual(t, s.Duration, rules.DriveChunk)
					}
				}
			}
		}
		assert.InDelta(t, tc.distance, miles, 1e-6, "trip %+v", tc)
		assert.LessOrEqual(t, len(logs), len(hos.DailyRests(stops))+1)
	}
}
