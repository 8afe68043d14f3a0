package domain

import (
	"strings"

	"github.com/google/uuid"
)

// StopType names a kind of rest stop. Two stops merged at the same location
// carry a compound type joined with StopTypeSeparator, e.g.
// "10-hour rest + 34-hour reset".
type StopType string

const (
	StopShortBreak    StopType = "30-min break"
	StopDailyRest     StopType = "10-hour rest"
	StopCycleReset    StopType = "34-hour reset"
	StopFuel          StopType = "fuel"
	StopTypeSeparator          = " + "
)

// StopKind tells the planner whether a stop closes the driver's day.
type StopKind int

const (
	StopKindIntraDay StopKind = iota
	StopKindDayEnding
)

// stopKinds is the classification registry. Types not listed are intra-day.
var stopKinds = map[StopType]StopKind{
	StopShortBreak: StopKindIntraDay,
	StopFuel:       StopKindIntraDay,
	StopDailyRest:  StopKindDayEnding,
	StopCycleReset: StopKindDayEnding,
}

// Components splits a compound type into its parts.
func (t StopType) Components() []StopType {
	parts := strings.Split(string(t), StopTypeSeparator)
	out := make([]StopType, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, StopType(p))
		}
	}
	return out
}

// Kind classifies the stop. A compound type ends the day if any part does.
func (t StopType) Kind() StopKind {
	for _, c := range t.Components() {
		if stopKinds[c] == StopKindDayEnding {
			return StopKindDayEnding
		}
	}
	return StopKindIntraDay
}

// Has reports whether t is other or a compound type containing other.
func (t StopType) Has(other StopType) bool {
	for _, c := range t.Components() {
		if c == other {
			return true
		}
	}
	return false
}

// Merge joins two types into a compound type.
func (t StopType) Merge(other StopType) StopType {
	return t + StopTypeSeparator + other
}

// RestStop is a mandated stop along the route, positioned by distance.
// ID is the zero UUID until the stop is persisted.
type RestStop struct {
	ID                uuid.UUID `json:"id,omitempty"`
	Type              StopType  `json:"stop_type"`
	DistanceFromStart float64   `json:"distance_from_start"` // miles
	Duration          float64   `json:"duration"`            // hours
	Reason            string    `json:"reason,omitempty"`
	Location          string    `json:"location,omitempty"`
}

// EndsDay reports whether the stop terminates a calendar day of driving.
func (s RestStop) EndsDay() bool {
	return s.Type.Kind() == StopKindDayEnding
}
