// Package domain contains the core data types for the ELD Logbook application.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (hos, repo, route, service, handler).
package domain

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// TripInput is everything the HOS engine needs to lay out daily logs.
// It is produced upstream (by the trip calculation) and never mutated by the engine.
type TripInput struct {
	CurrentLocation string     `json:"current_location"`
	PickupLocation  string     `json:"pickup_location"`
	DropOffLocation string     `json:"drop_off_location"`
	TotalDistance   float64    `json:"total_distance"` // miles
	TotalDuration   float64    `json:"total_duration"` // hours, driving + stops
	RestStops       []RestStop `json:"rest_stops"`
}

// TripRequest is the user-supplied part of a trip calculation.
type TripRequest struct {
	CurrentLocation  string
	PickupLocation   string
	DropOffLocation  string
	CurrentCycleUsed float64 // hours already used in the 70-hour/8-day cycle
}

// Trip is a calculated and persisted trip.
// RouteData holds the provider geometry, the waypoints and the available hours
// snapshot as raw JSON; it is stored and returned verbatim.
type Trip struct {
	ID               uuid.UUID       `json:"id"`
	CurrentLocation  string          `json:"current_location"`
	PickupLocation   string          `json:"pickup_location"`
	DropOffLocation  string          `json:"drop_off_location"`
	CurrentCycleUsed float64         `json:"current_cycle_used"`
	TotalDistance    float64         `json:"total_distance"`
	TotalDuration    float64         `json:"total_duration"`
	RouteData        json.RawMessage `json:"route_data,omitempty"`
	RestStops        []RestStop      `json:"rest_stops"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// Input projects the trip onto the engine's input shape.
func (t Trip) Input() TripInput {
	return TripInput{
		CurrentLocation: t.CurrentLocation,
		PickupLocation:  t.PickupLocation,
		DropOffLocation: t.DropOffLocation,
		TotalDistance:   t.TotalDistance,
		TotalDuration:   t.TotalDuration,
		RestStops:       t.RestStops,
	}
}

// AvailableHours is the driver's remaining budget at the start of a trip.
type AvailableHours struct {
	CycleHoursAvailable   float64 `json:"cycle_hours_available"`
	DailyDrivingAvailable float64 `json:"daily_driving_available"`
	DailyDutyAvailable    float64 `json:"daily_duty_available"`
}

// Coordinates is a geocoded point. PlaceName is the provider's display name.
type Coordinates struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	PlaceName string  `json:"place_name,omitempty"`
}

// LonLat renders the point as "lon,lat", the waypoint form routing APIs expect.
func (c Coordinates) LonLat() string {
	return strconv.FormatFloat(c.Longitude, 'f', -1, 64) + "," + strconv.FormatFloat(c.Latitude, 'f', -1, 64)
}

// LonLats renders each point with LonLat, keeping order.
func LonLats(points []Coordinates) []string {
	out := make([]string, len(points))
	for i, p := range points {
		out[i] = p.LonLat()
	}
	return out
}

// Route is a driving route returned by the routing provider.
type Route struct {
	DistanceMiles float64
	DurationHours float64
	Geometry      json.RawMessage
}
