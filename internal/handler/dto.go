package handler

import (
	"encoding/json"
	"fmt"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/eld-logbook/internal/domain"
)

// ---- requests --------------------------------------------------------------

// calculateTripRequest is the body of POST /trips/calculate.
// Pointer fields distinguish "absent" from a zero value.
type calculateTripRequest struct {
	CurrentLocation  *string  `json:"current_location"`
	PickupLocation   *string  `json:"pickup_location"`
	DropOffLocation  *string  `json:"drop_off_location"`
	CurrentCycleUsed *float64 `json:"current_cycle_used"`
}

// tripInputRequest is the body of POST /logs.
type tripInputRequest struct {
	CurrentLocation string            `json:"current_location"`
	PickupLocation  string            `json:"pickup_location"`
	DropOffLocation string            `json:"drop_off_location"`
	TotalDistance   *float64          `json:"total_distance"`
	TotalDuration   *float64          `json:"total_duration"`
	RestStops       []restStopRequest `json:"rest_stops"`
}

type restStopRequest struct {
	StopType          string   `json:"stop_type"`
	DistanceFromStart *float64 `json:"distance_from_start"`
	Duration          *float64 `json:"duration"`
	Reason            string   `json:"reason"`
	Location          string   `json:"location"`
}

// ---- responses -------------------------------------------------------------

type tripResponse struct {
	ID               openapi_types.UUID `json:"id"`
	CurrentLocation  string             `json:"current_location"`
	PickupLocation   string             `json:"pickup_location"`
	DropOffLocation  string             `json:"drop_off_location"`
	CurrentCycleUsed float64            `json:"current_cycle_used"`
	TotalDistance    float64            `json:"total_distance"`
	TotalDuration    float64            `json:"total_duration"`
	RouteData        json.RawMessage    `json:"route_data,omitempty"`
	RestStops        []restStopResponse `json:"rest_stops"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

type restStopResponse struct {
	ID                openapi_types.UUID `json:"id"`
	StopType          string             `json:"stop_type"`
	Location          string             `json:"location"`
	DistanceFromStart float64            `json:"distance_from_start"`
	Duration          float64            `json:"duration"`
	Reason            string             `json:"reason,omitempty"`
}

type pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

type tripListResponse struct {
	Data       []tripResponse `json:"data"`
	Pagination pagination     `json:"pagination"`
}

type dailyLogResponse struct {
	Date              openapi_types.Date `json:"date"`
	StartLocation     string             `json:"startLocation"`
	EndLocation       string             `json:"endLocation"`
	TotalMiles        float64            `json:"totalMiles"`
	TotalDrivingHours float64            `json:"totalDrivingHours"`
	TotalOnDutyHours  float64            `json:"totalOnDutyHours"`
	Events            []domain.Event     `json:"events"`
	Segments          []domain.Segment   `json:"segments"`
}

type exportRowResponse struct {
	Day           int                `json:"day"`
	Date          openapi_types.Date `json:"date"`
	StartLocation string             `json:"start_location"`
	EndLocation   string             `json:"end_location"`
	Status        string             `json:"status"`
	StartHour     float64            `json:"start_hour"`
	StartTime     string             `json:"start_time"`
	Duration      float64            `json:"duration"`
}

// ---- mapping helpers -------------------------------------------------------

func tripToResponse(t domain.Trip) tripResponse {
	resp := tripResponse{
		ID:               t.ID,
		CurrentLocation:  t.CurrentLocation,
		PickupLocation:   t.PickupLocation,
		DropOffLocation:  t.DropOffLocation,
		CurrentCycleUsed: t.CurrentCycleUsed,
		TotalDistance:    t.TotalDistance,
		TotalDuration:    t.TotalDuration,
		RouteData:        t.RouteData,
		RestStops:        make([]restStopResponse, len(t.RestStops)),
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
	for i, s := range t.RestStops {
		resp.RestStops[i] = restStopResponse{
			ID:                s.ID,
			StopType:          string(s.Type),
			Location:          s.Location,
			DistanceFromStart: s.DistanceFromStart,
			Duration:          s.Duration,
			Reason:            s.Reason,
		}
	}
	return resp
}

func logsToResponse(logs []domain.DailyLog) []dailyLogResponse {
	out := make([]dailyLogResponse, len(logs))
	for i, l := range logs {
		out[i] = dailyLogResponse{
			Date:              openapi_types.Date{Time: l.Date},
			StartLocation:     l.StartLocation,
			EndLocation:       l.EndLocation,
			TotalMiles:        l.TotalMiles,
			TotalDrivingHours: l.TotalDrivingHours,
			TotalOnDutyHours:  l.TotalOnDutyHours,
			Events:            l.Events,
			Segments:          l.Segments,
		}
	}
	return out
}

// toTripInput converts a POST /logs body into the engine input. The returned
// message is non-empty when a required field is missing.
func (b tripInputRequest) toTripInput() (domain.TripInput, string) {
	if b.TotalDistance == nil {
		return domain.TripInput{}, "total_distance is required"
	}
	if b.TotalDuration == nil {
		return domain.TripInput{}, "total_duration is required"
	}
	in := domain.TripInput{
		CurrentLocation: b.CurrentLocation,
		PickupLocation:  b.PickupLocation,
		DropOffLocation: b.DropOffLocation,
		TotalDistance:   *b.TotalDistance,
		TotalDuration:   *b.TotalDuration,
	}
	for i, s := range b.RestStops {
		switch {
		case s.StopType == "":
			return domain.TripInput{}, fmt.Sprintf("rest_stops[%d].stop_type is required", i)
		case s.DistanceFromStart == nil:
			return domain.TripInput{}, fmt.Sprintf("rest_stops[%d].distance_from_start is required", i)
		case s.Duration == nil:
			return domain.TripInput{}, fmt.Sprintf("rest_stops[%d].duration is required", i)
		}
		in.RestStops = append(in.RestStops, domain.RestStop{
			Type:              domain.StopType(s.StopType),
			DistanceFromStart: *s.DistanceFromStart,
			Duration:          *s.Duration,
			Reason:            s.Reason,
			Location:          s.Location,
		})
	}
	return in, ""
}
