package handler

import (
	"net/http"

	"github.com/pkordes/eld-logbook/internal/domain"
)

// CalculateTrip handles POST /trips/calculate.
func (s *Server) CalculateTrip(w http.ResponseWriter, r *http.Request) {
	var body calculateTripRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	switch {
	case body.CurrentLocation == nil:
		invalid(w, "current_location is required")
		return
	case body.PickupLocation == nil:
		invalid(w, "pickup_location is required")
		return
	case body.DropOffLocation == nil:
		invalid(w, "drop_off_location is required")
		return
	case body.CurrentCycleUsed == nil:
		invalid(w, "current_cycle_used is required")
		return
	}

	trip, err := s.trips.Calculate(r.Context(), domain.TripRequest{
		CurrentLocation:  *body.CurrentLocation,
		PickupLocation:   *body.PickupLocation,
		DropOffLocation:  *body.DropOffLocation,
		CurrentCycleUsed: *body.CurrentCycleUsed,
	})
	if err != nil {
		fail(w, r, err, "location not found")
		return
	}

	writeJSON(w, http.StatusCreated, tripToResponse(trip))
}

// ListTrips handles GET /trips.
// Supports ?page= and ?limit= (defaults: page=1, limit=20, max=100).
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	page, limit, ok := pageParams(w, r)
	if !ok {
		return
	}
	params := domain.NewPaginationParams(page, limit)

	trips, total, err := s.trips.ListPaged(r.Context(), params)
	if err != nil {
		fail(w, r, err, "trips not found")
		return
	}

	data := make([]tripResponse, len(trips))
	for i, t := range trips {
		data[i] = tripToResponse(t)
	}
	writeJSON(w, http.StatusOK, tripListResponse{
		Data: data,
		Pagination: pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: int(total),
		},
	})
}

// GetTrip handles GET /trips/{id}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		fail(w, r, err, "trip not found")
		return
	}

	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// DeleteTrip handles DELETE /trips/{id}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.trips.Delete(r.Context(), id); err != nil {
		fail(w, r, err, "trip not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
