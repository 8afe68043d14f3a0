package handler

import "net/http"

// GetTripLogs handles GET /trips/{id}/logs.
// It returns the daily logs generated from the stored trip.
func (s *Server) GetTripLogs(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	logs, err := s.logs.ForTrip(r.Context(), id)
	if err != nil {
		fail(w, r, err, "trip not found")
		return
	}

	writeJSON(w, http.StatusOK, logsToResponse(logs))
}

// PlanLogs handles POST /logs.
// It runs the log engine on a caller-supplied trip input without storing anything.
func (s *Server) PlanLogs(w http.ResponseWriter, r *http.Request) {
	var body tripInputRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	input, msg := body.toTripInput()
	if msg != "" {
		invalid(w, msg)
		return
	}

	logs, err := s.logs.Plan(r.Context(), input)
	if err != nil {
		fail(w, r, err, "not found")
		return
	}

	writeJSON(w, http.StatusOK, logsToResponse(logs))
}
