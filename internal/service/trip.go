// Package service contains the business logic for the ELD Logbook API.
// Services validate inputs, orchestrate the routing provider, the HOS engine
// and the repos. No SQL and no HTTP live here.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pkordes/eld-logbook/internal/domain"
	"github.com/pkordes/eld-logbook/internal/hos"
	"github.com/pkordes/eld-logbook/internal/repo"
)

// RouteProvider resolves locations and driving routes.
// *route.MapboxClient satisfies it.
type RouteProvider interface {
	Geocode(ctx context.Context, location string) (domain.Coordinates, error)
	Directions(ctx context.Context, waypoints []domain.Coordinates) (domain.Route, error)
}

// TripService implements trip calculation and the trip read/delete operations.
type TripService struct {
	repo   repo.TripRepo
	routes RouteProvider
	rules  hos.Rules
}

// NewTripService constructs a TripService.
func NewTripService(r repo.TripRepo, routes RouteProvider, rules hos.Rules) *TripService {
	return &TripService{repo: r, routes: routes, rules: rules}
}

// routeData is persisted as the trip's route_data JSON document.
type routeData struct {
	Geometry       json.RawMessage       `json:"geometry"`
	Waypoints      []string              `json:"waypoints"`
	AvailableHours domain.AvailableHours `json:"available_hours"`
}

// Calculate geocodes the three trip locations, routes through them in order,
// plans the HOS rest stops and persists the result.
func (s *TripService) Calculate(ctx context.Context, req domain.TripRequest) (domain.Trip, error) {
	if err := s.validateRequest(&req); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Calculate: %w", err)
	}

	locations := []string{req.CurrentLocation, req.PickupLocation, req.DropOffLocation}
	points := make([]domain.Coordinates, len(locations))

	g, gctx := errgroup.WithContext(ctx)
	for i, loc := range locations {
		g.Go(func() error {
			c, err := s.routes.Geocode(gctx, loc)
			if err != nil {
				return fmt.Errorf("geocode %q: %w", loc, err)
			}
			points[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Calculate: %w", err)
	}

	rt, err := s.routes.Directions(ctx, points)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Calculate: directions: %w", err)
	}

	stops, err := hos.CalculateRestStops(s.rules, rt.DistanceMiles, rt.DurationHours, req.CurrentCycleUsed)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Calculate: %w", err)
	}

	data, err := json.Marshal(routeData{
		Geometry:       rt.Geometry,
		Waypoints:      domain.LonLats(points),
		AvailableHours: hos.Available(s.rules, req.CurrentCycleUsed),
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Calculate: encode route data: %w", err)
	}

	created, err := s.repo.Create(ctx, domain.Trip{
		CurrentLocation:  req.CurrentLocation,
		PickupLocation:   req.PickupLocation,
		DropOffLocation:  req.DropOffLocation,
		CurrentCycleUsed: req.CurrentCycleUsed,
		TotalDistance:    rt.DistanceMiles,
		TotalDuration:    rt.DurationHours,
		RouteData:        data,
		RestStops:        stops,
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Calculate: %w", err)
	}
	return created, nil
}

// GetByID returns a single trip with its rest stops.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return t, nil
}

// ListPaged returns one page of trips and the total count.
func (s *TripService) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	trips, total, err := s.repo.ListPaged(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.ListPaged: %w", err)
	}
	return trips, total, nil
}

// Delete removes a trip by ID.
func (s *TripService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// validateRequest trims the locations in place and checks the cycle hours.
func (s *TripService) validateRequest(req *domain.TripRequest) error {
	req.CurrentLocation = strings.TrimSpace(req.CurrentLocation)
	req.PickupLocation = strings.TrimSpace(req.PickupLocation)
	req.DropOffLocation = strings.TrimSpace(req.DropOffLocation)

	switch {
	case req.CurrentLocation == "":
		return fmt.Errorf("%w: current_location is required", domain.ErrInvalidInput)
	case req.PickupLocation == "":
		return fmt.Errorf("%w: pickup_location is required", domain.ErrInvalidInput)
	case req.DropOffLocation == "":
		return fmt.Errorf("%w: drop_off_location is required", domain.ErrInvalidInput)
	}
	c := req.CurrentCycleUsed
	if math.IsNaN(c) || c < 0 || c > s.rules.MaxCycleHours {
		return fmt.Errorf("%w: current_cycle_used must be between 0 and %g", domain.ErrInvalidInput, s.rules.MaxCycleHours)
	}
	return nil
}
