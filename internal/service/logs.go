package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/eld-logbook/internal/domain"
	"github.com/pkordes/eld-logbook/internal/hos"
	"github.com/pkordes/eld-logbook/internal/repo"
)

// LogService produces daily ELD logs, either for a caller-supplied trip input
// or for a stored trip.
type LogService struct {
	planner *hos.Planner
	trips   repo.TripRepo
}

// NewLogService constructs a LogService.
func NewLogService(planner *hos.Planner, trips repo.TripRepo) *LogService {
	return &LogService{planner: planner, trips: trips}
}

// Plan runs the log engine on input.
func (s *LogService) Plan(ctx context.Context, input domain.TripInput) ([]domain.DailyLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("service.LogService.Plan: %w", err)
	}
	logs, err := s.planner.Plan(input)
	if err != nil {
		return nil, fmt.Errorf("service.LogService.Plan: %w", err)
	}
	return logs, nil
}

// ForTrip loads a stored trip and runs the log engine on it.
func (s *LogService) ForTrip(ctx context.Context, id uuid.UUID) ([]domain.DailyLog, error) {
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service.LogService.ForTrip: %w", err)
	}
	logs, err := s.planner.Plan(trip.Input())
	if err != nil {
		return nil, fmt.Errorf("service.LogService.ForTrip: %w", err)
	}
	return logs, nil
}
