package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/eld-logbook/internal/domain"
	"github.com/pkordes/eld-logbook/internal/hos"
)

// ExportService flattens a trip's daily logs into one row per duty segment.
type ExportService struct {
	logs *LogService
}

// NewExportService constructs an ExportService on top of logs.
func NewExportService(logs *LogService) *ExportService {
	return &ExportService{logs: logs}
}

// Export returns the duty segments of every day of the trip, in day order.
// Days are numbered from 1.
func (s *ExportService) Export(ctx context.Context, id uuid.UUID) ([]domain.ExportRow, error) {
	logs, err := s.logs.ForTrip(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}
	return Flatten(logs), nil
}

// Flatten converts daily logs to export rows.
func Flatten(logs []domain.DailyLog) []domain.ExportRow {
	rows := []domain.ExportRow{}
	for i, l := range logs {
		for _, seg := range l.Segments {
			rows = append(rows, domain.ExportRow{
				Day:           i + 1,
				Date:          l.Date,
				StartLocation: l.StartLocation,
				EndLocation:   l.EndLocation,
				Status:        seg.Type,
				StartHour:     seg.StartHour,
				StartTime:     hos.FormatHour(seg.StartHour),
				Duration:      seg.Duration,
			})
		}
	}
	return rows
}
