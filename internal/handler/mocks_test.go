package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/eld-logbook/internal/domain"
	"github.com/pkordes/eld-logbook/internal/handler"
)

// mockTripServicer is a test double for handler.TripServicer.
// Set only the method fields your test needs.
type mockTripServicer struct {
	calculate func(ctx context.Context, req domain.TripRequest) (domain.Trip, error)
	getByID   func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	listPaged func(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
	delete    func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTripServicer) Calculate(ctx context.Context, req domain.TripRequest) (domain.Trip, error) {
	return m.calculate(ctx, req)
}
func (m *mockTripServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripServicer) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.listPaged(ctx, p)
}
func (m *mockTripServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

// mockLogServicer is a test double for handler.LogServicer.
type mockLogServicer struct {
	plan    func(ctx context.Context, input domain.TripInput) ([]domain.DailyLog, error)
	forTrip func(ctx context.Context, id uuid.UUID) ([]domain.DailyLog, error)
}

func (m *mockLogServicer) Plan(ctx context.Context, input domain.TripInput) ([]domain.DailyLog, error) {
	return m.plan(ctx, input)
}
func (m *mockLogServicer) ForTrip(ctx context.Context, id uuid.UUID) ([]domain.DailyLog, error) {
	return m.forTrip(ctx, id)
}

// mockExportServicer is a test double for handler.ExportServicer.
type mockExportServicer struct {
	export func(ctx context.Context, id uuid.UUID) ([]domain.ExportRow, error)
}

func (m *mockExportServicer) Export(ctx context.Context, id uuid.UUID) ([]domain.ExportRow, error) {
	return m.export(ctx, id)
}

var (
	_ handler.TripServicer   = (*mockTripServicer)(nil)
	_ handler.LogServicer    = (*mockLogServicer)(nil)
	_ handler.ExportServicer = (*mockExportServicer)(nil)
)

// ---- helpers ---------------------------------------------------------------

// newHTTPHandler wires a Server the same way main.go does.
func newHTTPHandler(trips handler.TripServicer, logs handler.LogServicer, export handler.ExportServicer) http.Handler {
	return handler.NewServer(trips, logs, export).Handler()
}

var fixedDay = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func tripFixture() domain.Trip {
	return domain.Trip{
		ID:               uuid.New(),
		CurrentLocation:  "Chicago, IL",
		PickupLocation:   "St. Louis, MO",
		DropOffLocation:  "Dallas, TX",
		CurrentCycleUsed: 10,
		TotalDistance:    1000,
		TotalDuration:    22,
		RouteData:        json.RawMessage(`{"waypoints":["-87.6,41.9"]}`),
		RestStops: []domain.RestStop{
			{ID: uuid.New(), Type: domain.StopDailyRest, DistanceFromStart: 550, Duration: 10, Location: "Rest stop at mile 550.0"},
		},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
}

func logFixture() domain.DailyLog {
	return domain.DailyLog{
		Date:              fixedDay,
		StartLocation:     "Los Angeles, CA",
		EndLocation:       "Dallas, TX",
		TotalMiles:        300,
		TotalDrivingHours: 4,
		TotalOnDutyHours:  6,
		Events:            []domain.Event{{Time: "00:00", Description: "Pickup at Phoenix, AZ", Type: "on-duty"}},
		Segments: []domain.Segment{
			{Type: domain.StatusOnDuty, StartHour: 0, Duration: 1},
			{Type: domain.StatusDriving, StartHour: 1, Duration: 4},
		},
	}
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeError(t *testing.T, b *bytes.Buffer) errorBody {
	t.Helper()
	var e errorBody
	require.NoError(t, json.NewDecoder(b).Decode(&e))
	return e
}
