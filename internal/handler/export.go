package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/eld-logbook/internal/domain"
)

// csvHeaders defines the column names written as the first row of a CSV export.
var csvHeaders = []string{
	"day", "date", "start_location", "end_location",
	"status", "start_hour", "start_time", "duration",
}

// GetTripExport handles GET /trips/{id}/export.
// Returns one row per duty segment of every day. Use ?format=csv for CSV;
// the default is JSON.
func (s *Server) GetTripExport(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	format, ok := exportFormat(w, r)
	if !ok {
		return
	}

	rows, err := s.export.Export(r.Context(), id)
	if err != nil {
		fail(w, r, err, "trip not found")
		return
	}

	if format == "csv" {
		writeCSV(w, id, rows)
		return
	}

	out := make([]exportRowResponse, len(rows))
	for i, row := range rows {
		out[i] = exportRowResponse{
			Day:           row.Day,
			Date:          openapi_types.Date{Time: row.Date},
			StartLocation: row.StartLocation,
			EndLocation:   row.EndLocation,
			Status:        string(row.Status),
			StartHour:     row.StartHour,
			StartTime:     row.StartTime,
			Duration:      row.Duration,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// writeCSV encodes rows as CSV with a header line and sends it as an attachment.
func writeCSV(w http.ResponseWriter, id openapi_types.UUID, rows []domain.ExportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	// bytes.Buffer writes never fail.
	_ = cw.Write(csvHeaders)
	for _, row := range rows {
		_ = cw.Write(rowToCSVRecord(row))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="trip-`+id.String()+`-logs.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func rowToCSVRecord(r domain.ExportRow) []string {
	return []string{
		strconv.Itoa(r.Day),
		r.Date.Format("2006-01-02"),
		r.StartLocation,
		r.EndLocation,
		string(r.Status),
		strconv.FormatFloat(r.StartHour, 'f', -1, 64),
		r.StartTime,
		strconv.FormatFloat(r.Duration, 'f', -1, 64),
	}
}
