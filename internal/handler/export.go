package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strings"

	"github.com/pkordes/hike-planner/backend/internal/domain"
)

// fixedCSVHeaders are the leading columns of the CSV export; one column per
// weekend follows.
var fixedCSVHeaders = []string{"name", "location", "regions"}

// ExportResponse is the JSON form of the availability table.
type ExportResponse struct {
	Weekends []Weekend   `json:"weekends"`
	Rows     []ExportRow `json:"rows"`
}

// ExportRow is one attendee line; Available aligns with Weekends.
type ExportRow struct {
	Name      string   `json:"name"`
	Location  string   `json:"location,omitempty"`
	Regions   []string `json:"regions"`
	Available []bool   `json:"available"`
}

// GetExport handles GET /trips/{token}/export.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format != "" && format != "json" && format != "csv" {
		badRequest(w, "format must be json or csv")
		return
	}

	table, err := s.export.Export(r.Context(), tokenParam(r))
	if err != nil {
		serviceError(w, r, err, "trip not found")
		return
	}

	if format == "csv" {
		writeCSV(w, table)
		return
	}
	writeJSON(w, http.StatusOK, buildJSONExport(table))
}

func buildJSONExport(t domain.ExportTable) ExportResponse {
	out := ExportResponse{
		Weekends: weekendsToResponse(t.Weekends),
		Rows:     make([]ExportRow, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = ExportRow{
			Name:      row.AttendeeName,
			Location:  row.Location,
			Regions:   row.Regions,
			Available: row.Available,
		}
	}
	return out
}

// writeCSV encodes the table with one column per weekend holding "yes" or
// "no". Regions within a row are pipe-separated ("|") to keep each attendee
// on a single CSV line.
func writeCSV(w http.ResponseWriter, t domain.ExportTable) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	header := append([]string{}, fixedCSVHeaders...)
	for _, wk := range t.Weekends {
		header = append(header, wk.Formatted)
	}
	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	cw.Write(header)

	for _, row := range t.Rows {
		record := []string{row.AttendeeName, row.Location, strings.Join(row.Regions, "|")}
		for _, ok := range row.Available {
			record = append(record, yesNo(ok))
		}
		//nolint:errcheck
		cw.Write(record)
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="availability.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
