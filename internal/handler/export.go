// Package handler — export.go implements GET /export.
// Returns all trips and expenses as a flat table.
// Supports content negotiation via ?format=csv (CSV) or default (JSON).
package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pkordes/ourtrip/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"trip_id", "trip_name", "trip_created_at",
	"expense_date", "description", "amount", "paid_by", "shared_with",
}

// ExportRow is one row of the JSON export. Expense fields are omitted for
// trips without expenses.
type ExportRow struct {
	TripID        string     `json:"trip_id"`
	TripName      string     `json:"trip_name"`
	TripCreatedAt time.Time  `json:"trip_created_at"`
	ExpenseDate   *time.Time `json:"expense_date,omitempty"`
	Description   string     `json:"description,omitempty"`
	Amount        *float64   `json:"amount,omitempty"`
	PaidBy        string     `json:"paid_by,omitempty"`
	SharedWith    []string   `json:"shared_with"`
}

// GetExport handles GET /export.
// It returns a flat table with one row per expense across every trip.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format != "" && format != "csv" && format != "json" {
		writeJSON(w, http.StatusBadRequest, requestBody("format must be csv or json"))
		return
	}

	rows, err := s.export.Export(r.Context())
	if err != nil {
		s.writeError(w, r, "export", err)
		return
	}

	if format == "csv" {
		body := buildCSV(rows)
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="ourtrip-export.csv"`)
		w.Header().Set("Content-Length", strconv.Itoa(body.Len()))
		w.WriteHeader(http.StatusOK)
		_, _ = body.WriteTo(w)
		return
	}
	writeJSON(w, http.StatusOK, buildJSONRows(rows))
}

// buildJSONRows converts domain rows to the JSON response rows.
func buildJSONRows(rows []domain.ExportRow) []ExportRow {
	out := make([]ExportRow, 0, len(rows))
	for _, r := range rows {
		row := ExportRow{
			TripID:        r.TripID,
			TripName:      r.TripName,
			TripCreatedAt: r.TripCreatedAt,
			ExpenseDate:   r.ExpenseDate,
			Description:   r.Description,
			PaidBy:        r.PaidBy,
			SharedWith:    r.SharedWith,
		}
		if r.ExpenseDate != nil {
			amount := r.Amount
			row.Amount = &amount
		}
		if row.SharedWith == nil {
			row.SharedWith = []string{}
		}
		out = append(out, row)
	}
	return out
}

// buildCSV encodes domain rows as CSV.
// Sharers within a row are pipe-separated ("|") to keep each expense on a single CSV line.
func buildCSV(rows []domain.ExportRow) *bytes.Buffer {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	//nolint:errcheck — bytes.Buffer.Write never returns an error.
	w.Write(csvHeaders)
	for _, r := range rows {
		//nolint:errcheck
		w.Write(domainRowToCSVRecord(r))
	}
	w.Flush()
	return &buf
}

// domainRowToCSVRecord encodes a domain.ExportRow as a flat string slice.
// A row without an expense has empty expense columns.
func domainRowToCSVRecord(r domain.ExportRow) []string {
	amount := ""
	if r.ExpenseDate != nil {
		amount = strconv.FormatFloat(r.Amount, 'f', 2, 64)
	}
	return []string{
		r.TripID,
		r.TripName,
		r.TripCreatedAt.UTC().Format(time.RFC3339),
		formatOptionalTime(r.ExpenseDate),
		r.Description,
		amount,
		r.PaidBy,
		strings.Join(r.SharedWith, "|"),
	}
}

// formatOptionalTime returns the RFC3339 representation of t, or "" if t is nil.
func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
