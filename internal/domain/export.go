package domain

import "time"

// ExportRow is a single row in the full-data export.
// It is a flat, denormalized view: one row per expense, with trip fields
// repeated for every expense on that trip. Trips with no expenses yield one
// row with zero values for all expense fields.
type ExportRow struct {
	// Trip fields, repeated for every expense on the trip.
	TripID        string
	TripName      string
	TripCreatedAt time.Time

	// Expense fields, zero values when the trip has no expenses.
	ExpenseDate *time.Time
	Description string
	Amount      float64
	PaidBy      string

	// SharedWith lists the participants splitting the expense, in stored order.
	SharedWith []string
}
