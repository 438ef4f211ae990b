// Package domain contains the core data types for the trip planner.
// It is imported by every other internal package (balance, codec, repo,
// planner, service, handler) and depends on nothing inside the module.
package domain

import (
	"slices"
	"time"
)

// Trip is the top-level aggregate. Points of interest and expenses belong to
// a trip and are replaced together with it on every mutation.
type Trip struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Participants []string  `json:"participants"`
	CreatedAt    time.Time `json:"createdAt"`

	// PointsOfInterest are displayed by Order, not by slice position.
	PointsOfInterest []PointOfInterest `json:"pointsOfInterest"`

	// Expenses are kept in insertion order.
	Expenses []Expense `json:"expenses"`
}

// HasParticipant reports whether name is one of the trip's participants.
// Matching is by exact string.
func (t Trip) HasParticipant(name string) bool {
	return slices.Contains(t.Participants, name)
}

// Clone returns a deep copy of t so callers can build a new trip value
// without aliasing the slices of the original.
func (t Trip) Clone() Trip {
	out := t
	out.Participants = slices.Clone(t.Participants)
	if out.Participants == nil {
		out.Participants = []string{}
	}
	out.PointsOfInterest = make([]PointOfInterest, len(t.PointsOfInterest))
	for i, p := range t.PointsOfInterest {
		out.PointsOfInterest[i] = p.clone()
	}
	out.Expenses = make([]Expense, len(t.Expenses))
	for i, e := range t.Expenses {
		out.Expenses[i] = e.clone()
	}
	return out
}

// Now returns the current time in the precision trips are stored with:
// UTC, truncated to the millisecond.
func Now() time.Time {
	return Timestamp(time.Now())
}

// Timestamp normalises t to UTC at millisecond precision.
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// Storable reports whether t can be written as an RFC 3339 string and read
// back: its UTC year must have exactly four digits.
func Storable(t time.Time) bool {
	y := t.UTC().Year()
	return y >= 0 && y <= 9999
}
