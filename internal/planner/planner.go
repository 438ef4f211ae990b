// Package planner implements the trip mutation operations.
//
// Every operation takes the current value and returns a new one; arguments are
// never modified, so callers can keep the previous value for undo or compare
// before and after. Validation happens here and a failed operation returns the
// zero value plus an error wrapping domain.ErrValidation, domain.ErrNotFound,
// or domain.ErrOutOfRange. Persistence is the service layer's job.
package planner

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/ourtrip/internal/domain"
)

// Planner carries the clock and id source used when new values are created.
type Planner struct {
	now   func() time.Time
	newID func() string
}

// Option configures a Planner.
type Option func(*Planner)

// WithClock replaces time.Now. Returned times are normalised with domain.Timestamp.
func WithClock(now func() time.Time) Option {
	return func(p *Planner) { p.now = now }
}

// WithIDs replaces the random UUID generator.
func WithIDs(newID func() string) Option {
	return func(p *Planner) { p.newID = newID }
}

// New returns a Planner using the wall clock and random UUIDs unless overridden.
func New(opts ...Option) *Planner {
	p := &Planner{now: time.Now, newID: uuid.NewString}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Planner) timestamp() time.Time {
	return domain.Timestamp(p.now())
}

// CreateTrip builds a new trip. The name and every participant are trimmed and
// blank participants are dropped. Fails if the name is blank, no participant
// remains, or a participant name repeats.
func (p *Planner) CreateTrip(name string, participants []string) (domain.Trip, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Trip{}, fmt.Errorf("%w: trip name is required", domain.ErrValidation)
	}

	roster := make([]string, 0, len(participants))
	for _, raw := range participants {
		person := strings.TrimSpace(raw)
		if person == "" {
			continue
		}
		if slices.Contains(roster, person) {
			return domain.Trip{}, fmt.Errorf("%w: participant %q is listed twice", domain.ErrValidation, person)
		}
		roster = append(roster, person)
	}
	if len(roster) == 0 {
		return domain.Trip{}, fmt.Errorf("%w: at least one participant is required", domain.ErrValidation)
	}

	return domain.Trip{
		ID:               p.newID(),
		Name:             name,
		Participants:     roster,
		CreatedAt:        p.timestamp(),
		PointsOfInterest: []domain.PointOfInterest{},
		Expenses:         []domain.Expense{},
	}, nil
}

// PointOfInterestInput is a point ready to be added: geocoding, if any, has
// already happened.
type PointOfInterestInput struct {
	Name    string
	Address string
	Lat     *float64
	Lng     *float64
}

// AddPointOfInterest appends a point at the end of the route. Existing points
// are renumbered 0..n-1 first, so gaps left by older data do not collide with
// the new order.
// A blank address defaults to the name. A point with only one coordinate is
// stored without coordinates; coordinates outside the valid range are rejected.
func (p *Planner) AddPointOfInterest(trip domain.Trip, in PointOfInterestInput) (domain.Trip, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Trip{}, fmt.Errorf("%w: point of interest name is required", domain.ErrValidation)
	}
	address := strings.TrimSpace(in.Address)
	if address == "" {
		address = name
	}

	points := renumber(domain.SortedPointsOfInterest(trip))
	poi := domain.PointOfInterest{
		ID:      p.newID(),
		Name:    name,
		Address: address,
		Order:   len(points),
	}
	if in.Lat != nil && in.Lng != nil {
		lat, lng := *in.Lat, *in.Lng
		if err := validateCoordinates(lat, lng); err != nil {
			return domain.Trip{}, err
		}
		poi.Lat, poi.Lng = &lat, &lng
		poi.GoogleMapsURL = domain.GoogleMapsURL(lat, lng)
	}

	out := trip.Clone()
	out.PointsOfInterest = append(points, poi)
	return out, nil
}

// ReorderPointsOfInterest moves the point at position from to position to,
// both counted in the order-sorted sequence, then renumbers every point
// 0..n-1 in the new sequence.
func ReorderPointsOfInterest(trip domain.Trip, from, to int) (domain.Trip, error) {
	out := trip.Clone()
	points := domain.SortedPointsOfInterest(out)
	n := len(points)
	if from < 0 || from >= n {
		return domain.Trip{}, fmt.Errorf("%w: from index %d, have %d points", domain.ErrOutOfRange, from, n)
	}
	if to < 0 || to >= n {
		return domain.Trip{}, fmt.Errorf("%w: to index %d, have %d points", domain.ErrOutOfRange, to, n)
	}

	moved := points[from]
	points = slices.Delete(points, from, from+1)
	points = slices.Insert(points, to, moved)

	out.PointsOfInterest = renumber(points)
	return out, nil
}

// RemovePointOfInterest drops the point with the given id and renumbers the
// remaining points densely, keeping their relative order.
func RemovePointOfInterest(trip domain.Trip, poiID string) (domain.Trip, error) {
	out := trip.Clone()
	points := domain.SortedPointsOfInterest(out)
	i := slices.IndexFunc(points, func(p domain.PointOfInterest) bool { return p.ID == poiID })
	if i < 0 {
		return domain.Trip{}, fmt.Errorf("point of interest %q: %w", poiID, domain.ErrNotFound)
	}

	out.PointsOfInterest = renumber(slices.Delete(points, i, i+1))
	return out, nil
}

// ExpenseInput is an expense as entered; the id is assigned on add.
type ExpenseInput struct {
	Amount      float64
	PaidBy      string
	Description string
	// Date defaults to the current time when zero.
	Date         time.Time
	Participants []string
}

// AddExpense validates in against the trip and appends it.
// The amount must be finite and positive, the description non-blank, and the
// payer and every sharer must be trip participants. Sharers must be unique and
// at least one is required, so every share is a real division.
func (p *Planner) AddExpense(trip domain.Trip, in ExpenseInput) (domain.Trip, error) {
	if math.IsNaN(in.Amount) || math.IsInf(in.Amount, 0) || in.Amount <= 0 {
		return domain.Trip{}, fmt.Errorf("%w: amount must be greater than zero", domain.ErrValidation)
	}
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return domain.Trip{}, fmt.Errorf("%w: description is required", domain.ErrValidation)
	}
	if !trip.HasParticipant(in.PaidBy) {
		return domain.Trip{}, fmt.Errorf("%w: payer %q is not a trip participant", domain.ErrValidation, in.PaidBy)
	}
	if len(in.Participants) == 0 {
		return domain.Trip{}, fmt.Errorf("%w: at least one participant must share the expense", domain.ErrValidation)
	}
	for i, person := range in.Participants {
		if !trip.HasParticipant(person) {
			return domain.Trip{}, fmt.Errorf("%w: %q is not a trip participant", domain.ErrValidation, person)
		}
		if slices.Contains(in.Participants[:i], person) {
			return domain.Trip{}, fmt.Errorf("%w: %q shares the expense twice", domain.ErrValidation, person)
		}
	}

	date := p.timestamp()
	if !in.Date.IsZero() {
		if !domain.Storable(in.Date) {
			return domain.Trip{}, fmt.Errorf("%w: date must fall between years 0000 and 9999 UTC", domain.ErrValidation)
		}
		date = domain.Timestamp(in.Date)
	}

	out := trip.Clone()
	out.Expenses = append(out.Expenses, domain.Expense{
		ID:           p.newID(),
		Amount:       in.Amount,
		PaidBy:       in.PaidBy,
		Description:  description,
		Date:         date,
		Participants: slices.Clone(in.Participants),
	})
	return out, nil
}

// FindTrip returns the trip with the given id.
func FindTrip(trips []domain.Trip, id string) (domain.Trip, error) {
	i := slices.IndexFunc(trips, func(t domain.Trip) bool { return t.ID == id })
	if i < 0 {
		return domain.Trip{}, fmt.Errorf("trip %q: %w", id, domain.ErrNotFound)
	}
	return trips[i], nil
}

// ReplaceTrip returns a copy of trips with the entry sharing trip.ID replaced.
func ReplaceTrip(trips []domain.Trip, trip domain.Trip) ([]domain.Trip, error) {
	i := slices.IndexFunc(trips, func(t domain.Trip) bool { return t.ID == trip.ID })
	if i < 0 {
		return nil, fmt.Errorf("trip %q: %w", trip.ID, domain.ErrNotFound)
	}
	out := slices.Clone(trips)
	out[i] = trip
	return out, nil
}

// DeleteTrip returns a copy of trips without the trip with the given id.
func DeleteTrip(trips []domain.Trip, id string) ([]domain.Trip, error) {
	i := slices.IndexFunc(trips, func(t domain.Trip) bool { return t.ID == id })
	if i < 0 {
		return nil, fmt.Errorf("trip %q: %w", id, domain.ErrNotFound)
	}
	out := make([]domain.Trip, 0, len(trips)-1)
	out = append(out, trips[:i]...)
	return append(out, trips[i+1:]...), nil
}

func renumber(points []domain.PointOfInterest) []domain.PointOfInterest {
	for i := range points {
		points[i].Order = i
	}
	return points
}

func validateCoordinates(lat, lng float64) error {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return fmt.Errorf("%w: latitude %v out of range", domain.ErrValidation, lat)
	}
	if math.IsNaN(lng) || lng < -180 || lng > 180 {
		return fmt.Errorf("%w: longitude %v out of range", domain.ErrValidation, lng)
	}
	return nil
}
