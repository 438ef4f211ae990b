// Package codec converts the trip list to and from the text stored in a
// single key-value slot. The format is JSON with timestamps written as
// RFC 3339 strings at millisecond precision, the same layout a browser
// produces with JSON.stringify, so data exported from one loads in the other.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pkordes/ourtrip/internal/domain"
)

// timeLayout is RFC 3339 with exactly three fractional digits.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// Encode serialises trips. Nil sequences are written as empty arrays so a
// reader never sees null where it expects a list.
// It fails on a non-finite number (NaN or ±Inf) or on a timestamp whose UTC
// year is outside 0..9999, since neither could be read back.
func Encode(trips []domain.Trip) (string, error) {
	out := make([]wireTrip, len(trips))
	for i, t := range trips {
		out[i] = toWire(t)
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("codec.Encode: %w", err)
	}
	return string(b), nil
}

// Decode is the total form of Parse: any failure yields an empty, non-nil list.
func Decode(text string) []domain.Trip {
	trips, err := Parse(text)
	if err != nil {
		return []domain.Trip{}
	}
	return trips
}

// Parse deserialises text produced by Encode (or by the browser app).
// Empty text is not an error and yields an empty list. Missing sequences
// come back empty rather than nil and unknown fields are ignored.
func Parse(text string) ([]domain.Trip, error) {
	if strings.TrimSpace(text) == "" {
		return []domain.Trip{}, nil
	}

	var in []wireTrip
	dec := json.NewDecoder(strings.NewReader(text))
	if err := dec.Decode(&in); err != nil {
		return nil, fmt.Errorf("codec.Parse: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("codec.Parse: unexpected data after trip list")
	}

	trips := make([]domain.Trip, len(in))
	for i, w := range in {
		trips[i] = fromWire(w)
	}
	return trips, nil
}

type wireTrip struct {
	ID               string                   `json:"id"`
	Name             string                   `json:"name"`
	Participants     []string                 `json:"participants"`
	CreatedAt        wireTime                 `json:"createdAt"`
	PointsOfInterest []domain.PointOfInterest `json:"pointsOfInterest"`
	Expenses         []wireExpense            `json:"expenses"`
}

type wireExpense struct {
	ID           string   `json:"id"`
	Amount       float64  `json:"amount"`
	PaidBy       string   `json:"paidBy"`
	Description  string   `json:"description"`
	Date         wireTime `json:"date"`
	Participants []string `json:"participants"`
}

func toWire(t domain.Trip) wireTrip {
	w := wireTrip{
		ID:               t.ID,
		Name:             t.Name,
		Participants:     nonNil(t.Participants),
		CreatedAt:        wireTime(t.CreatedAt),
		PointsOfInterest: nonNil(t.PointsOfInterest),
		Expenses:         make([]wireExpense, len(t.Expenses)),
	}
	for i, e := range t.Expenses {
		w.Expenses[i] = wireExpense{
			ID:           e.ID,
			Amount:       e.Amount,
			PaidBy:       e.PaidBy,
			Description:  e.Description,
			Date:         wireTime(e.Date),
			Participants: nonNil(e.Participants),
		}
	}
	return w
}

func fromWire(w wireTrip) domain.Trip {
	t := domain.Trip{
		ID:               w.ID,
		Name:             w.Name,
		Participants:     nonNil(w.Participants),
		CreatedAt:        time.Time(w.CreatedAt),
		PointsOfInterest: nonNil(w.PointsOfInterest),
		Expenses:         make([]domain.Expense, len(w.Expenses)),
	}
	for i, e := range w.Expenses {
		t.Expenses[i] = domain.Expense{
			ID:           e.ID,
			Amount:       e.Amount,
			PaidBy:       e.PaidBy,
			Description:  e.Description,
			Date:         time.Time(e.Date),
			Participants: nonNil(e.Participants),
		}
	}
	return t
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// wireTime carries a timestamp through JSON as a string.
// JSON has no timestamp type, so every createdAt and date is rebuilt here.
type wireTime time.Time

func (t wireTime) MarshalJSON() ([]byte, error) {
	if !domain.Storable(time.Time(t)) {
		return nil, fmt.Errorf("timestamp: year %d outside 0..9999", time.Time(t).UTC().Year())
	}
	return json.Marshal(time.Time(t).UTC().Format(timeLayout))
}

func (t *wireTime) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*t = wireTime{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	*t = wireTime(domain.Timestamp(parsed))
	return nil
}
