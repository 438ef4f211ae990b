package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseAmount coerces a form value into an expense amount.
// Both "12.34" and "12,34" are accepted. The result must be finite and positive.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: amount is required", ErrValidation)
	}
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: amount %q is not a number", ErrValidation, s)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%w: amount must be greater than zero", ErrValidation)
	}
	return v, nil
}

// ParseCoordinate coerces an optional form value into a coordinate.
// An empty or non-numeric value yields nil, matching how the map form treats
// anything it cannot read as "no coordinate".
func ParseCoordinate(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
