package domain_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/ourtrip/internal/domain"
)

func f(v float64) *float64 { return &v }

// ---- ParseAmount / ParseCoordinate ------------------------------------------

func TestParseAmount(t *testing.T) {
	cases := map[string]float64{
		"12.34":   12.34,
		"12,34":   12.34,
		" 7 ":     7,
		"0.01":    0.01,
		"1000000": 1_000_000,
	}
	for in, want := range cases {
		got, err := domain.ParseAmount(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	for _, in := range []string{"", "  ", "abc", "0", "-3", "NaN", "Inf", "1,2,3"} {
		_, err := domain.ParseAmount(in)
		assert.ErrorIs(t, err, domain.ErrValidation, "input %q", in)
	}
}

func TestParseCoordinate(t *testing.T) {
	got := domain.ParseCoordinate(" 45.4642 ")
	require.NotNil(t, got)
	assert.Equal(t, 45.4642, *got)

	zero := domain.ParseCoordinate("0")
	require.NotNil(t, zero, "zero is a real coordinate")
	assert.Equal(t, 0.0, *zero)

	for _, in := range []string{"", "north", "NaN", "+Inf"} {
		assert.Nil(t, domain.ParseCoordinate(in), "input %q", in)
	}
}

// ---- points of interest -----------------------------------------------------

func TestGoogleMapsURL(t *testing.T) {
	assert.Equal(t, "https://maps.google.com/?q=45.4642,9.19", domain.GoogleMapsURL(45.4642, 9.19))
	assert.Equal(t, "https://maps.google.com/?q=-33.8688,151.2093", domain.GoogleMapsURL(-33.8688, 151.2093))
}

func TestMapsLink_FallsBackToSearch(t *testing.T) {
	p := domain.PointOfInterest{Address: "Piazza del Duomo, Milano"}

	assert.Equal(t, "https://maps.google.com/?q=Piazza+del+Duomo%2C+Milano", p.MapsLink())

	p.GoogleMapsURL = "https://maps.google.com/?q=1,2"
	assert.Equal(t, "https://maps.google.com/?q=1,2", p.MapsLink())
}

func TestSortedPointsOfInterest_StableByOrder(t *testing.T) {
	trip := domain.Trip{PointsOfInterest: []domain.PointOfInterest{
		{ID: "c", Order: 2}, {ID: "a1", Order: 0}, {ID: "b", Order: 1}, {ID: "a2", Order: 0},
	}}

	got := domain.SortedPointsOfInterest(trip)

	var ids []string
	for _, p := range got {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"a1", "a2", "b", "c"}, ids)
	assert.Equal(t, "c", trip.PointsOfInterest[0].ID, "input must not be sorted in place")
}

func TestMarkers_OnlyGeolocatedPointsInRouteOrder(t *testing.T) {
	trip := domain.Trip{PointsOfInterest: []domain.PointOfInterest{
		{ID: "b", Name: "B", Order: 1, Lat: f(2), Lng: f(3)},
		{ID: "half", Name: "Half", Order: 2, Lat: f(5)},
		{ID: "none", Name: "None", Order: 3},
		{ID: "a", Name: "A", Order: 0, Lat: f(0), Lng: f(0)},
	}}

	got := domain.Markers(trip)

	assert.Equal(t, []domain.MapMarker{
		{ID: "a", Name: "A", Lat: 0, Lng: 0},
		{ID: "b", Name: "B", Lat: 2, Lng: 3},
	}, got)
}

func TestMarkers_EmptyTrip(t *testing.T) {
	got := domain.Markers(domain.Trip{})

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

// ---- trips and expenses -----------------------------------------------------

func TestClone_DoesNotAlias(t *testing.T) {
	orig := domain.Trip{
		Participants:     []string{"A"},
		PointsOfInterest: []domain.PointOfInterest{{ID: "p", Lat: f(1), Lng: f(2)}},
		Expenses:         []domain.Expense{{ID: "e", Participants: []string{"A"}}},
	}

	c := orig.Clone()
	c.Participants[0] = "Z"
	*c.PointsOfInterest[0].Lat = 99
	c.Expenses[0].Participants[0] = "Z"

	assert.Equal(t, "A", orig.Participants[0])
	assert.Equal(t, 1.0, *orig.PointsOfInterest[0].Lat)
	assert.Equal(t, "A", orig.Expenses[0].Participants[0])
}

func TestClone_NilSlicesBecomeEmpty(t *testing.T) {
	c := domain.Trip{}.Clone()

	assert.NotNil(t, c.Participants)
	assert.NotNil(t, c.PointsOfInterest)
	assert.NotNil(t, c.Expenses)
}

func TestExpensesByDateDesc(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2025, 8, d, 0, 0, 0, 0, time.UTC) }
	trip := domain.Trip{Expenses: []domain.Expense{
		{ID: "old", Date: day(1)}, {ID: "new", Date: day(3)}, {ID: "mid", Date: day(2)},
	}}

	got := domain.ExpensesByDateDesc(trip)

	require.Len(t, got, 3)
	assert.Equal(t, "new", got[0].ID)
	assert.Equal(t, "mid", got[1].ID)
	assert.Equal(t, "old", got[2].ID)
	assert.Equal(t, "old", trip.Expenses[0].ID)
}

func TestTimestamp(t *testing.T) {
	in := time.Date(2025, 8, 10, 16, 30, 0, 123_987_654, time.FixedZone("CEST", 2*3600))

	got := domain.Timestamp(in)

	assert.Equal(t, time.Date(2025, 8, 10, 14, 30, 0, 123_000_000, time.UTC), got)
}

func TestStorable(t *testing.T) {
	assert.True(t, domain.Storable(time.Date(0, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, domain.Storable(time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)))
	assert.False(t, domain.Storable(time.Date(9999, 12, 31, 23, 30, 0, 0, time.FixedZone("-01", -3600))))
	assert.False(t, domain.Storable(time.Date(-1, 12, 31, 0, 0, 0, 0, time.UTC)))
}

// ---- pagination -------------------------------------------------------------

func TestNewPaginationParams(t *testing.T) {
	zero, big, three := 0, 500, 3

	assert.Equal(t, domain.PaginationParams{Page: 1, Limit: 20}, domain.NewPaginationParams(nil, nil))
	assert.Equal(t, domain.PaginationParams{Page: 1, Limit: 20}, domain.NewPaginationParams(&zero, &zero))
	assert.Equal(t, domain.PaginationParams{Page: 3, Limit: 100}, domain.NewPaginationParams(&three, &big))
}

func TestWindow(t *testing.T) {
	p := domain.PaginationParams{Page: 2, Limit: 3}

	start, end := p.Window(7)
	assert.Equal(t, 3, start)
	assert.Equal(t, 6, end)

	start, end = p.Window(4)
	assert.Equal(t, 3, start)
	assert.Equal(t, 4, end)

	start, end = p.Window(2)
	assert.Equal(t, 2, start)
	assert.Equal(t, 2, end)
}

func TestWindow_HugePageDoesNotOverflow(t *testing.T) {
	page, limit := math.MaxInt, 100
	p := domain.NewPaginationParams(&page, &limit)

	assert.Equal(t, math.MaxInt, p.Offset())
	start, end := p.Window(5)
	assert.Equal(t, 5, start)
	assert.Equal(t, 5, end)

	start, end = domain.PaginationParams{Page: 2, Limit: math.MaxInt}.Window(5)
	assert.Equal(t, 5, start)
	assert.Equal(t, 5, end)
}
