package domain

import (
	"cmp"
	"net/url"
	"slices"
	"strconv"
)

// PointOfInterest is a named, ordered, optionally geolocated stop within a trip.
// Lat and Lng are either both set or treated as absent.
type PointOfInterest struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Address       string   `json:"address"`
	Order         int      `json:"order"`
	Lat           *float64 `json:"lat,omitempty"`
	Lng           *float64 `json:"lng,omitempty"`
	GoogleMapsURL string   `json:"googleMapsUrl,omitempty"`
}

// Coordinates returns the point's position. ok is false unless both
// coordinates are present.
func (p PointOfInterest) Coordinates() (lat, lng float64, ok bool) {
	if p.Lat == nil || p.Lng == nil {
		return 0, 0, false
	}
	return *p.Lat, *p.Lng, true
}

// MapsLink returns the stored Google Maps link, falling back to an address
// search when the point has no coordinates.
func (p PointOfInterest) MapsLink() string {
	if p.GoogleMapsURL != "" {
		return p.GoogleMapsURL
	}
	return SearchURL(p.Address)
}

func (p PointOfInterest) clone() PointOfInterest {
	out := p
	if p.Lat != nil {
		v := *p.Lat
		out.Lat = &v
	}
	if p.Lng != nil {
		v := *p.Lng
		out.Lng = &v
	}
	return out
}

// GoogleMapsURL builds the link stored alongside a geolocated point.
func GoogleMapsURL(lat, lng float64) string {
	return "https://maps.google.com/?q=" + formatFloat(lat) + "," + formatFloat(lng)
}

// SearchURL builds a Google Maps search link for a free-text address.
func SearchURL(address string) string {
	return "https://maps.google.com/?q=" + url.QueryEscape(address)
}

// MapMarker is what the map collaborator needs to draw one marker.
type MapMarker struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// SortedPointsOfInterest returns a copy of the trip's points sorted by Order.
// The sort is stable so equal orders keep their slice position.
func SortedPointsOfInterest(t Trip) []PointOfInterest {
	out := slices.Clone(t.PointsOfInterest)
	if out == nil {
		out = []PointOfInterest{}
	}
	slices.SortStableFunc(out, func(a, b PointOfInterest) int {
		return cmp.Compare(a.Order, b.Order)
	})
	return out
}

// Markers returns one marker per point that has both coordinates, in route order.
func Markers(t Trip) []MapMarker {
	markers := []MapMarker{}
	for _, p := range SortedPointsOfInterest(t) {
		lat, lng, ok := p.Coordinates()
		if !ok {
			continue
		}
		markers = append(markers, MapMarker{ID: p.ID, Name: p.Name, Address: p.Address, Lat: lat, Lng: lng})
	}
	return markers
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
