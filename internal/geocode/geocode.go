// Package geocode talks to a Nominatim-compatible geocoding service.
//
// A lookup that finds nothing is a normal outcome and is reported through the
// Found flag of the result, never as an error. Errors mean the service could
// not be asked or did not answer sensibly.
package geocode

// Result is the outcome of a forward lookup (text to coordinates).
type Result struct {
	Found bool
	Lat   float64
	Lng   float64
}

// Found returns a hit at lat, lng.
func Found(lat, lng float64) Result {
	return Result{Found: true, Lat: lat, Lng: lng}
}

// NotFound returns a miss.
func NotFound() Result {
	return Result{}
}

// Place is the outcome of a reverse lookup (coordinates to a display name).
type Place struct {
	Found bool
	Name  string
}

// Suggestion is one autocomplete candidate.
type Suggestion struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

const (
	// DefaultURL is the public OpenStreetMap Nominatim instance.
	DefaultURL = "https://nominatim.openstreetmap.org"

	// MinSuggestQuery is the shortest query, in characters, that gets suggestions.
	MinSuggestQuery = 3

	// DefaultSuggestLimit caps suggestions when the caller passes limit <= 0.
	DefaultSuggestLimit = 20
)
