package planner

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkordes/ourtrip/internal/domain"
)

// Draft is the raw content of the add-point form: free text plus optional
// coordinate fields, all as typed by the user.
type Draft struct {
	Query string
	Lat   string
	Lng   string
}

// LookupKind says which geocoding call, if any, a draft needs.
type LookupKind int

const (
	// LookupNone means the draft is complete as typed.
	LookupNone LookupKind = iota
	// LookupForward resolves Query to coordinates.
	LookupForward
	// LookupReverse resolves Lat/Lng to a place name.
	LookupReverse
)

func (k LookupKind) String() string {
	switch k {
	case LookupForward:
		return "forward"
	case LookupReverse:
		return "reverse"
	default:
		return "none"
	}
}

// Lookup is an effect request: the caller performs it (or skips it) and feeds
// the answer back through Resolved or Unresolved before calling AddPointOfInterest.
type Lookup struct {
	Kind  LookupKind
	Query string
	Lat   float64
	Lng   float64
}

// PlanPointOfInterest turns a draft into an input and the lookup it still needs.
//
//   - both coordinates and text: nothing to look up;
//   - both coordinates, no text: reverse lookup for a name;
//   - text only: forward lookup for coordinates;
//   - neither: validation error.
//
// A single coordinate, or one that does not parse, counts as no coordinates.
func PlanPointOfInterest(d Draft) (PointOfInterestInput, Lookup, error) {
	text := strings.TrimSpace(d.Query)
	lat, lng := domain.ParseCoordinate(d.Lat), domain.ParseCoordinate(d.Lng)
	hasCoords := lat != nil && lng != nil

	in := PointOfInterestInput{Name: text, Address: text}
	switch {
	case hasCoords:
		in.Lat, in.Lng = lat, lng
		if text == "" {
			return in, Lookup{Kind: LookupReverse, Lat: *lat, Lng: *lng}, nil
		}
		return in, Lookup{Kind: LookupNone}, nil
	case text != "":
		return in, Lookup{Kind: LookupForward, Query: text}, nil
	default:
		return PointOfInterestInput{}, Lookup{}, fmt.Errorf("%w: enter a place name or both coordinates", domain.ErrValidation)
	}
}

// Resolved folds a successful lookup into in: a forward lookup supplies the
// coordinates, a reverse lookup supplies the name and address.
func (l Lookup) Resolved(in PointOfInterestInput, name string, lat, lng float64) PointOfInterestInput {
	switch l.Kind {
	case LookupForward:
		in.Lat, in.Lng = &lat, &lng
	case LookupReverse:
		in.Name, in.Address = name, name
	}
	return in
}

// Unresolved completes in after a miss or a skipped lookup. A forward miss
// keeps the point without coordinates; a reverse miss names the point after
// its coordinates so it still has a label.
func (l Lookup) Unresolved(in PointOfInterestInput) PointOfInterestInput {
	if l.Kind == LookupReverse {
		label := strconv.FormatFloat(l.Lat, 'f', -1, 64) + ", " + strconv.FormatFloat(l.Lng, 'f', -1, 64)
		in.Name, in.Address = label, label
	}
	return in
}
