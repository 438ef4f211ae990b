package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/ourtrip/internal/planner"
)

// formValue accepts a JSON string or number and keeps its text, so clients
// can send coordinates and amounts either way, exactly as a form would.
type formValue string

func (v *formValue) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*v = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*v = formValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.New("expected a string or a number")
	}
	*v = formValue(n.String())
	return nil
}

// AddPointRequest is the body of POST /trips/{id}/points: the search text
// and/or the coordinates typed into the add-point form.
type AddPointRequest struct {
	Query string    `json:"query"`
	Lat   formValue `json:"lat"`
	Lng   formValue `json:"lng"`
}

// ReorderRequest is the body of POST /trips/{id}/points/reorder.
// Both indexes count positions in the route, starting at 0.
type ReorderRequest struct {
	From *int `json:"from"`
	To   *int `json:"to"`
}

// AddPointOfInterest handles POST /trips/{id}/points.
func (s *Server) AddPointOfInterest(w http.ResponseWriter, r *http.Request) {
	var body AddPointRequest
	if !decodeBody(w, r, &body) {
		return
	}

	trip, err := s.trips.AddPointOfInterest(r.Context(), chi.URLParam(r, "id"), planner.Draft{
		Query: body.Query,
		Lat:   string(body.Lat),
		Lng:   string(body.Lng),
	})
	if err != nil {
		s.writeError(w, r, "trip", err)
		return
	}
	writeJSON(w, http.StatusCreated, trip)
}

// ReorderPointsOfInterest handles POST /trips/{id}/points/reorder.
func (s *Server) ReorderPointsOfInterest(w http.ResponseWriter, r *http.Request) {
	var body ReorderRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if body.From == nil || body.To == nil {
		writeJSON(w, http.StatusBadRequest, requestBody("from and to are required"))
		return
	}

	trip, err := s.trips.ReorderPointsOfInterest(r.Context(), chi.URLParam(r, "id"), *body.From, *body.To)
	if err != nil {
		s.writeError(w, r, "trip", err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// RemovePointOfInterest handles DELETE /trips/{id}/points/{poiId}.
func (s *Server) RemovePointOfInterest(w http.ResponseWriter, r *http.Request) {
	trip, err := s.trips.RemovePointOfInterest(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "poiId"))
	if err != nil {
		s.writeError(w, r, "trip or point of interest", err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// ListMarkers handles GET /trips/{id}/markers.
func (s *Server) ListMarkers(w http.ResponseWriter, r *http.Request) {
	markers, err := s.trips.Markers(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, "trip", err)
		return
	}
	writeJSON(w, http.StatusOK, markers)
}
