package handler

import (
	"net/http"
)

// SuggestPlaces handles GET /geocode/suggest?q=&limit=.
// Lookup failures are not errors here: the list is simply empty.
func (s *Server) SuggestPlaces(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(w, r, "limit")
	if !ok {
		return
	}
	n := 0
	if limit != nil {
		n = *limit
	}
	writeJSON(w, http.StatusOK, s.trips.Suggest(r.Context(), r.URL.Query().Get("q"), n))
}
