package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/ourtrip/internal/domain"
	"github.com/pkordes/ourtrip/internal/planner"
)

// AddExpenseRequest is the body of POST /trips/{id}/expenses.
// Amount may be a number or text such as "12,50". Date is RFC 3339 and
// defaults to now when omitted.
type AddExpenseRequest struct {
	Amount       formValue `json:"amount"`
	PaidBy       string    `json:"paidBy"`
	Description  string    `json:"description"`
	Date         string    `json:"date"`
	Participants []string  `json:"participants"`
}

// ListExpenses handles GET /trips/{id}/expenses. Newest first.
func (s *Server) ListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.trips.Expenses(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, "trip", err)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

// AddExpense handles POST /trips/{id}/expenses.
func (s *Server) AddExpense(w http.ResponseWriter, r *http.Request) {
	var body AddExpenseRequest
	if !decodeBody(w, r, &body) {
		return
	}

	amount, err := domain.ParseAmount(string(body.Amount))
	if err != nil {
		s.writeError(w, r, "trip", err)
		return
	}
	in := planner.ExpenseInput{
		Amount:       amount,
		PaidBy:       body.PaidBy,
		Description:  body.Description,
		Participants: body.Participants,
	}
	if d := strings.TrimSpace(body.Date); d != "" {
		in.Date, err = time.Parse(time.RFC3339Nano, d)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, requestBody("date must be an RFC 3339 timestamp"))
			return
		}
	}

	trip, err := s.trips.AddExpense(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		s.writeError(w, r, "trip", err)
		return
	}
	writeJSON(w, http.StatusCreated, trip)
}

// GetBalances handles GET /trips/{id}/balances: total, per-person balances,
// and the transfers that settle them.
func (s *Server) GetBalances(w http.ResponseWriter, r *http.Request) {
	summary, err := s.trips.Summary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, "trip", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
