package domain

import (
	"cmp"
	"slices"
	"time"
)

// Expense is a shared cost paid by one participant and split evenly among
// Participants.
type Expense struct {
	ID           string    `json:"id"`
	Amount       float64   `json:"amount"`
	PaidBy       string    `json:"paidBy"`
	Description  string    `json:"description"`
	Date         time.Time `json:"date"`
	Participants []string  `json:"participants"`
}

func (e Expense) clone() Expense {
	out := e
	out.Participants = slices.Clone(e.Participants)
	if out.Participants == nil {
		out.Participants = []string{}
	}
	return out
}

// ExpenseBalance is the derived net position of one participant.
// Positive means the person owes the group; negative means the group owes them.
type ExpenseBalance struct {
	Person  string  `json:"person"`
	Balance float64 `json:"balance"`
}

// Transfer is one step of a settle-up plan: From pays Amount to To.
type Transfer struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

// ExpensesByDateDesc returns a copy of the trip's expenses, newest first.
func ExpensesByDateDesc(t Trip) []Expense {
	out := slices.Clone(t.Expenses)
	if out == nil {
		out = []Expense{}
	}
	slices.SortStableFunc(out, func(a, b Expense) int {
		return cmp.Compare(b.Date.UnixMilli(), a.Date.UnixMilli())
	})
	return out
}
