// Package balance computes who owes what from a trip's shared expenses.
// Everything here is pure: no I/O, no errors, no mutation of arguments.
package balance

import (
	"math"

	"github.com/pkordes/ourtrip/internal/domain"
)

// Compute returns the net balance of every participant after splitting each
// expense evenly among its participants and crediting the payer the full amount.
//
// The result has one entry per distinct name in participants, in the order the
// names first appear. A name that appears in an expense but not in
// participants gets its own entry after the roster, in first-seen order.
// Balances are rounded to cents only at the end.
func Compute(expenses []domain.Expense, participants []string) []domain.ExpenseBalance {
	l := newLedger(len(participants))
	for _, p := range participants {
		l.slot(p)
	}

	for _, e := range expenses {
		l.add(e.PaidBy, -e.Amount)
		if len(e.Participants) == 0 {
			continue
		}
		share := e.Amount / float64(len(e.Participants))
		for _, p := range e.Participants {
			l.add(p, share)
		}
	}

	out := make([]domain.ExpenseBalance, len(l.names))
	for i, name := range l.names {
		out[i] = domain.ExpenseBalance{Person: name, Balance: Round(l.totals[i])}
	}
	return out
}

// Total returns the sum of all expense amounts, rounded to cents.
func Total(expenses []domain.Expense) float64 {
	var sum float64
	for _, e := range expenses {
		sum += e.Amount
	}
	return Round(sum)
}

// Round rounds v to two decimal places, half away from zero.
// Negative zero is returned as zero.
func Round(v float64) float64 {
	r := math.Round(v*100) / 100
	if r == 0 {
		return 0
	}
	return r
}

// ledger keeps per-name running totals in insertion order.
type ledger struct {
	index  map[string]int
	names  []string
	totals []float64
}

func newLedger(n int) *ledger {
	return &ledger{
		index:  make(map[string]int, n),
		names:  make([]string, 0, n),
		totals: make([]float64, 0, n),
	}
}

func (l *ledger) slot(name string) int {
	if i, ok := l.index[name]; ok {
		return i
	}
	i := len(l.names)
	l.index[name] = i
	l.names = append(l.names, name)
	l.totals = append(l.totals, 0)
	return i
}

func (l *ledger) add(name string, v float64) {
	l.totals[l.slot(name)] += v
}
