package balance

import (
	"cmp"
	"math"
	"slices"

	"github.com/pkordes/ourtrip/internal/domain"
)

// Settle turns balances into a list of payments that clears every debt.
// Debtors (positive balance) pay creditors (negative balance), largest amounts
// first, ties broken by name so the plan is deterministic.
// The arithmetic runs in whole cents; any residue left by rounding the input
// balances (at most a cent per participant) is ignored.
func Settle(balances []domain.ExpenseBalance) []domain.Transfer {
	type party struct {
		name  string
		cents int64
	}

	var debtors, creditors []party
	for _, b := range balances {
		c := int64(math.Round(b.Balance * 100))
		switch {
		case c > 0:
			debtors = append(debtors, party{b.Person, c})
		case c < 0:
			creditors = append(creditors, party{b.Person, -c})
		}
	}

	byAmount := func(a, b party) int {
		if c := cmp.Compare(b.cents, a.cents); c != 0 {
			return c
		}
		return cmp.Compare(a.name, b.name)
	}
	slices.SortFunc(debtors, byAmount)
	slices.SortFunc(creditors, byAmount)

	transfers := []domain.Transfer{}
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		d, c := &debtors[i], &creditors[j]
		pay := min(d.cents, c.cents)
		transfers = append(transfers, domain.Transfer{
			From:   d.name,
			To:     c.name,
			Amount: float64(pay) / 100,
		})
		d.cents -= pay
		c.cents -= pay
		if d.cents == 0 {
			i++
		}
		if c.cents == 0 {
			j++
		}
	}
	return transfers
}
