package balance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkordes/ourtrip/internal/balance"
	"github.com/pkordes/ourtrip/internal/domain"
)

func TestSettle_OneCreditor(t *testing.T) {
	got := balance.Settle([]domain.ExpenseBalance{
		{Person: "A", Balance: -60},
		{Person: "B", Balance: 30},
		{Person: "C", Balance: 30},
	})

	assert.Equal(t, []domain.Transfer{
		{From: "B", To: "A", Amount: 30},
		{From: "C", To: "A", Amount: 30},
	}, got)
}

func TestSettle_LargestFirst(t *testing.T) {
	got := balance.Settle([]domain.ExpenseBalance{
		{Person: "A", Balance: -10},
		{Person: "B", Balance: -40},
		{Person: "C", Balance: 35},
		{Person: "D", Balance: 15},
	})

	assert.Equal(t, []domain.Transfer{
		{From: "C", To: "B", Amount: 35},
		{From: "D", To: "B", Amount: 5},
		{From: "D", To: "A", Amount: 10},
	}, got)
}

func TestSettle_AllSettled(t *testing.T) {
	got := balance.Settle([]domain.ExpenseBalance{
		{Person: "A", Balance: 0},
		{Person: "B", Balance: 0},
	})

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSettle_ClearsComputedBalances(t *testing.T) {
	balances := balance.Compute([]domain.Expense{
		{Amount: 100, PaidBy: "A", Participants: []string{"A", "B"}},
		{Amount: 50, PaidBy: "B", Participants: []string{"A", "B"}},
	}, []string{"A", "B"})

	assert.Equal(t, []domain.Transfer{{From: "B", To: "A", Amount: 25}}, balance.Settle(balances))
}
