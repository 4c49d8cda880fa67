package investment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPortfolio(t *testing.T) {
	list := []*Investment{
		{PlanName: "Стабильный", Amount: d("500"), TotalEarned: d("15.00"), MonthlyYield: d("5.00"), Status: StatusActive},
		{PlanName: "Агрессивный", Amount: d("1000"), TotalEarned: d("30.00"), MonthlyYield: d("15.00"), Status: StatusActive},
		{PlanName: "Стабильный", Amount: d("200"), TotalEarned: d("2.00"), MonthlyYield: d("2.00"), Status: StatusActive},
		// Погашенная инвестиция в портфель не входит
		{PlanName: "Стабильный", Amount: d("9999"), TotalEarned: d("500.00"), MonthlyYield: d("99.00"), Status: StatusMatured},
	}

	p := BuildPortfolio(list)

	assert.True(t, d("1700").Equal(p.TotalInvested), "получили %s", p.TotalInvested)
	assert.True(t, d("47.00").Equal(p.TotalEarned), "получили %s", p.TotalEarned)
	assert.True(t, d("22.00").Equal(p.MonthlyYield), "получили %s", p.MonthlyYield)

	// Распределение: больший план первым
	require.Len(t, p.Allocation, 2)
	assert.Equal(t, "Агрессивный", p.Allocation[0].PlanName)
	assert.True(t, d("1000").Equal(p.Allocation[0].Invested))
	assert.Equal(t, 1, p.Allocation[0].Count)
	assert.Equal(t, "Стабильный", p.Allocation[1].PlanName)
	assert.True(t, d("700").Equal(p.Allocation[1].Invested))
	assert.Equal(t, 2, p.Allocation[1].Count)
}

func TestBuildPortfolioEmpty(t *testing.T) {
	p := BuildPortfolio(nil)
	assert.True(t, p.TotalInvested.IsZero())
	assert.True(t, p.TotalEarned.IsZero())
	assert.True(t, p.MonthlyYield.IsZero())
	assert.Empty(t, p.Allocation)
}
