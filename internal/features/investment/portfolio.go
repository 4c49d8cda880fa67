// Package investment — portfolio.go: сборка сводки портфеля.
// Чистая функция над уже прочитанными (и актуализированными) инвестициями,
// чтобы сводка не расходилась с тем, что возвращают Get/List.
package investment

import (
	"sort"

	"github.com/shopspring/decimal"
)

// BuildPortfolio собирает сводку по активным инвестициям списка.
// Погашенные и закрытые инвестиции в портфель не входят.
// Распределение по планам отсортировано по вложенной сумме (убывание).
func BuildPortfolio(list []*Investment) *Portfolio {
	p := &Portfolio{
		TotalInvested: decimal.Zero,
		TotalEarned:   decimal.Zero,
		MonthlyYield:  decimal.Zero,
	}

	byPlan := make(map[string]*PlanAllocation)
	for _, inv := range list {
		if inv.Status != StatusActive {
			continue
		}
		p.TotalInvested = p.TotalInvested.Add(inv.Amount)
		p.TotalEarned = p.TotalEarned.Add(inv.TotalEarned)
		p.MonthlyYield = p.MonthlyYield.Add(inv.MonthlyYield)

		a := byPlan[inv.PlanName]
		if a == nil {
			a = &PlanAllocation{PlanName: inv.PlanName, Invested: decimal.Zero}
			byPlan[inv.PlanName] = a
			p.Allocation = append(p.Allocation, a)
		}
		a.Invested = a.Invested.Add(inv.Amount)
		a.Count++
	}

	sort.Slice(p.Allocation, func(i, j int) bool {
		return p.Allocation[i].Invested.GreaterThan(p.Allocation[j].Invested)
	})
	return p
}
