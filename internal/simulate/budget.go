package simulate

import (
	"math"

	"github.com/gyaneshwarpardhi/funnelsim/internal/funnel"
)

// BudgetStats summarizes declared spend against the monthly budget.
type BudgetStats struct {
	Components int     `json:"components"`
	Types      int     `json:"types"`
	Declared   float64 `json:"declared"`
	UsagePct   float64 `json:"usagePct"`
	OverBudget bool    `json:"overBudget"`
}

func budgetStats(nodes []funnel.Node, p funnel.Params) BudgetStats {
	types := make(map[string]struct{}, len(nodes))
	var declared float64
	for _, n := range nodes {
		types[n.Type] = struct{}{}
		declared += funnel.NonNegative(n.Properties, 0, "budget")
	}
	bs := BudgetStats{
		Components: len(nodes),
		Types:      len(types),
		Declared:   finite(declared),
	}
	if p.MonthlyBudget > 0 {
		bs.UsagePct = finite(math.Round(bs.Declared/p.MonthlyBudget*100*100) / 100)
		bs.OverBudget = bs.Declared > p.MonthlyBudget
	}
	return bs
}
