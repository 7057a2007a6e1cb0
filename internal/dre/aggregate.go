package dre

import "github.com/shopspring/decimal"

// Recalculate rebuilds every derived value in the forest. Children are folded
// before their parents: a parent's month is the sum of its revenue children
// minus the sum of its expense children, and every total is the sum of its
// 12 months. A parent's own type is not applied here; it only matters one
// level up.
func (b *Budget) Recalculate() {
	for _, root := range b.roots {
		rollUp(root)
	}
}

func rollUp(item *Item) {
	if item.IsLeaf() {
		item.Values.sumTotal()
		return
	}

	var derived MonthlyValues
	for _, child := range item.Children {
		rollUp(child)
		for _, m := range Months() {
			derived.set(m, derived.Get(m).Add(child.signed(m)))
		}
	}
	derived.sumTotal()
	item.Values = derived
}

// BudgetTotals returns the grand total of the budget: the sign-aware sum of
// the top-level items, per month and for the year.
func (b *Budget) BudgetTotals() MonthlyValues {
	var totals MonthlyValues
	for _, m := range Months() {
		sum := decimal.Zero
		for _, root := range b.roots {
			sum = sum.Add(root.signed(m))
		}
		totals.set(m, sum)
	}

	annual := decimal.Zero
	for _, root := range b.roots {
		annual = annual.Add(root.signedTotal())
	}
	totals.total = annual
	return totals
}
