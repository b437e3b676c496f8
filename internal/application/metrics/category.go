package metrics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// CategoryTotal suma de montos de una categoría, con su participación sobre el total.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
	Count    int
	SharePct decimal.Decimal
}

// IncomeByCategory agrupa ingresos de cualquier estado por categoría.
func IncomeByCategory(incomes []entity.Income) []CategoryTotal {
	g := newGrouper()
	for _, in := range incomes {
		g.add(in.Category, in.Amount)
	}
	return g.result()
}

// ExpenseByCategory agrupa gastos de cualquier estado por categoría.
func ExpenseByCategory(expenses []entity.Expense) []CategoryTotal {
	g := newGrouper()
	for _, ex := range expenses {
		g.add(ex.Category, ex.Amount)
	}
	return g.result()
}

type grouper struct {
	totals map[string]*CategoryTotal
	sum    decimal.Decimal
}

func newGrouper() *grouper {
	return &grouper{totals: make(map[string]*CategoryTotal), sum: decimal.Zero}
}

func (g *grouper) add(category string, amount decimal.Decimal) {
	ct, ok := g.totals[category]
	if !ok {
		ct = &CategoryTotal{Category: category, Total: decimal.Zero}
		g.totals[category] = ct
	}
	ct.Total = ct.Total.Add(amount)
	ct.Count++
	g.sum = g.sum.Add(amount)
}

// result omite categorías en cero y ordena por total desc, luego por nombre.
func (g *grouper) result() []CategoryTotal {
	out := make([]CategoryTotal, 0, len(g.totals))
	for _, ct := range g.totals {
		if ct.Total.IsZero() {
			continue
		}
		ct.SharePct = percent(ct.Total, g.sum)
		out = append(out, *ct)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}
