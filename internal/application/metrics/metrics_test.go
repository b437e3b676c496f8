package metrics

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/pkg/date"
)

var today = date.MustParse("2026-03-15")

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func income(amount, day string, status entity.IncomeStatus, category string) entity.Income {
	return entity.Income{Description: "ingreso", Amount: dec(amount), Date: date.MustParse(day), Status: status, Category: category}
}

func expense(amount, day string, status entity.ExpenseStatus, category string) entity.Expense {
	return entity.Expense{Description: "gasto", Amount: dec(amount), Date: date.MustParse(day), Status: status, Category: category}
}

func TestProfitMargin_SinIngresosEsCero(t *testing.T) {
	m := ProfitMargin(decimal.Zero, dec("500"))
	assert.True(t, m.IsZero(), "margen sin ingresos debe ser 0, got %s", m)

	s := Totals(Dataset{Expenses: []entity.Expense{expense("500", "2026-03-01", entity.ExpensePaid, "Otros")}})
	assert.True(t, s.ProfitMarginPct.IsZero())
	assert.True(t, s.PendingExpensePct.IsZero())
	assert.True(t, s.Net.Equal(dec("-500")))
}

func TestTotals(t *testing.T) {
	ds := Dataset{
		Incomes: []entity.Income{
			income("1000", "2026-03-01", entity.IncomeReceived, "Ventas"),
			income("250", "2026-03-02", entity.IncomePending, "Ventas"),
			income("999", "2026-03-02", entity.IncomeOverdue, "Servicios"),
		},
		Expenses: []entity.Expense{
			expense("400", "2026-03-03", entity.ExpensePaid, "Salarios"),
			expense("100", "2026-03-04", entity.ExpensePending, "Otros"),
		},
		Products: []entity.Product{{Quantity: 5, MinStock: 10}, {Quantity: 20, MinStock: 10}},
		Tasks: []entity.Task{
			{Status: entity.TaskCompleted}, {Status: entity.TaskPending}, {Status: entity.TaskOnHold}, {Status: entity.TaskCompleted},
		},
		Employees: []entity.Employee{
			{Status: entity.EmployeeActive, Salary: dec("3000")},
			{Status: entity.EmployeeVacation, Salary: dec("2000")},
			{Status: entity.EmployeeInactive, Salary: dec("9999")},
		},
	}
	s := Totals(ds)

	assert.True(t, s.ReceivedIncome.Equal(dec("1000")))
	assert.True(t, s.PaidExpense.Equal(dec("400")))
	assert.True(t, s.Net.Equal(dec("600")))
	assert.True(t, s.ProfitMarginPct.Equal(dec("60")))
	assert.True(t, s.PendingIncome.Equal(dec("250")))
	assert.True(t, s.PendingIncomePct.Equal(dec("25")))
	assert.True(t, s.PendingExpensePct.Equal(dec("25")))
	assert.Equal(t, 1, s.LowStockCount)
	assert.True(t, s.LowStockPct.Equal(dec("50")))
	assert.Equal(t, 2, s.CompletedTasks)
	assert.True(t, s.TaskCompletionPct.Equal(dec("50")))
	assert.Equal(t, 1, s.ActiveEmployees)
	assert.True(t, s.MonthlyPayroll.Equal(dec("5000")))
}

func TestStockAlertCount(t *testing.T) {
	products := []entity.Product{{Quantity: 5, MinStock: 10}, {Quantity: 20, MinStock: 10}}
	assert.Equal(t, 1, StockAlertCount(products))
	assert.Len(t, LowStock(products), 1)

	// en el mínimo también es alerta
	assert.Equal(t, 1, StockAlertCount([]entity.Product{{Quantity: 10, MinStock: 10}}))
	assert.Equal(t, 0, StockAlertCount(nil))
}

func TestSeries_SemanaSinDatos(t *testing.T) {
	points, err := Series(WindowWeek, nil, nil, today)
	require.NoError(t, err)
	require.Len(t, points, 7)
	assert.Equal(t, "09 mar", points[0].Label)
	assert.Equal(t, "15 mar", points[6].Label)
	for i, p := range points {
		assert.True(t, p.Income.IsZero())
		assert.True(t, p.Expense.IsZero())
		assert.True(t, p.Profit.IsZero())
		if i > 0 {
			assert.True(t, points[i-1].Start.Before(p.Start), "buckets en orden ascendente")
		}
	}
}

func TestSeries_SemanaConDatos(t *testing.T) {
	incomes := []entity.Income{
		income("100", "2026-03-15", entity.IncomeReceived, "Ventas"),
		income("50", "2026-03-15", entity.IncomePending, "Ventas"),
		income("70", "2026-03-09", entity.IncomeReceived, "Ventas"),
		income("999", "2026-03-08", entity.IncomeReceived, "Ventas"), // fuera de la ventana
		income("999", "2026-03-20", entity.IncomeReceived, "Ventas"), // futuro
	}
	expenses := []entity.Expense{expense("30", "2026-03-15", entity.ExpensePaid, "Otros")}

	points, err := Series(WindowWeek, incomes, expenses, today)
	require.NoError(t, err)
	require.Len(t, points, 7)
	assert.True(t, points[0].Income.Equal(dec("70")))
	last := points[6]
	assert.True(t, last.Income.Equal(dec("150")))
	assert.True(t, last.Expense.Equal(dec("30")))
	assert.True(t, last.Profit.Equal(dec("120")))
}

func TestSeries_MesTrimestreAnio(t *testing.T) {
	month, err := Series(WindowMonth, nil, nil, today)
	require.NoError(t, err)
	assert.Len(t, month, 29) // 15 feb .. 15 mar
	assert.Equal(t, "15 feb", month[0].Label)
	assert.Equal(t, "15 mar", month[28].Label)

	quarter, err := Series(WindowQuarter, []entity.Income{income("10", "2026-01-31", entity.IncomeReceived, "Ventas")}, nil, today)
	require.NoError(t, err)
	require.Len(t, quarter, 4)
	assert.Equal(t, []string{"dic", "ene", "feb", "mar"},
		[]string{quarter[0].Label, quarter[1].Label, quarter[2].Label, quarter[3].Label})
	assert.True(t, quarter[1].Income.Equal(dec("10")))

	year, err := Series(WindowYear, nil, []entity.Expense{expense("5", "2025-04-02", entity.ExpensePaid, "Otros")}, today)
	require.NoError(t, err)
	require.Len(t, year, 13)
	assert.Equal(t, "mar 25", year[0].Label)
	assert.Equal(t, "abr 25", year[1].Label)
	assert.Equal(t, "mar 26", year[12].Label)
	assert.True(t, year[1].Profit.Equal(dec("-5")))
}

// Los bordes de la ventana: lo fechado desde el inicio siempre tiene bucket y lo anterior no cuenta.
func TestSeries_BordesDeLaVentana(t *testing.T) {
	// mes: inicio 15 feb; el 14 feb queda afuera
	month, err := Series(WindowMonth, []entity.Income{
		income("500", "2026-02-14", entity.IncomeReceived, "Ventas"),
		income("20", "2026-02-15", entity.IncomeReceived, "Ventas"),
	}, nil, today)
	require.NoError(t, err)
	assert.Equal(t, date.MustParse("2026-02-15"), month[0].Start)
	assert.True(t, month[0].Income.Equal(dec("20")))
	assert.True(t, sumIncome(month).Equal(dec("20")))

	// trimestre: inicio 15 dic; diciembre es un bucket parcial
	quarter, err := Series(WindowQuarter, []entity.Income{
		income("300", "2025-12-20", entity.IncomeReceived, "Ventas"),
		income("999", "2025-12-14", entity.IncomeReceived, "Ventas"),
	}, nil, today)
	require.NoError(t, err)
	assert.Equal(t, date.MustParse("2025-12-01"), quarter[0].Start)
	assert.True(t, quarter[0].Income.Equal(dec("300")))
	assert.True(t, sumIncome(quarter).Equal(dec("300")))

	// año: el mismo mes del año anterior cuenta desde el día de inicio
	year, err := Series(WindowYear, nil, []entity.Expense{
		expense("40", "2025-03-20", entity.ExpensePaid, "Otros"),
		expense("999", "2025-03-10", entity.ExpensePaid, "Otros"),
		expense("7", "2026-03-05", entity.ExpensePaid, "Otros"),
	}, today)
	require.NoError(t, err)
	assert.True(t, year[0].Expense.Equal(dec("40")))
	assert.True(t, year[12].Expense.Equal(dec("7")))

	// semana: 7 días contando hoy
	week, err := Series(WindowWeek, []entity.Income{income("9", "2026-03-09", entity.IncomeReceived, "Ventas")}, nil, today)
	require.NoError(t, err)
	assert.Equal(t, WindowWeek.Start(today), week[0].Start)
	assert.True(t, week[0].Income.Equal(dec("9")))
}

func sumIncome(points []SeriesPoint) decimal.Decimal {
	total := decimal.Zero
	for _, p := range points {
		total = total.Add(p.Income)
	}
	return total
}

func TestSeries_VentanaInvalida(t *testing.T) {
	_, err := Series(Window("decade"), nil, nil, today)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = ParseWindow("decade")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	w, err := ParseWindow("")
	require.NoError(t, err)
	assert.Equal(t, WindowMonth, w)
	assert.Equal(t, date.MustParse("2026-03-09"), WindowWeek.Start(today))
	assert.Equal(t, date.MustParse("2025-12-15"), WindowQuarter.Start(today))
}

func TestCategoryBreakdown_OmiteCeros(t *testing.T) {
	expenses := []entity.Expense{
		expense("0", "2026-03-01", entity.ExpensePaid, "Marketing"),
		expense("300", "2026-03-01", entity.ExpensePending, "Salarios"),
		expense("100", "2026-03-02", entity.ExpensePaid, "Otros"),
		expense("100", "2026-03-03", entity.ExpenseOverdue, "Instalaciones"),
	}
	got := ExpenseByCategory(expenses)
	require.Len(t, got, 3)
	for _, ct := range got {
		assert.False(t, ct.Total.IsZero(), "categoría %s con total cero", ct.Category)
	}
	assert.Equal(t, "Salarios", got[0].Category)
	assert.True(t, got[0].SharePct.Equal(dec("60")))
	// empate: por nombre
	assert.Equal(t, "Instalaciones", got[1].Category)
	assert.Equal(t, "Otros", got[2].Category)

	assert.Empty(t, IncomeByCategory(nil))
}

func TestOverdue(t *testing.T) {
	due := date.MustParse("2026-03-10")
	future := date.MustParse("2026-04-01")
	ds := Dataset{
		Expenses: []entity.Expense{
			expense("1", "2026-03-01", entity.ExpensePending, "Otros"),
			expense("1", "2026-03-20", entity.ExpensePending, "Otros"),
			expense("1", "2026-03-20", entity.ExpenseOverdue, "Otros"),
			expense("1", "2026-03-01", entity.ExpensePaid, "Otros"),
		},
		Incomes: []entity.Income{income("1", "2026-03-14", entity.IncomePending, "Ventas")},
		Tasks: []entity.Task{
			{Title: "a", DueDate: &due, Status: entity.TaskInProgress},
			{Title: "b", DueDate: &due, Status: entity.TaskCompleted},
			{Title: "c", DueDate: &future, Status: entity.TaskPending},
			{Title: "d", Status: entity.TaskPending},
		},
	}
	r := Overdue(ds, today)
	assert.Len(t, r.Expenses, 2)
	assert.Len(t, r.Incomes, 1)
	require.Len(t, r.Tasks, 1)
	assert.Equal(t, "a", r.Tasks[0].Title)
}

func TestTasksByStatus(t *testing.T) {
	got := TasksByStatus([]entity.Task{{Status: entity.TaskPending}, {Status: entity.TaskPending}, {Status: entity.TaskCancelled}})
	assert.Equal(t, map[entity.TaskStatus]int{entity.TaskPending: 2, entity.TaskCancelled: 1}, got)
}
