package metrics

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// Summary cifras agregadas del tablero.
type Summary struct {
	ReceivedIncome  decimal.Decimal // ingresos con estado received
	PaidExpense     decimal.Decimal // gastos con estado paid
	Net             decimal.Decimal // ReceivedIncome - PaidExpense
	ProfitMarginPct decimal.Decimal // Net / ReceivedIncome * 100; 0 si no hay ingresos

	PendingIncome     decimal.Decimal
	PendingExpense    decimal.Decimal
	PendingIncomePct  decimal.Decimal // sobre ReceivedIncome
	PendingExpensePct decimal.Decimal // sobre PaidExpense

	ProductCount  int
	LowStockCount int
	LowStockPct   decimal.Decimal

	TaskCount         int
	CompletedTasks    int
	TaskCompletionPct decimal.Decimal

	CustomerCount   int
	ActiveCustomers int

	ActiveEmployees int
	MonthlyPayroll  decimal.Decimal // salarios de empleados no inactivos
}

// Totals calcula el resumen completo en una pasada por colección.
func Totals(ds Dataset) Summary {
	var s Summary
	s.ReceivedIncome, s.PendingIncome = decimal.Zero, decimal.Zero
	s.PaidExpense, s.PendingExpense = decimal.Zero, decimal.Zero
	s.MonthlyPayroll = decimal.Zero

	for _, in := range ds.Incomes {
		switch in.Status {
		case entity.IncomeReceived:
			s.ReceivedIncome = s.ReceivedIncome.Add(in.Amount)
		case entity.IncomePending:
			s.PendingIncome = s.PendingIncome.Add(in.Amount)
		}
	}
	for _, ex := range ds.Expenses {
		switch ex.Status {
		case entity.ExpensePaid:
			s.PaidExpense = s.PaidExpense.Add(ex.Amount)
		case entity.ExpensePending:
			s.PendingExpense = s.PendingExpense.Add(ex.Amount)
		}
	}
	s.Net = s.ReceivedIncome.Sub(s.PaidExpense)
	s.ProfitMarginPct = ProfitMargin(s.ReceivedIncome, s.PaidExpense)
	s.PendingIncomePct = percent(s.PendingIncome, s.ReceivedIncome)
	s.PendingExpensePct = percent(s.PendingExpense, s.PaidExpense)

	s.ProductCount = len(ds.Products)
	s.LowStockCount = StockAlertCount(ds.Products)
	s.LowStockPct = ratio(s.LowStockCount, s.ProductCount)

	s.TaskCount = len(ds.Tasks)
	for _, t := range ds.Tasks {
		if t.Status == entity.TaskCompleted {
			s.CompletedTasks++
		}
	}
	s.TaskCompletionPct = ratio(s.CompletedTasks, s.TaskCount)

	s.CustomerCount = len(ds.Customers)
	for _, c := range ds.Customers {
		if c.Status == entity.CustomerActive {
			s.ActiveCustomers++
		}
	}
	for _, e := range ds.Employees {
		if e.Status == entity.EmployeeInactive {
			continue
		}
		if e.Status == entity.EmployeeActive {
			s.ActiveEmployees++
		}
		s.MonthlyPayroll = s.MonthlyPayroll.Add(e.Salary)
	}
	return s
}

// ProfitMargin (income - expense) / income * 100 con 2 decimales. Sin ingresos el margen es 0.
func ProfitMargin(income, expense decimal.Decimal) decimal.Decimal {
	return percent(income.Sub(expense), income)
}
