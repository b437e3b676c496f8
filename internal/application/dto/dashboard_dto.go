package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	// Caja realizada
	ReceivedIncome  decimal.Decimal `json:"received_income"`
	PaidExpense     decimal.Decimal `json:"paid_expense"`
	Net             decimal.Decimal `json:"net"`
	ProfitMarginPct decimal.Decimal `json:"profit_margin_pct"` // net / received_income * 100; 0 sin ingresos

	// Pendientes de cobro y pago
	PendingIncome     decimal.Decimal `json:"pending_income"`
	PendingExpense    decimal.Decimal `json:"pending_expense"`
	PendingIncomePct  decimal.Decimal `json:"pending_income_pct"`
	PendingExpensePct decimal.Decimal `json:"pending_expense_pct"`

	ProductCount      int             `json:"product_count"`
	LowStockCount     int             `json:"low_stock_count"`
	LowStockPct       decimal.Decimal `json:"low_stock_pct"`
	TaskCount         int             `json:"task_count"`
	CompletedTasks    int             `json:"completed_tasks"`
	TaskCompletionPct decimal.Decimal `json:"task_completion_pct"`
	CustomerCount     int             `json:"customer_count"`
	ActiveCustomers   int             `json:"active_customers"`
	ActiveEmployees   int             `json:"active_employees"`
	MonthlyPayroll    decimal.Decimal `json:"monthly_payroll"`

	// Montos ya formateados en la moneda configurada (ej. "$1.234.567,00")
	Display map[string]string `json:"display"`

	Synced bool `json:"synced"`
}

// CashFlowPointDTO un bucket del flujo de caja.
type CashFlowPointDTO struct {
	Label   string          `json:"label"`
	Start   string          `json:"start"` // YYYY-MM-DD
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Profit  decimal.Decimal `json:"profit"`
}

// CashFlowDTO respuesta de GET /api/dashboard/cashflow.
type CashFlowDTO struct {
	Window string             `json:"window"`
	From   string             `json:"from"`
	To     string             `json:"to"`
	Points []CashFlowPointDTO `json:"points"`
	Synced bool               `json:"synced"`
}

// CategoryTotalDTO total de una categoría.
type CategoryTotalDTO struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
	SharePct decimal.Decimal `json:"share_pct"`
}

// CategoriesDTO respuesta de GET /api/dashboard/categories.
type CategoriesDTO struct {
	Incomes       []CategoryTotalDTO `json:"incomes"`
	Expenses      []CategoryTotalDTO `json:"expenses"`
	TasksByStatus map[string]int     `json:"tasks_by_status"`
	Synced        bool               `json:"synced"`
}

// OverdueItemDTO registro vencido, de cualquier Kind.
type OverdueItemDTO struct {
	Kind        string          `json:"kind"`
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount,omitzero"`
	Date        string          `json:"date"`
	Status      string          `json:"status"`
}

// OverdueDTO respuesta de GET /api/dashboard/overdue.
type OverdueDTO struct {
	AsOf     string            `json:"as_of"`
	Items    []OverdueItemDTO  `json:"items"`
	LowStock []LowStockItemDTO `json:"low_stock"`
	Synced   bool              `json:"synced"`
}

// LowStockItemDTO producto en alerta de stock.
type LowStockItemDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	MinStock int    `json:"min_stock"`
}
