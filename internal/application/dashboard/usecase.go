// Package dashboard arma las vistas del tablero (resumen, flujo de caja, categorías, vencidos)
// y el reporte financiero en PDF a partir del Dataset de una sesión.
package dashboard

import (
	"sort"
	"time"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/application/metrics"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/pkg/date"
	"github.com/jhoicas/backoffice-api/pkg/money"
)

// Source entrega una copia consistente de las colecciones (datasync.Engine la implementa).
type Source interface {
	Snapshot() metrics.Dataset
}

// UseCase vistas del tablero. No guarda estado: todo se recalcula en cada llamada.
type UseCase struct {
	currency  string
	generator ReportPDFGenerator
	now       func() time.Time
}

// NewUseCase construye el caso de uso. currency es el código ISO con el que se muestran los montos.
func NewUseCase(currency string, generator ReportPDFGenerator) *UseCase {
	return &UseCase{currency: currency, generator: generator, now: time.Now}
}

func (uc *UseCase) today() date.Date { return date.Of(uc.now()) }

// Summary KPIs principales.
func (uc *UseCase) Summary(src Source) *dto.DashboardSummaryDTO {
	ds := src.Snapshot()
	s := metrics.Totals(ds)
	return &dto.DashboardSummaryDTO{
		ReceivedIncome:    s.ReceivedIncome,
		PaidExpense:       s.PaidExpense,
		Net:               s.Net,
		ProfitMarginPct:   s.ProfitMarginPct,
		PendingIncome:     s.PendingIncome,
		PendingExpense:    s.PendingExpense,
		PendingIncomePct:  s.PendingIncomePct,
		PendingExpensePct: s.PendingExpensePct,
		ProductCount:      s.ProductCount,
		LowStockCount:     s.LowStockCount,
		LowStockPct:       s.LowStockPct,
		TaskCount:         s.TaskCount,
		CompletedTasks:    s.CompletedTasks,
		TaskCompletionPct: s.TaskCompletionPct,
		CustomerCount:     s.CustomerCount,
		ActiveCustomers:   s.ActiveCustomers,
		ActiveEmployees:   s.ActiveEmployees,
		MonthlyPayroll:    s.MonthlyPayroll,
		Display: map[string]string{
			"received_income": money.Format(s.ReceivedIncome, uc.currency),
			"paid_expense":    money.Format(s.PaidExpense, uc.currency),
			"net":             money.Format(s.Net, uc.currency),
			"pending_income":  money.Format(s.PendingIncome, uc.currency),
			"pending_expense": money.Format(s.PendingExpense, uc.currency),
			"monthly_payroll": money.Format(s.MonthlyPayroll, uc.currency),
		},
		Synced: ds.Synced,
	}
}

// CashFlow serie de ingresos, gastos y utilidad para window (week, month, quarter, year).
func (uc *UseCase) CashFlow(src Source, window string) (*dto.CashFlowDTO, error) {
	w, err := metrics.ParseWindow(window)
	if err != nil {
		return nil, err
	}
	ds := src.Snapshot()
	today := uc.today()
	points, err := metrics.Series(w, ds.Incomes, ds.Expenses, today)
	if err != nil {
		return nil, err
	}
	out := &dto.CashFlowDTO{
		Window: string(w),
		From:   w.Start(today).String(),
		To:     today.String(),
		Points: make([]dto.CashFlowPointDTO, 0, len(points)),
		Synced: ds.Synced,
	}
	for _, p := range points {
		out.Points = append(out.Points, dto.CashFlowPointDTO{
			Label:   p.Label,
			Start:   p.Start.String(),
			Income:  p.Income,
			Expense: p.Expense,
			Profit:  p.Profit,
		})
	}
	return out, nil
}

// Categories distribución por categoría y conteo de tareas por estado.
func (uc *UseCase) Categories(src Source) *dto.CategoriesDTO {
	ds := src.Snapshot()
	byStatus := make(map[string]int)
	for status, n := range metrics.TasksByStatus(ds.Tasks) {
		byStatus[string(status)] = n
	}
	return &dto.CategoriesDTO{
		Incomes:       toCategoryDTOs(metrics.IncomeByCategory(ds.Incomes)),
		Expenses:      toCategoryDTOs(metrics.ExpenseByCategory(ds.Expenses)),
		TasksByStatus: byStatus,
		Synced:        ds.Synced,
	}
}

// Overdue vencidos a hoy (más antiguos primero) y productos en alerta de stock.
func (uc *UseCase) Overdue(src Source) *dto.OverdueDTO {
	ds := src.Snapshot()
	today := uc.today()
	r := metrics.Overdue(ds, today)

	items := make([]dto.OverdueItemDTO, 0, len(r.Expenses)+len(r.Incomes)+len(r.Tasks))
	for _, e := range r.Expenses {
		items = append(items, dto.OverdueItemDTO{
			Kind: string(entity.KindExpense), ID: e.ID, Description: e.Description,
			Amount: e.Amount, Date: e.Date.String(), Status: string(e.Status),
		})
	}
	for _, i := range r.Incomes {
		items = append(items, dto.OverdueItemDTO{
			Kind: string(entity.KindIncome), ID: i.ID, Description: i.Description,
			Amount: i.Amount, Date: i.Date.String(), Status: string(i.Status),
		})
	}
	for _, t := range r.Tasks {
		items = append(items, dto.OverdueItemDTO{
			Kind: string(entity.KindTask), ID: t.ID, Description: t.Title,
			Date: t.DueDate.String(), Status: string(t.Status),
		})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Date < items[j].Date })

	low := metrics.LowStock(ds.Products)
	sort.Slice(low, func(i, j int) bool { return low[i].Name < low[j].Name })
	lowDTO := make([]dto.LowStockItemDTO, 0, len(low))
	for _, p := range low {
		lowDTO = append(lowDTO, dto.LowStockItemDTO{ID: p.ID, Name: p.Name, Quantity: p.Quantity, MinStock: p.MinStock})
	}

	return &dto.OverdueDTO{AsOf: today.String(), Items: items, LowStock: lowDTO, Synced: ds.Synced}
}

func toCategoryDTOs(in []metrics.CategoryTotal) []dto.CategoryTotalDTO {
	out := make([]dto.CategoryTotalDTO, 0, len(in))
	for _, c := range in {
		out = append(out, dto.CategoryTotalDTO{Category: c.Category, Total: c.Total, Count: c.Count, SharePct: c.SharePct})
	}
	return out
}
