package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/internal/application/metrics"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/pkg/date"
)

type fixedSource metrics.Dataset

func (s fixedSource) Snapshot() metrics.Dataset { return metrics.Dataset(s) }

type captureGenerator struct {
	got *FinancialReport
	err error
}

func (g *captureGenerator) GenerateFinancialReport(_ context.Context, r *FinancialReport) ([]byte, error) {
	g.got = r
	if g.err != nil {
		return nil, g.err
	}
	return []byte("%PDF-1.4"), nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newTestUseCase(gen ReportPDFGenerator) *UseCase {
	uc := NewUseCase("USD", gen)
	uc.now = func() time.Time { return time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC) }
	return uc
}

func sampleData() fixedSource {
	due := date.MustParse("2026-03-01")
	return fixedSource{
		Incomes: []entity.Income{
			{Meta: entity.Meta{ID: "i1"}, Description: "Venta", Amount: dec("1000"), Date: date.MustParse("2026-03-10"), Category: "Ventas", Status: entity.IncomeReceived},
			{Meta: entity.Meta{ID: "i2"}, Description: "Consultoría", Amount: dec("300"), Date: date.MustParse("2026-02-20"), Category: "Servicios", Status: entity.IncomePending},
		},
		Expenses: []entity.Expense{
			{Meta: entity.Meta{ID: "e1"}, Description: "Arriendo", Amount: dec("400"), Date: date.MustParse("2026-03-05"), Category: "Instalaciones", Status: entity.ExpensePaid},
			{Meta: entity.Meta{ID: "e2"}, Description: "Luz", Amount: dec("50"), Date: date.MustParse("2026-03-01"), Category: "Servicios públicos", Status: entity.ExpenseOverdue},
		},
		Products: []entity.Product{
			{Meta: entity.Meta{ID: "p1"}, Name: "Tornillos", Quantity: 2, MinStock: 10},
			{Meta: entity.Meta{ID: "p2"}, Name: "Arandelas", Quantity: 50, MinStock: 10},
		},
		Tasks: []entity.Task{
			{Meta: entity.Meta{ID: "t1"}, Title: "Declarar IVA", DueDate: &due, Status: entity.TaskPending, Priority: entity.PriorityHigh},
			{Meta: entity.Meta{ID: "t2"}, Title: "Cerrar mes", Status: entity.TaskCompleted, Priority: entity.PriorityLow},
		},
		Synced: true,
	}
}

func TestSummary(t *testing.T) {
	uc := newTestUseCase(nil)
	out := uc.Summary(sampleData())

	assert.True(t, out.ReceivedIncome.Equal(dec("1000")))
	assert.True(t, out.PaidExpense.Equal(dec("400")))
	assert.True(t, out.Net.Equal(dec("600")))
	assert.True(t, out.ProfitMarginPct.Equal(dec("60")))
	assert.Equal(t, 1, out.LowStockCount)
	assert.Equal(t, "$600.00", out.Display["net"])
	assert.True(t, out.Synced)
}

func TestCashFlow(t *testing.T) {
	uc := newTestUseCase(nil)

	out, err := uc.CashFlow(sampleData(), "")
	require.NoError(t, err)
	assert.Equal(t, "month", out.Window)
	assert.Equal(t, "2026-03-15", out.To)
	assert.Equal(t, "2026-02-15", out.From)
	assert.Len(t, out.Points, 29)

	_, err = uc.CashFlow(sampleData(), "decade")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCategories(t *testing.T) {
	uc := newTestUseCase(nil)
	out := uc.Categories(sampleData())

	require.Len(t, out.Incomes, 2)
	assert.Equal(t, "Ventas", out.Incomes[0].Category)
	assert.Equal(t, 1, out.TasksByStatus["pending"])
	assert.Equal(t, 1, out.TasksByStatus["completed"])
}

func TestOverdue(t *testing.T) {
	uc := newTestUseCase(nil)
	out := uc.Overdue(sampleData())

	assert.Equal(t, "2026-03-15", out.AsOf)
	require.Len(t, out.Items, 3)
	assert.Equal(t, "2026-02-20", out.Items[0].Date)
	assert.Equal(t, "incomes", out.Items[0].Kind)
	require.Len(t, out.LowStock, 1)
	assert.Equal(t, "Tornillos", out.LowStock[0].Name)
}

func TestFinancialReportPDF(t *testing.T) {
	gen := &captureGenerator{}
	uc := newTestUseCase(gen)

	pdf, name, err := uc.FinancialReportPDF(context.Background(), sampleData(), "ana@example.com", "quarter")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), pdf)
	assert.Equal(t, "reporte-financiero-quarter-2026-03-15.pdf", name)

	require.NotNil(t, gen.got)
	assert.Len(t, gen.got.Series, 4)
	assert.Equal(t, "USD", gen.got.Currency)
	assert.Len(t, gen.got.LowStock, 1)
	assert.Len(t, gen.got.Overdue.Tasks, 1)
}

func TestFinancialReportPDF_SinSincronizar(t *testing.T) {
	uc := newTestUseCase(&captureGenerator{})
	ds := sampleData()
	ds.Synced = false

	_, _, err := uc.FinancialReportPDF(context.Background(), ds, "ana@example.com", "month")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFinancialReportPDF_ErrorDelGenerador(t *testing.T) {
	uc := newTestUseCase(&captureGenerator{err: errors.New("fuente no encontrada")})

	_, _, err := uc.FinancialReportPDF(context.Background(), sampleData(), "ana@example.com", "week")
	assert.Error(t, err)
}
