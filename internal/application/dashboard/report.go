package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/backoffice-api/internal/application/metrics"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/pkg/date"
)

// ReportPDFGenerator puerto del generador de PDF (infraestructura).
type ReportPDFGenerator interface {
	GenerateFinancialReport(ctx context.Context, report *FinancialReport) ([]byte, error)
}

// FinancialReport datos del reporte financiero de un periodo.
type FinancialReport struct {
	Owner       string
	Currency    string
	GeneratedAt time.Time
	Window      metrics.Window
	From, To    date.Date

	Summary  metrics.Summary
	Series   []metrics.SeriesPoint
	Incomes  []metrics.CategoryTotal
	Expenses []metrics.CategoryTotal
	LowStock []entity.Product
	Overdue  metrics.OverdueReport
}

// FinancialReportPDF genera el PDF del periodo window para el dueño de la sesión.
//
// Tres cálculos en paralelo sobre el mismo snapshot:
//  1. Series(window)        → flujo de caja
//  2. categorías            → ingresos y gastos por categoría
//  3. Overdue + LowStock    → alertas
func (uc *UseCase) FinancialReportPDF(ctx context.Context, src Source, owner, window string) (pdfBytes []byte, filename string, err error) {
	if uc.generator == nil {
		return nil, "", fmt.Errorf("reporte: sin generador de PDF")
	}
	w, err := metrics.ParseWindow(window)
	if err != nil {
		return nil, "", err
	}
	ds := src.Snapshot()
	if !ds.Synced {
		return nil, "", fmt.Errorf("%w: los datos aún se están sincronizando", domain.ErrInvalidInput)
	}
	now := uc.now()
	today := date.Of(now)

	type seriesResult struct {
		points []metrics.SeriesPoint
		err    error
	}
	type categoriesResult struct {
		incomes, expenses []metrics.CategoryTotal
	}
	type alertsResult struct {
		overdue  metrics.OverdueReport
		lowStock []entity.Product
	}

	seriesCh := make(chan seriesResult, 1)
	catCh := make(chan categoriesResult, 1)
	alertsCh := make(chan alertsResult, 1)

	go func() {
		points, err := metrics.Series(w, ds.Incomes, ds.Expenses, today)
		seriesCh <- seriesResult{points, err}
	}()
	go func() {
		catCh <- categoriesResult{metrics.IncomeByCategory(ds.Incomes), metrics.ExpenseByCategory(ds.Expenses)}
	}()
	go func() {
		alertsCh <- alertsResult{metrics.Overdue(ds, today), metrics.LowStock(ds.Products)}
	}()

	series := <-seriesCh
	cats := <-catCh
	alerts := <-alertsCh
	if series.err != nil {
		return nil, "", fmt.Errorf("reporte: flujo de caja: %w", series.err)
	}

	report := &FinancialReport{
		Owner:       owner,
		Currency:    uc.currency,
		GeneratedAt: now,
		Window:      w,
		From:        w.Start(today),
		To:          today,
		Summary:     metrics.Totals(ds),
		Series:      series.points,
		Incomes:     cats.incomes,
		Expenses:    cats.expenses,
		LowStock:    alerts.lowStock,
		Overdue:     alerts.overdue,
	}
	pdfBytes, err = uc.generator.GenerateFinancialReport(ctx, report)
	if err != nil {
		return nil, "", fmt.Errorf("reporte: generar PDF: %w", err)
	}
	return pdfBytes, fmt.Sprintf("reporte-financiero-%s-%s.pdf", w, today), nil
}
