// Package pdf implementa el reporte financiero del back-office en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Reporte financiero + usuario │ Periodo + emisión   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Ingresos / Gastos / Utilidad / Margen              │
//	│  PENDIENTES: por cobrar / por pagar                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FLUJO DE CAJA: Periodo | Ingresos | Gastos | Utilidad       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CATEGORÍAS: ingresos y gastos (total, %)                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ALERTAS: vencidos + productos bajo stock mínimo             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/backoffice-api/internal/application/dashboard"
	"github.com/jhoicas/backoffice-api/internal/application/metrics"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/pkg/date"
	"github.com/jhoicas/backoffice-api/pkg/money"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 170, Green: 30, Blue: 30}
)

var windowLabels = map[metrics.Window]string{
	metrics.WindowWeek:    "Última semana",
	metrics.WindowMonth:   "Último mes",
	metrics.WindowQuarter: "Último trimestre",
	metrics.WindowYear:    "Último año",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa dashboard.ReportPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

var _ dashboard.ReportPDFGenerator = (*MarotoPDFGenerator)(nil)

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateFinancialReport genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateFinancialReport(_ context.Context, r *dashboard.FinancialReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte financiero", true).
		WithAuthor(r.Owner, true).
		Build()

	m := maroto.New(cfg)
	f := formatter{currency: r.Currency}

	m.AddRows(headerRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRows(f, r.Summary)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("FLUJO DE CAJA"))
	m.AddRows(tableHeaderRow([]string{"Periodo", "Ingresos", "Gastos", "Utilidad"}, []int{3, 3, 3, 3}))
	m.AddRows(seriesRows(f, r.Series)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("INGRESOS POR CATEGORÍA"))
	m.AddRows(categoryRows(f, r.Incomes)...)
	m.AddRows(sectionTitle("GASTOS POR CATEGORÍA"))
	m.AddRows(categoryRows(f, r.Expenses)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("ALERTAS"))
	m.AddRows(alertRows(f, r.Overdue, r.LowStock)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New("Cifras calculadas sobre los registros sincronizados al momento de la emisión. "+
			"Ingresos y gastos del resumen consideran solo lo recibido y lo pagado.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título + usuario (izq) y periodo + fecha de emisión (der).
func headerRow(r *dashboard.FinancialReport) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("Reporte financiero", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(r.Owner, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(nonEmpty(windowLabels[r.Window], string(r.Window)), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(shortDate(r.From)+" – "+shortDate(r.To), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 7,
			}),
			text.New("Emitido: "+r.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// summaryRows: KPIs realizados y pendientes.
func summaryRows(f formatter, s metrics.Summary) []core.Row {
	kpi := func(label, value string, c *props.Color) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Size: 7, Color: colorGray, Top: 1}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 11, Color: c, Top: 5}),
		)
	}
	netColor := colorPrimary
	if s.Net.IsNegative() {
		netColor = colorRed
	}
	return []core.Row{
		sectionTitle("RESUMEN"),
		row.New(14).Add(
			kpi("Ingresos recibidos", f.money(s.ReceivedIncome), colorPrimary),
			kpi("Gastos pagados", f.money(s.PaidExpense), colorPrimary),
			kpi("Utilidad", f.money(s.Net), netColor),
			kpi("Margen", f.pct(s.ProfitMarginPct), netColor),
		),
		row.New(12).Add(
			kpi("Por cobrar", f.money(s.PendingIncome)+" ("+f.pct(s.PendingIncomePct)+")", colorGray),
			kpi("Por pagar", f.money(s.PendingExpense)+" ("+f.pct(s.PendingExpensePct)+")", colorGray),
			kpi("Nómina mensual", f.money(s.MonthlyPayroll), colorGray),
			kpi("Tareas completadas", fmt.Sprintf("%d/%d", s.CompletedTasks, s.TaskCount), colorGray),
		),
	}
}

func sectionTitle(s string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(s, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
	))
}

// tableHeaderRow: cabecera de tabla; la primera columna a la izquierda, el resto a la derecha.
func tableHeaderRow(labels []string, sizes []int) core.Row {
	cols := make([]core.Col, len(labels))
	for i, l := range labels {
		a := align.Right
		if i == 0 {
			a = align.Left
		}
		cols[i] = col.New(sizes[i]).Add(text.New(l, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorGray, Top: 1, Left: 1, Right: 1,
		}))
	}
	return row.New(6).Add(cols...)
}

func cell(s string, size int, a align.Type, c *props.Color) core.Col {
	return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1, Color: c}))
}

// seriesRows: una fila por bucket; se omiten los buckets sin movimientos.
func seriesRows(f formatter, points []metrics.SeriesPoint) []core.Row {
	out := make([]core.Row, 0, len(points))
	for _, p := range points {
		if p.Income.IsZero() && p.Expense.IsZero() {
			continue
		}
		var profitColor *props.Color
		if p.Profit.IsNegative() {
			profitColor = colorRed
		}
		out = append(out, row.New(5).Add(
			cell(p.Label, 3, align.Left, nil),
			cell(f.money(p.Income), 3, align.Right, nil),
			cell(f.money(p.Expense), 3, align.Right, nil),
			cell(f.money(p.Profit), 3, align.Right, profitColor),
		))
	}
	if len(out) == 0 {
		out = append(out, emptyRow("Sin movimientos en el periodo."))
	}
	return out
}

func categoryRows(f formatter, cats []metrics.CategoryTotal) []core.Row {
	if len(cats) == 0 {
		return []core.Row{emptyRow("Sin registros.")}
	}
	out := make([]core.Row, 0, len(cats))
	for _, c := range cats {
		out = append(out, row.New(5).Add(
			cell(c.Category, 6, align.Left, nil),
			cell(fmt.Sprintf("%d", c.Count), 2, align.Right, colorGray),
			cell(f.money(c.Total), 2, align.Right, nil),
			cell(f.pct(c.SharePct), 2, align.Right, colorGray),
		))
	}
	return out
}

// alertRows: movimientos y tareas vencidas, luego productos bajo stock mínimo.
func alertRows(f formatter, overdue metrics.OverdueReport, lowStock []entity.Product) []core.Row {
	var out []core.Row
	for _, e := range overdue.Expenses {
		out = append(out, alertRow("Gasto vencido", e.Description, shortDate(e.Date), f.money(e.Amount)))
	}
	for _, i := range overdue.Incomes {
		out = append(out, alertRow("Cobro vencido", i.Description, shortDate(i.Date), f.money(i.Amount)))
	}
	for _, t := range overdue.Tasks {
		out = append(out, alertRow("Tarea vencida", t.Title, shortDate(*t.DueDate), entity.OptionLabel(entity.KindTask, "priority", string(t.Priority))))
	}
	for _, p := range lowStock {
		out = append(out, alertRow("Stock bajo", p.Name, fmt.Sprintf("%d / mín. %d", p.Quantity, p.MinStock), f.money(p.Price)))
	}
	if len(out) == 0 {
		out = append(out, emptyRow("Sin alertas."))
	}
	return out
}

func alertRow(kind, what, when, value string) core.Row {
	return row.New(5).Add(
		cell(kind, 2, align.Left, colorRed),
		cell(what, 5, align.Left, nil),
		cell(when, 3, align.Right, colorGray),
		cell(value, 2, align.Right, nil),
	)
}

func emptyRow(msg string) core.Row {
	return row.New(5).Add(col.New(12).Add(
		text.New(msg, props.Text{Size: 8, Color: colorGray, Top: 1, Left: 1}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

type formatter struct{ currency string }

func (f formatter) money(d decimal.Decimal) string { return money.Format(d, f.currency) }

func (f formatter) pct(d decimal.Decimal) string { return d.StringFixed(1) + "%" }

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func shortDate(d date.Date) string {
	if d.IsZero() {
		return "—"
	}
	return d.Time().Format("02/01/2006")
}
