package metrics

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/pkg/date"
)

// Window periodo del flujo de caja.
type Window string

const (
	WindowWeek    Window = "week"
	WindowMonth   Window = "month"
	WindowQuarter Window = "quarter"
	WindowYear    Window = "year"
)

// ParseWindow acepta week, month, quarter o year. Vacío equivale a month.
func ParseWindow(s string) (Window, error) {
	switch w := Window(s); w {
	case WindowWeek, WindowMonth, WindowQuarter, WindowYear:
		return w, nil
	case "":
		return WindowMonth, nil
	}
	return "", fmt.Errorf("%w: periodo %q (use week, month, quarter o year)", domain.ErrInvalidInput, s)
}

// Start primer día que cuenta la ventana. La semana son los últimos 7 días contando hoy;
// month, quarter y year restan 1 mes, 3 meses o 1 año.
func (w Window) Start(today date.Date) date.Date {
	switch w {
	case WindowWeek:
		return today.AddDays(-6)
	case WindowQuarter:
		return today.AddMonths(-3)
	case WindowYear:
		return today.AddYears(-1)
	default:
		return today.AddMonths(-1)
	}
}

// daily indica si los buckets son días (week, month) o meses (quarter, year).
func (w Window) daily() (bool, error) {
	switch w {
	case WindowWeek, WindowMonth:
		return true, nil
	case WindowQuarter, WindowYear:
		return false, nil
	}
	return false, fmt.Errorf("%w: periodo %q", domain.ErrInvalidInput, string(w))
}

// SeriesPoint un bucket del flujo de caja.
type SeriesPoint struct {
	Label   string
	Start   date.Date
	Income  decimal.Decimal
	Expense decimal.Decimal
	Profit  decimal.Decimal
}

var monthAbbr = [...]string{"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sep", "oct", "nov", "dic"}

// Series reparte ingresos y gastos (de cualquier estado) fechados entre w.Start(today) y today.
// Los buckets cubren todo ese rango, aparecen aunque no tengan movimientos y van de más antiguo
// a más reciente: un día por bucket en week y month, un mes calendario en quarter y year
// (el primero puede ser parcial).
func Series(w Window, incomes []entity.Income, expenses []entity.Expense, today date.Date) ([]SeriesPoint, error) {
	daily, err := w.daily()
	if err != nil {
		return nil, err
	}
	start := w.Start(today)

	key := func(d date.Date) date.Date {
		if daily {
			return d
		}
		return d.FirstOfMonth()
	}

	var points []SeriesPoint
	index := make(map[date.Date]int)
	for b := key(start); !b.After(today); {
		index[b] = len(points)
		points = append(points, SeriesPoint{
			Label:   label(b, daily, w == WindowYear),
			Start:   b,
			Income:  decimal.Zero,
			Expense: decimal.Zero,
		})
		if daily {
			b = b.AddDays(1)
		} else {
			b = b.AddMonths(1)
		}
	}

	bucket := func(d date.Date) (int, bool) {
		if d.Before(start) || d.After(today) {
			return 0, false
		}
		i, ok := index[key(d)]
		return i, ok
	}
	for _, in := range incomes {
		if i, ok := bucket(in.Date); ok {
			points[i].Income = points[i].Income.Add(in.Amount)
		}
	}
	for _, ex := range expenses {
		if i, ok := bucket(ex.Date); ok {
			points[i].Expense = points[i].Expense.Add(ex.Amount)
		}
	}
	for i := range points {
		points[i].Profit = points[i].Income.Sub(points[i].Expense)
	}
	return points, nil
}

// label "02 ene" para días, "ene" para meses y "ene 26" en la vista anual.
func label(d date.Date, daily, withYear bool) string {
	m := monthAbbr[d.Month()-1]
	switch {
	case daily:
		return fmt.Sprintf("%02d %s", d.Day(), m)
	case withYear:
		return fmt.Sprintf("%s %02d", m, d.Year()%100)
	default:
		return m
	}
}
