package metrics

import (
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/pkg/date"
)

// LowStock productos con cantidad en o por debajo del mínimo.
func LowStock(products []entity.Product) []entity.Product {
	var out []entity.Product
	for _, p := range products {
		if p.IsLowStock() {
			out = append(out, p)
		}
	}
	return out
}

// StockAlertCount cuántos productos están en alerta de stock.
func StockAlertCount(products []entity.Product) int {
	n := 0
	for _, p := range products {
		if p.IsLowStock() {
			n++
		}
	}
	return n
}

// OverdueReport registros vencidos a una fecha.
type OverdueReport struct {
	Expenses []entity.Expense
	Incomes  []entity.Income
	Tasks    []entity.Task
}

// Overdue reúne lo vencido a today: movimientos marcados overdue o pendientes con fecha anterior,
// y tareas con vencimiento anterior que no estén completadas ni canceladas.
func Overdue(ds Dataset, today date.Date) OverdueReport {
	var r OverdueReport
	for _, e := range ds.Expenses {
		if e.Status == entity.ExpenseOverdue || (e.Status == entity.ExpensePending && e.Date.Before(today)) {
			r.Expenses = append(r.Expenses, e)
		}
	}
	for _, i := range ds.Incomes {
		if i.Status == entity.IncomeOverdue || (i.Status == entity.IncomePending && i.Date.Before(today)) {
			r.Incomes = append(r.Incomes, i)
		}
	}
	for _, t := range ds.Tasks {
		if t.DueDate != nil && t.DueDate.Before(today) && !t.Status.Closed() {
			r.Tasks = append(r.Tasks, t)
		}
	}
	return r
}

// TasksByStatus cuenta tareas por estado; solo aparecen estados con al menos una tarea.
func TasksByStatus(tasks []entity.Task) map[entity.TaskStatus]int {
	out := make(map[entity.TaskStatus]int)
	for _, t := range tasks {
		out[t.Status]++
	}
	return out
}
