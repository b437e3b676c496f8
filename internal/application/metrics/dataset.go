// Package metrics calcula las cifras derivadas del tablero a partir de las colecciones en memoria.
// Todas las funciones son puras: reciben los datos (y la fecha de hoy) y no guardan estado.
package metrics

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Dataset copia consistente de las seis colecciones de una sesión.
// Synced es false mientras alguna colección no haya recibido su primer snapshot.
type Dataset struct {
	Expenses  []entity.Expense
	Incomes   []entity.Income
	Products  []entity.Product
	Customers []entity.Customer
	Employees []entity.Employee
	Tasks     []entity.Task
	Synced    bool
}

// percent devuelve part/whole*100 redondeado a 2 decimales, o 0 si whole no es positivo.
func percent(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred).Round(2)
}

func ratio(part, whole int) decimal.Decimal {
	return percent(decimal.NewFromInt(int64(part)), decimal.NewFromInt(int64(whole)))
}
