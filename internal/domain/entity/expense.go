package entity

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/backoffice-api/pkg/date"
)

// ExpenseStatus estado de pago de un gasto.
type ExpenseStatus string

const (
	ExpensePaid    ExpenseStatus = "paid"
	ExpensePending ExpenseStatus = "pending"
	ExpenseOverdue ExpenseStatus = "overdue"
)

func (s ExpenseStatus) Valid() bool {
	switch s {
	case ExpensePaid, ExpensePending, ExpenseOverdue:
		return true
	}
	return false
}

// Expense representa un gasto del negocio.
type Expense struct {
	Meta
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        date.Date       `json:"date"`
	Category    string          `json:"category"`
	Status      ExpenseStatus   `json:"status"`
}

func (e Expense) Validate() error {
	if err := required("description", e.Description); err != nil {
		return err
	}
	if err := validAmount(e.Amount); err != nil {
		return err
	}
	if e.Date.IsZero() {
		return invalid("date", "es obligatoria")
	}
	if err := required("category", e.Category); err != nil {
		return err
	}
	if !e.Status.Valid() {
		return invalid("status", "no es un estado de gasto válido")
	}
	return nil
}

// Normalize completa el estado por defecto (pending).
func (e Expense) Normalize() Expense {
	if e.Status == "" {
		e.Status = ExpensePending
	}
	return e
}

func (e Expense) WithID(id string) Expense       { e.ID = id; return e }
func (e Expense) OwnedBy(userID string) Expense { e.OwnerID = userID; return e }

// ExpensePatch actualización parcial de un gasto; los campos nil no se tocan.
type ExpensePatch struct {
	Description *string          `json:"description,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Date        *date.Date       `json:"date,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Status      *ExpenseStatus   `json:"status,omitempty"`
}

func (p ExpensePatch) Validate() error {
	if p == (ExpensePatch{}) {
		return emptyPatch()
	}
	if err := requiredPtr("description", p.Description); err != nil {
		return err
	}
	if p.Amount != nil {
		if err := validAmount(*p.Amount); err != nil {
			return err
		}
	}
	if p.Date != nil && p.Date.IsZero() {
		return invalid("date", "es obligatoria")
	}
	if err := requiredPtr("category", p.Category); err != nil {
		return err
	}
	if p.Status != nil && !p.Status.Valid() {
		return invalid("status", "no es un estado de gasto válido")
	}
	return nil
}

func validAmount(v decimal.Decimal) error {
	if v.IsNegative() {
		return invalid("amount", "no puede ser negativo")
	}
	return nil
}
