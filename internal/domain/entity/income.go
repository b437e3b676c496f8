package entity

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/backoffice-api/pkg/date"
)

// IncomeStatus estado de cobro de un ingreso.
type IncomeStatus string

const (
	IncomeReceived IncomeStatus = "received"
	IncomePending  IncomeStatus = "pending"
	IncomeOverdue  IncomeStatus = "overdue"
)

func (s IncomeStatus) Valid() bool {
	switch s {
	case IncomeReceived, IncomePending, IncomeOverdue:
		return true
	}
	return false
}

// Income representa un ingreso (venta, servicio, inversión).
type Income struct {
	Meta
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        date.Date       `json:"date"`
	Category    string          `json:"category"`
	Status      IncomeStatus    `json:"status"`
}

func (i Income) Validate() error {
	if err := required("description", i.Description); err != nil {
		return err
	}
	if err := validAmount(i.Amount); err != nil {
		return err
	}
	if i.Date.IsZero() {
		return invalid("date", "es obligatoria")
	}
	if err := required("category", i.Category); err != nil {
		return err
	}
	if !i.Status.Valid() {
		return invalid("status", "no es un estado de ingreso válido")
	}
	return nil
}

func (i Income) Normalize() Income {
	if i.Status == "" {
		i.Status = IncomePending
	}
	return i
}

func (i Income) WithID(id string) Income       { i.ID = id; return i }
func (i Income) OwnedBy(userID string) Income { i.OwnerID = userID; return i }

// IncomePatch actualización parcial de un ingreso.
type IncomePatch struct {
	Description *string          `json:"description,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Date        *date.Date       `json:"date,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Status      *IncomeStatus    `json:"status,omitempty"`
}

func (p IncomePatch) Validate() error {
	if p == (IncomePatch{}) {
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
		return invalid("status", "no es un estado de ingreso válido")
	}
	return nil
}
